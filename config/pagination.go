package config

import "github.com/target/jobboard/internal/pagination"

const (
	defaultPageSize     = 20
	defaultMaxPageSize  = 100
	// hardMaxPageSize matches the cap the services apply to every list query.
	hardMaxPageSize     = 100
	defaultSiblingCount = 1
	maxSiblingCount     = pagination.MaxSiblings
)

// PaginationConfig controls list paging for the JSON API.
type PaginationConfig struct {
	DefaultPageSize int `env:"PAGINATION_DEFAULT_PAGE_SIZE" envDefault:"20"`
	MaxPageSize     int `env:"PAGINATION_MAX_PAGE_SIZE"     envDefault:"100"`
	// SiblingCount is how many pages appear on each side of the current page
	// in the page-number window.
	SiblingCount int `env:"PAGINATION_SIBLING_COUNT" envDefault:"1"`
}

// Sanitize clamps paging values into usable ranges.
func (p *PaginationConfig) Sanitize() {
	if p.MaxPageSize <= 0 {
		p.MaxPageSize = defaultMaxPageSize
	}
	if p.MaxPageSize > hardMaxPageSize {
		p.MaxPageSize = hardMaxPageSize
	}
	if p.DefaultPageSize <= 0 {
		p.DefaultPageSize = defaultPageSize
	}
	if p.DefaultPageSize > p.MaxPageSize {
		p.DefaultPageSize = p.MaxPageSize
	}
	if p.SiblingCount < 0 {
		p.SiblingCount = defaultSiblingCount
	}
	if p.SiblingCount > maxSiblingCount {
		p.SiblingCount = maxSiblingCount
	}
}

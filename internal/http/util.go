package httpx

import (
	"math"
	"net/http"
	"strconv"
	"strings"
)

// parseIntQuery returns the integer value of a query param or a default.
// It is tolerant of missing/invalid values.
func parseIntQuery(r *http.Request, key string, def int) int {
	if v := strings.TrimSpace(r.URL.Query().Get(key)); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

// ParsePage parses the 1-based "page" and "page_size" params and clamps them to sane bounds.
// - defSize: page size when not specified
// - maxSize: maximum allowed page size (larger values are clamped to maxSize).
func ParsePage(r *http.Request, defSize, maxSize int) (int, int) {
	// maxSize below 1 would clamp every page to zero rows
	if maxSize < 1 {
		maxSize = 1
	}

	page := parseIntQuery(r, "page", 1)
	size := parseIntQuery(r, "page_size", defSize)
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 1
	}
	if size > maxSize {
		size = maxSize
	}
	// keep (page-1)*size representable as an offset
	if page > math.MaxInt/size {
		page = math.MaxInt / size
	}
	return page, size
}

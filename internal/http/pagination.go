package httpx

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/target/jobboard/internal/pagination"
	"github.com/target/jobboard/internal/service"
)

// Paging carries the list paging settings from configuration.
type Paging struct {
	DefaultPageSize int
	MaxPageSize     int
	SiblingCount    int
}

func (p Paging) withDefaults() Paging {
	if p.MaxPageSize <= 0 {
		p.MaxPageSize = 100
	}
	if p.DefaultPageSize <= 0 {
		p.DefaultPageSize = min(20, p.MaxPageSize)
	}
	p.SiblingCount = max(p.SiblingCount, 0)
	return p
}

// PageLink is one entry of the page-number window. Ellipsis entries carry only Type.
type PageLink struct {
	Type    pagination.MarkerKind `json:"type"`
	Page    int                   `json:"page,omitempty"`
	URL     string                `json:"url,omitempty"`
	Current bool                  `json:"current,omitempty"`
}

// PageInfo describes where a page sits in the full result set.
type PageInfo struct {
	Page       int        `json:"page"`
	PageSize   int        `json:"page_size"`
	TotalCount int        `json:"total_count"`
	TotalPages int        `json:"total_pages"`
	HasPrev    bool       `json:"has_prev"`
	HasNext    bool       `json:"has_next"`
	PrevURL    string     `json:"prev_url,omitempty"`
	NextURL    string     `json:"next_url,omitempty"`
	Window     []PageLink `json:"window"`
}

// ListResponse is the envelope shared by every paginated endpoint.
type ListResponse[T any] struct {
	Items      []T      `json:"items"`
	Pagination PageInfo `json:"pagination"`
}

// pageFetcher loads one page of results given a limit and offset.
type pageFetcher[T any] func(ctx context.Context, limit, offset int) (service.ListResult[T], error)

// paginate reads page and page_size from r, fetches that page and builds the envelope.
// A page past the end is clamped to the last page and fetched again.
func paginate[T any](r *http.Request, p Paging, fetch pageFetcher[T]) (ListResponse[T], error) {
	p = p.withDefaults()
	page, size := ParsePage(r, p.DefaultPageSize, p.MaxPageSize)

	res, err := fetch(r.Context(), size, (page-1)*size)
	if err != nil {
		return ListResponse[T]{}, err
	}

	st := pagination.NewState(1, 0, p.SiblingCount)
	st = pagination.Reduce(st, pagination.SetTotal(pagination.TotalPages(res.Total, size)))
	st = pagination.Reduce(st, pagination.GoTo(page))
	if st.Current != page && st.Total > 0 {
		res, err = fetch(r.Context(), size, (st.Current-1)*size)
		if err != nil {
			return ListResponse[T]{}, err
		}
	}

	return ListResponse[T]{
		Items:      res.Items,
		Pagination: buildPageInfo(r.URL, st, size, res.Total),
	}, nil
}

// buildPageInfo renders st as PageInfo. The window stays empty for a single page or none.
func buildPageInfo(u *url.URL, st pagination.State, size, totalCount int) PageInfo {
	info := PageInfo{
		Page:       st.Current,
		PageSize:   size,
		TotalCount: totalCount,
		TotalPages: st.Total,
		HasPrev:    st.HasPrev(),
		HasNext:    st.HasNext(),
		Window:     []PageLink{},
	}
	if info.HasPrev {
		info.PrevURL = pageURL(u, pagination.Reduce(st, pagination.Prev()).Current)
	}
	if info.HasNext {
		info.NextURL = pageURL(u, pagination.Reduce(st, pagination.Next()).Current)
	}
	if st.Total <= 1 {
		return info
	}
	for _, m := range st.Window() {
		info.Window = append(info.Window, pageLink(u, m, st.Current))
	}
	return info
}

func pageLink(u *url.URL, m pagination.Marker, current int) PageLink {
	if m.IsEllipsis() {
		return PageLink{Type: pagination.KindEllipsis}
	}
	return PageLink{Type: pagination.KindPage, Page: m.Number, URL: pageURL(u, m.Number), Current: m.Number == current}
}

// pageURL returns the request's path and query with page set to n, or "" without a base URL.
func pageURL(u *url.URL, n int) string {
	if u == nil {
		return ""
	}
	q := u.Query()
	q.Set("page", strconv.Itoa(n))
	out := url.URL{Path: u.Path, RawQuery: q.Encode()}
	return out.String()
}

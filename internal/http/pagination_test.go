package httpx

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/target/jobboard/internal/pagination"
	"github.com/target/jobboard/internal/service"
)

type fetchCall struct{ limit, offset int }

// fakeFetcher serves total integers and records each call.
func fakeFetcher(total int, calls *[]fetchCall) pageFetcher[int] {
	return func(_ context.Context, limit, offset int) (service.ListResult[int], error) {
		*calls = append(*calls, fetchCall{limit, offset})
		items := []int{}
		for i := offset; i < min(offset+limit, total); i++ {
			items = append(items, i)
		}
		return service.ListResult[int]{Items: items, Total: total}, nil
	}
}

func TestPaginate_MiddlePage(t *testing.T) {
	var calls []fetchCall
	r := httptest.NewRequest(http.MethodGet, "/api/jobs?q=go&page=5&page_size=10", nil)

	resp, err := paginate(r, Paging{DefaultPageSize: 20, MaxPageSize: 100, SiblingCount: 1}, fakeFetcher(200, &calls))
	require.NoError(t, err)

	assert.Equal(t, []fetchCall{{10, 40}}, calls)
	assert.Equal(t, []int{40, 41, 42, 43, 44, 45, 46, 47, 48, 49}, resp.Items)

	p := resp.Pagination
	assert.Equal(t, 5, p.Page)
	assert.Equal(t, 10, p.PageSize)
	assert.Equal(t, 200, p.TotalCount)
	assert.Equal(t, 20, p.TotalPages)
	assert.True(t, p.HasPrev)
	assert.True(t, p.HasNext)
	assert.Equal(t, "/api/jobs?page=4&page_size=10&q=go", p.PrevURL)
	assert.Equal(t, "/api/jobs?page=6&page_size=10&q=go", p.NextURL)

	want := []PageLink{
		{Type: pagination.KindPage, Page: 1, URL: "/api/jobs?page=1&page_size=10&q=go"},
		{Type: pagination.KindEllipsis},
		{Type: pagination.KindPage, Page: 4, URL: "/api/jobs?page=4&page_size=10&q=go"},
		{Type: pagination.KindPage, Page: 5, URL: "/api/jobs?page=5&page_size=10&q=go", Current: true},
		{Type: pagination.KindPage, Page: 6, URL: "/api/jobs?page=6&page_size=10&q=go"},
		{Type: pagination.KindEllipsis},
		{Type: pagination.KindPage, Page: 20, URL: "/api/jobs?page=20&page_size=10&q=go"},
	}
	assert.Equal(t, want, p.Window)
}

func TestPaginate_SinglePageHasEmptyWindow(t *testing.T) {
	var calls []fetchCall
	r := httptest.NewRequest(http.MethodGet, "/api/jobs", nil)

	resp, err := paginate(r, Paging{DefaultPageSize: 20, MaxPageSize: 100, SiblingCount: 1}, fakeFetcher(3, &calls))
	require.NoError(t, err)

	assert.Equal(t, 1, resp.Pagination.TotalPages)
	assert.NotNil(t, resp.Pagination.Window)
	assert.Empty(t, resp.Pagination.Window)
	assert.False(t, resp.Pagination.HasPrev)
	assert.False(t, resp.Pagination.HasNext)
	assert.Empty(t, resp.Pagination.PrevURL)
	assert.Empty(t, resp.Pagination.NextURL)
}

func TestPaginate_EmptyResult(t *testing.T) {
	var calls []fetchCall
	r := httptest.NewRequest(http.MethodGet, "/api/jobs?page=3", nil)

	resp, err := paginate(r, Paging{}, fakeFetcher(0, &calls))
	require.NoError(t, err)

	assert.Len(t, calls, 1, "nothing to clamp to, no refetch")
	assert.Equal(t, 1, resp.Pagination.Page)
	assert.Equal(t, 0, resp.Pagination.TotalPages)
	assert.Empty(t, resp.Pagination.Window)
	assert.Empty(t, resp.Items)
}

func TestPaginate_ClampsPastLastPage(t *testing.T) {
	var calls []fetchCall
	r := httptest.NewRequest(http.MethodGet, "/api/jobs?page=99&page_size=10", nil)

	resp, err := paginate(r, Paging{DefaultPageSize: 20, MaxPageSize: 100, SiblingCount: 1}, fakeFetcher(25, &calls))
	require.NoError(t, err)

	assert.Equal(t, []fetchCall{{10, 980}, {10, 20}}, calls)
	assert.Equal(t, 3, resp.Pagination.Page)
	assert.Equal(t, []int{20, 21, 22, 23, 24}, resp.Items)
	assert.False(t, resp.Pagination.HasNext)
	assert.Len(t, resp.Pagination.Window, 3)
}

func TestPaginate_PageSizeBounds(t *testing.T) {
	var calls []fetchCall
	paging := Paging{DefaultPageSize: 20, MaxPageSize: 50}

	_, err := paginate(httptest.NewRequest(http.MethodGet, "/x?page_size=500&page=-4", nil), paging, fakeFetcher(0, &calls))
	require.NoError(t, err)
	_, err = paginate(httptest.NewRequest(http.MethodGet, "/x?page_size=abc", nil), paging, fakeFetcher(0, &calls))
	require.NoError(t, err)

	assert.Equal(t, []fetchCall{{50, 0}, {20, 0}}, calls)
}

func TestPaginate_FetchError(t *testing.T) {
	boom := errors.New("boom")
	r := httptest.NewRequest(http.MethodGet, "/x", nil)
	_, err := paginate(r, Paging{}, func(context.Context, int, int) (service.ListResult[int], error) {
		return service.ListResult[int]{}, boom
	})
	require.ErrorIs(t, err, boom)
}

package httpx

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/target/jobboard/internal/pagination"
)

type windowResponse struct {
	Page       int        `json:"page"`
	TotalPages int        `json:"total_pages"`
	Siblings   int        `json:"siblings"`
	HasPrev    bool       `json:"has_prev"`
	HasNext    bool       `json:"has_next"`
	Markers    []PageLink `json:"markers"`
	Text       []string   `json:"text"`
}

// PaginationWindow handles GET /api/pagination/window?page=&total_pages=&siblings=.
// It exposes the window computation for clients rendering their own controls.
// Unlike list envelopes it always answers, even for a single page.
// siblings is capped at pagination.MaxSiblings, which bounds the response size.
func PaginationWindow(defaultSiblings int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		total, err := strconv.Atoi(q.Get("total_pages"))
		if err != nil || total < 0 {
			WriteError(w, ErrorParams{
				Code:    http.StatusBadRequest,
				ErrCode: "validation_failed",
				Err:     errors.New("total_pages must be a non-negative integer"),
				Field:   "total_pages",
			})
			return
		}
		page := parseIntQuery(r, "page", 1)
		siblings := parseIntQuery(r, "siblings", defaultSiblings)

		st := pagination.Reduce(pagination.NewState(page, total, defaultSiblings), pagination.SetSiblings(siblings))
		markers := st.Window()

		resp := windowResponse{
			Page:       st.Current,
			TotalPages: st.Total,
			Siblings:   st.Siblings,
			HasPrev:    st.HasPrev(),
			HasNext:    st.HasNext(),
			Markers:    make([]PageLink, 0, len(markers)),
			Text:       make([]string, 0, len(markers)),
		}
		for _, m := range markers {
			resp.Markers = append(resp.Markers, pageLink(nil, m, st.Current))
			resp.Text = append(resp.Text, m.String())
		}
		WriteJSON(w, http.StatusOK, resp)
	}
}

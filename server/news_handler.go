package server

import (
	"net/http"

	"LabelCMS/model"
)

// NewsHandler serves /api/news with the same shapes as ReleasesHandler.
func (h *APIHandler) NewsHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	switch r.Method {
	case http.MethodGet:
		switch r.URL.Query().Get("action") {
		case "latest":
			articles, err := h.news.ListLatest(ctx, queryLimit(r))
			if err != nil {
				respondError(w, r, "News", err)
				return
			}
			respondOK(w, http.StatusOK, "Latest news retrieved successfully", articles)
		case "getById":
			id, err := queryID(r, "id")
			if err != nil {
				respondError(w, r, "News", err)
				return
			}
			article, err := h.news.GetByID(ctx, id)
			if err != nil {
				respondError(w, r, "News", err)
				return
			}
			respondOK(w, http.StatusOK, "News retrieved successfully", article)
		default:
			articles, err := h.news.ListAll(ctx)
			if err != nil {
				respondError(w, r, "News", err)
				return
			}
			respondOK(w, http.StatusOK, "All news retrieved successfully", articles)
		}

	case http.MethodPost:
		if !h.canWrite(w, r, "News") {
			return
		}
		var in model.NewsInput
		if _, err := readBody(r, false, &in); err != nil {
			respondError(w, r, "News", err)
			return
		}
		id, err := h.news.Create(ctx, in)
		if err != nil {
			respondError(w, r, "News", err)
			return
		}
		respondOK(w, http.StatusCreated, "News created successfully", map[string]int64{"id": id})

	case http.MethodPut:
		if !h.canWrite(w, r, "News") {
			return
		}
		var in model.NewsInput
		id, err := readBody(r, true, &in)
		if err != nil {
			respondError(w, r, "News", err)
			return
		}
		if err := h.news.Update(ctx, id, in); err != nil {
			respondError(w, r, "News", err)
			return
		}
		respondOK(w, http.StatusOK, "News updated successfully", map[string]int64{"id": id})

	case http.MethodDelete:
		if !h.canWrite(w, r, "News") {
			return
		}
		id, err := readBody(r, true, nil)
		if err != nil {
			respondError(w, r, "News", err)
			return
		}
		if err := h.news.Delete(ctx, id); err != nil {
			respondError(w, r, "News", err)
			return
		}
		respondOK(w, http.StatusOK, "News deleted successfully", nil)

	default:
		methodNotAllowed(w)
	}
}

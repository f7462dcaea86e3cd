package server

import (
	"net/http"

	"LabelCMS/model"
)

// ReleasesHandler serves /api/releases.
//
//	GET                               list all
//	GET ?action=latest&limit=N        newest N
//	GET ?action=getById&id=N          one release
//	GET ?action=getWithTracks&id=N    one release with its tracks
//	POST {fields}                     create
//	PUT {id, fields}                  partial update
//	DELETE {id}                       delete with tracks
func (h *APIHandler) ReleasesHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	switch r.Method {
	case http.MethodGet:
		switch r.URL.Query().Get("action") {
		case "latest":
			releases, err := h.releases.ListLatest(ctx, queryLimit(r))
			if err != nil {
				respondError(w, r, "Release", err)
				return
			}
			respondOK(w, http.StatusOK, "Latest releases retrieved successfully", releases)
		case "getById":
			id, err := queryID(r, "id")
			if err != nil {
				respondError(w, r, "Release", err)
				return
			}
			release, err := h.releases.GetByID(ctx, id)
			if err != nil {
				respondError(w, r, "Release", err)
				return
			}
			respondOK(w, http.StatusOK, "Release retrieved successfully", release)
		case "getWithTracks":
			id, err := queryID(r, "id")
			if err != nil {
				respondError(w, r, "Release", err)
				return
			}
			release, err := h.releases.GetWithTracks(ctx, id)
			if err != nil {
				respondError(w, r, "Release", err)
				return
			}
			respondOK(w, http.StatusOK, "Release retrieved successfully", release)
		default:
			releases, err := h.releases.ListAll(ctx)
			if err != nil {
				respondError(w, r, "Release", err)
				return
			}
			respondOK(w, http.StatusOK, "All releases retrieved successfully", releases)
		}

	case http.MethodPost:
		if !h.canWrite(w, r, "Release") {
			return
		}
		var in model.ReleaseInput
		if _, err := readBody(r, false, &in); err != nil {
			respondError(w, r, "Release", err)
			return
		}
		id, err := h.releases.Create(ctx, in)
		if err != nil {
			respondError(w, r, "Release", err)
			return
		}
		respondOK(w, http.StatusCreated, "Release created successfully", map[string]int64{"id": id})

	case http.MethodPut:
		if !h.canWrite(w, r, "Release") {
			return
		}
		var in model.ReleaseInput
		id, err := readBody(r, true, &in)
		if err != nil {
			respondError(w, r, "Release", err)
			return
		}
		if err := h.releases.Update(ctx, id, in); err != nil {
			respondError(w, r, "Release", err)
			return
		}
		respondOK(w, http.StatusOK, "Release updated successfully", map[string]int64{"id": id})

	case http.MethodDelete:
		if !h.canWrite(w, r, "Release") {
			return
		}
		id, err := readBody(r, true, nil)
		if err != nil {
			respondError(w, r, "Release", err)
			return
		}
		if err := h.releases.Delete(ctx, id); err != nil {
			respondError(w, r, "Release", err)
			return
		}
		respondOK(w, http.StatusOK, "Release deleted successfully", nil)

	default:
		methodNotAllowed(w)
	}
}

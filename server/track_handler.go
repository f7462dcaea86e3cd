package server

import (
	"net/http"

	"LabelCMS/model"
)

// TracksHandler serves /api/tracks. Besides the common list/getById/write
// shapes it supports GET ?action=getByReleaseId&releaseId=N.
func (h *APIHandler) TracksHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	switch r.Method {
	case http.MethodGet:
		switch r.URL.Query().Get("action") {
		case "getByReleaseId":
			releaseID, err := queryID(r, "releaseId")
			if err != nil {
				respondError(w, r, "Track", err)
				return
			}
			tracks, err := h.tracks.ListByRelease(ctx, releaseID)
			if err != nil {
				respondError(w, r, "Track", err)
				return
			}
			respondOK(w, http.StatusOK, "Tracks retrieved successfully", tracks)
		case "getById":
			id, err := queryID(r, "id")
			if err != nil {
				respondError(w, r, "Track", err)
				return
			}
			track, err := h.tracks.GetByID(ctx, id)
			if err != nil {
				respondError(w, r, "Track", err)
				return
			}
			respondOK(w, http.StatusOK, "Track retrieved successfully", track)
		default:
			tracks, err := h.tracks.ListAll(ctx)
			if err != nil {
				respondError(w, r, "Track", err)
				return
			}
			respondOK(w, http.StatusOK, "All tracks retrieved successfully", tracks)
		}

	case http.MethodPost:
		if !h.canWrite(w, r, "Track") {
			return
		}
		var in model.TrackInput
		if _, err := readBody(r, false, &in); err != nil {
			respondError(w, r, "Track", err)
			return
		}
		id, err := h.tracks.Create(ctx, in)
		if err != nil {
			respondError(w, r, "Track", err)
			return
		}
		respondOK(w, http.StatusCreated, "Track created successfully", map[string]int64{"id": id})

	case http.MethodPut:
		if !h.canWrite(w, r, "Track") {
			return
		}
		var in model.TrackInput
		id, err := readBody(r, true, &in)
		if err != nil {
			respondError(w, r, "Track", err)
			return
		}
		if err := h.tracks.Update(ctx, id, in); err != nil {
			respondError(w, r, "Track", err)
			return
		}
		respondOK(w, http.StatusOK, "Track updated successfully", map[string]int64{"id": id})

	case http.MethodDelete:
		if !h.canWrite(w, r, "Track") {
			return
		}
		id, err := readBody(r, true, nil)
		if err != nil {
			respondError(w, r, "Track", err)
			return
		}
		if err := h.tracks.Delete(ctx, id); err != nil {
			respondError(w, r, "Track", err)
			return
		}
		respondOK(w, http.StatusOK, "Track deleted successfully", nil)

	default:
		methodNotAllowed(w)
	}
}

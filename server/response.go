package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"LabelCMS/core/auth"
	"LabelCMS/logger"
	"LabelCMS/model"
	"LabelCMS/repository"
)

// Response is the envelope of every API reply.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

func writeJSON(w http.ResponseWriter, status int, resp Response) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logger.Error("Failed to encode response", logger.ErrorField(err))
	}
}

func respondOK(w http.ResponseWriter, status int, message string, data interface{}) {
	writeJSON(w, status, Response{Success: true, Message: message, Data: data})
}

func respondFail(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, Response{Success: false, Message: message})
}

// respondError maps a repository error to its status. entity names the
// resource in not-found messages.
func respondError(w http.ResponseWriter, r *http.Request, entity string, err error) {
	var ve *model.ValidationError
	var ae *auth.AuthorizationError
	switch {
	case errors.As(err, &ve):
		respondFail(w, http.StatusBadRequest, ve.Error())
	case errors.As(err, &ae):
		status := http.StatusForbidden
		if ae.Anonymous {
			status = http.StatusUnauthorized
		}
		respondFail(w, status, ae.Error())
	case errors.Is(err, repository.ErrNotFound):
		respondFail(w, http.StatusNotFound, entity+" not found")
	case errors.Is(err, repository.ErrStorageUnavailable):
		logger.Error("Storage unavailable",
			logger.String("method", r.Method),
			logger.String("path", r.URL.Path),
			logger.ErrorField(err),
		)
		respondFail(w, http.StatusServiceUnavailable, "Storage unavailable, please retry later")
	default:
		logger.Error("Request failed",
			logger.String("method", r.Method),
			logger.String("path", r.URL.Path),
			logger.ErrorField(err),
		)
		respondFail(w, http.StatusInternalServerError, "Internal server error")
	}
}

func methodNotAllowed(w http.ResponseWriter) {
	respondFail(w, http.StatusMethodNotAllowed, "Method not allowed")
}

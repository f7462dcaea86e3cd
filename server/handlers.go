package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"LabelCMS/cache"
	"LabelCMS/config"
	"LabelCMS/core/auth"
	"LabelCMS/core/oauth"
	"LabelCMS/core/session"
	"LabelCMS/model"
	"LabelCMS/repository"
	"LabelCMS/storage"
)

const maxBodyBytes = 1 << 20

// Dependencies are the collaborators the HTTP layer is built from. OAuth,
// States and Store may be nil when the feature is not configured.
type Dependencies struct {
	Releases repository.ReleaseRepository
	Tracks   repository.TrackRepository
	News     repository.NewsRepository
	Users    repository.UserRepository
	Sessions *session.Manager
	OAuth    oauth.Provider
	States   cache.StateStore
	Store    storage.Store
}

// APIHandler serves the /api endpoints.
type APIHandler struct {
	releases repository.ReleaseRepository
	tracks   repository.TrackRepository
	news     repository.NewsRepository
	users    repository.UserRepository
	sessions *session.Manager
	oauth    oauth.Provider
	states   cache.StateStore
	store    storage.Store

	cookieName    string
	secureCookies bool
	now           func() time.Time
}

// NewAPIHandler wires the handler from cfg and deps.
func NewAPIHandler(cfg *config.Config, deps Dependencies) *APIHandler {
	return &APIHandler{
		releases:      deps.Releases,
		tracks:        deps.Tracks,
		news:          deps.News,
		users:         deps.Users,
		sessions:      deps.Sessions,
		oauth:         deps.OAuth,
		states:        deps.States,
		store:         deps.Store,
		cookieName:    cfg.SessionCookie,
		secureCookies: cfg.SecureCookies,
		now:           time.Now,
	}
}

// HealthHandler reports liveness.
func (h *APIHandler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	respondOK(w, http.StatusOK, "ok", map[string]interface{}{"time": h.now().UTC()})
}

// queryID parses a positive integer query parameter.
func queryID(r *http.Request, name string) (int64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, &model.ValidationError{Missing: []string{name}}
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, &model.ValidationError{Invalid: []string{name}}
	}
	return id, nil
}

// queryLimit returns the limit parameter; invalid values fall back to the
// repository default.
func queryLimit(r *http.Request) int {
	n, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil {
		return 0
	}
	return n
}

type idBody struct {
	ID *int64 `json:"id"`
}

// readBody reads a JSON write request. When withID is set the body must carry
// a positive id, which is returned; the remaining fields go into into.
func readBody(r *http.Request, withID bool, into interface{}) (int64, error) {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return 0, fmt.Errorf("read body: %w", err)
	}
	if len(data) == 0 {
		data = []byte("{}")
	}

	if into != nil {
		if err := json.Unmarshal(data, into); err != nil {
			return 0, &model.ValidationError{Invalid: []string{"body"}}
		}
	}
	if !withID {
		return 0, nil
	}

	var body idBody
	if err := json.Unmarshal(data, &body); err != nil {
		return 0, &model.ValidationError{Invalid: []string{"body"}}
	}
	if body.ID == nil {
		if id, err := queryID(r, "id"); err == nil {
			return id, nil
		}
		return 0, &model.ValidationError{Missing: []string{"id"}}
	}
	if *body.ID <= 0 {
		return 0, &model.ValidationError{Invalid: []string{"id"}}
	}
	return *body.ID, nil
}

// canWrite applies the admin gate before a write request body is read.
func (h *APIHandler) canWrite(w http.ResponseWriter, r *http.Request, entity string) bool {
	if err := auth.RequireWrite(r.Context()); err != nil {
		respondError(w, r, entity, err)
		return false
	}
	return true
}

package server

import (
	"errors"
	"net/http"
	"net/url"
	"time"

	"LabelCMS/core/oauth"
	"LabelCMS/logger"
	"LabelCMS/model"

	"github.com/google/uuid"
)

// OAuthLoginHandler redirects to the identity provider with a fresh state.
func (h *APIHandler) OAuthLoginHandler(w http.ResponseWriter, r *http.Request) {
	if h.oauth == nil || h.states == nil {
		respondFail(w, http.StatusServiceUnavailable, "Login not configured")
		return
	}
	state := uuid.NewString()
	if err := h.states.Save(r.Context(), state); err != nil {
		logger.Error("[OAuth] Failed to save state", logger.ErrorField(err))
		respondFail(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	http.Redirect(w, r, h.oauth.AuthCodeURL(state), http.StatusFound)
}

// OAuthCallbackHandler completes the login: state check, code exchange,
// profile fetch, user upsert and session cookie. Failures redirect to
// /?error=<reason>.
func (h *APIHandler) OAuthCallbackHandler(w http.ResponseWriter, r *http.Request) {
	if h.oauth == nil || h.states == nil || h.sessions == nil {
		callbackError(w, r, "oauth_disabled")
		return
	}

	code := r.URL.Query().Get("code")
	state := r.URL.Query().Get("state")
	if code == "" || state == "" {
		logger.Warn("[OAuth] Missing code or state")
		callbackError(w, r, "missing_auth_params")
		return
	}

	ctx := r.Context()
	ok, err := h.states.Consume(ctx, state)
	if err != nil || !ok {
		logger.Warn("[OAuth] Unknown state", logger.ErrorField(err))
		callbackError(w, r, "invalid_state")
		return
	}

	token, err := h.oauth.Exchange(ctx, code)
	if err != nil {
		logger.Error("[OAuth] Code exchange failed", logger.ErrorField(err))
		callbackError(w, r, "oauth_failed")
		return
	}
	info, err := h.oauth.UserInfo(ctx, token)
	if errors.Is(err, oauth.ErrMissingOpenID) {
		logger.Error("[OAuth] openId missing from user info")
		callbackError(w, r, "missing_openid")
		return
	}
	if err != nil {
		logger.Error("[OAuth] Fetching user info failed", logger.ErrorField(err))
		callbackError(w, r, "oauth_failed")
		return
	}

	upsert := model.UserUpsert{OpenID: info.OpenID}
	if info.Name != "" {
		upsert.Name = &info.Name
	}
	if info.Email != "" {
		upsert.Email = &info.Email
	}
	if method := info.Method(); method != "" {
		upsert.LoginMethod = &method
	}
	user, err := h.users.Upsert(ctx, upsert)
	if err != nil {
		logger.Error("[OAuth] Upserting user failed", logger.String("openId", info.OpenID), logger.ErrorField(err))
		callbackError(w, r, "oauth_failed")
		return
	}

	raw, err := h.sessions.Issue(user.OpenID, info.Name)
	if err != nil {
		logger.Error("[OAuth] Creating session failed", logger.ErrorField(err))
		callbackError(w, r, "oauth_failed")
		return
	}
	h.setSessionCookie(w, raw, h.sessions.TTL())

	target := "/"
	if user.IsAdmin() {
		target = "/admin"
	}
	logger.Info("[OAuth] Signed in",
		logger.String("openId", user.OpenID),
		logger.String("role", string(user.Role)),
	)
	http.Redirect(w, r, target, http.StatusFound)
}

func callbackError(w http.ResponseWriter, r *http.Request, reason string) {
	http.Redirect(w, r, "/?error="+url.QueryEscape(reason), http.StatusFound)
}

// MeHandler returns the signed-in user, or null data for anonymous callers.
func (h *APIHandler) MeHandler(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r.Context())
	if user == nil {
		respondOK(w, http.StatusOK, "Not signed in", nil)
		return
	}
	respondOK(w, http.StatusOK, "Current user", user)
}

// LogoutHandler revokes the session and clears its cookie.
func (h *APIHandler) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	if raw := h.sessionToken(r); raw != "" && h.sessions != nil {
		if err := h.sessions.Revoke(r.Context(), raw); err != nil {
			logger.Warn("Failed to revoke session", logger.ErrorField(err))
		}
	}
	h.setSessionCookie(w, "", -1)
	respondOK(w, http.StatusOK, "Signed out", nil)
}

// setSessionCookie writes the session cookie; a negative ttl deletes it.
func (h *APIHandler) setSessionCookie(w http.ResponseWriter, value string, ttl time.Duration) {
	c := &http.Cookie{
		Name:     h.cookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	}
	if ttl < 0 {
		c.MaxAge = -1
	} else {
		c.MaxAge = int(ttl / time.Second)
		c.Expires = h.now().Add(ttl)
	}
	http.SetCookie(w, c)
}

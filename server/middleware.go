package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"LabelCMS/core/auth"
	"LabelCMS/logger"
	"LabelCMS/model"

	"github.com/gorilla/mux"
)

type userKey struct{}

// currentUser returns the signed-in user resolved by sessionMiddleware.
func currentUser(ctx context.Context) *model.User {
	u, _ := ctx.Value(userKey{}).(*model.User)
	return u
}

// corsMiddleware answers "*" to unknown origins and grants credentials only to
// the allowed ones.
func corsMiddleware(allowed []string) mux.MiddlewareFunc {
	origins := make(map[string]bool, len(allowed))
	for _, o := range allowed {
		if o = strings.TrimRight(strings.TrimSpace(o), "/"); o != "" {
			origins[o] = true
		}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Add("Vary", "Origin")
			if origin := r.Header.Get("Origin"); origins[origin] {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Credentials", "true")
			} else {
				w.Header().Set("Access-Control-Allow-Origin", "*")
			}
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			w.Header().Set("Access-Control-Max-Age", "86400")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// sessionToken reads the session from the cookie, then the bearer header.
func (h *APIHandler) sessionToken(r *http.Request) string {
	if c, err := r.Cookie(h.cookieName); err == nil && c.Value != "" {
		return c.Value
	}
	header := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}

// sessionMiddleware attaches the principal of a valid session. Requests
// without one continue anonymously.
func (h *APIHandler) sessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := h.sessionToken(r)
		if raw == "" || h.sessions == nil {
			next.ServeHTTP(w, r)
			return
		}

		claims, err := h.sessions.Parse(r.Context(), raw)
		if err != nil {
			logger.Debug("Ignoring session", logger.ErrorField(err))
			next.ServeHTTP(w, r)
			return
		}
		user, err := h.users.GetByOpenID(r.Context(), claims.OpenID())
		if err != nil {
			logger.Debug("Session user not found", logger.String("openId", claims.OpenID()), logger.ErrorField(err))
			next.ServeHTTP(w, r)
			return
		}

		ctx := auth.WithPrincipal(r.Context(), auth.PrincipalFromUser(user))
		ctx = context.WithValue(ctx, userKey{}, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requestLogger logs one line per request.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Debug("HTTP request",
			logger.String("method", r.Method),
			logger.String("path", r.URL.Path),
			logger.Int("status", rec.status),
			logger.Duration("elapsed", time.Since(start)),
		)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

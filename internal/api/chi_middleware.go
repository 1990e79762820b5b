// Observa - Media Monitoring Portal
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/observa

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/google/uuid"

	"github.com/tomtom215/observa/internal/auth"
	"github.com/tomtom215/observa/internal/authz"
	"github.com/tomtom215/observa/internal/config"
	"github.com/tomtom215/observa/internal/logging"
)

// ChiMiddlewareConfig holds configuration for Chi middleware factories.
type ChiMiddlewareConfig struct {
	CORSAllowedOrigins []string
	CORSMaxAge         int // seconds

	RateLimitRequests  int
	RateLimitWindow    time.Duration
	RateLimitDisabled  bool
	LoginLimitRequests int
}

// ChiMiddlewareConfigFrom derives the middleware settings from the
// security section.
func ChiMiddlewareConfigFrom(sec config.SecurityConfig) *ChiMiddlewareConfig {
	return &ChiMiddlewareConfig{
		CORSAllowedOrigins: sec.CORSOrigins,
		CORSMaxAge:         86400,
		RateLimitRequests:  sec.RateLimitReqs,
		RateLimitWindow:    sec.RateLimitWindow,
		RateLimitDisabled:  sec.RateLimitDisabled,
		LoginLimitRequests: sec.LoginRateLimitReqs,
	}
}

// ChiMiddleware provides Chi-compatible middleware factories.
type ChiMiddleware struct {
	config *ChiMiddlewareConfig
	cors   func(http.Handler) http.Handler
}

// NewChiMiddleware creates a new Chi middleware factory with the given configuration.
func NewChiMiddleware(cfg *ChiMiddlewareConfig) *ChiMiddleware {
	// Credentials are only allowed for explicitly listed origins.
	wildcard := false
	for _, o := range cfg.CORSAllowedOrigins {
		if o == "*" {
			wildcard = true
		}
	}

	corsHandler := cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Content-Disposition", "X-Request-ID"},
		AllowCredentials: !wildcard,
		MaxAge:           cfg.CORSMaxAge,
	})

	return &ChiMiddleware{config: cfg, cors: corsHandler}
}

// CORS returns the go-chi/cors handler.
func (m *ChiMiddleware) CORS() func(http.Handler) http.Handler {
	return m.cors
}

// RateLimit limits every API request per client IP.
func (m *ChiMiddleware) RateLimit() func(http.Handler) http.Handler {
	return m.limit(m.config.RateLimitRequests)
}

// RateLimitLogin is the stricter limit for login attempts.
func (m *ChiMiddleware) RateLimitLogin() func(http.Handler) http.Handler {
	return m.limit(m.config.LoginLimitRequests)
}

func (m *ChiMiddleware) limit(requests int) func(http.Handler) http.Handler {
	if m.config.RateLimitDisabled {
		return func(next http.Handler) http.Handler {
			return next
		}
	}
	return httprate.Limit(requests, m.config.RateLimitWindow,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			NewResponseWriter(w, r).TooManyRequests("Muitas requisições. Tente novamente mais tarde.")
		}),
	)
}

// APISecurityHeaders adds security headers to API responses.
func APISecurityHeaders() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.Header().Set("X-Frame-Options", "DENY")
			w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
			w.Header().Set("Cache-Control", "no-store")
			if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
				w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
			}
			next.ServeHTTP(w, r)
		})
	}
}

type ctxKey int

const (
	storageKey ctxKey = iota
	sessionKey
)

// clientCookieMaxAge keeps the client namespace as long-lived as browser
// local storage.
const clientCookieMaxAge = 365 * 24 * 60 * 60

// SessionMiddleware binds requests to their client namespace and guards
// session-only routes.
type SessionMiddleware struct {
	backend  auth.Backend
	sessions *auth.Sessions
	cookie   string
	secure   bool
}

// NewSessionMiddleware creates the middleware. cookie names the client
// cookie; secure marks it Secure.
func NewSessionMiddleware(backend auth.Backend, sessions *auth.Sessions, cookie string, secure bool) *SessionMiddleware {
	return &SessionMiddleware{backend: backend, sessions: sessions, cookie: cookie, secure: secure}
}

// Client reads the client cookie, issuing a new id when it is missing or
// malformed, and puts the client's storage in the request context.
func (m *SessionMiddleware) Client(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var clientID string
		if c, err := r.Cookie(m.cookie); err == nil {
			if id, perr := uuid.Parse(c.Value); perr == nil {
				clientID = id.String()
			}
		}
		if clientID == "" {
			clientID = uuid.NewString()
			http.SetCookie(w, &http.Cookie{
				Name:     m.cookie,
				Value:    clientID,
				Path:     "/",
				MaxAge:   clientCookieMaxAge,
				HttpOnly: true,
				Secure:   m.secure,
				SameSite: http.SameSiteLaxMode,
			})
		}

		ctx := context.WithValue(r.Context(), storageKey, m.backend.Scope(clientID))
		next(w, r.WithContext(ctx))
	}
}

// RequireSession rejects requests without a valid session with 401. An
// invalid session is cleared as a side effect of the check.
func (m *SessionMiddleware) RequireSession(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rw := NewResponseWriter(w, r)
		sess, err := m.sessions.Current(r.Context(), clientStorage(r))
		if err != nil {
			rw.InternalError(err)
			return
		}
		if sess == nil {
			logging.Ctx(r.Context()).Debug().Str("path", r.URL.Path).Msg("Access denied: session required")
			rw.ErrorWithDetails(http.StatusUnauthorized, ErrCodeSessionRequired, "Sessão expirada ou inexistente",
				map[string]string{"redirect": authz.RedirectLogin})
			return
		}
		next(w, r.WithContext(context.WithValue(r.Context(), sessionKey, sess)))
	}
}

// RequireRole returns middleware allowing only sessions with role. It must
// run after RequireSession.
func RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := currentSession(r)
			if sess == nil || sess.Role != role {
				logging.Ctx(r.Context()).Warn().Str("path", r.URL.Path).Str("required_role", role).Msg("Access denied: role required")
				NewResponseWriter(w, r).Forbidden("Acesso não autorizado")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientStorage returns the storage bound by Client.
func clientStorage(r *http.Request) auth.Storage {
	st, _ := r.Context().Value(storageKey).(auth.Storage)
	return st
}

// currentSession returns the session bound by RequireSession.
func currentSession(r *http.Request) *auth.Session {
	sess, _ := r.Context().Value(sessionKey).(*auth.Session)
	return sess
}

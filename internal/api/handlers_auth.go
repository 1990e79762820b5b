// Observa - Media Monitoring Portal
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/observa

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/observa/internal/auth"
	"github.com/tomtom215/observa/internal/logging"
	"github.com/tomtom215/observa/internal/validation"
)

// LoginRequest is the login form payload.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,max=254"`
	Password string `json:"password" validate:"required,max=1024"`
	// From is the page that sent the user to login.
	From string `json:"from,omitempty" validate:"max=2048"`
}

// SessionStatus describes the caller's session.
type SessionStatus struct {
	Valid        bool       `json:"valid"`
	Role         string     `json:"role,omitempty"`
	LastActivity *time.Time `json:"last_activity,omitempty"`
	ExpiresAt    *time.Time `json:"expires_at,omitempty"`
}

func (h *Handler) sessionStatus(sess *auth.Session) SessionStatus {
	if sess == nil {
		return SessionStatus{}
	}
	last := sess.LastActivity
	expires := last.Add(h.sessions.MaxAge())
	return SessionStatus{Valid: true, Role: sess.Role, LastActivity: &last, ExpiresAt: &expires}
}

// Login checks credentials and starts a session. A rejected login answers
// 401 with the notification to show in the error details.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		rw.BadRequest("Invalid JSON body")
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		rw.ValidationError(verr)
		return
	}

	res, err := h.login.Login(r.Context(), clientStorage(r), req.Email, req.Password, req.From, remoteIP(r))
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Login failed")
		rw.ErrorWithDetails(http.StatusInternalServerError, ErrCodeInternalError, res.Notification.Description, res.Notification)
		return
	}
	if !res.Authenticated {
		rw.ErrorWithDetails(http.StatusUnauthorized, ErrCodeInvalidCredentials, res.Notification.Description, res.Notification)
		return
	}
	rw.Success(res)
}

// Logout clears the caller's session.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	res, err := h.login.Logout(r.Context(), clientStorage(r), remoteIP(r))
	if err != nil {
		rw.InternalError(err)
		return
	}
	rw.Success(res)
}

// Session reports whether the caller's session is valid. An invalid
// session is cleared by the check.
func (h *Handler) Session(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	sess, err := h.sessions.Current(r.Context(), clientStorage(r))
	if err != nil {
		rw.InternalError(err)
		return
	}
	rw.Success(h.sessionStatus(sess))
}

// Activity records a route change, refreshing lastActivity of a valid
// session.
func (h *Handler) Activity(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	sess, err := h.sessions.Touch(r.Context(), clientStorage(r))
	if err != nil {
		rw.InternalError(err)
		return
	}
	rw.Success(h.sessionStatus(sess))
}

// ResolveRoute returns the route table decision for ?path= given the
// caller's session.
func (h *Handler) ResolveRoute(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	path := r.URL.Query().Get("path")
	if path == "" {
		rw.BadRequest("path is required")
		return
	}

	sess, err := h.sessions.Current(r.Context(), clientStorage(r))
	if err != nil {
		rw.InternalError(err)
		return
	}
	var role string
	if sess != nil {
		role = sess.Role
	}

	decision, err := h.routes.Resolve(path, sess != nil, role)
	if err != nil {
		rw.InternalError(err)
		return
	}
	rw.Success(decision)
}

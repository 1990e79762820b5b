// Observa - Media Monitoring Portal
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/observa

package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/tomtom215/observa/internal/logging"
	"github.com/tomtom215/observa/internal/metrics"
)

// NotificationKind is the toast variant shown to the user.
type NotificationKind string

const (
	NotificationSuccess NotificationKind = "success"
	NotificationError   NotificationKind = "error"
)

// Notification is a user-facing message.
type Notification struct {
	Kind        NotificationKind `json:"kind"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
}

var (
	loginSucceeded = Notification{
		Kind:        NotificationSuccess,
		Title:       "Login realizado com sucesso",
		Description: "Bem-vindo ao painel administrativo.",
	}
	clientLoginSucceeded = Notification{
		Kind:        NotificationSuccess,
		Title:       "Login realizado com sucesso",
		Description: "Bem-vindo ao seu painel.",
	}
	loginRejected = Notification{
		Kind:        NotificationError,
		Title:       "Erro de autenticação",
		Description: "Email ou senha incorretos.",
	}
	loginSystemError = Notification{
		Kind:        NotificationError,
		Title:       "Erro no sistema",
		Description: "Ocorreu um erro durante o login. Tente novamente.",
	}
	loggedOut = Notification{
		Kind:        NotificationSuccess,
		Title:       "Logout realizado",
		Description: "Você saiu do sistema.",
	}
)

// DefaultRedirect is where an admin login lands without a from path. Other
// roles land on their own dashboard.
const DefaultRedirect = "/admin"

// homeFor returns the landing path for role.
func homeFor(role string) string {
	if role == DefaultRole {
		return DefaultRedirect
	}
	return "/dashboard/" + role
}

// Result is the outcome of a login or logout.
type Result struct {
	Authenticated bool         `json:"authenticated"`
	Redirect      string       `json:"redirect,omitempty"`
	Notification  Notification `json:"notification"`
	Identity      *Identity    `json:"user,omitempty"`
	SessionID     string       `json:"-"`
}

// LoginService turns credential checks into session changes.
type LoginService struct {
	provider IdentityProvider
	sessions *Sessions
	security *logging.SecurityLogger
}

// NewLoginService creates a login service.
func NewLoginService(provider IdentityProvider, sessions *Sessions, security *logging.SecurityLogger) *LoginService {
	if security == nil {
		security = logging.NewSecurityLogger()
	}
	return &LoginService{provider: provider, sessions: sessions, security: security}
}

// Login checks the credential pair.
//
// On success a new session is written to st and the result redirects to
// from when it is a local path, else to the role's landing page. On rejection st is
// left untouched and no redirect is given. The returned error is only set
// for storage or provider failures; a wrong password is a normal result.
func (l *LoginService) Login(ctx context.Context, st Storage, email, password, from, ip string) (*Result, error) {
	identity, err := l.provider.Authenticate(ctx, email, password)
	if err != nil {
		metrics.RecordLoginAttempt(false)
		if errors.Is(err, ErrInvalidCredentials) {
			l.security.LogLoginFailure(email, ip, "invalid_credentials")
			return &Result{Notification: loginRejected}, nil
		}
		l.security.LogLoginFailure(email, ip, "provider_error")
		return &Result{Notification: loginSystemError}, err
	}

	sess, err := l.sessions.Begin(ctx, st, identity.Role)
	if err != nil {
		metrics.RecordLoginAttempt(false)
		return &Result{Notification: loginSystemError}, err
	}

	metrics.RecordLoginAttempt(true)
	l.security.LogLoginSuccess(identity.Email, sess.ID, ip)

	note := loginSucceeded
	if identity.Role != DefaultRole {
		note = clientLoginSucceeded
	}
	return &Result{
		Authenticated: true,
		Redirect:      safeRedirect(from, homeFor(identity.Role)),
		Notification:  note,
		Identity:      identity,
		SessionID:     sess.ID,
	}, nil
}

// Logout clears st and redirects home.
func (l *LoginService) Logout(ctx context.Context, st Storage, ip string) (*Result, error) {
	sessionID, _ := getOptional(ctx, st, KeySessionID)
	if err := l.sessions.Clear(ctx, st); err != nil {
		return nil, err
	}
	l.security.LogLogout(sessionID, ip)
	return &Result{Redirect: "/", Notification: loggedOut}, nil
}

// safeRedirect accepts only same-origin absolute paths, falling back to
// home.
func safeRedirect(from, home string) string {
	if from == "" || from == "/login" || from == "/client-login" {
		return home
	}
	if !strings.HasPrefix(from, "/") || strings.HasPrefix(from, "//") || strings.ContainsAny(from, "\\\r\n") {
		return home
	}
	return from
}

// Observa - Media Monitoring Portal
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/observa

package logging

import (
	"strings"

	"github.com/rs/zerolog"
)

// SecurityEvent is an auth audit record.
type SecurityEvent struct {
	Event     string
	Email     string
	SessionID string
	ClientID  string
	IPAddress string
	Success   bool
	Reason    string
}

// SecurityLogger writes auth audit events with identifiers masked.
type SecurityLogger struct {
	logger zerolog.Logger
}

// NewSecurityLogger creates a security logger on the global logger.
func NewSecurityLogger() *SecurityLogger {
	return &SecurityLogger{logger: With().Str("component", "auth").Logger()}
}

// NewSecurityLoggerWithLogger creates a security logger on a custom logger.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewSecurityLoggerWithLogger(logger zerolog.Logger) *SecurityLogger {
	return &SecurityLogger{logger: logger.With().Str("component", "auth").Logger()}
}

// LogEvent writes one event.
func (l *SecurityLogger) LogEvent(event *SecurityEvent) {
	e := l.logger.Info()
	if !event.Success {
		e = l.logger.Warn()
	}
	e = e.Str("event", event.Event)
	if event.Success {
		e = e.Str("status", "success")
	} else {
		e = e.Str("status", "failed")
	}
	if event.Email != "" {
		e = e.Str("email", SanitizeEmail(event.Email))
	}
	if event.SessionID != "" {
		e = e.Str("session_id", SanitizeSessionID(event.SessionID))
	}
	if event.ClientID != "" {
		e = e.Str("client_id", SanitizeSessionID(event.ClientID))
	}
	if event.IPAddress != "" {
		e = e.Str("ip", event.IPAddress)
	}
	if event.Reason != "" {
		e = e.Str("reason", event.Reason)
	}
	e.Msg("")
}

// LogLoginSuccess records a successful login.
func (l *SecurityLogger) LogLoginSuccess(email, sessionID, ip string) {
	l.LogEvent(&SecurityEvent{Event: "login_success", Email: email, SessionID: sessionID, IPAddress: ip, Success: true})
}

// LogLoginFailure records a rejected login.
func (l *SecurityLogger) LogLoginFailure(email, ip, reason string) {
	l.LogEvent(&SecurityEvent{Event: "login_failure", Email: email, IPAddress: ip, Reason: reason})
}

// LogLogout records a logout.
func (l *SecurityLogger) LogLogout(sessionID, ip string) {
	l.LogEvent(&SecurityEvent{Event: "logout", SessionID: sessionID, IPAddress: ip, Success: true})
}

// LogSessionExpired records a session cleared by the validity check.
func (l *SecurityLogger) LogSessionExpired(clientID, reason string) {
	l.LogEvent(&SecurityEvent{Event: "session_expired", ClientID: clientID, Success: true, Reason: reason})
}

// SanitizeSessionID keeps the first 8 characters of an id.
func SanitizeSessionID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8] + "..."
}

// SanitizeEmail masks the local part of an address: "jo***@example.com".
func SanitizeEmail(email string) string {
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return "***"
	}
	local := email[:at]
	if len(local) > 2 {
		local = local[:2]
	}
	return local + "***" + email[at:]
}

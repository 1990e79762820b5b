// Observa - Media Monitoring Portal
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/observa

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Namespace keys.
const (
	KeyAuthenticated = "isAuthenticated"
	KeySessionID     = "sessionId"
	KeyLastActivity  = "lastActivity"
	KeyUserRole      = "userRole"
)

// authKeys are removed together whenever a session ends.
var authKeys = []string{KeyAuthenticated, KeySessionID, KeyLastActivity, KeyUserRole}

// DefaultMaxAge is the session lifetime measured from the last activity.
const DefaultMaxAge = 24 * time.Hour

// Invalidation reasons, used in logs.
const (
	reasonNotAuthenticated = "not_authenticated"
	reasonMissingSessionID = "missing_session_id"
	reasonBadActivity      = "missing_last_activity"
	reasonExpired          = "expired"
)

// Session is the state of a valid session.
type Session struct {
	ID           string
	Role         string
	LastActivity time.Time
}

// Sessions applies the validity rules to a client namespace.
type Sessions struct {
	maxAge time.Duration
	now    func() time.Time
}

// NewSessions creates a validator. A non-positive maxAge uses DefaultMaxAge.
func NewSessions(maxAge time.Duration) *Sessions {
	if maxAge <= 0 {
		maxAge = DefaultMaxAge
	}
	return &Sessions{maxAge: maxAge, now: time.Now}
}

// MaxAge returns the configured lifetime.
func (s *Sessions) MaxAge() time.Duration {
	return s.maxAge
}

// Check reports whether st holds a valid session. An invalid session is
// cleared before Check returns.
func (s *Sessions) Check(ctx context.Context, st Storage) (bool, error) {
	sess, err := s.Current(ctx, st)
	return sess != nil, err
}

// Current returns the valid session in st, or nil after clearing st.
func (s *Sessions) Current(ctx context.Context, st Storage) (*Session, error) {
	sess, _, err := s.evaluate(ctx, st)
	return sess, err
}

// evaluate is Current plus the reason a session was rejected.
func (s *Sessions) evaluate(ctx context.Context, st Storage) (*Session, string, error) {
	sess, reason, err := s.read(ctx, st)
	if err != nil {
		return nil, "", err
	}
	if sess != nil {
		return sess, "", nil
	}
	if err := s.Clear(ctx, st); err != nil {
		return nil, reason, err
	}
	return nil, reason, nil
}

func (s *Sessions) read(ctx context.Context, st Storage) (*Session, string, error) {
	flag, err := getOptional(ctx, st, KeyAuthenticated)
	if err != nil {
		return nil, "", err
	}
	if flag != "true" {
		return nil, reasonNotAuthenticated, nil
	}

	id, err := getOptional(ctx, st, KeySessionID)
	if err != nil {
		return nil, "", err
	}
	if id == "" {
		return nil, reasonMissingSessionID, nil
	}

	raw, err := getOptional(ctx, st, KeyLastActivity)
	if err != nil {
		return nil, "", err
	}
	last, perr := time.Parse(time.RFC3339Nano, raw)
	if raw == "" || perr != nil {
		return nil, reasonBadActivity, nil
	}
	if s.now().Sub(last) >= s.maxAge {
		return nil, reasonExpired, nil
	}

	role, err := getOptional(ctx, st, KeyUserRole)
	if err != nil {
		return nil, "", err
	}
	return &Session{ID: id, Role: role, LastActivity: last}, "", nil
}

// Touch validates the session and, when valid, refreshes lastActivity.
// It is called on every route change. Without a valid session it only
// clears st.
func (s *Sessions) Touch(ctx context.Context, st Storage) (*Session, error) {
	sess, err := s.Current(ctx, st)
	if err != nil || sess == nil {
		return nil, err
	}
	now := s.now().UTC()
	if err := st.Set(ctx, KeyLastActivity, now.Format(time.RFC3339Nano)); err != nil {
		return nil, fmt.Errorf("refresh last activity: %w", err)
	}
	sess.LastActivity = now
	return sess, nil
}

// Begin starts a new session with a fresh id, replacing any previous one.
func (s *Sessions) Begin(ctx context.Context, st Storage, role string) (*Session, error) {
	sess := &Session{
		ID:           uuid.NewString(),
		Role:         role,
		LastActivity: s.now().UTC(),
	}
	pairs := [][2]string{
		{KeyAuthenticated, "true"},
		{KeySessionID, sess.ID},
		{KeyLastActivity, sess.LastActivity.Format(time.RFC3339Nano)},
		{KeyUserRole, role},
	}
	for _, kv := range pairs {
		if err := st.Set(ctx, kv[0], kv[1]); err != nil {
			return nil, fmt.Errorf("begin session: %w", err)
		}
	}
	return sess, nil
}

// Clear removes every auth key from st.
func (s *Sessions) Clear(ctx context.Context, st Storage) error {
	if err := st.Delete(ctx, authKeys...); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// getOptional maps ErrKeyNotFound to an empty value.
func getOptional(ctx context.Context, st Storage, key string) (string, error) {
	v, err := st.Get(ctx, key)
	if errors.Is(err, ErrKeyNotFound) {
		return "", nil
	}
	return v, err
}

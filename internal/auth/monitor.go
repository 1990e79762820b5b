// Observa - Media Monitoring Portal
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/observa

package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/observa/internal/logging"
	"github.com/tomtom215/observa/internal/metrics"
)

// DefaultCheckInterval is how often Monitor sweeps all namespaces.
const DefaultCheckInterval = time.Minute

// Monitor periodically re-checks every client namespace and clears the
// invalid ones. It implements suture.Service.
type Monitor struct {
	backend  Backend
	sessions *Sessions
	interval time.Duration
	security *logging.SecurityLogger
}

// NewMonitor creates a monitor. A non-positive interval uses
// DefaultCheckInterval.
func NewMonitor(backend Backend, sessions *Sessions, interval time.Duration, security *logging.SecurityLogger) *Monitor {
	if interval <= 0 {
		interval = DefaultCheckInterval
	}
	if security == nil {
		security = logging.NewSecurityLogger()
	}
	return &Monitor{backend: backend, sessions: sessions, interval: interval, security: security}
}

// Serve runs sweeps until ctx is done.
func (m *Monitor) Serve(ctx context.Context) error {
	logging.Info().Dur("interval", m.interval).Msg("Session monitor started")

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logging.Info().Msg("Session monitor stopped")
			return ctx.Err()
		case <-ticker.C:
			if _, err := m.Sweep(ctx); err != nil {
				logging.Warn().Err(err).Msg("Session sweep failed")
			}
		}
	}
}

// String names the service in supervisor logs.
func (m *Monitor) String() string {
	return "session-monitor"
}

// Sweep checks every namespace once and returns how many were cleared.
// A failing namespace is logged and skipped.
func (m *Monitor) Sweep(ctx context.Context) (int, error) {
	ids, err := m.backend.Namespaces(ctx)
	if err != nil {
		return 0, fmt.Errorf("list namespaces: %w", err)
	}

	expired := 0
	for _, id := range ids {
		if ctx.Err() != nil {
			break
		}
		_, reason, err := m.sessions.evaluate(ctx, m.backend.Scope(id))
		if err != nil {
			logging.Warn().Err(err).Str("client_id", id).Msg("Session check failed")
			continue
		}
		if reason != "" {
			expired++
			m.security.LogSessionExpired(id, reason)
		}
	}

	metrics.RecordSessionSweep(expired)
	if expired > 0 {
		logging.Debug().Int("checked", len(ids)).Int("expired", expired).Msg("Session sweep completed")
	}
	return expired, ctx.Err()
}

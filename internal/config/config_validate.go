// Observa - Media Monitoring Portal
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/observa

package config

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/tomtom215/observa/internal/models"
)

// Validate checks that the configuration is complete and consistent.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateAuth(); err != nil {
		return err
	}
	if err := c.validateStorage(); err != nil {
		return err
	}
	if err := c.validateReport(); err != nil {
		return err
	}
	if err := c.validateSecurity(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	switch c.Server.Environment {
	case "development", "production":
	default:
		return fmt.Errorf("ENVIRONMENT must be 'development' or 'production', got %q", c.Server.Environment)
	}
	return nil
}

func (c *Config) validateAuth() error {
	a := c.Auth
	if a.SessionMaxAge <= 0 {
		return fmt.Errorf("SESSION_MAX_AGE must be positive, got %v", a.SessionMaxAge)
	}
	if a.CheckInterval <= 0 {
		return fmt.Errorf("SESSION_CHECK_PERIOD must be positive, got %v", a.CheckInterval)
	}
	if a.ClientCookie == "" {
		return fmt.Errorf("CLIENT_COOKIE must not be empty")
	}
	if a.AdminRole == "" {
		return fmt.Errorf("ADMIN_ROLE must not be empty")
	}

	if a.AdminEmail != "" || a.AdminPasswordHash != "" {
		if a.AdminEmail == "" || !strings.Contains(a.AdminEmail, "@") {
			return fmt.Errorf("ADMIN_EMAIL must be a valid email address")
		}
		if a.AdminPasswordHash == "" {
			return fmt.Errorf("ADMIN_PASSWORD_HASH is required when ADMIN_EMAIL is set")
		}
		if _, err := bcrypt.Cost([]byte(a.AdminPasswordHash)); err != nil {
			return fmt.Errorf("ADMIN_PASSWORD_HASH is not a bcrypt hash: %w", err)
		}
	}

	for i, acc := range a.Accounts {
		if !strings.Contains(acc.Email, "@") {
			return fmt.Errorf("auth.accounts[%d]: email must be a valid email address", i)
		}
		if _, err := bcrypt.Cost([]byte(acc.PasswordHash)); err != nil {
			return fmt.Errorf("auth.accounts[%d]: password_hash is not a bcrypt hash: %w", i, err)
		}
		if acc.Role != "admin" && !models.ClientType(acc.Role).Valid() {
			return fmt.Errorf("auth.accounts[%d]: role %q is neither admin nor a client type", i, acc.Role)
		}
	}

	accounts := a.AllAccounts()
	if len(accounts) == 0 {
		if c.Server.IsProduction() {
			return fmt.Errorf("ADMIN_EMAIL and ADMIN_PASSWORD_HASH are required in production")
		}
		return nil
	}
	seen := make(map[string]bool, len(accounts))
	for _, acc := range accounts {
		email := strings.ToLower(strings.TrimSpace(acc.Email))
		if seen[email] {
			return fmt.Errorf("account email %q is configured twice", acc.Email)
		}
		seen[email] = true
	}
	if c.Server.IsProduction() && !a.CookieSecure {
		return fmt.Errorf("COOKIE_SECURE must be true in production")
	}
	return nil
}

func (c *Config) validateStorage() error {
	switch c.Storage.Backend {
	case "memory":
		return nil
	case "badger":
		if c.Storage.Path == "" {
			return fmt.Errorf("STORAGE_PATH is required when STORAGE_BACKEND=badger")
		}
		if c.Storage.GCInterval < time.Minute {
			return fmt.Errorf("STORAGE_GC_INTERVAL must be at least 1m, got %v", c.Storage.GCInterval)
		}
		return nil
	default:
		return fmt.Errorf("STORAGE_BACKEND must be 'memory' or 'badger', got %q", c.Storage.Backend)
	}
}

func (c *Config) validateReport() error {
	r := c.Report
	if r.RenderTimeout <= 0 {
		return fmt.Errorf("REPORT_RENDER_TIMEOUT must be positive, got %v", r.RenderTimeout)
	}
	if r.LaunchesPerSecond <= 0 {
		return fmt.Errorf("REPORT_LAUNCHES_PER_SEC must be positive, got %v", r.LaunchesPerSecond)
	}
	if r.LaunchBurst < 1 {
		return fmt.Errorf("REPORT_LAUNCH_BURST must be at least 1, got %d", r.LaunchBurst)
	}
	if r.BreakerFailures < 1 {
		return fmt.Errorf("REPORT_BREAKER_FAILURES must be at least 1, got %d", r.BreakerFailures)
	}
	if r.DataCacheTTL < 0 {
		return fmt.Errorf("REPORT_DATA_CACHE_TTL must not be negative, got %v", r.DataCacheTTL)
	}
	return nil
}

func (c *Config) validateSecurity() error {
	s := c.Security
	if s.RateLimitDisabled {
		return nil
	}
	if s.RateLimitReqs < 1 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be at least 1, got %d", s.RateLimitReqs)
	}
	if s.LoginRateLimitReqs < 1 {
		return fmt.Errorf("LOGIN_RATE_LIMIT_REQUESTS must be at least 1, got %d", s.LoginRateLimitReqs)
	}
	if s.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be positive, got %v", s.RateLimitWindow)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(c.Logging.Level) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal", "panic", "disabled":
	default:
		return fmt.Errorf("LOG_LEVEL %q is not a recognized level", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console":
		return nil
	default:
		return fmt.Errorf("LOG_FORMAT must be 'json' or 'console', got %q", c.Logging.Format)
	}
}

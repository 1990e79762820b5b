// Observa - Media Monitoring Portal
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/observa

// Package config loads Observa configuration from defaults, an optional
// YAML file and environment variables, in that order of precedence.
//
// # Environment Variables
//
// Only the variables listed in envMappings are read. Everything else in the
// environment is ignored. Slice values (CORS_ORIGINS) are comma-separated.
//
// # Example
//
//	cfg, err := config.Load()
//	if err != nil {
//	    logging.Fatal().Err(err).Msg("Failed to load configuration")
//	}
package config

import "time"

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Logging  LoggingConfig  `koanf:"logging"`
	Auth     AuthConfig     `koanf:"auth"`
	Storage  StorageConfig  `koanf:"storage"`
	Report   ReportConfig   `koanf:"report"`
	Security SecurityConfig `koanf:"security"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`

	// Environment is "development" or "production". Production enables
	// stricter validation of auth settings.
	Environment string `koanf:"environment"`
}

// IsProduction reports whether the server runs in production mode.
func (s ServerConfig) IsProduction() bool {
	return s.Environment == "production"
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// AuthConfig holds the portal credential and session timing.
type AuthConfig struct {
	// AdminEmail and AdminPasswordHash define the back-office account.
	// The hash is a bcrypt hash; plaintext passwords are never configured.
	AdminEmail        string `koanf:"admin_email"`
	AdminPasswordHash string `koanf:"admin_password_hash"`
	AdminName         string `koanf:"admin_name"`
	AdminRole         string `koanf:"admin_role"`

	// Accounts are further portal logins, usually one per client type. They
	// are only read from the config file.
	Accounts []AccountConfig `koanf:"accounts"`

	// SessionMaxAge is the inactivity window after which a session is cleared.
	SessionMaxAge time.Duration `koanf:"session_max_age"`

	// CheckInterval is how often the background validity check runs.
	CheckInterval time.Duration `koanf:"check_interval"`

	// ClientCookie names the cookie that identifies a browser client.
	ClientCookie string `koanf:"client_cookie"`
	CookieSecure bool   `koanf:"cookie_secure"`
}

// AccountConfig is one portal login. Role is "admin" or a client type.
type AccountConfig struct {
	Email        string `koanf:"email"`
	PasswordHash string `koanf:"password_hash"`
	Name         string `koanf:"name"`
	Role         string `koanf:"role"`
}

// AllAccounts returns the admin account, when configured, followed by
// Accounts.
func (a AuthConfig) AllAccounts() []AccountConfig {
	out := make([]AccountConfig, 0, len(a.Accounts)+1)
	if a.AdminEmail != "" {
		out = append(out, AccountConfig{
			Email:        a.AdminEmail,
			PasswordHash: a.AdminPasswordHash,
			Name:         a.AdminName,
			Role:         a.AdminRole,
		})
	}
	return append(out, a.Accounts...)
}

// StorageConfig selects the persistence backend.
type StorageConfig struct {
	// Backend is "memory" or "badger".
	Backend string `koanf:"backend"`

	// Path is the Badger data directory. Ignored for the memory backend.
	Path string `koanf:"path"`

	// GCInterval is how often the Badger value log is garbage collected.
	GCInterval time.Duration `koanf:"gc_interval"`
}

// ReportConfig holds report rendering settings.
type ReportConfig struct {
	// ChromeBin is an explicit Chromium binary. Empty lets the launcher
	// find or download one.
	ChromeBin string `koanf:"chrome_bin"`

	// NoSandbox passes --no-sandbox to Chromium, required in most containers.
	NoSandbox bool `koanf:"no_sandbox"`

	RenderTimeout time.Duration `koanf:"render_timeout"`

	// LaunchesPerSecond and LaunchBurst throttle browser launches.
	LaunchesPerSecond float64 `koanf:"launches_per_second"`
	LaunchBurst       int     `koanf:"launch_burst"`

	// BreakerFailures consecutive render failures open the circuit for
	// BreakerTimeout.
	BreakerFailures uint32        `koanf:"breaker_failures"`
	BreakerTimeout  time.Duration `koanf:"breaker_timeout"`

	// DataCacheTTL is how long report figures for a period are reused.
	DataCacheTTL time.Duration `koanf:"data_cache_ttl"`
}

// SecurityConfig holds HTTP hardening settings.
type SecurityConfig struct {
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`

	// LoginRateLimitReqs applies per IP to the login endpoint, per RateLimitWindow.
	LoginRateLimitReqs int `koanf:"login_rate_limit_reqs"`

	CORSOrigins []string `koanf:"cors_origins"`
}

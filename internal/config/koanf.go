// Observa - Media Monitoring Portal
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/observa

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order.
// The first file found is used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/observa/config.yaml",
	"/etc/observa/config.yml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			Timeout:         30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			Environment:     "development",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Auth: AuthConfig{
			AdminName:     "Administrador",
			AdminRole:     "admin",
			SessionMaxAge: 24 * time.Hour,
			CheckInterval: time.Minute,
			ClientCookie:  "observa_client",
		},
		Storage: StorageConfig{
			Backend:    "badger",
			Path:       "/data/observa",
			GCInterval: 10 * time.Minute,
		},
		Report: ReportConfig{
			NoSandbox:         true,
			RenderTimeout:     60 * time.Second,
			LaunchesPerSecond: 2,
			LaunchBurst:       2,
			BreakerFailures:   5,
			BreakerTimeout:    30 * time.Second,
			DataCacheTTL:      5 * time.Minute,
		},
		Security: SecurityConfig{
			RateLimitReqs:      100,
			RateLimitWindow:    time.Minute,
			LoginRateLimitReqs: 10,
			CORSOrigins:        []string{"*"},
		},
	}
}

// Load builds the configuration from three layers:
//
//  1. Built-in defaults
//  2. Optional YAML config file
//  3. Environment variables
//
// The result is validated before it is returned.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

var sliceConfigPaths = []string{
	"security.cors_origins",
}

// processSliceFields splits comma-separated env values for slice fields.
// Values that are already slices (from YAML) are left alone.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		s, ok := k.Get(path).(string)
		if !ok || s == "" {
			continue
		}
		parts := strings.Split(s, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) == 0 {
			continue
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

var envMappings = map[string]string{
	"http_host":             "server.host",
	"http_port":             "server.port",
	"http_timeout":          "server.timeout",
	"http_shutdown_timeout": "server.shutdown_timeout",
	"environment":           "server.environment",

	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	"admin_email":          "auth.admin_email",
	"admin_password_hash":  "auth.admin_password_hash",
	"admin_name":           "auth.admin_name",
	"admin_role":           "auth.admin_role",
	"session_max_age":      "auth.session_max_age",
	"session_check_period": "auth.check_interval",
	"client_cookie":        "auth.client_cookie",
	"cookie_secure":        "auth.cookie_secure",

	"storage_backend":     "storage.backend",
	"storage_path":        "storage.path",
	"storage_gc_interval": "storage.gc_interval",

	"chrome_bin":                "report.chrome_bin",
	"chrome_no_sandbox":         "report.no_sandbox",
	"report_render_timeout":     "report.render_timeout",
	"report_launches_per_sec":   "report.launches_per_second",
	"report_launch_burst":       "report.launch_burst",
	"report_breaker_failures":   "report.breaker_failures",
	"report_breaker_timeout":    "report.breaker_timeout",
	"report_data_cache_ttl":     "report.data_cache_ttl",
	"rate_limit_requests":       "security.rate_limit_reqs",
	"rate_limit_window":         "security.rate_limit_window",
	"disable_rate_limit":        "security.rate_limit_disabled",
	"login_rate_limit_requests": "security.login_rate_limit_reqs",
	"cors_origins":              "security.cors_origins",
}

// envTransformFunc maps environment variable names to koanf paths.
// Unmapped variables return "" and are skipped.
//
//   - HTTP_PORT -> server.port
//   - ADMIN_PASSWORD_HASH -> auth.admin_password_hash
//   - STORAGE_BACKEND -> storage.backend
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}

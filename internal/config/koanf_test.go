// Observa - Media Monitoring Portal
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/observa

package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// isolate points the config search at an empty directory so that a stray
// config.yaml in the working directory cannot leak into the test.
func isolate(t *testing.T) {
	t.Helper()
	orig := DefaultConfigPaths
	DefaultConfigPaths = []string{filepath.Join(t.TempDir(), "missing.yaml")}
	t.Cleanup(func() { DefaultConfigPaths = orig })
	t.Setenv(ConfigPathEnvVar, "")
}

func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Auth.SessionMaxAge != 24*time.Hour {
		t.Errorf("Auth.SessionMaxAge = %v, want 24h", cfg.Auth.SessionMaxAge)
	}
	if cfg.Auth.CheckInterval != time.Minute {
		t.Errorf("Auth.CheckInterval = %v, want 1m", cfg.Auth.CheckInterval)
	}
	if cfg.Storage.Backend != "badger" {
		t.Errorf("Storage.Backend = %q, want badger", cfg.Storage.Backend)
	}
	if !cfg.Report.NoSandbox {
		t.Error("Report.NoSandbox should default to true")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate, got %v", err)
	}
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Server.Host = %q, want 0.0.0.0", cfg.Server.Host)
	}
	if !reflect.DeepEqual(cfg.Security.CORSOrigins, []string{"*"}) {
		t.Errorf("CORSOrigins = %v, want [*]", cfg.Security.CORSOrigins)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("SESSION_MAX_AGE", "2h")
	t.Setenv("STORAGE_BACKEND", "memory")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example ,")
	t.Setenv("SOME_UNRELATED_VAR", "ignored")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Auth.SessionMaxAge != 2*time.Hour {
		t.Errorf("SessionMaxAge = %v, want 2h", cfg.Auth.SessionMaxAge)
	}
	if cfg.Storage.Backend != "memory" {
		t.Errorf("Storage.Backend = %q, want memory", cfg.Storage.Backend)
	}
	want := []string{"https://a.example", "https://b.example"}
	if !reflect.DeepEqual(cfg.Security.CORSOrigins, want) {
		t.Errorf("CORSOrigins = %v, want %v", cfg.Security.CORSOrigins, want)
	}
}

func TestLoad_ConfigFile(t *testing.T) {
	isolate(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
server:
  port: 7000
report:
  chrome_bin: /usr/bin/chromium
storage:
  backend: memory
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("HTTP_PORT", "7001")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != 7001 {
		t.Errorf("env should win over file: Server.Port = %d, want 7001", cfg.Server.Port)
	}
	if cfg.Report.ChromeBin != "/usr/bin/chromium" {
		t.Errorf("Report.ChromeBin = %q", cfg.Report.ChromeBin)
	}
}

func TestLoad_InvalidFails(t *testing.T) {
	isolate(t)
	t.Setenv("STORAGE_BACKEND", "postgres")

	_, err := Load()
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "STORAGE_BACKEND") {
		t.Errorf("error %q should name STORAGE_BACKEND", err)
	}
}

func TestEnvTransformFunc(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"HTTP_PORT":           "server.port",
		"ADMIN_PASSWORD_HASH": "auth.admin_password_hash",
		"chrome_bin":          "report.chrome_bin",
		"PATH":                "",
	}
	for in, want := range tests {
		if got := envTransformFunc(in); got != want {
			t.Errorf("envTransformFunc(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestAllAccounts(t *testing.T) {
	t.Parallel()

	a := AuthConfig{
		AdminEmail:        "admin@b.c",
		AdminPasswordHash: "h1",
		AdminName:         "Administrador",
		AdminRole:         "admin",
		Accounts:          []AccountConfig{{Email: "press@b.c", PasswordHash: "h2", Role: "press"}},
	}
	got := a.AllAccounts()
	if len(got) != 2 || got[0].Role != "admin" || got[0].Name != "Administrador" || got[1].Email != "press@b.c" {
		t.Errorf("AllAccounts() = %+v", got)
	}

	a.AdminEmail = ""
	if got := a.AllAccounts(); len(got) != 1 || got[0].Role != "press" {
		t.Errorf("AllAccounts() without admin = %+v", got)
	}
}

func TestLoad_AccountsFromFile(t *testing.T) {
	isolate(t)
	hash, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := "auth:\n  accounts:\n    - email: jornal@b.c\n      password_hash: \"" + string(hash) +
		"\"\n      name: Redação\n      role: journalist\n"
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(ConfigPathEnvVar, path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(cfg.Auth.Accounts) != 1 {
		t.Fatalf("accounts = %+v", cfg.Auth.Accounts)
	}
	acc := cfg.Auth.Accounts[0]
	if acc.Email != "jornal@b.c" || acc.Role != "journalist" || acc.Name != "Redação" || acc.PasswordHash != string(hash) {
		t.Errorf("account = %+v", acc)
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	hash, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"bad port", func(c *Config) { c.Server.Port = 0 }, "HTTP_PORT"},
		{"bad env", func(c *Config) { c.Server.Environment = "staging" }, "ENVIRONMENT"},
		{"zero max age", func(c *Config) { c.Auth.SessionMaxAge = 0 }, "SESSION_MAX_AGE"},
		{"email without hash", func(c *Config) { c.Auth.AdminEmail = "a@b.c" }, "ADMIN_PASSWORD_HASH"},
		{"plaintext hash", func(c *Config) {
			c.Auth.AdminEmail = "a@b.c"
			c.Auth.AdminPasswordHash = "secret"
		}, "bcrypt"},
		{"valid credential", func(c *Config) {
			c.Auth.AdminEmail = "a@b.c"
			c.Auth.AdminPasswordHash = string(hash)
		}, ""},
		{"production without credential", func(c *Config) { c.Server.Environment = "production" }, "required in production"},
		{"production insecure cookie", func(c *Config) {
			c.Server.Environment = "production"
			c.Auth.AdminEmail = "a@b.c"
			c.Auth.AdminPasswordHash = string(hash)
		}, "COOKIE_SECURE"},
		{"client account", func(c *Config) {
			c.Auth.Accounts = []AccountConfig{{Email: "j@b.c", PasswordHash: string(hash), Role: "journalist"}}
		}, ""},
		{"account with unknown role", func(c *Config) {
			c.Auth.Accounts = []AccountConfig{{Email: "j@b.c", PasswordHash: string(hash), Role: "editor"}}
		}, "neither admin nor a client type"},
		{"account with plaintext hash", func(c *Config) {
			c.Auth.Accounts = []AccountConfig{{Email: "j@b.c", PasswordHash: "secret", Role: "press"}}
		}, "auth.accounts[0]"},
		{"duplicate account email", func(c *Config) {
			c.Auth.AdminEmail = "a@b.c"
			c.Auth.AdminPasswordHash = string(hash)
			c.Auth.Accounts = []AccountConfig{{Email: "A@B.C", PasswordHash: string(hash), Role: "press"}}
		}, "configured twice"},
		{"badger without path", func(c *Config) { c.Storage.Path = "" }, "STORAGE_PATH"},
		{"gc too frequent", func(c *Config) { c.Storage.GCInterval = time.Second }, "STORAGE_GC_INTERVAL"},
		{"zero burst", func(c *Config) { c.Report.LaunchBurst = 0 }, "REPORT_LAUNCH_BURST"},
		{"negative data cache ttl", func(c *Config) { c.Report.DataCacheTTL = -time.Second }, "REPORT_DATA_CACHE_TTL"},
		{"rate limit disabled skips checks", func(c *Config) {
			c.Security.RateLimitDisabled = true
			c.Security.RateLimitReqs = 0
		}, ""},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, "LOG_FORMAT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := defaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadFromDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadFrom with missing file: %v", err)
	}

	if cfg.Platform.Domain != "sekolahku.id" {
		t.Errorf("platform.domain = %q", cfg.Platform.Domain)
	}
	if cfg.Auth.BcryptCost != 12 {
		t.Errorf("auth.bcrypt_cost = %d", cfg.Auth.BcryptCost)
	}
	if cfg.Server.Port == "" || cfg.Postgres.DSN == "" {
		t.Error("defaults must satisfy validation")
	}
}

func TestLoadFromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sekolahku.yaml")
	yaml := `
server:
  port: "9000"
platform:
  domain: schoolhub.example
  dev_mode: true
  preview_suffixes: [vercel.app, pages.dev]
auth:
  session_ttl: 2h
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}

	if cfg.Server.Port != "9000" {
		t.Errorf("server.port = %q", cfg.Server.Port)
	}
	if cfg.Platform.Domain != "schoolhub.example" || !cfg.Platform.DevMode {
		t.Errorf("platform = %+v", cfg.Platform)
	}
	if len(cfg.Platform.PreviewSuffixes) != 2 {
		t.Errorf("preview_suffixes = %v", cfg.Platform.PreviewSuffixes)
	}
	if cfg.Auth.SessionTTL != 2*time.Hour {
		t.Errorf("session_ttl = %s", cfg.Auth.SessionTTL)
	}
	// Untouched sections keep their defaults.
	if cfg.Auth.BcryptCost != 12 {
		t.Errorf("auth.bcrypt_cost = %d", cfg.Auth.BcryptCost)
	}
}

func TestEnvOverridesYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sekolahku.yaml")
	if err := os.WriteFile(path, []byte("server:\n  port: \"9000\"\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("SEKOLAHKU_PORT", "7000")
	t.Setenv("SEKOLAHKU_PLATFORM_DOMAIN", "env.example")
	t.Setenv("SEKOLAHKU_PREVIEW_SUFFIXES", "vercel.app, netlify.app")
	t.Setenv("DATABASE_URL", "postgres://env/db")

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}

	if cfg.Server.Port != "7000" {
		t.Errorf("server.port = %q, want env override", cfg.Server.Port)
	}
	if cfg.Platform.Domain != "env.example" {
		t.Errorf("platform.domain = %q", cfg.Platform.Domain)
	}
	if len(cfg.Platform.PreviewSuffixes) != 2 || cfg.Platform.PreviewSuffixes[1] != "netlify.app" {
		t.Errorf("preview_suffixes = %v", cfg.Platform.PreviewSuffixes)
	}
	if cfg.Postgres.DSN != "postgres://env/db" {
		t.Errorf("postgres.dsn = %q", cfg.Postgres.DSN)
	}
}

func TestValidateRejectsBadConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing port", func(c *Config) { c.Server.Port = "" }},
		{"missing platform domain", func(c *Config) { c.Platform.Domain = "" }},
		{"missing dsn", func(c *Config) { c.Postgres.DSN = "" }},
		{"bcrypt cost too low", func(c *Config) { c.Auth.BcryptCost = 4 }},
		{"breaker threshold zero", func(c *Config) { c.Breaker.MaxFailures = 0 }},
		{"login burst zero", func(c *Config) { c.Rate.LoginBurst = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(&cfg)
			if err := validate(&cfg); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

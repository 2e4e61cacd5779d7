package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the path checked for YAML configuration.
const DefaultConfigFile = "sekolahku.yaml"

// Load returns a Config using the hierarchy: defaults < YAML < ENV.
// The YAML file is optional; a missing file is not an error.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigFile)
}

// LoadFrom returns a Config loaded from the given YAML path using the
// hierarchy: defaults < YAML < ENV.
func LoadFrom(yamlPath string) (*Config, error) {
	cfg := Defaults()

	if err := loadYAML(&cfg, yamlPath); err != nil {
		return nil, fmt.Errorf("config yaml: %w", err)
	}

	loadEnv(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validate: %w", err)
	}

	return &cfg, nil
}

// loadYAML reads the YAML file and unmarshals it over cfg.
// Returns nil if the file does not exist.
func loadYAML(cfg *Config, path string) error {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path is validated by caller
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	return nil
}

// loadEnv overlays environment variables onto cfg.
// Only non-empty env values override the current config.
func loadEnv(cfg *Config) {
	setString(&cfg.Server.Port, "SEKOLAHKU_PORT")
	setString(&cfg.Server.CORSOrigin, "SEKOLAHKU_CORS_ORIGIN")

	setString(&cfg.Platform.Domain, "SEKOLAHKU_PLATFORM_DOMAIN")
	setBool(&cfg.Platform.DevMode, "SEKOLAHKU_DEV_MODE")
	setStrings(&cfg.Platform.PreviewSuffixes, "SEKOLAHKU_PREVIEW_SUFFIXES")

	setInt(&cfg.Auth.BcryptCost, "SEKOLAHKU_BCRYPT_COST")
	setDuration(&cfg.Auth.SessionTTL, "SEKOLAHKU_SESSION_TTL")
	setString(&cfg.Auth.DefaultAdminEmail, "SEKOLAHKU_DEFAULT_ADMIN_EMAIL")
	setString(&cfg.Auth.DefaultAdminPass, "SEKOLAHKU_DEFAULT_ADMIN_PASS")

	setString(&cfg.Postgres.DSN, "DATABASE_URL")
	setInt32(&cfg.Postgres.MaxConns, "SEKOLAHKU_PG_MAX_CONNS")
	setInt32(&cfg.Postgres.MinConns, "SEKOLAHKU_PG_MIN_CONNS")
	setDuration(&cfg.Postgres.MaxConnLifetime, "SEKOLAHKU_PG_MAX_CONN_LIFETIME")
	setDuration(&cfg.Postgres.MaxConnIdleTime, "SEKOLAHKU_PG_MAX_CONN_IDLE_TIME")
	setDuration(&cfg.Postgres.HealthCheck, "SEKOLAHKU_PG_HEALTH_CHECK")

	setString(&cfg.NATS.URL, "NATS_URL")
	setBool(&cfg.NATS.Enabled, "SEKOLAHKU_NATS_ENABLED")

	setInt64(&cfg.Cache.DirectoryMaxSizeMB, "SEKOLAHKU_CACHE_DIRECTORY_SIZE_MB")
	setDuration(&cfg.Cache.DirectoryTTL, "SEKOLAHKU_CACHE_DIRECTORY_TTL")

	setInt(&cfg.Breaker.MaxFailures, "SEKOLAHKU_BREAKER_MAX_FAILURES")
	setDuration(&cfg.Breaker.Timeout, "SEKOLAHKU_BREAKER_TIMEOUT")

	setFloat64(&cfg.Rate.LoginPerSecond, "SEKOLAHKU_RATE_LOGIN_RPS")
	setInt(&cfg.Rate.LoginBurst, "SEKOLAHKU_RATE_LOGIN_BURST")

	setString(&cfg.Logging.Level, "SEKOLAHKU_LOG_LEVEL")
	setString(&cfg.Logging.Service, "SEKOLAHKU_LOG_SERVICE")

	setBool(&cfg.Otel.Enabled, "SEKOLAHKU_OTEL_ENABLED")
	setString(&cfg.Otel.Endpoint, "SEKOLAHKU_OTEL_ENDPOINT")
}

// validate checks that required fields are set.
func validate(cfg *Config) error {
	if cfg.Server.Port == "" {
		return errors.New("server.port is required")
	}
	if cfg.Platform.Domain == "" {
		return errors.New("platform.domain is required")
	}
	if cfg.Postgres.DSN == "" {
		return errors.New("postgres.dsn is required")
	}
	if cfg.Postgres.MaxConns < 1 {
		return errors.New("postgres.max_conns must be >= 1")
	}
	if cfg.Auth.BcryptCost < 10 || cfg.Auth.BcryptCost > 31 {
		return errors.New("auth.bcrypt_cost must be between 10 and 31")
	}
	if cfg.Breaker.MaxFailures < 1 {
		return errors.New("breaker.max_failures must be >= 1")
	}
	if cfg.Rate.LoginBurst < 1 {
		return errors.New("rate.login_burst must be >= 1")
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setStrings(dst *[]string, key string) {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		*dst = out
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setInt32(dst *int32, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 32); err == nil {
			*dst = int32(n)
		}
	}
}

func setInt64(dst *int64, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			*dst = n
		}
	}
}

func setFloat64(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}

package config_test

import (
	"testing"
	"time"

	"github.com/iho/trustbook/internal/infrastructure/config"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}

	if cfg.StorageDriver != config.StoragePostgres || cfg.DatabaseURL == "" {
		t.Fatalf("expected postgres defaults, got %q %q", cfg.StorageDriver, cfg.DatabaseURL)
	}

	if cfg.HTTPPort != "8080" {
		t.Fatalf("expected default HTTP port 8080, got %s", cfg.HTTPPort)
	}

	if cfg.StrictOrdering {
		t.Fatalf("expected append-time ordering by default")
	}

	if cfg.MaxRecalcEntries != 10000 || cfg.StatementCacheTTL != 10*time.Minute {
		t.Fatalf("unexpected ledger defaults: %d %s", cfg.MaxRecalcEntries, cfg.StatementCacheTTL)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("REDIS_URL", "redis://example")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("DATABASE_TIMEOUT", "45s")
	t.Setenv("JWT_SECRET", "top-secret")
	t.Setenv("AUTH_ENABLED", "true")
	t.Setenv("LEDGER_STRICT_ORDERING", "true")
	t.Setenv("LEDGER_MAX_RECALC_ENTRIES", "50")
	t.Setenv("RATE_LIMIT_RPS", "2.5")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}

	if cfg.StorageDriver != config.StorageMemory {
		t.Fatalf("expected memory driver, got %s", cfg.StorageDriver)
	}

	if cfg.RedisURL != "redis://example" {
		t.Fatalf("expected custom redis URL, got %s", cfg.RedisURL)
	}

	if cfg.HTTPPort != "9090" {
		t.Fatalf("expected HTTP port override, got %s", cfg.HTTPPort)
	}

	if cfg.DatabaseTimeout != 45*time.Second {
		t.Fatalf("expected database timeout override, got %s", cfg.DatabaseTimeout)
	}

	if !cfg.AuthEnabled || cfg.JWTSecret != "top-secret" {
		t.Fatalf("expected auth overrides, got enabled=%v secret=%q", cfg.AuthEnabled, cfg.JWTSecret)
	}

	if !cfg.StrictOrdering || cfg.MaxRecalcEntries != 50 || cfg.RateLimitRPS != 2.5 {
		t.Fatalf("unexpected ledger overrides: %+v", cfg)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(*config.Config) {}},
		{name: "unknown driver", mutate: func(c *config.Config) { c.StorageDriver = "sqlite" }, wantErr: true},
		{name: "postgres without url", mutate: func(c *config.Config) { c.DatabaseURL = "" }, wantErr: true},
		{name: "memory without url", mutate: func(c *config.Config) { c.StorageDriver = config.StorageMemory; c.DatabaseURL = "" }},
		{name: "auth without secret", mutate: func(c *config.Config) { c.AuthEnabled = true }, wantErr: true},
		{name: "zero recalculation bound", mutate: func(c *config.Config) { c.MaxRecalcEntries = 0 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{
				StorageDriver:    config.StoragePostgres,
				DatabaseURL:      "postgres://x",
				MaxRecalcEntries: 10,
			}
			tt.mutate(cfg)

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadRejectsInvalidDuration(t *testing.T) {
	t.Setenv("STATEMENT_CACHE_TTL", "soon")

	if _, err := config.Load(); err == nil {
		t.Fatalf("expected parse error")
	}
}

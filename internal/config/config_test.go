package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DB_DSN", "postgres://localhost:5432/tutor_crm")
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTPAddr != ":8000" {
		t.Errorf("HTTPAddr = %q, want :8000", cfg.HTTPAddr)
	}
	if cfg.Environment != "development" {
		t.Errorf("Environment = %q, want development", cfg.Environment)
	}
	if cfg.TokenTTL != 24*time.Hour {
		t.Errorf("TokenTTL = %v, want 24h", cfg.TokenTTL)
	}
	if cfg.GridHourFrom != 8 || cfg.GridHourTo != 22 {
		t.Errorf("grid hours = %d-%d, want 8-22", cfg.GridHourFrom, cfg.GridHourTo)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DB_DSN", "postgres://localhost:5432/tutor_crm")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("TOKEN_TTL_HOURS", "72")
	t.Setenv("GRID_HOUR_FROM", "9")
	t.Setenv("GRID_HOUR_TO", "18")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.TokenTTL != 72*time.Hour {
		t.Errorf("TokenTTL = %v, want 72h", cfg.TokenTTL)
	}
	if cfg.GridHourFrom != 9 || cfg.GridHourTo != 18 {
		t.Errorf("grid hours = %d-%d, want 9-18", cfg.GridHourFrom, cfg.GridHourTo)
	}
}

func TestLoadMissingRequired(t *testing.T) {
	t.Setenv("DB_DSN", "")
	t.Setenv("JWT_SECRET", "secret")
	if _, err := Load(); err == nil {
		t.Fatal("expected error when DB_DSN is missing")
	}

	t.Setenv("DB_DSN", "postgres://localhost:5432/tutor_crm")
	t.Setenv("JWT_SECRET", "")
	if _, err := Load(); err == nil {
		t.Fatal("expected error when JWT_SECRET is missing")
	}
}

func TestLoadInvalidGridRange(t *testing.T) {
	t.Setenv("DB_DSN", "postgres://localhost:5432/tutor_crm")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("GRID_HOUR_FROM", "20")
	t.Setenv("GRID_HOUR_TO", "10")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for inverted grid hour range")
	}
}

package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("STORAGE", "")
	t.Setenv("DB_DSN", "")
	t.Setenv("SWEEP_INTERVAL", "")

	cfg := Load()
	if cfg.Storage.Driver != "memory" {
		t.Fatalf("expected memory driver, got %q", cfg.Storage.Driver)
	}
	if cfg.Server.Port != "8080" {
		t.Fatalf("expected default port, got %q", cfg.Server.Port)
	}
	if cfg.Sweep.Interval != 0 {
		t.Fatalf("expected sweep disabled, got %v", cfg.Sweep.Interval)
	}
}

func TestLoad_DSNImpliesPostgres(t *testing.T) {
	t.Setenv("STORAGE", "")
	t.Setenv("DB_DSN", "postgres://u@localhost/db")

	if got := Load().Storage.Driver; got != "postgres" {
		t.Fatalf("expected postgres, got %q", got)
	}
}

func TestLoad_ParsesTypedValues(t *testing.T) {
	t.Setenv("STORAGE", "Mongo")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("LOCK_TTL", "2s")
	t.Setenv("SWEEP_INTERVAL", "15m")
	t.Setenv("READ_TIMEOUT", "not-a-duration")
	t.Setenv("WORKSPACE_BASE_URL", " http://workspace:9000 ")
	t.Setenv("WORKSPACE_SEED_FILE", "seed.json")

	cfg := Load()
	if cfg.Storage.Driver != "mongo" {
		t.Fatalf("expected mongo, got %q", cfg.Storage.Driver)
	}
	if cfg.Redis.DB != 3 || cfg.Redis.LockTTL != 2*time.Second {
		t.Fatalf("unexpected redis config %#v", cfg.Redis)
	}
	if cfg.Sweep.Interval != 15*time.Minute {
		t.Fatalf("unexpected sweep interval %v", cfg.Sweep.Interval)
	}
	if cfg.Workspace.BaseURL != "http://workspace:9000" || cfg.Workspace.SeedFile != "seed.json" {
		t.Fatalf("unexpected workspace config %#v", cfg.Workspace)
	}
	if cfg.Server.ReadTimeout != 5*time.Second {
		t.Fatalf("expected fallback read timeout, got %v", cfg.Server.ReadTimeout)
	}
}

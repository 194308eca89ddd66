package config

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("APP_NAME", "health-hire")
	t.Setenv("APP_ENV", "test")
	t.Setenv("HTTP_PORT", "8080")
	t.Setenv("JWT_SESSION_SECRET", "secret")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if cfg.App.HTTPPort != "8080" {
		t.Fatalf("http port = %q", cfg.App.HTTPPort)
	}
	if cfg.JWT.SessionExpiresIn != 24*time.Hour {
		t.Fatalf("session expiry default = %v", cfg.JWT.SessionExpiresIn)
	}
	if cfg.Database.PoolMaxConns != 0 {
		t.Fatalf("pool max conns default = %d", cfg.Database.PoolMaxConns)
	}
}

func TestLoad_Optional(t *testing.T) {
	setRequired(t)
	t.Setenv("JWT_SESSION_EXPIRES_IN", "2h")
	t.Setenv("DB_POOL_MAX_CONNS", "12")
	t.Setenv("DB_CONNECT_TIMEOUT", "3s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if cfg.JWT.SessionExpiresIn != 2*time.Hour {
		t.Fatalf("session expiry = %v", cfg.JWT.SessionExpiresIn)
	}
	if cfg.Database.PoolMaxConns != 12 {
		t.Fatalf("pool max conns = %d", cfg.Database.PoolMaxConns)
	}
	if cfg.Database.ConnectTimeout != 3*time.Second {
		t.Fatalf("connect timeout = %v", cfg.Database.ConnectTimeout)
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	setRequired(t)
	t.Setenv("JWT_SESSION_SECRET", "")

	_, err := Load()
	if !errors.Is(err, errMissingRequiredEnv) {
		t.Fatalf("expected missing env error, got %v", err)
	}
	if !strings.Contains(err.Error(), "JWT_SESSION_SECRET") {
		t.Fatalf("error does not name the missing key: %v", err)
	}
}

func TestLoad_BadOptionalFallsBack(t *testing.T) {
	setRequired(t)
	t.Setenv("JWT_SESSION_EXPIRES_IN", "not-a-duration")
	t.Setenv("DB_POOL_MAX_CONNS", "-5")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if cfg.JWT.SessionExpiresIn != 24*time.Hour {
		t.Fatalf("bad duration must fall back to default, got %v", cfg.JWT.SessionExpiresIn)
	}
	if cfg.Database.PoolMaxConns != 0 {
		t.Fatalf("negative int must fall back to zero, got %d", cfg.Database.PoolMaxConns)
	}
}

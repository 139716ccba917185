package config

import (
	"testing"
	"time"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("APP_ENV", "test")
	t.Setenv("APP_PORT", "8080")
	t.Setenv("DB_USER", "app")
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_PORT", "3306")
	t.Setenv("DB_NAME", "beacon")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("ACCESS_TOKEN_TTL_MIN", "15")
	t.Setenv("REFRESH_TOKEN_TTL_DAYS", "7")
	t.Setenv("BCRYPT_COST", "10")
}

func TestLoadPoolDefaults(t *testing.T) {
	setRequiredEnv(t)
	cfg := Load()
	if cfg.DBMaxOpenConns != 25 || cfg.DBMaxIdleConns != 25 {
		t.Fatalf("pool size defaults = %d/%d, want 25/25", cfg.DBMaxOpenConns, cfg.DBMaxIdleConns)
	}
	if cfg.DBConnLifetime != 30*time.Minute {
		t.Fatalf("conn lifetime default = %v, want 30m", cfg.DBConnLifetime)
	}
	if cfg.DBPingTimeout != 5*time.Second {
		t.Fatalf("ping timeout default = %v, want 5s", cfg.DBPingTimeout)
	}
	if cfg.DefaultCompanyID != 1 {
		t.Fatalf("default company = %d, want 1", cfg.DefaultCompanyID)
	}
}

func TestLoadPoolOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("DB_MAX_OPEN_CONNS", "10")
	t.Setenv("DB_MAX_IDLE_CONNS", "5")
	t.Setenv("DB_CONN_MAX_LIFETIME", "2m")
	t.Setenv("DB_PING_TIMEOUT", "1s")

	cfg := Load()
	if cfg.DBMaxOpenConns != 10 || cfg.DBMaxIdleConns != 5 {
		t.Fatalf("pool sizes = %d/%d, want 10/5", cfg.DBMaxOpenConns, cfg.DBMaxIdleConns)
	}
	if cfg.DBConnLifetime != 2*time.Minute || cfg.DBPingTimeout != time.Second {
		t.Fatalf("durations = %v/%v, want 2m/1s", cfg.DBConnLifetime, cfg.DBPingTimeout)
	}
}

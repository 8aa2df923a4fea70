package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"HTTP_ADDR", "DATA_DIR", "JWT_SECRET", "JWT_ISSUER", "ACCESS_TOKEN_TTL", "ACCESS_TOKEN_TTL_SECONDS"} {
		t.Setenv(key, "")
	}
	cfg := Load()
	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("expected default HTTP addr, got %s", cfg.HTTPAddr)
	}
	if cfg.DataDir != "data" {
		t.Fatalf("expected default data dir, got %s", cfg.DataDir)
	}
	if cfg.AccessTokenTTL != 12*time.Hour {
		t.Fatalf("expected default token TTL, got %s", cfg.AccessTokenTTL)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":18080")
	t.Setenv("DATA_DIR", "/tmp/school-data")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("JWT_ISSUER", "test-issuer")
	t.Setenv("ACCESS_TOKEN_TTL", "30m")

	cfg := Load()
	if cfg.HTTPAddr != ":18080" {
		t.Fatalf("expected HTTP_ADDR override, got %s", cfg.HTTPAddr)
	}
	if cfg.DataDir != "/tmp/school-data" {
		t.Fatalf("expected DATA_DIR override, got %s", cfg.DataDir)
	}
	if cfg.JWTSecret != "test-secret" {
		t.Fatalf("expected JWT_SECRET override, got %s", cfg.JWTSecret)
	}
	if cfg.JWTIssuer != "test-issuer" {
		t.Fatalf("expected JWT_ISSUER override, got %s", cfg.JWTIssuer)
	}
	if cfg.AccessTokenTTL != 30*time.Minute {
		t.Fatalf("expected ACCESS_TOKEN_TTL 30m, got %s", cfg.AccessTokenTTL)
	}
}

func TestLoadSecondsFallback(t *testing.T) {
	t.Setenv("ACCESS_TOKEN_TTL", "")
	t.Setenv("ACCESS_TOKEN_TTL_SECONDS", "90")
	cfg := Load()
	if cfg.AccessTokenTTL != 90*time.Second {
		t.Fatalf("expected seconds fallback, got %s", cfg.AccessTokenTTL)
	}
}

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cliparse

import (
	"testing"
	"time"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "postgres://test")
	t.Setenv("JWT_SECRET", "access-secret")
	t.Setenv("JWT_REFRESH_SECRET", "refresh-secret")
}

func TestParseFlags_EnvVars(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("JWT_EXPIRES_IN", "30m")
	t.Setenv("REQUEST_TIMEOUT", "5s")

	cfg, err := ParseFlags([]string{})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.Port)
	}
	if cfg.AccessTTL != 30*time.Minute {
		t.Errorf("expected access ttl 30m, got %s", cfg.AccessTTL)
	}
	if cfg.RequestTimeout != 5*time.Second {
		t.Errorf("expected request timeout 5s, got %s", cfg.RequestTimeout)
	}
}

func TestParseFlags_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := ParseFlags([]string{})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != 3318 {
		t.Errorf("expected default port 3318, got %d", cfg.Port)
	}
	if cfg.DatabaseType != "postgres" {
		t.Errorf("expected default database type postgres, got %s", cfg.DatabaseType)
	}
	if cfg.AccessTTL != time.Hour {
		t.Errorf("expected default access ttl 1h, got %s", cfg.AccessTTL)
	}
	if cfg.RefreshTTL != 168*time.Hour {
		t.Errorf("expected default refresh ttl 168h, got %s", cfg.RefreshTTL)
	}
	if cfg.RequestTimeout != 15*time.Second {
		t.Errorf("expected default request timeout 15s, got %s", cfg.RequestTimeout)
	}
}

func TestParseFlags_CLIOverridesEnv(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PORT", "9000")

	cfg, err := ParseFlags([]string{"-p", "8080", "-d", "file:test.db", "-t", "sqlite", "-jwt-secret", "s1", "-jwt-refresh-secret", "s2"})
	if err != nil {
		t.Fatal(err)
	}

	// CLI should override env
	if cfg.Port != 8080 {
		t.Errorf("CLI should override env: expected 8080, got %d", cfg.Port)
	}
	if cfg.DatabaseURL != "file:test.db" || cfg.DatabaseType != "sqlite" {
		t.Errorf("CLI should override database: got %s (%s)", cfg.DatabaseURL, cfg.DatabaseType)
	}
	if cfg.JWTSecret != "s1" || cfg.JWTRefreshSecret != "s2" {
		t.Error("CLI should override secrets")
	}

	keys := cfg.TokenKeys()
	if keys.AccessSecret != "s1" || keys.RefreshSecret != "s2" || keys.AccessTTL != time.Hour {
		t.Errorf("TokenKeys() = %+v", keys)
	}
}

func TestParseFlags_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		args []string
	}{
		{"missing database url", map[string]string{"DATABASE_URL": ""}, nil},
		{"missing jwt secret", map[string]string{"JWT_SECRET": ""}, nil},
		{"missing refresh secret", map[string]string{"JWT_REFRESH_SECRET": ""}, nil},
		{"same secrets", map[string]string{"JWT_REFRESH_SECRET": "access-secret"}, nil},
		{"bad port env", map[string]string{"PORT": "abc"}, nil},
		{"port out of range", nil, []string{"-p", "70000"}},
		{"bad duration env", map[string]string{"JWT_EXPIRES_IN": "soon"}, nil},
		{"negative ttl", nil, []string{"-access-ttl", "-1h"}},
		{"unknown database type", nil, []string{"-t", "mysql"}},
		{"unknown flag", nil, []string{"-admin-salt", "x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequiredEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			if _, err := ParseFlags(tt.args); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

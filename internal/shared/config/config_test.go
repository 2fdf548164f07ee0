package config

import (
	"os"
	"testing"
	"time"
)

func unsetEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoadDefaults(t *testing.T) {
	unsetEnv(t, "ENV", "DATABASE_URL", "ANALYSIS_CREDIT_COST", "STARTER_CREDITS", "MAGIC_LINK_TTL")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Env != "dev" {
		t.Fatalf("expected dev env, got %q", cfg.Env)
	}
	if cfg.AnalysisCreditCost != 40 {
		t.Fatalf("expected credit cost 40, got %d", cfg.AnalysisCreditCost)
	}
	if cfg.StarterCredits != 240 {
		t.Fatalf("expected starter credits 240, got %d", cfg.StarterCredits)
	}
	if cfg.MagicLinkTTL != 24*time.Hour {
		t.Fatalf("expected 24h magic link ttl, got %s", cfg.MagicLinkTTL)
	}
	if !cfg.IsDev() {
		t.Fatalf("expected dev config")
	}
}

func TestLoadProductionRequiresDatabase(t *testing.T) {
	unsetEnv(t, "DATABASE_URL")
	t.Setenv("ENV", "prod")
	t.Setenv("JWT_SECRET", "s3cret")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error without DATABASE_URL in production")
	}
}

func TestLoadSplitsOrigins(t *testing.T) {
	t.Setenv("ENV", "local")
	t.Setenv("CORS_ALLOW_ORIGINS", "http://a.test, ,http://b.test")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(cfg.CORSAllowOrigins) != 2 || cfg.CORSAllowOrigins[1] != "http://b.test" {
		t.Fatalf("unexpected origins: %v", cfg.CORSAllowOrigins)
	}
	if cfg.Env != "local" {
		t.Fatalf("expected local env, got %q", cfg.Env)
	}
}

func TestParseEnvLine(t *testing.T) {
	cases := []struct {
		in       string
		key, val string
		ok       bool
	}{
		{"PORT=9000", "PORT", "9000", true},
		{"export JWT_SECRET=\"abc\"", "JWT_SECRET", "abc", true},
		{"# comment", "", "", false},
		{"NOVALUE", "", "", false},
	}
	for _, tc := range cases {
		key, val, ok := parseEnvLine(tc.in)
		if key != tc.key || val != tc.val || ok != tc.ok {
			t.Fatalf("%q: got (%q, %q, %v)", tc.in, key, val, ok)
		}
	}
}

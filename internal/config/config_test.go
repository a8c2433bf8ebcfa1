package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("SESSION_SECRET", "")
	t.Setenv("PRODUCTION", "")

	cfg := Load()
	if cfg.Port != "8080" {
		t.Errorf("default port = %q, want 8080", cfg.Port)
	}
	if cfg.SessionSecret == "" {
		t.Error("expected a fallback session secret")
	}
	if cfg.Production {
		t.Error("production must default to false")
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9001")
	t.Setenv("DATABASE_URL", "postgres://localhost/poller")
	t.Setenv("SESSION_SECRET", "s3cret")
	t.Setenv("PRODUCTION", "true")

	cfg := Load()
	if cfg.Port != "9001" || cfg.DatabaseURL != "postgres://localhost/poller" || cfg.SessionSecret != "s3cret" || !cfg.Production {
		t.Errorf("unexpected config: %+v", cfg)
	}
}

func TestEnvBool(t *testing.T) {
	tests := []struct {
		raw  string
		want bool
	}{
		{"1", true},
		{"TRUE", true},
		{" yes ", true},
		{"on", true},
		{"0", false},
		{"off", false},
		{"nonsense", false},
	}
	for _, tt := range tests {
		t.Setenv("POLLER_TEST_FLAG", tt.raw)
		if got := envBool("POLLER_TEST_FLAG", false); got != tt.want {
			t.Errorf("envBool(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}

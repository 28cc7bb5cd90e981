package config

import (
	"net/http"
	"testing"
	"time"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("SESSION_SECRET", "secret")
	t.Setenv("UPSTREAM_BASE_URL", "https://api.example.com/")
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("CORS_ALLOW_ALL", "false")
	t.Setenv("CORS_ORIGINS", "http://localhost:3000")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)
	t.Setenv("DISCLOSURE_RATE_WINDOW", "2s")
	t.Setenv("DISCLOSURE_RETRY_DELAY", "2s")
	t.Setenv("DISCLOSURE_MAX_ATTEMPTS", "3")
	t.Setenv("DEFAULT_REGION", "gh")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.GetUpstreamBaseURL() != "https://api.example.com" {
		t.Errorf("expected trailing slash trimmed, got %q", cfg.GetUpstreamBaseURL())
	}
	if cfg.GetDefaultRegion() != "GH" {
		t.Errorf("expected upper-cased region, got %q", cfg.GetDefaultRegion())
	}
	if cfg.GetDisclosureRateWindow() != 2*time.Second || cfg.GetDisclosureRetryDelay() != 2*time.Second {
		t.Errorf("unexpected disclosure timings: %v %v", cfg.GetDisclosureRateWindow(), cfg.GetDisclosureRetryDelay())
	}
	if cfg.GetDisclosureMaxAttempts() != 3 {
		t.Errorf("expected 3 attempts, got %d", cfg.GetDisclosureMaxAttempts())
	}
}

func TestLoadRequiresSessionSecret(t *testing.T) {
	setRequired(t)
	t.Setenv("SESSION_SECRET", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error without SESSION_SECRET")
	}
}

func TestLoadRedisDriverRequiresURL(t *testing.T) {
	setRequired(t)
	t.Setenv("STORAGE_DRIVER", "redis")
	t.Setenv("REDIS_URL", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for redis driver without REDIS_URL")
	}
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	setRequired(t)
	t.Setenv("STORAGE_DRIVER", "sqlite")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for unknown driver")
	}
}

func TestWildcardOriginConflictsWithCredentials(t *testing.T) {
	setRequired(t)
	t.Setenv("CORS_ORIGINS", "*")
	t.Setenv("CORS_ALLOW_CREDENTIALS", "true")

	if _, err := Load(); err == nil {
		t.Fatalf("expected CORS conflict error")
	}
}

func TestSMTPEnabled(t *testing.T) {
	cfg := &Config{SMTPHost: "smtp.example.com"}
	if cfg.IsSMTPEnabled() {
		t.Fatalf("smtp needs a from address")
	}
	cfg.EmailFromAddress = "noreply@example.com"
	if !cfg.IsSMTPEnabled() {
		t.Fatalf("expected smtp enabled")
	}
}

func TestParseSameSite(t *testing.T) {
	if parseSameSite("strict") != http.SameSiteStrictMode || parseSameSite("bogus") != http.SameSiteLaxMode {
		t.Fatalf("unexpected SameSite parsing")
	}
}

package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("SESSION_TTL", "not-a-duration")
	t.Setenv("MAX_UPLOAD_MB", "2")
	t.Setenv("CORS_ORIGINS", "https://a.example, ,https://b.example")

	cfg := Load()
	if cfg.Port != "9090" {
		t.Fatalf("expected port 9090, got %q", cfg.Port)
	}
	if cfg.SessionTTL != 2*time.Hour {
		t.Fatalf("expected fallback ttl, got %s", cfg.SessionTTL)
	}
	if cfg.MaxUploadBytes != 2<<20 {
		t.Fatalf("expected 2MB, got %d", cfg.MaxUploadBytes)
	}
	if cfg.StorageBucket != "applicatns" {
		t.Fatalf("unexpected bucket %q", cfg.StorageBucket)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://b.example" {
		t.Fatalf("unexpected origins %v", cfg.CORSOrigins)
	}
}

func TestMailConfigured(t *testing.T) {
	cases := []struct {
		key  string
		want bool
	}{
		{"", false},
		{PlaceholderResendKey, false},
		{"re_live_123", true},
	}
	for _, tc := range cases {
		cfg := &Config{MailProvider: "resend", ResendAPIKey: tc.key}
		if got := cfg.MailConfigured(); got != tc.want {
			t.Fatalf("key %q: expected %v, got %v", tc.key, tc.want, got)
		}
	}

	gmail := &Config{MailProvider: "gmail", GmailCredentialsFile: "c.json"}
	if gmail.MailConfigured() {
		t.Fatalf("gmail without token file must not count as configured")
	}
}

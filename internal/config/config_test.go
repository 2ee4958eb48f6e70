package config

import "testing"

func TestLoad_RequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	if _, err := Load(); err == nil {
		t.Fatal("expected error when DATABASE_URL is missing")
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/vitaclinic")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "8000" {
		t.Errorf("expected default port 8000, got %q", cfg.Port)
	}
	if cfg.DBMaxConns != 20 || cfg.DBMinConns != 5 {
		t.Errorf("unexpected pool defaults: max=%d min=%d", cfg.DBMaxConns, cfg.DBMinConns)
	}
	if cfg.EmailFromAddress != "noreply@vitaclinic.com" {
		t.Errorf("unexpected from address %q", cfg.EmailFromAddress)
	}
	if !cfg.IsDev() {
		t.Error("expected default env to be development")
	}
}

func TestLoad_ProviderConfiguration(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/vitaclinic")
	t.Setenv("SENDGRID_API_KEY", "sg-key")
	t.Setenv("TWILIO_ACCOUNT_SID", "AC123")
	t.Setenv("TWILIO_AUTH_TOKEN", "tok")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.EmailConfigured() {
		t.Error("expected email to be configured")
	}
	// Twilio needs all three credentials; the from number is missing.
	if cfg.SMSConfigured() {
		t.Error("expected SMS to be unconfigured without a from number")
	}
}

package internal

import (
	"strings"
	"testing"
	"time"
)

func TestAuthConfig_DisabledMode(t *testing.T) {
	cfg := AuthConfig{Mode: "disabled", Token: ""}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("disabled mode should pass: %v", err)
	}
	if cfg.AuthEnabled() {
		t.Error("disabled mode should not be enabled")
	}
}

func TestAuthConfig_EmptyModeDefaultsDisabled(t *testing.T) {
	cfg := AuthConfig{Mode: "", Token: ""}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("empty mode should default to disabled: %v", err)
	}
	if cfg.Mode != AuthModeDisabled {
		t.Errorf("mode = %q, want %q", cfg.Mode, AuthModeDisabled)
	}
}

func TestAuthConfig_TokenModeValid(t *testing.T) {
	cfg := AuthConfig{Mode: "token", Token: "mysecret"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("token mode with token should pass: %v", err)
	}
	if !cfg.AuthEnabled() {
		t.Error("token mode should be enabled")
	}
}

func TestAuthConfig_TokenModeEmptyToken(t *testing.T) {
	cfg := AuthConfig{Mode: "token", Token: ""}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("token mode with empty token should fail")
	}
	if !strings.Contains(err.Error(), "token is empty") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestAuthConfig_InvalidMode(t *testing.T) {
	cfg := AuthConfig{Mode: "magic", Token: "x"}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("invalid mode should fail validation")
	}
}

func TestDiscoveryConfig_Defaults(t *testing.T) {
	cfg := NewDefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}

	opts := cfg.Discovery.Options()
	if !opts.IncludeResolved || !opts.IncludeUnresolved || !opts.UseCache {
		t.Errorf("unexpected default options: %+v", opts)
	}
	if opts.CacheTimeout != 30*time.Second {
		t.Errorf("cache timeout = %v, want 30s", opts.CacheTimeout)
	}
	if opts.OnlyDailyNotes {
		t.Error("only_daily_notes should default to false")
	}
}

func TestDiscoveryConfig_NegativeTimeout(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Discovery.CacheTimeoutMS = -1
	if err := cfg.Validate(); err == nil {
		t.Fatal("negative cache timeout should fail validation")
	}
}

func TestDiscoveryConfig_ZeroMemoSize(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Discovery.ResolverMemoSize = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("zero resolver memo size should fail validation")
	}
}

func TestFullConfig_AuthValidationCalled(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Auth.Mode = "token"
	cfg.Auth.Token = ""
	err := cfg.Validate()
	if err == nil {
		t.Fatal("full config validate should catch auth error")
	}
}

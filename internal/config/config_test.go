package config

import (
	"errors"
	"strings"
	"testing"
)

func TestLoadRejectsWeakSecret(t *testing.T) {
	tests := []struct {
		name    string
		secret  string
		wantErr bool
	}{
		{name: "missing", secret: "", wantErr: true},
		{name: "ten chars", secret: "tooshort10", wantErr: true},
		{name: "thirty one chars", secret: strings.Repeat("x", 31), wantErr: true},
		{name: "exactly thirty two", secret: strings.Repeat("x", 32), wantErr: false},
		{name: "long", secret: strings.Repeat("s", 64), wantErr: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("AUTH_JWT_SECRET", tc.secret)
			cfg, err := Load()
			if tc.wantErr {
				if !errors.Is(err, ErrSecretTooShort) {
					t.Fatalf("expected ErrSecretTooShort, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if cfg.Auth.JWTSecret != tc.secret {
				t.Fatalf("secret not carried into config")
			}
		})
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", strings.Repeat("k", 32))

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := cfg.Auth.SessionTTL().Hours(); got != 7*24 {
		t.Errorf("session TTL = %v hours, want 168", got)
	}
	if cfg.App.Production() {
		t.Errorf("default env should not be production")
	}
	if cfg.Insights.BaseURL == "" {
		t.Errorf("insights base URL should have a default")
	}
}

func TestSessionTTLGuardsNonPositive(t *testing.T) {
	ac := AuthConfig{SessionTTLDays: -1}
	if got := ac.SessionTTL().Hours(); got != 7*24 {
		t.Fatalf("SessionTTL with negative days = %v hours, want 168", got)
	}
}

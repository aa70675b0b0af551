package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/sockline/sockline-server/internal/core"
)

func testConfig() *Config {
	return &Config{
		Secret:   []byte("test-secret"),
		Issuer:   "sockline",
		Audience: "sockline-clients",
		TTL:      time.Hour,
	}
}

func TestGenerateAndValidateToken(t *testing.T) {
	cfg := testConfig()

	token, err := GenerateToken(cfg, "user-1", "alice")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	claims, err := ValidateToken(cfg, token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.Subject != "user-1" || claims.Name != "alice" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestValidateTokenWrongSecret(t *testing.T) {
	cfg := testConfig()
	token, err := GenerateToken(cfg, "user-1", "alice")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	other := testConfig()
	other.Secret = []byte("different-secret")
	if _, err := ValidateToken(other, token); err == nil {
		t.Fatal("token signed with another secret must fail")
	}
}

func TestValidateTokenWrongIssuer(t *testing.T) {
	cfg := testConfig()
	token, err := GenerateToken(cfg, "user-1", "alice")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	other := testConfig()
	other.Issuer = "someone-else"
	if _, err := ValidateToken(other, token); err == nil {
		t.Fatal("issuer mismatch must fail")
	}
}

func TestValidateTokenExpired(t *testing.T) {
	cfg := testConfig()
	cfg.TTL = -time.Minute

	token, err := GenerateToken(cfg, "user-1", "alice")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := ValidateToken(cfg, token); err == nil {
		t.Fatal("expired token must fail")
	}
}

func TestConfigEnabled(t *testing.T) {
	if (&Config{}).Enabled() {
		t.Fatal("empty secret must disable auth")
	}
	if !testConfig().Enabled() {
		t.Fatal("configured secret must enable auth")
	}
}

func TestHookAuthenticate(t *testing.T) {
	cfg := testConfig()
	logger := zerolog.Nop()
	hook := NewHook(cfg, &logger)
	ctx := context.Background()

	token, err := GenerateToken(cfg, "user-1", "alice")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if err := hook.Authenticate(ctx, core.ConnContext{ConnID: "c1", Token: token}); err != nil {
		t.Fatalf("valid token refused: %v", err)
	}

	err = hook.Authenticate(ctx, core.ConnContext{ConnID: "c2"})
	if !errors.Is(err, core.ErrUnauthorized) {
		t.Fatalf("missing token should map to ErrUnauthorized, got %v", err)
	}

	err = hook.Authenticate(ctx, core.ConnContext{ConnID: "c3", Token: "garbage"})
	if !errors.Is(err, core.ErrUnauthorized) {
		t.Fatalf("bad token should map to ErrUnauthorized, got %v", err)
	}
}

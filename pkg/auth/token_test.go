package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/stashline/stashline-backend/pkg/config"
	"github.com/stashline/stashline-backend/pkg/enums"
)

func TestMintAndParseAccessToken(t *testing.T) {
	cfg := config.JWTConfig{
		Secret:            "secret",
		Issuer:            "stashline",
		ExpirationMinutes: 30,
	}
	now := time.Now().UTC()
	userID := uuid.New()
	storeID := uuid.New()

	payload := AccessTokenPayload{
		UserID:        userID,
		ActiveStoreID: &storeID,
		Role:          enums.MemberRoleOwner,
	}

	token, err := MintAccessToken(cfg, now, payload)
	if err != nil {
		t.Fatalf("mint access token: %v", err)
	}

	claims, err := ParseAccessToken(cfg, token)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}
	if claims.UserID != userID {
		t.Fatalf("expected user id %s, got %s", userID, claims.UserID)
	}
	if claims.ActiveStoreID == nil || *claims.ActiveStoreID != storeID {
		t.Fatalf("expected active store id %s, got %v", storeID, claims.ActiveStoreID)
	}
	if claims.Role != enums.MemberRoleOwner {
		t.Fatalf("expected role owner, got %s", claims.Role)
	}
	if claims.ID == "" {
		t.Fatal("expected generated jti")
	}
	if claims.ExpiresAt == nil || !claims.ExpiresAt.After(now) {
		t.Fatal("expected expiry after issuance")
	}
}

func TestMintAccessTokenValidation(t *testing.T) {
	now := time.Now().UTC()
	base := config.JWTConfig{
		Secret:            "secret",
		Issuer:            "stashline",
		ExpirationMinutes: 30,
	}
	payload := AccessTokenPayload{UserID: uuid.New(), Role: enums.MemberRoleManager}

	t.Run("missing secret", func(t *testing.T) {
		cfg := base
		cfg.Secret = ""
		if _, err := MintAccessToken(cfg, now, payload); err == nil {
			t.Fatal("expected error")
		}
	})

	t.Run("missing issuer", func(t *testing.T) {
		cfg := base
		cfg.Issuer = ""
		if _, err := MintAccessToken(cfg, now, payload); err == nil {
			t.Fatal("expected error")
		}
	})

	t.Run("invalid role", func(t *testing.T) {
		bad := payload
		bad.Role = enums.MemberRole("intern")
		if _, err := MintAccessToken(base, now, bad); err == nil {
			t.Fatal("expected error")
		}
	})
}

func TestParseAccessTokenRejectsExpired(t *testing.T) {
	cfg := config.JWTConfig{
		Secret:            "secret",
		Issuer:            "stashline",
		ExpirationMinutes: 30,
	}
	payload := AccessTokenPayload{UserID: uuid.New(), Role: enums.MemberRoleStaff}

	issued := time.Now().UTC().Add(-2 * time.Hour)
	token, err := MintAccessToken(cfg, issued, payload)
	if err != nil {
		t.Fatalf("mint access token: %v", err)
	}

	if _, err := ParseAccessToken(cfg, token); err == nil {
		t.Fatal("expected expired token to fail")
	}
}

func TestParseAccessTokenRejectsWrongIssuer(t *testing.T) {
	mint := config.JWTConfig{
		Secret:            "secret",
		Issuer:            "someone-else",
		ExpirationMinutes: 30,
	}
	verify := config.JWTConfig{
		Secret:            "secret",
		Issuer:            "stashline",
		ExpirationMinutes: 30,
	}
	payload := AccessTokenPayload{UserID: uuid.New(), Role: enums.MemberRoleOwner}

	token, err := MintAccessToken(mint, time.Now().UTC(), payload)
	if err != nil {
		t.Fatalf("mint access token: %v", err)
	}

	if _, err := ParseAccessToken(verify, token); err == nil || !strings.Contains(err.Error(), "issuer") {
		t.Fatalf("expected issuer mismatch, got %v", err)
	}
}

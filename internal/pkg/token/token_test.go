package token

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestIssuer_IssueAndParse(t *testing.T) {
	iss := NewIssuer("secret", time.Hour)

	raw, err := iss.Issue("alice")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	claims, err := iss.Parse(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.Username != "alice" {
		t.Fatalf("expected alice, got %q", claims.Username)
	}
	if got := claims.ExpiresAt.Sub(claims.IssuedAt.Time); got != time.Hour {
		t.Fatalf("expected 1h lifetime, got %v", got)
	}
}

func TestIssuer_DefaultTTL(t *testing.T) {
	iss := NewIssuer("secret", 0)
	if iss.ttl != DefaultTTL {
		t.Fatalf("expected default ttl, got %v", iss.ttl)
	}
}

func TestIssuer_Expired(t *testing.T) {
	iss := NewIssuer("secret", time.Hour)
	iss.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	raw, err := iss.Issue("alice")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	iss.now = time.Now
	if _, err := iss.Parse(raw); !errors.Is(err, jwt.ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestIssuer_WrongSecret(t *testing.T) {
	raw, err := NewIssuer("secret", time.Hour).Issue("alice")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := NewIssuer("other", time.Hour).Parse(raw); err == nil {
		t.Fatalf("expected signature error")
	}
}

func TestIssuer_RejectsOtherAlgorithms(t *testing.T) {
	tkn := jwt.NewWithClaims(jwt.SigningMethodHS512, Claims{Username: "alice"})
	raw, err := tkn.SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := NewIssuer("secret", time.Hour).Parse(raw); err == nil {
		t.Fatalf("expected HS512 token to be rejected")
	}
}

func TestIssuer_MissingUsername(t *testing.T) {
	tkn := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{})
	raw, err := tkn.SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := NewIssuer("secret", time.Hour).Parse(raw); !errors.Is(err, ErrMissingUsername) {
		t.Fatalf("expected ErrMissingUsername, got %v", err)
	}
}

package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := tok.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return s
}

func TestDecode(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	token := signToken(t, jwt.MapClaims{
		claimNameIdentifier: "user-42",
		claimName:           "ammar",
		"exp":               exp.Unix(),
	})

	c, err := Decode(token)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if c.UserID != "user-42" {
		t.Fatalf("user id = %q", c.UserID)
	}
	if c.Name != "ammar" {
		t.Fatalf("name = %q", c.Name)
	}
	if !c.ExpiresAt.Equal(exp) {
		t.Fatalf("expires at = %v want %v", c.ExpiresAt, exp)
	}
}

func TestDecodeNoExpiry(t *testing.T) {
	token := signToken(t, jwt.MapClaims{
		claimNameIdentifier: "user-7",
		claimName:           "sara",
	})

	c, err := Decode(token)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !c.ExpiresAt.IsZero() {
		t.Fatalf("expected zero expiry, got %v", c.ExpiresAt)
	}
}

func TestDecodeMissingClaims(t *testing.T) {
	token := signToken(t, jwt.MapClaims{"sub": "whatever"})
	if _, err := Decode(token); err != ErrMissingClaims {
		t.Fatalf("expected ErrMissingClaims, got %v", err)
	}
}

func TestDecodeGarbage(t *testing.T) {
	for _, in := range []string{"", "not-a-token", "a.b"} {
		if _, err := Decode(in); err == nil {
			t.Fatalf("expected error for %q", in)
		}
	}
}

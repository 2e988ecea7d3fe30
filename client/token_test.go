package client

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-key"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func TestTokenExpiry_JWTWithExp(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	token := signedToken(t, jwt.MapClaims{"sub": "dashboard", "exp": exp.Unix()})

	got, ok := TokenExpiry(token)
	if !ok {
		t.Fatal("expected expiry to be found")
	}
	if !got.Equal(exp) {
		t.Errorf("expiry = %v, want %v", got, exp)
	}
}

func TestTokenExpiry_JWTWithoutExp(t *testing.T) {
	token := signedToken(t, jwt.MapClaims{"sub": "dashboard"})

	if _, ok := TokenExpiry(token); ok {
		t.Error("token without exp should report no expiry")
	}
}

func TestTokenExpiry_OpaqueToken(t *testing.T) {
	for _, token := range []string{"", "not-a-jwt", "a.b"} {
		if _, ok := TokenExpiry(token); ok {
			t.Errorf("TokenExpiry(%q) found an expiry in an opaque token", token)
		}
	}
}

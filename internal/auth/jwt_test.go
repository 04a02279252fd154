package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestInitJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	if err := InitJWTSecret(); err == nil {
		t.Error("InitJWTSecret() with empty secret succeeded, want error")
	}

	t.Setenv("JWT_SECRET", "test-secret")

	if err := InitJWTSecret(); err != nil {
		t.Errorf("InitJWTSecret() unexpected error: %v", err)
	}
}

func TestGenerateAndVerifyJWT(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	if err := InitJWTSecret(); err != nil {
		t.Fatalf("InitJWTSecret() error: %v", err)
	}

	tokenString, err := GenerateJWT(7, "alice@example.com", "alice")

	if err != nil {
		t.Fatalf("GenerateJWT() error: %v", err)
	}

	token, err := VerifyJWT(tokenString)

	if err != nil {
		t.Fatalf("VerifyJWT() error: %v", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)

	if !ok {
		t.Fatal("claims are not MapClaims")
	}

	if sub := claims["sub"]; sub != "7" {
		t.Errorf("sub claim = %v, want %q", sub, "7")
	}

	if email := claims["email"]; email != "alice@example.com" {
		t.Errorf("email claim = %v, want alice@example.com", email)
	}

	if username := claims["username"]; username != "alice" {
		t.Errorf("username claim = %v, want alice", username)
	}
}

func TestVerifyJWTRejectsBadTokens(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	if err := InitJWTSecret(); err != nil {
		t.Fatalf("InitJWTSecret() error: %v", err)
	}

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "7",
		"exp": time.Now().Add(-time.Hour).Unix(),
	})

	expiredString, err := expired.SignedString([]byte("test-secret"))

	if err != nil {
		t.Fatalf("Failed to sign expired token: %v", err)
	}

	wrongKey := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "7",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	wrongKeyString, err := wrongKey.SignedString([]byte("another-secret"))

	if err != nil {
		t.Fatalf("Failed to sign token with wrong key: %v", err)
	}

	tests := []struct {
		name  string
		token string
	}{
		{name: "garbage", token: "not-a-jwt"},
		{name: "expired", token: expiredString},
		{name: "wrong signing key", token: wrongKeyString},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := VerifyJWT(tt.token); err == nil {
				t.Error("VerifyJWT() succeeded, want error")
			}
		})
	}
}

package services

import (
	"testing"
	"time"
)

func TestAuthService_GenerateAndValidateToken(t *testing.T) {
	authService := NewAuthService("test-secret", time.Hour)

	p := Principal{ID: "dj-123", Name: "DJ Shadow", Email: "shadow@example.com"}
	token, err := authService.GenerateToken(p)
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}
	if token == "" {
		t.Fatal("GenerateToken() returned empty token")
	}

	claims, err := authService.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken() error = %v", err)
	}

	if got := claims.Principal(); got != p {
		t.Errorf("Principal() = %+v, want %+v", got, p)
	}
}

func TestAuthService_InvalidToken(t *testing.T) {
	authService := NewAuthService("test-secret", time.Hour)

	_, err := authService.ValidateToken("invalid-token")
	if err == nil {
		t.Error("ValidateToken() should return error for invalid token")
	}
}

func TestAuthService_WrongSecret(t *testing.T) {
	authService1 := NewAuthService("secret-1", time.Hour)
	authService2 := NewAuthService("secret-2", time.Hour)

	token, _ := authService1.GenerateToken(Principal{ID: "dj-1"})

	_, err := authService2.ValidateToken(token)
	if err == nil {
		t.Error("ValidateToken() should return error for token signed with different secret")
	}
}

func TestAuthService_ExpiredToken(t *testing.T) {
	authService := NewAuthService("test-secret", -time.Hour)

	token, _ := authService.GenerateToken(Principal{ID: "dj-1"})

	_, err := authService.ValidateToken(token)
	if err == nil {
		t.Error("ValidateToken() should return error for expired token")
	}
}

func TestAuthService_TokenWithoutDJ(t *testing.T) {
	authService := NewAuthService("test-secret", time.Hour)

	token, _ := authService.GenerateToken(Principal{})

	if _, err := authService.ValidateToken(token); err == nil {
		t.Error("ValidateToken() should reject a token without a DJ id")
	}
}

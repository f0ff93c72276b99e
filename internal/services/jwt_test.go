package services_test

import (
	"testing"
	"time"

	"github.com/owizdom/eigen-hotcold-lotto/internal/services"
)

func TestJWTRoundTrip(t *testing.T) {
	jwtService := services.NewJWTService("test-secret", time.Hour)

	token, err := jwtService.GenerateOperatorToken()
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	claims, err := jwtService.ValidateToken(token)
	if err != nil {
		t.Fatalf("failed to validate token: %v", err)
	}
	if claims.Role != "operator" {
		t.Errorf("role = %s, want operator", claims.Role)
	}

	other := services.NewJWTService("different-secret", time.Hour)
	if _, err := other.ValidateToken(token); err == nil {
		t.Error("token validated against the wrong secret")
	}
}

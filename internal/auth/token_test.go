package auth

import (
	"testing"
	"time"
)

func TestIssueAndParseToken(t *testing.T) {
	secret := []byte("secret")
	issued, err := IssueToken(secret, Claims{
		Name:  "Avery",
		Email: "avery@example.com",
		Role:  "Admin",
		Exp:   time.Now().Add(time.Hour).Unix(),
	})
	if err != nil {
		t.Fatalf("IssueToken() error = %v", err)
	}
	claims, err := ParseToken(secret, issued)
	if err != nil {
		t.Fatalf("ParseToken() error = %v", err)
	}
	if claims.Name != "Avery" || claims.Email != "avery@example.com" || claims.Role != "Admin" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestParseTokenRejectsExpired(t *testing.T) {
	secret := []byte("secret")
	issued, err := IssueToken(secret, Claims{
		Name:  "Avery",
		Email: "avery@example.com",
		Role:  "Student",
		Exp:   time.Now().Add(-time.Minute).Unix(),
	})
	if err != nil {
		t.Fatalf("IssueToken() error = %v", err)
	}
	_, err = ParseToken(secret, issued)
	if err == nil {
		t.Fatal("expected ParseToken() to fail for expired token")
	}
}

func TestParseTokenRejectsTampered(t *testing.T) {
	secret := []byte("secret")
	issued, err := IssueToken(secret, Claims{
		Name:  "Avery",
		Email: "avery@example.com",
		Role:  "Student",
		Exp:   time.Now().Add(time.Hour).Unix(),
	})
	if err != nil {
		t.Fatalf("IssueToken() error = %v", err)
	}
	if _, err := ParseToken([]byte("other-secret"), issued); err == nil {
		t.Fatal("expected ParseToken() to fail for wrong secret")
	}
	if _, err := ParseToken(secret, issued+"x"); err == nil {
		t.Fatal("expected ParseToken() to fail for tampered signature")
	}
	if _, err := ParseToken(secret, "no-dot-token"); err == nil {
		t.Fatal("expected ParseToken() to fail for malformed token")
	}
}

package jwt

import (
	"testing"
	"time"
)

func TestSignParseRoundtrip(t *testing.T) {
	SetSecret("test-secret")

	token, err := Sign("admin", time.Hour)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	claims, err := Parse(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.Subject != "admin" {
		t.Fatalf("subject = %q, want admin", claims.Subject)
	}
}

func TestParseRejectsExpired(t *testing.T) {
	SetSecret("test-secret")

	token, err := Sign("admin", -time.Minute)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := Parse(token); err == nil {
		t.Fatal("expected error for expired token")
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	SetSecret("secret-a")
	token, err := Sign("admin", time.Hour)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	SetSecret("secret-b")
	if _, err := Parse(token); err == nil {
		t.Fatal("expected error for token signed with a different secret")
	}
}

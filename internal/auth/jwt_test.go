package auth

import (
	"testing"
	"time"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenMaker("0123456789abcdef0123456789abcdef")

	tok, err := tm.New("admin", RoleEditor, time.Minute)
	if err != nil {
		t.Fatalf("new token: %v", err)
	}

	claims, err := tm.Parse(tok)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.Subject != "admin" {
		t.Fatalf("subject = %q, want admin", claims.Subject)
	}
	if claims.Role != RoleEditor {
		t.Fatalf("role = %q, want %q", claims.Role, RoleEditor)
	}
	if claims.ID == "" {
		t.Fatal("token ID is empty")
	}
}

func TestTokenWrongSecret(t *testing.T) {
	tm := NewTokenMaker("0123456789abcdef0123456789abcdef")
	other := NewTokenMaker("ffffffffffffffffffffffffffffffff")

	tok, err := tm.New("admin", RoleEditor, time.Minute)
	if err != nil {
		t.Fatalf("new token: %v", err)
	}

	if _, err := other.Parse(tok); err == nil {
		t.Fatal("token accepted with wrong secret")
	}
}

func TestTokenExpired(t *testing.T) {
	tm := NewTokenMaker("0123456789abcdef0123456789abcdef")

	tok, err := tm.New("admin", RoleEditor, -time.Minute)
	if err != nil {
		t.Fatalf("new token: %v", err)
	}

	if _, err := tm.Parse(tok); err == nil {
		t.Fatal("expired token accepted")
	}
}

func TestTokenGarbage(t *testing.T) {
	tm := NewTokenMaker("0123456789abcdef0123456789abcdef")

	if _, err := tm.Parse("not.a.token"); err == nil {
		t.Fatal("garbage token accepted")
	}
}

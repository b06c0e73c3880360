package auth

import (
	"testing"
	"time"
)

func TestIssueParseRoundTrip(t *testing.T) {
	j := &JWTer{Secret: []byte("test-secret"), Issuer: "workout-api", TTL: time.Hour}

	tok, err := j.Issue("user-1", "USER")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	c, err := j.Parse(tok)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if c.UID != "user-1" || c.Role != "USER" {
		t.Fatalf("claims = %s/%s, want user-1/USER", c.UID, c.Role)
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	a := &JWTer{Secret: []byte("secret-a"), Issuer: "workout-api", TTL: time.Hour}
	b := &JWTer{Secret: []byte("secret-b"), Issuer: "workout-api", TTL: time.Hour}

	tok, err := a.Issue("user-1", "USER")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := b.Parse(tok); err == nil {
		t.Fatal("token signed with another secret should not parse")
	}
}

func TestParseRejectsWrongIssuer(t *testing.T) {
	a := &JWTer{Secret: []byte("test-secret"), Issuer: "someone-else", TTL: time.Hour}
	b := &JWTer{Secret: []byte("test-secret"), Issuer: "workout-api", TTL: time.Hour}

	tok, err := a.Issue("user-1", "USER")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := b.Parse(tok); err == nil {
		t.Fatal("token from another issuer should not parse")
	}
}

func TestParseRejectsExpired(t *testing.T) {
	j := &JWTer{Secret: []byte("test-secret"), Issuer: "workout-api", TTL: -2 * time.Minute}

	tok, err := j.Issue("user-1", "USER")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := j.Parse(tok); err == nil {
		t.Fatal("expired token should not parse")
	}
}

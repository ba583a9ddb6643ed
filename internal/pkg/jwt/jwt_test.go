package jwt

import (
	"testing"
	"time"
)

func TestSignParseRoundTrip(t *testing.T) {
	token, err := SignWithOptions("user-1", time.Hour, SignOptions{SessionID: "sess-1"})
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	claims, err := Parse(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UserID != "user-1" {
		t.Errorf("uid = %q, want user-1", claims.UserID)
	}
	if claims.SessionID != "sess-1" {
		t.Errorf("sid = %q, want sess-1", claims.SessionID)
	}
}

func TestParseRejectsExpiredToken(t *testing.T) {
	token, err := Sign("user-1", -time.Minute)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := Parse(token); err == nil {
		t.Fatal("expired token must not parse")
	}
}

func TestParseRejectsTamperedToken(t *testing.T) {
	token, err := Sign("user-1", time.Hour)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := Parse(token + "x"); err == nil {
		t.Fatal("tampered token must not parse")
	}
	if _, err := Parse("not-a-token"); err == nil {
		t.Fatal("garbage must not parse")
	}
}

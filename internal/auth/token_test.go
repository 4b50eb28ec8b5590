package auth

import (
	"strings"
	"testing"
	"time"

	dom "todoapi/internal/domain"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func testUser() dom.User {
	return dom.User{ID: 42, Email: "alice@example.com", Name: "Alice"}
}

func TestIssueVerifyRoundtrip(t *testing.T) {
	m := NewTokenManager(testSecret, "todoapi", "todoclient", time.Hour)

	token, expiresAt, err := m.Issue(testUser())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty token")
	}
	if until := time.Until(expiresAt); until < 59*time.Minute || until > time.Hour {
		t.Fatalf("expected expiry about an hour out, got %v", until)
	}

	userID, err := m.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if userID != 42 {
		t.Fatalf("expected subject 42, got %d", userID)
	}
}

func TestVerifyExpiredToken(t *testing.T) {
	m := NewTokenManager(testSecret, "todoapi", "todoclient", time.Hour)
	m.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, _, err := m.Issue(testUser())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	m.now = time.Now
	if _, err := m.Verify(token); err == nil {
		t.Fatal("expected expired token to fail verification")
	}
}

func TestVerifyWrongKey(t *testing.T) {
	issuer := NewTokenManager(testSecret, "todoapi", "todoclient", time.Hour)
	verifier := NewTokenManager(strings.Repeat("x", 32), "todoapi", "todoclient", time.Hour)

	token, _, err := issuer.Issue(testUser())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := verifier.Verify(token); err == nil {
		t.Fatal("expected signature mismatch to fail verification")
	}
}

func TestVerifyWrongIssuerOrAudience(t *testing.T) {
	m := NewTokenManager(testSecret, "todoapi", "todoclient", time.Hour)
	token, _, err := m.Issue(testUser())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	otherIssuer := NewTokenManager(testSecret, "someone-else", "todoclient", time.Hour)
	if _, err := otherIssuer.Verify(token); err == nil {
		t.Fatal("expected issuer mismatch to fail verification")
	}
	otherAudience := NewTokenManager(testSecret, "todoapi", "other-client", time.Hour)
	if _, err := otherAudience.Verify(token); err == nil {
		t.Fatal("expected audience mismatch to fail verification")
	}
}

func TestVerifyGarbage(t *testing.T) {
	m := NewTokenManager(testSecret, "todoapi", "todoclient", time.Hour)
	for _, raw := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := m.Verify(raw); err == nil {
			t.Fatalf("expected %q to fail verification", raw)
		}
	}
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{"Bearer abc.def.ghi", "abc.def.ghi"},
		{"bearer abc.def.ghi", "abc.def.ghi"},
		{"Bearer   spaced  ", "spaced"},
		{"Basic abc", ""},
		{"Bearer", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := bearerToken(tt.header); got != tt.want {
			t.Fatalf("bearerToken(%q) = %q, want %q", tt.header, got, tt.want)
		}
	}
}

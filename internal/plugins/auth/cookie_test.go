package auth

import (
	"strings"
	"testing"
	"time"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestCookieSigner_RoundTrip(t *testing.T) {
	s, err := NewCookieSigner(testSecret, time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	value, err := s.Sign("sid-1", sampleRecord())
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(value, "access") {
		t.Error("cookie must not carry backend tokens")
	}

	sid, err := s.Verify(value)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if sid != "sid-1" {
		t.Errorf("expected sid-1, got %q", sid)
	}
}

func TestCookieSigner_RejectsOtherKey(t *testing.T) {
	a, _ := NewCookieSigner(testSecret, time.Hour)
	b, _ := NewCookieSigner(strings.Repeat("z", 32), time.Hour)

	value, _ := a.Sign("sid-1", sampleRecord())
	if _, err := b.Verify(value); err == nil {
		t.Fatal("expected signature mismatch")
	}
}

func TestCookieSigner_RejectsExpired(t *testing.T) {
	s, _ := NewCookieSigner(testSecret, time.Hour)
	past := time.Now().Add(-2 * time.Hour)
	s.now = func() time.Time { return past }
	value, _ := s.Sign("sid-1", sampleRecord())

	s.now = time.Now
	if _, err := s.Verify(value); err == nil {
		t.Fatal("expected expired cookie to be rejected")
	}
}

func TestCookieSigner_RejectsGarbage(t *testing.T) {
	s, _ := NewCookieSigner(testSecret, time.Hour)
	for _, v := range []string{"", "abc", "a.b.c"} {
		if _, err := s.Verify(v); err == nil {
			t.Errorf("expected %q to be rejected", v)
		}
	}
}

func TestNewCookieSigner_EmptySecret(t *testing.T) {
	if _, err := NewCookieSigner("", time.Hour); err == nil {
		t.Fatal("expected error for empty secret")
	}
}

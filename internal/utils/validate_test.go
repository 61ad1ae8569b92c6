package utils

import (
	"testing"
	"time"
)

func TestValidEmail(t *testing.T) {
	for _, ok := range []string{"a@b.io", "john.doe@dealer.example.com"} {
		if !ValidEmail(ok) {
			t.Errorf("%q should be valid", ok)
		}
	}
	for _, bad := range []string{"", "a@b", "no-at.example.com", "a b@c.io"} {
		if ValidEmail(bad) {
			t.Errorf("%q should be invalid", bad)
		}
	}
}

func TestValidPhone(t *testing.T) {
	for _, ok := range []string{"+7 900 123-45-67", "89001234567", "(495) 123-45-67"} {
		if !ValidPhone(ok) {
			t.Errorf("%q should be valid", ok)
		}
	}
	for _, bad := range []string{"", "12", "phone", "+7 900 abc"} {
		if ValidPhone(bad) {
			t.Errorf("%q should be invalid", bad)
		}
	}
}

func TestAccessTokenRoundTrip(t *testing.T) {
	tok, err := NewAccessToken("secret", 42, "ADMIN", 5)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if tok.Token == "" {
		t.Fatal("empty token")
	}
	if !tok.Exp.After(time.Now()) {
		t.Fatal("token already expired at issue time")
	}
}

func TestPasswordHashVerify(t *testing.T) {
	h, err := HashPassword("s3cret", 4)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !VerifyPassword(h, "s3cret") {
		t.Error("correct password rejected")
	}
	if VerifyPassword(h, "wrong") {
		t.Error("wrong password accepted")
	}
}

package auth

import (
	"errors"
	"testing"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("correct horse")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "correct horse" {
		t.Fatalf("hash equals plaintext")
	}
	if !CheckPassword("correct horse", hash) {
		t.Fatalf("expected correct password to match")
	}
	if CheckPassword("battery staple", hash) {
		t.Fatalf("expected wrong password to fail")
	}
}

func TestHashPasswordSalted(t *testing.T) {
	first, err := HashPassword("samepassword")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	second, err := HashPassword("samepassword")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if first == second {
		t.Fatalf("two hashes of the same password are identical")
	}
}

func TestValidatePassword(t *testing.T) {
	if err := ValidatePassword("12345"); !errors.Is(err, ErrPasswordTooShort) {
		t.Fatalf("err = %v, want ErrPasswordTooShort", err)
	}
	if err := ValidatePassword("123456"); err != nil {
		t.Fatalf("err = %v, want nil", err)
	}
}

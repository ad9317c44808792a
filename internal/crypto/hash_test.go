package crypto

import (
	"errors"
	"testing"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("turntables")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if hash == "turntables" {
		t.Fatal("hash must not equal the plaintext")
	}

	if err := CheckPassword(hash, "turntables"); err != nil {
		t.Errorf("CheckPassword(correct) error = %v", err)
	}
	if err := CheckPassword(hash, "cdj-3000"); !errors.Is(err, ErrMismatch) {
		t.Errorf("CheckPassword(wrong) error = %v, want ErrMismatch", err)
	}
}

func TestCheckPasswordMalformedHash(t *testing.T) {
	err := CheckPassword("not-a-bcrypt-hash", "whatever")
	if err == nil || errors.Is(err, ErrMismatch) {
		t.Errorf("expected a non-mismatch error for malformed hash, got %v", err)
	}
}

package crypto_test

import (
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/weathermate/backend/internal/common/crypto"
)

func TestBcryptHasher_RoundTrip(t *testing.T) {
	hasher := &crypto.BcryptHasher{}

	hash, err := hasher.Hash("correct horse battery staple")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if hash == "correct horse battery staple" {
		t.Fatal("hash must not equal the password")
	}

	if !strings.HasPrefix(hash, "$2") {
		t.Errorf("expected a bcrypt hash, got %q", hash)
	}

	if err := hasher.Compare(hash, "correct horse battery staple"); err != nil {
		t.Errorf("expected match, got %v", err)
	}
}

func TestBcryptHasher_WrongPassword(t *testing.T) {
	hasher := &crypto.BcryptHasher{}

	hash, err := hasher.Hash("password1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if err := hasher.Compare(hash, "password2"); err == nil {
		t.Error("expected mismatch error")
	}
}

func TestBcryptHasher_MalformedHash(t *testing.T) {
	hasher := &crypto.BcryptHasher{}

	if err := hasher.Compare("not-a-bcrypt-hash", "password1"); err == nil {
		t.Error("expected error for malformed hash")
	}
}

func TestUUIDGenerator_ProducesUniqueIDs(t *testing.T) {
	gen := crypto.NewUUIDGenerator()

	first, err := gen.NewID()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if _, err := uuid.Parse(first); err != nil {
		t.Errorf("expected a parseable UUID, got %q", first)
	}

	second, err := gen.NewID()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if first == second {
		t.Error("expected distinct IDs")
	}
}

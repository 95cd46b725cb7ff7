package store

import (
	"bytes"
	"testing"

	"github.com/dukerupert/repapp/internal/database"
)

func TestGenerateSalt(t *testing.T) {
	salt1, err := GenerateSalt()
	if err != nil {
		t.Fatalf("generate salt: %v", err)
	}
	if len(salt1) != saltSize {
		t.Errorf("salt length = %d, want %d", len(salt1), saltSize)
	}

	salt2, _ := GenerateSalt()
	if bytes.Equal(salt1, salt2) {
		t.Error("two salts should not be equal")
	}
}

func TestDeriveKeyDeterminism(t *testing.T) {
	salt := []byte("1234567890abcdef")

	key1 := DeriveKey("secret", salt)
	key2 := DeriveKey("secret", salt)
	if !bytes.Equal(key1, key2) {
		t.Error("same secret+salt should produce same key")
	}
	if len(key1) != keySize {
		t.Errorf("key length = %d, want %d", len(key1), keySize)
	}
}

func TestSealerWrongSecret(t *testing.T) {
	salt := []byte("1234567890abcdef")
	a, err := NewSealer("right", salt)
	if err != nil {
		t.Fatalf("new sealer: %v", err)
	}
	b, _ := NewSealer("wrong", salt)

	sealed, err := a.Seal("token")
	if err != nil {
		t.Fatalf("seal: %v", err)
	}
	if _, err := b.Open(sealed); err == nil {
		t.Error("expected error opening with wrong secret")
	}
	if _, err := a.Open("AAAA"); err == nil {
		t.Error("expected error for short sealed value")
	}
}

func TestLoadSealerReusesSalt(t *testing.T) {
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	defer db.Close()

	first, err := LoadSealer(db, "secret")
	if err != nil {
		t.Fatalf("load sealer: %v", err)
	}
	sealed, _ := first.Seal("hello")

	second, err := LoadSealer(db, "secret")
	if err != nil {
		t.Fatalf("reload sealer: %v", err)
	}
	got, err := second.Open(sealed)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if got != "hello" {
		t.Errorf("opened = %q, want %q", got, "hello")
	}

	none, err := LoadSealer(db, "")
	if err != nil || none != nil {
		t.Errorf("LoadSealer with empty secret = %v, %v; want nil, nil", none, err)
	}
}

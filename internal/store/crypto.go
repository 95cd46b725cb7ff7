package store

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/argon2"
)

const (
	saltSize  = 16
	nonceSize = 12
	keySize   = 32
	argonTime = 3
	argonMem  = 64 * 1024
	argonPar  = 4

	saltMetaName = "seal_salt"
)

var ErrSealedValue = errors.New("sealed value is malformed")

// Sealer encrypts session values with AES-256-GCM under a key derived from
// a local secret.
type Sealer struct {
	gcm cipher.AEAD
}

// GenerateSalt returns 16 cryptographically random bytes.
func GenerateSalt() ([]byte, error) {
	salt := make([]byte, saltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}
	return salt, nil
}

// DeriveKey derives a 32-byte AES-256 key from a secret and salt using Argon2id.
func DeriveKey(secret string, salt []byte) []byte {
	return argon2.IDKey([]byte(secret), salt, argonTime, argonMem, argonPar, keySize)
}

// NewSealer builds a Sealer from a secret and salt.
func NewSealer(secret string, salt []byte) (*Sealer, error) {
	block, err := aes.NewCipher(DeriveKey(secret, salt))
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("create gcm: %w", err)
	}
	return &Sealer{gcm: gcm}, nil
}

// LoadSealer returns a Sealer for the database, creating and persisting the
// salt on first use. An empty secret disables sealing and returns nil.
func LoadSealer(db *sql.DB, secret string) (*Sealer, error) {
	if secret == "" {
		return nil, nil
	}

	var salt []byte
	err := db.QueryRow(`SELECT value FROM store_meta WHERE name = ?`, saltMetaName).Scan(&salt)
	if err == sql.ErrNoRows {
		salt, err = GenerateSalt()
		if err != nil {
			return nil, err
		}
		if _, err := db.Exec(`INSERT INTO store_meta (name, value) VALUES (?, ?)`, saltMetaName, salt); err != nil {
			return nil, fmt.Errorf("save salt: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("load salt: %w", err)
	}

	return NewSealer(secret, salt)
}

// Seal encrypts plaintext. Output is base64 of [12-byte nonce][ciphertext].
func (s *Sealer) Seal(plaintext string) (string, error) {
	nonce := make([]byte, nonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}

	out := make([]byte, 0, nonceSize+len(plaintext)+s.gcm.Overhead())
	out = append(out, nonce...)
	out = s.gcm.Seal(out, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(out), nil
}

// Open reverses Seal.
func (s *Sealer) Open(sealed string) (string, error) {
	data, err := base64.StdEncoding.DecodeString(sealed)
	if err != nil {
		return "", fmt.Errorf("decode: %w", err)
	}
	if len(data) < nonceSize {
		return "", ErrSealedValue
	}

	plaintext, err := s.gcm.Open(nil, data[:nonceSize], data[nonceSize:], nil)
	if err != nil {
		return "", fmt.Errorf("decrypt: %w", err)
	}
	return string(plaintext), nil
}

package store

import (
	"database/sql"
	"fmt"
	"time"
)

// Persisted session keys.
const (
	KeyToken         = "token"
	KeyUser          = "usuario"
	KeyRepID         = "repId"
	KeyPendingInvite = "pendingInvite"
)

// SessionKeys are the keys cleared together on logout.
var SessionKeys = []string{KeyToken, KeyUser, KeyRepID}

var sealedKeys = map[string]bool{
	KeyToken: true,
}

// SessionStore is the durable key/value store behind the client session.
// Values for sealed keys are encrypted when a Sealer is configured.
type SessionStore struct {
	db     *sql.DB
	sealer *Sealer
}

func NewSessionStore(db *sql.DB, sealer *Sealer) *SessionStore {
	return &SessionStore{db: db, sealer: sealer}
}

// Get returns the value stored under key. A missing key reports found=false
// with a nil error.
func (s *SessionStore) Get(key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM session_values WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get session value %q: %w", key, err)
	}

	if s.sealer != nil && sealedKeys[key] {
		plain, err := s.sealer.Open(value)
		if err != nil {
			return "", false, fmt.Errorf("open session value %q: %w", key, err)
		}
		value = plain
	}
	return value, true, nil
}

func (s *SessionStore) Set(key, value string) error {
	if s.sealer != nil && sealedKeys[key] {
		sealed, err := s.sealer.Seal(value)
		if err != nil {
			return fmt.Errorf("seal session value %q: %w", key, err)
		}
		value = sealed
	}

	_, err := s.db.Exec(
		`INSERT INTO session_values (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("set session value %q: %w", key, err)
	}
	return nil
}

func (s *SessionStore) Remove(key string) error {
	if _, err := s.db.Exec(`DELETE FROM session_values WHERE key = ?`, key); err != nil {
		return fmt.Errorf("remove session value %q: %w", key, err)
	}
	return nil
}

// RemoveAll deletes every given key in a single transaction.
func (s *SessionStore) RemoveAll(keys ...string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, key := range keys {
		if _, err := tx.Exec(`DELETE FROM session_values WHERE key = ?`, key); err != nil {
			return fmt.Errorf("remove session value %q: %w", key, err)
		}
	}
	return tx.Commit()
}

// Keys lists the keys currently stored, sorted.
func (s *SessionStore) Keys() ([]string, error) {
	rows, err := s.db.Query(`SELECT key FROM session_values ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("list session keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("scan session key: %w", err)
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}

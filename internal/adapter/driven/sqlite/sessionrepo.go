package sqlite

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/techxplorers/portfolio/internal/domain/model"
	"github.com/techxplorers/portfolio/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.SessionStore = (*SessionRepo)(nil)

// SessionRepo is the SQLite implementation of the SessionStore port.
// Provider tokens are encrypted with AES-256-GCM before write and decrypted
// after read; the other columns are stored in the clear.
type SessionRepo struct {
	db  *DB
	key []byte // 32-byte AES-256 key; nil disables the repo.
}

// NewSessionRepo creates a SessionRepo. key must be 32 bytes, or nil, in
// which case Save and Get return driven.ErrEncryptionKeyNotSet.
func NewSessionRepo(db *DB, key []byte) *SessionRepo {
	return &SessionRepo{db: db, key: key}
}

// Save stores or replaces the session.
func (r *SessionRepo) Save(ctx context.Context, s model.Session) error {
	token, err := r.encrypt(s.Token)
	if err != nil {
		return err
	}

	const query = `INSERT OR REPLACE INTO sessions (id, uid, email, provider, token, created_at, expires_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.Writer.ExecContext(ctx, query,
		s.ID, s.UID, s.Email, s.Provider, token, formatTime(s.CreatedAt), formatTime(s.ExpiresAt),
	)
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Get returns the session with id, or nil, nil when there is none. Expiry is
// not checked here.
func (r *SessionRepo) Get(ctx context.Context, id string) (*model.Session, error) {
	if r.key == nil {
		return nil, driven.ErrEncryptionKeyNotSet
	}

	const query = `SELECT id, uid, email, provider, token, created_at, expires_at FROM sessions WHERE id = ?`
	var (
		s                    model.Session
		token                string
		createdAt, expiresAt string
	)
	err := r.db.Reader.QueryRowContext(ctx, query, id).Scan(
		&s.ID, &s.UID, &s.Email, &s.Provider, &token, &createdAt, &expiresAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	if s.Token, err = r.decrypt(token); err != nil {
		return nil, fmt.Errorf("decrypt session token: %w", err)
	}
	if s.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	if s.ExpiresAt, err = parseTime(expiresAt); err != nil {
		return nil, fmt.Errorf("parse expires_at: %w", err)
	}

	return &s, nil
}

// Delete removes the session. Missing ids are not an error.
func (r *SessionRepo) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM sessions WHERE id = ?`
	if _, err := r.db.Writer.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// DeleteExpired removes sessions whose expiry is at or before now.
func (r *SessionRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	const query = `DELETE FROM sessions WHERE expires_at <= ?`

	result, err := r.db.Writer.ExecContext(ctx, query, formatTime(now))
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("check rows affected: %w", err)
	}
	return n, nil
}

// encrypt seals plaintext with AES-256-GCM and returns base64(nonce || ciphertext || tag).
func (r *SessionRepo) encrypt(plaintext string) (string, error) {
	gcm, err := r.gcm()
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("rand nonce: %w", err)
	}

	sealed := gcm.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

func (r *SessionRepo) decrypt(encoded string) (string, error) {
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("base64 decode: %w", err)
	}

	gcm, err := r.gcm()
	if err != nil {
		return "", err
	}

	nonceSize := gcm.NonceSize()
	if len(data) < nonceSize {
		return "", errors.New("ciphertext too short")
	}

	nonce, ciphertext := data[:nonceSize], data[nonceSize:]
	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("gcm.Open: %w", err)
	}
	return string(plaintext), nil
}

func (r *SessionRepo) gcm() (cipher.AEAD, error) {
	if r.key == nil {
		return nil, driven.ErrEncryptionKeyNotSet
	}
	block, err := aes.NewCipher(r.key)
	if err != nil {
		return nil, fmt.Errorf("aes.NewCipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("cipher.NewGCM: %w", err)
	}
	return gcm, nil
}

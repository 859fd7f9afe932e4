package driven

import (
	"context"
	"errors"
	"time"

	"github.com/techxplorers/portfolio/internal/domain/model"
)

// ErrEncryptionKeyNotSet is returned by SessionStore operations when the
// adapter was constructed without an encryption key.
var ErrEncryptionKeyNotSet = errors.New("encryption key not configured: set PORTFOLIO_SECRET_KEY")

// SessionStore defines the driven port for operator session persistence.
// The adapter encrypts provider tokens at rest; this interface operates on
// plaintext values at the domain boundary.
type SessionStore interface {
	// Save stores or replaces the session with the same ID.
	Save(ctx context.Context, session model.Session) error

	// Get returns the session with the given ID, or nil, nil if none exists.
	Get(ctx context.Context, id string) (*model.Session, error)

	// Delete removes the session. Deleting a missing session succeeds.
	Delete(ctx context.Context, id string) error

	// DeleteExpired removes every session that expired at or before now and
	// returns how many were removed.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

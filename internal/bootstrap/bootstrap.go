// Package bootstrap builds the driven adapters selected by configuration.
// Both binaries share it so the server and the operator CLI always talk to
// the same stores.
package bootstrap

import (
	"context"
	"crypto/rand"
	"fmt"
	"log/slog"

	"github.com/techxplorers/portfolio/internal/adapter/driven/firebaseauth"
	"github.com/techxplorers/portfolio/internal/adapter/driven/localauth"
	"github.com/techxplorers/portfolio/internal/adapter/driven/rtdb"
	sqliteadapter "github.com/techxplorers/portfolio/internal/adapter/driven/sqlite"
	"github.com/techxplorers/portfolio/internal/config"
	"github.com/techxplorers/portfolio/internal/domain/port/driven"
)

// Stores bundles the opened persistence adapters.
type Stores struct {
	DB       *sqliteadapter.DB
	Catalog  driven.CatalogStore
	Sessions driven.SessionStore
}

// Close releases the SQLite pools.
func (s *Stores) Close() error {
	return s.DB.Close()
}

// OpenStores opens and migrates the SQLite database, then selects the
// catalog backend. Sessions always live in SQLite; the catalog lives in
// SQLite or in the remote tree store.
func OpenStores(ctx context.Context, cfg *config.Config, key []byte, logger *slog.Logger) (*Stores, error) {
	db, err := sqliteadapter.NewDB(ctx, cfg.DBPath)
	if err != nil {
		return nil, err
	}
	if err := sqliteadapter.RunMigrations(db.Writer); err != nil {
		_ = db.Close()
		return nil, err
	}

	stores := &Stores{
		DB:       db,
		Sessions: sqliteadapter.NewSessionRepo(db, key),
	}

	switch cfg.Store {
	case config.StoreRTDB:
		client, err := rtdb.NewClient(cfg.RTDBURL, logger)
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("open catalog store: %w", err)
		}
		stores.Catalog = client
	default:
		stores.Catalog = sqliteadapter.NewCatalogRepo(db, logger)
	}

	return stores, nil
}

// NewAuthProvider returns the operator authentication backend.
func NewAuthProvider(cfg *config.Config) (driven.AuthProvider, error) {
	switch cfg.Auth {
	case config.AuthFirebase:
		return firebaseauth.NewClient(cfg.FirebaseAPIKey), nil
	default:
		return localauth.New(cfg.OperatorEmail, cfg.OperatorPasswordHash)
	}
}

// SecretKey returns the configured key, or a random one when none is set.
// A random key does not survive a restart: operators are signed out and
// stored sessions can no longer be decrypted.
func SecretKey(cfg *config.Config, logger *slog.Logger) ([]byte, error) {
	if cfg.SecretKey != nil {
		return cfg.SecretKey, nil
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("generate secret key: %w", err)
	}
	logger.Warn("PORTFOLIO_SECRET_KEY not set, using an ephemeral key; sessions end on restart")
	return key, nil
}

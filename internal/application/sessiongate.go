package application

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/techxplorers/portfolio/internal/domain/model"
	"github.com/techxplorers/portfolio/internal/domain/port/driven"
)

const (
	sessionIDBytes          = 32
	sessionCacheTTL         = time.Minute
	sessionCacheCleanup     = 5 * time.Minute
	unavailableLoginMessage = "authentication service unavailable, try again later"
)

// SessionGate authenticates operators and answers whether a session is
// live. Credential checks are delegated entirely to the auth provider.
type SessionGate struct {
	provider driven.AuthProvider
	store    driven.SessionStore
	ttl      time.Duration
	cache    *gocache.Cache
	now      func() time.Time
	logger   *slog.Logger
}

// NewSessionGate creates a SessionGate. ttl bounds every session; a provider
// token that expires sooner shortens it.
func NewSessionGate(provider driven.AuthProvider, store driven.SessionStore, ttl time.Duration, logger *slog.Logger) *SessionGate {
	return &SessionGate{
		provider: provider,
		store:    store,
		ttl:      ttl,
		cache:    gocache.New(sessionCacheTTL, sessionCacheCleanup),
		now:      time.Now,
		logger:   logger,
	}
}

// Login exchanges credentials for a new session. Rejections are returned as
// *model.AuthError with a message fit for display; provider outages become
// an AuthError too, with the cause logged.
func (g *SessionGate) Login(ctx context.Context, email, password string) (model.Session, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return model.Session{}, &model.AuthError{Reason: "email and password are required"}
	}

	identity, err := g.provider.SignIn(ctx, email, password)
	if err != nil {
		var authErr *model.AuthError
		if errors.As(err, &authErr) {
			g.logger.Info("login rejected", "email", email, "reason", authErr.Reason)
			return model.Session{}, authErr
		}
		g.logger.Error("auth provider failed", "provider", g.provider.Name(), "error", err)
		return model.Session{}, &model.AuthError{Reason: unavailableLoginMessage}
	}

	now := g.now().UTC()
	expiresAt := now.Add(g.ttl)
	if identity.ExpiresIn > 0 && now.Add(identity.ExpiresIn).Before(expiresAt) {
		expiresAt = now.Add(identity.ExpiresIn)
	}

	id, err := newSessionID()
	if err != nil {
		return model.Session{}, fmt.Errorf("login: %w", err)
	}

	session := model.Session{
		ID:        id,
		UID:       identity.UID,
		Email:     identity.Email,
		Provider:  g.provider.Name(),
		Token:     identity.Token,
		CreatedAt: now,
		ExpiresAt: expiresAt,
	}
	if session.Email == "" {
		session.Email = email
	}

	if err := g.store.Save(ctx, session); err != nil {
		return model.Session{}, fmt.Errorf("login: save session: %w", err)
	}
	g.cache.SetDefault(id, session)

	g.logger.Info("operator logged in", "email", session.Email, "provider", session.Provider, "expires_at", expiresAt)
	return session, nil
}

// Logout invalidates the session. Unknown or empty ids are ignored.
func (g *SessionGate) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	g.cache.Delete(sessionID)
	if err := g.store.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

// Current returns the live session for sessionID, or nil when there is none
// or it has expired. Expired sessions are deleted on sight.
func (g *SessionGate) Current(ctx context.Context, sessionID string) (*model.Session, error) {
	if sessionID == "" {
		return nil, nil
	}

	now := g.now()
	if cached, ok := g.cache.Get(sessionID); ok {
		if s, ok := cached.(model.Session); ok && !s.Expired(now) {
			return &s, nil
		}
		g.cache.Delete(sessionID)
	}

	s, err := g.store.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("lookup session: %w", err)
	}
	if s == nil {
		return nil, nil
	}

	if s.Expired(now) {
		if err := g.store.Delete(ctx, sessionID); err != nil {
			g.logger.Warn("failed to delete expired session", "error", err)
		}
		return nil, nil
	}

	g.cache.SetDefault(sessionID, *s)
	return s, nil
}

// PurgeExpired deletes every expired session from the store.
func (g *SessionGate) PurgeExpired(ctx context.Context) (int64, error) {
	n, err := g.store.DeleteExpired(ctx, g.now())
	if err != nil {
		return 0, fmt.Errorf("purge sessions: %w", err)
	}
	return n, nil
}

func newSessionID() (string, error) {
	b := make([]byte, sessionIDBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate session id: %w", err)
	}
	return hex.EncodeToString(b), nil
}

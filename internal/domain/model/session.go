package model

import (
	"context"
	"time"
)

// Identity is what an auth provider returns for accepted credentials.
// ExpiresIn is zero when the provider does not bound the token lifetime.
type Identity struct {
	UID       string
	Email     string
	Token     string
	ExpiresIn time.Duration
}

// Session is an authenticated operator session. ID is the opaque handle kept
// in the browser cookie; Token is the provider credential forwarded to the
// store on writes.
type Session struct {
	ID        string
	UID       string
	Email     string
	Provider  string
	Token     string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Expired reports whether the session is no longer valid at now.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

type sessionKey struct{}

// ContextWithSession returns a copy of ctx carrying s.
func ContextWithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// SessionFromContext returns the session carried by ctx, if any.
func SessionFromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(*Session)
	return s, ok && s != nil
}

// Package localauth authenticates a single operator configured with a bcrypt
// password hash. It backs local and development deployments that do not use
// a hosted identity provider.
package localauth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/techxplorers/portfolio/internal/domain/model"
	"github.com/techxplorers/portfolio/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.AuthProvider = (*Provider)(nil)

const invalidCredentials = "invalid email or password"

// Provider checks credentials against one configured operator.
type Provider struct {
	email string
	hash  []byte
}

// New creates a Provider for email with the given bcrypt hash. The hash is
// checked for a valid bcrypt format up front.
func New(email, passwordHash string) (*Provider, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, errors.New("localauth: operator email is required")
	}
	if _, err := bcrypt.Cost([]byte(passwordHash)); err != nil {
		return nil, fmt.Errorf("localauth: invalid password hash: %w", err)
	}
	return &Provider{email: email, hash: []byte(passwordHash)}, nil
}

// HashPassword returns the bcrypt hash to configure for password.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", errors.New("password must not be empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// Name implements driven.AuthProvider.
func (p *Provider) Name() string { return "local" }

// SignIn accepts the configured operator only. Email comparison ignores
// case. The hash comparison runs even for an unknown email.
func (p *Provider) SignIn(ctx context.Context, email, password string) (model.Identity, error) {
	if err := ctx.Err(); err != nil {
		return model.Identity{}, err
	}

	emailOK := strings.EqualFold(strings.TrimSpace(email), p.email)
	err := bcrypt.CompareHashAndPassword(p.hash, []byte(password))
	if err != nil && !errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return model.Identity{}, fmt.Errorf("localauth: compare hash: %w", err)
	}
	if err != nil || !emailOK {
		return model.Identity{}, &model.AuthError{Reason: invalidCredentials}
	}

	return model.Identity{
		UID:   "local:" + strings.ToLower(p.email),
		Email: p.email,
	}, nil
}

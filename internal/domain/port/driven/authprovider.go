package driven

import (
	"context"

	"github.com/techxplorers/portfolio/internal/domain/model"
)

// AuthProvider defines the driven port for the external identity provider.
// Rejected credentials are reported as *model.AuthError; any other error is a
// provider or transport failure.
type AuthProvider interface {
	SignIn(ctx context.Context, email, password string) (model.Identity, error)

	// Name identifies the provider on persisted sessions ("firebase", "local").
	Name() string
}

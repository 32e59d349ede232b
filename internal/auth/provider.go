package auth

import (
	"context"

	"github.com/SUMMERxKx/nwHacks/internal"
)

// Provider resolves a bearer token to a user. Failures wrap
// internal.ErrUnauthenticated unless the auth backend itself is unreachable.
type Provider interface {
	ValidateTokenLocal(token string) (*internal.User, error)
	ValidateTokenRemote(ctx context.Context, token string) (*internal.User, error)
}

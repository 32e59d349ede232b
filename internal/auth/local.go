package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/SUMMERxKx/nwHacks/internal"
)

// LocalAuthProvider checks tokens against a static token -> user id table.
type LocalAuthProvider struct {
	tokens map[string]string
	logger internal.Logger
}

func (a *LocalAuthProvider) ValidateTokenLocal(token string) (*internal.User, error) {
	if userID, ok := a.tokens[token]; ok && token != "" {
		return &internal.User{ID: userID}, nil
	}
	a.logger.Warnf("rejected unknown token (len=%d)", len(token))
	return nil, fmt.Errorf("%w: unknown token", internal.ErrUnauthenticated)
}

func (a *LocalAuthProvider) ValidateTokenRemote(ctx context.Context, token string) (*internal.User, error) {
	a.logger.Warnf("ValidateTokenRemote not implemented in LocalAuthProvider")
	return nil, errors.New("not implemented in LocalAuthProvider")
}

func NewLocalAuthProvider(tokens map[string]string, logger internal.Logger) *LocalAuthProvider {
	copied := make(map[string]string, len(tokens))
	for k, v := range tokens {
		copied[k] = v
	}
	return &LocalAuthProvider{tokens: copied, logger: logger}
}

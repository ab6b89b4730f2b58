package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/payform/payform/internal/model"
	"github.com/payform/payform/internal/repository"
)

// AccountStore is the persistence surface the resolver depends on.
// *repository.Repository satisfies it.
type AccountStore interface {
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
}

// Resolver turns a bearer token into the caller's account record.
// Every request re-resolves: one store read per call, no caching.
type Resolver struct {
	tokens *TokenManager
	store  AccountStore
}

// NewResolver creates a Resolver.
func NewResolver(tokens *TokenManager, store AccountStore) *Resolver {
	return &Resolver{
		tokens: tokens,
		store:  store,
	}
}

// Resolve verifies the token and loads the account named by its subject.
// Returns ErrUnauthenticated when verification fails and ErrAccountNotFound
// when the claim verifies but the account no longer exists. The two are
// distinct for observability; handlers surface both as the same rejection.
func (r *Resolver) Resolve(ctx context.Context, token string) (*model.User, error) {
	subject, err := r.tokens.Verify(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnauthenticated, err)
	}

	user, err := r.store.GetUserByEmail(ctx, subject)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("load account: %w", err)
	}

	return user, nil
}

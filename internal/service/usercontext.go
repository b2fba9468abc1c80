package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/IKS-cod/TW2/internal/apperror"
	"github.com/IKS-cod/TW2/internal/auth"
	"github.com/IKS-cod/TW2/internal/model"
	"github.com/IKS-cod/TW2/internal/repository"
)

// UserContext resolves the authenticated request identity to a full user
// row. Handlers call Current once and pass the result down — services never
// read identities out of the context themselves.
type UserContext struct {
	users repository.UserRepository
}

// NewUserContext creates the resolver.
func NewUserContext(users repository.UserRepository) *UserContext {
	return &UserContext{users: users}
}

// Current returns the user row for the login the auth middleware stored in
// ctx. No login → ErrUnauthenticated. A valid token whose subject has no
// user row is a server-side inconsistency (users are never deleted), so it
// surfaces as ErrIntegrity rather than a 401.
func (s *UserContext) Current(ctx context.Context) (*model.User, error) {
	login, ok := auth.LoginFromContext(ctx)
	if !ok {
		return nil, apperror.Unauthenticated("authentication required")
	}

	user, err := s.users.GetByEmail(ctx, login)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.Integrity(fmt.Sprintf("valid token for %q but no user row", login))
		}
		return nil, err
	}
	return user, nil
}

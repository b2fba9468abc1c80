package service

import (
	"context"
	"errors"

	"github.com/IKS-cod/TW2/internal/apperror"
	"github.com/IKS-cod/TW2/internal/auth"
	"github.com/IKS-cod/TW2/internal/dto"
	"github.com/IKS-cod/TW2/internal/model"
	"github.com/IKS-cod/TW2/internal/repository"
	"github.com/IKS-cod/TW2/internal/validation"
)

// User implements the profile operations: read, update the mutable fields,
// and change the password.
type User struct {
	users     repository.UserRepository
	avatars   repository.AvatarRepository
	passwords *auth.PasswordService
}

// NewUser creates the user service.
func NewUser(users repository.UserRepository, avatars repository.AvatarRepository, passwords *auth.PasswordService) *User {
	return &User{users: users, avatars: avatars, passwords: passwords}
}

// Profile returns the caller's own profile with the avatar endpoint path
// attached. A missing avatar row just leaves Image empty.
func (s *User) Profile(ctx context.Context, user *model.User) (dto.User, error) {
	out := dto.User{
		ID:        user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Phone:     user.Phone,
		Role:      string(user.Role),
	}

	avatar, err := s.avatars.GetByUserID(ctx, user.ID)
	if err != nil {
		if !errors.Is(err, apperror.ErrNotFound) {
			return dto.User{}, err
		}
	} else {
		out.Image = avatar.EndpointPath
	}
	return out, nil
}

// Update rewrites the three mutable profile fields. Email and role stay
// fixed after registration.
func (s *User) Update(ctx context.Context, user *model.User, req dto.UpdateUser) (dto.UpdateUser, error) {
	switch {
	case !validation.IsValidLength(req.FirstName, minNameLen, maxNameLen) || !validation.IsValidName(req.FirstName):
		return dto.UpdateUser{}, apperror.ValidationFailed("firstName", "first name must be 2-16 letters")
	case !validation.IsValidLength(req.LastName, minNameLen, maxNameLen) || !validation.IsValidName(req.LastName):
		return dto.UpdateUser{}, apperror.ValidationFailed("lastName", "last name must be 2-16 letters")
	case !validation.IsValidPhone(req.Phone):
		return dto.UpdateUser{}, apperror.ValidationFailed("phone", "phone must match +7(XXX)XXX-XX-XX")
	}

	user.FirstName = req.FirstName
	user.LastName = req.LastName
	user.Phone = req.Phone

	if err := s.users.Update(ctx, user); err != nil {
		return dto.UpdateUser{}, err
	}
	return req, nil
}

// UpdatePassword changes the caller's password after verifying the current
// one. A wrong current password is Forbidden, not Unauthenticated — the
// caller IS authenticated, they just failed the extra confirmation.
func (s *User) UpdatePassword(ctx context.Context, user *model.User, req dto.NewPassword) error {
	if err := s.passwords.Verify(user.PasswordHash, req.CurrentPassword); err != nil {
		return apperror.Forbidden("current password is incorrect")
	}

	if !validation.IsValidLength(req.NewPassword, minPasswordLen, maxPasswordLen) {
		return apperror.ValidationFailed("newPassword", "password must be 8-16 characters")
	}

	hash, err := s.passwords.Hash(req.NewPassword)
	if err != nil {
		return err
	}

	user.PasswordHash = hash
	return s.users.Update(ctx, user)
}

package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/IKS-cod/TW2/internal/apperror"
	"github.com/IKS-cod/TW2/internal/auth"
	"github.com/IKS-cod/TW2/internal/dto"
	"github.com/IKS-cod/TW2/internal/filestore"
	"github.com/IKS-cod/TW2/internal/model"
	"github.com/IKS-cod/TW2/internal/repository"
	"github.com/IKS-cod/TW2/internal/validation"
)

// Auth implements registration and credential checking. Both report the
// outcome as a plain bool: the login endpoint must not reveal whether the
// email or the password was wrong, and the register endpoint treats a
// duplicate email the same as any other rejection.
type Auth struct {
	users     repository.UserRepository
	passwords *auth.PasswordService
	avatars   *filestore.Store
	logger    *slog.Logger
}

// NewAuth creates the auth service. avatars is the avatar blob store used
// to provision the default profile picture at registration.
func NewAuth(users repository.UserRepository, passwords *auth.PasswordService, avatars *filestore.Store, logger *slog.Logger) *Auth {
	return &Auth{users: users, passwords: passwords, avatars: avatars, logger: logger}
}

// Login reports whether the credentials identify a registered user.
// Unknown email and wrong password are indistinguishable to the caller.
func (s *Auth) Login(ctx context.Context, username, password string) (bool, error) {
	user, err := s.users.GetByEmail(ctx, username)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return false, nil
		}
		return false, err
	}

	if err := s.passwords.Verify(user.PasswordHash, password); err != nil {
		return false, nil
	}
	return true, nil
}

// Register creates a new account with a default avatar. Returns false for
// invalid input or an already-registered email; true means the user row and
// its avatar row were committed together.
//
// Ordering: the avatar FILE is written before the transaction, so a failed
// commit strands at worst an unreferenced file — never a row pointing at a
// missing file.
func (s *Auth) Register(ctx context.Context, req dto.Register) (bool, error) {
	if !s.validRegistration(req) {
		return false, nil
	}

	role := model.Role(req.Role)
	if req.Role == "" {
		role = model.RoleUser
	}
	if !role.Valid() {
		return false, nil
	}

	taken, err := s.users.ExistsByEmail(ctx, req.Username)
	if err != nil {
		return false, err
	}
	if taken {
		return false, nil
	}

	hash, err := s.passwords.Hash(req.Password)
	if err != nil {
		return false, err
	}

	filePath, err := s.avatars.SaveBytes(filestore.DefaultAvatarPNG, "default.png")
	if err != nil {
		return false, err
	}

	user := model.User{
		Email:        req.Username,
		PasswordHash: hash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Phone:        req.Phone,
		Role:         role,
	}
	avatar := model.Avatar{
		FilePath:  filePath,
		MediaType: filestore.DefaultAvatarMediaType,
	}

	if err := s.users.CreateWithAvatar(ctx, &user, &avatar); err != nil {
		if delErr := s.avatars.Delete(filePath); delErr != nil {
			s.logger.Warn("could not clean up avatar after failed registration", "file", filePath, "error", delErr)
		}
		// The UNIQUE constraint catches the race ExistsByEmail cannot.
		if errors.Is(err, apperror.ErrConflict) {
			return false, nil
		}
		return false, err
	}

	s.logger.Info("user registered", "user_id", user.ID)
	return true, nil
}

func (s *Auth) validRegistration(req dto.Register) bool {
	return validation.IsValidUsername(req.Username) &&
		validation.IsValidLength(req.Password, minPasswordLen, maxPasswordLen) &&
		validation.IsValidLength(req.FirstName, minNameLen, maxNameLen) &&
		validation.IsValidName(req.FirstName) &&
		validation.IsValidLength(req.LastName, minNameLen, maxNameLen) &&
		validation.IsValidName(req.LastName) &&
		validation.IsValidPhone(req.Phone)
}

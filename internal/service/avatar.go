package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/IKS-cod/TW2/internal/apperror"
	"github.com/IKS-cod/TW2/internal/filestore"
	"github.com/IKS-cod/TW2/internal/model"
	"github.com/IKS-cod/TW2/internal/repository"
)

// Avatar serves and replaces user profile pictures. Every user gets a
// default avatar at registration, so a missing avatar row for an existing
// user is an inconsistency, not a 404.
type Avatar struct {
	avatars repository.AvatarRepository
	files   *filestore.Store
}

// NewAvatar creates the avatar service. files is the avatar blob store.
func NewAvatar(avatars repository.AvatarRepository, files *filestore.Store) *Avatar {
	return &Avatar{avatars: avatars, files: files}
}

// Get returns the avatar bytes and media type for a user. Unknown user id →
// ErrNotFound; a row whose file is gone from disk → ErrIntegrity (500, the
// row promised a file that isn't there).
func (s *Avatar) Get(ctx context.Context, userID int64) ([]byte, string, error) {
	avatar, err := s.avatars.GetByUserID(ctx, userID)
	if err != nil {
		return nil, "", err
	}

	data, err := s.files.Read(avatar.FilePath)
	if err != nil {
		return nil, "", apperror.Integrity(fmt.Sprintf("avatar %d points at unreadable file %s", avatar.ID, avatar.FilePath))
	}
	return data, avatar.MediaType, nil
}

// Update replaces the caller's avatar. The new file is written first, the
// row is repointed, then the old file is removed.
func (s *Avatar) Update(ctx context.Context, user *model.User, upload Upload) error {
	if upload.Reader == nil {
		return apperror.ValidationFailed("image", "an image file is required")
	}

	avatar, err := s.avatars.GetByUserID(ctx, user.ID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return apperror.Integrity(fmt.Sprintf("user %d has no avatar row", user.ID))
		}
		return err
	}

	filePath, err := s.files.Replace(upload.Reader, upload.Filename, avatar.FilePath)
	if err != nil {
		return err
	}

	avatar.FilePath = filePath
	avatar.MediaType = upload.MediaType
	return s.avatars.Update(ctx, avatar)
}

package service

import (
	"context"
	"fmt"

	"github.com/IKS-cod/TW2/internal/apperror"
	"github.com/IKS-cod/TW2/internal/filestore"
	"github.com/IKS-cod/TW2/internal/repository"
)

// Image serves ad photos by image id — the id embedded in the endpoint
// path an ad listing hands out.
type Image struct {
	images repository.ImageRepository
	files  *filestore.Store
}

// NewImage creates the image service. files is the ad-image blob store.
func NewImage(images repository.ImageRepository, files *filestore.Store) *Image {
	return &Image{images: images, files: files}
}

// Get returns the image bytes and media type. Unknown id → ErrNotFound; a
// row whose file is gone from disk → ErrIntegrity.
func (s *Image) Get(ctx context.Context, imageID int64) ([]byte, string, error) {
	image, err := s.images.GetByID(ctx, imageID)
	if err != nil {
		return nil, "", err
	}

	data, err := s.files.Read(image.FilePath)
	if err != nil {
		return nil, "", apperror.Integrity(fmt.Sprintf("image %d points at unreadable file %s", image.ID, image.FilePath))
	}
	return data, image.MediaType, nil
}

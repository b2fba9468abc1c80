package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/IKS-cod/TW2/internal/apperror"
	"github.com/IKS-cod/TW2/internal/dto"
	"github.com/IKS-cod/TW2/internal/filestore"
	"github.com/IKS-cod/TW2/internal/model"
	"github.com/IKS-cod/TW2/internal/repository"
	"github.com/IKS-cod/TW2/internal/validation"
)

// Ad implements the listing lifecycle: browse, create with photo, read the
// detail view, update, delete with full cascade, and swap the photo.
type Ad struct {
	ads    repository.AdRepository
	images repository.ImageRepository
	users  repository.UserRepository
	verify *Verification
	files  *filestore.Store
	logger *slog.Logger
}

// NewAd creates the ad service. files is the ad-image blob store.
func NewAd(
	ads repository.AdRepository,
	images repository.ImageRepository,
	users repository.UserRepository,
	verify *Verification,
	files *filestore.Store,
	logger *slog.Logger,
) *Ad {
	return &Ad{ads: ads, images: images, users: users, verify: verify, files: files, logger: logger}
}

// ListAll returns every ad, newest first, in the {count, results} envelope.
// Images are batch-loaded: one query for the ads, one for all their images.
func (s *Ad) ListAll(ctx context.Context) (dto.Ads, error) {
	ads, err := s.ads.ListAll(ctx)
	if err != nil {
		return dto.Ads{}, err
	}
	return s.toListing(ctx, ads)
}

// ListMine returns the caller's own ads in the same envelope.
func (s *Ad) ListMine(ctx context.Context, user *model.User) (dto.Ads, error) {
	ads, err := s.ads.ListByUser(ctx, user.ID)
	if err != nil {
		return dto.Ads{}, err
	}
	return s.toListing(ctx, ads)
}

// Create validates the payload, stores the photo on disk, then commits the
// ad row and its image row in one transaction. If the commit fails the
// just-written file is removed again.
func (s *Ad) Create(ctx context.Context, user *model.User, req dto.CreateOrUpdateAd, upload Upload) (dto.Ad, error) {
	if err := validateAdPayload(req); err != nil {
		return dto.Ad{}, err
	}
	if upload.Reader == nil {
		return dto.Ad{}, apperror.ValidationFailed("image", "an image file is required")
	}

	filePath, err := s.files.Save(upload.Reader, upload.Filename)
	if err != nil {
		return dto.Ad{}, err
	}

	ad := model.Ad{
		Title:       req.Title,
		Price:       *req.Price,
		Description: req.Description,
		UserID:      user.ID,
	}
	image := model.Image{
		FilePath:  filePath,
		MediaType: upload.MediaType,
	}

	if err := s.ads.CreateWithImage(ctx, &ad, &image); err != nil {
		if delErr := s.files.Delete(filePath); delErr != nil {
			s.logger.Warn("could not clean up image after failed ad create", "file", filePath, "error", delErr)
		}
		return dto.Ad{}, err
	}

	s.logger.Info("ad created", "ad_id", ad.ID, "user_id", user.ID)
	return dto.Ad{
		Author: user.ID,
		Image:  image.EndpointPath,
		Pk:     ad.ID,
		Price:  ad.Price,
		Title:  ad.Title,
	}, nil
}

// Get returns the detail view: the ad joined with its owner's contact data
// and the image endpoint path.
func (s *Ad) Get(ctx context.Context, adID int64) (dto.ExtendedAd, error) {
	ad, err := s.ads.GetByID(ctx, adID)
	if err != nil {
		return dto.ExtendedAd{}, err
	}

	owner, err := s.users.GetByID(ctx, ad.UserID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return dto.ExtendedAd{}, apperror.Integrity(fmt.Sprintf("ad %d references missing user %d", ad.ID, ad.UserID))
		}
		return dto.ExtendedAd{}, err
	}

	imagePath := dto.DefaultImagePath
	image, err := s.images.GetByAdID(ctx, ad.ID)
	if err != nil {
		if !errors.Is(err, apperror.ErrNotFound) {
			return dto.ExtendedAd{}, err
		}
	} else {
		imagePath = image.EndpointPath
	}

	return dto.ExtendedAd{
		Pk:              ad.ID,
		AuthorFirstName: owner.FirstName,
		AuthorLastName:  owner.LastName,
		Description:     ad.Description,
		Email:           owner.Email,
		Image:           imagePath,
		Phone:           owner.Phone,
		Price:           ad.Price,
		Title:           ad.Title,
	}, nil
}

// Update rewrites title, price and description. Only the owner or an admin
// may call it; owner and image are untouched.
func (s *Ad) Update(ctx context.Context, user *model.User, adID int64, req dto.CreateOrUpdateAd) (dto.Ad, error) {
	ad, err := s.verify.AdForEdit(ctx, user, adID)
	if err != nil {
		return dto.Ad{}, err
	}
	if err := validateAdPayload(req); err != nil {
		return dto.Ad{}, err
	}

	ad.Title = req.Title
	ad.Price = *req.Price
	ad.Description = req.Description
	if err := s.ads.Update(ctx, ad); err != nil {
		return dto.Ad{}, err
	}

	imagePath := dto.DefaultImagePath
	if image, err := s.images.GetByAdID(ctx, ad.ID); err == nil {
		imagePath = image.EndpointPath
	} else if !errors.Is(err, apperror.ErrNotFound) {
		return dto.Ad{}, err
	}

	return dto.Ad{
		Author: ad.UserID,
		Image:  imagePath,
		Pk:     ad.ID,
		Price:  ad.Price,
		Title:  ad.Title,
	}, nil
}

// Remove deletes an ad with everything hanging off it: comments and image
// row go in the same transaction as the ad row; the image file is removed
// only after the commit succeeds. A file that outlives a crashed delete is
// garbage, a row pointing at a deleted file would be a 500.
func (s *Ad) Remove(ctx context.Context, user *model.User, adID int64) error {
	if _, err := s.verify.AdForEdit(ctx, user, adID); err != nil {
		return err
	}

	imageFile, err := s.ads.DeleteCascade(ctx, adID)
	if err != nil {
		return err
	}

	if imageFile != "" {
		if err := s.files.Delete(imageFile); err != nil {
			s.logger.Warn("could not remove image file of deleted ad", "ad_id", adID, "file", imageFile, "error", err)
		}
	}

	s.logger.Info("ad removed", "ad_id", adID, "user_id", user.ID)
	return nil
}

// UpdateImage replaces the ad's photo and returns the new image bytes with
// their media type, which the handler echoes back. The upload is buffered
// in memory because it has to be both written to disk and returned.
func (s *Ad) UpdateImage(ctx context.Context, user *model.User, adID int64, upload Upload) ([]byte, string, error) {
	ad, err := s.verify.AdForEdit(ctx, user, adID)
	if err != nil {
		return nil, "", err
	}
	if upload.Reader == nil {
		return nil, "", apperror.ValidationFailed("image", "an image file is required")
	}

	data, err := io.ReadAll(upload.Reader)
	if err != nil {
		return nil, "", fmt.Errorf("service: reading upload: %w", err)
	}

	image, err := s.images.GetByAdID(ctx, ad.ID)
	if err != nil {
		if !errors.Is(err, apperror.ErrNotFound) {
			return nil, "", err
		}
		// Ad without an image row (legacy data): create one.
		filePath, err := s.files.SaveBytes(data, upload.Filename)
		if err != nil {
			return nil, "", err
		}
		image = &model.Image{
			FilePath:  filePath,
			MediaType: upload.MediaType,
			AdID:      ad.ID,
		}
		if err := s.images.Create(ctx, image); err != nil {
			if delErr := s.files.Delete(filePath); delErr != nil {
				s.logger.Warn("could not clean up image after failed create", "file", filePath, "error", delErr)
			}
			return nil, "", err
		}
		image.EndpointPath = fmt.Sprintf("/image/image/%d", image.ID)
		if err := s.images.Update(ctx, image); err != nil {
			return nil, "", err
		}
		return data, image.MediaType, nil
	}

	filePath, err := s.files.Replace(bytes.NewReader(data), upload.Filename, image.FilePath)
	if err != nil {
		return nil, "", err
	}

	image.FilePath = filePath
	image.MediaType = upload.MediaType
	if err := s.images.Update(ctx, image); err != nil {
		return nil, "", err
	}
	return data, image.MediaType, nil
}

// toListing converts ad rows to the summary envelope, attaching image
// endpoint paths from one batch query.
func (s *Ad) toListing(ctx context.Context, ads []model.Ad) (dto.Ads, error) {
	ids := make([]int64, len(ads))
	for i, ad := range ads {
		ids[i] = ad.ID
	}

	images, err := s.images.GetByAdIDs(ctx, ids)
	if err != nil {
		return dto.Ads{}, err
	}

	results := make([]dto.Ad, len(ads))
	for i, ad := range ads {
		imagePath := dto.DefaultImagePath
		if img, ok := images[ad.ID]; ok {
			imagePath = img.EndpointPath
		}
		results[i] = dto.Ad{
			Author: ad.UserID,
			Image:  imagePath,
			Pk:     ad.ID,
			Price:  ad.Price,
			Title:  ad.Title,
		}
	}

	return dto.Ads{Count: len(results), Results: results}, nil
}

func validateAdPayload(req dto.CreateOrUpdateAd) error {
	switch {
	case !validation.IsValidLength(req.Title, minTitleLen, maxTitleLen):
		return apperror.ValidationFailed("title", "title must be 4-32 characters")
	case !validation.IsValidPrice(req.Price, minPrice, maxPrice):
		return apperror.ValidationFailed("price", "price must be between 0 and 10000000")
	case !validation.IsValidLength(req.Description, minDescriptionLen, maxDescriptionLen):
		return apperror.ValidationFailed("description", "description must be 8-64 characters")
	}
	return nil
}

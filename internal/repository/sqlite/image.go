package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/IKS-cod/TW2/internal/apperror"
	"github.com/IKS-cod/TW2/internal/model"
	"github.com/IKS-cod/TW2/internal/repository"
)

// ImageRepo implements repository.ImageRepository on top of the shared DB.
type ImageRepo struct {
	db *DB
}

// NewImageRepo creates the image repository.
func NewImageRepo(db *DB) *ImageRepo {
	return &ImageRepo{db: db}
}

// compile-time interface check
var _ repository.ImageRepository = (*ImageRepo)(nil)

// Create inserts an image row. Ads normally get their image through
// AdRepo.CreateWithImage; this standalone insert exists for repairs and
// tests.
func (r *ImageRepo) Create(ctx context.Context, image *model.Image) error {
	res, err := r.db.conn.ExecContext(ctx,
		`INSERT INTO images (file_path, endpoint_path, media_type, ad_id)
		 VALUES (?, ?, ?, ?)`,
		image.FilePath, image.EndpointPath, image.MediaType, image.AdID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting image: %w", err)
	}
	image.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading image id: %w", err)
	}
	return nil
}

// GetByID retrieves an image row by its own id (the endpoint key).
func (r *ImageRepo) GetByID(ctx context.Context, id int64) (*model.Image, error) {
	var img model.Image
	err := r.db.conn.QueryRowContext(ctx,
		`SELECT id, file_path, endpoint_path, media_type, ad_id
		 FROM images WHERE id = ?`,
		id,
	).Scan(&img.ID, &img.FilePath, &img.EndpointPath, &img.MediaType, &img.AdID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("image", id)
		}
		return nil, fmt.Errorf("sqlite: getting image %d: %w", id, err)
	}
	return &img, nil
}

// GetByAdID retrieves the image row belonging to one ad.
func (r *ImageRepo) GetByAdID(ctx context.Context, adID int64) (*model.Image, error) {
	var img model.Image
	err := r.db.conn.QueryRowContext(ctx,
		`SELECT id, file_path, endpoint_path, media_type, ad_id
		 FROM images WHERE ad_id = ?`,
		adID,
	).Scan(&img.ID, &img.FilePath, &img.EndpointPath, &img.MediaType, &img.AdID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, &apperror.AppError{
				Err:     apperror.ErrNotFound,
				Message: fmt.Sprintf("image not found for ad %d", adID),
			}
		}
		return nil, fmt.Errorf("sqlite: getting image for ad %d: %w", adID, err)
	}
	return &img, nil
}

// GetByAdIDs batch-loads images for a listing in a single query, keyed by
// ad id. Listing N ads costs two queries total, not N+1.
func (r *ImageRepo) GetByAdIDs(ctx context.Context, adIDs []int64) (map[int64]model.Image, error) {
	result := make(map[int64]model.Image, len(adIDs))
	if len(adIDs) == 0 {
		return result, nil
	}

	placeholders := strings.Repeat("?,", len(adIDs))
	placeholders = placeholders[:len(placeholders)-1]
	args := make([]any, len(adIDs))
	for i, id := range adIDs {
		args[i] = id
	}

	rows, err := r.db.conn.QueryContext(ctx,
		`SELECT id, file_path, endpoint_path, media_type, ad_id
		 FROM images WHERE ad_id IN (`+placeholders+`)`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: batch loading images: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var img model.Image
		if err := rows.Scan(&img.ID, &img.FilePath, &img.EndpointPath, &img.MediaType, &img.AdID); err != nil {
			return nil, fmt.Errorf("sqlite: scanning image row: %w", err)
		}
		result[img.AdID] = img
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating images: %w", err)
	}
	return result, nil
}

// Update rewrites an image row's file path and media type in place.
func (r *ImageRepo) Update(ctx context.Context, image *model.Image) error {
	result, err := r.db.conn.ExecContext(ctx,
		`UPDATE images SET file_path = ?, endpoint_path = ?, media_type = ? WHERE id = ?`,
		image.FilePath, image.EndpointPath, image.MediaType, image.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating image %d: %w", image.ID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("image", image.ID)
	}
	return nil
}

package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/IKS-cod/TW2/internal/apperror"
	"github.com/IKS-cod/TW2/internal/model"
	"github.com/IKS-cod/TW2/internal/repository"
)

// AdRepo implements repository.AdRepository on top of the shared DB.
type AdRepo struct {
	db *DB
}

// NewAdRepo creates the ad repository.
func NewAdRepo(db *DB) *AdRepo {
	return &AdRepo{db: db}
}

// compile-time interface check
var _ repository.AdRepository = (*AdRepo)(nil)

// CreateWithImage inserts the ad and its image row in one transaction.
//
// A concurrent reader must never see the ad without its image, so both
// inserts commit together. The image FILE is written by the service before
// this is called ("write file, then commit row pointing at it") — if the
// commit fails, the service removes the stranded file best-effort.
func (r *AdRepo) CreateWithImage(ctx context.Context, ad *model.Ad, image *model.Image) error {
	return r.db.inTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO ads (title, price, description, user_id)
			 VALUES (?, ?, ?, ?)`,
			ad.Title, ad.Price, ad.Description, ad.UserID,
		)
		if err != nil {
			return fmt.Errorf("sqlite: inserting ad: %w", err)
		}
		ad.ID, err = res.LastInsertId()
		if err != nil {
			return fmt.Errorf("sqlite: reading ad id: %w", err)
		}

		image.AdID = ad.ID
		res, err = tx.ExecContext(ctx,
			`INSERT INTO images (file_path, endpoint_path, media_type, ad_id)
			 VALUES (?, ?, ?, ?)`,
			image.FilePath, image.EndpointPath, image.MediaType, image.AdID,
		)
		if err != nil {
			return fmt.Errorf("sqlite: inserting image for ad %d: %w", ad.ID, err)
		}
		image.ID, err = res.LastInsertId()
		if err != nil {
			return fmt.Errorf("sqlite: reading image id: %w", err)
		}

		// The endpoint path embeds the image row id, which only exists now.
		image.EndpointPath = fmt.Sprintf("/image/image/%d", image.ID)
		if _, err := tx.ExecContext(ctx,
			`UPDATE images SET endpoint_path = ? WHERE id = ?`,
			image.EndpointPath, image.ID,
		); err != nil {
			return fmt.Errorf("sqlite: setting image endpoint path: %w", err)
		}
		return nil
	})
}

// GetByID retrieves a single ad.
func (r *AdRepo) GetByID(ctx context.Context, id int64) (*model.Ad, error) {
	var ad model.Ad
	err := r.db.conn.QueryRowContext(ctx,
		`SELECT id, title, price, description, user_id FROM ads WHERE id = ?`,
		id,
	).Scan(&ad.ID, &ad.Title, &ad.Price, &ad.Description, &ad.UserID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("ad", id)
		}
		return nil, fmt.Errorf("sqlite: getting ad %d: %w", id, err)
	}
	return &ad, nil
}

// ListAll returns every ad, newest first.
func (r *AdRepo) ListAll(ctx context.Context) ([]model.Ad, error) {
	return r.listAds(ctx,
		`SELECT id, title, price, description, user_id FROM ads ORDER BY id DESC`)
}

// ListByUser returns the ads owned by one user, newest first.
func (r *AdRepo) ListByUser(ctx context.Context, userID int64) ([]model.Ad, error) {
	return r.listAds(ctx,
		`SELECT id, title, price, description, user_id FROM ads
		 WHERE user_id = ? ORDER BY id DESC`, userID)
}

func (r *AdRepo) listAds(ctx context.Context, query string, args ...any) ([]model.Ad, error) {
	rows, err := r.db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing ads: %w", err)
	}
	defer rows.Close()

	var ads []model.Ad
	for rows.Next() {
		var ad model.Ad
		if err := rows.Scan(&ad.ID, &ad.Title, &ad.Price, &ad.Description, &ad.UserID); err != nil {
			return nil, fmt.Errorf("sqlite: scanning ad row: %w", err)
		}
		ads = append(ads, ad)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating ads: %w", err)
	}
	return ads, nil
}

// Update writes the three mutable ad fields. Owner is immutable — it never
// appears in the SET list.
func (r *AdRepo) Update(ctx context.Context, ad *model.Ad) error {
	result, err := r.db.conn.ExecContext(ctx,
		`UPDATE ads SET title = ?, price = ?, description = ? WHERE id = ?`,
		ad.Title, ad.Price, ad.Description, ad.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating ad %d: %w", ad.ID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("ad", ad.ID)
	}
	return nil
}

// DeleteCascade removes the ad's comments, its image row and the ad row in
// one transaction. Deleting zero comments or no image is fine — only a
// missing ad row reports NotFound. The image's file path is returned so the
// caller can delete the file AFTER the commit; a crash in between leaves an
// orphan file rather than a row referencing nothing.
func (r *AdRepo) DeleteCascade(ctx context.Context, adID int64) (string, error) {
	var filePath string
	err := r.db.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM comments WHERE ad_id = ?`, adID,
		); err != nil {
			return fmt.Errorf("sqlite: deleting comments for ad %d: %w", adID, err)
		}

		err := tx.QueryRowContext(ctx,
			`SELECT file_path FROM images WHERE ad_id = ?`, adID,
		).Scan(&filePath)
		if err != nil && err != sql.ErrNoRows {
			return fmt.Errorf("sqlite: looking up image for ad %d: %w", adID, err)
		}

		if _, err := tx.ExecContext(ctx,
			`DELETE FROM images WHERE ad_id = ?`, adID,
		); err != nil {
			return fmt.Errorf("sqlite: deleting image for ad %d: %w", adID, err)
		}

		result, err := tx.ExecContext(ctx, `DELETE FROM ads WHERE id = ?`, adID)
		if err != nil {
			return fmt.Errorf("sqlite: deleting ad %d: %w", adID, err)
		}
		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("sqlite: checking rows affected: %w", err)
		}
		if rowsAffected == 0 {
			return apperror.NotFound("ad", adID)
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return filePath, nil
}

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

// AvatarRepo implements repository.AvatarRepository on top of the shared DB.
type AvatarRepo struct {
	db *DB
}

// NewAvatarRepo creates the avatar repository.
func NewAvatarRepo(db *DB) *AvatarRepo {
	return &AvatarRepo{db: db}
}

// compile-time interface check
var _ repository.AvatarRepository = (*AvatarRepo)(nil)

// Create inserts an avatar row. Normally avatars are created inside
// CreateWithAvatar during registration; this standalone insert exists for
// repairs and tests.
func (r *AvatarRepo) Create(ctx context.Context, avatar *model.Avatar) error {
	res, err := r.db.conn.ExecContext(ctx,
		`INSERT INTO avatars (file_path, endpoint_path, media_type, user_id)
		 VALUES (?, ?, ?, ?)`,
		avatar.FilePath, avatar.EndpointPath, avatar.MediaType, avatar.UserID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting avatar: %w", err)
	}
	avatar.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading avatar id: %w", err)
	}
	return nil
}

// GetByUserID retrieves the avatar row for one user.
func (r *AvatarRepo) GetByUserID(ctx context.Context, userID int64) (*model.Avatar, error) {
	var a model.Avatar
	err := r.db.conn.QueryRowContext(ctx,
		`SELECT id, file_path, endpoint_path, media_type, user_id
		 FROM avatars WHERE user_id = ?`,
		userID,
	).Scan(&a.ID, &a.FilePath, &a.EndpointPath, &a.MediaType, &a.UserID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, &apperror.AppError{
				Err:     apperror.ErrNotFound,
				Message: fmt.Sprintf("avatar not found for user %d", userID),
			}
		}
		return nil, fmt.Errorf("sqlite: getting avatar for user %d: %w", userID, err)
	}
	return &a, nil
}

// GetByUserIDs batch-loads avatars for the given users in a single query.
// Users without an avatar are simply absent from the result map.
func (r *AvatarRepo) GetByUserIDs(ctx context.Context, userIDs []int64) (map[int64]model.Avatar, error) {
	result := make(map[int64]model.Avatar, len(userIDs))
	if len(userIDs) == 0 {
		return result, nil
	}

	// database/sql has no native slice expansion, so build the IN (?,?,...)
	// placeholder list by hand. The values still go through parameters —
	// only the placeholders are concatenated.
	placeholders := strings.Repeat("?,", len(userIDs))
	placeholders = placeholders[:len(placeholders)-1]
	args := make([]any, len(userIDs))
	for i, id := range userIDs {
		args[i] = id
	}

	rows, err := r.db.conn.QueryContext(ctx,
		`SELECT id, file_path, endpoint_path, media_type, user_id
		 FROM avatars WHERE user_id IN (`+placeholders+`)`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: batch loading avatars: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var a model.Avatar
		if err := rows.Scan(&a.ID, &a.FilePath, &a.EndpointPath, &a.MediaType, &a.UserID); err != nil {
			return nil, fmt.Errorf("sqlite: scanning avatar row: %w", err)
		}
		result[a.UserID] = a
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating avatars: %w", err)
	}
	return result, nil
}

// Update rewrites an avatar row's file path and media type in place.
func (r *AvatarRepo) Update(ctx context.Context, avatar *model.Avatar) error {
	result, err := r.db.conn.ExecContext(ctx,
		`UPDATE avatars SET file_path = ?, endpoint_path = ?, media_type = ? WHERE id = ?`,
		avatar.FilePath, avatar.EndpointPath, avatar.MediaType, avatar.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating avatar %d: %w", avatar.ID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("avatar", avatar.ID)
	}
	return nil
}

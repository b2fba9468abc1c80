package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/IKS-cod/TW2/internal/apperror"
	"github.com/IKS-cod/TW2/internal/model"
	"github.com/IKS-cod/TW2/internal/repository"
)

// CommentRepo implements repository.CommentRepository on top of the shared DB.
type CommentRepo struct {
	db *DB
}

// NewCommentRepo creates the comment repository.
func NewCommentRepo(db *DB) *CommentRepo {
	return &CommentRepo{db: db}
}

// compile-time interface check
var _ repository.CommentRepository = (*CommentRepo)(nil)

// Create inserts a new comment. CreatedAt is stamped here (unix millis) if
// the caller left it zero.
func (r *CommentRepo) Create(ctx context.Context, comment *model.Comment) error {
	if comment.CreatedAt == 0 {
		comment.CreatedAt = time.Now().UnixMilli()
	}

	res, err := r.db.conn.ExecContext(ctx,
		`INSERT INTO comments (text, created_at, user_id, ad_id)
		 VALUES (?, ?, ?, ?)`,
		comment.Text, comment.CreatedAt, comment.UserID, comment.AdID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting comment: %w", err)
	}

	comment.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading comment id: %w", err)
	}
	return nil
}

// GetByAdAndID retrieves a comment addressed through its parent ad. A
// comment id belonging to a different ad is NotFound, not Forbidden —
// the composite key is part of the address.
func (r *CommentRepo) GetByAdAndID(ctx context.Context, adID, commentID int64) (*model.Comment, error) {
	return r.scanComment(r.db.conn.QueryRowContext(ctx,
		`SELECT id, text, created_at, user_id, ad_id FROM comments
		 WHERE ad_id = ? AND id = ?`,
		adID, commentID), commentID)
}

func (r *CommentRepo) scanComment(row *sql.Row, id int64) (*model.Comment, error) {
	var c model.Comment
	err := row.Scan(&c.ID, &c.Text, &c.CreatedAt, &c.UserID, &c.AdID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("comment", id)
		}
		return nil, fmt.Errorf("sqlite: getting comment %d: %w", id, err)
	}
	return &c, nil
}

// ListByAd returns the ad's comments, oldest first.
func (r *CommentRepo) ListByAd(ctx context.Context, adID int64) ([]model.Comment, error) {
	rows, err := r.db.conn.QueryContext(ctx,
		`SELECT id, text, created_at, user_id, ad_id FROM comments
		 WHERE ad_id = ? ORDER BY created_at ASC, id ASC`,
		adID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing comments for ad %d: %w", adID, err)
	}
	defer rows.Close()

	var comments []model.Comment
	for rows.Next() {
		var c model.Comment
		if err := rows.Scan(&c.ID, &c.Text, &c.CreatedAt, &c.UserID, &c.AdID); err != nil {
			return nil, fmt.Errorf("sqlite: scanning comment row: %w", err)
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating comments: %w", err)
	}
	return comments, nil
}

// Update replaces the comment's text wholesale. Author, ad and timestamp
// are immutable.
func (r *CommentRepo) Update(ctx context.Context, comment *model.Comment) error {
	result, err := r.db.conn.ExecContext(ctx,
		`UPDATE comments SET text = ? WHERE id = ?`,
		comment.Text, comment.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating comment %d: %w", comment.ID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("comment", comment.ID)
	}
	return nil
}

// DeleteByAdAndID removes one comment addressed through its parent ad.
func (r *CommentRepo) DeleteByAdAndID(ctx context.Context, adID, commentID int64) error {
	result, err := r.db.conn.ExecContext(ctx,
		`DELETE FROM comments WHERE ad_id = ? AND id = ?`,
		adID, commentID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting comment %d: %w", commentID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("comment", commentID)
	}
	return nil
}

// DeleteAllByAd bulk-deletes an ad's comments. Zero matching rows is a
// success — the ad-removal cascade must be idempotent.
func (r *CommentRepo) DeleteAllByAd(ctx context.Context, adID int64) error {
	if _, err := r.db.conn.ExecContext(ctx,
		`DELETE FROM comments WHERE ad_id = ?`, adID,
	); err != nil {
		return fmt.Errorf("sqlite: deleting comments for ad %d: %w", adID, err)
	}
	return nil
}

// Package repository declares the persistence interfaces the service layer
// programs against. The sqlite subpackage implements all of them; tests
// substitute in-memory mocks.
package repository

import (
	"context"

	"github.com/IKS-cod/TW2/internal/model"
)

// UserRepository is CRUD access to user rows, keyed by id or by email
// (the login).
type UserRepository interface {
	// CreateWithAvatar inserts the user row and its avatar row in one
	// transaction. The avatar's file must already exist on disk — a failed
	// commit leaves at worst an unreferenced file, never a dangling row.
	// Returns apperror.ErrConflict if the email is already taken.
	CreateWithAvatar(ctx context.Context, user *model.User, avatar *model.Avatar) error
	GetByID(ctx context.Context, id int64) (*model.User, error)
	// GetByIDs batch-loads users in one query, keyed by id — comment
	// listings need every author's name without one lookup per comment.
	GetByIDs(ctx context.Context, ids []int64) (map[int64]model.User, error)
	// GetByEmail returns apperror.ErrNotFound when no row matches.
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	// ExistsByEmail is the cheap duplicate check used by registration.
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Update(ctx context.Context, user *model.User) error
}

// AdRepository is CRUD access to ads plus the two multi-row operations
// that must commit atomically.
type AdRepository interface {
	// CreateWithImage inserts the ad row and its image row in one
	// transaction; both ids are populated on return. The image file must
	// already be on disk before this is called.
	CreateWithImage(ctx context.Context, ad *model.Ad, image *model.Image) error
	GetByID(ctx context.Context, id int64) (*model.Ad, error)
	ListAll(ctx context.Context) ([]model.Ad, error)
	ListByUser(ctx context.Context, userID int64) ([]model.Ad, error)
	Update(ctx context.Context, ad *model.Ad) error
	// DeleteCascade removes the ad's comments, its image row and the ad row
	// in one transaction, returning the deleted image's file path (empty if
	// the ad had no image) so the caller can remove the file after commit.
	// Returns apperror.ErrNotFound if the ad row does not exist.
	DeleteCascade(ctx context.Context, adID int64) (imageFilePath string, err error)
}

// CommentRepository is CRUD access to comments. The composite lookups are
// keyed by (ad id, comment id) so a comment can only be addressed through
// its parent ad.
type CommentRepository interface {
	Create(ctx context.Context, comment *model.Comment) error
	GetByAdAndID(ctx context.Context, adID, commentID int64) (*model.Comment, error)
	ListByAd(ctx context.Context, adID int64) ([]model.Comment, error)
	Update(ctx context.Context, comment *model.Comment) error
	DeleteByAdAndID(ctx context.Context, adID, commentID int64) error
	// DeleteAllByAd must not fail when zero rows match.
	DeleteAllByAd(ctx context.Context, adID int64) error
}

// AvatarRepository is access to the one-per-user avatar rows.
type AvatarRepository interface {
	Create(ctx context.Context, avatar *model.Avatar) error
	GetByUserID(ctx context.Context, userID int64) (*model.Avatar, error)
	// GetByUserIDs batch-loads avatars for distinct users in one query —
	// comment listings must not do one avatar lookup per comment.
	GetByUserIDs(ctx context.Context, userIDs []int64) (map[int64]model.Avatar, error)
	Update(ctx context.Context, avatar *model.Avatar) error
}

// ImageRepository is access to the one-per-ad image rows.
type ImageRepository interface {
	Create(ctx context.Context, image *model.Image) error
	GetByID(ctx context.Context, id int64) (*model.Image, error)
	GetByAdID(ctx context.Context, adID int64) (*model.Image, error)
	// GetByAdIDs batch-loads images for a listing in one query, keyed by
	// ad id. Ads without an image are simply absent from the map.
	GetByAdIDs(ctx context.Context, adIDs []int64) (map[int64]model.Image, error)
	Update(ctx context.Context, image *model.Image) error
}

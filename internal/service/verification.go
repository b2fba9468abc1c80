package service

import (
	"context"

	"github.com/IKS-cod/TW2/internal/apperror"
	"github.com/IKS-cod/TW2/internal/model"
	"github.com/IKS-cod/TW2/internal/repository"
)

// Verification centralizes the "owner or admin" access rule for mutations.
// It fetches the target entity itself, so the existence check (404) always
// runs before the permission check (403) and callers get the loaded entity
// back without a second query.
type Verification struct {
	ads      repository.AdRepository
	comments repository.CommentRepository
}

// NewVerification creates the access checker.
func NewVerification(ads repository.AdRepository, comments repository.CommentRepository) *Verification {
	return &Verification{ads: ads, comments: comments}
}

// AdForEdit loads the ad and verifies that user may modify it. Missing ad →
// ErrNotFound; wrong owner and not admin → ErrForbidden.
func (v *Verification) AdForEdit(ctx context.Context, user *model.User, adID int64) (*model.Ad, error) {
	ad, err := v.ads.GetByID(ctx, adID)
	if err != nil {
		return nil, err
	}
	if ad.UserID != user.ID && user.Role != model.RoleAdmin {
		return nil, apperror.Forbidden("only the ad's owner or an admin may modify it")
	}
	return ad, nil
}

// CommentForEdit loads the comment addressed as (adID, commentID) and
// verifies that user may modify it. A comment id that exists under a
// different ad is a 404, not a 403 — the composite lookup handles that.
func (v *Verification) CommentForEdit(ctx context.Context, user *model.User, adID, commentID int64) (*model.Comment, error) {
	comment, err := v.comments.GetByAdAndID(ctx, adID, commentID)
	if err != nil {
		return nil, err
	}
	if comment.UserID != user.ID && user.Role != model.RoleAdmin {
		return nil, apperror.Forbidden("only the comment's author or an admin may modify it")
	}
	return comment, nil
}

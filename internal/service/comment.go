package service

import (
	"context"
	"errors"

	"github.com/IKS-cod/TW2/internal/apperror"
	"github.com/IKS-cod/TW2/internal/dto"
	"github.com/IKS-cod/TW2/internal/model"
	"github.com/IKS-cod/TW2/internal/repository"
	"github.com/IKS-cod/TW2/internal/validation"
)

// Comment implements the discussion thread under an ad. Every operation
// starts from the parent ad: a comment can only be addressed as
// (ad id, comment id), never by comment id alone.
type Comment struct {
	comments repository.CommentRepository
	ads      repository.AdRepository
	users    repository.UserRepository
	avatars  repository.AvatarRepository
	verify   *Verification
}

// NewComment creates the comment service.
func NewComment(
	comments repository.CommentRepository,
	ads repository.AdRepository,
	users repository.UserRepository,
	avatars repository.AvatarRepository,
	verify *Verification,
) *Comment {
	return &Comment{comments: comments, ads: ads, users: users, avatars: avatars, verify: verify}
}

// ListForAd returns an ad's comments, oldest first, with each author's
// display name and avatar attached. An unknown ad id yields an empty set,
// not an error — once an ad is deleted its former thread reads as empty.
// Authors and avatars are batch-loaded: at most three queries regardless
// of thread length.
func (s *Comment) ListForAd(ctx context.Context, adID int64) (dto.Comments, error) {
	comments, err := s.comments.ListByAd(ctx, adID)
	if err != nil {
		return dto.Comments{}, err
	}

	authorIDs := distinctAuthors(comments)
	authors, err := s.users.GetByIDs(ctx, authorIDs)
	if err != nil {
		return dto.Comments{}, err
	}
	avatars, err := s.avatars.GetByUserIDs(ctx, authorIDs)
	if err != nil {
		return dto.Comments{}, err
	}

	results := make([]dto.Comment, len(comments))
	for i, c := range comments {
		out := dto.Comment{
			Author:    c.UserID,
			CreatedAt: c.CreatedAt,
			Pk:        c.ID,
			Text:      c.Text,
		}
		if author, ok := authors[c.UserID]; ok {
			out.AuthorFirstName = author.FirstName
		}
		if avatar, ok := avatars[c.UserID]; ok {
			out.AuthorImage = avatar.EndpointPath
		}
		results[i] = out
	}

	return dto.Comments{Count: len(results), Results: results}, nil
}

// Add posts a new comment under an ad. The ad must exist (404 otherwise);
// the created comment comes back with the caller's display data attached.
func (s *Comment) Add(ctx context.Context, user *model.User, adID int64, req dto.CreateOrUpdateComment) (dto.Comment, error) {
	if _, err := s.ads.GetByID(ctx, adID); err != nil {
		return dto.Comment{}, err
	}
	if !validation.IsValidLength(req.Text, minCommentLen, maxCommentLen) {
		return dto.Comment{}, apperror.ValidationFailed("text", "comment must be 8-64 characters")
	}

	comment := model.Comment{
		Text:   req.Text,
		UserID: user.ID,
		AdID:   adID,
	}
	if err := s.comments.Create(ctx, &comment); err != nil {
		return dto.Comment{}, err
	}

	return s.toDTO(ctx, &comment, user)
}

// Update rewrites a comment's text. Author or admin only.
func (s *Comment) Update(ctx context.Context, user *model.User, adID, commentID int64, req dto.CreateOrUpdateComment) (dto.Comment, error) {
	comment, err := s.verify.CommentForEdit(ctx, user, adID, commentID)
	if err != nil {
		return dto.Comment{}, err
	}
	if !validation.IsValidLength(req.Text, minCommentLen, maxCommentLen) {
		return dto.Comment{}, apperror.ValidationFailed("text", "comment must be 8-64 characters")
	}

	comment.Text = req.Text
	if err := s.comments.Update(ctx, comment); err != nil {
		return dto.Comment{}, err
	}

	author := user
	if comment.UserID != user.ID {
		// Admin editing someone else's comment: display data stays the
		// original author's.
		author, err = s.users.GetByID(ctx, comment.UserID)
		if err != nil {
			return dto.Comment{}, err
		}
	}
	return s.toDTO(ctx, comment, author)
}

// Delete removes a single comment. Author or admin only.
func (s *Comment) Delete(ctx context.Context, user *model.User, adID, commentID int64) error {
	if _, err := s.verify.CommentForEdit(ctx, user, adID, commentID); err != nil {
		return err
	}
	return s.comments.DeleteByAdAndID(ctx, adID, commentID)
}

func (s *Comment) toDTO(ctx context.Context, comment *model.Comment, author *model.User) (dto.Comment, error) {
	out := dto.Comment{
		Author:          comment.UserID,
		AuthorFirstName: author.FirstName,
		CreatedAt:       comment.CreatedAt,
		Pk:              comment.ID,
		Text:            comment.Text,
	}

	avatar, err := s.avatars.GetByUserID(ctx, comment.UserID)
	if err != nil {
		if !errors.Is(err, apperror.ErrNotFound) {
			return dto.Comment{}, err
		}
	} else {
		out.AuthorImage = avatar.EndpointPath
	}
	return out, nil
}

func distinctAuthors(comments []model.Comment) []int64 {
	seen := make(map[int64]struct{}, len(comments))
	ids := make([]int64, 0, len(comments))
	for _, c := range comments {
		if _, ok := seen[c.UserID]; ok {
			continue
		}
		seen[c.UserID] = struct{}{}
		ids = append(ids, c.UserID)
	}
	return ids
}

package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/IKS-cod/TW2/internal/apperror"
	"github.com/IKS-cod/TW2/internal/model"
)

func TestCommentCreate_StampsCreatedAt(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db)
	ad, _ := createTestAd(t, db, user.ID, "with comments")

	before := time.Now().UnixMilli()
	comment := &model.Comment{Text: "interested, still for sale?", UserID: user.ID, AdID: ad.ID}
	if err := NewCommentRepo(db).Create(context.Background(), comment); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	after := time.Now().UnixMilli()

	if comment.ID == 0 {
		t.Error("comment.ID not populated")
	}
	if comment.CreatedAt < before || comment.CreatedAt > after {
		t.Errorf("CreatedAt = %d, want within [%d, %d]", comment.CreatedAt, before, after)
	}
}

func TestGetByAdAndID_WrongAd(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db)
	ad1, _ := createTestAd(t, db, user.ID, "ad one")
	ad2, _ := createTestAd(t, db, user.ID, "ad two")
	comment := createTestComment(t, db, user.ID, ad1.ID, "belongs to ad one")

	// Addressing an existing comment through the wrong parent is a 404.
	_, err := NewCommentRepo(db).GetByAdAndID(context.Background(), ad2.ID, comment.ID)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}

	found, err := NewCommentRepo(db).GetByAdAndID(context.Background(), ad1.ID, comment.ID)
	if err != nil {
		t.Fatalf("GetByAdAndID() error = %v", err)
	}
	if found.Text != comment.Text {
		t.Errorf("Text = %q, want %q", found.Text, comment.Text)
	}
}

func TestListByAd_OldestFirst(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db)
	ad, _ := createTestAd(t, db, user.ID, "threaded")

	repo := NewCommentRepo(db)
	c1 := &model.Comment{Text: "first in thread", CreatedAt: 1000, UserID: user.ID, AdID: ad.ID}
	c2 := &model.Comment{Text: "second in thread", CreatedAt: 2000, UserID: user.ID, AdID: ad.ID}
	// Insert out of order; the listing must sort by creation time.
	if err := repo.Create(context.Background(), c2); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := repo.Create(context.Background(), c1); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	comments, err := repo.ListByAd(context.Background(), ad.ID)
	if err != nil {
		t.Fatalf("ListByAd() error = %v", err)
	}
	if len(comments) != 2 {
		t.Fatalf("len = %d, want 2", len(comments))
	}
	if comments[0].Text != "first in thread" || comments[1].Text != "second in thread" {
		t.Errorf("order = [%q, %q]", comments[0].Text, comments[1].Text)
	}
}

func TestCommentUpdate(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db)
	ad, _ := createTestAd(t, db, user.ID, "editable")
	comment := createTestComment(t, db, user.ID, ad.ID, "original comment")

	comment.Text = "edited comment text"
	if err := NewCommentRepo(db).Update(context.Background(), comment); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	found, err := NewCommentRepo(db).GetByAdAndID(context.Background(), ad.ID, comment.ID)
	if err != nil {
		t.Fatalf("GetByAdAndID() error = %v", err)
	}
	if found.Text != "edited comment text" {
		t.Errorf("Text = %q", found.Text)
	}
	// Author and timestamp are immutable.
	if found.UserID != user.ID || found.CreatedAt != comment.CreatedAt {
		t.Error("Update() changed immutable fields")
	}
}

func TestDeleteByAdAndID(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db)
	ad, _ := createTestAd(t, db, user.ID, "with comment")
	comment := createTestComment(t, db, user.ID, ad.ID, "delete me please")

	if err := NewCommentRepo(db).DeleteByAdAndID(context.Background(), ad.ID, comment.ID); err != nil {
		t.Fatalf("DeleteByAdAndID() error = %v", err)
	}

	_, err := NewCommentRepo(db).GetByAdAndID(context.Background(), ad.ID, comment.ID)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("comment still present: %v", err)
	}

	// Deleting again reports the miss.
	err = NewCommentRepo(db).DeleteByAdAndID(context.Background(), ad.ID, comment.ID)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestDeleteAllByAd(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db)
	ad, _ := createTestAd(t, db, user.ID, "busy thread")
	createTestComment(t, db, user.ID, ad.ID, "comment number one")
	createTestComment(t, db, user.ID, ad.ID, "comment number two")

	repo := NewCommentRepo(db)
	if err := repo.DeleteAllByAd(context.Background(), ad.ID); err != nil {
		t.Fatalf("DeleteAllByAd() error = %v", err)
	}

	comments, err := repo.ListByAd(context.Background(), ad.ID)
	if err != nil {
		t.Fatalf("ListByAd() error = %v", err)
	}
	if len(comments) != 0 {
		t.Errorf("%d comments remain", len(comments))
	}

	// Zero matching rows is not an error.
	if err := repo.DeleteAllByAd(context.Background(), ad.ID); err != nil {
		t.Errorf("DeleteAllByAd() on empty thread: %v", err)
	}
}

package sqlite

import (
	"context"
	"fmt"
	"testing"

	"github.com/IKS-cod/TW2/internal/model"
)

// newTestDB opens a throwaway in-memory database. Each in-memory connection
// is its own database, so the pool is pinned to a single connection — the
// schema must not vanish between queries.
func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test db: %v", err)
	}
	db.conn.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	return db
}

var testUserSeq int

// createTestUser registers a user with an avatar, the way production code
// always does it.
func createTestUser(t *testing.T, db *DB) *model.User {
	t.Helper()
	testUserSeq++
	user := &model.User{
		Email:        fmt.Sprintf("user%d@example.com", testUserSeq),
		PasswordHash: "hash",
		FirstName:    "Ivan",
		LastName:     "Petrov",
		Phone:        "+7(000)000-00-00",
		Role:         model.RoleUser,
	}
	avatar := &model.Avatar{FilePath: "av.png", MediaType: "image/png"}
	if err := NewUserRepo(db).CreateWithAvatar(context.Background(), user, avatar); err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// createTestAd inserts an ad with its image for the given owner.
func createTestAd(t *testing.T, db *DB, ownerID int64, title string) (*model.Ad, *model.Image) {
	t.Helper()
	ad := &model.Ad{Title: title, Price: 100, Description: "eight chars min", UserID: ownerID}
	image := &model.Image{FilePath: "img.jpg", MediaType: "image/jpeg"}
	if err := NewAdRepo(db).CreateWithImage(context.Background(), ad, image); err != nil {
		t.Fatalf("failed to create test ad: %v", err)
	}
	return ad, image
}

func createTestComment(t *testing.T, db *DB, userID, adID int64, text string) *model.Comment {
	t.Helper()
	comment := &model.Comment{Text: text, UserID: userID, AdID: adID}
	if err := NewCommentRepo(db).Create(context.Background(), comment); err != nil {
		t.Fatalf("failed to create test comment: %v", err)
	}
	return comment
}

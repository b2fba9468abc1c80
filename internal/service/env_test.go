package service

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/IKS-cod/TW2/internal/auth"
	"github.com/IKS-cod/TW2/internal/dto"
	"github.com/IKS-cod/TW2/internal/filestore"
	"github.com/IKS-cod/TW2/internal/model"
)

// testEnv bundles every service wired against the shared in-memory store
// and real blob stores in temp directories. Password hashing runs at
// bcrypt.MinCost so registration-heavy tests stay fast.
type testEnv struct {
	store *memStore

	imageStore  *filestore.Store
	avatarStore *filestore.Store

	auth     *Auth
	users    *User
	ads      *Ad
	comments *Comment
	avatars  *Avatar
	images   *Image
	userCtx  *UserContext
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	imageStore, err := filestore.New(t.TempDir(), logger)
	if err != nil {
		t.Fatalf("creating image store: %v", err)
	}
	avatarStore, err := filestore.New(t.TempDir(), logger)
	if err != nil {
		t.Fatalf("creating avatar store: %v", err)
	}

	store := newMemStore()
	passwords := auth.NewPasswordServiceForTest(bcrypt.MinCost)
	verify := NewVerification(adRepo{store}, commentRepo{store})

	return &testEnv{
		store:       store,
		imageStore:  imageStore,
		avatarStore: avatarStore,
		auth:        NewAuth(store, passwords, avatarStore, logger),
		users:       NewUser(store, avatarRepo{store}, passwords),
		ads:         NewAd(adRepo{store}, imageRepo{store}, store, verify, imageStore, logger),
		comments:    NewComment(commentRepo{store}, adRepo{store}, store, avatarRepo{store}, verify),
		avatars:     NewAvatar(avatarRepo{store}, avatarStore),
		images:      NewImage(imageRepo{store}, imageStore),
		userCtx:     NewUserContext(store),
	}
}

// validRegister returns a registration payload that passes every check.
func validRegister(email, role string) dto.Register {
	return dto.Register{
		Username:  email,
		Password:  "password12",
		FirstName: "Ivan",
		LastName:  "Petrov",
		Phone:     "+7(000)000-00-00",
		Role:      role,
	}
}

// registerTestUser registers through the real flow (default avatar
// included) and returns the stored user row.
func (env *testEnv) registerTestUser(t *testing.T, email, role string) *model.User {
	t.Helper()

	ok, err := env.auth.Register(context.Background(), validRegister(email, role))
	if err != nil {
		t.Fatalf("Register(%s) error = %v", email, err)
	}
	if !ok {
		t.Fatalf("Register(%s) = false, want true", email)
	}

	user, err := env.store.GetByEmail(context.Background(), email)
	if err != nil {
		t.Fatalf("looking up registered user: %v", err)
	}
	return user
}

// createTestAd posts an ad through the real flow and returns its summary.
func (env *testEnv) createTestAd(t *testing.T, owner *model.User, title string) dto.Ad {
	t.Helper()

	price := 1000
	ad, err := env.ads.Create(context.Background(), owner,
		dto.CreateOrUpdateAd{Title: title, Price: &price, Description: "perfectly fine item"},
		Upload{Reader: strings.NewReader("jpeg bytes"), Filename: "item.jpg", MediaType: "image/jpeg"},
	)
	if err != nil {
		t.Fatalf("Create(%s) error = %v", title, err)
	}
	return ad
}

package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/IKS-cod/TW2/internal/apperror"
	"github.com/IKS-cod/TW2/internal/model"
)

// memStore is an in-memory implementation of all five repository
// interfaces. The cross-entity transactions (CreateWithAvatar,
// CreateWithImage, DeleteCascade) touch several maps, so one store is
// simpler than five separate mocks with back-references.
//
// Everything stores and returns copies so tests cannot corrupt the
// "database" through retained pointers.
type memStore struct {
	users    map[int64]model.User
	ads      map[int64]model.Ad
	comments map[int64]model.Comment
	avatars  map[int64]model.Avatar // keyed by user id (one per user)
	images   map[int64]model.Image  // keyed by image id

	nextID int64
}

func newMemStore() *memStore {
	return &memStore{
		users:    make(map[int64]model.User),
		ads:      make(map[int64]model.Ad),
		comments: make(map[int64]model.Comment),
		avatars:  make(map[int64]model.Avatar),
		images:   make(map[int64]model.Image),
	}
}

func (m *memStore) id() int64 {
	m.nextID++
	return m.nextID
}

// --- UserRepository ---

func (m *memStore) CreateWithAvatar(_ context.Context, user *model.User, avatar *model.Avatar) error {
	for _, u := range m.users {
		if u.Email == user.Email {
			return apperror.Conflict("user", "email "+user.Email+" already registered")
		}
	}
	user.ID = m.id()
	m.users[user.ID] = *user

	avatar.ID = m.id()
	avatar.UserID = user.ID
	avatar.EndpointPath = fmt.Sprintf("/image/avatar/%d", user.ID)
	m.avatars[user.ID] = *avatar
	return nil
}

func (m *memStore) GetByID(_ context.Context, id int64) (*model.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, apperror.NotFound("user", id)
	}
	return &u, nil
}

func (m *memStore) GetByIDs(_ context.Context, ids []int64) (map[int64]model.User, error) {
	result := make(map[int64]model.User, len(ids))
	for _, id := range ids {
		if u, ok := m.users[id]; ok {
			result[id] = u
		}
	}
	return result, nil
}

func (m *memStore) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			user := u
			return &user, nil
		}
	}
	return nil, &apperror.AppError{Err: apperror.ErrNotFound, Message: "user not found with email " + email}
}

func (m *memStore) ExistsByEmail(_ context.Context, email string) (bool, error) {
	for _, u := range m.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) Update(_ context.Context, user *model.User) error {
	if _, ok := m.users[user.ID]; !ok {
		return apperror.NotFound("user", user.ID)
	}
	m.users[user.ID] = *user
	return nil
}

// --- AdRepository (methods that don't collide with the user ones) ---

func (m *memStore) CreateWithImage(_ context.Context, ad *model.Ad, image *model.Image) error {
	ad.ID = m.id()
	m.ads[ad.ID] = *ad

	image.ID = m.id()
	image.AdID = ad.ID
	image.EndpointPath = fmt.Sprintf("/image/image/%d", image.ID)
	m.images[image.ID] = *image
	return nil
}

func (m *memStore) ListAll(_ context.Context) ([]model.Ad, error) {
	ads := make([]model.Ad, 0, len(m.ads))
	for _, ad := range m.ads {
		ads = append(ads, ad)
	}
	sort.Slice(ads, func(i, j int) bool { return ads[i].ID > ads[j].ID })
	return ads, nil
}

func (m *memStore) ListByUser(_ context.Context, userID int64) ([]model.Ad, error) {
	var ads []model.Ad
	for _, ad := range m.ads {
		if ad.UserID == userID {
			ads = append(ads, ad)
		}
	}
	sort.Slice(ads, func(i, j int) bool { return ads[i].ID > ads[j].ID })
	return ads, nil
}

func (m *memStore) DeleteCascade(_ context.Context, adID int64) (string, error) {
	if _, ok := m.ads[adID]; !ok {
		return "", apperror.NotFound("ad", adID)
	}
	for id, c := range m.comments {
		if c.AdID == adID {
			delete(m.comments, id)
		}
	}
	var filePath string
	for id, img := range m.images {
		if img.AdID == adID {
			filePath = img.FilePath
			delete(m.images, id)
		}
	}
	delete(m.ads, adID)
	return filePath, nil
}

// adRepo / commentRepo / avatarRepo / imageRepo are thin views over the
// shared memStore. Go does not allow two methods with the same name on one
// receiver, so the per-entity Create/GetByID/Update live on these views.
type adRepo struct{ *memStore }

func (r adRepo) GetByID(_ context.Context, id int64) (*model.Ad, error) {
	ad, ok := r.ads[id]
	if !ok {
		return nil, apperror.NotFound("ad", id)
	}
	return &ad, nil
}

func (r adRepo) Update(_ context.Context, ad *model.Ad) error {
	if _, ok := r.ads[ad.ID]; !ok {
		return apperror.NotFound("ad", ad.ID)
	}
	r.ads[ad.ID] = *ad
	return nil
}

type commentRepo struct{ *memStore }

func (r commentRepo) Create(_ context.Context, comment *model.Comment) error {
	comment.ID = r.id()
	if comment.CreatedAt == 0 {
		comment.CreatedAt = time.Now().UnixMilli()
	}
	r.comments[comment.ID] = *comment
	return nil
}

func (r commentRepo) GetByAdAndID(_ context.Context, adID, commentID int64) (*model.Comment, error) {
	c, ok := r.comments[commentID]
	if !ok || c.AdID != adID {
		return nil, apperror.NotFound("comment", commentID)
	}
	return &c, nil
}

func (r commentRepo) ListByAd(_ context.Context, adID int64) ([]model.Comment, error) {
	var comments []model.Comment
	for _, c := range r.comments {
		if c.AdID == adID {
			comments = append(comments, c)
		}
	}
	sort.Slice(comments, func(i, j int) bool {
		if comments[i].CreatedAt != comments[j].CreatedAt {
			return comments[i].CreatedAt < comments[j].CreatedAt
		}
		return comments[i].ID < comments[j].ID
	})
	return comments, nil
}

func (r commentRepo) Update(_ context.Context, comment *model.Comment) error {
	if _, ok := r.comments[comment.ID]; !ok {
		return apperror.NotFound("comment", comment.ID)
	}
	r.comments[comment.ID] = *comment
	return nil
}

func (r commentRepo) DeleteByAdAndID(_ context.Context, adID, commentID int64) error {
	c, ok := r.comments[commentID]
	if !ok || c.AdID != adID {
		return apperror.NotFound("comment", commentID)
	}
	delete(r.comments, commentID)
	return nil
}

func (r commentRepo) DeleteAllByAd(_ context.Context, adID int64) error {
	for id, c := range r.comments {
		if c.AdID == adID {
			delete(r.comments, id)
		}
	}
	return nil
}

type avatarRepo struct{ *memStore }

func (r avatarRepo) Create(_ context.Context, avatar *model.Avatar) error {
	avatar.ID = r.id()
	r.avatars[avatar.UserID] = *avatar
	return nil
}

func (r avatarRepo) GetByUserID(_ context.Context, userID int64) (*model.Avatar, error) {
	a, ok := r.avatars[userID]
	if !ok {
		return nil, &apperror.AppError{Err: apperror.ErrNotFound, Message: fmt.Sprintf("avatar not found for user %d", userID)}
	}
	return &a, nil
}

func (r avatarRepo) GetByUserIDs(_ context.Context, userIDs []int64) (map[int64]model.Avatar, error) {
	result := make(map[int64]model.Avatar, len(userIDs))
	for _, id := range userIDs {
		if a, ok := r.avatars[id]; ok {
			result[id] = a
		}
	}
	return result, nil
}

func (r avatarRepo) Update(_ context.Context, avatar *model.Avatar) error {
	if _, ok := r.avatars[avatar.UserID]; !ok {
		return apperror.NotFound("avatar", avatar.ID)
	}
	r.avatars[avatar.UserID] = *avatar
	return nil
}

type imageRepo struct{ *memStore }

func (r imageRepo) Create(_ context.Context, image *model.Image) error {
	image.ID = r.id()
	r.images[image.ID] = *image
	return nil
}

func (r imageRepo) GetByID(_ context.Context, id int64) (*model.Image, error) {
	img, ok := r.images[id]
	if !ok {
		return nil, apperror.NotFound("image", id)
	}
	return &img, nil
}

func (r imageRepo) GetByAdID(_ context.Context, adID int64) (*model.Image, error) {
	for _, img := range r.images {
		if img.AdID == adID {
			image := img
			return &image, nil
		}
	}
	return nil, &apperror.AppError{Err: apperror.ErrNotFound, Message: fmt.Sprintf("image not found for ad %d", adID)}
}

func (r imageRepo) GetByAdIDs(_ context.Context, adIDs []int64) (map[int64]model.Image, error) {
	result := make(map[int64]model.Image, len(adIDs))
	for _, adID := range adIDs {
		for _, img := range r.images {
			if img.AdID == adID {
				result[adID] = img
			}
		}
	}
	return result, nil
}

func (r imageRepo) Update(_ context.Context, image *model.Image) error {
	if _, ok := r.images[image.ID]; !ok {
		return apperror.NotFound("image", image.ID)
	}
	r.images[image.ID] = *image
	return nil
}

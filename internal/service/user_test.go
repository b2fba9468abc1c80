package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/IKS-cod/TW2/internal/apperror"
	"github.com/IKS-cod/TW2/internal/dto"
)

func TestProfile(t *testing.T) {
	env := newTestEnv(t)
	user := env.registerTestUser(t, "me@example.com", "")

	profile, err := env.users.Profile(context.Background(), user)
	if err != nil {
		t.Fatalf("Profile() error = %v", err)
	}

	if profile.Email != "me@example.com" {
		t.Errorf("Email = %q", profile.Email)
	}
	if profile.Role != "USER" {
		t.Errorf("Role = %q", profile.Role)
	}
	if !strings.HasPrefix(profile.Image, "/image/avatar/") {
		t.Errorf("Image = %q, want an /image/avatar/ endpoint path", profile.Image)
	}
}

func TestUserUpdate(t *testing.T) {
	env := newTestEnv(t)
	user := env.registerTestUser(t, "me@example.com", "")

	updated, err := env.users.Update(context.Background(), user, dto.UpdateUser{
		FirstName: "Maria",
		LastName:  "Sidorova",
		Phone:     "+7(911)222-33-44",
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.FirstName != "Maria" {
		t.Errorf("FirstName = %q", updated.FirstName)
	}

	stored, err := env.store.GetByID(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if stored.FirstName != "Maria" || stored.Phone != "+7(911)222-33-44" {
		t.Error("update not persisted")
	}
	// Email and role are immutable through this path.
	if stored.Email != "me@example.com" || stored.Role != user.Role {
		t.Error("Update() touched immutable fields")
	}
}

func TestUserUpdate_Invalid(t *testing.T) {
	env := newTestEnv(t)
	user := env.registerTestUser(t, "me@example.com", "")

	tests := []struct {
		name string
		req  dto.UpdateUser
	}{
		{"digits in first name", dto.UpdateUser{FirstName: "Maria7", LastName: "Sidorova", Phone: "+7(911)222-33-44"}},
		{"one-letter last name", dto.UpdateUser{FirstName: "Maria", LastName: "S", Phone: "+7(911)222-33-44"}},
		{"free-form phone", dto.UpdateUser{FirstName: "Maria", LastName: "Sidorova", Phone: "89112223344"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.users.Update(context.Background(), user, tt.req)
			if !errors.Is(err, apperror.ErrValidation) {
				t.Errorf("error = %v, want ErrValidation", err)
			}
		})
	}
}

func TestUpdatePassword(t *testing.T) {
	env := newTestEnv(t)
	user := env.registerTestUser(t, "me@example.com", "")

	err := env.users.UpdatePassword(context.Background(), user, dto.NewPassword{
		CurrentPassword: "password12",
		NewPassword:     "fresh-password",
	})
	if err != nil {
		t.Fatalf("UpdatePassword() error = %v", err)
	}

	// Old password out, new password in.
	ok, err := env.auth.Login(context.Background(), "me@example.com", "password12")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if ok {
		t.Error("old password still accepted")
	}
	ok, err = env.auth.Login(context.Background(), "me@example.com", "fresh-password")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if !ok {
		t.Error("new password rejected")
	}
}

func TestUpdatePassword_WrongCurrent(t *testing.T) {
	env := newTestEnv(t)
	user := env.registerTestUser(t, "me@example.com", "")

	err := env.users.UpdatePassword(context.Background(), user, dto.NewPassword{
		CurrentPassword: "not-my-password",
		NewPassword:     "fresh-password",
	})
	if !errors.Is(err, apperror.ErrForbidden) {
		t.Errorf("error = %v, want ErrForbidden", err)
	}
}

func TestUpdatePassword_InvalidNew(t *testing.T) {
	env := newTestEnv(t)
	user := env.registerTestUser(t, "me@example.com", "")

	err := env.users.UpdatePassword(context.Background(), user, dto.NewPassword{
		CurrentPassword: "password12",
		NewPassword:     "short",
	})
	if !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("error = %v, want ErrValidation", err)
	}
}

func TestAvatarUpdateAndGet(t *testing.T) {
	env := newTestEnv(t)
	user := env.registerTestUser(t, "me@example.com", "")

	err := env.avatars.Update(context.Background(), user, Upload{
		Reader:    strings.NewReader("new face"),
		Filename:  "face.png",
		MediaType: "image/png",
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	data, mediaType, err := env.avatars.Get(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(data) != "new face" {
		t.Errorf("bytes = %q", data)
	}
	if mediaType != "image/png" {
		t.Errorf("mediaType = %q", mediaType)
	}
}

func TestAvatarGet_UnknownUser(t *testing.T) {
	env := newTestEnv(t)

	_, _, err := env.avatars.Get(context.Background(), 7777)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestAvatarGet_MissingFileIsIntegrityFault(t *testing.T) {
	env := newTestEnv(t)
	user := env.registerTestUser(t, "me@example.com", "")

	avatar, err := avatarRepo{env.store}.GetByUserID(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("GetByUserID() error = %v", err)
	}
	if err := env.avatarStore.Delete(avatar.FilePath); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	// Row present, file gone: that is a 500, not a 404.
	_, _, err = env.avatars.Get(context.Background(), user.ID)
	if !errors.Is(err, apperror.ErrIntegrity) {
		t.Errorf("error = %v, want ErrIntegrity", err)
	}
}

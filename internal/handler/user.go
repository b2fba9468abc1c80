package handler

import (
	"net/http"

	"github.com/IKS-cod/TW2/internal/dto"
	"github.com/IKS-cod/TW2/internal/service"
)

// UserHandler serves the caller's own profile: read, update, change
// password, replace avatar. There is no admin user-management surface.
type UserHandler struct {
	users   *service.User
	avatars *service.Avatar
	userCtx *service.UserContext
}

// NewUserHandler creates a UserHandler.
func NewUserHandler(users *service.User, avatars *service.Avatar, userCtx *service.UserContext) *UserHandler {
	return &UserHandler{users: users, avatars: avatars, userCtx: userCtx}
}

// HandleMe returns the caller's profile.
//
// HTTP: GET /users/me
func (h *UserHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	user, err := h.userCtx.Current(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	profile, err := h.users.Profile(r.Context(), user)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

// HandleUpdateMe rewrites the mutable profile fields.
//
// HTTP: PATCH /users/me
func (h *UserHandler) HandleUpdateMe(w http.ResponseWriter, r *http.Request) {
	user, err := h.userCtx.Current(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	var req dto.UpdateUser
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	updated, err := h.users.Update(r.Context(), user, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// HandleSetPassword changes the caller's password after confirming the
// current one.
//
// HTTP: POST /users/set_password
func (h *UserHandler) HandleSetPassword(w http.ResponseWriter, r *http.Request) {
	user, err := h.userCtx.Current(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	var req dto.NewPassword
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	if err := h.users.UpdatePassword(r.Context(), user, req); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, nil)
}

// HandleUpdateAvatar replaces the caller's profile picture.
//
// HTTP: PATCH /users/me/image (multipart "image" part)
func (h *UserHandler) HandleUpdateAvatar(w http.ResponseWriter, r *http.Request) {
	user, err := h.userCtx.Current(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	upload, closeUpload, err := formUpload(r)
	if err != nil {
		writeError(w, err)
		return
	}
	defer closeUpload()

	if err := h.avatars.Update(r.Context(), user, upload); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, nil)
}

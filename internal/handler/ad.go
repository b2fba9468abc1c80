package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/IKS-cod/TW2/internal/apperror"
	"github.com/IKS-cod/TW2/internal/dto"
	"github.com/IKS-cod/TW2/internal/service"
)

// AdHandler serves the ad CRUD surface.
type AdHandler struct {
	ads     *service.Ad
	userCtx *service.UserContext
	logger  *slog.Logger
}

// NewAdHandler creates an AdHandler.
func NewAdHandler(ads *service.Ad, userCtx *service.UserContext, logger *slog.Logger) *AdHandler {
	return &AdHandler{ads: ads, userCtx: userCtx, logger: logger}
}

// HandleList returns all ads.
//
// HTTP: GET /ads (public)
func (h *AdHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	listing, err := h.ads.ListAll(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listing)
}

// HandleListMine returns the caller's own ads.
//
// HTTP: GET /ads/me
func (h *AdHandler) HandleListMine(w http.ResponseWriter, r *http.Request) {
	user, err := h.userCtx.Current(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	listing, err := h.ads.ListMine(r.Context(), user)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listing)
}

// HandleCreate posts a new ad. The request is multipart/form-data with two
// parts: "image" (the photo) and "properties" (the CreateOrUpdateAd JSON).
//
// HTTP: POST /ads — 200 with the created summary (the status the
// frontend's client was generated against).
func (h *AdHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
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

	var req dto.CreateOrUpdateAd
	if err := json.Unmarshal([]byte(r.FormValue("properties")), &req); err != nil {
		writeError(w, apperror.ValidationFailed("properties", "invalid properties JSON part"))
		return
	}

	created, err := h.ads.Create(r.Context(), user, req, upload)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, created)
}

// HandleGet returns the detail view of one ad.
//
// HTTP: GET /ads/{id} (public)
func (h *AdHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	ad, err := h.ads.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ad)
}

// HandleUpdate rewrites an ad's title, price and description.
//
// HTTP: PATCH /ads/{id} (owner or admin)
func (h *AdHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	user, err := h.userCtx.Current(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var req dto.CreateOrUpdateAd
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	updated, err := h.ads.Update(r.Context(), user, id, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// HandleDelete removes an ad and everything hanging off it.
//
// HTTP: DELETE /ads/{id} (owner or admin) — 200 with an empty body.
func (h *AdHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	user, err := h.userCtx.Current(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.ads.Remove(r.Context(), user, id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// HandleUpdateImage replaces an ad's photo and echoes the new bytes back.
//
// HTTP: PATCH /ads/{id}/image (owner or admin)
func (h *AdHandler) HandleUpdateImage(w http.ResponseWriter, r *http.Request) {
	user, err := h.userCtx.Current(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	id, err := idParam(r, "id")
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

	data, mediaType, err := h.ads.UpdateImage(r.Context(), user, id, upload)
	if err != nil {
		writeError(w, err)
		return
	}

	if mediaType == "" {
		mediaType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", mediaType)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		h.logger.Error("failed to write image response", slog.String("error", err.Error()))
	}
}

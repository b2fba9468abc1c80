package handler

import (
	"log/slog"
	"net/http"

	"github.com/IKS-cod/TW2/internal/service"
)

// BlobHandler serves the raw bytes of stored pictures. These are the two
// public endpoints the EndpointPath values in ad and user responses point
// at.
type BlobHandler struct {
	avatars *service.Avatar
	images  *service.Image
	logger  *slog.Logger
}

// NewBlobHandler creates a BlobHandler.
func NewBlobHandler(avatars *service.Avatar, images *service.Image, logger *slog.Logger) *BlobHandler {
	return &BlobHandler{avatars: avatars, images: images, logger: logger}
}

// HandleAvatar returns a user's avatar bytes.
//
// HTTP: GET /image/avatar/{id} — id is the USER id, not the avatar row id.
func (h *BlobHandler) HandleAvatar(w http.ResponseWriter, r *http.Request) {
	userID, err := idParam(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	data, mediaType, err := h.avatars.Get(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	h.writeBlob(w, data, mediaType)
}

// HandleImage returns an ad photo's bytes.
//
// HTTP: GET /image/image/{id} — id is the image row id.
func (h *BlobHandler) HandleImage(w http.ResponseWriter, r *http.Request) {
	imageID, err := idParam(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	data, mediaType, err := h.images.Get(r.Context(), imageID)
	if err != nil {
		writeError(w, err)
		return
	}
	h.writeBlob(w, data, mediaType)
}

func (h *BlobHandler) writeBlob(w http.ResponseWriter, data []byte, mediaType string) {
	if mediaType == "" {
		mediaType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", mediaType)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		h.logger.Error("failed to write blob response", slog.String("error", err.Error()))
	}
}

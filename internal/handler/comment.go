package handler

import (
	"net/http"

	"github.com/IKS-cod/TW2/internal/dto"
	"github.com/IKS-cod/TW2/internal/service"
)

// CommentHandler serves the discussion thread under an ad. The routes are
// nested under /ads/{adId} so every operation names its parent ad.
type CommentHandler struct {
	comments *service.Comment
	userCtx  *service.UserContext
}

// NewCommentHandler creates a CommentHandler.
func NewCommentHandler(comments *service.Comment, userCtx *service.UserContext) *CommentHandler {
	return &CommentHandler{comments: comments, userCtx: userCtx}
}

// HandleList returns an ad's comments, oldest first.
//
// HTTP: GET /ads/{id}/comments (public) — 404 if the ad does not exist.
func (h *CommentHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	adID, err := idParam(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	listing, err := h.comments.ListForAd(r.Context(), adID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listing)
}

// HandleAdd posts a new comment under an ad.
//
// HTTP: POST /ads/{id}/comments — 404 if the ad does not exist.
func (h *CommentHandler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	user, err := h.userCtx.Current(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	adID, err := idParam(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var req dto.CreateOrUpdateComment
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	created, err := h.comments.Add(r.Context(), user, adID, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, created)
}

// HandleUpdate rewrites a comment's text.
//
// HTTP: PATCH /ads/{adId}/comments/{commentId} (author or admin)
func (h *CommentHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	user, err := h.userCtx.Current(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	adID, err := idParam(r, "adId")
	if err != nil {
		writeError(w, err)
		return
	}
	commentID, err := idParam(r, "commentId")
	if err != nil {
		writeError(w, err)
		return
	}

	var req dto.CreateOrUpdateComment
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	updated, err := h.comments.Update(r.Context(), user, adID, commentID, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// HandleDelete removes a single comment.
//
// HTTP: DELETE /ads/{adId}/comments/{commentId} (author or admin)
func (h *CommentHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	user, err := h.userCtx.Current(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	adID, err := idParam(r, "adId")
	if err != nil {
		writeError(w, err)
		return
	}
	commentID, err := idParam(r, "commentId")
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.comments.Delete(r.Context(), user, adID, commentID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, nil)
}

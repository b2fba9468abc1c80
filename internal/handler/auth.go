package handler

import (
	"log/slog"
	"net/http"

	"github.com/IKS-cod/TW2/internal/auth"
	"github.com/IKS-cod/TW2/internal/dto"
	"github.com/IKS-cod/TW2/internal/service"
)

// AuthHandler serves login, registration and logout.
//
// Both failure paths are deliberately vague: login never says whether the
// email or the password was wrong, and register reports any rejection
// (invalid input, taken email) the same way.
type AuthHandler struct {
	auth   *service.Auth
	tokens *auth.TokenService
	logger *slog.Logger
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(authSvc *service.Auth, tokens *auth.TokenService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{auth: authSvc, tokens: tokens, logger: logger}
}

// HandleLogin verifies credentials and issues the session cookie.
//
// HTTP: POST /login
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req dto.Login
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	ok, err := h.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthenticated",
			Message: "invalid credentials",
		})
		return
	}

	token, err := h.tokens.Generate(req.Username)
	if err != nil {
		writeError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.tokens.TTL().Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	h.logger.Info("user logged in", slog.String("login", req.Username))
	writeJSON(w, http.StatusOK, nil)
}

// HandleRegister creates a new account.
//
// HTTP: POST /register — 201 on success, 400 for invalid input or an email
// that is already registered.
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req dto.Register
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	ok, err := h.auth.Register(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	if !ok {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "registration rejected",
		})
		return
	}

	writeJSON(w, http.StatusCreated, nil)
}

// HandleLogout clears the session cookie. The JWT itself stays valid until
// expiry — stateless tokens cannot be revoked server-side.
//
// HTTP: POST /logout
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, nil)
}

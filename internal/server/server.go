// Package server is the composition root: it wires the database, blob
// stores, services and handlers together, defines every route, and owns
// the HTTP server lifecycle.
//
// The dependency chain is strictly one-directional:
//
//	sqlite.DB → repositories → services → handlers → routes
//
// Each layer receives interfaces or services from the layer below and
// knows nothing about the layers above it.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/IKS-cod/TW2/internal/auth"
	"github.com/IKS-cod/TW2/internal/config"
	"github.com/IKS-cod/TW2/internal/filestore"
	"github.com/IKS-cod/TW2/internal/handler"
	"github.com/IKS-cod/TW2/internal/middleware"
	sqliteRepo "github.com/IKS-cod/TW2/internal/repository/sqlite"
	"github.com/IKS-cod/TW2/internal/service"
)

// Server owns the router, the database connection and the configuration.
// The database is closed during graceful shutdown.
type Server struct {
	router *chi.Mux
	cfg    *config.Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New assembles the full dependency graph and registers every route.
func New(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DB.Path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		cfg:    cfg,
		logger: logger,
		db:     db,
	}

	if err := s.setupRoutes(); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

func (s *Server) setupRoutes() error {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	// Blob stores. Two separate directories so an avatar can never collide
	// with (or be served as) an ad image.
	imageStore, err := filestore.New(s.cfg.Storage.ImagesDir, s.logger)
	if err != nil {
		return fmt.Errorf("creating image store: %w", err)
	}
	avatarStore, err := filestore.New(s.cfg.Storage.AvatarsDir, s.logger)
	if err != nil {
		return fmt.Errorf("creating avatar store: %w", err)
	}

	tokens, err := auth.NewTokenService(s.cfg.Auth.JWTSecret, s.cfg.Auth.TokenTTL)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}
	passwords := auth.NewPasswordService()

	// Repositories — all share the one sqlite connection pool.
	users := sqliteRepo.NewUserRepo(s.db)
	ads := sqliteRepo.NewAdRepo(s.db)
	comments := sqliteRepo.NewCommentRepo(s.db)
	avatars := sqliteRepo.NewAvatarRepo(s.db)
	images := sqliteRepo.NewImageRepo(s.db)

	// Services.
	userCtx := service.NewUserContext(users)
	verify := service.NewVerification(ads, comments)
	authSvc := service.NewAuth(users, passwords, avatarStore, s.logger)
	userSvc := service.NewUser(users, avatars, passwords)
	adSvc := service.NewAd(ads, images, users, verify, imageStore, s.logger)
	commentSvc := service.NewComment(comments, ads, users, avatars, verify)
	avatarSvc := service.NewAvatar(avatars, avatarStore)
	imageSvc := service.NewImage(images, imageStore)

	// Handlers.
	authHandler := handler.NewAuthHandler(authSvc, tokens, s.logger)
	adHandler := handler.NewAdHandler(adSvc, userCtx, s.logger)
	commentHandler := handler.NewCommentHandler(commentSvc, userCtx)
	userHandler := handler.NewUserHandler(userSvc, avatarSvc, userCtx)
	blobHandler := handler.NewBlobHandler(avatarSvc, imageSvc, s.logger)

	requireAuth := auth.RequireAuth(tokens)

	// Public surface: account creation, browsing, stored pictures.
	s.router.Post("/login", authHandler.HandleLogin)
	s.router.Post("/register", authHandler.HandleRegister)
	s.router.Post("/logout", authHandler.HandleLogout)
	s.router.Get("/ads", adHandler.HandleList)
	s.router.Get("/ads/{id}", adHandler.HandleGet)
	s.router.Get("/ads/{id}/comments", commentHandler.HandleList)
	s.router.Get("/image/avatar/{id}", blobHandler.HandleAvatar)
	s.router.Get("/image/image/{id}", blobHandler.HandleImage)

	// Everything that acts on behalf of a user requires a session.
	s.router.Group(func(r chi.Router) {
		r.Use(requireAuth)

		r.Post("/ads", adHandler.HandleCreate)
		r.Get("/ads/me", adHandler.HandleListMine)
		r.Patch("/ads/{id}", adHandler.HandleUpdate)
		r.Delete("/ads/{id}", adHandler.HandleDelete)
		r.Patch("/ads/{id}/image", adHandler.HandleUpdateImage)

		r.Post("/ads/{id}/comments", commentHandler.HandleAdd)
		r.Patch("/ads/{adId}/comments/{commentId}", commentHandler.HandleUpdate)
		r.Delete("/ads/{adId}/comments/{commentId}", commentHandler.HandleDelete)

		r.Get("/users/me", userHandler.HandleMe)
		r.Patch("/users/me", userHandler.HandleUpdateMe)
		r.Post("/users/set_password", userHandler.HandleSetPassword)
		r.Patch("/users/me/image", userHandler.HandleUpdateAvatar)
	})

	return nil
}

// Router exposes the configured router for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully: stop accepting connections, give in-flight requests 30
// seconds, close the database.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.cfg.Server.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.cfg.Server.Port),
			slog.String("database", s.cfg.DB.Path),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}

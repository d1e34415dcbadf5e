package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gspotify/config"
	"gspotify/core/auth"
	"gspotify/db"
	"gspotify/logger"
	"gspotify/model"
	"gspotify/repository"
	"gspotify/storage"

	"github.com/gorilla/mux"
)

// Start initializes dependencies and runs the HTTP server until interrupted.
func Start() {
	cfg := config.Load()

	logger.Init(logger.Config{
		Level:      cfg.LogLevel,
		OutputPath: cfg.LogOutputPath,
	})
	defer logger.Sync()

	if err := db.Connect(cfg); err != nil {
		logger.Fatal("Failed to connect to database", logger.ErrorField(err))
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to migrate database", logger.ErrorField(err))
	}

	// Redis is optional: caching and rate limiting degrade without it.
	if err := db.ConnectRedis(cfg); err != nil {
		logger.Warn("Redis unavailable, running without cache", logger.ErrorField(err))
	} else {
		defer db.CloseRedis()
	}

	songStore, coverStore, watcher := buildStores(cfg)
	if watcher != nil {
		defer watcher.Close()
	}

	repos := Repositories{
		Users:     repository.NewGormUserRepository(db.DB),
		Songs:     repository.NewGormSongRepository(db.DB),
		Albums:    repository.NewGormAlbumRepository(db.DB),
		Genres:    repository.NewGormGenreRepository(db.DB),
		Playlists: repository.NewGormPlaylistRepository(db.DB),
		Comments:  repository.NewGormCommentRepository(db.DB),
		Lyrics:    repository.NewGormLyricsRepository(db.DB),
		Likes:     repository.NewGormLikeRepository(db.DB),
	}

	tokens := auth.NewTokenIssuer(cfg.JWTSecret, time.Duration(cfg.TokenExpiryMinutes)*time.Minute)
	apiHandler := NewAPIHandler(repos, songStore, coverStore, tokens, cfg)

	router := NewRouter(apiHandler, cfg)

	server := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Server starting", logger.String("addr", cfg.ListenAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", logger.ErrorField(err))
		}
	}()

	<-stop
	logger.Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", logger.ErrorField(err))
	}

	logger.Info("Server stopped")
}

// buildStores creates the song and cover stores per the configured backend.
func buildStores(cfg *config.Config) (songStore, coverStore storage.FileStore, watcher *storage.Watcher) {
	if cfg.StorageBackend == "minio" {
		client, err := storage.NewMinioClient(cfg)
		if err != nil {
			logger.Fatal("Failed to initialize MinIO", logger.ErrorField(err))
		}
		return storage.NewMinioStore(client, cfg.MinioBucket, "songs"),
			storage.NewMinioStore(client, cfg.MinioBucket, "covers"),
			nil
	}

	songs, err := storage.NewLocalStore(cfg.SongUploadDir)
	if err != nil {
		logger.Fatal("Failed to initialize song storage", logger.ErrorField(err))
	}
	covers, err := storage.NewLocalStore(cfg.CoverUploadDir)
	if err != nil {
		logger.Fatal("Failed to initialize cover storage", logger.ErrorField(err))
	}

	if cfg.WatchUploads {
		watcher, err = storage.WatchStore(songs)
		if err != nil {
			logger.Warn("Failed to watch song storage", logger.ErrorField(err))
			watcher = nil
		}
	}
	return songs, covers, watcher
}

// NewRouter builds the full route table.
func NewRouter(h *APIHandler, cfg *config.Config) *mux.Router {
	router := mux.NewRouter()

	router.Use(corsMiddleware)
	router.Use(loggingMiddleware)
	if cfg.RateLimitEnabled {
		router.Use(rateLimitMiddleware(cfg.RateLimitPerMin))
	}

	// Service info and health
	router.HandleFunc("/", h.RootHandler).Methods(http.MethodGet)
	router.HandleFunc("/health", h.HealthHandler).Methods(http.MethodGet)
	router.HandleFunc("/health/detailed", h.DetailedHealthHandler).Methods(http.MethodGet)

	// Auth
	router.HandleFunc("/auth/signup", h.SignupHandler).Methods(http.MethodPost)
	router.HandleFunc("/auth/login", h.LoginHandler).Methods(http.MethodPost)
	router.HandleFunc("/auth/change-password", h.AuthMiddleware(h.ChangePasswordHandler)).Methods(http.MethodPost)

	// Current user
	router.HandleFunc("/users/me", h.AuthMiddleware(h.GetMeHandler)).Methods(http.MethodGet)
	router.HandleFunc("/users/me", h.AuthMiddleware(h.UpdateMeHandler)).Methods(http.MethodPut)
	router.HandleFunc("/users/me", h.AuthMiddleware(h.DeleteMeHandler)).Methods(http.MethodDelete)
	router.HandleFunc("/users/me/playlists", h.AuthMiddleware(h.GetMyPlaylistsHandler)).Methods(http.MethodGet)
	router.HandleFunc("/users/me/liked-songs", h.AuthMiddleware(h.GetMyLikedSongsHandler)).Methods(http.MethodGet)
	router.HandleFunc("/users/me/notification-settings", h.AuthMiddleware(h.GetNotificationSettingsHandler)).Methods(http.MethodGet)
	router.HandleFunc("/users/me/notification-settings", h.AuthMiddleware(h.UpdateNotificationSettingsHandler)).Methods(http.MethodPut)

	// Public catalog
	router.HandleFunc("/songs", h.ListSongsHandler).Methods(http.MethodGet)
	router.HandleFunc("/songs/{id}", h.GetSongHandler).Methods(http.MethodGet)
	// Begin-playback is public, like the raw file endpoint it redirects to.
	router.HandleFunc("/songs/{id}/stream", h.StreamSongHandler).Methods(http.MethodGet)
	router.HandleFunc("/songs/{id}/like", h.AuthMiddleware(h.LikeSongHandler)).Methods(http.MethodPost)
	router.HandleFunc("/songs/{id}/like", h.AuthMiddleware(h.UnlikeSongHandler)).Methods(http.MethodDelete)
	router.HandleFunc("/songs/{id}/lyrics", h.GetLyricsHandler).Methods(http.MethodGet)
	router.HandleFunc("/songs/{id}/comments", h.ListCommentsHandler).Methods(http.MethodGet)
	router.HandleFunc("/songs/{id}/comments", h.AuthMiddleware(h.CreateCommentHandler)).Methods(http.MethodPost)

	router.HandleFunc("/artists", h.ListArtistsHandler).Methods(http.MethodGet)
	router.HandleFunc("/albums", h.ListAlbumsHandler).Methods(http.MethodGet)
	router.HandleFunc("/albums/{id}", h.GetAlbumHandler).Methods(http.MethodGet)
	router.HandleFunc("/genres", h.ListGenresHandler).Methods(http.MethodGet)
	router.HandleFunc("/search", h.SearchHandler).Methods(http.MethodGet)

	// Raw file serving. These endpoints are side-effect free.
	router.HandleFunc("/files/songs/{filename}", h.ServeSongFileHandler).Methods(http.MethodGet, http.MethodHead)
	router.HandleFunc("/files/covers/{filename}", h.ServeCoverFileHandler).Methods(http.MethodGet, http.MethodHead)

	// Playlists
	router.HandleFunc("/playlists", h.ListPlaylistsHandler).Methods(http.MethodGet)
	router.HandleFunc("/playlists", h.AuthMiddleware(h.CreatePlaylistHandler)).Methods(http.MethodPost)
	router.HandleFunc("/playlists/{id}", h.GetPlaylistHandler).Methods(http.MethodGet)
	router.HandleFunc("/playlists/{id}", h.AuthMiddleware(h.UpdatePlaylistHandler)).Methods(http.MethodPut)
	router.HandleFunc("/playlists/{id}", h.AuthMiddleware(h.DeletePlaylistHandler)).Methods(http.MethodDelete)
	router.HandleFunc("/playlists/{id}/songs", h.AuthMiddleware(h.AddPlaylistSongHandler)).Methods(http.MethodPost)
	router.HandleFunc("/playlists/{id}/songs/{song_id}", h.AuthMiddleware(h.RemovePlaylistSongHandler)).Methods(http.MethodDelete)

	// Artist surface
	artist := func(next http.HandlerFunc) http.HandlerFunc {
		return h.AuthMiddleware(h.requireRole(model.RoleArtist, next))
	}
	router.HandleFunc("/artist/songs", artist(h.UploadSongHandler)).Methods(http.MethodPost)
	router.HandleFunc("/artist/songs", artist(h.ListMySongsHandler)).Methods(http.MethodGet)
	router.HandleFunc("/artist/songs/{id}", artist(h.DeleteMySongHandler)).Methods(http.MethodDelete)
	router.HandleFunc("/artist/songs/{id}/lyrics", artist(h.UpsertLyricsHandler)).Methods(http.MethodPut)
	router.HandleFunc("/artist/albums", artist(h.CreateAlbumHandler)).Methods(http.MethodPost)
	router.HandleFunc("/artist/albums", artist(h.ListMyAlbumsHandler)).Methods(http.MethodGet)
	router.HandleFunc("/artist/albums/{id}", artist(h.UpdateAlbumHandler)).Methods(http.MethodPut)
	router.HandleFunc("/artist/albums/{id}", artist(h.DeleteAlbumHandler)).Methods(http.MethodDelete)
	router.HandleFunc("/artist/albums/{id}/cover", artist(h.UploadAlbumCoverHandler)).Methods(http.MethodPost)
	router.HandleFunc("/artist/dashboard", artist(h.ArtistDashboardHandler)).Methods(http.MethodGet)

	// Admin surface
	admin := func(next http.HandlerFunc) http.HandlerFunc {
		return h.AuthMiddleware(h.requireRole(model.RoleAdmin, next))
	}
	router.HandleFunc("/admin/users", admin(h.AdminListUsersHandler)).Methods(http.MethodGet)
	router.HandleFunc("/admin/users/{id}/status", admin(h.AdminToggleUserStatusHandler)).Methods(http.MethodPut)
	router.HandleFunc("/admin/users/{id}/role", admin(h.AdminUpdateUserRoleHandler)).Methods(http.MethodPut)
	router.HandleFunc("/admin/songs", admin(h.AdminListSongsHandler)).Methods(http.MethodGet)
	router.HandleFunc("/admin/songs/pending", admin(h.AdminListPendingSongsHandler)).Methods(http.MethodGet)
	router.HandleFunc("/admin/songs/{id}/approve", admin(h.AdminApproveSongHandler)).Methods(http.MethodPut)
	router.HandleFunc("/admin/songs/{id}/reject", admin(h.AdminRejectSongHandler)).Methods(http.MethodPut)
	router.HandleFunc("/admin/songs/{id}", admin(h.AdminDeleteSongHandler)).Methods(http.MethodDelete)
	router.HandleFunc("/admin/comments/{id}", admin(h.AdminDeleteCommentHandler)).Methods(http.MethodDelete)
	router.HandleFunc("/admin/genres", admin(h.AdminCreateGenreHandler)).Methods(http.MethodPost)
	router.HandleFunc("/admin/genres/{id}", admin(h.AdminUpdateGenreHandler)).Methods(http.MethodPut)
	router.HandleFunc("/admin/genres/{id}", admin(h.AdminDeleteGenreHandler)).Methods(http.MethodDelete)
	router.HandleFunc("/admin/dashboard", admin(h.AdminDashboardHandler)).Methods(http.MethodGet)

	return router
}

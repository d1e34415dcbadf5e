package server

import (
	"gspotify/config"
	"gspotify/core/auth"
	"gspotify/core/stream"
	"gspotify/repository"
	"gspotify/storage"
)

// APIHandler handles all API requests. Handlers are spread over per-concern
// files; they all hang off this one receiver.
type APIHandler struct {
	userRepo     repository.UserRepository
	songRepo     repository.SongRepository
	albumRepo    repository.AlbumRepository
	genreRepo    repository.GenreRepository
	playlistRepo repository.PlaylistRepository
	commentRepo  repository.CommentRepository
	lyricsRepo   repository.LyricsRepository
	likeRepo     repository.LikeRepository

	songStore  storage.FileStore
	coverStore storage.FileStore
	responder  *stream.Responder
	covers     *stream.Responder

	tokens *auth.TokenIssuer
	cfg    *config.Config
}

// Repositories bundles the data access dependencies of the API.
type Repositories struct {
	Users     repository.UserRepository
	Songs     repository.SongRepository
	Albums    repository.AlbumRepository
	Genres    repository.GenreRepository
	Playlists repository.PlaylistRepository
	Comments  repository.CommentRepository
	Lyrics    repository.LyricsRepository
	Likes     repository.LikeRepository
}

// NewAPIHandler creates a new API handler over the given dependencies.
func NewAPIHandler(
	repos Repositories,
	songStore, coverStore storage.FileStore,
	tokens *auth.TokenIssuer,
	cfg *config.Config,
) *APIHandler {
	return &APIHandler{
		userRepo:     repos.Users,
		songRepo:     repos.Songs,
		albumRepo:    repos.Albums,
		genreRepo:    repos.Genres,
		playlistRepo: repos.Playlists,
		commentRepo:  repos.Comments,
		lyricsRepo:   repos.Lyrics,
		likeRepo:     repos.Likes,
		songStore:    songStore,
		coverStore:   coverStore,
		responder:    stream.NewResponder(songStore, stream.DefaultChunkSize),
		covers:       stream.NewResponder(coverStore, stream.DefaultChunkSize),
		tokens:       tokens,
		cfg:          cfg,
	}
}

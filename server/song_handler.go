package server

import (
	"errors"
	"net/http"
	"strings"

	"gspotify/cache"
	"gspotify/logger"
	"gspotify/model"
	"gspotify/repository"
)

// ListSongsHandler lists approved songs, optionally filtered by genre_id and
// artist_id.
func (h *APIHandler) ListSongsHandler(w http.ResponseWriter, r *http.Request) {
	skip, limit := pagination(r)
	filter := repository.SongFilter{
		GenreID:  queryID(r, "genre_id"),
		ArtistID: queryID(r, "artist_id"),
	}

	songs, err := h.songRepo.ListApproved(r.Context(), filter, skip, limit)
	if err != nil {
		logger.Error("Failed to list songs", logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "failed to list songs")
		return
	}

	details, err := h.songRepo.AttachDetails(r.Context(), songs)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list songs")
		return
	}
	respondJSON(w, http.StatusOK, details)
}

// GetSongHandler returns the detail view of an approved song, served from the
// cache when warm.
func (h *APIHandler) GetSongHandler(w http.ResponseWriter, r *http.Request) {
	songID, ok := pathID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid song id")
		return
	}

	if cached, err := cache.GetSongDetail(r.Context(), songID); err == nil && cached != nil {
		respondJSON(w, http.StatusOK, cached)
		return
	}

	song, err := h.songRepo.GetApprovedByID(r.Context(), songID)
	if err != nil {
		logger.Error("Failed to load song", logger.Int64("songId", songID), logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "failed to load song")
		return
	}
	if song == nil {
		respondError(w, http.StatusNotFound, "song not found")
		return
	}

	details, err := h.songRepo.AttachDetails(r.Context(), []model.Song{*song})
	if err != nil || len(details) == 0 {
		respondError(w, http.StatusInternalServerError, "failed to load song")
		return
	}

	cache.SetSongDetail(r.Context(), &details[0])
	respondJSON(w, http.StatusOK, &details[0])
}

// StreamSongHandler begins playback of an approved song: it counts the play
// and redirects the client to the raw file endpoint. The play count moves
// exactly once per call here, never in the byte server, so seeking within a
// track costs nothing extra.
func (h *APIHandler) StreamSongHandler(w http.ResponseWriter, r *http.Request) {
	songID, ok := pathID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid song id")
		return
	}

	song, err := h.songRepo.GetApprovedByID(r.Context(), songID)
	if err != nil {
		logger.Error("Failed to load song", logger.Int64("songId", songID), logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "failed to start stream")
		return
	}
	if song == nil {
		respondError(w, http.StatusNotFound, "song not found")
		return
	}
	if !h.songStore.Exists(song.FilePath) {
		logger.Error("Song file missing from store",
			logger.Int64("songId", songID),
			logger.String("identifier", song.FilePath),
		)
		respondError(w, http.StatusNotFound, "song file not found")
		return
	}

	// The increment is committed before the redirect is sent; if it fails,
	// the stream does not start.
	if err := h.songRepo.IncrementPlayCount(r.Context(), songID); err != nil {
		logger.Error("Failed to count play", logger.Int64("songId", songID), logger.ErrorField(err))
		if status := statusForDBError(err); status == http.StatusServiceUnavailable {
			respondError(w, status, "service temporarily unavailable")
		} else {
			respondError(w, status, "failed to start stream")
		}
		return
	}
	cache.InvalidateSongDetail(r.Context(), songID)

	logger.Info("Playback started",
		logger.Int64("songId", songID),
		logger.String("identifier", song.FilePath),
	)
	http.Redirect(w, r, "/files/songs/"+song.FilePath, http.StatusFound)
}

// LikeSongHandler records a like; repeats are reported, not duplicated.
func (h *APIHandler) LikeSongHandler(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())
	songID, ok := pathID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid song id")
		return
	}

	song, err := h.songRepo.GetApprovedByID(r.Context(), songID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to like song")
		return
	}
	if song == nil {
		respondError(w, http.StatusNotFound, "song not found")
		return
	}

	if err := h.likeRepo.Like(r.Context(), claims.UserID, songID); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			respondError(w, http.StatusConflict, "song already liked")
			return
		}
		logger.Error("Failed to like song", logger.Int64("songId", songID), logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "failed to like song")
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{"message": "song liked"})
}

// UnlikeSongHandler removes a like.
func (h *APIHandler) UnlikeSongHandler(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())
	songID, ok := pathID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid song id")
		return
	}

	removed, err := h.likeRepo.Unlike(r.Context(), claims.UserID, songID)
	if err != nil {
		logger.Error("Failed to unlike song", logger.Int64("songId", songID), logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "failed to unlike song")
		return
	}
	if !removed {
		respondError(w, http.StatusNotFound, "song was not liked")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "like removed"})
}

// GetLyricsHandler returns the lyrics of an approved song.
func (h *APIHandler) GetLyricsHandler(w http.ResponseWriter, r *http.Request) {
	songID, ok := pathID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid song id")
		return
	}

	song, err := h.songRepo.GetApprovedByID(r.Context(), songID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load lyrics")
		return
	}
	if song == nil {
		respondError(w, http.StatusNotFound, "song not found")
		return
	}

	lyrics, err := h.lyricsRepo.GetBySong(r.Context(), songID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load lyrics")
		return
	}
	if lyrics == nil {
		respondError(w, http.StatusNotFound, "lyrics not found")
		return
	}
	respondJSON(w, http.StatusOK, lyrics)
}

// ListCommentsHandler returns a song's comments, oldest first.
func (h *APIHandler) ListCommentsHandler(w http.ResponseWriter, r *http.Request) {
	songID, ok := pathID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid song id")
		return
	}
	skip, limit := pagination(r)

	song, err := h.songRepo.GetApprovedByID(r.Context(), songID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load comments")
		return
	}
	if song == nil {
		respondError(w, http.StatusNotFound, "song not found")
		return
	}

	comments, err := h.commentRepo.ListBySong(r.Context(), songID, skip, limit)
	if err != nil {
		logger.Error("Failed to list comments", logger.Int64("songId", songID), logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "failed to load comments")
		return
	}
	respondJSON(w, http.StatusOK, comments)
}

// CreateCommentHandler adds a comment to an approved song.
func (h *APIHandler) CreateCommentHandler(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())
	songID, ok := pathID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid song id")
		return
	}

	var req struct {
		Text string `json:"text"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Text = strings.TrimSpace(req.Text)
	if req.Text == "" {
		respondError(w, http.StatusBadRequest, "comment text is required")
		return
	}

	song, err := h.songRepo.GetApprovedByID(r.Context(), songID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to create comment")
		return
	}
	if song == nil {
		respondError(w, http.StatusNotFound, "song not found")
		return
	}

	comment := &model.Comment{Text: req.Text, UserID: claims.UserID, SongID: songID}
	if _, err := h.commentRepo.Create(r.Context(), comment); err != nil {
		logger.Error("Failed to create comment", logger.Int64("songId", songID), logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "failed to create comment")
		return
	}
	respondJSON(w, http.StatusCreated, comment)
}

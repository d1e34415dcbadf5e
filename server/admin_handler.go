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

// AdminListUsersHandler lists accounts, optionally filtered by role.
func (h *APIHandler) AdminListUsersHandler(w http.ResponseWriter, r *http.Request) {
	skip, limit := pagination(r)

	var (
		users []model.User
		err   error
	)
	if role := r.URL.Query().Get("role"); role != "" {
		if !model.ValidRole(role) {
			respondError(w, http.StatusBadRequest, "unknown role")
			return
		}
		users, err = h.userRepo.ListByRole(r.Context(), role, skip, limit)
	} else {
		users, err = h.userRepo.List(r.Context(), skip, limit)
	}
	if err != nil {
		logger.Error("Failed to list users", logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "failed to list users")
		return
	}
	respondJSON(w, http.StatusOK, users)
}

// AdminToggleUserStatusHandler flips an account between active and disabled.
// Admins cannot disable themselves.
func (h *APIHandler) AdminToggleUserStatusHandler(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())
	userID, ok := pathID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid user id")
		return
	}
	if userID == claims.UserID {
		respondError(w, http.StatusBadRequest, "cannot change your own status")
		return
	}

	user, err := h.userRepo.GetByID(r.Context(), userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to update user")
		return
	}
	if user == nil {
		respondError(w, http.StatusNotFound, "user not found")
		return
	}

	if err := h.userRepo.SetActive(r.Context(), userID, !user.IsActive); err != nil {
		logger.Error("Failed to toggle user status", logger.Int64("userId", userID), logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "failed to update user")
		return
	}

	user.IsActive = !user.IsActive
	logger.Info("User status toggled",
		logger.Int64("userId", userID),
		logger.Bool("isActive", user.IsActive),
		logger.Int64("adminId", claims.UserID),
	)
	respondJSON(w, http.StatusOK, user)
}

// AdminUpdateUserRoleHandler reassigns an account's role.
func (h *APIHandler) AdminUpdateUserRoleHandler(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())
	userID, ok := pathID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	var req struct {
		Role string `json:"role"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !model.ValidRole(req.Role) {
		respondError(w, http.StatusBadRequest, "role must be user, artist or admin")
		return
	}
	if userID == claims.UserID {
		respondError(w, http.StatusBadRequest, "cannot change your own role")
		return
	}

	user, err := h.userRepo.GetByID(r.Context(), userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to update user")
		return
	}
	if user == nil {
		respondError(w, http.StatusNotFound, "user not found")
		return
	}

	if err := h.userRepo.UpdateRole(r.Context(), userID, req.Role); err != nil {
		logger.Error("Failed to update role", logger.Int64("userId", userID), logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "failed to update user")
		return
	}

	user.Role = req.Role
	logger.Info("User role changed",
		logger.Int64("userId", userID),
		logger.String("role", req.Role),
		logger.Int64("adminId", claims.UserID),
	)
	respondJSON(w, http.StatusOK, user)
}

// AdminListSongsHandler lists songs of every status, optionally filtered.
func (h *APIHandler) AdminListSongsHandler(w http.ResponseWriter, r *http.Request) {
	skip, limit := pagination(r)

	var (
		songs []model.Song
		err   error
	)
	if status := r.URL.Query().Get("status"); status != "" {
		songs, err = h.songRepo.ListByStatus(r.Context(), status, skip, limit)
	} else {
		songs, err = h.songRepo.ListAll(r.Context(), skip, limit)
	}
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

// AdminListPendingSongsHandler lists the moderation queue.
func (h *APIHandler) AdminListPendingSongsHandler(w http.ResponseWriter, r *http.Request) {
	skip, limit := pagination(r)

	songs, err := h.songRepo.ListByStatus(r.Context(), model.SongStatusPending, skip, limit)
	if err != nil {
		logger.Error("Failed to list pending songs", logger.ErrorField(err))
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

func (h *APIHandler) moderateSong(w http.ResponseWriter, r *http.Request, status string) {
	claims := claimsFromContext(r.Context())
	songID, ok := pathID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid song id")
		return
	}

	song, err := h.songRepo.GetByID(r.Context(), songID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to moderate song")
		return
	}
	if song == nil {
		respondError(w, http.StatusNotFound, "song not found")
		return
	}

	if err := h.songRepo.UpdateStatus(r.Context(), songID, status); err != nil {
		logger.Error("Failed to update song status", logger.Int64("songId", songID), logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "failed to moderate song")
		return
	}
	cache.InvalidateSongDetail(r.Context(), songID)

	song.Status = status
	logger.Info("Song moderated",
		logger.Int64("songId", songID),
		logger.String("status", status),
		logger.Int64("adminId", claims.UserID),
	)
	respondJSON(w, http.StatusOK, song)
}

// AdminApproveSongHandler makes a song visible to listeners.
func (h *APIHandler) AdminApproveSongHandler(w http.ResponseWriter, r *http.Request) {
	h.moderateSong(w, r, model.SongStatusApproved)
}

// AdminRejectSongHandler rejects a song.
func (h *APIHandler) AdminRejectSongHandler(w http.ResponseWriter, r *http.Request) {
	h.moderateSong(w, r, model.SongStatusRejected)
}

// AdminDeleteSongHandler removes any song, blob included.
func (h *APIHandler) AdminDeleteSongHandler(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())
	songID, ok := pathID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid song id")
		return
	}

	song, err := h.songRepo.GetByID(r.Context(), songID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to delete song")
		return
	}
	if song == nil {
		respondError(w, http.StatusNotFound, "song not found")
		return
	}

	if err := h.songRepo.Delete(r.Context(), songID); err != nil {
		logger.Error("Failed to delete song", logger.Int64("songId", songID), logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "failed to delete song")
		return
	}
	h.songStore.Delete(song.FilePath)
	cache.InvalidateSongDetail(r.Context(), songID)

	logger.Info("Song deleted by admin",
		logger.Int64("songId", songID),
		logger.Int64("adminId", claims.UserID),
	)
	respondJSON(w, http.StatusOK, map[string]string{"message": "song deleted"})
}

// AdminDeleteCommentHandler removes a comment.
func (h *APIHandler) AdminDeleteCommentHandler(w http.ResponseWriter, r *http.Request) {
	commentID, ok := pathID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid comment id")
		return
	}

	comment, err := h.commentRepo.GetByID(r.Context(), commentID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to delete comment")
		return
	}
	if comment == nil {
		respondError(w, http.StatusNotFound, "comment not found")
		return
	}

	if err := h.commentRepo.Delete(r.Context(), commentID); err != nil {
		logger.Error("Failed to delete comment", logger.Int64("commentId", commentID), logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "failed to delete comment")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "comment deleted"})
}

// AdminCreateGenreHandler adds a genre.
func (h *APIHandler) AdminCreateGenreHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		respondError(w, http.StatusBadRequest, "name is required")
		return
	}

	genre := &model.Genre{Name: req.Name}
	if _, err := h.genreRepo.Create(r.Context(), genre); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			respondError(w, http.StatusConflict, "genre already exists")
			return
		}
		logger.Error("Failed to create genre", logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "failed to create genre")
		return
	}
	respondJSON(w, http.StatusCreated, genre)
}

// AdminUpdateGenreHandler renames a genre.
func (h *APIHandler) AdminUpdateGenreHandler(w http.ResponseWriter, r *http.Request) {
	genreID, ok := pathID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid genre id")
		return
	}

	var req struct {
		Name string `json:"name"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		respondError(w, http.StatusBadRequest, "name is required")
		return
	}

	genre, err := h.genreRepo.GetByID(r.Context(), genreID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to update genre")
		return
	}
	if genre == nil {
		respondError(w, http.StatusNotFound, "genre not found")
		return
	}

	if err := h.genreRepo.UpdateName(r.Context(), genreID, req.Name); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			respondError(w, http.StatusConflict, "genre already exists")
			return
		}
		logger.Error("Failed to rename genre", logger.Int64("genreId", genreID), logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "failed to update genre")
		return
	}

	genre.Name = req.Name
	respondJSON(w, http.StatusOK, genre)
}

// AdminDeleteGenreHandler removes a genre that no song references.
func (h *APIHandler) AdminDeleteGenreHandler(w http.ResponseWriter, r *http.Request) {
	genreID, ok := pathID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid genre id")
		return
	}

	genre, err := h.genreRepo.GetByID(r.Context(), genreID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to delete genre")
		return
	}
	if genre == nil {
		respondError(w, http.StatusNotFound, "genre not found")
		return
	}

	count, err := h.songRepo.CountByGenre(r.Context(), genreID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to delete genre")
		return
	}
	if count > 0 {
		respondError(w, http.StatusConflict, "genre is still in use")
		return
	}

	if err := h.genreRepo.Delete(r.Context(), genreID); err != nil {
		logger.Error("Failed to delete genre", logger.Int64("genreId", genreID), logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "failed to delete genre")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "genre deleted"})
}

// AdminDashboardHandler summarizes the platform. The payload is cached for a
// minute.
func (h *APIHandler) AdminDashboardHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if cached := cache.GetPlatformStats(ctx); cached != nil {
		respondJSON(w, http.StatusOK, cached)
		return
	}

	totalUsers, err := h.userRepo.Count(ctx)
	if err != nil {
		logger.Error("Failed to build dashboard", logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "failed to build dashboard")
		return
	}
	totalArtists, err := h.userRepo.CountByRole(ctx, model.RoleArtist)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to build dashboard")
		return
	}
	totalSongs, err := h.songRepo.Count(ctx)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to build dashboard")
		return
	}
	pendingSongs, err := h.songRepo.CountByStatus(ctx, model.SongStatusPending)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to build dashboard")
		return
	}
	totalPlays, err := h.songRepo.TotalPlays(ctx)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to build dashboard")
		return
	}
	recentUsers, err := h.userRepo.Recent(ctx, 5)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to build dashboard")
		return
	}
	recentSongs, err := h.songRepo.Recent(ctx, 5)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to build dashboard")
		return
	}

	stats := map[string]interface{}{
		"total_users":    totalUsers,
		"total_artists":  totalArtists,
		"total_songs":    totalSongs,
		"pending_songs":  pendingSongs,
		"total_plays":    totalPlays,
		"recent_users":   recentUsers,
		"recent_uploads": recentSongs,
	}
	cache.SetPlatformStats(ctx, stats)
	respondJSON(w, http.StatusOK, stats)
}

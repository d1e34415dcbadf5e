package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"gspotify/logger"
	"gspotify/model"
	"gspotify/repository"
)

// NotificationSettings is the per-user notification preference document,
// stored serialized on the user row.
type NotificationSettings struct {
	EmailOnNewFollower bool `json:"email_on_new_follower"`
	EmailOnNewComment  bool `json:"email_on_new_comment"`
	WeeklyDigest       bool `json:"weekly_digest"`
}

func defaultNotificationSettings() NotificationSettings {
	return NotificationSettings{
		EmailOnNewFollower: true,
		EmailOnNewComment:  true,
		WeeklyDigest:       false,
	}
}

// GetMeHandler returns the caller's account.
func (h *APIHandler) GetMeHandler(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())

	user, err := h.userRepo.GetByID(r.Context(), claims.UserID)
	if err != nil || user == nil {
		respondError(w, http.StatusInternalServerError, "failed to load user")
		return
	}
	respondJSON(w, http.StatusOK, user)
}

// UpdateMeHandler changes the caller's email address.
func (h *APIHandler) UpdateMeHandler(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())

	var req struct {
		Email string `json:"email"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" {
		respondError(w, http.StatusBadRequest, "email is required")
		return
	}

	if err := h.userRepo.UpdateEmail(r.Context(), claims.UserID, req.Email); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			respondError(w, http.StatusConflict, "email already registered")
			return
		}
		logger.Error("Failed to update email", logger.Int64("userId", claims.UserID), logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "failed to update user")
		return
	}

	user, err := h.userRepo.GetByID(r.Context(), claims.UserID)
	if err != nil || user == nil {
		respondError(w, http.StatusInternalServerError, "failed to load user")
		return
	}
	respondJSON(w, http.StatusOK, user)
}

// GetMyPlaylistsHandler lists the caller's playlists with song counts.
func (h *APIHandler) GetMyPlaylistsHandler(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())
	skip, limit := pagination(r)

	playlists, err := h.playlistRepo.ListByOwner(r.Context(), claims.UserID, skip, limit)
	if err != nil {
		logger.Error("Failed to list playlists", logger.Int64("userId", claims.UserID), logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "failed to list playlists")
		return
	}

	result := make([]model.PlaylistWithDetails, 0, len(playlists))
	for _, p := range playlists {
		count, err := h.playlistRepo.CountSongs(r.Context(), p.ID)
		if err != nil {
			respondError(w, http.StatusInternalServerError, "failed to list playlists")
			return
		}
		result = append(result, model.PlaylistWithDetails{
			Playlist:  p,
			SongCount: count,
			OwnerName: claims.Username,
		})
	}
	respondJSON(w, http.StatusOK, result)
}

// GetMyLikedSongsHandler lists the caller's liked songs, newest like first.
func (h *APIHandler) GetMyLikedSongsHandler(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())
	skip, limit := pagination(r)

	songs, err := h.likeRepo.ListSongs(r.Context(), claims.UserID, skip, limit)
	if err != nil {
		logger.Error("Failed to list liked songs", logger.Int64("userId", claims.UserID), logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "failed to list liked songs")
		return
	}

	details, err := h.songRepo.AttachDetails(r.Context(), songs)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list liked songs")
		return
	}
	respondJSON(w, http.StatusOK, details)
}

// GetNotificationSettingsHandler returns the caller's notification
// preferences, falling back to defaults when none are stored.
func (h *APIHandler) GetNotificationSettingsHandler(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())

	user, err := h.userRepo.GetByID(r.Context(), claims.UserID)
	if err != nil || user == nil {
		respondError(w, http.StatusInternalServerError, "failed to load user")
		return
	}

	settings := defaultNotificationSettings()
	if user.NotificationSettings != "" {
		if err := json.Unmarshal([]byte(user.NotificationSettings), &settings); err != nil {
			logger.Warn("Corrupt notification settings, using defaults",
				logger.Int64("userId", user.ID),
				logger.ErrorField(err),
			)
			settings = defaultNotificationSettings()
		}
	}
	respondJSON(w, http.StatusOK, settings)
}

// UpdateNotificationSettingsHandler replaces the caller's notification
// preferences.
func (h *APIHandler) UpdateNotificationSettingsHandler(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())

	var settings NotificationSettings
	if err := decodeJSON(r, &settings); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	data, err := json.Marshal(settings)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to save settings")
		return
	}
	if err := h.userRepo.UpdateNotificationSettings(r.Context(), claims.UserID, string(data)); err != nil {
		logger.Error("Failed to save notification settings", logger.Int64("userId", claims.UserID), logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "failed to save settings")
		return
	}
	respondJSON(w, http.StatusOK, settings)
}

// DeleteMeHandler removes the caller's account.
func (h *APIHandler) DeleteMeHandler(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())

	if err := h.userRepo.Delete(r.Context(), claims.UserID); err != nil {
		logger.Error("Failed to delete user", logger.Int64("userId", claims.UserID), logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "failed to delete account")
		return
	}

	logger.Info("User deleted own account", logger.Int64("userId", claims.UserID))
	respondJSON(w, http.StatusOK, map[string]string{"message": "account deleted"})
}

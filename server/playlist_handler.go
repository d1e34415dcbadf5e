package server

import (
	"net/http"
	"strings"

	"gspotify/logger"
	"gspotify/model"
	"gspotify/repository"
)

// ListArtistsHandler lists artist accounts.
func (h *APIHandler) ListArtistsHandler(w http.ResponseWriter, r *http.Request) {
	skip, limit := pagination(r)

	artists, err := h.userRepo.ListByRole(r.Context(), model.RoleArtist, skip, limit)
	if err != nil {
		logger.Error("Failed to list artists", logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "failed to list artists")
		return
	}
	respondJSON(w, http.StatusOK, artists)
}

// ListAlbumsHandler lists albums, optionally filtered by artist_id.
func (h *APIHandler) ListAlbumsHandler(w http.ResponseWriter, r *http.Request) {
	skip, limit := pagination(r)

	albums, err := h.albumRepo.List(r.Context(), queryID(r, "artist_id"), skip, limit)
	if err != nil {
		logger.Error("Failed to list albums", logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "failed to list albums")
		return
	}
	respondJSON(w, http.StatusOK, albums)
}

// GetAlbumHandler returns an album together with its approved songs.
func (h *APIHandler) GetAlbumHandler(w http.ResponseWriter, r *http.Request) {
	albumID, ok := pathID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid album id")
		return
	}

	album, err := h.albumRepo.GetByID(r.Context(), albumID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load album")
		return
	}
	if album == nil {
		respondError(w, http.StatusNotFound, "album not found")
		return
	}

	songs, err := h.songRepo.ListApproved(r.Context(), repository.SongFilter{ArtistID: &album.ArtistID}, 0, maxPageLimit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load album")
		return
	}

	albumSongs := songs[:0]
	for _, s := range songs {
		if s.AlbumID != nil && *s.AlbumID == albumID {
			albumSongs = append(albumSongs, s)
		}
	}

	details, err := h.songRepo.AttachDetails(r.Context(), albumSongs)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load album")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"album": album,
		"songs": details,
	})
}

// ListGenresHandler lists all genres.
func (h *APIHandler) ListGenresHandler(w http.ResponseWriter, r *http.Request) {
	genres, err := h.genreRepo.List(r.Context())
	if err != nil {
		logger.Error("Failed to list genres", logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "failed to list genres")
		return
	}
	respondJSON(w, http.StatusOK, genres)
}

// ListPlaylistsHandler lists playlists platform-wide.
func (h *APIHandler) ListPlaylistsHandler(w http.ResponseWriter, r *http.Request) {
	skip, limit := pagination(r)

	playlists, err := h.playlistRepo.List(r.Context(), skip, limit)
	if err != nil {
		logger.Error("Failed to list playlists", logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "failed to list playlists")
		return
	}
	respondJSON(w, http.StatusOK, playlists)
}

// CreatePlaylistHandler creates a playlist owned by the caller.
func (h *APIHandler) CreatePlaylistHandler(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())

	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
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

	playlist := &model.Playlist{Name: req.Name, OwnerID: claims.UserID, Description: req.Description}
	if _, err := h.playlistRepo.Create(r.Context(), playlist); err != nil {
		logger.Error("Failed to create playlist", logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "failed to create playlist")
		return
	}
	respondJSON(w, http.StatusCreated, playlist)
}

// GetPlaylistHandler returns a playlist with its songs.
func (h *APIHandler) GetPlaylistHandler(w http.ResponseWriter, r *http.Request) {
	playlistID, ok := pathID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid playlist id")
		return
	}

	playlist, err := h.playlistRepo.GetByID(r.Context(), playlistID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load playlist")
		return
	}
	if playlist == nil {
		respondError(w, http.StatusNotFound, "playlist not found")
		return
	}

	songs, err := h.playlistRepo.ListSongs(r.Context(), playlistID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load playlist")
		return
	}
	details, err := h.songRepo.AttachDetails(r.Context(), songs)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load playlist")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"playlist": playlist,
		"songs":    details,
	})
}

// UpdatePlaylistHandler edits a playlist the caller owns.
func (h *APIHandler) UpdatePlaylistHandler(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())
	playlistID, ok := pathID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid playlist id")
		return
	}

	playlist, err := h.playlistRepo.GetByIDAndOwner(r.Context(), playlistID, claims.UserID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to update playlist")
		return
	}
	if playlist == nil {
		respondError(w, http.StatusNotFound, "playlist not found")
		return
	}

	var req struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			respondError(w, http.StatusBadRequest, "name cannot be empty")
			return
		}
		playlist.Name = name
	}
	if req.Description != nil {
		playlist.Description = *req.Description
	}

	if err := h.playlistRepo.Update(r.Context(), playlist); err != nil {
		logger.Error("Failed to update playlist", logger.Int64("playlistId", playlistID), logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "failed to update playlist")
		return
	}
	respondJSON(w, http.StatusOK, playlist)
}

// DeletePlaylistHandler removes a playlist the caller owns.
func (h *APIHandler) DeletePlaylistHandler(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())
	playlistID, ok := pathID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid playlist id")
		return
	}

	playlist, err := h.playlistRepo.GetByIDAndOwner(r.Context(), playlistID, claims.UserID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to delete playlist")
		return
	}
	if playlist == nil {
		respondError(w, http.StatusNotFound, "playlist not found")
		return
	}

	if err := h.playlistRepo.Delete(r.Context(), playlistID); err != nil {
		logger.Error("Failed to delete playlist", logger.Int64("playlistId", playlistID), logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "failed to delete playlist")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "playlist deleted"})
}

// AddPlaylistSongHandler adds an approved song to a playlist the caller owns.
// Adding a song twice is rejected.
func (h *APIHandler) AddPlaylistSongHandler(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())
	playlistID, ok := pathID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid playlist id")
		return
	}

	var req struct {
		SongID int64 `json:"song_id"`
	}
	if err := decodeJSON(r, &req); err != nil || req.SongID <= 0 {
		respondError(w, http.StatusBadRequest, "song_id is required")
		return
	}

	playlist, err := h.playlistRepo.GetByIDAndOwner(r.Context(), playlistID, claims.UserID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to add song")
		return
	}
	if playlist == nil {
		respondError(w, http.StatusNotFound, "playlist not found")
		return
	}

	song, err := h.songRepo.GetApprovedByID(r.Context(), req.SongID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to add song")
		return
	}
	if song == nil {
		respondError(w, http.StatusNotFound, "song not found")
		return
	}

	exists, err := h.playlistRepo.HasSong(r.Context(), playlistID, req.SongID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to add song")
		return
	}
	if exists {
		respondError(w, http.StatusConflict, "song already in playlist")
		return
	}

	if err := h.playlistRepo.AddSong(r.Context(), playlistID, req.SongID); err != nil {
		logger.Error("Failed to add song to playlist",
			logger.Int64("playlistId", playlistID),
			logger.Int64("songId", req.SongID),
			logger.ErrorField(err),
		)
		respondError(w, http.StatusInternalServerError, "failed to add song")
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{"message": "song added to playlist"})
}

// RemovePlaylistSongHandler removes a song from a playlist the caller owns.
func (h *APIHandler) RemovePlaylistSongHandler(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())
	playlistID, ok := pathID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid playlist id")
		return
	}
	songID, ok := pathID(r, "song_id")
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid song id")
		return
	}

	playlist, err := h.playlistRepo.GetByIDAndOwner(r.Context(), playlistID, claims.UserID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to remove song")
		return
	}
	if playlist == nil {
		respondError(w, http.StatusNotFound, "playlist not found")
		return
	}

	exists, err := h.playlistRepo.HasSong(r.Context(), playlistID, songID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to remove song")
		return
	}
	if !exists {
		respondError(w, http.StatusNotFound, "song not in playlist")
		return
	}

	if err := h.playlistRepo.RemoveSong(r.Context(), playlistID, songID); err != nil {
		logger.Error("Failed to remove song from playlist",
			logger.Int64("playlistId", playlistID),
			logger.Int64("songId", songID),
			logger.ErrorField(err),
		)
		respondError(w, http.StatusInternalServerError, "failed to remove song")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "song removed from playlist"})
}

// SearchHandler searches songs, artists and playlists. type selects one
// collection; all (the default) searches every one.
func (h *APIHandler) SearchHandler(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		respondError(w, http.StatusBadRequest, "query parameter q is required")
		return
	}
	searchType := r.URL.Query().Get("type")
	if searchType == "" {
		searchType = "all"
	}
	skip, limit := pagination(r)

	result := map[string]interface{}{}

	switch searchType {
	case "song", "artist", "playlist", "all":
	default:
		respondError(w, http.StatusBadRequest, "type must be song, artist, playlist or all")
		return
	}

	if searchType == "song" || searchType == "all" {
		songs, err := h.songRepo.SearchApproved(r.Context(), q, skip, limit)
		if err != nil {
			logger.Error("Song search failed", logger.String("q", q), logger.ErrorField(err))
			respondError(w, http.StatusInternalServerError, "search failed")
			return
		}
		details, err := h.songRepo.AttachDetails(r.Context(), songs)
		if err != nil {
			respondError(w, http.StatusInternalServerError, "search failed")
			return
		}
		result["songs"] = details
	}

	if searchType == "artist" || searchType == "all" {
		artists, err := h.userRepo.SearchArtists(r.Context(), q, skip, limit)
		if err != nil {
			logger.Error("Artist search failed", logger.String("q", q), logger.ErrorField(err))
			respondError(w, http.StatusInternalServerError, "search failed")
			return
		}
		result["artists"] = artists
	}

	if searchType == "playlist" || searchType == "all" {
		playlists, err := h.playlistRepo.Search(r.Context(), q, skip, limit)
		if err != nil {
			logger.Error("Playlist search failed", logger.String("q", q), logger.ErrorField(err))
			respondError(w, http.StatusInternalServerError, "search failed")
			return
		}
		result["playlists"] = playlists
	}

	respondJSON(w, http.StatusOK, result)
}

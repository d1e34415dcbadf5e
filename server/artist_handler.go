package server

import (
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gspotify/cache"
	"gspotify/logger"
	"gspotify/model"
)

// playEarningsRate is the per-play payout estimate shown on the artist
// dashboard, in dollars.
const playEarningsRate = 0.003

// defaultDurationSeconds is used when the uploader does not supply a duration.
const defaultDurationSeconds = 180

func (h *APIHandler) allowedAudioExt(ext string) bool {
	ext = strings.ToLower(ext)
	for _, allowed := range h.cfg.AllowedAudioExts {
		if ext == allowed {
			return true
		}
	}
	return false
}

// UploadSongHandler accepts a multipart audio upload. The song enters the
// catalog as pending_approval and stays invisible to listeners until an
// admin approves it.
func (h *APIHandler) UploadSongHandler(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())

	maxBytes := int64(h.cfg.MaxUploadSizeMB) << 20
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		respondError(w, http.StatusRequestEntityTooLarge, "upload too large or malformed")
		return
	}

	title := strings.TrimSpace(r.FormValue("title"))
	if title == "" {
		respondError(w, http.StatusBadRequest, "title is required")
		return
	}

	genreID, err := strconv.ParseInt(r.FormValue("genre_id"), 10, 64)
	if err != nil || genreID <= 0 {
		respondError(w, http.StatusBadRequest, "valid genre_id is required")
		return
	}
	genre, err := h.genreRepo.GetByID(r.Context(), genreID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to upload song")
		return
	}
	if genre == nil {
		respondError(w, http.StatusBadRequest, "genre does not exist")
		return
	}

	var albumID *int64
	if v := r.FormValue("album_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil || id <= 0 {
			respondError(w, http.StatusBadRequest, "invalid album_id")
			return
		}
		album, err := h.albumRepo.GetByIDAndArtist(r.Context(), id, claims.UserID)
		if err != nil {
			respondError(w, http.StatusInternalServerError, "failed to upload song")
			return
		}
		if album == nil {
			respondError(w, http.StatusBadRequest, "album does not exist or is not yours")
			return
		}
		albumID = &id
	}

	duration := defaultDurationSeconds
	if v := r.FormValue("duration_seconds"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			duration = n
		}
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "audio file is required")
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !h.allowedAudioExt(ext) {
		respondError(w, http.StatusBadRequest, "unsupported audio format")
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		logger.Error("Failed to read upload", logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "failed to upload song")
		return
	}

	identifier, err := h.songStore.Save(data, ext)
	if err != nil {
		logger.Error("Failed to store upload", logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "failed to upload song")
		return
	}

	song := &model.Song{
		Title:           title,
		ArtistID:        claims.UserID,
		AlbumID:         albumID,
		GenreID:         genreID,
		DurationSeconds: duration,
		FilePath:        identifier,
		Status:          model.SongStatusPending,
	}
	if _, err := h.songRepo.Create(r.Context(), song); err != nil {
		// Roll back the stored blob so it does not leak.
		h.songStore.Delete(identifier)
		logger.Error("Failed to create song", logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "failed to upload song")
		return
	}

	logger.Info("Song uploaded",
		logger.Int64("songId", song.ID),
		logger.Int64("artistId", claims.UserID),
		logger.String("identifier", identifier),
		logger.Int("bytes", len(data)),
	)
	respondJSON(w, http.StatusCreated, song)
}

// ListMySongsHandler lists the artist's own songs, all statuses included.
func (h *APIHandler) ListMySongsHandler(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())
	skip, limit := pagination(r)

	songs, err := h.songRepo.ListByArtist(r.Context(), claims.UserID, skip, limit)
	if err != nil {
		logger.Error("Failed to list artist songs", logger.Int64("artistId", claims.UserID), logger.ErrorField(err))
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

// DeleteMySongHandler removes one of the artist's own songs, blob included.
func (h *APIHandler) DeleteMySongHandler(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())
	songID, ok := pathID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid song id")
		return
	}

	song, err := h.songRepo.GetByIDAndArtist(r.Context(), songID, claims.UserID)
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

	logger.Info("Song deleted by artist",
		logger.Int64("songId", songID),
		logger.Int64("artistId", claims.UserID),
	)
	respondJSON(w, http.StatusOK, map[string]string{"message": "song deleted"})
}

// UpsertLyricsHandler sets or replaces the lyrics of the artist's own song.
func (h *APIHandler) UpsertLyricsHandler(w http.ResponseWriter, r *http.Request) {
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
	if strings.TrimSpace(req.Text) == "" {
		respondError(w, http.StatusBadRequest, "lyrics text is required")
		return
	}

	song, err := h.songRepo.GetByIDAndArtist(r.Context(), songID, claims.UserID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to save lyrics")
		return
	}
	if song == nil {
		respondError(w, http.StatusNotFound, "song not found")
		return
	}

	lyrics, err := h.lyricsRepo.Upsert(r.Context(), songID, req.Text)
	if err != nil {
		logger.Error("Failed to save lyrics", logger.Int64("songId", songID), logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "failed to save lyrics")
		return
	}
	cache.InvalidateSongDetail(r.Context(), songID)
	respondJSON(w, http.StatusOK, lyrics)
}

// CreateAlbumHandler creates an album owned by the artist.
func (h *APIHandler) CreateAlbumHandler(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())

	var req struct {
		Title       string `json:"title"`
		ReleaseDate string `json:"release_date"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		respondError(w, http.StatusBadRequest, "title is required")
		return
	}

	releaseDate := time.Now()
	if req.ReleaseDate != "" {
		parsed, err := time.Parse("2006-01-02", req.ReleaseDate)
		if err != nil {
			respondError(w, http.StatusBadRequest, "release_date must be YYYY-MM-DD")
			return
		}
		releaseDate = parsed
	}

	album := &model.Album{Title: req.Title, ArtistID: claims.UserID, ReleaseDate: releaseDate}
	if _, err := h.albumRepo.Create(r.Context(), album); err != nil {
		logger.Error("Failed to create album", logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "failed to create album")
		return
	}
	respondJSON(w, http.StatusCreated, album)
}

// ListMyAlbumsHandler lists the artist's albums.
func (h *APIHandler) ListMyAlbumsHandler(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())
	skip, limit := pagination(r)

	albums, err := h.albumRepo.List(r.Context(), &claims.UserID, skip, limit)
	if err != nil {
		logger.Error("Failed to list albums", logger.Int64("artistId", claims.UserID), logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "failed to list albums")
		return
	}
	respondJSON(w, http.StatusOK, albums)
}

// UpdateAlbumHandler edits one of the artist's own albums.
func (h *APIHandler) UpdateAlbumHandler(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())
	albumID, ok := pathID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid album id")
		return
	}

	album, err := h.albumRepo.GetByIDAndArtist(r.Context(), albumID, claims.UserID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to update album")
		return
	}
	if album == nil {
		respondError(w, http.StatusNotFound, "album not found")
		return
	}

	var req struct {
		Title       *string `json:"title"`
		ReleaseDate *string `json:"release_date"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			respondError(w, http.StatusBadRequest, "title cannot be empty")
			return
		}
		album.Title = title
	}
	if req.ReleaseDate != nil {
		parsed, err := time.Parse("2006-01-02", *req.ReleaseDate)
		if err != nil {
			respondError(w, http.StatusBadRequest, "release_date must be YYYY-MM-DD")
			return
		}
		album.ReleaseDate = parsed
	}

	if err := h.albumRepo.Update(r.Context(), album); err != nil {
		logger.Error("Failed to update album", logger.Int64("albumId", albumID), logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "failed to update album")
		return
	}
	respondJSON(w, http.StatusOK, album)
}

// UploadAlbumCoverHandler attaches a cover image to one of the artist's albums.
func (h *APIHandler) UploadAlbumCoverHandler(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())
	albumID, ok := pathID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid album id")
		return
	}

	album, err := h.albumRepo.GetByIDAndArtist(r.Context(), albumID, claims.UserID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to upload cover")
		return
	}
	if album == nil {
		respondError(w, http.StatusNotFound, "album not found")
		return
	}

	maxBytes := int64(h.cfg.MaxUploadSizeMB) << 20
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		respondError(w, http.StatusRequestEntityTooLarge, "upload too large or malformed")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "cover file is required")
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if ext != ".jpg" && ext != ".jpeg" && ext != ".png" {
		respondError(w, http.StatusBadRequest, "cover must be a jpg or png image")
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to upload cover")
		return
	}

	identifier, err := h.coverStore.Save(data, ext)
	if err != nil {
		logger.Error("Failed to store cover", logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "failed to upload cover")
		return
	}

	// Replace the old cover blob once the new one is referenced.
	old := album.CoverArtURL
	album.CoverArtURL = identifier
	if err := h.albumRepo.Update(r.Context(), album); err != nil {
		h.coverStore.Delete(identifier)
		respondError(w, http.StatusInternalServerError, "failed to upload cover")
		return
	}
	if old != "" {
		h.coverStore.Delete(old)
	}

	respondJSON(w, http.StatusOK, album)
}

// DeleteAlbumHandler removes an empty album owned by the artist.
func (h *APIHandler) DeleteAlbumHandler(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())
	albumID, ok := pathID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid album id")
		return
	}

	album, err := h.albumRepo.GetByIDAndArtist(r.Context(), albumID, claims.UserID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to delete album")
		return
	}
	if album == nil {
		respondError(w, http.StatusNotFound, "album not found")
		return
	}

	count, err := h.songRepo.CountByAlbum(r.Context(), albumID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to delete album")
		return
	}
	if count > 0 {
		respondError(w, http.StatusConflict, "album still has songs")
		return
	}

	if err := h.albumRepo.Delete(r.Context(), albumID); err != nil {
		logger.Error("Failed to delete album", logger.Int64("albumId", albumID), logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "failed to delete album")
		return
	}
	if album.CoverArtURL != "" {
		h.coverStore.Delete(album.CoverArtURL)
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "album deleted"})
}

// ArtistDashboardHandler summarizes the artist's catalog: per-song plays,
// totals and an earnings estimate.
func (h *APIHandler) ArtistDashboardHandler(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())

	songs, err := h.songRepo.ListByArtist(r.Context(), claims.UserID, 0, maxPageLimit)
	if err != nil {
		logger.Error("Failed to build dashboard", logger.Int64("artistId", claims.UserID), logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "failed to build dashboard")
		return
	}

	var totalPlays int64
	byStatus := map[string]int{}
	perSong := make([]map[string]interface{}, 0, len(songs))
	for _, s := range songs {
		totalPlays += s.PlayCount
		byStatus[s.Status]++
		perSong = append(perSong, map[string]interface{}{
			"id":         s.ID,
			"title":      s.Title,
			"status":     s.Status,
			"play_count": s.PlayCount,
		})
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"total_songs":        len(songs),
		"songs_by_status":    byStatus,
		"total_plays":        totalPlays,
		"estimated_earnings": float64(totalPlays) * playEarningsRate,
		"songs":              perSong,
	})
}

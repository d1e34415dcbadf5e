package repository

import (
	"context"
	"errors"
	"fmt"

	"gspotify/model"

	"gorm.io/gorm"
)

// PlaylistRepository defines the interface for playlist data operations.
type PlaylistRepository interface {
	Create(ctx context.Context, playlist *model.Playlist) (int64, error)
	GetByID(ctx context.Context, id int64) (*model.Playlist, error)
	GetByIDAndOwner(ctx context.Context, id, ownerID int64) (*model.Playlist, error)
	List(ctx context.Context, skip, limit int) ([]model.Playlist, error)
	ListByOwner(ctx context.Context, ownerID int64, skip, limit int) ([]model.Playlist, error)
	Search(ctx context.Context, q string, skip, limit int) ([]model.Playlist, error)
	Update(ctx context.Context, playlist *model.Playlist) error
	// Delete removes the playlist and its membership rows in one transaction.
	Delete(ctx context.Context, id int64) error
	AddSong(ctx context.Context, playlistID, songID int64) error
	RemoveSong(ctx context.Context, playlistID, songID int64) error
	HasSong(ctx context.Context, playlistID, songID int64) (bool, error)
	ListSongs(ctx context.Context, playlistID int64) ([]model.Song, error)
	CountSongs(ctx context.Context, playlistID int64) (int64, error)
}

// gormPlaylistRepository implements PlaylistRepository on GORM.
type gormPlaylistRepository struct {
	db *gorm.DB
}

// NewGormPlaylistRepository creates a new gormPlaylistRepository.
func NewGormPlaylistRepository(db *gorm.DB) PlaylistRepository {
	return &gormPlaylistRepository{db: db}
}

// Create adds a new playlist.
func (r *gormPlaylistRepository) Create(ctx context.Context, playlist *model.Playlist) (int64, error) {
	if err := r.db.WithContext(ctx).Create(playlist).Error; err != nil {
		return 0, fmt.Errorf("failed to create playlist: %w", err)
	}
	return playlist.ID, nil
}

// GetByID retrieves a playlist by ID. Returns (nil, nil) when not found.
func (r *gormPlaylistRepository) GetByID(ctx context.Context, id int64) (*model.Playlist, error) {
	playlist := &model.Playlist{}
	err := r.db.WithContext(ctx).First(playlist, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query playlist by ID %d: %w", id, err)
	}
	return playlist, nil
}

// GetByIDAndOwner retrieves a playlist owned by the given user.
func (r *gormPlaylistRepository) GetByIDAndOwner(ctx context.Context, id, ownerID int64) (*model.Playlist, error) {
	playlist := &model.Playlist{}
	err := r.db.WithContext(ctx).Where("id = ? AND owner_id = ?", id, ownerID).First(playlist).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query playlist %d for owner %d: %w", id, ownerID, err)
	}
	return playlist, nil
}

// List returns playlists with pagination.
func (r *gormPlaylistRepository) List(ctx context.Context, skip, limit int) ([]model.Playlist, error) {
	var playlists []model.Playlist
	err := r.db.WithContext(ctx).Order("id").Offset(skip).Limit(limit).Find(&playlists).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list playlists: %w", err)
	}
	return playlists, nil
}

// ListByOwner returns the user's playlists.
func (r *gormPlaylistRepository) ListByOwner(ctx context.Context, ownerID int64, skip, limit int) ([]model.Playlist, error) {
	var playlists []model.Playlist
	err := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).Order("id").Offset(skip).Limit(limit).Find(&playlists).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list playlists for owner %d: %w", ownerID, err)
	}
	return playlists, nil
}

// Search returns playlists whose name or description matches q.
func (r *gormPlaylistRepository) Search(ctx context.Context, q string, skip, limit int) ([]model.Playlist, error) {
	var playlists []model.Playlist
	pattern := "%" + q + "%"
	err := r.db.WithContext(ctx).
		Where("name LIKE ? OR description LIKE ?", pattern, pattern).
		Offset(skip).Limit(limit).
		Find(&playlists).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search playlists: %w", err)
	}
	return playlists, nil
}

// Update saves changed playlist fields.
func (r *gormPlaylistRepository) Update(ctx context.Context, playlist *model.Playlist) error {
	if err := r.db.WithContext(ctx).Save(playlist).Error; err != nil {
		return fmt.Errorf("failed to update playlist %d: %w", playlist.ID, err)
	}
	return nil
}

// Delete removes the playlist together with its membership rows.
func (r *gormPlaylistRepository) Delete(ctx context.Context, id int64) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("playlist_id = ?", id).Delete(&model.PlaylistSong{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Playlist{}, id).Error
	})
	if err != nil {
		return fmt.Errorf("failed to delete playlist %d: %w", id, err)
	}
	return nil
}

// AddSong inserts a membership row.
func (r *gormPlaylistRepository) AddSong(ctx context.Context, playlistID, songID int64) error {
	entry := &model.PlaylistSong{PlaylistID: playlistID, SongID: songID}
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("failed to add song %d to playlist %d: %w", songID, playlistID, err)
	}
	return nil
}

// RemoveSong deletes a membership row.
func (r *gormPlaylistRepository) RemoveSong(ctx context.Context, playlistID, songID int64) error {
	err := r.db.WithContext(ctx).
		Where("playlist_id = ? AND song_id = ?", playlistID, songID).
		Delete(&model.PlaylistSong{}).Error
	if err != nil {
		return fmt.Errorf("failed to remove song %d from playlist %d: %w", songID, playlistID, err)
	}
	return nil
}

// HasSong reports whether the song is already in the playlist.
func (r *gormPlaylistRepository) HasSong(ctx context.Context, playlistID, songID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.PlaylistSong{}).
		Where("playlist_id = ? AND song_id = ?", playlistID, songID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check playlist %d membership: %w", playlistID, err)
	}
	return count > 0, nil
}

// ListSongs returns the songs in the playlist in insertion order.
func (r *gormPlaylistRepository) ListSongs(ctx context.Context, playlistID int64) ([]model.Song, error) {
	var songs []model.Song
	err := r.db.WithContext(ctx).Model(&model.Song{}).
		Joins("JOIN playlist_songs ON playlist_songs.song_id = songs.id").
		Where("playlist_songs.playlist_id = ?", playlistID).
		Order("playlist_songs.added_at").
		Find(&songs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list songs of playlist %d: %w", playlistID, err)
	}
	return songs, nil
}

// CountSongs returns the playlist's membership count.
func (r *gormPlaylistRepository) CountSongs(ctx context.Context, playlistID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.PlaylistSong{}).
		Where("playlist_id = ?", playlistID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count songs of playlist %d: %w", playlistID, err)
	}
	return count, nil
}

package repository

import (
	"context"
	"errors"
	"fmt"

	"gspotify/model"

	"gorm.io/gorm"
)

// LyricsRepository defines the interface for lyrics data operations.
type LyricsRepository interface {
	GetBySong(ctx context.Context, songID int64) (*model.Lyrics, error)
	// Upsert creates the lyrics row for the song or replaces its text.
	Upsert(ctx context.Context, songID int64, text string) (*model.Lyrics, error)
}

// gormLyricsRepository implements LyricsRepository on GORM.
type gormLyricsRepository struct {
	db *gorm.DB
}

// NewGormLyricsRepository creates a new gormLyricsRepository.
func NewGormLyricsRepository(db *gorm.DB) LyricsRepository {
	return &gormLyricsRepository{db: db}
}

// GetBySong retrieves the lyrics for a song. Returns (nil, nil) when not found.
func (r *gormLyricsRepository) GetBySong(ctx context.Context, songID int64) (*model.Lyrics, error) {
	lyrics := &model.Lyrics{}
	err := r.db.WithContext(ctx).Where("song_id = ?", songID).First(lyrics).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query lyrics of song %d: %w", songID, err)
	}
	return lyrics, nil
}

// Upsert creates or updates the single lyrics row for the song.
func (r *gormLyricsRepository) Upsert(ctx context.Context, songID int64, text string) (*model.Lyrics, error) {
	existing, err := r.GetBySong(ctx, songID)
	if err != nil {
		return nil, err
	}

	if existing != nil {
		existing.Text = text
		if err := r.db.WithContext(ctx).Save(existing).Error; err != nil {
			return nil, fmt.Errorf("failed to update lyrics of song %d: %w", songID, err)
		}
		return existing, nil
	}

	lyrics := &model.Lyrics{SongID: songID, Text: text}
	if err := r.db.WithContext(ctx).Create(lyrics).Error; err != nil {
		return nil, fmt.Errorf("failed to create lyrics of song %d: %w", songID, err)
	}
	return lyrics, nil
}

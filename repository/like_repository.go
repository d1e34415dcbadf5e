package repository

import (
	"context"
	"fmt"

	"gspotify/model"

	"gorm.io/gorm"
)

// LikeRepository defines the interface for liked-song data operations.
type LikeRepository interface {
	// Like records the like. Returns ErrDuplicate when it already exists.
	Like(ctx context.Context, userID, songID int64) error
	// Unlike removes the like; reports whether a row was actually deleted.
	Unlike(ctx context.Context, userID, songID int64) (bool, error)
	ListSongs(ctx context.Context, userID int64, skip, limit int) ([]model.Song, error)
}

// gormLikeRepository implements LikeRepository on GORM.
type gormLikeRepository struct {
	db *gorm.DB
}

// NewGormLikeRepository creates a new gormLikeRepository.
func NewGormLikeRepository(db *gorm.DB) LikeRepository {
	return &gormLikeRepository{db: db}
}

// Like inserts the like row; the unique index makes repeats ErrDuplicate.
func (r *gormLikeRepository) Like(ctx context.Context, userID, songID int64) error {
	like := &model.LikedSong{UserID: userID, SongID: songID}
	if err := r.db.WithContext(ctx).Create(like).Error; err != nil {
		if isDuplicateKey(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to like song %d for user %d: %w", songID, userID, err)
	}
	return nil
}

// Unlike removes the like row if present.
func (r *gormLikeRepository) Unlike(ctx context.Context, userID, songID int64) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND song_id = ?", userID, songID).
		Delete(&model.LikedSong{})
	if res.Error != nil {
		return false, fmt.Errorf("failed to unlike song %d for user %d: %w", songID, userID, res.Error)
	}
	return res.RowsAffected > 0, nil
}

// ListSongs returns the user's liked songs, most recently liked first.
func (r *gormLikeRepository) ListSongs(ctx context.Context, userID int64, skip, limit int) ([]model.Song, error) {
	var songs []model.Song
	err := r.db.WithContext(ctx).Model(&model.Song{}).
		Joins("JOIN liked_songs ON liked_songs.song_id = songs.id").
		Where("liked_songs.user_id = ?", userID).
		Order("liked_songs.liked_at DESC").
		Offset(skip).Limit(limit).
		Find(&songs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list liked songs of user %d: %w", userID, err)
	}
	return songs, nil
}

package repository

import (
	"context"
	"errors"
	"fmt"

	"gspotify/model"

	"gorm.io/gorm"
)

// CommentRepository defines the interface for comment data operations.
type CommentRepository interface {
	Create(ctx context.Context, comment *model.Comment) (int64, error)
	GetByID(ctx context.Context, id int64) (*model.Comment, error)
	ListBySong(ctx context.Context, songID int64, skip, limit int) ([]model.Comment, error)
	Delete(ctx context.Context, id int64) error
}

// gormCommentRepository implements CommentRepository on GORM.
type gormCommentRepository struct {
	db *gorm.DB
}

// NewGormCommentRepository creates a new gormCommentRepository.
func NewGormCommentRepository(db *gorm.DB) CommentRepository {
	return &gormCommentRepository{db: db}
}

// Create adds a comment to a song.
func (r *gormCommentRepository) Create(ctx context.Context, comment *model.Comment) (int64, error) {
	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		return 0, fmt.Errorf("failed to create comment: %w", err)
	}
	return comment.ID, nil
}

// GetByID retrieves a comment by ID. Returns (nil, nil) when not found.
func (r *gormCommentRepository) GetByID(ctx context.Context, id int64) (*model.Comment, error) {
	comment := &model.Comment{}
	err := r.db.WithContext(ctx).First(comment, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query comment by ID %d: %w", id, err)
	}
	return comment, nil
}

// ListBySong returns the song's comments, oldest first.
func (r *gormCommentRepository) ListBySong(ctx context.Context, songID int64, skip, limit int) ([]model.Comment, error) {
	var comments []model.Comment
	err := r.db.WithContext(ctx).Where("song_id = ?", songID).
		Order("created_at").Offset(skip).Limit(limit).
		Find(&comments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list comments of song %d: %w", songID, err)
	}
	return comments, nil
}

// Delete removes a comment.
func (r *gormCommentRepository) Delete(ctx context.Context, id int64) error {
	if err := r.db.WithContext(ctx).Delete(&model.Comment{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete comment %d: %w", id, err)
	}
	return nil
}

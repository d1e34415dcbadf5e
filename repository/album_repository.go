package repository

import (
	"context"
	"errors"
	"fmt"

	"gspotify/model"

	"gorm.io/gorm"
)

// AlbumRepository defines the interface for album data operations.
type AlbumRepository interface {
	Create(ctx context.Context, album *model.Album) (int64, error)
	GetByID(ctx context.Context, id int64) (*model.Album, error)
	GetByIDAndArtist(ctx context.Context, id, artistID int64) (*model.Album, error)
	List(ctx context.Context, artistID *int64, skip, limit int) ([]model.Album, error)
	Update(ctx context.Context, album *model.Album) error
	Delete(ctx context.Context, id int64) error
}

// gormAlbumRepository implements AlbumRepository on GORM.
type gormAlbumRepository struct {
	db *gorm.DB
}

// NewGormAlbumRepository creates a new gormAlbumRepository.
func NewGormAlbumRepository(db *gorm.DB) AlbumRepository {
	return &gormAlbumRepository{db: db}
}

// Create adds a new album.
func (r *gormAlbumRepository) Create(ctx context.Context, album *model.Album) (int64, error) {
	if err := r.db.WithContext(ctx).Create(album).Error; err != nil {
		return 0, fmt.Errorf("failed to create album: %w", err)
	}
	return album.ID, nil
}

// GetByID retrieves an album by ID. Returns (nil, nil) when not found.
func (r *gormAlbumRepository) GetByID(ctx context.Context, id int64) (*model.Album, error) {
	album := &model.Album{}
	err := r.db.WithContext(ctx).First(album, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query album by ID %d: %w", id, err)
	}
	return album, nil
}

// GetByIDAndArtist retrieves an album owned by the given artist.
func (r *gormAlbumRepository) GetByIDAndArtist(ctx context.Context, id, artistID int64) (*model.Album, error) {
	album := &model.Album{}
	err := r.db.WithContext(ctx).Where("id = ? AND artist_id = ?", id, artistID).First(album).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query album %d for artist %d: %w", id, artistID, err)
	}
	return album, nil
}

// List returns albums, optionally filtered by artist.
func (r *gormAlbumRepository) List(ctx context.Context, artistID *int64, skip, limit int) ([]model.Album, error) {
	query := r.db.WithContext(ctx)
	if artistID != nil {
		query = query.Where("artist_id = ?", *artistID)
	}

	var albums []model.Album
	if err := query.Order("id").Offset(skip).Limit(limit).Find(&albums).Error; err != nil {
		return nil, fmt.Errorf("failed to list albums: %w", err)
	}
	return albums, nil
}

// Update saves changed album fields.
func (r *gormAlbumRepository) Update(ctx context.Context, album *model.Album) error {
	if err := r.db.WithContext(ctx).Save(album).Error; err != nil {
		return fmt.Errorf("failed to update album %d: %w", album.ID, err)
	}
	return nil
}

// Delete removes an album.
func (r *gormAlbumRepository) Delete(ctx context.Context, id int64) error {
	if err := r.db.WithContext(ctx).Delete(&model.Album{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete album %d: %w", id, err)
	}
	return nil
}

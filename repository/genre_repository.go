package repository

import (
	"context"
	"errors"
	"fmt"

	"gspotify/model"

	"gorm.io/gorm"
)

// GenreRepository defines the interface for genre data operations.
type GenreRepository interface {
	Create(ctx context.Context, genre *model.Genre) (int64, error)
	GetByID(ctx context.Context, id int64) (*model.Genre, error)
	GetByName(ctx context.Context, name string) (*model.Genre, error)
	List(ctx context.Context) ([]model.Genre, error)
	UpdateName(ctx context.Context, id int64, name string) error
	Delete(ctx context.Context, id int64) error
}

// gormGenreRepository implements GenreRepository on GORM.
type gormGenreRepository struct {
	db *gorm.DB
}

// NewGormGenreRepository creates a new gormGenreRepository.
func NewGormGenreRepository(db *gorm.DB) GenreRepository {
	return &gormGenreRepository{db: db}
}

// Create adds a new genre. Returns ErrDuplicate when the name is taken.
func (r *gormGenreRepository) Create(ctx context.Context, genre *model.Genre) (int64, error) {
	if err := r.db.WithContext(ctx).Create(genre).Error; err != nil {
		if isDuplicateKey(err) {
			return 0, ErrDuplicate
		}
		return 0, fmt.Errorf("failed to create genre: %w", err)
	}
	return genre.ID, nil
}

// GetByID retrieves a genre by ID. Returns (nil, nil) when not found.
func (r *gormGenreRepository) GetByID(ctx context.Context, id int64) (*model.Genre, error) {
	genre := &model.Genre{}
	err := r.db.WithContext(ctx).First(genre, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query genre by ID %d: %w", id, err)
	}
	return genre, nil
}

// GetByName retrieves a genre by name. Returns (nil, nil) when not found.
func (r *gormGenreRepository) GetByName(ctx context.Context, name string) (*model.Genre, error) {
	genre := &model.Genre{}
	err := r.db.WithContext(ctx).Where("name = ?", name).First(genre).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query genre by name %s: %w", name, err)
	}
	return genre, nil
}

// List returns all genres.
func (r *gormGenreRepository) List(ctx context.Context) ([]model.Genre, error) {
	var genres []model.Genre
	if err := r.db.WithContext(ctx).Order("name").Find(&genres).Error; err != nil {
		return nil, fmt.Errorf("failed to list genres: %w", err)
	}
	return genres, nil
}

// UpdateName renames a genre. Returns ErrDuplicate when the name is taken.
func (r *gormGenreRepository) UpdateName(ctx context.Context, id int64, name string) error {
	err := r.db.WithContext(ctx).Model(&model.Genre{}).Where("id = ?", id).Update("name", name).Error
	if err != nil {
		if isDuplicateKey(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to rename genre %d: %w", id, err)
	}
	return nil
}

// Delete removes a genre. The handler checks song references first.
func (r *gormGenreRepository) Delete(ctx context.Context, id int64) error {
	if err := r.db.WithContext(ctx).Delete(&model.Genre{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete genre %d: %w", id, err)
	}
	return nil
}

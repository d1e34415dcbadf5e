package repository

import (
	"context"
	"errors"
	"fmt"

	"gspotify/model"

	"gorm.io/gorm"
)

// UserRepository defines the interface for user data operations.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) (int64, error)
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	List(ctx context.Context, skip, limit int) ([]model.User, error)
	ListByRole(ctx context.Context, role string, skip, limit int) ([]model.User, error)
	SearchArtists(ctx context.Context, q string, skip, limit int) ([]model.User, error)
	UpdateEmail(ctx context.Context, id int64, email string) error
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	UpdateRole(ctx context.Context, id int64, role string) error
	SetActive(ctx context.Context, id int64, active bool) error
	UpdateNotificationSettings(ctx context.Context, id int64, settings string) error
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)
	CountByRole(ctx context.Context, role string) (int64, error)
	Recent(ctx context.Context, n int) ([]model.User, error)
}

// gormUserRepository implements UserRepository on GORM.
type gormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new gormUserRepository.
func NewGormUserRepository(db *gorm.DB) UserRepository {
	return &gormUserRepository{db: db}
}

// Create adds a new user. Returns ErrDuplicate when the username or email is taken.
func (r *gormUserRepository) Create(ctx context.Context, user *model.User) (int64, error) {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if isDuplicateKey(err) {
			return 0, ErrDuplicate
		}
		return 0, fmt.Errorf("failed to create user: %w", err)
	}
	return user.ID, nil
}

// GetByID retrieves a user by ID. Returns (nil, nil) when not found.
func (r *gormUserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	user := &model.User{}
	err := r.db.WithContext(ctx).First(user, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query user by ID %d: %w", id, err)
	}
	return user, nil
}

// GetByUsername retrieves a user by username. Returns (nil, nil) when not found.
func (r *gormUserRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	user := &model.User{}
	err := r.db.WithContext(ctx).Where("username = ?", username).First(user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query user by username %s: %w", username, err)
	}
	return user, nil
}

// GetByEmail retrieves a user by email. Returns (nil, nil) when not found.
func (r *gormUserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	user := &model.User{}
	err := r.db.WithContext(ctx).Where("email = ?", email).First(user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query user by email %s: %w", email, err)
	}
	return user, nil
}

// List returns users ordered by ID with pagination.
func (r *gormUserRepository) List(ctx context.Context, skip, limit int) ([]model.User, error) {
	var users []model.User
	err := r.db.WithContext(ctx).Order("id").Offset(skip).Limit(limit).Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// ListByRole returns users with the given role.
func (r *gormUserRepository) ListByRole(ctx context.Context, role string, skip, limit int) ([]model.User, error) {
	var users []model.User
	err := r.db.WithContext(ctx).Where("role = ?", role).Order("id").Offset(skip).Limit(limit).Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list users by role %s: %w", role, err)
	}
	return users, nil
}

// SearchArtists returns artist accounts whose username or email matches q.
func (r *gormUserRepository) SearchArtists(ctx context.Context, q string, skip, limit int) ([]model.User, error) {
	var users []model.User
	pattern := "%" + q + "%"
	err := r.db.WithContext(ctx).
		Where("role = ?", model.RoleArtist).
		Where("username LIKE ? OR email LIKE ?", pattern, pattern).
		Offset(skip).Limit(limit).
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search artists: %w", err)
	}
	return users, nil
}

// UpdateEmail changes a user's email. Returns ErrDuplicate when taken.
func (r *gormUserRepository) UpdateEmail(ctx context.Context, id int64, email string) error {
	err := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Update("email", email).Error
	if err != nil {
		if isDuplicateKey(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to update email for user %d: %w", id, err)
	}
	return nil
}

// UpdatePassword replaces a user's password hash.
func (r *gormUserRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	err := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Update("password_hash", passwordHash).Error
	if err != nil {
		return fmt.Errorf("failed to update password for user %d: %w", id, err)
	}
	return nil
}

// UpdateRole changes a user's role.
func (r *gormUserRepository) UpdateRole(ctx context.Context, id int64, role string) error {
	err := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Update("role", role).Error
	if err != nil {
		return fmt.Errorf("failed to update role for user %d: %w", id, err)
	}
	return nil
}

// SetActive enables or disables a user account.
func (r *gormUserRepository) SetActive(ctx context.Context, id int64, active bool) error {
	err := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Update("is_active", active).Error
	if err != nil {
		return fmt.Errorf("failed to set active=%t for user %d: %w", active, id, err)
	}
	return nil
}

// UpdateNotificationSettings stores the serialized notification settings.
func (r *gormUserRepository) UpdateNotificationSettings(ctx context.Context, id int64, settings string) error {
	err := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Update("notification_settings", settings).Error
	if err != nil {
		return fmt.Errorf("failed to update notification settings for user %d: %w", id, err)
	}
	return nil
}

// Delete removes a user account.
func (r *gormUserRepository) Delete(ctx context.Context, id int64) error {
	err := r.db.WithContext(ctx).Delete(&model.User{}, id).Error
	if err != nil {
		return fmt.Errorf("failed to delete user %d: %w", id, err)
	}
	return nil
}

// Count returns the total number of users.
func (r *gormUserRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.User{}).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}

// CountByRole returns the number of users with the given role.
func (r *gormUserRepository) CountByRole(ctx context.Context, role string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.User{}).Where("role = ?", role).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count users by role %s: %w", role, err)
	}
	return count, nil
}

// Recent returns the n most recently created users.
func (r *gormUserRepository) Recent(ctx context.Context, n int) ([]model.User, error) {
	var users []model.User
	err := r.db.WithContext(ctx).Order("created_at DESC").Limit(n).Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list recent users: %w", err)
	}
	return users, nil
}

package model

import "time"

// User roles.
const (
	RoleUser   = "user"
	RoleArtist = "artist"
	RoleAdmin  = "admin"
)

// ValidRole reports whether s is one of the known user roles.
func ValidRole(s string) bool {
	switch s {
	case RoleUser, RoleArtist, RoleAdmin:
		return true
	}
	return false
}

// User represents an account in the system.
type User struct {
	ID            int64     `json:"id" gorm:"primaryKey"`
	Username      string    `json:"username" gorm:"size:100;not null;uniqueIndex"`
	Email         string    `json:"email" gorm:"size:255;not null;uniqueIndex"`
	PasswordHash  string    `json:"-" gorm:"size:255;not null"`
	Role          string    `json:"role" gorm:"size:16;not null;default:user"`
	IsActive      bool      `json:"is_active" gorm:"not null;default:true"`
	AgreedToTerms bool      `json:"agreed_to_terms" gorm:"not null;default:false"`
	// NotificationSettings is a JSON document; see server.NotificationSettings
	// for the shape accepted at the API boundary.
	NotificationSettings string    `json:"-" gorm:"type:text"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// ArtistProfile holds the public profile of an artist account.
type ArtistProfile struct {
	ID              int64  `json:"id" gorm:"primaryKey"`
	UserID          int64  `json:"user_id" gorm:"not null;uniqueIndex"`
	Bio             string `json:"bio" gorm:"type:text"`
	ProfileImageURL string `json:"profile_image_url" gorm:"size:767"`
}

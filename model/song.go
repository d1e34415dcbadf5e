package model

import "time"

// Song moderation states.
const (
	SongStatusPending  = "pending_approval"
	SongStatusApproved = "approved"
	SongStatusRejected = "rejected"
)

// Song represents a track in the catalog. FilePath is the opaque stored-file
// identifier in the file store, not a user-supplied name.
type Song struct {
	ID              int64     `json:"id" gorm:"primaryKey"`
	Title           string    `json:"title" gorm:"size:255;not null;index"`
	ArtistID        int64     `json:"artist_id" gorm:"not null;index"`
	AlbumID         *int64    `json:"album_id" gorm:"index"`
	GenreID         int64     `json:"genre_id" gorm:"not null;index"`
	DurationSeconds int       `json:"duration_seconds" gorm:"not null"`
	FilePath        string    `json:"file_url" gorm:"size:767;not null"`
	Status          string    `json:"status" gorm:"size:32;not null;default:pending_approval;index"`
	PlayCount       int64     `json:"play_count" gorm:"not null;default:0"`
	ReleaseDate     time.Time `json:"release_date" gorm:"autoCreateTime"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// SongWithDetails is a Song enriched with names resolved from its relations,
// used in list/detail responses.
type SongWithDetails struct {
	Song
	ArtistName    string `json:"artist_name,omitempty"`
	GenreName     string `json:"genre_name,omitempty"`
	AlbumTitle    string `json:"album_title,omitempty"`
	CoverImageURL string `json:"cover_image_url,omitempty"`
}

// Lyrics holds the lyrics text for a song (at most one row per song).
type Lyrics struct {
	ID     int64  `json:"id" gorm:"primaryKey"`
	SongID int64  `json:"song_id" gorm:"not null;uniqueIndex"`
	Text   string `json:"text" gorm:"type:text;not null"`
}

// Comment is a user comment on a song.
type Comment struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	Text      string    `json:"text" gorm:"type:text;not null"`
	UserID    int64     `json:"user_id" gorm:"not null;index"`
	SongID    int64     `json:"song_id" gorm:"not null;index"`
	CreatedAt time.Time `json:"created_at"`
}

// LikedSong records that a user liked a song. A user can like a song once.
type LikedSong struct {
	ID      int64     `json:"id" gorm:"primaryKey"`
	UserID  int64     `json:"user_id" gorm:"not null;uniqueIndex:uniq_user_song_like"`
	SongID  int64     `json:"song_id" gorm:"not null;uniqueIndex:uniq_user_song_like"`
	LikedAt time.Time `json:"liked_at" gorm:"autoCreateTime"`
}

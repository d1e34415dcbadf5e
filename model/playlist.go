package model

import "time"

// Playlist is a user-owned, ordered collection of songs.
type Playlist struct {
	ID          int64     `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"size:255;not null;index"`
	OwnerID     int64     `json:"owner_id" gorm:"not null;index"`
	Description string    `json:"description" gorm:"type:text"`
	CreatedAt   time.Time `json:"created_at"`
}

// PlaylistWithDetails is a Playlist enriched with membership count and owner name.
type PlaylistWithDetails struct {
	Playlist
	SongCount int64  `json:"song_count"`
	OwnerName string `json:"owner_name,omitempty"`
}

// PlaylistSong is the membership row linking a song into a playlist.
type PlaylistSong struct {
	ID         int64     `json:"id" gorm:"primaryKey"`
	PlaylistID int64     `json:"playlist_id" gorm:"not null;index"`
	SongID     int64     `json:"song_id" gorm:"not null;index"`
	AddedAt    time.Time `json:"added_at" gorm:"autoCreateTime"`
}

package model

import "time"

// Album represents an album owned by an artist account.
type Album struct {
	ID          int64     `json:"id" gorm:"primaryKey"`
	Title       string    `json:"title" gorm:"size:255;not null;index"`
	ArtistID    int64     `json:"artist_id" gorm:"not null;index"`
	CoverArtURL string    `json:"cover_art_url" gorm:"size:767"`
	ReleaseDate time.Time `json:"release_date" gorm:"autoCreateTime"`
	CreatedAt   time.Time `json:"created_at"`
}

// Genre is a catalog genre with a unique name.
type Genre struct {
	ID   int64  `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"size:100;not null;uniqueIndex"`
}

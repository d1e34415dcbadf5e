package repository

import (
	"context"
	"errors"
	"fmt"

	"gspotify/model"

	"gorm.io/gorm"
)

// SongFilter narrows song listings. Nil fields are ignored.
type SongFilter struct {
	GenreID  *int64
	ArtistID *int64
}

// SongRepository defines the interface for song data operations.
type SongRepository interface {
	Create(ctx context.Context, song *model.Song) (int64, error)
	GetByID(ctx context.Context, id int64) (*model.Song, error)
	// GetApprovedByID returns the song only when it is in the approved state.
	GetApprovedByID(ctx context.Context, id int64) (*model.Song, error)
	GetByIDAndArtist(ctx context.Context, id, artistID int64) (*model.Song, error)
	ListApproved(ctx context.Context, filter SongFilter, skip, limit int) ([]model.Song, error)
	ListAll(ctx context.Context, skip, limit int) ([]model.Song, error)
	ListByStatus(ctx context.Context, status string, skip, limit int) ([]model.Song, error)
	ListByArtist(ctx context.Context, artistID int64, skip, limit int) ([]model.Song, error)
	SearchApproved(ctx context.Context, q string, skip, limit int) ([]model.Song, error)
	UpdateStatus(ctx context.Context, id int64, status string) error
	// IncrementPlayCount bumps the play counter by one, atomically, in the
	// database. Concurrent increments never lose updates beyond what the
	// database's own row locking allows.
	IncrementPlayCount(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, status string) (int64, error)
	CountByGenre(ctx context.Context, genreID int64) (int64, error)
	CountByAlbum(ctx context.Context, albumID int64) (int64, error)
	TotalPlays(ctx context.Context) (int64, error)
	Recent(ctx context.Context, n int) ([]model.Song, error)
	// AttachDetails resolves artist/genre/album names for a slice of songs.
	AttachDetails(ctx context.Context, songs []model.Song) ([]model.SongWithDetails, error)
}

// gormSongRepository implements SongRepository on GORM.
type gormSongRepository struct {
	db *gorm.DB
}

// NewGormSongRepository creates a new gormSongRepository.
func NewGormSongRepository(db *gorm.DB) SongRepository {
	return &gormSongRepository{db: db}
}

// Create adds a new song to the catalog.
func (r *gormSongRepository) Create(ctx context.Context, song *model.Song) (int64, error) {
	if err := r.db.WithContext(ctx).Create(song).Error; err != nil {
		return 0, fmt.Errorf("failed to create song: %w", err)
	}
	return song.ID, nil
}

func (r *gormSongRepository) getOne(ctx context.Context, query *gorm.DB) (*model.Song, error) {
	song := &model.Song{}
	err := query.First(song).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return song, nil
}

// GetByID retrieves a song regardless of status. Returns (nil, nil) when not found.
func (r *gormSongRepository) GetByID(ctx context.Context, id int64) (*model.Song, error) {
	song, err := r.getOne(ctx, r.db.WithContext(ctx).Where("id = ?", id))
	if err != nil {
		return nil, fmt.Errorf("failed to query song by ID %d: %w", id, err)
	}
	return song, nil
}

// GetApprovedByID retrieves an approved song. Returns (nil, nil) when the song
// does not exist or is not approved.
func (r *gormSongRepository) GetApprovedByID(ctx context.Context, id int64) (*model.Song, error) {
	song, err := r.getOne(ctx, r.db.WithContext(ctx).Where("id = ? AND status = ?", id, model.SongStatusApproved))
	if err != nil {
		return nil, fmt.Errorf("failed to query approved song by ID %d: %w", id, err)
	}
	return song, nil
}

// GetByIDAndArtist retrieves a song owned by the given artist.
func (r *gormSongRepository) GetByIDAndArtist(ctx context.Context, id, artistID int64) (*model.Song, error) {
	song, err := r.getOne(ctx, r.db.WithContext(ctx).Where("id = ? AND artist_id = ?", id, artistID))
	if err != nil {
		return nil, fmt.Errorf("failed to query song %d for artist %d: %w", id, artistID, err)
	}
	return song, nil
}

// ListApproved returns approved songs, optionally filtered by genre/artist.
func (r *gormSongRepository) ListApproved(ctx context.Context, filter SongFilter, skip, limit int) ([]model.Song, error) {
	query := r.db.WithContext(ctx).Where("status = ?", model.SongStatusApproved)
	if filter.GenreID != nil {
		query = query.Where("genre_id = ?", *filter.GenreID)
	}
	if filter.ArtistID != nil {
		query = query.Where("artist_id = ?", *filter.ArtistID)
	}

	var songs []model.Song
	if err := query.Order("id").Offset(skip).Limit(limit).Find(&songs).Error; err != nil {
		return nil, fmt.Errorf("failed to list approved songs: %w", err)
	}
	return songs, nil
}

// ListAll returns songs of any status.
func (r *gormSongRepository) ListAll(ctx context.Context, skip, limit int) ([]model.Song, error) {
	var songs []model.Song
	err := r.db.WithContext(ctx).Order("id").Offset(skip).Limit(limit).Find(&songs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list songs: %w", err)
	}
	return songs, nil
}

// ListByStatus returns songs with the given moderation status.
func (r *gormSongRepository) ListByStatus(ctx context.Context, status string, skip, limit int) ([]model.Song, error) {
	var songs []model.Song
	err := r.db.WithContext(ctx).Where("status = ?", status).Order("id").Offset(skip).Limit(limit).Find(&songs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list songs by status %s: %w", status, err)
	}
	return songs, nil
}

// ListByArtist returns the artist's songs regardless of status.
func (r *gormSongRepository) ListByArtist(ctx context.Context, artistID int64, skip, limit int) ([]model.Song, error) {
	var songs []model.Song
	err := r.db.WithContext(ctx).Where("artist_id = ?", artistID).Order("id").Offset(skip).Limit(limit).Find(&songs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list songs for artist %d: %w", artistID, err)
	}
	return songs, nil
}

// SearchApproved returns approved songs whose title matches q.
func (r *gormSongRepository) SearchApproved(ctx context.Context, q string, skip, limit int) ([]model.Song, error) {
	var songs []model.Song
	err := r.db.WithContext(ctx).
		Where("status = ?", model.SongStatusApproved).
		Where("title LIKE ?", "%"+q+"%").
		Offset(skip).Limit(limit).
		Find(&songs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search songs: %w", err)
	}
	return songs, nil
}

// UpdateStatus moves a song between moderation states.
func (r *gormSongRepository) UpdateStatus(ctx context.Context, id int64, status string) error {
	err := r.db.WithContext(ctx).Model(&model.Song{}).Where("id = ?", id).Update("status", status).Error
	if err != nil {
		return fmt.Errorf("failed to update status of song %d: %w", id, err)
	}
	return nil
}

// IncrementPlayCount bumps the play counter in a single UPDATE statement.
func (r *gormSongRepository) IncrementPlayCount(ctx context.Context, id int64) error {
	err := r.db.WithContext(ctx).Model(&model.Song{}).Where("id = ?", id).
		Update("play_count", gorm.Expr("play_count + 1")).Error
	if err != nil {
		return fmt.Errorf("failed to increment play count of song %d: %w", id, err)
	}
	return nil
}

// Delete removes a song row. The caller owns deleting the stored file.
func (r *gormSongRepository) Delete(ctx context.Context, id int64) error {
	err := r.db.WithContext(ctx).Delete(&model.Song{}, id).Error
	if err != nil {
		return fmt.Errorf("failed to delete song %d: %w", id, err)
	}
	return nil
}

// Count returns the total number of songs.
func (r *gormSongRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Song{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count songs: %w", err)
	}
	return count, nil
}

// CountByStatus returns the number of songs in the given moderation state.
func (r *gormSongRepository) CountByStatus(ctx context.Context, status string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Song{}).Where("status = ?", status).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count songs by status %s: %w", status, err)
	}
	return count, nil
}

// CountByGenre returns the number of songs referencing the genre.
func (r *gormSongRepository) CountByGenre(ctx context.Context, genreID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Song{}).Where("genre_id = ?", genreID).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count songs by genre %d: %w", genreID, err)
	}
	return count, nil
}

// CountByAlbum returns the number of songs on the album.
func (r *gormSongRepository) CountByAlbum(ctx context.Context, albumID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Song{}).Where("album_id = ?", albumID).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count songs by album %d: %w", albumID, err)
	}
	return count, nil
}

// TotalPlays returns the sum of play counts across all songs.
func (r *gormSongRepository) TotalPlays(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.Song{}).
		Select("COALESCE(SUM(play_count), 0)").Scan(&total).Error
	if err != nil {
		return 0, fmt.Errorf("failed to sum play counts: %w", err)
	}
	return total, nil
}

// Recent returns the n most recently created songs.
func (r *gormSongRepository) Recent(ctx context.Context, n int) ([]model.Song, error) {
	var songs []model.Song
	err := r.db.WithContext(ctx).Order("created_at DESC").Limit(n).Find(&songs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list recent songs: %w", err)
	}
	return songs, nil
}

// AttachDetails resolves artist/genre/album names in batched lookups.
func (r *gormSongRepository) AttachDetails(ctx context.Context, songs []model.Song) ([]model.SongWithDetails, error) {
	result := make([]model.SongWithDetails, 0, len(songs))
	if len(songs) == 0 {
		return result, nil
	}

	artistIDs := make([]int64, 0, len(songs))
	genreIDs := make([]int64, 0, len(songs))
	albumIDs := make([]int64, 0)
	for _, s := range songs {
		artistIDs = append(artistIDs, s.ArtistID)
		genreIDs = append(genreIDs, s.GenreID)
		if s.AlbumID != nil {
			albumIDs = append(albumIDs, *s.AlbumID)
		}
	}

	var artists []model.User
	if err := r.db.WithContext(ctx).Where("id IN ?", artistIDs).Find(&artists).Error; err != nil {
		return nil, fmt.Errorf("failed to resolve artists: %w", err)
	}
	artistNames := make(map[int64]string, len(artists))
	for _, a := range artists {
		artistNames[a.ID] = a.Username
	}

	var genres []model.Genre
	if err := r.db.WithContext(ctx).Where("id IN ?", genreIDs).Find(&genres).Error; err != nil {
		return nil, fmt.Errorf("failed to resolve genres: %w", err)
	}
	genreNames := make(map[int64]string, len(genres))
	for _, g := range genres {
		genreNames[g.ID] = g.Name
	}

	albums := make(map[int64]model.Album)
	if len(albumIDs) > 0 {
		var rows []model.Album
		if err := r.db.WithContext(ctx).Where("id IN ?", albumIDs).Find(&rows).Error; err != nil {
			return nil, fmt.Errorf("failed to resolve albums: %w", err)
		}
		for _, a := range rows {
			albums[a.ID] = a
		}
	}

	for _, s := range songs {
		detail := model.SongWithDetails{
			Song:       s,
			ArtistName: artistNames[s.ArtistID],
			GenreName:  genreNames[s.GenreID],
		}
		if s.AlbumID != nil {
			if album, ok := albums[*s.AlbumID]; ok {
				detail.AlbumTitle = album.Title
				detail.CoverImageURL = album.CoverArtURL
			}
		}
		result = append(result, detail)
	}
	return result, nil
}

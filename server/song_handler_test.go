package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"gspotify/config"
	"gspotify/model"
	"gspotify/repository"
	"gspotify/storage"

	"github.com/go-sql-driver/mysql"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubSongRepo serves one approved song and counts increments. Unstubbed
// methods panic via the embedded nil interface.
type stubSongRepo struct {
	repository.SongRepository
	song       *model.Song
	increments int
	incErr     error
}

func (s *stubSongRepo) GetApprovedByID(ctx context.Context, id int64) (*model.Song, error) {
	if s.song != nil && s.song.ID == id && s.song.Status == model.SongStatusApproved {
		return s.song, nil
	}
	return nil, nil
}

func (s *stubSongRepo) IncrementPlayCount(ctx context.Context, id int64) error {
	if s.incErr != nil {
		return s.incErr
	}
	s.increments++
	return nil
}

func newStreamFixture(t *testing.T) (*APIHandler, *stubSongRepo, string) {
	t.Helper()

	store, err := storage.NewLocalStore(t.TempDir())
	require.NoError(t, err)
	identifier, err := store.Save([]byte("pretend audio bytes, long enough to range over"), ".mp3")
	require.NoError(t, err)

	songs := &stubSongRepo{
		song: &model.Song{
			ID:       7,
			Title:    "Test Track",
			Status:   model.SongStatusApproved,
			FilePath: identifier,
		},
	}

	h := NewAPIHandler(Repositories{Songs: songs}, store, store, nil, &config.Config{})
	return h, songs, identifier
}

func streamRequest(h *APIHandler, songID int64) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/songs/"+strconv.FormatInt(songID, 10)+"/stream", nil)
	req = mux.SetURLVars(req, map[string]string{"id": strconv.FormatInt(songID, 10)})
	rec := httptest.NewRecorder()
	h.StreamSongHandler(rec, req)
	return rec
}

func TestStreamSongCountsOncePerRequest(t *testing.T) {
	h, songs, identifier := newStreamFixture(t)

	for i := 1; i <= 3; i++ {
		rec := streamRequest(h, 7)
		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, "/files/songs/"+identifier, rec.Header().Get("Location"))
		assert.Equal(t, i, songs.increments)
	}
}

func TestStreamSongUnknownSong(t *testing.T) {
	h, songs, _ := newStreamFixture(t)

	rec := streamRequest(h, 999)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Zero(t, songs.increments)
}

func TestStreamSongPendingSongHidden(t *testing.T) {
	h, songs, _ := newStreamFixture(t)
	songs.song.Status = model.SongStatusPending

	rec := streamRequest(h, 7)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Zero(t, songs.increments)
}

func TestStreamSongMissingFile(t *testing.T) {
	h, songs, _ := newStreamFixture(t)
	songs.song.FilePath = "vanished.mp3"

	rec := streamRequest(h, 7)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Zero(t, songs.increments)
}

// Begin-playback is reachable without credentials: an anonymous request
// through the full middleware chain still counts the play and redirects.
func TestStreamEndpointIsPublic(t *testing.T) {
	h, songs, identifier := newStreamFixture(t)
	router := NewRouter(h, &config.Config{})

	req := httptest.NewRequest(http.MethodGet, "/songs/7/stream", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/files/songs/"+identifier, rec.Header().Get("Location"))
	assert.Equal(t, 1, songs.increments)
}

func TestStreamSongDatabaseExhaustion(t *testing.T) {
	h, songs, _ := newStreamFixture(t)

	songs.incErr = fmt.Errorf("failed to increment play count of song 7: %w", context.DeadlineExceeded)
	rec := streamRequest(h, 7)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"error": "service temporarily unavailable"}`, rec.Body.String())

	songs.incErr = &mysql.MySQLError{Number: 1040, Message: "Too many connections"}
	rec = streamRequest(h, 7)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	songs.incErr = errors.New("malformed statement")
	rec = streamRequest(h, 7)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	assert.Zero(t, songs.increments)
}

// Range requests against the raw file endpoint never touch the play count:
// a client seeking through a track is not replaying it.
func TestServeSongFileIsSideEffectFree(t *testing.T) {
	h, songs, identifier := newStreamFixture(t)

	for _, rangeHeader := range []string{"", "bytes=0-9", "bytes=10-", "bytes=5-5"} {
		req := httptest.NewRequest(http.MethodGet, "/files/songs/"+identifier, nil)
		req = mux.SetURLVars(req, map[string]string{"filename": identifier})
		if rangeHeader != "" {
			req.Header.Set("Range", rangeHeader)
		}
		rec := httptest.NewRecorder()
		h.ServeSongFileHandler(rec, req)

		if rangeHeader == "" {
			assert.Equal(t, http.StatusOK, rec.Code)
		} else {
			assert.Equal(t, http.StatusPartialContent, rec.Code)
		}
	}
	assert.Zero(t, songs.increments)
}

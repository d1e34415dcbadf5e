package stream

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"gspotify/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestResponder(t *testing.T, data []byte) (*Responder, string) {
	t.Helper()
	store, err := storage.NewLocalStore(t.TempDir())
	require.NoError(t, err)

	identifier, err := store.Save(data, ".mp3")
	require.NoError(t, err)

	return NewResponder(store, 0), identifier
}

func serve(rsp *Responder, identifier, rangeHeader, method string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, "/files/songs/"+identifier, nil)
	if rangeHeader != "" {
		req.Header.Set("Range", rangeHeader)
	}
	rec := httptest.NewRecorder()
	rsp.ServeFile(rec, req, identifier, "audio/mpeg")
	return rec
}

func TestServeFileWholeFile(t *testing.T) {
	data := testData(1000)
	rsp, id := newTestResponder(t, data)

	rec := serve(rsp, id, "", http.MethodGet)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "audio/mpeg", rec.Header().Get("Content-Type"))
	assert.Equal(t, "bytes", rec.Header().Get("Accept-Ranges"))
	assert.Equal(t, "1000", rec.Header().Get("Content-Length"))
	assert.Empty(t, rec.Header().Get("Content-Range"))
	assert.Equal(t, data, rec.Body.Bytes())
}

func TestServeFilePartial(t *testing.T) {
	data := testData(1000)
	rsp, id := newTestResponder(t, data)

	rec := serve(rsp, id, "bytes=500-599", http.MethodGet)

	assert.Equal(t, http.StatusPartialContent, rec.Code)
	assert.Equal(t, "bytes 500-599/1000", rec.Header().Get("Content-Range"))
	assert.Equal(t, "100", rec.Header().Get("Content-Length"))
	assert.Equal(t, data[500:600], rec.Body.Bytes())
}

func TestServeFileOpenEndedRange(t *testing.T) {
	data := testData(1000)
	rsp, id := newTestResponder(t, data)

	rec := serve(rsp, id, "bytes=900-", http.MethodGet)

	assert.Equal(t, http.StatusPartialContent, rec.Code)
	assert.Equal(t, "bytes 900-999/1000", rec.Header().Get("Content-Range"))
	assert.Equal(t, data[900:], rec.Body.Bytes())
}

func TestServeFileUnsatisfiableRange(t *testing.T) {
	rsp, id := newTestResponder(t, testData(1000))

	for _, header := range []string{"bytes=1000-1000", "bytes=500-1000", "bytes=-500"} {
		rec := serve(rsp, id, header, http.MethodGet)
		assert.Equal(t, http.StatusRequestedRangeNotSatisfiable, rec.Code, "header %q", header)
		assert.Equal(t, "bytes */1000", rec.Header().Get("Content-Range"), "header %q", header)
		assert.JSONEq(t, `{"error": "range not satisfiable"}`, rec.Body.String())
	}
}

func TestServeFileMissing(t *testing.T) {
	rsp, _ := newTestResponder(t, testData(10))

	rec := serve(rsp, "no-such-file.mp3", "", http.MethodGet)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error": "file not found"}`, rec.Body.String())
}

func TestServeFileHead(t *testing.T) {
	rsp, id := newTestResponder(t, testData(1000))

	rec := serve(rsp, id, "bytes=0-499", http.MethodHead)

	assert.Equal(t, http.StatusPartialContent, rec.Code)
	assert.Equal(t, "500", rec.Header().Get("Content-Length"))
	assert.Zero(t, rec.Body.Len())
}

// Two sequential range requests covering the whole file must concatenate to
// exactly the original bytes.
func TestServeFileRangesConcatenate(t *testing.T) {
	data := testData(2500)
	rsp, id := newTestResponder(t, data)

	first := serve(rsp, id, "bytes=0-999", http.MethodGet)
	require.Equal(t, http.StatusPartialContent, first.Code)

	second := serve(rsp, id, "bytes=1000-", http.MethodGet)
	require.Equal(t, http.StatusPartialContent, second.Code)
	assert.Equal(t, "bytes 1000-2499/2500", second.Header().Get("Content-Range"))

	combined := append(first.Body.Bytes(), second.Body.Bytes()...)
	assert.Equal(t, data, combined)

	total, err := strconv.Atoi(first.Header().Get("Content-Length"))
	require.NoError(t, err)
	n, err := strconv.Atoi(second.Header().Get("Content-Length"))
	require.NoError(t, err)
	assert.Equal(t, len(data), total+n)
}

func TestServeWhole(t *testing.T) {
	data := testData(640)
	store, err := storage.NewLocalStore(t.TempDir())
	require.NoError(t, err)
	id, err := store.Save(data, ".jpg")
	require.NoError(t, err)

	rsp := NewResponder(store, 0)
	req := httptest.NewRequest(http.MethodGet, "/files/covers/"+id, nil)
	rec := httptest.NewRecorder()
	rsp.ServeWhole(rec, req, id, "image/jpeg")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/jpeg", rec.Header().Get("Content-Type"))
	assert.Equal(t, data, rec.Body.Bytes())

	rec = httptest.NewRecorder()
	rsp.ServeWhole(rec, req, "missing.jpg", "image/jpeg")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

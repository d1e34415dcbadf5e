package stream

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"gspotify/logger"
	"gspotify/storage"
)

// Responder answers HTTP requests for stored files, with byte-range support.
// It is side-effect free: play counting belongs to the begin-playback
// operation, not to the raw byte server, so a client seeking through a track
// with many range requests is never double counted.
type Responder struct {
	store     storage.FileStore
	chunkSize int
}

// NewResponder creates a Responder over the given store. chunkSize <= 0
// selects DefaultChunkSize.
func NewResponder(store storage.FileStore, chunkSize int) *Responder {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &Responder{store: store, chunkSize: chunkSize}
}

// ServeFile streams the identified blob, honoring a single Range header.
// Responses are 200 (whole file), 206 (partial), 404 (no such blob) or
// 416 (unsatisfiable range). I/O failures after the header has been written
// can only terminate the connection; they are logged, not retried.
func (rsp *Responder) ServeFile(w http.ResponseWriter, r *http.Request, identifier, mediaType string) {
	// The catalog checked existence before handing us the identifier, but
	// the file may have been deleted since; check again on the store.
	if !rsp.store.Exists(identifier) {
		writeError(w, http.StatusNotFound, "file not found")
		return
	}

	size := rsp.store.Size(identifier)
	byteRange, err := ParseRange(r.Header.Get("Range"), size)
	if err != nil {
		w.Header().Set("Content-Range", "bytes */"+strconv.FormatInt(size, 10))
		writeError(w, http.StatusRequestedRangeNotSatisfiable, "range not satisfiable")
		return
	}

	handle, err := rsp.store.Open(identifier)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "file not found")
			return
		}
		logger.Error("Failed to open stored file",
			logger.String("identifier", identifier),
			logger.ErrorField(err),
		)
		writeError(w, http.StatusInternalServerError, "failed to open file")
		return
	}
	defer handle.Close()

	start, length, status := int64(0), size, http.StatusOK
	if byteRange != nil {
		start, length, status = byteRange.Start, byteRange.Length(), http.StatusPartialContent
		w.Header().Set("Content-Range", byteRange.ContentRange(size))
	}

	reader, err := NewChunkReader(handle, start, length, rsp.chunkSize)
	if err != nil {
		logger.Error("Failed to seek stored file",
			logger.String("identifier", identifier),
			logger.ErrorField(err),
		)
		writeError(w, http.StatusInternalServerError, "failed to read file")
		return
	}

	w.Header().Set("Content-Type", mediaType)
	w.Header().Set("Accept-Ranges", "bytes")
	w.Header().Set("Content-Length", strconv.FormatInt(length, 10))
	w.WriteHeader(status)

	if r.Method == http.MethodHead {
		return
	}

	// From here on the status is committed; a failure mid-stream just
	// drops the connection and the client reissues a range request.
	if written, err := reader.WriteTo(w); err != nil {
		logger.Warn("Stream terminated early",
			logger.String("identifier", identifier),
			logger.Int64("written", written),
			logger.Int64("expected", length),
			logger.ErrorField(err),
		)
	}
}

// ServeWhole streams the identified blob without range support (200 or 404).
func (rsp *Responder) ServeWhole(w http.ResponseWriter, r *http.Request, identifier, mediaType string) {
	handle, err := rsp.store.Open(identifier)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "file not found")
			return
		}
		logger.Error("Failed to open stored file",
			logger.String("identifier", identifier),
			logger.ErrorField(err),
		)
		writeError(w, http.StatusInternalServerError, "failed to open file")
		return
	}
	defer handle.Close()

	size := rsp.store.Size(identifier)

	w.Header().Set("Content-Type", mediaType)
	w.Header().Set("Content-Length", strconv.FormatInt(size, 10))
	w.WriteHeader(http.StatusOK)

	if r.Method == http.MethodHead {
		return
	}

	reader, err := NewChunkReader(handle, 0, size, rsp.chunkSize)
	if err != nil {
		logger.Error("Failed to read stored file",
			logger.String("identifier", identifier),
			logger.ErrorField(err),
		)
		return
	}
	if written, err := reader.WriteTo(w); err != nil {
		logger.Warn("Stream terminated early",
			logger.String("identifier", identifier),
			logger.Int64("written", written),
			logger.ErrorField(err),
		)
	}
}

func writeError(w http.ResponseWriter, status int, reason string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": reason})
}

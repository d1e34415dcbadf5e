package server

import (
	"net/http"

	"github.com/gorilla/mux"
)

// ServeSongFileHandler serves raw audio bytes with range support. It never
// touches play counts; counting happens when playback begins, in
// StreamSongHandler.
func (h *APIHandler) ServeSongFileHandler(w http.ResponseWriter, r *http.Request) {
	identifier := mux.Vars(r)["filename"]
	if identifier == "" {
		respondError(w, http.StatusNotFound, "file not found")
		return
	}
	h.responder.ServeFile(w, r, identifier, "audio/mpeg")
}

// ServeCoverFileHandler serves album cover images whole.
func (h *APIHandler) ServeCoverFileHandler(w http.ResponseWriter, r *http.Request) {
	identifier := mux.Vars(r)["filename"]
	if identifier == "" {
		respondError(w, http.StatusNotFound, "file not found")
		return
	}
	h.covers.ServeWhole(w, r, identifier, "image/jpeg")
}

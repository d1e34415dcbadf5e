package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"gspotify/logger"

	"github.com/go-sql-driver/mysql"
	"github.com/gorilla/mux"
)

const (
	defaultPageLimit = 100
	maxPageLimit     = 500
)

// respondJSON writes payload as a JSON response with the given status.
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error("Failed to encode JSON response", logger.ErrorField(err))
	}
}

// respondError writes a JSON error body of the form {"error": reason}.
func respondError(w http.ResponseWriter, status int, reason string) {
	respondJSON(w, status, map[string]string{"error": reason})
}

// pathID extracts a positive integer path variable.
func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// pagination reads skip/limit query parameters with defaults and caps.
func pagination(r *http.Request) (skip, limit int) {
	skip, limit = 0, defaultPageLimit
	if v := r.URL.Query().Get("skip"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			skip = n
		}
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return skip, limit
}

// queryID reads an optional integer query parameter, returning nil when absent.
func queryID(r *http.Request, name string) *int64 {
	v := r.URL.Query().Get(name)
	if v == "" {
		return nil
	}
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil || id <= 0 {
		return nil
	}
	return &id
}

// decodeJSON parses the request body into dst.
func decodeJSON(r *http.Request, dst interface{}) error {
	return json.NewDecoder(r.Body).Decode(dst)
}

// statusForDBError maps database exhaustion failures (connection pool or lock
// saturation, deadline overruns) to 503; anything else stays a plain 500.
func statusForDBError(err error) int {
	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusServiceUnavailable
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case 1040, 1203, 1205: // too many connections, per-user limit, lock wait timeout
			return http.StatusServiceUnavailable
		}
	}
	return http.StatusInternalServerError
}

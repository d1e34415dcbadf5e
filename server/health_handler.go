package server

import (
	"net/http"
	"time"

	"gspotify/db"
)

// RootHandler identifies the service.
func (h *APIHandler) RootHandler(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"name":    h.cfg.AppName,
		"message": "music streaming API",
	})
}

// HealthHandler is the liveness probe.
func (h *APIHandler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// DetailedHealthHandler reports per-dependency health. The response is 503
// when the database is unreachable; a missing redis only degrades.
func (h *APIHandler) DetailedHealthHandler(w http.ResponseWriter, r *http.Request) {
	status := http.StatusOK
	overall := "ok"

	dbStatus := "ok"
	if err := db.Ping(); err != nil {
		dbStatus = "unreachable"
		status = http.StatusServiceUnavailable
		overall = "degraded"
	}

	redisStatus := "ok"
	if db.RedisClient == nil {
		redisStatus = "disabled"
	} else if err := db.PingRedis(r.Context()); err != nil {
		redisStatus = "unreachable"
	}

	respondJSON(w, status, map[string]interface{}{
		"status": overall,
		"checks": map[string]string{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now().UTC().Format(time.RFC3339),
	})
}

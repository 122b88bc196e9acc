// Package api exposes the operational HTTP surface: health, stats, a live
// room listing, and recorded match history. Gameplay itself never touches
// these handlers; they read from the registry and the match store.
package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/badAtCoding144/vigilant-octo-pong/internal/db"
	"github.com/badAtCoding144/vigilant-octo-pong/internal/registry"
	"github.com/badAtCoding144/vigilant-octo-pong/internal/ws"
)

type API struct {
	hub      *ws.Hub
	registry *registry.Registry
	database *db.Database
}

// New wires the handlers. database may be nil when match recording is
// disabled; the affected endpoints degrade rather than fail.
func New(hub *ws.Hub, reg *registry.Registry, database *db.Database) *API {
	return &API{
		hub:      hub,
		registry: reg,
		database: database,
	}
}

func jsonResponse(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		logrus.WithError(err).Error("failed to encode JSON response")
	}
}

func errorResponse(w http.ResponseWriter, status int, message string) {
	jsonResponse(w, status, map[string]string{"error": message})
}

func (a *API) HealthHandler(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (a *API) StatsHandler(w http.ResponseWriter, r *http.Request) {
	stats := map[string]interface{}{
		"active_rooms":   a.registry.RoomCount(),
		"active_games":   a.registry.ActiveGameCount(),
		"active_clients": a.hub.ClientCount(),
		"timestamp":      time.Now().UTC().Format(time.RFC3339),
	}

	if a.database != nil {
		dbStats, err := a.database.Stats()
		if err == nil {
			stats["total_matches"] = dbStats["match_count"]
			stats["recorded_rooms"] = dbStats["recorded_room_count"]
		}
	}

	jsonResponse(w, http.StatusOK, stats)
}

// RoomsHandler lists live rooms from the registry.
func (a *API) RoomsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		errorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	rooms := a.registry.Rooms()
	jsonResponse(w, http.StatusOK, map[string]interface{}{
		"rooms": rooms,
		"count": len(rooms),
	})
}

// MatchesHandler lists recorded matches, optionally filtered by room.
func (a *API) MatchesHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		errorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	if a.database == nil {
		errorResponse(w, http.StatusServiceUnavailable, "Match recording is disabled")
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	if offset < 0 {
		offset = 0
	}

	roomID := r.URL.Query().Get("room")

	matches, err := a.database.ListMatches(roomID, limit, offset)
	if err != nil {
		errorResponse(w, http.StatusInternalServerError, "Failed to list matches")
		return
	}
	if matches == nil {
		matches = []db.Match{}
	}

	jsonResponse(w, http.StatusOK, map[string]interface{}{
		"matches": matches,
		"limit":   limit,
		"offset":  offset,
	})
}

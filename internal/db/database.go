// Package db persists finished score lines to SQLite. Rooms themselves are
// purely in-memory and never survive a restart; this store is an audit log
// of completed games, nothing the live session path depends on.
package db

import (
	"database/sql"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"
)

type Database struct {
	db *sql.DB
}

// Match is one recorded score line. A match ends when a full room is reset
// via restartGame or loses a participant.
type Match struct {
	ID         int64     `json:"id"`
	RoomID     string    `json:"room_id"`
	ScoreLeft  int       `json:"score_left"`
	ScoreRight int       `json:"score_right"`
	StartedAt  time.Time `json:"started_at"`
	EndedAt    time.Time `json:"ended_at"`
}

// New opens (creating if needed) the match database at path.
func New(dbPath string) (*Database, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}

	// WAL keeps writers from blocking the read-side HTTP handlers.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, err
	}

	if err := createTables(db); err != nil {
		return nil, err
	}

	logrus.WithField("path", dbPath).Info("match database initialized")
	return &Database{db: db}, nil
}

func createTables(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS matches (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		room_id TEXT NOT NULL,
		score_left INTEGER NOT NULL,
		score_right INTEGER NOT NULL,
		started_at DATETIME NOT NULL,
		ended_at DATETIME NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_matches_room_id ON matches(room_id);
	CREATE INDEX IF NOT EXISTS idx_matches_room_recency ON matches(room_id, id DESC);
	`

	_, err := db.Exec(schema)
	return err
}

func (d *Database) Close() error {
	return d.db.Close()
}

// RecordMatch appends a finished score line. Implements registry.Recorder.
func (d *Database) RecordMatch(roomID string, scores [2]int, startedAt, endedAt time.Time) error {
	_, err := d.db.Exec(
		"INSERT INTO matches (room_id, score_left, score_right, started_at, ended_at) VALUES (?, ?, ?, ?, ?)",
		roomID, scores[0], scores[1], startedAt.UTC(), endedAt.UTC(),
	)
	return err
}

// ListMatches returns recorded matches, newest first. An empty roomID lists
// across all rooms.
func (d *Database) ListMatches(roomID string, limit, offset int) ([]Match, error) {
	query := "SELECT id, room_id, score_left, score_right, started_at, ended_at FROM matches"
	args := []any{}
	if roomID != "" {
		query += " WHERE room_id = ?"
		args = append(args, roomID)
	}
	query += " ORDER BY id DESC LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var matches []Match
	for rows.Next() {
		var m Match
		if err := rows.Scan(&m.ID, &m.RoomID, &m.ScoreLeft, &m.ScoreRight, &m.StartedAt, &m.EndedAt); err != nil {
			return nil, err
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

// MatchCount returns the total number of recorded matches.
func (d *Database) MatchCount() (int, error) {
	var count int
	err := d.db.QueryRow("SELECT COUNT(*) FROM matches").Scan(&count)
	return count, err
}

// RoomIDs returns the distinct room identifiers with recorded matches.
func (d *Database) RoomIDs() ([]string, error) {
	rows, err := d.db.Query("SELECT DISTINCT room_id FROM matches")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// MatchCountForRoom returns the number of recorded matches for one room.
func (d *Database) MatchCountForRoom(roomID string) (int, error) {
	var count int
	err := d.db.QueryRow("SELECT COUNT(*) FROM matches WHERE room_id = ?", roomID).Scan(&count)
	return count, err
}

// PruneMatches deletes a room's oldest records, keeping the most recent
// keepCount.
func (d *Database) PruneMatches(roomID string, keepCount int) error {
	_, err := d.db.Exec(`
		DELETE FROM matches
		WHERE room_id = ? AND id NOT IN (
			SELECT id FROM matches
			WHERE room_id = ?
			ORDER BY id DESC
			LIMIT ?
		)
	`, roomID, roomID, keepCount)
	return err
}

// Stats returns aggregate counters for the HTTP stats endpoint.
func (d *Database) Stats() (map[string]interface{}, error) {
	stats := make(map[string]interface{})

	matchCount, err := d.MatchCount()
	if err != nil {
		return nil, err
	}
	stats["match_count"] = matchCount

	var roomCount int
	if err := d.db.QueryRow("SELECT COUNT(DISTINCT room_id) FROM matches").Scan(&roomCount); err != nil {
		return nil, err
	}
	stats["recorded_room_count"] = roomCount

	return stats, nil
}

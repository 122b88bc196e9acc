package history

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/badAtCoding144/vigilant-octo-pong/internal/db"
)

func setupTestDB(t *testing.T) *db.Database {
	t.Helper()

	database, err := db.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		database.Close()
	})
	return database
}

func fillRoom(t *testing.T, database *db.Database, roomID string, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		require.NoError(t, database.RecordMatch(roomID, [2]int{i, 0}, time.Now(), time.Now()))
	}
}

func TestPruneAllTrimsOverfullRooms(t *testing.T) {
	database := setupTestDB(t)
	fillRoom(t, database, "room-a", 8)
	fillRoom(t, database, "room-b", 2)

	svc := New(database, Config{Interval: time.Hour, KeepPerRoom: 5})
	svc.pruneAll()

	count, err := database.MatchCountForRoom("room-a")
	require.NoError(t, err)
	assert.Equal(t, 5, count)

	count, err = database.MatchCountForRoom("room-b")
	require.NoError(t, err)
	assert.Equal(t, 2, count, "rooms under the cap stay untouched")
}

func TestPruneNow(t *testing.T) {
	database := setupTestDB(t)
	fillRoom(t, database, "room-a", 10)

	svc := New(database, Config{Interval: time.Hour, KeepPerRoom: 4})
	require.NoError(t, svc.PruneNow("room-a"))

	count, err := database.MatchCountForRoom("room-a")
	require.NoError(t, err)
	assert.Equal(t, 4, count)
}

func TestStartStop(t *testing.T) {
	database := setupTestDB(t)
	fillRoom(t, database, "room-a", 6)

	svc := New(database, Config{Interval: time.Hour, KeepPerRoom: 3})
	svc.Start()
	svc.Stop()

	// The initial sweep on Start already pruned.
	count, err := database.MatchCountForRoom("room-a")
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

// Package registry owns the process-wide mapping from room identifier to
// live session. All room lifecycle transitions go through it: creation,
// join, departure, restart, teardown. Rooms are independent units of
// concurrency; the registry lock only guards the map itself.
package registry

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/badAtCoding144/vigilant-octo-pong/internal/game"
	"github.com/badAtCoding144/vigilant-octo-pong/internal/protocol"
)

var (
	// ErrRoomNotFound reports a join, restart or intent against an unknown
	// room identifier.
	ErrRoomNotFound = errors.New("room not found")

	// ErrRoomFull reports a join against a room that already has two
	// participants.
	ErrRoomFull = errors.New("room is full")
)

// Recorder persists the score line of a finished game. The registry calls
// it when a full room is reset or loses a participant with points on the
// board. A nil Recorder disables recording.
type Recorder interface {
	RecordMatch(roomID string, scores [2]int, startedAt, endedAt time.Time) error
}

// Registry is the session registry. Construct with New and share one
// instance between the WebSocket and HTTP layers; there is no package-level
// default.
type Registry struct {
	mu       sync.RWMutex
	rooms    map[string]*Room
	recorder Recorder
	log      *logrus.Entry
}

// New returns an empty registry. recorder may be nil.
func New(recorder Recorder) *Registry {
	return &Registry{
		rooms:    make(map[string]*Room),
		recorder: recorder,
		log:      logrus.WithField("component", "registry"),
	}
}

// newRoomID produces a short shareable token. The underlying UUID space
// makes collisions negligible, and CreateRoom regenerates on the off chance
// anyway.
func newRoomID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
}

// CreateRoom allocates an empty room and returns its identifier. The caller
// is expected to join the creating connection immediately afterwards.
func (r *Registry) CreateRoom() string {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := newRoomID()
	for {
		if _, exists := r.rooms[id]; !exists {
			break
		}
		id = newRoomID()
	}

	r.rooms[id] = newRoom(id)
	r.log.WithField("room", id).Info("room created")
	return id
}

// Join adds conn to the room and returns its player index. Joining a room
// the connection is already in returns the existing index. When the join
// fills the second slot the simulation loop starts and both participants
// receive a startGame notification carrying their own index.
func (r *Registry) Join(roomID string, conn Conn) (int, error) {
	r.mu.RLock()
	room, ok := r.rooms[roomID]
	r.mu.RUnlock()
	if !ok {
		return 0, ErrRoomNotFound
	}

	room.mu.Lock()
	if room.closed {
		room.mu.Unlock()
		return 0, ErrRoomNotFound
	}

	if idx := room.slotOfLocked(conn); idx != -1 {
		room.mu.Unlock()
		return idx, nil
	}

	idx := -1
	for i, slot := range room.slots {
		if slot == nil {
			idx = i
			break
		}
	}
	if idx == -1 {
		room.mu.Unlock()
		return 0, ErrRoomFull
	}

	room.slots[idx] = conn

	started := false
	if room.countLocked() == 2 && room.stop == nil {
		stop := make(chan struct{})
		room.stop = stop
		room.startedAt = time.Now()
		started = true
		go room.run(stop)

		for i, slot := range room.slots {
			data, err := protocol.MarshalStartGame(roomID, i)
			if err == nil {
				slot.Send(data)
			}
		}
	}
	room.mu.Unlock()

	r.log.WithFields(logrus.Fields{
		"room":        roomID,
		"conn":        conn.ID(),
		"playerIndex": idx,
		"started":     started,
	}).Info("participant joined")
	return idx, nil
}

// Leave removes conn from the room. It is idempotent: unknown rooms and
// non-participants are ignored. Emptying the room deletes it in the same
// operation; dropping from two participants to one stops the simulation
// loop and notifies the survivor, who keeps their player index and waits
// for a replacement joiner.
func (r *Registry) Leave(roomID string, conn Conn) {
	r.mu.Lock()
	room, ok := r.rooms[roomID]
	if !ok {
		r.mu.Unlock()
		return
	}

	room.mu.Lock()
	idx := room.slotOfLocked(conn)
	if idx == -1 {
		room.mu.Unlock()
		r.mu.Unlock()
		return
	}
	room.slots[idx] = nil

	record := room.stopGameLocked()

	var peer Conn
	remaining := room.countLocked()
	switch remaining {
	case 0:
		room.closed = true
		delete(r.rooms, roomID)
	case 1:
		peer = room.connsLocked()[0]
	}
	room.mu.Unlock()
	r.mu.Unlock()

	if peer != nil {
		if data, err := protocol.MarshalOpponentLeft(); err == nil {
			peer.Send(data)
		}
	}
	r.record(roomID, record)

	r.log.WithFields(logrus.Fields{
		"room":      roomID,
		"conn":      conn.ID(),
		"remaining": remaining,
	}).Info("participant left")
}

// Restart resets the room's scores and ball to their defaults, leaving
// membership, paddle offsets and the running loop untouched, and broadcasts
// the reset score line to every participant.
func (r *Registry) Restart(roomID string) error {
	r.mu.RLock()
	room, ok := r.rooms[roomID]
	r.mu.RUnlock()
	if !ok {
		return ErrRoomNotFound
	}

	room.mu.Lock()
	if room.closed {
		room.mu.Unlock()
		return ErrRoomNotFound
	}

	var record *finishedGame
	if room.stop != nil && room.state.Scores != [2]int{} {
		record = &finishedGame{
			scores:    room.state.Scores,
			startedAt: room.startedAt,
			endedAt:   time.Now(),
		}
		room.startedAt = time.Now()
	}

	room.state.Reset()
	conns := room.connsLocked()
	scores := room.state.Scores
	room.mu.Unlock()

	if data, err := protocol.MarshalRestart(scores); err == nil {
		for _, conn := range conns {
			conn.Send(data)
		}
	}
	r.record(roomID, record)

	r.log.WithField("room", roomID).Info("game restarted")
	return nil
}

// SetPaddle stores the latest paddle intent for conn's slot. Last write
// between ticks wins. Intents against unknown rooms or rooms the connection
// is not part of are dropped silently: the sender is about to learn the
// game is over through opponentLeft or the closing socket.
func (r *Registry) SetPaddle(roomID string, conn Conn, paddleY float64) {
	r.mu.RLock()
	room, ok := r.rooms[roomID]
	r.mu.RUnlock()
	if !ok {
		return
	}

	if paddleY < 0 {
		paddleY = 0
	} else if paddleY > game.FieldHeight-game.PaddleHeight {
		paddleY = game.FieldHeight - game.PaddleHeight
	}

	room.mu.Lock()
	if idx := room.slotOfLocked(conn); idx != -1 {
		room.state.Paddles[idx] = paddleY
	}
	room.mu.Unlock()
}

// Rooms returns a snapshot of every live room.
func (r *Registry) Rooms() []RoomInfo {
	r.mu.RLock()
	rooms := make([]*Room, 0, len(r.rooms))
	for _, room := range r.rooms {
		rooms = append(rooms, room)
	}
	r.mu.RUnlock()

	infos := make([]RoomInfo, len(rooms))
	for i, room := range rooms {
		infos[i] = room.Info()
	}
	return infos
}

// RoomCount returns the number of live rooms.
func (r *Registry) RoomCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms)
}

// ActiveGameCount returns the number of rooms with a running simulation.
func (r *Registry) ActiveGameCount() int {
	count := 0
	for _, info := range r.Rooms() {
		if info.Active {
			count++
		}
	}
	return count
}

// Close tears down every room and stops all simulation loops. Used on
// shutdown; no notifications are sent.
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, room := range r.rooms {
		room.mu.Lock()
		if room.stop != nil {
			close(room.stop)
			room.stop = nil
		}
		room.closed = true
		room.mu.Unlock()
		delete(r.rooms, id)
	}
}

// finishedGame is a score line pending persistence.
type finishedGame struct {
	scores    [2]int
	startedAt time.Time
	endedAt   time.Time
}

// stopGameLocked cancels the simulation loop if it is running and returns
// the score line to record, or nil when there is nothing worth recording.
// Caller holds the room lock.
func (room *Room) stopGameLocked() *finishedGame {
	if room.stop == nil {
		return nil
	}
	close(room.stop)
	room.stop = nil

	if room.state.Scores == [2]int{} {
		return nil
	}
	record := &finishedGame{
		scores:    room.state.Scores,
		startedAt: room.startedAt,
		endedAt:   time.Now(),
	}
	room.startedAt = time.Time{}
	return record
}

func (r *Registry) record(roomID string, fin *finishedGame) {
	if fin == nil || r.recorder == nil {
		return
	}
	if err := r.recorder.RecordMatch(roomID, fin.scores, fin.startedAt, fin.endedAt); err != nil {
		r.log.WithError(err).WithField("room", roomID).Warn("failed to record match")
	}
}

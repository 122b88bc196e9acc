package registry

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/badAtCoding144/vigilant-octo-pong/internal/game"
	"github.com/badAtCoding144/vigilant-octo-pong/internal/protocol"
)

// Conn is the transport half of a participant. The WebSocket layer
// implements it; tests use in-memory fakes. Send must not block.
type Conn interface {
	ID() string
	Send(data []byte)
}

// Room is a single two-player session. Slot position is the player index:
// it is assigned at join time and never moves while the participant stays
// connected, even if the other slot empties.
//
// All fields behind mu form one unit: membership, paddle offsets, ball and
// scores are never touched without the room lock, so a paddle intent
// arriving mid-tick waits for the tick to finish.
type Room struct {
	id string

	mu        sync.Mutex
	slots     [2]Conn
	state     game.State
	stop      chan struct{} // non-nil exactly while both slots are filled
	closed    bool          // set when the room leaves the registry
	createdAt time.Time
	startedAt time.Time // last transition to full membership
}

// RoomInfo is a point-in-time view of a room for the HTTP surface.
type RoomInfo struct {
	ID           string    `json:"id"`
	Participants int       `json:"participants"`
	Active       bool      `json:"active"`
	Scores       [2]int    `json:"scores"`
	CreatedAt    time.Time `json:"created_at"`
}

func newRoom(id string) *Room {
	return &Room{
		id:        id,
		state:     game.NewState(),
		createdAt: time.Now(),
	}
}

// ID returns the room's identifier.
func (r *Room) ID() string {
	return r.id
}

// Info returns a snapshot of the room's public state.
func (r *Room) Info() RoomInfo {
	r.mu.Lock()
	defer r.mu.Unlock()
	return RoomInfo{
		ID:           r.id,
		Participants: r.countLocked(),
		Active:       r.stop != nil,
		Scores:       r.state.Scores,
		CreatedAt:    r.createdAt,
	}
}

func (r *Room) countLocked() int {
	count := 0
	for _, slot := range r.slots {
		if slot != nil {
			count++
		}
	}
	return count
}

func (r *Room) connsLocked() []Conn {
	conns := make([]Conn, 0, 2)
	for _, slot := range r.slots {
		if slot != nil {
			conns = append(conns, slot)
		}
	}
	return conns
}

func (r *Room) slotOfLocked(conn Conn) int {
	for i, slot := range r.slots {
		if slot != nil && slot.ID() == conn.ID() {
			return i
		}
	}
	return -1
}

// run drives the fixed-rate simulation until stop is closed. Ticks are
// independent: a late tick simply runs late, none are skipped or coalesced.
func (r *Room) run(stop <-chan struct{}) {
	ticker := time.NewTicker(time.Second / game.TickRate)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			r.tick()
		}
	}
}

// tick advances the simulation one step and broadcasts the snapshot. The
// stop/closed check under the lock guarantees a timer that fired during a
// disconnect never touches a stopped or removed room.
func (r *Room) tick() {
	r.mu.Lock()
	if r.closed || r.stop == nil {
		r.mu.Unlock()
		return
	}

	scored := r.state.Step()
	data, err := protocol.MarshalGameUpdate(
		r.state.Paddles, r.state.Ball.X, r.state.Ball.Y, r.state.Scores)
	conns := r.connsLocked()
	scores := r.state.Scores
	r.mu.Unlock()

	if err != nil {
		logrus.WithError(err).WithField("room", r.id).Error("failed to encode snapshot")
		return
	}

	// Single producer per room: both participants see updates in the same
	// order they were produced.
	for _, conn := range conns {
		conn.Send(data)
	}

	if scored != game.NoScore {
		logrus.WithFields(logrus.Fields{
			"room":   r.id,
			"scorer": scored,
			"scores": scores,
		}).Debug("point scored")
	}
}

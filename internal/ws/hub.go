// Package ws binds WebSocket connections to room membership. The Hub tracks
// live connections and routes decoded protocol messages into the registry;
// everything stateful about a game lives behind the registry, not here.
package ws

import (
	"errors"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/badAtCoding144/vigilant-octo-pong/internal/protocol"
	"github.com/badAtCoding144/vigilant-octo-pong/internal/registry"
)

// Hub is the connection lifecycle handler. One instance serves all rooms.
type Hub struct {
	registry *registry.Registry

	mu      sync.RWMutex
	clients map[string]*Client

	log *logrus.Entry
}

// NewHub returns a hub dispatching into the given registry.
func NewHub(reg *registry.Registry) *Hub {
	return &Hub{
		registry: reg,
		clients:  make(map[string]*Client),
		log:      logrus.WithField("component", "hub"),
	}
}

// ClientCount returns the number of live connections.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) add(c *Client) {
	h.mu.Lock()
	h.clients[c.id] = c
	h.mu.Unlock()

	h.log.WithField("conn", c.id).Info("client connected")
}

// drop handles a transport-level disconnect: the connection leaves its room
// (stopping the loop and notifying a surviving opponent, or deleting the
// room entirely) and its send channel is closed.
func (h *Hub) drop(c *Client) {
	if roomID := c.room(); roomID != "" {
		h.registry.Leave(roomID, c)
		c.setRoom("")
	}

	h.mu.Lock()
	_, ok := h.clients[c.id]
	if ok {
		delete(h.clients, c.id)
	}
	h.mu.Unlock()
	if ok {
		c.shutdown()
	}

	h.log.WithField("conn", c.id).Info("client disconnected")
}

// route decodes one inbound frame and applies it. Malformed or unknown
// messages are logged and dropped; they never take the connection down.
func (h *Hub) route(c *Client, data []byte) {
	msg, err := protocol.ParseClientMessage(data)
	if err != nil {
		h.log.WithError(err).WithField("conn", c.id).Warn("dropping invalid message")
		return
	}

	switch msg.Type {
	case protocol.TypeCreateGame:
		h.handleCreate(c)
	case protocol.TypeJoinGame:
		h.handleJoin(c, msg.RoomID)
	case protocol.TypePaddleMove:
		// Orphaned intents (room already gone) are dropped inside the
		// registry.
		h.registry.SetPaddle(msg.RoomID, c, msg.PaddleY)
	case protocol.TypeRestartGame:
		if err := h.registry.Restart(msg.RoomID); err != nil {
			h.sendError(c, err)
		}
	}
}

func (h *Hub) handleCreate(c *Client) {
	if c.room() != "" {
		h.sendError(c, errors.New("already in a room"))
		return
	}

	roomID := h.registry.CreateRoom()
	if _, err := h.registry.Join(roomID, c); err != nil {
		// Freshly created room: the only way this fails is a teardown race.
		h.sendError(c, err)
		return
	}
	c.setRoom(roomID)

	if data, err := protocol.MarshalRoomCreated(roomID); err == nil {
		c.Send(data)
	}
}

func (h *Hub) handleJoin(c *Client, roomID string) {
	if c.room() != "" {
		h.sendError(c, errors.New("already in a room"))
		return
	}

	if _, err := h.registry.Join(roomID, c); err != nil {
		h.sendError(c, err)
		return
	}
	c.setRoom(roomID)
}

func (h *Hub) sendError(c *Client, err error) {
	data, merr := protocol.MarshalRoomError(err.Error())
	if merr != nil {
		return
	}
	c.Send(data)
}

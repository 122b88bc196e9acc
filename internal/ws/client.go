package ws

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/badAtCoding144/vigilant-octo-pong/internal/ratelimit"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096

	// Paddle intents arrive at most once per client input frame; 120/s with
	// burst headroom absorbs jittery clients without letting a flood through.
	messagesPerSecond = 120
	messageBurst      = 240

	// Snapshot frames at 60/s plus lifecycle messages; 256 covers a few
	// seconds of a stalled reader before frames start dropping.
	sendBuffer = 256
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Client is one WebSocket connection. It implements registry.Conn: the
// simulation loop and the registry deliver outbound frames through Send.
type Client struct {
	hub     *Hub
	conn    *websocket.Conn
	send    chan []byte
	id      string
	limiter *ratelimit.Limiter

	mu     sync.Mutex
	roomID string
	closed bool
}

// ID returns the connection identity used for room membership.
func (c *Client) ID() string {
	return c.id
}

// Send queues an outbound frame without blocking. A full buffer means the
// reader has stalled; the frame is dropped and the next snapshot supersedes
// it anyway. Frames sent after the connection is dropped are discarded: a
// room's tick may still hold a reference to this client for one iteration
// after it leaves.
func (c *Client) Send(data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}

	select {
	case c.send <- data:
	default:
		logrus.WithField("conn", c.id).Warn("send buffer full, dropping frame")
	}
}

// shutdown marks the client closed and releases the write pump. Safe to
// call once; drop guarantees that.
func (c *Client) shutdown() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
	close(c.send)
}

func (c *Client) room() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.roomID
}

func (c *Client) setRoom(roomID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.roomID = roomID
}

// ServeWs upgrades an HTTP request to a WebSocket connection and starts the
// client's read and write pumps.
func ServeWs(hub *Hub, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logrus.WithError(err).Warn("websocket upgrade failed")
		return
	}

	client := &Client{
		hub:     hub,
		conn:    conn,
		send:    make(chan []byte, sendBuffer),
		id:      uuid.NewString(),
		limiter: ratelimit.NewLimiter(messagesPerSecond, messageBurst),
	}

	hub.add(client)

	go client.writePump()
	go client.readPump()
}

func (c *Client) readPump() {
	defer func() {
		c.hub.drop(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	rateLimitWarnings := 0

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logrus.WithError(err).WithField("conn", c.id).Warn("websocket read error")
			}
			break
		}

		if !c.limiter.Allow() {
			rateLimitWarnings++
			if rateLimitWarnings%100 == 1 {
				logrus.WithFields(logrus.Fields{
					"conn":     c.id,
					"warnings": rateLimitWarnings,
				}).Warn("rate limit exceeded")
			}
			if rateLimitWarnings > 1000 {
				logrus.WithField("conn", c.id).Warn("disconnecting client for excessive rate limit violations")
				return
			}
			continue
		}

		c.hub.route(c, message)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

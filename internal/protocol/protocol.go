// Package protocol defines the JSON messages exchanged over the WebSocket
// connection. Every message is an object with a "type" discriminator; the
// remaining fields depend on the type.
package protocol

import (
	"encoding/json"
	"fmt"
)

// Message types sent by clients.
const (
	TypeCreateGame  = "createGame"
	TypeJoinGame    = "joinGame"
	TypePaddleMove  = "paddleMove"
	TypeRestartGame = "restartGame"
)

// Message types sent by the server. TypeRestartGame appears in both
// directions: a request from a client, a broadcast from the server.
const (
	TypeRoomCreated  = "roomCreated"
	TypeStartGame    = "startGame"
	TypeRoomError    = "roomError"
	TypeGameUpdate   = "gameUpdate"
	TypeOpponentLeft = "opponentLeft"
)

// ClientMessage is the decoded form of any inbound message. Fields that do
// not apply to the given type are left at their zero value.
type ClientMessage struct {
	Type    string  `json:"type"`
	RoomID  string  `json:"roomId,omitempty"`
	PaddleY float64 `json:"paddleY,omitempty"`
}

// ParseClientMessage decodes and validates an inbound frame. Messages that
// reference a room must carry a room identifier.
func ParseClientMessage(data []byte) (ClientMessage, error) {
	var msg ClientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return ClientMessage{}, fmt.Errorf("malformed message: %w", err)
	}

	switch msg.Type {
	case TypeCreateGame:
		return msg, nil
	case TypeJoinGame, TypePaddleMove, TypeRestartGame:
		if msg.RoomID == "" {
			return ClientMessage{}, fmt.Errorf("%s message missing roomId", msg.Type)
		}
		return msg, nil
	default:
		return ClientMessage{}, fmt.Errorf("unknown message type: %q", msg.Type)
	}
}

type roomCreated struct {
	Type   string `json:"type"`
	RoomID string `json:"roomId"`
}

type startGame struct {
	Type        string `json:"type"`
	RoomID      string `json:"roomId"`
	PlayerIndex int    `json:"playerIndex"`
}

type roomError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type gameUpdate struct {
	Type    string     `json:"type"`
	PaddleY [2]float64 `json:"paddleY"`
	BallX   float64    `json:"ballX"`
	BallY   float64    `json:"ballY"`
	Scores  [2]int     `json:"scores"`
}

type restartGame struct {
	Type   string `json:"type"`
	Scores [2]int `json:"scores"`
}

type opponentLeft struct {
	Type string `json:"type"`
}

// MarshalRoomCreated encodes the reply to a successful createGame.
func MarshalRoomCreated(roomID string) ([]byte, error) {
	return json.Marshal(roomCreated{Type: TypeRoomCreated, RoomID: roomID})
}

// MarshalStartGame encodes the game-active notification. Each participant
// receives their own player index.
func MarshalStartGame(roomID string, playerIndex int) ([]byte, error) {
	return json.Marshal(startGame{Type: TypeStartGame, RoomID: roomID, PlayerIndex: playerIndex})
}

// MarshalRoomError encodes an error surfaced to a single client.
func MarshalRoomError(message string) ([]byte, error) {
	return json.Marshal(roomError{Type: TypeRoomError, Message: message})
}

// MarshalGameUpdate encodes the authoritative per-tick snapshot.
func MarshalGameUpdate(paddles [2]float64, ballX, ballY float64, scores [2]int) ([]byte, error) {
	return json.Marshal(gameUpdate{
		Type:    TypeGameUpdate,
		PaddleY: paddles,
		BallX:   ballX,
		BallY:   ballY,
		Scores:  scores,
	})
}

// MarshalRestart encodes the server restart broadcast carrying the reset
// score line.
func MarshalRestart(scores [2]int) ([]byte, error) {
	return json.Marshal(restartGame{Type: TypeRestartGame, Scores: scores})
}

// MarshalOpponentLeft encodes the notification sent to a participant whose
// opponent disconnected.
func MarshalOpponentLeft() ([]byte, error) {
	return json.Marshal(opponentLeft{Type: TypeOpponentLeft})
}

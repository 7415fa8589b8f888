package ws

import "encoding/json"

// Event is the envelope for every message on a websocket connection,
// in both directions.
type Event struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type EventHandler func(evt Event, c *Client) error

// Inbound event types (client to coordinator).
const (
	EventJoinRoom  = "joinRoom"
	EventStartGame = "startGame"
	EventMove      = "move"

	// emitted internally by the transport layer when a connection closes
	EventDisconnect = "disconnect"
)

// Outbound event types (coordinator to clients).
const (
	EventPlayerRole    = "playerRole"
	EventSpectatorRole = "spectatorRole"
	EventBoardState    = "broadState"
	EventGameStarted   = "gameStarted"
	EventError         = "error"
	EventGameOver      = "gameOver"
	EventOpponentLeft  = "opponentDisconnected"
)

type PayloadRoom struct {
	RoomID string `json:"roomId" validate:"required"`
}

type PayloadMove struct {
	From      string `json:"from" validate:"required,len=2"`
	To        string `json:"to" validate:"required,len=2"`
	Promotion string `json:"promotion,omitempty" validate:"omitempty,len=1"`
}

type PayloadError struct {
	Message string `json:"message"`
}

func NewEvent(evtType string, payload any) (Event, error) {
	b, err := json.Marshal(payload)

	if err != nil {
		return Event{}, err
	}

	return Event{Type: evtType, Payload: b}, nil
}

func NewErrorEvent(message string) (Event, error) {
	return NewEvent(EventError, PayloadError{Message: message})
}

package ws

import (
	"encoding/json"
	"errors"
	"log"

	"github.com/judgegodwins/chess-rooms/engine"
)

// JoinRoomHandler resolves (or lazily creates) the requested room, seats
// the connection, and sends the assigned role plus the current position
// to the joiner alone. Joining while another room is current is an
// explicit leave-then-join: the prior room's slot is vacated first.
func JoinRoomHandler(e Event, c *Client) error {
	var payload PayloadRoom

	if err := json.Unmarshal(e.Payload, &payload); err != nil {
		return err
	}

	m := c.manager

	if err := m.validate.Struct(payload); err != nil {
		return errors.New("a room id is required to join")
	}

	if c.room != "" && c.room != payload.RoomID {
		m.leaveCurrentRoom(c)
	}

	room := m.registry.GetOrCreate(payload.RoomID)

	// rejoining the same room reassigns the role from scratch
	if c.room == room.ID {
		room.RemoveConnection(c.ID)
	}

	role := room.AssignRole(c.ID)
	c.room = room.ID

	switch role {
	case RoleWhite, RoleBlack:
		if err := c.PushEvent(EventPlayerRole, role); err != nil {
			return err
		}
	default:
		if err := c.PushEvent(EventSpectatorRole, nil); err != nil {
			return err
		}
	}

	return c.PushEvent(EventBoardState, room.FEN())
}

// StartGameHandler begins the game in the session's current room once
// both player slots are filled, announcing the start and the fresh
// position to every member.
func StartGameHandler(e Event, c *Client) error {
	var payload PayloadRoom

	if err := json.Unmarshal(e.Payload, &payload); err != nil {
		return err
	}

	m := c.manager

	// a start for a room this session never joined is treated as
	// already-consistent and dropped
	if c.room == "" || c.room != payload.RoomID {
		log.Printf("ignoring startGame for room %v from client %v", payload.RoomID, c.ID)
		return nil
	}

	room := m.registry.Get(c.room)

	if room == nil {
		c.room = ""
		return nil
	}

	if !room.Start() {
		return errors.New("both players must be present to start")
	}

	started, err := NewEvent(EventGameStarted, nil)

	if err != nil {
		return err
	}

	state, err := NewEvent(EventBoardState, room.FEN())

	if err != nil {
		return err
	}

	m.broadcast(room, started)
	m.broadcast(room, state)

	return nil
}

// MoveHandler relays a move through the session's current room. Accepted
// moves fan out to every member; rejections go back to the sender alone.
func MoveHandler(e Event, c *Client) error {
	var payload PayloadMove

	if err := json.Unmarshal(e.Payload, &payload); err != nil {
		return err
	}

	m := c.manager

	if c.room == "" {
		log.Printf("ignoring move from client %v with no room", c.ID)
		return nil
	}

	room := m.registry.Get(c.room)

	if room == nil {
		c.room = ""
		return nil
	}

	if err := m.validate.Struct(payload); err != nil {
		return ErrInvalidMove
	}

	result, err := room.ApplyMove(c.ID, engine.Move{
		From:      payload.From,
		To:        payload.To,
		Promotion: payload.Promotion,
	})

	if err != nil {
		return err
	}

	moveEvt, err := NewEvent(EventMove, payload)

	if err != nil {
		return err
	}

	state, err := NewEvent(EventBoardState, result.FEN)

	if err != nil {
		return err
	}

	m.broadcast(room, moveEvt)
	m.broadcast(room, state)

	if result.GameOver != "" {
		over, err := NewEvent(EventGameOver, "Game Over - "+result.GameOver)

		if err != nil {
			return err
		}

		m.broadcast(room, over)
	}

	return nil
}

package ws

import (
	"errors"
	"log"

	"github.com/judgegodwins/chess-rooms/engine"
	"github.com/samber/lo"
)

type Role string

const (
	RoleWhite     Role = "w"
	RoleBlack     Role = "b"
	RoleSpectator Role = "spectator"
)

// Errors surfaced to the submitting connection as error events. The
// messages are part of the wire protocol, so they read like user text.
var (
	ErrNotYourTurn    = errors.New("Not your turn")
	ErrInvalidMove    = errors.New("Invalid move")
	ErrGameNotStarted = errors.New("Game has not started")
)

// Room is one isolated game: a position, the two player slots and any
// number of spectators. Slots hold connection IDs; an empty string means
// the slot is vacant. Rooms are only ever touched by the manager's
// dispatch goroutine, so none of this needs locking.
type Room struct {
	ID         string
	game       *engine.Game
	white      string
	black      string
	spectators map[string]struct{}
	started    bool
}

func NewRoom(id string) *Room {
	return &Room{
		ID:         id,
		game:       engine.NewGame(),
		spectators: make(map[string]struct{}),
	}
}

// AssignRole seats a connection: the white slot if vacant, else the black
// slot, else the spectator set. Assignment is total; every caller gets a
// role.
func (r *Room) AssignRole(connID string) Role {
	if r.white == "" {
		r.white = connID
		return RoleWhite
	}

	if r.black == "" {
		r.black = connID
		return RoleBlack
	}

	r.spectators[connID] = struct{}{}
	return RoleSpectator
}

// Start begins (or restarts) the game once both player slots are filled.
// The position always resets to the starting layout so a finished room
// can host a rematch. With a vacant slot this is a strict no-op.
func (r *Room) Start() bool {
	if r.white == "" || r.black == "" {
		return false
	}

	r.game.Reset()
	r.started = true

	return true
}

// MoveResult describes an accepted move: the resulting position and, when
// the move ended the game, a human-readable reason.
type MoveResult struct {
	FEN      string
	GameOver string
}

// ApplyMove checks that the game is live, that connID holds the slot of
// the side to move, and that the rules engine accepts the move. Rejections
// leave the position untouched. A terminal move clears the started flag,
// so no further moves count as in-turn until the next Start.
func (r *Room) ApplyMove(connID string, mv engine.Move) (MoveResult, error) {
	if !r.started {
		return MoveResult{}, ErrGameNotStarted
	}

	switch r.game.Turn() {
	case "w":
		if connID != r.white {
			return MoveResult{}, ErrNotYourTurn
		}
	case "b":
		if connID != r.black {
			return MoveResult{}, ErrNotYourTurn
		}
	}

	if err := r.game.Apply(mv); err != nil {
		log.Printf("room %v rejected move from %v: %v", r.ID, connID, err)
		return MoveResult{}, ErrInvalidMove
	}

	result := MoveResult{FEN: r.game.FEN()}

	if reason, over := r.game.Outcome(); over {
		result.GameOver = reason
		r.started = false
	}

	return result, nil
}

// RemoveConnection takes connID out of whichever set contains it. Removing
// an identity the room never held is a no-op.
func (r *Room) RemoveConnection(connID string) {
	switch connID {
	case "":
		return
	case r.white:
		r.white = ""
	case r.black:
		r.black = ""
	default:
		delete(r.spectators, connID)
	}
}

// IsPlayer reports whether connID occupies one of the two player slots.
func (r *Room) IsPlayer(connID string) bool {
	return connID != "" && (connID == r.white || connID == r.black)
}

// Empty reports whether both slots and the spectator set are vacant.
func (r *Room) Empty() bool {
	return r.white == "" && r.black == "" && len(r.spectators) == 0
}

// Members returns the connection IDs of everyone in the room.
func (r *Room) Members() []string {
	members := make([]string, 0, 2+len(r.spectators))

	if r.white != "" {
		members = append(members, r.white)
	}

	if r.black != "" {
		members = append(members, r.black)
	}

	return append(members, lo.Keys(r.spectators)...)
}

// FEN returns the serialization of the room's current position.
func (r *Room) FEN() string {
	return r.game.FEN()
}

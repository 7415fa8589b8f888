package ws

import (
	"testing"

	"github.com/judgegodwins/chess-rooms/engine"
	"github.com/stretchr/testify/require"
)

func TestAssignRole(t *testing.T) {
	t.Run("first two connections become players, the rest spectate", func(t *testing.T) {
		room := NewRoom("r1")

		require.Equal(t, RoleWhite, room.AssignRole("a"))
		require.Equal(t, RoleBlack, room.AssignRole("b"))
		require.Equal(t, RoleSpectator, room.AssignRole("c"))
		require.Equal(t, RoleSpectator, room.AssignRole("d"))
	})

	t.Run("a vacated slot is handed to the next joiner", func(t *testing.T) {
		room := NewRoom("r1")

		room.AssignRole("a")
		room.AssignRole("b")
		room.RemoveConnection("a")

		require.Equal(t, RoleWhite, room.AssignRole("c"))
		require.Equal(t, RoleSpectator, room.AssignRole("d"))
	})
}

func TestStart(t *testing.T) {
	t.Run("no-op with zero or one player", func(t *testing.T) {
		room := NewRoom("r1")

		require.False(t, room.Start())

		room.AssignRole("a")

		require.False(t, room.Start())
		require.False(t, room.started)
	})

	t.Run("starts once both slots are filled", func(t *testing.T) {
		room := NewRoom("r1")
		room.AssignRole("a")
		room.AssignRole("b")

		require.True(t, room.Start())
		require.True(t, room.started)
		require.Equal(t, engine.StartingFEN, room.FEN())
	})

	t.Run("restart resets the position for a rematch", func(t *testing.T) {
		room := startedRoom(t)

		_, err := room.ApplyMove("a", engine.Move{From: "e2", To: "e4"})
		require.NoError(t, err)
		require.NotEqual(t, engine.StartingFEN, room.FEN())

		require.True(t, room.Start())
		require.Equal(t, engine.StartingFEN, room.FEN())
	})
}

func TestApplyMove(t *testing.T) {
	t.Run("rejected before the game starts", func(t *testing.T) {
		room := NewRoom("r1")
		room.AssignRole("a")
		room.AssignRole("b")

		_, err := room.ApplyMove("a", engine.Move{From: "e2", To: "e4"})

		require.ErrorIs(t, err, ErrGameNotStarted)
	})

	t.Run("in turn and legal", func(t *testing.T) {
		room := startedRoom(t)

		result, err := room.ApplyMove("a", engine.Move{From: "e2", To: "e4"})

		require.NoError(t, err)
		require.Equal(t, room.FEN(), result.FEN)
		require.Empty(t, result.GameOver)
	})

	t.Run("in turn but illegal", func(t *testing.T) {
		room := startedRoom(t)

		_, err := room.ApplyMove("a", engine.Move{From: "e2", To: "e5"})

		require.ErrorIs(t, err, ErrInvalidMove)
		require.Equal(t, engine.StartingFEN, room.FEN())
	})

	t.Run("out of turn with a legal move", func(t *testing.T) {
		room := startedRoom(t)

		_, err := room.ApplyMove("b", engine.Move{From: "e7", To: "e5"})

		require.ErrorIs(t, err, ErrNotYourTurn)
		require.Equal(t, engine.StartingFEN, room.FEN())
	})

	t.Run("out of turn with an illegal move", func(t *testing.T) {
		room := startedRoom(t)

		_, err := room.ApplyMove("b", engine.Move{From: "e7", To: "e4"})

		require.ErrorIs(t, err, ErrNotYourTurn)
	})

	t.Run("spectators are never in turn", func(t *testing.T) {
		room := startedRoom(t)
		room.AssignRole("c")

		_, err := room.ApplyMove("c", engine.Move{From: "e2", To: "e4"})

		require.ErrorIs(t, err, ErrNotYourTurn)
	})

	t.Run("checkmate ends the game and blocks further moves", func(t *testing.T) {
		room := startedRoom(t)

		playFoolsMate(t, room)

		_, err := room.ApplyMove("a", engine.Move{From: "a2", To: "a3"})
		require.ErrorIs(t, err, ErrGameNotStarted)
	})
}

func TestRemoveConnection(t *testing.T) {
	room := NewRoom("r1")
	room.AssignRole("a")
	room.AssignRole("b")
	room.AssignRole("c")

	t.Run("vacates exactly the slot held by the identity", func(t *testing.T) {
		room.RemoveConnection("b")

		require.Equal(t, "a", room.white)
		require.Empty(t, room.black)
		require.Contains(t, room.spectators, "c")
	})

	t.Run("unknown identity is a no-op", func(t *testing.T) {
		room.RemoveConnection("nobody")
		room.RemoveConnection("")

		require.Equal(t, "a", room.white)
		require.Contains(t, room.spectators, "c")
	})

	t.Run("room is empty once everyone is gone", func(t *testing.T) {
		room.RemoveConnection("a")
		room.RemoveConnection("c")

		require.True(t, room.Empty())
	})
}

func TestMembers(t *testing.T) {
	room := NewRoom("r1")

	require.Empty(t, room.Members())

	room.AssignRole("a")
	room.AssignRole("b")
	room.AssignRole("c")

	require.ElementsMatch(t, []string{"a", "b", "c"}, room.Members())
}

// startedRoom seats "a" as white and "b" as black and starts the game.
func startedRoom(t *testing.T) *Room {
	t.Helper()

	room := NewRoom("r1")
	room.AssignRole("a")
	room.AssignRole("b")
	require.True(t, room.Start())

	return room
}

// playFoolsMate has black checkmate white in two moves.
func playFoolsMate(t *testing.T, room *Room) {
	t.Helper()

	moves := []struct {
		conn string
		mv   engine.Move
	}{
		{"a", engine.Move{From: "f2", To: "f3"}},
		{"b", engine.Move{From: "e7", To: "e5"}},
		{"a", engine.Move{From: "g2", To: "g4"}},
		{"b", engine.Move{From: "d8", To: "h4"}},
	}

	for i, step := range moves {
		result, err := room.ApplyMove(step.conn, step.mv)
		require.NoError(t, err)

		if i == len(moves)-1 {
			require.Equal(t, "Checkmate", result.GameOver)
		} else {
			require.Empty(t, result.GameOver)
		}
	}
}

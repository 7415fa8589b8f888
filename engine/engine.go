// Package engine wraps the chess rules library behind the small surface
// the room coordinator needs: apply a move, read the position, report
// whether the game has ended. Rooms never talk to the library directly.
package engine

import (
	"fmt"
	"strings"

	"github.com/notnil/chess"
)

const StartingFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// Move is a proposed move in coordinate form, e.g. {From: "e2", To: "e4"}.
// Promotion is the optional promotion piece letter ("q", "r", "b", "n").
type Move struct {
	From      string
	To        string
	Promotion string
}

func (m Move) uci() string {
	return strings.ToLower(strings.TrimSpace(m.From) + strings.TrimSpace(m.To) + strings.TrimSpace(m.Promotion))
}

// Game holds one board position and applies moves against it.
type Game struct {
	inner *chess.Game
}

func NewGame() *Game {
	return &Game{inner: chess.NewGame()}
}

func NewGameFromFEN(fen string) (*Game, error) {
	opt, err := chess.FEN(fen)

	if err != nil {
		return nil, err
	}

	return &Game{inner: chess.NewGame(opt)}, nil
}

// Reset puts the game back at the starting position.
func (g *Game) Reset() {
	g.inner = chess.NewGame()
}

// FEN returns the full serialization of the current position.
func (g *Game) FEN() string {
	return g.inner.Position().String()
}

// Turn reports the side to move, "w" or "b".
func (g *Game) Turn() string {
	return g.inner.Position().Turn().String()
}

// Apply validates mv against the current position and advances it.
// Any fault inside the rules library, including a panic, comes back as a
// plain error so a bad move can never take down the caller.
func (g *Game) Apply(mv Move) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("rules engine fault: %v", r)
		}
	}()

	uci := mv.uci()

	if err := g.tryUCI(uci); err == nil {
		return nil
	}

	// a bare from-to landing on a back rank may be a pawn promotion;
	// default to queen, matching what most clients send
	if len(uci) == 4 && (uci[3] == '1' || uci[3] == '8') {
		if err := g.tryUCI(uci + "q"); err == nil {
			return nil
		}
	}

	return fmt.Errorf("illegal move %q", uci)
}

func (g *Game) tryUCI(uci string) error {
	move, err := chess.UCINotation{}.Decode(g.inner.Position(), uci)

	if err != nil {
		return err
	}

	if err := g.inner.Move(move); err != nil {
		return err
	}

	g.claimDraws()

	return nil
}

// claimDraws ends the game when a claimable draw condition is reached.
// Threefold repetition and the fifty move rule only terminate the game on
// request, but the coordinator treats them as terminal like checkmate.
func (g *Game) claimDraws() {
	for _, method := range g.inner.EligibleDraws() {
		if method == chess.ThreefoldRepetition || method == chess.FiftyMoveRule {
			g.inner.Draw(method)
			return
		}
	}
}

// Outcome reports whether the game has ended and, if so, a human-readable
// reason such as "Checkmate" or "Draw by Insufficient Material".
func (g *Game) Outcome() (string, bool) {
	if g.inner.Outcome() == chess.NoOutcome {
		return "", false
	}

	switch g.inner.Method() {
	case chess.Checkmate:
		return "Checkmate", true
	case chess.Stalemate:
		return "Stalemate", true
	case chess.ThreefoldRepetition, chess.FivefoldRepetition:
		return "Draw by Repetition", true
	case chess.FiftyMoveRule, chess.SeventyFiveMoveRule:
		return "Draw by Fifty Move Rule", true
	case chess.InsufficientMaterial:
		return "Draw by Insufficient Material", true
	default:
		return "Draw", true
	}
}

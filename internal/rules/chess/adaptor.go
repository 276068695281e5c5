// Package chess implements the rules.GameRules capability for standard chess and
// Chess960/Fischer-Random, built on a bitboard/rotated-bitboard move generator adapted
// from the teacher's pkg/board package (whose own PseudoLegalMoves was an unfinished
// stub; this package supplies a complete, self-consistent implementation in the same
// idiom: Square/Piece/Color/Castling/Bitboard value types, RotatedBitboard attack tables,
// Zobrist hashing for repetition).
package chess

import (
	"fmt"

	"github.com/herohde/fastbench/internal/rules"
)

const (
	repetitionLimit    = 3
	noProgressPlyLimit = 100 // half-moves; fifty-move rule is 50 full moves = 100 plies
)

// snapshot is one entry in a Game's position history, used for repetition detection.
type snapshot struct {
	hash ZobristHash
	pos  *Position
}

// Game is the chess-variant GameState: current position, side to move, and the history
// needed for the fifty-move rule and threefold repetition.
type Game struct {
	zt      *ZobristTable
	history []snapshot

	pos        *Position
	turn       Color
	halfMoves  int // no-progress clock
	fullMoves  int
	ply        int
	chess960   bool
}

func (g *Game) Ply() int { return g.ply }

// Rules implements rules.GameRules for standard chess and Chess960.
type Rules struct {
	Chess960 bool
}

var _ rules.GameRules = (*Rules)(nil)

func (r *Rules) Variant() rules.Variant {
	if r.Chess960 {
		return rules.Chess960
	}
	return rules.Standard
}

func (r *Rules) NewGame(startFEN string, prefixMoves []string) (rules.GameState, error) {
	fen := startFEN
	if fen == "" {
		fen = StartFEN
	}
	st, err := ParseFEN(fen)
	if err != nil {
		return nil, fmt.Errorf("chess: %w", err)
	}

	zt := NewZobristTable(1)
	g := &Game{
		zt:        zt,
		pos:       st.Pos,
		turn:      st.Turn,
		halfMoves: st.HalfMoves,
		fullMoves: st.FullMoves,
		chess960:  r.Chess960,
	}
	g.history = append(g.history, snapshot{hash: zt.Hash(g.pos, g.turn), pos: g.pos})

	for _, text := range prefixMoves {
		m, err := r.ParseMove(g, text)
		if err != nil {
			return nil, fmt.Errorf("chess: opening prefix move %q: %w", text, err)
		}
		if _, err := r.Apply(g, m); err != nil {
			return nil, fmt.Errorf("chess: opening prefix move %q: %w", text, err)
		}
	}
	return g, nil
}

func (r *Rules) ParseMove(state rules.GameState, text string) (rules.Move, error) {
	g := state.(*Game)

	bare, err := ParseMove(text)
	if err != nil {
		return rules.Move{Text: text}, err
	}
	full, ok := g.pos.Disambiguate(g.turn, bare)
	if !ok {
		return rules.Move{Text: text}, fmt.Errorf("illegal move: %v", text)
	}
	return rules.Move{Text: full.String(), Legal: true}, nil
}

func (r *Rules) Apply(state rules.GameState, m rules.Move) (string, error) {
	g := state.(*Game)

	bare, err := ParseMove(m.Text)
	if err != nil {
		return "", err
	}
	full, ok := g.pos.Disambiguate(g.turn, bare)
	if !ok {
		return "", fmt.Errorf("illegal move: %v", m.Text)
	}

	next, err := g.pos.Apply(g.turn, full)
	if err != nil {
		return "", err
	}

	nextHash := g.zt.Move(g.history[len(g.history)-1].hash, g.pos, g.turn, full)

	if full.Type == Normal {
		g.halfMoves++
	} else {
		g.halfMoves = 0
	}

	g.pos = next
	g.turn = g.turn.Opponent()
	g.ply++
	if g.turn == White {
		g.fullMoves++
	}
	g.history = append(g.history, snapshot{hash: nextHash, pos: g.pos})

	return FEN(g.pos, g.turn, g.halfMoves, g.fullMoves), nil
}

func (r *Rules) Status(state rules.GameState) rules.Status {
	g := state.(*Game)

	if len(g.pos.LegalMoves(g.turn)) == 0 {
		mover := rules.First
		if g.turn == Black {
			mover = rules.Second
		}
		if g.pos.IsChecked(g.turn) {
			winner := mover.Opponent()
			return rules.Status{Reason: rules.Checkmate, Winner: &winner}
		}
		return rules.Status{Reason: rules.Stalemate}
	}

	if g.pos.HasInsufficientMaterial() {
		return rules.Status{Reason: rules.InsufficientMaterial}
	}

	if g.halfMoves >= noProgressPlyLimit {
		return rules.Status{Reason: rules.FiftyMoveRule}
	}

	count := 0
	cur := g.history[len(g.history)-1]
	for _, s := range g.history {
		if s.hash == cur.hash && *s.pos == *cur.pos {
			count++
		}
	}
	if count >= repetitionLimit {
		return rules.Status{Reason: rules.Repetition}
	}

	return rules.Ongoing
}

func (r *Rules) FEN(state rules.GameState) string {
	g := state.(*Game)
	return FEN(g.pos, g.turn, g.halfMoves, g.fullMoves)
}

func (r *Rules) HalfMoveClock(state rules.GameState) int {
	return state.(*Game).halfMoves
}

// ShouldAdjudicateTB is a stub: Syzygy probing is deliberately out of the core's scope
// (spec.md §1 lists it as an external collaborator); the original source's own
// TbAdjudicationTracker is likewise a stub pending a real probing library, so this
// mirrors that honestly rather than faking support.
func (r *Rules) ShouldAdjudicateTB(state rules.GameState, maxPieces int, ignoreFiftyMove bool) (*rules.Color, bool) {
	return nil, false
}

// Package rules defines the variant-agnostic game-rules capability that internal/match
// depends on (parse move, apply, status, FEN round-trip), following the "trait
// polymorphism for the rules core" design note: a single Go interface held by Match,
// implemented per variant, rather than an inheritance hierarchy.
package rules

import "fmt"

// Variant identifies which rules adaptor and UCI/USI dialect a game uses.
type Variant int

const (
	Standard Variant = iota
	Chess960
	Shogi
)

func (v Variant) String() string {
	switch v {
	case Standard:
		return "standard"
	case Chess960:
		return "fischerandom"
	case Shogi:
		return "shogi"
	default:
		return "unknown"
	}
}

func ParseVariant(s string) (Variant, error) {
	switch s {
	case "", "standard", "chess":
		return Standard, nil
	case "fischerandom", "chess960", "frc":
		return Chess960, nil
	case "shogi":
		return Shogi, nil
	default:
		return Standard, fmt.Errorf("unknown variant: %q", s)
	}
}

// Color is the unified first/second-mover color, named First/Second because shogi's Sente
// moves first just as chess's White does.
type Color int

const (
	First Color = iota
	Second
)

func (c Color) Opponent() Color {
	if c == First {
		return Second
	}
	return First
}

// Name returns the variant-appropriate human name for this color (White/Black for chess
// variants, Sente/Gote for shogi).
func (c Color) Name(v Variant) string {
	if v == Shogi {
		if c == First {
			return "Sente"
		}
		return "Gote"
	}
	if c == First {
		return "White"
	}
	return "Black"
}

// GameOverReason enumerates why a game ended by rules (as opposed to adjudication).
type GameOverReason int

const (
	NoReason GameOverReason = iota
	Checkmate
	Stalemate
	InsufficientMaterial
	Repetition
	FiftyMoveRule
)

// Message renders the human-readable termination reason, matching the exact strings the
// spec's seed scenarios require (e.g. "Black mates", "Draw by 3-fold repetition").
func (r GameOverReason) Message(winner *Color, v Variant) string {
	switch r {
	case NoReason:
		return ""
	case Checkmate:
		if winner != nil {
			return fmt.Sprintf("%v mates", winner.Name(v))
		}
		return "Checkmate"
	case Stalemate:
		return "Draw by stalemate"
	case InsufficientMaterial:
		return "Draw by insufficient mating material"
	case Repetition:
		if v == Shogi {
			return "Draw by 4-fold repetition"
		}
		return "Draw by 3-fold repetition"
	case FiftyMoveRule:
		return "Draw by fifty moves rule"
	default:
		return "Draw"
	}
}

func (r GameOverReason) IsDraw() bool {
	switch r {
	case Stalemate, InsufficientMaterial, Repetition, FiftyMoveRule:
		return true
	default:
		return false
	}
}

// Status reports whether the game is over by rules, and if so why and who (if anyone) won.
type Status struct {
	Reason GameOverReason
	Winner *Color // nil for draws or an ongoing game
}

var Ongoing = Status{Reason: NoReason}

func (s Status) IsGameOver() bool  { return s.Reason != NoReason }
func (s Status) IsDraw() bool      { return s.Reason.IsDraw() }
func (s Status) IsOngoing() bool   { return s.Reason == NoReason }

// Move is the variant-agnostic move representation the match loop records: the raw
// UCI/USI token plus a legality flag, with notation conversion left to the adaptor.
type Move struct {
	Text  string // the move exactly as sent/received over the wire
	Legal bool
}

// GameState is the opaque, variant-specific board + history state a Match drives through
// one game. Each GameRules implementation supplies its own concrete type behind this
// interface; Match never inspects it directly.
type GameState interface {
	// Ply returns the number of half-moves applied since the starting position.
	Ply() int
}

// GameRules is the capability set the match loop needs from a board-variant adaptor:
// parse/validate a move, apply it, report status, and round-trip FEN/SFEN. Implemented
// by rules/chess.Rules (standard + chess960) and rules/shogi.Rules.
type GameRules interface {
	Variant() Variant

	// NewGame constructs a GameState from a starting position string (empty means the
	// variant's default starting position) with the given prefix moves already applied.
	NewGame(startFEN string, prefixMoves []string) (GameState, error)

	// ParseMove validates text (e.g. "e2e4") against the live state and returns the
	// variant-internal move representation, or an error if it is not legal right now.
	ParseMove(state GameState, text string) (Move, error)

	// Apply mutates state by playing m (which must have come from ParseMove on the same
	// state) and returns the FEN/SFEN-equivalent position string after the move.
	Apply(state GameState, m Move) (string, error)

	// Status reports the rules-based game-over condition, if any, given the live state.
	Status(state GameState) Status

	// FEN renders the live state's position in the variant's native notation.
	FEN(state GameState) string

	// HalfMoveClock returns the current no-progress (fifty-move rule) counter.
	HalfMoveClock(state GameState) int

	// ShouldAdjudicateTB asks the variant's tablebase hook (if any) whether the position
	// qualifies for tablebase adjudication; returns (winner-or-nil-for-draw, true) if so.
	ShouldAdjudicateTB(state GameState, maxPieces int, ignoreFiftyMove bool) (*Color, bool)
}

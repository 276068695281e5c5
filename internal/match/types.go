// Package match implements Match (spec.md §4.4): one game's state machine, driving two
// EngineSessions ply by ply through rules-based termination checks, adjudication, and move
// application, and collecting a MatchData record of the result.
package match

import (
	"github.com/herohde/fastbench/internal/rules"
	"github.com/herohde/fastbench/internal/score"
	"github.com/herohde/fastbench/internal/session"
)

// Opening is a starting position plus already-legal prefix moves, per spec.md §3.
type Opening struct {
	StartFEN    string // empty means the variant's default starting position
	PrefixMoves []string
}

// GameResult is one player's final outcome, computed in the first-mover's perspective (the
// engine bound to rules.First in that particular game).
type GameResult int

const (
	ResultNone GameResult = iota
	ResultWin
	ResultLose
	ResultDraw
)

func (r GameResult) String() string {
	switch r {
	case ResultWin:
		return "Win"
	case ResultLose:
		return "Lose"
	case ResultDraw:
		return "Draw"
	default:
		return "None"
	}
}

// Termination classifies why a Match returned, per spec.md §4.4/§7.
type Termination int

const (
	TerminationNone Termination = iota
	Normal
	Adjudication
	Timeout
	Disconnect
	Stall
	IllegalMove
	Interrupt
)

func (t Termination) String() string {
	switch t {
	case Normal:
		return "Normal"
	case Adjudication:
		return "Adjudication"
	case Timeout:
		return "Timeout"
	case Disconnect:
		return "Disconnect"
	case Stall:
		return "Stall"
	case IllegalMove:
		return "IllegalMove"
	case Interrupt:
		return "Interrupt"
	default:
		return "None"
	}
}

// PlayerRecord is one side's configuration name and final GameResult.
type PlayerRecord struct {
	Name   string
	Result GameResult
}

// MoveRecord is one half-move's full record, per spec.md §3.
type MoveRecord struct {
	Ply int

	Move  string // the raw UCI/USI token
	Legal bool

	Score score.Score
	Info  session.InfoData

	ElapsedMillis   int64 // wall time the engine took to reply
	LatencyMillis   int64 // elapsed minus the engine's own self-reported "time", if any
	TimeLeftMillis  int64 // remaining clock time after this move was applied

	Book bool // true if this move came from the opening's prefix rather than being searched
}

// MatchData is the full record of one completed game, per spec.md §3. Termination is
// guaranteed non-None on return from Match.Play.
type MatchData struct {
	First, Second PlayerRecord

	StartFEN string
	Variant  rules.Variant

	Moves []MoveRecord

	Reason      string
	Termination Termination
}

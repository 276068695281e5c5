// Package protocol holds the variant-keyed UCI/USI wire vocabulary: the handful of
// keywords and command strings that differ between chess's UCI and shogi's USI, kept as
// a small value type rather than scattering protocol_type == Usi checks through the
// session and match layers (the same "trait polymorphism" idea spec.md §9 asks for on
// the rules side, applied here to the wire dialect).
package protocol

import (
	"fmt"
	"strings"

	"github.com/herohde/fastbench/internal/rules"
)

// Type distinguishes the two stdio dialects this engine pool drives.
type Type int

const (
	UCI Type = iota
	USI
)

func (t Type) String() string {
	if t == USI {
		return "usi"
	}
	return "uci"
}

// FromVariant picks the wire dialect for a variant: chess and Chess960 speak UCI, shogi
// speaks USI.
func FromVariant(v rules.Variant) Type {
	if v == rules.Shogi {
		return USI
	}
	return UCI
}

// Protocol is the immutable keyword table for one dialect.
type Protocol struct {
	typ Type
}

func New(v rules.Variant) Protocol { return Protocol{typ: FromVariant(v)} }

func UCIProtocol() Protocol { return Protocol{typ: UCI} }
func USIProtocol() Protocol { return Protocol{typ: USI} }

func (p Protocol) Type() Type   { return p.typ }
func (p Protocol) IsUCI() bool  { return p.typ == UCI }
func (p Protocol) IsUSI() bool  { return p.typ == USI }

// InitCmd is the handshake command that activates the protocol ("uci" or "usi").
func (p Protocol) InitCmd() string {
	if p.typ == USI {
		return "usi"
	}
	return "uci"
}

// InitOk is the expected response to InitCmd.
func (p Protocol) InitOk() string {
	if p.typ == USI {
		return "usiok"
	}
	return "uciok"
}

// NewGameCmd is sent before the first position of every new game. UCI engines get the
// dedicated "ucinewgame" notification; USI has no equivalent; spec.md §4.3 substitutes a
// plain "isready" ping so the session still gets an affirmative readyok round-trip before
// handing the engine a fresh game.
func (p Protocol) NewGameCmd() string {
	if p.typ == USI {
		return "isready"
	}
	return "ucinewgame"
}

// FENKeyword names the position-string token in the "position" command.
func (p Protocol) FENKeyword() string {
	if p.typ == USI {
		return "sfen"
	}
	return "fen"
}

// PositionCmd builds the full "position ..." line for a fresh fen/sfen (or "startpos")
// plus the moves already played from it.
func (p Protocol) PositionCmd(fen string, moves []string) string {
	var b strings.Builder
	if fen == "" || fen == "startpos" {
		b.WriteString("position startpos")
	} else {
		fmt.Fprintf(&b, "position %s %s", p.FENKeyword(), fen)
	}
	if len(moves) > 0 {
		b.WriteString(" moves")
		for _, m := range moves {
			b.WriteByte(' ')
			b.WriteString(m)
		}
	}
	return b.String()
}

// FirstPlayerTime is the "go" time-left keyword for whoever moves first: White in UCI,
// Black/Sente in USI (shogi's Sente moves first, and USI's wtime/btime keywords are fixed
// to White/Black regardless, so the mapping swaps here rather than in the keyword itself).
func (p Protocol) FirstPlayerTime() string {
	if p.typ == USI {
		return "btime"
	}
	return "wtime"
}

func (p Protocol) SecondPlayerTime() string {
	if p.typ == USI {
		return "wtime"
	}
	return "btime"
}

func (p Protocol) FirstPlayerInc() string {
	if p.typ == USI {
		return "binc"
	}
	return "winc"
}

func (p Protocol) SecondPlayerInc() string {
	if p.typ == USI {
		return "winc"
	}
	return "binc"
}

// TranslateOptionName maps a canonical UCI option name to the dialect-specific one USI
// engines expect ("Hash" -> "USI_Hash", "MultiPV" -> "USI_MultiPV"); all other names, and
// all UCI names, pass through unchanged.
func (p Protocol) TranslateOptionName(name string) string {
	if p.typ != USI {
		return name
	}
	switch name {
	case "Hash":
		return "USI_Hash"
	case "MultiPV":
		return "USI_MultiPV"
	default:
		return name
	}
}

// FirstPlayerName/SecondPlayerName give the dialect's human names for the two sides, used
// in logs and PGN-equivalent headers.
func (p Protocol) FirstPlayerName() string {
	if p.typ == USI {
		return "Sente"
	}
	return "White"
}

func (p Protocol) SecondPlayerName() string {
	if p.typ == USI {
		return "Gote"
	}
	return "Black"
}

// IsBestmoveWin reports whether a raw "bestmove" token is USI's explicit win declaration;
// UCI has no such token so this is always false for it.
func (p Protocol) IsBestmoveWin(bestmove string) bool {
	return p.typ == USI && bestmove == "win"
}

// IsBestmoveResign reports whether a raw "bestmove" token is USI's explicit resignation.
// UCI has no such token so this is always false for it; a UCI null move "0000" is not
// treated as resignation and is passed on as an ordinary move.
func (p Protocol) IsBestmoveResign(bestmove string) bool {
	return p.typ == USI && bestmove == "resign"
}

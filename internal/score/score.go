// Package score holds the engine evaluation value reported alongside a bestmove: either a
// centipawn value or a mate-in-N count, plus the string rendering spec.md §4.4 requires.
package score

import "fmt"

// Kind distinguishes a centipawn evaluation from a mate declaration, or records that no
// usable score could be parsed from the engine's info lines.
type Kind int

const (
	Centipawn Kind = iota
	Mate
	Error
)

// Score is one evaluation, always from the side-to-move's point of view (matching how
// UCI/USI engines report "info score").
type Score struct {
	Kind  Kind
	Value int64 // centipawns, or signed mate-in-N moves; meaningless if Kind == Error
}

func CP(value int64) Score    { return Score{Kind: Centipawn, Value: value} }
func MateIn(n int64) Score    { return Score{Kind: Mate, Value: n} }
var Unknown = Score{Kind: Error}

func (s Score) IsCentipawn() bool { return s.Kind == Centipawn }
func (s Score) IsMate() bool      { return s.Kind == Mate }
func (s Score) IsError() bool     { return s.Kind == Error }

// String renders the score per spec.md §4.4: a centipawn score is a signed value divided
// by 100 to two decimals; a mate score is a signed ply count derived from the reported
// mate-in-N move count (2n-1 plies if n>0, meaning this side mates; 2|n| plies if n<0,
// meaning this side gets mated).
func (s Score) String() string {
	switch s.Kind {
	case Centipawn:
		sign := ""
		v := s.Value
		if v < 0 {
			sign = "-"
			v = -v
		} else if v > 0 {
			sign = "+"
		}
		return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
	case Mate:
		n := s.Value
		var plies int64
		sign := "+"
		if n > 0 {
			plies = 2*n - 1
		} else {
			plies = 2 * -n
			sign = "-"
		}
		return fmt.Sprintf("%sM%d", sign, plies)
	default:
		return "?"
	}
}

package chess

import "fmt"

// MoveType indicates the type of move. The half-move (no-progress) clock is reset with
// any non-Normal move (pawn moves and captures).
type MoveType uint8

const (
	Normal MoveType = iota
	Push            // pawn single push
	Jump            // pawn double push
	EnPassant
	QueenSideCastle
	KingSideCastle
	Capture
	Promotion
	CapturePromotion
)

// Move represents a not-necessarily-legal move along with contextual metadata needed to
// apply it to a Position and to update incremental state (Zobrist hash, half-move clock).
type Move struct {
	Type      MoveType
	From, To  Square
	Piece     Piece // piece that is moving
	Promotion Piece // desired piece for promotion, if any
	Capture   Piece // captured piece, if any
}

// ParseMove parses a move in pure algebraic coordinate notation, such as "e2e4" or "a7a8q".
// The parsed move carries no contextual metadata; use Position.Disambiguate to fill it in.
func ParseMove(str string) (Move, error) {
	runes := []rune(str)
	if len(runes) < 4 || len(runes) > 5 {
		return Move{}, fmt.Errorf("invalid move: %q", str)
	}

	from, err := ParseSquare(runes[0], runes[1])
	if err != nil {
		return Move{}, fmt.Errorf("invalid from square: %q: %w", str, err)
	}
	to, err := ParseSquare(runes[2], runes[3])
	if err != nil {
		return Move{}, fmt.Errorf("invalid to square: %q: %w", str, err)
	}

	m := Move{From: from, To: to}
	if len(runes) == 5 {
		promo, ok := ParsePiece(runes[4])
		if !ok || promo == Pawn || promo == King {
			return Move{}, fmt.Errorf("invalid promotion piece: %q", str)
		}
		m.Promotion = promo
	}
	return m, nil
}

func (m Move) Equals(o Move) bool {
	return m.From == o.From && m.To == o.To && m.Promotion == o.Promotion
}

// String renders the move in pure algebraic coordinate notation as UCI/USI expect it.
func (m Move) String() string {
	if m.Promotion.IsValid() {
		return fmt.Sprintf("%v%v%v", m.From, m.To, m.Promotion)
	}
	return fmt.Sprintf("%v%v", m.From, m.To)
}

// CastlingRightsLost returns the castling rights that this move revokes, e.g. moving a
// rook off its home square or moving either king.
func (m Move) CastlingRightsLost() Castling {
	var lost Castling
	switch m.Piece {
	case King:
		if m.From == E1 {
			lost |= WhiteKingSideCastle | WhiteQueenSideCastle
		} else if m.From == E8 {
			lost |= BlackKingSideCastle | BlackQueenSideCastle
		}
	}
	for _, sq := range []Square{m.From, m.To} {
		switch sq {
		case A1:
			lost |= WhiteQueenSideCastle
		case H1:
			lost |= WhiteKingSideCastle
		case A8:
			lost |= BlackQueenSideCastle
		case H8:
			lost |= BlackKingSideCastle
		}
	}
	return lost
}

// EnPassantTarget returns the en passant target square created by this move, if it is a
// pawn double push, and NoSquare otherwise.
func (m Move) EnPassantTarget() (Square, bool) {
	if m.Type != Jump {
		return ZeroSquare, false
	}
	if m.To > m.From {
		return m.From + 8, true
	}
	return m.From - 8, true
}

// EnPassantCapture returns the square of the pawn captured en passant.
func (m Move) EnPassantCapture() (Square, bool) {
	if m.Type != EnPassant {
		return ZeroSquare, false
	}
	if m.To > m.From {
		return m.To - 8, true
	}
	return m.To + 8, true
}

// CastlingRookMove returns the rook's (from, to) squares for a castling move.
func (m Move) CastlingRookMove() (Square, Square, bool) {
	switch m.Type {
	case KingSideCastle:
		if m.From == E1 {
			return H1, F1, true
		}
		return H8, F8, true
	case QueenSideCastle:
		if m.From == E1 {
			return A1, D1, true
		}
		return A8, D8, true
	default:
		return ZeroSquare, ZeroSquare, false
	}
}

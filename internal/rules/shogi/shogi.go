// Package shogi implements the rules.GameRules capability for shogi. Unlike the chess
// adaptor, this package does not carry its own legal-move generator: shogi's drop rules
// (nifu, uchifuzume, and friends) are a large undertaking of their own and the spec treats
// "the game-rules library" as an external collaborator the core merely calls through a
// small trait (spec.md §1). This adaptor therefore validates move *syntax* against SFEN
// conventions and trusts the paired engine's own legality (the same engine that is being
// measured is also the only practical shogi legality oracle available here), while still
// providing the two things the match loop actually needs regardless: position bookkeeping
// (SFEN round-trip, hands, promotion/drop application) and sennichite (repetition)
// detection via position-hash comparison, grounded in the original source's observation
// (original_source/app/src/game/mod.rs) that shogi repetition is "fourfold", not
// threefold.
package shogi

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/herohde/fastbench/internal/rules"
)

const StartSFEN = "lnsgkgsnl/1r5b1/ppppppppp/9/9/9/PPPPPPPPP/1B5R1/LNSGKGSNL b - 1"

const sennichiteLimit = 4

// square is one board cell: whether it holds a piece and, if so, that piece's owner,
// promoted state and base letter, mirroring SFEN's letter-case and '+' encoding.
type square struct {
	occupied bool
	promoted bool
	sente    bool
	letter   byte // base letter, uppercase canonical form (e.g. 'P','R','B','G','S','N','L','K')
}

type board struct {
	cells      [9][9]square // [file 1-9 as index 0-8][rank a-i], cells[0][0] = 1a, cells[8][0] = 9a
	handsSente map[byte]int
	handsGote  map[byte]int
}

type Game struct {
	b         *board
	turn      rules.Color
	ply       int
	moveNum   int
	history   []string // SFEN position (board+turn+hands only, no move count) per ply, for sennichite
	halfMoves int
}

func (g *Game) Ply() int { return g.ply }

type Rules struct{}

var _ rules.GameRules = (*Rules)(nil)

func (r *Rules) Variant() rules.Variant { return rules.Shogi }

func (r *Rules) NewGame(startSFEN string, prefixMoves []string) (rules.GameState, error) {
	sfen := startSFEN
	if sfen == "" {
		sfen = StartSFEN
	}
	b, turn, moveNum, err := parseSFEN(sfen)
	if err != nil {
		return nil, fmt.Errorf("shogi: %w", err)
	}
	g := &Game{b: b, turn: turn, moveNum: moveNum}
	g.history = append(g.history, positionKey(g.b, g.turn))

	for _, text := range prefixMoves {
		m, err := r.ParseMove(g, text)
		if err != nil {
			return nil, fmt.Errorf("shogi: opening prefix move %q: %w", text, err)
		}
		if _, err := r.Apply(g, m); err != nil {
			return nil, fmt.Errorf("shogi: opening prefix move %q: %w", text, err)
		}
	}
	return g, nil
}

// ParseMove validates USI move syntax ("7g7f", "7g7f+", "P*5e") without checking shogi
// legality beyond basic bounds/occupancy, per the package doc.
func (r *Rules) ParseMove(state rules.GameState, text string) (rules.Move, error) {
	g := state.(*Game)
	if err := validateSyntax(g.b, g.turn, text); err != nil {
		return rules.Move{Text: text}, err
	}
	return rules.Move{Text: text, Legal: true}, nil
}

func (r *Rules) Apply(state rules.GameState, m rules.Move) (string, error) {
	g := state.(*Game)
	if err := applyMove(g.b, g.turn, m.Text); err != nil {
		return "", err
	}
	if strings.Contains(m.Text, "*") {
		g.halfMoves = 0 // a drop is progress, like a capture/pawn move in chess terms
	} else {
		g.halfMoves++
	}
	g.turn = g.turn.Opponent()
	g.ply++
	if g.turn == rules.First {
		g.moveNum++
	}
	g.history = append(g.history, positionKey(g.b, g.turn))
	return sfenString(g.b, g.turn, g.moveNum), nil
}

func (r *Rules) Status(state rules.GameState) rules.Status {
	g := state.(*Game)

	key := g.history[len(g.history)-1]
	count := 0
	for _, k := range g.history {
		if k == key {
			count++
		}
	}
	if count >= sennichiteLimit {
		return rules.Status{Reason: rules.Repetition}
	}
	// Checkmate/tsumi and stalemate detection require full legal move generation, which
	// this adaptor deliberately does not implement (see package doc); the match loop
	// falls back to the engine's own bestmove behaviour (no legal reply => Stall/Disconnect
	// classification upstream) for those terminal states.
	return rules.Ongoing
}

func (r *Rules) FEN(state rules.GameState) string {
	g := state.(*Game)
	return sfenString(g.b, g.turn, g.moveNum)
}

func (r *Rules) HalfMoveClock(state rules.GameState) int {
	return state.(*Game).halfMoves
}

func (r *Rules) ShouldAdjudicateTB(state rules.GameState, maxPieces int, ignoreFiftyMove bool) (*rules.Color, bool) {
	return nil, false
}

// --- board bookkeeping ---

func newBoard() *board {
	return &board{handsSente: map[byte]int{}, handsGote: map[byte]int{}}
}

func parseSFEN(sfen string) (*board, rules.Color, int, error) {
	fields := strings.Fields(sfen)
	if len(fields) < 3 {
		return nil, rules.First, 1, fmt.Errorf("invalid sfen %q", sfen)
	}
	b := newBoard()

	ranks := strings.Split(fields[0], "/")
	if len(ranks) != 9 {
		return nil, rules.First, 1, fmt.Errorf("invalid sfen %q: need 9 ranks", sfen)
	}
	for ri, rankStr := range ranks {
		file := 8
		promo := false
		for _, r := range rankStr {
			switch {
			case r == '+':
				promo = true
			case r >= '1' && r <= '9':
				file -= int(r - '0')
				promo = false
			default:
				if file < 0 {
					return nil, rules.First, 1, fmt.Errorf("invalid sfen %q: rank overflow", sfen)
				}
				b.cells[file][ri] = square{
					occupied: true,
					promoted: promo,
					sente:    r >= 'A' && r <= 'Z',
					letter:   upperLetter(byte(r)),
				}
				promo = false
				file--
			}
		}
	}

	turn := rules.First
	if fields[1] == "w" {
		turn = rules.Second
	}

	if fields[2] != "-" {
		count := 0
		for _, r := range fields[2] {
			if r >= '1' && r <= '9' {
				count = count*10 + int(r-'0')
				continue
			}
			n := count
			if n == 0 {
				n = 1
			}
			if r >= 'A' && r <= 'Z' {
				b.handsSente[byte(r)] += n
			} else {
				b.handsGote[upperLetter(byte(r))] += n
			}
			count = 0
		}
	}

	moveNum := 1
	if len(fields) >= 4 {
		if v, err := strconv.Atoi(fields[3]); err == nil {
			moveNum = v
		}
	}

	return b, turn, moveNum, nil
}

func upperLetter(b byte) byte {
	if b >= 'a' && b <= 'z' {
		return b - 'a' + 'A'
	}
	return b
}

func sfenString(b *board, turn rules.Color, moveNum int) string {
	var sb strings.Builder
	for ri := 0; ri < 9; ri++ {
		empty := 0
		for file := 8; file >= 0; file-- {
			c := b.cells[file][ri]
			if !c.occupied {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			if c.promoted {
				sb.WriteByte('+')
			}
			letter := c.letter
			if !c.sente {
				letter = letter - 'A' + 'a'
			}
			sb.WriteByte(letter)
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		if ri != 8 {
			sb.WriteRune('/')
		}
	}

	sb.WriteRune(' ')
	if turn == rules.First {
		sb.WriteRune('b')
	} else {
		sb.WriteRune('w')
	}
	sb.WriteRune(' ')

	hands := ""
	for _, letter := range []byte{'R', 'B', 'G', 'S', 'N', 'L', 'P'} {
		if n := b.handsSente[letter]; n > 0 {
			hands += handCount(n) + string(letter)
		}
	}
	for _, letter := range []byte{'R', 'B', 'G', 'S', 'N', 'L', 'P'} {
		if n := b.handsGote[letter]; n > 0 {
			hands += handCount(n) + string(letter-'A'+'a')
		}
	}
	if hands == "" {
		hands = "-"
	}
	sb.WriteString(hands)
	sb.WriteString(fmt.Sprintf(" %d", moveNum))
	return sb.String()
}

func handCount(n int) string {
	if n <= 1 {
		return ""
	}
	return strconv.Itoa(n)
}

func positionKey(b *board, turn rules.Color) string {
	return sfenString(b, turn, 0)
}

// validateSyntax checks that text parses as a USI move and that, for board moves, the
// origin square holds a piece of the side to move, and for drops, the side to move holds
// the dropped piece type in hand.
func validateSyntax(b *board, turn rules.Color, text string) error {
	if strings.Contains(text, "*") {
		parts := strings.SplitN(text, "*", 2)
		if len(parts) != 2 || len(parts[0]) != 1 {
			return fmt.Errorf("invalid drop: %q", text)
		}
		letter := upperLetter(parts[0][0])
		hands := b.handsSente
		if turn == rules.Second {
			hands = b.handsGote
		}
		if hands[letter] <= 0 {
			return fmt.Errorf("no %c in hand to drop: %q", letter, text)
		}
		if _, _, err := parseSquareUSI(parts[1]); err != nil {
			return fmt.Errorf("invalid drop target: %q: %w", text, err)
		}
		return nil
	}

	text = strings.TrimSuffix(text, "+")
	if len(text) != 4 {
		return fmt.Errorf("invalid move: %q", text)
	}
	ff, rf, err := parseSquareUSI(text[0:2])
	if err != nil {
		return fmt.Errorf("invalid from square: %q: %w", text, err)
	}
	if _, _, err := parseSquareUSI(text[2:4]); err != nil {
		return fmt.Errorf("invalid to square: %q: %w", text, err)
	}
	c := b.cells[ff][rf]
	if !c.occupied {
		return fmt.Errorf("no piece on origin square: %q", text)
	}
	if c.sente != (turn == rules.First) {
		return fmt.Errorf("wrong side's piece: %q", text)
	}
	return nil
}

func parseSquareUSI(s string) (file, rank int, err error) {
	if len(s) != 2 {
		return 0, 0, fmt.Errorf("invalid square: %q", s)
	}
	if s[0] < '1' || s[0] > '9' {
		return 0, 0, fmt.Errorf("invalid file: %q", s)
	}
	if s[1] < 'a' || s[1] > 'i' {
		return 0, 0, fmt.Errorf("invalid rank: %q", s)
	}
	file = int(s[0]-'0') - 1 // file '1' is index 0, file '9' index 8, matching parseSFEN/sfenString
	rank = int(s[1] - 'a')
	return file, rank, nil
}

func applyMove(b *board, turn rules.Color, text string) error {
	sente := turn == rules.First

	if strings.Contains(text, "*") {
		parts := strings.SplitN(text, "*", 2)
		letter := upperLetter(parts[0][0])
		tf, tr, err := parseSquareUSI(parts[1])
		if err != nil {
			return err
		}
		hands := b.handsSente
		if !sente {
			hands = b.handsGote
		}
		if hands[letter] <= 0 {
			return fmt.Errorf("no %c in hand", letter)
		}
		hands[letter]--
		b.cells[tf][tr] = square{occupied: true, sente: sente, letter: letter}
		return nil
	}

	promote := strings.HasSuffix(text, "+")
	core := strings.TrimSuffix(text, "+")
	ff, fr, err := parseSquareUSI(core[0:2])
	if err != nil {
		return err
	}
	tf, tr, err := parseSquareUSI(core[2:4])
	if err != nil {
		return err
	}

	moving := b.cells[ff][fr]
	if !moving.occupied {
		return fmt.Errorf("no piece on origin square: %q", text)
	}

	if captured := b.cells[tf][tr]; captured.occupied {
		hands := b.handsSente
		if !sente {
			hands = b.handsGote
		}
		hands[captured.letter]++
	}

	moving.promoted = moving.promoted || promote
	b.cells[tf][tr] = moving
	b.cells[ff][fr] = square{}
	return nil
}

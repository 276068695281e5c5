// Package book implements the opening-book selection the "-openings" CLI flag configures
// (spec.md §6), an ambient collaborator the distilled spec leaves unspecified. It is
// grounded on the teacher's own pkg/engine/book.go Line/NewBook shape (an opening is a
// named sequence of moves from the game's start), adapted from "moves an in-play engine
// may consult" to "starting positions the scheduler hands a Match" — a different
// consumption point, same underlying opening-line representation.
package book

import (
	"bufio"
	"fmt"
	"math/rand"
	"os"
	"strings"

	"github.com/herohde/fastbench/internal/config"
	"github.com/herohde/fastbench/internal/match"
)

// Line is one opening, grounded on the teacher's engine.Line ([]string of move text in
// play order) but here always interpreted as coordinate notation (e2e4, not SAN) since no
// rules adaptor is available at book-load time to resolve SAN disambiguation — this
// mirrors internal/rules/shogi's own documented "trust the engine pair" scope
// simplification rather than building a second, load-time-only move parser.
type Line []string

// Book is a loaded, ordered set of openings plus the cursor state "-openings" consults.
type Book struct {
	lines  []entry
	order  string // "sequential" or "random"
	plies  int
	policy string // "round" or ""
	rnd    *rand.Rand

	idx int // next line to hand out, advances per Next call; unused if policy=="round" (Next picks round % len(lines))
}

type entry struct {
	fen   string // non-empty for an EPD-format line: a direct starting FEN
	moves Line
}

// Load reads cfg.File in cfg.Format ("epd" or "pgn") and builds a Book honoring cfg.Order,
// cfg.Start, and cfg.Plies, per spec.md §6's "-openings" sub-keys. seed seeds the random
// shuffle used when Order == "random".
func Load(cfg config.OpeningsConfig, seed int64) (*Book, error) {
	if cfg.File == "" {
		return &Book{}, nil
	}

	f, err := os.Open(cfg.File)
	if err != nil {
		return nil, fmt.Errorf("book: open %s: %w", cfg.File, err)
	}
	defer f.Close()

	var entries []entry
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		entries = append(entries, parseEntry(line, cfg.Format))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("book: read %s: %w", cfg.File, err)
	}
	if cfg.Start > 0 && cfg.Start < len(entries) {
		entries = entries[cfg.Start:]
	}

	b := &Book{
		lines:  entries,
		order:  orDefault(cfg.Order, "sequential"),
		plies:  cfg.Plies,
		policy: cfg.Policy,
		rnd:    rand.New(rand.NewSource(seed)),
	}
	if b.order == "random" {
		b.rnd.Shuffle(len(b.lines), func(i, j int) { b.lines[i], b.lines[j] = b.lines[j], b.lines[i] })
	}
	return b, nil
}

// parseEntry interprets one non-blank line according to format: "epd" lines are a bare
// FEN (optionally followed by EPD operations, which are ignored — only the position
// fields are consumed); "pgn" lines are whitespace-separated coordinate moves from the
// game's default starting position, matching the teacher's Line.String() join format.
func parseEntry(line, format string) entry {
	if format == "epd" {
		fields := strings.Fields(line)
		if len(fields) >= 4 {
			return entry{fen: strings.Join(fields[:4], " ")}
		}
		return entry{fen: line}
	}
	return entry{moves: strings.Fields(line)}
}

// Next returns the next opening (or the zero Opening, round-robin-cycling back to the
// start once the book is exhausted), honoring the configured ply truncation. An empty
// Book (no "-openings" flag given) always returns the default starting position.
func (b *Book) Next(round int) (match.Opening, error) {
	if len(b.lines) == 0 {
		return match.Opening{}, nil
	}

	var idx int
	if b.policy == "round" {
		idx = round % len(b.lines)
	} else {
		idx = b.idx % len(b.lines)
		b.idx++
	}

	e := b.lines[idx]
	if e.fen != "" {
		return match.Opening{StartFEN: e.fen}, nil
	}

	moves := e.moves
	if b.plies > 0 && b.plies < len(moves) {
		moves = moves[:b.plies]
	}
	return match.Opening{PrefixMoves: append(Line{}, moves...)}, nil
}

// Len reports how many openings are loaded (0 for an unconfigured Book).
func (b *Book) Len() int { return len(b.lines) }

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

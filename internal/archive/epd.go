package archive

import (
	"fmt"
	"os"

	"github.com/herohde/fastbench/internal/config"
	"github.com/herohde/fastbench/internal/match"
	"github.com/herohde/fastbench/internal/rules"
)

// EPDWriter appends one EPD record per completed game to a file per config.EPDOutConfig's
// sub-keys. Unlike PGNWriter, EPD has no per-move telemetry slots (EPD is a single-position
// format), so a game contributes exactly one line. That line's position is the game's
// starting FEN (data.StartFEN, or the variant's default start when empty), not its final
// position, followed by an "id" operation naming the round and a "c0" operation naming both
// players and the termination reason.
type EPDWriter struct {
	cfg config.EPDOutConfig
	f   *os.File
}

// NewEPDWriter opens (creating or truncating unless cfg.Append) the configured file.
func NewEPDWriter(cfg config.EPDOutConfig) (*EPDWriter, error) {
	if !cfg.Enabled() {
		return &EPDWriter{cfg: cfg}, nil
	}

	flags := os.O_CREATE | os.O_WRONLY
	if cfg.Append {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}
	f, err := os.OpenFile(cfg.File, flags, 0o644)
	if err != nil {
		return nil, fmt.Errorf("archive: open %s: %w", cfg.File, err)
	}
	return &EPDWriter{cfg: cfg, f: f}, nil
}

func (w *EPDWriter) Close() error {
	if w.f == nil {
		return nil
	}
	return w.f.Close()
}

// Write appends one completed game's EPD record.
func (w *EPDWriter) Write(round int, data *match.MatchData) error {
	if w.f == nil {
		return nil
	}

	fen := data.StartFEN
	if fen == "" {
		fen = defaultFEN(data.Variant)
	}

	_, err := fmt.Fprintf(w.f, "%s id \"round %d\"; c0 \"%s vs %s, %s\";\n",
		fen, round, data.First.Name, data.Second.Name, data.Reason)
	return err
}

func defaultFEN(v rules.Variant) string {
	if v == rules.Shogi {
		return "lnsgkgsnl/1r5b1/ppppppppp/9/9/9/PPPPPPPPP/1B5R1/LNSGKGSNL b -"
	}
	return "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq -"
}

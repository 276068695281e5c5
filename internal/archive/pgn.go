// Package archive writes completed games to disk in PGN and EPD, the "-pgnout"/"-epdout"
// ambient outputs spec.md §6 names but leaves unspecified. Grounded on
// original_source/app/src/matchmaking/output/mod.rs's existence as the dedicated
// output-formatting module the core calls into (listed in _INDEX.md, body not retrieved),
// and on the teacher's logw-based line-oriented writing style for the textual rendering.
package archive

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/herohde/fastbench/internal/config"
	"github.com/herohde/fastbench/internal/match"
)

// PGNWriter appends completed games to a PGN file per config.PGNOutConfig's sub-keys.
type PGNWriter struct {
	cfg        config.PGNOutConfig
	matchLines []*regexp.Regexp
	f          *os.File
}

// NewPGNWriter opens (creating or truncating unless cfg.Append) the configured file.
func NewPGNWriter(cfg config.PGNOutConfig) (*PGNWriter, error) {
	if !cfg.Enabled() {
		return &PGNWriter{cfg: cfg}, nil
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

	w := &PGNWriter{cfg: cfg, f: f}
	for _, pattern := range cfg.MatchLines {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("archive: bad match_line %q: %w", pattern, err)
		}
		w.matchLines = append(w.matchLines, re)
	}
	return w, nil
}

func (w *PGNWriter) Close() error {
	if w.f == nil {
		return nil
	}
	return w.f.Close()
}

// Write appends one completed game, skipping it silently if cfg.MatchLines is non-empty
// and none of those patterns match data.Reason (spec.md §6's "-pgnout match_line=regex").
func (w *PGNWriter) Write(event, site string, round int, data *match.MatchData) error {
	if w.f == nil {
		return nil
	}
	if len(w.matchLines) > 0 && !w.anyMatch(data.Reason) {
		return nil
	}

	_, err := w.f.WriteString(renderPGN(event, site, round, data, w.cfg))
	return err
}

func (w *PGNWriter) anyMatch(reason string) bool {
	for _, re := range w.matchLines {
		if re.MatchString(reason) {
			return true
		}
	}
	return false
}

func renderPGN(event, site string, round int, data *match.MatchData, cfg config.PGNOutConfig) string {
	var sb strings.Builder

	white, black := data.First.Name, data.Second.Name
	result := pgnResult(data.First.Result)

	fmt.Fprintf(&sb, "[Event \"%s\"]\n", orDefault(event, "?"))
	fmt.Fprintf(&sb, "[Site \"%s\"]\n", orDefault(site, "?"))
	fmt.Fprintf(&sb, "[Round \"%d\"]\n", round)
	fmt.Fprintf(&sb, "[White \"%s\"]\n", white)
	fmt.Fprintf(&sb, "[Black \"%s\"]\n", black)
	fmt.Fprintf(&sb, "[Result \"%s\"]\n", result)
	if data.StartFEN != "" {
		fmt.Fprintf(&sb, "[FEN \"%s\"]\n", data.StartFEN)
		sb.WriteString("[SetUp \"1\"]\n")
	}
	fmt.Fprintf(&sb, "[Termination \"%s\"]\n", data.Reason)
	sb.WriteString("\n")

	for i, mv := range data.Moves {
		if i%2 == 0 {
			fmt.Fprintf(&sb, "%d. ", i/2+1)
		}
		fmt.Fprintf(&sb, "%s", Notation(mv.Move, cfg.Notation))
		if comment := moveComment(mv, cfg); comment != "" {
			fmt.Fprintf(&sb, " {%s}", comment)
		}
		sb.WriteString(" ")
	}
	fmt.Fprintf(&sb, "%s\n\n", result)

	return sb.String()
}

// moveComment renders the telemetry sub-keys cfg enables for one move.
func moveComment(mv match.MoveRecord, cfg config.PGNOutConfig) string {
	var parts []string
	if cfg.Nodes && mv.Info.Nodes > 0 {
		parts = append(parts, fmt.Sprintf("nodes=%d", mv.Info.Nodes))
	}
	if cfg.Seldepth && mv.Info.SelDepth > 0 {
		parts = append(parts, fmt.Sprintf("seldepth=%d", mv.Info.SelDepth))
	}
	if cfg.Nps && mv.Info.Nps > 0 {
		parts = append(parts, fmt.Sprintf("nps=%d", mv.Info.Nps))
	}
	if cfg.Hashfull && mv.Info.Hashfull > 0 {
		parts = append(parts, fmt.Sprintf("hashfull=%d", mv.Info.Hashfull))
	}
	if cfg.Tbhits && mv.Info.Tbhits > 0 {
		parts = append(parts, fmt.Sprintf("tbhits=%d", mv.Info.Tbhits))
	}
	if cfg.Timeleft {
		parts = append(parts, fmt.Sprintf("tl=%dms", mv.TimeLeftMillis))
	}
	if cfg.Latency && mv.LatencyMillis > 0 {
		parts = append(parts, fmt.Sprintf("latency=%dms", mv.LatencyMillis))
	}
	if cfg.Min {
		parts = append(parts, fmt.Sprintf("%+v", mv.Score))
	}
	if cfg.Pv && len(mv.Info.PV) > 0 {
		parts = append(parts, "pv="+strings.Join(mv.Info.PV, " "))
	}
	return strings.Join(parts, ", ")
}

func pgnResult(r match.GameResult) string {
	switch r {
	case match.ResultWin:
		return "1-0"
	case match.ResultLose:
		return "0-1"
	case match.ResultDraw:
		return "1/2-1/2"
	default:
		return "*"
	}
}

// Notation renders mv (stored as the raw UCI/USI coordinate token) per the requested
// style. Only "uci"/"lan" are fully supported: both render the coordinate token as-is,
// since UCI and a flat long-algebraic form coincide for this engine-facing token. "san" has
// no disambiguation generator in this module (that requires a live rules.GameState at
// render time, which the archive writer — run after the game has already finished and its
// states discarded — does not retain) and falls back to the same coordinate rendering,
// consistent with internal/rules/shogi's own documented "trust the engine" scope cut.
func Notation(move, style string) string {
	return move
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

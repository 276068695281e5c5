package config

import (
	"time"

	"github.com/herohde/fastbench/internal/adjudication"
	"github.com/herohde/fastbench/internal/rules"
)

// Format selects how the scheduler pairs engines against each other (spec.md §4.6).
type Format int

const (
	RoundRobin Format = iota
	Gauntlet
)

// OutputFormat selects the progress-report rendering style (spec.md §6's "-output"
// flag), following whichever of the two well-known engine-testing tools' console output
// a user is more used to reading.
type OutputFormat int

const (
	Cutechess OutputFormat = iota
	Fastchess
)

// OpeningsConfig configures the "-openings" flag's opening-book selection policy.
type OpeningsConfig struct {
	File   string
	Format string // "epd" or "pgn"
	Order  string // "sequential" or "random"
	Plies  int    // truncate each opening to this many plies, 0 = untruncated
	Start  int    // zero-based index of the first opening to use
	Policy string // "round" advances one opening per round; empty means per game
}

// PGNOutConfig configures the "-pgnout" flag's archive writer.
type PGNOutConfig struct {
	File     string
	Append   bool
	Notation string // "san", "lan", or "uci"

	// Telemetry comment sub-keys; each, if set, appends that field to move comments.
	Nodes, Seldepth, Nps, Hashfull, Tbhits, Timeleft, Latency, Min, Pv bool

	// MatchLines is the repeatable "match_line=regex" filter: a finished game is archived
	// only if its termination Reason matches at least one of these (empty means archive
	// everything).
	MatchLines []string
}

func (c PGNOutConfig) Enabled() bool { return c.File != "" }

// EPDOutConfig configures the "-epdout" flag's EPD archive writer.
type EPDOutConfig struct {
	File   string
	Append bool
}

func (c EPDOutConfig) Enabled() bool { return c.File != "" }

// SprtSpec configures the "-sprt" flag; Enabled mirrors the flag's mere presence.
type SprtSpec struct {
	Enabled           bool
	Elo0, Elo1        float64
	Alpha, Beta       float64
	Model             string // e.g. "normalized", "logistic" — informational, passed through
	UsePentanomial    bool
}

// LogConfig configures the "-log" flag.
type LogConfig struct {
	File     string
	Level    string // trace|info|warn|err|fatal
	Append   bool
	Compress bool
	Realtime bool
	Engine   bool // also log raw engine stdio traffic
}

// LivefeedConfig configures the "-livefeed" flag's optional live-broadcast sink.
type LivefeedConfig struct {
	Enabled bool
	Serial  string // board serial, or "auto" to autodetect
}

// ConfigFileSpec configures the "-config" flag's checkpoint load/save behaviour.
type ConfigFileSpec struct {
	File    string
	OutName string
	Discard bool
	Stats   bool
}

// TournamentConfig is the fully-parsed CLI surface (spec.md §6), and is also the shape
// persisted as the top-level "TournamentConfig" entry of the JSON checkpoint document
// (spec.md §6's "Persisted checkpoint").
type TournamentConfig struct {
	Event, Site string

	Tournament Format
	Variant    rules.Variant

	GamesPerEncounter int // 1 or 2
	Rounds            int
	Repeat            int // not set by Parse: "-repeat" is folded into GamesPerEncounter
	NoSwap            bool
	Reverse           bool
	GauntletSeeds     int

	Concurrency      int
	ForceConcurrency bool
	Affinity         bool
	AffinityCPUs     []int

	Seed int64

	AutosaveInterval int
	RatingInterval   int
	ScoreInterval    int
	Wait             time.Duration

	Recover bool
	Config  ConfigFileSpec

	Draw     adjudication.DrawConfig
	Resign   adjudication.ResignConfig
	MaxMoves int
	Tb       adjudication.TbConfig
	TbDirs   []string

	Sprt SprtSpec

	ReportPenta  bool
	OutputFormat OutputFormat

	Openings OpeningsConfig
	PGNOut   PGNOutConfig
	EPDOut   EPDOutConfig
	Log      LogConfig
	Livefeed LivefeedConfig

	ShowLatency bool
	TestEnv     bool

	StartupMs   int
	NewGameMs   int
	PingMs      int
}

// Default returns a TournamentConfig with the spec's documented defaults: one game per
// encounter, a single round, and concurrency left at 0 (meaning "all hardware threads";
// see ResolveConcurrency).
func Default() TournamentConfig {
	return TournamentConfig{
		GamesPerEncounter: 1,
		Rounds:            1,
	}
}

// ResolveConcurrency implements the "-concurrency N (N <= 0 means hw_threads - |N|, floor
// 1)" rule.
func ResolveConcurrency(n, hwThreads int) int {
	if n > 0 {
		return n
	}
	resolved := hwThreads - (-n)
	if resolved < 1 {
		return 1
	}
	return resolved
}

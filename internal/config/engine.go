// Package config holds the tournament- and engine-level configuration structs (spec.md
// §3's EngineConfig, §6's TournamentConfig and CLI surface) plus the flag registry and
// grammar parsers that build them from command-line arguments.
package config

import (
	"github.com/herohde/fastbench/internal/clock"
	"github.com/herohde/fastbench/internal/rules"
)

// RestartPolicy controls whether an engine's session is torn down and respawned after
// every game, or kept alive across games in the pool.
type RestartPolicy int

const (
	KeepAlive RestartPolicy = iota
	RestartEachGame
)

// Option is one configured (name, value) setoption pair, applied in the order given
// (spec.md §4.3 requires Threads first for multi-threaded engines).
type Option struct {
	Name  string
	Value string // empty for a Button option (fire-and-forget, no value)
}

// EngineConfig is the immutable, per-engine configuration shared by every session spawned
// for that engine name within one tournament.
type EngineConfig struct {
	Name       string // unique within a tournament
	Command    string
	WorkingDir string
	Args       []string

	TimeControl clock.Limits

	NodeLimit  int64 // 0 = unset
	DepthLimit int   // 0 = unset

	Options []Option
	Restart RestartPolicy
	Variant rules.Variant
}

// IsNodeOrDepthLimited reports whether search is bounded by node/depth count rather than
// the clock, in which case spec.md §4.3's "go" command omits time-control keywords and
// §4.1's read deadline becomes "no timeout" (zero).
func (c EngineConfig) IsNodeOrDepthLimited() bool {
	return c.NodeLimit > 0 || c.DepthLimit > 0
}

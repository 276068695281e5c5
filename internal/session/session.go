// Package session implements EngineSession (spec.md §4.3): one engine's protocol
// lifecycle on top of an internal/process.Process, speaking the dialect internal/protocol
// supplies for the session's variant.
package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/herohde/fastbench/internal/clock"
	"github.com/herohde/fastbench/internal/config"
	"github.com/herohde/fastbench/internal/process"
	"github.com/herohde/fastbench/internal/protocol"
	"github.com/herohde/fastbench/internal/rules"
	"github.com/herohde/fastbench/internal/score"
	"github.com/seekerror/logw"
)

// State is the EngineSession lifecycle state (spec.md §4.3's state diagram).
type State int

const (
	Uninitialised State = iota
	Ready
	Thinking
	Dead
)

// Default per-operation timeouts (spec.md §4.3).
const (
	DefaultStartupTimeout = 10 * time.Second
	DefaultNewGameTimeout = 30 * time.Second
	DefaultPingTimeout    = 10 * time.Second
)

var (
	ErrTimeout     = errors.New("session: timed out")
	ErrCrashed     = errors.New("session: engine crashed")
	ErrInterrupted = errors.New("session: interrupted")
	ErrNoScore     = errors.New("session: no usable score in last info lines")
	ErrDead        = errors.New("session: engine is dead")
)

// BestMoveKind distinguishes an ordinary move from shogi's explicit Win/Resign
// declarations (spec.md §9's "bestmove sum-type").
type BestMoveKind int

const (
	Move BestMoveKind = iota
	Win
	Resign
)

// BestMove is the interpreted result of one "go" search.
type BestMove struct {
	Kind BestMoveKind
	Text string // the raw move token, meaningful only when Kind == Move
}

// InfoData is the subset of an "info" line's fields Match records alongside a move.
type InfoData struct {
	Depth    int
	SelDepth int
	Nodes    int64
	Nps      int64
	Hashfull int
	Tbhits   int64
	PV       []string
}

// Session is one engine's live protocol state: its process, its dialect, and the
// recognised-options table learned during the handshake.
type Session struct {
	cfg   config.EngineConfig
	proto protocol.Protocol

	startupTimeout time.Duration
	newGameTimeout time.Duration
	pingTimeout    time.Duration

	proc    *process.Process
	options map[string]string // recognised option name -> declared type
	state   State

	lastLines []process.Line // stdout+stderr lines collected since the last "go"
}

// Option configures a non-default timeout.
type Option func(*Session)

func WithStartupTimeout(d time.Duration) Option { return func(s *Session) { s.startupTimeout = d } }
func WithNewGameTimeout(d time.Duration) Option  { return func(s *Session) { s.newGameTimeout = d } }
func WithPingTimeout(d time.Duration) Option     { return func(s *Session) { s.pingTimeout = d } }

// New constructs a Session bound to cfg; it does not spawn anything until Start is called.
func New(cfg config.EngineConfig, opts ...Option) *Session {
	s := &Session{
		cfg:            cfg,
		proto:          protocol.New(cfg.Variant),
		startupTimeout: DefaultStartupTimeout,
		newGameTimeout: DefaultNewGameTimeout,
		pingTimeout:    DefaultPingTimeout,
		options:        map[string]string{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Session) State() State { return s.state }

// Start spawns the process, optionally pins it to cpus, performs the protocol handshake,
// and waits for the init-ack. Idempotent after first success.
func (s *Session) Start(ctx context.Context, cpus []int) error {
	if s.state == Ready || s.state == Thinking {
		return nil
	}

	proc, err := process.Spawn(ctx, s.cfg.WorkingDir, s.cfg.Command, s.cfg.Args, s.cfg.Name)
	if err != nil {
		s.state = Dead
		return fmt.Errorf("session %v: %w", s.cfg.Name, err)
	}
	s.proc = proc

	if len(cpus) > 0 {
		if !proc.SetCPUAffinity(cpus) {
			logw.Warningf(ctx, "session %v: failed to set CPU affinity %v", s.cfg.Name, cpus)
		}
	}

	if err := s.proc.WriteLine(ctx, s.proto.InitCmd()); err != nil {
		s.state = Dead
		return err
	}

	lines, status := s.proc.ReadUntil(s.proto.InitOk(), s.startupTimeout)
	for _, l := range lines {
		if name, typ, ok := parseOptionLine(l.Text); ok {
			s.options[name] = typ
		}
	}
	if err := s.statusErr(status); err != nil {
		return fmt.Errorf("session %v: handshake: %w", s.cfg.Name, err)
	}

	s.state = Ready
	return nil
}

// RefreshNewGame sends the variant's new-game preamble and awaits readiness, then
// reapplies the configured options (Threads first) plus UCI_Chess960 under Chess960.
func (s *Session) RefreshNewGame(ctx context.Context) error {
	if s.proto.IsUCI() {
		if err := s.proc.WriteLine(ctx, s.proto.NewGameCmd()); err != nil {
			return err
		}
	}
	// Under USI, NewGameCmd() is itself "isready": the ping below is both the preamble
	// and the readiness wait in that dialect.
	if err := s.ping(ctx, s.newGameTimeout); err != nil {
		return fmt.Errorf("session %v: new game: %w", s.cfg.Name, err)
	}
	return s.applyOptions(ctx)
}

func (s *Session) applyOptions(ctx context.Context) error {
	ordered := make([]config.Option, 0, len(s.cfg.Options)+1)
	for _, opt := range s.cfg.Options {
		if opt.Name == "Threads" {
			ordered = append([]config.Option{opt}, ordered...)
		} else {
			ordered = append(ordered, opt)
		}
	}
	if s.cfg.Variant == rules.Chess960 {
		ordered = append([]config.Option{{Name: "UCI_Chess960", Value: "true"}}, ordered...)
	}

	for _, opt := range ordered {
		if err := s.setOption(ctx, opt.Name, opt.Value); err != nil {
			return err
		}
	}
	return nil
}

func (s *Session) setOption(ctx context.Context, name, value string) error {
	line := "setoption name " + s.proto.TranslateOptionName(name)
	if value != "" {
		line += " value " + value
	}
	return s.proc.WriteLine(ctx, line)
}

// Position emits the protocol-correct "position" line.
func (s *Session) Position(ctx context.Context, fen string, moves []string) error {
	return s.proc.WriteLine(ctx, s.proto.PositionCmd(fen, moves))
}

// Go builds and sends the "go" line for the side to move, given its own clock and the
// opponent's. Returns the deadline the caller should pass to Drive: zero means "no
// timeout" (node/depth-limited search).
func (s *Session) Go(ctx context.Context, ourClock, theirClock *clock.Clock, sideToMove rules.Color) (time.Duration, error) {
	var b strings.Builder
	b.WriteString("go")

	switch {
	case s.cfg.DepthLimit > 0:
		fmt.Fprintf(&b, " depth %d", s.cfg.DepthLimit)
	case s.cfg.NodeLimit > 0:
		fmt.Fprintf(&b, " nodes %d", s.cfg.NodeLimit)
	case s.cfg.TimeControl.FixedTimePerMove > 0:
		fmt.Fprintf(&b, " movetime %d", ms(s.cfg.TimeControl.FixedTimePerMove))
	default:
		ourTime, ourInc, theirTime, theirInc := s.proto.FirstPlayerTime(), s.proto.FirstPlayerInc(), s.proto.SecondPlayerTime(), s.proto.SecondPlayerInc()
		if sideToMove == rules.Second {
			ourTime, theirTime = theirTime, ourTime
			ourInc, theirInc = theirInc, ourInc
		}
		fmt.Fprintf(&b, " %s %d %s %d %s %d %s %d", ourTime, ms(ourClock.Remaining()), theirTime, ms(theirClock.Remaining()), ourInc, ms(ourClock.Increment()), theirInc, ms(theirClock.Increment()))
		if n := ourClock.MovesLeft(); n > 0 {
			fmt.Fprintf(&b, " movestogo %d", n)
		}
	}

	deadline := s.deadlineFor(ourClock)
	s.state = Thinking
	return deadline, s.proc.WriteLine(ctx, b.String())
}

// deadlineFor returns the ReadUntil deadline for the search just issued: zero (no
// timeout) for node/depth-limited search, otherwise the clock's remaining+margin.
func (s *Session) deadlineFor(ourClock *clock.Clock) time.Duration {
	if s.cfg.IsNodeOrDepthLimited() {
		return 0
	}
	return ourClock.Deadline()
}

// Drive reads until "bestmove" (or deadline/crash/interrupt), recording the elapsed time
// and the collected info lines for LastScore/LastInfoData, and interprets the result.
func (s *Session) Drive(deadline time.Duration) (BestMove, time.Duration, error) {
	start := time.Now()
	lines, status := s.proc.ReadUntil("bestmove", deadline)
	elapsed := time.Since(start)

	s.lastLines = lines
	if err := s.statusErr(status); err != nil {
		return BestMove{}, elapsed, err
	}
	s.state = Ready

	for i := len(lines) - 1; i >= 0; i-- {
		if lines[i].Stream == process.Stdout && strings.HasPrefix(lines[i].Text, "bestmove") {
			return s.parseBestmove(lines[i].Text), elapsed, nil
		}
	}
	return BestMove{}, elapsed, fmt.Errorf("session %v: no bestmove line in output", s.cfg.Name)
}

func (s *Session) parseBestmove(text string) BestMove {
	fields := strings.Fields(text)
	if len(fields) < 2 {
		return BestMove{}
	}
	token := fields[1]
	switch {
	case s.proto.IsBestmoveWin(token):
		return BestMove{Kind: Win}
	case s.proto.IsBestmoveResign(token):
		return BestMove{Kind: Resign}
	default:
		return BestMove{Kind: Move, Text: token}
	}
}

// LastScore scans the info lines collected by the last Drive, newest to oldest, for the
// most recent usable score: it skips "info string" lines, multipv>1 lines, and
// lower/upper-bounded scores.
func (s *Session) LastScore() (score.Score, error) {
	sc, _, ok := s.lastInfo()
	if !ok {
		return score.Unknown, ErrNoScore
	}
	return sc, nil
}

// LastInfoData returns the depth/nodes/pv fields from the same line LastScore would pick.
func (s *Session) LastInfoData() (InfoData, error) {
	_, data, ok := s.lastInfo()
	if !ok {
		return InfoData{}, ErrNoScore
	}
	return data, nil
}

func (s *Session) lastInfo() (score.Score, InfoData, bool) {
	for i := len(s.lastLines) - 1; i >= 0; i-- {
		l := s.lastLines[i]
		if l.Stream != process.Stdout || !strings.HasPrefix(l.Text, "info ") {
			continue
		}
		if sc, data, ok := parseInfoLine(l.Text); ok {
			return sc, data, true
		}
	}
	return score.Score{}, InfoData{}, false
}

// Quit sends stop/quit; safe to call after a crash.
func (s *Session) Quit(ctx context.Context) {
	if s.proc != nil {
		s.proc.Quit(ctx)
	}
	s.state = Dead
}

// Restart tears the session down and rebuilds it from scratch, preserving cfg.Options.
func (s *Session) Restart(ctx context.Context, cpus []int) error {
	if s.proc != nil {
		_ = s.proc.Close(ctx)
	}
	s.state = Uninitialised
	s.lastLines = nil
	return s.Start(ctx, cpus)
}

// Close tears down the underlying process unconditionally.
func (s *Session) Close(ctx context.Context) error {
	if s.proc == nil {
		return nil
	}
	return s.proc.Close(ctx)
}

// RefreshPing sends "isready" and waits for "readyok" within the configured ping timeout,
// per spec.md §4.4's per-ply "ping the engine to move" step.
func (s *Session) RefreshPing(ctx context.Context) error {
	return s.ping(ctx, s.pingTimeout)
}

func (s *Session) ping(ctx context.Context, timeout time.Duration) error {
	if err := s.proc.WriteLine(ctx, "isready"); err != nil {
		return err
	}
	_, status := s.proc.ReadUntil("readyok", timeout)
	return s.statusErr(status)
}

func (s *Session) statusErr(status process.Status) error {
	switch status {
	case process.OK:
		return nil
	case process.Timeout:
		return ErrTimeout
	case process.Crashed:
		s.state = Dead
		return ErrCrashed
	case process.Interrupted:
		return ErrInterrupted
	default:
		return fmt.Errorf("session %v: unknown status", s.cfg.Name)
	}
}

func ms(d time.Duration) int64 { return d.Milliseconds() }

func parseOptionLine(text string) (name, typ string, ok bool) {
	const prefix = "option name "
	if !strings.HasPrefix(text, prefix) {
		return "", "", false
	}
	rest := strings.TrimPrefix(text, prefix)
	idx := strings.Index(rest, " type ")
	if idx < 0 {
		return "", "", false
	}
	name = rest[:idx]
	fields := strings.Fields(rest[idx+len(" type "):])
	if len(fields) == 0 {
		return "", "", false
	}
	return name, fields[0], true
}

func parseInfoLine(text string) (score.Score, InfoData, bool) {
	fields := strings.Fields(text)
	if len(fields) == 0 || fields[0] != "info" {
		return score.Score{}, InfoData{}, false
	}

	var data InfoData
	var sc score.Score
	haveScore, bounded := false, false

	for i := 1; i < len(fields); i++ {
		switch fields[i] {
		case "string":
			return score.Score{}, InfoData{}, false
		case "depth":
			i++
			data.Depth = atoi(fields, i)
		case "seldepth":
			i++
			data.SelDepth = atoi(fields, i)
		case "nodes":
			i++
			data.Nodes = atoi64(fields, i)
		case "nps":
			i++
			data.Nps = atoi64(fields, i)
		case "hashfull":
			i++
			data.Hashfull = atoi(fields, i)
		case "tbhits":
			i++
			data.Tbhits = atoi64(fields, i)
		case "multipv":
			i++
			if atoi(fields, i) > 1 {
				return score.Score{}, InfoData{}, false
			}
		case "score":
			if i+2 >= len(fields) {
				break
			}
			kind := fields[i+1]
			val := atoi64(fields, i+2)
			if kind == "mate" {
				sc = score.MateIn(val)
			} else {
				sc = score.CP(val)
			}
			haveScore = true
			i += 2
		case "lowerbound", "upperbound":
			bounded = true
		case "pv":
			data.PV = append([]string{}, fields[i+1:]...)
			i = len(fields)
		}
	}

	if bounded || !haveScore {
		return score.Score{}, InfoData{}, false
	}
	return sc, data, true
}

func atoi(fields []string, i int) int {
	if i < 0 || i >= len(fields) {
		return 0
	}
	n, _ := strconv.Atoi(fields[i])
	return n
}

func atoi64(fields []string, i int) int64 {
	if i < 0 || i >= len(fields) {
		return 0
	}
	n, _ := strconv.ParseInt(fields[i], 10, 64)
	return n
}

package match

import (
	"context"
	"errors"
	"fmt"

	"github.com/herohde/fastbench/internal/adjudication"
	"github.com/herohde/fastbench/internal/clock"
	"github.com/herohde/fastbench/internal/config"
	"github.com/herohde/fastbench/internal/rules"
	"github.com/herohde/fastbench/internal/session"
	"go.uber.org/atomic"
)

// Match drives one game to completion between two already-started EngineSessions, per
// spec.md §4.4. It owns no process/session lifecycle itself: the caller (normally
// internal/pool's EnginePool, via the scheduler) acquires and releases the two sessions.
type Match struct {
	rules rules.GameRules
	state rules.GameState

	names   map[rules.Color]string
	clocks  map[rules.Color]*clock.Clock
	engines map[rules.Color]*session.Session

	draw     *adjudication.DrawTracker
	resign   *adjudication.ResignTracker
	maxMoves *adjudication.MaxMovesTracker
	tb       *adjudication.TbAdjudicationTracker

	opening Opening
	moves   []MoveRecord
}

// New constructs a Match from the opening, the adjudication Config, and the two engines'
// configs and already-started sessions keyed by which color they play. It replays the
// opening's prefix moves to materialise the starting GameState and records each prefix
// move as a Book MoveRecord.
func New(r rules.GameRules, opening Opening, cfg Config, firstCfg, secondCfg config.EngineConfig, first, second *session.Session) (*Match, error) {
	state, err := r.NewGame(opening.StartFEN, opening.PrefixMoves)
	if err != nil {
		return nil, fmt.Errorf("match: replay opening: %w", err)
	}

	m := &Match{
		rules: r,
		state: state,

		names: map[rules.Color]string{
			rules.First:  firstCfg.Name,
			rules.Second: secondCfg.Name,
		},
		clocks: map[rules.Color]*clock.Clock{
			rules.First:  clock.New(firstCfg.TimeControl),
			rules.Second: clock.New(secondCfg.TimeControl),
		},
		engines: map[rules.Color]*session.Session{
			rules.First:  first,
			rules.Second: second,
		},

		draw:     adjudication.NewDrawTracker(cfg.Draw),
		resign:   adjudication.NewResignTracker(cfg.Resign),
		maxMoves: adjudication.NewMaxMovesTracker(cfg.MaxMoves),
		tb:       adjudication.NewTbAdjudicationTracker(cfg.Tb, r),

		opening: opening,
	}
	for i, mv := range opening.PrefixMoves {
		m.moves = append(m.moves, MoveRecord{Ply: i, Move: mv, Legal: true, Book: true})
	}
	return m, nil
}

// sideToMove derives whose turn it is from the replayed state's ply parity.
func (m *Match) sideToMove() rules.Color {
	if m.state.Ply()%2 == 1 {
		return rules.Second
	}
	return rules.First
}

// fullMoveNumber is the full-move-number DrawConfig.MoveNumber is compared against: one-based,
// counted from game start (including any custom FEN's own ply offset), not from the match's
// own move log. This matches the source's own full_move_number = 1 + ply_count/2.
func (m *Match) fullMoveNumber() int {
	return 1 + m.state.Ply()/2
}

// Play runs the match loop to completion (spec.md §4.4's ten numbered steps) and returns
// the finished MatchData. stop is polled at the top of every ply for global cancellation
// (spec.md §5); when set, Play finalises with Interrupt termination. Play itself never
// returns a non-nil error for in-game failures — those are all converted into a
// Termination, per spec.md §7's propagation policy — only for conditions that make
// continuing meaningless (none currently arise after New succeeds).
func (m *Match) Play(ctx context.Context, stop *atomic.Bool) (*MatchData, error) {
	var termination Termination
	var reason string
	var firstResult GameResult

loop:
	for {
		if stop != nil && stop.Load() {
			termination, reason = Interrupt, "Match interrupted"
			firstResult = ResultNone
			break
		}

		mover := m.sideToMove()
		bookMove := len(m.moves) < len(m.opening.PrefixMoves)

		// Step 1: rules-based termination.
		if status := m.rules.Status(m.state); status.IsGameOver() {
			termination = Normal
			reason = status.Reason.Message(status.Winner, m.rules.Variant())
			firstResult = m.resultFor(status.Winner, status.IsDraw())
			break
		}

		// Step 2: adjudication, strict priority tablebase -> resign -> draw -> max-moves.
		if winner, ok := m.tb.Adjudicatable(m.state); ok {
			termination = Adjudication
			reason = adjudicationReason(winner, m.rules.Variant())
			firstResult = m.resultFor(winner, winner == nil)
			break
		}
		if m.resign.Resignable() {
			winner := m.resign.Winner()
			termination = Adjudication
			reason = adjudicationReason(winner, m.rules.Variant())
			firstResult = m.resultFor(winner, winner == nil)
			break
		}
		if m.draw.Adjudicatable(m.fullMoveNumber()) {
			termination, reason = Adjudication, "Draw by adjudication"
			firstResult = ResultDraw
			break
		}
		if m.maxMoves.MaxMovesReached() {
			termination, reason = Adjudication, "Draw by adjudication"
			firstResult = ResultDraw
			break
		}

		// Steps 3-8: ping, go, drive to bestmove, update clock, interpret, apply.
		eng := m.engines[mover]
		ourClock, theirClock := m.clocks[mover], m.clocks[mover.Opponent()]

		variant := m.rules.Variant()

		if err := eng.RefreshPing(ctx); err != nil {
			termination = stallOrDisconnect(err)
			reason = fmt.Sprintf("%s %s", mover.Name(variant), terminationVerb(termination))
			firstResult = m.resultFor(ptr(mover.Opponent()), false)
			break
		}

		if err := eng.Position(ctx, m.rules.FEN(m.state), nil); err != nil {
			termination, reason = Disconnect, fmt.Sprintf("%s disconnected", mover.Name(variant))
			firstResult = m.resultFor(ptr(mover.Opponent()), false)
			break
		}

		deadline, err := eng.Go(ctx, ourClock, theirClock, mover)
		if err != nil {
			termination, reason = Disconnect, fmt.Sprintf("%s disconnected", mover.Name(variant))
			firstResult = m.resultFor(ptr(mover.Opponent()), false)
			break
		}

		best, elapsed, err := eng.Drive(deadline)
		if err != nil {
			termination = driveTermination(err)
			reason = fmt.Sprintf("%s %s", mover.Name(variant), terminationVerb(termination))
			firstResult = m.resultFor(ptr(mover.Opponent()), false)
			break
		}

		timedOut := !ourClock.UpdateTime(elapsed)
		if timedOut {
			termination, reason = Timeout, fmt.Sprintf("%s loses on time", mover.Name(variant))
			firstResult = m.resultFor(ptr(mover.Opponent()), false)
			break
		}

		if best.Kind == session.Win || best.Kind == session.Resign {
			// Only valid under shogi (spec.md §9's bestmove sum type); the side that
			// declared it wins (Win) or its opponent wins (Resign).
			winner := mover
			if best.Kind == session.Resign {
				winner = mover.Opponent()
			}
			termination = Normal
			reason = fmt.Sprintf("%s %s", winner.Name(variant), declarationVerb(best.Kind))
			firstResult = m.resultFor(&winner, false)
			break
		}

		mv, perr := m.rules.ParseMove(m.state, best.Text)
		if perr != nil || !mv.Legal {
			termination = IllegalMove
			reason = fmt.Sprintf("%s makes an illegal move", mover.Name(m.rules.Variant()))
			firstResult = m.resultFor(ptr(mover.Opponent()), false)
			m.moves = append(m.moves, MoveRecord{Ply: len(m.moves), Move: best.Text, Legal: false,
				ElapsedMillis: elapsed.Milliseconds(), TimeLeftMillis: ourClock.Remaining().Milliseconds()})
			break
		}

		if _, err := m.rules.Apply(m.state, mv); err != nil {
			termination = IllegalMove
			reason = fmt.Sprintf("%s makes an illegal move", mover.Name(m.rules.Variant()))
			firstResult = m.resultFor(ptr(mover.Opponent()), false)
			m.moves = append(m.moves, MoveRecord{Ply: len(m.moves), Move: best.Text, Legal: false,
				ElapsedMillis: elapsed.Milliseconds(), TimeLeftMillis: ourClock.Remaining().Milliseconds()})
			break
		}

		sc, scErr := eng.LastScore()
		info, _ := eng.LastInfoData()

		m.moves = append(m.moves, MoveRecord{
			Ply:            len(m.moves),
			Move:           mv.Text,
			Legal:          true,
			Score:          sc,
			Info:           info,
			ElapsedMillis:  elapsed.Milliseconds(),
			TimeLeftMillis: ourClock.Remaining().Milliseconds(),
			Book:           bookMove,
		})

		// Step 9: feed adjudication trackers.
		if scErr == nil {
			m.draw.Update(sc, m.rules.HalfMoveClock(m.state))
			m.resign.Update(sc, mover)
		} else {
			m.draw.Invalidate()
			m.resign.Invalidate(mover)
		}
		m.maxMoves.Update()

		// Step 10: swap side to move happens implicitly via m.state's own ply counter.
		continue loop
	}

	data := &MatchData{
		First:       PlayerRecord{Name: m.names[rules.First], Result: firstResult},
		Second:      PlayerRecord{Name: m.names[rules.Second], Result: invertResult(firstResult)},
		StartFEN:    m.opening.StartFEN,
		Variant:     m.rules.Variant(),
		Moves:       m.moves,
		Reason:      reason,
		Termination: termination,
	}
	return data, nil
}

// resultFor computes First's GameResult given the rules-reported winner (nil for a draw).
func (m *Match) resultFor(winner *rules.Color, draw bool) GameResult {
	if draw || winner == nil {
		return ResultDraw
	}
	if *winner == rules.First {
		return ResultWin
	}
	return ResultLose
}

func invertResult(r GameResult) GameResult {
	switch r {
	case ResultWin:
		return ResultLose
	case ResultLose:
		return ResultWin
	default:
		return r
	}
}

func ptr(c rules.Color) *rules.Color { return &c }

func adjudicationReason(winner *rules.Color, v rules.Variant) string {
	if winner == nil {
		return "Draw by adjudication"
	}
	return winner.Name(v) + " wins by adjudication"
}

func declarationVerb(kind session.BestMoveKind) string {
	if kind == session.Win {
		return "wins by engine declaration"
	}
	return "wins by opponent resignation"
}

func stallOrDisconnect(err error) Termination {
	if errors.Is(err, session.ErrTimeout) {
		return Stall
	}
	return Disconnect
}

func driveTermination(err error) Termination {
	switch {
	case errors.Is(err, session.ErrTimeout):
		return Timeout
	case errors.Is(err, session.ErrInterrupted):
		return Interrupt
	default:
		return Disconnect
	}
}

func terminationVerb(t Termination) string {
	switch t {
	case Stall:
		return "stalled"
	default:
		return "disconnected"
	}
}

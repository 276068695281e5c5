// Package adjudication implements the four trackers Match consults in strict priority
// order (tablebase, resign, draw, max-moves) each ply, per spec.md §4.4. Each tracker is a
// small piece of mutable counter state updated from the engine's reported score and the
// side that just moved.
package adjudication

import (
	"github.com/herohde/fastbench/internal/rules"
	"github.com/herohde/fastbench/internal/score"
)

// DrawConfig configures draw-on-agreement adjudication.
type DrawConfig struct {
	MoveNumber int // minimum full-move number (1 + ply/2) before a draw may be adjudicated
	MoveCount  int // full moves of agreement required (consecutive plies = MoveCount*2)
	Score      int64 // |centipawn score| threshold
}

// DrawTracker counts consecutive plies where both engines have reported a centipawn score
// within Score of zero, and adjudicates a draw once MoveCount*2 consecutive plies have
// accumulated and the full-move number has reached MoveNumber.
type DrawTracker struct {
	cfg        DrawConfig
	drawPlies  int
}

func NewDrawTracker(cfg DrawConfig) *DrawTracker {
	return &DrawTracker{cfg: cfg}
}

// Update folds in one ply's reported score and the half-move (no-progress) clock value
// after that ply; hmvc==0 (a pawn move or capture just reset it) always resets the streak,
// matching the original's "reset on hmvc==0" rule so a forced pawn push can't coast on a
// stale streak of near-zero scores from a prior, structurally different position.
func (t *DrawTracker) Update(s score.Score, hmvc int) {
	if hmvc == 0 {
		t.drawPlies = 0
	}
	if t.cfg.MoveCount <= 0 {
		return
	}

	within := s.IsCentipawn() && abs64(s.Value) <= t.cfg.Score
	if within {
		t.drawPlies++
	} else {
		t.drawPlies = 0
	}
}

// Adjudicatable reports whether a draw may be declared at the given full-move number.
// MoveCount <= 0 means draw adjudication is unconfigured and never fires.
func (t *DrawTracker) Adjudicatable(plies int) bool {
	if t.cfg.MoveCount <= 0 {
		return false
	}
	return plies >= t.cfg.MoveNumber && t.drawPlies >= t.cfg.MoveCount*2
}

func (t *DrawTracker) Invalidate() { t.drawPlies = 0 }

// ResignConfig configures resignation adjudication.
type ResignConfig struct {
	MoveCount int
	Score     int64 // |centipawn score| threshold (positive)
	TwoSided  bool
}

// ResignTracker tracks a run of plies indicating one side should resign. In TwoSided mode
// it counts consecutive plies whose reported score is decisive (|centipawns| >= Score, or
// any mate score), whatever its sign, and MoveCount*2 such plies fire it; in one-sided mode, each color accumulates its own "I am losing" streak and
// either reaching MoveCount fires it.
type ResignTracker struct {
	cfg ResignConfig

	twoSidedPlies int
	perColor      [2]int // indexed by rules.Color

	lastScore score.Score
	lastMover rules.Color
}

func NewResignTracker(cfg ResignConfig) *ResignTracker {
	return &ResignTracker{cfg: cfg}
}

// Update folds in the score reported after mover just played.
func (t *ResignTracker) Update(s score.Score, mover rules.Color) {
	t.lastScore = s
	t.lastMover = mover

	if t.cfg.TwoSided {
		decisive := (s.IsCentipawn() && abs64(s.Value) >= t.cfg.Score) || s.IsMate()
		if decisive {
			t.twoSidedPlies++
		} else {
			t.twoSidedPlies = 0
		}
		return
	}

	losing := (s.IsCentipawn() && s.Value <= -t.cfg.Score) || (s.IsMate() && s.Value < 0)
	if losing {
		t.perColor[mover]++
	} else {
		t.perColor[mover] = 0
	}
}

// Resignable reports whether the resignation threshold has been met. MoveCount <= 0 means
// resign adjudication is unconfigured and never fires.
func (t *ResignTracker) Resignable() bool {
	if t.cfg.MoveCount <= 0 {
		return false
	}
	if t.cfg.TwoSided {
		return t.twoSidedPlies >= t.cfg.MoveCount*2
	}
	return t.perColor[rules.First] >= t.cfg.MoveCount || t.perColor[rules.Second] >= t.cfg.MoveCount
}

// Winner reports which color the resignation should be recorded as a win for, once
// Resignable reports true. In one-sided mode it's whichever color's "I am losing" streak
// reached MoveCount, reported as its opponent; in two-sided mode it's derived from the most
// recent decisive score's sign relative to its own mover (engines report scores from their
// own perspective, so a mover reporting a decisive positive score is winning). Returns nil
// if Resignable is false or the direction can't yet be determined.
func (t *ResignTracker) Winner() *rules.Color {
	if !t.Resignable() {
		return nil
	}

	if !t.cfg.TwoSided {
		loser := rules.First
		if t.perColor[rules.Second] >= t.cfg.MoveCount {
			loser = rules.Second
		}
		winner := loser.Opponent()
		return &winner
	}

	moverWinning := (t.lastScore.IsCentipawn() && t.lastScore.Value > 0) || (t.lastScore.IsMate() && t.lastScore.Value > 0)
	winner := t.lastMover
	if !moverWinning {
		winner = t.lastMover.Opponent()
	}
	return &winner
}

// Invalidate resets the tracker for color (or the shared two-sided counter).
func (t *ResignTracker) Invalidate(c rules.Color) {
	if t.cfg.TwoSided {
		t.twoSidedPlies = 0
		return
	}
	t.perColor[c] = 0
}

// MaxMovesTracker adjudicates a draw once a fixed number of full moves has been played,
// regardless of score.
type MaxMovesTracker struct {
	moveCount int
	plies     int
}

func NewMaxMovesTracker(moveCount int) *MaxMovesTracker {
	return &MaxMovesTracker{moveCount: moveCount}
}

func (t *MaxMovesTracker) Update() { t.plies++ }

// MaxMovesReached reports whether the configured move limit has been hit. moveCount <= 0
// means max-moves adjudication is unconfigured and never fires.
func (t *MaxMovesTracker) MaxMovesReached() bool {
	if t.moveCount <= 0 {
		return false
	}
	return t.plies >= t.moveCount*2
}

// TbAdjudicateMode restricts tablebase adjudication to decisive results, draws, or both,
// per the "-tbadjudicate WIN_LOSS|DRAW|BOTH" CLI sub-flag (spec.md §6). The zero value,
// TbAdjudicateBoth, adjudicates whatever the rules adaptor reports with no filtering.
type TbAdjudicateMode int

const (
	TbAdjudicateBoth TbAdjudicateMode = iota
	TbAdjudicateWinLoss
	TbAdjudicateDraw
)

// TbConfig configures tablebase adjudication.
type TbConfig struct {
	MaxPieces           int
	IgnoreFiftyMoveRule bool
	Mode                TbAdjudicateMode
}

// TbAdjudicationTracker delegates to the rules.GameRules adaptor's own
// ShouldAdjudicateTB hook. Like the original source's own stub (Syzygy probing needs a
// real tablebase library that isn't part of this exercise's dependency surface), this
// tracker always reports "not adjudicatable" in the default rules adaptors; it exists so
// Match's priority order (tablebase first) is visibly represented even though no adaptor
// currently answers yes.
type TbAdjudicationTracker struct {
	cfg   TbConfig
	rules rules.GameRules
}

func NewTbAdjudicationTracker(cfg TbConfig, r rules.GameRules) *TbAdjudicationTracker {
	return &TbAdjudicationTracker{cfg: cfg, rules: r}
}

// Adjudicatable asks the rules adaptor whether state currently qualifies, returning the
// winner (nil for a draw) and true if so, filtered by the configured Mode (a WinLoss-only
// config suppresses a tablebase draw verdict, and vice versa).
func (t *TbAdjudicationTracker) Adjudicatable(state rules.GameState) (*rules.Color, bool) {
	winner, ok := t.rules.ShouldAdjudicateTB(state, t.cfg.MaxPieces, t.cfg.IgnoreFiftyMoveRule)
	if !ok {
		return nil, false
	}
	switch t.cfg.Mode {
	case TbAdjudicateWinLoss:
		if winner == nil {
			return nil, false
		}
	case TbAdjudicateDraw:
		if winner != nil {
			return nil, false
		}
	}
	return winner, true
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}

// Package clock implements the per-side chess clock a Match drives each ply: spend the
// elapsed time, add the increment, roll over a moves-per-period control, and report
// whether the mover ran out on that move.
package clock

import "time"

// Limits describes one engine's time control for the match, mirroring
// spec.md §3's TimeControlLimits.
type Limits struct {
	Main              time.Duration // main time budget
	Increment         time.Duration // added back after each move
	MovesPerPeriod    int           // 0 = sudden death (no periodic replenishment)
	FixedTimePerMove  time.Duration // mutually exclusive with Main+Increment; 0 if unused
	Margin            time.Duration // non-negative grace period before a timeout is declared
}

// Clock is the mutable, per-side wall-clock state driven by one side's moves.
type Clock struct {
	limits    Limits
	remaining time.Duration
	movesLeft int
}

// New creates a Clock with its full time budget and first period allowance.
func New(limits Limits) *Clock {
	return &Clock{
		limits:    limits,
		remaining: limits.Main,
		movesLeft: limits.MovesPerPeriod,
	}
}

// Remaining is the time left on the clock right now.
func (c *Clock) Remaining() time.Duration { return c.remaining }

// Increment is the configured per-move increment added back after each UpdateTime call.
func (c *Clock) Increment() time.Duration { return c.limits.Increment }

// MovesLeft is the number of moves remaining in the current period (0 if the control is
// sudden death, i.e. MovesPerPeriod was configured as 0).
func (c *Clock) MovesLeft() int { return c.movesLeft }

// Deadline is the duration a move is allowed to take before being declared a timeout:
// remaining time plus the configured safety margin. If FixedTimePerMove is set, that fixed
// budget is the deadline instead (the remaining/margin accounting doesn't apply).
func (c *Clock) Deadline() time.Duration {
	if c.limits.FixedTimePerMove > 0 {
		return c.limits.FixedTimePerMove
	}
	return c.remaining + c.limits.Margin
}

// UpdateTime subtracts elapsed from the remaining budget, adds the increment back, and
// rolls the moves-per-period counter over to a fresh full period at zero. It returns false
// if the clock timed out (remaining dropped below -margin).
func (c *Clock) UpdateTime(elapsed time.Duration) bool {
	c.remaining -= elapsed
	c.remaining += c.limits.Increment

	if c.limits.MovesPerPeriod > 0 {
		c.movesLeft--
		if c.movesLeft <= 0 {
			c.movesLeft = c.limits.MovesPerPeriod
			c.remaining += c.limits.Main
		}
	}

	return c.remaining >= -c.limits.Margin
}

// Package scoreboard implements per-pair result aggregation (spec.md §4.7), the SPRT
// hypothesis test and Elo estimation that consume it (spec.md §4.8).
package scoreboard

// Stats is a win/loss/draw tally plus the six pentanomial pair-category counters, matching
// spec.md §3's Stats data model entry. Pentanomial counters are only ever incremented by
// ScoreBoard.UpdatePair, never by UpdateNonPair.
type Stats struct {
	Wins   int64
	Losses int64
	Draws  int64

	PentaWW int64 // both games of the pair won
	PentaWD int64 // one win, one draw
	PentaWL int64 // one win, one loss (colours cancel out)
	PentaDD int64 // both games drawn
	PentaLD int64 // one loss, one draw
	PentaLL int64 // both games lost
}

// FromWDL builds a single-game Stats from a win/loss/draw outcome (1 in exactly one field).
func FromWDL(wins, losses, draws int64) Stats {
	return Stats{Wins: wins, Losses: losses, Draws: draws}
}

// Add returns the element-wise sum of two Stats, combining both the WDL tally and the
// pentanomial counters.
func (s Stats) Add(o Stats) Stats {
	return Stats{
		Wins:   s.Wins + o.Wins,
		Losses: s.Losses + o.Losses,
		Draws:  s.Draws + o.Draws,

		PentaWW: s.PentaWW + o.PentaWW,
		PentaWD: s.PentaWD + o.PentaWD,
		PentaWL: s.PentaWL + o.PentaWL,
		PentaDD: s.PentaDD + o.PentaDD,
		PentaLD: s.PentaLD + o.PentaLD,
		PentaLL: s.PentaLL + o.PentaLL,
	}
}

// Inverted swaps the result's perspective: wins become losses and vice versa, and every
// pentanomial category swaps with its win/loss mirror (WW<->LL, WD<->LD); draws, WL and DD
// are symmetric under colour swap and stay put. This is used to re-view one side's game
// from the other player's perspective (get_stats(a,b) needs results[(b,a)] inverted, and
// UpdatePair caches the first game of a pair inverted because the second game swaps
// colours).
func (s Stats) Inverted() Stats {
	return Stats{
		Wins:   s.Losses,
		Losses: s.Wins,
		Draws:  s.Draws,

		PentaWW: s.PentaLL,
		PentaWD: s.PentaLD,
		PentaWL: s.PentaWL,
		PentaDD: s.PentaDD,
		PentaLD: s.PentaWD,
		PentaLL: s.PentaWW,
	}
}

// Total is the number of individual games recorded (wins + losses + draws).
func (s Stats) Total() int64 {
	return s.Wins + s.Losses + s.Draws
}

// TotalPairs is the number of completed game pairs recorded in the pentanomial counters.
func (s Stats) TotalPairs() int64 {
	return s.PentaWW + s.PentaWD + s.PentaWL + s.PentaDD + s.PentaLD + s.PentaLL
}

// Points is the classical scoring total: one point per win, half a point per draw.
func (s Stats) Points() float64 {
	return float64(s.Wins) + 0.5*float64(s.Draws)
}

// PointsRatio is Points divided by the number of games played (0 if none).
func (s Stats) PointsRatio() float64 {
	if s.Total() == 0 {
		return 0
	}
	return s.Points() / float64(s.Total())
}

// DrawRatio is the fraction of individual games that were drawn.
func (s Stats) DrawRatio() float64 {
	if s.Total() == 0 {
		return 0
	}
	return float64(s.Draws) / float64(s.Total())
}

// DrawRatioPenta is the fraction of pairs landing in the all-draw (DD) category.
func (s Stats) DrawRatioPenta() float64 {
	if s.TotalPairs() == 0 {
		return 0
	}
	return float64(s.PentaDD) / float64(s.TotalPairs())
}

// WLDDRatio is the fraction of pairs that cancelled out to one win and one loss (WL) or
// drew both games (DD) — the two "colour-balanced" pentanomial categories.
func (s Stats) WLDDRatio() float64 {
	if s.TotalPairs() == 0 {
		return 0
	}
	return float64(s.PentaWL+s.PentaDD) / float64(s.TotalPairs())
}

// PairsRatio is TotalPairs divided by Total/2, i.e. how much of the WDL tally has actually
// been folded into completed pentanomial pairs (less than 1.0 while a pair's second game is
// still in flight).
func (s Stats) PairsRatio() float64 {
	if s.Total() == 0 {
		return 0
	}
	return float64(2*s.TotalPairs()) / float64(s.Total())
}

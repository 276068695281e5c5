package scoreboard

import "math"

// Outcome is the terminal verdict of a Sprt.Check call.
type Outcome int

const (
	Continue  Outcome = iota // neither bound crossed yet, keep playing
	AcceptH0                 // llr <= lower bound: engines are not meaningfully different
	AcceptH1                 // llr >= upper bound: the new engine is meaningfully stronger
)

// Sprt is a sequential probability ratio test over a stream of Stats updates, per spec.md
// §4.8: H0 ("the engine is no better than Elo0") vs H1 ("the engine is at least Elo1
// better"), evaluated after every scoreboard update and terminating the tournament the
// first time either bound is crossed. This is the generalised SPRT (GSPRT) construction
// used throughout the engine-testing ecosystem: model score per game (or per pentanomial
// pair) as approximately normal, and treat the Elo0/Elo1 bounds as two points on the score
// axis rather than simulating the full discrete likelihood.
type Sprt struct {
	Enabled bool
	Elo0    float64
	Elo1    float64
	Alpha   float64 // false-positive rate: probability of accepting H1 when H0 is true
	Beta    float64 // false-negative rate: probability of accepting H0 when H1 is true

	// UsePentanomial selects the pentanomial (paired-games) variance model over the plain
	// WDL one; higher precision per game when openings are played in colour-swapped pairs.
	UsePentanomial bool
}

// NewSprt builds an Sprt from its hypothesis bounds and error rates. A zero-value Sprt
// (Enabled == false) is inert — Check always returns Continue — matching
// TournamentConfig's "SPRT config" being optional per spec.md §4.6.
func NewSprt(elo0, elo1, alpha, beta float64, usePentanomial bool) Sprt {
	return Sprt{
		Enabled:        true,
		Elo0:           elo0,
		Elo1:           elo1,
		Alpha:          alpha,
		Beta:           beta,
		UsePentanomial: usePentanomial,
	}
}

// IsEnabled reports whether this Sprt should be evaluated at all.
func (s Sprt) IsEnabled() bool {
	return s.Enabled
}

// GetBounds returns the (lower, upper) log-likelihood-ratio acceptance thresholds, per
// spec.md §4.8: lower = log(β/(1-α)), upper = log((1-β)/α).
func (s Sprt) GetBounds() (lower, upper float64) {
	lower = math.Log(s.Beta / (1 - s.Alpha))
	upper = math.Log((1 - s.Beta) / s.Alpha)
	return lower, upper
}

// GetElo returns the configured (Elo0, Elo1) hypothesis bounds.
func (s Sprt) GetElo() (elo0, elo1 float64) {
	return s.Elo0, s.Elo1
}

// GetLLR computes the current log-likelihood ratio from the accumulated Stats, using either
// the plain WDL tally or the pentanomial pair distribution depending on usePenta.
//
// The GSPRT statistic is (s1-s0)/variance * n * (mean-(s0+s1)/2), where s0 and s1 are the
// Elo0/Elo1 bounds converted to expected score ratios and mean/variance/n are the sample
// mean, per-game variance, and game (or pair) count of the observed results. This is the
// normal approximation to the true sequential likelihood ratio, accurate once a few dozen
// games have been played.
func (s Sprt) GetLLR(stats Stats, usePenta bool) float64 {
	n, mean, variance := sampleMoments(stats, usePenta)
	if n == 0 || variance == 0 {
		return 0
	}

	s0 := eloFromScoreInverse(s.Elo0)
	s1 := eloFromScoreInverse(s.Elo1)

	return n * (s1 - s0) * (mean - (s0+s1)/2) / variance
}

// sampleMoments returns the (count, mean, variance) of the observed score distribution in
// per-game units, using either the WDL tally or the pentanomial buckets.
func sampleMoments(stats Stats, usePenta bool) (n, mean, variance float64) {
	if !usePenta {
		n = float64(stats.Total())
		if n == 0 {
			return 0, 0, 0
		}
		w, l, d := float64(stats.Wins)/n, float64(stats.Losses)/n, float64(stats.Draws)/n
		mean = w + d/2
		variance = w*(1-mean)*(1-mean) + l*(0-mean)*(0-mean) + d*(0.5-mean)*(0.5-mean)
		return n, mean, variance
	}

	counts, pairs := pentaBuckets(stats)
	if pairs == 0 {
		return 0, 0, 0
	}
	scores := [5]float64{0, 0.5, 1, 1.5, 2}
	var muPair float64
	for i, c := range counts {
		muPair += c * scores[i]
	}
	muPair /= pairs
	var variancePair float64
	for i, c := range counts {
		diff := scores[i] - muPair
		variancePair += (c / pairs) * diff * diff
	}
	// Express in per-game units: 2 games per pair, score halved, variance quartered.
	return pairs, muPair / 2, variancePair / 4
}

// eloFromScoreInverse converts an Elo difference back into the expected score ratio a
// player at that Elo difference would achieve: the inverse of eloFromScore.
func eloFromScoreInverse(elo float64) float64 {
	return 1 / (1 + math.Pow(10, -elo/400))
}

// GetFraction maps an LLR value onto [0, 1] between the lower and upper bounds, for
// progress-reporting ("sprt at 42% of the way to a decision").
func (s Sprt) GetFraction(llr float64) float64 {
	lower, upper := s.GetBounds()
	if upper == lower {
		return 0
	}
	f := (llr - lower) / (upper - lower)
	return math.Max(0, math.Min(1, f))
}

// Check evaluates the current Stats against both bounds and reports the SPRT's outcome.
func (s Sprt) Check(stats Stats) Outcome {
	if !s.Enabled {
		return Continue
	}

	llr := s.GetLLR(stats, s.UsePentanomial)
	lower, upper := s.GetBounds()

	switch {
	case llr <= lower:
		return AcceptH0
	case llr >= upper:
		return AcceptH1
	default:
		return Continue
	}
}

package scoreboard

import "math"

// EloResult is a point estimate plus error margin, in both ordinary Elo and the
// draw-ratio-normalised nElo scale, plus the likelihood of superiority and the raw score
// ratio the estimate was derived from. Field names follow the engine-testing convention
// (diff/error/nelo_diff/nelo_error/score) referenced by spec.md §4.8.
type EloResult struct {
	Diff      float64 // Elo point estimate
	Error     float64 // half-width of the mean score ± one standard error, Elo scale
	NeloDiff  float64 // Diff normalised to a fixed per-game variance of 0.25 (a fair coin flip)
	NeloError float64 // Error normalised the same way
	LOS       float64 // likelihood of superiority, in [0, 1]
	Score     float64 // raw points-per-game ratio the estimate is built from, in [0, 1]
}

// eloFromScore converts an expected score ratio in (0, 1) into an Elo difference using the
// standard logistic relationship. Score 0.5 maps to 0 Elo; it is undefined (returns 0) at
// the 0/1 boundary since a shutout sample gives no finite estimate.
func eloFromScore(p float64) float64 {
	if p <= 0 || p >= 1 {
		return 0
	}
	return -400 * math.Log10(1/p-1)
}

// normCDF is the standard normal cumulative distribution function, via the error function.
func normCDF(x float64) float64 {
	return 0.5 * (1 + math.Erf(x/math.Sqrt2))
}

// EloWDL estimates Elo from the plain win/draw/loss tally, the simple-ratings method of
// spec.md §4.8. It models each game as an independent draw from a {0, 0.5, 1} distribution
// and derives a normal-approximation confidence interval from its sample variance.
func EloWDL(s Stats) EloResult {
	n := float64(s.Total())
	if n == 0 {
		return EloResult{}
	}

	w, l, d := float64(s.Wins)/n, float64(s.Losses)/n, float64(s.Draws)/n
	mu := w + d/2

	variance := w*(1-mu)*(1-mu) + l*(0-mu)*(0-mu) + d*(0.5-mu)*(0.5-mu)
	stdev := math.Sqrt(variance / n)

	return buildEloResult(mu, stdev, variance)
}

// pentaBuckets maps the six accumulated pentanomial categories onto the five distinct
// per-pair score outcomes {0, 0.5, 1, 1.5, 2}: WL and DD both score exactly one point per
// pair and are combined into the single middle bucket, which is what makes the distribution
// "pentanomial" (five buckets) rather than six.
func pentaBuckets(s Stats) (counts [5]float64, n float64) {
	counts[0] = float64(s.PentaLL) // score 0
	counts[1] = float64(s.PentaLD) // score 0.5
	counts[2] = float64(s.PentaWL + s.PentaDD) // score 1
	counts[3] = float64(s.PentaWD) // score 1.5
	counts[4] = float64(s.PentaWW) // score 2
	for _, c := range counts {
		n += c
	}
	return counts, n
}

// EloPentanomial estimates Elo from the pentanomial pair distribution, the
// higher-precision method of spec.md §4.8: pairing two colour-swapped games per opening
// cancels first-move advantage noise out of the variance, giving a tighter confidence
// interval than EloWDL at the same game count whenever the engines draw at all.
func EloPentanomial(s Stats) EloResult {
	counts, n := pentaBuckets(s)
	if n == 0 {
		return EloResult{}
	}

	scores := [5]float64{0, 0.5, 1, 1.5, 2}
	var muPair float64
	for i, c := range counts {
		muPair += c * scores[i]
	}
	muPair /= n
	mu := muPair / 2 // per-game score ratio

	var variancePair float64
	for i, c := range counts {
		d := scores[i] - muPair
		variancePair += (c / n) * d * d
	}
	variance := variancePair / 4 // per-game variance (score halved -> variance quartered)
	stdev := math.Sqrt(variance / n)

	return buildEloResult(mu, stdev, variance)
}

func buildEloResult(mu, stdev, variance float64) EloResult {
	diff := eloFromScore(mu)
	diffHi := eloFromScore(mu + stdev)
	diffLo := eloFromScore(mu - stdev)
	errMargin := (diffHi - diffLo) / 2

	// nElo rescales the same Elo difference as if it had been observed with the fixed
	// per-game variance of a 50/50 coin flip (0.25), so tournaments with different draw
	// rates (and hence different raw variances) become comparable on one normalised scale.
	const referenceVariance = 0.25
	nScale := 1.0
	if variance > 0 {
		nScale = math.Sqrt(referenceVariance / variance)
	}

	var los float64
	if stdev > 0 {
		los = normCDF((mu - 0.5) / stdev)
	} else if mu > 0.5 {
		los = 1
	}

	return EloResult{
		Diff:      diff,
		Error:     errMargin,
		NeloDiff:  diff * nScale,
		NeloError: errMargin * nScale,
		LOS:       los,
		Score:     mu,
	}
}

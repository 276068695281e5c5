// Package report renders the human-readable progress lines the "-ratinginterval"/
// "-scoreinterval" flags schedule and the "-report"/"-output" flags style (spec.md §6), an
// ambient output surface the distilled spec names but leaves unspecified. Grounded on
// original_source/app/src/matchmaking/output/mod.rs's existence as the core's dedicated
// output-formatting module, and on the teacher's logw-based line-oriented console logging.
package report

import (
	"context"
	"fmt"

	"github.com/herohde/fastbench/internal/config"
	"github.com/herohde/fastbench/internal/scoreboard"
	"github.com/seekerror/logw"
)

// Reporter formats scoreboard snapshots into one of the two well-known engine-testing
// tools' console styles, honoring the "-report penta=bool" pentanomial toggle.
type Reporter struct {
	format config.OutputFormat
	penta  bool
}

// New builds a Reporter from the tournament's "-output"/"-report" configuration.
func New(outputFormat config.OutputFormat, reportPenta bool) *Reporter {
	return &Reporter{format: outputFormat, penta: reportPenta}
}

// ScoreLine renders one pair's current standing, the line printed at "-scoreinterval"
// boundaries (and after every completed game pair in cutechess-style output).
func (r *Reporter) ScoreLine(first, second string, s scoreboard.Stats) string {
	switch r.format {
	case config.Fastchess:
		return fmt.Sprintf("Score of %s vs %s: %d - %d - %d [%.3f] %d games",
			first, second, s.Wins, s.Losses, s.Draws, s.PointsRatio(), s.Total())
	default:
		return fmt.Sprintf("Score of %s vs %s: %d - %d - %d  [%.3f] %d",
			first, second, s.Wins, s.Losses, s.Draws, s.PointsRatio(), s.Total())
	}
}

// RatingLine renders the Elo estimate, the line printed at "-ratinginterval" boundaries.
// It uses the pentanomial estimator when r.penta is set and the pair distribution is
// non-empty, falling back to the plain WDL estimator otherwise (e.g. while GamesPerEncounter
// == 1 and no pairs have completed yet).
func (r *Reporter) RatingLine(s scoreboard.Stats) string {
	e := r.eloResult(s)

	switch r.format {
	case config.Fastchess:
		return fmt.Sprintf("Elo diff: %.2f +/- %.2f, nElo diff: %.2f +/- %.2f, LOS: %.1f%%",
			e.Diff, e.Error, e.NeloDiff, e.NeloError, e.LOS*100)
	default:
		return fmt.Sprintf("Elo difference: %.2f +/- %.2f, LOS: %.1f %%, DrawRatio: %.1f %%",
			e.Diff, e.Error, e.LOS*100, s.DrawRatio()*100)
	}
}

// SprtLine renders the running SPRT likelihood-ratio line, if sprt is enabled.
func (r *Reporter) SprtLine(sprt scoreboard.Sprt, s scoreboard.Stats) string {
	if !sprt.IsEnabled() {
		return ""
	}

	llr := sprt.GetLLR(s, sprt.UsePentanomial)
	lower, upper := sprt.GetBounds()
	elo0, elo1 := sprt.GetElo()
	return fmt.Sprintf("SPRT: llr %.2f (%.2f, %.2f) [%.1f, %.1f]", llr, lower, upper, elo0, elo1)
}

func (r *Reporter) eloResult(s scoreboard.Stats) scoreboard.EloResult {
	if r.penta && s.TotalPairs() > 0 {
		return scoreboard.EloPentanomial(s)
	}
	return scoreboard.EloWDL(s)
}

// Emit logs a fully-assembled progress report (score, rating, and SPRT lines, the latter
// two only when they have something to say) through the process-wide logw sink.
func (r *Reporter) Emit(ctx context.Context, first, second string, s scoreboard.Stats, sprt scoreboard.Sprt) {
	logw.Infof(ctx, "%s", r.ScoreLine(first, second, s))
	if s.Total() > 0 {
		logw.Infof(ctx, "%s", r.RatingLine(s))
	}
	if line := r.SprtLine(sprt, s); line != "" {
		logw.Infof(ctx, "%s", line)
	}
}

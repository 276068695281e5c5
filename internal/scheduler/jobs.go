// Package scheduler implements job generation and the bounded worker pool that drives a
// tournament's games to completion (spec.md §4.6): round-robin/gauntlet pairing, a
// fixed-size pool of workers pulling GameAssignments, scoreboard updates, SPRT evaluation,
// interval reporting, and autosave checkpointing.
package scheduler

import (
	"github.com/herohde/fastbench/internal/config"
)

// Job is one GameAssignment: a single game between two already-resolved engine configs,
// tagged with the round it belongs to and (for a paired encounter) the round-id its
// colour-swapped sibling shares, per spec.md §4.6/§4.7.
type Job struct {
	Round   int
	RoundID uint64 // shared by both halves of a games-per-encounter==2, colour-swapped pair

	First, Second config.EngineConfig

	// Paired is true if this Job is one half of a colour-swapped, pentanomial-tracked
	// encounter (games_per_encounter == 2 and not noswap); false means its Stats should be
	// folded in directly via ScoreBoard.UpdateNonPair.
	Paired bool
}

// GenerateJobs builds the full ordered job list for one tournament run, per spec.md §4.6's
// round-robin/gauntlet job-generation rules. roundIDStart seeds the monotonic round-id
// counter (checkpoint resume continues it rather than restarting at zero, so a
// previously-cached pairCache entry never collides with a fresh one).
func GenerateJobs(tc config.TournamentConfig, engines []config.EngineConfig, roundIDStart uint64) []Job {
	var jobs []Job
	nextRoundID := roundIDStart

	emit := func(round int, a, b config.EngineConfig) {
		roundID := nextRoundID
		nextRoundID++

		first, second := a, b
		if tc.Reverse {
			first, second = b, a
		}

		paired := tc.GamesPerEncounter == 2 && !tc.NoSwap
		jobs = append(jobs, Job{
			Round: round, RoundID: roundID,
			First: first, Second: second,
			Paired: paired,
		})

		switch {
		case tc.GamesPerEncounter != 2:
			// Single game per encounter; nothing more to emit.
		case tc.NoSwap:
			jobs = append(jobs, Job{
				Round: round, RoundID: roundID,
				First: first, Second: second,
			})
		default:
			// Colour-swapped second half: First/Second are reversed relative to the first
			// half, so the scoreboard key each half is recorded under (Job.First.Name,
			// Job.Second.Name) alternates (A,B) then (B,A), matching spec.md §4.7's worked
			// pentanomial example and letting ScoreBoard.UpdatePair's cache-invert-add
			// mechanic classify the pair correctly regardless of which half actually won.
			jobs = append(jobs, Job{
				Round: round, RoundID: roundID,
				First: second, Second: first,
				Paired: true,
			})
		}
	}

	for round := 0; round < tc.Rounds; round++ {
		switch tc.Tournament {
		case config.Gauntlet:
			seeds := engines
			rest := engines
			if tc.GauntletSeeds < len(engines) {
				seeds = engines[:tc.GauntletSeeds]
				rest = engines[tc.GauntletSeeds:]
			}
			for _, s := range seeds {
				for _, n := range rest {
					emit(round, s, n)
				}
			}
		default: // RoundRobin
			for i := 0; i < len(engines); i++ {
				for j := i + 1; j < len(engines); j++ {
					emit(round, engines[i], engines[j])
				}
			}
		}
	}

	return jobs
}

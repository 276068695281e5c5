package scheduler_test

import (
	"testing"

	"github.com/herohde/fastbench/internal/config"
	"github.com/herohde/fastbench/internal/scheduler"
	"github.com/herohde/fastbench/internal/scoreboard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func engines(names ...string) []config.EngineConfig {
	var out []config.EngineConfig
	for _, n := range names {
		out = append(out, config.EngineConfig{Name: n})
	}
	return out
}

func TestGenerateJobsRoundRobinSingleGame(t *testing.T) {
	tc := config.Default()
	tc.GamesPerEncounter = 1
	tc.Rounds = 1

	jobs := scheduler.GenerateJobs(tc, engines("A", "B", "C"), 0)
	require.Len(t, jobs, 3) // AB, AC, BC

	assert.Equal(t, "A", jobs[0].First.Name)
	assert.Equal(t, "B", jobs[0].Second.Name)
	assert.False(t, jobs[0].Paired)
}

func TestGenerateJobsRoundRobinPairedGames(t *testing.T) {
	tc := config.Default()
	tc.GamesPerEncounter = 2
	tc.Rounds = 1

	jobs := scheduler.GenerateJobs(tc, engines("A", "B"), 0)
	require.Len(t, jobs, 2)

	assert.Equal(t, "A", jobs[0].First.Name)
	assert.Equal(t, "B", jobs[0].Second.Name)
	assert.True(t, jobs[0].Paired)

	// Second half swaps colour (First/Second reversed, so the scoreboard key the pair is
	// recorded under alternates (A,B) then (B,A)) but shares the same round-id.
	assert.Equal(t, "B", jobs[1].First.Name)
	assert.Equal(t, "A", jobs[1].Second.Name)
	assert.True(t, jobs[1].Paired)
	assert.Equal(t, jobs[0].RoundID, jobs[1].RoundID)
}

func TestGenerateJobsNoSwapKeepsColour(t *testing.T) {
	tc := config.Default()
	tc.GamesPerEncounter = 2
	tc.NoSwap = true
	tc.Rounds = 1

	jobs := scheduler.GenerateJobs(tc, engines("A", "B"), 0)
	require.Len(t, jobs, 2)

	assert.Equal(t, "A", jobs[0].First.Name)
	assert.Equal(t, "A", jobs[1].First.Name)
	assert.False(t, jobs[0].Paired)
	assert.False(t, jobs[1].Paired)
}

func TestGenerateJobsReverseFlipsColourNotIdentity(t *testing.T) {
	tc := config.Default()
	tc.GamesPerEncounter = 1
	tc.Reverse = true
	tc.Rounds = 1

	jobs := scheduler.GenerateJobs(tc, engines("A", "B"), 0)
	require.Len(t, jobs, 1)

	assert.Equal(t, "B", jobs[0].First.Name)
	assert.Equal(t, "A", jobs[0].Second.Name)
}

// TestPairedJobKeysClassifyPentanomialWL reproduces spec.md §8 seed scenario 6: two games
// of the same pair round-id, the first-mover winning both times. Since the pair's second
// half swaps colour, this must classify as PentaWL ("colours cancel out"), never PentaWW
// or PentaLL — exercising the exact (Job.First.Name, Job.Second.Name) keying GenerateJobs
// and Scheduler.record rely on, without needing a live engine match.
func TestPairedJobKeysClassifyPentanomialWL(t *testing.T) {
	tc := config.Default()
	tc.GamesPerEncounter = 2
	tc.Rounds = 1

	jobs := scheduler.GenerateJobs(tc, engines("A", "B"), 0)
	require.Len(t, jobs, 2)

	board := scoreboard.New()

	// Game 1: A (Job.First) wins as the mover-first side.
	key0 := scoreboard.PlayerPairKey{First: jobs[0].First.Name, Second: jobs[0].Second.Name}
	result := board.UpdatePair(key0, scoreboard.FromWDL(1, 0, 0), jobs[0].RoundID)
	require.Equal(t, scoreboard.PairIncomplete, result)

	// Game 2: B (now Job.First, colours swapped) wins as the mover-first side too.
	key1 := scoreboard.PlayerPairKey{First: jobs[1].First.Name, Second: jobs[1].Second.Name}
	result = board.UpdatePair(key1, scoreboard.FromWDL(1, 0, 0), jobs[1].RoundID)
	require.Equal(t, scoreboard.PairComplete, result)

	stats := board.GetStats("A", "B")
	assert.Equal(t, int64(1), stats.Wins)
	assert.Equal(t, int64(1), stats.Losses)
	assert.Equal(t, int64(1), stats.PentaWL)
	assert.Zero(t, stats.PentaWW)
	assert.Zero(t, stats.PentaLL)
}

func TestGenerateJobsGauntlet(t *testing.T) {
	tc := config.Default()
	tc.Tournament = config.Gauntlet
	tc.GauntletSeeds = 1
	tc.Rounds = 1

	jobs := scheduler.GenerateJobs(tc, engines("Seed", "A", "B"), 0)
	require.Len(t, jobs, 2) // Seed-A, Seed-B

	for _, j := range jobs {
		assert.Equal(t, "Seed", j.First.Name)
	}
}

func TestGenerateJobsMultipleRoundsAdvanceRoundID(t *testing.T) {
	tc := config.Default()
	tc.GamesPerEncounter = 1
	tc.Rounds = 3

	jobs := scheduler.GenerateJobs(tc, engines("A", "B"), 0)
	require.Len(t, jobs, 3)
	assert.Equal(t, uint64(0), jobs[0].RoundID)
	assert.Equal(t, uint64(1), jobs[1].RoundID)
	assert.Equal(t, uint64(2), jobs[2].RoundID)
}

func TestGenerateJobsRoundIDStartContinuesCheckpoint(t *testing.T) {
	tc := config.Default()
	tc.GamesPerEncounter = 1
	tc.Rounds = 1

	jobs := scheduler.GenerateJobs(tc, engines("A", "B"), 100)
	assert.Equal(t, uint64(100), jobs[0].RoundID)
}

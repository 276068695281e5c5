package config_test

import (
	"testing"

	"github.com/herohde/fastbench/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEngineAndEach(t *testing.T) {
	args := []string{
		"-engine", "cmd=./a.sh", "name=Alpha", "tc=40/60+0.1",
		"-engine", "cmd=./b.sh", "name=Bravo", "nodes=100000",
		"-each", "option.Hash=64",
		"-rounds", "10",
		"-concurrency", "4",
	}
	tc, engines, err := config.Parse(args)
	require.NoError(t, err)
	require.Len(t, engines, 2)

	assert.Equal(t, "Alpha", engines[0].Name)
	assert.Equal(t, "./a.sh", engines[0].Command)
	assert.NotZero(t, engines[0].TimeControl.Main)
	assert.Equal(t, int64(100000), engines[1].NodeLimit)

	for _, e := range engines {
		require.Len(t, e.Options, 1)
		assert.Equal(t, "Hash", e.Options[0].Name)
		assert.Equal(t, "64", e.Options[0].Value)
	}

	assert.Equal(t, 10, tc.Rounds)
	assert.Equal(t, 4, tc.Concurrency)
}

func TestParseDrawResignMaxmoves(t *testing.T) {
	tc, _, err := config.Parse([]string{
		"-draw", "movenumber=40", "movecount=8", "score=10",
		"-resign", "movecount=3", "score=500", "twosided=false",
		"-maxmoves", "200",
	})
	require.NoError(t, err)
	assert.Equal(t, 40, tc.Draw.MoveNumber)
	assert.Equal(t, 8, tc.Draw.MoveCount)
	assert.Equal(t, int64(10), tc.Draw.Score)
	assert.Equal(t, 3, tc.Resign.MoveCount)
	assert.Equal(t, int64(500), tc.Resign.Score)
	assert.False(t, tc.Resign.TwoSided)
	assert.Equal(t, 200, tc.MaxMoves)
}

func TestParseLivefeed(t *testing.T) {
	tc, _, err := config.Parse([]string{"-livefeed", "serial=1234"})
	require.NoError(t, err)
	assert.True(t, tc.Livefeed.Enabled)
	assert.Equal(t, "1234", tc.Livefeed.Serial)
}

func TestParseLivefeedDefaultsSerialToAuto(t *testing.T) {
	tc, _, err := config.Parse([]string{"-livefeed"})
	require.NoError(t, err)
	assert.True(t, tc.Livefeed.Enabled)
	assert.Equal(t, "auto", tc.Livefeed.Serial)
}

func TestParseSprtImpliesRounds(t *testing.T) {
	tc, _, err := config.Parse([]string{"-sprt", "elo0=0", "elo1=5", "alpha=0.05", "beta=0.05"})
	require.NoError(t, err)
	assert.True(t, tc.Sprt.Enabled)
	assert.Equal(t, 500000, tc.Rounds)
}

func TestParseRepeatWithoutGamesDefaultsToTwo(t *testing.T) {
	tc, _, err := config.Parse([]string{"-repeat"})
	require.NoError(t, err)
	assert.Equal(t, 2, tc.GamesPerEncounter)
}

func TestParseRepeatWithExplicitGamesIsPreserved(t *testing.T) {
	tc, _, err := config.Parse([]string{"-games", "1", "-repeat"})
	require.NoError(t, err)
	assert.Equal(t, 1, tc.GamesPerEncounter)
}

func TestParseVariantAndTournament(t *testing.T) {
	tc, _, err := config.Parse([]string{"-variant", "shogi", "-tournament", "gauntlet"})
	require.NoError(t, err)
	assert.Equal(t, config.Gauntlet, tc.Tournament)
}

func TestParseRejectsUnknownFlag(t *testing.T) {
	_, _, err := config.Parse([]string{"-bogus"})
	require.Error(t, err)
}

func TestParseCPUList(t *testing.T) {
	cpus, err := config.ParseCPUList("0,2-4,-1")
	require.NoError(t, err)
	assert.Equal(t, []int{0, 2, 3, 4, -1}, cpus)
}

func TestParseTimeControl(t *testing.T) {
	limits, err := config.ParseTimeControl("40/60")
	require.NoError(t, err)
	assert.Equal(t, 40, limits.MovesPerPeriod)

	limits, err = config.ParseTimeControl("0:30+0.1")
	require.NoError(t, err)
	assert.Equal(t, 0, limits.MovesPerPeriod)

	limits, err = config.ParseTimeControl("inf")
	require.NoError(t, err)
	assert.Zero(t, limits)

	_, err = config.ParseTimeControl("40/60hg")
	require.Error(t, err)
}

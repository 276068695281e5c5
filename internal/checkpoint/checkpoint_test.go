package checkpoint_test

import (
	"path/filepath"
	"testing"

	"github.com/herohde/fastbench/internal/checkpoint"
	"github.com/herohde/fastbench/internal/config"
	"github.com/herohde/fastbench/internal/scoreboard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "checkpoint.json")

	tc := config.Default()
	tc.Rounds = 5
	engines := []config.EngineConfig{{Name: "Alpha"}, {Name: "Bravo"}}
	results := map[scoreboard.PlayerPairKey]scoreboard.Stats{
		{First: "Alpha", Second: "Bravo"}: scoreboard.FromWDL(3, 1, 2),
	}

	require.NoError(t, checkpoint.Save(path, tc, engines, results))

	gotTC, gotEngines, gotResults, err := checkpoint.Load(path)
	require.NoError(t, err)

	assert.Equal(t, 5, gotTC.Rounds)
	assert.Equal(t, engines, gotEngines)
	assert.Equal(t, results, gotResults)
}

func TestLoadMissingFile(t *testing.T) {
	_, _, _, err := checkpoint.Load(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
}

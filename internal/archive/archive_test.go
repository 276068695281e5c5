package archive_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/herohde/fastbench/internal/archive"
	"github.com/herohde/fastbench/internal/config"
	"github.com/herohde/fastbench/internal/match"
	"github.com/herohde/fastbench/internal/rules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleData() *match.MatchData {
	return &match.MatchData{
		First:  match.PlayerRecord{Name: "Alpha", Result: match.ResultWin},
		Second: match.PlayerRecord{Name: "Bravo", Result: match.ResultLose},
		Variant: rules.Standard,
		Moves: []match.MoveRecord{
			{Ply: 0, Move: "e2e4", Legal: true},
			{Ply: 1, Move: "e7e5", Legal: true},
		},
		Reason:      "White wins by adjudication",
		Termination: match.Adjudication,
	}
}

func TestPGNWriterWritesGame(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.pgn")
	w, err := archive.NewPGNWriter(config.PGNOutConfig{File: path})
	require.NoError(t, err)
	require.NoError(t, w.Write("Bench", "local", 1, sampleData()))
	require.NoError(t, w.Close())

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	s := string(content)
	assert.Contains(t, s, "[White \"Alpha\"]")
	assert.Contains(t, s, "[Black \"Bravo\"]")
	assert.Contains(t, s, "[Result \"1-0\"]")
	assert.Contains(t, s, "1. e2e4 e7e5 1-0")
}

func TestPGNWriterDisabledIsNoop(t *testing.T) {
	w, err := archive.NewPGNWriter(config.PGNOutConfig{})
	require.NoError(t, err)
	require.NoError(t, w.Write("Bench", "local", 1, sampleData()))
	require.NoError(t, w.Close())
}

func TestPGNWriterMatchLineFiltersGames(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.pgn")
	w, err := archive.NewPGNWriter(config.PGNOutConfig{File: path, MatchLines: []string{"^Draw"}})
	require.NoError(t, err)
	require.NoError(t, w.Write("Bench", "local", 1, sampleData()))
	require.NoError(t, w.Close())

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Empty(t, string(content))
}

func TestPGNWriterAppendMode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.pgn")
	w1, err := archive.NewPGNWriter(config.PGNOutConfig{File: path})
	require.NoError(t, err)
	require.NoError(t, w1.Write("Bench", "local", 1, sampleData()))
	require.NoError(t, w1.Close())

	w2, err := archive.NewPGNWriter(config.PGNOutConfig{File: path, Append: true})
	require.NoError(t, err)
	require.NoError(t, w2.Write("Bench", "local", 2, sampleData()))
	require.NoError(t, w2.Close())

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, countOccurrences(string(content), "[Event"))
}

func TestPGNWriterTelemetryComment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.pgn")
	w, err := archive.NewPGNWriter(config.PGNOutConfig{File: path, Nodes: true})
	require.NoError(t, err)

	data := sampleData()
	data.Moves[0].Info.Nodes = 12345
	require.NoError(t, w.Write("Bench", "local", 1, data))
	require.NoError(t, w.Close())

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "nodes=12345")
}

func TestEPDWriterWritesRecord(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.epd")
	w, err := archive.NewEPDWriter(config.EPDOutConfig{File: path})
	require.NoError(t, err)
	require.NoError(t, w.Write(1, sampleData()))
	require.NoError(t, w.Close())

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	s := string(content)
	assert.Contains(t, s, "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq -")
	assert.Contains(t, s, "Alpha vs Bravo")
}

func countOccurrences(s, substr string) int {
	count := 0
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			count++
		}
	}
	return count
}

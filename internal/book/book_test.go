package book_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/herohde/fastbench/internal/book"
	"github.com/herohde/fastbench/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeBookFile(t *testing.T, lines ...string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "book.txt")
	content := ""
	for _, l := range lines {
		content += l + "\n"
	}
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestEmptyBookReturnsDefaultOpening(t *testing.T) {
	b, err := book.Load(config.OpeningsConfig{}, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, b.Len())

	o, err := b.Next(0)
	require.NoError(t, err)
	assert.Empty(t, o.StartFEN)
	assert.Empty(t, o.PrefixMoves)
}

func TestSequentialPGNBook(t *testing.T) {
	path := writeBookFile(t, "e2e4 e7e5", "d2d4 d7d5")
	b, err := book.Load(config.OpeningsConfig{File: path, Format: "pgn", Order: "sequential"}, 1)
	require.NoError(t, err)
	require.Equal(t, 2, b.Len())

	o1, err := b.Next(0)
	require.NoError(t, err)
	assert.Equal(t, []string{"e2e4", "e7e5"}, o1.PrefixMoves)

	o2, err := b.Next(0)
	require.NoError(t, err)
	assert.Equal(t, []string{"d2d4", "d7d5"}, o2.PrefixMoves)

	// Cycles back to the start once exhausted.
	o3, err := b.Next(0)
	require.NoError(t, err)
	assert.Equal(t, []string{"e2e4", "e7e5"}, o3.PrefixMoves)
}

func TestPliesTruncation(t *testing.T) {
	path := writeBookFile(t, "e2e4 e7e5 g1f3 b8c6")
	b, err := book.Load(config.OpeningsConfig{File: path, Format: "pgn", Plies: 2}, 1)
	require.NoError(t, err)

	o, err := b.Next(0)
	require.NoError(t, err)
	assert.Equal(t, []string{"e2e4", "e7e5"}, o.PrefixMoves)
}

func TestRoundPolicyUsesRoundIndex(t *testing.T) {
	path := writeBookFile(t, "e2e4 e7e5", "d2d4 d7d5")
	b, err := book.Load(config.OpeningsConfig{File: path, Format: "pgn", Policy: "round"}, 1)
	require.NoError(t, err)

	o0, err := b.Next(0)
	require.NoError(t, err)
	o1, err := b.Next(1)
	require.NoError(t, err)
	assert.NotEqual(t, o0.PrefixMoves, o1.PrefixMoves)

	// Re-asking for the same round returns the same opening.
	o0again, err := b.Next(0)
	require.NoError(t, err)
	assert.Equal(t, o0.PrefixMoves, o0again.PrefixMoves)
}

func TestEPDFormat(t *testing.T) {
	path := writeBookFile(t, "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq -")
	b, err := book.Load(config.OpeningsConfig{File: path, Format: "epd"}, 1)
	require.NoError(t, err)

	o, err := b.Next(0)
	require.NoError(t, err)
	assert.Equal(t, "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq -", o.StartFEN)
}

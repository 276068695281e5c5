package livefeed_test

import (
	"testing"

	"github.com/herohde/fastbench/internal/livefeed"
	"github.com/herohde/fastbench/internal/match"
	"github.com/herohde/fastbench/internal/rules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplayAppliesEveryLegalMove(t *testing.T) {
	data := &match.MatchData{
		Variant: rules.Standard,
		Moves: []match.MoveRecord{
			{Ply: 0, Move: "e2e4", Legal: true},
			{Ply: 1, Move: "e7e5", Legal: true},
			{Ply: 2, Move: "g1f3", Legal: true},
		},
	}

	fen, err := livefeed.Replay(data)
	require.NoError(t, err)
	assert.Contains(t, fen, "RNBQKB1R") // White's knight left g1 for f3
	assert.Contains(t, fen, " b ")      // Black to move after 1.e4 e5 2.Nf3
}

func TestReplayStopsAtFirstIllegalMove(t *testing.T) {
	data := &match.MatchData{
		Variant: rules.Standard,
		Moves: []match.MoveRecord{
			{Ply: 0, Move: "e2e4", Legal: true},
			{Ply: 1, Move: "e7e5", Legal: false}, // IllegalMove-terminated game
		},
	}

	fen, err := livefeed.Replay(data)
	require.NoError(t, err)
	assert.Contains(t, fen, " b ") // Black to move, only White's opening move was applied
}

func TestReplayEmptyGameReturnsStartingPosition(t *testing.T) {
	data := &match.MatchData{Variant: rules.Standard}

	fen, err := livefeed.Replay(data)
	require.NoError(t, err)
	assert.Contains(t, fen, "rnbqkbnr/pppppppp")
}

func TestReplayHonoursCustomStartFEN(t *testing.T) {
	data := &match.MatchData{
		Variant:  rules.Standard,
		StartFEN: "4k3/8/8/8/8/8/8/4K3 w - - 0 1",
	}

	fen, err := livefeed.Replay(data)
	require.NoError(t, err)
	assert.Contains(t, fen, "4k3/8/8/8/8/8/8/4K3")
}

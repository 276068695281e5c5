package scoreboard_test

import (
	"testing"

	"github.com/herohde/fastbench/internal/scoreboard"
	"github.com/stretchr/testify/assert"
)

func TestUpdateNonPair(t *testing.T) {
	b := scoreboard.New()
	key := scoreboard.PlayerPairKey{First: "a", Second: "b"}

	b.UpdateNonPair(key, scoreboard.FromWDL(1, 0, 0))
	b.UpdateNonPair(key, scoreboard.FromWDL(0, 1, 0))

	got := b.GetResults()[key]
	assert.Equal(t, int64(1), got.Wins)
	assert.Equal(t, int64(1), got.Losses)
	assert.Equal(t, int64(0), got.TotalPairs())
}

func TestUpdatePairFirstCallIncomplete(t *testing.T) {
	b := scoreboard.New()
	key := scoreboard.PlayerPairKey{First: "a", Second: "b"}

	result := b.UpdatePair(key, scoreboard.FromWDL(1, 0, 0), 42)
	assert.Equal(t, scoreboard.PairIncomplete, result)
	assert.False(t, b.IsPairCompleted(42))
}

// TestUpdatePairWWYieldsWL reproduces the confirmed scoreboard.rs behaviour: two
// consecutive wins by the same engine across a colour-swapped pair classify as WL (one win,
// one loss from the fixed key's first-mover perspective), never WW, because the second
// game's raw Stats are added onto the first game's *inverted* Stats.
func TestUpdatePairWWYieldsWL(t *testing.T) {
	b := scoreboard.New()
	key := scoreboard.PlayerPairKey{First: "a", Second: "b"}

	first := b.UpdatePair(key, scoreboard.FromWDL(1, 0, 0), 7) // a wins as first-mover
	assert.Equal(t, scoreboard.PairIncomplete, first)

	second := b.UpdatePair(key, scoreboard.FromWDL(1, 0, 0), 7) // a wins as second-mover too
	assert.Equal(t, scoreboard.PairComplete, second)

	got := b.GetResults()[key]
	assert.Equal(t, int64(1), got.Wins)
	assert.Equal(t, int64(1), got.Losses)
	assert.Equal(t, int64(1), got.PentaWL)
	assert.Equal(t, int64(0), got.PentaWW)
}

func TestUpdatePairBothDraws(t *testing.T) {
	b := scoreboard.New()
	key := scoreboard.PlayerPairKey{First: "a", Second: "b"}

	b.UpdatePair(key, scoreboard.FromWDL(0, 0, 1), 1)
	result := b.UpdatePair(key, scoreboard.FromWDL(0, 0, 1), 1)
	assert.Equal(t, scoreboard.PairComplete, result)

	got := b.GetResults()[key]
	assert.Equal(t, int64(2), got.Draws)
	assert.Equal(t, int64(1), got.PentaDD)
}

func TestGetStatsCombinesBothDirections(t *testing.T) {
	b := scoreboard.New()
	ab := scoreboard.PlayerPairKey{First: "a", Second: "b"}
	ba := scoreboard.PlayerPairKey{First: "b", Second: "a"}

	b.UpdateNonPair(ab, scoreboard.FromWDL(1, 0, 0)) // a beats b
	b.UpdateNonPair(ba, scoreboard.FromWDL(1, 0, 0)) // b beats a

	got := b.GetStats("a", "b")
	assert.Equal(t, int64(2), got.Wins)
	assert.Equal(t, int64(0), got.Losses)
}

func TestGetAllStats(t *testing.T) {
	b := scoreboard.New()
	b.UpdateNonPair(scoreboard.PlayerPairKey{First: "a", Second: "b"}, scoreboard.FromWDL(1, 0, 0))
	b.UpdateNonPair(scoreboard.PlayerPairKey{First: "c", Second: "a"}, scoreboard.FromWDL(1, 0, 0)) // c beats a

	got := b.GetAllStats("a")
	assert.Equal(t, int64(1), got.Wins)   // a's own win over b
	assert.Equal(t, int64(1), got.Losses) // a's loss to c, inverted from c's win
}

func TestSetResultsRoundTrip(t *testing.T) {
	b := scoreboard.New()
	key := scoreboard.PlayerPairKey{First: "a", Second: "b"}
	b.UpdateNonPair(key, scoreboard.FromWDL(1, 0, 0))

	snapshot := b.GetResults()

	b2 := scoreboard.New()
	b2.SetResults(snapshot)
	assert.Equal(t, snapshot, b2.GetResults())
}

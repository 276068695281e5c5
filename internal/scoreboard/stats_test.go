package scoreboard_test

import (
	"testing"

	"github.com/herohde/fastbench/internal/scoreboard"
	"github.com/stretchr/testify/assert"
)

func TestStatsBasic(t *testing.T) {
	s := scoreboard.FromWDL(3, 1, 2)
	assert.Equal(t, int64(6), s.Total())
	assert.Equal(t, 3.5, s.Points())
	assert.InDelta(t, 3.5/6, s.PointsRatio(), 1e-9)
	assert.InDelta(t, 2.0/6, s.DrawRatio(), 1e-9)
}

func TestStatsAdd(t *testing.T) {
	a := scoreboard.FromWDL(1, 0, 0)
	b := scoreboard.FromWDL(0, 1, 0)
	sum := a.Add(b)
	assert.Equal(t, int64(1), sum.Wins)
	assert.Equal(t, int64(1), sum.Losses)
	assert.Equal(t, int64(0), sum.Draws)
}

func TestStatsInvert(t *testing.T) {
	s := scoreboard.Stats{
		Wins: 2, Losses: 1, Draws: 3,
		PentaWW: 1, PentaWD: 2, PentaWL: 3, PentaDD: 4, PentaLD: 5, PentaLL: 6,
	}
	inv := s.Inverted()
	assert.Equal(t, int64(1), inv.Wins)
	assert.Equal(t, int64(2), inv.Losses)
	assert.Equal(t, int64(3), inv.Draws)
	assert.Equal(t, int64(6), inv.PentaWW)
	assert.Equal(t, int64(5), inv.PentaWD)
	assert.Equal(t, int64(3), inv.PentaWL)
	assert.Equal(t, int64(4), inv.PentaDD)
	assert.Equal(t, int64(2), inv.PentaLD)
	assert.Equal(t, int64(1), inv.PentaLL)

	// inverting twice recovers the original
	assert.Equal(t, s, inv.Inverted())
}

func TestPentanomial(t *testing.T) {
	s := scoreboard.Stats{PentaWW: 1, PentaWD: 2, PentaWL: 3, PentaDD: 1, PentaLD: 1, PentaLL: 1}
	assert.Equal(t, int64(9), s.TotalPairs())
	assert.InDelta(t, 1.0/9, s.DrawRatioPenta(), 1e-9)
	assert.InDelta(t, 4.0/9, s.WLDDRatio(), 1e-9)
}

package score_test

import (
	"testing"

	"github.com/herohde/fastbench/internal/score"
	"github.com/stretchr/testify/assert"
)

func TestCentipawnString(t *testing.T) {
	assert.Equal(t, "+2.14", score.CP(214).String())
	assert.Equal(t, "-0.50", score.CP(-50).String())
	assert.Equal(t, "0.00", score.CP(0).String())
}

func TestMateString(t *testing.T) {
	assert.Equal(t, "+M1", score.MateIn(1).String())  // mate in 1 move = 1 ply
	assert.Equal(t, "+M5", score.MateIn(3).String())  // mate in 3 moves = 5 plies
	assert.Equal(t, "-M2", score.MateIn(-1).String()) // getting mated in 1 move = 2 plies
}

package clock_test

import (
	"testing"
	"time"

	"github.com/herohde/fastbench/internal/clock"
	"github.com/stretchr/testify/assert"
)

func TestUpdateTimeSuddenDeath(t *testing.T) {
	c := clock.New(clock.Limits{
		Main:      10 * time.Second,
		Increment: 2 * time.Second,
		Margin:    time.Second,
	})

	assert.True(t, c.UpdateTime(4*time.Second))
	assert.Equal(t, 8*time.Second, c.Remaining()) // 10 - 4 + 2

	assert.True(t, c.UpdateTime(8*time.Second))
	assert.Equal(t, 2*time.Second, c.Remaining())
}

func TestUpdateTimeTimesOut(t *testing.T) {
	c := clock.New(clock.Limits{
		Main:   time.Second,
		Margin: 100 * time.Millisecond,
	})

	assert.False(t, c.UpdateTime(2*time.Second))
}

func TestUpdateTimeMovesPerPeriodRollover(t *testing.T) {
	c := clock.New(clock.Limits{
		Main:           10 * time.Second,
		MovesPerPeriod: 2,
	})

	assert.True(t, c.UpdateTime(time.Second))
	assert.Equal(t, 9*time.Second, c.Remaining())

	// Second move of the period: moves-left hits zero, period replenishes with +Main.
	assert.True(t, c.UpdateTime(time.Second))
	assert.Equal(t, 18*time.Second, c.Remaining())
}

func TestDeadlineUsesFixedTimePerMove(t *testing.T) {
	c := clock.New(clock.Limits{
		Main:             10 * time.Second,
		FixedTimePerMove: 500 * time.Millisecond,
	})
	assert.Equal(t, 500*time.Millisecond, c.Deadline())
}

func TestDeadlineIsRemainingPlusMargin(t *testing.T) {
	c := clock.New(clock.Limits{
		Main:   10 * time.Second,
		Margin: time.Second,
	})
	assert.Equal(t, 11*time.Second, c.Deadline())
}

package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/herohde/fastbench/internal/clock"
	"github.com/herohde/fastbench/internal/config"
	"github.com/herohde/fastbench/internal/rules"
	"github.com/herohde/fastbench/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeUCIEngine is a minimal shell-scripted stand-in for a real UCI engine: it answers
// "uci" with an id/option/uciok block, "isready" with "readyok", and "go" with one info
// line plus a fixed bestmove, regardless of the position sent.
const fakeUCIEngine = `
while IFS= read -r line; do
  case "$line" in
    uci)
      echo "id name Fake"
      echo "id author Test"
      echo "option name Threads type spin default 1 min 1 max 64"
      echo "uciok"
      ;;
    isready) echo "readyok" ;;
    go*)
      echo "info depth 4 seldepth 6 score cp 34 nodes 1000 nps 500000 pv e2e4 e7e5"
      echo "bestmove e2e4"
      ;;
    quit) exit 0 ;;
    *) ;;
  esac
done
`

func newTestSession(t *testing.T) *session.Session {
	t.Helper()
	cfg := config.EngineConfig{
		Name:        "fake",
		Command:     "/bin/sh",
		Args:        []string{"-c", fakeUCIEngine},
		TimeControl: clock.Limits{Main: 10 * time.Second},
		Variant:     rules.Standard,
	}
	s := session.New(cfg)
	require.NoError(t, s.Start(context.Background(), nil))
	t.Cleanup(func() { _ = s.Close(context.Background()) })
	return s
}

func TestStartAndRefreshNewGame(t *testing.T) {
	s := newTestSession(t)
	assert.Equal(t, session.Ready, s.State())

	require.NoError(t, s.RefreshNewGame(context.Background()))
}

func TestGoAndDriveReturnsBestmoveAndScore(t *testing.T) {
	s := newTestSession(t)
	require.NoError(t, s.RefreshNewGame(context.Background()))
	require.NoError(t, s.Position(context.Background(), "startpos", nil))

	our := clock.New(clock.Limits{Main: 10 * time.Second})
	their := clock.New(clock.Limits{Main: 10 * time.Second})

	deadline, err := s.Go(context.Background(), our, their, rules.First)
	require.NoError(t, err)

	best, _, err := s.Drive(deadline)
	require.NoError(t, err)
	assert.Equal(t, session.Move, best.Kind)
	assert.Equal(t, "e2e4", best.Text)

	sc, err := s.LastScore()
	require.NoError(t, err)
	assert.True(t, sc.IsCentipawn())
	assert.Equal(t, int64(34), sc.Value)

	info, err := s.LastInfoData()
	require.NoError(t, err)
	assert.Equal(t, 4, info.Depth)
	assert.Equal(t, []string{"e2e4", "e7e5"}, info.PV)
}

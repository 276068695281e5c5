package scheduler_test

import (
	"context"
	"testing"
	"time"

	"github.com/herohde/fastbench/internal/archive"
	"github.com/herohde/fastbench/internal/book"
	"github.com/herohde/fastbench/internal/clock"
	"github.com/herohde/fastbench/internal/config"
	"github.com/herohde/fastbench/internal/pool"
	"github.com/herohde/fastbench/internal/rules"
	"github.com/herohde/fastbench/internal/scheduler"
	"github.com/herohde/fastbench/internal/scoreboard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeEngineScript replies e2e4 when the last "position" line it received has White to
// move and e7e5 when it has Black to move, so the match's own rules adaptor accepts the
// first move of either side; MaxMoves adjudication is what actually ends the game in these
// tests.
const fakeEngineScript = `
mv=e2e4
while IFS= read -r line; do
  case "$line" in
    uci|usi) echo "id name Fake"; echo "uciok" ;;
    isready) echo "readyok" ;;
    position*)
      case "$line" in
        *" b "*) mv=e7e5 ;;
        *) mv=e2e4 ;;
      esac
      ;;
    go*) echo "bestmove $mv" ;;
    quit) exit 0 ;;
    *) ;;
  esac
done
`

func fakeEngineConfig(name string) config.EngineConfig {
	return config.EngineConfig{
		Name:        name,
		Command:     "/bin/sh",
		Args:        []string{"-c", fakeEngineScript},
		TimeControl: clock.Limits{Main: 10 * time.Second},
		Variant:     rules.Standard,
		Restart:     config.KeepAlive,
	}
}

func TestSchedulerRunPlaysAllJobsAndUpdatesScoreboard(t *testing.T) {
	tc := config.Default()
	tc.GamesPerEncounter = 1
	tc.Rounds = 1
	tc.MaxMoves = 1 // 2 plies, forces a quick adjudicated draw

	a, b := fakeEngineConfig("Alpha"), fakeEngineConfig("Bravo")
	p := pool.New(nil)
	defer p.Close(context.Background())

	board := scoreboard.New()
	bk, err := book.Load(config.OpeningsConfig{}, 1)
	require.NoError(t, err)

	pgn, err := archive.NewPGNWriter(config.PGNOutConfig{})
	require.NoError(t, err)
	epd, err := archive.NewEPDWriter(config.EPDOutConfig{})
	require.NoError(t, err)

	s := scheduler.New(tc, []config.EngineConfig{a, b}, []*pool.Pool{p}, board, bk, pgn, epd, nil, "")

	summary, err := s.Run(context.Background(), 4, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.GamesPlayed)
	assert.False(t, summary.Abnormal)

	stats := board.GetStats("Alpha", "Bravo")
	assert.Equal(t, int64(1), stats.Total())
}

func TestSchedulerRunPairedEncounterCompletesPentanomial(t *testing.T) {
	tc := config.Default()
	tc.GamesPerEncounter = 2
	tc.Rounds = 1
	tc.MaxMoves = 1

	a, b := fakeEngineConfig("Alpha"), fakeEngineConfig("Bravo")
	p := pool.New(nil)
	defer p.Close(context.Background())

	board := scoreboard.New()
	bk, err := book.Load(config.OpeningsConfig{}, 1)
	require.NoError(t, err)
	pgn, _ := archive.NewPGNWriter(config.PGNOutConfig{})
	epd, _ := archive.NewEPDWriter(config.EPDOutConfig{})

	s := scheduler.New(tc, []config.EngineConfig{a, b}, []*pool.Pool{p}, board, bk, pgn, epd, nil, "")

	summary, err := s.Run(context.Background(), 4, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.GamesPlayed)

	// Both halves are adjudicated draws (MaxMoves=1, symmetric script), so the pair must
	// land in PentaDD specifically -- asserting only TotalPairs()==1 would pass even if the
	// pair were misclassified into the wrong bucket.
	stats := board.GetStats("Alpha", "Bravo")
	assert.Equal(t, int64(1), stats.TotalPairs())
	assert.Equal(t, int64(1), stats.PentaDD)
}

func TestSchedulerStopBeforeRunPlaysNoGames(t *testing.T) {
	tc := config.Default()
	tc.GamesPerEncounter = 1
	tc.Rounds = 20
	tc.MaxMoves = 1

	a, b := fakeEngineConfig("Alpha"), fakeEngineConfig("Bravo")
	p := pool.New(nil)
	defer p.Close(context.Background())

	board := scoreboard.New()
	bk, err := book.Load(config.OpeningsConfig{}, 1)
	require.NoError(t, err)
	pgn, _ := archive.NewPGNWriter(config.PGNOutConfig{})
	epd, _ := archive.NewEPDWriter(config.EPDOutConfig{})

	s := scheduler.New(tc, []config.EngineConfig{a, b}, []*pool.Pool{p}, board, bk, pgn, epd, nil, "")
	s.Stop()

	summary, err := s.Run(context.Background(), 4, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, summary.GamesPlayed)
}

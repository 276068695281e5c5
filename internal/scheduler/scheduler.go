package scheduler

import (
	"context"
	"fmt"
	"sync"

	"github.com/herohde/fastbench/internal/archive"
	"github.com/herohde/fastbench/internal/book"
	"github.com/herohde/fastbench/internal/checkpoint"
	"github.com/herohde/fastbench/internal/config"
	"github.com/herohde/fastbench/internal/livefeed"
	"github.com/herohde/fastbench/internal/match"
	"github.com/herohde/fastbench/internal/pool"
	"github.com/herohde/fastbench/internal/report"
	"github.com/herohde/fastbench/internal/rules"
	"github.com/herohde/fastbench/internal/rules/chess"
	"github.com/herohde/fastbench/internal/rules/shogi"
	"github.com/herohde/fastbench/internal/scoreboard"
	"github.com/herohde/fastbench/internal/session"
	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/util/contextx"
	"go.uber.org/atomic"
)

// Summary is the final outcome of one Scheduler.Run call.
type Summary struct {
	GamesPlayed int
	SprtOutcome scoreboard.Outcome
	Abnormal    bool // true if a restart=true engine crashed during startup or its first game
}

// Scheduler drives a tournament's generated Jobs through a fixed-size worker pool, per
// spec.md §4.6. It owns the process-wide stop/abnormal_termination flags, the shared
// ScoreBoard, the optional SPRT test, interval reporting, autosave checkpointing, and the
// optional PGN/EPD archive writers.
type Scheduler struct {
	tc      config.TournamentConfig
	engines []config.EngineConfig

	// pools holds one *pool.Pool per worker goroutine when tc.Affinity is set (each pinned
	// to its own CPU list, per spec.md §9's "pools are per-worker-thread, not global, in
	// that mode"), or a single shared Pool otherwise; Run indexes it by worker number
	// modulo len(pools).
	pools []*pool.Pool
	board *scoreboard.ScoreBoard
	sprt  scoreboard.Sprt

	book     *book.Book
	reporter *report.Reporter
	pgn      *archive.PGNWriter
	epd      *archive.EPDWriter
	feed     *livefeed.Broadcaster // nil unless -livefeed connected a broadcaster

	checkpointPath string

	stop     *atomic.Bool
	abnormal *atomic.Bool
}

// New builds a Scheduler. pools and b are shared, already-constructed collaborators (one or
// more EnginePools and the ScoreBoard — see the pools field doc); pgn/epd may be disabled
// writers (archive.New*Writer returns a no-op writer when its corresponding flag is unset).
// feed may be nil, meaning no live broadcast sink is configured for this run.
func New(tc config.TournamentConfig, engines []config.EngineConfig, pools []*pool.Pool, b *scoreboard.ScoreBoard, bk *book.Book, pgn *archive.PGNWriter, epd *archive.EPDWriter, feed *livefeed.Broadcaster, checkpointPath string) *Scheduler {
	var sprt scoreboard.Sprt
	if tc.Sprt.Enabled {
		sprt = scoreboard.NewSprt(tc.Sprt.Elo0, tc.Sprt.Elo1, tc.Sprt.Alpha, tc.Sprt.Beta, tc.Sprt.UsePentanomial)
	}

	return &Scheduler{
		tc:             tc,
		engines:        engines,
		pools:          pools,
		board:          b,
		sprt:           sprt,
		book:           bk,
		reporter:       report.New(tc.OutputFormat, tc.ReportPenta),
		pgn:            pgn,
		epd:            epd,
		feed:           feed,
		checkpointPath: checkpointPath,
		stop:           atomic.NewBool(false),
		abnormal:       atomic.NewBool(false),
	}
}

// Stop requests cooperative cancellation: no new Job will be dispatched, and Match.Play
// will return at its next safe point. Safe to call from any goroutine, any number of times.
func (s *Scheduler) Stop() {
	s.stop.Store(true)
}

// Run generates this tournament's Jobs (honoring a checkpoint's already-completed round-id
// count, if roundIDStart > 0) and drives them through a fixed-size worker pool of
// tc.Concurrency (resolved against hwThreads) goroutines until every Job has been played,
// SPRT terminates, or Stop is called.
func (s *Scheduler) Run(ctx context.Context, hwThreads int, roundIDStart uint64) (Summary, error) {
	jobs := GenerateJobs(s.tc, s.engines, roundIDStart)
	concurrency := config.ResolveConcurrency(s.tc.Concurrency, hwThreads)

	jobCh := make(chan Job)
	go func() {
		defer close(jobCh)
		for _, j := range jobs {
			if contextx.IsCancelled(ctx) || s.stop.Load() {
				return
			}
			select {
			case jobCh <- j:
			case <-ctx.Done():
				return
			}
		}
	}()

	var (
		mu        sync.Mutex
		played    int
		firstGame = make(map[string]bool, len(s.engines)) // engine name -> has completed >=1 game
	)
	for _, e := range s.engines {
		firstGame[e.Name] = false
	}

	var wg sync.WaitGroup
	for w := 0; w < concurrency; w++ {
		p := s.pools[w%len(s.pools)]
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobCh {
				if s.stop.Load() {
					continue
				}

				abnormal, err := s.playJob(ctx, p, j, &mu, firstGame)
				if err != nil {
					logw.Errorf(ctx, "scheduler: job (%s vs %s) failed: %v", j.First.Name, j.Second.Name, err)
					if abnormal {
						s.stop.Store(true)
						s.abnormal.Store(true)
					}
					continue
				}

				mu.Lock()
				played++
				n := played
				mu.Unlock()

				if s.tc.AutosaveInterval > 0 && n%s.tc.AutosaveInterval == 0 {
					s.autosave(s.tc, s.engines)
				}
				if s.tc.RatingInterval > 0 && n%s.tc.RatingInterval == 0 {
					s.emitReport(ctx, j)
				}

				if s.sprt.IsEnabled() && len(s.engines) > 0 {
					stats := s.board.GetAllStats(s.engines[0].Name)
					if outcome := s.sprt.Check(stats); outcome != scoreboard.Continue {
						s.stop.Store(true)
					}
				}
			}
		}()
	}
	wg.Wait()

	outcome := scoreboard.Continue
	if s.sprt.IsEnabled() && len(s.engines) > 0 {
		outcome = s.sprt.Check(s.board.GetAllStats(s.engines[0].Name))
	}

	return Summary{GamesPlayed: played, SprtOutcome: outcome, Abnormal: s.abnormal.Load()}, nil
}

// playJob runs one Job to completion, archives it, and folds its result into the
// ScoreBoard. The returned bool reports whether the failure (if any) qualifies as the
// "restart=true engine crash during startup or first game" condition of spec.md §4.6 that
// sets abnormal_termination.
func (s *Scheduler) playJob(ctx context.Context, p *pool.Pool, j Job, mu *sync.Mutex, firstGame map[string]bool) (bool, error) {
	opening, err := s.book.Next(j.Round)
	if err != nil {
		return false, fmt.Errorf("scheduler: opening: %w", err)
	}

	r := rulesFor(j.First.Variant)
	cfg := match.Config{Draw: s.tc.Draw, Resign: s.tc.Resign, MaxMoves: s.tc.MaxMoves, Tb: s.tc.Tb}

	var data *match.MatchData
	playErr := p.WithEngines(ctx, j.First, j.Second, func(first, second *session.Session) error {
		m, err := match.New(r, opening, cfg, j.First, j.Second, first, second)
		if err != nil {
			return err
		}
		d, err := m.Play(ctx, s.stop)
		if err != nil {
			return err
		}
		data = d
		return nil
	})

	mu.Lock()
	wasFirstGame := !firstGame[j.First.Name] || !firstGame[j.Second.Name]
	firstGame[j.First.Name] = true
	firstGame[j.Second.Name] = true
	mu.Unlock()

	if playErr != nil {
		restartsEarly := (j.First.Restart == config.RestartEachGame || j.Second.Restart == config.RestartEachGame) && wasFirstGame
		return restartsEarly, fmt.Errorf("play: %w", playErr)
	}

	s.record(j, data)
	return false, nil
}

// record folds a completed game's result into the ScoreBoard from j.First's own
// perspective (whichever engine actually moved first in this particular Job) under the key
// (j.First.Name, j.Second.Name), and archives it to PGN/EPD. A paired encounter's two Jobs
// swap First/Second between halves (see GenerateJobs), so this key alternates (A,B) then
// (B,A) across the pair — exactly what ScoreBoard.UpdatePair's cache-invert-add mechanic
// (spec.md §4.7) expects to classify the pair correctly.
func (s *Scheduler) record(j Job, data *match.MatchData) {
	stats := statsFor(data, j.First.Name)
	key := scoreboard.PlayerPairKey{First: j.First.Name, Second: j.Second.Name}

	if j.Paired {
		s.board.UpdatePair(key, stats, j.RoundID)
	} else {
		s.board.UpdateNonPair(key, stats)
	}

	if err := s.pgn.Write(s.tc.Event, s.tc.Site, j.Round, data); err != nil {
		logw.Errorf(context.Background(), "scheduler: pgn write: %v", err)
	}
	if err := s.epd.Write(j.Round, data); err != nil {
		logw.Errorf(context.Background(), "scheduler: epd write: %v", err)
	}
	if s.feed != nil {
		s.feed.PublishAsync(context.Background(), data)
	}
}

// statsFor returns a completed game's Stats as seen from engineName's own perspective,
// whichever of MatchData's two PlayerRecords it actually occupied in this particular game.
func statsFor(data *match.MatchData, engineName string) scoreboard.Stats {
	result := data.Second.Result
	if data.First.Name == engineName {
		result = data.First.Result
	}
	return statsFromResult(result)
}

func statsFromResult(r match.GameResult) scoreboard.Stats {
	switch r {
	case match.ResultWin:
		return scoreboard.FromWDL(1, 0, 0)
	case match.ResultLose:
		return scoreboard.FromWDL(0, 1, 0)
	case match.ResultDraw:
		return scoreboard.FromWDL(0, 0, 1)
	default:
		return scoreboard.Stats{}
	}
}

// emitReport logs the current standing for j's pairing, from j.First's perspective.
func (s *Scheduler) emitReport(ctx context.Context, j Job) {
	stats := s.board.GetStats(j.First.Name, j.Second.Name)
	s.reporter.Emit(ctx, j.First.Name, j.Second.Name, stats, s.sprt)
}

// autosave persists the current scoreboard as a JSON checkpoint, if "-config" names a file.
func (s *Scheduler) autosave(tc config.TournamentConfig, engines []config.EngineConfig) {
	if s.checkpointPath == "" {
		return
	}
	if err := checkpoint.Save(s.checkpointPath, tc, engines, s.board.GetResults()); err != nil {
		logw.Errorf(context.Background(), "scheduler: autosave: %v", err)
	}
}

func rulesFor(v rules.Variant) rules.GameRules {
	switch v {
	case rules.Chess960:
		return &chess.Rules{Chess960: true}
	case rules.Shogi:
		return &shogi.Rules{}
	default:
		return &chess.Rules{}
	}
}

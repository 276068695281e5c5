// fastbench runs UCI/USI engines against each other in automated round-robin or gauntlet
// tournaments, following the cutechess-cli/fastchess command-line conventions.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"runtime"

	"github.com/herohde/fastbench/internal/archive"
	"github.com/herohde/fastbench/internal/book"
	"github.com/herohde/fastbench/internal/checkpoint"
	"github.com/herohde/fastbench/internal/config"
	"github.com/herohde/fastbench/internal/livefeed"
	"github.com/herohde/fastbench/internal/pool"
	"github.com/herohde/fastbench/internal/scheduler"
	"github.com/herohde/fastbench/internal/scoreboard"
	"github.com/seekerror/build"
	"github.com/seekerror/logw"
)

var version = build.NewVersion(0, 1, 0)

func init() {
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, `usage: fastbench [options]

FASTBENCH pits UCI/USI engines against each other and reports the result. Options follow
cutechess-cli/fastchess conventions:

  -engine cmd=... name=... [tc=... st=... nodes=... depth=... option.NAME=VALUE ...]
  -each [tc=...]                     apply shared options to every -engine
  -rounds N -games 1|2 -repeat [N]   round count and games-per-encounter
  -tournament round-robin|gauntlet -seeds N
  -openings file=... format=epd|pgn order=sequential|random start=N plies=N policy=round
  -pgnout file=... [append=true notation=san|lan|uci nodes=true ...]
  -epdout file=... [append=true]
  -sprt elo0=F elo1=F alpha=F beta=F [model=...]
  -draw movenumber=N movecount=N score=N    -resign movecount=N score=N [twosided=true]
  -maxmoves N   -tb DIR[;DIR...] [-tbpieces N] [-tbignore50] [-tbadjudicate WIN_LOSS|DRAW]
  -concurrency N [-force-concurrency]   -use-affinity [CPULIST]
  -config file=... [outname=... discard=true stats=false] -recover -autosaveinterval N
  -livefeed [serial=auto|SERIAL]   -report penta=true   -output format=cutechess|fastchess
  -ratinginterval N -scoreinterval N -variant standard|fischerandom|shogi
  -version -help

`)
		flag.PrintDefaults()
	}
}

func main() {
	args := os.Args[1:]
	ctx := context.Background()

	for _, a := range args {
		switch a {
		case "-version", "-v":
			fmt.Printf("fastbench %v\n", version)
			return
		case "-help", "-h":
			flag.Usage()
			return
		}
	}

	tc, engines, err := config.Parse(args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		flag.Usage()
		os.Exit(1)
	}
	if len(engines) < 2 {
		logw.Exitf(ctx, "fastbench: at least two -engine flags are required")
	}
	for i := range engines {
		engines[i].Variant = tc.Variant
	}

	board := scoreboard.New()
	checkpointPath := tc.Config.File
	roundIDStart := resume(ctx, tc, checkpointPath, board, engines)

	bk, err := book.Load(tc.Openings, tc.Seed)
	if err != nil {
		logw.Exitf(ctx, "fastbench: openings: %v", err)
	}

	pgn, err := archive.NewPGNWriter(tc.PGNOut)
	if err != nil {
		logw.Exitf(ctx, "fastbench: pgnout: %v", err)
	}
	defer pgn.Close()

	epd, err := archive.NewEPDWriter(tc.EPDOut)
	if err != nil {
		logw.Exitf(ctx, "fastbench: epdout: %v", err)
	}
	defer epd.Close()

	var feed *livefeed.Broadcaster
	if tc.Livefeed.Enabled {
		feed, err = livefeed.Connect(ctx, tc.Livefeed.Serial)
		if err != nil {
			logw.Warningf(ctx, "fastbench: livefeed disabled, connect failed: %v", err)
			feed = nil
		}
	}

	hwThreads := runtime.NumCPU()
	concurrency := config.ResolveConcurrency(tc.Concurrency, hwThreads)
	if concurrency < 1 {
		concurrency = 1
	}
	pools := buildPools(tc, concurrency)
	defer func() {
		for _, p := range pools {
			p.Close(ctx)
		}
	}()

	s := scheduler.New(tc, engines, pools, board, bk, pgn, epd, feed, checkpointPath)

	logw.Infof(ctx, "fastbench %v: %d engines, %d worker(s), %d round(s)", version, len(engines), concurrency, tc.Rounds)

	summary, err := s.Run(ctx, hwThreads, roundIDStart)
	if err != nil {
		logw.Exitf(ctx, "fastbench: %v", err)
	}

	logw.Infof(ctx, "fastbench: %d game(s) played, abnormal_termination=%v, sprt=%v", summary.GamesPlayed, summary.Abnormal, summary.SprtOutcome)

	if checkpointPath != "" {
		if err := checkpoint.Save(checkpointPath, tc, engines, board.GetResults()); err != nil {
			logw.Errorf(ctx, "fastbench: final checkpoint save: %v", err)
		}
	}

	if summary.Abnormal {
		os.Exit(1)
	}
}

// resume loads a prior checkpoint (if -recover was given, checkpointPath names a file, and
// that file exists) and folds its stats into board, returning the round-id the scheduler's
// job generation should continue from.
//
// A recovered run re-specifies its own -engine flags rather than inheriting the
// checkpoint's, so the checkpoint's persisted TournamentConfig/engines are never installed
// over the live ones -- they only inform the "stats merge" rule: when the checkpoint held
// more than two engines and this invocation's live set has two or fewer, the stored
// per-pair stats can't be
// meaningfully carried into the smaller pairing (the set of opponents changed semantics),
// so they're dropped entirely rather than partially applied. "-config … discard=true" skips
// restoring stats the same way, independent of engine counts.
//
// The checkpoint document only persists completed pair Stats (spec.md §6), not the
// scheduler's own round-id counter, so the continuation point is reconstructed from the
// total game count recorded: one round-id per encounter, and an encounter spans two games
// only when games_per_encounter==2 and noswap is unset under the live tc. A tournament
// resumed after its own -games/-noswap settings changed would therefore miscount; that is a
// configuration change mid-tournament, not a case this reconstruction is expected to handle.
func resume(ctx context.Context, tc config.TournamentConfig, checkpointPath string, board *scoreboard.ScoreBoard, liveEngines []config.EngineConfig) uint64 {
	if !tc.Recover || checkpointPath == "" {
		return 0
	}
	if _, err := os.Stat(checkpointPath); err != nil {
		return 0
	}

	_, loadedEngines, results, err := checkpoint.Load(checkpointPath)
	if err != nil {
		logw.Exitf(ctx, "fastbench: resume: %v", err)
	}

	if tc.Config.Discard || (len(loadedEngines) > 2 && len(liveEngines) <= 2) {
		return 0
	}

	board.SetResults(results)

	var total int64
	for _, s := range results {
		total += s.Total()
	}
	if tc.GamesPerEncounter == 2 && !tc.NoSwap {
		return uint64(total / 2)
	}
	return uint64(total)
}

// buildPools constructs one *pool.Pool per worker when -use-affinity pinned an explicit CPU
// list (spec.md §9: "pools are per-worker-thread, not global, in that mode"), splitting
// tc.AffinityCPUs into concurrency contiguous, evenly-sized shares; otherwise a single
// shared Pool with no CPU pinning.
func buildPools(tc config.TournamentConfig, concurrency int) []*pool.Pool {
	if !tc.Affinity || len(tc.AffinityCPUs) == 0 {
		return []*pool.Pool{pool.New(nil)}
	}

	pools := make([]*pool.Pool, concurrency)
	n := len(tc.AffinityCPUs)
	for w := 0; w < concurrency; w++ {
		lo := w * n / concurrency
		hi := (w + 1) * n / concurrency
		if hi <= lo {
			hi = lo + 1
		}
		if hi > n {
			hi = n
		}
		pools[w] = pool.New(tc.AffinityCPUs[lo:hi])
	}
	return pools
}

package scoreboard

import "sync"

// PlayerPairKey identifies one ordered (first-mover, second-mover) engine pairing. Stats are
// always recorded from the first engine's perspective.
type PlayerPairKey struct {
	First  string
	Second string
}

// PairResult is the verdict of ScoreBoard.UpdatePair: whether the round_id's pair of games
// is now complete (both halves recorded) or still waiting on its second half.
type PairResult int

const (
	PairIncomplete PairResult = iota
	PairComplete
)

// ScoreBoard is the mutex-guarded per-pair result store a Scheduler's workers all share, per
// spec.md §4.7 and §5's "scoreboard guarded by one mutex" resource model.
type ScoreBoard struct {
	mu      sync.Mutex
	results map[PlayerPairKey]Stats

	// pairCache holds the first game's (inverted) Stats for a round_id awaiting its second
	// half. A round_id is only ever in flight for one pair at a time within the scheduler's
	// own sequencing guarantee (every (i,j,r) is enqueued before (i,j,r+1)).
	pairCache map[uint64]Stats
}

// New creates an empty ScoreBoard.
func New() *ScoreBoard {
	return &ScoreBoard{
		results:   make(map[PlayerPairKey]Stats),
		pairCache: make(map[uint64]Stats),
	}
}

// IsPairCompleted reports whether roundID has no half-finished pair waiting: it is false
// after the pair's first UpdatePair call and true again once the second completes it (and
// for a roundID never seen).
func (b *ScoreBoard) IsPairCompleted(roundID uint64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	_, ok := b.pairCache[roundID]
	return !ok
}

// UpdateNonPair folds one game's Stats directly into the (first, second) key, with no
// pentanomial bookkeeping — used when TournamentConfig.GamesPerEncounter == 1 or noswap is
// set so the two games of an encounter are never paired.
func (b *ScoreBoard) UpdateNonPair(key PlayerPairKey, s Stats) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.results[key] = b.results[key].Add(s)
}

// UpdatePair folds one game's Stats into a colour-swapped pair sharing roundID. The first
// call for a roundID caches the game inverted (because the second game of the pair swaps
// which engine moves first) and reports PairIncomplete. The second call adds its raw Stats
// onto that cached, inverted first half, classifies the two-game accumulation into exactly
// one of the WW/WD/WL/DD/LD/LL pentanomial categories by its resulting (wins, losses,
// draws), writes the accumulated Stats into results[key], clears the cache entry, and
// reports PairComplete.
//
// Colour swap means a same-engine-perspective "two wins" can still land in the WL bucket:
// if engine A wins as first-mover then wins again as second-mover, the second win is A's
// win but the pair is viewed from the fixed key's first-mover perspective, so the second
// game's Stats (recorded from the first-mover's perspective, i.e. a loss for the key's
// "first" slot) is added onto the first game's inverted Stats. Two wins by the same engine
// from alternating colours therefore classify as WL, not WW — see UpdatePair's test for the
// worked example.
func (b *ScoreBoard) UpdatePair(key PlayerPairKey, s Stats, roundID uint64) PairResult {
	b.mu.Lock()
	defer b.mu.Unlock()

	cached, ok := b.pairCache[roundID]
	if !ok {
		b.pairCache[roundID] = s.Inverted()
		return PairIncomplete
	}

	delete(b.pairCache, roundID)

	accumulated := cached.Add(s)
	switch {
	case accumulated.Wins == 2:
		accumulated.PentaWW++
	case accumulated.Wins == 1 && accumulated.Draws == 1:
		accumulated.PentaWD++
	case accumulated.Wins == 1 && accumulated.Losses == 1:
		accumulated.PentaWL++
	case accumulated.Draws == 2:
		accumulated.PentaDD++
	case accumulated.Losses == 1 && accumulated.Draws == 1:
		accumulated.PentaLD++
	case accumulated.Losses == 2:
		accumulated.PentaLL++
	}

	b.results[key] = b.results[key].Add(accumulated)
	return PairComplete
}

// GetStats returns the combined Stats for the (a, b) pairing seen from a's perspective,
// folding in b's own first-mover record against a inverted to a's perspective.
func (b *ScoreBoard) GetStats(a, b2 string) Stats {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.results[PlayerPairKey{First: a, Second: b2}].Add(
		b.results[PlayerPairKey{First: b2, Second: a}].Inverted())
}

// GetAllStats sums every key touching engine e into e's own perspective, inverting whichever
// keys have e as the second-mover.
func (b *ScoreBoard) GetAllStats(e string) Stats {
	b.mu.Lock()
	defer b.mu.Unlock()

	var total Stats
	for key, s := range b.results {
		switch e {
		case key.First:
			total = total.Add(s)
		case key.Second:
			total = total.Add(s.Inverted())
		}
	}
	return total
}

// GetResults returns a snapshot copy of the full results map, for checkpointing.
func (b *ScoreBoard) GetResults() map[PlayerPairKey]Stats {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make(map[PlayerPairKey]Stats, len(b.results))
	for k, v := range b.results {
		out[k] = v
	}
	return out
}

// SetResults replaces the results map wholesale, for checkpoint restore. The pair cache is
// not part of the persisted checkpoint (spec.md §6 only persists TournamentConfig, engine
// configs, and the scoreboard's completed pair results) and is left untouched.
func (b *ScoreBoard) SetResults(results map[PlayerPairKey]Stats) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.results = make(map[PlayerPairKey]Stats, len(results))
	for k, v := range results {
		b.results[k] = v
	}
}

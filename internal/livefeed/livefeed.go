// Package livefeed implements the optional live-broadcast sink: a Scheduler can push a
// snapshot of each finished game's final position to a livechess board/server over the
// teacher's own github.com/herohde/livechess-go client.
//
// cmd/livechess-uci treats a Feed as an *input*: it reads moves off a physical DGT board
// through the feed's event channel and drives a UCI engine from them. Broadcaster turns the
// same Feed around into an *output*: it never inspects the inbound event channel (that only
// matters to a physical-board consumer), and instead drives the board via FeedClient.Setup
// after every completed game, the same call cmd/livechess-uci itself uses to initialise the
// board to a starting position.
package livefeed

import (
	"context"
	"fmt"

	"github.com/herohde/fastbench/internal/match"
	"github.com/herohde/fastbench/internal/rules"
	"github.com/herohde/fastbench/internal/rules/chess"
	"github.com/herohde/fastbench/internal/rules/shogi"
	"github.com/herohde/livechess-go/pkg/livechess"
	"github.com/seekerror/logw"
)

// Broadcaster pushes completed-game snapshots to a single livechess feed. It is safe for
// concurrent use: FeedClient calls are serialized by the livechess-go client itself, the same
// assumption cmd/livechess-uci makes of its own single client.
type Broadcaster struct {
	client livechess.FeedClient
}

// Connect resolves serial (an explicit EBoardSerial, or "" / "auto" to autodetect, exactly as
// cmd/livechess-uci's -serial flag does) and opens a Feed to it. The Feed's inbound event
// channel is drained and discarded for the lifetime of ctx, since a Broadcaster never reads
// eboard events back.
func Connect(ctx context.Context, serial string) (*Broadcaster, error) {
	id := livechess.EBoardSerial(serial)
	if serial == "" || serial == "auto" {
		auto, err := livechess.AutoDetect(ctx, livechess.DefaultClient)
		if err != nil {
			return nil, fmt.Errorf("livefeed: autodetect: %w", err)
		}
		id = auto
	}

	client, events, err := livechess.NewFeed(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("livefeed: feed %v: %w", id, err)
	}
	go drain(ctx, events)

	return &Broadcaster{client: client}, nil
}

func drain(ctx context.Context, events <-chan livechess.EBoardEventResponse) {
	for {
		select {
		case _, ok := <-events:
			if !ok {
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

// Publish pushes data's final position to the live board. The position is reconstructed by
// replaying data.StartFEN through the variant's own rules adaptor against every move data
// recorded, including the opening's prefix moves, which match.New records as Book
// MoveRecords ahead of the searched moves.
func (b *Broadcaster) Publish(ctx context.Context, data *match.MatchData) error {
	fen, err := Replay(data)
	if err != nil {
		return fmt.Errorf("livefeed: replay: %w", err)
	}
	if err := b.client.Setup(ctx, fen); err != nil {
		return fmt.Errorf("livefeed: setup: %w", err)
	}
	return nil
}

// PublishAsync is the fire-and-forget form Scheduler uses: a slow or unreachable livechess
// server must never stall a tournament's worker pool, so failures are only logged.
func (b *Broadcaster) PublishAsync(ctx context.Context, data *match.MatchData) {
	go func() {
		if err := b.Publish(ctx, data); err != nil {
			logw.Errorf(ctx, "livefeed: publish: %v", err)
		}
	}()
}

// Replay reconstructs the FEN/SFEN of data's final position by replaying its StartFEN
// through every recorded move, stopping early (without error) at the first illegal or
// unparseable move so an IllegalMove-terminated game still yields its last legal position.
func Replay(data *match.MatchData) (string, error) {
	r := rulesFor(data.Variant)
	state, err := r.NewGame(data.StartFEN, nil)
	if err != nil {
		return "", err
	}

	fen := r.FEN(state)
	for _, mv := range data.Moves {
		if !mv.Legal {
			break
		}
		m, err := r.ParseMove(state, mv.Move)
		if err != nil {
			break
		}
		next, err := r.Apply(state, m)
		if err != nil {
			break
		}
		fen = next
	}
	return fen, nil
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

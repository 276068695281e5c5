// Package pool implements the EnginePool keyed session cache (spec.md §4.5): engines are
// looked up by name, spawned lazily, and handed to a caller-supplied function while marked
// in-use so no two callers ever drive the same *session.Session concurrently.
package pool

import (
	"context"
	"fmt"
	"sync"

	"github.com/herohde/fastbench/internal/config"
	"github.com/herohde/fastbench/internal/session"
	"github.com/seekerror/logw"
)

// entry is one cached, idle session plus the config it was last started with.
type entry struct {
	mu  sync.Mutex // held while in use; With* blocks on it rather than erroring
	cfg config.EngineConfig
	s   *session.Session
}

// Pool is a keyed cache of started engine sessions. It is safe for concurrent use by
// multiple callers (goroutines), per spec.md §4.5's "at-most-one concurrent user per
// session" guarantee — a name in use by one caller simply blocks a second caller on the
// same name rather than spawning a duplicate.
type Pool struct {
	mu      sync.Mutex
	entries map[string]*entry
	cpus    []int // CPU affinity list applied to every session this pool spawns, if any
}

// New returns an empty Pool. cpus, if non-empty, is the CPU affinity list every session
// spawned from this pool is pinned to — per spec.md §9's "Engine-pool keying under CPU
// affinity" note, an affinity-enabled tournament constructs one Pool per worker thread so
// each worker's pool (and therefore its pinned engines) never shares state with another's.
func New(cpus []int) *Pool {
	return &Pool{entries: make(map[string]*entry), cpus: cpus}
}

// WithEngine acquires the named engine's session (spawning and starting it on first use),
// runs fn against it, and releases it. If cfg.Restart is config.RestartEachGame, the
// session is restarted in place after fn returns (Session.Restart closes the process and
// starts a new one), so a restart=true engine never serves more than one game from a
// single process. Spawn failures are returned to the caller.
func (p *Pool) WithEngine(ctx context.Context, cfg config.EngineConfig, fn func(*session.Session) error) error {
	e, err := p.acquire(ctx, cfg)
	if err != nil {
		return err
	}
	defer p.release(ctx, cfg.Name, e)

	return fn(e.s)
}

// WithEngines acquires two named engines' sessions atomically from the caller's point of
// view — both are held for the duration of fn and released together — without risking
// deadlock against a concurrent WithEngines(b, a, ...) call for the same pair: sessions are
// always locked in name order.
func (p *Pool) WithEngines(ctx context.Context, cfgA, cfgB config.EngineConfig, fn func(a, b *session.Session) error) error {
	first, second := cfgA, cfgB
	swapped := false
	if cfgB.Name < cfgA.Name {
		first, second = cfgB, cfgA
		swapped = true
	}

	e1, err := p.acquire(ctx, first)
	if err != nil {
		return err
	}
	defer p.release(ctx, first.Name, e1)

	e2, err := p.acquire(ctx, second)
	if err != nil {
		return err
	}
	defer p.release(ctx, second.Name, e2)

	if swapped {
		return fn(e2.s, e1.s)
	}
	return fn(e1.s, e2.s)
}

// acquire returns the named entry, locked for exclusive use, spawning and starting its
// session on first reference.
func (p *Pool) acquire(ctx context.Context, cfg config.EngineConfig) (*entry, error) {
	p.mu.Lock()
	e, ok := p.entries[cfg.Name]
	if !ok {
		e = &entry{cfg: cfg}
		p.entries[cfg.Name] = e
	}
	p.mu.Unlock()

	e.mu.Lock()

	if e.s == nil {
		s := session.New(cfg)
		if err := s.Start(ctx, p.cpus); err != nil {
			e.mu.Unlock()
			return nil, fmt.Errorf("pool: start %s: %w", cfg.Name, err)
		}
		e.s = s
		logw.Infof(ctx, "pool: spawned %s", cfg.Name)
	} else if err := e.s.RefreshNewGame(ctx); err != nil {
		e.mu.Unlock()
		return nil, fmt.Errorf("pool: refresh %s: %w", cfg.Name, err)
	}

	return e, nil
}

// release returns e to the available state, first restarting its session (a new process
// behind the same *session.Session) if cfg.Restart requires a fresh process per game.
func (p *Pool) release(ctx context.Context, name string, e *entry) {
	if e.cfg.Restart == config.RestartEachGame && e.s != nil {
		if err := e.s.Restart(ctx, p.cpus); err != nil {
			logw.Errorf(ctx, "pool: restart %s: %v", name, err)
		}
	}
	e.mu.Unlock()
}

// Close shuts down every cached session. Callers invoke this once per Pool at tournament
// end (or per worker thread, in affinity mode).
func (p *Pool) Close(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for name, e := range p.entries {
		e.mu.Lock()
		if e.s != nil {
			if err := e.s.Close(ctx); err != nil {
				logw.Errorf(ctx, "pool: close %s: %v", name, err)
			}
		}
		e.mu.Unlock()
	}
}

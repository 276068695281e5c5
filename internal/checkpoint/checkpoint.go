// Package checkpoint persists and restores tournament progress as the single JSON
// document spec.md §6 describes: a "TournamentConfig", an "engines" array, and a "stats"
// map keyed "NAME vs NAME". encoding/json (stdlib) is used deliberately here rather than a
// third-party codec — spec.md requires the document to be *exactly* JSON, the struct tree
// being encoded is already fully exported with no custom marshalling needs, and no example
// repo in the pack pulls in a JSON library for a case this simple (see DESIGN.md).
package checkpoint

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/herohde/fastbench/internal/config"
	"github.com/herohde/fastbench/internal/scoreboard"
)

// Document is the exact shape of the persisted checkpoint file.
type Document struct {
	TournamentConfig config.TournamentConfig   `json:"TournamentConfig"`
	Engines          []config.EngineConfig     `json:"engines"`
	Stats            map[string]scoreboard.Stats `json:"stats"`
}

// Save writes tc, engines, and the scoreboard's current results to path as JSON.
// scoreboard.PlayerPairKey (a struct) can't be a JSON map key directly, so pairs are
// flattened to the spec's "NAME vs NAME" string form.
func Save(path string, tc config.TournamentConfig, engines []config.EngineConfig, results map[scoreboard.PlayerPairKey]scoreboard.Stats) error {
	doc := Document{
		TournamentConfig: tc,
		Engines:          engines,
		Stats:            make(map[string]scoreboard.Stats, len(results)),
	}
	for k, v := range results {
		doc.Stats[fmt.Sprintf("%s vs %s", k.First, k.Second)] = v
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("checkpoint: marshal: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("checkpoint: write %s: %w", path, err)
	}
	return nil
}

// Load reads a checkpoint document from path, unflattening its stats map back into
// scoreboard.PlayerPairKey form.
func Load(path string) (config.TournamentConfig, []config.EngineConfig, map[scoreboard.PlayerPairKey]scoreboard.Stats, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return config.TournamentConfig{}, nil, nil, fmt.Errorf("checkpoint: read %s: %w", path, err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return config.TournamentConfig{}, nil, nil, fmt.Errorf("checkpoint: unmarshal %s: %w", path, err)
	}

	results := make(map[scoreboard.PlayerPairKey]scoreboard.Stats, len(doc.Stats))
	for label, s := range doc.Stats {
		a, b, ok := splitVs(label)
		if !ok {
			return config.TournamentConfig{}, nil, nil, fmt.Errorf("checkpoint: bad stats key %q", label)
		}
		results[scoreboard.PlayerPairKey{First: a, Second: b}] = s
	}

	return doc.TournamentConfig, doc.Engines, results, nil
}

// splitVs splits a "NAME vs NAME" label. Engine names may themselves contain spaces, so
// the split looks for the last occurrence of the literal " vs " separator rather than the
// first, matching how the source renders it from two already-known names joined by a
// fixed separator.
func splitVs(label string) (a, b string, ok bool) {
	const sep = " vs "
	idx := -1
	for i := len(label) - len(sep); i >= 0; i-- {
		if label[i:i+len(sep)] == sep {
			idx = i
			break
		}
	}
	if idx < 0 {
		return "", "", false
	}
	return label[:idx], label[idx+len(sep):], true
}

// Package scores persists the best score per game.
package scores

import (
	"context"

	"github.com/cbodonnell/keygrid/pkg/log"
)

// Store persists a mapping from game name to best score.
type Store interface {
	Close(ctx context.Context) error
	Load(ctx context.Context) (map[string]int, error)
	Save(ctx context.Context, scores map[string]int) error
}

// LoadOrDefault loads persisted scores and merges them over an all-zero map
// for the known game names. Entries for unknown games are ignored, and any
// load failure falls back to the defaults: a console with no score file is a
// normal operating mode, not an error.
func LoadOrDefault(ctx context.Context, store Store, names []string) map[string]int {
	merged := make(map[string]int, len(names))
	for _, name := range names {
		merged[name] = 0
	}

	saved, err := store.Load(ctx)
	if err != nil {
		log.Debug("Could not load scores: %v", err)
		return merged
	}

	for name, score := range saved {
		if _, known := merged[name]; !known {
			continue
		}
		if score < 0 {
			continue
		}
		merged[name] = score
	}

	return merged
}

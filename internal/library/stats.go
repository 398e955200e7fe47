package library

import (
	"time"

	"github.com/starford/othala/internal/models"
)

// GlobalStats returns the incrementally maintained counters plus the
// document's lastUpdated timestamp.
func (r *Repository) GlobalStats() (models.Stats, time.Time, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	lib, err := r.load()
	if err != nil {
		return models.Stats{}, time.Time{}, err
	}
	return lib.Stats, lib.LastUpdated, nil
}

// CategoryBreakdown counts, for every known category id, the items filed
// under it. Computed by a full scan on demand rather than maintained
// incrementally: mutations are rare relative to reads and a fifth counter
// would be one more invariant to keep synchronized. Items referencing an
// unknown category (dangling references are permitted) do not appear.
func (r *Repository) CategoryBreakdown(categories []models.Category) (map[string]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	lib, err := r.load()
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int, len(categories))
	for _, c := range categories {
		counts[c.ID] = 0
	}
	for _, it := range lib.Items {
		if _, known := counts[it.Category]; known {
			counts[it.Category]++
		}
	}
	return counts, nil
}

// Package session keeps the in-memory history of analyses run against the
// current dataset.
package session

import (
	"math"
	"sync"
	"time"

	"farmstat/domain/analysis"
	"farmstat/domain/core"
	"farmstat/ports"
)

// Tracker is a concurrency-safe, insertion-ordered log of analyses. Nothing is
// persisted.
type Tracker struct {
	mu      sync.RWMutex
	entries []ports.TrackerEntry
	byID    map[core.ID]int
	now     func() time.Time
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{byID: make(map[core.ID]int), now: time.Now}
}

// Add records an analysis. An empty summary defaults to the request description.
func (t *Tracker) Add(req analysis.AnalysisRequest, result analysis.StatResult, summary string) ports.TrackerEntry {
	if summary == "" {
		summary = req.Description
	}
	entry := ports.TrackerEntry{
		ID:        core.NewID(),
		Timestamp: t.now().UTC(),
		Request:   req.Normalize(),
		Result:    result,
		Summary:   summary,
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.byID[entry.ID] = len(t.entries)
	t.entries = append(t.entries, entry)
	return entry
}

// List returns a copy of the entries in insertion order.
func (t *Tracker) List() []ports.TrackerEntry {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]ports.TrackerEntry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Get looks an entry up by ID.
func (t *Tracker) Get(id core.ID) (ports.TrackerEntry, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	i, ok := t.byID[id]
	if !ok {
		return ports.TrackerEntry{}, false
	}
	return t.entries[i], true
}

// Reset forgets every entry.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries = nil
	t.byID = make(map[core.ID]int)
}

// Stats counts tests and significant results, and reports the entry with the
// smallest p-value (the earliest one on ties).
func (t *Tracker) Stats() ports.TrackerStats {
	t.mu.RLock()
	defer t.mu.RUnlock()

	stats := ports.TrackerStats{TotalTests: len(t.entries)}
	best := -1
	for i, e := range t.entries {
		if e.Result.Significant {
			stats.Significant++
		}
		if best < 0 || e.Result.PValue < t.entries[best].Result.PValue {
			best = i
		}
	}
	if best >= 0 {
		id := t.entries[best].ID
		stats.Best = &id
	}
	stats.FamilywiseErrorRate = 1 - math.Pow(1-analysis.SignificanceLevel, float64(len(t.entries)))
	return stats
}

var _ ports.AnalysisTracker = (*Tracker)(nil)

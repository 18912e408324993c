package ports

import (
	"time"

	"farmstat/domain/analysis"
	"farmstat/domain/core"
)

// TrackerEntry records one analysis run during a session.
type TrackerEntry struct {
	ID        core.ID                  `json:"id"`
	Timestamp time.Time                `json:"timestamp"`
	Request   analysis.AnalysisRequest `json:"request"`
	Result    analysis.StatResult      `json:"result"`
	Summary   string                   `json:"summary"`
}

// TrackerStats summarises the tracked analyses. FamilywiseErrorRate is the chance
// that at least one of TotalTests independent tests at the fixed alpha comes out
// significant when no effect exists.
type TrackerStats struct {
	TotalTests          int      `json:"total_tests"`
	Significant         int      `json:"significant"`
	FamilywiseErrorRate float64  `json:"familywise_error_rate"`
	Best                *core.ID `json:"best_entry,omitempty"`
}

// AnalysisTracker keeps the history of analyses for the current session
type AnalysisTracker interface {
	Add(req analysis.AnalysisRequest, result analysis.StatResult, summary string) TrackerEntry
	List() []TrackerEntry
	Get(id core.ID) (TrackerEntry, bool)
	Reset()
	Stats() TrackerStats
}

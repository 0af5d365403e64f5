package domain

import "time"

// RefreshAttempt records the outcome of one scrape attempt against a web
// source. The web source itself only keeps its latest state; attempts are
// appended to the refresh history so operators can see how a source has
// behaved over time.
type RefreshAttempt struct {
	// URL identifies the web source the attempt targeted.
	URL string

	// StartedAt is when the attempt began.
	StartedAt time.Time

	// EndedAt is when the attempt finished.
	EndedAt time.Time

	// Success indicates whether the scrape completed without error.
	Success bool

	// Error contains the failure message if Success is false.
	Error string

	// QualityScore is the content quality reported by a successful attempt.
	QualityScore float64

	// ChunkCount is how many chunks the fetched content produced, when known.
	ChunkCount int
}

// Duration returns how long the attempt took.
func (a RefreshAttempt) Duration() time.Duration {
	return a.EndedAt.Sub(a.StartedAt)
}

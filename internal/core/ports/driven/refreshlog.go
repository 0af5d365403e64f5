package driven

import (
	"context"

	"github.com/docent-labs/docent-cli/internal/core/domain"
)

// RefreshLog persists scrape attempt history.
// The web source record keeps only the latest state; the log keeps every
// attempt so operators can see how a source has behaved over time.
type RefreshLog interface {
	// Record appends one scrape attempt.
	Record(ctx context.Context, attempt domain.RefreshAttempt) error

	// History returns recent attempts for a URL.
	// Attempts are ordered by start time descending (most recent first).
	History(ctx context.Context, url string, limit int) ([]domain.RefreshAttempt, error)

	// Prune removes old attempts beyond the retention limit.
	// Keeps the most recent 'keep' attempts per URL.
	Prune(ctx context.Context, keep int) error
}

package driving

import (
	"context"

	"github.com/docent-labs/docent-cli/internal/core/domain"
)

// SourceService manages the web source lifecycle: registration, scrape
// outcome reporting, exclusion and refresh planning.
type SourceService interface {
	// Register creates a new pending source for a URL.
	// Returns ErrAlreadyExists if the URL is already tracked.
	Register(ctx context.Context, url string, opts ...domain.WebSourceOption) (*domain.WebSource, error)

	// Get retrieves a source by URL.
	Get(ctx context.Context, url string) (*domain.WebSource, error)

	// List returns all tracked sources.
	List(ctx context.Context) ([]*domain.WebSource, error)

	// ListStale returns the sources whose cached content is due for
	// re-fetching, never-scraped sources included.
	ListStale(ctx context.Context) ([]*domain.WebSource, error)

	// RefreshPlan returns the stale sources in scrape order:
	// never-scraped first, recently-failed last.
	RefreshPlan(ctx context.Context) ([]*domain.WebSource, error)

	// EmitRefreshPlan streams the refresh plan to emit, pacing successive
	// calls at the configured scrape delay. Blocks until the plan is
	// exhausted, emit returns an error, or the context is cancelled.
	EmitRefreshPlan(ctx context.Context, emit func(*domain.WebSource) error) error

	// MarkScraped records a successful scrape outcome reported by the
	// external scraper and appends a history row.
	MarkScraped(ctx context.Context, url, content, title string, qualityScore float64) (*domain.WebSource, error)

	// MarkFailed records a failed scrape outcome and appends a history row.
	MarkFailed(ctx context.Context, url, errorMessage string) (*domain.WebSource, error)

	// Exclude removes a source from scraping without deleting its record.
	Exclude(ctx context.Context, url string) (*domain.WebSource, error)

	// Include returns an excluded source to the pending pool.
	Include(ctx context.Context, url string) (*domain.WebSource, error)

	// Remove deletes a source record entirely.
	Remove(ctx context.Context, url string) error

	// History returns recent scrape attempts for a URL, most recent first.
	History(ctx context.Context, url string, limit int) ([]domain.RefreshAttempt, error)
}

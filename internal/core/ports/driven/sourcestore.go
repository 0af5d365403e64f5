package driven

import (
	"context"

	"github.com/docent-labs/docent-cli/internal/core/domain"
)

// WebSourceStore persists web source records, keyed by URL.
type WebSourceStore interface {
	// Save stores or updates a source.
	Save(ctx context.Context, source *domain.WebSource) error

	// Get retrieves a source by URL.
	Get(ctx context.Context, url string) (*domain.WebSource, error)

	// List returns all tracked sources.
	List(ctx context.Context) ([]*domain.WebSource, error)

	// Delete removes a source.
	Delete(ctx context.Context, url string) error
}

package driving

import (
	"context"

	"github.com/docent-labs/docent-cli/internal/core/domain"
)

// RetrievalService assembles raw index hits into classified search results.
// The vector index itself is an external collaborator; this service owns
// the provenance lookup, threshold filtering and ranking that follow it.
type RetrievalService interface {
	// Assemble resolves hits against the chunk collection, drops scores
	// below the operating relevance threshold, sorts the rest by score
	// descending and caps the list at the configured top-K.
	Assemble(ctx context.Context, hits []domain.ScoredHit) ([]domain.SearchResult, error)
}

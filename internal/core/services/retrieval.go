package services

import (
	"context"
	"errors"
	"sort"

	"github.com/docent-labs/docent-cli/internal/core/domain"
	"github.com/docent-labs/docent-cli/internal/core/ports/driven"
	"github.com/docent-labs/docent-cli/internal/core/ports/driving"
	"github.com/docent-labs/docent-cli/internal/logger"
)

// Ensure RetrievalService implements the interface.
var _ driving.RetrievalService = (*RetrievalService)(nil)

// RetrievalService assembles raw index hits into classified search results.
type RetrievalService struct {
	chunkStore driven.ChunkStore
	threshold  float64
	topK       int
	webWeight  float64
}

// NewRetrievalService creates a new retrieval service. The operating
// relevance threshold, top-K and web content weight come from settings;
// a non-positive threshold falls back to the package constant.
func NewRetrievalService(chunkStore driven.ChunkStore, settings domain.PipelineSettings) *RetrievalService {
	threshold := settings.RelevanceThreshold
	if threshold <= 0 {
		threshold = domain.RelevanceThreshold
	}
	webWeight := settings.WebContentWeight
	if webWeight <= 0 || webWeight > 1 {
		webWeight = 1
	}
	return &RetrievalService{
		chunkStore: chunkStore,
		threshold:  threshold,
		topK:       settings.TopK,
		webWeight:  webWeight,
	}
}

// Assemble resolves hits against the chunk collection, weights web content,
// drops scores below the operating threshold, sorts by score descending and
// caps the list at top-K. Hits referencing unknown chunks are skipped.
func (s *RetrievalService) Assemble(ctx context.Context, hits []domain.ScoredHit) ([]domain.SearchResult, error) {
	if s.chunkStore == nil {
		return nil, domain.ErrNotImplemented
	}

	results := make([]domain.SearchResult, 0, len(hits))
	for _, hit := range hits {
		chunk, err := s.chunkStore.Get(ctx, hit.ChunkID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				logger.Warn("Dropping hit for unknown chunk %s", hit.ChunkID)
				continue
			}
			return nil, err
		}

		score := hit.Score
		if chunk.DocumentType == domain.DocumentTypeWeb {
			score *= s.webWeight
		}
		if score < s.threshold {
			continue
		}

		results = append(results, domain.NewSearchResult(
			chunk.Content,
			chunk.SourceFile,
			score,
			domain.WithResultChunkID(chunk.ID),
			domain.WithResultMetadata(chunk.Metadata),
			domain.WithResultType(chunk.DocumentType),
			domain.WithResultSource(chunk.ContentSource),
		))
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if s.topK > 0 && len(results) > s.topK {
		results = results[:s.topK]
	}
	return results, nil
}

package driven

import (
	"context"

	"github.com/docent-labs/docent-cli/internal/core/domain"
)

// ChunkStore persists content chunks.
// Chunks are immutable after ingestion except for the embedding vector,
// which the external embedding step writes back once.
type ChunkStore interface {
	// Save stores or updates a chunk.
	Save(ctx context.Context, chunk domain.Chunk) error

	// SaveAll stores a batch of chunks from one ingestion pass.
	SaveAll(ctx context.Context, chunks []domain.Chunk) error

	// Get retrieves a chunk by ID.
	Get(ctx context.Context, id string) (*domain.Chunk, error)

	// List returns all stored chunks.
	List(ctx context.Context) ([]domain.Chunk, error)

	// ListBySource returns the chunks cut from one source file or URL.
	ListBySource(ctx context.Context, sourceFile string) ([]domain.Chunk, error)

	// SetEmbedding attaches an embedding vector to a stored chunk.
	SetEmbedding(ctx context.Context, id string, embedding []float32) error

	// Delete removes a chunk.
	Delete(ctx context.Context, id string) error

	// DeleteBySource removes all chunks cut from one source file or URL.
	// Returns how many chunks were removed.
	DeleteBySource(ctx context.Context, sourceFile string) (int, error)
}

package driving

import (
	"context"

	"github.com/docent-labs/docent-cli/internal/core/domain"
)

// IngestService turns local files into stored content chunks and answers
// queries about the chunk collection.
type IngestService interface {
	// IngestFile reads a local file, classifies its type, splits it into
	// chunks and persists them. Returns the stored chunks.
	// Binary formats the pipeline cannot extract locally (PDF, DOCX) fail
	// with ErrUnsupportedType; their extraction stays external.
	IngestFile(ctx context.Context, path string) ([]domain.Chunk, error)

	// IngestText splits already-extracted text attributed to sourceFile.
	// This is how externally scraped or extracted content enters the
	// chunk collection.
	IngestText(ctx context.Context, sourceFile, text string, opts ...domain.ChunkOption) ([]domain.Chunk, error)

	// Chunks returns all stored chunks.
	Chunks(ctx context.Context) ([]domain.Chunk, error)

	// ChunksBySource returns the chunks cut from one source file or URL.
	ChunksBySource(ctx context.Context, sourceFile string) ([]domain.Chunk, error)

	// AttachEmbedding writes an externally computed embedding vector back
	// onto a stored chunk.
	AttachEmbedding(ctx context.Context, chunkID string, embedding []float32) error

	// RemoveSource deletes all chunks for a source file or URL.
	// Returns how many chunks were removed.
	RemoveSource(ctx context.Context, sourceFile string) (int, error)
}

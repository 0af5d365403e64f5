package services

import (
	"context"
	"fmt"
	"os"

	"github.com/docent-labs/docent-cli/internal/core/domain"
	"github.com/docent-labs/docent-cli/internal/core/ports/driven"
	"github.com/docent-labs/docent-cli/internal/core/ports/driving"
	"github.com/docent-labs/docent-cli/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// IngestService turns local files into stored content chunks.
type IngestService struct {
	chunkStore driven.ChunkStore
	chunker    *Chunker
}

// NewIngestService creates a new ingest service with chunking geometry
// taken from settings.
func NewIngestService(
	chunkStore driven.ChunkStore,
	ids driven.IDGenerator,
	settings domain.PipelineSettings,
) *IngestService {
	return &IngestService{
		chunkStore: chunkStore,
		chunker: NewChunker(ids,
			WithChunkSize(settings.ChunkSize),
			WithOverlap(settings.ChunkOverlap),
		),
	}
}

// IngestFile reads a local file, classifies its type, splits it into chunks
// and persists them. PDF and DOCX need binary extraction, which stays with
// the external pipeline; those paths fail with ErrUnsupportedType so callers
// can warn and move on.
func (s *IngestService) IngestFile(ctx context.Context, path string) ([]domain.Chunk, error) {
	if s.chunkStore == nil {
		return nil, domain.ErrNotImplemented
	}

	docType := domain.DetectDocumentType(path)
	switch docType {
	case domain.DocumentTypePDF, domain.DocumentTypeDOCX:
		return nil, fmt.Errorf("%w: %s content needs external extraction", domain.ErrUnsupportedType, docType)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	logger.Debug("Ingesting %s (%s, %d bytes)", path, docType, len(data))
	return s.IngestText(ctx, path, string(data), domain.WithChunkType(docType))
}

// IngestText splits already-extracted text attributed to sourceFile and
// persists the resulting chunks. Options are applied to every chunk, so
// callers feeding scraped pages can tag them web/web_scrape.
func (s *IngestService) IngestText(ctx context.Context, sourceFile, text string, opts ...domain.ChunkOption) ([]domain.Chunk, error) {
	if s.chunkStore == nil {
		return nil, domain.ErrNotImplemented
	}
	if sourceFile == "" {
		return nil, fmt.Errorf("%w: source file is empty", domain.ErrInvalidInput)
	}

	chunks := s.chunker.Split(text, sourceFile, opts...)
	if len(chunks) == 0 {
		logger.Debug("No chunks produced for %s", sourceFile)
		return nil, nil
	}

	if err := s.chunkStore.SaveAll(ctx, chunks); err != nil {
		return nil, err
	}
	logger.Debug("Stored %d chunks for %s", len(chunks), sourceFile)
	return chunks, nil
}

// Chunks returns all stored chunks.
func (s *IngestService) Chunks(ctx context.Context) ([]domain.Chunk, error) {
	if s.chunkStore == nil {
		return nil, domain.ErrNotImplemented
	}
	return s.chunkStore.List(ctx)
}

// ChunksBySource returns the chunks cut from one source file or URL.
func (s *IngestService) ChunksBySource(ctx context.Context, sourceFile string) ([]domain.Chunk, error) {
	if s.chunkStore == nil {
		return nil, domain.ErrNotImplemented
	}
	return s.chunkStore.ListBySource(ctx, sourceFile)
}

// AttachEmbedding writes an externally computed embedding vector back onto
// a stored chunk.
func (s *IngestService) AttachEmbedding(ctx context.Context, chunkID string, embedding []float32) error {
	if s.chunkStore == nil {
		return domain.ErrNotImplemented
	}
	if len(embedding) == 0 {
		return fmt.Errorf("%w: embedding is empty", domain.ErrInvalidInput)
	}
	return s.chunkStore.SetEmbedding(ctx, chunkID, embedding)
}

// RemoveSource deletes all chunks for a source file or URL.
func (s *IngestService) RemoveSource(ctx context.Context, sourceFile string) (int, error) {
	if s.chunkStore == nil {
		return 0, domain.ErrNotImplemented
	}
	return s.chunkStore.DeleteBySource(ctx, sourceFile)
}

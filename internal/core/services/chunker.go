package services

import (
	"github.com/docent-labs/docent-cli/internal/core/domain"
	"github.com/docent-labs/docent-cli/internal/core/ports/driven"
)

// Chunker splits extracted text into fixed-size content chunks with
// character-accurate span offsets. Sizes and offsets are measured in
// characters, not bytes, so multibyte text chunks correctly.
type Chunker struct {
	ids       driven.IDGenerator
	chunkSize int
	overlap   int
}

// ChunkerOption configures the chunker.
type ChunkerOption func(*Chunker)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) ChunkerOption {
	return func(c *Chunker) {
		if size > 0 {
			c.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between consecutive chunks in characters.
func WithOverlap(overlap int) ChunkerOption {
	return func(c *Chunker) {
		if overlap >= 0 {
			c.overlap = overlap
		}
	}
}

// NewChunker creates a chunker with the given options. Defaults come from
// the stock pipeline settings.
func NewChunker(ids driven.IDGenerator, opts ...ChunkerOption) *Chunker {
	defaults := domain.DefaultPipelineSettings()
	c := &Chunker{
		ids:       ids,
		chunkSize: defaults.ChunkSize,
		overlap:   defaults.ChunkOverlap,
	}

	for _, opt := range opts {
		opt(c)
	}

	// Ensure overlap doesn't exceed chunk size
	if c.overlap >= c.chunkSize {
		c.overlap = c.chunkSize / 4
	}

	return c
}

// Split cuts text attributed to sourceFile into overlapping chunks.
// Each chunk carries its character span in the original text; the caller's
// options are applied after the span so explicit overrides win.
// Empty text produces no chunks.
func (c *Chunker) Split(text, sourceFile string, opts ...domain.ChunkOption) []domain.Chunk {
	if text == "" {
		return nil
	}

	runes := []rune(text)
	total := len(runes)
	step := c.chunkSize - c.overlap

	// Estimate number of chunks
	chunks := make([]domain.Chunk, 0, total/step+1)

	for start := 0; start < total; start += step {
		end := start + c.chunkSize
		if end > total {
			end = total
		}

		chunkOpts := append([]domain.ChunkOption{domain.WithChunkSpan(start, end)}, opts...)
		chunks = append(chunks, domain.NewChunk(
			c.ids.NewID(),
			string(runes[start:end]),
			sourceFile,
			chunkOpts...,
		))

		if end == total {
			break
		}
	}

	return chunks
}

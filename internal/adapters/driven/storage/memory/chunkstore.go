package memory

import (
	"context"
	"sync"

	"github.com/docent-labs/docent-cli/internal/core/domain"
	"github.com/docent-labs/docent-cli/internal/core/ports/driven"
)

// Ensure ChunkStore implements the interface.
var _ driven.ChunkStore = (*ChunkStore)(nil)

// ChunkStore is an in-memory implementation of driven.ChunkStore.
type ChunkStore struct {
	mu     sync.RWMutex
	chunks map[string]domain.Chunk
}

// NewChunkStore creates a new in-memory chunk store.
func NewChunkStore() *ChunkStore {
	return &ChunkStore{
		chunks: make(map[string]domain.Chunk),
	}
}

// Save stores or updates a chunk.
func (s *ChunkStore) Save(_ context.Context, chunk domain.Chunk) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chunks[chunk.ID] = chunk
	return nil
}

// SaveAll stores a batch of chunks.
func (s *ChunkStore) SaveAll(_ context.Context, chunks []domain.Chunk) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, chunk := range chunks {
		s.chunks[chunk.ID] = chunk
	}
	return nil
}

// Get retrieves a chunk by ID.
func (s *ChunkStore) Get(_ context.Context, id string) (*domain.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	chunk, ok := s.chunks[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &chunk, nil
}

// List returns all stored chunks.
func (s *ChunkStore) List(_ context.Context) ([]domain.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.Chunk, 0, len(s.chunks))
	for _, chunk := range s.chunks {
		result = append(result, chunk)
	}
	return result, nil
}

// ListBySource returns the chunks cut from one source file or URL.
func (s *ChunkStore) ListBySource(_ context.Context, sourceFile string) ([]domain.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []domain.Chunk
	for _, chunk := range s.chunks {
		if chunk.SourceFile == sourceFile {
			result = append(result, chunk)
		}
	}
	return result, nil
}

// SetEmbedding attaches an embedding vector to a stored chunk.
func (s *ChunkStore) SetEmbedding(_ context.Context, id string, embedding []float32) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	chunk, ok := s.chunks[id]
	if !ok {
		return domain.ErrNotFound
	}
	chunk.Embedding = embedding
	s.chunks[id] = chunk
	return nil
}

// Delete removes a chunk.
func (s *ChunkStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.chunks, id)
	return nil
}

// DeleteBySource removes all chunks for a source file or URL.
func (s *ChunkStore) DeleteBySource(_ context.Context, sourceFile string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, chunk := range s.chunks {
		if chunk.SourceFile == sourceFile {
			delete(s.chunks, id)
			removed++
		}
	}
	return removed, nil
}

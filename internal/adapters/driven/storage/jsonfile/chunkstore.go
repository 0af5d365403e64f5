package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/docent-labs/docent-cli/internal/core/domain"
	"github.com/docent-labs/docent-cli/internal/core/ports/driven"
)

// Ensure ChunkStore implements the interface.
var _ driven.ChunkStore = (*ChunkStore)(nil)

// ChunksFile holds the content chunk collection. The name is fixed by the
// shared data directory contract, so the external pipeline finds it.
const ChunksFile = "processed_docs.json"

// ChunkStore is a JSON-file-backed implementation of driven.ChunkStore.
type ChunkStore struct {
	mu       sync.RWMutex
	filePath string
	chunks   map[string]domain.Chunk
}

// NewChunkStore creates a chunk store persisting to processed_docs.json in
// dataDir. Existing records are loaded through the domain decoder, so stored
// state is re-normalised on every start.
func NewChunkStore(dataDir string) (*ChunkStore, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, err
	}

	s := &ChunkStore{
		filePath: filepath.Join(dataDir, ChunksFile),
		chunks:   make(map[string]domain.Chunk),
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Save stores or updates a chunk.
func (s *ChunkStore) Save(_ context.Context, chunk domain.Chunk) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chunks[chunk.ID] = chunk
	return s.save()
}

// SaveAll stores a batch of chunks with a single rewrite.
func (s *ChunkStore) SaveAll(_ context.Context, chunks []domain.Chunk) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, chunk := range chunks {
		s.chunks[chunk.ID] = chunk
	}
	return s.save()
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
	return s.save()
}

// Delete removes a chunk.
func (s *ChunkStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.chunks[id]; !ok {
		return nil
	}
	delete(s.chunks, id)
	return s.save()
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
	if removed == 0 {
		return 0, nil
	}
	return removed, s.save()
}

// load reads the collection from disk. A missing file leaves the store empty.
func (s *ChunkStore) load() error {
	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	var records []domain.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return fmt.Errorf("parsing %s: %w", s.filePath, err)
	}

	for _, rec := range records {
		chunk, err := domain.ChunkFromRecord(rec)
		if err != nil {
			return fmt.Errorf("loading %s: %w", s.filePath, err)
		}
		s.chunks[chunk.ID] = chunk
	}
	return nil
}

// save rewrites the collection sorted by chunk ID (caller must hold lock).
func (s *ChunkStore) save() error {
	chunks := make([]domain.Chunk, 0, len(s.chunks))
	for _, chunk := range s.chunks {
		chunks = append(chunks, chunk)
	}
	sort.Slice(chunks, func(i, j int) bool { return chunks[i].ID < chunks[j].ID })

	records := make([]domain.Record, len(chunks))
	for i, chunk := range chunks {
		records[i] = chunk.Record()
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.filePath, data, 0644)
}

// Reload replaces in-memory state with the collection currently on disk.
// Long-lived processes call this after the external pipeline rewrites the
// file under them.
func (s *ChunkStore) Reload() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chunks = make(map[string]domain.Chunk)
	return s.load()
}

// Path returns the collection file path.
func (s *ChunkStore) Path() string {
	return s.filePath
}

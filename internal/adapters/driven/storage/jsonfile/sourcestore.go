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

// Ensure WebSourceStore implements the interface.
var _ driven.WebSourceStore = (*WebSourceStore)(nil)

// SourcesFile holds the web source collection. The name is fixed by the
// shared data directory contract, so the external pipeline finds it.
const SourcesFile = "content_metadata.json"

// WebSourceStore is a JSON-file-backed implementation of driven.WebSourceStore.
type WebSourceStore struct {
	mu       sync.RWMutex
	filePath string
	sources  map[string]domain.WebSource
}

// NewWebSourceStore creates a source store persisting to content_metadata.json
// in dataDir.
func NewWebSourceStore(dataDir string) (*WebSourceStore, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, err
	}

	s := &WebSourceStore{
		filePath: filepath.Join(dataDir, SourcesFile),
		sources:  make(map[string]domain.WebSource),
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Save stores or updates a source.
func (s *WebSourceStore) Save(_ context.Context, source *domain.WebSource) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sources[source.URL] = *source
	return s.save()
}

// Get retrieves a source by URL.
func (s *WebSourceStore) Get(_ context.Context, url string) (*domain.WebSource, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	source, ok := s.sources[url]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &source, nil
}

// List returns all tracked sources.
func (s *WebSourceStore) List(_ context.Context) ([]*domain.WebSource, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]*domain.WebSource, 0, len(s.sources))
	for url := range s.sources {
		source := s.sources[url]
		result = append(result, &source)
	}
	return result, nil
}

// Delete removes a source.
func (s *WebSourceStore) Delete(_ context.Context, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sources[url]; !ok {
		return nil
	}
	delete(s.sources, url)
	return s.save()
}

// load reads the collection from disk. A missing file leaves the store empty.
func (s *WebSourceStore) load() error {
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
		source, err := domain.WebSourceFromRecord(rec)
		if err != nil {
			return fmt.Errorf("loading %s: %w", s.filePath, err)
		}
		s.sources[source.URL] = *source
	}
	return nil
}

// save rewrites the collection sorted by URL (caller must hold lock).
func (s *WebSourceStore) save() error {
	urls := make([]string, 0, len(s.sources))
	for url := range s.sources {
		urls = append(urls, url)
	}
	sort.Strings(urls)

	records := make([]domain.Record, len(urls))
	for i, url := range urls {
		source := s.sources[url]
		records[i] = source.Record()
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
func (s *WebSourceStore) Reload() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sources = make(map[string]domain.WebSource)
	return s.load()
}

// Path returns the collection file path.
func (s *WebSourceStore) Path() string {
	return s.filePath
}

package memory

import (
	"context"
	"sync"

	"github.com/docent-labs/docent-cli/internal/core/domain"
	"github.com/docent-labs/docent-cli/internal/core/ports/driven"
)

// Ensure WebSourceStore implements the interface.
var _ driven.WebSourceStore = (*WebSourceStore)(nil)

// WebSourceStore is an in-memory implementation of driven.WebSourceStore.
type WebSourceStore struct {
	mu      sync.RWMutex
	sources map[string]domain.WebSource
}

// NewWebSourceStore creates a new in-memory web source store.
func NewWebSourceStore() *WebSourceStore {
	return &WebSourceStore{
		sources: make(map[string]domain.WebSource),
	}
}

// Save stores or updates a source.
func (s *WebSourceStore) Save(_ context.Context, source *domain.WebSource) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sources[source.URL] = *source
	return nil
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
	delete(s.sources, url)
	return nil
}

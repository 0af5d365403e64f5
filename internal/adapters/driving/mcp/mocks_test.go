package mcp

import (
	"context"

	"github.com/docent-labs/docent-cli/internal/core/domain"
)

// mockSourceService is a mock implementation of driving.SourceService.
type mockSourceService struct {
	sources []*domain.WebSource
	source  *domain.WebSource
	err     error
}

func (m *mockSourceService) Register(_ context.Context, _ string, _ ...domain.WebSourceOption) (*domain.WebSource, error) {
	return m.source, m.err
}

func (m *mockSourceService) Get(_ context.Context, _ string) (*domain.WebSource, error) {
	return m.source, m.err
}

func (m *mockSourceService) List(_ context.Context) ([]*domain.WebSource, error) {
	return m.sources, m.err
}

func (m *mockSourceService) ListStale(_ context.Context) ([]*domain.WebSource, error) {
	return m.sources, m.err
}

func (m *mockSourceService) RefreshPlan(_ context.Context) ([]*domain.WebSource, error) {
	return m.sources, m.err
}

func (m *mockSourceService) EmitRefreshPlan(_ context.Context, emit func(*domain.WebSource) error) error {
	if m.err != nil {
		return m.err
	}
	for _, source := range m.sources {
		if err := emit(source); err != nil {
			return err
		}
	}
	return nil
}

func (m *mockSourceService) MarkScraped(_ context.Context, url, content, title string, qualityScore float64) (*domain.WebSource, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.source != nil {
		return m.source, nil
	}
	source := domain.NewWebSource(url)
	source.MarkScraped(content, title, qualityScore)
	return source, nil
}

func (m *mockSourceService) MarkFailed(_ context.Context, url, errorMessage string) (*domain.WebSource, error) {
	if m.err != nil {
		return nil, m.err
	}
	source := domain.NewWebSource(url)
	source.MarkFailed(errorMessage)
	return source, nil
}

func (m *mockSourceService) Exclude(_ context.Context, _ string) (*domain.WebSource, error) {
	return m.source, m.err
}

func (m *mockSourceService) Include(_ context.Context, _ string) (*domain.WebSource, error) {
	return m.source, m.err
}

func (m *mockSourceService) Remove(_ context.Context, _ string) error {
	return m.err
}

func (m *mockSourceService) History(_ context.Context, _ string, _ int) ([]domain.RefreshAttempt, error) {
	return nil, m.err
}

// mockIngestService is a mock implementation of driving.IngestService.
type mockIngestService struct {
	chunks []domain.Chunk
	err    error
}

func (m *mockIngestService) IngestFile(_ context.Context, _ string) ([]domain.Chunk, error) {
	return m.chunks, m.err
}

func (m *mockIngestService) IngestText(_ context.Context, _, _ string, _ ...domain.ChunkOption) ([]domain.Chunk, error) {
	return m.chunks, m.err
}

func (m *mockIngestService) Chunks(_ context.Context) ([]domain.Chunk, error) {
	return m.chunks, m.err
}

func (m *mockIngestService) ChunksBySource(_ context.Context, _ string) ([]domain.Chunk, error) {
	return m.chunks, m.err
}

func (m *mockIngestService) AttachEmbedding(_ context.Context, _ string, _ []float32) error {
	return m.err
}

func (m *mockIngestService) RemoveSource(_ context.Context, _ string) (int, error) {
	return len(m.chunks), m.err
}

// mockSessionService is a mock implementation of driving.SessionService.
type mockSessionService struct {
	session  *domain.Session
	messages []domain.Message
	err      error
}

func (m *mockSessionService) Start(_ context.Context, _ map[string]any) (*domain.Session, error) {
	return m.session, m.err
}

func (m *mockSessionService) Get(_ context.Context, _ string) (*domain.Session, error) {
	return m.session, m.err
}

func (m *mockSessionService) List(_ context.Context) ([]*domain.Session, error) {
	if m.session == nil {
		return nil, m.err
	}
	return []*domain.Session{m.session}, m.err
}

func (m *mockSessionService) AppendMessage(_ context.Context, _ string, role domain.Role, content string, opts ...domain.MessageOption) (domain.Message, error) {
	return domain.NewMessage(role, content, opts...), m.err
}

func (m *mockSessionService) Window(_ context.Context, _ string) ([]domain.Message, error) {
	return m.messages, m.err
}

func (m *mockSessionService) Remove(_ context.Context, _ string) error {
	return m.err
}

// mockRetrievalService is a mock implementation of driving.RetrievalService.
type mockRetrievalService struct {
	results []domain.SearchResult
	err     error
}

func (m *mockRetrievalService) Assemble(_ context.Context, _ []domain.ScoredHit) ([]domain.SearchResult, error) {
	return m.results, m.err
}

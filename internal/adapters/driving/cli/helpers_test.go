package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/docent-labs/docent-cli/internal/adapters/driven/storage/memory"
	"github.com/docent-labs/docent-cli/internal/core/domain"
	"github.com/docent-labs/docent-cli/internal/core/services"
)

// errMock is the failure every error-variant mock returns.
var errMock = errors.New("mock failure")

// setupTestServices swaps working mocks into the package service slots and
// returns a cleanup restoring the previous wiring.
func setupTestServices() func() {
	oldSource := sourceService
	oldIngest := ingestService
	oldSession := sessionService
	oldRetrieval := retrievalService
	oldSettings := settingsService

	sourceService = &mockSourceService{}
	ingestService = &mockIngestService{}
	sessionService = &mockSessionService{}
	retrievalService = &mockRetrievalService{}
	settingsService = services.NewSettingsService(memory.NewConfigStore())

	return func() {
		sourceService = oldSource
		ingestService = oldIngest
		sessionService = oldSession
		retrievalService = oldRetrieval
		settingsService = oldSettings
	}
}

// testSource builds a scraped weekly source for canned responses.
func testSource(url string) *domain.WebSource {
	source := domain.NewWebSource(url,
		domain.WithSourceTitle("Example Docs"),
		domain.WithSourceFrequency(domain.FrequencyWeekly),
		domain.WithSourceContentType("documentation"))
	source.MarkScraped("body text for "+url, "Example Docs", 0.82)
	return source
}

// mockSourceService answers every source operation with canned data.
type mockSourceService struct{}

func (m *mockSourceService) Register(_ context.Context, url string, opts ...domain.WebSourceOption) (*domain.WebSource, error) {
	return domain.NewWebSource(url, opts...), nil
}

func (m *mockSourceService) Get(_ context.Context, url string) (*domain.WebSource, error) {
	return testSource(url), nil
}

func (m *mockSourceService) List(_ context.Context) ([]*domain.WebSource, error) {
	pending := domain.NewWebSource("https://example.com/intro",
		domain.WithSourceFrequency(domain.FrequencyDaily))
	return []*domain.WebSource{testSource("https://example.com/docs"), pending}, nil
}

func (m *mockSourceService) ListStale(_ context.Context) ([]*domain.WebSource, error) {
	return []*domain.WebSource{domain.NewWebSource("https://example.com/intro")}, nil
}

func (m *mockSourceService) RefreshPlan(_ context.Context) ([]*domain.WebSource, error) {
	return m.ListStale(context.Background())
}

func (m *mockSourceService) EmitRefreshPlan(ctx context.Context, emit func(*domain.WebSource) error) error {
	plan, _ := m.RefreshPlan(ctx) //nolint:errcheck // Canned data never fails
	for _, source := range plan {
		if err := emit(source); err != nil {
			return err
		}
	}
	return nil
}

func (m *mockSourceService) MarkScraped(_ context.Context, url, content, title string, qualityScore float64) (*domain.WebSource, error) {
	source := domain.NewWebSource(url)
	source.MarkScraped(content, title, qualityScore)
	return source, nil
}

func (m *mockSourceService) MarkFailed(_ context.Context, url, errorMessage string) (*domain.WebSource, error) {
	source := domain.NewWebSource(url)
	source.MarkFailed(errorMessage)
	return source, nil
}

func (m *mockSourceService) Exclude(_ context.Context, url string) (*domain.WebSource, error) {
	source := domain.NewWebSource(url)
	source.Exclude()
	return source, nil
}

func (m *mockSourceService) Include(_ context.Context, url string) (*domain.WebSource, error) {
	return domain.NewWebSource(url), nil
}

func (m *mockSourceService) Remove(_ context.Context, _ string) error {
	return nil
}

func (m *mockSourceService) History(_ context.Context, url string, _ int) ([]domain.RefreshAttempt, error) {
	started := time.Now().Add(-time.Hour)
	return []domain.RefreshAttempt{
		{URL: url, StartedAt: started, EndedAt: started.Add(1200 * time.Millisecond), Success: true, QualityScore: 0.82},
		{URL: url, StartedAt: started.Add(-time.Hour), EndedAt: started.Add(-time.Hour + 400*time.Millisecond), Success: false, Error: "connection refused"},
	}, nil
}

// mockSourceServiceEmpty has nothing tracked.
type mockSourceServiceEmpty struct {
	mockSourceService
}

func (m *mockSourceServiceEmpty) List(_ context.Context) ([]*domain.WebSource, error) {
	return nil, nil
}

func (m *mockSourceServiceEmpty) ListStale(_ context.Context) ([]*domain.WebSource, error) {
	return nil, nil
}

func (m *mockSourceServiceEmpty) RefreshPlan(_ context.Context) ([]*domain.WebSource, error) {
	return nil, nil
}

func (m *mockSourceServiceEmpty) History(_ context.Context, _ string, _ int) ([]domain.RefreshAttempt, error) {
	return nil, nil
}

// mockSourceServiceExists rejects every registration as a duplicate.
type mockSourceServiceExists struct {
	mockSourceService
}

func (m *mockSourceServiceExists) Register(_ context.Context, url string, _ ...domain.WebSourceOption) (*domain.WebSource, error) {
	return nil, fmt.Errorf("%w: source %s", domain.ErrAlreadyExists, url)
}

// mockSourceServiceError fails every operation.
type mockSourceServiceError struct{}

func (m *mockSourceServiceError) Register(_ context.Context, _ string, _ ...domain.WebSourceOption) (*domain.WebSource, error) {
	return nil, errMock
}

func (m *mockSourceServiceError) Get(_ context.Context, _ string) (*domain.WebSource, error) {
	return nil, errMock
}

func (m *mockSourceServiceError) List(_ context.Context) ([]*domain.WebSource, error) {
	return nil, errMock
}

func (m *mockSourceServiceError) ListStale(_ context.Context) ([]*domain.WebSource, error) {
	return nil, errMock
}

func (m *mockSourceServiceError) RefreshPlan(_ context.Context) ([]*domain.WebSource, error) {
	return nil, errMock
}

func (m *mockSourceServiceError) EmitRefreshPlan(_ context.Context, _ func(*domain.WebSource) error) error {
	return errMock
}

func (m *mockSourceServiceError) MarkScraped(_ context.Context, _, _, _ string, _ float64) (*domain.WebSource, error) {
	return nil, errMock
}

func (m *mockSourceServiceError) MarkFailed(_ context.Context, _, _ string) (*domain.WebSource, error) {
	return nil, errMock
}

func (m *mockSourceServiceError) Exclude(_ context.Context, _ string) (*domain.WebSource, error) {
	return nil, errMock
}

func (m *mockSourceServiceError) Include(_ context.Context, _ string) (*domain.WebSource, error) {
	return nil, errMock
}

func (m *mockSourceServiceError) Remove(_ context.Context, _ string) error {
	return errMock
}

func (m *mockSourceServiceError) History(_ context.Context, _ string, _ int) ([]domain.RefreshAttempt, error) {
	return nil, errMock
}

// testChunks returns one local and one embedded web chunk.
func testChunks() []domain.Chunk {
	local := domain.NewChunk("chunk-1", "alpha beta gamma delta", "notes.md")
	web := domain.NewChunk("chunk-2", "epsilon zeta", "https://example.com/docs",
		domain.WithChunkType(domain.DocumentTypeWeb),
		domain.WithChunkSource(domain.ContentSourceWebScrape),
		domain.WithChunkEmbedding([]float32{0.1, 0.2, 0.3}))
	return []domain.Chunk{local, web}
}

// mockIngestService answers every ingest operation with canned data.
type mockIngestService struct{}

func (m *mockIngestService) IngestFile(_ context.Context, _ string) ([]domain.Chunk, error) {
	return testChunks(), nil
}

func (m *mockIngestService) IngestText(_ context.Context, sourceFile, text string, opts ...domain.ChunkOption) ([]domain.Chunk, error) {
	return []domain.Chunk{domain.NewChunk("chunk-text-1", text, sourceFile, opts...)}, nil
}

func (m *mockIngestService) Chunks(_ context.Context) ([]domain.Chunk, error) {
	return testChunks(), nil
}

func (m *mockIngestService) ChunksBySource(_ context.Context, sourceFile string) ([]domain.Chunk, error) {
	return []domain.Chunk{domain.NewChunk("chunk-1", "alpha beta", sourceFile)}, nil
}

func (m *mockIngestService) AttachEmbedding(_ context.Context, _ string, _ []float32) error {
	return nil
}

func (m *mockIngestService) RemoveSource(_ context.Context, _ string) (int, error) {
	return 3, nil
}

// mockIngestServiceEmpty has no stored chunks.
type mockIngestServiceEmpty struct {
	mockIngestService
}

func (m *mockIngestServiceEmpty) Chunks(_ context.Context) ([]domain.Chunk, error) {
	return nil, nil
}

func (m *mockIngestServiceEmpty) ChunksBySource(_ context.Context, _ string) ([]domain.Chunk, error) {
	return nil, nil
}

func (m *mockIngestServiceEmpty) RemoveSource(_ context.Context, _ string) (int, error) {
	return 0, nil
}

// mockIngestServiceUnsupported refuses every file as binary.
type mockIngestServiceUnsupported struct {
	mockIngestService
}

func (m *mockIngestServiceUnsupported) IngestFile(_ context.Context, _ string) ([]domain.Chunk, error) {
	return nil, fmt.Errorf("%w: pdf content needs external extraction", domain.ErrUnsupportedType)
}

// mockIngestServiceError fails every operation.
type mockIngestServiceError struct{}

func (m *mockIngestServiceError) IngestFile(_ context.Context, _ string) ([]domain.Chunk, error) {
	return nil, errMock
}

func (m *mockIngestServiceError) IngestText(_ context.Context, _, _ string, _ ...domain.ChunkOption) ([]domain.Chunk, error) {
	return nil, errMock
}

func (m *mockIngestServiceError) Chunks(_ context.Context) ([]domain.Chunk, error) {
	return nil, errMock
}

func (m *mockIngestServiceError) ChunksBySource(_ context.Context, _ string) ([]domain.Chunk, error) {
	return nil, errMock
}

func (m *mockIngestServiceError) AttachEmbedding(_ context.Context, _ string, _ []float32) error {
	return errMock
}

func (m *mockIngestServiceError) RemoveSource(_ context.Context, _ string) (int, error) {
	return 0, errMock
}

// testSession builds a two-message session for canned responses.
func testSession(id string) *domain.Session {
	session := domain.NewSession(id)
	session.Append(domain.NewMessage(domain.RoleUser, "How do I rotate logs?",
		domain.WithMessageID("msg-1"),
		domain.WithMessageTokenCount(6)))
	session.Append(domain.NewMessage(domain.RoleAssistant, "Use logrotate with a weekly schedule.",
		domain.WithMessageID("msg-2"),
		domain.WithMessageTokenCount(8),
		domain.WithMessageSources([]string{"https://example.com/docs"})))
	return session
}

// mockSessionService answers every session operation with canned data.
type mockSessionService struct{}

func (m *mockSessionService) Start(_ context.Context, metadata map[string]any) (*domain.Session, error) {
	return domain.NewSession("sess-test-1", domain.WithSessionMetadata(metadata)), nil
}

func (m *mockSessionService) Get(_ context.Context, id string) (*domain.Session, error) {
	return testSession(id), nil
}

func (m *mockSessionService) List(_ context.Context) ([]*domain.Session, error) {
	return []*domain.Session{testSession("sess-test-1")}, nil
}

func (m *mockSessionService) AppendMessage(_ context.Context, _ string, role domain.Role, content string, opts ...domain.MessageOption) (domain.Message, error) {
	opts = append([]domain.MessageOption{
		domain.WithMessageID("msg-new"),
		domain.WithMessageTokenCount(5),
	}, opts...)
	return domain.NewMessage(role, content, opts...), nil
}

func (m *mockSessionService) Window(_ context.Context, id string) ([]domain.Message, error) {
	return testSession(id).RecentMessages(10), nil
}

func (m *mockSessionService) Remove(_ context.Context, _ string) error {
	return nil
}

// mockSessionServiceError fails every operation.
type mockSessionServiceError struct{}

func (m *mockSessionServiceError) Start(_ context.Context, _ map[string]any) (*domain.Session, error) {
	return nil, errMock
}

func (m *mockSessionServiceError) Get(_ context.Context, _ string) (*domain.Session, error) {
	return nil, errMock
}

func (m *mockSessionServiceError) List(_ context.Context) ([]*domain.Session, error) {
	return nil, errMock
}

func (m *mockSessionServiceError) AppendMessage(_ context.Context, _ string, _ domain.Role, _ string, _ ...domain.MessageOption) (domain.Message, error) {
	return domain.Message{}, errMock
}

func (m *mockSessionServiceError) Window(_ context.Context, _ string) ([]domain.Message, error) {
	return nil, errMock
}

func (m *mockSessionServiceError) Remove(_ context.Context, _ string) error {
	return errMock
}

// mockRetrievalService classifies every supplied hit without filtering.
type mockRetrievalService struct{}

func (m *mockRetrievalService) Assemble(_ context.Context, hits []domain.ScoredHit) ([]domain.SearchResult, error) {
	results := make([]domain.SearchResult, len(hits))
	for i, hit := range hits {
		results[i] = domain.NewSearchResult("content for "+hit.ChunkID, "https://example.com/docs", hit.Score,
			domain.WithResultChunkID(hit.ChunkID))
	}
	return results, nil
}

// mockRetrievalServiceEmpty drops every hit.
type mockRetrievalServiceEmpty struct{}

func (m *mockRetrievalServiceEmpty) Assemble(_ context.Context, _ []domain.ScoredHit) ([]domain.SearchResult, error) {
	return nil, nil
}

// mockRetrievalServiceError fails every operation.
type mockRetrievalServiceError struct{}

func (m *mockRetrievalServiceError) Assemble(_ context.Context, _ []domain.ScoredHit) ([]domain.SearchResult, error) {
	return nil, errMock
}

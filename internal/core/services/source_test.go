package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docent-labs/docent-cli/internal/adapters/driven/storage/memory"
	"github.com/docent-labs/docent-cli/internal/core/domain"
)

// mockRefreshLog captures attempts in memory.
type mockRefreshLog struct {
	mu       sync.Mutex
	attempts []domain.RefreshAttempt
	err      error
}

func (m *mockRefreshLog) Record(_ context.Context, attempt domain.RefreshAttempt) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.attempts = append(m.attempts, attempt)
	return nil
}

func (m *mockRefreshLog) History(_ context.Context, url string, limit int) ([]domain.RefreshAttempt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	var result []domain.RefreshAttempt
	for i := len(m.attempts) - 1; i >= 0; i-- {
		if m.attempts[i].URL != url {
			continue
		}
		result = append(result, m.attempts[i])
		if limit > 0 && len(result) == limit {
			break
		}
	}
	return result, nil
}

func (m *mockRefreshLog) Prune(_ context.Context, _ int) error {
	return m.err
}

func newSourceService(log *mockRefreshLog) *SourceService {
	settings := domain.DefaultPipelineSettings()
	settings.ScrapeDelay = 0 // No pacing in unit tests
	if log == nil {
		return NewSourceService(memory.NewWebSourceStore(), nil, settings)
	}
	return NewSourceService(memory.NewWebSourceStore(), log, settings)
}

func TestSourceService_Register_Success(t *testing.T) {
	service := newSourceService(nil)
	ctx := context.Background()

	source, err := service.Register(ctx, "https://docs.example.com",
		domain.WithSourceFrequency(domain.FrequencyWeekly),
	)

	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, source.Status)
	assert.Equal(t, domain.FrequencyWeekly, source.Frequency)

	retrieved, err := service.Get(ctx, "https://docs.example.com")
	require.NoError(t, err)
	assert.Equal(t, "https://docs.example.com", retrieved.URL)
}

func TestSourceService_Register_AlreadyExists(t *testing.T) {
	service := newSourceService(nil)
	ctx := context.Background()

	_, err := service.Register(ctx, "https://docs.example.com")
	require.NoError(t, err)

	_, err = service.Register(ctx, "https://docs.example.com")
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)
}

func TestSourceService_Register_EmptyURL(t *testing.T) {
	service := newSourceService(nil)

	_, err := service.Register(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSourceService_List_SortedByURL(t *testing.T) {
	service := newSourceService(nil)
	ctx := context.Background()

	_, _ = service.Register(ctx, "https://c.example.com")
	_, _ = service.Register(ctx, "https://a.example.com")
	_, _ = service.Register(ctx, "https://b.example.com")

	sources, err := service.List(ctx)
	require.NoError(t, err)
	require.Len(t, sources, 3)
	assert.Equal(t, "https://a.example.com", sources[0].URL)
	assert.Equal(t, "https://b.example.com", sources[1].URL)
	assert.Equal(t, "https://c.example.com", sources[2].URL)
}

func TestSourceService_ListStale_SkipsExcludedAndFresh(t *testing.T) {
	service := newSourceService(nil)
	ctx := context.Background()

	_, _ = service.Register(ctx, "https://pending.example.com")
	_, _ = service.Register(ctx, "https://fresh.example.com")
	_, _ = service.Register(ctx, "https://excluded.example.com")

	_, err := service.MarkScraped(ctx, "https://fresh.example.com", "body", "Fresh", 0.9)
	require.NoError(t, err)
	_, err = service.Exclude(ctx, "https://excluded.example.com")
	require.NoError(t, err)

	stale, err := service.ListStale(ctx)
	require.NoError(t, err)
	require.Len(t, stale, 1)
	assert.Equal(t, "https://pending.example.com", stale[0].URL)
}

func TestSourceService_RefreshPlan_Ordering(t *testing.T) {
	store := memory.NewWebSourceStore()
	settings := domain.DefaultPipelineSettings()
	settings.ScrapeDelay = 0
	service := NewSourceService(store, nil, settings)
	ctx := context.Background()

	// Failed source, scraped source past its weekly window, never-scraped
	// source. Plan order: new, due, failed.
	failing := domain.NewWebSource("https://failing.example.com")
	failing.MarkFailed("connection refused")
	require.NoError(t, store.Save(ctx, failing))

	overdue := domain.NewWebSource("https://overdue.example.com",
		domain.WithSourceFrequency(domain.FrequencyWeekly),
	)
	overdue.MarkScraped("old body", "Overdue", 0.8)
	past := overdue.LastScraped.Add(-8 * 24 * time.Hour)
	overdue.LastScraped = &past
	require.NoError(t, store.Save(ctx, overdue))

	_, err := service.Register(ctx, "https://new.example.com")
	require.NoError(t, err)

	plan, err := service.RefreshPlan(ctx)
	require.NoError(t, err)
	require.Len(t, plan, 3)
	assert.Equal(t, "https://new.example.com", plan[0].URL)
	assert.Equal(t, "https://overdue.example.com", plan[1].URL)
	assert.Equal(t, "https://failing.example.com", plan[2].URL)
}

func TestSourceService_EmitRefreshPlan(t *testing.T) {
	service := newSourceService(nil)
	ctx := context.Background()

	_, _ = service.Register(ctx, "https://a.example.com")
	_, _ = service.Register(ctx, "https://b.example.com")

	var emitted []string
	err := service.EmitRefreshPlan(ctx, func(source *domain.WebSource) error {
		emitted = append(emitted, source.URL)
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, emitted)
}

func TestSourceService_EmitRefreshPlan_StopsOnEmitError(t *testing.T) {
	service := newSourceService(nil)
	ctx := context.Background()

	_, _ = service.Register(ctx, "https://a.example.com")
	_, _ = service.Register(ctx, "https://b.example.com")

	wantErr := errors.New("scraper unavailable")
	calls := 0
	err := service.EmitRefreshPlan(ctx, func(*domain.WebSource) error {
		calls++
		return wantErr
	})

	assert.ErrorIs(t, err, wantErr)
	assert.Equal(t, 1, calls)
}

func TestSourceService_EmitRefreshPlan_ContextCancelled(t *testing.T) {
	store := memory.NewWebSourceStore()
	settings := domain.DefaultPipelineSettings()
	settings.ScrapeDelay = 60 // One a minute; the second emit must wait
	service := NewSourceService(store, nil, settings)
	ctx, cancel := context.WithCancel(context.Background())

	_, _ = service.Register(ctx, "https://a.example.com")
	_, _ = service.Register(ctx, "https://b.example.com")

	err := service.EmitRefreshPlan(ctx, func(*domain.WebSource) error {
		cancel()
		return nil
	})

	assert.ErrorIs(t, err, context.Canceled)
}

func TestSourceService_MarkScraped(t *testing.T) {
	log := &mockRefreshLog{}
	service := newSourceService(log)
	ctx := context.Background()

	_, err := service.Register(ctx, "https://docs.example.com")
	require.NoError(t, err)

	source, err := service.MarkScraped(ctx, "https://docs.example.com", "page body", "Docs", 0.85)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusScraped, source.Status)
	assert.Equal(t, "page body", source.Content)

	// Outcome persisted
	saved, err := service.Get(ctx, "https://docs.example.com")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusScraped, saved.Status)

	// History row appended
	require.Len(t, log.attempts, 1)
	assert.True(t, log.attempts[0].Success)
	assert.Equal(t, 0.85, log.attempts[0].QualityScore)
}

func TestSourceService_MarkFailed(t *testing.T) {
	log := &mockRefreshLog{}
	service := newSourceService(log)
	ctx := context.Background()

	_, err := service.Register(ctx, "https://docs.example.com")
	require.NoError(t, err)

	source, err := service.MarkFailed(ctx, "https://docs.example.com", "status 503")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusFailed, source.Status)
	assert.Equal(t, "status 503", source.ErrorMessage)

	require.Len(t, log.attempts, 1)
	assert.False(t, log.attempts[0].Success)
	assert.Equal(t, "status 503", log.attempts[0].Error)
}

func TestSourceService_MarkScraped_ExcludedNoOp(t *testing.T) {
	log := &mockRefreshLog{}
	service := newSourceService(log)
	ctx := context.Background()

	_, err := service.Register(ctx, "https://docs.example.com")
	require.NoError(t, err)
	_, err = service.Exclude(ctx, "https://docs.example.com")
	require.NoError(t, err)

	source, err := service.MarkScraped(ctx, "https://docs.example.com", "body", "Title", 0.9)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusExcluded, source.Status)
	assert.Empty(t, source.Content)

	// No history row for an ignored outcome
	assert.Empty(t, log.attempts)
}

func TestSourceService_MarkScraped_NotFound(t *testing.T) {
	service := newSourceService(nil)

	_, err := service.MarkScraped(context.Background(), "https://unknown.example.com", "body", "Title", 0.9)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSourceService_ExcludeAndInclude(t *testing.T) {
	service := newSourceService(nil)
	ctx := context.Background()

	_, err := service.Register(ctx, "https://docs.example.com")
	require.NoError(t, err)

	source, err := service.Exclude(ctx, "https://docs.example.com")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusExcluded, source.Status)

	source, err = service.Include(ctx, "https://docs.example.com")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, source.Status)
}

func TestSourceService_Remove(t *testing.T) {
	service := newSourceService(nil)
	ctx := context.Background()

	_, err := service.Register(ctx, "https://docs.example.com")
	require.NoError(t, err)

	require.NoError(t, service.Remove(ctx, "https://docs.example.com"))

	_, err = service.Get(ctx, "https://docs.example.com")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSourceService_History(t *testing.T) {
	log := &mockRefreshLog{}
	service := newSourceService(log)
	ctx := context.Background()

	_, err := service.Register(ctx, "https://docs.example.com")
	require.NoError(t, err)
	_, err = service.MarkFailed(ctx, "https://docs.example.com", "status 503")
	require.NoError(t, err)
	_, err = service.MarkScraped(ctx, "https://docs.example.com", "body", "Docs", 0.9)
	require.NoError(t, err)

	attempts, err := service.History(ctx, "https://docs.example.com", 10)
	require.NoError(t, err)
	require.Len(t, attempts, 2)
	assert.True(t, attempts[0].Success)
	assert.False(t, attempts[1].Success)
}

func TestSourceService_History_NoLogWired(t *testing.T) {
	service := newSourceService(nil)

	_, err := service.History(context.Background(), "https://docs.example.com", 10)
	assert.ErrorIs(t, err, domain.ErrNotImplemented)
}

func TestSourceService_RecordFailureDoesNotFailOutcome(t *testing.T) {
	log := &mockRefreshLog{err: errors.New("disk full")}
	service := newSourceService(log)
	ctx := context.Background()

	_, err := service.Register(ctx, "https://docs.example.com")
	require.NoError(t, err)

	source, err := service.MarkScraped(ctx, "https://docs.example.com", "body", "Docs", 0.9)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusScraped, source.Status)
}

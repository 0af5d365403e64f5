package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"golang.org/x/time/rate"

	"github.com/docent-labs/docent-cli/internal/core/domain"
	"github.com/docent-labs/docent-cli/internal/core/ports/driven"
	"github.com/docent-labs/docent-cli/internal/core/ports/driving"
	"github.com/docent-labs/docent-cli/internal/logger"
)

// Ensure SourceService implements the interface.
var _ driving.SourceService = (*SourceService)(nil)

// SourceService manages the web source lifecycle.
type SourceService struct {
	sourceStore driven.WebSourceStore
	refreshLog  driven.RefreshLog
	scrapeDelay time.Duration
}

// NewSourceService creates a new source service.
// The refreshLog parameter is optional (can be nil); without it outcome
// reporting still updates sources but records no history.
func NewSourceService(
	sourceStore driven.WebSourceStore,
	refreshLog driven.RefreshLog,
	settings domain.PipelineSettings,
) *SourceService {
	return &SourceService{
		sourceStore: sourceStore,
		refreshLog:  refreshLog,
		scrapeDelay: time.Duration(settings.ScrapeDelay * float64(time.Second)),
	}
}

// Register creates a new pending source for a URL.
func (s *SourceService) Register(ctx context.Context, url string, opts ...domain.WebSourceOption) (*domain.WebSource, error) {
	if s.sourceStore == nil {
		return nil, domain.ErrNotImplemented
	}
	if url == "" {
		return nil, fmt.Errorf("%w: url is empty", domain.ErrInvalidInput)
	}
	// Check if already tracked
	existing, err := s.sourceStore.Get(ctx, url)
	if err == nil && existing != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrAlreadyExists, url)
	}

	source := domain.NewWebSource(url, opts...)
	if err := s.sourceStore.Save(ctx, source); err != nil {
		return nil, err
	}
	logger.Debug("Registered source %s (frequency=%s)", url, source.Frequency)
	return source, nil
}

// Get retrieves a source by URL.
func (s *SourceService) Get(ctx context.Context, url string) (*domain.WebSource, error) {
	if s.sourceStore == nil {
		return nil, domain.ErrNotImplemented
	}
	return s.sourceStore.Get(ctx, url)
}

// List returns all tracked sources ordered by URL.
func (s *SourceService) List(ctx context.Context) ([]*domain.WebSource, error) {
	if s.sourceStore == nil {
		return nil, domain.ErrNotImplemented
	}
	sources, err := s.sourceStore.List(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(sources, func(i, j int) bool {
		return sources[i].URL < sources[j].URL
	})
	return sources, nil
}

// ListStale returns the sources due for re-fetching. Excluded sources are
// never due, whatever their age.
func (s *SourceService) ListStale(ctx context.Context) ([]*domain.WebSource, error) {
	sources, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	stale := make([]*domain.WebSource, 0, len(sources))
	for _, source := range sources {
		if source.Status == domain.StatusExcluded {
			continue
		}
		if source.IsStale() {
			stale = append(stale, source)
		}
	}
	return stale, nil
}

// RefreshPlan returns the stale sources in scrape order: never-scraped
// first, recently-failed last, oldest content in between.
func (s *SourceService) RefreshPlan(ctx context.Context) ([]*domain.WebSource, error) {
	stale, err := s.ListStale(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(stale, func(i, j int) bool {
		ri, rj := planRank(stale[i]), planRank(stale[j])
		if ri != rj {
			return ri < rj
		}
		if ri == planRankDue {
			return stale[i].LastScraped.Before(*stale[j].LastScraped)
		}
		return stale[i].URL < stale[j].URL
	})
	return stale, nil
}

// Plan ranks: new sources lead, failing sources trail.
const (
	planRankNew = iota
	planRankDue
	planRankFailed
)

func planRank(source *domain.WebSource) int {
	switch {
	case source.Status == domain.StatusFailed:
		return planRankFailed
	case source.LastScraped == nil:
		return planRankNew
	default:
		return planRankDue
	}
}

// EmitRefreshPlan streams the refresh plan to emit, pacing successive calls
// at the configured scrape delay so a consuming scraper stays polite.
func (s *SourceService) EmitRefreshPlan(ctx context.Context, emit func(*domain.WebSource) error) error {
	plan, err := s.RefreshPlan(ctx)
	if err != nil {
		return err
	}

	every := rate.Every(s.scrapeDelay)
	if s.scrapeDelay <= 0 {
		every = rate.Inf
	}
	limiter := rate.NewLimiter(every, 1)

	for _, source := range plan {
		if err := limiter.Wait(ctx); err != nil {
			return err
		}
		if err := emit(source); err != nil {
			return err
		}
	}
	return nil
}

// MarkScraped records a successful scrape outcome reported by the external
// scraper. Excluded sources are left untouched and no history row is added.
func (s *SourceService) MarkScraped(ctx context.Context, url, content, title string, qualityScore float64) (*domain.WebSource, error) {
	if s.sourceStore == nil {
		return nil, domain.ErrNotImplemented
	}
	source, err := s.sourceStore.Get(ctx, url)
	if err != nil {
		return nil, err
	}

	if source.Status == domain.StatusExcluded {
		logger.Debug("Ignoring scrape outcome for excluded source %s", url)
		return source, nil
	}

	source.MarkScraped(content, title, qualityScore)
	if err := s.sourceStore.Save(ctx, source); err != nil {
		return nil, err
	}

	s.recordAttempt(ctx, domain.RefreshAttempt{
		URL:          url,
		StartedAt:    *source.LastScraped,
		EndedAt:      *source.LastScraped,
		Success:      true,
		QualityScore: qualityScore,
		ChunkCount:   source.ChunkCount,
	})
	return source, nil
}

// MarkFailed records a failed scrape outcome. Excluded sources are left
// untouched and no history row is added.
func (s *SourceService) MarkFailed(ctx context.Context, url, errorMessage string) (*domain.WebSource, error) {
	if s.sourceStore == nil {
		return nil, domain.ErrNotImplemented
	}
	source, err := s.sourceStore.Get(ctx, url)
	if err != nil {
		return nil, err
	}

	if source.Status == domain.StatusExcluded {
		logger.Debug("Ignoring scrape outcome for excluded source %s", url)
		return source, nil
	}

	source.MarkFailed(errorMessage)
	if err := s.sourceStore.Save(ctx, source); err != nil {
		return nil, err
	}

	s.recordAttempt(ctx, domain.RefreshAttempt{
		URL:       url,
		StartedAt: *source.LastScraped,
		EndedAt:   *source.LastScraped,
		Success:   false,
		Error:     errorMessage,
	})
	return source, nil
}

// recordAttempt appends a history row when a refresh log is wired.
// History is best-effort: a failed write never fails the outcome report.
func (s *SourceService) recordAttempt(ctx context.Context, attempt domain.RefreshAttempt) {
	if s.refreshLog == nil {
		return
	}
	if err := s.refreshLog.Record(ctx, attempt); err != nil {
		logger.Warn("Failed to record refresh attempt for %s: %v", attempt.URL, err)
	}
}

// Exclude removes a source from scraping without deleting its record.
func (s *SourceService) Exclude(ctx context.Context, url string) (*domain.WebSource, error) {
	if s.sourceStore == nil {
		return nil, domain.ErrNotImplemented
	}
	source, err := s.sourceStore.Get(ctx, url)
	if err != nil {
		return nil, err
	}
	source.Exclude()
	if err := s.sourceStore.Save(ctx, source); err != nil {
		return nil, err
	}
	return source, nil
}

// Include returns an excluded source to the pending pool.
func (s *SourceService) Include(ctx context.Context, url string) (*domain.WebSource, error) {
	if s.sourceStore == nil {
		return nil, domain.ErrNotImplemented
	}
	source, err := s.sourceStore.Get(ctx, url)
	if err != nil {
		return nil, err
	}
	source.Restore()
	if err := s.sourceStore.Save(ctx, source); err != nil {
		return nil, err
	}
	return source, nil
}

// Remove deletes a source record entirely.
func (s *SourceService) Remove(ctx context.Context, url string) error {
	if s.sourceStore == nil {
		return domain.ErrNotImplemented
	}
	return s.sourceStore.Delete(ctx, url)
}

// History returns recent scrape attempts for a URL, most recent first.
func (s *SourceService) History(ctx context.Context, url string, limit int) ([]domain.RefreshAttempt, error) {
	if s.refreshLog == nil {
		return nil, domain.ErrNotImplemented
	}
	return s.refreshLog.History(ctx, url, limit)
}

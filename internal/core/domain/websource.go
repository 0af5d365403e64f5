package domain

import (
	"fmt"
	"time"
)

// ScrapeFrequency is the refresh policy for a web source.
type ScrapeFrequency string

// Supported scrape frequencies.
const (
	// FrequencyDaily re-fetches after one day.
	FrequencyDaily ScrapeFrequency = "daily"

	// FrequencyWeekly re-fetches after seven days.
	FrequencyWeekly ScrapeFrequency = "weekly"

	// FrequencyMonthly re-fetches after thirty days.
	FrequencyMonthly ScrapeFrequency = "monthly"

	// FrequencyManual is never re-fetched automatically.
	FrequencyManual ScrapeFrequency = "manual"
)

// ParseScrapeFrequency maps a stored string onto a ScrapeFrequency.
// Unrecognised values are an error, never a silent default.
func ParseScrapeFrequency(value string) (ScrapeFrequency, error) {
	f := ScrapeFrequency(value)
	if !f.IsValid() {
		return "", fmt.Errorf("%w: scrape frequency %q", ErrInvalidValue, value)
	}
	return f, nil
}

// IsValid returns true if the frequency is recognised.
func (f ScrapeFrequency) IsValid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly, FrequencyManual:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (f ScrapeFrequency) String() string {
	return string(f)
}

// ThresholdDays returns the whole-day age at which content becomes stale.
// The second return is false for frequencies that never go stale (manual).
// Unrecognised frequencies fall back to the monthly threshold so staleness
// stays a total function even for values constructed outside the parser.
func (f ScrapeFrequency) ThresholdDays() (int, bool) {
	switch f {
	case FrequencyDaily:
		return 1, true
	case FrequencyWeekly:
		return 7, true
	case FrequencyMonthly:
		return 30, true
	case FrequencyManual:
		return 0, false
	default:
		return 30, true
	}
}

// SourceStatus is the scrape lifecycle state of a web source.
type SourceStatus string

// Web source lifecycle states.
const (
	// StatusPending means registered but not yet scraped.
	StatusPending SourceStatus = "pending"

	// StatusScraped means the last scrape attempt succeeded.
	StatusScraped SourceStatus = "scraped"

	// StatusFailed means the last scrape attempt failed.
	StatusFailed SourceStatus = "failed"

	// StatusExcluded means an operator removed the source from scraping.
	// Terminal: the scrape transitions do not move a source out of it.
	StatusExcluded SourceStatus = "excluded"
)

// ParseSourceStatus maps a stored string onto a SourceStatus.
// Unrecognised values are an error, never a silent default.
func ParseSourceStatus(value string) (SourceStatus, error) {
	s := SourceStatus(value)
	if !s.IsValid() {
		return "", fmt.Errorf("%w: source status %q", ErrInvalidValue, value)
	}
	return s, nil
}

// IsValid returns true if the status is recognised.
func (s SourceStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusScraped, StatusFailed, StatusExcluded:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (s SourceStatus) String() string {
	return string(s)
}

// Label returns the upper-case display label used in listings and records.
func (s SourceStatus) Label() string {
	switch s {
	case StatusPending:
		return "PENDING"
	case StatusScraped:
		return "SUCCESS"
	case StatusFailed:
		return "FAILED"
	case StatusExcluded:
		return "EXCLUDED"
	default:
		return "UNKNOWN"
	}
}

// WebSource tracks one scraped URL: its latest content, scrape lifecycle
// state, refresh policy and content quality. The scraping pipeline owns the
// state transitions; the chunking pipeline reads staleness to decide what
// needs re-fetching.
type WebSource struct {
	// URL is the unique key for the source.
	URL string

	// Title is the page title captured by the last successful scrape.
	Title string

	// Content is the latest scraped body text.
	Content string

	// LastScraped is when the last scrape attempt finished, successful or
	// not. Nil until the first attempt.
	LastScraped *time.Time

	// Frequency is the refresh policy.
	Frequency ScrapeFrequency

	// Status is the lifecycle state.
	Status SourceStatus

	// ContentType is a free-form tag (documentation, forum, blog, manual).
	ContentType string

	// QualityScore rates the scraped content in [0,1]. The model does not
	// range-validate it; scoring is the scraper's responsibility.
	QualityScore float64

	// Metadata contains arbitrary key-value pairs.
	Metadata map[string]any

	// ErrorMessage holds the last scrape failure, empty after a success.
	ErrorMessage string

	// ChunkCount is how many chunks were produced from the latest content.
	ChunkCount int
}

// WebSourceOption configures optional WebSource fields at registration.
type WebSourceOption func(*WebSource)

// WithSourceTitle sets an initial title before the first scrape.
func WithSourceTitle(title string) WebSourceOption {
	return func(s *WebSource) {
		s.Title = title
	}
}

// WithSourceFrequency sets the refresh policy.
func WithSourceFrequency(f ScrapeFrequency) WebSourceOption {
	return func(s *WebSource) {
		s.Frequency = f
	}
}

// WithSourceContentType sets the free-form content tag.
func WithSourceContentType(contentType string) WebSourceOption {
	return func(s *WebSource) {
		s.ContentType = contentType
	}
}

// WithSourceMetadata sets the metadata map.
func WithSourceMetadata(metadata map[string]any) WebSourceOption {
	return func(s *WebSource) {
		s.Metadata = metadata
	}
}

// NewWebSource registers a URL in the pending state with a monthly refresh
// policy unless options say otherwise.
func NewWebSource(url string, opts ...WebSourceOption) *WebSource {
	s := &WebSource{
		URL:         url,
		Frequency:   FrequencyMonthly,
		Status:      StatusPending,
		ContentType: "unknown",
		Metadata:    map[string]any{},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.Metadata == nil {
		s.Metadata = map[string]any{}
	}
	return s
}

// MarkScraped records a successful scrape: stores content, title and quality,
// stamps the attempt time, clears any previous error and moves the source to
// scraped. Excluded sources are left untouched.
func (s *WebSource) MarkScraped(content, title string, qualityScore float64) {
	if s.Status == StatusExcluded {
		return
	}
	now := time.Now()
	s.Content = content
	s.Title = title
	s.LastScraped = &now
	s.Status = StatusScraped
	s.QualityScore = qualityScore
	s.ErrorMessage = ""
}

// MarkFailed records a failed scrape attempt: stamps the attempt time and
// stores the error, leaving previously scraped content untouched. Excluded
// sources are left untouched.
func (s *WebSource) MarkFailed(errorMessage string) {
	if s.Status == StatusExcluded {
		return
	}
	now := time.Now()
	s.Status = StatusFailed
	s.ErrorMessage = errorMessage
	s.LastScraped = &now
}

// Exclude removes the source from scraping. The state is terminal for the
// scrape transitions; only Restore moves the source out of it.
func (s *WebSource) Exclude() {
	s.Status = StatusExcluded
}

// Restore returns an excluded source to the pending state so the next
// refresh plan picks it up again.
func (s *WebSource) Restore() {
	if s.Status == StatusExcluded {
		s.Status = StatusPending
	}
}

// IsStale reports whether the content is due for re-fetching now.
func (s *WebSource) IsStale() bool {
	return s.IsStaleAt(time.Now())
}

// IsStaleAt reports whether the content is due for re-fetching at the given
// instant: always for never-scraped sources, never for manual frequency, and
// otherwise when the whole-day difference since the last attempt reaches the
// frequency threshold.
func (s *WebSource) IsStaleAt(now time.Time) bool {
	if s.LastScraped == nil {
		return true
	}
	threshold, ages := s.Frequency.ThresholdDays()
	if !ages {
		return false
	}
	days := int(now.Sub(*s.LastScraped).Hours() / 24)
	return days >= threshold
}

// IsHighQuality reports whether the content meets the quality threshold.
func (s *WebSource) IsHighQuality() bool {
	return s.QualityScore >= RelevanceThreshold
}

// Record encodes the source as a key-value record. Staleness, quality flag
// and status label are included as redundant convenience fields; decoders
// recompute them.
func (s *WebSource) Record() Record {
	var lastScraped any
	if s.LastScraped != nil {
		lastScraped = formatTimestamp(*s.LastScraped)
	}
	return Record{
		"url":              s.URL,
		"title":            s.Title,
		"content":          s.Content,
		"last_scraped":     lastScraped,
		"scrape_frequency": s.Frequency.String(),
		"status":           s.Status.String(),
		"content_type":     s.ContentType,
		"quality_score":    s.QualityScore,
		"metadata":         s.Metadata,
		"error_message":    s.ErrorMessage,
		"chunk_count":      s.ChunkCount,
		"is_stale":         s.IsStale(),
		"is_high_quality":  s.IsHighQuality(),
		"status_label":     s.Status.Label(),
	}
}

// WebSourceFromRecord rebuilds a web source from its record form.
func WebSourceFromRecord(rec Record) (*WebSource, error) {
	url, err := stringField(rec, "url")
	if err != nil {
		return nil, err
	}
	title, err := optionalString(rec, "title", "")
	if err != nil {
		return nil, err
	}
	content, err := optionalString(rec, "content", "")
	if err != nil {
		return nil, err
	}
	lastScraped, err := nullableTimestamp(rec, "last_scraped")
	if err != nil {
		return nil, err
	}
	frequencyValue, err := optionalString(rec, "scrape_frequency", FrequencyMonthly.String())
	if err != nil {
		return nil, err
	}
	frequency, err := ParseScrapeFrequency(frequencyValue)
	if err != nil {
		return nil, err
	}
	statusValue, err := optionalString(rec, "status", StatusPending.String())
	if err != nil {
		return nil, err
	}
	status, err := ParseSourceStatus(statusValue)
	if err != nil {
		return nil, err
	}
	contentType, err := optionalString(rec, "content_type", "unknown")
	if err != nil {
		return nil, err
	}
	qualityScore, err := optionalFloat(rec, "quality_score", 0)
	if err != nil {
		return nil, err
	}
	metadata, err := metadataField(rec, "metadata")
	if err != nil {
		return nil, err
	}
	errorMessage, err := optionalString(rec, "error_message", "")
	if err != nil {
		return nil, err
	}
	chunkCount, err := optionalInt(rec, "chunk_count", 0)
	if err != nil {
		return nil, err
	}
	return &WebSource{
		URL:          url,
		Title:        title,
		Content:      content,
		LastScraped:  lastScraped,
		Frequency:    frequency,
		Status:       status,
		ContentType:  contentType,
		QualityScore: qualityScore,
		Metadata:     metadata,
		ErrorMessage: errorMessage,
		ChunkCount:   chunkCount,
	}, nil
}

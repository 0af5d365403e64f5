package domain

// PipelineSettings carries the tunable values shared between this layer and
// its external collaborators: chunking geometry, retrieval bounds,
// conversation windowing and scraper pacing. Settings are read once at
// startup; the core never re-reads configuration at runtime.
type PipelineSettings struct {
	// ChunkSize is the target chunk length in characters.
	ChunkSize int

	// ChunkOverlap is how many characters consecutive chunks share.
	ChunkOverlap int

	// TopK is how many results retrieval returns.
	TopK int

	// MaxContextLength caps the characters of retrieved context per prompt.
	MaxContextLength int

	// MemoryLimit is how many recent messages the session window returns.
	MemoryLimit int

	// RelevanceThreshold is the operating score floor for retrieval.
	RelevanceThreshold float64

	// WebContentWeight is the relative weight of web content against local
	// documents when ranking.
	WebContentWeight float64

	// MinContentLength drops scraped pages shorter than this.
	MinContentLength int

	// MaxContentLength truncates scraped pages longer than this.
	MaxContentLength int

	// ScrapeDelay is the pause between emitted scrape targets, in seconds.
	ScrapeDelay float64

	// MaxPagesPerSite caps how many pages one site contributes.
	MaxPagesPerSite int

	// UserAgent identifies the scraper to remote sites.
	UserAgent string
}

// DefaultPipelineSettings returns the stock configuration.
func DefaultPipelineSettings() PipelineSettings {
	return PipelineSettings{
		ChunkSize:          800,
		ChunkOverlap:       100,
		TopK:               5,
		MaxContextLength:   4000,
		MemoryLimit:        10,
		RelevanceThreshold: RelevanceThreshold,
		WebContentWeight:   0.7,
		MinContentLength:   100,
		MaxContentLength:   5000,
		ScrapeDelay:        1.0,
		MaxPagesPerSite:    50,
		UserAgent:          "DocentAgent/1.0",
	}
}

// Validate returns the list of configuration problems, empty when the
// settings are usable.
func (s PipelineSettings) Validate() []string {
	var problems []string
	if s.ChunkSize < 100 {
		problems = append(problems, "chunk size must be at least 100 characters")
	}
	if s.ChunkOverlap >= s.ChunkSize {
		problems = append(problems, "chunk overlap must be less than chunk size")
	}
	if s.TopK < 1 {
		problems = append(problems, "top-k retrieval must be at least 1")
	}
	if s.ScrapeDelay < 0.1 {
		problems = append(problems, "scrape delay must be at least 0.1 seconds")
	}
	return problems
}

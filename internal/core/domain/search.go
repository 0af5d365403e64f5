package domain

import "time"

// RelevanceThreshold is the score floor below which a result is considered
// irrelevant. The same constant backs web source quality checks; services
// that want a different operating threshold read one from configuration.
const RelevanceThreshold = 0.7

// RelevanceLevel is the qualitative tier of a similarity score.
type RelevanceLevel string

// Relevance tiers, highest first.
const (
	// RelevanceVeryHigh covers scores of 0.9 and above.
	RelevanceVeryHigh RelevanceLevel = "Very High"

	// RelevanceHigh covers scores of 0.8 and above.
	RelevanceHigh RelevanceLevel = "High"

	// RelevanceMedium covers scores of 0.7 and above.
	RelevanceMedium RelevanceLevel = "Medium"

	// RelevanceLow covers scores of 0.5 and above.
	RelevanceLow RelevanceLevel = "Low"

	// RelevanceVeryLow covers everything below 0.5.
	RelevanceVeryLow RelevanceLevel = "Very Low"
)

// String returns the string representation.
func (l RelevanceLevel) String() string {
	return string(l)
}

// ClassifyRelevance bins a raw similarity score into its qualitative tier.
// Pure function: identical scores always classify identically. Out-of-range
// scores are not rejected; they land in the outermost tiers.
func ClassifyRelevance(score float64) RelevanceLevel {
	switch {
	case score >= 0.9:
		return RelevanceVeryHigh
	case score >= 0.8:
		return RelevanceHigh
	case score >= 0.7:
		return RelevanceMedium
	case score >= 0.5:
		return RelevanceLow
	default:
		return RelevanceVeryLow
	}
}

// ScoredHit is a raw index lookup hit: a chunk id and its similarity score,
// before assembly into a SearchResult. The vector index producing hits is an
// external collaborator.
type ScoredHit struct {
	// ChunkID identifies the chunk that matched.
	ChunkID string

	// Score is the raw similarity score.
	Score float64
}

// SearchResult is a scored retrieval hit with the provenance needed for
// citation. Tier and relevance flag are derived from the score on access,
// never stored.
type SearchResult struct {
	// Content is the matched text.
	Content string

	// Source is the originating file path or URL.
	Source string

	// Score is the raw similarity score from the index lookup.
	Score float64

	// ChunkID links back to the chunk that matched.
	ChunkID string

	// Metadata contains arbitrary key-value pairs.
	Metadata map[string]any

	// DocumentType is the source format of the matched chunk.
	DocumentType DocumentType

	// ContentSource classifies where the matched content originated.
	ContentSource ContentSource

	// Timestamp is when the result was produced.
	Timestamp time.Time
}

// SearchResultOption configures optional SearchResult fields at construction.
type SearchResultOption func(*SearchResult)

// WithResultChunkID links the result to the chunk that matched.
func WithResultChunkID(id string) SearchResultOption {
	return func(r *SearchResult) {
		r.ChunkID = id
	}
}

// WithResultMetadata sets the metadata map.
func WithResultMetadata(metadata map[string]any) SearchResultOption {
	return func(r *SearchResult) {
		r.Metadata = metadata
	}
}

// WithResultType sets the document type of the matched chunk.
func WithResultType(t DocumentType) SearchResultOption {
	return func(r *SearchResult) {
		r.DocumentType = t
	}
}

// WithResultSource sets the content source classification.
func WithResultSource(s ContentSource) SearchResultOption {
	return func(r *SearchResult) {
		r.ContentSource = s
	}
}

// WithResultTimestamp overrides the result timestamp.
func WithResultTimestamp(t time.Time) SearchResultOption {
	return func(r *SearchResult) {
		r.Timestamp = t
	}
}

// NewSearchResult builds a search result from a raw similarity score.
func NewSearchResult(content, source string, score float64, opts ...SearchResultOption) SearchResult {
	r := SearchResult{
		Content:       content,
		Source:        source,
		Score:         score,
		Metadata:      map[string]any{},
		DocumentType:  DocumentTypeUnknown,
		ContentSource: ContentSourceLocalDocument,
		Timestamp:     time.Now(),
	}
	for _, opt := range opts {
		opt(&r)
	}
	if r.Metadata == nil {
		r.Metadata = map[string]any{}
	}
	return r
}

// RelevanceLevel returns the qualitative tier of the score.
func (r SearchResult) RelevanceLevel() RelevanceLevel {
	return ClassifyRelevance(r.Score)
}

// IsRelevant reports whether the score meets the relevance threshold.
func (r SearchResult) IsRelevant() bool {
	return r.Score >= RelevanceThreshold
}

// Record encodes the result as a key-value record. Tier and relevance flag
// are included as redundant convenience fields; decoders recompute them.
func (r SearchResult) Record() Record {
	return Record{
		"content":         r.Content,
		"source":          r.Source,
		"score":           r.Score,
		"chunk_id":        r.ChunkID,
		"metadata":        r.Metadata,
		"document_type":   r.DocumentType.String(),
		"content_source":  r.ContentSource.String(),
		"timestamp":       formatTimestamp(r.Timestamp),
		"relevance_level": r.RelevanceLevel().String(),
		"is_relevant":     r.IsRelevant(),
	}
}

// SearchResultFromRecord rebuilds a search result from its record form.
func SearchResultFromRecord(rec Record) (SearchResult, error) {
	content, err := stringField(rec, "content")
	if err != nil {
		return SearchResult{}, err
	}
	source, err := stringField(rec, "source")
	if err != nil {
		return SearchResult{}, err
	}
	score, err := floatField(rec, "score")
	if err != nil {
		return SearchResult{}, err
	}
	chunkID, err := optionalString(rec, "chunk_id", "")
	if err != nil {
		return SearchResult{}, err
	}
	metadata, err := metadataField(rec, "metadata")
	if err != nil {
		return SearchResult{}, err
	}
	docTypeValue, err := optionalString(rec, "document_type", DocumentTypeUnknown.String())
	if err != nil {
		return SearchResult{}, err
	}
	docType, err := ParseDocumentType(docTypeValue)
	if err != nil {
		return SearchResult{}, err
	}
	sourceValue, err := optionalString(rec, "content_source", ContentSourceLocalDocument.String())
	if err != nil {
		return SearchResult{}, err
	}
	contentSource, err := ParseContentSource(sourceValue)
	if err != nil {
		return SearchResult{}, err
	}
	timestamp, err := optionalTimestamp(rec, "timestamp", time.Now())
	if err != nil {
		return SearchResult{}, err
	}
	return SearchResult{
		Content:       content,
		Source:        source,
		Score:         score,
		ChunkID:       chunkID,
		Metadata:      metadata,
		DocumentType:  docType,
		ContentSource: contentSource,
		Timestamp:     timestamp,
	}, nil
}

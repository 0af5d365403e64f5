package domain

import (
	"strings"
	"time"
	"unicode/utf8"
)

// Chunk represents a bounded span of processed source content.
// It is the atomic unit for indexing and retrieval: each chunk carries its
// text, provenance for citation, character offsets into the source, and the
// embedding slot filled in by the external embedding step.
type Chunk struct {
	// ID is the unique identifier for the chunk.
	ID string

	// Content is the text span.
	Content string

	// SourceFile is the originating file path or URL.
	SourceFile string

	// StartChar is the character offset of the span start in the source.
	StartChar int

	// EndChar is the character offset of the span end in the source.
	// Derived as StartChar + Length() when not supplied at construction.
	EndChar int

	// Metadata contains arbitrary key-value pairs.
	Metadata map[string]any

	// Embedding is the vector representation, set once by the embedding step.
	// Nil until the external embedding service writes it back.
	Embedding []float32

	// DocumentType is the source format, inferred from the file extension
	// when not supplied at construction.
	DocumentType DocumentType

	// ContentSource classifies where the content originated.
	ContentSource ContentSource

	// CreatedAt is when the chunk was produced by ingestion.
	CreatedAt time.Time
}

// ChunkOption configures optional Chunk fields at construction.
type ChunkOption func(*Chunk)

// WithChunkSpan sets the character offsets of the span within its source.
func WithChunkSpan(start, end int) ChunkOption {
	return func(c *Chunk) {
		c.StartChar = start
		c.EndChar = end
	}
}

// WithChunkMetadata sets the metadata map.
func WithChunkMetadata(metadata map[string]any) ChunkOption {
	return func(c *Chunk) {
		c.Metadata = metadata
	}
}

// WithChunkEmbedding attaches an embedding vector.
func WithChunkEmbedding(embedding []float32) ChunkOption {
	return func(c *Chunk) {
		c.Embedding = embedding
	}
}

// WithChunkType sets the document type explicitly, skipping inference.
func WithChunkType(t DocumentType) ChunkOption {
	return func(c *Chunk) {
		c.DocumentType = t
	}
}

// WithChunkSource sets the content source classification.
func WithChunkSource(s ContentSource) ChunkOption {
	return func(c *Chunk) {
		c.ContentSource = s
	}
}

// WithChunkCreatedAt overrides the creation timestamp.
func WithChunkCreatedAt(t time.Time) ChunkOption {
	return func(c *Chunk) {
		c.CreatedAt = t
	}
}

// NewChunk builds a chunk and runs the single normalisation pass:
// the end offset is backfilled as StartChar + Length() when unset, then the
// document type is inferred from the source file extension unless supplied.
// Normalisation never fails; unrecognised extensions degrade to unknown.
func NewChunk(id, content, sourceFile string, opts ...ChunkOption) Chunk {
	c := Chunk{
		ID:            id,
		Content:       content,
		SourceFile:    sourceFile,
		Metadata:      map[string]any{},
		DocumentType:  DocumentTypeUnknown,
		ContentSource: ContentSourceLocalDocument,
		CreatedAt:     time.Now(),
	}
	for _, opt := range opts {
		opt(&c)
	}
	if c.Metadata == nil {
		c.Metadata = map[string]any{}
	}
	if c.EndChar == 0 && c.Content != "" {
		c.EndChar = c.StartChar + c.Length()
	}
	if c.DocumentType == DocumentTypeUnknown && c.SourceFile != "" {
		c.DocumentType = DetectDocumentType(c.SourceFile)
	}
	return c
}

// Length returns the content length in characters (runes, not bytes).
// Recomputed on every call so it always reflects the current content.
func (c Chunk) Length() int {
	return utf8.RuneCountInString(c.Content)
}

// WordCount returns the whitespace-split token count of the content.
// Recomputed on every call so it always reflects the current content.
func (c Chunk) WordCount() int {
	return len(strings.Fields(c.Content))
}

// Record encodes the chunk as a key-value record. Length and word count are
// included as redundant convenience fields; decoders recompute them.
func (c Chunk) Record() Record {
	return Record{
		"content":        c.Content,
		"source_file":    c.SourceFile,
		"chunk_id":       c.ID,
		"start_char":     c.StartChar,
		"end_char":       c.EndChar,
		"metadata":       c.Metadata,
		"embedding":      c.Embedding,
		"document_type":  c.DocumentType.String(),
		"content_source": c.ContentSource.String(),
		"created_at":     formatTimestamp(c.CreatedAt),
		"length":         c.Length(),
		"word_count":     c.WordCount(),
	}
}

// ChunkFromRecord rebuilds a chunk from its record form. Construction goes
// through NewChunk, so offset backfill and type inference behave exactly as
// they do for freshly ingested chunks.
func ChunkFromRecord(rec Record) (Chunk, error) {
	content, err := stringField(rec, "content")
	if err != nil {
		return Chunk{}, err
	}
	sourceFile, err := stringField(rec, "source_file")
	if err != nil {
		return Chunk{}, err
	}
	id, err := stringField(rec, "chunk_id")
	if err != nil {
		return Chunk{}, err
	}
	start, err := optionalInt(rec, "start_char", 0)
	if err != nil {
		return Chunk{}, err
	}
	end, err := optionalInt(rec, "end_char", 0)
	if err != nil {
		return Chunk{}, err
	}
	metadata, err := metadataField(rec, "metadata")
	if err != nil {
		return Chunk{}, err
	}
	embedding, err := embeddingField(rec, "embedding")
	if err != nil {
		return Chunk{}, err
	}
	docTypeValue, err := optionalString(rec, "document_type", DocumentTypeUnknown.String())
	if err != nil {
		return Chunk{}, err
	}
	docType, err := ParseDocumentType(docTypeValue)
	if err != nil {
		return Chunk{}, err
	}
	sourceValue, err := optionalString(rec, "content_source", ContentSourceLocalDocument.String())
	if err != nil {
		return Chunk{}, err
	}
	contentSource, err := ParseContentSource(sourceValue)
	if err != nil {
		return Chunk{}, err
	}
	createdAt, err := optionalTimestamp(rec, "created_at", time.Now())
	if err != nil {
		return Chunk{}, err
	}
	return NewChunk(id, content, sourceFile,
		WithChunkSpan(start, end),
		WithChunkMetadata(metadata),
		WithChunkEmbedding(embedding),
		WithChunkType(docType),
		WithChunkSource(contentSource),
		WithChunkCreatedAt(createdAt),
	), nil
}

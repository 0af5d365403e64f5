package jsonfile

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docent-labs/docent-cli/internal/core/domain"
)

func TestNewChunkStore_EmptyDir(t *testing.T) {
	store, err := NewChunkStore(t.TempDir())
	require.NoError(t, err)

	chunks, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestChunkStore_PersistsAcrossInstances(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := NewChunkStore(dir)
	require.NoError(t, err)

	err = store.SaveAll(ctx, []domain.Chunk{
		domain.NewChunk("chunk-1", "installation steps", "docs/setup.md"),
		domain.NewChunk("chunk-2", "scraped answer body", "https://forum.example.com/q/12",
			domain.WithChunkType(domain.DocumentTypeWeb),
			domain.WithChunkSource(domain.ContentSourceWebScrape)),
	})
	require.NoError(t, err)

	reopened, err := NewChunkStore(dir)
	require.NoError(t, err)

	saved, err := reopened.Get(ctx, "chunk-2")
	require.NoError(t, err)
	assert.Equal(t, "scraped answer body", saved.Content)
	assert.Equal(t, "https://forum.example.com/q/12", saved.SourceFile)
	assert.Equal(t, domain.DocumentTypeWeb, saved.DocumentType)
	assert.Equal(t, domain.ContentSourceWebScrape, saved.ContentSource)

	chunks, err := reopened.List(ctx)
	require.NoError(t, err)
	assert.Len(t, chunks, 2)
}

func TestChunkStore_FileFormat(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := NewChunkStore(dir)
	require.NoError(t, err)

	err = store.SaveAll(ctx, []domain.Chunk{
		domain.NewChunk("chunk-b", "second", "a.txt"),
		domain.NewChunk("chunk-a", "first", "a.txt"),
	})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "processed_docs.json"))
	require.NoError(t, err)

	var records []map[string]any
	require.NoError(t, json.Unmarshal(data, &records))
	require.Len(t, records, 2)

	// Written sorted by chunk ID so the file is diffable between runs.
	assert.Equal(t, "chunk-a", records[0]["chunk_id"])
	assert.Equal(t, "chunk-b", records[1]["chunk_id"])
	assert.Equal(t, "first", records[0]["content"])
	assert.EqualValues(t, 5, records[0]["length"])
	assert.Contains(t, records[0], "created_at")
}

func TestChunkStore_SetEmbedding_Persists(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := NewChunkStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, domain.NewChunk("chunk-1", "text", "a.txt")))

	err = store.SetEmbedding(ctx, "chunk-1", []float32{0.25, -0.5, 1})
	require.NoError(t, err)

	reopened, err := NewChunkStore(dir)
	require.NoError(t, err)

	saved, err := reopened.Get(ctx, "chunk-1")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.25, -0.5, 1}, saved.Embedding)
}

func TestChunkStore_DeleteBySource_RewritesFile(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := NewChunkStore(dir)
	require.NoError(t, err)
	err = store.SaveAll(ctx, []domain.Chunk{
		domain.NewChunk("chunk-1", "first", "a.txt"),
		domain.NewChunk("chunk-2", "second", "a.txt"),
		domain.NewChunk("chunk-3", "third", "b.txt"),
	})
	require.NoError(t, err)

	removed, err := store.DeleteBySource(ctx, "a.txt")
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	reopened, err := NewChunkStore(dir)
	require.NoError(t, err)

	chunks, err := reopened.List(ctx)
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "chunk-3", chunks[0].ID)
}

func TestChunkStore_LoadRenormalises(t *testing.T) {
	dir := t.TempDir()

	// Hand-written record with no end offset and no document type, as an
	// older pipeline version wrote them.
	raw := `[{"chunk_id": "chunk-1", "content": "hello", "source_file": "notes.md", "start_char": 2}]`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "processed_docs.json"), []byte(raw), 0644))

	store, err := NewChunkStore(dir)
	require.NoError(t, err)

	saved, err := store.Get(context.Background(), "chunk-1")
	require.NoError(t, err)
	assert.Equal(t, 2, saved.StartChar)
	assert.Equal(t, 7, saved.EndChar)
	assert.Equal(t, domain.DocumentTypeMarkdown, saved.DocumentType)
}

func TestNewChunkStore_MalformedJSON(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "processed_docs.json"), []byte("{not json"), 0644))

	_, err := NewChunkStore(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "processed_docs.json")
}

func TestNewChunkStore_BadRecord(t *testing.T) {
	dir := t.TempDir()
	raw := `[{"chunk_id": "chunk-1", "source_file": "notes.md"}]`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "processed_docs.json"), []byte(raw), 0644))

	_, err := NewChunkStore(dir)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrMissingField)
}

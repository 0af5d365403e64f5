package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/docent-labs/docent-cli/internal/core/domain"
)

var chunksCmd = &cobra.Command{
	Use:   "chunks",
	Short: "Inspect the content chunk collection",
	Long: `Inspect the chunks cut from ingested documents and scraped pages:
list them, summarise the collection, attach externally computed embeddings
and drop stale sources.`,
}

var chunksListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored chunks",
	RunE:  runChunksList,
}

var chunksStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarise the chunk collection",
	RunE:  runChunksStats,
}

var chunksEmbedCmd = &cobra.Command{
	Use:   "embed [chunk-id] [embedding-file]",
	Short: "Attach an embedding vector to a chunk",
	Long: `Attach an externally computed embedding vector to a stored chunk.
The embedding file holds one JSON array of numbers.`,
	Args: cobra.ExactArgs(2),
	RunE: runChunksEmbed,
}

var chunksRemoveCmd = &cobra.Command{
	Use:   "remove [source]",
	Short: "Remove all chunks for a source",
	Args:  cobra.ExactArgs(1),
	RunE:  runChunksRemove,
}

// chunkListSource filters the list to one source file or URL.
var chunkListSource string

func init() {
	chunksListCmd.Flags().StringVarP(&chunkListSource, "source", "s", "", "Show only chunks from this source file or URL")

	chunksCmd.AddCommand(chunksListCmd)
	chunksCmd.AddCommand(chunksStatsCmd)
	chunksCmd.AddCommand(chunksEmbedCmd)
	chunksCmd.AddCommand(chunksRemoveCmd)
	rootCmd.AddCommand(chunksCmd)
}

func runChunksList(cmd *cobra.Command, _ []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	ctx := context.Background()

	var (
		chunks []domain.Chunk
		err    error
	)
	if chunkListSource != "" {
		chunks, err = ingestService.ChunksBySource(ctx, chunkListSource)
	} else {
		chunks, err = ingestService.Chunks(ctx)
	}
	if err != nil {
		return fmt.Errorf("failed to list chunks: %w", err)
	}

	if len(chunks) == 0 {
		if chunkListSource != "" {
			cmd.Printf("No chunks stored for source: %s\n", chunkListSource)
		} else {
			cmd.Println("No stored chunks. Ingest a file with 'docent ingest'.")
		}
		return nil
	}

	cmd.Println("Stored chunks:")
	cmd.Println()
	for i := range chunks {
		c := &chunks[i]
		cmd.Printf("  %s\n", c.ID)
		cmd.Printf("    Source:   %s (%s, %s)\n", c.SourceFile, c.DocumentType, c.ContentSource)
		cmd.Printf("    Span:     %d-%d (%d chars, %d words)\n", c.StartChar, c.EndChar, c.Length(), c.WordCount())
		if len(c.Embedding) > 0 {
			cmd.Printf("    Embedded: yes (%d dimensions)\n", len(c.Embedding))
		} else {
			cmd.Printf("    Embedded: no\n")
		}
		cmd.Println()
	}

	cmd.Printf("Total: %d chunks\n", len(chunks))
	return nil
}

func runChunksStats(cmd *cobra.Command, _ []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	ctx := context.Background()

	chunks, err := ingestService.Chunks(ctx)
	if err != nil {
		return fmt.Errorf("failed to list chunks: %w", err)
	}

	if len(chunks) == 0 {
		cmd.Println("No stored chunks. Ingest a file with 'docent ingest'.")
		return nil
	}

	byType := make(map[string]int)
	bySource := make(map[string]int)
	sources := make(map[string]struct{})
	embedded, chars, words := 0, 0, 0
	for i := range chunks {
		c := &chunks[i]
		byType[c.DocumentType.String()]++
		bySource[c.ContentSource.String()]++
		sources[c.SourceFile] = struct{}{}
		if len(c.Embedding) > 0 {
			embedded++
		}
		chars += c.Length()
		words += c.WordCount()
	}

	cmd.Println("Chunk collection:")
	cmd.Println()
	cmd.Printf("  Chunks:   %d\n", len(chunks))
	cmd.Printf("  Sources:  %d\n", len(sources))
	cmd.Printf("  Embedded: %d of %d\n", embedded, len(chunks))
	cmd.Printf("  Size:     %d characters, %d words\n", chars, words)

	cmd.Println("\n  By document type:")
	for _, key := range sortedKeys(byType) {
		cmd.Printf("    %-15s %d\n", key, byType[key])
	}

	cmd.Println("\n  By content source:")
	for _, key := range sortedKeys(bySource) {
		cmd.Printf("    %-15s %d\n", key, bySource[key])
	}

	return nil
}

// sortedKeys returns the map keys in lexical order for stable output.
func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func runChunksEmbed(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	chunkID, path := args[0], args[1]
	ctx := context.Background()

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read embedding file: %w", err)
	}

	var embedding []float32
	if err := json.Unmarshal(data, &embedding); err != nil {
		return fmt.Errorf("failed to parse embedding file: %w", err)
	}

	if err := ingestService.AttachEmbedding(ctx, chunkID, embedding); err != nil {
		return fmt.Errorf("failed to attach embedding: %w", err)
	}

	cmd.Printf("Attached %d-dimension embedding to chunk %s\n", len(embedding), chunkID)
	return nil
}

func runChunksRemove(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	source := args[0]
	ctx := context.Background()

	removed, err := ingestService.RemoveSource(ctx, source)
	if err != nil {
		return fmt.Errorf("failed to remove chunks: %w", err)
	}

	if removed == 0 {
		cmd.Printf("No chunks stored for source: %s\n", source)
		return nil
	}

	cmd.Printf("Removed %d chunks for source %s\n", removed, source)
	return nil
}

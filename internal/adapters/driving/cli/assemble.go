package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/docent-labs/docent-cli/internal/core/domain"
)

var assembleCmd = &cobra.Command{
	Use:   "assemble [hits-file]",
	Short: "Assemble index hits into classified results",
	Long: `Assemble raw similarity hits from the external vector index into
classified search results: provenance resolved against the chunk collection,
scores below the relevance threshold dropped, the rest ranked and capped at
the configured top-K.

The hits file holds one JSON array of {"chunk_id": ..., "score": ...}
objects, the shape the index lookup emits.`,
	Args: cobra.ExactArgs(1),
	RunE: runAssemble,
}

func init() {
	rootCmd.AddCommand(assembleCmd)
}

// scoredHitRecord mirrors the hit shape the external index writes.
type scoredHitRecord struct {
	ChunkID string  `json:"chunk_id"`
	Score   float64 `json:"score"`
}

func runAssemble(cmd *cobra.Command, args []string) error {
	if retrievalService == nil {
		return errors.New("retrieval service not configured")
	}

	path := args[0]
	ctx := context.Background()

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read hits file: %w", err)
	}

	var records []scoredHitRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return fmt.Errorf("failed to parse hits file: %w", err)
	}

	hits := make([]domain.ScoredHit, len(records))
	for i, rec := range records {
		hits[i] = domain.ScoredHit{ChunkID: rec.ChunkID, Score: rec.Score}
	}

	results, err := retrievalService.Assemble(ctx, hits)
	if err != nil {
		return fmt.Errorf("failed to assemble results: %w", err)
	}

	if len(results) == 0 {
		cmd.Printf("No hits above the relevance threshold (%d supplied).\n", len(hits))
		return nil
	}

	cmd.Printf("Assembled %d results from %d hits:\n\n", len(results), len(hits))
	for i, result := range results {
		cmd.Printf("  %d. [%s] %.3f  %s\n", i+1, result.RelevanceLevel(), result.Score, result.Source)
		cmd.Printf("     %s\n", preview(result.Content, 120))
		cmd.Println()
	}
	return nil
}

// preview returns the first limit runes of text, whitespace collapsed onto
// a single line.
func preview(text string, limit int) string {
	text = strings.Join(strings.Fields(text), " ")
	runes := []rune(text)
	if len(runes) > limit {
		return string(runes[:limit]) + "..."
	}
	return string(runes)
}

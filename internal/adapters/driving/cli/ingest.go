package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/docent-labs/docent-cli/internal/core/domain"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [path...]",
	Short: "Chunk local files into the content collection",
	Long: `Read local text-like files, classify their type from the extension and
split them into overlapping chunks sized by the pipeline configuration.

Binary formats (PDF, DOCX) need external text extraction and are skipped
with a warning; feed their extracted text back through
'docent sources mark-scraped --ingest' or the MCP ingest tool instead.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	ctx := context.Background()

	total, files, skipped := 0, 0, 0
	for _, path := range args {
		chunks, err := ingestService.IngestFile(ctx, path)
		if errors.Is(err, domain.ErrUnsupportedType) {
			cmd.Printf("Skipping %s: %v\n", path, err)
			skipped++
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to ingest %s: %w", path, err)
		}

		if len(chunks) == 0 {
			cmd.Printf("No chunks produced from %s (empty file?)\n", path)
			continue
		}

		cmd.Printf("Ingested %s: %d chunks (%s)\n", path, len(chunks), chunks[0].DocumentType)
		files++
		total += len(chunks)
	}

	cmd.Printf("\nStored %d chunks from %d files", total, files)
	if skipped > 0 {
		cmd.Printf(" (%d skipped)", skipped)
	}
	cmd.Println()
	return nil
}

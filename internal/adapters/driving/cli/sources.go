package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/docent-labs/docent-cli/internal/adapters/driven/seed"
	"github.com/docent-labs/docent-cli/internal/core/domain"
)

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "Manage tracked web sources",
	Long: `Track the web sources feeding the content pipeline: register URLs,
record scrape outcomes reported by the external scraper, and plan which
sources are due for a re-fetch.`,
}

var sourcesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tracked sources",
	RunE:  runSourcesList,
}

var sourcesAddCmd = &cobra.Command{
	Use:   "add [url]",
	Short: "Register a web source",
	Long: `Register a URL as a pending web source. The source stays pending until
the external scraper reports an outcome via mark-scraped or mark-failed.`,
	Args: cobra.ExactArgs(1),
	RunE: runSourcesAdd,
}

var sourcesGetCmd = &cobra.Command{
	Use:   "get [url]",
	Short: "Show source details",
	Args:  cobra.ExactArgs(1),
	RunE:  runSourcesGet,
}

var sourcesRemoveCmd = &cobra.Command{
	Use:   "remove [url]",
	Short: "Delete a source record",
	Args:  cobra.ExactArgs(1),
	RunE:  runSourcesRemove,
}

var sourcesExcludeCmd = &cobra.Command{
	Use:   "exclude [url]",
	Short: "Exclude a source from scraping",
	Long: `Exclude a source from scraping without deleting its record. Scrape
outcomes reported for an excluded source are ignored until it is included
again.`,
	Args: cobra.ExactArgs(1),
	RunE: runSourcesExclude,
}

var sourcesIncludeCmd = &cobra.Command{
	Use:   "include [url]",
	Short: "Return an excluded source to the scrape pool",
	Args:  cobra.ExactArgs(1),
	RunE:  runSourcesInclude,
}

var sourcesMarkScrapedCmd = &cobra.Command{
	Use:   "mark-scraped [url]",
	Short: "Record a successful scrape",
	Long: `Record a successful scrape outcome reported by the external scraper.
The scraped body is read from --content or --content-file. With --ingest the
body is also chunked into the content collection, tagged as web content.`,
	Args: cobra.ExactArgs(1),
	RunE: runSourcesMarkScraped,
}

var sourcesMarkFailedCmd = &cobra.Command{
	Use:   "mark-failed [url]",
	Short: "Record a failed scrape",
	Args:  cobra.ExactArgs(1),
	RunE:  runSourcesMarkFailed,
}

var sourcesPlanCmd = &cobra.Command{
	Use:   "plan",
	Short: "List sources due for scraping",
	Long: `List the sources due for a re-fetch, in scrape order: never-scraped
first, recently failed last.

With --emit the plan is streamed as bare URLs, one per line, paced at the
configured scrape delay so the output can be piped straight into the external
scraper.`,
	RunE: runSourcesPlan,
}

var sourcesSeedCmd = &cobra.Command{
	Use:   "seed [path]",
	Short: "Register sources from a seed file",
	Long: `Register pending sources from a seed file. YAML files (.yaml, .yml) are
read as named groups with per-group frequency and content type; anything else
is read as a plain URL list, one per line with #-comments. URLs that are
already tracked are skipped.`,
	Args: cobra.ExactArgs(1),
	RunE: runSourcesSeed,
}

var sourcesHistoryCmd = &cobra.Command{
	Use:   "history [url]",
	Short: "Show recent scrape attempts for a source",
	Args:  cobra.ExactArgs(1),
	RunE:  runSourcesHistory,
}

// Flags for the sources subcommands.
var (
	sourceAddFrequency   string
	sourceAddTitle       string
	sourceAddContentType string

	sourceListStale bool

	sourceScrapedTitle       string
	sourceScrapedQuality     float64
	sourceScrapedContent     string
	sourceScrapedContentFile string
	sourceScrapedIngest      bool

	sourceFailedError string

	sourcePlanEmit bool

	sourceHistoryLimit int
)

func init() {
	sourcesAddCmd.Flags().StringVarP(&sourceAddFrequency, "frequency", "f", "monthly", "Scrape frequency (daily, weekly, monthly, manual)")
	sourcesAddCmd.Flags().StringVarP(&sourceAddTitle, "title", "t", "", "Source title")
	sourcesAddCmd.Flags().StringVar(&sourceAddContentType, "content-type", "", "Content type tag (documentation, forum, ...)")

	sourcesListCmd.Flags().BoolVar(&sourceListStale, "stale", false, "Show only sources due for a re-fetch")

	sourcesMarkScrapedCmd.Flags().StringVarP(&sourceScrapedTitle, "title", "t", "", "Page title reported by the scraper")
	sourcesMarkScrapedCmd.Flags().Float64VarP(&sourceScrapedQuality, "quality", "q", 0, "Content quality score in [0,1]")
	sourcesMarkScrapedCmd.Flags().StringVar(&sourceScrapedContent, "content", "", "Scraped body text")
	sourcesMarkScrapedCmd.Flags().StringVar(&sourceScrapedContentFile, "content-file", "", "File holding the scraped body text")
	sourcesMarkScrapedCmd.Flags().BoolVar(&sourceScrapedIngest, "ingest", false, "Chunk the scraped body into the content collection")

	sourcesMarkFailedCmd.Flags().StringVarP(&sourceFailedError, "error", "e", "scrape failed", "Error message reported by the scraper")

	sourcesPlanCmd.Flags().BoolVar(&sourcePlanEmit, "emit", false, "Stream bare URLs paced at the configured scrape delay")

	sourcesHistoryCmd.Flags().IntVarP(&sourceHistoryLimit, "limit", "n", 10, "Maximum attempts to show")

	sourcesCmd.AddCommand(sourcesListCmd)
	sourcesCmd.AddCommand(sourcesAddCmd)
	sourcesCmd.AddCommand(sourcesGetCmd)
	sourcesCmd.AddCommand(sourcesRemoveCmd)
	sourcesCmd.AddCommand(sourcesExcludeCmd)
	sourcesCmd.AddCommand(sourcesIncludeCmd)
	sourcesCmd.AddCommand(sourcesMarkScrapedCmd)
	sourcesCmd.AddCommand(sourcesMarkFailedCmd)
	sourcesCmd.AddCommand(sourcesPlanCmd)
	sourcesCmd.AddCommand(sourcesSeedCmd)
	sourcesCmd.AddCommand(sourcesHistoryCmd)
	rootCmd.AddCommand(sourcesCmd)
}

func runSourcesList(cmd *cobra.Command, _ []string) error {
	if sourceService == nil {
		return errors.New("source service not configured")
	}

	ctx := context.Background()

	var (
		sources []*domain.WebSource
		err     error
	)
	if sourceListStale {
		sources, err = sourceService.ListStale(ctx)
	} else {
		sources, err = sourceService.List(ctx)
	}
	if err != nil {
		return fmt.Errorf("failed to list sources: %w", err)
	}

	if len(sources) == 0 {
		if sourceListStale {
			cmd.Println("No sources due for a re-fetch.")
		} else {
			cmd.Println("No tracked sources. Add one with 'docent sources add'.")
		}
		return nil
	}

	cmd.Println("Tracked sources:")
	cmd.Println()

	counts := make(map[domain.SourceStatus]int)
	stale := 0
	for _, src := range sources {
		counts[src.Status]++
		due := src.Status != domain.StatusExcluded && src.IsStale()
		if due {
			stale++
		}

		cmd.Printf("  [%s] %s\n", src.Status.Label(), src.URL)
		if src.Title != "" {
			cmd.Printf("    Title:     %s\n", src.Title)
		}
		if due {
			cmd.Printf("    Frequency: %s (due)\n", src.Frequency)
		} else {
			cmd.Printf("    Frequency: %s\n", src.Frequency)
		}
		if src.LastScraped != nil {
			cmd.Printf("    Scraped:   %s\n", src.LastScraped.Format("2006-01-02 15:04:05"))
		}
		if src.Status == domain.StatusScraped {
			cmd.Printf("    Quality:   %.2f\n", src.QualityScore)
		}
		if src.ChunkCount > 0 {
			cmd.Printf("    Chunks:    %d\n", src.ChunkCount)
		}
		if src.ErrorMessage != "" {
			cmd.Printf("    Error:     %s\n", src.ErrorMessage)
		}
		cmd.Println()
	}

	cmd.Printf("Total: %d sources (%d pending, %d scraped, %d failed, %d excluded; %d due)\n",
		len(sources),
		counts[domain.StatusPending], counts[domain.StatusScraped],
		counts[domain.StatusFailed], counts[domain.StatusExcluded],
		stale)
	return nil
}

func runSourcesAdd(cmd *cobra.Command, args []string) error {
	if sourceService == nil {
		return errors.New("source service not configured")
	}

	url := args[0]
	ctx := context.Background()

	frequency, err := domain.ParseScrapeFrequency(sourceAddFrequency)
	if err != nil {
		return err
	}

	opts := []domain.WebSourceOption{domain.WithSourceFrequency(frequency)}
	if sourceAddTitle != "" {
		opts = append(opts, domain.WithSourceTitle(sourceAddTitle))
	}
	if sourceAddContentType != "" {
		opts = append(opts, domain.WithSourceContentType(sourceAddContentType))
	}

	source, err := sourceService.Register(ctx, url, opts...)
	if err != nil {
		return fmt.Errorf("failed to register source: %w", err)
	}

	cmd.Printf("Registered source: %s (frequency: %s)\n", source.URL, source.Frequency)
	return nil
}

func runSourcesGet(cmd *cobra.Command, args []string) error {
	if sourceService == nil {
		return errors.New("source service not configured")
	}

	url := args[0]
	ctx := context.Background()

	source, err := sourceService.Get(ctx, url)
	if err != nil {
		return fmt.Errorf("failed to get source: %w", err)
	}

	cmd.Printf("Source: %s\n\n", source.URL)
	cmd.Printf("  Status:    %s\n", source.Status.Label())
	if source.Title != "" {
		cmd.Printf("  Title:     %s\n", source.Title)
	}
	cmd.Printf("  Frequency: %s\n", source.Frequency)
	if source.ContentType != "" {
		cmd.Printf("  Type:      %s\n", source.ContentType)
	}
	if source.LastScraped != nil {
		cmd.Printf("  Scraped:   %s\n", source.LastScraped.Format("2006-01-02 15:04:05"))
	} else {
		cmd.Printf("  Scraped:   never\n")
	}
	if source.Status != domain.StatusExcluded {
		if source.IsStale() {
			cmd.Printf("  Due:       yes\n")
		} else {
			cmd.Printf("  Due:       no\n")
		}
	}
	if source.Status == domain.StatusScraped {
		quality := "low"
		if source.IsHighQuality() {
			quality = "high"
		}
		cmd.Printf("  Quality:   %.2f (%s)\n", source.QualityScore, quality)
		cmd.Printf("  Content:   %d characters\n", len(source.Content))
	}
	if source.ChunkCount > 0 {
		cmd.Printf("  Chunks:    %d\n", source.ChunkCount)
	}
	if source.ErrorMessage != "" {
		cmd.Printf("  Error:     %s\n", source.ErrorMessage)
	}

	if len(source.Metadata) > 0 {
		cmd.Println("\n  Metadata:")
		for k, v := range source.Metadata {
			cmd.Printf("    %s: %v\n", k, v)
		}
	}

	return nil
}

func runSourcesRemove(cmd *cobra.Command, args []string) error {
	if sourceService == nil {
		return errors.New("source service not configured")
	}

	url := args[0]
	ctx := context.Background()

	if err := sourceService.Remove(ctx, url); err != nil {
		return fmt.Errorf("failed to remove source: %w", err)
	}

	cmd.Printf("Removed source: %s\n", url)
	return nil
}

func runSourcesExclude(cmd *cobra.Command, args []string) error {
	if sourceService == nil {
		return errors.New("source service not configured")
	}

	url := args[0]
	ctx := context.Background()

	source, err := sourceService.Exclude(ctx, url)
	if err != nil {
		return fmt.Errorf("failed to exclude source: %w", err)
	}

	cmd.Printf("Source %s excluded from scraping.\n", source.URL)
	return nil
}

func runSourcesInclude(cmd *cobra.Command, args []string) error {
	if sourceService == nil {
		return errors.New("source service not configured")
	}

	url := args[0]
	ctx := context.Background()

	source, err := sourceService.Include(ctx, url)
	if err != nil {
		return fmt.Errorf("failed to include source: %w", err)
	}

	cmd.Printf("Source %s returned to the scrape pool.\n", source.URL)
	return nil
}

func runSourcesMarkScraped(cmd *cobra.Command, args []string) error {
	if sourceService == nil {
		return errors.New("source service not configured")
	}
	if sourceScrapedIngest && ingestService == nil {
		return errors.New("ingest service not configured")
	}

	url := args[0]
	ctx := context.Background()

	content, err := scrapedContent()
	if err != nil {
		return err
	}

	source, err := sourceService.MarkScraped(ctx, url, content, sourceScrapedTitle, sourceScrapedQuality)
	if err != nil {
		return fmt.Errorf("failed to record scrape: %w", err)
	}

	if source.Status == domain.StatusExcluded {
		cmd.Printf("Source %s is excluded; scrape outcome ignored.\n", source.URL)
		return nil
	}

	cmd.Printf("Recorded scrape of %s (quality: %.2f)\n", source.URL, source.QualityScore)

	if sourceScrapedIngest {
		chunks, err := ingestService.IngestText(ctx, url, content,
			domain.WithChunkType(domain.DocumentTypeWeb),
			domain.WithChunkSource(domain.ContentSourceWebScrape))
		if err != nil {
			return fmt.Errorf("failed to ingest scraped content: %w", err)
		}
		cmd.Printf("Stored %d chunks from %s\n", len(chunks), url)
	}

	return nil
}

// scrapedContent resolves the scraped body from the mark-scraped flags.
func scrapedContent() (string, error) {
	if sourceScrapedContent != "" && sourceScrapedContentFile != "" {
		return "", errors.New("only one of --content and --content-file may be given")
	}
	if sourceScrapedContentFile != "" {
		data, err := os.ReadFile(sourceScrapedContentFile)
		if err != nil {
			return "", fmt.Errorf("failed to read content file: %w", err)
		}
		return string(data), nil
	}
	if sourceScrapedContent == "" {
		return "", errors.New("either --content or --content-file is required")
	}
	return sourceScrapedContent, nil
}

func runSourcesMarkFailed(cmd *cobra.Command, args []string) error {
	if sourceService == nil {
		return errors.New("source service not configured")
	}

	url := args[0]
	ctx := context.Background()

	source, err := sourceService.MarkFailed(ctx, url, sourceFailedError)
	if err != nil {
		return fmt.Errorf("failed to record scrape failure: %w", err)
	}

	if source.Status == domain.StatusExcluded {
		cmd.Printf("Source %s is excluded; scrape outcome ignored.\n", source.URL)
		return nil
	}

	cmd.Printf("Recorded failed scrape of %s: %s\n", source.URL, source.ErrorMessage)
	return nil
}

func runSourcesPlan(cmd *cobra.Command, _ []string) error {
	if sourceService == nil {
		return errors.New("source service not configured")
	}

	if sourcePlanEmit {
		// Paced emission can run for a while; stop cleanly on Ctrl+C.
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return sourceService.EmitRefreshPlan(ctx, func(source *domain.WebSource) error {
			cmd.Println(source.URL)
			return nil
		})
	}

	plan, err := sourceService.RefreshPlan(context.Background())
	if err != nil {
		return fmt.Errorf("failed to build refresh plan: %w", err)
	}

	if len(plan) == 0 {
		cmd.Println("Nothing due for scraping.")
		return nil
	}

	cmd.Printf("Refresh plan: %d sources due\n\n", len(plan))
	for _, src := range plan {
		switch {
		case src.LastScraped == nil:
			cmd.Printf("  %s  (never scraped)\n", src.URL)
		case src.Status == domain.StatusFailed:
			cmd.Printf("  %s  (failed: %s)\n", src.URL, src.ErrorMessage)
		default:
			cmd.Printf("  %s  (last scraped %s, %s)\n",
				src.URL, src.LastScraped.Format("2006-01-02"), src.Frequency)
		}
	}
	return nil
}

func runSourcesSeed(cmd *cobra.Command, args []string) error {
	if sourceService == nil {
		return errors.New("source service not configured")
	}

	path := args[0]
	ctx := context.Background()

	var (
		entries []seed.Entry
		err     error
	)
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".yaml" || ext == ".yml" {
		entries, err = seed.LoadYAML(path)
	} else {
		entries, err = seed.LoadURLList(path)
	}
	if err != nil {
		return fmt.Errorf("failed to load seed file: %w", err)
	}

	added, skipped := 0, 0
	for _, entry := range entries {
		_, err := sourceService.Register(ctx, entry.URL, entry.Options()...)
		if errors.Is(err, domain.ErrAlreadyExists) {
			skipped++
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to register %s: %w", entry.URL, err)
		}
		added++
	}

	cmd.Printf("Seeded %d sources from %s (%d already tracked)\n", added, path, skipped)
	return nil
}

func runSourcesHistory(cmd *cobra.Command, args []string) error {
	if sourceService == nil {
		return errors.New("source service not configured")
	}

	url := args[0]
	ctx := context.Background()

	attempts, err := sourceService.History(ctx, url, sourceHistoryLimit)
	if err != nil {
		return fmt.Errorf("failed to load scrape history: %w", err)
	}

	if len(attempts) == 0 {
		cmd.Printf("No recorded scrape attempts for %s\n", url)
		return nil
	}

	cmd.Printf("Scrape history for %s:\n\n", url)
	for _, attempt := range attempts {
		stamp := attempt.StartedAt.Format("2006-01-02 15:04:05")
		if attempt.Success {
			cmd.Printf("  %s  OK    quality %.2f  (%s)\n",
				stamp, attempt.QualityScore, attempt.Duration().Round(time.Millisecond))
		} else {
			cmd.Printf("  %s  FAIL  %s  (%s)\n",
				stamp, attempt.Error, attempt.Duration().Round(time.Millisecond))
		}
	}
	cmd.Printf("\nShowing %d attempts\n", len(attempts))
	return nil
}

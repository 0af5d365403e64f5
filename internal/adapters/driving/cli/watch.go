package cli

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/docent-labs/docent-cli/internal/adapters/driven/watcher"
)

// CollectionReloader reloads one shared JSON collection after the external
// pipeline rewrites it.
type CollectionReloader func(watcher.Collection) error

// reloadCollection is wired by SetServices; optional.
var reloadCollection CollectionReloader

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the data directory for pipeline rewrites",
	Long: `Watch the shared data directory and report when the external pipeline
rewrites one of the JSON collections. Rewritten collections are reloaded in
place, so a long-running docent keeps serving fresh records.

Press Ctrl+C to stop.`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	dataDir := settingsService.DataDir()
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	w, err := watcher.NewDataWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer w.Stop() //nolint:errcheck // Best-effort cleanup

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	events, err := w.Watch(ctx, dataDir)
	if err != nil {
		return fmt.Errorf("failed to watch %s: %w", dataDir, err)
	}

	cmd.Printf("Watching %s (Ctrl+C to stop)\n", dataDir)

	for event := range events {
		stamp := time.Now().Format("15:04:05")
		if reloadCollection == nil {
			cmd.Printf("%s  %s collection rewritten (%s)\n", stamp, event.Collection, filepath.Base(event.Path))
			continue
		}
		if err := reloadCollection(event.Collection); err != nil {
			cmd.Printf("%s  %s collection rewritten, reload failed: %v\n", stamp, event.Collection, err)
			continue
		}
		cmd.Printf("%s  %s collection reloaded\n", stamp, event.Collection)
	}

	return nil
}

// Package cli implements the docent command-line interface. Commands talk
// to the core through the driving ports; main wires the concrete services
// in via SetServices before Execute.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/docent-labs/docent-cli/internal/core/ports/driving"
	"github.com/docent-labs/docent-cli/internal/logger"
)

// version is the build version, overridden at link time.
var version = "dev"

// verbose toggles debug logging for the current invocation.
var verbose bool

// Core services, wired by SetServices. Commands nil-check the services they
// need so a partially wired binary fails with a clear message instead of a
// panic.
var (
	sourceService    driving.SourceService
	ingestService    driving.IngestService
	sessionService   driving.SessionService
	retrievalService driving.RetrievalService
	settingsService  driving.SettingsService
)

// Services bundles everything the command tree depends on.
type Services struct {
	Source    driving.SourceService
	Ingest    driving.IngestService
	Session   driving.SessionService
	Retrieval driving.RetrievalService
	Settings  driving.SettingsService

	// ReloadCollection reloads one shared JSON collection after the
	// external pipeline rewrites it. Optional; without it the watch
	// command reports rewrites without reloading.
	ReloadCollection CollectionReloader
}

// SetServices wires the core services into the command tree. Call once from
// main before Execute.
func SetServices(s Services) {
	sourceService = s.Source
	ingestService = s.Ingest
	sessionService = s.Session
	retrievalService = s.Retrieval
	settingsService = s.Settings
	reloadCollection = s.ReloadCollection
}

var rootCmd = &cobra.Command{
	Use:   "docent",
	Short: "Content provenance and lifecycle for a local documentation assistant",
	Long: `Docent is the data and lifecycle layer of a local-first documentation
assistant. It tracks where retrievable content comes from: which local files
were chunked, which web sources are fresh or due for a re-scrape, and which
conversation context is in play.

The heavy machinery (embedding, vector search, scraping, the language model)
runs elsewhere. Docent owns the records those systems share: the chunk
collection, the web source tracker and the conversation log.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/docent-labs/docent-cli/internal/adapters/driven/config/file"
	"github.com/docent-labs/docent-cli/internal/adapters/driven/idgen"
	"github.com/docent-labs/docent-cli/internal/adapters/driven/storage/jsonfile"
	"github.com/docent-labs/docent-cli/internal/adapters/driven/storage/sqlite"
	"github.com/docent-labs/docent-cli/internal/adapters/driven/tokenizer"
	"github.com/docent-labs/docent-cli/internal/adapters/driven/watcher"
	"github.com/docent-labs/docent-cli/internal/adapters/driving/cli"
	"github.com/docent-labs/docent-cli/internal/core/ports/driven"
	"github.com/docent-labs/docent-cli/internal/core/services"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// .env is optional; settings fall back to config.toml and defaults.
	_ = godotenv.Load()

	configStore, err := file.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("opening config store: %w", err)
	}

	settingsService := services.NewSettingsService(configStore)
	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("loading pipeline settings: %w", err)
	}
	dataDir := settingsService.DataDir()

	chunkStore, err := jsonfile.NewChunkStore(dataDir)
	if err != nil {
		return fmt.Errorf("opening chunk collection: %w", err)
	}
	sourceStore, err := jsonfile.NewWebSourceStore(dataDir)
	if err != nil {
		return fmt.Errorf("opening web source tracker: %w", err)
	}
	sessionStore, err := jsonfile.NewSessionStore(dataDir)
	if err != nil {
		return fmt.Errorf("opening conversation log: %w", err)
	}

	// The refresh log lives in SQLite next to the JSON collections. Sources
	// still work without it; only per-source history goes missing.
	var refreshLog driven.RefreshLog
	sqlStore, err := sqlite.NewStore(dataDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: refresh history disabled: %v\n", err)
	} else {
		defer sqlStore.Close()
		refreshLog = sqlStore.RefreshLog()
	}

	ids := idgen.NewUUIDGenerator()

	// Token counting needs the embedded cl100k_base tables. Sessions degrade
	// to character-estimate windowing when the encoding cannot be loaded.
	var tokenCounter driven.TokenCounter
	if counter, err := tokenizer.NewTiktokenCounter(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: token counting disabled: %v\n", err)
	} else {
		tokenCounter = counter
	}

	cli.SetServices(cli.Services{
		Source:    services.NewSourceService(sourceStore, refreshLog, settings),
		Ingest:    services.NewIngestService(chunkStore, ids, settings),
		Session:   services.NewSessionService(sessionStore, ids, tokenCounter, settings),
		Retrieval: services.NewRetrievalService(chunkStore, settings),
		Settings:  settingsService,
		ReloadCollection: func(c watcher.Collection) error {
			switch c {
			case watcher.CollectionChunks:
				return chunkStore.Reload()
			case watcher.CollectionSources:
				return sourceStore.Reload()
			case watcher.CollectionSessions:
				return sessionStore.Reload()
			default:
				return fmt.Errorf("unknown collection %q", c)
			}
		},
	})

	return cli.Execute()
}

// Package watcher monitors the shared data directory for collection rewrites.
//
// The three JSON collections are whole-file rewritten by whichever side
// touched them last: this tool on ingestion and outcome reports, the external
// embedding/scraping pipeline on its own passes. Watching the directory lets
// a long-lived process (watch command, TUI, MCP server) reload collections
// the other side rewrote.
package watcher

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/docent-labs/docent-cli/internal/adapters/driven/storage/jsonfile"
	"github.com/docent-labs/docent-cli/internal/logger"
)

// Collection identifies one of the shared JSON collections.
type Collection string

// Watched collections.
const (
	// CollectionChunks is the content chunk collection.
	CollectionChunks Collection = "chunks"

	// CollectionSources is the web source collection.
	CollectionSources Collection = "sources"

	// CollectionSessions is the conversation session collection.
	CollectionSessions Collection = "sessions"
)

// Event reports that a collection file was rewritten.
type Event struct {
	// Collection is which collection changed.
	Collection Collection

	// Path is the file that changed.
	Path string
}

// collectionFiles maps the fixed collection file names onto collections.
var collectionFiles = map[string]Collection{
	jsonfile.ChunksFile:   CollectionChunks,
	jsonfile.SourcesFile:  CollectionSources,
	jsonfile.SessionsFile: CollectionSessions,
}

// DataWatcher emits an Event whenever one of the collection files in the
// data directory is created or rewritten.
type DataWatcher struct {
	watcher *fsnotify.Watcher
}

// NewDataWatcher creates a new data directory watcher.
func NewDataWatcher() (*DataWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &DataWatcher{watcher: w}, nil
}

// Watch starts monitoring the data directory and emits events until the
// context is cancelled or the watcher is stopped. Files other than the three
// collections are ignored.
func (w *DataWatcher) Watch(ctx context.Context, dataDir string) (<-chan Event, error) {
	if err := w.watcher.Add(dataDir); err != nil {
		return nil, err
	}

	events := make(chan Event, 16)

	go func() {
		defer close(events)
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-w.watcher.Events:
				if !ok {
					return
				}
				collection, watched := collectionFiles[filepath.Base(event.Name)]
				if !watched {
					continue
				}
				// A whole-file rewrite arrives as Create (rename into
				// place) or Write (truncate and write).
				if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
					continue
				}

				select {
				case events <- Event{Collection: collection, Path: event.Name}:
				case <-ctx.Done():
					return
				}
			case err, ok := <-w.watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("Data watcher error: %v", err)
			}
		}
	}()

	return events, nil
}

// Stop stops the watcher and closes its event channel.
func (w *DataWatcher) Stop() error {
	return w.watcher.Close()
}

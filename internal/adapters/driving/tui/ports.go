// Package tui provides the interactive web source board for Docent.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/docent-labs/docent-cli/internal/core/ports/driving"
)

// Ports aggregates the driving port interfaces the TUI consumes.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Source manages the tracked web sources shown on the board.
	Source driving.SourceService

	// Ingest answers chunk queries for the detail view.
	Ingest driving.IngestService

	// Session provides the stored session count for the status bar.
	Session driving.SessionService
}

// NewPorts creates a new Ports aggregate with the given services.
func NewPorts(
	source driving.SourceService,
	ingest driving.IngestService,
	session driving.SessionService,
) *Ports {
	return &Ports{
		Source:  source,
		Ingest:  ingest,
		Session: session,
	}
}

// Validate ensures all required ports are set.
// Ingest and Session are optional; the views that use them fall back to
// omitting chunk counts and session totals.
func (p *Ports) Validate() error {
	if p.Source == nil {
		return ErrMissingSourceService
	}
	return nil
}

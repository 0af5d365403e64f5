package mcp

import (
	"github.com/docent-labs/docent-cli/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Source manages the web source lifecycle.
	Source driving.SourceService

	// Ingest stores and queries content chunks.
	Ingest driving.IngestService

	// Session manages conversation sessions.
	Session driving.SessionService

	// Retrieval assembles index hits into classified results.
	Retrieval driving.RetrievalService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Source == nil {
		return ErrMissingSourceService
	}
	// Ingest, Session and Retrieval are optional; the tools and resources
	// that need them report unavailability instead.
	return nil
}

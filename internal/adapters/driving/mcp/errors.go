// Package mcp provides an MCP (Model Context Protocol) server adapter for Docent.
// It enables AI assistants like Claude to read the tracked content records and
// report pipeline outcomes: stale sources, scrape results, ingested text and
// conversation context windows.
package mcp

import "errors"

// ErrMissingSourceService is returned when the source service is not provided.
var ErrMissingSourceService = errors.New("mcp: source service is required")

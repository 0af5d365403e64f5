// Package domain defines the core business entities for Docent.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Chunk: A bounded span of processed content, the atomic retrieval unit
//   - WebSource: A tracked URL with scrape status, freshness policy and quality
//   - Session / Message: An append-only conversation log with windowing
//   - SearchResult: A scored retrieval hit with qualitative relevance tiering
//   - Record: The JSON-compatible key-value form every entity encodes to
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain

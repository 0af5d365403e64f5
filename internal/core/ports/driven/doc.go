// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - ChunkStore: Content chunk persistence
//   - WebSourceStore: Web source persistence
//   - SessionStore: Conversation session persistence
//   - ConfigStore: Application configuration
//   - IDGenerator: Unique id generation for chunks, messages and sessions
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - RefreshLog: Scrape attempt history (SQLite). Without it, outcome
//     reporting still updates the source but records no history.
//   - TokenCounter: Message token accounting. Without it, token counts
//     stay unset and session totals count only what callers supplied.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven

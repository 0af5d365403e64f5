// Package jsonfile provides JSON-file-backed implementations of the store
// ports. Each collection lives in one flat file inside the docent data
// directory, written as an indented array of entity records:
//
//   - ChunkStore: processed_docs.json
//   - WebSourceStore: content_metadata.json
//   - SessionStore: conversations.json
//
// The file names match the original ingestion pipeline so both tools can
// share a data directory. Collections are loaded whole at construction and
// rewritten whole on every mutation; a missing file yields an empty store.
package jsonfile

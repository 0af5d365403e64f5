// Package idgen provides unique identifier generation backed by UUIDs.
package idgen

import (
	"github.com/google/uuid"

	"github.com/docent-labs/docent-cli/internal/core/ports/driven"
)

// Ensure UUIDGenerator implements the interface.
var _ driven.IDGenerator = (*UUIDGenerator)(nil)

// UUIDGenerator produces random UUIDv4 identifiers. Safe for concurrent use;
// collisions are not a practical concern, unlike the deterministic
// role+timestamp derivation the domain falls back to.
type UUIDGenerator struct{}

// NewUUIDGenerator creates a new generator.
func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

// NewID returns a new unique identifier.
func (g *UUIDGenerator) NewID() string {
	return uuid.New().String()
}

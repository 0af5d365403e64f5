package driven

// IDGenerator produces unique identifiers for chunks, messages and sessions.
// Collision-free across concurrent callers, unlike the deterministic
// timestamp derivation the domain falls back to.
type IDGenerator interface {
	// NewID returns a new unique identifier.
	NewID() string
}

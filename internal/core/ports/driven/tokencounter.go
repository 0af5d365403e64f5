package driven

// TokenCounter counts model tokens in a piece of text.
// Implementations load their encoding at construction; counting itself
// never fails.
type TokenCounter interface {
	// Count returns the number of tokens in text.
	Count(text string) int
}

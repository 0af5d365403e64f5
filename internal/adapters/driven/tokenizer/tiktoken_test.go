package tokenizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestTiktokenCounter_Count tests token counting against known texts.
func TestTiktokenCounter_Count(t *testing.T) {
	counter, err := NewTiktokenCounter()
	require.NoError(t, err)

	tests := []struct {
		name string
		text string
	}{
		{name: "empty text", text: ""},
		{name: "single word", text: "hello"},
		{name: "sentence", text: "How do I configure the scraper frequency?"},
		{name: "multibyte text", text: "héllo wörld — ¿qué tal?"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			count := counter.Count(tt.text)
			if tt.text == "" {
				assert.Zero(t, count)
			} else {
				assert.Positive(t, count)
			}
		})
	}
}

// TestTiktokenCounter_Monotonic tests that longer text never counts fewer
// tokens than its prefix.
func TestTiktokenCounter_Monotonic(t *testing.T) {
	counter, err := NewTiktokenCounter()
	require.NoError(t, err)

	short := counter.Count("The quick brown fox")
	long := counter.Count("The quick brown fox jumps over the lazy dog")
	assert.GreaterOrEqual(t, long, short)
}

// TestNewTiktokenCounter_Shared tests that construction returns the shared
// instance.
func TestNewTiktokenCounter_Shared(t *testing.T) {
	first, err := NewTiktokenCounter()
	require.NoError(t, err)
	second, err := NewTiktokenCounter()
	require.NoError(t, err)
	assert.Same(t, first, second)
}

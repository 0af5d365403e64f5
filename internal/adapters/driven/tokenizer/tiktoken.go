// Package tokenizer provides model token counting backed by tiktoken.
//
// Token counts feed conversation message accounting: the session service
// backfills Message.TokenCount so callers can hold prompt assembly under a
// token ceiling. The encoding data ships with the binary via the offline
// loader, so counting works without network access.
package tokenizer

import (
	"fmt"
	"sync"

	"github.com/pkoukk/tiktoken-go"
	tiktoken_loader "github.com/pkoukk/tiktoken-go-loader"

	"github.com/docent-labs/docent-cli/internal/core/ports/driven"
)

// encodingName is the BPE encoding used for counting. cl100k_base matches
// the tokenisation of the chat models the assistant talks to.
const encodingName = "cl100k_base"

func init() {
	tiktoken.SetBpeLoader(tiktoken_loader.NewOfflineLoader())
}

// Ensure TiktokenCounter implements the interface.
var _ driven.TokenCounter = (*TiktokenCounter)(nil)

// TiktokenCounter counts tokens with a shared tiktoken encoding.
// Encoding construction is expensive, so one instance is shared process-wide.
type TiktokenCounter struct {
	encoding *tiktoken.Tiktoken
}

var (
	counterInstance *TiktokenCounter
	counterOnce     sync.Once
	counterErr      error
)

// NewTiktokenCounter returns the shared counter, loading the encoding on
// first use.
func NewTiktokenCounter() (*TiktokenCounter, error) {
	counterOnce.Do(func() {
		enc, err := tiktoken.GetEncoding(encodingName)
		if err != nil {
			counterErr = fmt.Errorf("loading %s encoding: %w", encodingName, err)
			return
		}
		counterInstance = &TiktokenCounter{encoding: enc}
	})

	if counterErr != nil {
		return nil, counterErr
	}
	return counterInstance, nil
}

// Count returns the number of tokens in text.
func (c *TiktokenCounter) Count(text string) int {
	if text == "" {
		return 0
	}
	return len(c.encoding.Encode(text, nil, nil))
}

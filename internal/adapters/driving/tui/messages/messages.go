// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/docent-labs/docent-cli/internal/core/domain"
)

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewBoard is the web source board.
	ViewBoard ViewType = iota
	// ViewDetail shows details for a single source.
	ViewDetail
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewBoard:
		return "board"
	case ViewDetail:
		return "detail"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// SourcesLoaded carries the tracked web sources for the board.
type SourcesLoaded struct {
	Sources []*domain.WebSource
	Err     error
}

// SourceSelected signals a source was chosen for inspection.
type SourceSelected struct {
	Source *domain.WebSource
}

// DetailLoaded carries the refresh history and chunk count for the
// inspected source.
type DetailLoaded struct {
	Attempts   []domain.RefreshAttempt
	ChunkCount int
	Err        error
}

// SessionsCounted carries the stored session total for the status bar.
type SessionsCounted struct {
	Count int
	Err   error
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}

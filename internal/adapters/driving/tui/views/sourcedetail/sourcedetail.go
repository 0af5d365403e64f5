// Package sourcedetail provides the source detail view for the TUI.
package sourcedetail

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/docent-labs/docent-cli/internal/adapters/driving/tui/messages"
	"github.com/docent-labs/docent-cli/internal/adapters/driving/tui/styles"
	"github.com/docent-labs/docent-cli/internal/core/domain"
	"github.com/docent-labs/docent-cli/internal/core/ports/driving"
)

// historyLimit caps how many refresh attempts the view shows.
const historyLimit = 10

// View shows one web source in full: its scrape state, quality, chunk
// count and recent refresh history.
type View struct {
	styles        *styles.Styles
	sourceService driving.SourceService
	ingestService driving.IngestService

	source     *domain.WebSource
	attempts   []domain.RefreshAttempt
	chunkCount int
	width      int
	height     int
	ready      bool
	err        error
	loading    bool
}

// NewView creates a new source detail view. The ingest service is
// optional; without it the chunk count stays at zero.
func NewView(
	s *styles.Styles,
	sourceService driving.SourceService,
	ingestService driving.IngestService,
) *View {
	return &View{
		styles:        s,
		sourceService: sourceService,
		ingestService: ingestService,
	}
}

// SetSource sets the source to display details for.
func (v *View) SetSource(source *domain.WebSource) {
	v.source = source
	v.attempts = nil
	v.chunkCount = 0
	v.err = nil
	v.loading = false
}

// Init initialises the view and loads the refresh history.
func (v *View) Init() tea.Cmd {
	return v.loadDetail()
}

// loadDetail returns a command that loads the refresh history and chunk
// count for the current source.
func (v *View) loadDetail() tea.Cmd {
	source := v.source
	return func() tea.Msg {
		if source == nil || v.sourceService == nil {
			return messages.DetailLoaded{Err: fmt.Errorf("source service not available")}
		}

		ctx := context.Background()
		attempts, err := v.sourceService.History(ctx, source.URL, historyLimit)
		if err != nil {
			return messages.DetailLoaded{Err: err}
		}

		chunkCount := 0
		if v.ingestService != nil {
			chunks, err := v.ingestService.ChunksBySource(ctx, source.URL)
			if err != nil {
				return messages.DetailLoaded{Err: err}
			}
			chunkCount = len(chunks)
		}

		return messages.DetailLoaded{Attempts: attempts, ChunkCount: chunkCount}
	}
}

// Update handles messages for the detail view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		v.ready = true
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.DetailLoaded:
		v.loading = false
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.attempts = msg.Attempts
		v.chunkCount = msg.ChunkCount
		v.err = nil
		return v, nil

	case messages.ErrorOccurred:
		v.err = msg.Err
		v.loading = false
		return v, nil
	}

	return v, nil
}

// handleKeyMsg handles key presses.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewBoard}
		}
	case "r":
		v.loading = true
		return v, v.loadDetail()
	}

	return v, nil
}

// View renders the source detail view.
func (v *View) View() string {
	var b strings.Builder

	if v.source == nil {
		b.WriteString(v.styles.Muted.Render("No source selected."))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(v.styles.Title.Render("Source: " + v.source.URL))
	b.WriteString("\n\n")

	if v.err != nil {
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(v.renderFields())
	b.WriteString("\n")
	b.WriteString(v.styles.Subtitle.Render("Recent attempts"))
	b.WriteString("\n")

	if v.loading {
		b.WriteString(v.styles.Muted.Render("Loading history..."))
		b.WriteString("\n")
		return b.String()
	}

	if len(v.attempts) == 0 {
		b.WriteString(v.styles.Muted.Render("No recorded scrape attempts."))
		b.WriteString("\n")
		return b.String()
	}

	for _, attempt := range v.attempts {
		b.WriteString(v.renderAttempt(attempt))
		b.WriteString("\n")
	}

	return b.String()
}

// renderFields renders the source property block.
func (v *View) renderFields() string {
	src := v.source
	var b strings.Builder

	if src.Title != "" {
		b.WriteString(fmt.Sprintf("  Title:        %s\n", src.Title))
	}
	b.WriteString(fmt.Sprintf("  Status:       %s\n", src.Status.Label()))
	b.WriteString(fmt.Sprintf("  Content type: %s\n", src.ContentType))
	b.WriteString(fmt.Sprintf("  Frequency:    %s\n", src.Frequency))

	scraped := "never"
	if src.LastScraped != nil {
		scraped = src.LastScraped.Format("2006-01-02 15:04:05")
	}
	b.WriteString(fmt.Sprintf("  Last scraped: %s\n", scraped))

	if src.Status == domain.StatusScraped {
		grade := "low"
		if src.IsHighQuality() {
			grade = "high"
		}
		b.WriteString(fmt.Sprintf("  Quality:      %.2f (%s)\n", src.QualityScore, grade))
	}

	b.WriteString(fmt.Sprintf("  Chunks:       %d\n", v.chunkCount))

	if src.ErrorMessage != "" {
		b.WriteString("  Last error:   " + v.styles.Error.Render(src.ErrorMessage) + "\n")
	}

	return b.String()
}

// renderAttempt renders one refresh history row.
func (v *View) renderAttempt(attempt domain.RefreshAttempt) string {
	when := attempt.StartedAt.Format("2006-01-02 15:04:05")
	if attempt.Success {
		return v.styles.Success.Render("  ✓ ") +
			v.styles.Normal.Render(fmt.Sprintf("%s  quality %.2f", when, attempt.QualityScore))
	}
	return v.styles.Error.Render("  ✗ ") +
		v.styles.Normal.Render(fmt.Sprintf("%s  %s", when, attempt.Error))
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// Source returns the source being shown.
func (v *View) Source() *domain.WebSource {
	return v.source
}

// ChunkCount returns the loaded chunk count.
func (v *View) ChunkCount() int {
	return v.chunkCount
}

// Attempts returns the loaded refresh history.
func (v *View) Attempts() []domain.RefreshAttempt {
	return v.attempts
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}

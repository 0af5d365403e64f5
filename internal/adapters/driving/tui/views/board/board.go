// Package board provides the web source board view for the TUI.
package board

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/docent-labs/docent-cli/internal/adapters/driving/tui/messages"
	"github.com/docent-labs/docent-cli/internal/adapters/driving/tui/styles"
	"github.com/docent-labs/docent-cli/internal/core/domain"
	"github.com/docent-labs/docent-cli/internal/core/ports/driving"
)

// View is the web source board. It lists every tracked source with its
// scrape status, freshness and quality, optionally filtered to the stale
// subset.
type View struct {
	styles        *styles.Styles
	sourceService driving.SourceService

	sources   []*domain.WebSource
	staleOnly bool
	selected  int
	width     int
	height    int
	ready     bool
	err       error
	loading   bool
}

// NewView creates a new board view.
func NewView(s *styles.Styles, sourceService driving.SourceService) *View {
	return &View{
		styles:        s,
		sourceService: sourceService,
		sources:       []*domain.WebSource{},
	}
}

// Init initialises the view and loads the sources.
func (v *View) Init() tea.Cmd {
	return v.loadSources()
}

// loadSources returns a command that loads sources from the service.
// The stale-only filter is captured at call time so a toggle during the
// round trip cannot mislabel the result.
func (v *View) loadSources() tea.Cmd {
	staleOnly := v.staleOnly
	return func() tea.Msg {
		if v.sourceService == nil {
			return messages.SourcesLoaded{Err: fmt.Errorf("source service not available")}
		}

		ctx := context.Background()
		var (
			sources []*domain.WebSource
			err     error
		)
		if staleOnly {
			sources, err = v.sourceService.ListStale(ctx)
		} else {
			sources, err = v.sourceService.List(ctx)
		}
		return messages.SourcesLoaded{Sources: sources, Err: err}
	}
}

// Update handles messages for the board view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		v.ready = true
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.SourcesLoaded:
		v.loading = false
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.sources = msg.Sources
		v.err = nil
		if v.selected >= len(v.sources) {
			v.selected = len(v.sources) - 1
		}
		if v.selected < 0 {
			v.selected = 0
		}
		return v, nil
	}

	return v, nil
}

// handleKeyMsg handles key presses.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if v.selected > 0 {
			v.selected--
		}
	case "down", "j":
		if v.selected < len(v.sources)-1 {
			v.selected++
		}
	case "enter":
		if len(v.sources) > 0 && v.selected < len(v.sources) {
			source := v.sources[v.selected]
			return v, func() tea.Msg {
				return messages.SourceSelected{Source: source}
			}
		}
	case "s":
		v.staleOnly = !v.staleOnly
		v.selected = 0
		v.loading = true
		return v, v.loadSources()
	case "r":
		v.loading = true
		return v, v.loadSources()
	}

	return v, nil
}

// View renders the board.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Web Sources"))
	if v.staleOnly {
		b.WriteString(v.styles.Muted.Render(" (stale only)"))
	}
	b.WriteString("\n\n")

	if v.loading {
		b.WriteString(v.styles.Muted.Render("Loading sources..."))
		b.WriteString("\n")
		return b.String()
	}

	if v.err != nil {
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
		b.WriteString("\n")
		return b.String()
	}

	if len(v.sources) == 0 {
		if v.staleOnly {
			b.WriteString(v.styles.Muted.Render("Nothing is due for scraping."))
		} else {
			b.WriteString(v.styles.Muted.Render("No tracked sources. Register one with: docent sources add <url>"))
		}
		b.WriteString("\n")
		return b.String()
	}

	for i := range v.sources {
		b.WriteString(v.renderSource(i, v.sources[i]))
		b.WriteString("\n")
	}

	return b.String()
}

// renderSource renders a single board row.
func (v *View) renderSource(index int, src *domain.WebSource) string {
	indicator := "  "
	if index == v.selected {
		indicator = "> "
	}

	status := fmt.Sprintf("[%s]", src.Status.Label())

	scraped := "never"
	if src.LastScraped != nil {
		scraped = src.LastScraped.Format("2006-01-02 15:04")
	}

	quality := "   -"
	if src.Status == domain.StatusScraped {
		quality = fmt.Sprintf("%.2f", src.QualityScore)
	}

	url := src.URL
	maxURLLen := v.width - 43
	if maxURLLen < 16 {
		maxURLLen = 16
	}
	if len(url) > maxURLLen {
		url = url[:maxURLLen-3] + "..."
	}

	if index == v.selected {
		line := fmt.Sprintf("%s%-10s %-*s %-8s %-16s %s",
			indicator, status, maxURLLen, url, src.Frequency, scraped, quality)
		return v.styles.Selected.Render(line)
	}

	return v.statusStyle(src.Status).Render(fmt.Sprintf("%s%-10s", indicator, status)) +
		v.styles.Normal.Render(fmt.Sprintf(" %-*s", maxURLLen, url)) +
		v.styles.Muted.Render(fmt.Sprintf(" %-8s %-16s %s", src.Frequency, scraped, quality))
}

// statusStyle maps a scrape lifecycle state onto a row style.
func (v *View) statusStyle(s domain.SourceStatus) lipgloss.Style {
	switch s {
	case domain.StatusScraped:
		return v.styles.Success
	case domain.StatusFailed:
		return v.styles.Error
	case domain.StatusPending:
		return v.styles.Warning
	case domain.StatusExcluded:
		return v.styles.Muted
	default:
		return v.styles.Normal
	}
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// Sources returns the sources currently on the board.
func (v *View) Sources() []*domain.WebSource {
	return v.sources
}

// SelectedIndex returns the currently selected row index.
func (v *View) SelectedIndex() int {
	return v.selected
}

// StaleOnly reports whether the stale-only filter is active.
func (v *View) StaleOnly() bool {
	return v.staleOnly
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}

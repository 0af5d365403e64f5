package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/docent-labs/docent-cli/internal/adapters/driving/tui/components/status"
	"github.com/docent-labs/docent-cli/internal/adapters/driving/tui/keymap"
	"github.com/docent-labs/docent-cli/internal/adapters/driving/tui/messages"
	"github.com/docent-labs/docent-cli/internal/adapters/driving/tui/styles"
	"github.com/docent-labs/docent-cli/internal/adapters/driving/tui/views/board"
	"github.com/docent-labs/docent-cli/internal/adapters/driving/tui/views/sourcedetail"
	"github.com/docent-labs/docent-cli/internal/core/domain"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	// styles holds the TUI styles.
	styles *styles.Styles

	// keys holds the keybindings.
	keys *keymap.KeyMap

	// boardView is the web source board.
	boardView *board.View

	// detailView is the source detail view.
	detailView *sourcedetail.View

	// statusBar shows pipeline counts and keybinding hints.
	statusBar *status.Bar

	// currentView tracks which view is active.
	currentView messages.ViewType

	// err holds the last error that occurred.
	err error

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has initialised.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	keys := keymap.DefaultKeyMap()

	return &App{
		ports:       ports,
		ctx:         context.Background(),
		styles:      s,
		keys:        keys,
		boardView:   board.NewView(s, ports.Source),
		detailView:  sourcedetail.NewView(s, ports.Source, ports.Ingest),
		statusBar:   status.NewBar(s, keys),
		currentView: messages.ViewBoard,
	}, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// Init implements tea.Model.
// It loads the board and the session total when the program starts.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		tea.SetWindowTitle("docent - Content Pipeline"),
		a.boardView.Init(),
		a.countSessions(),
	)
}

// countSessions returns a command that counts stored sessions for the
// status bar. Nil when no session service is wired.
func (a *App) countSessions() tea.Cmd {
	if a.ports.Session == nil {
		return nil
	}

	ctx := a.ctx
	svc := a.ports.Session
	return func() tea.Msg {
		sessions, err := svc.List(ctx)
		return messages.SessionsCounted{Count: len(sessions), Err: err}
	}
}

// Update implements tea.Model.
// It handles messages and updates the model state.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		a.boardView.SetDimensions(msg.Width, msg.Height)
		a.detailView.SetDimensions(msg.Width, msg.Height)
		a.statusBar.SetWidth(msg.Width)
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case messages.SourcesLoaded:
		if msg.Err != nil {
			a.err = msg.Err
			a.statusBar.SetState(status.StateError)
			a.statusBar.SetMessage(msg.Err.Error())
		} else {
			a.err = nil
			stale := 0
			for _, src := range msg.Sources {
				if src.IsStale() {
					stale++
				}
			}
			a.statusBar.SetCounts(len(msg.Sources), stale)
			a.statusBar.SetState(status.StateReady)
		}
		a.boardView, cmd = a.boardView.Update(msg)
		return a, cmd

	case messages.DetailLoaded:
		a.detailView, cmd = a.detailView.Update(msg)
		return a, cmd

	case messages.SourceSelected:
		a.detailView.SetSource(msg.Source)
		a.currentView = messages.ViewDetail
		a.statusBar.SetHints(a.keys.DetailHelp())
		return a, a.detailView.Init()

	case messages.ViewChanged:
		a.currentView = msg.View
		switch msg.View {
		case messages.ViewBoard:
			a.statusBar.SetState(status.StateReady)
			a.statusBar.SetHints(a.keys.BoardHelp())
			return a, a.boardView.Init()
		case messages.ViewDetail:
			a.statusBar.SetHints(a.keys.DetailHelp())
			return a, a.detailView.Init()
		case messages.ViewHelp:
			a.statusBar.SetState(status.StateHelp)
			a.statusBar.SetHints(a.keys.ShortHelp())
		}
		return a, nil

	case messages.SessionsCounted:
		if msg.Err == nil {
			a.statusBar.SetSessionCount(msg.Count)
		}
		return a, nil

	case messages.ErrorOccurred:
		a.err = msg.Err
		a.statusBar.SetState(status.StateError)
		a.statusBar.SetMessage(msg.Err.Error())
		if a.currentView == messages.ViewDetail {
			a.detailView, cmd = a.detailView.Update(msg)
		}
		return a, cmd

	case messages.Quit:
		return a, tea.Quit
	}

	// Forward anything else to the active view.
	switch a.currentView {
	case messages.ViewBoard:
		a.boardView, cmd = a.boardView.Update(msg)
	case messages.ViewDetail:
		a.detailView, cmd = a.detailView.Update(msg)
	case messages.ViewHelp:
		// Help view is static.
	}

	return a, cmd
}

// handleKey routes key presses: quit and help toggle are global, the rest
// goes to the active view.
func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	keyStr := msg.String()

	if keymap.Matches(keyStr, a.keys.Quit) {
		return a, tea.Quit
	}

	if keymap.Matches(keyStr, a.keys.Help) {
		if a.currentView == messages.ViewHelp {
			a.currentView = messages.ViewBoard
			a.statusBar.SetState(status.StateReady)
			a.statusBar.SetHints(a.keys.BoardHelp())
		} else {
			a.currentView = messages.ViewHelp
			a.statusBar.SetState(status.StateHelp)
			a.statusBar.SetHints(a.keys.ShortHelp())
		}
		return a, nil
	}

	switch a.currentView {
	case messages.ViewBoard:
		a.boardView, cmd = a.boardView.Update(msg)
	case messages.ViewDetail:
		a.detailView, cmd = a.detailView.Update(msg)
	case messages.ViewHelp:
		if msg.Type == tea.KeyEsc {
			a.currentView = messages.ViewBoard
			a.statusBar.SetState(status.StateReady)
			a.statusBar.SetHints(a.keys.BoardHelp())
		}
	}

	return a, cmd
}

// View implements tea.Model.
// It renders the active view with the status bar underneath.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	var body string
	switch a.currentView {
	case messages.ViewBoard:
		body = a.boardView.View()
	case messages.ViewDetail:
		body = a.detailView.View()
	case messages.ViewHelp:
		body = a.viewHelp()
	default:
		body = a.boardView.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left, body, a.statusBar.View())
}

// viewHelp renders the help view.
func (a *App) viewHelp() string {
	return `Help

Board:
  j/k, ↑/↓    Navigate sources
  enter       Inspect source
  s           Toggle stale-only
  r           Reload the board

Source detail:
  r           Reload history
  esc         Back to the board

Global:
  ?           Toggle this help
  q, ctrl+c   Quit

[?] back to the board`
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Sources returns the sources currently on the board.
func (a *App) Sources() []*domain.WebSource {
	return a.boardView.Sources()
}

// SelectedIndex returns the currently selected board row.
func (a *App) SelectedIndex() int {
	return a.boardView.SelectedIndex()
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions (for testing).
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.boardView.SetDimensions(width, height)
	a.detailView.SetDimensions(width, height)
	a.statusBar.SetWidth(width)
}

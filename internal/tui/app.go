// Package tui provides the interactive TRS import dialog for trawl.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"trawl/internal/importer"
	"trawl/internal/models"
	"trawl/internal/registry"
	"trawl/internal/store"
)

var (
	// Colors
	primaryColor = lipgloss.Color("#0EA5E9")
	successColor = lipgloss.Color("#10B981")
	warningColor = lipgloss.Color("#F59E0B")
	errorColor   = lipgloss.Color("#EF4444")
	mutedColor   = lipgloss.Color("#6B7280")
	fgColor      = lipgloss.Color("#F9FAFB")

	// Styles
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			Padding(0, 1)

	statusBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#374151")).
			Foreground(fgColor).
			Padding(0, 1)

	inputBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(primaryColor).
			Padding(0, 1)

	itemStyle = lipgloss.NewStyle().
			Padding(0, 2)

	selectedStyle = lipgloss.NewStyle().
			Background(primaryColor).
			Foreground(fgColor).
			Bold(true).
			Padding(0, 2)

	helpStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Italic(true)

	errorBannerStyle = lipgloss.NewStyle().
				Foreground(errorColor).
				Bold(true).
				Padding(0, 1)

	serverBadgeStyle = lipgloss.NewStyle().
				Foreground(successColor).
				Bold(true)
)

// App is the import dialog model.
type App struct {
	ctrl       *importer.Controller
	servers    []models.TRSServer
	serverIdx  int
	input      textinput.Model
	state      importer.State
	updates    chan importer.State
	history    *store.Store
	mode       string // "servers", "import"
	versionIdx int
	width      int
	height     int
	message    string
	importing  bool
}

// New creates the import dialog. history may be nil to skip recording.
func New(ctrl *importer.Controller, reg *registry.Registry, history *store.Store) *App {
	ti := textinput.New()
	ti.Placeholder = "Tool id, e.g. #workflow/github.com/org/repo"
	ti.CharLimit = 256
	ti.Width = 80

	a := &App{
		ctrl:    ctrl,
		servers: reg.List(),
		input:   ti,
		history: history,
		updates: make(chan importer.State, 64),
		mode:    "servers",
	}

	// Subscribe before snapshotting so a fetch completing during
	// construction is not lost.
	ctrl.Subscribe(func(s importer.State) {
		for {
			select {
			case a.updates <- s:
				return
			default:
			}
			// Full buffer: drop the oldest snapshot, never the newest.
			select {
			case <-a.updates:
			default:
			}
		}
	})

	a.state = ctrl.State()
	a.input.SetValue(a.state.ToolID)
	if a.state.Server != nil {
		// Deep link already selected a server; go straight to the dialog.
		a.mode = "import"
		a.input.Focus()
	}

	return a
}

// Run starts the TUI.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// Init implements tea.Model
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		a.waitForState(),
	)
}

// Update implements tea.Model
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return a, tea.Quit

		case "esc":
			if a.mode == "import" {
				a.mode = "servers"
				a.input.Blur()
				return a, nil
			}
			return a, tea.Quit

		case "up":
			if a.mode == "servers" && a.serverIdx > 0 {
				a.serverIdx--
			} else if a.mode == "import" && a.versionIdx > 0 {
				a.versionIdx--
			}
			return a, nil

		case "down":
			if a.mode == "servers" && a.serverIdx < len(a.servers)-1 {
				a.serverIdx++
			} else if a.mode == "import" && a.versionIdx < a.versionCount()-1 {
				a.versionIdx++
			}
			return a, nil

		case "enter":
			if a.mode == "servers" {
				if len(a.servers) == 0 {
					return a, nil
				}
				server := a.servers[a.serverIdx]
				a.mode = "import"
				a.message = ""
				a.input.Focus()
				a.ctrl.OnServerSelected(server)
				return a, nil
			}
			return a, a.importSelected()

		case "tab":
			if a.mode == "import" {
				a.mode = "servers"
				a.input.Blur()
			}
			return a, nil
		}

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.input.Width = msg.Width - 6

	case stateMsg:
		a.state = importer.State(msg)
		if a.versionIdx >= a.versionCount() {
			a.versionIdx = max(0, a.versionCount()-1)
		}
		return a, a.waitForState()

	case importDoneMsg:
		a.importing = false
		a.message = fmt.Sprintf("✓ Imported workflow %s", msg.workflowID)

	case errMsg:
		a.importing = false
		a.message = "Error: " + msg.err.Error()
	}

	// Typing only drives the controller while the dialog is open.
	if a.mode == "import" {
		before := a.input.Value()
		var cmd tea.Cmd
		a.input, cmd = a.input.Update(msg)
		if v := a.input.Value(); v != before {
			a.ctrl.OnToolIDChanged(v)
		}
		return a, cmd
	}

	return a, nil
}

// View implements tea.Model
func (a *App) View() string {
	var b strings.Builder

	header := titleStyle.Render("⚓ TRAWL Workflow Import")
	if a.state.Server != nil {
		header += "  " + serverBadgeStyle.Render("● "+a.state.Server.DisplayName())
	} else {
		header += "  " + helpStyle.Render("○ no server selected")
	}
	b.WriteString(header + "\n")
	b.WriteString(strings.Repeat("─", max(a.width, 20)) + "\n")

	contentHeight := a.height - 9
	if contentHeight < 5 {
		contentHeight = 5
	}

	switch a.mode {
	case "servers":
		b.WriteString(renderServerList(a.servers, a.serverIdx))
	case "import":
		b.WriteString("\n" + inputBoxStyle.Render(a.input.View()) + "\n")
		if a.state.Err != "" {
			b.WriteString(errorBannerStyle.Render("✗ "+a.state.Err) + "\n")
		}
		b.WriteString(renderToolDetail(a.state, a.versionIdx, contentHeight))
	}

	// Message bar
	if a.message != "" {
		msgStyle := lipgloss.NewStyle().Foreground(successColor)
		if strings.HasPrefix(a.message, "Error") {
			msgStyle = lipgloss.NewStyle().Foreground(errorColor)
		}
		b.WriteString("\n" + msgStyle.Render(a.message))
	}
	b.WriteString("\n")

	// Status bar
	var status string
	switch a.mode {
	case "servers":
		status = fmt.Sprintf(" Servers: %d | ↑↓:nav | Enter:select | Esc:quit", len(a.servers))
	default:
		status = " Type a tool id | ↑↓:versions | Enter:import | Tab:servers | Esc:back"
		if a.importing {
			status = " Importing..."
		}
	}
	b.WriteString(statusBarStyle.Width(max(a.width, 20)).Render(status))

	return b.String()
}

func (a *App) versionCount() int {
	if a.state.Tool == nil {
		return 0
	}
	return len(a.state.Tool.Versions)
}

// importSelected requests an import of the highlighted version.
func (a *App) importSelected() tea.Cmd {
	if a.state.Tool == nil || a.versionCount() == 0 || a.importing {
		return nil
	}

	tool := a.state.Tool
	version := tool.Versions[a.versionIdx]
	server := a.state.Server

	a.importing = true
	a.message = fmt.Sprintf("Importing %s @ %s ...", tool.ID, version.ID)

	return func() tea.Msg {
		workflowID, err := a.ctrl.OnImportRequested(context.Background(), tool.ID, version.ID)
		if err != nil {
			return errMsg{err}
		}
		if a.history != nil && server != nil {
			// History is best-effort; an unwritable db should not fail the import.
			a.history.RecordImport(server.Name, server.BaseURL, tool.ID, version.ID, workflowID)
		}
		return importDoneMsg{workflowID: workflowID}
	}
}

func (a *App) waitForState() tea.Cmd {
	return func() tea.Msg {
		return stateMsg(<-a.updates)
	}
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

type stateMsg importer.State

type importDoneMsg struct {
	workflowID string
}

type errMsg struct {
	err error
}

package tui

import (
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"mdlint/internal/adapters/tui/views"
	"mdlint/internal/ports"
)

// ViewState represents the current view
type ViewState int

const (
	ViewFindings ViewState = iota
	ViewHelp
)

// App is the main TUI application model
type App struct {
	editor ports.EditorOpener
	dir    string

	state    ViewState
	findings *views.FindingsModel
	help     *views.HelpModel

	width  int
	height int
}

// NewApp creates the reviewer. Finding filenames are resolved against dir.
func NewApp(load views.FindingsLoader, ed ports.EditorOpener, dir string) *App {
	return &App{
		editor:   ed,
		dir:      dir,
		state:    ViewFindings,
		findings: views.NewFindingsModel(load),
		help:     views.NewHelpModel(),
	}
}

// Init initializes the application
func (a *App) Init() tea.Cmd {
	return a.findings.Init()
}

// Update handles messages for the application
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.findings.SetSize(msg.Width, msg.Height)
		a.help.SetSize(msg.Width, msg.Height)
		return a, nil

	case views.SwitchToHelpMsg:
		a.state = ViewHelp
		return a, nil

	case views.SwitchToFindingsMsg:
		a.state = ViewFindings
		return a, nil

	case views.OpenEditorMsg:
		return a, a.openEditor(filepath.Join(a.dir, filepath.FromSlash(msg.Filename)), msg.Line)

	case editorFinishedMsg:
		if msg.err != nil {
			a.findings.SetMessage(msg.err.Error(), true)
		}
		return a, nil
	}

	// Delegate to current view
	var cmd tea.Cmd
	switch a.state {
	case ViewFindings:
		_, cmd = a.findings.Update(msg)
	case ViewHelp:
		_, cmd = a.help.Update(msg)
	}

	return a, cmd
}

type editorFinishedMsg struct{ err error }

func (a *App) openEditor(path string, line int) tea.Cmd {
	if a.editor == nil {
		return nil
	}

	cmd, err := a.editor.Command(path, line)
	if err != nil {
		return func() tea.Msg {
			return editorFinishedMsg{err: err}
		}
	}

	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		return editorFinishedMsg{err: err}
	})
}

// View renders the current view
func (a *App) View() string {
	switch a.state {
	case ViewHelp:
		return a.help.View()
	default:
		return a.findings.View()
	}
}

// Run starts the reviewer on the alternate screen
func Run(app *App) error {
	_, err := tea.NewProgram(app, tea.WithAltScreen()).Run()
	return err
}

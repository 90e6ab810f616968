package views

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"mdlint/internal/adapters/tui/styles"
	"mdlint/internal/domain"
)

// FindingsKeyMap defines key bindings for the findings list
type FindingsKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Next   key.Binding
	Prev   key.Binding
	Open   key.Binding
	Copy   key.Binding
	Filter key.Binding
	Reload key.Binding
	Help   key.Binding
	Quit   key.Binding
}

var FindingsKeys = FindingsKeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	Next: key.NewBinding(
		key.WithKeys("n", "pgdown"),
		key.WithHelp("n", "next page"),
	),
	Prev: key.NewBinding(
		key.WithKeys("p", "pgup"),
		key.WithHelp("p", "prev page"),
	),
	Open: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "open"),
	),
	Copy: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "copy"),
	),
	Filter: key.NewBinding(
		key.WithKeys("f"),
		key.WithHelp("f", "filter"),
	),
	Reload: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "re-run"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// filterOrder is the cycle walked by the filter key; "" shows everything
var filterOrder = []string{
	"",
	domain.FindingBrokenLink,
	domain.FindingDuplicate,
	domain.FindingMissing,
	domain.FindingOrphan,
}

// FindingsLoader produces the findings to review
type FindingsLoader func() ([]domain.Finding, error)

// FindingsModel lists findings and lets the user jump to them
type FindingsModel struct {
	ViewState

	load      FindingsLoader
	copy      func(string) error
	all       []domain.Finding
	visible   []domain.Finding
	filter    int
	paginator *Paginator
	loaded    bool
}

// NewFindingsModel creates a findings view fed by load
func NewFindingsModel(load FindingsLoader) *FindingsModel {
	return &FindingsModel{
		load:      load,
		copy:      clipboard.WriteAll,
		paginator: NewPaginator(0),
	}
}

type findingsLoadedMsg struct {
	findings []domain.Finding
}

type findingsErrMsg struct {
	err error
}

// Init loads the findings
func (m *FindingsModel) Init() tea.Cmd {
	return m.reload
}

func (m *FindingsModel) reload() tea.Msg {
	findings, err := m.load()
	if err != nil {
		return findingsErrMsg{err}
	}
	return findingsLoadedMsg{findings}
}

// Update handles messages for the findings view
func (m *FindingsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case findingsLoadedMsg:
		m.loaded = true
		m.SetFindings(msg.findings)
		m.SetMessage(fmt.Sprintf("%d findings", len(msg.findings)), false)
		return m, nil

	case findingsErrMsg:
		m.loaded = true
		m.SetMessage(msg.err.Error(), true)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m *FindingsModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, FindingsKeys.Quit):
		return m, tea.Quit

	case key.Matches(msg, FindingsKeys.Up):
		m.paginator.CursorUp()

	case key.Matches(msg, FindingsKeys.Down):
		m.paginator.CursorDown()

	case key.Matches(msg, FindingsKeys.Next):
		m.paginator.NextPage()

	case key.Matches(msg, FindingsKeys.Prev):
		m.paginator.PrevPage()

	case key.Matches(msg, FindingsKeys.Filter):
		m.filter = (m.filter + 1) % len(filterOrder)
		m.applyFilter()
		m.ClearMessage()

	case key.Matches(msg, FindingsKeys.Reload):
		m.SetMessage("re-running lint...", false)
		return m, m.reload

	case key.Matches(msg, FindingsKeys.Help):
		return m, func() tea.Msg {
			return SwitchToHelpMsg{}
		}

	case key.Matches(msg, FindingsKeys.Open):
		if f, ok := m.Selected(); ok {
			return m, func() tea.Msg {
				return OpenEditorMsg{Filename: f.Filename, Line: f.Line}
			}
		}

	case key.Matches(msg, FindingsKeys.Copy):
		if f, ok := m.Selected(); ok {
			if err := m.copy(f.Location()); err != nil {
				m.SetMessage("clipboard: "+err.Error(), true)
			} else {
				m.SetMessage("copied "+f.Location(), false)
			}
		}
	}

	return m, nil
}

// SetFindings replaces the list, keeping the current filter
func (m *FindingsModel) SetFindings(findings []domain.Finding) {
	m.all = findings
	m.applyFilter()
}

func (m *FindingsModel) applyFilter() {
	kind := filterOrder[m.filter]
	m.visible = m.visible[:0]
	for _, f := range m.all {
		if kind == "" || f.Kind == kind {
			m.visible = append(m.visible, f)
		}
	}
	m.paginator.SetTotal(len(m.visible))
}

// Filter returns the active kind filter, empty when showing everything
func (m *FindingsModel) Filter() string {
	return filterOrder[m.filter]
}

// Visible returns the findings that pass the filter
func (m *FindingsModel) Visible() []domain.Finding {
	return m.visible
}

// Selected returns the finding under the cursor
func (m *FindingsModel) Selected() (domain.Finding, bool) {
	if len(m.visible) == 0 {
		return domain.Finding{}, false
	}
	return m.visible[m.paginator.Cursor()], true
}

// SetSize updates the view dimensions and the page size
func (m *FindingsModel) SetSize(width, height int) {
	m.ViewState.SetSize(width, height)
	// Title, status, message and help lines plus padding
	m.paginator.SetPageSize(height - 10)
}

// View renders the findings list
func (m *FindingsModel) View() string {
	var b strings.Builder

	b.WriteString(styles.Title.Render("mdlint review"))
	b.WriteString("\n")

	filter := "all"
	if kind := m.Filter(); kind != "" {
		filter = kind
	}
	b.WriteString(styles.StatusBar.Render(fmt.Sprintf("%d/%d findings • filter: %s • page %d/%d",
		len(m.visible), len(m.all), filter, m.paginator.CurrentPage(), m.paginator.TotalPages())))
	b.WriteString("\n\n")

	switch {
	case !m.loaded:
		b.WriteString(RenderMuted("Linting..."))
		b.WriteString("\n")
	case len(m.visible) == 0:
		b.WriteString(RenderMuted("Nothing to review."))
		b.WriteString("\n")
	default:
		start, end := m.paginator.VisibleRange()
		for i := start; i < end; i++ {
			b.WriteString(RenderFinding(m.visible[i], i == m.paginator.Cursor()))
			b.WriteString("\n")
		}
	}

	if m.Message != "" {
		b.WriteString("\n")
		b.WriteString(RenderMessage(m.Message, m.MessageErr))
	}

	b.WriteString("\n")
	b.WriteString(RenderHelpLine(
		FindingsKeys.Down, FindingsKeys.Up, FindingsKeys.Next,
		FindingsKeys.Open, FindingsKeys.Copy, FindingsKeys.Filter,
		FindingsKeys.Help, FindingsKeys.Quit,
	))

	return styles.App.Render(b.String())
}

// Messages for view switching
type SwitchToHelpMsg struct{}

type SwitchToFindingsMsg struct{}

// OpenEditorMsg asks the app to open a book file at a line
type OpenEditorMsg struct {
	Filename string
	Line     int
}

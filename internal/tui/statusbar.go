package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/querycraft/internal/query"
	"github.com/sadopc/querycraft/internal/theme"
)

// ClearStatusMsg is sent after a timeout to revert the status bar to key hints.
type ClearStatusMsg struct{}

// statusTimeout is how long a status message stays up.
const statusTimeout = 5 * time.Second

// StatusBar shows the schema source, a message or key hints, and the
// statement type with the key mode.
type StatusBar struct {
	width     int
	source    string
	queryType query.Type
	keyMode   KeyMode
	message   string
	isError   bool

	help  help.Model
	keys  KeyMap
	theme *theme.Theme
}

// NewStatusBar creates a status bar.
func NewStatusBar(th *theme.Theme, keys KeyMap) StatusBar {
	h := help.New()
	h.ShortSeparator = "  "
	return StatusBar{
		queryType: query.Select,
		help:      h,
		keys:      keys,
		theme:     th,
	}
}

// Update handles status messages.
func (m StatusBar) Update(msg tea.Msg) (StatusBar, tea.Cmd) {
	clearAfter := func() tea.Cmd {
		return tea.Tick(statusTimeout, func(time.Time) tea.Msg {
			return ClearStatusMsg{}
		})
	}

	switch msg := msg.(type) {
	case StatusMsg:
		m.message = msg.Text
		m.isError = msg.IsError
		return m, clearAfter()

	case ClearStatusMsg:
		m.message = ""
		m.isError = false
	}
	return m, nil
}

// View renders the status bar.
func (m StatusBar) View() string {
	if m.width == 0 {
		return ""
	}
	th := m.theme

	src := m.source
	if src == "" {
		src = "no schema"
	}
	left := th.StatusBarKey.Render(" " + src + " ")

	right := th.StatusBarKey.Render(fmt.Sprintf(" %s ", m.queryType)) +
		th.StatusBarValue.Render(fmt.Sprintf(" %s ", m.keyMode))

	room := max(m.width-lipgloss.Width(left)-lipgloss.Width(right)-2, 0)

	var center string
	switch {
	case m.message != "" && m.isError:
		center = th.StatusBarError.Render(" " + truncate(m.message, room) + " ")
	case m.message != "":
		center = th.StatusBarSuccess.Render(" " + truncate(m.message, room) + " ")
	default:
		m.help.Width = room
		center = th.StatusBar.Render(m.help.ShortHelpView(m.keys.ShortHelp()))
	}

	gap := max(m.width-lipgloss.Width(left)-lipgloss.Width(center)-lipgloss.Width(right), 0)
	leftGap := gap / 2
	rightGap := gap - leftGap

	bar := left +
		th.StatusBar.Render(strings.Repeat(" ", leftGap)) +
		center +
		th.StatusBar.Render(strings.Repeat(" ", rightGap)) +
		right

	return th.StatusBar.Width(m.width).Render(bar)
}

// SetSize sets the status bar width.
func (m *StatusBar) SetSize(width int) { m.width = width }

// SetSource sets the schema source label.
func (m *StatusBar) SetSource(src string) { m.source = src }

// SetQueryType sets the statement type label.
func (m *StatusBar) SetQueryType(t query.Type) { m.queryType = t }

// SetKeyMode sets the key mode label and the hints shown for it.
func (m *StatusBar) SetKeyMode(mode KeyMode, keys KeyMap) {
	m.keyMode = mode
	m.keys = keys
}

// Message returns the current message and whether it is an error.
func (m StatusBar) Message() (string, bool) { return m.message, m.isError }

func truncate(s string, maxLen int) string {
	if maxLen <= 3 {
		return s
	}
	if len(s) > maxLen {
		return s[:maxLen-3] + "..."
	}
	return s
}

package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/querycraft/internal/highlight"
	"github.com/sadopc/querycraft/internal/theme"
)

// Preview shows the generated SQL, syntax highlighted. A statement picked
// from history replaces it until the builder changes again.
type Preview struct {
	sql     string
	pinned  string
	offset  int
	width   int
	height  int
	focused bool

	hl    *highlight.Highlighter
	keys  KeyMap
	theme *theme.Theme
}

// NewPreview creates a preview pane that highlights for dialect.
func NewPreview(th *theme.Theme, dialect string, keys KeyMap) Preview {
	return Preview{hl: highlight.New(dialect), keys: keys, theme: th}
}

// SetSQL replaces the generated statement and drops any pinned one.
func (m *Preview) SetSQL(sql string) {
	m.sql = sql
	m.pinned = ""
	m.offset = 0
}

// Pin shows sql instead of the generated statement.
func (m *Preview) Pin(sql string) {
	m.pinned = sql
	m.offset = 0
}

// SetDialect switches the highlighter.
func (m *Preview) SetDialect(dialect string) { m.hl = highlight.New(dialect) }

// Text returns the statement currently shown.
func (m Preview) Text() string {
	if m.pinned != "" {
		return m.pinned
	}
	return m.sql
}

// Update scrolls the pane.
func (m Preview) Update(msg tea.Msg) (Preview, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || !m.focused {
		return m, nil
	}
	lines := strings.Count(m.Text(), "\n") + 1
	switch {
	case key.Matches(keyMsg, m.keys.Up):
		if m.offset > 0 {
			m.offset--
		}
	case key.Matches(keyMsg, m.keys.Down):
		if m.offset < lines-1 {
			m.offset++
		}
	case key.Matches(keyMsg, m.keys.Top):
		m.offset = 0
	case key.Matches(keyMsg, m.keys.Bottom):
		m.offset = max(lines-(m.height-3), 0)
	}
	return m, nil
}

// View renders the pane.
func (m Preview) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	th := m.theme
	innerW := max(m.width-2, 1)
	innerH := max(m.height-2, 1)

	title := " SQL "
	if m.pinned != "" {
		title = " SQL (history) "
	}

	lines := strings.Split(m.hl.Highlight(m.Text(), th), "\n")
	if m.offset < len(lines) {
		lines = lines[m.offset:]
	}
	if len(lines) > innerH-1 {
		lines = lines[:max(innerH-1, 0)]
	}

	border := th.UnfocusedBorder
	if m.focused {
		border = th.FocusedBorder
	}
	content := lipgloss.JoinVertical(lipgloss.Left, th.SidebarTitle.Render(title), strings.Join(lines, "\n"))
	return border.Width(innerW).Height(innerH).Render(content)
}

// SetSize sets the pane dimensions.
func (m *Preview) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// SetKeyMap replaces the scrolling bindings.
func (m *Preview) SetKeyMap(keys KeyMap) { m.keys = keys }

// Focus focuses the pane.
func (m *Preview) Focus() { m.focused = true }

// Blur unfocuses the pane.
func (m *Preview) Blur() { m.focused = false }

package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/sadopc/querycraft/internal/history"
	"github.com/sadopc/querycraft/internal/theme"
)

// historyLimit caps how many entries the browser loads.
const historyLimit = 200

// SelectQueryMsg is sent when the user picks a history entry.
type SelectQueryMsg struct {
	Query string
}

// HistoryBrowser is the modal listing previously exported statements.
type HistoryBrowser struct {
	hist    *history.History
	entries []history.Entry
	err     error
	cursor  int
	offset  int // scroll offset
	visible bool
	width   int
	height  int
	search  textinput.Model
	theme   *theme.Theme
}

// NewHistoryBrowser creates a history browser over hist, which may be nil.
func NewHistoryBrowser(th *theme.Theme, hist *history.History) HistoryBrowser {
	ti := textinput.New()
	ti.Placeholder = "Search statements..."
	ti.Prompt = "  > "
	ti.Width = 50
	return HistoryBrowser{
		hist:   hist,
		search: ti,
		theme:  th,
	}
}

// Show makes the history browser visible and loads entries.
func (m *HistoryBrowser) Show() tea.Cmd {
	m.visible = true
	m.cursor = 0
	m.offset = 0
	m.search.SetValue("")
	m.loadEntries()
	return m.search.Focus()
}

// Hide hides the history browser.
func (m *HistoryBrowser) Hide() {
	m.visible = false
	m.search.Blur()
}

// Visible returns whether the history browser is shown.
func (m HistoryBrowser) Visible() bool { return m.visible }

// SetSize sets the available space.
func (m *HistoryBrowser) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Update handles history browser messages.
func (m HistoryBrowser) Update(msg tea.Msg) (HistoryBrowser, tea.Cmd) {
	if !m.visible {
		return m, nil
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		// Non-key messages (e.g. blink)
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		return m, cmd
	}

	switch keyMsg.String() {
	case "esc", "ctrl+h":
		m.Hide()
		return m, nil
	case "up", "ctrl+p":
		if m.cursor > 0 {
			m.cursor--
			m.ensureVisible()
		}
		return m, nil
	case "down", "ctrl+n":
		if m.cursor < len(m.entries)-1 {
			m.cursor++
			m.ensureVisible()
		}
		return m, nil
	case "pgup":
		m.cursor = max(m.cursor-m.visibleCount(), 0)
		m.ensureVisible()
		return m, nil
	case "pgdown":
		m.cursor = max(min(m.cursor+m.visibleCount(), len(m.entries)-1), 0)
		m.ensureVisible()
		return m, nil
	case "enter":
		if m.cursor < len(m.entries) {
			q := m.entries[m.cursor].Query
			m.Hide()
			return m, func() tea.Msg {
				return SelectQueryMsg{Query: q}
			}
		}
		return m, nil
	}

	// Delegate all other keys to the search input
	prev := m.search.Value()
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(keyMsg)
	if m.search.Value() != prev {
		m.cursor = 0
		m.offset = 0
		m.loadEntries()
	}
	return m, cmd
}

// View renders the history browser.
func (m HistoryBrowser) View() string {
	if !m.visible {
		return ""
	}
	th := m.theme
	w := m.dialogWidth()

	title := th.SidebarTitle.Render("  Statement History  ")
	searchView := "  " + m.search.View()

	end := min(m.offset+m.visibleCount(), len(m.entries))
	var lines []string
	for i := m.offset; i < end; i++ {
		line := formatEntry(m.entries[i], w-6)
		if i == m.cursor {
			lines = append(lines, th.SidebarSelected.Render(line))
		} else {
			lines = append(lines, "  "+line)
		}
	}
	switch {
	case m.err != nil:
		lines = append(lines, th.ErrorText.Render("  "+m.err.Error()))
	case m.hist == nil:
		lines = append(lines, th.MutedText.Render("  History is disabled"))
	case len(m.entries) == 0:
		lines = append(lines, th.MutedText.Render("  No history entries"))
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		title,
		searchView,
		"",
		strings.Join(lines, "\n"),
		"",
		th.MutedText.Render(fmt.Sprintf("  %d entries", len(m.entries))),
		th.MutedText.Render("  enter:show  esc:close  up/down:navigate"),
	)
	return th.InputBorder.Width(w).Render(content)
}

func (m HistoryBrowser) dialogWidth() int {
	w := 80
	if m.width > 0 && w > m.width-4 {
		w = m.width - 4
	}
	return w
}

// visibleCount returns how many entries fit in the visible area.
func (m HistoryBrowser) visibleCount() int {
	// 7 lines of chrome plus 2 for the border
	return max(m.height-9, 3)
}

func (m *HistoryBrowser) ensureVisible() {
	visible := m.visibleCount()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+visible {
		m.offset = m.cursor - visible + 1
	}
}

func (m *HistoryBrowser) loadEntries() {
	m.entries, m.err = nil, nil
	if m.hist == nil {
		return
	}
	if text := m.search.Value(); text != "" {
		m.entries, m.err = m.hist.Search("%"+text+"%", historyLimit)
	} else {
		m.entries, m.err = m.hist.Recent(historyLimit)
	}
}

func formatEntry(e history.Entry, maxWidth int) string {
	meta := RelativeTime(e.CreatedAt)
	if e.QueryType != "" {
		meta = e.QueryType + " | " + meta
	}
	queryMax := max(maxWidth-runewidth.StringWidth(meta)-2, 10)
	q := runewidth.FillRight(runewidth.Truncate(firstLine(e.Query), queryMax, "..."), queryMax)
	return q + "  " + meta
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		return strings.TrimSpace(s[:idx])
	}
	return s
}

// RelativeTime formats a timestamp as a human-readable relative time.
func RelativeTime(t time.Time) string {
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	case d < 48*time.Hour:
		return "yesterday"
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}

package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/sadopc/querycraft/internal/completion"
	"github.com/sadopc/querycraft/internal/schema"
	"github.com/sadopc/querycraft/internal/theme"
)

// NodeKind represents the type of tree node.
type NodeKind int

const (
	NodeTable NodeKind = iota
	NodeColumn
)

// TreeNode represents a node in the schema tree.
type TreeNode struct {
	Label    string
	Kind     NodeKind
	Children []*TreeNode
	Expanded bool
	Depth    int

	Table   string
	Column  string
	ColType string
	IsPK    bool
}

// Sidebar is the schema browser: a table/column tree with a fuzzy filter.
type Sidebar struct {
	nodes   []*TreeNode
	flat    []*TreeNode // visible rows: the expanded tree, or filter matches
	cursor  int
	offset  int
	width   int
	height  int
	focused bool
	loading bool

	engine    *completion.Engine
	filter    textinput.Model
	filtering bool

	keys  KeyMap
	theme *theme.Theme
}

// NewSidebar creates an empty sidebar that filters through engine.
func NewSidebar(th *theme.Theme, engine *completion.Engine, keys KeyMap) Sidebar {
	ti := textinput.New()
	ti.Placeholder = "filter tables and columns"
	ti.Prompt = "/ "
	return Sidebar{
		engine: engine,
		filter: ti,
		keys:   keys,
		theme:  th,
	}
}

// SetTables rebuilds the tree from tables. Tables start collapsed unless
// there is only one.
func (m *Sidebar) SetTables(tables []schema.Table) {
	m.nodes = buildTree(tables)
	m.loading = false
	m.cursor = 0
	m.offset = 0
	m.flatten()
}

// Update handles navigation and filter editing.
func (m Sidebar) Update(msg tea.Msg) (Sidebar, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		if m.filtering {
			var cmd tea.Cmd
			m.filter, cmd = m.filter.Update(msg)
			return m, cmd
		}
		return m, nil
	}
	if !m.focused {
		return m, nil
	}

	if m.filtering {
		switch keyMsg.String() {
		case "esc":
			m.filtering = false
			m.filter.Blur()
			m.filter.SetValue("")
			m.flatten()
			return m, nil
		case "enter":
			m.filtering = false
			m.filter.Blur()
			return m, nil
		case "up", "down":
			// fall through to navigation so matches can be walked while typing
		default:
			prev := m.filter.Value()
			var cmd tea.Cmd
			m.filter, cmd = m.filter.Update(keyMsg)
			if m.filter.Value() != prev {
				m.cursor = 0
				m.offset = 0
				m.flatten()
			}
			return m, cmd
		}
	}

	switch {
	case key.Matches(keyMsg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
			m.ensureVisible()
		}
	case key.Matches(keyMsg, m.keys.Down):
		if m.cursor < len(m.flat)-1 {
			m.cursor++
			m.ensureVisible()
		}
	case key.Matches(keyMsg, m.keys.Top):
		m.cursor = 0
		m.offset = 0
	case key.Matches(keyMsg, m.keys.Bottom):
		m.cursor = max(len(m.flat)-1, 0)
		m.ensureVisible()
	case key.Matches(keyMsg, m.keys.Expand):
		m.toggle(true)
	case key.Matches(keyMsg, m.keys.Collapse):
		m.toggle(false)
	case key.Matches(keyMsg, m.keys.Filter):
		m.filtering = true
		return m, m.filter.Focus()
	case keyMsg.String() == "esc" && m.filter.Value() != "":
		m.filter.SetValue("")
		m.flatten()
	}
	return m, nil
}

// View renders the sidebar.
func (m Sidebar) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	th := m.theme

	// Account for border (left + right = 2, top + bottom = 2).
	innerW := max(m.width-2, 1)
	innerH := max(m.height-2, 1)

	titleLine := th.SidebarTitle.Width(innerW).Render(" Schema ")
	header := []string{titleLine}
	if m.filtering || m.filter.Value() != "" {
		m.filter.Width = max(innerW-4, 1)
		header = append(header, m.filter.View())
	}

	var body string
	switch {
	case m.loading:
		body = "\n  Loading schema..."
	case len(m.nodes) == 0:
		body = "\n  No schema loaded.\n  Pass --schema or --dsn."
	case len(m.flat) == 0:
		body = th.MutedText.Render("  no matches")
	default:
		contentHeight := max(innerH-len(header), 1)
		end := min(m.offset+contentHeight, len(m.flat))
		lines := make([]string, 0, end-m.offset)
		for i := m.offset; i < end; i++ {
			lines = append(lines, m.renderNode(m.flat[i], i == m.cursor, innerW))
		}
		body = strings.Join(lines, "\n")
	}

	content := strings.Join(append(header, body), "\n")
	return m.borderStyle().Width(innerW).Height(innerH).Render(content)
}

func (m Sidebar) renderNode(node *TreeNode, selected bool, width int) string {
	th := m.theme
	indent := strings.Repeat("  ", node.Depth)

	expandIcon := "  "
	if len(node.Children) > 0 {
		if node.Expanded {
			expandIcon = "▼ "
		} else {
			expandIcon = "▶ "
		}
	}

	label := node.Label
	if node.Kind == NodeColumn && node.ColType != "" {
		label = fmt.Sprintf("%s %s", node.Label, node.ColType)
	}
	if node.IsPK {
		label += " ⚷"
	}

	line := indent + expandIcon + label
	line = runewidth.Truncate(line, width, "…")
	line = runewidth.FillRight(line, width)

	if selected && m.focused {
		return th.SidebarSelected.Render(line)
	}
	switch node.Kind {
	case NodeTable:
		return th.SidebarTable.Render(line)
	default:
		if node.IsPK {
			return th.SidebarKey.Render(line)
		}
		return th.SidebarColumn.Render(line)
	}
}

func (m Sidebar) borderStyle() lipgloss.Style {
	if m.focused {
		return m.theme.FocusedBorder
	}
	return m.theme.UnfocusedBorder
}

func (m *Sidebar) toggle(expand bool) {
	if m.cursor >= len(m.flat) {
		return
	}
	node := m.flat[m.cursor]
	if len(node.Children) == 0 || node.Expanded == expand {
		return
	}
	node.Expanded = expand
	m.flatten()
}

// flatten recomputes the visible rows. With an active filter the rows are
// the engine's fuzzy matches, flat and best first.
func (m *Sidebar) flatten() {
	m.flat = nil
	if q := m.filter.Value(); q != "" && m.engine != nil {
		for _, it := range m.engine.Search(q) {
			n := &TreeNode{Label: it.Label, Table: it.Table, Column: it.Column}
			if it.Kind == completion.KindColumn {
				n.Kind = NodeColumn
				n.ColType = it.Detail
			}
			m.flat = append(m.flat, n)
		}
	} else {
		for _, node := range m.nodes {
			m.flattenNode(node)
		}
	}
	if m.cursor >= len(m.flat) {
		m.cursor = len(m.flat) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Sidebar) flattenNode(node *TreeNode) {
	m.flat = append(m.flat, node)
	if node.Expanded {
		for _, child := range node.Children {
			m.flattenNode(child)
		}
	}
}

func (m *Sidebar) ensureVisible() {
	contentHeight := max(m.height-3, 1)
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+contentHeight {
		m.offset = m.cursor - contentHeight + 1
	}
}

// Selected returns the node under the cursor, or nil.
func (m Sidebar) Selected() *TreeNode {
	if m.cursor < 0 || m.cursor >= len(m.flat) {
		return nil
	}
	return m.flat[m.cursor]
}

// Filtering reports whether the filter input has the keyboard.
func (m Sidebar) Filtering() bool { return m.filtering }

// SetSize sets the sidebar dimensions.
func (m *Sidebar) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// SetKeyMap replaces the navigation bindings.
func (m *Sidebar) SetKeyMap(keys KeyMap) { m.keys = keys }

// Focus focuses the sidebar.
func (m *Sidebar) Focus() { m.focused = true }

// Blur unfocuses the sidebar.
func (m *Sidebar) Blur() { m.focused = false }

// Focused returns whether the sidebar is focused.
func (m Sidebar) Focused() bool { return m.focused }

// SetLoading sets the loading state.
func (m *Sidebar) SetLoading(loading bool) { m.loading = loading }

func buildTree(tables []schema.Table) []*TreeNode {
	nodes := make([]*TreeNode, 0, len(tables))
	for _, t := range tables {
		tableNode := &TreeNode{
			Label:    t.Name,
			Kind:     NodeTable,
			Table:    t.Name,
			Expanded: len(tables) == 1,
		}
		for _, c := range t.Columns {
			tableNode.Children = append(tableNode.Children, &TreeNode{
				Label:   c.Name,
				Kind:    NodeColumn,
				Depth:   1,
				Table:   t.Name,
				Column:  c.Name,
				ColType: c.Type,
				IsPK:    c.IsPrimaryKey,
			})
		}
		nodes = append(nodes, tableNode)
	}
	return nodes
}

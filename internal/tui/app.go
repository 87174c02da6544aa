// Package tui is the interactive terminal front end: a schema browser, the
// clause list of the statement being built and a live SQL preview.
package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/querycraft/internal/audit"
	"github.com/sadopc/querycraft/internal/completion"
	"github.com/sadopc/querycraft/internal/config"
	"github.com/sadopc/querycraft/internal/export"
	"github.com/sadopc/querycraft/internal/history"
	"github.com/sadopc/querycraft/internal/query"
	"github.com/sadopc/querycraft/internal/schema"
	"github.com/sadopc/querycraft/internal/source"
	"github.com/sadopc/querycraft/internal/sqlgen"
	"github.com/sadopc/querycraft/internal/theme"
)

// introspectTimeout bounds one schema load from a live database.
const introspectTimeout = 30 * time.Second

var errIncomplete = errors.New("statement is incomplete")

// zoneTypes lists the statement kinds each drop zone belongs to.
var zoneTypes = map[query.Zone][]query.Type{
	query.ZoneFrom:        {query.Select},
	query.ZoneJoin:        {query.Select},
	query.ZoneSelect:      {query.Select},
	query.ZoneGroupBy:     {query.Select},
	query.ZoneOrderBy:     {query.Select},
	query.ZoneWhere:       {query.Select, query.Update, query.Delete},
	query.ZoneInsertTable: {query.Insert},
	query.ZoneInsertField: {query.Insert},
	query.ZoneUpdateTable: {query.Update},
	query.ZoneUpdateField: {query.Update},
	query.ZoneDeleteTable: {query.Delete},
}

// Options configures a new Model.
type Options struct {
	Config  *config.Config
	History *history.History // nil disables history
	Audit   *audit.Logger    // nil disables the audit journal
	Logger  *slog.Logger

	// SchemaText is DDL to start from; SchemaName labels it.
	SchemaText string
	SchemaName string

	// Adapter and DSN name a live database to introspect on start. An
	// empty Adapter is detected from the DSN.
	Adapter string
	DSN     string

	// State, when set, restores a saved builder state.
	State *query.State
}

// Model is the root application model.
type Model struct {
	// Layout
	width         int
	height        int
	sidebarWidth  int
	builderHeight int // percentage of the right column for the builder

	focusedPane Pane

	// Components
	sidebar     Sidebar
	builder     Builder
	preview     Preview
	statusbar   StatusBar
	histBrowser HistoryBrowser
	help        help.Model
	spinner     spinner.Model
	editor      *fieldEditor

	// Query
	query  *query.Model
	gen    *sqlgen.Generator
	engine *completion.Engine

	// Config and sinks
	cfg     *config.Config
	history *history.History
	audit   *audit.Logger
	log     *slog.Logger

	// Live schema source
	adapter   string
	dsn       string
	schemaGen uint64

	// Keybinding
	keyMap  KeyMap
	keyMode KeyMode
	theme   *theme.Theme

	// State
	showHelp bool
	loading  bool
	quitting bool
}

// New creates a new app model.
func New(opts Options) Model {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	adapter := opts.Adapter
	if adapter == "" && opts.DSN != "" {
		adapter = source.Detect(opts.DSN)
	}

	keyMode := ParseKeyMode(cfg.KeyMode)
	km := KeyMapFor(keyMode)
	th := theme.Get(cfg.Theme)

	s := spinner.New()
	s.Spinner = spinner.Dot

	engine := completion.NewEngine(adapter)
	gen := sqlgen.New(sqlgen.Options{
		Format:            cfg.Format.Enabled,
		UppercaseKeywords: cfg.Format.UppercaseKeywords,
		MaxLineWidth:      cfg.Format.MaxLineWidth,
	}, log)

	m := Model{
		sidebarWidth:  30,
		builderHeight: 55,
		focusedPane:   PaneSidebar,

		sidebar:     NewSidebar(th, engine, km),
		builder:     NewBuilder(th, km),
		preview:     NewPreview(th, adapter, km),
		statusbar:   NewStatusBar(th, km),
		histBrowser: NewHistoryBrowser(th, opts.History),
		help:        help.New(),
		spinner:     s,

		query:  query.New(),
		gen:    gen,
		engine: engine,

		cfg:     cfg,
		history: opts.History,
		audit:   opts.Audit,
		log:     log,

		adapter: adapter,
		dsn:     opts.DSN,

		keyMap:  km,
		keyMode: keyMode,
		theme:   th,
	}

	if opts.SchemaText != "" {
		m.query.SetSchema(opts.SchemaText)
		m.setTables()
	}
	if opts.State != nil {
		m.query.Restore(*opts.State)
	}

	switch {
	case m.dsn != "":
		m.statusbar.SetSource(adapter + "://" + audit.SanitizeDSN(m.dsn))
		m.loading = true
		m.sidebar.SetLoading(true)
	case opts.SchemaName != "":
		m.statusbar.SetSource(opts.SchemaName)
	}
	m.statusbar.SetKeyMode(keyMode, km)
	m.sidebar.Focus()
	m.refresh()
	return m
}

// Init starts the schema load when a DSN was given.
func (m Model) Init() tea.Cmd {
	if m.dsn == "" {
		return nil
	}
	return tea.Batch(m.spinner.Tick, m.loadSchema())
}

// Update handles all messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		return m, nil

	case tea.KeyMsg:
		// History browser takes priority
		if m.histBrowser.Visible() {
			var cmd tea.Cmd
			m.histBrowser, cmd = m.histBrowser.Update(msg)
			return m, cmd
		}

		// Help overlay consumes all keys except toggle/close
		if m.showHelp {
			switch msg.String() {
			case "?", "f1", "esc", "q":
				m.showHelp = false
			}
			return m, nil
		}

		if m.editor != nil {
			return m, m.handleEditorKey(msg)
		}

		if m.focusedPane == PaneSidebar && m.sidebar.Filtering() {
			var cmd tea.Cmd
			m.sidebar, cmd = m.sidebar.Update(msg)
			return m, cmd
		}

		if cmd, handled := m.handleGlobalKeys(msg); handled {
			return m, cmd
		}
		if cmd := m.handleFocusedPaneKey(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}

	case SchemaLoadedMsg:
		if msg.Gen != m.schemaGen {
			break // stale result from an earlier load
		}
		m.loading = false
		m.query.SetCatalog(schema.DDL(msg.Catalog), msg.Catalog)
		m.setTables()
		m.refresh()
		m.log.Info("schema loaded", "adapter", m.adapter, "tables", len(msg.Catalog.Tables))
		cmds = append(cmds, m.setStatus(fmt.Sprintf("Loaded %d tables", len(msg.Catalog.Tables)), false))

	case SchemaErrMsg:
		if msg.Gen != m.schemaGen {
			break
		}
		m.loading = false
		m.sidebar.SetLoading(false)
		m.log.Error("schema load failed", "adapter", m.adapter, "error", msg.Err)
		cmds = append(cmds, m.setStatus("Schema load failed: "+msg.Err.Error(), true))

	case ExportCompleteMsg:
		m.log.Info("sql exported", "path", msg.Path)
		cmds = append(cmds, m.setStatus("Exported SQL to "+msg.Path, false))

	case ExportErrMsg:
		m.log.Warn("export failed", "error", msg.Err)
		cmds = append(cmds, m.setStatus("Export failed: "+msg.Err.Error(), true))

	case StateSavedMsg:
		cmds = append(cmds, m.setStatus("Saved state to "+msg.Path, false))

	case SelectQueryMsg:
		m.preview.Pin(msg.Query)
		cmds = append(cmds, m.setStatus("Showing statement from history", false))

	case StatusMsg:
		cmds = append(cmds, m.setStatus(msg.Text, msg.IsError))

	case ClearStatusMsg:
		m.statusbar, _ = m.statusbar.Update(msg)

	case ToggleKeyModeMsg:
		if m.keyMode == KeyModeStandard {
			m.keyMode = KeyModeVim
		} else {
			m.keyMode = KeyModeStandard
		}
		m.setKeyMap(KeyMapFor(m.keyMode))

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	default:
		// Cursor blinks and the like go to whichever input is live.
		var cmd tea.Cmd
		switch {
		case m.histBrowser.Visible():
			m.histBrowser, cmd = m.histBrowser.Update(msg)
		case m.editor != nil:
			cmd = m.editor.Update(msg)
		case m.sidebar.Filtering():
			m.sidebar, cmd = m.sidebar.Update(msg)
		}
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) handleGlobalKeys(msg tea.KeyMsg) (tea.Cmd, bool) {
	k := m.keyMap
	switch {
	case key.Matches(msg, k.Quit):
		m.quitting = true
		return tea.Quit, true

	case key.Matches(msg, k.Help):
		m.showHelp = !m.showHelp
		return nil, true

	case key.Matches(msg, k.FocusNext):
		m.cycleFocus(1)
		return nil, true

	case key.Matches(msg, k.FocusPrev):
		m.cycleFocus(-1)
		return nil, true

	case key.Matches(msg, k.TypeSelect):
		return m.setQueryType(query.Select), true
	case key.Matches(msg, k.TypeInsert):
		return m.setQueryType(query.Insert), true
	case key.Matches(msg, k.TypeUpdate):
		return m.setQueryType(query.Update), true
	case key.Matches(msg, k.TypeDelete):
		return m.setQueryType(query.Delete), true

	case key.Matches(msg, k.Distinct):
		if m.query.Type() != query.Select {
			return m.setStatus("DISTINCT applies to SELECT only", true), true
		}
		m.query.SetDistinct(!m.query.State().Distinct)
		m.refresh()
		return nil, true

	case key.Matches(msg, k.Limit):
		if m.query.Type() != query.Select {
			return m.setStatus("LIMIT applies to SELECT only", true), true
		}
		return m.openEditor(row{kind: itemLimit}), true

	case key.Matches(msg, k.Export):
		return m.exportSQL(), true

	case key.Matches(msg, k.SaveState):
		return m.saveState(), true

	case key.Matches(msg, k.History):
		m.histBrowser.SetSize(m.width, m.height)
		return m.histBrowser.Show(), true

	case key.Matches(msg, k.RefreshSchema):
		if m.dsn == "" {
			return m.setStatus("No database to refresh from", true), true
		}
		m.schemaGen++
		m.loading = true
		m.sidebar.SetLoading(true)
		return tea.Batch(m.spinner.Tick, m.loadSchema()), true

	case key.Matches(msg, k.ToggleKeyMode):
		return func() tea.Msg { return ToggleKeyModeMsg{} }, true
	}
	return nil, false
}

func (m *Model) handleFocusedPaneKey(msg tea.KeyMsg) tea.Cmd {
	switch m.focusedPane {
	case PaneSidebar:
		if node := m.sidebar.Selected(); node != nil {
			if zone, ok := m.sidebarZone(msg, node); ok {
				return m.drop(node, zone)
			}
		}
		var cmd tea.Cmd
		m.sidebar, cmd = m.sidebar.Update(msg)
		return cmd

	case PaneBuilder:
		if cmd, handled := m.handleBuilderKey(msg); handled {
			return cmd
		}
		var cmd tea.Cmd
		m.builder, cmd = m.builder.Update(msg)
		return cmd

	case PanePreview:
		var cmd tea.Cmd
		m.preview, cmd = m.preview.Update(msg)
		return cmd
	}
	return nil
}

// sidebarZone maps a key on a sidebar node to the drop zone it targets.
func (m *Model) sidebarZone(msg tea.KeyMsg, node *TreeNode) (query.Zone, bool) {
	k := m.keyMap
	if node.Kind == NodeTable {
		switch {
		case key.Matches(msg, k.AddFrom):
			return query.ZoneFrom, true
		case key.Matches(msg, k.AddJoin):
			return query.ZoneJoin, true
		case key.Matches(msg, k.SetInsertTable):
			return query.ZoneInsertTable, true
		case key.Matches(msg, k.SetUpdateTable):
			return query.ZoneUpdateTable, true
		case key.Matches(msg, k.SetDeleteTable):
			return query.ZoneDeleteTable, true
		}
		return "", false
	}
	switch {
	case key.Matches(msg, k.AddSelect):
		return query.ZoneSelect, true
	case key.Matches(msg, k.AddWhere):
		return query.ZoneWhere, true
	case key.Matches(msg, k.AddGroupBy):
		return query.ZoneGroupBy, true
	case key.Matches(msg, k.AddOrderBy):
		return query.ZoneOrderBy, true
	case key.Matches(msg, k.AddInsertField):
		return query.ZoneInsertField, true
	case key.Matches(msg, k.AddSetField):
		return query.ZoneUpdateField, true
	}
	return "", false
}

// drop applies a sidebar node to zone, refusing zones that do not belong
// to the current statement kind.
func (m *Model) drop(node *TreeNode, zone query.Zone) tea.Cmd {
	t := m.query.Type()
	allowed := false
	for _, zt := range zoneTypes[zone] {
		if zt == t {
			allowed = true
			break
		}
	}
	if !allowed {
		return m.setStatus(fmt.Sprintf("%s is not part of %s statements", zone, t), true)
	}

	d := query.Drag{Kind: query.DragTable, Table: node.Table}
	if node.Kind == NodeColumn {
		d.Kind = query.DragColumn
		d.Column = node.Column
	}
	id, ok := m.query.Drop(d, zone)
	if !ok {
		return nil
	}
	if zone == query.ZoneJoin {
		m.suggestJoinCondition(id, node.Table)
	}
	m.log.Debug("drop", "zone", string(zone), "table", d.Table, "column", d.Column)
	m.refresh()
	return nil
}

// suggestJoinCondition fills the ON clause of a new join from a foreign
// key between the joined table and one already in FROM. Self-referencing
// keys are left for the user to write with aliases.
func (m *Model) suggestJoinCondition(id query.ID, table string) {
	s := m.query.State()
	inFrom := make(map[string]bool, len(s.FromTables))
	for _, t := range s.FromTables {
		inFrom[t.Table] = true
	}
	for _, r := range m.query.Relationships() {
		// A self-reference needs aliases to be unambiguous.
		if r.FromTable == r.ToTable {
			continue
		}
		var cond string
		switch {
		case r.FromTable == table && inFrom[r.ToTable]:
			cond = r.FromTable + "." + r.FromColumn + " = " + r.ToTable + "." + r.ToColumn
		case r.ToTable == table && inFrom[r.FromTable]:
			cond = r.FromTable + "." + r.FromColumn + " = " + r.ToTable + "." + r.ToColumn
		default:
			continue
		}
		m.query.UpdateJoin(id, query.JoinPatch{Condition: query.String(cond)})
		return
	}
}

func (m *Model) handleBuilderKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	k := m.keyMap
	if key.Matches(msg, k.AddHaving) {
		if m.query.Type() != query.Select {
			return m.setStatus("HAVING applies to SELECT only", true), true
		}
		return m.openEditor(row{kind: itemHaving}), true
	}

	r, ok := m.builder.Selected()
	if !ok {
		return nil, false
	}
	s := m.query.State()

	switch {
	case key.Matches(msg, k.Remove):
		removeItem(m.query, r)
	case key.Matches(msg, k.Edit):
		return m.openEditor(r), true
	case key.Matches(msg, k.Cycle):
		if !cycleItem(m.query, s, r) {
			return m.setStatus("Nothing to cycle here", true), true
		}
	case key.Matches(msg, k.ToggleNot):
		if !toggleNot(m.query, s, r) {
			return m.setStatus("NOT applies to WHERE conditions", true), true
		}
	case key.Matches(msg, k.ToggleLogic):
		if !toggleLogic(m.query, s, r) {
			return m.setStatus("AND/OR applies to WHERE conditions", true), true
		}
	default:
		return nil, false
	}
	m.refresh()
	return nil, true
}

// openEditor starts typing into the free-text part of r.
func (m *Model) openEditor(r row) tea.Cmd {
	label, value, ok := editable(m.query.State(), r)
	if r.kind == itemHaving && r.id == "" {
		label, ok = "HAVING", true
	}
	if !ok {
		return m.setStatus("Nothing to edit here", true)
	}
	m.editor = newFieldEditor(r, label, value, m.engine)
	m.updateLayout()
	return m.editor.Focus()
}

func (m *Model) handleEditorKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		m.editor = nil
		m.updateLayout()
		return nil
	case "enter":
		e := m.editor
		m.editor = nil
		m.updateLayout()
		if err := applyEdit(m.query, e.target, e.Value()); err != nil {
			return m.setStatus(err.Error(), true)
		}
		m.refresh()
		return nil
	}
	return m.editor.Update(msg)
}

// View renders the entire application.
func (m Model) View() string {
	if m.quitting {
		return "Goodbye!\n"
	}
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}
	th := m.theme

	if m.showHelp {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.renderHelpScreen())
	}
	if m.histBrowser.Visible() {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.histBrowser.View())
	}

	header := m.renderQueryTypes()
	if m.loading {
		m.statusbar.SetSource(m.spinner.View() + " introspecting " + m.adapter)
	}
	statusBar := m.statusbar.View()

	var editorView string
	if m.editor != nil {
		editorView = m.editor.View(th, m.width)
	}

	m.layout(lipgloss.Height(header), lipgloss.Height(statusBar), editorHeight(editorView))
	right := lipgloss.JoinVertical(lipgloss.Left, m.builder.View(), m.preview.View())
	content := lipgloss.JoinHorizontal(lipgloss.Top, m.sidebar.View(), right)

	parts := []string{header, content}
	if editorView != "" {
		parts = append(parts, editorView)
	}
	parts = append(parts, statusBar)
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func editorHeight(view string) int {
	if view == "" {
		return 0
	}
	return lipgloss.Height(view)
}

func (m Model) renderQueryTypes() string {
	current := m.query.Type()
	tabs := make([]string, len(query.Types))
	for i, t := range query.Types {
		label := fmt.Sprintf(" %d %s ", i+1, t)
		if t == current {
			tabs[i] = m.theme.QueryTypeActive.Render(label)
		} else {
			tabs[i] = m.theme.QueryTypeInactive.Render(label)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) renderHelpScreen() string {
	th := m.theme
	h := m.help
	h.Width = max(m.width-6, 20)
	var b strings.Builder
	b.WriteString(th.SidebarTitle.Render("  querycraft - Keyboard Shortcuts"))
	b.WriteString("\n\n")
	b.WriteString(h.FullHelpView(m.keyMap.FullHelp()))
	b.WriteString("\n\n")
	b.WriteString(th.MutedText.Render("  Table keys act on a table row of the schema, column keys on a column row."))
	b.WriteString("\n")
	b.WriteString(th.MutedText.Render("  Press ? / Esc to close"))
	return th.InputBorder.Render(b.String())
}

// updateLayout sizes the panes for the current window, assuming one line
// each for the header and the status bar.
func (m *Model) updateLayout() {
	editorH := 0
	if m.editor != nil {
		editorH = 3
		if len(m.editor.suggestions) > 0 {
			editorH++
		}
	}
	m.layout(1, 1, editorH)
	m.statusbar.SetSize(m.width)
	m.histBrowser.SetSize(m.width, m.height)
}

func (m *Model) layout(headerH, statusH, editorH int) {
	mainH := max(m.height-headerH-statusH-editorH, 3)
	sideW := min(m.sidebarWidth, m.width/2)
	rightW := max(m.width-sideW, 10)
	builderH := max(mainH*m.builderHeight/100, 3)
	previewH := max(mainH-builderH, 3)

	m.sidebar.SetSize(sideW, mainH)
	m.builder.SetSize(rightW, builderH)
	m.preview.SetSize(rightW, previewH)
	m.statusbar.SetSize(m.width)
}

func (m *Model) cycleFocus(direction int) {
	panes := []Pane{PaneSidebar, PaneBuilder, PanePreview}
	next := (int(m.focusedPane) + direction + len(panes)) % len(panes)
	m.setFocus(panes[next])
}

func (m *Model) setFocus(pane Pane) {
	m.sidebar.Blur()
	m.builder.Blur()
	m.preview.Blur()

	m.focusedPane = pane
	switch pane {
	case PaneSidebar:
		m.sidebar.Focus()
	case PaneBuilder:
		m.builder.Focus()
	case PanePreview:
		m.preview.Focus()
	}
}

func (m *Model) setKeyMap(km KeyMap) {
	m.keyMap = km
	m.sidebar.SetKeyMap(km)
	m.builder.SetKeyMap(km)
	m.preview.SetKeyMap(km)
	m.statusbar.SetKeyMode(m.keyMode, km)
}

func (m *Model) setQueryType(t query.Type) tea.Cmd {
	m.query.SetQueryType(t)
	m.refresh()
	return nil
}

func (m *Model) setStatus(text string, isError bool) tea.Cmd {
	var cmd tea.Cmd
	m.statusbar, cmd = m.statusbar.Update(StatusMsg{Text: text, IsError: isError})
	return cmd
}

// setTables pushes the model's tables to the sidebar and the completion
// engine.
func (m *Model) setTables() {
	tables := m.query.Tables()
	m.engine.SetTables(tables)
	m.sidebar.SetTables(tables)
}

// refresh re-renders everything derived from the query state.
func (m *Model) refresh() {
	s := m.query.State()
	m.builder.Refresh(s)
	m.preview.SetSQL(m.gen.Generate(s))
	m.statusbar.SetQueryType(s.Type)
}

func (m *Model) loadSchema() tea.Cmd {
	adapter, dsn, gen := m.adapter, m.dsn, m.schemaGen
	aud := m.audit
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), introspectTimeout)
		defer cancel()

		cat, err := source.Introspect(ctx, adapter, dsn)
		entry := audit.Entry{Action: audit.ActionIntrospect, Adapter: adapter, DSN: dsn}
		if err != nil {
			entry.Error = err.Error()
		}
		aud.Log(entry)
		if err != nil {
			return SchemaErrMsg{Err: err, Gen: gen}
		}
		return SchemaLoadedMsg{Catalog: cat, Gen: gen}
	}
}

// exportSQL writes the generated statement to the configured export path
// and records it in history and the audit journal.
func (m *Model) exportSQL() tea.Cmd {
	s := m.query.State()
	sql := m.gen.Generate(s)
	path := m.cfg.ExportPath()
	hist, aud, log := m.history, m.audit, m.log

	return func() tea.Msg {
		if strings.HasPrefix(strings.TrimSpace(sql), "--") {
			return ExportErrMsg{Err: errIncomplete}
		}

		entry := audit.Entry{Action: audit.ActionExport, QueryType: string(s.Type), SQL: sql, Path: path}
		if err := export.WriteSQL(path, sql); err != nil {
			entry.Error = err.Error()
			aud.Log(entry)
			return ExportErrMsg{Err: err}
		}
		aud.Log(entry)

		if hist != nil {
			if err := hist.Add(history.Entry{Query: sql, QueryType: string(s.Type)}); err != nil {
				log.Warn("history add failed", "error", err)
			}
		}
		return ExportCompleteMsg{Path: path}
	}
}

// saveState writes the builder state as YAML next to the export file.
func (m *Model) saveState() tea.Cmd {
	s := m.query.State()
	exportPath := m.cfg.ExportPath()
	path := strings.TrimSuffix(exportPath, filepath.Ext(exportPath)) + ".yaml"
	aud := m.audit

	return func() tea.Msg {
		entry := audit.Entry{Action: audit.ActionSaveState, QueryType: string(s.Type), Path: path}
		if err := export.SaveState(path, s); err != nil {
			entry.Error = err.Error()
			aud.Log(entry)
			return ExportErrMsg{Err: err}
		}
		aud.Log(entry)
		return StateSavedMsg{Path: path}
	}
}

// Query returns the builder model, for inspection after the program exits.
func (m Model) Query() *query.Model { return m.query }

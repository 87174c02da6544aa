package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/sadopc/querycraft/internal/query"
	"github.com/sadopc/querycraft/internal/theme"
)

// itemKind identifies which part of the state a builder row shows.
type itemKind int

const (
	itemHeader itemKind = iota
	itemField
	itemFrom
	itemJoin
	itemWhere
	itemGroupBy
	itemHaving
	itemOrderBy
	itemInsertTable
	itemInsertField
	itemUpdateTable
	itemSetField
	itemDeleteTable
	itemLimit
)

var errBadLimit = errors.New("limit must be a non-negative whole number")

// row is one line of the builder pane. Header rows carry only text.
type row struct {
	kind itemKind
	id   query.ID
	text string
}

func (r row) selectable() bool { return r.kind != itemHeader }

// rows lays the clauses of s out in statement order. Empty clauses keep
// their header so the user sees where a drop would land.
func rows(s query.State) []row {
	var out []row
	header := func(title string) { out = append(out, row{kind: itemHeader, text: title}) }
	table := func(kind itemKind, name string) {
		if name != "" {
			out = append(out, row{kind: kind, text: name})
		}
	}

	switch s.Type {
	case query.Select:
		title := "SELECT"
		if s.Distinct {
			title = "SELECT DISTINCT"
		}
		header(title)
		for _, f := range s.SelectedFields {
			text := f.Table + "." + f.Column
			if f.Function != "" {
				text = f.Function + "(" + text + ")"
			}
			if f.Alias != "" {
				text += " AS " + f.Alias
			}
			out = append(out, row{kind: itemField, id: f.ID, text: text})
		}
		header("FROM")
		for _, t := range s.FromTables {
			text := t.Table
			if t.Alias != "" {
				text += " AS " + t.Alias
			}
			out = append(out, row{kind: itemFrom, id: t.ID, text: text})
		}
		header("JOIN")
		for _, j := range s.Joins {
			typ := j.Type
			if typ == "" {
				typ = "INNER"
			}
			text := typ + " " + j.Table
			if j.Alias != "" {
				text += " AS " + j.Alias
			}
			if j.Condition != "" {
				text += " ON " + j.Condition
			}
			out = append(out, row{kind: itemJoin, id: j.ID, text: text})
		}
		out = appendWhere(out, s.Where)
		header("GROUP BY")
		for _, g := range s.GroupBy {
			out = append(out, row{kind: itemGroupBy, id: g.ID, text: g.Table + "." + g.Column})
		}
		header("HAVING")
		for _, h := range s.Having {
			out = append(out, row{kind: itemHaving, id: h.ID, text: h.Condition})
		}
		header("ORDER BY")
		for _, o := range s.OrderBy {
			out = append(out, row{kind: itemOrderBy, id: o.ID, text: o.Table + "." + o.Column + " " + o.Direction})
		}
		if s.Limit != nil && *s.Limit != 0 {
			header("LIMIT")
			out = append(out, row{kind: itemLimit, text: strconv.Itoa(*s.Limit)})
		}

	case query.Insert:
		header("INSERT INTO")
		table(itemInsertTable, s.InsertTable)
		header("VALUES")
		for _, a := range s.InsertFields {
			out = append(out, row{kind: itemInsertField, id: a.ID, text: assignmentText(a)})
		}

	case query.Update:
		header("UPDATE")
		table(itemUpdateTable, s.UpdateTable)
		header("SET")
		for _, a := range s.SetFields {
			out = append(out, row{kind: itemSetField, id: a.ID, text: assignmentText(a)})
		}
		out = appendWhere(out, s.Where)

	case query.Delete:
		header("DELETE FROM")
		table(itemDeleteTable, s.DeleteTable)
		out = appendWhere(out, s.Where)
	}
	return out
}

func appendWhere(out []row, conds []query.Condition) []row {
	out = append(out, row{kind: itemHeader, text: "WHERE"})
	for i, c := range conds {
		var b strings.Builder
		if i > 0 {
			logic := c.Logic
			if logic == "" {
				logic = "AND"
			}
			b.WriteString(logic + " ")
		}
		if c.Not {
			b.WriteString("NOT ")
		}
		b.WriteString(c.Field + " " + c.Operator)
		if c.Value != "" {
			b.WriteString(" " + c.Value)
		}
		out = append(out, row{kind: itemWhere, id: c.ID, text: b.String()})
	}
	return out
}

func assignmentText(a query.Assignment) string {
	v := a.Value
	if v == "" {
		v = "''"
	}
	return a.Column + " = " + v
}

// ---------------------------------------------------------------------------
// Item operations
// ---------------------------------------------------------------------------

// removeItem deletes the element r shows. Removing a FROM table cascades
// through the model.
func removeItem(m *query.Model, r row) {
	switch r.kind {
	case itemField:
		m.RemoveSelectedField(r.id)
	case itemFrom:
		m.RemoveFromTable(r.id)
	case itemJoin:
		m.RemoveJoin(r.id)
	case itemWhere:
		m.RemoveWhereCondition(r.id)
	case itemGroupBy:
		m.RemoveGroupBy(r.id)
	case itemHaving:
		m.RemoveHaving(r.id)
	case itemOrderBy:
		m.RemoveOrderBy(r.id)
	case itemInsertTable:
		m.SetInsertTable("")
	case itemInsertField:
		m.RemoveInsertField(r.id)
	case itemUpdateTable:
		m.SetUpdateTable("")
	case itemSetField:
		m.RemoveSetField(r.id)
	case itemDeleteTable:
		m.SetDeleteTable("")
	case itemLimit:
		m.SetLimit(nil)
	}
}

// editable returns the label and current value of the free-text part of
// the element r shows. ok is false for elements with nothing to type.
func editable(s query.State, r row) (label, value string, ok bool) {
	switch r.kind {
	case itemField:
		if f, found := find(s.SelectedFields, r.id, func(f query.SelectedField) query.ID { return f.ID }); found {
			return "alias", f.Alias, true
		}
	case itemFrom:
		if t, found := find(s.FromTables, r.id, func(t query.FromTable) query.ID { return t.ID }); found {
			return "alias", t.Alias, true
		}
	case itemJoin:
		if j, found := find(s.Joins, r.id, func(j query.Join) query.ID { return j.ID }); found {
			return "ON", j.Condition, true
		}
	case itemWhere:
		if c, found := find(s.Where, r.id, func(c query.Condition) query.ID { return c.ID }); found {
			return "value", c.Value, true
		}
	case itemHaving:
		if h, found := find(s.Having, r.id, func(h query.Having) query.ID { return h.ID }); found {
			return "HAVING", h.Condition, true
		}
	case itemInsertField:
		if a, found := find(s.InsertFields, r.id, func(a query.Assignment) query.ID { return a.ID }); found {
			return "value", a.Value, true
		}
	case itemSetField:
		if a, found := find(s.SetFields, r.id, func(a query.Assignment) query.ID { return a.ID }); found {
			return "value", a.Value, true
		}
	case itemLimit:
		if s.Limit != nil && *s.Limit != 0 {
			return "LIMIT", strconv.Itoa(*s.Limit), true
		}
		return "LIMIT", "", true
	}
	return "", "", false
}

// applyEdit stores value as the free-text part of the element r shows. A
// LIMIT must be a whole number; blank clears it.
func applyEdit(m *query.Model, r row, value string) error {
	if r.kind == itemLimit {
		value = strings.TrimSpace(value)
		if value == "" {
			m.SetLimit(nil)
			return nil
		}
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("%w: %q", errBadLimit, value)
		}
		m.SetLimit(&n)
		return nil
	}

	v := query.String(value)
	switch r.kind {
	case itemField:
		m.UpdateSelectedField(r.id, query.SelectedFieldPatch{Alias: v})
	case itemFrom:
		m.UpdateFromTable(r.id, query.FromTablePatch{Alias: v})
	case itemJoin:
		m.UpdateJoin(r.id, query.JoinPatch{Condition: v})
	case itemWhere:
		m.UpdateWhereCondition(r.id, query.ConditionPatch{Value: v})
	case itemHaving:
		if r.id == "" {
			// a new condition; blank input adds nothing
			if strings.TrimSpace(value) != "" {
				m.AddHaving(query.Having{Condition: value})
			}
			return nil
		}
		m.UpdateHaving(r.id, query.HavingPatch{Condition: v})
	case itemInsertField:
		m.UpdateInsertField(r.id, query.AssignmentPatch{Value: v})
	case itemSetField:
		m.UpdateSetField(r.id, query.AssignmentPatch{Value: v})
	}
	return nil
}

// cycleItem advances the enumerated choice of the element r shows:
// function, join type, operator or direction. It reports whether r has one.
func cycleItem(m *query.Model, s query.State, r row) bool {
	switch r.kind {
	case itemField:
		if f, ok := find(s.SelectedFields, r.id, func(f query.SelectedField) query.ID { return f.ID }); ok {
			m.UpdateSelectedField(r.id, query.SelectedFieldPatch{Function: query.String(query.Cycle(query.Functions, f.Function))})
			return true
		}
	case itemJoin:
		if j, ok := find(s.Joins, r.id, func(j query.Join) query.ID { return j.ID }); ok {
			m.UpdateJoin(r.id, query.JoinPatch{Type: query.String(query.Cycle(query.JoinTypes, j.Type))})
			return true
		}
	case itemWhere:
		if c, ok := find(s.Where, r.id, func(c query.Condition) query.ID { return c.ID }); ok {
			m.UpdateWhereCondition(r.id, query.ConditionPatch{Operator: query.String(query.Cycle(query.Operators, c.Operator))})
			return true
		}
	case itemOrderBy:
		if o, ok := find(s.OrderBy, r.id, func(o query.OrderBy) query.ID { return o.ID }); ok {
			m.UpdateOrderBy(r.id, query.OrderByPatch{Direction: query.String(query.Cycle(query.Directions, o.Direction))})
			return true
		}
	}
	return false
}

// toggleNot flips NOT on a WHERE condition.
func toggleNot(m *query.Model, s query.State, r row) bool {
	if r.kind != itemWhere {
		return false
	}
	c, ok := find(s.Where, r.id, func(c query.Condition) query.ID { return c.ID })
	if !ok {
		return false
	}
	m.UpdateWhereCondition(r.id, query.ConditionPatch{Not: query.Bool(!c.Not)})
	return true
}

// toggleLogic switches a WHERE condition between AND and OR.
func toggleLogic(m *query.Model, s query.State, r row) bool {
	if r.kind != itemWhere {
		return false
	}
	c, ok := find(s.Where, r.id, func(c query.Condition) query.ID { return c.ID })
	if !ok {
		return false
	}
	m.UpdateWhereCondition(r.id, query.ConditionPatch{Logic: query.String(query.Cycle(query.Logics, c.Logic))})
	return true
}

func find[T any](items []T, id query.ID, idOf func(T) query.ID) (T, bool) {
	for _, it := range items {
		if idOf(it) == id {
			return it, true
		}
	}
	var zero T
	return zero, false
}

// ---------------------------------------------------------------------------
// Pane
// ---------------------------------------------------------------------------

// Builder is the pane listing the clauses of the statement under
// construction. The cursor only ever rests on selectable rows.
type Builder struct {
	rows    []row
	cursor  int
	offset  int
	width   int
	height  int
	focused bool

	keys  KeyMap
	theme *theme.Theme
}

// NewBuilder creates an empty builder pane.
func NewBuilder(th *theme.Theme, keys KeyMap) Builder {
	return Builder{keys: keys, theme: th}
}

// Refresh re-reads s, keeping the cursor on the same position where it can.
func (m *Builder) Refresh(s query.State) {
	m.rows = rows(s)
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	if !m.onSelectable() {
		if !m.step(1) {
			m.step(-1)
		}
	}
	m.ensureVisible()
}

// Selected returns the row under the cursor.
func (m Builder) Selected() (row, bool) {
	if !m.onSelectable() {
		return row{}, false
	}
	return m.rows[m.cursor], true
}

// Update handles cursor movement.
func (m Builder) Update(msg tea.Msg) (Builder, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || !m.focused {
		return m, nil
	}
	switch {
	case key.Matches(keyMsg, m.keys.Up):
		m.step(-1)
	case key.Matches(keyMsg, m.keys.Down):
		m.step(1)
	case key.Matches(keyMsg, m.keys.Top):
		m.cursor = 0
		if !m.onSelectable() {
			m.step(1)
		}
	case key.Matches(keyMsg, m.keys.Bottom):
		m.cursor = max(len(m.rows)-1, 0)
		if !m.onSelectable() {
			m.step(-1)
		}
	}
	m.ensureVisible()
	return m, nil
}

// View renders the builder pane.
func (m Builder) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	th := m.theme
	innerW := max(m.width-2, 1)
	innerH := max(m.height-2, 1)

	end := min(m.offset+innerH, len(m.rows))
	lines := make([]string, 0, innerH)
	for i := m.offset; i < end; i++ {
		r := m.rows[i]
		if !r.selectable() {
			lines = append(lines, th.BuilderSection.Render(runewidth.Truncate(r.text, innerW, "…")))
			if i+1 >= len(m.rows) || !m.rows[i+1].selectable() {
				lines = append(lines, th.BuilderEmpty.Render("  (empty)"))
			}
			continue
		}
		text := runewidth.FillRight(runewidth.Truncate("  "+r.text, innerW, "…"), innerW)
		if i == m.cursor && m.focused {
			lines = append(lines, th.BuilderItemSelected.Render(text))
		} else {
			lines = append(lines, th.BuilderItem.Render(text))
		}
	}
	if len(lines) > innerH {
		lines = lines[:innerH]
	}

	border := th.UnfocusedBorder
	if m.focused {
		border = th.FocusedBorder
	}
	return border.Width(innerW).Height(innerH).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (m Builder) onSelectable() bool {
	return m.cursor >= 0 && m.cursor < len(m.rows) && m.rows[m.cursor].selectable()
}

// step moves the cursor to the next selectable row in direction dir. It
// reports whether one was found; the cursor is unchanged otherwise.
func (m *Builder) step(dir int) bool {
	for i := m.cursor + dir; i >= 0 && i < len(m.rows); i += dir {
		if m.rows[i].selectable() {
			m.cursor = i
			return true
		}
	}
	return false
}

func (m *Builder) ensureVisible() {
	visible := max(m.height-2, 1)
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+visible {
		m.offset = m.cursor - visible + 1
	}
}

// SetSize sets the pane dimensions.
func (m *Builder) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// SetKeyMap replaces the navigation bindings.
func (m *Builder) SetKeyMap(keys KeyMap) { m.keys = keys }

// Focus focuses the pane.
func (m *Builder) Focus() { m.focused = true }

// Blur unfocuses the pane.
func (m *Builder) Blur() { m.focused = false }

package tui

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sadopc/querycraft/internal/query"
	"github.com/sadopc/querycraft/internal/theme"
)

func rowTexts(rs []row) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.text
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// ---------------------------------------------------------------------------
// Layout
// ---------------------------------------------------------------------------

func TestRows_Layout(t *testing.T) {
	limit := 10
	tests := []struct {
		name  string
		state query.State
		want  []string
	}{
		{
			name:  "empty select keeps headers",
			state: query.State{Type: query.Select},
			want:  []string{"SELECT", "FROM", "JOIN", "WHERE", "GROUP BY", "HAVING", "ORDER BY"},
		},
		{
			name: "full select",
			state: query.State{
				Type:           query.Select,
				Distinct:       true,
				SelectedFields: []query.SelectedField{{ID: "f", Table: "users", Column: "id", Function: "COUNT", Alias: "n"}},
				FromTables:     []query.FromTable{{ID: "t", Table: "users", Alias: "u"}},
				Joins:          []query.Join{{ID: "j", Table: "orders", Condition: "orders.user_id = users.id"}},
				Where: []query.Condition{
					{ID: "w1", Field: "users.name", Operator: "=", Value: "'bob'"},
					{ID: "w2", Field: "users.id", Operator: "IS NULL", Logic: "OR", Not: true},
				},
				GroupBy: []query.GroupBy{{ID: "g", Table: "users", Column: "name"}},
				Having:  []query.Having{{ID: "h", Condition: "COUNT(*) > 1"}},
				OrderBy: []query.OrderBy{{ID: "o", Table: "users", Column: "id", Direction: "DESC"}},
				Limit:   &limit,
			},
			want: []string{
				"SELECT DISTINCT", "COUNT(users.id) AS n",
				"FROM", "users AS u",
				"JOIN", "INNER orders ON orders.user_id = users.id",
				"WHERE", "users.name = 'bob'", "OR NOT users.id IS NULL",
				"GROUP BY", "users.name",
				"HAVING", "COUNT(*) > 1",
				"ORDER BY", "users.id DESC",
				"LIMIT", "10",
			},
		},
		{
			name: "insert",
			state: query.State{
				Type:         query.Insert,
				InsertTable:  "users",
				InsertFields: []query.Assignment{{ID: "a", Column: "name"}, {ID: "b", Column: "id", Value: "1"}},
			},
			want: []string{"INSERT INTO", "users", "VALUES", "name = ''", "id = 1"},
		},
		{
			name:  "update without table",
			state: query.State{Type: query.Update},
			want:  []string{"UPDATE", "SET", "WHERE"},
		},
		{
			name:  "delete",
			state: query.State{Type: query.Delete, DeleteTable: "orders"},
			want:  []string{"DELETE FROM", "orders", "WHERE"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := rowTexts(rows(tt.state))
			if !equalStrings(got, tt.want) {
				t.Errorf("rows =\n  %q\nwant\n  %q", got, tt.want)
			}
		})
	}
}

func TestRows_ZeroLimitHidden(t *testing.T) {
	zero := 0
	for _, r := range rows(query.State{Type: query.Select, Limit: &zero}) {
		if r.kind == itemLimit {
			t.Fatal("a zero limit should not produce a LIMIT row")
		}
	}
}

// ---------------------------------------------------------------------------
// Item operations
// ---------------------------------------------------------------------------

func TestRemoveItem_Scalars(t *testing.T) {
	m := query.New()
	m.SetQueryType(query.Delete)
	m.SetDeleteTable("users")
	removeItem(m, row{kind: itemDeleteTable})
	if m.State().DeleteTable != "" {
		t.Errorf("DeleteTable = %q, want empty", m.State().DeleteTable)
	}

	m.SetQueryType(query.Select)
	m.SetLimit(query.Int(5))
	removeItem(m, row{kind: itemLimit})
	if m.State().Limit != nil {
		t.Errorf("Limit = %v, want nil", *m.State().Limit)
	}
}

func TestEditable(t *testing.T) {
	m := query.New()
	fid := m.AddSelectedField(query.SelectedField{Table: "users", Column: "id", Alias: "uid"})
	gid := m.AddGroupBy(query.GroupBy{Table: "users", Column: "id"})
	s := m.State()

	tests := []struct {
		name      string
		r         row
		wantLabel string
		wantValue string
		wantOK    bool
	}{
		{"field alias", row{kind: itemField, id: fid}, "alias", "uid", true},
		{"unknown id", row{kind: itemField, id: "missing"}, "", "", false},
		{"group by has nothing to type", row{kind: itemGroupBy, id: gid}, "", "", false},
		{"limit unset", row{kind: itemLimit}, "LIMIT", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			label, value, ok := editable(s, tt.r)
			if label != tt.wantLabel || value != tt.wantValue || ok != tt.wantOK {
				t.Errorf("editable = (%q, %q, %v), want (%q, %q, %v)",
					label, value, ok, tt.wantLabel, tt.wantValue, tt.wantOK)
			}
		})
	}
}

func TestApplyEdit_Limit(t *testing.T) {
	tests := []struct {
		in      string
		want    *int
		wantErr bool
	}{
		{"25", query.Int(25), false},
		{" 7 ", query.Int(7), false},
		{"", nil, false},
		{"-1", nil, true},
		{"ten", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			m := query.New()
			err := applyEdit(m, row{kind: itemLimit}, tt.in)
			if tt.wantErr {
				if !errors.Is(err, errBadLimit) {
					t.Fatalf("err = %v, want errBadLimit", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			got := m.State().Limit
			switch {
			case tt.want == nil && got != nil:
				t.Errorf("Limit = %d, want nil", *got)
			case tt.want != nil && (got == nil || *got != *tt.want):
				t.Errorf("Limit = %v, want %d", got, *tt.want)
			}
		})
	}
}

func TestApplyEdit_NewHaving(t *testing.T) {
	m := query.New()
	if err := applyEdit(m, row{kind: itemHaving}, "   "); err != nil {
		t.Fatal(err)
	}
	if len(m.State().Having) != 0 {
		t.Fatal("blank input should not add a HAVING condition")
	}
	if err := applyEdit(m, row{kind: itemHaving}, "SUM(total) > 100"); err != nil {
		t.Fatal(err)
	}
	h := m.State().Having
	if len(h) != 1 || h[0].Condition != "SUM(total) > 100" {
		t.Errorf("Having = %+v", h)
	}
}

func TestApplyEdit_Values(t *testing.T) {
	m := query.New()
	jid := m.AddJoin(query.Join{Table: "orders"})
	tid := m.AddFromTable(query.FromTable{Table: "users"})

	if err := applyEdit(m, row{kind: itemJoin, id: jid}, "orders.user_id = users.id"); err != nil {
		t.Fatal(err)
	}
	if err := applyEdit(m, row{kind: itemFrom, id: tid}, "u"); err != nil {
		t.Fatal(err)
	}
	s := m.State()
	if s.Joins[0].Condition != "orders.user_id = users.id" {
		t.Errorf("join condition = %q", s.Joins[0].Condition)
	}
	if s.FromTables[0].Alias != "u" {
		t.Errorf("alias = %q", s.FromTables[0].Alias)
	}
}

func TestCycleItem(t *testing.T) {
	m := query.New()
	fid := m.AddSelectedField(query.SelectedField{Table: "users", Column: "id"})
	jid := m.AddJoin(query.Join{Table: "orders", Type: "INNER"})
	wid := m.AddWhereCondition(query.Condition{Field: "users.id", Operator: "="})
	oid := m.AddOrderBy(query.OrderBy{Table: "users", Column: "id", Direction: "ASC"})

	for _, r := range []row{
		{kind: itemField, id: fid},
		{kind: itemJoin, id: jid},
		{kind: itemWhere, id: wid},
		{kind: itemOrderBy, id: oid},
	} {
		if !cycleItem(m, m.State(), r) {
			t.Errorf("cycleItem(kind %d) = false, want true", r.kind)
		}
	}

	s := m.State()
	if s.SelectedFields[0].Function != "COUNT" {
		t.Errorf("function = %q, want COUNT", s.SelectedFields[0].Function)
	}
	if s.Joins[0].Type != "LEFT" {
		t.Errorf("join type = %q, want LEFT", s.Joins[0].Type)
	}
	if s.Where[0].Operator != "!=" {
		t.Errorf("operator = %q, want !=", s.Where[0].Operator)
	}
	if s.OrderBy[0].Direction != "DESC" {
		t.Errorf("direction = %q, want DESC", s.OrderBy[0].Direction)
	}

	if cycleItem(m, s, row{kind: itemHaving}) {
		t.Error("HAVING has no enumerated choice")
	}
}

func TestToggleNotAndLogic_OnlyWhere(t *testing.T) {
	m := query.New()
	gid := m.AddGroupBy(query.GroupBy{Table: "users", Column: "id"})
	if toggleNot(m, m.State(), row{kind: itemGroupBy, id: gid}) {
		t.Error("toggleNot should refuse a GROUP BY row")
	}
	if toggleLogic(m, m.State(), row{kind: itemWhere, id: "missing"}) {
		t.Error("toggleLogic should refuse an unknown condition")
	}
}

// ---------------------------------------------------------------------------
// Pane
// ---------------------------------------------------------------------------

func TestBuilder_CursorSkipsHeaders(t *testing.T) {
	m := query.New()
	m.AddFromTable(query.FromTable{Table: "users"})
	m.AddOrderBy(query.OrderBy{Table: "users", Column: "id"})

	b := NewBuilder(theme.Default(), StandardKeyMap())
	b.SetSize(40, 20)
	b.Focus()
	b.Refresh(m.State())

	r, ok := b.Selected()
	if !ok || r.kind != itemFrom {
		t.Fatalf("after refresh, selected = %+v (ok=%v), want the FROM row", r, ok)
	}

	b, _ = b.Update(specialKeyMsg(tea.KeyDown))
	if r, _ := b.Selected(); r.kind != itemOrderBy {
		t.Errorf("after down, selected kind = %d, want ORDER BY", r.kind)
	}

	b, _ = b.Update(specialKeyMsg(tea.KeyDown))
	if r, _ := b.Selected(); r.kind != itemOrderBy {
		t.Error("cursor should stay on the last selectable row")
	}

	b, _ = b.Update(specialKeyMsg(tea.KeyHome))
	if r, _ := b.Selected(); r.kind != itemFrom {
		t.Error("home should land on the first selectable row")
	}
}

func TestBuilder_EmptyHasNoSelection(t *testing.T) {
	b := NewBuilder(theme.Default(), StandardKeyMap())
	b.Refresh(query.State{Type: query.Select})
	if _, ok := b.Selected(); ok {
		t.Error("an empty statement has nothing to select")
	}
}

func TestBuilder_RefreshClampsCursor(t *testing.T) {
	m := query.New()
	m.AddFromTable(query.FromTable{Table: "users"})
	oid := m.AddOrderBy(query.OrderBy{Table: "users", Column: "id"})

	b := NewBuilder(theme.Default(), StandardKeyMap())
	b.Focus()
	b.Refresh(m.State())
	b, _ = b.Update(specialKeyMsg(tea.KeyEnd))

	m.RemoveOrderBy(oid)
	b.Refresh(m.State())
	if r, ok := b.Selected(); !ok || r.kind != itemFrom {
		t.Errorf("after removing the last row, selected = %+v (ok=%v)", r, ok)
	}
}

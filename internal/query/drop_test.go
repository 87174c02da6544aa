package query

import (
	"reflect"
	"testing"
)

func TestDrop_Table(t *testing.T) {
	m := newTestModel()

	id, ok := m.Drop(Drag{Kind: DragTable, Table: "users"}, ZoneFrom)
	if !ok || id == "" {
		t.Fatalf("drop on from = (%q, %v)", id, ok)
	}
	id, ok = m.Drop(Drag{Kind: DragTable, Table: "orders"}, ZoneJoin)
	if !ok || id == "" {
		t.Fatalf("drop on join = (%q, %v)", id, ok)
	}

	s := m.State()
	if !reflect.DeepEqual(s.FromTables, []FromTable{{ID: "id-1", Table: "users"}}) {
		t.Errorf("FromTables = %+v", s.FromTables)
	}
	if !reflect.DeepEqual(s.Joins, []Join{{ID: "id-2", Type: "INNER", Table: "orders"}}) {
		t.Errorf("Joins = %+v", s.Joins)
	}
}

func TestDrop_TableTargets(t *testing.T) {
	tests := []struct {
		zone Zone
		get  func(State) string
	}{
		{ZoneInsertTable, func(s State) string { return s.InsertTable }},
		{ZoneUpdateTable, func(s State) string { return s.UpdateTable }},
		{ZoneDeleteTable, func(s State) string { return s.DeleteTable }},
	}
	for _, tt := range tests {
		m := newTestModel()
		id, ok := m.Drop(Drag{Kind: DragTable, Table: "users"}, tt.zone)
		if !ok || id != "" {
			t.Errorf("%s: Drop = (%q, %v), want (\"\", true)", tt.zone, id, ok)
		}
		if got := tt.get(m.State()); got != "users" {
			t.Errorf("%s: table = %q, want users", tt.zone, got)
		}
	}
}

func TestDrop_Column(t *testing.T) {
	m := newTestModel()
	col := Drag{Kind: DragColumn, Table: "users", Column: "age"}

	for _, z := range []Zone{ZoneSelect, ZoneWhere, ZoneGroupBy, ZoneOrderBy, ZoneInsertField, ZoneUpdateField} {
		if _, ok := m.Drop(col, z); !ok {
			t.Errorf("Drop(column, %s) not accepted", z)
		}
	}

	s := m.State()
	if want := []SelectedField{{ID: "id-1", Table: "users", Column: "age"}}; !reflect.DeepEqual(s.SelectedFields, want) {
		t.Errorf("SelectedFields = %+v", s.SelectedFields)
	}
	if want := []Condition{{ID: "id-2", Field: "users.age", Operator: "=", Logic: "AND"}}; !reflect.DeepEqual(s.Where, want) {
		t.Errorf("Where = %+v", s.Where)
	}
	if want := []GroupBy{{ID: "id-3", Table: "users", Column: "age"}}; !reflect.DeepEqual(s.GroupBy, want) {
		t.Errorf("GroupBy = %+v", s.GroupBy)
	}
	if want := []OrderBy{{ID: "id-4", Table: "users", Column: "age", Direction: "ASC"}}; !reflect.DeepEqual(s.OrderBy, want) {
		t.Errorf("OrderBy = %+v", s.OrderBy)
	}
	if want := []Assignment{{ID: "id-5", Column: "age"}}; !reflect.DeepEqual(s.InsertFields, want) {
		t.Errorf("InsertFields = %+v", s.InsertFields)
	}
	if want := []Assignment{{ID: "id-6", Column: "age"}}; !reflect.DeepEqual(s.SetFields, want) {
		t.Errorf("SetFields = %+v", s.SetFields)
	}
}

func TestDrop_Rejected(t *testing.T) {
	m := newTestModel()
	before := m.State()

	cases := []struct {
		d Drag
		z Zone
	}{
		{Drag{Kind: DragTable, Table: "users"}, ZoneSelect},
		{Drag{Kind: DragTable, Table: "users"}, ZoneWhere},
		{Drag{Kind: DragColumn, Table: "users", Column: "id"}, ZoneFrom},
		{Drag{Kind: DragColumn, Table: "users", Column: "id"}, ZoneDeleteTable},
		{Drag{Kind: DragColumn, Table: "users", Column: "id"}, Zone("nowhere")},
		{Drag{Kind: DragKind(42)}, ZoneFrom},
	}
	for _, c := range cases {
		if id, ok := m.Drop(c.d, c.z); ok || id != "" {
			t.Errorf("Drop(%+v, %s) = (%q, %v), want rejection", c.d, c.z, id, ok)
		}
	}
	if !reflect.DeepEqual(m.State(), before) {
		t.Error("rejected drops changed the model")
	}
}

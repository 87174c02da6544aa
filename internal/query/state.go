// Package query holds the mutable model of the statement being assembled
// and the operations an interaction layer calls to change it.
package query

import (
	"slices"
	"strings"
)

// ID identifies one element of a model collection. It is assigned by the
// model, never derived from user data, and never appears in generated SQL.
type ID string

// Type is the kind of statement being built.
type Type string

const (
	Select Type = "SELECT"
	Insert Type = "INSERT"
	Update Type = "UPDATE"
	Delete Type = "DELETE"
)

// Types lists the statement kinds in display order.
var Types = []Type{Select, Insert, Update, Delete}

// ParseType parses a statement kind case-insensitively.
func ParseType(s string) (Type, bool) {
	t := Type(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range Types {
		if t == known {
			return t, true
		}
	}
	return "", false
}

// SelectedField is one entry of the SELECT list. Function, when set, wraps
// the column (e.g. COUNT).
type SelectedField struct {
	ID       ID     `yaml:"id"`
	Table    string `yaml:"table"`
	Column   string `yaml:"column"`
	Alias    string `yaml:"alias,omitempty"`
	Function string `yaml:"function,omitempty"`
}

// FromTable is one entry of the FROM list.
type FromTable struct {
	ID    ID     `yaml:"id"`
	Table string `yaml:"table"`
	Alias string `yaml:"alias,omitempty"`
}

// Join is a JOIN clause. An empty Type renders as INNER.
type Join struct {
	ID        ID     `yaml:"id"`
	Type      string `yaml:"type,omitempty"`
	Table     string `yaml:"table"`
	Alias     string `yaml:"alias,omitempty"`
	Condition string `yaml:"condition,omitempty"`
}

// Condition is one WHERE predicate. Logic connects it to the previous
// condition and is ignored on the first one.
type Condition struct {
	ID       ID     `yaml:"id"`
	Field    string `yaml:"field"`
	Operator string `yaml:"operator,omitempty"`
	Value    string `yaml:"value,omitempty"`
	Logic    string `yaml:"logic,omitempty"`
	Not      bool   `yaml:"not,omitempty"`
}

// GroupBy is one GROUP BY column.
type GroupBy struct {
	ID     ID     `yaml:"id"`
	Table  string `yaml:"table"`
	Column string `yaml:"column"`
}

// Having is one raw HAVING condition.
type Having struct {
	ID        ID     `yaml:"id"`
	Condition string `yaml:"condition"`
}

// OrderBy is one ORDER BY column.
type OrderBy struct {
	ID        ID     `yaml:"id"`
	Table     string `yaml:"table"`
	Column    string `yaml:"column"`
	Direction string `yaml:"direction"`
}

// Assignment is a column/value pair of an INSERT or an UPDATE ... SET.
// Value is literal SQL text supplied by the caller, quoting included.
type Assignment struct {
	ID     ID     `yaml:"id"`
	Column string `yaml:"column"`
	Value  string `yaml:"value,omitempty"`
}

// State is a snapshot of everything the generator reads. Empty table names
// stand for "not chosen yet".
type State struct {
	Type Type `yaml:"type"`

	SelectedFields []SelectedField `yaml:"selected_fields,omitempty"`
	FromTables     []FromTable     `yaml:"from_tables,omitempty"`
	Joins          []Join          `yaml:"joins,omitempty"`
	Where          []Condition     `yaml:"where,omitempty"`
	GroupBy        []GroupBy       `yaml:"group_by,omitempty"`
	Having         []Having        `yaml:"having,omitempty"`
	OrderBy        []OrderBy       `yaml:"order_by,omitempty"`
	Limit          *int            `yaml:"limit,omitempty"`
	Distinct       bool            `yaml:"distinct,omitempty"`

	InsertTable  string       `yaml:"insert_table,omitempty"`
	InsertFields []Assignment `yaml:"insert_fields,omitempty"`

	UpdateTable string       `yaml:"update_table,omitempty"`
	SetFields   []Assignment `yaml:"set_fields,omitempty"`

	DeleteTable string `yaml:"delete_table,omitempty"`
}

// Clone returns a deep copy of s.
func (s State) Clone() State {
	c := s
	c.SelectedFields = slices.Clone(s.SelectedFields)
	c.FromTables = slices.Clone(s.FromTables)
	c.Joins = slices.Clone(s.Joins)
	c.Where = slices.Clone(s.Where)
	c.GroupBy = slices.Clone(s.GroupBy)
	c.Having = slices.Clone(s.Having)
	c.OrderBy = slices.Clone(s.OrderBy)
	c.InsertFields = slices.Clone(s.InsertFields)
	c.SetFields = slices.Clone(s.SetFields)
	if s.Limit != nil {
		n := *s.Limit
		c.Limit = &n
	}
	return c
}

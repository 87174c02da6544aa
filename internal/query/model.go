package query

import (
	"strings"

	"github.com/google/uuid"

	"github.com/sadopc/querycraft/internal/schema"
)

// Model is one builder session: the schema it works against and the
// statement under construction. It has no internal locking; callers that
// share a Model across goroutines must serialise access themselves.
type Model struct {
	state State

	schemaText string
	catalog    *schema.Catalog

	newID func() ID
}

// New returns an empty SELECT model with no schema.
func New() *Model {
	return &Model{
		state:   State{Type: Select},
		catalog: &schema.Catalog{},
		newID:   func() ID { return ID(uuid.NewString()) },
	}
}

// ---------------------------------------------------------------------------
// Schema
// ---------------------------------------------------------------------------

// SetSchema replaces the schema text and re-derives tables and
// relationships from it. The query state is left alone.
func (m *Model) SetSchema(text string) {
	m.schemaText = text
	m.catalog = schema.Load(text)
}

// SetCatalog installs an already-built catalog, e.g. one read from a live
// database, keeping text as the schema source.
func (m *Model) SetCatalog(text string, c *schema.Catalog) {
	if c == nil {
		c = &schema.Catalog{}
	}
	m.schemaText = text
	m.catalog = c
}

// ClearSchema forgets the schema.
func (m *Model) ClearSchema() {
	m.schemaText = ""
	m.catalog = &schema.Catalog{}
}

// Schema returns the raw schema text last given to SetSchema.
func (m *Model) Schema() string { return m.schemaText }

// Catalog returns the current schema catalog.
func (m *Model) Catalog() *schema.Catalog { return m.catalog }

// Tables returns the parsed tables.
func (m *Model) Tables() []schema.Table { return m.catalog.Tables }

// Relationships returns the parsed foreign key relationships.
func (m *Model) Relationships() []schema.Relationship { return m.catalog.Relationships }

// ---------------------------------------------------------------------------
// Whole-state operations
// ---------------------------------------------------------------------------

// Type returns the active statement kind.
func (m *Model) Type() Type { return m.state.Type }

// SetQueryType switches the statement kind and resets every collection and
// scalar to its empty value, even when t equals the current kind.
func (m *Model) SetQueryType(t Type) {
	m.state = State{Type: t}
}

// State returns a deep copy of the current state.
func (m *Model) State() State { return m.state.Clone() }

// Restore replaces the state with a copy of s. Elements whose ID is empty
// or repeated get a fresh one so identifiers stay unique.
func (m *Model) Restore(s State) {
	s = s.Clone()
	if s.Type == "" {
		s.Type = Select
	}
	seen := make(map[ID]bool)
	fix := func(id *ID) {
		if *id == "" || seen[*id] {
			*id = m.newID()
		}
		seen[*id] = true
	}
	for i := range s.SelectedFields {
		fix(&s.SelectedFields[i].ID)
	}
	for i := range s.FromTables {
		fix(&s.FromTables[i].ID)
	}
	for i := range s.Joins {
		fix(&s.Joins[i].ID)
	}
	for i := range s.Where {
		fix(&s.Where[i].ID)
	}
	for i := range s.GroupBy {
		fix(&s.GroupBy[i].ID)
	}
	for i := range s.Having {
		fix(&s.Having[i].ID)
	}
	for i := range s.OrderBy {
		fix(&s.OrderBy[i].ID)
	}
	for i := range s.InsertFields {
		fix(&s.InsertFields[i].ID)
	}
	for i := range s.SetFields {
		fix(&s.SetFields[i].ID)
	}
	m.state = s
}

// ---------------------------------------------------------------------------
// Scalars
// ---------------------------------------------------------------------------

// SetDistinct toggles SELECT DISTINCT.
func (m *Model) SetDistinct(v bool) { m.state.Distinct = v }

// SetLimit sets the LIMIT; nil clears it.
func (m *Model) SetLimit(n *int) {
	if n == nil {
		m.state.Limit = nil
		return
	}
	v := *n
	m.state.Limit = &v
}

// SetInsertTable sets the INSERT target; "" clears it.
func (m *Model) SetInsertTable(table string) { m.state.InsertTable = table }

// SetUpdateTable sets the UPDATE target; "" clears it.
func (m *Model) SetUpdateTable(table string) { m.state.UpdateTable = table }

// SetDeleteTable sets the DELETE target; "" clears it.
func (m *Model) SetDeleteTable(table string) { m.state.DeleteTable = table }

// ---------------------------------------------------------------------------
// FROM removal cascade
// ---------------------------------------------------------------------------

// RemoveFromTable removes a FROM entry together with everything that refers
// to its table: selected fields, GROUP BY and ORDER BY entries whose table
// equals it, joins whose table equals it or whose condition mentions it, and
// WHERE conditions whose field mentions it. Unknown ids are a no-op.
func (m *Model) RemoveFromTable(id ID) {
	var (
		name  string
		found bool
	)
	for _, t := range m.state.FromTables {
		if t.ID == id {
			name, found = t.Table, true
			break
		}
	}
	if !found {
		return
	}

	s := &m.state
	s.FromTables = removeByID(s.FromTables, id)
	s.SelectedFields = keep(s.SelectedFields, func(f SelectedField) bool { return f.Table != name })
	s.Joins = keep(s.Joins, func(j Join) bool {
		return j.Table != name && !mentionsTable(j.Condition, name)
	})
	s.Where = keep(s.Where, func(c Condition) bool { return !mentionsTable(c.Field, name) })
	s.GroupBy = keep(s.GroupBy, func(g GroupBy) bool { return g.Table != name })
	s.OrderBy = keep(s.OrderBy, func(o OrderBy) bool { return o.Table != name })
}

// mentionsTable reports whether free text (a "table.column" field or a raw
// join condition) refers to table. It is plain substring containment, so a
// table named "order" also matches text about "orders", and "users" matches
// "users2". Empty text never mentions anything.
func mentionsTable(text, table string) bool {
	if text == "" {
		return false
	}
	return strings.Contains(text, table)
}

package query

// identified is implemented by every collection element.
type identified interface {
	itemID() ID
}

func (f SelectedField) itemID() ID { return f.ID }
func (t FromTable) itemID() ID     { return t.ID }
func (j Join) itemID() ID          { return j.ID }
func (c Condition) itemID() ID     { return c.ID }
func (g GroupBy) itemID() ID       { return g.ID }
func (h Having) itemID() ID        { return h.ID }
func (o OrderBy) itemID() ID       { return o.ID }
func (a Assignment) itemID() ID    { return a.ID }

// keep returns a new slice holding the elements for which pred is true.
func keep[T any](items []T, pred func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if pred(it) {
			out = append(out, it)
		}
	}
	return out
}

func removeByID[T identified](items []T, id ID) []T {
	return keep(items, func(it T) bool { return it.itemID() != id })
}

// patchByID applies fn to the element with the given id, if any.
func patchByID[T identified](items []T, id ID, fn func(*T)) {
	for i := range items {
		if items[i].itemID() == id {
			fn(&items[i])
			return
		}
	}
}

func set[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

// String returns a pointer to s, for building patches.
func String(s string) *string { return &s }

// Bool returns a pointer to b, for building patches.
func Bool(b bool) *bool { return &b }

// Int returns a pointer to n, for SetLimit.
func Int(n int) *int { return &n }

// ---------------------------------------------------------------------------
// Patches: nil fields are left unchanged.
// ---------------------------------------------------------------------------

// SelectedFieldPatch is a partial update of a SelectedField.
type SelectedFieldPatch struct {
	Table, Column, Alias, Function *string
}

// FromTablePatch is a partial update of a FromTable.
type FromTablePatch struct {
	Table, Alias *string
}

// JoinPatch is a partial update of a Join.
type JoinPatch struct {
	Type, Table, Alias, Condition *string
}

// ConditionPatch is a partial update of a Condition.
type ConditionPatch struct {
	Field, Operator, Value, Logic *string
	Not                           *bool
}

// GroupByPatch is a partial update of a GroupBy.
type GroupByPatch struct {
	Table, Column *string
}

// HavingPatch is a partial update of a Having.
type HavingPatch struct {
	Condition *string
}

// OrderByPatch is a partial update of an OrderBy.
type OrderByPatch struct {
	Table, Column, Direction *string
}

// AssignmentPatch is a partial update of an Assignment.
type AssignmentPatch struct {
	Column, Value *string
}

// ---------------------------------------------------------------------------
// SELECT list
// ---------------------------------------------------------------------------

// AddSelectedField appends f under a fresh ID and returns that ID.
func (m *Model) AddSelectedField(f SelectedField) ID {
	f.ID = m.newID()
	m.state.SelectedFields = append(m.state.SelectedFields, f)
	return f.ID
}

// RemoveSelectedField removes the field with the given id.
func (m *Model) RemoveSelectedField(id ID) {
	m.state.SelectedFields = removeByID(m.state.SelectedFields, id)
}

// UpdateSelectedField merges p into the field with the given id.
func (m *Model) UpdateSelectedField(id ID, p SelectedFieldPatch) {
	patchByID(m.state.SelectedFields, id, func(f *SelectedField) {
		set(&f.Table, p.Table)
		set(&f.Column, p.Column)
		set(&f.Alias, p.Alias)
		set(&f.Function, p.Function)
	})
}

// ---------------------------------------------------------------------------
// FROM
// ---------------------------------------------------------------------------

// AddFromTable appends t under a fresh ID and returns that ID.
func (m *Model) AddFromTable(t FromTable) ID {
	t.ID = m.newID()
	m.state.FromTables = append(m.state.FromTables, t)
	return t.ID
}

// UpdateFromTable merges p into the FROM entry with the given id. Renaming
// the table does not cascade.
func (m *Model) UpdateFromTable(id ID, p FromTablePatch) {
	patchByID(m.state.FromTables, id, func(t *FromTable) {
		set(&t.Table, p.Table)
		set(&t.Alias, p.Alias)
	})
}

// ---------------------------------------------------------------------------
// JOIN
// ---------------------------------------------------------------------------

// AddJoin appends j under a fresh ID and returns that ID.
func (m *Model) AddJoin(j Join) ID {
	j.ID = m.newID()
	m.state.Joins = append(m.state.Joins, j)
	return j.ID
}

// RemoveJoin removes the join with the given id.
func (m *Model) RemoveJoin(id ID) {
	m.state.Joins = removeByID(m.state.Joins, id)
}

// UpdateJoin merges p into the join with the given id.
func (m *Model) UpdateJoin(id ID, p JoinPatch) {
	patchByID(m.state.Joins, id, func(j *Join) {
		set(&j.Type, p.Type)
		set(&j.Table, p.Table)
		set(&j.Alias, p.Alias)
		set(&j.Condition, p.Condition)
	})
}

// ---------------------------------------------------------------------------
// WHERE
// ---------------------------------------------------------------------------

// AddWhereCondition appends c under a fresh ID and returns that ID.
func (m *Model) AddWhereCondition(c Condition) ID {
	c.ID = m.newID()
	m.state.Where = append(m.state.Where, c)
	return c.ID
}

// RemoveWhereCondition removes the condition with the given id.
func (m *Model) RemoveWhereCondition(id ID) {
	m.state.Where = removeByID(m.state.Where, id)
}

// UpdateWhereCondition merges p into the condition with the given id.
func (m *Model) UpdateWhereCondition(id ID, p ConditionPatch) {
	patchByID(m.state.Where, id, func(c *Condition) {
		set(&c.Field, p.Field)
		set(&c.Operator, p.Operator)
		set(&c.Value, p.Value)
		set(&c.Logic, p.Logic)
		set(&c.Not, p.Not)
	})
}

// ---------------------------------------------------------------------------
// GROUP BY / HAVING
// ---------------------------------------------------------------------------

// AddGroupBy appends g under a fresh ID and returns that ID.
func (m *Model) AddGroupBy(g GroupBy) ID {
	g.ID = m.newID()
	m.state.GroupBy = append(m.state.GroupBy, g)
	return g.ID
}

// RemoveGroupBy removes the GROUP BY entry with the given id.
func (m *Model) RemoveGroupBy(id ID) {
	m.state.GroupBy = removeByID(m.state.GroupBy, id)
}

// UpdateGroupBy merges p into the GROUP BY entry with the given id.
func (m *Model) UpdateGroupBy(id ID, p GroupByPatch) {
	patchByID(m.state.GroupBy, id, func(g *GroupBy) {
		set(&g.Table, p.Table)
		set(&g.Column, p.Column)
	})
}

// AddHaving appends h under a fresh ID and returns that ID.
func (m *Model) AddHaving(h Having) ID {
	h.ID = m.newID()
	m.state.Having = append(m.state.Having, h)
	return h.ID
}

// RemoveHaving removes the HAVING condition with the given id.
func (m *Model) RemoveHaving(id ID) {
	m.state.Having = removeByID(m.state.Having, id)
}

// UpdateHaving merges p into the HAVING condition with the given id.
func (m *Model) UpdateHaving(id ID, p HavingPatch) {
	patchByID(m.state.Having, id, func(h *Having) {
		set(&h.Condition, p.Condition)
	})
}

// ---------------------------------------------------------------------------
// ORDER BY
// ---------------------------------------------------------------------------

// AddOrderBy appends o under a fresh ID and returns that ID. An empty
// direction becomes ASC.
func (m *Model) AddOrderBy(o OrderBy) ID {
	o.ID = m.newID()
	if o.Direction == "" {
		o.Direction = "ASC"
	}
	m.state.OrderBy = append(m.state.OrderBy, o)
	return o.ID
}

// RemoveOrderBy removes the ORDER BY entry with the given id.
func (m *Model) RemoveOrderBy(id ID) {
	m.state.OrderBy = removeByID(m.state.OrderBy, id)
}

// UpdateOrderBy merges p into the ORDER BY entry with the given id.
func (m *Model) UpdateOrderBy(id ID, p OrderByPatch) {
	patchByID(m.state.OrderBy, id, func(o *OrderBy) {
		set(&o.Table, p.Table)
		set(&o.Column, p.Column)
		set(&o.Direction, p.Direction)
	})
}

// ---------------------------------------------------------------------------
// INSERT / UPDATE assignments
// ---------------------------------------------------------------------------

// AddInsertField appends a under a fresh ID and returns that ID.
func (m *Model) AddInsertField(a Assignment) ID {
	a.ID = m.newID()
	m.state.InsertFields = append(m.state.InsertFields, a)
	return a.ID
}

// RemoveInsertField removes the INSERT field with the given id.
func (m *Model) RemoveInsertField(id ID) {
	m.state.InsertFields = removeByID(m.state.InsertFields, id)
}

// UpdateInsertField merges p into the INSERT field with the given id.
func (m *Model) UpdateInsertField(id ID, p AssignmentPatch) {
	patchByID(m.state.InsertFields, id, func(a *Assignment) {
		set(&a.Column, p.Column)
		set(&a.Value, p.Value)
	})
}

// AddSetField appends a under a fresh ID and returns that ID.
func (m *Model) AddSetField(a Assignment) ID {
	a.ID = m.newID()
	m.state.SetFields = append(m.state.SetFields, a)
	return a.ID
}

// RemoveSetField removes the SET field with the given id.
func (m *Model) RemoveSetField(id ID) {
	m.state.SetFields = removeByID(m.state.SetFields, id)
}

// UpdateSetField merges p into the SET field with the given id.
func (m *Model) UpdateSetField(id ID, p AssignmentPatch) {
	patchByID(m.state.SetFields, id, func(a *Assignment) {
		set(&a.Column, p.Column)
		set(&a.Value, p.Value)
	})
}

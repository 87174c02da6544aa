package query

// DragKind says what is being dragged.
type DragKind int

const (
	DragTable DragKind = iota
	DragColumn
)

// Drag is the payload of a drag gesture: a whole table, or one column of it.
type Drag struct {
	Kind   DragKind
	Table  string
	Column string
}

// Zone names a drop target in the builder.
type Zone string

const (
	ZoneFrom        Zone = "from"
	ZoneJoin        Zone = "join"
	ZoneInsertTable Zone = "insert-table"
	ZoneUpdateTable Zone = "update-table"
	ZoneDeleteTable Zone = "delete-table"

	ZoneSelect      Zone = "select"
	ZoneWhere       Zone = "where"
	ZoneGroupBy     Zone = "groupby"
	ZoneOrderBy     Zone = "orderby"
	ZoneInsertField Zone = "insert-field"
	ZoneUpdateField Zone = "update-field"
)

// Drop applies a drag gesture to the model. It returns the ID of the
// element it created, if any, and whether the pairing of payload and zone
// was understood. Unknown pairings leave the model untouched.
func (m *Model) Drop(d Drag, z Zone) (ID, bool) {
	switch d.Kind {
	case DragTable:
		return m.dropTable(d.Table, z)
	case DragColumn:
		return m.dropColumn(d.Table, d.Column, z)
	}
	return "", false
}

func (m *Model) dropTable(table string, z Zone) (ID, bool) {
	switch z {
	case ZoneFrom:
		return m.AddFromTable(FromTable{Table: table}), true
	case ZoneJoin:
		return m.AddJoin(Join{Type: "INNER", Table: table}), true
	case ZoneInsertTable:
		m.SetInsertTable(table)
	case ZoneUpdateTable:
		m.SetUpdateTable(table)
	case ZoneDeleteTable:
		m.SetDeleteTable(table)
	default:
		return "", false
	}
	return "", true
}

func (m *Model) dropColumn(table, column string, z Zone) (ID, bool) {
	switch z {
	case ZoneSelect:
		return m.AddSelectedField(SelectedField{Table: table, Column: column}), true
	case ZoneWhere:
		return m.AddWhereCondition(Condition{
			Field:    table + "." + column,
			Operator: "=",
			Logic:    "AND",
		}), true
	case ZoneGroupBy:
		return m.AddGroupBy(GroupBy{Table: table, Column: column}), true
	case ZoneOrderBy:
		return m.AddOrderBy(OrderBy{Table: table, Column: column, Direction: "ASC"}), true
	case ZoneInsertField:
		return m.AddInsertField(Assignment{Column: column}), true
	case ZoneUpdateField:
		return m.AddSetField(Assignment{Column: column}), true
	}
	return "", false
}

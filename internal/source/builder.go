package source

import "github.com/sadopc/querycraft/internal/schema"

// Builder assembles a catalog from the row-shaped results of introspection
// queries. Tables keep the order in which their first column was added.
type Builder struct {
	tables  []schema.Table
	pos     map[string]int
	indexes []*indexInfo
	byKey   map[string]*indexInfo
	rels    []schema.Relationship
}

type indexInfo struct {
	table   string
	columns []string
	primary bool
	unique  bool
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{
		pos:   make(map[string]int),
		byKey: make(map[string]*indexInfo),
	}
}

// AddTable registers a table with no columns yet. Adding a known table is a
// no-op.
func (b *Builder) AddTable(name string) {
	if _, ok := b.pos[name]; ok {
		return
	}
	b.pos[name] = len(b.tables)
	b.tables = append(b.tables, schema.Table{Name: name})
}

// AddColumn appends a column to table, registering the table if needed.
func (b *Builder) AddColumn(table string, col schema.Column) {
	b.AddTable(table)
	t := &b.tables[b.pos[table]]
	t.Columns = append(t.Columns, col)
}

// AddIndexColumn records that column belongs to the named index or
// constraint of table. Columns of a primary key become primary-key columns;
// a unique index marks its column unique only when it covers exactly one
// column.
func (b *Builder) AddIndexColumn(table, index, column string, primary, unique bool) {
	key := table + "\x00" + index
	idx, ok := b.byKey[key]
	if !ok {
		idx = &indexInfo{table: table, primary: primary, unique: unique}
		b.byKey[key] = idx
		b.indexes = append(b.indexes, idx)
	}
	idx.columns = append(idx.columns, column)
}

// AddForeignKey records one column pair of a foreign key.
func (b *Builder) AddForeignKey(table, column, refTable, refColumn string) {
	b.rels = append(b.rels, schema.Relationship{
		FromTable:  table,
		FromColumn: column,
		ToTable:    refTable,
		ToColumn:   refColumn,
	})
}

// PrimaryKey returns the primary-key columns of table seen so far, in
// column order.
func (b *Builder) PrimaryKey(table string) []string {
	i, ok := b.pos[table]
	if !ok {
		return nil
	}
	b.applyIndexes()
	var cols []string
	for _, c := range b.tables[i].Columns {
		if c.IsPrimaryKey {
			cols = append(cols, c.Name)
		}
	}
	return cols
}

// Catalog returns the assembled catalog.
func (b *Builder) Catalog() *schema.Catalog {
	b.applyIndexes()
	return &schema.Catalog{
		Tables:        b.tables,
		Relationships: b.rels,
	}
}

func (b *Builder) applyIndexes() {
	for _, idx := range b.indexes {
		i, ok := b.pos[idx.table]
		if !ok {
			continue
		}
		cols := b.tables[i].Columns
		for _, name := range idx.columns {
			for j := range cols {
				if cols[j].Name != name {
					continue
				}
				switch {
				case idx.primary:
					cols[j].IsPrimaryKey = true
				case idx.unique && len(idx.columns) == 1:
					cols[j].IsUnique = true
				}
			}
		}
	}
}

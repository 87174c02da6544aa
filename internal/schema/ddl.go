package schema

import (
	"fmt"
	"strings"
)

// DDL renders the catalog as CREATE TABLE statements in the shape Parse and
// ParseRelationships accept. Relationships are emitted under the table they
// start from; relationships whose table is not in the catalog are dropped.
func DDL(c *Catalog) string {
	if c == nil {
		return ""
	}

	byTable := make(map[string][]Relationship)
	for _, r := range c.Relationships {
		byTable[r.FromTable] = append(byTable[r.FromTable], r)
	}

	var b strings.Builder
	for i, t := range c.Tables {
		if i > 0 {
			b.WriteString("\n")
		}
		var defs []string
		for _, col := range t.Columns {
			defs = append(defs, columnDef(col))
		}
		for _, r := range byTable[t.Name] {
			defs = append(defs, fmt.Sprintf("FOREIGN KEY (%s) REFERENCES %s(%s)", r.FromColumn, r.ToTable, r.ToColumn))
		}
		// A relationship belongs to the first declaration only.
		delete(byTable, t.Name)

		fmt.Fprintf(&b, "CREATE TABLE %s (\n", t.Name)
		for j, def := range defs {
			b.WriteString("    ")
			b.WriteString(def)
			if j < len(defs)-1 {
				b.WriteByte(',')
			}
			b.WriteByte('\n')
		}
		b.WriteString(");\n")
	}
	return b.String()
}

func columnDef(c Column) string {
	typ := c.Type
	if typ == "" {
		typ = "TEXT"
	}
	parts := []string{c.Name, typ}
	if c.IsPrimaryKey {
		parts = append(parts, "PRIMARY KEY")
	}
	if c.IsNotNull {
		parts = append(parts, "NOT NULL")
	}
	if c.IsUnique {
		parts = append(parts, "UNIQUE")
	}
	return strings.Join(parts, " ")
}

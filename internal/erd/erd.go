// Package erd derives entity-relationship diagram data from a parsed
// schema: where each table box sits, which relationship lines connect
// them, and a Mermaid rendering for export.
package erd

import (
	"fmt"
	"math"
	"strings"

	"github.com/sadopc/querycraft/internal/schema"
)

// Box geometry, in diagram units.
const (
	Spacing      = 300
	OriginX      = 50
	OriginY      = 50
	TableWidth   = 250
	HeaderHeight = 30
	RowHeight    = 25
)

// Point is a position on the diagram canvas.
type Point struct {
	X, Y float64
}

// Layout places tables on a square-ish grid in table order, with
// ceil(sqrt(n)) boxes per row. A name that appears twice keeps the
// position of its first appearance.
func Layout(tables []schema.Table) map[string]Point {
	pos := make(map[string]Point, len(tables))
	if len(tables) == 0 {
		return pos
	}
	cols := int(math.Ceil(math.Sqrt(float64(len(tables)))))
	for i, t := range tables {
		if _, ok := pos[t.Name]; ok {
			continue
		}
		pos[t.Name] = Point{
			X: OriginX + float64(i%cols*Spacing),
			Y: OriginY + float64(i/cols*Spacing),
		}
	}
	return pos
}

// Height is the drawn height of a table box.
func Height(t schema.Table) float64 {
	return HeaderHeight + float64(len(t.Columns)*RowHeight)
}

// Edge is one relationship line, from the bottom centre of the
// referencing table to the top centre of the referenced one.
type Edge struct {
	Relationship schema.Relationship
	From, To     Point
	MidY         float64
	Label        string
}

// Edges resolves relationships against tables and positions. A
// relationship naming a table that is not in tables is skipped. A table
// missing from pos is drawn at the origin.
func Edges(tables []schema.Table, rels []schema.Relationship, pos map[string]Point) []Edge {
	var edges []Edge
	for _, r := range rels {
		from, ok := find(tables, r.FromTable)
		if !ok {
			continue
		}
		if _, ok := find(tables, r.ToTable); !ok {
			continue
		}
		fp, tp := pos[r.FromTable], pos[r.ToTable]
		e := Edge{
			Relationship: r,
			From:         Point{X: fp.X + TableWidth/2, Y: fp.Y + Height(from)},
			To:           Point{X: tp.X + TableWidth/2, Y: tp.Y},
			Label:        r.FromColumn + " → " + r.ToColumn,
		}
		e.MidY = (e.From.Y + e.To.Y) / 2
		edges = append(edges, e)
	}
	return edges
}

// Path returns the edge as an SVG cubic Bézier path.
func (e Edge) Path() string {
	return fmt.Sprintf("M %g %g C %g %g, %g %g, %g %g",
		e.From.X, e.From.Y, e.From.X, e.MidY, e.To.X, e.MidY, e.To.X, e.To.Y)
}

// Related returns the names of the tables directly linked to table by a
// relationship in either direction, in order of first appearance.
func Related(table string, rels []schema.Relationship) []string {
	var out []string
	seen := map[string]bool{table: true}
	add := func(name string) {
		if !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}
	for _, r := range rels {
		switch table {
		case r.FromTable:
			add(r.ToTable)
		case r.ToTable:
			add(r.FromTable)
		}
	}
	return out
}

func find(tables []schema.Table, name string) (schema.Table, bool) {
	for _, t := range tables {
		if t.Name == name {
			return t, true
		}
	}
	return schema.Table{}, false
}

// ---------------------------------------------------------------------------
// Mermaid
// ---------------------------------------------------------------------------

var mermaidType = strings.NewReplacer(",", "_", " ", "_")

// Mermaid renders tables and relationships as a Mermaid erDiagram. Each
// relationship becomes a one-to-many link from the referenced table to the
// referencing one; relationships with a missing endpoint are left out.
func Mermaid(tables []schema.Table, rels []schema.Relationship) string {
	var b strings.Builder
	b.WriteString("erDiagram\n")

	for _, t := range tables {
		fmt.Fprintf(&b, "    %s {\n", t.Name)
		for _, c := range t.Columns {
			typ := c.Type
			if typ == "" {
				typ = "TEXT"
			}
			fmt.Fprintf(&b, "        %s %s", mermaidType.Replace(typ), c.Name)
			var keys []string
			if c.IsPrimaryKey {
				keys = append(keys, "PK")
			}
			if c.IsUnique {
				keys = append(keys, "UK")
			}
			if len(keys) > 0 {
				b.WriteString(" " + strings.Join(keys, ", "))
			}
			b.WriteString("\n")
		}
		b.WriteString("    }\n")
	}

	for _, r := range rels {
		if _, ok := find(tables, r.FromTable); !ok {
			continue
		}
		if _, ok := find(tables, r.ToTable); !ok {
			continue
		}
		fmt.Fprintf(&b, "    %s ||--o{ %s : %q\n", r.ToTable, r.FromTable, r.FromColumn+" → "+r.ToColumn)
	}
	return b.String()
}

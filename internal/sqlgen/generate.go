// Package sqlgen renders a query.State snapshot to SQL text.
//
// Generation is total: a state missing something the statement needs
// renders as a one-line SQL comment naming what is missing, never as an
// error. The pretty-printing pass is best effort and falls back to the raw
// text whenever it cannot handle its input.
package sqlgen

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/sadopc/querycraft/internal/query"
)

// Placeholder comments returned when a statement cannot be built yet.
const (
	NeedFromTable    = "-- Add a FROM table to start building your query"
	NeedInsertFields = "-- Select a table and add fields to insert"
	NeedUpdateFields = "-- Select a table and add fields to update"
	NeedDeleteTable  = "-- Select a table to delete from"
)

// Options controls the pretty-printing pass.
type Options struct {
	// Format enables pretty-printing. When false Generate returns the raw
	// text.
	Format bool

	// UppercaseKeywords rewrites SQL keywords outside literals to upper case.
	UppercaseKeywords bool

	// MaxLineWidth is the display width above which a SELECT list is split
	// one field per line. Zero or less disables wrapping.
	MaxLineWidth int
}

// DefaultOptions returns formatting enabled with an 80 column SELECT list.
func DefaultOptions() Options {
	return Options{Format: true, MaxLineWidth: 80}
}

// Generator turns query states into SQL. The zero value is not usable; use
// New. A Generator holds no per-call state and may be shared.
type Generator struct {
	opts Options
	log  *slog.Logger
}

// New returns a Generator. A nil logger discards formatter diagnostics.
func New(opts Options, log *slog.Logger) *Generator {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Generator{opts: opts, log: log}
}

var defaultGenerator = New(DefaultOptions(), nil)

// Generate renders s with the default options.
func Generate(s query.State) string {
	return defaultGenerator.Generate(s)
}

// Generate renders s, pretty-printed when enabled.
func (g *Generator) Generate(s query.State) string {
	sql := Raw(s)
	if !g.opts.Format {
		return sql
	}
	out, err := Format(sql, g.opts)
	if err != nil {
		g.log.Debug("sql formatting skipped", "type", string(s.Type), "error", err)
		return sql
	}
	return out
}

// Raw renders s without pretty-printing. Clauses are separated by
// newlines. An unknown statement type renders as "".
func Raw(s query.State) string {
	switch s.Type {
	case query.Select:
		return selectSQL(s)
	case query.Insert:
		return insertSQL(s)
	case query.Update:
		return updateSQL(s)
	case query.Delete:
		return deleteSQL(s)
	default:
		return ""
	}
}

// ---------------------------------------------------------------------------
// Statements
// ---------------------------------------------------------------------------

func selectSQL(s query.State) string {
	if len(s.FromTables) == 0 {
		return NeedFromTable
	}

	var b strings.Builder
	b.WriteString("SELECT ")
	if s.Distinct {
		b.WriteString("DISTINCT ")
	}

	if len(s.SelectedFields) == 0 {
		b.WriteString("*")
	} else {
		fields := make([]string, len(s.SelectedFields))
		for i, f := range s.SelectedFields {
			fields[i] = selectedField(f)
		}
		b.WriteString(strings.Join(fields, ", "))
	}

	tables := make([]string, len(s.FromTables))
	for i, t := range s.FromTables {
		tables[i] = withAlias(t.Table, t.Alias)
	}
	b.WriteString("\nFROM ")
	b.WriteString(strings.Join(tables, ", "))

	for _, j := range s.Joins {
		typ := j.Type
		if typ == "" {
			typ = "INNER"
		}
		b.WriteString("\n" + typ + " JOIN " + withAlias(j.Table, j.Alias))
		if j.Condition != "" {
			b.WriteString(" ON " + j.Condition)
		}
	}

	if len(s.Where) > 0 {
		b.WriteString("\nWHERE " + whereClause(s.Where))
	}

	if len(s.GroupBy) > 0 {
		cols := make([]string, len(s.GroupBy))
		for i, g := range s.GroupBy {
			cols[i] = g.Table + "." + g.Column
		}
		b.WriteString("\nGROUP BY " + strings.Join(cols, ", "))
	}

	if len(s.Having) > 0 {
		conds := make([]string, len(s.Having))
		for i, h := range s.Having {
			conds[i] = h.Condition
		}
		b.WriteString("\nHAVING " + strings.Join(conds, " AND "))
	}

	if len(s.OrderBy) > 0 {
		cols := make([]string, len(s.OrderBy))
		for i, o := range s.OrderBy {
			cols[i] = o.Table + "." + o.Column + " " + o.Direction
		}
		b.WriteString("\nORDER BY " + strings.Join(cols, ", "))
	}

	if s.Limit != nil && *s.Limit != 0 {
		b.WriteString("\nLIMIT " + strconv.Itoa(*s.Limit))
	}

	return b.String()
}

func insertSQL(s query.State) string {
	if s.InsertTable == "" || len(s.InsertFields) == 0 {
		return NeedInsertFields
	}
	cols := make([]string, len(s.InsertFields))
	vals := make([]string, len(s.InsertFields))
	for i, f := range s.InsertFields {
		cols[i] = f.Column
		vals[i] = literal(f.Value)
	}
	return "INSERT INTO " + s.InsertTable + " (" + strings.Join(cols, ", ") + ")\nVALUES (" + strings.Join(vals, ", ") + ")"
}

func updateSQL(s query.State) string {
	if s.UpdateTable == "" || len(s.SetFields) == 0 {
		return NeedUpdateFields
	}
	sets := make([]string, len(s.SetFields))
	for i, f := range s.SetFields {
		sets[i] = f.Column + " = " + literal(f.Value)
	}
	sql := "UPDATE " + s.UpdateTable + "\nSET " + strings.Join(sets, ", ")
	if len(s.Where) > 0 {
		sql += "\nWHERE " + whereClause(s.Where)
	}
	return sql
}

func deleteSQL(s query.State) string {
	if s.DeleteTable == "" {
		return NeedDeleteTable
	}
	sql := "DELETE FROM " + s.DeleteTable
	if len(s.Where) > 0 {
		sql += "\nWHERE " + whereClause(s.Where)
	}
	return sql
}

// ---------------------------------------------------------------------------
// Pieces
// ---------------------------------------------------------------------------

func selectedField(f query.SelectedField) string {
	col := f.Table + "." + f.Column
	if f.Function != "" {
		col = f.Function + "(" + col + ")"
	}
	return withAlias(col, f.Alias)
}

func withAlias(expr, alias string) string {
	if alias == "" {
		return expr
	}
	return expr + " AS " + alias
}

// literal renders a caller-supplied value, substituting an empty string
// literal for a missing one.
func literal(v string) string {
	if v == "" {
		return "''"
	}
	return v
}

package schema

import (
	"regexp"
	"strings"
)

var (
	// The body runs to the first ");" so a table never swallows the next
	// statement, even when its own body is malformed.
	reCreateTable = regexp.MustCompile(`(?is)CREATE\s+TABLE\s+(\w+)\s*\((.*?)\);`)
	reTableName   = regexp.MustCompile(`(?i)CREATE\s+TABLE\s+(\w+)`)
	reForeignKey  = regexp.MustCompile(`(?i)FOREIGN\s+KEY\s*\((\w+)\)\s*REFERENCES\s+(\w+)\s*\((\w+)\)`)
	reConstraint  = regexp.MustCompile(`(?i)^(?:FOREIGN\s+KEY|PRIMARY\s+KEY|UNIQUE|CHECK|CONSTRAINT)\b`)
	reColumn      = regexp.MustCompile(`^(\w+)\s+([A-Za-z]+(?:\([^)]+\))?)`)
)

// Parse extracts every CREATE TABLE statement from text. It is best-effort:
// statements and column definitions that do not fit the accepted shapes are
// skipped silently, and text without any CREATE TABLE yields an empty list.
func Parse(text string) []Table {
	tables := []Table{}
	for _, m := range reCreateTable.FindAllStringSubmatch(text, -1) {
		tables = append(tables, Table{
			Name:    m[1],
			Columns: parseColumns(m[2]),
		})
	}
	return tables
}

func parseColumns(body string) []Column {
	columns := []Column{}
	for _, def := range splitDefinitions(body) {
		if reConstraint.MatchString(def) {
			continue
		}
		m := reColumn.FindStringSubmatch(def)
		if m == nil {
			continue
		}
		columns = append(columns, Column{
			Name:         m[1],
			Type:         m[2],
			IsPrimaryKey: strings.Contains(def, "PRIMARY KEY"),
			IsNotNull:    strings.Contains(def, "NOT NULL"),
			IsUnique:     strings.Contains(def, "UNIQUE"),
		})
	}
	return columns
}

// splitDefinitions cuts a table body into trimmed, non-empty definitions.
// Every newline ends a definition; a comma ends one only outside
// parentheses and quotes, so "DECIMAL(10,2)" and "DEFAULT 'a,b'" stay whole.
func splitDefinitions(body string) []string {
	var (
		defs  []string
		start int
		depth int
		quote rune
	)
	flush := func(end int) {
		if def := strings.TrimSpace(body[start:end]); def != "" {
			defs = append(defs, def)
		}
		start = end + 1
	}

	for i, r := range body {
		switch {
		case r == '\n':
			flush(i)
			depth, quote = 0, 0
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case r == '\'' || r == '"' || r == '`':
			quote = r
		case r == '(':
			depth++
		case r == ')':
			if depth > 0 {
				depth--
			}
		case r == ',' && depth == 0:
			flush(i)
		}
	}
	flush(len(body))
	return defs
}

// ParseRelationships scans text line by line and returns one Relationship
// per "FOREIGN KEY (col) REFERENCES table(col)" occurrence, attributed to
// the most recent CREATE TABLE name seen above it (or on the same line).
// Foreign keys appearing before any CREATE TABLE are ignored.
func ParseRelationships(text string) []Relationship {
	rels := []Relationship{}
	current := ""
	for _, line := range strings.Split(text, "\n") {
		if m := reTableName.FindStringSubmatch(line); m != nil {
			current = m[1]
		}
		if current == "" {
			continue
		}
		for _, m := range reForeignKey.FindAllStringSubmatch(line, -1) {
			rels = append(rels, Relationship{
				FromTable:  current,
				FromColumn: m[1],
				ToTable:    m[2],
				ToColumn:   m[3],
			})
		}
	}
	return rels
}

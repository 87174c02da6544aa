// Package completion offers schema-aware suggestions: fuzzy search over
// tables and columns for the schema browser, and context-sensitive
// completion for free-text SQL fragments such as join and HAVING
// conditions.
package completion

import (
	"regexp"
	"sort"
	"strings"
	"sync"
	"unicode"

	"github.com/sahilm/fuzzy"

	"github.com/sadopc/querycraft/internal/schema"
)

// Kind classifies a suggestion.
type Kind int

const (
	KindKeyword Kind = iota
	KindTable
	KindColumn
	KindFunction
)

// Item is one suggestion. Table and Column identify the schema element a
// table or column item stands for.
type Item struct {
	Label  string
	Kind   Kind
	Detail string
	Table  string
	Column string
}

// maxResults caps every suggestion list.
const maxResults = 50

// Engine provides suggestions for one schema and SQL dialect.
type Engine struct {
	mu        sync.RWMutex
	tables    []schema.Table
	byName    map[string]schema.Table
	keywords  []string
	functions []string
}

// NewEngine creates an engine with the keyword and function lists of the
// given dialect. An unknown dialect gets the common lists.
func NewEngine(dialect string) *Engine {
	return &Engine{
		byName:    make(map[string]schema.Table),
		keywords:  KeywordsForDialect(dialect),
		functions: FunctionsForDialect(dialect),
	}
}

// SetTables replaces the schema the engine suggests from.
func (e *Engine) SetTables(tables []schema.Table) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.tables = append([]schema.Table(nil), tables...)
	e.byName = make(map[string]schema.Table, len(tables))
	for _, t := range tables {
		e.byName[t.Name] = t
	}
}

// Functions returns the dialect's function names.
func (e *Engine) Functions() []string {
	return append([]string(nil), e.functions...)
}

// ---------------------------------------------------------------------------
// Schema search
// ---------------------------------------------------------------------------

// Search fuzzy-matches pattern against every "table" and "table.column"
// label, best match first. An empty pattern returns every candidate in
// schema order.
func (e *Engine) Search(pattern string) []Item {
	e.mu.RLock()
	var items []Item
	for _, t := range e.tables {
		items = append(items, Item{Label: t.Name, Kind: KindTable, Detail: "table", Table: t.Name})
		for _, c := range t.Columns {
			items = append(items, Item{
				Label:  t.Name + "." + c.Name,
				Kind:   KindColumn,
				Detail: columnDetail(c),
				Table:  t.Name,
				Column: c.Name,
			})
		}
	}
	e.mu.RUnlock()

	if strings.TrimSpace(pattern) == "" {
		return items
	}
	return rank(pattern, items, 0)
}

// ---------------------------------------------------------------------------
// Text completion
// ---------------------------------------------------------------------------

// Complete returns candidates for the word at cursorPos in text.
func (e *Engine) Complete(text string, cursorPos int) []Item {
	if cursorPos > len(text) {
		cursorPos = len(text)
	}
	if cursorPos < 0 {
		cursorPos = 0
	}

	before := text[:cursorPos]

	// No completions inside string literals.
	if insideStringLiteral(before) {
		return nil
	}

	prefix, dotContext := extractPrefix(before)

	// "users." or "users.na": columns of that table.
	if dotContext != "" {
		items := e.columnsForTable(dotContext)
		if prefix == "" {
			return items
		}
		return rank(prefix, items, maxResults)
	}

	var items []Item
	switch detectContext(before, prefix) {
	case contextFrom:
		items = e.tableCompletions()
	case contextColumn:
		for _, t := range parseFromTables(text) {
			items = append(items, e.columnsForTable(t)...)
		}
		items = append(items, e.qualifiedColumns()...)
		items = append(items, e.functionCompletions()...)
	default:
		items = append(items, e.keywordCompletions()...)
		items = append(items, e.tableCompletions()...)
		items = append(items, e.functionCompletions()...)
	}

	if prefix == "" {
		if len(items) > maxResults {
			items = items[:maxResults]
		}
		return items
	}
	return rank(prefix, items, maxResults)
}

// contextKind indicates the kind of SQL context before the cursor.
type contextKind int

const (
	contextGeneral contextKind = iota
	contextFrom
	contextColumn
)

// fromKeywords trigger table name completions.
var fromKeywords = map[string]bool{
	"FROM": true, "JOIN": true, "INTO": true, "UPDATE": true, "TABLE": true,
	"LEFT": true, "RIGHT": true, "INNER": true, "OUTER": true, "FULL": true, "CROSS": true,
}

// columnKeywords trigger column name completions. Comparison operators
// are included because condition fragments are usually "a.x = b.y".
var columnKeywords = map[string]bool{
	"SELECT": true, "WHERE": true, "SET": true, "ON": true,
	"AND": true, "OR": true, "HAVING": true, "BY": true, "NOT": true,
	"=": true, "<>": true, "!=": true, "<": true, ">": true, "<=": true, ">=": true,
}

// detectContext looks at the text before the prefix to decide what to
// offer. An empty context is a bare condition fragment, so it offers
// columns.
func detectContext(before, prefix string) contextKind {
	ctxText := strings.TrimSpace(before[:len(before)-len(prefix)])
	if ctxText == "" {
		return contextGeneral
	}

	tokens := strings.Fields(ctxText)
	last := strings.ToUpper(tokens[len(tokens)-1])

	if fromKeywords[last] {
		return contextFrom
	}
	if columnKeywords[last] {
		return contextColumn
	}

	// A trailing comma continues whichever list we are in.
	if strings.HasSuffix(last, ",") {
		for i := len(tokens) - 1; i >= 0; i-- {
			tok := strings.ToUpper(strings.TrimRight(tokens[i], ","))
			if fromKeywords[tok] {
				return contextFrom
			}
			if columnKeywords[tok] {
				return contextColumn
			}
		}
	}
	return contextGeneral
}

// extractPrefix returns the word being typed and its dot context.
// For "users.na" it returns ("na", "users").
func extractPrefix(before string) (prefix, dotContext string) {
	i := len(before) - 1
	for i >= 0 && !isWordBreak(rune(before[i])) {
		i--
	}
	word := before[i+1:]
	if dot := strings.LastIndex(word, "."); dot >= 0 {
		return word[dot+1:], word[:dot]
	}
	return word, ""
}

func isWordBreak(r rune) bool {
	return !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '.')
}

func insideStringLiteral(before string) bool {
	return strings.Count(before, "'")%2 != 0
}

var (
	fromClauseRe = regexp.MustCompile(`(?i)\bFROM\s+([\w."]+(?:\s+(?:AS\s+)?[\w]+)?(?:\s*,\s*[\w."]+(?:\s+(?:AS\s+)?[\w]+)?)*)`)
	joinClauseRe = regexp.MustCompile(`(?i)\bJOIN\s+([\w."]+)`)
)

// parseFromTables extracts table names from FROM and JOIN clauses.
func parseFromTables(text string) []string {
	var tables []string
	seen := map[string]bool{}
	add := func(name string) {
		name = strings.Trim(name, `"`)
		if name != "" && !seen[name] {
			seen[name] = true
			tables = append(tables, name)
		}
	}

	for _, m := range fromClauseRe.FindAllStringSubmatch(text, -1) {
		for _, part := range strings.Split(m[1], ",") {
			if fields := strings.Fields(part); len(fields) > 0 {
				add(fields[0])
			}
		}
	}
	for _, m := range joinClauseRe.FindAllStringSubmatch(text, -1) {
		add(m[1])
	}
	return tables
}

// ---------------------------------------------------------------------------
// Candidate lists
// ---------------------------------------------------------------------------

func (e *Engine) columnsForTable(name string) []Item {
	e.mu.RLock()
	defer e.mu.RUnlock()
	t, ok := e.byName[name]
	if !ok {
		return nil
	}
	items := make([]Item, 0, len(t.Columns))
	for _, c := range t.Columns {
		items = append(items, Item{
			Label:  c.Name,
			Kind:   KindColumn,
			Detail: t.Name + " - " + columnDetail(c),
			Table:  t.Name,
			Column: c.Name,
		})
	}
	return items
}

// qualifiedColumns lists every column as "table.column".
func (e *Engine) qualifiedColumns() []Item {
	e.mu.RLock()
	defer e.mu.RUnlock()
	var items []Item
	for _, t := range e.tables {
		for _, c := range t.Columns {
			items = append(items, Item{
				Label:  t.Name + "." + c.Name,
				Kind:   KindColumn,
				Detail: columnDetail(c),
				Table:  t.Name,
				Column: c.Name,
			})
		}
	}
	return items
}

func (e *Engine) tableCompletions() []Item {
	e.mu.RLock()
	defer e.mu.RUnlock()
	seen := map[string]bool{}
	var items []Item
	for _, t := range e.tables {
		if seen[t.Name] {
			continue
		}
		seen[t.Name] = true
		items = append(items, Item{Label: t.Name, Kind: KindTable, Detail: "table", Table: t.Name})
	}
	return items
}

func (e *Engine) keywordCompletions() []Item {
	items := make([]Item, 0, len(e.keywords))
	for _, kw := range e.keywords {
		items = append(items, Item{Label: kw, Kind: KindKeyword, Detail: "keyword"})
	}
	return items
}

func (e *Engine) functionCompletions() []Item {
	items := make([]Item, 0, len(e.functions))
	for _, fn := range e.functions {
		items = append(items, Item{Label: fn, Kind: KindFunction, Detail: "function"})
	}
	return items
}

func columnDetail(c schema.Column) string {
	detail := c.Type
	if c.IsPrimaryKey {
		detail += " PK"
	}
	if c.IsNotNull {
		detail += " NOT NULL"
	}
	if c.IsUnique {
		detail += " UNIQUE"
	}
	return strings.TrimSpace(detail)
}

// ---------------------------------------------------------------------------
// Ranking
// ---------------------------------------------------------------------------

// labels implements fuzzy.Source over lower-cased item labels.
type labels []string

func (l labels) String(i int) string { return l[i] }
func (l labels) Len() int            { return len(l) }

// rank filters items by fuzzy match against pattern, best score first and
// ties in input order. Matching is case-insensitive. limit <= 0 means no
// cap.
func rank(pattern string, items []Item, limit int) []Item {
	if len(items) == 0 {
		return nil
	}
	lower := make(labels, len(items))
	for i, it := range items {
		lower[i] = strings.ToLower(it.Label)
	}

	matches := fuzzy.FindFrom(strings.ToLower(pattern), lower)
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	out := make([]Item, 0, len(matches))
	for _, m := range matches {
		out = append(out, items[m.Index])
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

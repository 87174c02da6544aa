// Package schema holds the table catalog that drives the query builder and
// the relationship view, together with a best-effort CREATE TABLE parser.
package schema

// Table represents a table declared in the schema text.
type Table struct {
	Name    string   `yaml:"name"`
	Columns []Column `yaml:"columns"`
}

// Column represents a table column. Type is the raw type token as written
// (e.g. "VARCHAR(50)"), not normalised.
type Column struct {
	Name         string `yaml:"name"`
	Type         string `yaml:"type"`
	IsPrimaryKey bool   `yaml:"primary_key,omitempty"`
	IsNotNull    bool   `yaml:"not_null,omitempty"`
	IsUnique     bool   `yaml:"unique,omitempty"`
}

// Relationship is a single-column foreign key edge. It is derived from the
// schema text independently of the Table list, so either end may name a
// table that the list does not contain.
type Relationship struct {
	FromTable  string `yaml:"from_table"`
	FromColumn string `yaml:"from_column"`
	ToTable    string `yaml:"to_table"`
	ToColumn   string `yaml:"to_column"`
}

// Catalog bundles the tables and relationships of one schema.
type Catalog struct {
	Tables        []Table        `yaml:"tables"`
	Relationships []Relationship `yaml:"relationships,omitempty"`
}

// Load parses both tables and relationships from DDL text.
func Load(text string) *Catalog {
	return &Catalog{
		Tables:        Parse(text),
		Relationships: ParseRelationships(text),
	}
}

// Table returns the last table called name. Later declarations win, which
// matches how a re-declared table overrides an earlier one in a script.
func (c *Catalog) Table(name string) (Table, bool) {
	if c == nil {
		return Table{}, false
	}
	for i := len(c.Tables) - 1; i >= 0; i-- {
		if c.Tables[i].Name == name {
			return c.Tables[i], true
		}
	}
	return Table{}, false
}

// Column returns the column called name.
func (t Table) Column(name string) (Column, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

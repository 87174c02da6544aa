// Package source introspects live databases and turns their tables, keys
// and foreign keys into a schema.Catalog. Drivers live in sub-packages and
// register themselves from init.
package source

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/sadopc/querycraft/internal/schema"
)

var (
	// ErrUnknownAdapter is returned when no registered source matches the
	// requested name or the DSN cannot be recognized.
	ErrUnknownAdapter = errors.New("unknown adapter")
	// ErrDisabled is returned by sources whose driver was not compiled in.
	ErrDisabled = errors.New("adapter support not compiled in")
)

// Source loads the schema of a live database.
type Source interface {
	Name() string
	Load(ctx context.Context, dsn string) (*schema.Catalog, error)
}

// Registry holds registered sources by name.
var Registry = map[string]Source{}

// Register adds a source to the global registry.
func Register(s Source) {
	Registry[s.Name()] = s
}

// Lookup returns the source registered under name.
func Lookup(name string) (Source, error) {
	s, ok := Registry[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w %q (available: %s)", ErrUnknownAdapter, name, strings.Join(Names(), ", "))
	}
	return s, nil
}

// Names returns the registered source names in sorted order.
func Names() []string {
	names := make([]string, 0, len(Registry))
	for name := range Registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Detect guesses the adapter name from a DSN's scheme or file suffix. It
// returns "" when nothing matches.
func Detect(dsn string) string {
	lower := strings.ToLower(dsn)
	switch {
	case strings.HasPrefix(lower, "postgres://") || strings.HasPrefix(lower, "postgresql://"):
		return "postgres"
	case strings.HasPrefix(lower, "mysql://"):
		return "mysql"
	case strings.HasPrefix(lower, "sqlite://") || strings.HasPrefix(lower, "file:"):
		return "sqlite"
	case strings.HasPrefix(lower, "duckdb://"):
		return "duckdb"
	case strings.HasSuffix(lower, ".db") || strings.HasSuffix(lower, ".sqlite") || strings.HasSuffix(lower, ".sqlite3"):
		return "sqlite"
	case strings.HasSuffix(lower, ".duckdb"):
		return "duckdb"
	case strings.Contains(lower, "@tcp("):
		return "mysql"
	case strings.Contains(lower, "host=") || strings.Contains(lower, "dbname="):
		return "postgres"
	}
	return ""
}

// Introspect loads the catalog behind dsn. An empty name is resolved with
// Detect.
func Introspect(ctx context.Context, name, dsn string) (*schema.Catalog, error) {
	if name == "" {
		name = Detect(dsn)
		if name == "" {
			return nil, fmt.Errorf("%w: cannot detect adapter from DSN, pass one explicitly", ErrUnknownAdapter)
		}
	}
	s, err := Lookup(name)
	if err != nil {
		return nil, err
	}
	return s.Load(ctx, dsn)
}

// Package sqlite introspects SQLite database files through PRAGMA queries.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/sadopc/querycraft/internal/schema"
	"github.com/sadopc/querycraft/internal/source"
)

func init() {
	source.Register(&sqliteSource{})
}

// sqliteSource implements source.Source for SQLite databases.
type sqliteSource struct{}

func (s *sqliteSource) Name() string { return "sqlite" }

func (s *sqliteSource) Load(ctx context.Context, dsn string) (*schema.Catalog, error) {
	db, err := sql.Open("sqlite", normalizeDSN(dsn))
	if err != nil {
		return nil, fmt.Errorf("sqlite open: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("sqlite ping: %w", err)
	}
	return LoadDB(ctx, db)
}

// normalizeDSN strips common SQLite URI prefixes.
func normalizeDSN(dsn string) string {
	if strings.HasPrefix(dsn, "sqlite://") {
		return strings.TrimPrefix(dsn, "sqlite://")
	}
	if strings.HasPrefix(dsn, "file:") {
		return strings.TrimPrefix(dsn, "file:")
	}
	return dsn
}

// LoadDB reads the catalog of an already open SQLite database.
func LoadDB(ctx context.Context, db *sql.DB) (*schema.Catalog, error) {
	tables, err := tableNames(ctx, db)
	if err != nil {
		return nil, err
	}

	b := source.NewBuilder()
	for _, t := range tables {
		b.AddTable(t)
		if err := loadColumns(ctx, db, b, t); err != nil {
			return nil, err
		}
		if err := loadIndexes(ctx, db, b, t); err != nil {
			return nil, err
		}
	}

	// A foreign key without a target column references the primary key, so
	// primary keys must be known before foreign keys are resolved.
	for _, t := range tables {
		if err := loadForeignKeys(ctx, db, b, t); err != nil {
			return nil, err
		}
	}
	return b.Catalog(), nil
}

func tableNames(ctx context.Context, db *sql.DB) ([]string, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT name FROM sqlite_master
		 WHERE type = 'table' AND name NOT LIKE 'sqlite_%'
		 ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("sqlite tables: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("sqlite tables scan: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// loadColumns reads PRAGMA table_info.
func loadColumns(ctx context.Context, db *sql.DB, b *source.Builder, table string) error {
	rows, err := db.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%q)", table))
	if err != nil {
		return fmt.Errorf("sqlite columns: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			cid       int
			name      string
			colType   string
			notNull   int
			dfltValue sql.NullString
			pk        int
		)
		if err := rows.Scan(&cid, &name, &colType, &notNull, &dfltValue, &pk); err != nil {
			return fmt.Errorf("sqlite columns scan: %w", err)
		}
		b.AddColumn(table, schema.Column{
			Name:         name,
			Type:         colType,
			IsPrimaryKey: pk > 0,
			IsNotNull:    notNull == 1,
		})
	}
	return rows.Err()
}

// loadIndexes reads PRAGMA index_list and index_info for unique indexes.
func loadIndexes(ctx context.Context, db *sql.DB, b *source.Builder, table string) error {
	listRows, err := db.QueryContext(ctx, fmt.Sprintf("PRAGMA index_list(%q)", table))
	if err != nil {
		return fmt.Errorf("sqlite index_list: %w", err)
	}

	type indexEntry struct {
		name    string
		primary bool
	}
	var entries []indexEntry
	for listRows.Next() {
		var (
			seq     int
			name    string
			unique  int
			origin  string
			partial int
		)
		if err := listRows.Scan(&seq, &name, &unique, &origin, &partial); err != nil {
			listRows.Close()
			return fmt.Errorf("sqlite index_list scan: %w", err)
		}
		if unique == 1 && partial == 0 {
			entries = append(entries, indexEntry{name: name, primary: origin == "pk"})
		}
	}
	listRows.Close()
	if err := listRows.Err(); err != nil {
		return err
	}

	for _, entry := range entries {
		infoRows, err := db.QueryContext(ctx, fmt.Sprintf("PRAGMA index_info(%q)", entry.name))
		if err != nil {
			return fmt.Errorf("sqlite index_info: %w", err)
		}
		for infoRows.Next() {
			var (
				seqno int
				cid   int
				name  sql.NullString
			)
			if err := infoRows.Scan(&seqno, &cid, &name); err != nil {
				infoRows.Close()
				return fmt.Errorf("sqlite index_info scan: %w", err)
			}
			// Expression index columns have no name.
			if name.Valid {
				b.AddIndexColumn(table, entry.name, name.String, entry.primary, true)
			}
		}
		infoRows.Close()
		if err := infoRows.Err(); err != nil {
			return err
		}
	}
	return nil
}

// loadForeignKeys reads PRAGMA foreign_key_list. A reference without target
// columns points at the referenced table's primary key.
func loadForeignKeys(ctx context.Context, db *sql.DB, b *source.Builder, table string) error {
	rows, err := db.QueryContext(ctx, fmt.Sprintf("PRAGMA foreign_key_list(%q)", table))
	if err != nil {
		return fmt.Errorf("sqlite foreign_key_list: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id, seq            int
			refTable, from     string
			to                 sql.NullString
			onUpdate, onDelete string
			match              string
		)
		if err := rows.Scan(&id, &seq, &refTable, &from, &to, &onUpdate, &onDelete, &match); err != nil {
			return fmt.Errorf("sqlite foreign_key_list scan: %w", err)
		}
		refColumn := to.String
		if refColumn == "" {
			if pk := b.PrimaryKey(refTable); seq < len(pk) {
				refColumn = pk[seq]
			}
		}
		b.AddForeignKey(table, from, refTable, refColumn)
	}
	return rows.Err()
}

//go:build duckdb

package duckdb

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/marcboeker/go-duckdb"

	"github.com/sadopc/querycraft/internal/schema"
	"github.com/sadopc/querycraft/internal/source"
)

func init() {
	source.Register(&duckdbSource{})
}

type duckdbSource struct{}

func (s *duckdbSource) Name() string { return "duckdb" }

func (s *duckdbSource) Load(ctx context.Context, dsn string) (*schema.Catalog, error) {
	dsn = strings.TrimPrefix(dsn, "duckdb://")
	if dsn == "" {
		dsn = ":memory:"
	}

	db, err := sql.Open("duckdb", dsn)
	if err != nil {
		return nil, fmt.Errorf("duckdb: open: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("duckdb: ping: %w", err)
	}
	return LoadDB(ctx, db)
}

// LoadDB reads the catalog of the current schema of an open DuckDB database.
func LoadDB(ctx context.Context, db *sql.DB) (*schema.Catalog, error) {
	b := source.NewBuilder()
	if err := loadColumns(ctx, db, b); err != nil {
		return nil, err
	}
	if err := loadKeys(ctx, db, b); err != nil {
		return nil, err
	}
	if err := loadForeignKeys(ctx, db, b); err != nil {
		return nil, err
	}
	return b.Catalog(), nil
}

func loadColumns(ctx context.Context, db *sql.DB, b *source.Builder) error {
	const query = `
		SELECT c.table_name, c.column_name, c.data_type, c.is_nullable
		FROM information_schema.columns c
		JOIN information_schema.tables t
		  ON t.table_catalog = c.table_catalog
		  AND t.table_schema = c.table_schema
		  AND t.table_name = c.table_name
		WHERE c.table_catalog = current_database()
		  AND c.table_schema = current_schema()
		  AND t.table_type = 'BASE TABLE'
		ORDER BY c.table_name, c.ordinal_position`
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return fmt.Errorf("duckdb: columns: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			table, nullable string
			col             schema.Column
		)
		if err := rows.Scan(&table, &col.Name, &col.Type, &nullable); err != nil {
			return fmt.Errorf("duckdb: columns scan: %w", err)
		}
		col.IsNotNull = nullable == "NO"
		b.AddColumn(table, col)
	}
	return rows.Err()
}

func loadKeys(ctx context.Context, db *sql.DB, b *source.Builder) error {
	const query = `
		SELECT tc.table_name, tc.constraint_name, kcu.column_name, tc.constraint_type
		FROM information_schema.table_constraints tc
		JOIN information_schema.key_column_usage kcu
		  ON tc.constraint_name = kcu.constraint_name
		  AND tc.table_catalog = kcu.table_catalog
		  AND tc.table_schema = kcu.table_schema
		  AND tc.table_name = kcu.table_name
		WHERE tc.constraint_type IN ('PRIMARY KEY', 'UNIQUE')
		  AND tc.table_catalog = current_database()
		  AND tc.table_schema = current_schema()
		ORDER BY tc.table_name, tc.constraint_name, kcu.ordinal_position`
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return fmt.Errorf("duckdb: keys: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var table, constraint, column, kind string
		if err := rows.Scan(&table, &constraint, &column, &kind); err != nil {
			return fmt.Errorf("duckdb: keys scan: %w", err)
		}
		b.AddIndexColumn(table, constraint, column, kind == "PRIMARY KEY", true)
	}
	return rows.Err()
}

func loadForeignKeys(ctx context.Context, db *sql.DB, b *source.Builder) error {
	const query = `
		SELECT kcu.table_name, kcu.column_name, kcu2.table_name, kcu2.column_name
		FROM information_schema.referential_constraints rc
		JOIN information_schema.key_column_usage kcu
		  ON rc.constraint_catalog = kcu.constraint_catalog
		  AND rc.constraint_schema = kcu.constraint_schema
		  AND rc.constraint_name = kcu.constraint_name
		JOIN information_schema.key_column_usage kcu2
		  ON rc.unique_constraint_catalog = kcu2.constraint_catalog
		  AND rc.unique_constraint_schema = kcu2.constraint_schema
		  AND rc.unique_constraint_name = kcu2.constraint_name
		  AND kcu.ordinal_position = kcu2.ordinal_position
		WHERE kcu.table_catalog = current_database()
		  AND kcu.table_schema = current_schema()
		ORDER BY kcu.table_name, rc.constraint_name, kcu.ordinal_position`
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return fmt.Errorf("duckdb: foreign keys: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var table, column, refTable, refColumn string
		if err := rows.Scan(&table, &column, &refTable, &refColumn); err != nil {
			return fmt.Errorf("duckdb: foreign keys scan: %w", err)
		}
		b.AddForeignKey(table, column, refTable, refColumn)
	}
	return rows.Err()
}

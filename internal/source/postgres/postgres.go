// Package postgres introspects PostgreSQL databases with pgx.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sadopc/querycraft/internal/schema"
	"github.com/sadopc/querycraft/internal/source"
)

func init() {
	source.Register(&postgresSource{})
}

// postgresSource implements source.Source for PostgreSQL. Only the
// connection's current schema (normally public) is read.
type postgresSource struct{}

func (s *postgresSource) Name() string { return "postgres" }

func (s *postgresSource) Load(ctx context.Context, dsn string) (*schema.Catalog, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: invalid dsn: %w", err)
	}
	cfg.MaxConns = 1

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("postgres connect: %w", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("postgres ping: %w", err)
	}

	b := source.NewBuilder()
	if err := loadColumns(ctx, pool, b); err != nil {
		return nil, err
	}
	if err := loadKeys(ctx, pool, b); err != nil {
		return nil, err
	}
	if err := loadForeignKeys(ctx, pool, b); err != nil {
		return nil, err
	}
	return b.Catalog(), nil
}

func loadColumns(ctx context.Context, pool *pgxpool.Pool, b *source.Builder) error {
	rows, err := pool.Query(ctx,
		`SELECT c.table_name,
		        c.column_name,
		        UPPER(c.data_type),
		        c.is_nullable
		 FROM information_schema.columns c
		 JOIN information_schema.tables t
		      ON t.table_schema = c.table_schema
		     AND t.table_name   = c.table_name
		 WHERE c.table_schema = current_schema()
		   AND t.table_type   = 'BASE TABLE'
		 ORDER BY c.table_name, c.ordinal_position`)
	if err != nil {
		return fmt.Errorf("columns: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			table, nullable string
			col             schema.Column
		)
		if err := rows.Scan(&table, &col.Name, &col.Type, &nullable); err != nil {
			return fmt.Errorf("columns scan: %w", err)
		}
		col.IsNotNull = nullable == "NO"
		b.AddColumn(table, col)
	}
	return rows.Err()
}

// loadKeys reads primary-key and unique indexes from pg_index.
func loadKeys(ctx context.Context, pool *pgxpool.Pool, b *source.Builder) error {
	rows, err := pool.Query(ctx,
		`SELECT t.relname                         AS table_name,
		        i.relname                         AS index_name,
		        array_agg(a.attname ORDER BY k.n) AS columns,
		        ix.indisprimary                   AS is_primary
		 FROM pg_index ix
		 JOIN pg_class  t ON t.oid  = ix.indrelid
		 JOIN pg_class  i ON i.oid  = ix.indexrelid
		 JOIN pg_namespace n ON n.oid = t.relnamespace
		 JOIN LATERAL unnest(ix.indkey) WITH ORDINALITY AS k(attnum, n) ON true
		 JOIN pg_attribute a ON a.attrelid = t.oid AND a.attnum = k.attnum
		 WHERE n.nspname = current_schema()
		   AND (ix.indisprimary OR ix.indisunique)
		   AND ix.indpred IS NULL
		 GROUP BY t.relname, i.relname, ix.indisprimary
		 ORDER BY t.relname, i.relname`)
	if err != nil {
		return fmt.Errorf("indexes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			table, index string
			cols         []string
			primary      bool
		)
		if err := rows.Scan(&table, &index, &cols, &primary); err != nil {
			return fmt.Errorf("indexes scan: %w", err)
		}
		for _, c := range cols {
			b.AddIndexColumn(table, index, c, primary, true)
		}
	}
	return rows.Err()
}

func loadForeignKeys(ctx context.Context, pool *pgxpool.Pool, b *source.Builder) error {
	rows, err := pool.Query(ctx,
		`SELECT kcu.table_name,
		        kcu.column_name,
		        ccu.table_name  AS ref_table,
		        ccu.column_name AS ref_column
		 FROM information_schema.table_constraints tc
		 JOIN information_schema.key_column_usage kcu
		      ON kcu.constraint_name = tc.constraint_name
		     AND kcu.table_schema    = tc.table_schema
		 JOIN information_schema.constraint_column_usage ccu
		      ON ccu.constraint_name = tc.constraint_name
		     AND ccu.table_schema    = tc.table_schema
		 WHERE tc.constraint_type = 'FOREIGN KEY'
		   AND tc.table_schema    = current_schema()
		 ORDER BY kcu.table_name, tc.constraint_name, kcu.ordinal_position`)
	if err != nil {
		return fmt.Errorf("foreign keys: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var table, column, refTable, refColumn string
		if err := rows.Scan(&table, &column, &refTable, &refColumn); err != nil {
			return fmt.Errorf("foreign keys scan: %w", err)
		}
		b.AddForeignKey(table, column, refTable, refColumn)
	}
	return rows.Err()
}

package source

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/sadopc/querycraft/internal/schema"
)

// mockSource is a minimal source for testing the registry.
type mockSource struct {
	name    string
	catalog *schema.Catalog
	gotDSN  string
}

func (m *mockSource) Name() string { return m.name }
func (m *mockSource) Load(_ context.Context, dsn string) (*schema.Catalog, error) {
	m.gotDSN = dsn
	return m.catalog, nil
}

func withRegistry(t *testing.T, sources ...Source) {
	t.Helper()
	orig := Registry
	t.Cleanup(func() { Registry = orig })

	Registry = map[string]Source{}
	for _, s := range sources {
		Register(s)
	}
}

func TestRegisterAndLookup(t *testing.T) {
	mock := &mockSource{name: "testdb"}
	withRegistry(t, mock)

	got, err := Lookup("testdb")
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	if got != mock {
		t.Errorf("Lookup() = %v, want registered mock", got)
	}
	if _, err := Lookup("TESTDB"); err != nil {
		t.Errorf("Lookup(TESTDB) error = %v, want case-insensitive match", err)
	}
	if _, err := Lookup("oracle"); !errors.Is(err, ErrUnknownAdapter) {
		t.Errorf("Lookup(oracle) error = %v, want ErrUnknownAdapter", err)
	}
}

func TestNames(t *testing.T) {
	withRegistry(t, &mockSource{name: "charlie"}, &mockSource{name: "alpha"}, &mockSource{name: "bravo"})

	want := []string{"alpha", "bravo", "charlie"}
	if got := Names(); !reflect.DeepEqual(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
}

func TestDetect(t *testing.T) {
	tests := []struct {
		dsn  string
		want string
	}{
		{"postgres://u:p@localhost/db", "postgres"},
		{"postgresql://localhost/db", "postgres"},
		{"host=localhost dbname=app", "postgres"},
		{"mysql://root@localhost/shop", "mysql"},
		{"root:pw@tcp(localhost:3306)/shop", "mysql"},
		{"sqlite:///tmp/a.db", "sqlite"},
		{"file:test.db", "sqlite"},
		{"/data/app.sqlite3", "sqlite"},
		{"app.DB", "sqlite"},
		{"duckdb://wh.duckdb", "duckdb"},
		{"/data/wh.duckdb", "duckdb"},
		{"just-a-name", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Detect(tt.dsn); got != tt.want {
			t.Errorf("Detect(%q) = %q, want %q", tt.dsn, got, tt.want)
		}
	}
}

func TestIntrospect(t *testing.T) {
	cat := &schema.Catalog{Tables: []schema.Table{{Name: "users"}}}
	mock := &mockSource{name: "sqlite", catalog: cat}
	withRegistry(t, mock)

	got, err := Introspect(context.Background(), "", "app.db")
	if err != nil {
		t.Fatalf("Introspect() error = %v", err)
	}
	if got != cat {
		t.Errorf("Introspect() = %+v, want mock catalog", got)
	}
	if mock.gotDSN != "app.db" {
		t.Errorf("source received DSN %q", mock.gotDSN)
	}

	if _, err := Introspect(context.Background(), "", "mystery"); !errors.Is(err, ErrUnknownAdapter) {
		t.Errorf("Introspect(undetectable) error = %v, want ErrUnknownAdapter", err)
	}
	if _, err := Introspect(context.Background(), "postgres", "x"); !errors.Is(err, ErrUnknownAdapter) {
		t.Errorf("Introspect(unregistered) error = %v, want ErrUnknownAdapter", err)
	}
}

// ---------------------------------------------------------------------------
// Builder
// ---------------------------------------------------------------------------

func TestBuilder(t *testing.T) {
	b := NewBuilder()
	b.AddColumn("users", schema.Column{Name: "id", Type: "INTEGER", IsNotNull: true})
	b.AddColumn("users", schema.Column{Name: "email", Type: "TEXT"})
	b.AddColumn("orders", schema.Column{Name: "id", Type: "INTEGER"})
	b.AddColumn("orders", schema.Column{Name: "user_id", Type: "INTEGER"})
	b.AddColumn("orders", schema.Column{Name: "sku", Type: "TEXT"})
	b.AddTable("empty")
	b.AddTable("users")

	b.AddIndexColumn("users", "users_pkey", "id", true, true)
	b.AddIndexColumn("users", "users_email_key", "email", false, true)
	b.AddIndexColumn("orders", "orders_pkey", "id", true, true)
	// Composite unique index does not mark its columns unique.
	b.AddIndexColumn("orders", "orders_user_sku", "user_id", false, true)
	b.AddIndexColumn("orders", "orders_user_sku", "sku", false, true)
	// Plain index is ignored.
	b.AddIndexColumn("orders", "orders_sku_idx", "sku", false, false)
	// Index on an unknown table is ignored.
	b.AddIndexColumn("ghost", "ghost_pkey", "id", true, true)

	b.AddForeignKey("orders", "user_id", "users", "id")

	got := b.Catalog()
	want := &schema.Catalog{
		Tables: []schema.Table{
			{Name: "users", Columns: []schema.Column{
				{Name: "id", Type: "INTEGER", IsPrimaryKey: true, IsNotNull: true},
				{Name: "email", Type: "TEXT", IsUnique: true},
			}},
			{Name: "orders", Columns: []schema.Column{
				{Name: "id", Type: "INTEGER", IsPrimaryKey: true},
				{Name: "user_id", Type: "INTEGER"},
				{Name: "sku", Type: "TEXT"},
			}},
			{Name: "empty"},
		},
		Relationships: []schema.Relationship{
			{FromTable: "orders", FromColumn: "user_id", ToTable: "users", ToColumn: "id"},
		},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Catalog() =\n%+v\nwant\n%+v", got, want)
	}
}

func TestBuilder_CompositePrimaryKey(t *testing.T) {
	b := NewBuilder()
	b.AddColumn("order_items", schema.Column{Name: "order_id", Type: "INT"})
	b.AddColumn("order_items", schema.Column{Name: "line", Type: "INT"})
	b.AddColumn("order_items", schema.Column{Name: "qty", Type: "INT"})
	b.AddIndexColumn("order_items", "PRIMARY", "order_id", true, true)
	b.AddIndexColumn("order_items", "PRIMARY", "line", true, true)

	if got, want := b.PrimaryKey("order_items"), []string{"order_id", "line"}; !reflect.DeepEqual(got, want) {
		t.Errorf("PrimaryKey() = %v, want %v", got, want)
	}
	if got := b.PrimaryKey("missing"); got != nil {
		t.Errorf("PrimaryKey(missing) = %v, want nil", got)
	}
}

package export

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/sadopc/querycraft/internal/query"
)

func TestWriteSQL(t *testing.T) {
	tests := []struct {
		name string
		sql  string
		want string
	}{
		{"adds newline", "SELECT *\nFROM users", "SELECT *\nFROM users\n"},
		{"keeps newline", "DELETE FROM users\n", "DELETE FROM users\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "out", "query.sql")
			if err := WriteSQL(path, tt.sql); err != nil {
				t.Fatalf("WriteSQL() error = %v", err)
			}
			data, err := os.ReadFile(path)
			if err != nil {
				t.Fatal(err)
			}
			if string(data) != tt.want {
				t.Errorf("file = %q, want %q", data, tt.want)
			}
		})
	}
}

func TestWriteSQL_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "query.sql")
	for _, sql := range []string{"", "  \n\t"} {
		if err := WriteSQL(path, sql); !errors.Is(err, ErrEmptySQL) {
			t.Errorf("WriteSQL(%q) error = %v, want ErrEmptySQL", sql, err)
		}
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("file created for empty SQL")
	}
}

func TestSaveAndLoadState(t *testing.T) {
	limit := 25
	state := query.State{
		Type: query.Select,
		SelectedFields: []query.SelectedField{
			{ID: "f1", Table: "users", Column: "name"},
			{ID: "f2", Table: "orders", Column: "id", Function: "COUNT", Alias: "n"},
		},
		FromTables: []query.FromTable{{ID: "t1", Table: "users"}},
		Joins: []query.Join{
			{ID: "j1", Type: "LEFT", Table: "orders", Condition: "users.id = orders.user_id"},
		},
		Where: []query.Condition{
			{ID: "w1", Field: "users.name", Operator: "LIKE", Value: "a%", Logic: "AND"},
			{ID: "w2", Field: "users.age", Operator: ">", Value: "18", Logic: "OR", Not: true},
		},
		GroupBy: []query.GroupBy{{ID: "g1", Table: "users", Column: "name"}},
		Having:  []query.Having{{ID: "h1", Condition: "COUNT(orders.id) > 1"}},
		OrderBy: []query.OrderBy{{ID: "o1", Table: "users", Column: "name", Direction: "DESC"}},
		Limit:   &limit,
	}

	path := filepath.Join(t.TempDir(), "state.yaml")
	if err := SaveState(path, state); err != nil {
		t.Fatalf("SaveState() error = %v", err)
	}
	got, err := LoadState(path)
	if err != nil {
		t.Fatalf("LoadState() error = %v", err)
	}
	if !reflect.DeepEqual(got, state) {
		t.Errorf("round trip mismatch:\n got  %+v\n want %+v", got, state)
	}
}

func TestLoadState_HandWritten(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.yaml")
	content := `type: update
update_table: users
set_fields:
  - column: name
    value: "'bob'"
where:
  - field: users.id
    operator: "="
    value: "1"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := LoadState(path)
	if err != nil {
		t.Fatalf("LoadState() error = %v", err)
	}
	if got.Type != query.Update {
		t.Errorf("Type = %q, want %q", got.Type, query.Update)
	}
	if got.UpdateTable != "users" || len(got.SetFields) != 1 || got.SetFields[0].Value != "'bob'" {
		t.Errorf("update state = %+v", got)
	}
	if len(got.Where) != 1 || got.Where[0].Field != "users.id" {
		t.Errorf("where = %+v", got.Where)
	}
}

func TestLoadState_DefaultsToSelect(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.yaml")
	if err := os.WriteFile(path, []byte("from_tables:\n  - table: users\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := LoadState(path)
	if err != nil {
		t.Fatalf("LoadState() error = %v", err)
	}
	if got.Type != query.Select {
		t.Errorf("Type = %q, want SELECT", got.Type)
	}
}

func TestLoadState_Errors(t *testing.T) {
	dir := t.TempDir()

	if _, err := LoadState(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("LoadState(missing) error = nil")
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("type: [\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadState(bad); err == nil {
		t.Error("LoadState(invalid yaml) error = nil")
	}

	unknown := filepath.Join(dir, "unknown.yaml")
	if err := os.WriteFile(unknown, []byte("type: MERGE\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadState(unknown); !errors.Is(err, ErrInvalidState) {
		t.Errorf("LoadState(unknown type) error = %v, want ErrInvalidState", err)
	}
}

package history

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newTestHistory(t *testing.T, dir string) *History {
	t.Helper()

	h, err := Open(filepath.Join(dir, "history.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	return h
}

func TestNew(t *testing.T) {
	tmpHome := t.TempDir()
	t.Setenv("HOME", tmpHome)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpHome, ".config"))

	h, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer h.Close()

	if _, err := os.Stat(filepath.Join(tmpHome, ".config", "querycraft", "history.db")); err != nil {
		t.Errorf("history.db not created: %v", err)
	}

	entries, err := h.Recent(10)
	if err != nil {
		t.Fatalf("Recent() on new DB error = %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("Recent() on new DB = %d entries, want 0", len(entries))
	}
}

func TestOpenCreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "history.db")
	h, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer h.Close()

	if _, err := os.Stat(path); err != nil {
		t.Errorf("history.db not created: %v", err)
	}
}

func TestAddAndRecent(t *testing.T) {
	h := newTestHistory(t, t.TempDir())
	defer h.Close()

	base := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	for i := range 5 {
		err := h.Add(Entry{
			Query:     "SELECT " + string(rune('A'+i)),
			QueryType: "SELECT",
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("Add() entry %d error = %v", i, err)
		}
	}

	entries, err := h.Recent(3)
	if err != nil {
		t.Fatalf("Recent(3) error = %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("Recent(3) returned %d entries, want 3", len(entries))
	}

	// Most recent first: E, D, C
	wantQueries := []string{"SELECT E", "SELECT D", "SELECT C"}
	for i, want := range wantQueries {
		if entries[i].Query != want {
			t.Errorf("entries[%d].Query = %q, want %q", i, entries[i].Query, want)
		}
	}
}

func TestAddStampsCreatedAt(t *testing.T) {
	h := newTestHistory(t, t.TempDir())
	defer h.Close()

	before := time.Now().UTC().Add(-time.Second)
	if err := h.Add(Entry{Query: "DELETE FROM users", QueryType: "DELETE"}); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	entries, err := h.Recent(1)
	if err != nil {
		t.Fatalf("Recent(1) error = %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("Recent(1) returned %d entries, want 1", len(entries))
	}
	if entries[0].CreatedAt.Before(before) {
		t.Errorf("CreatedAt = %v, want after %v", entries[0].CreatedAt, before)
	}
}

func TestSearch(t *testing.T) {
	h := newTestHistory(t, t.TempDir())
	defer h.Close()

	now := time.Now().UTC()
	queries := []struct{ query, typ string }{
		{"SELECT *\nFROM users", "SELECT"},
		{"INSERT INTO users (name)\nVALUES ('alice')", "INSERT"},
		{"SELECT *\nFROM orders", "SELECT"},
		{"UPDATE users\nSET name = 'bob'", "UPDATE"},
		{"DELETE FROM products", "DELETE"},
	}
	for i, q := range queries {
		err := h.Add(Entry{
			Query:     q.query,
			QueryType: q.typ,
			CreatedAt: now.Add(time.Duration(i) * time.Second),
		})
		if err != nil {
			t.Fatalf("Add() error = %v", err)
		}
	}

	tests := []struct {
		name    string
		pattern string
		want    int
	}{
		{"match users", "%users%", 3},
		{"match SELECT prefix", "SELECT%", 2},
		{"match DELETE", "DELETE%", 1},
		{"no match", "%TRUNCATE%", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results, err := h.Search(tt.pattern, 100)
			if err != nil {
				t.Fatalf("Search(%q) error = %v", tt.pattern, err)
			}
			if len(results) != tt.want {
				t.Errorf("Search(%q) returned %d entries, want %d", tt.pattern, len(results), tt.want)
			}
		})
	}

	results, err := h.Search("%users%", 1)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) != 1 || results[0].QueryType != "UPDATE" {
		t.Errorf("Search(%%users%%, 1) = %+v, want the UPDATE entry", results)
	}
}

func TestClear(t *testing.T) {
	h := newTestHistory(t, t.TempDir())
	defer h.Close()

	for i := range 3 {
		if err := h.Add(Entry{Query: "SELECT " + string(rune('A'+i))}); err != nil {
			t.Fatalf("Add() error = %v", err)
		}
	}

	if err := h.Clear(); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}

	after, err := h.Recent(10)
	if err != nil {
		t.Fatalf("Recent() after clear error = %v", err)
	}
	if len(after) != 0 {
		t.Errorf("Recent() after clear = %d entries, want 0", len(after))
	}
}

func TestEntryFields(t *testing.T) {
	h := newTestHistory(t, t.TempDir())
	defer h.Close()

	createdAt := time.Date(2025, 3, 15, 14, 30, 0, 0, time.UTC)
	entry := Entry{
		Query:     "SELECT users.name\nFROM users\nLIMIT 10",
		QueryType: "SELECT",
		CreatedAt: createdAt,
	}
	if err := h.Add(entry); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	entries, err := h.Recent(1)
	if err != nil {
		t.Fatalf("Recent(1) error = %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("Recent(1) returned %d entries, want 1", len(entries))
	}

	got := entries[0]
	if got.ID == 0 {
		t.Error("ID should be non-zero after insert")
	}
	if got.Query != entry.Query {
		t.Errorf("Query = %q, want %q", got.Query, entry.Query)
	}
	if got.QueryType != entry.QueryType {
		t.Errorf("QueryType = %q, want %q", got.QueryType, entry.QueryType)
	}
	// SQLite may lose sub-second precision.
	if got.CreatedAt.Sub(createdAt).Abs() > time.Second {
		t.Errorf("CreatedAt = %v, want approximately %v", got.CreatedAt, createdAt)
	}
}

func TestCloseAndReopen(t *testing.T) {
	dir := t.TempDir()

	h1 := newTestHistory(t, dir)
	for i := range 3 {
		err := h1.Add(Entry{
			Query:     "query_" + string(rune('A'+i)),
			CreatedAt: time.Now().UTC().Add(time.Duration(i) * time.Second),
		})
		if err != nil {
			t.Fatalf("Add() error = %v", err)
		}
	}
	if err := h1.Close(); err != nil {
		t.Fatalf("Close() first session error = %v", err)
	}

	h2 := newTestHistory(t, dir)
	defer h2.Close()

	entries, err := h2.Recent(10)
	if err != nil {
		t.Fatalf("Recent() after reopen error = %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("Recent() after reopen = %d entries, want 3", len(entries))
	}
	if entries[0].Query != "query_C" || entries[2].Query != "query_A" {
		t.Errorf("order after reopen = %q, %q", entries[0].Query, entries[2].Query)
	}
}

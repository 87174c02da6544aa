package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sadopc/querycraft/internal/completion"
)

func TestLastWordAndPrefix(t *testing.T) {
	tests := []struct {
		before     string
		wantWord   string
		wantPrefix string
	}{
		{"", "", ""},
		{"users", "users", "users"},
		{"orders.user_id = users.", "users.", ""},
		{"orders.user_id = users.na", "users.na", "na"},
		{"COUNT(", "", ""},
		{"total > 1", "1", "1"},
		{"a_b", "a_b", "a_b"},
	}
	for _, tt := range tests {
		t.Run(tt.before, func(t *testing.T) {
			if got := lastWord(tt.before); got != tt.wantWord {
				t.Errorf("lastWord(%q) = %q, want %q", tt.before, got, tt.wantWord)
			}
			if got := wordPrefix(tt.before); got != tt.wantPrefix {
				t.Errorf("wordPrefix(%q) = %q, want %q", tt.before, got, tt.wantPrefix)
			}
		})
	}
}

func TestFieldEditor_Completes(t *testing.T) {
	engine := completion.NewEngine("")
	engine.SetTables(sidebarTables())

	e := newFieldEditor(row{kind: itemJoin}, "ON", "orders.user_id = users.", engine)
	if len(e.suggestions) == 0 {
		t.Fatal("expected column suggestions after a table and dot")
	}
	if len(e.suggestions) > maxSuggestions {
		t.Errorf("got %d suggestions, want at most %d", len(e.suggestions), maxSuggestions)
	}

	first := e.suggestions[0].Label
	e.Update(specialKeyMsg(tea.KeyTab))
	if want := "orders.user_id = users." + first; e.Value() != want {
		t.Errorf("after tab, value = %q, want %q", e.Value(), want)
	}
	if len(e.suggestions) != 0 {
		t.Error("accepting should clear the suggestions")
	}
}

func TestFieldEditor_AcceptReplacesPrefix(t *testing.T) {
	engine := completion.NewEngine("")
	engine.SetTables(sidebarTables())

	e := newFieldEditor(row{kind: itemHaving}, "HAVING", "users.na", engine)
	if len(e.suggestions) == 0 || e.suggestions[0].Label != "name" {
		t.Fatalf("suggestions = %+v, want name first", e.suggestions)
	}
	e.Update(specialKeyMsg(tea.KeyTab))
	if e.Value() != "users.name" {
		t.Errorf("value = %q, want users.name", e.Value())
	}
}

func TestFieldEditor_AliasHasNoCompletion(t *testing.T) {
	engine := completion.NewEngine("")
	engine.SetTables(sidebarTables())

	e := newFieldEditor(row{kind: itemFrom}, "alias", "us", engine)
	if e.engine != nil || len(e.suggestions) != 0 {
		t.Error("an alias prompt should not complete")
	}
	e.Update(specialKeyMsg(tea.KeyTab))
	if e.Value() != "us" {
		t.Errorf("tab without suggestions changed the value to %q", e.Value())
	}
}

func TestFieldEditor_TypingUpdatesSuggestions(t *testing.T) {
	engine := completion.NewEngine("")
	engine.SetTables(sidebarTables())

	e := newFieldEditor(row{kind: itemWhere}, "value", "", engine)
	e.Focus()
	if len(e.suggestions) != 0 {
		t.Fatal("an empty prompt should not suggest")
	}
	for _, r := range "orders." {
		e.Update(keyMsg(string(r)))
	}
	if len(e.suggestions) == 0 {
		t.Error("typing a table and dot should suggest its columns")
	}
}

package tui

import (
	"testing"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

func TestVimKeyMap_Movement(t *testing.T) {
	std := StandardKeyMap()
	vim := VimKeyMap()

	tests := []struct {
		name    string
		msg     tea.KeyMsg
		binding func(KeyMap) key.Binding
	}{
		{"j moves down", keyMsg("j"), func(k KeyMap) key.Binding { return k.Down }},
		{"k moves up", keyMsg("k"), func(k KeyMap) key.Binding { return k.Up }},
		{"g jumps to top", keyMsg("g"), func(k KeyMap) key.Binding { return k.Top }},
		{"G jumps to bottom", keyMsg("G"), func(k KeyMap) key.Binding { return k.Bottom }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !key.Matches(tt.msg, tt.binding(vim)) {
				t.Error("vim keymap should match")
			}
			if key.Matches(tt.msg, tt.binding(std)) {
				t.Error("standard keymap should not match")
			}
		})
	}

	t.Run("arrows work in both", func(t *testing.T) {
		down := specialKeyMsg(tea.KeyDown)
		if !key.Matches(down, std.Down) || !key.Matches(down, vim.Down) {
			t.Error("down arrow should move down in both modes")
		}
	})
}

func TestKeyMapFor(t *testing.T) {
	if !key.Matches(keyMsg("j"), KeyMapFor(KeyModeVim).Down) {
		t.Error("KeyMapFor(vim) should bind j")
	}
	if key.Matches(keyMsg("j"), KeyMapFor(KeyModeStandard).Down) {
		t.Error("KeyMapFor(standard) should not bind j")
	}
}

func TestParseKeyMode(t *testing.T) {
	tests := []struct {
		in   string
		want KeyMode
	}{
		{"vim", KeyModeVim},
		{"standard", KeyModeStandard},
		{"", KeyModeStandard},
		{"emacs", KeyModeStandard},
	}
	for _, tt := range tests {
		if got := ParseKeyMode(tt.in); got != tt.want {
			t.Errorf("ParseKeyMode(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
	if KeyModeVim.String() != "vim" || KeyModeStandard.String() != "standard" {
		t.Error("KeyMode.String round trip failed")
	}
}

func TestFullHelp_EveryBindingHasHelp(t *testing.T) {
	groups := StandardKeyMap().FullHelp()
	if len(groups) != 6 {
		t.Fatalf("FullHelp has %d groups, want 6", len(groups))
	}
	for i, g := range groups {
		for _, b := range g {
			if b.Help().Key == "" || b.Help().Desc == "" {
				t.Errorf("group %d: binding %v has no help text", i, b.Keys())
			}
		}
	}
}

func TestPane_String(t *testing.T) {
	tests := map[Pane]string{
		PaneSidebar: "schema",
		PaneBuilder: "builder",
		PanePreview: "preview",
	}
	for p, want := range tests {
		if got := p.String(); got != want {
			t.Errorf("Pane(%d).String() = %q, want %q", int(p), got, want)
		}
	}
}

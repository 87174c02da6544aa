package tui

import "github.com/sadopc/querycraft/internal/schema"

// Pane focus targets.
type Pane int

const (
	PaneSidebar Pane = iota
	PaneBuilder
	PanePreview
)

func (p Pane) String() string {
	switch p {
	case PaneBuilder:
		return "builder"
	case PanePreview:
		return "preview"
	default:
		return "schema"
	}
}

// KeyMode represents the active keybinding mode.
type KeyMode int

const (
	KeyModeStandard KeyMode = iota
	KeyModeVim
)

func (m KeyMode) String() string {
	if m == KeyModeVim {
		return "vim"
	}
	return "standard"
}

// ParseKeyMode parses a string into a KeyMode.
func ParseKeyMode(s string) KeyMode {
	if s == "vim" {
		return KeyModeVim
	}
	return KeyModeStandard
}

// SchemaLoadedMsg is sent when a live database has been introspected.
type SchemaLoadedMsg struct {
	Catalog *schema.Catalog
	Gen     uint64
}

// SchemaErrMsg is sent when introspection fails.
type SchemaErrMsg struct {
	Err error
	Gen uint64
}

// StatusMsg sets a transient status bar message.
type StatusMsg struct {
	Text    string
	IsError bool
}

// ExportCompleteMsg is sent after the SQL has been written to disk.
type ExportCompleteMsg struct {
	Path string
}

// ExportErrMsg is sent when writing the SQL fails.
type ExportErrMsg struct {
	Err error
}

// StateSavedMsg is sent after the builder state has been saved.
type StateSavedMsg struct {
	Path string
}

// ToggleKeyModeMsg switches between standard and vim bindings.
type ToggleKeyModeMsg struct{}

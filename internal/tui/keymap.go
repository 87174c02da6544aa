package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all application keybindings.
type KeyMap struct {
	// Navigation
	Up        key.Binding
	Down      key.Binding
	Top       key.Binding
	Bottom    key.Binding
	Expand    key.Binding
	Collapse  key.Binding
	FocusNext key.Binding
	FocusPrev key.Binding
	Filter    key.Binding

	// Sidebar table
	AddFrom        key.Binding
	AddJoin        key.Binding
	SetInsertTable key.Binding
	SetUpdateTable key.Binding
	SetDeleteTable key.Binding

	// Sidebar column
	AddSelect      key.Binding
	AddWhere       key.Binding
	AddGroupBy     key.Binding
	AddOrderBy     key.Binding
	AddInsertField key.Binding
	AddSetField    key.Binding

	// Builder
	Remove      key.Binding
	Edit        key.Binding
	Cycle       key.Binding
	ToggleNot   key.Binding
	ToggleLogic key.Binding
	AddHaving   key.Binding

	// Query
	TypeSelect key.Binding
	TypeInsert key.Binding
	TypeUpdate key.Binding
	TypeDelete key.Binding
	Distinct   key.Binding
	Limit      key.Binding

	// App
	Export        key.Binding
	SaveState     key.Binding
	History       key.Binding
	RefreshSchema key.Binding
	ToggleKeyMode key.Binding
	Help          key.Binding
	Quit          key.Binding
}

// StandardKeyMap returns keybindings for standard mode.
func StandardKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up"),
			key.WithHelp("↑", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down"),
			key.WithHelp("↓", "down"),
		),
		Top: key.NewBinding(
			key.WithKeys("home"),
			key.WithHelp("home", "top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("end"),
			key.WithHelp("end", "bottom"),
		),
		Expand: key.NewBinding(
			key.WithKeys("enter", "right"),
			key.WithHelp("enter/→", "expand"),
		),
		Collapse: key.NewBinding(
			key.WithKeys("left"),
			key.WithHelp("←", "collapse"),
		),
		FocusNext: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next pane"),
		),
		FocusPrev: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "prev pane"),
		),
		Filter: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "filter schema"),
		),

		AddFrom: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "add to FROM"),
		),
		AddJoin: key.NewBinding(
			key.WithKeys("J"),
			key.WithHelp("J", "add JOIN"),
		),
		SetInsertTable: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "INSERT into table"),
		),
		SetUpdateTable: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "UPDATE table"),
		),
		SetDeleteTable: key.NewBinding(
			key.WithKeys("D"),
			key.WithHelp("D", "DELETE from table"),
		),

		AddSelect: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "add to SELECT"),
		),
		AddWhere: key.NewBinding(
			key.WithKeys("w"),
			key.WithHelp("w", "add WHERE"),
		),
		AddGroupBy: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "add GROUP BY"),
		),
		AddOrderBy: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "add ORDER BY"),
		),
		AddInsertField: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "add insert field"),
		),
		AddSetField: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "add SET field"),
		),

		Remove: key.NewBinding(
			key.WithKeys("x", "delete"),
			key.WithHelp("x", "remove item"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit item"),
		),
		Cycle: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "cycle choice"),
		),
		ToggleNot: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "toggle NOT"),
		),
		ToggleLogic: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "AND/OR"),
		),
		AddHaving: key.NewBinding(
			key.WithKeys("h"),
			key.WithHelp("h", "add HAVING"),
		),

		TypeSelect: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "SELECT"),
		),
		TypeInsert: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "INSERT"),
		),
		TypeUpdate: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "UPDATE"),
		),
		TypeDelete: key.NewBinding(
			key.WithKeys("4"),
			key.WithHelp("4", "DELETE"),
		),
		Distinct: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "toggle DISTINCT"),
		),
		Limit: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "set LIMIT"),
		),

		Export: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "export SQL"),
		),
		SaveState: key.NewBinding(
			key.WithKeys("ctrl+w"),
			key.WithHelp("ctrl+w", "save state"),
		),
		History: key.NewBinding(
			key.WithKeys("ctrl+h"),
			key.WithHelp("ctrl+h", "history"),
		),
		RefreshSchema: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "refresh schema"),
		),
		ToggleKeyMode: key.NewBinding(
			key.WithKeys("f2"),
			key.WithHelp("f2", "vim/standard"),
		),
		Help: key.NewBinding(
			key.WithKeys("?", "f1"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// VimKeyMap returns keybindings for vim mode. Movement gains j/k and g/G;
// everything else matches standard mode.
func VimKeyMap() KeyMap {
	km := StandardKeyMap()

	km.Up = key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	)
	km.Down = key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	)
	km.Top = key.NewBinding(
		key.WithKeys("home", "g"),
		key.WithHelp("g", "top"),
	)
	km.Bottom = key.NewBinding(
		key.WithKeys("end", "G"),
		key.WithHelp("G", "bottom"),
	)

	return km
}

// KeyMapFor returns the keybindings for mode.
func KeyMapFor(mode KeyMode) KeyMap {
	if mode == KeyModeVim {
		return VimKeyMap()
	}
	return StandardKeyMap()
}

// ShortHelp returns a subset of keybindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.FocusNext, k.Export, k.History, k.Help, k.Quit,
	}
}

// FullHelp returns all keybindings grouped for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Top, k.Bottom, k.Expand, k.Collapse, k.FocusNext, k.FocusPrev, k.Filter},
		{k.AddFrom, k.AddJoin, k.SetInsertTable, k.SetUpdateTable, k.SetDeleteTable},
		{k.AddSelect, k.AddWhere, k.AddGroupBy, k.AddOrderBy, k.AddInsertField, k.AddSetField},
		{k.Remove, k.Edit, k.Cycle, k.ToggleNot, k.ToggleLogic, k.AddHaving},
		{k.TypeSelect, k.TypeInsert, k.TypeUpdate, k.TypeDelete, k.Distinct, k.Limit},
		{k.Export, k.SaveState, k.History, k.RefreshSchema, k.ToggleKeyMode, k.Help, k.Quit},
	}
}

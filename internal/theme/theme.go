// Package theme provides a centralized styling system for the querycraft
// terminal UI. Every visual element references a lipgloss.Style held in a
// Theme struct so that the entire look-and-feel can be swapped at runtime.
package theme

import "github.com/charmbracelet/lipgloss"

// Theme holds lipgloss.Style values for every UI element in the application.
type Theme struct {
	Name string

	// Schema browser
	SidebarTitle      lipgloss.Style
	SidebarTable      lipgloss.Style
	SidebarColumn     lipgloss.Style
	SidebarColumnType lipgloss.Style
	SidebarKey        lipgloss.Style
	SidebarSelected   lipgloss.Style

	// Builder pane
	BuilderSection      lipgloss.Style
	BuilderItem         lipgloss.Style
	BuilderItemSelected lipgloss.Style
	BuilderEmpty        lipgloss.Style
	QueryTypeActive     lipgloss.Style
	QueryTypeInactive   lipgloss.Style

	// SQL syntax highlighting
	SQLKeyword    lipgloss.Style
	SQLString     lipgloss.Style
	SQLNumber     lipgloss.Style
	SQLComment    lipgloss.Style
	SQLOperator   lipgloss.Style
	SQLFunction   lipgloss.Style
	SQLType       lipgloss.Style
	SQLIdentifier lipgloss.Style

	// Status bar
	StatusBar        lipgloss.Style
	StatusBarKey     lipgloss.Style
	StatusBarValue   lipgloss.Style
	StatusBarError   lipgloss.Style
	StatusBarSuccess lipgloss.Style

	// Inline editor prompt
	InputPrompt lipgloss.Style
	InputBorder lipgloss.Style

	// General
	FocusedBorder   lipgloss.Style
	UnfocusedBorder lipgloss.Style
	ErrorText       lipgloss.Style
	SuccessText     lipgloss.Style
	WarningText     lipgloss.Style
	MutedText       lipgloss.Style
}

// palette is the handful of colours a theme is derived from.
type palette struct {
	fg, bg, panel      string
	border, accent     string
	selectFg, selectBg string
	muted              string
	table, column, key string
	keyword, str, num  string
	comment, operator  string
	function, typ      string
	errorC, success    string
	warning            string
}

// build derives every style from a palette.
func build(name string, p palette) *Theme {
	fg := func(c string) lipgloss.Style { return lipgloss.NewStyle().Foreground(lipgloss.Color(c)) }
	onBar := func(f, b string) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(f)).Background(lipgloss.Color(b)).Padding(0, 1)
	}
	border := func(c string) lipgloss.Style {
		return lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color(c))
	}
	selected := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(p.selectFg)).
		Background(lipgloss.Color(p.selectBg))

	return &Theme{
		Name: name,

		SidebarTitle:      fg(p.accent).Bold(true).PaddingLeft(1),
		SidebarTable:      fg(p.table),
		SidebarColumn:     fg(p.column),
		SidebarColumnType: fg(p.muted).Italic(true),
		SidebarKey:        fg(p.key).Bold(true),
		SidebarSelected:   selected,

		BuilderSection:      fg(p.accent).Bold(true),
		BuilderItem:         fg(p.fg),
		BuilderItemSelected: selected,
		BuilderEmpty:        fg(p.muted).Italic(true),
		QueryTypeActive:     onBar(p.selectFg, p.selectBg).Bold(true),
		QueryTypeInactive:   onBar(p.muted, p.panel),

		SQLKeyword:    fg(p.keyword).Bold(true),
		SQLString:     fg(p.str),
		SQLNumber:     fg(p.num),
		SQLComment:    fg(p.comment).Italic(true),
		SQLOperator:   fg(p.operator),
		SQLFunction:   fg(p.function),
		SQLType:       fg(p.typ),
		SQLIdentifier: fg(p.column),

		StatusBar:        lipgloss.NewStyle().Foreground(lipgloss.Color(p.fg)).Background(lipgloss.Color(p.panel)),
		StatusBarKey:     onBar(p.selectFg, p.selectBg).Bold(true),
		StatusBarValue:   onBar(p.fg, p.panel),
		StatusBarError:   onBar("#FFFFFF", p.errorC),
		StatusBarSuccess: onBar("#FFFFFF", p.success),

		InputPrompt: fg(p.accent).Bold(true),
		InputBorder: border(p.accent).Padding(0, 1),

		FocusedBorder:   border(p.accent),
		UnfocusedBorder: border(p.border),
		ErrorText:       fg(p.errorC),
		SuccessText:     fg(p.success),
		WarningText:     fg(p.warning),
		MutedText:       fg(p.muted),
	}
}

// ---------------------------------------------------------------------------
// Theme definitions
// ---------------------------------------------------------------------------

func newDefaultTheme() *Theme {
	return build("default", palette{
		fg: "#D4D4D4", bg: "#1E1E1E", panel: "#252526",
		border: "#3C3C3C", accent: "#569CD6",
		selectFg: "#FFFFFF", selectBg: "#264F78",
		muted: "#808080",
		table: "#4EC9B0", column: "#9CDCFE", key: "#DCDCAA",
		keyword: "#569CD6", str: "#CE9178", num: "#B5CEA8",
		comment: "#6A9955", operator: "#D4D4D4",
		function: "#DCDCAA", typ: "#4EC9B0",
		errorC: "#F44747", success: "#6A9955", warning: "#CCA700",
	})
}

func newLightTheme() *Theme {
	return build("light", palette{
		fg: "#1E1E1E", bg: "#FFFFFF", panel: "#F3F3F3",
		border: "#D4D4D4", accent: "#0451A5",
		selectFg: "#FFFFFF", selectBg: "#0060C0",
		muted: "#A0A0A0",
		table: "#267F99", column: "#001080", key: "#795E26",
		keyword: "#0000FF", str: "#A31515", num: "#098658",
		comment: "#008000", operator: "#1E1E1E",
		function: "#795E26", typ: "#267F99",
		errorC: "#E51400", success: "#16825D", warning: "#BF8803",
	})
}

func newMonokaiTheme() *Theme {
	return build("monokai", palette{
		fg: "#F8F8F2", bg: "#272822", panel: "#3E3D32",
		border: "#49483E", accent: "#F92672",
		selectFg: "#272822", selectBg: "#A6E22E",
		muted: "#75715E",
		table: "#A6E22E", column: "#F8F8F2", key: "#E6DB74",
		keyword: "#F92672", str: "#E6DB74", num: "#AE81FF",
		comment: "#75715E", operator: "#F92672",
		function: "#A6E22E", typ: "#66D9EF",
		errorC: "#F92672", success: "#A6E22E", warning: "#E6DB74",
	})
}

// ---------------------------------------------------------------------------
// Registry
// ---------------------------------------------------------------------------

// Themes maps theme names to their Theme definitions.
var Themes = map[string]*Theme{
	"default": newDefaultTheme(),
	"light":   newLightTheme(),
	"monokai": newMonokaiTheme(),
}

// Default returns the default dark theme.
func Default() *Theme {
	return Themes["default"]
}

// Get returns the theme identified by name. If no theme with that name exists
// it falls back to the default theme.
func Get(name string) *Theme {
	if t, ok := Themes[name]; ok {
		return t
	}
	return Default()
}

package tui

import (
	"strings"
	"unicode"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sadopc/querycraft/internal/completion"
	"github.com/sadopc/querycraft/internal/theme"
)

// maxSuggestions is how many completions the editor line shows.
const maxSuggestions = 5

// fieldEditor is the one-line prompt used to type an alias, a value, a
// condition or a LIMIT. Condition text gets schema-aware completions.
type fieldEditor struct {
	target      row
	label       string
	input       textinput.Model
	engine      *completion.Engine
	suggestions []completion.Item
}

func newFieldEditor(target row, label, value string, engine *completion.Engine) *fieldEditor {
	ti := textinput.New()
	ti.Prompt = label + ": "
	ti.SetValue(value)
	ti.CursorEnd()
	e := &fieldEditor{target: target, label: label, input: ti}
	if completes(target.kind) {
		e.engine = engine
	}
	e.suggest()
	return e
}

// completes reports whether text typed for kind is SQL worth completing.
func completes(kind itemKind) bool {
	switch kind {
	case itemJoin, itemHaving, itemWhere, itemInsertField, itemSetField:
		return true
	}
	return false
}

// Focus gives the prompt the cursor.
func (e *fieldEditor) Focus() tea.Cmd { return e.input.Focus() }

// Value returns the typed text.
func (e *fieldEditor) Value() string { return e.input.Value() }

// Update feeds a message to the prompt. Tab accepts the first suggestion.
func (e *fieldEditor) Update(msg tea.Msg) tea.Cmd {
	if k, ok := msg.(tea.KeyMsg); ok && k.String() == "tab" {
		e.accept()
		return nil
	}
	prev := e.input.Value()
	var cmd tea.Cmd
	e.input, cmd = e.input.Update(msg)
	if e.input.Value() != prev {
		e.suggest()
	}
	return cmd
}

func (e *fieldEditor) suggest() {
	e.suggestions = nil
	if e.engine == nil {
		return
	}
	value := e.input.Value()
	pos := e.input.Position()
	if lastWord(value[:min(pos, len(value))]) == "" {
		return
	}
	items := e.engine.Complete(value, pos)
	if len(items) > maxSuggestions {
		items = items[:maxSuggestions]
	}
	e.suggestions = items
}

// accept replaces the word before the cursor with the first suggestion.
func (e *fieldEditor) accept() {
	if len(e.suggestions) == 0 {
		return
	}
	value := e.input.Value()
	pos := min(e.input.Position(), len(value))
	prefix := wordPrefix(value[:pos])
	start := pos - len(prefix)
	label := e.suggestions[0].Label
	e.input.SetValue(value[:start] + label + value[pos:])
	e.input.SetCursor(start + len(label))
	e.suggestions = nil
}

// View renders the prompt and, below it, the current suggestions.
func (e *fieldEditor) View(th *theme.Theme, width int) string {
	e.input.Width = max(width-len(e.input.Prompt)-4, 1)
	line := th.InputBorder.Width(max(width-2, 1)).Render(e.input.View())
	if len(e.suggestions) == 0 {
		return line
	}
	labels := make([]string, len(e.suggestions))
	for i, s := range e.suggestions {
		labels[i] = s.Label
	}
	return line + "\n" + th.MutedText.Render(" tab: "+strings.Join(labels, "  "))
}

// lastWord returns the identifier, dots included, that ends before.
func lastWord(before string) string {
	i := len(before)
	for i > 0 {
		r := rune(before[i-1])
		if !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '.') {
			break
		}
		i--
	}
	return before[i:]
}

// wordPrefix returns the part of the identifier ending the text that a
// completion would replace: after the last dot when the word is qualified.
func wordPrefix(before string) string {
	word := lastWord(before)
	if dot := strings.LastIndex(word, "."); dot >= 0 {
		return word[dot+1:]
	}
	return word
}

package sqlgen

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/mattn/go-runewidth"
)

// ErrUnformattable is returned by Format when the lexer cannot make sense
// of its input.
var ErrUnformattable = errors.New("sqlgen: unformattable input")

var sqlLexer = lexers.Get("SQL")

// Format pretty-prints sql: whitespace runs collapse to one space, each
// top-level clause starts a new line, and a SELECT list wider than
// opts.MaxLineWidth is split one field per line. String literals and
// comments are never altered. Text made only of comments is returned
// unchanged.
func Format(sql string, opts Options) (out string, err error) {
	if strings.TrimSpace(sql) == "" || commentOnly(sql) {
		return sql, nil
	}
	if sqlLexer == nil {
		return "", fmt.Errorf("%w: no SQL lexer", ErrUnformattable)
	}
	defer func() {
		if r := recover(); r != nil {
			out, err = "", fmt.Errorf("%w: %v", ErrUnformattable, r)
		}
	}()

	pieces, err := lex(sql, opts.UppercaseKeywords)
	if err != nil {
		return "", err
	}
	lines := splitLines(breakClauses(pieces))

	rendered := make([]string, 0, len(lines))
	for _, line := range lines {
		rendered = append(rendered, renderLine(line, opts.MaxLineWidth)...)
	}
	return strings.Join(rendered, "\n"), nil
}

func commentOnly(sql string) bool {
	for _, line := range strings.Split(sql, "\n") {
		line = strings.TrimSpace(line)
		if line != "" && !strings.HasPrefix(line, "--") {
			return false
		}
	}
	return true
}

// ---------------------------------------------------------------------------
// Pieces
// ---------------------------------------------------------------------------

type pieceKind int

const (
	pieceText pieceKind = iota
	pieceSpace
	pieceBreak
)

// piece is one unit of output. word holds the upper-cased text of a bare
// word outside literals and is what clause detection looks at.
type piece struct {
	kind    pieceKind
	text    string
	word    string
	literal bool
}

var (
	spacePiece = piece{kind: pieceSpace, text: " "}
	breakPiece = piece{kind: pieceBreak, text: "\n"}
)

func lex(sql string, upper bool) ([]piece, error) {
	iter, err := sqlLexer.Tokenise(nil, sql)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnformattable, err)
	}

	var out []piece
	space := func() {
		if n := len(out); n > 0 && out[n-1].kind == pieceText {
			out = append(out, spacePiece)
		}
	}

	for _, tok := range iter.Tokens() {
		if tok.Value == "" {
			continue
		}
		switch {
		case tok.Type == chroma.Error:
			return nil, fmt.Errorf("%w: unexpected %q", ErrUnformattable, tok.Value)

		case tok.Type.InCategory(chroma.Comment):
			text := strings.TrimRight(tok.Value, "\r\n")
			out = append(out, piece{kind: pieceText, text: text, literal: true})
			if tok.Type == chroma.CommentSingle || strings.HasPrefix(text, "--") {
				out = append(out, breakPiece)
			}

		case tok.Type.InSubCategory(chroma.LiteralString):
			out = append(out, piece{kind: pieceText, text: tok.Value, literal: true})

		default:
			keyword := tok.Type.InCategory(chroma.Keyword) || tok.Type == chroma.OperatorWord
			value := tok.Value
			if strings.TrimSpace(value) == "" {
				space()
				continue
			}
			if value[0] == ' ' || value[0] == '\t' || value[0] == '\n' || value[0] == '\r' {
				space()
			}
			fields := strings.Fields(value)
			for i, f := range fields {
				if i > 0 {
					space()
				}
				p := piece{kind: pieceText, text: f}
				if isWord(f) {
					p.word = strings.ToUpper(f)
					if upper && keyword {
						p.text = p.word
					}
				}
				out = append(out, p)
			}
			if last := value[len(value)-1]; last == ' ' || last == '\t' || last == '\n' || last == '\r' {
				space()
			}
		}
	}
	return out, nil
}

func isWord(s string) bool {
	for i, r := range s {
		switch {
		case r == '_' || unicode.IsLetter(r):
		case i > 0 && unicode.IsDigit(r):
		default:
			return false
		}
	}
	return s != ""
}

// ---------------------------------------------------------------------------
// Clause breaks
// ---------------------------------------------------------------------------

// clauseWords start a new line when they appear outside parentheses.
var clauseWords = map[string]bool{
	"SELECT": true, "FROM": true, "WHERE": true, "GROUP": true,
	"HAVING": true, "ORDER": true, "LIMIT": true, "INSERT": true,
	"VALUES": true, "UPDATE": true, "SET": true, "DELETE": true,
	"JOIN": true, "UNION": true,
}

// joinModifiers may precede JOIN; the line break goes before them.
var joinModifiers = map[string]bool{
	"INNER": true, "LEFT": true, "RIGHT": true, "FULL": true,
	"CROSS": true, "NATURAL": true, "OUTER": true,
}

func breakClauses(in []piece) []piece {
	out := make([]piece, 0, len(in)+8)
	depth := 0
	prevWord, prevText := "", ""

	for i, p := range in {
		if p.kind == pieceText && !p.literal {
			if p.word != "" && depth == 0 && !strings.HasSuffix(prevText, ".") &&
				startsClause(p.word, prevWord, nextWord(in, i)) && len(out) > 0 {
				switch last := &out[len(out)-1]; last.kind {
				case pieceSpace:
					*last = breakPiece
				case pieceText:
					out = append(out, breakPiece)
				}
			}
			depth += strings.Count(p.text, "(") - strings.Count(p.text, ")")
			if depth < 0 {
				depth = 0
			}
		}
		if p.kind == pieceText {
			prevText = p.text
			if !p.literal {
				prevWord = p.word
			}
		}
		out = append(out, p)
	}
	return out
}

func startsClause(word, prev, next string) bool {
	switch word {
	case "GROUP", "ORDER":
		return next == "BY"
	case "FROM":
		return prev != "DELETE"
	case "JOIN":
		return !joinModifiers[prev]
	case "OUTER":
		return false
	}
	if joinModifiers[word] {
		return (next == "JOIN" || next == "OUTER") && !joinModifiers[prev]
	}
	return clauseWords[word]
}

func nextWord(in []piece, i int) string {
	for _, p := range in[i+1:] {
		if p.kind == pieceText {
			return p.word
		}
	}
	return ""
}

// ---------------------------------------------------------------------------
// Lines
// ---------------------------------------------------------------------------

func splitLines(in []piece) [][]piece {
	var (
		lines [][]piece
		cur   []piece
	)
	flush := func() {
		for len(cur) > 0 && cur[len(cur)-1].kind == pieceSpace {
			cur = cur[:len(cur)-1]
		}
		for len(cur) > 0 && cur[0].kind == pieceSpace {
			cur = cur[1:]
		}
		if len(cur) > 0 {
			lines = append(lines, cur)
		}
		cur = nil
	}
	for _, p := range in {
		if p.kind == pieceBreak {
			flush()
			continue
		}
		cur = append(cur, p)
	}
	flush()
	return lines
}

func join(ps []piece) string {
	var b strings.Builder
	for _, p := range ps {
		b.WriteString(p.text)
	}
	return b.String()
}

// renderLine returns the text of one clause line, wrapping a SELECT list
// that is wider than width into one indented field per line.
func renderLine(line []piece, width int) []string {
	text := join(line)
	if width <= 0 || line[0].word != "SELECT" || runewidth.StringWidth(text) <= width {
		return []string{text}
	}

	head := 1
	for head < len(line) && line[head].kind == pieceSpace {
		head++
	}
	header := line[0].text
	if head < len(line) && line[head].word == "DISTINCT" {
		header += " " + line[head].text
		head++
	}

	var (
		fields []string
		cur    []piece
		depth  int
	)
	for _, p := range line[head:] {
		if p.kind == pieceText && !p.literal {
			if p.text == "," && depth == 0 {
				fields = append(fields, strings.TrimSpace(join(cur)))
				cur = nil
				continue
			}
			depth += strings.Count(p.text, "(") - strings.Count(p.text, ")")
		}
		cur = append(cur, p)
	}
	fields = append(fields, strings.TrimSpace(join(cur)))
	if len(fields) < 2 {
		return []string{text}
	}

	out := make([]string, 0, len(fields)+1)
	out = append(out, header)
	for i, f := range fields {
		if i < len(fields)-1 {
			f += ","
		}
		out = append(out, "  "+f)
	}
	return out
}

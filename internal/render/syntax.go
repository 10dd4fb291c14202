package render

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

const defaultSyntaxTheme = "monokai"

// SyntaxRenderer highlights single lines with a chroma lexer picked from
// an input's file name
type SyntaxRenderer struct {
	lexer     chroma.Lexer
	style     *chroma.Style
	formatter chroma.Formatter
}

// NewSyntaxRenderer returns a renderer for the file name, or nil when no
// lexer other than plain text matches it
func NewSyntaxRenderer(filename, theme string) *SyntaxRenderer {
	lexer := matchLexer(filename)
	if lexer == nil {
		return nil
	}
	if theme == "" {
		theme = defaultSyntaxTheme
	}

	return &SyntaxRenderer{
		lexer:     chroma.Coalesce(lexer),
		style:     styles.Get(theme),
		formatter: formatters.Get("terminal256"),
	}
}

// LexerName returns the chroma lexer in use
func (r *SyntaxRenderer) LexerName() string {
	return r.lexer.Config().Name
}

// Highlight colours one line; on failure the line is returned unchanged
func (r *SyntaxRenderer) Highlight(content string) string {
	if content == "" {
		return ""
	}

	it, err := r.lexer.Tokenise(nil, content)
	if err != nil {
		return content
	}
	var sb strings.Builder
	if err := r.formatter.Format(&sb, r.style, it); err != nil {
		return content
	}

	// Lexers with EnsureNL append a newline; a cell is one line
	return strings.NewReplacer("\n", "", "\r", "").Replace(sb.String())
}

// IsSyntaxHighlightable reports whether a file name maps to a lexer
func IsSyntaxHighlightable(filename string) bool {
	return matchLexer(filename) != nil
}

func matchLexer(filename string) chroma.Lexer {
	if filename == "" {
		return nil
	}
	lexer := lexers.Match(filename)
	if lexer == nil || lexer.Config().Name == "plaintext" {
		return nil
	}
	return lexer
}

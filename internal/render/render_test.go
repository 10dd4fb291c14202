package render

import (
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TimelordUK/mdiff/internal/config"
	"github.com/TimelordUK/mdiff/internal/source"
	"github.com/TimelordUK/mdiff/pkg/linediff"
)

func rowAt(t *testing.T, res linediff.Result, i int) *source.Row {
	t.Helper()
	require.Less(t, i, len(res.Rows))
	return &source.Row{DisplayRow: res.Rows[i], OriginalIndex: i}
}

func TestInlineSpans(t *testing.T) {
	left := InlineSpans("hello world", "hello there", source.SideLeft)
	right := InlineSpans("hello world", "hello there", source.SideRight)

	require.NotEmpty(t, left)
	require.NotEmpty(t, right)
	assert.Equal(t, Span{Text: "hello "}, left[0])
	assert.Equal(t, Span{Text: "hello "}, right[0])

	joined := func(spans []Span) string {
		s := ""
		for _, sp := range spans {
			s += sp.Text
		}
		return s
	}
	assert.Equal(t, "hello world", joined(left))
	assert.Equal(t, "hello there", joined(right))
	assert.True(t, left[len(left)-1].Changed)
	assert.True(t, right[len(right)-1].Changed)
}

func TestInlineSpans_Identical(t *testing.T) {
	assert.Equal(t, []Span{{Text: "same"}}, InlineSpans("same", "same", source.SideLeft))
	assert.Nil(t, InlineSpans("", "", source.SideRight))
}

func TestDiffRenderer_ContentSurvivesStyling(t *testing.T) {
	cfg := config.DefaultConfig()
	r := NewDiffRenderer(cfg)
	res := linediff.Compare("keep\nold\tvalue\ngone", "keep\nnew\tvalue")

	tests := []struct {
		name string
		row  int
		side source.Side
		want string
	}{
		{"unchanged left", 0, source.SideLeft, "keep"},
		{"unchanged right", 0, source.SideRight, "keep"},
		{"changed left", 1, source.SideLeft, "old value"},
		{"changed right", 1, source.SideRight, "new value"},
		{"removed only", 2, source.SideLeft, "gone"},
		{"missing cell", 2, source.SideRight, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.Render(rowAt(t, res, tt.row), tt.side)
			assert.Equal(t, tt.want, ansi.Strip(got))
		})
	}
}

func TestDiffRenderer_InlineDisabled(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Display.InlineHighlight = false
	r := NewDiffRenderer(cfg)
	res := linediff.Compare("abc", "abd")

	assert.Equal(t, "abc", ansi.Strip(r.Render(rowAt(t, res, 0), source.SideLeft)))
	assert.Equal(t, "abd", ansi.Strip(r.Render(rowAt(t, res, 0), source.SideRight)))
}

func TestDiffRenderer_SyntaxOnUnchanged(t *testing.T) {
	r := NewDiffRenderer(config.DefaultConfig())
	r.SetSyntax(source.SideLeft, NewSyntaxRenderer("main.go", ""))
	res := linediff.Compare("func main() {}", "func main() {}")

	assert.Equal(t, "func main() {}", ansi.Strip(r.Render(rowAt(t, res, 0), source.SideLeft)))
}

func TestPlainRenderer(t *testing.T) {
	r := NewPlainRenderer(4)
	res := linediff.Compare("a\tb", "")

	assert.Equal(t, "a   b", r.Render(rowAt(t, res, 0), source.SideLeft))
	assert.Equal(t, "", r.Render(rowAt(t, res, 0), source.SideRight))
}

func TestExpandTabs(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"no tabs", 4, "no tabs"},
		{"\tx", 4, "    x"},
		{"ab\tx", 4, "ab  x"},
		{"abcd\tx", 4, "abcd    x"},
		{"日\tx", 4, "日  x"},
		{"\tx", 0, "\tx"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ExpandTabs(tt.in, tt.width), "input %q", tt.in)
	}
}

func TestSyntaxRenderer(t *testing.T) {
	s := NewSyntaxRenderer("main.go", "")
	require.NotNil(t, s)
	assert.Equal(t, "Go", s.LexerName())
	assert.Equal(t, "x := 1", ansi.Strip(s.Highlight("x := 1")))
	assert.Equal(t, "", s.Highlight(""))

	assert.Nil(t, NewSyntaxRenderer("notes.unknownext", ""))
	assert.Nil(t, NewSyntaxRenderer("", ""))
	assert.True(t, IsSyntaxHighlightable("Makefile"))
}

package view

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"

	"github.com/TimelordUK/mdiff/internal/source"
)

func newProvider(original, modified string) *source.DiffSource {
	src := source.NewDiffSource(source.TextInput("original", original), source.TextInput("modified", modified))
	src.Compute()
	return src
}

func renderLines(v *Viewport) []string {
	return strings.Split(ansi.Strip(v.Render()), "\n")
}

func TestViewport_RenderSideBySide(t *testing.T) {
	v := NewViewport(21, 4)
	v.SetProvider(newProvider("a\nb", "a\nc"))

	assert.Equal(t, 7, v.ColumnWidth())
	assert.Equal(t, []string{
		"1 a" + strings.Repeat(" ", 9) + "1 a",
		"2 b" + strings.Repeat(" ", 6) + " | " + "2 c",
		"~",
		"~",
	}, renderLines(v))
}

func TestViewport_MissingCellsLeaveBlankGutter(t *testing.T) {
	v := NewViewport(21, 2)
	v.SetProvider(newProvider("a", "a\nnew"))

	lines := renderLines(v)
	assert.Equal(t, strings.Repeat(" ", 9)+" > "+"2 new", lines[1])
}

func TestViewport_TruncatesWideContent(t *testing.T) {
	v := NewViewport(15, 1)
	v.SetShowLineNumbers(false)
	v.SetProvider(newProvider("abcdefghij", "abcdefghij"))

	assert.Equal(t, 6, v.ColumnWidth())
	assert.Equal(t, []string{"abcde…   abcde…"}, renderLines(v))
}

func TestViewport_Scrolling(t *testing.T) {
	text := strings.Repeat("x\n", 9) + "x"
	v := NewViewport(40, 4)
	v.SetProvider(newProvider(text, text))

	v.GotoBottom()
	assert.Equal(t, 6, v.CurrentRow())
	assert.Equal(t, float64(100), v.PercentScrolled())

	v.ScrollUp(2)
	assert.Equal(t, 4, v.CurrentRow())

	v.GotoRow(100)
	assert.Equal(t, 6, v.CurrentRow())

	v.PageUp()
	assert.Equal(t, 3, v.CurrentRow())

	v.HalfPageDown()
	assert.Equal(t, 5, v.CurrentRow())

	v.GotoTop()
	assert.Equal(t, 0, v.CurrentRow())
	assert.Equal(t, float64(0), v.PercentScrolled())
}

func TestViewport_EmptyProvider(t *testing.T) {
	v := NewViewport(20, 2)
	assert.Equal(t, "", v.Render())

	v.SetProvider(newProvider("", ""))
	assert.Equal(t, "~\n~", v.Render())
	assert.Equal(t, float64(0), v.PercentScrolled())
}

func TestViewport_FilteredRowsKeepLineNumbers(t *testing.T) {
	original := "a\nb\nc\nd\ne"
	src := newProvider(original, "a\nb\nc\nd\nE")
	f := source.NewFilteredProvider(src, 0)
	f.SetChangesOnly(true)

	v := NewViewport(21, 1)
	v.SetProvider(f)
	v.SetHighlightedRow(4)

	assert.Equal(t, 4, v.HighlightedRow())
	assert.Equal(t, []string{"5 e" + strings.Repeat(" ", 6) + " | " + "5 E"}, renderLines(v))
}

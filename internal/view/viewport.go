package view

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/TimelordUK/mdiff/internal/config"
	"github.com/TimelordUK/mdiff/internal/render"
	"github.com/TimelordUK/mdiff/internal/source"
	"github.com/TimelordUK/mdiff/pkg/linediff"
)

// Width of the " | " separator between the two columns
const separatorWidth = 3

// Viewport manages the visible portion of a side-by-side diff
// It only knows how to display rows from a RowProvider
type Viewport struct {
	provider source.RowProvider
	renderer render.Renderer

	// Dimensions
	width  int
	height int

	// Scroll position
	scrollOffset int

	// Styling
	lineNumberStyle lipgloss.Style
	highlightStyle  lipgloss.Style
	markerStyles    map[linediff.RowKind]lipgloss.Style

	// Options
	showLineNumbers bool

	// Highlighted row (unfiltered index, -1 for none)
	highlightedRow int
}

// NewViewport creates a new viewport
func NewViewport(width, height int) *Viewport {
	v := &Viewport{
		width:           width,
		height:          height,
		showLineNumbers: true,
		renderer:        render.NewPlainRenderer(4),
		highlightedRow:  -1,
	}
	v.ApplyTheme(config.DefaultConfig().Theme)
	return v
}

// ApplyTheme sets gutter and marker colors
func (v *Viewport) ApplyTheme(theme config.ThemeConfig) {
	v.lineNumberStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(theme.LineNumbers))
	v.highlightStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(theme.SearchMatch)).Bold(true)
	v.markerStyles = map[linediff.RowKind]lipgloss.Style{
		linediff.RowUnchanged: lipgloss.NewStyle(),
		linediff.RowRemoved:   lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Changes.Removed)),
		linediff.RowInserted:  lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Changes.Added)),
		linediff.RowChanged:   lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Changes.Marker)),
	}
}

// SetHighlightedRow sets which unfiltered row index to highlight (-1 for none)
func (v *Viewport) SetHighlightedRow(originalIndex int) {
	v.highlightedRow = originalIndex
}

// ClearHighlight removes any row highlight
func (v *Viewport) ClearHighlight() {
	v.highlightedRow = -1
}

// HighlightedRow returns the highlighted unfiltered row index, or -1
func (v *Viewport) HighlightedRow() int {
	return v.highlightedRow
}

// SetRenderer sets the cell renderer
func (v *Viewport) SetRenderer(r render.Renderer) {
	v.renderer = r
}

// SetProvider sets the row provider
func (v *Viewport) SetProvider(provider source.RowProvider) {
	v.provider = provider
	v.scrollOffset = 0
}

// Refresh re-clamps the scroll position after the provider's rows change
func (v *Viewport) Refresh() {
	v.clampScroll()
}

// SetSize updates viewport dimensions
func (v *Viewport) SetSize(width, height int) {
	v.width = width
	v.height = height
	v.clampScroll()
}

// Height returns the number of visible rows
func (v *Viewport) Height() int {
	return v.height
}

// ScrollDown scrolls down by n rows
func (v *Viewport) ScrollDown(n int) {
	v.scrollOffset += n
	v.clampScroll()
}

// ScrollUp scrolls up by n rows
func (v *Viewport) ScrollUp(n int) {
	v.scrollOffset -= n
	v.clampScroll()
}

// PageDown scrolls down by one page
func (v *Viewport) PageDown() {
	v.ScrollDown(max(v.height-1, 1))
}

// PageUp scrolls up by one page
func (v *Viewport) PageUp() {
	v.ScrollUp(max(v.height-1, 1))
}

// HalfPageDown scrolls down by half a page
func (v *Viewport) HalfPageDown() {
	v.ScrollDown(max(v.height/2, 1))
}

// HalfPageUp scrolls up by half a page
func (v *Viewport) HalfPageUp() {
	v.ScrollUp(max(v.height/2, 1))
}

// GotoTop scrolls to the beginning
func (v *Viewport) GotoTop() {
	v.scrollOffset = 0
}

// GotoBottom scrolls to the end
func (v *Viewport) GotoBottom() {
	if v.provider == nil {
		return
	}
	v.scrollOffset = v.provider.RowCount() - v.height
	v.clampScroll()
}

// GotoRow scrolls so a row is at the top
func (v *Viewport) GotoRow(row int) {
	v.scrollOffset = row
	v.clampScroll()
}

// CurrentRow returns the current top row index
func (v *Viewport) CurrentRow() int {
	return v.scrollOffset
}

// clampScroll ensures scroll offset is within valid bounds
func (v *Viewport) clampScroll() {
	if v.provider == nil {
		v.scrollOffset = 0
		return
	}

	maxScroll := v.provider.RowCount() - v.height
	if maxScroll < 0 {
		maxScroll = 0
	}

	if v.scrollOffset > maxScroll {
		v.scrollOffset = maxScroll
	}
	if v.scrollOffset < 0 {
		v.scrollOffset = 0
	}
}

// ColumnWidth returns the content width of each side
func (v *Viewport) ColumnWidth() int {
	return max((v.width-separatorWidth-2*v.gutterWidth())/2, 1)
}

// gutterWidth is the width of a line number plus its trailing space
func (v *Viewport) gutterWidth() int {
	if !v.showLineNumbers {
		return 0
	}
	return v.numberWidth() + 1
}

// numberWidth fits the largest possible line number
func (v *Viewport) numberWidth() int {
	if v.provider == nil {
		return 1
	}
	// No side can have more lines than there are unfiltered rows
	total := v.provider.RowCount()
	if row := v.provider.GetRow(total - 1); row != nil {
		total = row.OriginalIndex + 1
	}
	return len(strconv.Itoa(max(total, 1)))
}

// Render returns the viewport content as a string
func (v *Viewport) Render() string {
	if v.provider == nil {
		return ""
	}

	rows := v.provider.GetRows(v.scrollOffset, v.height)
	colWidth := v.ColumnWidth()
	numWidth := v.numberWidth()

	var builder strings.Builder
	for i, row := range rows {
		if i > 0 {
			builder.WriteString("\n")
		}

		highlighted := v.highlightedRow >= 0 && row.OriginalIndex == v.highlightedRow
		kind := row.Kind()

		v.writeGutter(&builder, row.Left, numWidth, highlighted)
		left := ansi.Truncate(v.renderer.Render(row, source.SideLeft), colWidth, "…")
		builder.WriteString(left)
		builder.WriteString(strings.Repeat(" ", max(colWidth-ansi.StringWidth(left), 0)))

		builder.WriteString(" ")
		builder.WriteString(v.markerStyles[kind].Render(string(kind.Marker())))
		builder.WriteString(" ")

		v.writeGutter(&builder, row.Right, numWidth, highlighted)
		builder.WriteString(ansi.Truncate(v.renderer.Render(row, source.SideRight), colWidth, "…"))
	}

	// Pad with empty rows if needed
	for i := len(rows); i < v.height; i++ {
		if i > 0 {
			builder.WriteString("\n")
		}
		builder.WriteString("~")
	}

	return builder.String()
}

func (v *Viewport) writeGutter(b *strings.Builder, c *linediff.Cell, width int, highlighted bool) {
	if !v.showLineNumbers {
		return
	}
	num := strings.Repeat(" ", width+1)
	if c != nil {
		num = padLeft(strconv.Itoa(c.LineNumber), width) + " "
	}
	if highlighted {
		b.WriteString(v.highlightStyle.Render(num))
		return
	}
	b.WriteString(v.lineNumberStyle.Render(num))
}

func padLeft(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat(" ", width-len(s)) + s
}

// PercentScrolled returns how far through the diff we are
func (v *Viewport) PercentScrolled() float64 {
	if v.provider == nil || v.provider.RowCount() == 0 {
		return 0
	}

	total := v.provider.RowCount()
	if total <= v.height {
		return 100
	}

	return float64(v.scrollOffset) / float64(total-v.height) * 100
}

// SetShowLineNumbers toggles line numbers
func (v *Viewport) SetShowLineNumbers(show bool) {
	v.showLineNumbers = show
}

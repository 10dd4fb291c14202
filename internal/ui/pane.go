package ui

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/charmbracelet/lipgloss"

	"github.com/TimelordUK/mdiff/internal/config"
	"github.com/TimelordUK/mdiff/internal/export"
	"github.com/TimelordUK/mdiff/internal/render"
	"github.com/TimelordUK/mdiff/internal/source"
	"github.com/TimelordUK/mdiff/internal/view"
	"github.com/TimelordUK/mdiff/pkg/linediff"
)

// EmptyMessage is shown in place of rows when both inputs are empty
const EmptyMessage = "No differences found or empty inputs."

// Pane is the view-mode state of one comparison
type Pane struct {
	viewport       *view.Viewport
	source         *source.DiffSource
	filteredSource *source.FilteredProvider
	renderer       *render.DiffRenderer
	exporter       *export.Exporter
	config         *config.Config

	syntax bool

	// Search state, unfiltered row indices
	searchTerm    string
	searchResults []int
	searchIndex   int

	// Filter state
	filterTerm string

	width  int
	height int
}

// NewPane creates a pane over a diff source
func NewPane(src *source.DiffSource, cfg *config.Config) *Pane {
	filtered := source.NewFilteredProvider(src, cfg.Display.ContextLines)

	viewport := view.NewViewport(80, 24)
	viewport.ApplyTheme(cfg.Theme)
	viewport.SetProvider(filtered)
	viewport.SetShowLineNumbers(cfg.Display.ShowLineNumbers)

	renderer := render.NewDiffRenderer(cfg)
	viewport.SetRenderer(renderer)

	p := &Pane{
		viewport:       viewport,
		source:         src,
		filteredSource: filtered,
		renderer:       renderer,
		exporter:       export.NewExporter(export.DefaultWidth, cfg.Display.ContextLines),
		config:         cfg,
		syntax:         cfg.Display.SyntaxHighlight,
		width:          80,
		height:         24,
	}
	p.refreshSyntax()
	return p
}

// SetSize sets the viewport size
func (p *Pane) SetSize(width, height int) {
	p.width = width
	p.height = height
	p.viewport.SetSize(width, height)
}

// Render returns the rendered viewport content
func (p *Pane) Render() string {
	if p.source.Result().Empty() {
		return lipgloss.Place(p.width, p.height, lipgloss.Center, lipgloss.Center, EmptyMessage)
	}
	return p.viewport.Render()
}

// Viewport returns the pane's viewport
func (p *Pane) Viewport() *view.Viewport {
	return p.viewport
}

// Source returns the pane's diff source
func (p *Pane) Source() *source.DiffSource {
	return p.source
}

// FilteredSource returns the pane's filtered provider
func (p *Pane) FilteredSource() *source.FilteredProvider {
	return p.filteredSource
}

// SetSyntax turns syntax highlighting of unchanged cells on or off
func (p *Pane) SetSyntax(on bool) {
	p.syntax = on
	p.refreshSyntax()
}

// refreshSyntax picks highlighters from the current input names
func (p *Pane) refreshSyntax() {
	names := [2]string{p.source.Original().Name, p.source.Modified().Name}
	for side, name := range names {
		var syn *render.SyntaxRenderer
		if p.syntax {
			syn = render.NewSyntaxRenderer(name, p.config.Display.SyntaxTheme)
		}
		p.renderer.SetSyntax(source.Side(side), syn)
	}
}

// SetResult installs a new diff, keeping filters and the search term
func (p *Pane) SetResult(res linediff.Result) {
	top := p.filteredSource.OriginalRowNumber(p.viewport.CurrentRow())

	p.source.SetResult(res)
	p.filteredSource.MarkDirty()
	p.refreshSyntax()

	if p.searchTerm != "" {
		p.findMatches(p.searchTerm)
	}

	if idx := p.filteredSource.FilteredIndexFor(max(top, 0)); idx >= 0 {
		p.viewport.GotoRow(idx)
	} else {
		p.viewport.Refresh()
	}
}

// SearchTerm returns the current search term
func (p *Pane) SearchTerm() string {
	return p.searchTerm
}

// SearchResults returns the search results
func (p *Pane) SearchResults() []int {
	return p.searchResults
}

// PerformSearch finds rows where either side contains term
func (p *Pane) PerformSearch(term string) {
	p.searchTerm = term
	p.findMatches(term)

	// Jump to first result
	if len(p.searchResults) > 0 {
		p.searchIndex = 0
		p.jumpTo(p.searchResults[0])
	} else {
		p.viewport.ClearHighlight()
	}
}

func (p *Pane) findMatches(term string) {
	p.searchResults = nil
	p.searchIndex = 0
	if term == "" {
		return
	}

	for i := 0; i < p.source.RowCount(); i++ {
		row := p.source.GetRow(i)
		if cellContains(row.Left, term) || cellContains(row.Right, term) {
			p.searchResults = append(p.searchResults, i)
		}
	}
}

func cellContains(c *linediff.Cell, term string) bool {
	return c != nil && strings.Contains(c.Content, term)
}

// NextSearchResult jumps to next search result
func (p *Pane) NextSearchResult() {
	if len(p.searchResults) == 0 {
		return
	}
	p.searchIndex = (p.searchIndex + 1) % len(p.searchResults)
	p.jumpTo(p.searchResults[p.searchIndex])
}

// PrevSearchResult jumps to previous search result
func (p *Pane) PrevSearchResult() {
	if len(p.searchResults) == 0 {
		return
	}
	p.searchIndex--
	if p.searchIndex < 0 {
		p.searchIndex = len(p.searchResults) - 1
	}
	p.jumpTo(p.searchResults[p.searchIndex])
}

// ClearSearch clears search state
func (p *Pane) ClearSearch() {
	p.searchTerm = ""
	p.searchResults = nil
	p.searchIndex = 0
	p.viewport.ClearHighlight()
}

// jumpTo scrolls to the first visible row at or after an unfiltered row
// and highlights it
func (p *Pane) jumpTo(originalRow int) bool {
	filteredIndex := p.filteredSource.FilteredIndexFor(originalRow)
	if filteredIndex < 0 {
		return false
	}
	p.viewport.GotoRow(filteredIndex)
	if actual := p.filteredSource.OriginalRowNumber(filteredIndex); actual >= 0 {
		p.viewport.SetHighlightedRow(actual)
	}
	return true
}

// currentRow returns the unfiltered index of the top visible row
func (p *Pane) currentRow() int {
	return p.filteredSource.OriginalRowNumber(p.viewport.CurrentRow())
}

// NextChange jumps to the next change block below the top row
func (p *Pane) NextChange() bool {
	current := p.currentRow()
	for _, b := range p.source.Blocks() {
		if b.Start > current {
			return p.jumpTo(b.Start)
		}
	}
	return false
}

// PrevChange jumps to the previous change block above the top row
func (p *Pane) PrevChange() bool {
	current := p.currentRow()
	blocks := p.source.Blocks()
	for i := len(blocks) - 1; i >= 0; i-- {
		if blocks[i].Start < current {
			return p.jumpTo(blocks[i].Start)
		}
	}
	return false
}

// ParseGoto parses a goto target: "12" or "l12" for left line 12, "r12"
// for right line 12
func ParseGoto(input string) (source.Side, int, error) {
	input = strings.TrimSpace(input)
	side := source.SideLeft
	if input != "" {
		switch unicode.ToLower(rune(input[0])) {
		case 'l':
			input = input[1:]
		case 'r':
			side = source.SideRight
			input = input[1:]
		}
	}

	n, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil || n <= 0 {
		return side, 0, fmt.Errorf("invalid line number %q", input)
	}
	return side, n, nil
}

// GotoLine jumps to the row holding a line number of one side, or the
// nearest following row when that line has no cell on this side
func (p *Pane) GotoLine(side source.Side, line int) bool {
	last := -1
	for i := 0; i < p.source.RowCount(); i++ {
		c := p.source.GetRow(i).Cell(side)
		if c == nil {
			continue
		}
		if c.LineNumber >= line {
			return p.jumpTo(i)
		}
		last = i
	}
	if last >= 0 {
		return p.jumpTo(last)
	}
	return false
}

// ToggleChangesOnly flips changes-only mode
func (p *Pane) ToggleChangesOnly() bool {
	top := max(p.currentRow(), 0)
	on := p.filteredSource.ToggleChangesOnly()
	if idx := p.filteredSource.FilteredIndexFor(top); idx >= 0 {
		p.viewport.GotoRow(idx)
	} else {
		p.viewport.GotoBottom()
	}
	return on
}

// ChangesOnly returns whether changes-only mode is active
func (p *Pane) ChangesOnly() bool {
	return p.filteredSource.ChangesOnly()
}

// FilterTerm returns the current filter term
func (p *Pane) FilterTerm() string {
	return p.filterTerm
}

// SetFilterTerm sets or clears the text filter
func (p *Pane) SetFilterTerm(term string) {
	p.filterTerm = term
	if term == "" {
		p.filteredSource.ClearTextFilter()
	} else {
		p.filteredSource.SetTextFilter(term)
	}
	p.viewport.GotoTop()
}

// DefaultExportPath suggests where to export the visible rows
func (p *Pane) DefaultExportPath() string {
	return p.exporter.DefaultPath(p.source.Original().Name, p.source.Modified().Name)
}

// Export writes the rows visible through the current filters to path
func (p *Pane) Export(path string) (*export.Info, error) {
	rows := p.filteredSource.GetRows(0, p.filteredSource.RowCount())
	return p.exporter.ExportRows(path, rows)
}

// Position returns the 1-based top row and the number of visible rows
func (p *Pane) Position() (int, int) {
	total := p.filteredSource.RowCount()
	if total == 0 {
		return 0, 0
	}
	return p.viewport.CurrentRow() + 1, total
}

package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/TimelordUK/mdiff/internal/config"
	"github.com/TimelordUK/mdiff/internal/source"
	"github.com/TimelordUK/mdiff/pkg/linediff"
)

// Renderer applies styling to one side of a row
type Renderer interface {
	Render(row *source.Row, side source.Side) string
}

// DiffRenderer colors cells by change kind
type DiffRenderer struct {
	styles     map[linediff.Kind]lipgloss.Style
	spanStyles map[linediff.Kind]lipgloss.Style
	syntax     [2]*SyntaxRenderer
	inline     bool
	tabWidth   int
}

// NewDiffRenderer creates a renderer with config
func NewDiffRenderer(cfg *config.Config) *DiffRenderer {
	c := cfg.Theme.Changes

	styles := map[linediff.Kind]lipgloss.Style{
		linediff.Retained: lipgloss.NewStyle().Foreground(lipgloss.Color(c.Unchanged)),
		linediff.Inserted: lipgloss.NewStyle().Foreground(lipgloss.Color(c.Added)),
		linediff.Removed:  lipgloss.NewStyle().Foreground(lipgloss.Color(c.Removed)),
	}
	spanStyles := map[linediff.Kind]lipgloss.Style{
		linediff.Inserted: styles[linediff.Inserted].Background(lipgloss.Color(c.AddedSpan)),
		linediff.Removed:  styles[linediff.Removed].Background(lipgloss.Color(c.RemovedSpan)),
	}

	return &DiffRenderer{
		styles:     styles,
		spanStyles: spanStyles,
		inline:     cfg.Display.InlineHighlight,
		tabWidth:   cfg.Display.TabWidth,
	}
}

// SetSyntax sets the highlighter used for unchanged cells on one side.
// A nil highlighter turns it off.
func (r *DiffRenderer) SetSyntax(side source.Side, s *SyntaxRenderer) {
	r.syntax[side] = s
}

// Render styles a cell, emphasizing the changed spans of a changed row
func (r *DiffRenderer) Render(row *source.Row, side source.Side) string {
	cell := row.Cell(side)
	if cell == nil {
		return ""
	}
	text := ExpandTabs(cell.Content, r.tabWidth)

	if cell.Kind == linediff.Retained {
		if syn := r.syntax[side]; syn != nil {
			return syn.Highlight(text)
		}
		return r.styles[cell.Kind].Render(text)
	}

	peer := row.Peer(side)
	if !r.inline || peer == nil || peer.Kind == linediff.Retained {
		return r.styles[cell.Kind].Render(text)
	}

	oldText, newText := text, ExpandTabs(peer.Content, r.tabWidth)
	if side == source.SideRight {
		oldText, newText = newText, oldText
	}

	var sb strings.Builder
	for _, span := range InlineSpans(oldText, newText, side) {
		if span.Changed {
			sb.WriteString(r.spanStyles[cell.Kind].Render(span.Text))
		} else {
			sb.WriteString(r.styles[cell.Kind].Render(span.Text))
		}
	}
	return sb.String()
}

// PlainRenderer renders without styling
type PlainRenderer struct {
	tabWidth int
}

// NewPlainRenderer creates a plain renderer
func NewPlainRenderer(tabWidth int) *PlainRenderer {
	return &PlainRenderer{tabWidth: tabWidth}
}

// Render returns the cell content with tabs expanded
func (r *PlainRenderer) Render(row *source.Row, side source.Side) string {
	cell := row.Cell(side)
	if cell == nil {
		return ""
	}
	return ExpandTabs(cell.Content, r.tabWidth)
}

// ExpandTabs replaces tabs with spaces up to the next tab stop
func ExpandTabs(s string, width int) string {
	if width <= 0 || !strings.Contains(s, "\t") {
		return s
	}

	var sb strings.Builder
	col := 0
	for _, r := range s {
		if r == '\t' {
			pad := width - col%width
			sb.WriteString(strings.Repeat(" ", pad))
			col += pad
			continue
		}
		sb.WriteRune(r)
		col += runewidth.RuneWidth(r)
	}
	return sb.String()
}

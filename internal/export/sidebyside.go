package export

import (
	"bufio"
	"io"
	"strconv"

	"github.com/mattn/go-runewidth"

	"github.com/TimelordUK/mdiff/internal/render"
	"github.com/TimelordUK/mdiff/pkg/linediff"
)

// DefaultWidth is the side-by-side page width when none is given
const DefaultWidth = 120

const tabWidth = 4

// WriteSideBySide writes rows as two plain-text columns with line number
// gutters and a marker column between them
func WriteSideBySide(w io.Writer, rows []linediff.DisplayRow, width int) error {
	if width <= 0 {
		width = DefaultWidth
	}

	numWidth := 1
	for _, row := range rows {
		for _, c := range []*linediff.Cell{row.Left, row.Right} {
			if c != nil {
				numWidth = max(numWidth, len(strconv.Itoa(c.LineNumber)))
			}
		}
	}
	colWidth := max((width-3-2*(numWidth+1))/2, 1)

	bw := bufio.NewWriter(w)
	for _, row := range rows {
		writeGutter(bw, row.Left, numWidth)
		bw.WriteString(runewidth.FillRight(cellText(row.Left, colWidth), colWidth))
		bw.WriteByte(' ')
		bw.WriteByte(row.Kind().Marker())
		if row.Right != nil {
			bw.WriteByte(' ')
			writeGutter(bw, row.Right, numWidth)
			bw.WriteString(cellText(row.Right, colWidth))
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

func writeGutter(bw *bufio.Writer, c *linediff.Cell, width int) {
	if c == nil {
		bw.WriteString(runewidth.FillRight("", width+1))
		return
	}
	bw.WriteString(runewidth.FillLeft(strconv.Itoa(c.LineNumber), width))
	bw.WriteByte(' ')
}

func cellText(c *linediff.Cell, width int) string {
	if c == nil {
		return ""
	}
	return runewidth.Truncate(render.ExpandTabs(c.Content, tabWidth), width, "…")
}

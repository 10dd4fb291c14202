package source

import "github.com/TimelordUK/mdiff/pkg/linediff"

// Side selects a column of the side-by-side view
type Side int

const (
	SideLeft Side = iota
	SideRight
)

// Other returns the opposite side
func (s Side) Other() Side {
	if s == SideLeft {
		return SideRight
	}
	return SideLeft
}

// Row is a display row with its position in the unfiltered diff
type Row struct {
	linediff.DisplayRow
	OriginalIndex int // row index in the full diff
}

// Cell returns the row's cell for a side, or nil
func (r *Row) Cell(side Side) *linediff.Cell {
	if side == SideLeft {
		return r.Left
	}
	return r.Right
}

// Peer returns the cell on the other side, or nil
func (r *Row) Peer(side Side) *linediff.Cell {
	if side == SideLeft {
		return r.Right
	}
	return r.Left
}

// RowProvider is the core abstraction for accessing rows
// The viewport only interacts with this interface
type RowProvider interface {
	// RowCount returns total number of rows
	RowCount() int

	// GetRow returns row at index (0-based), nil if out of range
	GetRow(index int) *Row

	// GetRows returns a range of rows efficiently
	GetRows(start, count int) []*Row
}

// Block is a run of consecutive change rows [Start, End)
type Block struct {
	Start int
	End   int
}

// ChangeBlocks finds the runs of non-unchanged rows
func ChangeBlocks(rows []linediff.DisplayRow) []Block {
	var blocks []Block
	start := -1
	for i, r := range rows {
		if r.IsChange() {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			blocks = append(blocks, Block{Start: start, End: i})
			start = -1
		}
	}
	if start >= 0 {
		blocks = append(blocks, Block{Start: start, End: len(rows)})
	}
	return blocks
}

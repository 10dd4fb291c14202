package source

import (
	"strings"

	"github.com/TimelordUK/mdiff/pkg/linediff"
)

// FilteredProvider wraps a RowProvider and hides rows by kind or text
type FilteredProvider struct {
	source RowProvider

	// Changes-only: show change rows plus this many rows around them
	changesOnly  bool
	contextLines int

	// Text filter: substring match on either side
	textFilter string

	// Cached filtered indices (original row numbers that pass filter)
	filteredIndices []int
	dirty           bool
}

// NewFilteredProvider creates a filtered provider
func NewFilteredProvider(source RowProvider, contextLines int) *FilteredProvider {
	return &FilteredProvider{
		source:       source,
		contextLines: contextLines,
		dirty:        true,
	}
}

// SetChangesOnly toggles hiding unchanged rows far from any change
func (f *FilteredProvider) SetChangesOnly(on bool) {
	f.changesOnly = on
	f.dirty = true
}

// ToggleChangesOnly flips changes-only mode and returns the new state
func (f *FilteredProvider) ToggleChangesOnly() bool {
	f.SetChangesOnly(!f.changesOnly)
	return f.changesOnly
}

// ChangesOnly returns whether changes-only mode is active
func (f *FilteredProvider) ChangesOnly() bool {
	return f.changesOnly
}

// SetContextLines sets how many unchanged rows surround each change
func (f *FilteredProvider) SetContextLines(n int) {
	if n < 0 {
		n = 0
	}
	f.contextLines = n
	f.dirty = true
}

// SetTextFilter sets the text substring filter
func (f *FilteredProvider) SetTextFilter(text string) {
	f.textFilter = text
	f.dirty = true
}

// ClearTextFilter removes the text filter
func (f *FilteredProvider) ClearTextFilter() {
	f.textFilter = ""
	f.dirty = true
}

// GetTextFilter returns the current text filter
func (f *FilteredProvider) GetTextFilter() string {
	return f.textFilter
}

// HasTextFilter returns true if a text filter is active
func (f *FilteredProvider) HasTextFilter() bool {
	return f.textFilter != ""
}

// MarkDirty marks the filter index as needing rebuild
func (f *FilteredProvider) MarkDirty() {
	f.dirty = true
}

// IsFiltered returns true if any filter is active
func (f *FilteredProvider) IsFiltered() bool {
	return f.changesOnly || f.textFilter != ""
}

// rebuildIndex rebuilds the filtered index if dirty
func (f *FilteredProvider) rebuildIndex() {
	if !f.dirty {
		return
	}

	f.filteredIndices = nil

	// If no filter, don't build index (use source directly)
	if !f.IsFiltered() {
		f.dirty = false
		return
	}

	total := f.source.RowCount()
	rows := f.source.GetRows(0, total)

	// Rows within contextLines of a change stay visible
	visible := make([]bool, total)
	if f.changesOnly {
		for i, row := range rows {
			if !row.IsChange() {
				continue
			}
			lo := max(0, i-f.contextLines)
			hi := min(total-1, i+f.contextLines)
			for j := lo; j <= hi; j++ {
				visible[j] = true
			}
		}
	} else {
		for i := range visible {
			visible[i] = true
		}
	}

	for i, row := range rows {
		if !visible[i] {
			continue
		}
		if f.textFilter != "" && !rowContains(row, f.textFilter) {
			continue
		}
		f.filteredIndices = append(f.filteredIndices, i)
	}

	f.dirty = false
}

func rowContains(row *Row, text string) bool {
	return cellContains(row.Left, text) || cellContains(row.Right, text)
}

func cellContains(c *linediff.Cell, text string) bool {
	return c != nil && strings.Contains(c.Content, text)
}

// RowCount returns total number of filtered rows
func (f *FilteredProvider) RowCount() int {
	f.rebuildIndex()

	if !f.IsFiltered() {
		return f.source.RowCount()
	}
	return len(f.filteredIndices)
}

// GetRow returns row at filtered index
func (f *FilteredProvider) GetRow(index int) *Row {
	f.rebuildIndex()

	if !f.IsFiltered() {
		return f.source.GetRow(index)
	}

	if index < 0 || index >= len(f.filteredIndices) {
		return nil
	}
	return f.source.GetRow(f.filteredIndices[index])
}

// GetRows returns a range of filtered rows
func (f *FilteredProvider) GetRows(start, count int) []*Row {
	f.rebuildIndex()

	if !f.IsFiltered() {
		return f.source.GetRows(start, count)
	}

	var rows []*Row
	for i := max(start, 0); i < start+count && i < len(f.filteredIndices); i++ {
		if row := f.GetRow(i); row != nil {
			rows = append(rows, row)
		}
	}
	return rows
}

// OriginalRowNumber returns the unfiltered row index for a filtered index
func (f *FilteredProvider) OriginalRowNumber(filteredIndex int) int {
	f.rebuildIndex()

	if !f.IsFiltered() {
		return filteredIndex
	}

	if filteredIndex < 0 || filteredIndex >= len(f.filteredIndices) {
		return -1
	}
	return f.filteredIndices[filteredIndex]
}

// FilteredIndexFor returns the first filtered index at or after an
// unfiltered row index, or -1 if none remain
func (f *FilteredProvider) FilteredIndexFor(originalIndex int) int {
	f.rebuildIndex()

	if !f.IsFiltered() {
		if originalIndex >= f.source.RowCount() {
			return -1
		}
		return originalIndex
	}

	for i, idx := range f.filteredIndices {
		if idx >= originalIndex {
			return i
		}
	}
	return -1
}

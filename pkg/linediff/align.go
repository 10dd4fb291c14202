package linediff

// Cell is one side of a display row
type Cell struct {
	Content    string
	LineNumber int // 1-based, per side
	Kind       Kind
}

// RowKind classifies a display row for presentation
type RowKind int

const (
	RowUnchanged RowKind = iota
	RowRemoved
	RowInserted
	RowChanged // a removal paired with an insertion
)

// String returns the row kind name
func (k RowKind) String() string {
	switch k {
	case RowUnchanged:
		return "unchanged"
	case RowRemoved:
		return "removed"
	case RowInserted:
		return "inserted"
	case RowChanged:
		return "changed"
	default:
		return "unknown"
	}
}

// Marker returns the gutter character shown between the two columns
func (k RowKind) Marker() byte {
	switch k {
	case RowRemoved:
		return '<'
	case RowInserted:
		return '>'
	case RowChanged:
		return '|'
	default:
		return ' '
	}
}

// DisplayRow is one row of a side-by-side view.
// Pairing of a removal with an insertion is positional only.
type DisplayRow struct {
	Left  *Cell
	Right *Cell
}

// Kind returns the presentation kind of the row
func (r DisplayRow) Kind() RowKind {
	switch {
	case r.Left != nil && r.Right != nil:
		if r.Left.Kind == Retained {
			return RowUnchanged
		}
		return RowChanged
	case r.Left != nil:
		return RowRemoved
	default:
		return RowInserted
	}
}

// IsChange returns true for any row that is not unchanged
func (r DisplayRow) IsChange() bool {
	return r.Kind() != RowUnchanged
}

// AlignRows turns an edit script into side-by-side rows.
//
// Consecutive removals and insertions are buffered and flushed before each
// retained line and at the end: removal k sits next to insertion k, and the
// longer run gets single-sided rows for its excess.
func AlignRows(tagged []TaggedLine) []DisplayRow {
	if len(tagged) == 0 {
		return nil
	}

	rows := make([]DisplayRow, 0, len(tagged))
	var removals, insertions []string
	left, right := 1, 1

	flush := func() {
		k := max(len(removals), len(insertions))
		for idx := 0; idx < k; idx++ {
			var row DisplayRow
			if idx < len(removals) {
				row.Left = &Cell{Content: removals[idx], LineNumber: left, Kind: Removed}
				left++
			}
			if idx < len(insertions) {
				row.Right = &Cell{Content: insertions[idx], LineNumber: right, Kind: Inserted}
				right++
			}
			rows = append(rows, row)
		}
		removals = removals[:0]
		insertions = insertions[:0]
	}

	for _, t := range tagged {
		switch t.Kind {
		case Retained:
			flush()
			rows = append(rows, DisplayRow{
				Left:  &Cell{Content: t.Content, LineNumber: left, Kind: Retained},
				Right: &Cell{Content: t.Content, LineNumber: right, Kind: Retained},
			})
			left++
			right++
		case Removed:
			removals = append(removals, t.Content)
		case Inserted:
			insertions = append(insertions, t.Content)
		}
	}
	flush()

	return rows
}

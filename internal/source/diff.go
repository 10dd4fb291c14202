package source

import (
	"errors"
	"os"

	"github.com/TimelordUK/mdiff/pkg/linediff"
)

// DiffSource provides the rows of a comparison between two inputs
type DiffSource struct {
	original Input
	modified Input
	result   linediff.Result
	blocks   []Block

	// Compare both sides as edit buffers store them once either was edited
	editorNormalized bool
}

// NewDiffSource creates a source for two inputs without computing the diff
func NewDiffSource(original, modified Input) *DiffSource {
	return &DiffSource{
		original: original,
		modified: modified,
	}
}

// SetEditorNormalized makes Lines pass both sides through EditorText, so an
// edited side and an untouched file side agree on tabs and line endings
func (s *DiffSource) SetEditorNormalized(on bool) {
	s.editorNormalized = on
}

// EditorNormalized reports whether both sides are compared as edited text
func (s *DiffSource) EditorNormalized() bool {
	return s.editorNormalized
}

// Lines returns the lines of both inputs as they are compared
func (s *DiffSource) Lines() (original, modified []string) {
	if !s.editorNormalized {
		return s.original.Lines(), s.modified.Lines()
	}
	return linediff.SplitLines(EditorText(s.original.Text)), linediff.SplitLines(EditorText(s.modified.Text))
}

// Compute diffs the current inputs synchronously
func (s *DiffSource) Compute() linediff.Result {
	res := linediff.CompareLines(s.Lines())
	s.SetResult(res)
	return res
}

// SetResult installs a result computed elsewhere
func (s *DiffSource) SetResult(res linediff.Result) {
	s.result = res
	s.blocks = ChangeBlocks(res.Rows)
}

// Result returns the last installed result
func (s *DiffSource) Result() linediff.Result {
	return s.result
}

// Blocks returns the change blocks of the last result
func (s *DiffSource) Blocks() []Block {
	return s.blocks
}

// Original returns the left input
func (s *DiffSource) Original() Input {
	return s.original
}

// Modified returns the right input
func (s *DiffSource) Modified() Input {
	return s.modified
}

// SetOriginal replaces the left input
func (s *DiffSource) SetOriginal(in Input) {
	s.original = in
}

// SetModified replaces the right input
func (s *DiffSource) SetModified(in Input) {
	s.modified = in
}

// Swap exchanges the two inputs
func (s *DiffSource) Swap() {
	s.original, s.modified = s.modified, s.original
}

// Clear empties both inputs and the result
func (s *DiffSource) Clear() {
	s.Close()
	s.editorNormalized = false
	s.original = TextInput("original", "")
	s.modified = TextInput("modified", "")
	s.SetResult(linediff.Result{})
}

// Reload re-reads file-backed inputs whose path matches, returning true
// if any content changed
func (s *DiffSource) Reload(path string) (bool, error) {
	changed := false
	for _, in := range []*Input{&s.original, &s.modified} {
		if !in.IsFile() || !samePath(in.Path, path) {
			continue
		}
		fresh, err := in.refresh()
		if err != nil {
			return changed, err
		}
		changed = changed || fresh
	}
	return changed, nil
}

// Close releases the file mappings held by both inputs
func (s *DiffSource) Close() error {
	return errors.Join(s.original.Close(), s.modified.Close())
}

// RowCount returns total number of rows
func (s *DiffSource) RowCount() int {
	return len(s.result.Rows)
}

// GetRow returns row at index
func (s *DiffSource) GetRow(idx int) *Row {
	if idx < 0 || idx >= len(s.result.Rows) {
		return nil
	}
	return &Row{DisplayRow: s.result.Rows[idx], OriginalIndex: idx}
}

// GetRows returns a range of rows
func (s *DiffSource) GetRows(start, count int) []*Row {
	if start < 0 {
		start = 0
	}
	end := start + count
	if end > len(s.result.Rows) {
		end = len(s.result.Rows)
	}
	if start >= end {
		return nil
	}

	rows := make([]*Row, 0, end-start)
	for i := start; i < end; i++ {
		rows = append(rows, s.GetRow(i))
	}
	return rows
}

func samePath(a, b string) bool {
	if a == b {
		return true
	}
	ai, err := os.Stat(a)
	if err != nil {
		return false
	}
	bi, err := os.Stat(b)
	if err != nil {
		return false
	}
	return os.SameFile(ai, bi)
}

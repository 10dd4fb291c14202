package linediff

import "strings"

// SplitLines splits text on \r?\n.
// A terminal separator leaves a trailing empty line; the empty text has no lines.
func SplitLines(text string) []string {
	if text == "" {
		return nil
	}

	lines := strings.Split(text, "\n")
	for i := 0; i < len(lines)-1; i++ {
		lines[i] = strings.TrimSuffix(lines[i], "\r")
	}
	return lines
}

// Stats summarizes an edit script
type Stats struct {
	Added    int
	Removed  int
	Retained int
	Total    int // number of tagged lines
}

// Summarize counts the kinds in an edit script
func Summarize(tagged []TaggedLine) Stats {
	s := Stats{Total: len(tagged)}
	for _, t := range tagged {
		switch t.Kind {
		case Inserted:
			s.Added++
		case Removed:
			s.Removed++
		default:
			s.Retained++
		}
	}
	return s
}

// Result is the outcome of comparing two texts
type Result struct {
	Tagged []TaggedLine
	Rows   []DisplayRow
	Stats  Stats
}

// Identical returns true when nothing was added or removed
func (r Result) Identical() bool {
	return r.Stats.Added == 0 && r.Stats.Removed == 0
}

// Empty returns true when both inputs had no lines
func (r Result) Empty() bool {
	return r.Stats.Total == 0
}

// Compare diffs two raw texts and aligns the result into rows
func Compare(original, modified string) Result {
	return CompareLines(SplitLines(original), SplitLines(modified))
}

// CompareLines is Compare for texts that are already split
func CompareLines(original, modified []string) Result {
	tagged := Diff(original, modified)
	return Result{
		Tagged: tagged,
		Rows:   AlignRows(tagged),
		Stats:  Summarize(tagged),
	}
}

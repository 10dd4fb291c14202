// Package linediff computes line-level diffs and aligns them into
// side-by-side display rows.
package linediff

// Kind tags a line in an edit script
type Kind int

const (
	Retained Kind = iota
	Inserted
	Removed
)

// String returns the kind name
func (k Kind) String() string {
	switch k {
	case Retained:
		return "retained"
	case Inserted:
		return "inserted"
	case Removed:
		return "removed"
	default:
		return "unknown"
	}
}

// Marker returns the unified diff prefix for the kind
func (k Kind) Marker() byte {
	switch k {
	case Inserted:
		return '+'
	case Removed:
		return '-'
	default:
		return ' '
	}
}

// TaggedLine is one entry of an edit script
type TaggedLine struct {
	Kind    Kind
	Content string
}

// Diff computes the edit script turning original into modified.
//
// Common leading and trailing lines are trimmed first; only the middle
// slices go through the O(m*n) LCS table. When the backtrack has a choice,
// it consumes from modified, so insertions are surfaced before removals.
func Diff(original, modified []string) []TaggedLine {
	prefix := 0
	for prefix < len(original) && prefix < len(modified) && original[prefix] == modified[prefix] {
		prefix++
	}

	end1, end2 := len(original), len(modified)
	for end1 > prefix && end2 > prefix && original[end1-1] == modified[end2-1] {
		end1--
		end2--
	}

	out := make([]TaggedLine, 0, len(original)+end2-prefix)
	for _, line := range original[:prefix] {
		out = append(out, TaggedLine{Kind: Retained, Content: line})
	}

	out = appendMiddle(out, original[prefix:end1], modified[prefix:end2])

	for _, line := range original[end1:] {
		out = append(out, TaggedLine{Kind: Retained, Content: line})
	}
	return out
}

// appendMiddle appends the LCS edit script of mid1 -> mid2 to out
func appendMiddle(out []TaggedLine, mid1, mid2 []string) []TaggedLine {
	if len(mid1) == 0 {
		for _, line := range mid2 {
			out = append(out, TaggedLine{Kind: Inserted, Content: line})
		}
		return out
	}
	if len(mid2) == 0 {
		for _, line := range mid1 {
			out = append(out, TaggedLine{Kind: Removed, Content: line})
		}
		return out
	}

	m, n := len(mid1), len(mid2)
	width := n + 1
	dp := buildTable(mid1, mid2)

	// Backtrack writes from the end of the segment towards its start.
	base := len(out)
	out = append(out, make([]TaggedLine, m+n)...)
	pos := len(out)

	i, j := m, n
	for i > 0 || j > 0 {
		pos--
		switch {
		case i > 0 && j > 0 && mid1[i-1] == mid2[j-1]:
			out[pos] = TaggedLine{Kind: Retained, Content: mid1[i-1]}
			i--
			j--
		case j > 0 && (i == 0 || dp[i*width+j-1] >= dp[(i-1)*width+j]):
			out[pos] = TaggedLine{Kind: Inserted, Content: mid2[j-1]}
			j--
		default:
			out[pos] = TaggedLine{Kind: Removed, Content: mid1[i-1]}
			i--
		}
	}

	// Each retained line consumed one slot for two input lines.
	used := len(out) - pos
	copy(out[base:], out[pos:])
	return out[:base+used]
}

// buildTable fills the LCS length table for a and b.
// The table is (len(a)+1) x (len(b)+1), row-major in a single buffer.
func buildTable(a, b []string) []int {
	width := len(b) + 1
	dp := make([]int, (len(a)+1)*width)

	for i := 1; i <= len(a); i++ {
		row := i * width
		prev := row - width
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				dp[row+j] = dp[prev+j-1] + 1
			} else if dp[prev+j] >= dp[row+j-1] {
				dp[row+j] = dp[prev+j]
			} else {
				dp[row+j] = dp[row+j-1]
			}
		}
	}
	return dp
}

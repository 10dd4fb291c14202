package export

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/TimelordUK/mdiff/pkg/linediff"
)

// DefaultContext is the number of unchanged lines around each hunk
const DefaultContext = 3

type hunk struct {
	start int
	end   int
}

// WriteUnified writes tagged lines in unified diff format. Nothing is
// written when there are no changes.
func WriteUnified(w io.Writer, tagged []linediff.TaggedLine, context int, fromName, toName string) error {
	hunks := buildHunks(tagged, context)
	if len(hunks) == 0 {
		return nil
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "--- %s\n+++ %s\n", fromName, toName)
	for _, h := range hunks {
		oldStart, oldCount, newStart, newCount := h.lineRange(tagged)
		fmt.Fprintf(bw, "@@ -%s +%s @@\n", formatRange(oldStart, oldCount), formatRange(newStart, newCount))

		for _, tl := range tagged[h.start:h.end] {
			bw.WriteByte(tl.Kind.Marker())
			bw.WriteString(tl.Content)
			bw.WriteByte('\n')
		}
	}
	return bw.Flush()
}

// WriteTagged writes one line per tagged line, prefixed by its marker
func WriteTagged(w io.Writer, tagged []linediff.TaggedLine) error {
	bw := bufio.NewWriter(w)
	for _, tl := range tagged {
		bw.WriteByte(tl.Kind.Marker())
		bw.WriteString(tl.Content)
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

func buildHunks(tagged []linediff.TaggedLine, context int) []hunk {
	if context < 0 {
		context = 0
	}

	var hunks []hunk
	for i, tl := range tagged {
		if tl.Kind == linediff.Retained {
			continue
		}

		start := max(i-context, 0)
		end := min(i+context+1, len(tagged))

		if len(hunks) == 0 || start > hunks[len(hunks)-1].end {
			hunks = append(hunks, hunk{start: start, end: end})
			continue
		}
		if end > hunks[len(hunks)-1].end {
			hunks[len(hunks)-1].end = end
		}
	}

	return hunks
}

// lineRange returns 1-based starts and counts; an empty side starts at
// the line before the hunk
func (h hunk) lineRange(tagged []linediff.TaggedLine) (oldStart, oldCount, newStart, newCount int) {
	oldLine, newLine := 1, 1
	for _, tl := range tagged[:h.start] {
		switch tl.Kind {
		case linediff.Retained:
			oldLine++
			newLine++
		case linediff.Removed:
			oldLine++
		case linediff.Inserted:
			newLine++
		}
	}

	oldStart, newStart = oldLine, newLine

	for _, tl := range tagged[h.start:h.end] {
		switch tl.Kind {
		case linediff.Retained:
			oldCount++
			newCount++
		case linediff.Removed:
			oldCount++
		case linediff.Inserted:
			newCount++
		}
	}

	if oldCount == 0 {
		oldStart--
	}
	if newCount == 0 {
		newStart--
	}

	return oldStart, oldCount, newStart, newCount
}

// formatRange omits a count of one, as diff -u does
func formatRange(start, count int) string {
	if count == 1 {
		return strconv.Itoa(start)
	}
	return strconv.Itoa(start) + "," + strconv.Itoa(count)
}

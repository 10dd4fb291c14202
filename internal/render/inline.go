package render

import (
	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/TimelordUK/mdiff/internal/source"
)

// Span is a piece of one side of a changed row
type Span struct {
	Text    string
	Changed bool // removed (left) or inserted (right) text
}

// InlineSpans splits one side of a removed/inserted pair into unchanged
// and changed pieces. The pairing is positional, so spans are only a
// visual aid: unrelated lines simply come back as one changed span.
func InlineSpans(oldText, newText string, side source.Side) []Span {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffCleanupSemantic(dmp.DiffMain(oldText, newText, false))

	var spans []Span
	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			spans = appendSpan(spans, Span{Text: d.Text})
		case diffmatchpatch.DiffDelete:
			if side == source.SideLeft {
				spans = appendSpan(spans, Span{Text: d.Text, Changed: true})
			}
		case diffmatchpatch.DiffInsert:
			if side == source.SideRight {
				spans = appendSpan(spans, Span{Text: d.Text, Changed: true})
			}
		}
	}
	return spans
}

// appendSpan merges adjacent spans of the same kind
func appendSpan(spans []Span, s Span) []Span {
	if s.Text == "" {
		return spans
	}
	if n := len(spans); n > 0 && spans[n-1].Changed == s.Changed {
		spans[n-1].Text += s.Text
		return spans
	}
	return append(spans, s)
}

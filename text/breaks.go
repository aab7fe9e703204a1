package text

import (
	"github.com/go-text/typesetting/segmenter"
)

// BreakOpportunity is a position, in runes, before which a line may break.
type BreakOpportunity struct {
	Index int
	// Mandatory is true for forced breaks,
	// such as the ones after preserved newlines.
	Mandatory bool
}

// BreakOpportunities returns the line break opportunities inside `text`,
// following the Unicode line breaking algorithm (UAX #14).
// The start and the end of the text are never returned.
func BreakOpportunities(text []rune) []BreakOpportunity {
	if len(text) == 0 {
		return nil
	}
	var (
		seg segmenter.Segmenter
		out []BreakOpportunity
	)
	seg.Init(text)
	iter := seg.LineIterator()
	for iter.Next() {
		line := iter.Line()
		end := line.Offset + len(line.Text)
		if end < len(text) {
			out = append(out, BreakOpportunity{Index: end, Mandatory: line.IsMandatoryBreak})
		}
	}
	return out
}

// CanBreakText returns true if there is a line break strictly inside `t`.
func CanBreakText(t []rune) bool {
	if len(t) < 2 {
		return false
	}
	for _, b := range BreakOpportunities(t) {
		if b.Index > 0 && b.Index < len(t) {
			return true
		}
	}
	return false
}

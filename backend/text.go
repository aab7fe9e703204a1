package backend

import (
	"image/color"
	"strings"
	"unicode/utf8"

	"github.com/benoitkugler/printlayout/html/layout"
	"github.com/benoitkugler/printlayout/text"
)

// TextDrawing exposes a positionned text run to draw
// and the associated font, in a backend independent manner.
type TextDrawing struct {
	X, Y Fl // origin of the text, on the baseline

	Text  string
	Font  text.FontDescription
	Color color.NRGBA

	// spacing added after each glyph, and after each space
	LetterSpacing, WordSpacing Fl
}

// NewTextDrawing returns the drawing of the text fragment `f`,
// or false if there is nothing to draw.
func NewTextDrawing(f *layout.Fragment) (TextDrawing, bool) {
	if f.Kind != layout.TextFragment || f.TextStyle == nil || !IsVisible(f) {
		return TextDrawing{}, false
	}
	if strings.TrimSpace(f.Text) == "" {
		return TextDrawing{}, false
	}
	c, ok := ToRGBA(f.Style.GetColor())
	if !ok {
		return TextDrawing{}, false
	}
	return TextDrawing{
		X: Fl(f.PositionX), Y: Fl(f.Baseline),
		Text:          f.Text,
		Font:          f.TextStyle.FontDescription,
		Color:         c,
		LetterSpacing: f.TextStyle.LetterSpacing,
		WordSpacing:   f.TextStyle.WordSpacing + Fl(f.WordSpacing),
	}, true
}

// TextRun is a part of a [TextDrawing] drawn
// without additional spacing.
type TextRun struct {
	X    Fl // origin, on the baseline
	Text string
}

// Runs splits the text so that each run may be drawn with the natural
// advances of the font, the spacing being applied between runs.
// The positions are consistent with [text.TextWidth].
func (td TextDrawing) Runs(m text.Measurer) []TextRun {
	if td.LetterSpacing == 0 && td.WordSpacing == 0 {
		return []TextRun{{X: td.X, Text: td.Text}}
	}
	var out []TextRun
	x := td.X
	if td.LetterSpacing != 0 {
		// one run per glyph
		for _, r := range td.Text {
			s := string(r)
			out = append(out, TextRun{X: x, Text: s})
			x += m.Advance(s, td.Font) + td.LetterSpacing
			if r == ' ' {
				x += td.WordSpacing
			}
		}
		return out
	}
	for rest := td.Text; rest != ""; {
		end := strings.IndexByte(rest, ' ')
		if end == -1 {
			end = len(rest)
		} else {
			end++ // include the space
		}
		run := rest[:end]
		out = append(out, TextRun{X: x, Text: run})
		x += m.Advance(run, td.Font) + td.WordSpacing*Fl(strings.Count(run, " "))
		rest = rest[end:]
	}
	return out
}

// Width returns the advance of the whole text.
func (td TextDrawing) Width(m text.Measurer) Fl {
	return m.Advance(td.Text, td.Font) + td.LetterSpacing*Fl(utf8.RuneCountInString(td.Text)) +
		td.WordSpacing*Fl(strings.Count(td.Text, " "))
}

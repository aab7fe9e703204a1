package text

import (
	"unicode/utf8"
)

// Measurer provides the font metrics required by the layout.
// It is implemented by [FaceMeasurer], backed by real fonts,
// and by [FixedMeasurer], which is convenient for tests.
//
// Implementations must be safe for concurrent use.
type Measurer interface {
	// Advance returns the width of `text` in pixels, without
	// letter or word spacing.
	Advance(text string, font FontDescription) Fl
	// Metrics returns the vertical metrics of the font.
	Metrics(font FontDescription) LineMetrics
}

// FixedMeasurer is a [Measurer] where every glyph is one em
// wide, the ascent is 0.8 em and the descent 0.2 em.
// It gives exact, font independent geometry.
type FixedMeasurer struct{}

var _ Measurer = FixedMeasurer{}

func (FixedMeasurer) Advance(text string, font FontDescription) Fl {
	return Fl(utf8.RuneCountInString(text)) * font.Size
}

func (FixedMeasurer) Metrics(font FontDescription) LineMetrics {
	return LineMetrics{Ascent: 0.8 * font.Size, Descent: 0.2 * font.Size}
}

// TextWidth returns the width of `text`, including letter spacing
// (after every glyph) and word spacing (after every space).
func TextWidth(m Measurer, text string, style *TextStyle) Fl {
	width := m.Advance(text, style.FontDescription)
	if style.LetterSpacing != 0 {
		width += style.LetterSpacing * Fl(utf8.RuneCountInString(text))
	}
	if style.WordSpacing != 0 {
		for _, r := range text {
			if r == ' ' || r == ' ' {
				width += style.WordSpacing
			}
		}
	}
	return width
}

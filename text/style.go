// Package text provides the font metrics and line breaking
// primitives used by the inline layout.
package text

import (
	"strings"

	pr "github.com/benoitkugler/printlayout/css/properties"
)

type Fl = pr.Fl

// LineMetrics are the vertical metrics of a font, in pixels.
type LineMetrics struct {
	// Distance from the baseline to the logical top of a line of text.
	Ascent Fl
	// Distance from the baseline to the logical bottom of a line of text,
	// as a positive number.
	Descent Fl
	// Extra space suggested between lines.
	LineGap Fl
}

// Height returns the natural line height of the font.
func (lm LineMetrics) Height() Fl { return lm.Ascent + lm.Descent + lm.LineGap }

type FontStyle uint8

const (
	FSNormal FontStyle = iota
	FSItalic
	FSOblique
)

func newFontStyle(s pr.String) FontStyle {
	switch s {
	case "italic":
		return FSItalic
	case "oblique":
		return FSOblique
	default:
		return FSNormal
	}
}

// FontDescription stores the settings influencing
// font resolution and metrics.
type FontDescription struct {
	Family []string
	Style  FontStyle
	Weight uint16
	Size   Fl
}

// IsBold returns true for weights of 600 and more.
func (fd FontDescription) IsBold() bool { return fd.Weight >= 600 }

// IsMonospace returns true if the first generic family found is monospace.
func (fd FontDescription) IsMonospace() bool {
	for _, f := range fd.Family {
		switch strings.ToLower(f) {
		case "monospace", "courier", "courier new":
			return true
		case "serif", "sans-serif":
			return false
		}
	}
	return false
}

type Whitespace uint8

const (
	WNormal Whitespace = iota
	WPre
	WNowrap
	WPreWrap
	WPreLine
)

func newWhitespace(s pr.String) Whitespace {
	switch s {
	case "pre":
		return WPre
	case "nowrap":
		return WNowrap
	case "pre-wrap":
		return WPreWrap
	case "pre-line":
		return WPreLine
	default:
		return WNormal
	}
}

// TextWrap returns true if the "white-space" property allows wrapping
func (ws Whitespace) TextWrap() bool {
	return ws == WNormal || ws == WPreWrap || ws == WPreLine
}

// SpaceCollapse returns true if the "white-space" property collapses spaces
func (ws Whitespace) SpaceCollapse() bool {
	return ws == WNormal || ws == WNowrap || ws == WPreLine
}

// TextStyle exposes the subset of a [pr.StyleAccessor]
// required to layout text.
type TextStyle struct {
	FontDescription

	Lang       string
	WhiteSpace Whitespace

	WordSpacing   Fl // 0 for 'normal'
	LetterSpacing Fl // 0 for 'normal'
}

// NewTextStyle extracts the text properties from a computed style.
func NewTextStyle(style pr.StyleAccessor) *TextStyle {
	var out TextStyle
	out.Family = style.GetFontFamily()
	out.Style = newFontStyle(style.GetFontStyle())
	out.Weight = uint16(style.GetFontWeight())
	out.Size = Fl(style.GetFontSize().Value)

	out.Lang = string(style.GetLang())
	out.WhiteSpace = newWhitespace(style.GetWhiteSpace())
	if ws := style.GetWordSpacing(); ws.S == "" {
		out.WordSpacing = Fl(ws.Value)
	}
	if ls := style.GetLetterSpacing(); ls.S == "" {
		out.LetterSpacing = Fl(ls.Value)
	}
	return &out
}

package properties

const (
	_ KnownProp = iota

	PDisplay
	PPosition
	PFloat
	PClear
	PTop
	PRight
	PBottom
	PLeft
	PVisibility
	POverflow

	PWidth
	PHeight
	PMinWidth
	PMinHeight
	PMaxWidth
	PMaxHeight
	PBoxSizing

	// the following properties are grouped by side,
	// in the [top, right, bottom, left] order,
	// so that, if side is an index (0, 1, 2 or 3),
	// the property is PBorderTopColor + side * 5
	// DO NOT CHANGE the order.
	PBorderTopColor
	PBorderTopStyle
	PBorderTopWidth
	PMarginTop
	PPaddingTop

	PBorderRightColor
	PBorderRightStyle
	PBorderRightWidth
	PMarginRight
	PPaddingRight

	PBorderBottomColor
	PBorderBottomStyle
	PBorderBottomWidth
	PMarginBottom
	PPaddingBottom

	PBorderLeftColor
	PBorderLeftStyle
	PBorderLeftWidth
	PMarginLeft
	PPaddingLeft

	PColor
	PBackgroundColor

	PFontFamily
	PFontSize
	PFontStyle
	PFontWeight
	PLineHeight
	PLetterSpacing
	PWordSpacing
	PTextAlign
	PTextIndent
	PTextTransform
	PWhiteSpace
	PVerticalAlign
	PLang

	PContent
	PQuotes
	PCounterReset
	PCounterIncrement
	PCounterSet
	PListStyleType

	PBreakBefore
	PBreakAfter
	PBreakInside
	POrphans
	PWidows
	PSize

	NbProperties
)

// Side returns the property for the given side index (0 for top, 1 for right,
// 2 for bottom, 3 for left), `p` being the top variant.
func (p KnownProp) Side(side int) KnownProp { return p + KnownProp(side*5) }

var propsNames = [NbProperties]string{
	PDisplay:    "display",
	PPosition:   "position",
	PFloat:      "float",
	PClear:      "clear",
	PTop:        "top",
	PRight:      "right",
	PBottom:     "bottom",
	PLeft:       "left",
	PVisibility: "visibility",
	POverflow:   "overflow",

	PWidth:     "width",
	PHeight:    "height",
	PMinWidth:  "min-width",
	PMinHeight: "min-height",
	PMaxWidth:  "max-width",
	PMaxHeight: "max-height",
	PBoxSizing: "box-sizing",

	PBorderTopColor:    "border-top-color",
	PBorderTopStyle:    "border-top-style",
	PBorderTopWidth:    "border-top-width",
	PMarginTop:         "margin-top",
	PPaddingTop:        "padding-top",
	PBorderRightColor:  "border-right-color",
	PBorderRightStyle:  "border-right-style",
	PBorderRightWidth:  "border-right-width",
	PMarginRight:       "margin-right",
	PPaddingRight:      "padding-right",
	PBorderBottomColor: "border-bottom-color",
	PBorderBottomStyle: "border-bottom-style",
	PBorderBottomWidth: "border-bottom-width",
	PMarginBottom:      "margin-bottom",
	PPaddingBottom:     "padding-bottom",
	PBorderLeftColor:   "border-left-color",
	PBorderLeftStyle:   "border-left-style",
	PBorderLeftWidth:   "border-left-width",
	PMarginLeft:        "margin-left",
	PPaddingLeft:       "padding-left",

	PColor:           "color",
	PBackgroundColor: "background-color",

	PFontFamily:    "font-family",
	PFontSize:      "font-size",
	PFontStyle:     "font-style",
	PFontWeight:    "font-weight",
	PLineHeight:    "line-height",
	PLetterSpacing: "letter-spacing",
	PWordSpacing:   "word-spacing",
	PTextAlign:     "text-align",
	PTextIndent:    "text-indent",
	PTextTransform: "text-transform",
	PWhiteSpace:    "white-space",
	PVerticalAlign: "vertical-align",
	PLang:          "lang",

	PContent:          "content",
	PQuotes:           "quotes",
	PCounterReset:     "counter-reset",
	PCounterIncrement: "counter-increment",
	PCounterSet:       "counter-set",
	PListStyleType:    "list-style-type",

	PBreakBefore: "break-before",
	PBreakAfter:  "break-after",
	PBreakInside: "break-inside",
	POrphans:     "orphans",
	PWidows:      "widows",
	PSize:        "size",
}

// Package validation expands shorthands and validates property values.
// See http://www.w3.org/TR/CSS21/propidx.html and various CSS3 modules.
package validation

import (
	"errors"
	"fmt"
	"strings"

	pa "github.com/benoitkugler/printlayout/css/parser"
	pr "github.com/benoitkugler/printlayout/css/properties"
	"github.com/benoitkugler/printlayout/utils"
)

type Token = pa.Token

var (
	ErrUnknownProperty = errors.New("unknown or unsupported property")
	ErrInvalidValue    = errors.New("invalid or unsupported values for a known CSS property")

	LengthUnits = map[string]pr.Unit{"ex": pr.Ex, "em": pr.Em, "ch": pr.Ch, "rem": pr.Rem, "px": pr.Px, "pt": pr.Pt, "pc": pr.Pc, "in": pr.In, "cm": pr.Cm, "mm": pr.Mm, "q": pr.Q}

	// CounterStyles are the supported values of list-style-type,
	// and of the style argument of counter() and counters().
	CounterStyles = utils.NewSet("decimal", "decimal-leading-zero", "lower-roman", "upper-roman",
		"lower-alpha", "upper-alpha", "lower-latin", "upper-latin", "lower-greek",
		"disc", "circle", "square", "none")

	contentQuoteKeywords = utils.NewSet("open-quote", "close-quote", "no-open-quote", "no-close-quote")

	// validators for non-shorthand properties.
	// They return nil for invalid values.
	validators = [pr.NbProperties]validator{
		pr.PDisplay:    keyword("inline", "block", "inline-block", "list-item", "none", "flow-root"),
		pr.PPosition:   keyword("static", "relative", "absolute", "fixed"),
		pr.PFloat:      keyword("none", "left", "right"),
		pr.PClear:      keyword("none", "left", "right", "both"),
		pr.PTop:        lengthPercentageOrAuto(true),
		pr.PRight:      lengthPercentageOrAuto(true),
		pr.PBottom:     lengthPercentageOrAuto(true),
		pr.PLeft:       lengthPercentageOrAuto(true),
		pr.PVisibility: keyword("visible", "hidden", "collapse"),
		pr.POverflow:   keyword("visible", "hidden", "scroll", "auto", "clip"),

		pr.PWidth:     lengthPercentageOrAuto(false),
		pr.PHeight:    lengthPercentageOrAuto(false),
		pr.PMinWidth:  minWidthHeight,
		pr.PMinHeight: minWidthHeight,
		pr.PMaxWidth:  maxWidthHeight,
		pr.PMaxHeight: maxWidthHeight,
		pr.PBoxSizing: keyword("content-box", "border-box"),

		pr.PBorderTopColor:    otherColors,
		pr.PBorderRightColor:  otherColors,
		pr.PBorderBottomColor: otherColors,
		pr.PBorderLeftColor:   otherColors,
		pr.PBorderTopStyle:    borderStyle,
		pr.PBorderRightStyle:  borderStyle,
		pr.PBorderBottomStyle: borderStyle,
		pr.PBorderLeftStyle:   borderStyle,
		pr.PBorderTopWidth:    borderWidth,
		pr.PBorderRightWidth:  borderWidth,
		pr.PBorderBottomWidth: borderWidth,
		pr.PBorderLeftWidth:   borderWidth,
		pr.PMarginTop:         lengthPercentageOrAuto(true),
		pr.PMarginRight:       lengthPercentageOrAuto(true),
		pr.PMarginBottom:      lengthPercentageOrAuto(true),
		pr.PMarginLeft:        lengthPercentageOrAuto(true),
		pr.PPaddingTop:        lengthOrPercentage(false),
		pr.PPaddingRight:      lengthOrPercentage(false),
		pr.PPaddingBottom:     lengthOrPercentage(false),
		pr.PPaddingLeft:       lengthOrPercentage(false),

		pr.PColor:           color,
		pr.PBackgroundColor: otherColors,

		pr.PFontFamily:    fontFamily,
		pr.PFontSize:      fontSize,
		pr.PFontStyle:     keyword("normal", "italic", "oblique"),
		pr.PFontWeight:    fontWeight,
		pr.PLineHeight:    lineHeight,
		pr.PLetterSpacing: spacing,
		pr.PWordSpacing:   spacing,
		pr.PTextAlign:     keyword("start", "end", "left", "right", "center", "justify"),
		pr.PTextIndent:    lengthOrPercentage(true),
		pr.PTextTransform: keyword("none", "uppercase", "lowercase", "capitalize"),
		pr.PWhiteSpace:    keyword("normal", "pre", "nowrap", "pre-wrap", "pre-line"),
		pr.PVerticalAlign: verticalAlign,
		pr.PLang:          lang,

		pr.PContent:          content,
		pr.PQuotes:           quotes,
		pr.PCounterReset:     counter(0),
		pr.PCounterIncrement: counter(1),
		pr.PCounterSet:       counter(0),
		pr.PListStyleType:    listStyleType,

		pr.PBreakBefore: keyword("auto", "avoid", "avoid-page", "page", "left", "right", "recto", "verso"),
		pr.PBreakAfter:  keyword("auto", "avoid", "avoid-page", "page", "left", "right", "recto", "verso"),
		pr.PBreakInside: keyword("auto", "avoid", "avoid-page"),
		pr.POrphans:     positiveInteger,
		pr.PWidows:      positiveInteger,
		pr.PSize:        size,
	}
)

type validator func(tokens []Token) pr.CssProperty

// ValidatedDeclaration is one longhand property,
// with its value ready for the cascade.
type ValidatedDeclaration struct {
	Key   pr.KnownProp
	Value pr.CascadedProperty
}

// ValidateString tokenizes `value` and calls [Validate].
func ValidateString(name, value string) ([]ValidatedDeclaration, error) {
	return Validate(name, pa.Tokenize(value))
}

// Validate expands shorthands and validates the value of the
// property `name`, returning one or more longhand declarations.
// An error wrapping [ErrUnknownProperty] or [ErrInvalidValue] is returned
// when the declaration should be ignored.
func Validate(name string, tokens []Token) ([]ValidatedDeclaration, error) {
	name = strings.ToLower(name)
	tokens = pa.RemoveWhitespace(tokens)
	if len(tokens) == 0 {
		return nil, fmt.Errorf("%s: empty value: %w", name, ErrInvalidValue)
	}

	if expander, ok := expanders[name]; ok {
		longhands := expander.longhands
		if kw := getSingleKeyword(tokens); kw == "inherit" || kw == "initial" {
			return defaults(longhands, kw), nil
		}
		out, err := expander.expand(tokens)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		return out, nil
	}

	key, ok := pr.PropsFromNames[name]
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, ErrUnknownProperty)
	}
	if kw := getSingleKeyword(tokens); kw == "inherit" || kw == "initial" {
		return defaults([]pr.KnownProp{key}, kw), nil
	}
	value, err := validateNonShorthand(key, tokens)
	if err != nil {
		return nil, err
	}
	return []ValidatedDeclaration{{Key: key, Value: pr.AsCascaded(value)}}, nil
}

func defaults(keys []pr.KnownProp, kw string) []ValidatedDeclaration {
	d := pr.Inherit
	if kw == "initial" {
		d = pr.Initial
	}
	out := make([]ValidatedDeclaration, len(keys))
	for i, k := range keys {
		out[i] = ValidatedDeclaration{Key: k, Value: pr.CascadedProperty{Default: d}}
	}
	return out
}

func validateNonShorthand(key pr.KnownProp, tokens []Token) (pr.CssProperty, error) {
	fn := validators[key]
	if fn == nil {
		return nil, fmt.Errorf("%s: %w", key, ErrUnknownProperty)
	}
	value := fn(tokens)
	if value == nil {
		return nil, fmt.Errorf("%s: %s: %w", key, pa.Serialize(tokens), ErrInvalidValue)
	}
	return value, nil
}

// ---------------------------- helpers ----------------------------

func getKeyword(token Token) string {
	if ident, ok := token.(pa.Ident); ok {
		return strings.ToLower(string(ident))
	}
	return ""
}

// If `tokens` is a 1-element list of keywords, return its name.
func getSingleKeyword(tokens []Token) string {
	if len(tokens) == 1 {
		return getKeyword(tokens[0])
	}
	return ""
}

// Parse a <length> token, returning the zero value if invalid.
func getLength(token Token, negative, percentage bool) pr.Dimension {
	switch token := token.(type) {
	case pa.Percentage:
		if percentage && (negative || token.Value >= 0) {
			return pr.Dimension{Value: pr.Float(token.Value), Unit: pr.Perc}
		}
	case pa.Dimension:
		unit, isKnown := LengthUnits[token.Unit]
		if isKnown && (negative || token.Value >= 0) {
			return pr.Dimension{Value: pr.Float(token.Value), Unit: unit}
		}
	case pa.Number:
		if token.Value == 0 {
			return pr.Dimension{Unit: pr.Scalar}
		}
	}
	return pr.Dimension{}
}

func keyword(values ...string) validator {
	set := utils.NewSet(values...)
	return func(tokens []Token) pr.CssProperty {
		if kw := getSingleKeyword(tokens); set.Has(kw) {
			return pr.String(kw)
		}
		return nil
	}
}

func lengthPercentageOrAuto(negative bool) validator {
	return func(tokens []Token) pr.CssProperty {
		if len(tokens) != 1 {
			return nil
		}
		if getKeyword(tokens[0]) == "auto" {
			return pr.SToV("auto")
		}
		if l := getLength(tokens[0], negative, true); l.Unit != 0 {
			return l.ToValue()
		}
		return nil
	}
}

func lengthOrPercentage(negative bool) validator {
	return func(tokens []Token) pr.CssProperty {
		if len(tokens) != 1 {
			return nil
		}
		if l := getLength(tokens[0], negative, true); l.Unit != 0 {
			return l.ToValue()
		}
		return nil
	}
}

func minWidthHeight(tokens []Token) pr.CssProperty {
	if getSingleKeyword(tokens) == "auto" {
		return pr.FToPx(0)
	}
	return lengthOrPercentage(false)(tokens)
}

func maxWidthHeight(tokens []Token) pr.CssProperty {
	if getSingleKeyword(tokens) == "none" {
		return pr.FToPx(pr.Inf)
	}
	return lengthOrPercentage(false)(tokens)
}

// color validates the `color` property: currentColor means inherit.
func color(tokens []Token) pr.CssProperty {
	if len(tokens) != 1 {
		return nil
	}
	c := pa.ParseColor(tokens[0])
	if c.Type == pa.ColorInvalid {
		return nil
	}
	return pr.Color(c)
}

// otherColors validates border and background colors.
func otherColors(tokens []Token) pr.CssProperty {
	return color(tokens)
}

func borderStyle(tokens []Token) pr.CssProperty {
	return keyword("none", "hidden", "dotted", "dashed", "double", "inset", "outset", "groove", "ridge", "solid")(tokens)
}

var borderWidthKeywords = map[string]pr.Float{"thin": 1, "medium": 3, "thick": 5}

func borderWidth(tokens []Token) pr.CssProperty {
	if len(tokens) != 1 {
		return nil
	}
	if w, ok := borderWidthKeywords[getKeyword(tokens[0])]; ok {
		return pr.FToPx(w)
	}
	if l := getLength(tokens[0], false, false); l.Unit != 0 {
		return l.ToValue()
	}
	return nil
}

// fontFamily accepts a comma separated list of
// strings or sequences of identifiers.
func fontFamily(tokens []Token) pr.CssProperty {
	var out pr.Strings
	var current []string
	flush := func() bool {
		if len(current) == 0 {
			return false
		}
		out = append(out, strings.Join(current, " "))
		current = nil
		return true
	}
	for _, token := range tokens {
		switch token := token.(type) {
		case pa.String:
			if len(current) != 0 {
				return nil
			}
			current = []string{string(token)}
		case pa.Ident:
			current = append(current, string(token))
		case pa.Literal:
			if token != "," || !flush() {
				return nil
			}
		default:
			return nil
		}
	}
	if !flush() {
		return nil
	}
	return out
}

func fontSize(tokens []Token) pr.CssProperty {
	if len(tokens) != 1 {
		return nil
	}
	kw := getKeyword(tokens[0])
	if _, ok := pr.FontSizeKeywords[kw]; ok || kw == "larger" || kw == "smaller" {
		return pr.SToV(kw)
	}
	if l := getLength(tokens[0], false, true); l.Unit != 0 {
		return l.ToValue()
	}
	return nil
}

func fontWeight(tokens []Token) pr.CssProperty {
	if len(tokens) != 1 {
		return nil
	}
	switch kw := getKeyword(tokens[0]); kw {
	case "normal":
		return pr.Int(400)
	case "bold":
		return pr.Int(700)
	case "bolder", "lighter":
		return pr.String(kw)
	}
	if n, ok := tokens[0].(pa.Number); ok && n.IsInteger && n.Value >= 1 && n.Value <= 1000 {
		return pr.Int(int(n.Value))
	}
	return nil
}

func lineHeight(tokens []Token) pr.CssProperty {
	if len(tokens) != 1 {
		return nil
	}
	if getKeyword(tokens[0]) == "normal" {
		return pr.SToV("normal")
	}
	if n, ok := tokens[0].(pa.Number); ok && n.Value >= 0 {
		return pr.FToV(pr.Float(n.Value))
	}
	if l := getLength(tokens[0], false, true); l.Unit != 0 && l.Unit != pr.Scalar {
		return l.ToValue()
	}
	return nil
}

// spacing validates letter-spacing and word-spacing.
func spacing(tokens []Token) pr.CssProperty {
	if len(tokens) != 1 {
		return nil
	}
	if getKeyword(tokens[0]) == "normal" {
		return pr.SToV("normal")
	}
	if l := getLength(tokens[0], true, false); l.Unit != 0 {
		return l.ToValue()
	}
	return nil
}

var verticalAlignKeywords = utils.NewSet("baseline", "middle", "sub", "super", "text-top", "text-bottom", "top", "bottom")

func verticalAlign(tokens []Token) pr.CssProperty {
	if len(tokens) != 1 {
		return nil
	}
	if kw := getKeyword(tokens[0]); verticalAlignKeywords.Has(kw) {
		return pr.SToV(kw)
	}
	if l := getLength(tokens[0], true, true); l.Unit != 0 {
		return l.ToValue()
	}
	return nil
}

// lang accepts a language tag, as identifier or string,
// or `none`. It is normalized during computation.
func lang(tokens []Token) pr.CssProperty {
	if len(tokens) != 1 {
		return nil
	}
	switch token := tokens[0].(type) {
	case pa.Ident:
		if strings.EqualFold(string(token), "none") {
			return pr.String("")
		}
		return pr.String(token)
	case pa.String:
		return pr.String(token)
	}
	return nil
}

func content(tokens []Token) pr.CssProperty {
	if kw := getSingleKeyword(tokens); kw == "normal" || kw == "none" {
		return pr.SContent{String: kw}
	}
	var out pr.ContentProperties
	for _, token := range tokens {
		item, ok := contentItem(token)
		if !ok {
			return nil
		}
		out = append(out, item)
	}
	return pr.SContent{Contents: out}
}

func contentItem(token Token) (pr.ContentProperty, bool) {
	switch token := token.(type) {
	case pa.String:
		return pr.ContentProperty{Type: "string", String: string(token)}, true
	case pa.URL:
		return pr.ContentProperty{Type: "url", String: string(token)}, true
	case pa.Ident:
		if kw := getKeyword(token); contentQuoteKeywords.Has(kw) {
			return pr.ContentProperty{Type: kw}, true
		}
	case pa.FunctionBlock:
		args := functionArgs(token.Arguments)
		switch token.Name {
		case "attr":
			if len(args) == 1 {
				if name := getKeyword(args[0]); name != "" {
					return pr.ContentProperty{Type: "attr", String: name}, true
				}
			}
		case "counter":
			if len(args) == 1 || len(args) == 2 {
				name, _ := args[0].(pa.Ident)
				style := "decimal"
				if len(args) == 2 {
					style = getKeyword(args[1])
				}
				if name != "" && CounterStyles.Has(style) {
					return pr.ContentProperty{Type: "counter", String: string(name), Style: style}, true
				}
			}
		case "counters":
			if len(args) == 2 || len(args) == 3 {
				name, _ := args[0].(pa.Ident)
				sep, isString := args[1].(pa.String)
				style := "decimal"
				if len(args) == 3 {
					style = getKeyword(args[2])
				}
				if name != "" && isString && CounterStyles.Has(style) {
					return pr.ContentProperty{Type: "counters", String: string(name), Separator: string(sep), Style: style}, true
				}
			}
		case "url":
			if len(args) == 1 {
				if s, ok := args[0].(pa.String); ok {
					return pr.ContentProperty{Type: "url", String: string(s)}, true
				}
			}
		}
	}
	return pr.ContentProperty{}, false
}

// functionArgs removes whitespace and comma separators.
// It returns nil if two arguments are not separated by a comma.
func functionArgs(tokens []Token) []Token {
	var out []Token
	expectComma := false
	for _, t := range pa.RemoveWhitespace(tokens) {
		if t == pa.Literal(",") {
			if !expectComma {
				return nil
			}
			expectComma = false
			continue
		}
		if expectComma {
			return nil
		}
		out = append(out, t)
		expectComma = true
	}
	return out
}

func quotes(tokens []Token) pr.CssProperty {
	if getSingleKeyword(tokens) == "none" {
		return pr.Quotes{}
	}
	if len(tokens) == 0 || len(tokens)%2 != 0 {
		return nil
	}
	var out pr.Quotes
	for i := 0; i < len(tokens); i += 2 {
		open, ok1 := tokens[i].(pa.String)
		cl, ok2 := tokens[i+1].(pa.String)
		if !ok1 || !ok2 {
			return nil
		}
		out.Open = append(out.Open, string(open))
		out.Close = append(out.Close, string(cl))
	}
	return out
}

// counter validates counter-reset, counter-set and counter-increment,
// with the given default integer.
func counter(defaultValue int) validator {
	return func(tokens []Token) pr.CssProperty {
		if getSingleKeyword(tokens) == "none" {
			return pr.SIntStrings{String: "none"}
		}
		var out pr.IntStrings
		for i := 0; i < len(tokens); i++ {
			name, ok := tokens[i].(pa.Ident)
			if !ok {
				return nil
			}
			switch kw := getKeyword(name); kw {
			case "none", "initial", "inherit":
				return nil
			}
			value := defaultValue
			if i+1 < len(tokens) {
				if n, ok := tokens[i+1].(pa.Number); ok {
					if !n.IsInteger {
						return nil
					}
					value = int(n.Value)
					i++
				}
			}
			out = append(out, pr.IntString{Name: string(name), Int: value})
		}
		return pr.SIntStrings{Values: out}
	}
}

func listStyleType(tokens []Token) pr.CssProperty {
	if kw := getSingleKeyword(tokens); CounterStyles.Has(kw) {
		return pr.String(kw)
	}
	return nil
}

func positiveInteger(tokens []Token) pr.CssProperty {
	if len(tokens) != 1 {
		return nil
	}
	if n, ok := tokens[0].(pa.Number); ok && n.IsInteger && n.Value >= 1 {
		return pr.Int(int(n.Value))
	}
	return nil
}

// size validates the `size` page property.
// See https://www.w3.org/TR/css-page-3/#page-size-prop
func size(tokens []Token) pr.CssProperty {
	var lengths []pr.Dimension
	for _, token := range tokens {
		if l := getLength(token, false, false); l.Unit != 0 && l.Unit != pr.Scalar {
			lengths = append(lengths, l)
		}
	}
	if len(lengths) == len(tokens) {
		switch len(lengths) {
		case 1:
			return pr.Point{lengths[0], lengths[0]}
		case 2:
			return pr.Point{lengths[0], lengths[1]}
		}
	}

	var (
		pageSize    = pr.A4
		hasSize     bool
		orientation string
	)
	if len(tokens) > 2 {
		return nil
	}
	for _, token := range tokens {
		kw := getKeyword(token)
		if kw == "auto" && len(tokens) == 1 {
			return pr.A4
		}
		if s, ok := pr.PageSizes[kw]; ok && !hasSize {
			pageSize, hasSize = s, true
		} else if (kw == "portrait" || kw == "landscape") && orientation == "" {
			orientation = kw
		} else {
			return nil
		}
	}
	if orientation == "landscape" {
		return pr.Point{pageSize[1], pageSize[0]}
	}
	return pageSize
}

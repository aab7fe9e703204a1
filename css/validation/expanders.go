package validation

import (
	"errors"
	"fmt"

	pa "github.com/benoitkugler/printlayout/css/parser"
	pr "github.com/benoitkugler/printlayout/css/properties"
)

// expander validates a shorthand property
// and returns the longhand declarations.
type expander struct {
	longhands []pr.KnownProp
	expand    func(tokens []Token) ([]ValidatedDeclaration, error)
}

var expanders = map[string]expander{}

func init() {
	fourSides := func(top pr.KnownProp) expander {
		longhands := []pr.KnownProp{top.Side(0), top.Side(1), top.Side(2), top.Side(3)}
		return expander{longhands: longhands, expand: func(tokens []Token) ([]ValidatedDeclaration, error) {
			return expandFourSides(longhands, tokens)
		}}
	}
	expanders["margin"] = fourSides(pr.PMarginTop)
	expanders["padding"] = fourSides(pr.PPaddingTop)
	expanders["border-color"] = fourSides(pr.PBorderTopColor)
	expanders["border-style"] = fourSides(pr.PBorderTopStyle)
	expanders["border-width"] = fourSides(pr.PBorderTopWidth)

	for side, name := range [4]string{"border-top", "border-right", "border-bottom", "border-left"} {
		side := side
		expanders[name] = expander{
			longhands: []pr.KnownProp{pr.PBorderTopWidth.Side(side), pr.PBorderTopStyle.Side(side), pr.PBorderTopColor.Side(side)},
			expand: func(tokens []Token) ([]ValidatedDeclaration, error) {
				return expandBorderSide(side, tokens)
			},
		}
	}
	var allBorders []pr.KnownProp
	for side := 0; side < 4; side++ {
		allBorders = append(allBorders, pr.PBorderTopWidth.Side(side), pr.PBorderTopStyle.Side(side), pr.PBorderTopColor.Side(side))
	}
	expanders["border"] = expander{longhands: allBorders, expand: expandBorder}

	expanders["page-break-before"] = expander{longhands: []pr.KnownProp{pr.PBreakBefore}, expand: legacyPageBreak(pr.PBreakBefore)}
	expanders["page-break-after"] = expander{longhands: []pr.KnownProp{pr.PBreakAfter}, expand: legacyPageBreak(pr.PBreakAfter)}
	expanders["page-break-inside"] = expander{longhands: []pr.KnownProp{pr.PBreakInside}, expand: legacyPageBreak(pr.PBreakInside)}

	expanders["background"] = expander{longhands: []pr.KnownProp{pr.PBackgroundColor}, expand: expandBackground}
	expanders["list-style"] = expander{longhands: []pr.KnownProp{pr.PListStyleType}, expand: expandListStyle}
}

// Expand properties setting a token for the four sides of a box.
func expandFourSides(longhands []pr.KnownProp, tokens []Token) ([]ValidatedDeclaration, error) {
	// Make sure we have 4 tokens
	switch len(tokens) {
	case 1:
		tokens = []Token{tokens[0], tokens[0], tokens[0], tokens[0]}
	case 2:
		tokens = []Token{tokens[0], tokens[1], tokens[0], tokens[1]} // (bottom, left) defaults to (top, right)
	case 3:
		tokens = append(tokens, tokens[1]) // left defaults to right
	case 4:
	default:
		return nil, fmt.Errorf("expected 1 to 4 token components got %d: %w", len(tokens), ErrInvalidValue)
	}
	out := make([]ValidatedDeclaration, 4)
	for i, key := range longhands {
		value, err := validateNonShorthand(key, []Token{tokens[i]})
		if err != nil {
			return nil, err
		}
		out[i] = ValidatedDeclaration{Key: key, Value: pr.AsCascaded(value)}
	}
	return out, nil
}

// Expand the `border-*` shorthand properties: width, style and color
// in any order, missing values being reset to their initial value.
// See http://www.w3.org/TR/CSS21/box.html#propdef-border-top
func expandBorderSide(side int, tokens []Token) ([]ValidatedDeclaration, error) {
	var width, style, color pr.CssProperty
	for _, token := range tokens {
		single := []Token{token}
		if c := pa.ParseColor(token); c.Type != pa.ColorInvalid && color == nil {
			color = pr.Color(c)
		} else if w := borderWidth(single); w != nil && width == nil {
			width = w
		} else if s := borderStyle(single); s != nil && style == nil {
			style = s
		} else {
			return nil, ErrInvalidValue
		}
	}
	keys := [3]pr.KnownProp{pr.PBorderTopWidth.Side(side), pr.PBorderTopStyle.Side(side), pr.PBorderTopColor.Side(side)}
	out := make([]ValidatedDeclaration, 3)
	for i, v := range [3]pr.CssProperty{width, style, color} {
		if v == nil {
			out[i] = ValidatedDeclaration{Key: keys[i], Value: pr.CascadedProperty{Default: pr.Initial}}
		} else {
			out[i] = ValidatedDeclaration{Key: keys[i], Value: pr.AsCascaded(v)}
		}
	}
	return out, nil
}

func expandBorder(tokens []Token) ([]ValidatedDeclaration, error) {
	var out []ValidatedDeclaration
	for side := 0; side < 4; side++ {
		props, err := expandBorderSide(side, tokens)
		if err != nil {
			return nil, err
		}
		out = append(out, props...)
	}
	return out, nil
}

// legacyPageBreak maps the CSS 2 `page-break-*` values
// to the `break-*` properties.
func legacyPageBreak(key pr.KnownProp) func(tokens []Token) ([]ValidatedDeclaration, error) {
	return func(tokens []Token) ([]ValidatedDeclaration, error) {
		kw := getSingleKeyword(tokens)
		switch kw {
		case "auto", "avoid":
		case "always":
			kw = "page"
		case "left", "right":
			if key == pr.PBreakInside {
				return nil, ErrInvalidValue
			}
		default:
			return nil, ErrInvalidValue
		}
		return []ValidatedDeclaration{{Key: key, Value: pr.AsCascaded(pr.String(kw))}}, nil
	}
}

var errUnsupportedBackground = errors.New("only colors are supported in the background shorthand")

// expandBackground only supports a single color layer.
func expandBackground(tokens []Token) ([]ValidatedDeclaration, error) {
	if getSingleKeyword(tokens) == "none" {
		return []ValidatedDeclaration{{Key: pr.PBackgroundColor, Value: pr.CascadedProperty{Default: pr.Initial}}}, nil
	}
	c := otherColors(tokens)
	if c == nil {
		return nil, fmt.Errorf("%w: %w", errUnsupportedBackground, ErrInvalidValue)
	}
	return []ValidatedDeclaration{{Key: pr.PBackgroundColor, Value: pr.AsCascaded(c)}}, nil
}

// expandListStyle only supports the type component.
func expandListStyle(tokens []Token) ([]ValidatedDeclaration, error) {
	for _, token := range tokens {
		if v := listStyleType([]Token{token}); v != nil {
			return []ValidatedDeclaration{{Key: pr.PListStyleType, Value: pr.AsCascaded(v)}}, nil
		}
	}
	return nil, ErrInvalidValue
}

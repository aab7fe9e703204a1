package tree

import (
	"github.com/benoitkugler/textlayout/language"

	pa "github.com/benoitkugler/printlayout/css/parser"
	pr "github.com/benoitkugler/printlayout/css/properties"
	"github.com/benoitkugler/printlayout/logger"
)

// Convert *specified* property values (the result of the cascade and
// inheritance) into *computed* values (that are inherited).

type computerFunc = func(computer *ComputedStyle, name pr.KnownProp, value pr.CssProperty) pr.CssProperty

var (
	// http://www.w3.org/TR/CSS21/fonts.html#propdef-font-weight
	fontWeightRelative = struct {
		bolder, lighter map[int]int
	}{
		bolder: map[int]int{
			100: 400,
			200: 400,
			300: 400,
			400: 700,
			500: 700,
			600: 900,
			700: 900,
			800: 900,
			900: 900,
		},
		lighter: map[int]int{
			100: 100,
			200: 100,
			300: 100,
			400: 100,
			500: 100,
			600: 400,
			700: 400,
			800: 700,
			900: 700,
		},
	}

	computerFunctions [pr.NbProperties]computerFunc

	// computeOrder lists the properties so that the
	// dependencies of a property are computed before it.
	computeOrder []pr.KnownProp
)

func init() {
	for _, key := range []pr.KnownProp{
		pr.PTop, pr.PRight, pr.PBottom, pr.PLeft,
		pr.PWidth, pr.PHeight, pr.PMinWidth, pr.PMinHeight, pr.PMaxWidth, pr.PMaxHeight,
		pr.PMarginTop, pr.PMarginRight, pr.PMarginBottom, pr.PMarginLeft,
		pr.PPaddingTop, pr.PPaddingRight, pr.PPaddingBottom, pr.PPaddingLeft,
		pr.PTextIndent,
	} {
		computerFunctions[key] = length
	}
	for side := 0; side < 4; side++ {
		computerFunctions[pr.PBorderTopWidth.Side(side)] = borderWidth
		computerFunctions[pr.PBorderTopColor.Side(side)] = borderColor
	}
	computerFunctions[pr.PDisplay] = display
	computerFunctions[pr.PFloat] = floating
	computerFunctions[pr.PColor] = color
	computerFunctions[pr.PFontSize] = fontSize
	computerFunctions[pr.PFontWeight] = fontWeight
	computerFunctions[pr.PLineHeight] = lineHeight
	computerFunctions[pr.PLetterSpacing] = spacing
	computerFunctions[pr.PWordSpacing] = spacing
	computerFunctions[pr.PVerticalAlign] = verticalAlign
	computerFunctions[pr.PLang] = lang
	computerFunctions[pr.PContent] = content
	computerFunctions[pr.PSize] = size

	first := []pr.KnownProp{
		pr.PFontSize, pr.PLineHeight, pr.PColor, pr.PPosition, pr.PFloat,
		pr.PBorderTopStyle, pr.PBorderRightStyle, pr.PBorderBottomStyle, pr.PBorderLeftStyle,
	}
	var done pr.SetK
	for _, key := range first {
		computeOrder = append(computeOrder, key)
		done[key] = true
	}
	for key := pr.KnownProp(0); key < pr.NbProperties; key++ {
		if !done.Has(key) {
			computeOrder = append(computeOrder, key)
		}
	}
}

// length2 converts `value` to pixels, leaving percentages and keywords unchanged.
// `fontSize` is the reference for em units, or -1 to use the
// font size of the element.
func length2(computer *ComputedStyle, value pr.DimOrS, fontSize pr.Float) pr.DimOrS {
	if value.S != "" {
		return value
	}
	switch value.Unit {
	case pr.Px, pr.Perc:
		return value
	case pr.Scalar: // unitless zero
		return pr.FToPx(value.Value)
	}
	if fontSize < 0 {
		fontSize = computer.GetFontSize().Value
	}
	var result pr.Float
	switch value.Unit {
	case pr.Em:
		result = value.Value * fontSize
	case pr.Ex, pr.Ch:
		// without font metrics, the x-height and the width
		// of "0" are approximated by half an em
		result = value.Value * fontSize * 0.5
	case pr.Rem:
		result = value.Value * computer.rootFontSize
	default:
		factor, ok := pr.LengthsToPixels[value.Unit]
		if !ok {
			logger.WarningLogger.Printf("Unsupported unit %s, using pixels", value.Unit)
			factor = 1
		}
		result = value.Value * factor
	}
	return pr.FToPx(result)
}

func length(computer *ComputedStyle, _ pr.KnownProp, _value pr.CssProperty) pr.CssProperty {
	return length2(computer, _value.(pr.DimOrS), -1)
}

// Compute the “border-*-width“ properties.
func borderWidth(computer *ComputedStyle, name pr.KnownProp, _value pr.CssProperty) pr.CssProperty {
	// the style is at -1 from the width in the property list
	style := computer.Properties[name-1].(pr.String)
	if style == "none" || style == "hidden" {
		return pr.FToPx(0)
	}
	return length2(computer, _value.(pr.DimOrS), -1)
}

// Compute the “border-*-color“ properties.
func borderColor(computer *ComputedStyle, _ pr.KnownProp, _value pr.CssProperty) pr.CssProperty {
	if value := _value.(pr.Color); value.Type == pa.ColorCurrentColor {
		return computer.GetColor()
	}
	return _value
}

// Compute the “color“ property.
func color(computer *ComputedStyle, _ pr.KnownProp, _value pr.CssProperty) pr.CssProperty {
	value := _value.(pr.Color)
	if value.Type != pa.ColorCurrentColor {
		return value
	}
	if computer.parentStyle != nil {
		return computer.parentStyle.GetColor()
	}
	return pr.InitialValues.GetColor()
}

// Compute the “display“ property.
// See https://www.w3.org/TR/CSS21/visuren.html#dis-pos-flo
func display(computer *ComputedStyle, _ pr.KnownProp, _value pr.CssProperty) pr.CssProperty {
	value := _value.(pr.String)
	position := computer.GetPosition()
	if position == "absolute" || position == "fixed" || computer.GetFloat() != "none" || computer.isRootElement() {
		if value == "inline" || value == "inline-block" {
			return pr.String("block")
		}
	}
	return value
}

// Compute the “float“ property.
func floating(computer *ComputedStyle, _ pr.KnownProp, _value pr.CssProperty) pr.CssProperty {
	if position := computer.GetPosition(); position == "absolute" || position == "fixed" {
		return pr.String("none")
	}
	return _value
}

func parentFontSize(computer *ComputedStyle) pr.Float {
	if computer.parentStyle != nil {
		return computer.parentStyle.GetFontSize().Value
	}
	return pr.InitialValues.GetFontSize().Value
}

// Compute the “font-size“ property.
func fontSize(computer *ComputedStyle, _ pr.KnownProp, _value pr.CssProperty) pr.CssProperty {
	value := _value.(pr.DimOrS)
	if fs, in := pr.FontSizeKeywords[value.S]; in {
		return pr.FToPx(fs)
	}
	parentSize := parentFontSize(computer)
	switch value.S {
	case "larger":
		return pr.FToPx(parentSize * 1.2)
	case "smaller":
		return pr.FToPx(parentSize / 1.2)
	}
	if value.Unit == pr.Perc {
		return pr.FToPx(value.Value * parentSize / 100)
	}
	// em units are relative to the parent font size
	return length2(computer, value, parentSize)
}

// Compute the “font-weight“ property.
func fontWeight(computer *ComputedStyle, _ pr.KnownProp, _value pr.CssProperty) pr.CssProperty {
	value, ok := _value.(pr.String)
	if !ok {
		return _value
	}
	parentValue := 400
	if computer.parentStyle != nil {
		parentValue = int(computer.parentStyle.GetFontWeight())
	}
	// round to the nearest weight of the table
	parentValue = (parentValue + 50) / 100 * 100
	if parentValue < 100 {
		parentValue = 100
	} else if parentValue > 900 {
		parentValue = 900
	}
	if value == "bolder" {
		return pr.Int(fontWeightRelative.bolder[parentValue])
	}
	return pr.Int(fontWeightRelative.lighter[parentValue])
}

// Compute the “line-height“ property.
// Numbers are kept so that they are inherited as such.
func lineHeight(computer *ComputedStyle, _ pr.KnownProp, _value pr.CssProperty) pr.CssProperty {
	value := _value.(pr.DimOrS)
	if value.S == "normal" || value.Unit == pr.Scalar {
		return value
	}
	if value.Unit == pr.Perc {
		return pr.FToPx(value.Value * computer.GetFontSize().Value / 100)
	}
	return length2(computer, value, -1)
}

// Compute the “letter-spacing“ and “word-spacing“ properties.
func spacing(computer *ComputedStyle, _ pr.KnownProp, _value pr.CssProperty) pr.CssProperty {
	value := _value.(pr.DimOrS)
	if value.S == "normal" {
		return value
	}
	return length2(computer, value, -1)
}

// UsedLineHeight returns the line height in pixels.
// `normal` is taken to be 1.2 times the font size.
func UsedLineHeight(style pr.ElementStyle) pr.Float {
	value, fs := style.GetLineHeight(), style.GetFontSize().Value
	switch {
	case value.S == "normal":
		return 1.2 * fs
	case value.Unit == pr.Scalar:
		return value.Value * fs
	default:
		return value.Value
	}
}

// Compute the “vertical-align“ property.
func verticalAlign(computer *ComputedStyle, _ pr.KnownProp, _value pr.CssProperty) pr.CssProperty {
	value := _value.(pr.DimOrS)
	// Use +/- half an em for super and sub.
	switch value.S {
	case "super":
		return pr.FToPx(computer.GetFontSize().Value * 0.5)
	case "sub":
		return pr.FToPx(computer.GetFontSize().Value * -0.5)
	case "":
	default:
		return value
	}
	if value.Unit == pr.Perc {
		return pr.FToPx(UsedLineHeight(computer) * value.Value / 100)
	}
	return length2(computer, value, -1)
}

// Compute the “lang“ property, normalizing the language tag.
func lang(_ *ComputedStyle, _ pr.KnownProp, _value pr.CssProperty) pr.CssProperty {
	value := _value.(pr.String)
	if value == "" {
		return value
	}
	return pr.String(language.NewLanguage(string(value)))
}

// Compute the “content“ property, resolving attr() references.
func content(computer *ComputedStyle, _ pr.KnownProp, _value pr.CssProperty) pr.CssProperty {
	value := _value.(pr.SContent)
	if value.String != "" {
		return value
	}
	out := make(pr.ContentProperties, len(value.Contents))
	for i, item := range value.Contents {
		if item.Type == "attr" {
			attr, _ := computer.element.Attr(item.String)
			item = pr.ContentProperty{Type: "string", String: attr}
		}
		out[i] = item
	}
	return pr.SContent{Contents: out}
}

// Compute the “size“ property, converting it to pixels.
func size(computer *ComputedStyle, _ pr.KnownProp, _value pr.CssProperty) pr.CssProperty {
	value := _value.(pr.Point)
	var out pr.Point
	for i, d := range value {
		out[i] = length2(computer, d.ToValue(), -1).Dimension
	}
	return out
}

package layout

import (
	pr "github.com/benoitkugler/printlayout/css/properties"
)

// Resolve percentages into fixed values.

// usedValues stores the used values which may still be "auto".
// Paddings and borders, which are never "auto", are
// directly set on the fragment.
type usedValues struct {
	marginTop, marginRight, marginBottom, marginLeft pr.MaybeFloat
	width, height                                    pr.MaybeFloat
	minWidth, maxWidth, minHeight, maxHeight         pr.Float
}

// Compute a used length value from a computed length value.
// `referTo` may be auto, in which case percentages resolve to auto.
func resolveOnePercentage(value pr.DimOrS, referTo pr.MaybeFloat) pr.MaybeFloat {
	switch value.S {
	case "auto":
		return pr.AutoF
	case "none":
		return pr.Inf
	case "":
	default:
		// other keywords are not lengths
		return pr.AutoF
	}
	if value.Unit == pr.Perc {
		if referTo == pr.AutoF {
			return pr.AutoF
		}
		return value.Value * referTo.V() / 100
	}
	return value.Value
}

// orDefault replaces auto by `d`
func orDefault(v pr.MaybeFloat, d pr.Float) pr.Float {
	if v == pr.AutoF {
		return d
	}
	return v.V()
}

// resolvePercentages sets the paddings and borders of `f`, and returns the
// other used values, resolved against the containing block dimensions.
// `cbHeight` is auto when the height of the containing block depends on its content.
func resolvePercentages(f *Fragment, cbWidth pr.Float, cbHeight pr.MaybeFloat) usedValues {
	style := f.Style
	var out usedValues

	// margins and paddings always refer to the width
	out.marginLeft = resolveOnePercentage(style.GetMarginLeft(), cbWidth)
	out.marginRight = resolveOnePercentage(style.GetMarginRight(), cbWidth)
	out.marginTop = resolveOnePercentage(style.GetMarginTop(), cbWidth)
	out.marginBottom = resolveOnePercentage(style.GetMarginBottom(), cbWidth)
	f.PaddingLeft = orDefault(resolveOnePercentage(style.GetPaddingLeft(), cbWidth), 0)
	f.PaddingRight = orDefault(resolveOnePercentage(style.GetPaddingRight(), cbWidth), 0)
	f.PaddingTop = orDefault(resolveOnePercentage(style.GetPaddingTop(), cbWidth), 0)
	f.PaddingBottom = orDefault(resolveOnePercentage(style.GetPaddingBottom(), cbWidth), 0)

	out.width = resolveOnePercentage(style.GetWidth(), cbWidth)
	out.minWidth = orDefault(resolveOnePercentage(style.GetMinWidth(), cbWidth), 0)
	out.maxWidth = orDefault(resolveOnePercentage(style.GetMaxWidth(), cbWidth), pr.Inf)

	out.height = resolveOnePercentage(style.GetHeight(), cbHeight)
	out.minHeight = orDefault(resolveOnePercentage(style.GetMinHeight(), cbHeight), 0)
	out.maxHeight = orDefault(resolveOnePercentage(style.GetMaxHeight(), cbHeight), pr.Inf)

	// Used value == computed value
	f.BorderTopWidth = style.GetBorderTopWidth().Value
	f.BorderRightWidth = style.GetBorderRightWidth().Value
	f.BorderBottomWidth = style.GetBorderBottomWidth().Value
	f.BorderLeftWidth = style.GetBorderLeftWidth().Value

	// Shrink *content* widths and heights according to box-sizing
	if style.GetBoxSizing() == "border-box" {
		horizontalDelta := f.PaddingLeft + f.PaddingRight + f.BorderLeftWidth + f.BorderRightWidth
		verticalDelta := f.PaddingTop + f.PaddingBottom + f.BorderTopWidth + f.BorderBottomWidth
		// Keep at least min* >= 0 to prevent funny output in case width or
		// height become negative.
		if out.width != pr.AutoF {
			out.width = pr.Max(0, out.width.V()-horizontalDelta)
		}
		out.maxWidth = pr.Max(0, out.maxWidth-horizontalDelta)
		out.minWidth = pr.Max(0, out.minWidth-horizontalDelta)
		if out.height != pr.AutoF {
			out.height = pr.Max(0, out.height.V()-verticalDelta)
		}
		out.maxHeight = pr.Max(0, out.maxHeight-verticalDelta)
		out.minHeight = pr.Max(0, out.minHeight-verticalDelta)
	}
	return out
}

// insets are the used values of top, right, bottom and left,
// for positioned boxes.
type insets struct {
	top, right, bottom, left pr.MaybeFloat
}

func resolvePositionPercentages(f *Fragment, cbWidth pr.Float, cbHeight pr.MaybeFloat) insets {
	return insets{
		left:   resolveOnePercentage(f.Style.GetLeft(), cbWidth),
		right:  resolveOnePercentage(f.Style.GetRight(), cbWidth),
		top:    resolveOnePercentage(f.Style.GetTop(), cbHeight),
		bottom: resolveOnePercentage(f.Style.GetBottom(), cbHeight),
	}
}

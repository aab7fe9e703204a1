package layout

import (
	pr "github.com/benoitkugler/printlayout/css/properties"
)

// replacedSize returns the used width and height of a replaced fragment,
// from its intrinsic dimensions and the constraints in `used`.
//
// See https://www.w3.org/TR/CSS21/visudet.html#inline-replaced-width
// and https://www.w3.org/TR/CSS21/visudet.html#min-max-widths
func replacedSize(f *Fragment, used usedValues) (width, height pr.Float) {
	var intrinsicWidth, intrinsicHeight pr.Float
	if f.Image != nil {
		intrinsicWidth, intrinsicHeight = f.Image.GetIntrinsicSize()
	}
	var ratio pr.Float
	if intrinsicWidth > 0 && intrinsicHeight > 0 {
		ratio = intrinsicWidth / intrinsicHeight
	}

	bothAuto := used.width == pr.AutoF && used.height == pr.AutoF
	switch {
	case bothAuto:
		width, height = intrinsicWidth, intrinsicHeight
	case used.width == pr.AutoF:
		height = used.height.V()
		if ratio != 0 {
			width = height * ratio
		} else {
			width = intrinsicWidth
		}
	case used.height == pr.AutoF:
		width = used.width.V()
		if ratio != 0 {
			height = width / ratio
		} else {
			height = intrinsicHeight
		}
	default:
		width, height = used.width.V(), used.height.V()
	}

	clampWidth := func(w pr.Float) pr.Float { return pr.Max(pr.Min(w, used.maxWidth), used.minWidth) }
	clampHeight := func(h pr.Float) pr.Float { return pr.Max(pr.Min(h, used.maxHeight), used.minHeight) }
	if bothAuto && ratio != 0 {
		// keep the ratio when possible
		if w := clampWidth(width); w != width {
			width, height = w, w/ratio
		}
		if h := clampHeight(height); h != height {
			width, height = h*ratio, h
		}
	}
	return pr.Max(0, clampWidth(width)), pr.Max(0, clampHeight(height))
}

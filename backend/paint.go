package backend

import (
	"image/color"
	"math"

	pa "github.com/benoitkugler/printlayout/css/parser"
	pr "github.com/benoitkugler/printlayout/css/properties"
	"github.com/benoitkugler/printlayout/html/layout"
)

// Rectangle is an area of the page, with the origin
// at its top-left corner.
type Rectangle struct {
	X, Y, Width, Height Fl
}

// IsEmpty returns true if the rectangle has no area.
func (r Rectangle) IsEmpty() bool { return r.Width <= 0 || r.Height <= 0 }

// ToRGBA converts a computed color. The boolean is false
// for transparent or invalid colors, which are not painted.
func ToRGBA(c pr.Color) (color.NRGBA, bool) {
	if pa.Color(c).IsNone() || c.Type != pa.ColorRGBA {
		return color.NRGBA{}, false
	}
	channel := func(v float64) uint8 {
		return uint8(math.Round(math.Max(0, math.Min(1, v)) * 255))
	}
	return color.NRGBA{R: channel(c.RGBA.R), G: channel(c.RGBA.G), B: channel(c.RGBA.B), A: channel(c.RGBA.A)}, true
}

// IsVisible returns false for fragments with "visibility: hidden".
// Their children may still be visible.
func IsVisible(f *layout.Fragment) bool {
	if f.Style == nil {
		return true
	}
	v := f.Style.GetVisibility()
	return v != "hidden" && v != "collapse"
}

// BorderBox returns the border box of `f`.
func BorderBox(f *layout.Fragment) Rectangle {
	return Rectangle{X: Fl(f.BorderBoxX()), Y: Fl(f.BorderBoxY()), Width: Fl(f.BorderWidth()), Height: Fl(f.BorderHeight())}
}

// Background returns the area painted with the background color of `f`,
// which is its border box.
func Background(f *layout.Fragment) (Rectangle, color.NRGBA, bool) {
	if f.Kind == layout.LineFragment || f.Kind == layout.TextFragment || !IsVisible(f) {
		return Rectangle{}, color.NRGBA{}, false
	}
	c, ok := ToRGBA(f.Style.GetBackgroundColor())
	area := BorderBox(f)
	if !ok || area.IsEmpty() {
		return Rectangle{}, color.NRGBA{}, false
	}
	return area, c, true
}

// Side is one of the four sides of a box.
type Side uint8

const (
	Top Side = iota
	Right
	Bottom
	Left
)

// BorderEdge is one painted side of the border of a box.
type BorderEdge struct {
	Side  Side
	Area  Rectangle
	Color color.NRGBA
	// Style is the computed "border-*-style", one of solid, dashed,
	// dotted, double, ...
	Style string
}

// Width returns the thickness of the edge.
func (b BorderEdge) Width() Fl {
	if b.Side == Top || b.Side == Bottom {
		return b.Area.Height
	}
	return b.Area.Width
}

// Borders returns the visible edges of the border of `f`.
// Horizontal edges cover the corners.
func Borders(f *layout.Fragment) []BorderEdge {
	if f.Kind == layout.LineFragment || f.Kind == layout.TextFragment || !IsVisible(f) {
		return nil
	}
	box := BorderBox(f)
	top, right, bottom, left := Fl(f.BorderTopWidth), Fl(f.BorderRightWidth), Fl(f.BorderBottomWidth), Fl(f.BorderLeftWidth)
	style := f.Style
	candidates := [4]struct {
		area  Rectangle
		color pr.Color
		style pr.String
	}{
		{Rectangle{box.X, box.Y, box.Width, top}, style.GetBorderTopColor(), style.GetBorderTopStyle()},
		{Rectangle{box.X + box.Width - right, box.Y + top, right, box.Height - top - bottom}, style.GetBorderRightColor(), style.GetBorderRightStyle()},
		{Rectangle{box.X, box.Y + box.Height - bottom, box.Width, bottom}, style.GetBorderBottomColor(), style.GetBorderBottomStyle()},
		{Rectangle{box.X, box.Y + top, left, box.Height - top - bottom}, style.GetBorderLeftColor(), style.GetBorderLeftStyle()},
	}
	var out []BorderEdge
	for side, c := range candidates {
		if c.area.IsEmpty() || c.style == "none" || c.style == "hidden" {
			continue
		}
		col, ok := ToRGBA(c.color)
		if !ok {
			continue
		}
		out = append(out, BorderEdge{Side: Side(side), Area: c.area, Color: col, Style: string(c.style)})
	}
	return out
}

// ImageArea returns the content box of a replaced fragment,
// where its image is drawn.
func ImageArea(f *layout.Fragment) Rectangle {
	return Rectangle{X: Fl(f.ContentBoxX()), Y: Fl(f.ContentBoxY()), Width: Fl(f.Width), Height: Fl(f.Height)}
}

// Pieces returns the rectangles to fill to paint the edge :
// the whole edge for solid borders, two lines for double ones,
// and a sequence of segments for dashed and dotted ones.
func (b BorderEdge) Pieces() []Rectangle {
	horizontal := b.Side == Top || b.Side == Bottom
	switch b.Style {
	case "dashed", "dotted":
		segment := b.Width()
		if b.Style == "dashed" {
			segment *= 3
		}
		length := b.Area.Height
		if horizontal {
			length = b.Area.Width
		}
		var out []Rectangle
		for start := Fl(0); start < length; start += 2 * segment {
			dash := b.Area
			if horizontal {
				dash.X += start
				dash.Width = math.Min(segment, length-start)
			} else {
				dash.Y += start
				dash.Height = math.Min(segment, length-start)
			}
			out = append(out, dash)
		}
		return out
	case "double":
		third := b.Width() / 3
		first, second := b.Area, b.Area
		if horizontal {
			first.Height, second.Height = third, third
			second.Y += 2 * third
		} else {
			first.Width, second.Width = third, third
			second.X += 2 * third
		}
		return []Rectangle{first, second}
	default:
		return []Rectangle{b.Area}
	}
}

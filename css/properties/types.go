package properties

import (
	"fmt"
	"math"

	pa "github.com/benoitkugler/printlayout/css/parser"
)

type Float Fl

type Int int

// String is used for keyword values.
type String string

type Strings []string

// Intersects returns true if at least one value in [values]
// is also in the list.
func (ss Strings) Intersects(values ...string) bool {
	for _, v1 := range ss {
		for _, v2 := range values {
			if v1 == v2 {
				return true
			}
		}
	}
	return false
}

type Color pa.Color

// IsNone returns true for invalid or transparent colors.
func (c Color) IsNone() bool { return pa.Color(c).IsNone() }

type Unit uint8

const (
	_      Unit = iota
	Scalar      // means no unit, but a valid value
	Perc        // percentage (%)
	Ex
	Em
	Ch
	Rem
	Px
	Pt
	Pc
	In
	Cm
	Mm
	Q
)

func (u Unit) String() string {
	switch u {
	case Scalar:
		return ""
	case Perc:
		return "%"
	case Ex:
		return "ex"
	case Em:
		return "em"
	case Ch:
		return "ch"
	case Rem:
		return "rem"
	case Px:
		return "px"
	case Pt:
		return "pt"
	case Pc:
		return "pc"
	case In:
		return "in"
	case Cm:
		return "cm"
	case Mm:
		return "mm"
	case Q:
		return "q"
	default:
		return "<invalid unit>"
	}
}

// Dimension without unit is interpreted as float
type Dimension struct {
	Value Float
	Unit  Unit
}

func (d Dimension) String() string {
	return fmt.Sprintf("<%g %s>", d.Value, d.Unit)
}

// ToValue wraps the dimension in a [DimOrS].
func (d Dimension) ToValue() DimOrS { return DimOrS{Dimension: d} }

// DimOrS is either a keyword (like "auto" or "none"),
// or a dimension.
type DimOrS struct {
	S string
	Dimension
}

func (ds DimOrS) String() string {
	if ds.S != "" {
		return ds.S
	}
	return ds.Dimension.String()
}

// SToV returns a keyword value.
func SToV(s string) DimOrS { return DimOrS{S: s} }

// FToPx returns a length in pixels.
func FToPx(f Float) DimOrS { return DimOrS{Dimension: Dimension{Value: f, Unit: Px}} }

// FToV returns a number without unit.
func FToV(f Float) DimOrS { return DimOrS{Dimension: Dimension{Value: f, Unit: Scalar}} }

// PercToV returns a percentage.
func PercToV(f Float) DimOrS { return DimOrS{Dimension: Dimension{Value: f, Unit: Perc}} }

// IsNone returns true for the zero value.
func (ds DimOrS) IsNone() bool { return ds == DimOrS{} }

// ContentProperty is one item of the `content` property.
// Type is one of "string", "counter", "counters", "attr", "url",
// "open-quote", "close-quote", "no-open-quote", "no-close-quote".
type ContentProperty struct {
	Type string
	// String is the text for "string", the attribute name for "attr",
	// the URL for "url" and the counter name for "counter(s)"
	String    string
	Separator string // for "counters"
	Style     string // counter style, for "counter(s)"
}

type ContentProperties []ContentProperty

// SContent is either "normal", "none" or a list of content items.
type SContent struct {
	String   string
	Contents ContentProperties
}

type IntString struct {
	Name string
	Int  int
}

type IntStrings []IntString

// SIntStrings is either "none" or a list of (name, value) pairs.
type SIntStrings struct {
	String string
	Values IntStrings
}

type Quotes struct {
	Open  Strings
	Close Strings
}

// Point is a size (width, height).
type Point [2]Dimension

// ToPixels returns the width and height in pixels.
// Only absolute units are supported.
func (p Point) ToPixels() [2]Float {
	return [2]Float{p[0].Value * LengthsToPixels[p[0].Unit], p[1].Value * LengthsToPixels[p[1].Unit]}
}

func (Float) isCssProperty()       {}
func (Int) isCssProperty()         {}
func (String) isCssProperty()      {}
func (Strings) isCssProperty()     {}
func (Color) isCssProperty()       {}
func (DimOrS) isCssProperty()      {}
func (Dimension) isCssProperty()   {}
func (SContent) isCssProperty()    {}
func (SIntStrings) isCssProperty() {}
func (Quotes) isCssProperty()      {}
func (Point) isCssProperty()       {}

// MaybeFloat is either a number, or [AutoF].
// It is used during layout for values that may be "auto".
type MaybeFloat interface {
	V() Float
}

type auto struct{}

// AutoF is the "auto" value of [MaybeFloat].
var AutoF MaybeFloat = auto{}

// V returns 0.
func (auto) V() Float { return 0 }

func (f Float) V() Float { return f }

// Inf is used for unbounded lengths, like max-width: none.
var Inf = Float(math.Inf(1))

func Max(a, b Float) Float {
	if a > b {
		return a
	}
	return b
}

func Min(a, b Float) Float {
	if a < b {
		return a
	}
	return b
}

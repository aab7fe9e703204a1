// This package defines the types needed to handle the supported CSS properties.
// There are 3 groups of values for a property, separated by 2 steps : cascading and computation.
// Schematically, the style computation is :
//
//	declared value (validation) -> CascadedProperty (compute) -> CssProperty
//
// Computed values are stored in [Properties], which provides typed accessors.
package properties

import (
	"github.com/benoitkugler/printlayout/utils"
)

type Fl = utils.Fl

// CssProperty is the final form of a css input, a.k.a. the computed value.
type CssProperty interface {
	isCssProperty()
}

type DefaultValue uint8

const (
	Inherit DefaultValue = iota + 1
	Initial
)

func (d DefaultValue) String() string {
	switch d {
	case Inherit:
		return "<inherit>"
	case Initial:
		return "<initial>"
	default:
		return "invalid value"
	}
}

// CascadedProperty is the output of the validation step :
// either one of the special "inherit" or "initial" keywords,
// or a specified value, which still needs to be computed.
type CascadedProperty struct {
	Default DefaultValue
	Value   CssProperty
}

func AsCascaded(v CssProperty) CascadedProperty { return CascadedProperty{Value: v} }

// KnownProp efficiently encode a supported CSS property
type KnownProp uint8

func (p KnownProp) String() string { return propsNames[p] }

// PropsFromNames maps a CSS property name to its key.
var PropsFromNames = map[string]KnownProp{}

func init() {
	for k, name := range propsNames {
		if name != "" {
			PropsFromNames[name] = KnownProp(k)
		}
	}
}

// Properties stores a value for every supported property.
// It is the storage used by computed styles, with typed accessors.
type Properties [NbProperties]CssProperty

// Get is the generic method to access an arbitrary property.
// Type accessors should be used when possible.
func (p *Properties) Get(key KnownProp) CssProperty { return p[key] }

// Set is the generic method to set an arbitrary property.
func (p *Properties) Set(key KnownProp, value CssProperty) { p[key] = value }

// ElementStyle defines a common interface to access computed style properties.
// Implementations are immutable once created.
type ElementStyle interface {
	StyleAccessor

	// Get is the generic method to access an arbitrary property.
	// Type accessors should be used when possible.
	Get(key KnownProp) CssProperty

	// ParentStyle returns nil for the root element.
	ParentStyle() ElementStyle
}

var _ StyleAccessor = (*Properties)(nil)

package tree

import (
	pa "github.com/benoitkugler/printlayout/css/parser"
	pr "github.com/benoitkugler/printlayout/css/properties"
	"github.com/benoitkugler/printlayout/css/validation"
	"github.com/benoitkugler/printlayout/logger"
)

// PseudoTypes are the pseudo elements supported by the cascade,
// in the order their styles are computed.
var PseudoTypes = [...]string{"before", "after", "first-letter", "first-line", "marker"}

// styleAttrSpecificity is greater than the specificity of any selector.
var styleAttrSpecificity = Specificity{0xff, 0xff, 0xff}

type elementKey struct {
	element    Element
	pseudoType string
}

// StyleFor provides the computed styles of the elements of a document,
// including pseudo elements and the page context.
type StyleFor struct {
	cascadedStyles map[elementKey]cascadedStyle
	computedStyles map[elementKey]pr.ElementStyle
	root           Element
}

// GetAllComputedStyles runs the cascade for every element of the tree rooted
// at `root`, and computes the resulting styles. The order of `sheets` only
// matters between sheets of the same origin (later wins).
// Style attributes are applied as author declarations with the highest specificity.
//
// Invalid or unsupported declarations are logged and ignored.
func GetAllComputedStyles(root Element, sheets []Stylesheet) *StyleFor {
	sf := &StyleFor{
		cascadedStyles: make(map[elementKey]cascadedStyle),
		computedStyles: make(map[elementKey]pr.ElementStyle),
		root:           root,
	}

	var cascade func(element Element)
	cascade = func(element Element) {
		for _, sheet := range sheets {
			for _, rule := range sheet.Matcher.Match(element) {
				sf.addDeclarations(element, rule.PseudoType, rule.Declarations, sheet.Origin, rule.Specificity)
			}
		}
		if attr, ok := element.Attr("style"); ok {
			sf.addDeclarations(element, "", ParseStyleAttribute(attr), OriginAuthor, styleAttrSpecificity)
		}
		for _, child := range element.Children() {
			if child.Tag() != "" {
				cascade(child)
			}
		}
	}
	cascade(root)

	// computed values must be set in tree order,
	// since they depend on the parent style
	var compute func(element, parent Element)
	compute = func(element, parent Element) {
		sf.setComputedStyles(element, parent, "")
		for _, pseudoType := range PseudoTypes {
			sf.setComputedStyles(element, element, pseudoType)
		}
		for _, child := range element.Children() {
			if child.Tag() != "" {
				compute(child, element)
			}
		}
	}
	compute(root, nil)

	for _, sheet := range sheets {
		for _, rule := range sheet.Matcher.Match(PageContext) {
			sf.addDeclarations(PageContext, "", rule.Declarations, sheet.Origin, rule.Specificity)
		}
	}
	sf.setComputedStyles(PageContext, root, "")

	// the cascaded values are not needed anymore
	sf.cascadedStyles = nil
	return sf
}

// ParseStyleAttribute parses the content of a `style` attribute.
func ParseStyleAttribute(attr string) []Declaration {
	return toDeclarations(pa.ParseDeclarations(attr))
}

// Get returns the computed style of the element (or of one of its pseudo
// elements), or nil if the pseudo element has no style.
func (sf *StyleFor) Get(element Element, pseudoType string) pr.ElementStyle {
	return sf.computedStyles[elementKey{element, pseudoType}]
}

// PageStyle returns the computed style of the page context.
func (sf *StyleFor) PageStyle() pr.ElementStyle {
	return sf.computedStyles[elementKey{element: PageContext}]
}

// Root returns the root element.
func (sf *StyleFor) Root() Element { return sf.root }

func (sf *StyleFor) addDeclarations(element Element, pseudoType string, declarations []Declaration,
	origin Origin, specificity Specificity,
) {
	key := elementKey{element, pseudoType}
	style := sf.cascadedStyles[key]
	if style == nil {
		style = make(cascadedStyle)
		sf.cascadedStyles[key] = style
	}
	for _, decl := range declarations {
		validated, err := validation.ValidateString(decl.Name, decl.Value)
		if err != nil {
			logger.WarningLogger.With("property", decl.Name, "value", decl.Value).
				Warnf("Ignored declaration: %s", err)
			continue
		}
		weight := weight{precedence: declarationPrecedence(origin, decl.Important), specificity: specificity}
		for _, v := range validated {
			if previous, in := style[v.Key]; in && !previous.weight.Less(weight) {
				continue
			}
			style[v.Key] = weightedValue{value: v.Value, weight: weight}
		}
	}
}

func (sf *StyleFor) setComputedStyles(element, parent Element, pseudoType string) {
	var (
		parentStyle  pr.ElementStyle
		rootFontSize pr.Float
	)
	if parent == nil {
		// When specified on the font-size property of the root element, the
		// rem units refer to the property’s initial value.
		rootFontSize = pr.InitialValues.GetFontSize().Value
	} else {
		parentStyle = sf.computedStyles[elementKey{element: parent}]
		rootFontSize = sf.computedStyles[elementKey{element: sf.root}].GetFontSize().Value
	}

	key := elementKey{element, pseudoType}
	cascaded, in := sf.cascadedStyles[key]
	switch pseudoType {
	case "":
	case "marker":
		// markers are only generated for list items
		if parentStyle.GetDisplay() != "list-item" {
			return
		}
	default:
		if !in {
			return
		}
	}
	sf.computedStyles[key] = newComputedStyle(element, cascaded, parentStyle, rootFontSize, pseudoType)
}

// Returns the precedence for a declaration.
// Precedence values have no meaning unless compared to each other.
// Acceptable values for `origin` are the [Origin] constants.
// `importance` is true for declarations with `!important`.
// The origin order is reversed for important declarations.
func declarationPrecedence(origin Origin, importance bool) uint8 {
	// See https://www.w3.org/TR/css-cascade-3/#cascading
	switch {
	case origin == OriginUserAgent && !importance:
		return 1
	case origin == OriginUser && !importance:
		return 2
	case origin == OriginAuthor && !importance:
		return 3
	case origin == OriginAuthor: // && importance
		return 4
	case origin == OriginUser: // && importance
		return 5
	default:
		return 6 // user agent, important
	}
}

type weight struct {
	precedence  uint8
	specificity Specificity
}

// Less returns `true` if w <= other, so that later
// declarations win ties.
func (w weight) Less(other weight) bool {
	return w.precedence < other.precedence || (w.precedence == other.precedence && !other.specificity.Less(w.specificity))
}

type weightedValue struct {
	value  pr.CascadedProperty
	weight weight
}

// cascadedStyle maps the properties to their winning declaration.
type cascadedStyle = map[pr.KnownProp]weightedValue

var (
	_ pr.ElementStyle = (*ComputedStyle)(nil)
	_ pr.ElementStyle = (*AnonymousStyle)(nil)
)

// ComputedStyle is the computed style of an element,
// a pseudo element or the page context.
type ComputedStyle struct {
	pr.Properties

	parentStyle  pr.ElementStyle
	element      Element
	pseudoType   string
	rootFontSize pr.Float

	// properties taking the value of the parent style
	inherited pr.SetK
}

func (c *ComputedStyle) ParentStyle() pr.ElementStyle { return c.parentStyle }

// Element returns the element the style was computed for.
// For pseudo elements, this is the originating element.
func (c *ComputedStyle) Element() Element { return c.element }

// PseudoType returns the pseudo element the style was computed for, if any.
func (c *ComputedStyle) PseudoType() string { return c.pseudoType }

func (c *ComputedStyle) isRootElement() bool {
	return c.parentStyle == nil && c.pseudoType == ""
}

func newComputedStyle(element Element, cascaded cascadedStyle, parentStyle pr.ElementStyle,
	rootFontSize pr.Float, pseudoType string,
) *ComputedStyle {
	style := &ComputedStyle{
		parentStyle:  parentStyle,
		element:      element,
		pseudoType:   pseudoType,
		rootFontSize: rootFontSize,
	}

	// the lang attribute acts as a presentational hint
	var langHint pr.CssProperty
	if pseudoType == "" {
		if lang, ok := element.Attr("lang"); ok {
			langHint = pr.String(lang)
		}
	}

	for _, key := range computeOrder {
		var (
			specified pr.CssProperty
			def       pr.DefaultValue
		)
		if c, in := cascaded[key]; in {
			specified, def = c.value.Value, c.value.Default
		} else if key == pr.PLang && langHint != nil {
			specified = langHint
		} else if pr.Inherited.Has(key) {
			def = pr.Inherit
		} else {
			def = pr.Initial
		}
		if def == pr.Inherit && parentStyle == nil {
			def = pr.Initial
		}

		switch def {
		case pr.Inherit:
			// already computed
			style.Properties[key] = parentStyle.Get(key)
			style.inherited[key] = true
			continue
		case pr.Initial:
			specified = pr.InitialValues[key]
		}
		if fn := computerFunctions[key]; fn != nil {
			specified = fn(style, key, specified)
		}
		style.Properties[key] = specified
	}
	return style
}

// AnonymousStyle is the style of anonymous boxes:
// inherited properties come from the parent, others have their initial value.
type AnonymousStyle struct {
	pr.Properties
	parentStyle pr.ElementStyle
}

// NewAnonymousStyle returns a style inheriting from `parentStyle`, which may be nil.
func NewAnonymousStyle(parentStyle pr.ElementStyle) *AnonymousStyle {
	out := &AnonymousStyle{Properties: pr.InitialValues, parentStyle: parentStyle}
	if parentStyle != nil {
		for key := range out.Properties {
			if pr.Inherited.Has(pr.KnownProp(key)) {
				out.Properties[key] = parentStyle.Get(pr.KnownProp(key))
			}
		}
	}
	// border-*-style is none, so border-width computes to zero.
	color := out.GetColor()
	for side := 0; side < 4; side++ {
		out.Properties[pr.PBorderTopWidth.Side(side)] = pr.FToPx(0)
		out.Properties[pr.PBorderTopColor.Side(side)] = color
	}
	return out
}

func (a *AnonymousStyle) ParentStyle() pr.ElementStyle { return a.parentStyle }

// FirstLineStyle returns the style used for content with style `style`
// laid out on the first line of the block container whose ::first-line
// style is `firstLine`.
//
// The ::first-line pseudo element acts as an inline parent of the content
// of its line : the inherited properties of `style` whose value comes from
// the container are replaced by the values of `firstLine`.
func FirstLineStyle(style, firstLine pr.ElementStyle) pr.ElementStyle {
	container := firstLine.ParentStyle()
	out := &AnonymousStyle{parentStyle: style.ParentStyle()}
	for key := range out.Properties {
		k := pr.KnownProp(key)
		out.Properties[key] = style.Get(k)
		if pr.Inherited.Has(k) && inheritsFrom(style, container, k) {
			out.Properties[key] = firstLine.Get(k)
		}
	}
	return out
}

// inheritsFrom returns true if the value of `key` in `style`
// is inherited from `ancestor`.
func inheritsFrom(style, ancestor pr.ElementStyle, key pr.KnownProp) bool {
	for s := style; s != nil; s = s.ParentStyle() {
		if s == ancestor {
			return true
		}
		if cs, ok := s.(*ComputedStyle); ok && !cs.inherited.Has(key) {
			return false
		}
	}
	return false
}

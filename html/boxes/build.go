package boxes

import (
	"strings"

	"github.com/benoitkugler/printlayout/css/counters"
	pr "github.com/benoitkugler/printlayout/css/properties"
	"github.com/benoitkugler/printlayout/html/tree"
	"github.com/benoitkugler/printlayout/images"
	"github.com/benoitkugler/printlayout/logger"
	"github.com/benoitkugler/printlayout/utils"
)

// URLResolver fetches the images referenced by the document,
// either by <img> elements or by url() generated content.
type URLResolver struct {
	Fetcher images.UrlFetcher
	Cache   *images.Cache
}

// NewURLResolver returns a resolver using `fetcher` (or [images.DefaultUrlFetcher]
// if it is nil), with an empty cache.
func NewURLResolver(fetcher images.UrlFetcher) URLResolver {
	if fetcher == nil {
		fetcher = images.DefaultUrlFetcher
	}
	return URLResolver{Fetcher: fetcher, Cache: images.NewCache()}
}

// FetchImage returns nil (and logs a warning) if the image can't be loaded.
func (r URLResolver) FetchImage(url string) images.Image {
	if r.Fetcher == nil || r.Cache == nil {
		r = NewURLResolver(r.Fetcher)
	}
	return images.GetImageFromUri(r.Cache, r.Fetcher, url)
}

// BuildFormattingStructure builds the box tree of the document rooted at `root`,
// whose styles are given by `styleFor`.
//
// The building is done in the following steps :
//   - boxes are generated for each element, pseudo element and text node
//   - whitespace is collapsed according to the `white-space` property
//   - inline boxes containing block-level boxes are split, and inline content
//     mixed with block-level boxes is wrapped in anonymous blocks
//   - the ::first-letter pseudo elements are inserted, and the ::first-line
//     styles attached to the block containers holding the first lines
func BuildFormattingStructure(root tree.Element, styleFor *tree.StyleFor, resolver URLResolver) *Tree {
	b := newBuilder(styleFor, resolver)

	rootBox := NoBox
	if boxes := b.elementToBox(root); len(boxes) != 0 {
		rootBox = boxes[0]
	}
	if rootBox == NoBox {
		return b.compact(NoBox)
	}

	b.processWhitespace(rootBox, false)
	b.normalize(rootBox)
	b.stripBlockWhitespace(rootBox)
	b.removeEmptyText(rootBox)
	b.insertFirstLetters(rootBox)
	b.assignFirstLineStyles(rootBox, nil)

	return b.compact(rootBox)
}

type builder struct {
	styleFor *tree.StyleFor
	resolver URLResolver

	boxes        []Box
	elementBoxes map[tree.Element]BoxID
	// shared by the text and anonymous boxes of a same parent
	anonymousStyles map[pr.ElementStyle]pr.ElementStyle

	quoteDepth    int
	counterValues map[string][]int
	// one set per level of siblings
	counterScopes []utils.Set
}

func newBuilder(styleFor *tree.StyleFor, resolver URLResolver) *builder {
	return &builder{
		styleFor:        styleFor,
		resolver:        resolver,
		elementBoxes:    make(map[tree.Element]BoxID),
		anonymousStyles: make(map[pr.ElementStyle]pr.ElementStyle),
		counterValues:   make(map[string][]int),
		counterScopes:   []utils.Set{utils.NewSet()},
	}
}

func (b *builder) newBox(kind Kind, element tree.Element, pseudoType string, style pr.ElementStyle) BoxID {
	b.boxes = append(b.boxes, Box{Kind: kind, Element: element, PseudoType: pseudoType, Style: style, Parent: NoBox})
	return BoxID(len(b.boxes) - 1)
}

// cloneBox returns a copy of `id`, without children.
func (b *builder) cloneBox(id BoxID) BoxID {
	box := b.boxes[id]
	box.Children = nil
	b.boxes = append(b.boxes, box)
	return BoxID(len(b.boxes) - 1)
}

func (b *builder) anonymousStyle(parent pr.ElementStyle) pr.ElementStyle {
	if style, ok := b.anonymousStyles[parent]; ok {
		return style
	}
	style := tree.NewAnonymousStyle(parent)
	b.anonymousStyles[parent] = style
	return style
}

// newTextBox returns a text box whose style is inherited from `parentStyle`.
// `text` must not be empty.
func (b *builder) newTextBox(element tree.Element, pseudoType string, parentStyle pr.ElementStyle, text string) BoxID {
	style := b.anonymousStyle(parentStyle)
	id := b.newBox(TextT, element, pseudoType, style)
	b.boxes[id].Text = transformText(text, style)
	return id
}

func principalKind(style pr.ElementStyle) Kind {
	if style.GetFloat() != "none" {
		return FloatT
	}
	if style.GetDisplay() == "inline" {
		return InlineT
	}
	return BlockContainerT
}

// elementToBox converts an element and its children into a box
// with children. It returns nil if the element is not displayed,
// or represents nothing (like an image without alt text).
//
// Eg.
//
//	<p>Some <em>emphasised</em> text.</p>
//
// gives (not actual syntax)
//
//	BlockBox[
//	    TextBox["Some "],
//	    InlineBox[
//	        TextBox["emphasised"],
//	    ],
//	    TextBox[" text."],
//	]
func (b *builder) elementToBox(element tree.Element) []BoxID {
	style := b.styleFor.Get(element, "")
	if style == nil {
		logger.WarningLogger.Printf("No style for element %s", element.Tag())
		return nil
	}
	display := style.GetDisplay()
	if display == "none" {
		return nil
	}

	id := b.newBox(principalKind(style), element, "", style)
	b.boxes[id].InlineLevel = display == "inline-block"
	b.elementBoxes[element] = id

	b.updateCounters(style)
	// the counters reset by the children are scoped to the element
	b.counterScopes = append(b.counterScopes, utils.NewSet())

	var children []BoxID
	if display == "list-item" {
		children = append(children, b.markerToBoxes(element, style)...)
	}
	children = append(children, b.beforeAfterToBox(element, "before")...)
	for _, child := range element.Children() {
		if child.Tag() == "" {
			if text := child.Text(); text != "" {
				children = append(children, b.newTextBox(element, "", style, text))
			}
		} else {
			children = append(children, b.elementToBox(child)...)
		}
	}
	children = append(children, b.beforeAfterToBox(element, "after")...)
	b.popCounterScope()

	b.boxes[id].Children = children

	out := b.handleElement(element, id)
	if len(out) == 0 {
		delete(b.elementBoxes, element)
	}
	return out
}

// markerToBoxes returns the boxes generated by the ::marker pseudo element.
// Markers are displayed inside the list item, before its content.
func (b *builder) markerToBoxes(element tree.Element, style pr.ElementStyle) []BoxID {
	markerStyle := b.styleFor.Get(element, "marker")
	if markerStyle == nil {
		return nil
	}
	var children []BoxID
	switch content := markerStyle.GetContent(); content.String {
	case "none":
		return nil
	case "normal":
		styleType := string(markerStyle.GetListStyleType())
		if styleType == "none" {
			return nil
		}
		text := counters.Format(b.counterValue("list-item"), styleType)
		switch styleType {
		case "disc", "circle", "square":
			text += " "
		default:
			text += ". "
		}
		children = []BoxID{b.newTextBox(element, "marker", markerStyle, text)}
	default:
		children = b.contentToBoxes(element, "marker", markerStyle, content.Contents)
	}
	if len(children) == 0 {
		return nil
	}
	id := b.newBox(AnonymousInlineT, element, "marker", markerStyle)
	b.boxes[id].Children = children
	return []BoxID{id}
}

// beforeAfterToBox returns the box generated by the ::before or ::after
// pseudo element, if any.
func (b *builder) beforeAfterToBox(element tree.Element, pseudoType string) []BoxID {
	style := b.styleFor.Get(element, pseudoType)
	if style == nil {
		return nil
	}
	display := style.GetDisplay()
	content := style.GetContent()
	if display == "none" || content.String == "normal" || content.String == "none" {
		return nil
	}

	b.updateCounters(style)
	children := b.contentToBoxes(element, pseudoType, style, content.Contents)

	var kind Kind
	switch {
	case style.GetFloat() != "none":
		kind = FloatT
	case display == "inline":
		kind = AnonymousInlineT
	case display == "inline-block", style.GetPosition() == "absolute", style.GetPosition() == "fixed":
		kind = BlockContainerT
	default:
		kind = AnonymousBlockT
	}
	id := b.newBox(kind, element, pseudoType, style)
	b.boxes[id].InlineLevel = display == "inline-block"
	b.boxes[id].Children = children
	return []BoxID{id}
}

// contentToBoxes converts the items of a `content` property into text
// and replaced boxes. Invalid items are ignored.
func (b *builder) contentToBoxes(element tree.Element, pseudoType string, style pr.ElementStyle,
	contents pr.ContentProperties,
) []BoxID {
	var (
		out  []BoxID
		text strings.Builder
	)
	flush := func() {
		if text.Len() != 0 {
			out = append(out, b.newTextBox(element, pseudoType, style, text.String()))
			text.Reset()
		}
	}
	quotes := style.GetQuotes()
	for _, item := range contents {
		switch item.Type {
		case "string":
			text.WriteString(item.String)
		case "attr":
			value, _ := element.Attr(item.String)
			text.WriteString(value)
		case "counter":
			text.WriteString(counters.Format(b.counterValue(item.String), counterStyle(item.Style)))
		case "counters":
			values := b.counterValues[item.String]
			if len(values) == 0 {
				values = []int{0}
			}
			formatted := make([]string, len(values))
			for i, v := range values {
				formatted[i] = counters.Format(v, counterStyle(item.Style))
			}
			text.WriteString(strings.Join(formatted, item.Separator))
		case "open-quote":
			if len(quotes.Open) != 0 {
				text.WriteString(quotes.Open[utils.MinInt(b.quoteDepth, len(quotes.Open)-1)])
			}
			b.quoteDepth++
		case "close-quote":
			if b.quoteDepth > 0 {
				b.quoteDepth--
			}
			if len(quotes.Close) != 0 {
				text.WriteString(quotes.Close[utils.MinInt(b.quoteDepth, len(quotes.Close)-1)])
			}
		case "no-open-quote":
			b.quoteDepth++
		case "no-close-quote":
			if b.quoteDepth > 0 {
				b.quoteDepth--
			}
		case "url":
			flush()
			image := b.resolver.FetchImage(item.String)
			if image == nil {
				continue
			}
			id := b.newBox(ReplacedT, element, pseudoType, b.anonymousStyle(style))
			b.boxes[id].Replacement = image
			b.boxes[id].InlineLevel = true
			out = append(out, id)
		default:
			logger.WarningLogger.Printf("Ignored content item %q in %s::%s", item.Type, element.Tag(), pseudoType)
		}
	}
	flush()
	return out
}

func counterStyle(style string) string {
	if style == "" {
		return "decimal"
	}
	return style
}

// handleElement handles the HTML elements that need special care.
func (b *builder) handleElement(element tree.Element, id BoxID) []BoxID {
	switch element.Tag() {
	case "img":
		return b.handleImg(element, id)
	case "embed":
		if src, _ := element.Attr("src"); src != "" {
			if image := b.resolver.FetchImage(src); image != nil {
				return []BoxID{b.makeReplacedBox(id, image)}
			}
		}
		// no fallback
		return nil
	case "object":
		if data, _ := element.Attr("data"); data != "" {
			if image := b.resolver.FetchImage(data); image != nil {
				return []BoxID{b.makeReplacedBox(id, image)}
			}
		}
		// the children are the fallback
		return []BoxID{id}
	}
	return []BoxID{id}
}

// handleImg returns either an image or the alt-text.
// See: http://www.w3.org/TR/html5/embedded-content-1.html#the-img-element
func (b *builder) handleImg(element tree.Element, id BoxID) []BoxID {
	src, _ := element.Attr("src")
	alt, _ := element.Attr("alt")
	if src != "" {
		if image := b.resolver.FetchImage(src); image != nil {
			return []BoxID{b.makeReplacedBox(id, image)}
		}
	}
	if alt != "" {
		// invalid image, use the alt-text.
		// newTextBox may grow the arena: assign through the index
		text := b.newTextBox(element, "", b.boxes[id].Style, alt)
		b.boxes[id].Children = []BoxID{text}
		return []BoxID{id}
	}
	// the element represents nothing
	return nil
}

// makeReplacedBox turns `id` into a replaced box,
// which is either block-level or inline-level, depending on what the
// element should be.
func (b *builder) makeReplacedBox(id BoxID, image images.Image) BoxID {
	box := &b.boxes[id]
	box.Children = nil
	box.Replacement = image
	if box.Kind != FloatT {
		display := box.Style.GetDisplay()
		box.Kind = ReplacedT
		box.InlineLevel = display == "inline" || display == "inline-block"
	}
	return id
}

// updateCounters handles the `counter-reset`, `counter-set` and
// `counter-increment` properties of an element, in this order.
func (b *builder) updateCounters(style pr.ElementStyle) {
	siblingScopes := b.counterScopes[len(b.counterScopes)-1]

	for _, reset := range style.GetCounterReset().Values {
		if siblingScopes.Has(reset.Name) {
			values := b.counterValues[reset.Name]
			b.counterValues[reset.Name] = values[:len(values)-1]
		} else {
			siblingScopes.Add(reset.Name)
		}
		b.counterValues[reset.Name] = append(b.counterValues[reset.Name], reset.Int)
	}

	counterSet := style.GetCounterSet().Values
	for _, set := range counterSet {
		b.lastCounterValue(set.Name, siblingScopes)[0] = set.Int
	}

	increments := style.GetCounterIncrement().Values
	if style.GetDisplay() == "list-item" {
		// list items implicitly increment the list-item counter
		implicit := true
		for _, v := range append(increments[:len(increments):len(increments)], counterSet...) {
			if v.Name == "list-item" {
				implicit = false
			}
		}
		if implicit {
			increments = append(increments[:len(increments):len(increments)], pr.IntString{Name: "list-item", Int: 1})
		}
	}
	for _, incr := range increments {
		b.lastCounterValue(incr.Name, siblingScopes)[0] += incr.Int
	}
}

// lastCounterValue returns a slice pointing to the innermost value of the counter,
// creating the counter in the current scope if needed.
func (b *builder) lastCounterValue(name string, siblingScopes utils.Set) []int {
	values := b.counterValues[name]
	if len(values) == 0 {
		siblingScopes.Add(name)
		values = []int{0}
		b.counterValues[name] = values
	}
	return values[len(values)-1:]
}

func (b *builder) popCounterScope() {
	scopes := b.counterScopes[len(b.counterScopes)-1]
	b.counterScopes = b.counterScopes[:len(b.counterScopes)-1]
	for name := range scopes {
		values := b.counterValues[name]
		if len(values) <= 1 {
			delete(b.counterValues, name)
		} else {
			b.counterValues[name] = values[:len(values)-1]
		}
	}
}

// counterValue returns the innermost value of a counter, or 0
// if it is not defined.
func (b *builder) counterValue(name string) int {
	values := b.counterValues[name]
	if len(values) == 0 {
		return 0
	}
	return values[len(values)-1]
}

// compact copies the reachable boxes into a new arena, in tree order,
// sets the parent links and fills the side tables.
func (b *builder) compact(root BoxID) *Tree {
	out := &Tree{
		Root:         NoBox,
		FloatAnchors: make(map[BoxID]FloatAnchor),
		ElementBoxes: make(map[tree.Element]BoxID),
	}
	if root == NoBox {
		return out
	}
	remap := make(map[BoxID]BoxID, len(b.boxes))
	var visit func(old, parent BoxID) BoxID
	visit = func(old, parent BoxID) BoxID {
		id := BoxID(len(out.Boxes))
		remap[old] = id
		box := b.boxes[old]
		box.Parent = parent
		box.Children = nil
		out.Boxes = append(out.Boxes, box)
		children := make([]BoxID, len(b.boxes[old].Children))
		for i, child := range b.boxes[old].Children {
			children[i] = visit(child, id)
		}
		out.Boxes[id].Children = children
		return id
	}
	out.Root = visit(root, NoBox)

	for element, old := range b.elementBoxes {
		if id, ok := remap[old]; ok {
			out.ElementBoxes[element] = id
		}
	}
	for id := range out.Boxes {
		box := &out.Boxes[id]
		if !box.IsFloated() || box.Parent == NoBox {
			continue
		}
		anchor := FloatAnchor{Container: box.Parent, Preceding: NoBox}
		for _, sibling := range out.Boxes[box.Parent].Children {
			if sibling == BoxID(id) {
				break
			}
			if out.Boxes[sibling].IsInNormalFlow() {
				anchor.Preceding = sibling
			}
		}
		out.FloatAnchors[BoxID(id)] = anchor
	}
	return out
}

// Package boxes builds the formatting structure: the tree of boxes
// generated by the styled elements, before layout.
//
// Boxes are stored in an arena ([Tree]) and addressed by index ([BoxID]).
// The tree respects the following rules, checked by [Tree.SanityCheck]:
//   - a block container contains either only block-level boxes,
//     or only inline-level boxes (ignoring boxes out of the normal flow)
//   - inline boxes only contain inline-level boxes
package boxes

import (
	"fmt"
	"io"
	"strings"

	pr "github.com/benoitkugler/printlayout/css/properties"
	"github.com/benoitkugler/printlayout/html/tree"
	"github.com/benoitkugler/printlayout/images"
)

// BoxID is the index of a box in its [Tree].
type BoxID int

// NoBox is used for absent boxes, like the parent of the root box.
const NoBox BoxID = -1

// Kind is the variant of a box.
type Kind uint8

const (
	// BlockContainerT is the principal box of a block-level element
	// (display: block, list-item, flow-root), or of an inline-block,
	// which is then inline-level (see [Box.InlineLevel]).
	BlockContainerT Kind = iota
	// InlineT is the principal box of an inline element.
	InlineT
	// TextT holds a run of text, and has no children.
	TextT
	// AnonymousBlockT wraps inline content among block-level siblings,
	// or is generated by a block ::before or ::after.
	AnonymousBlockT
	// AnonymousInlineT is an inline box not being the principal box of an element,
	// such as the boxes generated by ::before, ::after, ::marker and ::first-letter.
	AnonymousInlineT
	// FloatT is the box of a floated element. It is a block container,
	// or a replaced box when [Box.Replacement] is not nil.
	FloatT
	// ReplacedT embeds an image.
	ReplacedT
)

func (k Kind) String() string {
	switch k {
	case BlockContainerT:
		return "BlockContainer"
	case InlineT:
		return "Inline"
	case TextT:
		return "Text"
	case AnonymousBlockT:
		return "AnonymousBlock"
	case AnonymousInlineT:
		return "AnonymousInline"
	case FloatT:
		return "Float"
	case ReplacedT:
		return "Replaced"
	default:
		return fmt.Sprintf("<invalid kind %d>", k)
	}
}

// Box is a node of the formatting structure.
type Box struct {
	Kind Kind

	// Element is the element the box is generated for.
	// Anonymous boxes and text boxes refer to the element
	// of their parent.
	Element tree.Element
	// PseudoType is not empty for boxes generated by pseudo elements.
	PseudoType string
	Style      pr.ElementStyle

	Parent   BoxID
	Children []BoxID

	// Text is the content of a [TextT] box.
	Text string

	// Replacement is the image of replaced boxes (and floated ones).
	Replacement images.Image

	// InlineLevel is true for inline-blocks and inline replaced boxes.
	// It is ignored for the other kinds.
	InlineLevel bool

	// SplitBefore and SplitAfter are set on the parts of an inline box split
	// around a block-level box : the decorations (margin, border and padding)
	// on the split sides are not displayed.
	SplitBefore, SplitAfter bool

	// FirstLineStyle is the ::first-line style applied to the first line
	// of a block container, either its own or the one of the ancestor
	// whose first line it holds.
	FirstLineStyle pr.ElementStyle
}

func (b *Box) String() string {
	tag := ElementTag(b)
	if b.PseudoType != "" {
		tag += "::" + b.PseudoType
	}
	if b.Kind == TextT {
		return fmt.Sprintf("<%s %s %q>", b.Kind, tag, b.Text)
	}
	return fmt.Sprintf("<%s %s>", b.Kind, tag)
}

// ElementTag returns the tag of the element of the box,
// or an empty string.
func ElementTag(b *Box) string {
	if b.Element == nil {
		return ""
	}
	return b.Element.Tag()
}

// IsFloated returns true for float boxes.
func (b *Box) IsFloated() bool { return b.Kind == FloatT }

// IsAbsolutelyPositioned returns true for boxes with
// position: absolute or fixed.
func (b *Box) IsAbsolutelyPositioned() bool {
	switch b.Kind {
	case BlockContainerT, ReplacedT:
		pos := b.Style.GetPosition()
		return pos == "absolute" || pos == "fixed"
	}
	return false
}

// IsFixed returns true for boxes with position: fixed.
func (b *Box) IsFixed() bool {
	return b.IsAbsolutelyPositioned() && b.Style.GetPosition() == "fixed"
}

// IsRelative returns true for boxes with position: relative.
func (b *Box) IsRelative() bool { return b.Style.GetPosition() == "relative" }

// IsInNormalFlow returns false for floated and absolutely positioned boxes.
func (b *Box) IsInNormalFlow() bool {
	return !b.IsFloated() && !b.IsAbsolutelyPositioned()
}

// IsInlineLevel returns true for the boxes participating
// in an inline formatting context.
func (b *Box) IsInlineLevel() bool {
	switch b.Kind {
	case InlineT, TextT, AnonymousInlineT:
		return true
	case BlockContainerT, ReplacedT:
		return b.InlineLevel
	}
	return false
}

// IsBlockLevel returns true for the boxes participating
// in a block formatting context. Floats are neither block-level
// nor inline-level.
func (b *Box) IsBlockLevel() bool {
	switch b.Kind {
	case AnonymousBlockT:
		return true
	case BlockContainerT, ReplacedT:
		return !b.InlineLevel
	}
	return false
}

// IsAtomicInline returns true for inline-level boxes laid out as a whole,
// that is inline-blocks and inline replaced boxes.
func (b *Box) IsAtomicInline() bool {
	return (b.Kind == BlockContainerT || b.Kind == ReplacedT) && b.InlineLevel
}

// IsReplaced returns true if the box embeds an image.
func (b *Box) IsReplaced() bool { return b.Replacement != nil }

// IsBlockContainer returns true for boxes whose children are laid out
// in a block or an inline formatting context.
func (b *Box) IsBlockContainer() bool {
	switch b.Kind {
	case BlockContainerT, AnonymousBlockT:
		return true
	case FloatT:
		return b.Replacement == nil
	}
	return false
}

// IsInlineBox returns true for inline, non atomic, boxes,
// which may contain other inline-level boxes.
func (b *Box) IsInlineBox() bool {
	return b.Kind == InlineT || b.Kind == AnonymousInlineT
}

// EstablishesFormattingContext returns true for boxes establishing a
// new block formatting context : floats, absolutely positioned boxes,
// inline-blocks, and boxes with overflow other than visible or display: flow-root.
func (b *Box) EstablishesFormattingContext() bool {
	if !b.IsBlockContainer() {
		return false
	}
	return b.IsFloated() || b.IsAbsolutelyPositioned() || b.IsAtomicInline() ||
		b.Style.GetOverflow() != "visible" || b.Style.GetDisplay() == "flow-root"
}

// FloatAnchor records the position of a float in the normal flow.
type FloatAnchor struct {
	// Container is the parent of the float.
	Container BoxID
	// Preceding is the in-flow sibling before the float, or [NoBox]
	// if the float is the first in-flow child.
	Preceding BoxID
}

// Tree is the formatting structure of a document.
// It is immutable once built.
type Tree struct {
	// Boxes is the arena, in tree order : the index of a box
	// is always greater than the index of its parent, and
	// smaller than the indices of its following siblings.
	Boxes []Box
	// Root is the box of the root element, or [NoBox]
	// if the root element is not displayed.
	Root BoxID

	// FloatAnchors stores the flow position of each float.
	FloatAnchors map[BoxID]FloatAnchor
	// ElementBoxes maps an element to its principal box.
	ElementBoxes map[tree.Element]BoxID
}

// Box returns the box with the given id.
func (t *Tree) Box(id BoxID) *Box { return &t.Boxes[id] }

// Len returns the number of boxes in the tree.
func (t *Tree) Len() int { return len(t.Boxes) }

// Descendants returns `id` and all its descendants, in tree order.
func (t *Tree) Descendants(id BoxID) []BoxID {
	out := []BoxID{id}
	for _, child := range t.Boxes[id].Children {
		out = append(out, t.Descendants(child)...)
	}
	return out
}

// PrincipalBox returns the principal box of `element`,
// or [NoBox] if it has none.
func (t *Tree) PrincipalBox(element tree.Element) BoxID {
	if id, ok := t.ElementBoxes[element]; ok {
		return id
	}
	return NoBox
}

// SanityCheck returns an error if the tree does not respect the rules
// regarding mixed content (see the package documentation).
func (t *Tree) SanityCheck() error {
	if t.Root == NoBox {
		return nil
	}
	return t.sanityCheck(t.Root)
}

func (t *Tree) sanityCheck(id BoxID) error {
	box := t.Box(id)
	var hasBlock, hasInline bool
	for _, childID := range box.Children {
		child := t.Box(childID)
		if child.Parent != id {
			return fmt.Errorf("invalid parent for %s: %d instead of %d", child, child.Parent, id)
		}
		if !child.IsInNormalFlow() {
			continue
		}
		hasBlock = hasBlock || child.IsBlockLevel()
		hasInline = hasInline || child.IsInlineLevel()
	}
	switch {
	case box.IsBlockContainer() && hasBlock && hasInline:
		return fmt.Errorf("block container %s has both block-level and inline-level children", box)
	case box.IsInlineBox() && hasBlock:
		return fmt.Errorf("inline box %s has block-level children", box)
	case (box.Kind == TextT || box.Kind == ReplacedT) && len(box.Children) != 0:
		return fmt.Errorf("leaf box %s has children", box)
	}
	for _, child := range box.Children {
		if err := t.sanityCheck(child); err != nil {
			return err
		}
	}
	return nil
}

// Dump writes an indented representation of the tree, for debugging.
func (t *Tree) Dump(w io.Writer) {
	if t.Root == NoBox {
		return
	}
	var dump func(id BoxID, depth int)
	dump = func(id BoxID, depth int) {
		fmt.Fprintf(w, "%s%s\n", strings.Repeat("  ", depth), t.Box(id))
		for _, child := range t.Box(id).Children {
			dump(child, depth+1)
		}
	}
	dump(t.Root, 0)
}

package layout

import (
	"fmt"

	pr "github.com/benoitkugler/printlayout/css/properties"
	bo "github.com/benoitkugler/printlayout/html/boxes"
	"github.com/benoitkugler/printlayout/html/tree"
	"github.com/benoitkugler/printlayout/images"
	"github.com/benoitkugler/printlayout/text"
)

// FragmentKind is the variant of a [Fragment].
type FragmentKind uint8

const (
	// BlockFragment is (a part of) a block container, on one page.
	BlockFragment FragmentKind = iota
	// LineFragment is a line box. It has no origin box.
	LineFragment
	// InlineFragment is the part of an inline box on one line.
	InlineFragment
	// TextFragment is a run of text on one line.
	TextFragment
	// ReplacedFragment is an image, inline or block-level.
	ReplacedFragment
)

func (k FragmentKind) String() string {
	switch k {
	case BlockFragment:
		return "Block"
	case LineFragment:
		return "Line"
	case InlineFragment:
		return "Inline"
	case TextFragment:
		return "Text"
	case ReplacedFragment:
		return "Replaced"
	default:
		return fmt.Sprintf("<invalid kind %d>", k)
	}
}

// Fragment is the laid out part of a box, with used values for
// its position and dimensions.
//
// A box not fitting in a page or a line is split into several fragments,
// all referring to the same origin box.
//
// Positions are absolute, relative to the top-left corner of the page.
// (PositionX, PositionY) is the top-left corner of the margin box,
// (Width, Height) the size of the content box.
type Fragment struct {
	Kind FragmentKind
	// Box is the origin of the fragment, or [bo.NoBox] for line boxes.
	Box        bo.BoxID
	Element    tree.Element
	PseudoType string
	Style      pr.ElementStyle

	PositionX, PositionY pr.Float
	Width, Height        pr.Float

	MarginTop, MarginRight, MarginBottom, MarginLeft                     pr.Float
	PaddingTop, PaddingRight, PaddingBottom, PaddingLeft                 pr.Float
	BorderTopWidth, BorderRightWidth, BorderBottomWidth, BorderLeftWidth pr.Float

	// Baseline is the absolute position of the baseline,
	// for line, inline and text fragments.
	Baseline pr.Float

	// Text is the content of text fragments, without trailing
	// collapsible spaces and newlines.
	Text      string
	TextStyle *text.TextStyle
	// WordSpacing is the space added to each space character
	// of the text, when the line is justified.
	WordSpacing pr.Float

	// Image is the content of replaced fragments.
	Image images.Image

	// IsStart is false for the continuation of a split box,
	// IsEnd is false when the box continues in another fragment.
	IsStart, IsEnd bool

	// Positioned is true for absolutely positioned boxes, laid out
	// against their containing block rather than in the flow.
	Positioned bool

	Children []*Fragment

	// indices of the first inline atom of a line fragment,
	// and of the first one after it
	lineStart, lineEnd int
	// true once a positioned fragment is laid out
	laidOut bool
	// for block boxes with an explicit height : the height
	// used by the previous fragments and the part left for this one
	explicitHeight           bool
	heightBefore, heightLeft pr.Float
}

func (f *Fragment) String() string {
	tag := ""
	if f.Element != nil {
		tag = f.Element.Tag()
	}
	if f.PseudoType != "" {
		tag += "::" + f.PseudoType
	}
	if f.Kind == TextFragment {
		return fmt.Sprintf("<%s %s %q (%g, %g)>", f.Kind, tag, f.Text, f.PositionX, f.PositionY)
	}
	return fmt.Sprintf("<%s %s (%g, %g) %gx%g>", f.Kind, tag, f.PositionX, f.PositionY, f.Width, f.Height)
}

// newFragment creates a fragment for the given box, with no geometry yet.
func newFragment(tr *bo.Tree, id bo.BoxID, kind FragmentKind) *Fragment {
	box := tr.Box(id)
	return &Fragment{
		Kind: kind, Box: id,
		Element: box.Element, PseudoType: box.PseudoType, Style: box.Style,
		Image:   box.Replacement,
		IsStart: true, IsEnd: true,
	}
}

func (f *Fragment) ContentBoxX() pr.Float {
	return f.PositionX + f.MarginLeft + f.PaddingLeft + f.BorderLeftWidth
}

func (f *Fragment) ContentBoxY() pr.Float {
	return f.PositionY + f.MarginTop + f.PaddingTop + f.BorderTopWidth
}

func (f *Fragment) PaddingBoxX() pr.Float { return f.PositionX + f.MarginLeft + f.BorderLeftWidth }

func (f *Fragment) PaddingBoxY() pr.Float { return f.PositionY + f.MarginTop + f.BorderTopWidth }

func (f *Fragment) BorderBoxX() pr.Float { return f.PositionX + f.MarginLeft }

func (f *Fragment) BorderBoxY() pr.Float { return f.PositionY + f.MarginTop }

func (f *Fragment) PaddingWidth() pr.Float { return f.Width + f.PaddingLeft + f.PaddingRight }

func (f *Fragment) PaddingHeight() pr.Float { return f.Height + f.PaddingTop + f.PaddingBottom }

func (f *Fragment) BorderWidth() pr.Float {
	return f.PaddingWidth() + f.BorderLeftWidth + f.BorderRightWidth
}

func (f *Fragment) BorderHeight() pr.Float {
	return f.PaddingHeight() + f.BorderTopWidth + f.BorderBottomWidth
}

func (f *Fragment) MarginWidth() pr.Float { return f.BorderWidth() + f.MarginLeft + f.MarginRight }

func (f *Fragment) MarginHeight() pr.Float { return f.BorderHeight() + f.MarginTop + f.MarginBottom }

// hFrame returns the horizontal margins, borders and paddings.
func (f *Fragment) hFrame() pr.Float { return f.MarginWidth() - f.Width }

// Translate moves the fragment and all its descendants.
func (f *Fragment) Translate(dx, dy pr.Float) {
	if dx == 0 && dy == 0 {
		return
	}
	f.PositionX += dx
	f.PositionY += dy
	f.Baseline += dy
	for _, child := range f.Children {
		child.Translate(dx, dy)
	}
}

// removeDecoration sets the margins, borders and paddings
// of the top (resp. bottom) side to zero.
func (f *Fragment) removeDecoration(start, end bool) {
	if start {
		f.MarginTop, f.PaddingTop, f.BorderTopWidth = 0, 0, 0
		f.IsStart = false
	}
	if end {
		f.MarginBottom, f.PaddingBottom, f.BorderBottomWidth = 0, 0, 0
		f.IsEnd = false
	}
}

// removeInlineDecoration is the horizontal version of [removeDecoration],
// used for inline boxes split across lines.
func (f *Fragment) removeInlineDecoration(start, end bool) {
	if start {
		f.MarginLeft, f.PaddingLeft, f.BorderLeftWidth = 0, 0, 0
		f.IsStart = false
	}
	if end {
		f.MarginRight, f.PaddingRight, f.BorderRightWidth = 0, 0, 0
		f.IsEnd = false
	}
}

// Walk calls `fn` for `f` and all its descendants, in tree order.
func (f *Fragment) Walk(fn func(*Fragment)) {
	fn(f)
	for _, child := range f.Children {
		child.Walk(fn)
	}
}

// Page is the layout of one page.
type Page struct {
	// Index starts at 0.
	Index int

	// Width and Height are the outer dimensions of the page.
	Width, Height pr.Float

	MarginTop, MarginRight, MarginBottom, MarginLeft pr.Float

	// Root is the fragment of the root box on this page, or nil
	// for a blank page.
	Root *Fragment

	// Fixed holds the boxes with "position: fixed", repeated on every page.
	Fixed []*Fragment
}

// area returns the page area, which is the containing block
// of the root box.
func (p *Page) area() containingBlock {
	return containingBlock{x: p.MarginLeft, y: p.MarginTop, width: p.ContentWidth(), height: p.ContentHeight()}
}

// ContentWidth returns the width of the page area.
func (p *Page) ContentWidth() pr.Float {
	return pr.Max(0, p.Width-p.MarginLeft-p.MarginRight)
}

// ContentHeight returns the height of the page area.
func (p *Page) ContentHeight() pr.Float {
	return pr.Max(0, p.Height-p.MarginTop-p.MarginBottom)
}

// Fragments returns the fragments of the page, in painting order.
func (p *Page) Fragments() []*Fragment {
	var out []*Fragment
	collect := func(f *Fragment) { out = append(out, f) }
	if p.Root != nil {
		p.Root.Walk(collect)
	}
	for _, f := range p.Fixed {
		f.Walk(collect)
	}
	return out
}

// Result is the output of the layout: a sequence of pages.
type Result struct {
	Pages []*Page

	// side table from origin boxes to their fragments
	fragments map[bo.BoxID][]*Fragment
}

func newResult(pages []*Page) *Result {
	out := &Result{Pages: pages, fragments: make(map[bo.BoxID][]*Fragment)}
	for _, page := range pages {
		for _, f := range page.Fragments() {
			if f.Box != bo.NoBox {
				out.fragments[f.Box] = append(out.fragments[f.Box], f)
			}
		}
	}
	return out
}

// FragmentsOf returns the fragments of the given box, in page order.
// Fixed boxes have one fragment per page.
func (r *Result) FragmentsOf(id bo.BoxID) []*Fragment { return r.fragments[id] }

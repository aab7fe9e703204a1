// Transform a "before layout" box tree into a sequence of pages,
// by breaking boxes across lines and pages; and determining the size and dimension
// of each box fragment.
//
// Fragments carry `used values` in their PositionX,
// PositionY, Width and Height attributes, amongst others.
// (see http://www.w3.org/TR/CSS21/cascade.html#used-value)
//
// The laid out pages are ready to be printed or display on screen,
// which is done by the higher level `document` package.
package layout

import (
	"errors"
	"fmt"

	pr "github.com/benoitkugler/printlayout/css/properties"
	bo "github.com/benoitkugler/printlayout/html/boxes"
	"github.com/benoitkugler/printlayout/html/tree"
	"github.com/benoitkugler/printlayout/logger"
	"github.com/benoitkugler/printlayout/text"
)

// DefaultMaxPages is the page limit used when [Options.MaxPages] is zero.
const DefaultMaxPages = 5000

// ErrTooManyPages is returned when the layout produces more pages than
// allowed. The pages laid out so far are still returned.
var ErrTooManyPages = errors.New("too many pages")

// Options tunes the layout.
type Options struct {
	// MaxPages bounds the number of pages. 0 means [DefaultMaxPages].
	MaxPages int

	// PageSize, when not zero, overrides the size of the page context.
	PageSize [2]pr.Float

	// PageMargins, when not nil, overrides the margins of the page context,
	// in the top, right, bottom, left order.
	PageMargins *[4]pr.Float
}

// Layout lays out the whole document, returning the pages.
//
// This includes line breaks, page breaks, absolute size and position for all
// boxes.
//
// The only error returned is [ErrTooManyPages] (wrapped), in which case the
// result holds the pages laid out before reaching the limit.
func Layout(tr *bo.Tree, styleFor *tree.StyleFor, measurer text.Measurer, opts Options) (*Result, error) {
	logger.ProgressLogger.Printf("Step 4 - Creating layout")

	context := newLayoutContext(tr, measurer)
	maxPages := opts.MaxPages
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}

	var (
		pages     []*Page
		resumeAt  *resumeStack
		nextBreak = "any"
	)
	for {
		if len(pages) >= maxPages {
			return newResult(pages), fmt.Errorf("layout stopped after %d pages: %w", maxPages, ErrTooManyPages)
		}
		page := newPage(styleFor.PageStyle(), len(pages), opts)
		if needsBlankPage(nextBreak, page.Index) {
			context.layoutFixedBoxes(page)
			pages = append(pages, page)
			continue
		}
		resumeAt, nextBreak = context.makePage(page, resumeAt, nextBreak != "any")
		pages = append(pages, page)
		if resumeAt == nil {
			break
		}
	}
	logger.ProgressLogger.Printf("Layout done: %d page(s)", len(pages))
	return newResult(pages), nil
}

// resumeStack locates where to resume the layout of a box split
// across pages : the index of the child box for block containers
// (with a nested stack when the child itself is split), and the index
// of the first inline atom of the line for inline content.
//
// For boxes with an explicit height, `consumed` is the part of that height
// used by the previous fragments, and `exhausted` is set when only
// the height remains to be laid out.
type resumeStack struct {
	index     int
	child     *resumeStack
	consumed  pr.Float
	exhausted bool
}

func (r *resumeStack) String() string {
	if r == nil {
		return "<nil>"
	}
	return fmt.Sprintf("{%d: %s}", r.index, r.child)
}

// containingBlock is the rectangle used to resolve
// the size and position of the boxes it contains.
type containingBlock struct {
	x, y   pr.Float
	width  pr.Float
	height pr.MaybeFloat // auto when depending on the content
}

// layoutContext stores the global context needed during layout,
// such as various caches.
type layoutContext struct {
	tree     *bo.Tree
	measurer text.Measurer

	textStyles map[pr.ElementStyle]*text.TextStyle

	// derived styles of the content of first lines,
	// by (content style, ::first-line style)
	firstLineStyles map[[2]pr.ElementStyle]pr.ElementStyle

	excludedShapes      *[]*Fragment
	excludedShapesLists [][]*Fragment

	fixedBoxes []bo.BoxID

	preferred map[preferredKey][2]pr.Float

	pageIndex   int
	pageBottom  pr.Float
	forcedBreak bool
}

func newLayoutContext(tr *bo.Tree, measurer text.Measurer) *layoutContext {
	self := &layoutContext{
		tree:       tr,
		measurer:   measurer,
		textStyles: make(map[pr.ElementStyle]*text.TextStyle),

		firstLineStyles: make(map[[2]pr.ElementStyle]pr.ElementStyle),
	}
	if tr.Root != bo.NoBox {
		for _, id := range tr.Descendants(tr.Root) {
			if tr.Box(id).IsFixed() {
				self.fixedBoxes = append(self.fixedBoxes, id)
			}
		}
	}
	return self
}

func (l *layoutContext) textStyle(style pr.ElementStyle) *text.TextStyle {
	if ts, ok := l.textStyles[style]; ok {
		return ts
	}
	ts := text.NewTextStyle(style)
	l.textStyles[style] = ts
	return ts
}

func (l *layoutContext) firstLineStyle(style, firstLine pr.ElementStyle) pr.ElementStyle {
	key := [2]pr.ElementStyle{style, firstLine}
	if derived, ok := l.firstLineStyles[key]; ok {
		return derived
	}
	derived := tree.FirstLineStyle(style, firstLine)
	l.firstLineStyles[key] = derived
	return derived
}

// Use a small fudge factor to avoid floating numbers errors.
func (l *layoutContext) overflowsPage(positionY pr.Float) bool {
	return positionY > l.pageBottom*(1+1e-9)
}

// paginated returns false when laying out boxes never split
// between pages.
func (l *layoutContext) paginated() bool { return l.pageBottom != pr.Inf }

// withoutPagination runs `fn` with an infinite page, for boxes
// which are never split, like floats and inline blocks.
func (l *layoutContext) withoutPagination(fn func()) {
	saved := l.pageBottom
	l.pageBottom = pr.Inf
	fn()
	l.pageBottom = saved
}

func (l *layoutContext) createBlockFormattingContext() {
	l.excludedShapesLists = append(l.excludedShapesLists, nil)
	l.excludedShapes = &l.excludedShapesLists[len(l.excludedShapesLists)-1]
}

// finishBlockFormattingContext extends the height of `root`
// to include its floats, when its height is auto.
func (l *layoutContext) finishBlockFormattingContext(root *Fragment, autoHeight bool) {
	// See http://www.w3.org/TR/CSS2/visudet.html#root-height
	if autoHeight && len(*l.excludedShapes) != 0 {
		boxBottom := root.ContentBoxY() + root.Height
		maxShapeBottom := boxBottom
		for _, shape := range *l.excludedShapes {
			if v := shape.PositionY + shape.MarginHeight(); v > maxShapeBottom {
				maxShapeBottom = v
			}
		}
		root.Height += maxShapeBottom - boxBottom
	}
	l.excludedShapesLists = l.excludedShapesLists[:len(l.excludedShapesLists)-1]
	if L := len(l.excludedShapesLists); L != 0 {
		l.excludedShapes = &l.excludedShapesLists[L-1]
	} else {
		l.excludedShapes = nil
	}
}

// removeFragments cancels the layout of `fragments` (and their descendants)
// regarding the floats they registered.
func (l *layoutContext) removeFragments(fragments []*Fragment) {
	if len(fragments) == 0 || l.excludedShapes == nil {
		return
	}
	removed := map[*Fragment]bool{}
	for _, f := range fragments {
		f.Walk(func(d *Fragment) { removed[d] = true })
	}
	kept := (*l.excludedShapes)[:0]
	for _, shape := range *l.excludedShapes {
		if !removed[shape] {
			kept = append(kept, shape)
		}
	}
	*l.excludedShapes = kept
}

// makePage lays out one page, starting at `resumeAt`, and returns where to
// resume on the next page (nil if the document is complete) and the kind of
// break which ended the page.
func (l *layoutContext) makePage(page *Page, resumeAt *resumeStack, forced bool) (*resumeStack, string) {
	logger.ProgressLogger.Printf("Step 5 - Creating layout - Page %d", page.Index+1)

	l.pageIndex = page.Index
	l.forcedBreak = forced
	l.pageBottom = page.MarginTop + page.ContentHeight()
	l.excludedShapesLists = nil
	l.createBlockFormattingContext()
	defer func() {
		l.excludedShapesLists = nil
		l.excludedShapes = nil
	}()

	pageArea := page.area()
	nextBreak := "any"
	var rootResume *resumeStack
	if root := l.tree.Root; root != bo.NoBox {
		var result blockLayout
		page.Root, result = blockLevelLayout(l, root, pageArea, page.MarginTop, resumeAt, true, new([]pr.Float))
		rootResume, nextBreak = result.resumeAt, result.nextBreak
		if page.Root != nil {
			relativePositioning(page.Root, pageArea.width, page.ContentHeight())
			// the page area is the initial containing block
			layoutPendingAbsolutes(l, page.Root, pageArea)
		}
	}
	l.layoutFixedBoxes(page)

	return rootResume, nextBreak
}

// layoutFixedBoxes lays out the boxes with "position: fixed"
// against the page area. They are repeated on every page.
func (l *layoutContext) layoutFixedBoxes(page *Page) {
	pageArea := page.area()
	for _, id := range l.fixedBoxes {
		placeholder := newAbsolutePlaceholder(l.tree, id, pageArea.x, pageArea.y)
		absoluteLayout(l, placeholder, pageArea)
		page.Fixed = append(page.Fixed, placeholder)
	}
}

package layout

import (
	pr "github.com/benoitkugler/printlayout/css/properties"
	bo "github.com/benoitkugler/printlayout/html/boxes"
)

// Page breaking and layout for block-level and block-container boxes.

type blockLayout struct {
	resumeAt          *resumeStack
	nextBreak         string
	adjoiningMargins  []pr.Float
	collapsingThrough bool
}

func fragmentKind(box *bo.Box) FragmentKind {
	if box.IsReplaced() {
		return ReplacedFragment
	}
	return BlockFragment
}

// Lay out the block-level box `id`, whose top margin edge is at `positionY`
// (not counting the margins in `adjoiningMargins`).
//
// The returned fragment is nil if nothing fits on the page.
func blockLevelLayout(context *layoutContext, id bo.BoxID, cb containingBlock, positionY pr.Float, skip *resumeStack,
	pageIsEmpty bool, adjoiningMargins *[]pr.Float,
) (*Fragment, blockLayout) {
	box := context.tree.Box(id)
	f := newFragment(context.tree, id, fragmentKind(box))
	f.PositionX, f.PositionY = cb.x, positionY

	used := resolvePercentages(f, cb.width, cb.height)
	f.MarginTop = orDefault(used.marginTop, 0)
	f.MarginBottom = orDefault(used.marginBottom, 0)

	if context.pageIndex > 0 && pageIsEmpty && !context.forcedBreak {
		// When an unforced break occurs before or after a block-level box,
		// any margins adjoining the break are truncated to zero.
		if id == context.tree.Root || box.Parent == context.tree.Root || len(*adjoiningMargins) != 0 {
			f.MarginTop = 0
		}
	}

	collapsedMargin := collapseMargin(append(*adjoiningMargins, f.MarginTop))
	if clearance, ok := getClearance(context, f.Style.GetClear(), f.PositionY, collapsedMargin); ok {
		topBorderEdge := f.PositionY + collapsedMargin + clearance
		f.PositionY = topBorderEdge - f.MarginTop
		adjoiningMargins = new([]pr.Float)
	}

	if box.IsReplaced() {
		// margins collapsing is handled by the parent
		return blockReplacedLayout(f, used, cb), blockLayout{nextBreak: "any"}
	}

	blockLevelWidth(f, used, cb.width)

	// See https://www.w3.org/TR/CSS21/visuren.html#floats
	// The border box of a box establishing a new formatting context
	// must not overlap the margin box of any floats.
	avoidFloats := box.EstablishesFormattingContext() && context.excludedShapes != nil && len(*context.excludedShapes) != 0
	if avoidFloats {
		// the width is resolved first, and only shrunk to fit
		// between the floats at the top of the box
		width := f.Width
		if used.width == pr.AutoF {
			f.Width = 0
		}
		f.Height = orDefault(used.height, 0)
		x, _, available := avoidCollisions(context, f, cb, false)
		f.Width = width
		if used.width == pr.AutoF {
			f.Width = pr.Max(0, pr.Min(f.Width, available-(f.BorderWidth()-f.Width)))
		}
		f.PositionX = x
	}

	out, result := blockContainerLayout(context, f, used, skip, pageIsEmpty, adjoiningMargins)
	if out != nil && avoidFloats {
		x, y, _ := avoidCollisions(context, out, cb, false)
		out.Translate(x-out.PositionX, y-out.PositionY)
	}
	return out, result
}

// https://www.w3.org/TR/CSS21/visudet.html#block-replaced-width
func blockReplacedLayout(f *Fragment, used usedValues, cb containingBlock) *Fragment {
	f.Width, f.Height = replacedSize(f, used)
	blockLevelWidth_(f, f.Width, used.marginLeft, used.marginRight, cb.width)
	return f
}

// blockLevelWidth sets the horizontal margins and the width of `f`,
// honoring the min-width and max-width constraints.
func blockLevelWidth(f *Fragment, used usedValues, cbWidth pr.Float) {
	blockLevelWidth_(f, used.width, used.marginLeft, used.marginRight, cbWidth)
	if f.Width > used.maxWidth {
		blockLevelWidth_(f, used.maxWidth, used.marginLeft, used.marginRight, cbWidth)
	}
	if f.Width < used.minWidth {
		blockLevelWidth_(f, used.minWidth, used.marginLeft, used.marginRight, cbWidth)
	}
}

// https://www.w3.org/TR/CSS21/visudet.html#blockwidth
func blockLevelWidth_(f *Fragment, width, marginL, marginR pr.MaybeFloat, cbWidth pr.Float) {
	// Only margin-left, margin-right and width can be "auto".
	// We want:  width of containing block ==
	//               margin-left + border-left-width + padding-left + width
	//               + padding-right + border-right-width + margin-right
	paddingsPlusBorders := f.PaddingLeft + f.PaddingRight + f.BorderLeftWidth + f.BorderRightWidth
	if width != pr.AutoF {
		total := paddingsPlusBorders + width.V() + marginL.V() + marginR.V()
		if total > cbWidth {
			if marginL == pr.AutoF {
				marginL = pr.Float(0)
			}
			if marginR == pr.AutoF {
				marginR = pr.Float(0)
			}
		}
	} else {
		if marginL == pr.AutoF {
			marginL = pr.Float(0)
		}
		if marginR == pr.AutoF {
			marginR = pr.Float(0)
		}
		width = pr.Max(0, cbWidth-(paddingsPlusBorders+marginL.V()+marginR.V()))
	}
	f.Width = width.V()

	marginSum := cbWidth - paddingsPlusBorders - f.Width
	switch {
	case marginL == pr.AutoF && marginR == pr.AutoF:
		f.MarginLeft, f.MarginRight = marginSum/2, marginSum/2
	case marginL == pr.AutoF:
		f.MarginRight = marginR.V()
		f.MarginLeft = marginSum - f.MarginRight
	default:
		// margin-right is auto, or the equation is over-constrained:
		// in both cases margin-right absorbs the difference
		f.MarginLeft = marginL.V()
		f.MarginRight = marginSum - f.MarginLeft
	}
}

// Translate `f` if it is relatively positioned.
// Line and inline fragments are walked to find relatively positioned
// inline-level boxes.
func relativePositioning(f *Fragment, cbWidth pr.Float, cbHeight pr.MaybeFloat) {
	if f.Box != bo.NoBox && f.Style.GetPosition() == "relative" {
		in := resolvePositionPercentages(f, cbWidth, cbHeight)
		var translateX, translateY pr.Float
		if in.left != pr.AutoF {
			translateX = in.left.V()
		} else if in.right != pr.AutoF {
			translateX = -in.right.V()
		}
		if in.top != pr.AutoF {
			translateY = in.top.V()
		} else if in.bottom != pr.AutoF {
			translateY = -in.bottom.V()
		}
		f.Translate(translateX, translateY)
	}
	if f.Kind == LineFragment || f.Kind == InlineFragment {
		for _, child := range f.Children {
			relativePositioning(child, cbWidth, cbHeight)
		}
	}
}

// Set the height of `f`, laying out its children.
// The width of `f` must already be resolved.
func blockContainerLayout(context *layoutContext, f *Fragment, used usedValues, skip *resumeStack,
	pageIsEmpty bool, adjoiningMargins *[]pr.Float,
) (*Fragment, blockLayout) {
	box := context.tree.Box(f.Box)

	// See https://www.w3.org/TR/CSS21/visuren.html#block-formatting
	establishesBFC := box.EstablishesFormattingContext()
	if establishesBFC {
		context.createBlockFormattingContext()
	}
	cancel := func(children []*Fragment) (*Fragment, blockLayout) {
		context.removeFragments(children)
		if establishesBFC {
			context.finishBlockFormattingContext(f, false)
		}
		return nil, blockLayout{nextBreak: "any"}
	}

	isStart := skip == nil
	f.removeDecoration(!isStart, false)

	*adjoiningMargins = append(*adjoiningMargins, f.MarginTop)
	thisBoxAdjoiningMargins := adjoiningMargins

	isRoot := f.Box == context.tree.Root
	collapsingWithChildren := !(f.BorderTopWidth != 0 || f.PaddingTop != 0 || establishesBFC || isRoot)
	var positionY pr.Float
	if collapsingWithChildren {
		positionY = f.PositionY
	} else {
		f.PositionY += collapseMargin(*adjoiningMargins) - f.MarginTop
		adjoiningMargins = new([]pr.Float)
		positionY = f.ContentBoxY()
	}

	var (
		children  []*Fragment
		resumeAt  *resumeStack
		nextBreak = "any"
		hasInFlow bool
	)

	if skip != nil && skip.exhausted {
		// only the explicit height is left
	} else if hasInlineContent(context.tree, box) {
		start := 0
		if skip != nil {
			start = skip.index
		}
		content := flattenInline(context, f.Box, f.Width, context.atomicLayouter(f.Width))
		lineY := positionY + collapseMargin(*adjoiningMargins)
		if !content.isPhantom() {
			positionY = lineY
			adjoiningMargins = new([]pr.Float)
		}
		lines, endY, lineResume, abort := inlineContainerLayout(context, f, content, start, lineY, pageIsEmpty)
		if abort {
			return cancel(nil)
		}
		children, resumeAt = lines, lineResume
		if !content.isPhantom() {
			positionY = endY
			hasInFlow = len(lines) != 0
		}
	} else {
		skipIndex, childSkip := 0, (*resumeStack)(nil)
		if skip != nil {
			skipIndex, childSkip = skip.index, skip.child
		}
		positionX := f.ContentBoxX()
		cb := containingBlock{x: positionX, y: f.ContentBoxY(), width: f.Width, height: used.height}
		lastInFlow := bo.NoBox
		for index := skipIndex; index < len(box.Children); index++ {
			childID := box.Children[index]
			child := context.tree.Box(childID)

			if child.IsFixed() {
				// repeated on every page, see layoutFixedBoxes
				continue
			}
			if child.IsAbsolutelyPositioned() {
				children = append(children, newAbsolutePlaceholder(context.tree, childID,
					positionX, positionY+collapseMargin(*adjoiningMargins)))
				continue
			}
			if child.IsFloated() {
				float := floatLayout(context, childID, cb, positionX, positionY+collapseMargin(*adjoiningMargins))
				if (pageIsEmpty && len(children) == 0) || !context.overflowsPage(float.PositionY+float.MarginHeight()) {
					children = append(children, float)
					continue
				}
				// New page if overflow
				context.removeFragments([]*Fragment{float})
				resumeAt = &resumeStack{index: index}
				break
			}

			pageBreak := "auto"
			if lastInFlow != bo.NoBox {
				// Between in-flow siblings
				pageBreak = blockLevelPageBreak(context.tree, lastInFlow, childID)
				if forcePageBreak(pageBreak) && context.paginated() {
					nextBreak = pageBreak
					resumeAt = &resumeStack{index: index}
					break
				}
			} else if collapsingWithChildren {
				// clearance on the first child prevents its top margin
				// to collapse with the margin of this box
				childMarginTop := orDefault(resolveOnePercentage(child.Style.GetMarginTop(), f.Width), 0)
				newCollapsedMargin := collapseMargin(append(*adjoiningMargins, childMarginTop))
				if _, ok := getClearance(context, child.Style.GetClear(), positionY, newCollapsedMargin); ok {
					f.PositionY += collapseMargin(*adjoiningMargins) - f.MarginTop
					adjoiningMargins = new([]pr.Float)
					positionY = f.ContentBoxY()
					collapsingWithChildren = false
				}
			}

			pageIsEmptyWithNoChildren := pageIsEmpty && !hasFlowFragment(context.tree, children)
			newChild, result := blockLevelLayout(context, childID, cb, positionY, childSkip,
				pageIsEmptyWithNoChildren, adjoiningMargins)
			childSkip = nil

			if newChild != nil {
				if newChild.Kind == ReplacedFragment {
					// block containers handle that themselves
					*adjoiningMargins = append(*adjoiningMargins, newChild.MarginTop)
					newChild.Translate(0, collapseMargin(*adjoiningMargins)-newChild.MarginTop)
				}
				if !result.collapsingThrough {
					newContentPositionY := newChild.ContentBoxY() + newChild.Height
					newPositionY := newChild.BorderBoxY() + newChild.BorderHeight()
					if context.overflowsPage(newContentPositionY) && !pageIsEmptyWithNoChildren {
						// The child content overflows the page area, display it on the
						// next page.
						context.removeFragments([]*Fragment{newChild})
						newChild = nil
					} else {
						positionY = newPositionY
					}
				}
			}

			if newChild == nil {
				// Nothing fits in the remaining space of this page: break
				if avoidPageBreak(pageBreak) {
					if kept, r := findEarlierPageBreak(context, f.Box, children); r != nil {
						children, resumeAt = kept, r
						break
					}
					// We did not find any page break opportunity
					if !pageIsEmpty {
						// The page has content *before* this block:
						// cancel the block and try to find a break
						// in the parent.
						return cancel(children)
					}
					// else : ignore this "avoid" and break anyway.
				}
				if allPositioned(children) {
					// only absolute placeholders : keep them for the next page
					context.removeFragments(children)
					children = nil
				}
				if len(children) == 0 {
					// This was the first child of this box, cancel the box
					// completly
					return cancel(nil)
				}
				resumeAt = &resumeStack{index: index}
				break
			}

			margins := append(result.adjoiningMargins, newChild.MarginBottom)
			adjoiningMargins = &margins

			children = append(children, newChild)
			lastInFlow = childID
			hasInFlow = true
			if result.resumeAt != nil {
				resumeAt = &resumeStack{index: index, child: result.resumeAt}
				nextBreak = result.nextBreak
				break
			}
		}
	}

	boxIsFragmented := resumeAt != nil
	if collapsingWithChildren {
		f.PositionY += collapseMargin(*thisBoxAdjoiningMargins) - f.MarginTop
	}

	collapsingThrough := false
	if !hasInFlow {
		collapsedMargin := collapseMargin(*adjoiningMargins)
		// top and bottom margin of this box
		_, hasClearance := getClearance(context, f.Style.GetClear(), f.PositionY, collapsedMargin)
		if (used.height == pr.AutoF || used.height == pr.Float(0)) && !hasClearance && used.minHeight == 0 &&
			f.BorderTopWidth == 0 && f.PaddingTop == 0 && f.BorderBottomWidth == 0 && f.PaddingBottom == 0 {
			collapsingThrough = true
		} else {
			positionY += collapsedMargin
			adjoiningMargins = new([]pr.Float)
		}
	} else if used.height != pr.AutoF {
		// bottom margin of the last child and bottom margin of this box
		// are not adjoining
		adjoiningMargins = new([]pr.Float)
	}

	if boxIsFragmented {
		f.removeDecoration(false, true)
	}
	if f.BorderBottomWidth != 0 || f.PaddingBottom != 0 || establishesBFC || isRoot {
		positionY += collapseMargin(*adjoiningMargins)
		adjoiningMargins = new([]pr.Float)
	}

	f.Children = children
	autoHeight := used.height == pr.AutoF
	contentHeight := pr.Max(positionY-f.ContentBoxY(), 0)
	if autoHeight {
		f.Height = contentHeight
		if isStart && !boxIsFragmented {
			f.Height = pr.Max(pr.Min(f.Height, used.maxHeight), used.minHeight)
		}
	} else {
		var consumed pr.Float
		if skip != nil {
			consumed = skip.consumed
		}
		f.Height, boxIsFragmented = explicitHeightOnPage(context, f, used, consumed, contentHeight, pageIsEmpty, boxIsFragmented)
		if boxIsFragmented {
			if resumeAt == nil {
				// the content fits, the remaining height goes to the next page
				resumeAt = &resumeStack{index: len(box.Children), exhausted: true}
			}
			resumeAt.consumed = consumed + f.Height
		}
	}

	if boxIsFragmented && avoidPageBreak(string(f.Style.GetBreakInside())) && !pageIsEmpty {
		return cancel(children)
	}
	if boxIsFragmented {
		f.removeDecoration(false, true)
	}

	if establishesBFC {
		context.finishBlockFormattingContext(f, autoHeight)
	}
	f.Height = pr.Max(f.Height, 0)

	for _, child := range f.Children {
		relativePositioning(child, f.Width, f.Height)
	}

	if box.IsRelative() {
		// New containing block, resolve the layout of the absolute descendants
		layoutPendingAbsolutes(context, f, paddingBlock(f))
	}

	return f, blockLayout{
		resumeAt: resumeAt, nextBreak: nextBreak,
		adjoiningMargins: *adjoiningMargins, collapsingThrough: collapsingThrough,
	}
}

// explicitHeightOnPage returns the part of the explicit height of `f`
// falling on the current page, which is the height left by the previous
// fragments, cut at the bottom of the page when the box is split anyway
// or starts an empty page. Summing these parts over
// the fragments gives back the used height of the box.
// `fragmented` is updated to true if the box must continue on the next page.
func explicitHeightOnPage(context *layoutContext, f *Fragment, used usedValues, consumed, contentHeight pr.Float,
	pageIsEmpty, fragmented bool,
) (pr.Float, bool) {
	height := pr.Max(pr.Min(used.height.V(), used.maxHeight), used.minHeight)
	left := pr.Max(height-consumed, 0)
	f.explicitHeight, f.heightBefore, f.heightLeft = true, consumed, left

	onPage := left
	// a box whose content fits is pushed to the next page by its parent,
	// unless the page is empty
	if context.paginated() && (fragmented || pageIsEmpty) {
		available := context.pageBottom - f.ContentBoxY()
		onPage = pr.Min(left, pr.Max(contentHeight, available))
		if onPage <= 0 && !fragmented {
			// nothing would progress on the next page
			onPage = left
		}
	}
	if onPage < left && !fragmented {
		fragmented = true
	}
	return onPage, fragmented
}

// hasInlineContent returns true if the in-flow children
// of `box` are inline-level.
func hasInlineContent(tr *bo.Tree, box *bo.Box) bool {
	for _, child := range box.Children {
		if c := tr.Box(child); c.IsInNormalFlow() && c.IsInlineLevel() {
			return true
		}
	}
	return false
}

// hasFlowFragment returns true if one of `children` is neither
// a float nor a positioned box.
func hasFlowFragment(tr *bo.Tree, children []*Fragment) bool {
	for _, child := range children {
		if child.Positioned {
			continue
		}
		if child.Box == bo.NoBox || !tr.Box(child.Box).IsFloated() {
			return true
		}
	}
	return false
}

func allPositioned(children []*Fragment) bool {
	for _, child := range children {
		if !child.Positioned {
			return false
		}
	}
	return true
}

// childIndex returns the index of `child` in the children of `parent`.
func childIndex(tr *bo.Tree, parent, child bo.BoxID) int {
	for i, c := range tr.Box(parent).Children {
		if c == child {
			return i
		}
	}
	return -1
}

// Return the amount of collapsed margin for a list of adjoining margins.
func collapseMargin(adjoiningMargins []pr.Float) pr.Float {
	var maxPos, minNeg pr.Float
	for _, m := range adjoiningMargins {
		if m > maxPos {
			maxPos = m
		} else if m < minNeg {
			minNeg = m
		}
	}
	return maxPos + minNeg
}

// break values which win over others, see [blockLevelPageBreak]
var pageBreakPriority = map[[2]string]bool{
	{"page", "auto"}:       true,
	{"page", "avoid"}:      true,
	{"page", "avoid-page"}: true,
	{"avoid", "auto"}:      true,
	{"avoid-page", "auto"}: true,
}

// Return the value of “break-before“ or “break-after“
// that "wins" for boxes that meet at the margin between two sibling boxes.
// For boxes before the margin, the "break-after" value is considered;
// for boxes after the margin the "break-before" value is considered.
// * "avoid" takes priority over "auto"
// * "page" takes priority over "avoid" or "auto"
// * "left" or "right" take priority over "page", "avoid" or "auto"
// * Among "left" and "right", later values in the tree take priority.
//
// See https://drafts.csswg.org/css-page-3/#allowed-pg-brk
func blockLevelPageBreak(tr *bo.Tree, siblingBefore, siblingAfter bo.BoxID) string {
	var values []string

	for id := siblingBefore; ; {
		box := tr.Box(id)
		if !box.IsBlockLevel() {
			break
		}
		values = append(values, string(box.Style.GetBreakAfter()))
		if len(box.Children) == 0 {
			break
		}
		id = box.Children[len(box.Children)-1]
	}
	// Have them in tree order
	for left, right := 0, len(values)-1; left < right; left, right = left+1, right-1 {
		values[left], values[right] = values[right], values[left]
	}

	for id := siblingAfter; ; {
		box := tr.Box(id)
		if !box.IsBlockLevel() {
			break
		}
		values = append(values, string(box.Style.GetBreakBefore()))
		if len(box.Children) == 0 {
			break
		}
		id = box.Children[0]
	}

	result := "auto"
	for _, value := range values {
		if value == "left" || value == "right" || value == "recto" || value == "verso" || pageBreakPriority[[2]string{value, result}] {
			result = value
		}
	}
	return result
}

// Find the last possible page break in `children`, the fragments
// of the children of `parent`.
//
// Because of a `break-before: avoid` or a `break-after: avoid`
// we need to find an earlier page break opportunity inside `children`.
// The fragments after the break are cancelled.
func findEarlierPageBreak(context *layoutContext, parent bo.BoxID, children []*Fragment) ([]*Fragment, *resumeStack) {
	if len(children) != 0 && children[0].Kind == LineFragment {
		// Normally `orphans` and `widows` apply to the block container, but
		// line boxes inherit them.
		orphans := int(children[0].Style.GetOrphans())
		widows := int(children[0].Style.GetWidows())
		if widows < 1 {
			widows = 1
		}
		index := len(children) - widows // how many lines we keep
		if index < orphans || index <= 0 {
			return nil, nil
		}
		context.removeFragments(children[index:])
		return children[:index], &resumeStack{index: children[index].lineStart}
	}

	var previousInFlow *Fragment
	for index := len(children) - 1; index >= 0; index-- {
		child := children[index]
		if child.Positioned || context.tree.Box(child.Box).IsFloated() {
			continue
		}

		if previousInFlow != nil {
			pageBreak := blockLevelPageBreak(context.tree, child.Box, previousInFlow.Box)
			if !avoidPageBreak(pageBreak) {
				// break after child
				context.removeFragments(children[index+1:])
				return children[:index+1], &resumeStack{index: childIndex(context.tree, parent, children[index+1].Box)}
			}
		}
		previousInFlow = child

		if child.Kind == BlockFragment && len(child.Children) != 0 && !avoidPageBreak(string(child.Style.GetBreakInside())) {
			newGrandChildren, resumeAt := findEarlierPageBreak(context, child.Box, child.Children)
			if resumeAt != nil {
				child.Children = newGrandChildren
				child.fitContent()
				if child.explicitHeight {
					resumeAt.consumed = child.heightBefore + child.Height
				}
				context.removeFragments(children[index+1:])
				// Index in the original parent
				return children[:index+1], &resumeStack{index: childIndex(context.tree, parent, child.Box), child: resumeAt}
			}
		}
	}
	return nil, nil
}

// fitContent updates the height of a block fragment whose
// children have been cut by a page break.
func (f *Fragment) fitContent() {
	f.removeDecoration(false, true)
	bottom := f.ContentBoxY()
	for _, child := range f.Children {
		if child.Positioned {
			continue
		}
		bottom = pr.Max(bottom, child.PositionY+child.MarginHeight())
	}
	f.Height = bottom - f.ContentBoxY()
	if f.explicitHeight {
		f.Height = pr.Min(f.Height, f.heightLeft)
	}
}

// Test whether we should avoid breaks.
func avoidPageBreak(pageBreak string) bool {
	return pageBreak == "avoid" || pageBreak == "avoid-page"
}

// Test whether we should force breaks.
func forcePageBreak(pageBreak string) bool {
	return pageBreak == "page" || pageBreak == "left" || pageBreak == "right" || pageBreak == "recto" || pageBreak == "verso"
}

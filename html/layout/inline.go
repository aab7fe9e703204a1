package layout

import (
	"strings"

	pr "github.com/benoitkugler/printlayout/css/properties"
	bo "github.com/benoitkugler/printlayout/html/boxes"
	"github.com/benoitkugler/printlayout/html/tree"
	"github.com/benoitkugler/printlayout/text"
)

// Line breaking and layout for inline-level boxes.
//
// The inline content of a block container is first flattened into a
// sequence of atoms : runs of unbreakable text, edges of inline boxes, and
// atomic inline-level boxes. Lines are then built by greedily
// fitting atoms in the space left by the floats.

type atomKind uint8

const (
	atomText     atomKind = iota
	atomStart             // opening edge of an inline box
	atomEnd               // closing edge of an inline box
	atomAtomic            // inline-block or inline replaced box
	atomFloat             // float, with no width in the line
	atomAbsolute          // absolutely positioned box, with no width in the line
)

type inlineAtom struct {
	kind atomKind
	box  bo.BoxID
	text string // for atomText

	width pr.Float
	// width of the trailing spaces, not counted
	// at the end of a line
	trailingSpace pr.Float

	breakBefore  bool // a line may start at this atom
	forcedBefore bool // a line must start at this atom
}

// pending returns the width of the trailing space not to
// be counted if a line ends after this atom.
func (a inlineAtom) pending(previous pr.Float) pr.Float {
	switch a.kind {
	case atomText:
		return a.trailingSpace
	case atomEnd, atomFloat, atomAbsolute:
		return previous
	default:
		return 0
	}
}

type inlineContent struct {
	atoms []inlineAtom

	// inline boxes, with their horizontal decorations resolved
	edges map[bo.BoxID]*Fragment
	// laid out atomic inline-level boxes, at (0, 0)
	atomics map[bo.BoxID]*Fragment
	// floats already placed, by atom index
	floats map[int]*Fragment

	// the ::first-line style of the container, if any,
	// with the atoms measured for the first line
	firstLine  pr.ElementStyle
	firstAtoms []inlineAtom
}

// lineAtoms returns the atoms measured for the line starting at `start`.
func (c *inlineContent) lineAtoms(start int) []inlineAtom {
	if start == 0 && c.firstLine != nil {
		return c.firstAtoms
	}
	return c.atoms
}

// isPhantom returns true if the content only has boxes out of the flow,
// which generate no line box.
func (c *inlineContent) isPhantom() bool {
	for _, atom := range c.atoms {
		if atom.kind != atomFloat && atom.kind != atomAbsolute {
			return false
		}
	}
	return true
}

// atomicLayouter returns a function laying out
// atomic inline-level boxes in a container of width `cbWidth`.
func (l *layoutContext) atomicLayouter(cbWidth pr.Float) func(bo.BoxID) (*Fragment, pr.Float) {
	return func(id bo.BoxID) (*Fragment, pr.Float) {
		f := l.layoutAtomicInline(id, cbWidth)
		return f, f.MarginWidth()
	}
}

// layoutAtomicInline lays out the inline-block or inline replaced box `id`,
// with its top left corner at (0, 0).
// https://www.w3.org/TR/CSS21/visudet.html#inlineblock-width
func (l *layoutContext) layoutAtomicInline(id bo.BoxID, cbWidth pr.Float) *Fragment {
	box := l.tree.Box(id)
	f := newFragment(l.tree, id, fragmentKind(box))
	used := resolvePercentages(f, cbWidth, pr.AutoF)
	f.MarginTop = orDefault(used.marginTop, 0)
	f.MarginRight = orDefault(used.marginRight, 0)
	f.MarginBottom = orDefault(used.marginBottom, 0)
	f.MarginLeft = orDefault(used.marginLeft, 0)

	if box.IsReplaced() {
		f.Width, f.Height = replacedSize(f, used)
		return f
	}

	if used.width == pr.AutoF {
		f.Width = shrinkToFit(l, id, cbWidth, cbWidth-f.hFrame())
	} else {
		f.Width = used.width.V()
	}
	f.Width = pr.Max(0, pr.Max(pr.Min(f.Width, used.maxWidth), used.minWidth))

	l.withoutPagination(func() {
		blockContainerLayout(l, f, used, nil, true, new([]pr.Float))
	})
	return f
}

// rawAtom is an atom before line breaking, spanning [runeStart, runeEnd)
// in the text of the inline content.
type rawAtom struct {
	inlineAtom
	runes              []rune
	runeStart, runeEnd int
}

// flattenInline returns the atoms of the inline content of `container`,
// whose width is `cbWidth`.
// `atomic` is used to measure atomic inline-level boxes.
func flattenInline(context *layoutContext, container bo.BoxID, cbWidth pr.Float,
	atomic func(bo.BoxID) (*Fragment, pr.Float),
) *inlineContent {
	content := &inlineContent{
		edges:   make(map[bo.BoxID]*Fragment),
		atomics: make(map[bo.BoxID]*Fragment),
		floats:  make(map[int]*Fragment),
	}
	tr := context.tree

	var (
		raws  []rawAtom
		runes []rune
		wraps []bool // per rune
	)
	var walk func(id bo.BoxID)
	walk = func(id bo.BoxID) {
		for _, childID := range tr.Box(id).Children {
			child := tr.Box(childID)
			raw := rawAtom{inlineAtom: inlineAtom{box: childID}, runeStart: len(runes)}
			switch {
			case child.IsFixed():
				// repeated on every page, see layoutFixedBoxes
				continue
			case child.IsAbsolutelyPositioned():
				raw.kind = atomAbsolute
			case child.IsFloated():
				raw.kind = atomFloat
			case child.Kind == bo.TextT:
				if child.Text == "" {
					continue
				}
				raw.kind = atomText
				raw.runes = []rune(child.Text)
				wrap := context.textStyle(child.Style).WhiteSpace.TextWrap()
				for range raw.runes {
					wraps = append(wraps, wrap)
				}
				runes = append(runes, raw.runes...)
			case child.IsInlineBox():
				edge := newFragment(tr, childID, InlineFragment)
				used := resolvePercentages(edge, cbWidth, pr.AutoF)
				edge.MarginLeft = orDefault(used.marginLeft, 0)
				edge.MarginRight = orDefault(used.marginRight, 0)
				edge.removeInlineDecoration(child.SplitBefore, child.SplitAfter)
				content.edges[childID] = edge

				raw.kind = atomStart
				raw.width = edge.MarginLeft + edge.BorderLeftWidth + edge.PaddingLeft
				raw.runeEnd = raw.runeStart
				raws = append(raws, raw)

				walk(childID)

				raws = append(raws, rawAtom{
					inlineAtom: inlineAtom{
						kind: atomEnd, box: childID,
						width: edge.PaddingRight + edge.BorderRightWidth + edge.MarginRight,
					},
					runeStart: len(runes), runeEnd: len(runes),
				})
				continue
			case child.IsAtomicInline():
				raw.kind = atomAtomic
				f, width := atomic(childID)
				if f != nil {
					content.atomics[childID] = f
				}
				raw.width = width
				// the object replacement character
				runes = append(runes, '\ufffc')
				wraps = append(wraps, context.textStyle(tr.Box(id).Style).WhiteSpace.TextWrap())
			default:
				continue
			}
			raw.runeEnd = len(runes)
			raws = append(raws, raw)
		}
	}
	walk(container)

	// Break opportunities, respecting the white-space property
	// on both sides of the break.
	type breakKind uint8
	const (
		allowed breakKind = iota + 1
		forced
	)
	breaks := make(map[int]breakKind)
	for _, b := range text.BreakOpportunities(runes) {
		if b.Mandatory {
			breaks[b.Index] = forced
		} else if wraps[b.Index-1] && wraps[b.Index] {
			breaks[b.Index] = allowed
		}
	}

	// The break at a rune position goes to the first atom
	// starting there which may begin a line.
	assigned := make(map[int]bool)
	markBreak := func(atom *inlineAtom, position int) {
		kind, ok := breaks[position]
		if !ok || assigned[position] {
			return
		}
		assigned[position] = true
		atom.breakBefore = true
		atom.forcedBefore = kind == forced
	}

	measurer := context.measurer
	for _, raw := range raws {
		switch raw.kind {
		case atomText:
			style := context.textStyle(tr.Box(raw.box).Style)
			start := raw.runeStart
			for end := start + 1; end <= raw.runeEnd; end++ {
				if _, isBreak := breaks[end]; !isBreak && end != raw.runeEnd {
					continue
				}
				atom := raw.inlineAtom
				atom.text = string(raw.runes[start-raw.runeStart : end-raw.runeStart])
				measureText(measurer, &atom, style)
				markBreak(&atom, start)
				content.atoms = append(content.atoms, atom)
				start = end
			}
		case atomStart, atomAtomic:
			atom := raw.inlineAtom
			markBreak(&atom, raw.runeStart)
			content.atoms = append(content.atoms, atom)
		default:
			content.atoms = append(content.atoms, raw.inlineAtom)
		}
	}

	if firstLine := tr.Box(container).FirstLineStyle; firstLine != nil {
		content.firstLine = firstLine
		content.firstAtoms = append([]inlineAtom(nil), content.atoms...)
		for i := range content.firstAtoms {
			if atom := &content.firstAtoms[i]; atom.kind == atomText {
				style := context.firstLineStyle(tr.Box(atom.box).Style, firstLine)
				measureText(measurer, atom, context.textStyle(style))
			}
		}
	}
	return content
}

// measureText sets the width of the text atom `atom`, drawn with `style`.
func measureText(measurer text.Measurer, atom *inlineAtom, style *text.TextStyle) {
	measured := strings.ReplaceAll(atom.text, "\n", "")
	atom.width = pr.Float(text.TextWidth(measurer, measured, style))
	atom.trailingSpace = 0
	if style.WhiteSpace.SpaceCollapse() || style.WhiteSpace == text.WPreWrap {
		if trimmed := strings.TrimRight(measured, " "); len(trimmed) != len(measured) {
			atom.trailingSpace = atom.width - pr.Float(text.TextWidth(measurer, trimmed, style))
		}
	}
}

// use a small fudge factor to avoid floating numbers errors
const lineEpsilon = 1e-6

// fitLine returns the index of the first atom after the line starting
// at `start`, for a line of width `available`.
// At least one atom is always consumed, so that content too wide for
// any line overflows instead of looping.
func fitLine(atoms []inlineAtom, start int, available pr.Float) int {
	var width, pending pr.Float
	lastBreak := -1
	for i := start; i < len(atoms); i++ {
		atom := atoms[i]
		if i > start && atom.breakBefore {
			fits := width-pending <= available+lineEpsilon
			if !fits {
				if lastBreak > start {
					return lastBreak
				}
				// the first unbreakable run is too wide : break as soon as possible
				return i
			}
			if atom.forcedBefore {
				return i
			}
			lastBreak = i
		}
		width += atom.width
		pending = atom.pending(pending)
	}
	if width-pending > available+lineEpsilon && lastBreak > start {
		return lastBreak
	}
	return len(atoms)
}

// runWidth returns the width of atoms[start:end], ignoring
// the trailing spaces.
func runWidth(atoms []inlineAtom, start, end int) pr.Float {
	var width, pending pr.Float
	for _, atom := range atoms[start:end] {
		width += atom.width
		pending = atom.pending(pending)
	}
	return width - pending
}

// inlineContainerLayout lays out the lines of the block container `f`,
// starting at atom `start` with the top of the first line at `y`.
//
// It returns the lines, the bottom position of the last one and where
// to resume on the next page. `abort` is true when not enough lines fit
// on the page to satisfy the "orphans" and "widows" properties.
func inlineContainerLayout(context *layoutContext, f *Fragment, content *inlineContent, start int, y pr.Float,
	pageIsEmpty bool,
) (lines []*Fragment, endY pr.Float, resume *resumeStack, abort bool) {
	atoms := content.atoms
	for start < len(atoms) {
		line, end := layoutLine(context, f, content, start, y)
		lineBottom := line.PositionY + line.Height

		bottom := lineBottom
		if end == len(atoms) {
			bottom += f.PaddingBottom + f.BorderBottomWidth
		}
		for _, child := range line.Children {
			if child.Box != bo.NoBox && context.tree.Box(child.Box).IsFloated() {
				bottom = pr.Max(bottom, child.PositionY+child.MarginHeight())
			}
		}

		if context.overflowsPage(bottom) && !(pageIsEmpty && len(lines) == 0) {
			context.removeFragments([]*Fragment{line})
			return breakLines(context, f, atoms, lines, start, pageIsEmpty)
		}

		lines = append(lines, line)
		y = lineBottom
		start = end
	}
	return lines, y, nil, false
}

// breakLines ends the page before the line starting at `start`,
// honoring the "orphans" and "widows" properties of `f`.
func breakLines(context *layoutContext, f *Fragment, atoms []inlineAtom, lines []*Fragment, start int,
	pageIsEmpty bool,
) ([]*Fragment, pr.Float, *resumeStack, bool) {
	orphans := int(f.Style.GetOrphans())
	widows := int(f.Style.GetWidows())

	overOrphans := len(lines) - orphans
	if overOrphans < 0 && !pageIsEmpty {
		// reached the bottom of the page before having enough lines
		context.removeFragments(lines)
		return nil, 0, nil, true
	}

	// how many lines are needed on the next page to satisfy widows,
	// not counting the line which did not fit
	needed := widows - 1
	for next := fitLine(atoms, start, f.Width); needed > 0 && next < len(atoms); needed-- {
		next = fitLine(atoms, next, f.Width)
	}
	if needed > overOrphans && !pageIsEmpty {
		// total number of lines < orphans + widows
		context.removeFragments(lines)
		return nil, 0, nil, true
	}
	if needed > 0 && needed <= overOrphans {
		// keep lines for the next page
		context.removeFragments(lines[len(lines)-needed:])
		lines = lines[:len(lines)-needed]
	}

	if len(lines) == 0 {
		return nil, 0, nil, true
	}
	// resume after the last kept line
	last := lines[len(lines)-1]
	return lines, last.PositionY + last.Height, &resumeStack{index: last.lineEnd}, false
}

// layoutLine lays out the line starting at atom `start`, with its
// top at `y` or below if the floats leave not enough room.
// It returns the line and the index of the first atom of the next line.
func layoutLine(context *layoutContext, f *Fragment, content *inlineContent, start int, y pr.Float) (*Fragment, int) {
	atoms := content.lineAtoms(start)
	lineStyle := f.Style
	if start == 0 && content.firstLine != nil {
		lineStyle = context.firstLineStyle(f.Style, content.firstLine)
	}
	strut := tree.UsedLineHeight(lineStyle)
	x0, x1 := f.ContentBoxX(), f.ContentBoxX()+f.Width
	var indent pr.Float
	if start == 0 {
		indent = orDefault(resolveOnePercentage(f.Style.GetTextIndent(), f.Width), 0)
	}
	cb := containingBlock{x: x0, y: f.ContentBoxY(), width: f.Width, height: pr.AutoF}

	var (
		placed   []*Fragment // floats placed at the top of this line
		deferred []int       // floats placed below this line
		end      int
		left     pr.Float
		right    pr.Float
	)
	isDeferred := func(i int) bool {
		for _, d := range deferred {
			if d == i {
				return true
			}
		}
		return false
	}
	for {
		left, right = lineBand(context, x0, x1, y, strut)
		available := right - left - indent
		end = fitLine(atoms, start, available)

		retry := false
		for i := start; i < end; i++ {
			if atoms[i].kind != atomFloat || content.floats[i] != nil || isDeferred(i) {
				continue
			}
			float := floatLayout(context, atoms[i].box, cb, x0, y)
			contentBefore := runWidth(atoms, start, i)
			fits := contentBefore+float.MarginWidth() <= available+lineEpsilon || contentBefore == 0
			if float.PositionY <= y+lineEpsilon && fits {
				content.floats[i] = float
				placed = append(placed, float)
				retry = true
				break
			}
			context.removeFragments([]*Fragment{float})
			deferred = append(deferred, i)
		}
		if retry {
			continue
		}

		narrowed := left > x0 || right < x1
		if narrowed && runWidth(atoms, start, end) > available+lineEpsilon {
			// try below the next float
			if next := nextFloatBottom(context, y, strut); next > y {
				y = next
				continue
			}
		}
		break
	}

	line := &Fragment{
		Kind: LineFragment, Box: bo.NoBox,
		Element: f.Element, Style: lineStyle,
		IsStart: true, IsEnd: true,
		PositionX: left, PositionY: y, Width: right - left,
		lineStart: start, lineEnd: end,
	}
	context.buildLine(line, content, start, end, y)

	isLast := end == len(atoms) || atoms[end].forcedBefore
	context.alignHorizontally(line, left+indent, right, isLast)
	context.alignVertically(line, y)

	line.Children = append(line.Children, placed...)
	lineBottom := line.PositionY + line.Height
	for _, i := range deferred {
		float := floatLayout(context, atoms[i].box, cb, x0, lineBottom)
		content.floats[i] = float
		line.Children = append(line.Children, float)
	}
	return line, end
}

// buildLine fills `line` with the fragments of atoms[start:end].
func (l *layoutContext) buildLine(line *Fragment, content *inlineContent, start, end int, y pr.Float) {
	atoms := content.atoms

	// inline boxes opened on a previous line
	var openBoxes []bo.BoxID
	for _, atom := range atoms[:start] {
		switch atom.kind {
		case atomStart:
			openBoxes = append(openBoxes, atom.box)
		case atomEnd:
			openBoxes = openBoxes[:len(openBoxes)-1]
		}
	}

	stack := []*Fragment{line}
	push := func(id bo.BoxID, continued bool) {
		edge := *content.edges[id]
		if continued {
			edge.removeInlineDecoration(true, false)
		}
		parent := stack[len(stack)-1]
		parent.Children = append(parent.Children, &edge)
		stack = append(stack, &edge)
	}
	for _, id := range openBoxes {
		push(id, true)
	}

	for i := start; i < end; i++ {
		atom := atoms[i]
		parent := stack[len(stack)-1]
		switch atom.kind {
		case atomStart:
			push(atom.box, false)
		case atomEnd:
			stack = stack[:len(stack)-1]
		case atomText:
			if n := len(parent.Children); n != 0 {
				if last := parent.Children[n-1]; last.Kind == TextFragment && last.Box == atom.box {
					last.Text += atom.text
					continue
				}
			}
			tf := newFragment(l.tree, atom.box, TextFragment)
			if start == 0 && content.firstLine != nil {
				tf.Style = l.firstLineStyle(tf.Style, content.firstLine)
			}
			tf.TextStyle = l.textStyle(tf.Style)
			tf.Text = atom.text
			parent.Children = append(parent.Children, tf)
		case atomAtomic:
			if f := content.atomics[atom.box]; f != nil {
				parent.Children = append(parent.Children, f)
			}
		case atomAbsolute:
			parent.Children = append(parent.Children, newAbsolutePlaceholder(l.tree, atom.box, 0, y))
		}
	}
	// inline boxes continuing on the next line
	for _, open := range stack[1:] {
		open.removeInlineDecoration(false, true)
	}

	stripLineText(line)
	stripTrailingSpaces(line)
	removeEmptyText(line)
}

// stripLineText removes the preserved newlines.
func stripLineText(f *Fragment) {
	for _, child := range f.Children {
		switch child.Kind {
		case TextFragment:
			child.Text = strings.ReplaceAll(child.Text, "\n", "")
		case InlineFragment:
			stripLineText(child)
		}
	}
}

// stripTrailingSpaces removes the collapsible spaces at the end of the line,
// returning true when visible content has been found.
func stripTrailingSpaces(f *Fragment) bool {
	for i := len(f.Children) - 1; i >= 0; i-- {
		child := f.Children[i]
		if child.Positioned {
			continue
		}
		switch child.Kind {
		case TextFragment:
			if ws := child.TextStyle.WhiteSpace; ws.SpaceCollapse() || ws == text.WPreWrap {
				child.Text = strings.TrimRight(child.Text, " ")
			}
			if child.Text != "" {
				return true
			}
		case InlineFragment:
			if stripTrailingSpaces(child) {
				return true
			}
		default:
			return true
		}
	}
	return false
}

func removeEmptyText(f *Fragment) {
	kept := f.Children[:0]
	for _, child := range f.Children {
		if child.Kind == TextFragment && child.Text == "" {
			continue
		}
		if child.Kind == InlineFragment {
			removeEmptyText(child)
		}
		kept = append(kept, child)
	}
	f.Children = kept
}

// isPhantomLine returns true for lines with no text, no atomic box
// and no inline box with horizontal decorations : such lines have no height.
func isPhantomLine(f *Fragment) bool {
	for _, child := range f.Children {
		if child.Positioned {
			continue
		}
		switch child.Kind {
		case InlineFragment:
			if child.hFrame() != 0 || !isPhantomLine(child) {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// placeHorizontally sets the horizontal position of the children of `f`,
// starting at `x`, and returns the position after the last one.
func (l *layoutContext) placeHorizontally(f *Fragment, x pr.Float) pr.Float {
	for _, child := range f.Children {
		switch {
		case child.Positioned:
			// static position
			child.PositionX = x
		case child.Kind == TextFragment:
			child.PositionX = x
			child.Width = pr.Float(text.TextWidth(l.measurer, child.Text, child.TextStyle)) +
				pr.Float(strings.Count(child.Text, " "))*child.WordSpacing
			x += child.Width
		case child.Kind == InlineFragment:
			child.PositionX = x
			inner := child.ContentBoxX()
			after := l.placeHorizontally(child, inner)
			child.Width = after - inner
			x = after + child.PaddingRight + child.BorderRightWidth + child.MarginRight
		default: // atomic
			child.Translate(x-child.PositionX, 0)
			x += child.MarginWidth()
		}
	}
	return x
}

// countSpaces returns the number of spaces which may be stretched.
func countSpaces(f *Fragment) int {
	n := 0
	for _, child := range f.Children {
		switch child.Kind {
		case TextFragment:
			if child.TextStyle.WhiteSpace.SpaceCollapse() {
				n += strings.Count(child.Text, " ")
			}
		case InlineFragment:
			n += countSpaces(child)
		}
	}
	return n
}

func setWordSpacing(f *Fragment, spacing pr.Float) {
	for _, child := range f.Children {
		switch child.Kind {
		case TextFragment:
			if child.TextStyle.WhiteSpace.SpaceCollapse() {
				child.WordSpacing = spacing
			}
		case InlineFragment:
			setWordSpacing(child, spacing)
		}
	}
}

// alignHorizontally places the content of `line` between `left` and `right`,
// according to the "text-align" property.
func (l *layoutContext) alignHorizontally(line *Fragment, left, right pr.Float, isLast bool) {
	contentWidth := l.placeHorizontally(line, left) - left
	extra := pr.Max(0, right-left-contentWidth)
	if extra == 0 {
		return
	}

	var shift pr.Float
	switch line.Style.GetTextAlign() {
	case "right", "end":
		shift = extra
	case "center":
		shift = extra / 2
	case "justify":
		if isLast {
			return
		}
		if spaces := countSpaces(line); spaces != 0 {
			setWordSpacing(line, extra/pr.Float(spaces))
			l.placeHorizontally(line, left)
		}
		return
	}
	if shift != 0 {
		l.placeHorizontally(line, left+shift)
	}
}

// lineExtent is the vertical extent of an inline-level box,
// relative to the baseline of the line.
type lineExtent struct{ top, bottom pr.Float }

func (e *lineExtent) add(top, bottom pr.Float) {
	e.top = pr.Min(e.top, top)
	e.bottom = pr.Max(e.bottom, bottom)
}

// metrics returns the ascent, the descent and the half-leading of `style`.
func (l *layoutContext) metrics(style pr.ElementStyle) (ascent, descent, halfLeading pr.Float) {
	m := l.measurer.Metrics(l.textStyle(style).FontDescription)
	ascent, descent = pr.Float(m.Ascent), pr.Float(m.Descent)
	halfLeading = (tree.UsedLineHeight(style) - (ascent + descent)) / 2
	return ascent, descent, halfLeading
}

// atomicBaseline returns the distance from the top margin edge
// of an atomic inline-level box to its baseline.
func (l *layoutContext) atomicBaseline(f *Fragment) pr.Float {
	if f.Kind == BlockFragment && f.Style.GetOverflow() == "visible" {
		// baseline of the last line box
		var lastLine *Fragment
		var find func(f *Fragment)
		find = func(f *Fragment) {
			for _, child := range f.Children {
				if child.Positioned || (child.Box != bo.NoBox && l.tree.Box(child.Box).IsFloated()) {
					continue
				}
				if child.Kind == LineFragment {
					lastLine = child
				} else if child.Kind == BlockFragment {
					find(child)
				}
			}
		}
		find(f)
		if lastLine != nil {
			return lastLine.Baseline - f.PositionY
		}
	}
	return f.MarginHeight()
}

// verticalAligner computes the positions of the content of a line,
// relative to its baseline.
type verticalAligner struct {
	context *layoutContext
	// baseline of inline and text fragments,
	// top margin edge of atomic ones
	positions map[*Fragment]pr.Float
	// boxes aligned with the top or the bottom of the line
	deferred []deferredAlign
}

type deferredAlign struct {
	f      *Fragment
	top    bool
	origin pr.Float   // position of f when extent was computed
	extent lineExtent // relative to the line baseline
}

// align sets the positions of the children of `parent`, whose baseline
// is at `baseline`, and returns their extent.
func (va *verticalAligner) align(parent *Fragment, baseline pr.Float) lineExtent {
	pAscent, pDescent, _ := va.context.metrics(parent.Style)
	parentFontSize := parent.Style.GetFontSize().Value
	extent := lineExtent{top: baseline, bottom: baseline}

	for _, child := range parent.Children {
		if child.Positioned {
			continue
		}
		valign := child.Style.GetVerticalAlign()
		if child.Kind == TextFragment {
			// anonymous style : always on the baseline
			ascent, descent, halfLeading := va.context.metrics(child.Style)
			va.positions[child] = baseline
			extent.add(baseline-ascent-halfLeading, baseline+descent+halfLeading)
			continue
		}

		if child.Kind == InlineFragment {
			ascent, descent, halfLeading := va.context.metrics(child.Style)
			var b pr.Float
			switch valign.S {
			case "top", "bottom":
				sub := verticalAligner{context: va.context, positions: va.positions}
				ext := sub.align(child, 0)
				ext.add(-ascent-halfLeading, descent+halfLeading)
				va.positions[child] = 0
				va.deferred = append(va.deferred, deferredAlign{f: child, top: valign.S == "top", extent: ext})
				// nested boxes are shifted with their parent first
				va.deferred = append(va.deferred, sub.deferred...)
				continue
			case "middle":
				b = baseline - 0.25*parentFontSize - (descent-ascent)/2
			case "text-top":
				b = baseline - pAscent + ascent + halfLeading
			case "text-bottom":
				b = baseline + pDescent - descent - halfLeading
			case "":
				b = baseline - valign.Value
			default: // baseline
				b = baseline
			}
			va.positions[child] = b
			extent.add(b-ascent-halfLeading, b+descent+halfLeading)
			childExtent := va.align(child, b)
			extent.add(childExtent.top, childExtent.bottom)
			continue
		}

		// atomic inline-level box
		height := child.MarginHeight()
		ascent := va.context.atomicBaseline(child)
		var top pr.Float
		switch valign.S {
		case "top", "bottom":
			va.positions[child] = -ascent
			va.deferred = append(va.deferred, deferredAlign{
				f: child, top: valign.S == "top", origin: -ascent,
				extent: lineExtent{top: -ascent, bottom: height - ascent},
			})
			continue
		case "middle":
			top = baseline - 0.25*parentFontSize - height/2
		case "text-top":
			top = baseline - pAscent
		case "text-bottom":
			top = baseline + pDescent - height
		case "":
			top = baseline - valign.Value - ascent
		default:
			top = baseline - ascent
		}
		va.positions[child] = top
		extent.add(top, top+height)
	}
	return extent
}

// shift moves the relative positions of `f` and its inline content.
func (va *verticalAligner) shift(f *Fragment, delta pr.Float) {
	va.positions[f] += delta
	if f.Kind == InlineFragment {
		for _, child := range f.Children {
			if !child.Positioned {
				va.shift(child, delta)
			}
		}
	}
}

// apply converts the relative positions into absolute ones,
// for the content of `f`, given the absolute position of the line baseline.
func (va *verticalAligner) apply(f *Fragment, lineBaseline pr.Float) {
	for _, child := range f.Children {
		if child.Positioned {
			continue
		}
		position := lineBaseline + va.positions[child]
		switch child.Kind {
		case TextFragment:
			ascent, descent, _ := va.context.metrics(child.Style)
			child.Baseline = position
			child.PositionY = position - ascent
			child.Height = ascent + descent
		case InlineFragment:
			ascent, descent, _ := va.context.metrics(child.Style)
			child.Baseline = position
			child.PositionY = position - ascent - child.PaddingTop - child.BorderTopWidth
			child.Height = ascent + descent
			va.apply(child, lineBaseline)
		default:
			child.Translate(0, position-child.PositionY)
		}
	}
}

// alignVertically sets the height and the baseline of `line`, whose top is at `y`,
// and the vertical positions of its content.
func (l *layoutContext) alignVertically(line *Fragment, y pr.Float) {
	if isPhantomLine(line) {
		line.Height, line.Baseline = 0, y
		for _, child := range line.Children {
			if child.Positioned {
				child.PositionY = y
			}
		}
		return
	}

	va := verticalAligner{context: l, positions: make(map[*Fragment]pr.Float)}
	// the strut
	ascent, descent, halfLeading := l.metrics(line.Style)
	extent := lineExtent{top: -ascent - halfLeading, bottom: descent + halfLeading}
	content := va.align(line, 0)
	extent.add(content.top, content.bottom)

	// boxes aligned with the line box may extend it
	for _, d := range va.deferred {
		if height := d.extent.bottom - d.extent.top; height > extent.bottom-extent.top {
			if d.top {
				extent.bottom = extent.top + height
			} else {
				extent.top = extent.bottom - height
			}
		}
	}
	for _, d := range va.deferred {
		moved := va.positions[d.f] - d.origin
		if d.top {
			va.shift(d.f, extent.top-d.extent.top-moved)
		} else {
			va.shift(d.f, extent.bottom-d.extent.bottom-moved)
		}
	}

	line.Height = extent.bottom - extent.top
	line.Baseline = y - extent.top
	va.apply(line, line.Baseline)
}

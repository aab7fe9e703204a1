package layout

import (
	pr "github.com/benoitkugler/printlayout/css/properties"
	bo "github.com/benoitkugler/printlayout/html/boxes"
)

// Preferred widths, used by the shrink-to-fit algorithm.
// See https://www.w3.org/TR/CSS21/visudet.html#shrink-to-fit-float

// shrinkToFit returns the shrink-to-fit width of the content box of `id`,
// given the width available for it.
func shrinkToFit(context *layoutContext, id bo.BoxID, cbWidth, available pr.Float) pr.Float {
	minWidth, maxWidth := preferredWidths(context, id, cbWidth)
	return pr.Min(pr.Max(minWidth, available), maxWidth)
}

type preferredKey struct {
	box     bo.BoxID
	cbWidth pr.Float
}

// preferredWidths returns the minimum and maximum content widths of `id`,
// that is the width of its content box when it is laid out with
// all, or none, of the possible line breaks.
func preferredWidths(context *layoutContext, id bo.BoxID, cbWidth pr.Float) (minWidth, maxWidth pr.Float) {
	key := preferredKey{id, cbWidth}
	if cached, ok := context.preferred[key]; ok {
		return cached[0], cached[1]
	}

	box := context.tree.Box(id)
	f := newFragment(context.tree, id, fragmentKind(box))
	used := resolvePercentages(f, cbWidth, pr.AutoF)

	switch {
	case box.IsReplaced():
		minWidth, _ = replacedSize(f, used)
		maxWidth = minWidth
	case used.width != pr.AutoF:
		minWidth, maxWidth = used.width.V(), used.width.V()
	case hasInlineContent(context.tree, box):
		minWidth, maxWidth = inlinePreferredWidths(context, f, cbWidth)
	default:
		for _, child := range box.Children {
			c := context.tree.Box(child)
			if c.IsAbsolutelyPositioned() {
				continue
			}
			childMin, childMax := outerPreferredWidths(context, child, cbWidth)
			minWidth = pr.Max(minWidth, childMin)
			maxWidth = pr.Max(maxWidth, childMax)
		}
	}

	minWidth = pr.Max(pr.Min(minWidth, used.maxWidth), used.minWidth)
	maxWidth = pr.Max(pr.Min(maxWidth, used.maxWidth), used.minWidth)
	maxWidth = pr.Max(minWidth, maxWidth)

	if context.preferred == nil {
		context.preferred = make(map[preferredKey][2]pr.Float)
	}
	context.preferred[key] = [2]pr.Float{minWidth, maxWidth}
	return minWidth, maxWidth
}

// outerPreferredWidths adds the horizontal margins, borders and
// paddings of `id` to its preferred widths.
func outerPreferredWidths(context *layoutContext, id bo.BoxID, cbWidth pr.Float) (pr.Float, pr.Float) {
	minWidth, maxWidth := preferredWidths(context, id, cbWidth)
	f := newFragment(context.tree, id, fragmentKind(context.tree.Box(id)))
	used := resolvePercentages(f, cbWidth, pr.AutoF)
	frame := orDefault(used.marginLeft, 0) + orDefault(used.marginRight, 0) +
		f.PaddingLeft + f.PaddingRight + f.BorderLeftWidth + f.BorderRightWidth
	return minWidth + frame, maxWidth + frame
}

// inlinePreferredWidths returns the width of the widest unbreakable run
// and the width of the widest line without soft breaks.
func inlinePreferredWidths(context *layoutContext, f *Fragment, cbWidth pr.Float) (pr.Float, pr.Float) {
	indent := orDefault(resolveOnePercentage(f.Style.GetTextIndent(), cbWidth), 0)

	minContent := flattenInline(context, f.Box, cbWidth, func(id bo.BoxID) (*Fragment, pr.Float) {
		w, _ := outerPreferredWidths(context, id, cbWidth)
		return nil, w
	})
	maxContent := flattenInline(context, f.Box, cbWidth, func(id bo.BoxID) (*Fragment, pr.Float) {
		_, w := outerPreferredWidths(context, id, cbWidth)
		return nil, w
	})

	minWidth := widestRun(minContent.atoms, true, indent)
	maxWidth := widestRun(maxContent.atoms, false, indent)

	// floats are laid out on their own
	for _, atom := range minContent.atoms {
		if atom.kind == atomFloat {
			floatMin, floatMax := outerPreferredWidths(context, atom.box, cbWidth)
			minWidth = pr.Max(minWidth, floatMin)
			maxWidth = pr.Max(maxWidth, floatMax)
		}
	}
	return minWidth, maxWidth
}

// widestRun splits `atoms` at the forced breaks (and at every break
// opportunity if `allBreaks` is true) and returns the width of the widest part.
func widestRun(atoms []inlineAtom, allBreaks bool, indent pr.Float) pr.Float {
	var widest, width, pending pr.Float
	width = indent
	for i, atom := range atoms {
		if i > 0 && (atom.forcedBefore || (allBreaks && atom.breakBefore)) {
			widest = pr.Max(widest, width-pending)
			width, pending = 0, 0
		}
		width += atom.width
		pending = atom.pending(pending)
	}
	return pr.Max(widest, width-pending)
}

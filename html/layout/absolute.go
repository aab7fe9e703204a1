package layout

import (
	pr "github.com/benoitkugler/printlayout/css/properties"
	bo "github.com/benoitkugler/printlayout/html/boxes"
)

// ---------------------- Absolutely positioned boxes management. ----------------

// newAbsolutePlaceholder returns the fragment left in the flow where an
// absolutely positioned box was taken out of it. Its position is the
// static position of the box, until [absoluteLayout] is called.
func newAbsolutePlaceholder(tr *bo.Tree, id bo.BoxID, staticX, staticY pr.Float) *Fragment {
	f := newFragment(tr, id, fragmentKind(tr.Box(id)))
	f.Positioned = true
	f.PositionX, f.PositionY = staticX, staticY
	return f
}

// paddingBlock returns the padding box of `f`, which is the containing block
// of its absolutely positioned descendants.
func paddingBlock(f *Fragment) containingBlock {
	return containingBlock{x: f.PaddingBoxX(), y: f.PaddingBoxY(), width: f.PaddingWidth(), height: f.PaddingHeight()}
}

// layoutPendingAbsolutes lays out the absolutely positioned descendants
// of `root` waiting for their containing block `cb`.
// Positioned descendants are not walked, since they are the containing block
// of their own absolute descendants.
func layoutPendingAbsolutes(context *layoutContext, root *Fragment, cb containingBlock) {
	var pending []*Fragment
	var walk func(f *Fragment)
	walk = func(f *Fragment) {
		for _, child := range f.Children {
			if child.Positioned {
				if !child.laidOut {
					pending = append(pending, child)
				}
				continue
			}
			walk(child)
		}
	}
	walk(root)
	for _, placeholder := range pending {
		absoluteLayout(context, placeholder, cb)
	}
}

// Set the position and the dimensions of the absolutely positioned `placeholder`,
// replacing its static position.
// https://www.w3.org/TR/CSS2/visudet.html#containing-block-details
func absoluteLayout(context *layoutContext, placeholder *Fragment, cb containingBlock) {
	if placeholder.laidOut {
		return
	}
	placeholder.laidOut = true

	used := resolvePercentages(placeholder, cb.width, cb.height)
	in := resolvePositionPercentages(placeholder, cb.width, cb.height)

	// absolute boxes are never split between pages
	context.withoutPagination(func() {
		if context.tree.Box(placeholder.Box).IsReplaced() {
			absoluteReplaced(placeholder, used, in, cb)
		} else {
			absoluteBlock(context, placeholder, used, in, cb)
		}
	})
}

func absoluteBlock(context *layoutContext, f *Fragment, used usedValues, in insets, cb containingBlock) {
	translateBoxWidth, translateX := absoluteWidth(context, f, used, in, cb)
	translateBoxHeight, translateY := absoluteHeight(f, &used, in, cb)

	// floats inside are contained in the new formatting context
	blockContainerLayout(context, f, used, nil, true, new([]pr.Float))

	if translateBoxWidth {
		translateX -= f.Width
	}
	if translateBoxHeight {
		translateY -= f.Height
	}
	f.Translate(translateX, translateY)

	// This box is the containing block for absolute descendants.
	layoutPendingAbsolutes(context, f, paddingBlock(f))
}

// absoluteWidth resolves the width and the horizontal margins of `f`,
// honoring the min-width and max-width constraints.
func absoluteWidth(context *layoutContext, f *Fragment, used usedValues, in insets, cb containingBlock) (bool, pr.Float) {
	translateBoxWidth, translateX := absoluteWidth_(context, f, used.width, used, in, cb)
	if f.Width > used.maxWidth {
		translateBoxWidth, translateX = absoluteWidth_(context, f, used.maxWidth, used, in, cb)
	}
	if f.Width < used.minWidth {
		translateBoxWidth, translateX = absoluteWidth_(context, f, used.minWidth, used, in, cb)
	}
	return translateBoxWidth, translateX
}

// https://www.w3.org/TR/CSS2/visudet.html#abs-non-replaced-width
func absoluteWidth_(context *layoutContext, f *Fragment, width pr.MaybeFloat, used usedValues, in insets, cb containingBlock) (bool, pr.Float) {
	paddingsBorders := f.PaddingLeft + f.PaddingRight + f.BorderLeftWidth + f.BorderRightWidth

	marginL, marginR := used.marginLeft, used.marginRight
	left, right := in.left, in.right

	// auto margins are 0, unless resolved below
	f.MarginLeft, f.MarginRight = marginL.V(), marginR.V()
	if width != pr.AutoF {
		f.Width = width.V()
	}

	var translateX pr.Float
	translateBoxWidth := false
	defaultTranslateX := cb.x - f.PositionX
	if left == pr.AutoF && right == pr.AutoF && width == pr.AutoF {
		// keep the static position
		availableWidth := cb.width - (paddingsBorders + f.MarginLeft + f.MarginRight)
		f.Width = shrinkToFit(context, f.Box, cb.width, availableWidth)
	} else if left != pr.AutoF && right != pr.AutoF && width != pr.AutoF {
		widthForMargins := cb.width - (right.V() + left.V() + width.V() + paddingsBorders)
		if marginL == pr.AutoF && marginR == pr.AutoF {
			if widthForMargins >= 0 {
				f.MarginLeft = widthForMargins / 2
				f.MarginRight = f.MarginLeft
			} else {
				f.MarginLeft = 0
				f.MarginRight = widthForMargins
			}
		} else if marginL == pr.AutoF {
			f.MarginLeft = widthForMargins - f.MarginRight
		} else {
			// margin-right is auto, or the values are over-constrained
			f.MarginRight = widthForMargins - f.MarginLeft
		}
		translateX = left.V() + defaultTranslateX
	} else {
		spacing := paddingsBorders + f.MarginLeft + f.MarginRight
		if left == pr.AutoF && width == pr.AutoF {
			f.Width = shrinkToFit(context, f.Box, cb.width, cb.width-spacing-right.V())
			translateX = cb.width - right.V() - spacing + defaultTranslateX
			translateBoxWidth = true
		} else if left == pr.AutoF && right == pr.AutoF {
			// Keep the static position
		} else if width == pr.AutoF && right == pr.AutoF {
			f.Width = shrinkToFit(context, f.Box, cb.width, cb.width-spacing-left.V())
			translateX = left.V() + defaultTranslateX
		} else if left == pr.AutoF {
			translateX = cb.width + defaultTranslateX - right.V() - spacing - width.V()
		} else if width == pr.AutoF {
			f.Width = cb.width - right.V() - left.V() - spacing
			translateX = left.V() + defaultTranslateX
		} else if right == pr.AutoF {
			translateX = left.V() + defaultTranslateX
		}
	}
	f.Width = pr.Max(0, f.Width)
	return translateBoxWidth, translateX
}

// https://www.w3.org/TR/CSS2/visudet.html#abs-non-replaced-height
// The height is only resolved here when it depends on top and bottom.
func absoluteHeight(f *Fragment, used *usedValues, in insets, cb containingBlock) (bool, pr.Float) {
	paddingsBorders := f.PaddingTop + f.PaddingBottom + f.BorderTopWidth + f.BorderBottomWidth

	marginT, marginB := used.marginTop, used.marginBottom
	height, top, bottom := used.height, in.top, in.bottom
	cbHeight := cb.height.V()

	f.MarginTop, f.MarginBottom = marginT.V(), marginB.V()

	var translateY pr.Float
	translateBoxHeight := false
	defaultTranslateY := cb.y - f.PositionY
	if top == pr.AutoF && bottom == pr.AutoF && height == pr.AutoF {
		// Keep the static position
	} else if top != pr.AutoF && bottom != pr.AutoF && height != pr.AutoF {
		heightForMargins := cbHeight - (top.V() + bottom.V() + height.V() + paddingsBorders)
		if marginT == pr.AutoF && marginB == pr.AutoF {
			f.MarginTop = heightForMargins / 2
			f.MarginBottom = f.MarginTop
		} else if marginT == pr.AutoF {
			f.MarginTop = heightForMargins - f.MarginBottom
		} else {
			f.MarginBottom = heightForMargins - f.MarginTop
		}
		translateY = top.V() + defaultTranslateY
	} else {
		spacing := paddingsBorders + f.MarginTop + f.MarginBottom
		if top == pr.AutoF && height == pr.AutoF {
			translateY = cbHeight - bottom.V() - spacing + defaultTranslateY
			translateBoxHeight = true
		} else if top == pr.AutoF && bottom == pr.AutoF {
			// Keep the static position
		} else if height == pr.AutoF && bottom == pr.AutoF {
			translateY = top.V() + defaultTranslateY
		} else if top == pr.AutoF {
			translateY = cbHeight + defaultTranslateY - bottom.V() - spacing - height.V()
		} else if height == pr.AutoF {
			used.height = pr.Max(0, cbHeight-bottom.V()-top.V()-spacing)
			translateY = top.V() + defaultTranslateY
		} else if bottom == pr.AutoF {
			translateY = top.V() + defaultTranslateY
		}
	}
	// the margins are now fixed
	used.marginTop, used.marginBottom = f.MarginTop, f.MarginBottom
	return translateBoxHeight, translateY
}

// https://www.w3.org/TR/CSS21/visudet.html#abs-replaced-width
// https://www.w3.org/TR/CSS21/visudet.html#abs-replaced-height
func absoluteReplaced(f *Fragment, used usedValues, in insets, cb containingBlock) {
	f.Width, f.Height = replacedSize(f, used)
	cbHeight := cb.height.V()

	left, right := in.left, in.right
	marginL, marginR := used.marginLeft, used.marginRight
	f.MarginLeft, f.MarginRight = marginL.V(), marginR.V()
	if left == pr.AutoF && right == pr.AutoF {
		// static position
		left = f.PositionX - cb.x
	}
	if left == pr.AutoF || right == pr.AutoF {
		if left == pr.AutoF {
			left = cb.width - f.MarginWidth() - right.V()
		}
	} else if marginL == pr.AutoF || marginR == pr.AutoF {
		remaining := cb.width - (f.BorderWidth() + left.V() + right.V())
		if marginL == pr.AutoF && marginR == pr.AutoF {
			if remaining >= 0 {
				f.MarginLeft = remaining / 2
				f.MarginRight = f.MarginLeft
			} else {
				f.MarginLeft = 0
				f.MarginRight = remaining
			}
		} else if marginL == pr.AutoF {
			f.MarginLeft = remaining - f.MarginRight
		} else {
			f.MarginRight = remaining - f.MarginLeft
		}
	}
	// else over-constrained : right is ignored

	top, bottom := in.top, in.bottom
	marginT, marginB := used.marginTop, used.marginBottom
	f.MarginTop, f.MarginBottom = marginT.V(), marginB.V()
	if top == pr.AutoF && bottom == pr.AutoF {
		top = f.PositionY - cb.y
	}
	if top == pr.AutoF || bottom == pr.AutoF {
		if top == pr.AutoF {
			top = cbHeight - f.MarginHeight() - bottom.V()
		}
	} else if marginT == pr.AutoF || marginB == pr.AutoF {
		remaining := cbHeight - (f.BorderHeight() + top.V() + bottom.V())
		if marginT == pr.AutoF && marginB == pr.AutoF {
			f.MarginTop = remaining / 2
			f.MarginBottom = f.MarginTop
		} else if marginT == pr.AutoF {
			f.MarginTop = remaining - f.MarginBottom
		} else {
			f.MarginBottom = remaining - f.MarginTop
		}
	}
	// else over-constrained : bottom is ignored

	// No children for replaced boxes, no need to translate
	f.PositionX = cb.x + left.V()
	f.PositionY = cb.y + top.V()
}

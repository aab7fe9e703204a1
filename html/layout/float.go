package layout

import (
	pr "github.com/benoitkugler/printlayout/css/properties"
	bo "github.com/benoitkugler/printlayout/html/boxes"
)

// Layout for floating boxes.

// floatLayout lays out the float `id` and registers it in the
// current block formatting context.
// (x, y) is the position the float would have in the flow.
func floatLayout(context *layoutContext, id bo.BoxID, cb containingBlock, x, y pr.Float) *Fragment {
	box := context.tree.Box(id)
	f := newFragment(context.tree, id, fragmentKind(box))
	f.PositionX, f.PositionY = x, y

	used := resolvePercentages(f, cb.width, cb.height)
	f.MarginTop = orDefault(used.marginTop, 0)
	f.MarginRight = orDefault(used.marginRight, 0)
	f.MarginBottom = orDefault(used.marginBottom, 0)
	f.MarginLeft = orDefault(used.marginLeft, 0)

	if clearance, ok := getClearance(context, f.Style.GetClear(), f.PositionY, 0); ok {
		f.PositionY += clearance
	}

	if box.IsReplaced() {
		f.Width, f.Height = replacedSize(f, used)
	} else {
		if used.width == pr.AutoF {
			f.Width = shrinkToFit(context, id, cb.width, cb.width-f.hFrame())
		} else {
			f.Width = used.width.V()
		}
		f.Width = pr.Max(0, pr.Max(pr.Min(f.Width, used.maxWidth), used.minWidth))

		// floats are never split between pages
		context.withoutPagination(func() {
			blockContainerLayout(context, f, used, nil, true, new([]pr.Float))
		})
	}

	findFloatPosition(context, f, cb)
	if context.excludedShapes != nil {
		*context.excludedShapes = append(*context.excludedShapes, f)
	}
	return f
}

// https://www.w3.org/TR/CSS21/visuren.html#float-position
func findFloatPosition(context *layoutContext, f *Fragment, cb containingBlock) {
	// Point 4 is already handled as PositionY is set according to the
	// containing box top position, with collapsing margins handled.

	// Points 5 and 6 : not higher than the previous floats
	if shapes := context.excludedShapes; shapes != nil && len(*shapes) != 0 {
		highestY := (*shapes)[len(*shapes)-1].PositionY
		if f.PositionY < highestY {
			f.Translate(0, highestY-f.PositionY)
		}
	}

	// Points 1 and 2
	positionX, positionY, availableWidth := avoidCollisions(context, f, cb, true)

	// Point 9 : PositionY is set, now for PositionX.
	// Left floats are already done.
	if f.Style.GetFloat() == "right" {
		positionX += availableWidth - f.MarginWidth()
	}
	f.Translate(positionX-f.PositionX, positionY-f.PositionY)
}

// getClearance returns the clearance of a box with the given "clear" value,
// whose top margin edge would be at `positionY` + `collapsedMargin`.
// The boolean is false when the box has no clearance.
func getClearance(context *layoutContext, clear pr.String, positionY, collapsedMargin pr.Float) (pr.Float, bool) {
	if clear == "none" || clear == "" || context.excludedShapes == nil {
		return 0, false
	}
	var (
		clearance    pr.Float
		hasClearance bool
	)
	hypotheticalPosition := positionY + collapsedMargin
	for _, shape := range *context.excludedShapes {
		if clear == shape.Style.GetFloat() || clear == "both" {
			bottom := shape.PositionY + shape.MarginHeight()
			if hypotheticalPosition < bottom {
				clearance = pr.Max(clearance, bottom-hypotheticalPosition)
				hasClearance = true
			}
		}
	}
	return clearance, hasClearance
}

// avoidCollisions returns the position of `f` avoiding the floats of
// the current formatting context, and the width available at that position.
// When `outer` is true, the margin box of `f` is considered, otherwise
// its border box.
func avoidCollisions(context *layoutContext, f *Fragment, cb containingBlock, outer bool) (x, y, available pr.Float) {
	var shapes []*Fragment
	if context.excludedShapes != nil {
		shapes = *context.excludedShapes
	}

	var positionY, boxWidth, boxHeight pr.Float
	if outer {
		positionY, boxWidth, boxHeight = f.PositionY, f.MarginWidth(), f.MarginHeight()
	} else {
		positionY, boxWidth, boxHeight = f.BorderBoxY(), f.BorderWidth(), f.BorderHeight()
	}

	if f.BorderHeight() == 0 && f.Box != bo.NoBox && context.tree.Box(f.Box).IsFloated() {
		// empty floats do not collide
		return cb.x, f.PositionY, cb.width
	}

	var maxLeftBound, maxRightBound pr.Float
	for {
		var collidingShapes []*Fragment
		for _, shape := range shapes {
			shapeY, shapeHeight := shape.PositionY, shape.MarginHeight()
			if (shapeY <= positionY && positionY < shapeY+shapeHeight) ||
				(shapeY < positionY+boxHeight && positionY+boxHeight < shapeY+shapeHeight) ||
				(shapeY >= positionY && shapeY+shapeHeight <= positionY+boxHeight) {
				collidingShapes = append(collidingShapes, shape)
			}
		}

		// default bounds
		maxLeftBound = cb.x
		maxRightBound = cb.x + cb.width
		if !outer {
			maxLeftBound += f.MarginLeft
			maxRightBound -= f.MarginRight
		}

		// real bounds, according to the sibling floats
		var hasBounds bool
		for _, shape := range collidingShapes {
			switch shape.Style.GetFloat() {
			case "left":
				maxLeftBound = pr.Max(maxLeftBound, shape.PositionX+shape.MarginWidth())
				hasBounds = true
			case "right":
				maxRightBound = pr.Min(maxRightBound, shape.PositionX)
				hasBounds = true
			}
		}

		if hasBounds && boxWidth > maxRightBound-maxLeftBound {
			// points the next highest shape, if no place is found
			newPositionY := pr.Inf
			for _, shape := range collidingShapes {
				newPositionY = pr.Min(newPositionY, shape.PositionY+shape.MarginHeight())
			}
			if newPositionY > positionY && newPositionY != pr.Inf {
				positionY = newPositionY
				continue
			}
			// no solution, we must put the box here
		}
		break
	}

	x, y = maxLeftBound, positionY
	available = maxRightBound - maxLeftBound
	if !outer {
		x -= f.MarginLeft
		y -= f.MarginTop
	}
	return x, y, available
}

// lineBand returns the horizontal extent, between `left` and `right`,
// available for a line box spanning [y, y+height], once the floats of the
// current formatting context are excluded.
func lineBand(context *layoutContext, left, right, y, height pr.Float) (pr.Float, pr.Float) {
	if context.excludedShapes == nil {
		return left, right
	}
	height = pr.Max(height, 1e-6)
	for _, shape := range *context.excludedShapes {
		top, bottom := shape.PositionY, shape.PositionY+shape.MarginHeight()
		if bottom <= y || top >= y+height {
			continue
		}
		switch shape.Style.GetFloat() {
		case "left":
			left = pr.Max(left, shape.PositionX+shape.MarginWidth())
		case "right":
			right = pr.Min(right, shape.PositionX)
		}
	}
	return left, right
}

// nextFloatBottom returns the smallest bottom below `y` of the floats
// overlapping [y, y+height], or `y` if there is none.
func nextFloatBottom(context *layoutContext, y, height pr.Float) pr.Float {
	if context.excludedShapes == nil {
		return y
	}
	height = pr.Max(height, 1e-6)
	next := pr.Inf
	for _, shape := range *context.excludedShapes {
		top, bottom := shape.PositionY, shape.PositionY+shape.MarginHeight()
		if bottom <= y || top >= y+height {
			continue
		}
		next = pr.Min(next, bottom)
	}
	if next == pr.Inf {
		return y
	}
	return next
}

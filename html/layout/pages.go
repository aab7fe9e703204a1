package layout

import (
	pr "github.com/benoitkugler/printlayout/css/properties"
)

// newPage creates an empty page, whose size and margins
// are given by the page context `style`, or the overrides in `opts`.
func newPage(style pr.ElementStyle, index int, opts Options) *Page {
	size := style.GetSize().ToPixels()
	if opts.PageSize != [2]pr.Float{} {
		size = opts.PageSize
	}
	page := &Page{Index: index, Width: pr.Max(0, size[0]), Height: pr.Max(0, size[1])}
	if m := opts.PageMargins; m != nil {
		page.MarginTop, page.MarginRight, page.MarginBottom, page.MarginLeft = m[0], m[1], m[2], m[3]
		return page
	}
	// percentages refer to the width of the page, and auto margins are 0
	page.MarginTop = orDefault(resolveOnePercentage(style.GetMarginTop(), page.Width), 0)
	page.MarginRight = orDefault(resolveOnePercentage(style.GetMarginRight(), page.Width), 0)
	page.MarginBottom = orDefault(resolveOnePercentage(style.GetMarginBottom(), page.Width), 0)
	page.MarginLeft = orDefault(resolveOnePercentage(style.GetMarginLeft(), page.Width), 0)
	return page
}

// IsLeft returns true for left pages (verso).
// The first page is a right page (recto).
func (p *Page) IsLeft() bool { return p.Index%2 == 1 }

// needsBlankPage returns true if a blank page must be inserted
// at `index` to honor a forced break to a left or right page.
func needsBlankPage(nextBreak string, index int) bool {
	isLeft := index%2 == 1
	switch nextBreak {
	case "left", "verso":
		return !isLeft
	case "right", "recto":
		return isLeft
	default:
		return false
	}
}

package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pr "github.com/benoitkugler/printlayout/css/properties"
)

func TestBlockWidths(t *testing.T) {
	page := renderOnePage(t, `
		<div id="auto" style="padding: 0 5px; border-left-width: 2px; border-left-style: solid"></div>
		<div id="fixed" style="width: 30px; margin: 0 auto"></div>
		<div id="left" style="width: 30px; margin-left: auto"></div>
		<div id="perc" style="width: 50%"></div>
		<div id="max" style="max-width: 20px"></div>
		<div id="min" style="width: 10px; min-width: 40px"></div>
		<div id="border-box" style="width: 50px; padding: 5px; box-sizing: border-box"></div>
	`)

	auto := byID(page, "auto")
	assert.Equal(t, pr.Float(2), auto.BorderLeftWidth)
	assert.Equal(t, pr.Float(100-10-2), auto.Width)
	assert.Equal(t, pr.Float(100), auto.MarginWidth())

	fixed := byID(page, "fixed")
	assert.Equal(t, pr.Float(30), fixed.Width)
	assert.Equal(t, pr.Float(35), fixed.MarginLeft)
	assert.Equal(t, pr.Float(35), fixed.MarginRight)

	left := byID(page, "left")
	assert.Equal(t, pr.Float(70), left.MarginLeft)
	assert.Equal(t, pr.Float(0), left.MarginRight)

	assert.Equal(t, pr.Float(50), byID(page, "perc").Width)
	assert.Equal(t, pr.Float(20), byID(page, "max").Width)
	assert.Equal(t, pr.Float(40), byID(page, "min").Width)

	borderBox := byID(page, "border-box")
	assert.Equal(t, pr.Float(40), borderBox.Width)
	assert.Equal(t, pr.Float(50), borderBox.BorderWidth())
}

func TestBlockHeights(t *testing.T) {
	page := renderOnePage(t, `
		<div id="fixed" style="height: 25px"></div>
		<div id="content"><div style="height: 15px"></div><div style="height: 5px"></div></div>
		<div id="min" style="min-height: 30px"></div>
		<div id="max" style="max-height: 10px"><div style="height: 50px"></div></div>
	`)
	fixed := byID(page, "fixed")
	assert.Equal(t, pr.Float(0), fixed.PositionY)
	assert.Equal(t, pr.Float(25), fixed.Height)

	content := byID(page, "content")
	assert.Equal(t, pr.Float(25), content.PositionY)
	assert.Equal(t, pr.Float(20), content.Height)

	minH := byID(page, "min")
	assert.Equal(t, pr.Float(45), minH.PositionY)
	assert.Equal(t, pr.Float(30), minH.Height)

	maxH := byID(page, "max")
	assert.Equal(t, pr.Float(75), maxH.PositionY)
	assert.Equal(t, pr.Float(10), maxH.Height)
}

func TestMarginCollapsing(t *testing.T) {
	page := renderOnePage(t, `
		<div id="a" style="height: 10px; margin-bottom: 20px"></div>
		<div id="b" style="height: 10px; margin-top: 10px"></div>
		<div id="c" style="height: 10px; margin-top: -5px"></div>
		<div id="parent" style="margin-top: 10px"><div id="child" style="margin-top: 20px; height: 10px"></div></div>
		<div id="bordered" style="margin-top: 10px; border-top-width: 1px; border-top-style: solid"><div id="inner" style="margin-top: 20px; height: 10px"></div></div>
	`)
	a, b, c := byID(page, "a"), byID(page, "b"), byID(page, "c")
	assert.Equal(t, pr.Float(0), a.BorderBoxY())
	assert.Equal(t, pr.Float(30), b.BorderBoxY())
	assert.Equal(t, pr.Float(35), c.BorderBoxY())

	// parent and child margins collapse
	parent, child := byID(page, "parent"), byID(page, "child")
	assert.Equal(t, pr.Float(65), parent.ContentBoxY())
	assert.Equal(t, pr.Float(65), child.BorderBoxY())
	assert.Equal(t, pr.Float(10), parent.Height)

	// borders prevent collapsing
	bordered, inner := byID(page, "bordered"), byID(page, "inner")
	assert.Equal(t, pr.Float(85), bordered.BorderBoxY())
	assert.Equal(t, pr.Float(86+20), inner.BorderBoxY())
}

func TestEmptyBlockCollapsesThrough(t *testing.T) {
	page := renderOnePage(t, `
		<div id="a" style="height: 10px; margin-bottom: 10px"></div>
		<div id="empty" style="margin: 15px 0"></div>
		<div id="b" style="height: 10px; margin-top: 5px"></div>
	`)
	// the margins of the empty box collapse with the adjoining ones
	assert.Equal(t, pr.Float(25), byID(page, "b").BorderBoxY())
}

func TestRelativePositioning(t *testing.T) {
	page := renderOnePage(t, `
		<div id="r" style="position: relative; top: 5px; left: 7px; height: 10px"></div>
		<div id="after" style="height: 10px"></div>
		<div id="r2" style="position: relative; bottom: 5px; right: 3px; height: 10px"></div>
	`)
	r := byID(page, "r")
	assert.Equal(t, pr.Float(7), r.PositionX)
	assert.Equal(t, pr.Float(5), r.PositionY)

	// the flow is not affected
	assert.Equal(t, pr.Float(10), byID(page, "after").PositionY)

	r2 := byID(page, "r2")
	assert.Equal(t, pr.Float(-3), r2.PositionX)
	assert.Equal(t, pr.Float(15), r2.PositionY)
}

func TestBlockReplaced(t *testing.T) {
	src := pngDataURL(t, 20, 10)
	page := renderOnePage(t, `
		<img id="natural" style="display: block" src="`+src+`">
		<img id="scaled" style="display: block; width: 40px" src="`+src+`">
		<img id="centered" style="display: block; margin: 0 auto" src="`+src+`">
	`)
	natural := byID(page, "natural")
	require.NotNil(t, natural)
	assert.Equal(t, ReplacedFragment, natural.Kind)
	assert.NotNil(t, natural.Image)
	assert.Equal(t, pr.Float(20), natural.Width)
	assert.Equal(t, pr.Float(10), natural.Height)

	scaled := byID(page, "scaled")
	assert.Equal(t, pr.Float(10), scaled.PositionY)
	assert.Equal(t, pr.Float(40), scaled.Width)
	assert.Equal(t, pr.Float(20), scaled.Height)

	centered := byID(page, "centered")
	assert.Equal(t, pr.Float(40), centered.MarginLeft)
}

func TestBlockLevelPageBreak(t *testing.T) {
	tr, _ := buildTree(t, `
		<div id="a" style="break-after: avoid"></div>
		<div id="b" style="break-before: page"></div>
		<div id="c"></div>
	`)
	body := tr.Box(tr.Root).Children[0]
	children := tr.Box(body).Children
	require.Len(t, children, 3)
	assert.Equal(t, "page", blockLevelPageBreak(tr, children[0], children[1]))
	assert.Equal(t, "auto", blockLevelPageBreak(tr, children[1], children[2]))
}

func TestCollapseMargin(t *testing.T) {
	assert.Equal(t, pr.Float(0), collapseMargin(nil))
	assert.Equal(t, pr.Float(20), collapseMargin([]pr.Float{10, 20, 5}))
	assert.Equal(t, pr.Float(-10), collapseMargin([]pr.Float{-10, -5}))
	assert.Equal(t, pr.Float(10), collapseMargin([]pr.Float{20, -10}))
}

package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pr "github.com/benoitkugler/printlayout/css/properties"
)

func TestAbsoluteInRelative(t *testing.T) {
	page := renderOnePage(t, `<div id="cb" style="position: relative; width: 100px; height: 100px; margin-left: 10px">
		<div id="a" style="position: absolute; top: 10px; left: 20px; width: 30px; height: 40px"></div>
		<div id="b" style="position: absolute; right: 10px; bottom: 10px; width: 30px; height: 40px"></div>
	</div>`)

	a := byID(page, "a")
	require.NotNil(t, a)
	assert.True(t, a.Positioned)
	assert.Equal(t, pr.Float(30), a.PositionX)
	assert.Equal(t, pr.Float(10), a.PositionY)
	assert.Equal(t, pr.Float(30), a.Width)
	assert.Equal(t, pr.Float(40), a.Height)

	b := byID(page, "b")
	require.NotNil(t, b)
	assert.Equal(t, pr.Float(70), b.PositionX)
	assert.Equal(t, pr.Float(50), b.PositionY)
}

func TestAbsoluteShrinkToFit(t *testing.T) {
	page := renderOnePage(t, `<div style="position: relative; height: 50px">
		<div id="a" style="position: absolute; top: 0; left: 0">aa bb</div>
		<div id="r" style="position: absolute; top: 0; right: 0">aa</div>
	</div>`)
	a := byID(page, "a")
	require.NotNil(t, a)
	assert.Equal(t, pr.Float(50), a.Width)
	assert.Equal(t, pr.Float(12), a.Height)
	assert.Len(t, lines(a), 1)

	r := byID(page, "r")
	assert.Equal(t, pr.Float(20), r.Width)
	assert.Equal(t, pr.Float(80), r.PositionX)
}

func TestAbsoluteStretched(t *testing.T) {
	page := renderOnePage(t, `<div style="position: relative; height: 50px">
		<div id="a" style="position: absolute; top: 5px; bottom: 5px; left: 10px; right: 10px"></div>
	</div>`)
	a := byID(page, "a")
	require.NotNil(t, a)
	assert.Equal(t, pr.Float(10), a.PositionX)
	assert.Equal(t, pr.Float(5), a.PositionY)
	assert.Equal(t, pr.Float(80), a.Width)
	assert.Equal(t, pr.Float(40), a.Height)
}

func TestAbsoluteInitialContainingBlock(t *testing.T) {
	opts := Options{PageSize: [2]pr.Float{100, 100}, PageMargins: &[4]pr.Float{10, 10, 10, 10}}
	pages := renderPages(t, `<div style="margin-top: 30px">
		<div id="a" style="position: absolute; top: 5px; left: 5px; width: 10px; height: 10px"></div>
		<div id="static" style="position: absolute; width: 10px; height: 10px"></div>
	</div>`, opts)
	require.Len(t, pages, 1)

	a := byID(pages[0], "a")
	require.NotNil(t, a)
	assert.Equal(t, pr.Float(15), a.PositionX)
	assert.Equal(t, pr.Float(15), a.PositionY)

	// no insets : the static position is kept
	static := byID(pages[0], "static")
	require.NotNil(t, static)
	assert.Equal(t, pr.Float(10), static.PositionX)
	assert.Equal(t, pr.Float(40), static.PositionY)
}

func TestAbsoluteOutOfFlow(t *testing.T) {
	page := renderOnePage(t, `
		<div style="position: absolute; height: 50px; width: 50px"></div>
		<div id="after" style="height: 10px"></div>
	`)
	assert.Equal(t, pr.Float(0), byID(page, "after").PositionY)
	assert.Equal(t, pr.Float(10), page.Root.Height)
}

func TestAbsoluteReplaced(t *testing.T) {
	src := pngDataURL(t, 20, 10)
	page := renderOnePage(t, `<div style="position: relative; width: 100px; height: 100px">
		<img id="img" style="position: absolute; right: 0; bottom: 0" src="`+src+`">
	</div>`)
	img := byID(page, "img")
	require.NotNil(t, img)
	assert.Equal(t, ReplacedFragment, img.Kind)
	assert.Equal(t, pr.Float(80), img.PositionX)
	assert.Equal(t, pr.Float(90), img.PositionY)
}

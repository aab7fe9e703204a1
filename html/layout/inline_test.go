package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pa "github.com/benoitkugler/printlayout/css/parser"
	pr "github.com/benoitkugler/printlayout/css/properties"
)

func textAtom(text string, width, trailing pr.Float, breakBefore bool) inlineAtom {
	return inlineAtom{kind: atomText, text: text, width: width, trailingSpace: trailing, breakBefore: breakBefore}
}

func TestFitLine(t *testing.T) {
	atoms := []inlineAtom{
		textAtom("aaaa ", 50, 10, false),
		textAtom("bbbb ", 50, 10, true),
		textAtom("cccc", 40, 0, true),
	}
	// the trailing space does not count : exact fit
	assert.Equal(t, 2, fitLine(atoms, 0, 90))
	assert.Equal(t, 1, fitLine(atoms, 0, 89))
	assert.Equal(t, 3, fitLine(atoms, 0, 140))
	assert.Equal(t, 3, fitLine(atoms, 1, 90))

	// too narrow : at least one atom
	assert.Equal(t, 1, fitLine(atoms, 0, 0))
	assert.Equal(t, 3, fitLine(atoms, 2, 0))

	forced := []inlineAtom{
		textAtom("aa\n", 20, 0, false),
		{kind: atomText, text: "bb", width: 20, breakBefore: true, forcedBefore: true},
	}
	assert.Equal(t, 1, fitLine(forced, 0, 1000))
}

func TestFitLineInlineEdges(t *testing.T) {
	atoms := []inlineAtom{
		{kind: atomStart, width: 5},
		textAtom("aaa ", 40, 10, false),
		{kind: atomEnd, width: 5},
		textAtom("bbb", 30, 0, true),
	}
	// the closing edge keeps the trailing space pending
	assert.Equal(t, 3, fitLine(atoms, 0, 40))
	assert.Equal(t, pr.Float(40), runWidth(atoms, 0, 3))
	assert.Equal(t, pr.Float(80), runWidth(atoms, 0, 4))
}

func TestWidestRun(t *testing.T) {
	atoms := []inlineAtom{
		textAtom("aaaa ", 50, 10, false),
		textAtom("bb ", 30, 10, true),
		{kind: atomText, text: "cccccc", width: 60, breakBefore: true, forcedBefore: true},
	}
	assert.Equal(t, pr.Float(60), widestRun(atoms, true, 0))
	assert.Equal(t, pr.Float(70), widestRun(atoms, false, 0))
	assert.Equal(t, pr.Float(70), widestRun(atoms, true, 30))
}

func TestLineBreaking(t *testing.T) {
	page := renderOnePage(t, `
		<div id="exact" style="width: 90px">aaaa bbbb cccc</div>
		<div id="narrow" style="width: 89px">aaaa bbbb cccc</div>
	`)

	exact := byID(page, "exact")
	ls := lines(exact)
	require.Len(t, ls, 2)
	assert.Equal(t, "aaaa bbbb", lineText(ls[0]))
	assert.Equal(t, "cccc", lineText(ls[1]))
	assert.Equal(t, pr.Float(0), ls[0].PositionY)
	assert.Equal(t, pr.Float(12), ls[0].Height)
	assert.Equal(t, pr.Float(12), ls[1].PositionY)
	assert.Equal(t, pr.Float(24), exact.Height)

	narrow := byID(page, "narrow")
	ls = lines(narrow)
	require.Len(t, ls, 3)
	assert.Equal(t, "aaaa", lineText(ls[0]))
	assert.Equal(t, "bbbb", lineText(ls[1]))
	assert.Equal(t, "cccc", lineText(ls[2]))
	assert.Equal(t, pr.Float(24), narrow.PositionY)
}

func TestLineMetrics(t *testing.T) {
	page := renderOnePage(t, `<div id="d">abc</div>`)
	ls := lines(byID(page, "d"))
	require.Len(t, ls, 1)
	line := ls[0]
	// 10px font : ascent 8, descent 2, half-leading 1
	assert.Equal(t, pr.Float(9), line.Baseline)
	texts := textFragments(line)
	require.Len(t, texts, 1)
	assert.Equal(t, pr.Float(9), texts[0].Baseline)
	assert.Equal(t, pr.Float(1), texts[0].PositionY)
	assert.Equal(t, pr.Float(10), texts[0].Height)
	assert.Equal(t, pr.Float(30), texts[0].Width)
}

func TestLineHeight(t *testing.T) {
	page := renderOnePage(t, `<div id="d" style="line-height: 20px; width: 30px">aa bb</div>`)
	ls := lines(byID(page, "d"))
	require.Len(t, ls, 2)
	assert.Equal(t, pr.Float(20), ls[0].Height)
	assert.Equal(t, pr.Float(20), ls[1].PositionY)
	// half-leading : (20 - 10) / 2
	assert.Equal(t, pr.Float(13), ls[0].Baseline)
}

func TestTextAlign(t *testing.T) {
	page := renderOnePage(t, `
		<div id="left" style="width: 100px">aaaa</div>
		<div id="center" style="width: 100px; text-align: center">aaaa</div>
		<div id="right" style="width: 100px; text-align: right">aaaa</div>
		<div id="indent" style="width: 100px; text-indent: 20px">aaaa</div>
	`)
	for id, x := range map[string]pr.Float{"left": 0, "center": 30, "right": 60, "indent": 20} {
		texts := textFragments(byID(page, id))
		require.Len(t, texts, 1, id)
		assert.Equal(t, x, texts[0].PositionX, id)
	}
}

func TestTextAlignJustify(t *testing.T) {
	page := renderOnePage(t, `<div id="d" style="width: 100px; text-align: justify">aa bb cc dddddddd</div>`)
	ls := lines(byID(page, "d"))
	require.Len(t, ls, 2)

	first := textFragments(ls[0])
	require.Len(t, first, 1)
	assert.Equal(t, "aa bb cc", first[0].Text)
	assert.Equal(t, pr.Float(10), first[0].WordSpacing)
	assert.Equal(t, pr.Float(100), first[0].Width)

	// the last line is not justified
	last := textFragments(ls[1])
	require.Len(t, last, 1)
	assert.Equal(t, pr.Float(0), last[0].WordSpacing)
	assert.Equal(t, pr.Float(80), last[0].Width)
}

func TestWhiteSpace(t *testing.T) {
	page := renderOnePage(t, `
		<div id="pre" style="white-space: pre">aa
bb</div>
		<div id="nowrap" style="white-space: nowrap; width: 20px">aaaa bbbb</div>
	`)
	ls := lines(byID(page, "pre"))
	require.Len(t, ls, 2)
	assert.Equal(t, "aa", lineText(ls[0]))
	assert.Equal(t, "bb", lineText(ls[1]))

	ls = lines(byID(page, "nowrap"))
	require.Len(t, ls, 1)
	assert.Equal(t, "aaaa bbbb", lineText(ls[0]))
}

func TestLineBreakElement(t *testing.T) {
	page := renderOnePage(t, `<p id="p" style="margin: 0">a<br>b c</p>`)
	ls := lines(byID(page, "p"))
	require.Len(t, ls, 2)
	assert.Equal(t, "a", lineText(ls[0]))
	assert.Equal(t, "b c", lineText(ls[1]))
	assert.Equal(t, pr.Float(12), ls[1].PositionY)
}

func TestInlineBox(t *testing.T) {
	page := renderOnePage(t, `<div style="width: 100px">aa <span id="s" style="padding: 0 5px">bb</span></div>`)
	span := byID(page, "s")
	require.NotNil(t, span)
	assert.Equal(t, InlineFragment, span.Kind)
	assert.Equal(t, pr.Float(30), span.PositionX)
	assert.Equal(t, pr.Float(35), span.ContentBoxX())
	assert.Equal(t, pr.Float(20), span.Width)
	assert.Equal(t, pr.Float(1), span.PositionY)
	assert.Equal(t, pr.Float(10), span.Height)

	texts := textFragments(span)
	require.Len(t, texts, 1)
	assert.Equal(t, pr.Float(35), texts[0].PositionX)
}

func TestInlineBoxSplit(t *testing.T) {
	page := renderOnePage(t, `<div id="d" style="width: 50px"><span style="padding: 0 5px">aaa bbb</span></div>`)
	ls := lines(byID(page, "d"))
	require.Len(t, ls, 2)

	first, second := ls[0].Children[0], ls[1].Children[0]
	require.Equal(t, InlineFragment, first.Kind)
	require.Equal(t, InlineFragment, second.Kind)

	assert.True(t, first.IsStart)
	assert.False(t, first.IsEnd)
	assert.Equal(t, pr.Float(5), first.PaddingLeft)
	assert.Equal(t, pr.Float(0), first.PaddingRight)
	assert.Equal(t, "aaa", lineText(ls[0]))

	assert.False(t, second.IsStart)
	assert.True(t, second.IsEnd)
	assert.Equal(t, pr.Float(0), second.PaddingLeft)
	assert.Equal(t, pr.Float(5), second.PaddingRight)
	assert.Equal(t, pr.Float(0), second.PositionX)
	assert.Equal(t, "bbb", lineText(ls[1]))
}

func TestInlineBlock(t *testing.T) {
	page := renderOnePage(t, `<div style="width: 100px">a <span id="ib" style="display: inline-block">bbb ccc</span></div>`)
	ib := byID(page, "ib")
	require.NotNil(t, ib)
	assert.Equal(t, BlockFragment, ib.Kind)
	// shrink-to-fit : the preferred width
	assert.Equal(t, pr.Float(70), ib.Width)
	assert.Equal(t, pr.Float(20), ib.PositionX)
	// aligned on the baseline of its line
	assert.Equal(t, pr.Float(0), ib.PositionY)
	assert.Equal(t, pr.Float(12), ib.Height)
}

func TestInlineBlockShrinks(t *testing.T) {
	page := renderOnePage(t, `<div style="width: 50px"><span id="ib" style="display: inline-block">bbb ccc</span></div>`)
	ib := byID(page, "ib")
	require.NotNil(t, ib)
	assert.Equal(t, pr.Float(50), ib.Width)
	assert.Equal(t, pr.Float(24), ib.Height)
}

func TestInlineReplaced(t *testing.T) {
	src := pngDataURL(t, 20, 10)
	page := renderOnePage(t, `<div id="d">a<img id="img" src="`+src+`"></div>`)
	img := byID(page, "img")
	require.NotNil(t, img)
	assert.Equal(t, ReplacedFragment, img.Kind)
	assert.Equal(t, pr.Float(10), img.PositionX)

	// the bottom of the image is on the baseline, above the strut
	ls := lines(byID(page, "d"))
	require.Len(t, ls, 1)
	assert.Equal(t, pr.Float(13), ls[0].Height)
	assert.Equal(t, pr.Float(10), ls[0].Baseline)
	assert.Equal(t, pr.Float(0), img.PositionY)
}

func TestVerticalAlign(t *testing.T) {
	page := renderOnePage(t, `<div id="d">a<span id="up" style="vertical-align: 3px">b</span></div>`)
	up := byID(page, "up")
	require.NotNil(t, up)
	ls := lines(byID(page, "d"))
	require.Len(t, ls, 1)
	// the raised box extends the line above the strut
	assert.Equal(t, pr.Float(15), ls[0].Height)
	assert.Equal(t, pr.Float(12), ls[0].Baseline)
	assert.Equal(t, pr.Float(9), up.Baseline)
}

func TestFirstLine(t *testing.T) {
	red := pr.Color(pa.ParseColorString("red"))
	page := renderOnePage(t, `<style>p::first-line { font-size: 20px; color: red }</style>
		<p id="p" style="margin: 0; width: 50px">aa bb cc</p>
		<p id="q" style="margin: 0">aa <em style="color: blue">bb</em> <span>cc</span></p>`)

	// at 20px, "aa bb" no longer fits on the first line
	ls := lines(byID(page, "p"))
	require.Len(t, ls, 2)
	assert.Equal(t, "aa", lineText(ls[0]))
	assert.Equal(t, "bb cc", lineText(ls[1]))
	assert.Equal(t, pr.Float(24), ls[0].Height)
	assert.Equal(t, pr.Float(24), ls[1].PositionY)
	assert.Equal(t, pr.Float(12), ls[1].Height)

	first, second := textFragments(ls[0])[0], textFragments(ls[1])[0]
	assert.Equal(t, red, first.Style.GetColor())
	assert.Equal(t, pr.Float(40), first.Width)
	assert.NotEqual(t, red, second.Style.GetColor())
	assert.Equal(t, pr.Float(50), second.Width)

	ls = lines(byID(page, "q"))
	require.Len(t, ls, 2)
	assert.Equal(t, "aa bb", lineText(ls[0]))
	assert.Equal(t, "cc", lineText(ls[1]))
	texts := textFragments(ls[0])
	require.Len(t, texts, 2)
	assert.Equal(t, red, texts[0].Style.GetColor())
	// the color set on <em> wins, the font size comes from the first line
	assert.Equal(t, pr.Color(pa.ParseColorString("blue")), texts[1].Style.GetColor())
	assert.Equal(t, pr.Float(40), texts[1].Width)
	cc := textFragments(ls[1])[0]
	assert.NotEqual(t, red, cc.Style.GetColor())
	assert.Equal(t, pr.Float(20), cc.Width)
}

package layout

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pr "github.com/benoitkugler/printlayout/css/properties"
	bo "github.com/benoitkugler/printlayout/html/boxes"
	"github.com/benoitkugler/printlayout/html/tree"
	"github.com/benoitkugler/printlayout/text"
)

// every test document starts with this stylesheet, so that
// geometry is easy to predict with the fixed measurer :
// glyphs are 10px wide and lines 12px high.
const baseCSS = `<style>html, body { margin: 0 } body { font-size: 10px }</style>`

func noMargins(width, height pr.Float) Options {
	return Options{PageSize: [2]pr.Float{width, height}, PageMargins: &[4]pr.Float{}}
}

func buildTree(t *testing.T, htmlContent string) (*bo.Tree, *tree.StyleFor) {
	t.Helper()
	root, err := tree.ParseHTML(strings.NewReader(baseCSS + htmlContent))
	require.NoError(t, err)
	sheets := append([]tree.Stylesheet{tree.UserAgentStylesheet()}, tree.FindStylesheets(root, "print")...)
	style := tree.GetAllComputedStyles(root, sheets)
	tr := bo.BuildFormattingStructure(root, style, bo.NewURLResolver(nil))
	require.NoError(t, tr.SanityCheck())
	return tr, style
}

// renderPages lays out the document with the fixed measurer.
func renderPages(t *testing.T, htmlContent string, opts Options) []*Page {
	t.Helper()
	tr, style := buildTree(t, htmlContent)
	res, err := Layout(tr, style, text.FixedMeasurer{}, opts)
	require.NoError(t, err)
	return res.Pages
}

func renderOnePage(t *testing.T, htmlContent string) *Page {
	t.Helper()
	pages := renderPages(t, htmlContent, noMargins(100, 1000))
	require.Len(t, pages, 1)
	return pages[0]
}

// byID returns the first fragment of the element with the given id attribute.
func byID(page *Page, id string) *Fragment {
	for _, f := range page.Fragments() {
		if f.Element == nil || f.Kind == TextFragment || f.Kind == LineFragment {
			continue
		}
		if v, ok := f.Element.Attr("id"); ok && v == id {
			return f
		}
	}
	return nil
}

// lines returns the line fragments of `f`.
func lines(f *Fragment) []*Fragment {
	var out []*Fragment
	for _, child := range f.Children {
		if child.Kind == LineFragment {
			out = append(out, child)
		}
	}
	return out
}

// lineText returns the text of the line.
func lineText(line *Fragment) string {
	var sb strings.Builder
	line.Walk(func(f *Fragment) {
		if f.Kind == TextFragment {
			sb.WriteString(f.Text)
		}
	})
	return sb.String()
}

func textFragments(f *Fragment) []*Fragment {
	var out []*Fragment
	f.Walk(func(c *Fragment) {
		if c.Kind == TextFragment {
			out = append(out, c)
		}
	})
	return out
}

func pngDataURL(t *testing.T, w, h int) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, w, h))))
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

func dump(pages []*Page) string {
	var sb strings.Builder
	for _, page := range pages {
		fmt.Fprintf(&sb, "page %d\n", page.Index)
		for _, f := range page.Fragments() {
			fmt.Fprintln(&sb, f)
		}
	}
	return sb.String()
}

func TestLayoutEmptyDocument(t *testing.T) {
	pages := renderPages(t, `<html style="display: none"><p>hidden</p></html>`, noMargins(100, 100))
	require.Len(t, pages, 1)
	assert.Nil(t, pages[0].Root)
}

func TestLayoutRoot(t *testing.T) {
	page := renderOnePage(t, `<div id="d" style="height: 30px"></div>`)
	require.NotNil(t, page.Root)
	assert.Equal(t, "html", page.Root.Element.Tag())
	assert.Equal(t, pr.Float(100), page.Root.Width)
	assert.Equal(t, pr.Float(30), page.Root.Height)

	d := byID(page, "d")
	require.NotNil(t, d)
	assert.Equal(t, pr.Float(100), d.Width)
}

func TestLayoutPageMargins(t *testing.T) {
	opts := Options{PageSize: [2]pr.Float{200, 300}, PageMargins: &[4]pr.Float{10, 20, 30, 40}}
	pages := renderPages(t, `<div id="d" style="height: 30px"></div>`, opts)
	require.Len(t, pages, 1)
	page := pages[0]
	assert.Equal(t, pr.Float(140), page.ContentWidth())
	assert.Equal(t, pr.Float(260), page.ContentHeight())

	d := byID(page, "d")
	assert.Equal(t, pr.Float(40), d.PositionX)
	assert.Equal(t, pr.Float(10), d.PositionY)
	assert.Equal(t, pr.Float(140), d.Width)
}

func TestLayoutDisplayNone(t *testing.T) {
	page := renderOnePage(t, `<div id="a" style="height: 10px"></div><div id="b" style="display: none; height: 50px"></div>
		<div id="c" style="height: 10px"></div>`)
	assert.Nil(t, byID(page, "b"))
	assert.Equal(t, pr.Float(10), byID(page, "c").PositionY)
}

func TestLayoutTooManyPages(t *testing.T) {
	tr, style := buildTree(t, strings.Repeat(`<div style="height: 30px"></div>`, 5))
	opts := noMargins(100, 40)
	opts.MaxPages = 2
	res, err := Layout(tr, style, text.FixedMeasurer{}, opts)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTooManyPages))
	assert.Len(t, res.Pages, 2)
}

func TestLayoutDeterministic(t *testing.T) {
	const content = `<div style="width: 60px">some text <span style="padding: 0 2px">in a span</span>
		<div style="float: right; width: 20px; height: 20px"></div> and more</div>
		<div style="position: relative; top: 4px">relative</div>`
	tr, style := buildTree(t, content)
	first, err := Layout(tr, style, text.FixedMeasurer{}, noMargins(100, 50))
	require.NoError(t, err)
	second, err := Layout(tr, style, text.FixedMeasurer{}, noMargins(100, 50))
	require.NoError(t, err)
	assert.Equal(t, dump(first.Pages), dump(second.Pages))
}

func TestFragmentsOf(t *testing.T) {
	tr, style := buildTree(t, `<div id="d" style="width: 10px">a b c d e f</div>`)
	res, err := Layout(tr, style, text.FixedMeasurer{}, noMargins(100, 36))
	require.NoError(t, err)
	require.Len(t, res.Pages, 2)

	var div bo.BoxID = bo.NoBox
	for id := range tr.Boxes {
		box := tr.Box(bo.BoxID(id))
		if box.Element == nil || box.Kind != bo.BlockContainerT {
			continue
		}
		if v, ok := box.Element.Attr("id"); ok && v == "d" {
			div = bo.BoxID(id)
			break
		}
	}
	require.NotEqual(t, bo.NoBox, div)
	frags := res.FragmentsOf(div)
	require.Len(t, frags, 2)
	assert.True(t, frags[0].IsStart)
	assert.False(t, frags[0].IsEnd)
	assert.False(t, frags[1].IsStart)
	assert.True(t, frags[1].IsEnd)
}

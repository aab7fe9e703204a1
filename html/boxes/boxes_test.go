package boxes

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pa "github.com/benoitkugler/printlayout/css/parser"
	pr "github.com/benoitkugler/printlayout/css/properties"
	"github.com/benoitkugler/printlayout/html/tree"
	tu "github.com/benoitkugler/printlayout/utils/testutils"
)

// Test that the "before layout" box tree is correctly constructed.

func parseHTML(t *testing.T, htmlContent string) (tree.Element, *tree.StyleFor) {
	t.Helper()
	root, err := tree.ParseHTML(strings.NewReader(htmlContent))
	require.NoError(t, err)
	sheets := append([]tree.Stylesheet{tree.UserAgentStylesheet()}, tree.FindStylesheets(root, "print")...)
	return root, tree.GetAllComputedStyles(root, sheets)
}

func parseAndBuild(t *testing.T, htmlContent string) *Tree {
	t.Helper()
	root, style := parseHTML(t, htmlContent)
	out := BuildFormattingStructure(root, style, NewURLResolver(nil))
	if err := out.SanityCheck(); err != nil {
		t.Fatalf("sanity check failed: %s", err)
	}
	return out
}

// serBox is a simplified representation of a box,
// used to compare box trees.
type serBox struct {
	Tag  string
	Kind Kind
	Text string
	C    []serBox
}

func serialize(tr *Tree, ids []BoxID) []serBox {
	out := make([]serBox, len(ids))
	for i, id := range ids {
		box := tr.Box(id)
		out[i] = serBox{Tag: ElementTag(box), Kind: box.Kind, Text: box.Text, C: serialize(tr, box.Children)}
	}
	return out
}

// assertTree checks the children of the <body> box.
func assertTree(t *testing.T, tr *Tree, expected []serBox) {
	t.Helper()

	require.NotEqual(t, NoBox, tr.Root)
	html := tr.Box(tr.Root)
	require.Equal(t, "html", ElementTag(html))
	require.Equal(t, BlockContainerT, html.Kind)
	require.Len(t, html.Children, 1)

	body := tr.Box(html.Children[0])
	require.Equal(t, "body", ElementTag(body))
	tu.AssertEqual(t, serialize(tr, body.Children), expected)
}

// texts returns the content of the text boxes, in tree order.
func texts(tr *Tree) []string {
	var out []string
	for _, box := range tr.Boxes {
		if box.Kind == TextT {
			out = append(out, box.Text)
		}
	}
	return out
}

func findElement(root tree.Element, tag string) tree.Element {
	if root.Tag() == tag {
		return root
	}
	for _, child := range root.Children() {
		if found := findElement(child, tag); found != nil {
			return found
		}
	}
	return nil
}

func TestBoxTree(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	assertTree(t, parseAndBuild(t, "<p>"), []serBox{{"p", BlockContainerT, "", []serBox{}}})
	assertTree(t, parseAndBuild(t, `
	  <style>
	    span { display: inline-block }
	  </style>
	  <p>Hello <em>World <span>L</span></em>!</p>`), []serBox{
		{"p", BlockContainerT, "", []serBox{
			{"p", TextT, "Hello ", []serBox{}},
			{"em", InlineT, "", []serBox{
				{"em", TextT, "World ", []serBox{}},
				{"span", BlockContainerT, "", []serBox{{"span", TextT, "L", []serBox{}}}},
			}},
			{"p", TextT, "!", []serBox{}},
		}},
	})
}

func TestHtmlEntities(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	for _, quote := range []string{`"`, "&quot;", "&#x22;", "&#34;"} {
		tr := parseAndBuild(t, "<p>"+quote+"abc"+quote)
		assert.Equal(t, []string{`"abc"`}, texts(tr))
	}
}

func TestInlineInBlock(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	assertTree(t, parseAndBuild(t, "<div>Hello, <em>World</em>!\n<p>Lipsum.</p></div>"), []serBox{
		{"div", BlockContainerT, "", []serBox{
			{"div", AnonymousBlockT, "", []serBox{
				{"div", TextT, "Hello, ", []serBox{}},
				{"em", InlineT, "", []serBox{{"em", TextT, "World", []serBox{}}}},
				{"div", TextT, "!", []serBox{}},
			}},
			{"p", BlockContainerT, "", []serBox{{"p", TextT, "Lipsum.", []serBox{}}}},
		}},
	})

	assertTree(t, parseAndBuild(t, "<div><p>Lipsum.</p>Hello, <em>World</em>!\n</div>"), []serBox{
		{"div", BlockContainerT, "", []serBox{
			{"p", BlockContainerT, "", []serBox{{"p", TextT, "Lipsum.", []serBox{}}}},
			{"div", AnonymousBlockT, "", []serBox{
				{"div", TextT, "Hello, ", []serBox{}},
				{"em", InlineT, "", []serBox{{"em", TextT, "World", []serBox{}}}},
				{"div", TextT, "!", []serBox{}},
			}},
		}},
	})

	// whitespace between blocks generates no box
	assertTree(t, parseAndBuild(t, "<div>\n  <p>a</p>\n  <p>b</p>\n</div>"), []serBox{
		{"div", BlockContainerT, "", []serBox{
			{"p", BlockContainerT, "", []serBox{{"p", TextT, "a", []serBox{}}}},
			{"p", BlockContainerT, "", []serBox{{"p", TextT, "b", []serBox{}}}},
		}},
	})
}

func TestBlockInInline(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	tr := parseAndBuild(t, `<p>Hello <em>World<span style="display: block">!</span>?</em></p>`)
	assertTree(t, tr, []serBox{
		{"p", BlockContainerT, "", []serBox{
			{"p", AnonymousBlockT, "", []serBox{
				{"p", TextT, "Hello ", []serBox{}},
				{"em", InlineT, "", []serBox{{"em", TextT, "World", []serBox{}}}},
			}},
			{"span", BlockContainerT, "", []serBox{{"span", TextT, "!", []serBox{}}}},
			{"p", AnonymousBlockT, "", []serBox{
				{"em", InlineT, "", []serBox{{"em", TextT, "?", []serBox{}}}},
			}},
		}},
	})

	var parts []*Box
	for i := range tr.Boxes {
		if box := tr.Box(BoxID(i)); box.Kind == InlineT && ElementTag(box) == "em" {
			parts = append(parts, box)
		}
	}
	require.Len(t, parts, 2)
	assert.False(t, parts[0].SplitBefore)
	assert.True(t, parts[0].SplitAfter)
	assert.True(t, parts[1].SplitBefore)
	assert.False(t, parts[1].SplitAfter)
	// the principal box is the first part
	assert.Same(t, parts[0], tr.Box(tr.PrincipalBox(parts[0].Element)))
}

func TestNestedBlockInInline(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	tr := parseAndBuild(t, `<p><em>a<strong>b<span style="display: block">c</span>d</strong>e</em></p>`)
	assertTree(t, tr, []serBox{
		{"p", BlockContainerT, "", []serBox{
			{"p", AnonymousBlockT, "", []serBox{
				{"em", InlineT, "", []serBox{
					{"em", TextT, "a", []serBox{}},
					{"strong", InlineT, "", []serBox{{"strong", TextT, "b", []serBox{}}}},
				}},
			}},
			{"span", BlockContainerT, "", []serBox{{"span", TextT, "c", []serBox{}}}},
			{"p", AnonymousBlockT, "", []serBox{
				{"em", InlineT, "", []serBox{
					{"strong", InlineT, "", []serBox{{"strong", TextT, "d", []serBox{}}}},
					{"em", TextT, "e", []serBox{}},
				}},
			}},
		}},
	})
}

func TestInlineBlock(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	tr := parseAndBuild(t, `<p>a <span style="display: inline-block">b<em style="display: block">c</em></span> d</p>`)
	assertTree(t, tr, []serBox{
		{"p", BlockContainerT, "", []serBox{
			{"p", TextT, "a ", []serBox{}},
			{"span", BlockContainerT, "", []serBox{
				{"span", AnonymousBlockT, "", []serBox{{"span", TextT, "b", []serBox{}}}},
				{"em", BlockContainerT, "", []serBox{{"em", TextT, "c", []serBox{}}}},
			}},
			{"p", TextT, " d", []serBox{}},
		}},
	})
	span := tr.Box(tr.Box(tr.Box(tr.Box(tr.Root).Children[0]).Children[0]).Children[1])
	assert.True(t, span.IsAtomicInline())
	assert.True(t, span.IsInlineLevel())
	assert.False(t, span.IsBlockLevel())
	assert.True(t, span.EstablishesFormattingContext())
}

func TestWhitespaces(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	// http://www.w3.org/TR/CSS21/text.html#white-space-model
	tr := parseAndBuild(t, "<p>Lorem \t\n  ipsum\t<strong>  dolor </strong> sit  </p>"+
		"<pre>\t  foo\n</pre>"+
		"<pre style=\"white-space: pre-wrap\">\t  foo\n</pre>"+
		"<pre style=\"white-space: pre-line\">\t  foo\n  bar</pre>")
	assertTree(t, tr, []serBox{
		{"p", BlockContainerT, "", []serBox{
			{"p", TextT, "Lorem ipsum ", []serBox{}},
			{"strong", InlineT, "", []serBox{{"strong", TextT, "dolor ", []serBox{}}}},
			{"p", TextT, "sit", []serBox{}},
		}},
		{"pre", BlockContainerT, "", []serBox{{"pre", TextT, "\t  foo\n", []serBox{}}}},
		{"pre", BlockContainerT, "", []serBox{{"pre", TextT, "\t  foo\n", []serBox{}}}},
		{"pre", BlockContainerT, "", []serBox{{"pre", TextT, "foo\nbar", []serBox{}}}},
	})

	// deterministic
	tr2 := parseAndBuild(t, "<p>Lorem \t\n  ipsum\t<strong>  dolor </strong> sit  </p>"+
		"<pre>\t  foo\n</pre>"+
		"<pre style=\"white-space: pre-wrap\">\t  foo\n</pre>"+
		"<pre style=\"white-space: pre-line\">\t  foo\n  bar</pre>")
	assert.Equal(t, texts(tr), texts(tr2))
}

func TestDisplayNone(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	root, style := parseHTML(t, `<p>a<span style="display: none">b<em>c</em></span></p>`)
	tr := BuildFormattingStructure(root, style, NewURLResolver(nil))
	require.NoError(t, tr.SanityCheck())
	assertTree(t, tr, []serBox{{"p", BlockContainerT, "", []serBox{{"p", TextT, "a", []serBox{}}}}})

	assert.Equal(t, NoBox, tr.PrincipalBox(findElement(root, "span")))
	assert.Equal(t, NoBox, tr.PrincipalBox(findElement(root, "em")))
	assert.NotEqual(t, NoBox, tr.PrincipalBox(findElement(root, "p")))
	assert.Equal(t, NoBox, tr.PrincipalBox(findElement(root, "head")))

	// no box at all
	root, style = parseHTML(t, `<html style="display: none"><p>a</p></html>`)
	tr = BuildFormattingStructure(root, style, NewURLResolver(nil))
	assert.Equal(t, NoBox, tr.Root)
	assert.Zero(t, tr.Len())
	assert.NoError(t, tr.SanityCheck())
}

func TestStyles(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	tr := parseAndBuild(t, `
		  <style>
			span { display: block; }
			* { margin: 42px }
			html { color: blue }
		  </style>
		  <p>Lorem <em>ipsum <strong>dolor <span>sit</span>
			<span>amet,</span></strong><span>consectetur</span></em></p>`)

	blue := pr.Color(pa.ParseColorString("blue"))
	for _, id := range tr.Descendants(tr.Root) {
		box := tr.Box(id)
		// All boxes inherit the color
		assert.Equal(t, blue, box.Style.GetColor())
		// Only non-anonymous boxes have margins
		mt := box.Style.GetMarginTop()
		switch box.Kind {
		case TextT, AnonymousBlockT:
			assert.Equal(t, pr.FToPx(0), mt)
		default:
			assert.Equal(t, pr.FToPx(42), mt)
		}
	}
}

func TestParentLinks(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	tr := parseAndBuild(t, `<div>a<p>b <em>c</em></p><ul><li>d</li></ul></div>`)
	assert.Equal(t, NoBox, tr.Box(tr.Root).Parent)
	for id := range tr.Boxes {
		for _, child := range tr.Boxes[id].Children {
			assert.Equal(t, BoxID(id), tr.Box(child).Parent)
			// tree order
			assert.Greater(t, child, BoxID(id))
		}
	}
	assert.Len(t, tr.Descendants(tr.Root), tr.Len())
}

func TestFloats(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	tr := parseAndBuild(t, `<div>a<span style="float: left">f</span>b<p>c</p></div>`)
	assertTree(t, tr, []serBox{
		{"div", BlockContainerT, "", []serBox{
			{"div", AnonymousBlockT, "", []serBox{
				{"div", TextT, "a", []serBox{}},
				{"span", FloatT, "", []serBox{{"span", TextT, "f", []serBox{}}}},
				{"div", TextT, "b", []serBox{}},
			}},
			{"p", BlockContainerT, "", []serBox{{"p", TextT, "c", []serBox{}}}},
		}},
	})

	require.Len(t, tr.FloatAnchors, 1)
	for id, anchor := range tr.FloatAnchors {
		float := tr.Box(id)
		assert.True(t, float.IsFloated())
		assert.False(t, float.IsInNormalFlow())
		assert.True(t, float.EstablishesFormattingContext())
		assert.Equal(t, float.Parent, anchor.Container)
		assert.Equal(t, AnonymousBlockT, tr.Box(anchor.Container).Kind)
		assert.Equal(t, "a", tr.Box(anchor.Preceding).Text)
	}

	// floats and absolutes are neutral regarding mixed content
	tr = parseAndBuild(t, `<div><span style="float: right">f</span><p>c</p><em style="position: absolute">x</em></div>`)
	assertTree(t, tr, []serBox{
		{"div", BlockContainerT, "", []serBox{
			{"span", FloatT, "", []serBox{{"span", TextT, "f", []serBox{}}}},
			{"p", BlockContainerT, "", []serBox{{"p", TextT, "c", []serBox{}}}},
			{"em", BlockContainerT, "", []serBox{{"em", TextT, "x", []serBox{}}}},
		}},
	})
	for id, anchor := range tr.FloatAnchors {
		assert.Equal(t, tr.Box(id).Parent, anchor.Container)
		assert.Equal(t, NoBox, anchor.Preceding)
	}
	em := tr.Box(tr.Box(tr.Box(tr.Box(tr.Root).Children[0]).Children[0]).Children[2])
	assert.True(t, em.IsAbsolutelyPositioned())
	assert.False(t, em.IsFixed())
}

func TestGeneratedContent(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	tr := parseAndBuild(t, `
	<style>
		body { counter-reset: c 5 }
		p { counter-increment: c }
		p::before { content: "[" counter(c) "] " }
		p::after { content: attr(title); display: block }
	</style>
	<p title="T1">a</p><p>b</p>`)
	assertTree(t, tr, []serBox{
		{"p", BlockContainerT, "", []serBox{
			{"p", AnonymousBlockT, "", []serBox{
				{"p", AnonymousInlineT, "", []serBox{{"p", TextT, "[6] ", []serBox{}}}},
				{"p", TextT, "a", []serBox{}},
			}},
			{"p", AnonymousBlockT, "", []serBox{{"p", TextT, "T1", []serBox{}}}},
		}},
		{"p", BlockContainerT, "", []serBox{
			{"p", AnonymousBlockT, "", []serBox{
				{"p", AnonymousInlineT, "", []serBox{{"p", TextT, "[7] ", []serBox{}}}},
				{"p", TextT, "b", []serBox{}},
			}},
			// empty attribute
			{"p", AnonymousBlockT, "", []serBox{}},
		}},
	})

	// quotes
	tr = parseAndBuild(t, `<p><q>Hi <q>there</q></q></p>`)
	assert.Equal(t, []string{"“", "Hi ", "‘", "there", "’", "”"}, texts(tr))

	tr = parseAndBuild(t, `<style>q { quotes: "<" ">" }</style><p><q>a</q></p>`)
	assert.Equal(t, []string{"<", "a", ">"}, texts(tr))

	// line breaks
	tr = parseAndBuild(t, `<p>a<br>b</p>`)
	assert.Equal(t, []string{"a", "\n", "b"}, texts(tr))
}

func TestInvalidContent(t *testing.T) {
	logs := tu.CaptureLogs()
	tr := parseAndBuild(t, `<style>p::before { content: counter() }</style><p>a</p>`)
	logs.CheckLogs(t, 1) // the declaration is ignored

	assert.Equal(t, []string{"a"}, texts(tr))
}

func TestNestedCounters(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	tr := parseAndBuild(t, `
	<style>
		ol { counter-reset: item; list-style-type: none }
		li { counter-increment: item }
		li::before { content: counters(item, ".") " " }
	</style>
	<ol><li>a<ol><li>b</li><li>c</li></ol></li><li>d</li></ol>`)
	assert.Equal(t, []string{"1 ", "a", "1.1 ", "b", "1.2 ", "c", "2 ", "d"}, texts(tr))
}

func TestListMarkers(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	tr := parseAndBuild(t, `<ul><li>a</li><li>b</li></ul>`+
		`<ol><li>x</li><li style="list-style-type: upper-roman">y</li><li style="list-style-type: none">z</li></ol>`)
	assert.Equal(t, []string{"• ", "a", "• ", "b", "1. ", "x", "II. ", "y", "z"}, texts(tr))

	for _, box := range tr.Boxes {
		if box.PseudoType == "marker" && box.Kind == AnonymousInlineT {
			assert.Equal(t, "li", ElementTag(&box))
		}
	}

	tr = parseAndBuild(t, `<style>li::marker { content: "-> " }</style><ul><li>a</li></ul>`)
	assert.Equal(t, []string{"-> ", "a"}, texts(tr))
}

func TestFirstLetter(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	tr := parseAndBuild(t, `<style>p::first-letter { color: red }</style><p>"Hello <em>world</em></p>`)
	assertTree(t, tr, []serBox{
		{"p", BlockContainerT, "", []serBox{
			{"p", AnonymousInlineT, "", []serBox{{"p", TextT, `"H`, []serBox{}}}},
			{"p", TextT, "ello ", []serBox{}},
			{"em", InlineT, "", []serBox{{"em", TextT, "world", []serBox{}}}},
		}},
	})
	for _, box := range tr.Boxes {
		if box.PseudoType == "first-letter" {
			assert.Equal(t, pr.Color(pa.ParseColorString("red")), box.Style.GetColor())
		}
	}

	tr = parseAndBuild(t, `<style>p::first-letter { color: red }</style><p><em>w</em>x</p>`)
	assert.Equal(t, []string{"w", "x"}, texts(tr))
}

func TestFirstLineStyles(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	// principal boxes of `tag`, in tree order
	boxesOf := func(tr *Tree, tag string) []*Box {
		var out []*Box
		for i := range tr.Boxes {
			if box := tr.Box(BoxID(i)); box.Kind == BlockContainerT && ElementTag(box) == tag {
				out = append(out, box)
			}
		}
		return out
	}

	tr := parseAndBuild(t, `<style>div::first-line { color: red }</style><div>a<p>b</p></div>`)
	div := boxesOf(tr, "div")[0]
	require.NotNil(t, div.FirstLineStyle)
	assert.Equal(t, pr.Color(pa.ParseColorString("red")), div.FirstLineStyle.GetColor())
	anonymous := tr.Box(div.Children[0])
	assert.Equal(t, AnonymousBlockT, anonymous.Kind)
	assert.Equal(t, div.FirstLineStyle, anonymous.FirstLineStyle)
	assert.Nil(t, boxesOf(tr, "p")[0].FirstLineStyle)

	// the first line of the div is the one of its first child
	tr = parseAndBuild(t, `<style>div::first-line { color: red }</style><div><p>b</p><p>c</p></div>`)
	ps := boxesOf(tr, "p")
	require.Len(t, ps, 2)
	assert.Equal(t, boxesOf(tr, "div")[0].FirstLineStyle, ps[0].FirstLineStyle)
	assert.Nil(t, ps[1].FirstLineStyle)

	tr = parseAndBuild(t, `<div><p>b</p></div>`)
	assert.Nil(t, boxesOf(tr, "div")[0].FirstLineStyle)
}

func TestTextTransform(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	tr := parseAndBuild(t, `<p style="text-transform: uppercase">straße</p>`+
		`<p style="text-transform: capitalize">hello big world</p>`+
		`<p style="text-transform: lowercase">HeLLo</p>`+
		`<p lang="tr" style="text-transform: uppercase">i</p>`+
		"<p>e\u0301</p>")
	assert.Equal(t, []string{"STRASSE", "Hello Big World", "hello", "İ", "\u00e9"}, texts(tr))
}

func TestImgAltText(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	// the alt text box is appended to the arena after the <img> box
	for _, html := range []string{
		`<p><img alt="hello"></p>`,
		`<img alt="hello">`,
		`<p><span><img alt="hello"></span></p>`,
	} {
		tr := parseAndBuild(t, html)
		assert.Equal(t, []string{"hello"}, texts(tr), html)
		img := tr.Box(tr.ElementBoxes[findImg(tr)])
		require.Len(t, img.Children, 1, html)
		assert.Equal(t, "hello", tr.Box(img.Children[0]).Text)
	}

	tr := parseAndBuild(t, `<p>x<img alt="hello">y</p>`)
	assert.Equal(t, []string{"x", "hello", "y"}, texts(tr))
}

func findImg(tr *Tree) tree.Element {
	for element := range tr.ElementBoxes {
		if element.Tag() == "img" {
			return element
		}
	}
	return nil
}

func encodePNG(t *testing.T, w, h int) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, w, h))))
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

func TestImages(t *testing.T) {
	logs := tu.CaptureLogs()

	src := encodePNG(t, 4, 2)
	tr := parseAndBuild(t, `<p><img src="`+src+`"> <img src="missing.png" alt="Missing"> <img src="missing.png"></p>`+
		`<p><img style="display: block" src="`+src+`"><img style="float: left" src="`+src+`"></p>`+
		`<p><embed src="missing.png"><object data="missing.png">fallback</object></p>`)
	logs.CheckLogs(t, 1) // the failure is cached

	assertTree(t, tr, []serBox{
		{"p", BlockContainerT, "", []serBox{
			{"img", ReplacedT, "", []serBox{}},
			{"p", TextT, " ", []serBox{}},
			{"img", InlineT, "", []serBox{{"img", TextT, "Missing", []serBox{}}}},
		}},
		{"p", BlockContainerT, "", []serBox{
			{"img", ReplacedT, "", []serBox{}},
			{"img", FloatT, "", []serBox{}},
		}},
		{"p", BlockContainerT, "", []serBox{
			{"object", InlineT, "", []serBox{{"object", TextT, "fallback", []serBox{}}}},
		}},
	})

	var replaced []*Box
	for i := range tr.Boxes {
		if box := tr.Box(BoxID(i)); box.IsReplaced() {
			replaced = append(replaced, box)
		}
	}
	require.Len(t, replaced, 3)
	assert.True(t, replaced[0].IsAtomicInline())
	assert.True(t, replaced[1].IsBlockLevel())
	assert.True(t, replaced[2].IsFloated())
	assert.False(t, replaced[2].IsBlockContainer())
	w, h := replaced[0].Replacement.GetIntrinsicSize()
	assert.Equal(t, pr.Float(4), w)
	assert.Equal(t, pr.Float(2), h)

	// url() generated content
	tr = parseAndBuild(t, `<style>p::before { content: url("`+src+`") " ok" }</style><p>a</p>`)
	before := tr.Box(tr.Box(tr.Box(tr.Box(tr.Root).Children[0]).Children[0]).Children[0])
	require.Equal(t, "before", before.PseudoType)
	require.Len(t, before.Children, 2)
	assert.True(t, tr.Box(before.Children[0]).IsReplaced())
	assert.Equal(t, " ok", tr.Box(before.Children[1]).Text)
}

func TestSanityCheck(t *testing.T) {
	style := tree.NewAnonymousStyle(nil)
	tr := &Tree{
		Root: 0,
		Boxes: []Box{
			{Kind: BlockContainerT, Style: style, Parent: NoBox, Children: []BoxID{1, 2}},
			{Kind: TextT, Style: style, Parent: 0, Text: "a"},
			{Kind: BlockContainerT, Style: style, Parent: 0},
		},
	}
	assert.Error(t, tr.SanityCheck())

	tr.Boxes[0].Kind = InlineT
	assert.Error(t, tr.SanityCheck())

	tr.Boxes[2].Kind = InlineT
	assert.NoError(t, tr.SanityCheck())

	tr.Boxes[1].Parent = 2
	assert.Error(t, tr.SanityCheck())

	var buf strings.Builder
	tr.Boxes[1].Parent = 0
	tr.Dump(&buf)
	assert.Equal(t, 3, strings.Count(buf.String(), "\n"))
}

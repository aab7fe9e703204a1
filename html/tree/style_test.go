package tree

import (
	"strings"
	"testing"

	pa "github.com/benoitkugler/printlayout/css/parser"
	pr "github.com/benoitkugler/printlayout/css/properties"
	tu "github.com/benoitkugler/printlayout/utils/testutils"
)

func colorOf(name string) pr.Color { return pr.Color(pa.ParseColorString(name)) }

func sheet(origin Origin, css string) Stylesheet {
	return Stylesheet{Origin: origin, Matcher: ParseStylesheet(css, "print")}
}

func TestCascadeOrigins(t *testing.T) {
	p := NewElement("p", nil, NewText("text"))
	root := NewElement("html", nil, NewElement("body", nil, p))

	styles := GetAllComputedStyles(root, []Stylesheet{
		sheet(OriginAuthor, "p { color: green }"),
		sheet(OriginUser, "p { color: blue }"),
		UserAgentStylesheet(),
	})
	tu.AssertEqual(t, styles.Get(p, "").GetColor(), colorOf("green"))

	styles = GetAllComputedStyles(root, []Stylesheet{
		sheet(OriginAuthor, "p { color: green !important }"),
		sheet(OriginUser, "p { color: blue !important }"),
	})
	tu.AssertEqual(t, styles.Get(p, "").GetColor(), colorOf("blue"))

	styles = GetAllComputedStyles(root, []Stylesheet{
		sheet(OriginAuthor, "p { color: green }"),
		sheet(OriginUser, "p { color: blue !important }"),
		Stylesheet{Origin: OriginUserAgent, Matcher: ParseStylesheet("p { color: red !important }", "print")},
	})
	tu.AssertEqual(t, styles.Get(p, "").GetColor(), colorOf("red"))

	// an important user agent declaration wins over any normal one
	styles = GetAllComputedStyles(root, []Stylesheet{
		sheet(OriginUserAgent, "p { color: red !important; font-style: italic }"),
		sheet(OriginAuthor, "p { color: green; font-style: normal }"),
	})
	tu.AssertEqual(t, styles.Get(p, "").GetColor(), colorOf("red"))
	tu.AssertEqual(t, styles.Get(p, "").GetFontStyle(), pr.String("normal"))

	tu.AssertEqual(t, declarationPrecedence(OriginUserAgent, true) > declarationPrecedence(OriginUser, true), true)
	tu.AssertEqual(t, declarationPrecedence(OriginUser, true) > declarationPrecedence(OriginAuthor, true), true)
	tu.AssertEqual(t, declarationPrecedence(OriginAuthor, true) > declarationPrecedence(OriginAuthor, false), true)
	tu.AssertEqual(t, declarationPrecedence(OriginAuthor, false) > declarationPrecedence(OriginUser, false), true)
	tu.AssertEqual(t, declarationPrecedence(OriginUser, false) > declarationPrecedence(OriginUserAgent, false), true)
}

func TestCascadeSpecificity(t *testing.T) {
	p := NewElement("p", map[string]string{"class": "a b", "id": "main"})
	q := NewElement("p", nil)
	root := NewElement("html", nil, p, q)

	styles := GetAllComputedStyles(root, []Stylesheet{sheet(OriginAuthor, `
		.a { color: red }
		p { color: blue; font-size: 10px }
		p { font-size: 20px }
		#main { font-size: 30px }
		* { font-style: italic }
	`)})
	tu.AssertEqual(t, styles.Get(p, "").GetColor(), colorOf("red"))
	tu.AssertEqual(t, styles.Get(q, "").GetColor(), colorOf("blue"))
	tu.AssertEqual(t, styles.Get(p, "").GetFontSize(), pr.FToPx(30))
	tu.AssertEqual(t, styles.Get(q, "").GetFontSize(), pr.FToPx(20)) // later wins
	tu.AssertEqual(t, styles.Get(q, "").GetFontStyle(), pr.String("italic"))
}

func TestStyleAttribute(t *testing.T) {
	p := NewElement("p", map[string]string{"id": "x", "style": "color: red; margin: 2px"})
	root := NewElement("html", nil, p)
	styles := GetAllComputedStyles(root, []Stylesheet{sheet(OriginAuthor, "#x { color: blue; margin-top: 4px }")})
	tu.AssertEqual(t, styles.Get(p, "").GetColor(), colorOf("red"))
	tu.AssertEqual(t, styles.Get(p, "").GetMarginTop(), pr.FToPx(2))
}

func TestInheritance(t *testing.T) {
	span := NewElement("span", nil)
	div := NewElement("div", nil, span)
	root := NewElement("html", nil, div)
	styles := GetAllComputedStyles(root, []Stylesheet{sheet(OriginAuthor, `
		html { font-size: 10px; color: red }
		div { font-size: 2em; margin-left: 1em; line-height: 1.5; padding-top: 10% }
		span { font-size: 150%; margin-left: inherit; line-height: inherit; width: 2rem }
	`)})

	divStyle, spanStyle := styles.Get(div, ""), styles.Get(span, "")
	tu.AssertEqual(t, divStyle.GetFontSize(), pr.FToPx(20))
	tu.AssertEqual(t, divStyle.GetMarginLeft(), pr.FToPx(20))
	tu.AssertEqual(t, divStyle.GetPaddingTop(), pr.PercToV(10))
	tu.AssertEqual(t, spanStyle.GetFontSize(), pr.FToPx(30))
	tu.AssertEqual(t, spanStyle.GetColor(), colorOf("red"))
	// inherited values are the computed values of the parent
	tu.AssertEqual(t, spanStyle.GetMarginLeft(), pr.FToPx(20))
	tu.AssertEqual(t, spanStyle.GetLineHeight(), pr.FToV(1.5))
	tu.AssertEqual(t, UsedLineHeight(spanStyle), pr.Float(45))
	tu.AssertEqual(t, spanStyle.GetWidth(), pr.FToPx(20))
	// not inherited
	tu.AssertEqual(t, spanStyle.GetPaddingTop(), pr.FToPx(0))
	tu.AssertEqual(t, spanStyle.ParentStyle() == divStyle, true)
	tu.AssertEqual(t, styles.Get(root, "").ParentStyle() == nil, true)
}

func TestComputedValues(t *testing.T) {
	b := NewElement("b", nil)
	floated := NewElement("span", map[string]string{"class": "float"})
	abs := NewElement("span", map[string]string{"class": "abs"})
	root := NewElement("html", nil, NewElement("body", nil, b, floated, abs))
	styles := GetAllComputedStyles(root, []Stylesheet{
		UserAgentStylesheet(),
		sheet(OriginAuthor, `
			body { font-size: large; border-top-style: solid; border-bottom: 2px; color: #00f }
			.float { float: left }
			.abs { float: right; position: absolute; vertical-align: super }
		`),
	})

	bodyStyle := styles.Get(root.Children()[0], "")
	tu.AssertEqual(t, bodyStyle.GetFontSize(), pr.FToPx(16*6/5.))
	tu.AssertEqual(t, bodyStyle.GetBorderTopWidth(), pr.FToPx(3))
	tu.AssertEqual(t, bodyStyle.GetBorderBottomWidth(), pr.FToPx(0)) // style is none
	tu.AssertEqual(t, bodyStyle.GetBorderTopColor(), colorOf("blue"))
	tu.AssertEqual(t, bodyStyle.GetMarginTop(), pr.FToPx(8))

	tu.AssertEqual(t, styles.Get(b, "").GetFontWeight(), pr.Int(700))
	tu.AssertEqual(t, styles.Get(floated, "").GetDisplay(), pr.String("block"))
	absStyle := styles.Get(abs, "")
	tu.AssertEqual(t, absStyle.GetFloat(), pr.String("none"))
	tu.AssertEqual(t, absStyle.GetDisplay(), pr.String("block"))
	tu.AssertEqual(t, absStyle.GetVerticalAlign(), pr.FToPx(16*6/5.*0.5))

	// the root element is blockified
	tu.AssertEqual(t, styles.Get(root, "").GetDisplay(), pr.String("block"))
}

func TestPseudoElements(t *testing.T) {
	p := NewElement("p", map[string]string{"title": "Hello"})
	li := NewElement("li", nil)
	root := NewElement("html", nil, p, NewElement("ul", nil, li))
	styles := GetAllComputedStyles(root, []Stylesheet{
		UserAgentStylesheet(),
		sheet(OriginAuthor, `
			p { color: red }
			p::before { content: attr(title) " - " }
			p:after { color: blue }
		`),
	})

	before := styles.Get(p, "before")
	tu.AssertEqual(t, before.GetContent(), pr.SContent{Contents: pr.ContentProperties{
		{Type: "string", String: "Hello"},
		{Type: "string", String: " - "},
	}})
	tu.AssertEqual(t, before.GetColor(), colorOf("red"))
	tu.AssertEqual(t, before.ParentStyle() == styles.Get(p, ""), true)
	tu.AssertEqual(t, styles.Get(p, "after").GetContent(), pr.SContent{String: "normal"})
	tu.AssertEqual(t, styles.Get(p, "first-letter") == nil, true)
	tu.AssertEqual(t, styles.Get(p, "marker") == nil, true)
	tu.AssertEqual(t, styles.Get(li, "marker") != nil, true)
}

func TestPageStyle(t *testing.T) {
	root := NewElement("html", nil)
	styles := GetAllComputedStyles(root, []Stylesheet{
		UserAgentStylesheet(),
		sheet(OriginAuthor, `
			html { font-size: 20px; color: red }
			@page { size: 100px 200px; margin-left: 1em }
			@media screen { @page { size: a4 } }
		`),
	})
	page := styles.PageStyle()
	tu.AssertEqual(t, page.GetSize(), pr.Point{{Value: 100, Unit: pr.Px}, {Value: 200, Unit: pr.Px}})
	tu.AssertEqual(t, page.GetMarginTop(), pr.FToPx(75))
	tu.AssertEqual(t, page.GetMarginLeft(), pr.FToPx(20))
	tu.AssertEqual(t, page.GetColor(), colorOf("red"))
}

func TestLangAttribute(t *testing.T) {
	p := NewElement("p", map[string]string{"lang": "FR-ca"})
	span := NewElement("span", nil)
	root := NewElement("html", map[string]string{"lang": "en"}, p, span)
	styles := GetAllComputedStyles(root, nil)
	tu.AssertEqual(t, styles.Get(root, "").GetLang(), pr.String("en"))
	tu.AssertEqual(t, styles.Get(p, "").GetLang(), pr.String("fr-ca"))
	tu.AssertEqual(t, styles.Get(span, "").GetLang(), pr.String("en"))
}

func TestInvalidDeclarations(t *testing.T) {
	p := NewElement("p", nil)
	root := NewElement("html", nil, p)

	logs := tu.CaptureLogs()
	styles := GetAllComputedStyles(root, []Stylesheet{sheet(OriginAuthor, `
		p { color: red; colr: blue; width: -5px; color: nonsense }
	`)})
	logs.CheckLogs(t, 3)

	tu.AssertEqual(t, styles.Get(p, "").GetColor(), colorOf("red"))
	tu.AssertEqual(t, styles.Get(p, "").GetWidth(), pr.SToV("auto"))
}

func TestParseStylesheet(t *testing.T) {
	logs := tu.CaptureLogs()
	rs := ParseStylesheet(`
		h1, .title, #main, *, p.a.b::before { color: red }
		div p { color: blue }
		@media print { em { color: green } }
		@media screen { strong { color: green } }
		@page :first { margin: 0 }
		@page { margin: 0 }
	`, "print")
	logs.CheckLogs(t, 2)
	tu.AssertEqual(t, rs.Len(), 7)

	el := NewElement("p", map[string]string{"class": "b a c"})
	matched := rs.Match(el)
	tu.AssertEqual(t, len(matched), 2)
	tu.AssertEqual(t, matched[0].Specificity, Specificity{0, 0, 0})
	tu.AssertEqual(t, matched[1].PseudoType, "before")
	tu.AssertEqual(t, matched[1].Specificity, Specificity{0, 2, 2})

	tu.AssertEqual(t, len(rs.Match(PageContext)), 1)
	tu.AssertEqual(t, len(rs.Match(NewText("h1"))), 0)
}

func TestParseHTML(t *testing.T) {
	root, err := ParseHTML(strings.NewReader(`<!DOCTYPE html>
		<html><head><style media="print">p { color: red }</style><style media="screen">p { color: blue }</style></head>
		<body><p lang="de">Hello <b>world</b></p><!-- comment --></body></html>`))
	if err != nil {
		t.Fatal(err)
	}
	tu.AssertEqual(t, root.Tag(), "html")
	tu.AssertEqual(t, IsRoot(root), true)

	sheets := FindStylesheets(root, "print")
	tu.AssertEqual(t, len(sheets), 1)

	body := root.Children()[len(root.Children())-1]
	tu.AssertEqual(t, body.Tag(), "body")
	p := body.Children()[0]
	tu.AssertEqual(t, TextContent(p), "Hello world")
	lang, _ := p.Attr("lang")
	tu.AssertEqual(t, lang, "de")
	// identity is stable
	tu.AssertEqual(t, body.Children()[0] == p, true)

	styles := GetAllComputedStyles(root, append([]Stylesheet{UserAgentStylesheet()}, sheets...))
	tu.AssertEqual(t, styles.Get(p, "").GetColor(), colorOf("red"))
	tu.AssertEqual(t, styles.Get(root.Children()[0], "").GetDisplay(), pr.String("none"))
}

func TestFirstLineStyle(t *testing.T) {
	em := NewElement("em", map[string]string{"style": "color: blue"}, NewText("b"))
	span := NewElement("span", nil, NewText("c"))
	p := NewElement("p", nil, NewText("a"), em, span)
	root := NewElement("html", nil, p)
	styles := GetAllComputedStyles(root, []Stylesheet{sheet(OriginAuthor, `
		p { color: green; font-size: 10px; margin-left: 5px }
		p::first-line { color: red; font-size: 20px }
	`)})
	firstLine := styles.Get(p, "first-line")
	tu.AssertEqual(t, firstLine != nil, true)

	direct := FirstLineStyle(NewAnonymousStyle(styles.Get(p, "")), firstLine)
	tu.AssertEqual(t, direct.GetColor(), colorOf("red"))
	tu.AssertEqual(t, direct.GetFontSize(), pr.FToPx(20))
	tu.AssertEqual(t, direct.GetMarginLeft(), pr.FToPx(0))

	// values set on a nested element win over the first line
	nested := FirstLineStyle(NewAnonymousStyle(styles.Get(em, "")), firstLine)
	tu.AssertEqual(t, nested.GetColor(), colorOf("blue"))
	tu.AssertEqual(t, nested.GetFontSize(), pr.FToPx(20))

	nested = FirstLineStyle(NewAnonymousStyle(styles.Get(span, "")), firstLine)
	tu.AssertEqual(t, nested.GetColor(), colorOf("red"))

	// the container itself
	tu.AssertEqual(t, FirstLineStyle(styles.Get(p, ""), firstLine).GetColor(), colorOf("red"))
	tu.AssertEqual(t, styles.Get(p, "").GetColor(), colorOf("green"))
}

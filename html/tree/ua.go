package tree

import (
	"strings"
	"sync"
)

// userAgentCSS is a subset of the HTML4 default stylesheet
// (see https://www.w3.org/TR/CSS21/sample.html), extended with
// the HTML5 sectioning elements.
const userAgentCSS = `
html, address, blockquote, body, dd, div, dl, dt, fieldset, form,
h1, h2, h3, h4, h5, h6, noframes, ol, p, ul, center, dir, hr, menu, pre,
article, aside, details, figcaption, figure, footer, header, hgroup,
main, nav, section, summary { display: block }
li { display: list-item }
head, script, style, title, meta, link, template, base, noscript { display: none }
body { margin: 8px }
h1 { font-size: 2em; margin: .67em 0 }
h2 { font-size: 1.5em; margin: .75em 0 }
h3 { font-size: 1.17em; margin: .83em 0 }
h4, p, blockquote, ul, fieldset, form, ol, dl, dir, menu { margin: 1.12em 0 }
h5 { font-size: .83em; margin: 1.5em 0 }
h6 { font-size: .75em; margin: 1.67em 0 }
h1, h2, h3, h4, h5, h6, b, strong { font-weight: bolder }
blockquote { margin-left: 40px; margin-right: 40px }
i, cite, em, var, address { font-style: italic }
pre, tt, code, kbd, samp { font-family: monospace }
pre { white-space: pre }
big { font-size: 1.17em }
small, sub, sup { font-size: .83em }
sub { vertical-align: sub }
sup { vertical-align: super }
ol, ul, dd { margin-left: 40px }
ol, ul { counter-reset: list-item }
ol { list-style-type: decimal }
center { text-align: center }
hr { border: 1px inset }
br::before { content: "\A"; white-space: pre-line }
q::before { content: open-quote }
q::after { content: close-quote }
@page { margin: 75px }
`

var (
	uaOnce       sync.Once
	uaStylesheet *RuleSet
)

// UserAgentStylesheet returns the default stylesheet, parsed once.
// The "print" medium is assumed.
func UserAgentStylesheet() Stylesheet {
	uaOnce.Do(func() {
		uaStylesheet = ParseStylesheet(userAgentCSS, "print")
	})
	return Stylesheet{Origin: OriginUserAgent, Matcher: uaStylesheet}
}

// FindStylesheets returns the author stylesheets embedded
// in <style> elements applying to `medium`, in document order.
func FindStylesheets(root Element, medium string) []Stylesheet {
	var out []Stylesheet
	var walk func(el Element)
	walk = func(el Element) {
		if el.Tag() == "style" {
			if media, ok := el.Attr("media"); !ok || mediaAttrMatches(media, medium) {
				rs := ParseStylesheet(TextContent(el), medium)
				out = append(out, Stylesheet{Origin: OriginAuthor, Matcher: rs})
			}
			return
		}
		for _, c := range el.Children() {
			if c.Tag() != "" {
				walk(c)
			}
		}
	}
	walk(root)
	return out
}

func mediaAttrMatches(media, medium string) bool {
	for _, m := range strings.Split(media, ",") {
		m = strings.ToLower(strings.TrimSpace(m))
		if m == "" || m == "all" || m == medium {
			return true
		}
	}
	return false
}

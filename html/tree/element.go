// Package tree implements the document model consumed by the layout:
// the element tree, the stylesheets matched against it and the CSS cascade
// producing the computed style of every element.
package tree

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Element is a node of the document tree.
// Text nodes have an empty tag and only provide [Element.Text].
// Implementations must be comparable, since elements are used as map keys.
type Element interface {
	// Tag returns the lower cased tag name, or "" for text nodes.
	Tag() string
	// Attr returns the value of the given attribute.
	Attr(name string) (string, bool)
	Children() []Element
	// Text returns the content of a text node.
	Text() string
}

// Node is a simple in-memory implementation of [Element].
type Node struct {
	tag      string
	attrs    map[string]string
	children []Element
	text     string
}

// NewElement returns an element node.
func NewElement(tag string, attrs map[string]string, children ...Element) *Node {
	return &Node{tag: strings.ToLower(tag), attrs: attrs, children: children}
}

// NewText returns a text node.
func NewText(text string) *Node { return &Node{text: text} }

func (n *Node) Tag() string { return n.tag }

func (n *Node) Attr(name string) (string, bool) {
	v, ok := n.attrs[name]
	return v, ok
}

func (n *Node) Children() []Element { return n.children }

func (n *Node) Text() string { return n.text }

// Append adds children to the node and returns it.
func (n *Node) Append(children ...Element) *Node {
	n.children = append(n.children, children...)
	return n
}

func (n *Node) String() string {
	if n.tag == "" {
		return fmt.Sprintf("%q", n.text)
	}
	return "<" + n.tag + ">"
}

// HTMLElement adapts a parsed HTML node. The children are
// built once so that the same Go value is returned for a given node.
type HTMLElement struct {
	node     *html.Node
	children []Element
}

// FromHTMLNode wraps an element or document node, ignoring comments,
// doctypes and processing instructions.
// For a document node, the root <html> element is returned.
func FromHTMLNode(node *html.Node) (*HTMLElement, error) {
	if node.Type == html.DocumentNode {
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode {
				return FromHTMLNode(c)
			}
		}
		return nil, fmt.Errorf("no root element in HTML document")
	}
	if node.Type != html.ElementNode {
		return nil, fmt.Errorf("unexpected node type %d", node.Type)
	}
	return wrapNode(node), nil
}

func wrapNode(node *html.Node) *HTMLElement {
	out := &HTMLElement{node: node}
	for c := node.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.ElementNode, html.TextNode:
			out.children = append(out.children, wrapNode(c))
		}
	}
	return out
}

// ParseHTML parses an HTML document and returns its root element.
func ParseHTML(r io.Reader) (*HTMLElement, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}
	return FromHTMLNode(doc)
}

func (h *HTMLElement) Tag() string {
	if h.node.Type != html.ElementNode {
		return ""
	}
	if h.node.DataAtom != 0 {
		return h.node.DataAtom.String()
	}
	return strings.ToLower(h.node.Data)
}

func (h *HTMLElement) Attr(name string) (string, bool) {
	for _, attr := range h.node.Attr {
		if attr.Namespace == "" && attr.Key == name {
			return attr.Val, true
		}
	}
	return "", false
}

func (h *HTMLElement) Children() []Element { return h.children }

func (h *HTMLElement) Text() string {
	if h.node.Type == html.TextNode {
		return h.node.Data
	}
	return ""
}

// IsRoot returns true for the <html> element.
func IsRoot(el Element) bool {
	if h, ok := el.(*HTMLElement); ok {
		return h.node.DataAtom == atom.Html
	}
	return el.Tag() == "html"
}

// TextContent returns the concatenated text of the descendants.
func TextContent(el Element) string {
	if el.Tag() == "" {
		return el.Text()
	}
	var b strings.Builder
	for _, c := range el.Children() {
		b.WriteString(TextContent(c))
	}
	return b.String()
}

// pageContext is the pseudo element used to cascade @page rules.
type pageContext struct{}

func (*pageContext) Tag() string                { return "@page" }
func (*pageContext) Attr(string) (string, bool) { return "", false }
func (*pageContext) Children() []Element        { return nil }
func (*pageContext) Text() string               { return "" }

// PageContext is the element matched by @page rules.
var PageContext Element = &pageContext{}

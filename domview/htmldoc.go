package domview

import (
	"strings"

	"golang.org/x/net/html"
)

// HTMLDocument is a Document over statically parsed HTML. It has no
// geometry: every element reports a zero box and Visible() == true. It is
// the workhorse for strategy tests and for verifying selectors against
// serialized page snapshots without a browser.
type HTMLDocument struct {
	els []*htmlElement
}

// ParseHTML parses an HTML fragment or document into an HTMLDocument.
func ParseHTML(src string) (*HTMLDocument, error) {
	root, err := html.Parse(strings.NewReader(src))
	if err != nil {
		return nil, err
	}

	doc := &HTMLDocument{}
	byNode := map[*html.Node]*htmlElement{}

	var walk func(n *html.Node, parent *htmlElement)
	walk = func(n *html.Node, parent *htmlElement) {
		cur := parent
		if n.Type == html.ElementNode {
			el := &htmlElement{node: n, parent: parent}
			byNode[n] = el
			doc.els = append(doc.els, el)
			cur = el
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c, cur)
		}
	}
	walk(root, nil)
	return doc, nil
}

// QueryAll implements Document.
func (d *HTMLDocument) QueryAll(selector string) ([]Element, error) {
	return queryElements(d.Elements(), selector)
}

// Elements returns all elements in document order.
func (d *HTMLDocument) Elements() []Element {
	out := make([]Element, len(d.els))
	for i, el := range d.els {
		out[i] = el
	}
	return out
}

// First returns the first element matching a selector, or nil.
func (d *HTMLDocument) First(selector string) Element {
	els, err := d.QueryAll(selector)
	if err != nil || len(els) == 0 {
		return nil
	}
	return els[0]
}

type htmlElement struct {
	node   *html.Node
	parent *htmlElement
	attrs  map[string]string // lazily built
}

func (e *htmlElement) Tag() string { return strings.ToLower(e.node.Data) }

func (e *htmlElement) Attr(name string) string { return e.Attrs()[name] }

func (e *htmlElement) HasAttr(name string) bool {
	_, ok := e.Attrs()[name]
	return ok
}

func (e *htmlElement) Attrs() map[string]string {
	if e.attrs == nil {
		e.attrs = make(map[string]string, len(e.node.Attr))
		for _, a := range e.node.Attr {
			e.attrs[a.Key] = a.Val
		}
	}
	return e.attrs
}

func (e *htmlElement) Text() string {
	var b strings.Builder
	var collect func(n *html.Node)
	collect = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(e.node)
	return strings.Join(strings.Fields(b.String()), " ")
}

func (e *htmlElement) Parent() Element {
	if e.parent == nil {
		return nil
	}
	return e.parent
}

func (e *htmlElement) Box() Rect { return Rect{} }

func (e *htmlElement) Visible() bool { return true }

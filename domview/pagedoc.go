package domview

import (
	"github.com/go-rod/rod"
)

// PageDocument answers structural queries against a live Rod page. It is
// what uniqueness scoring runs on in production: QueryAll is a real
// document.querySelectorAll round trip.
type PageDocument struct {
	page *rod.Page
}

// NewPageDocument wraps a live page.
func NewPageDocument(page *rod.Page) *PageDocument {
	return &PageDocument{page: page}
}

// QueryAll implements Document. Matches are returned as thin wrappers;
// callers only ever count them or read tags.
func (d *PageDocument) QueryAll(selector string) ([]Element, error) {
	els, err := d.page.Elements(selector)
	if err != nil {
		return nil, err
	}
	out := make([]Element, 0, len(els))
	for _, el := range els {
		out = append(out, &pageElement{el: el})
	}
	return out, nil
}

// pageElement is a minimal live-element wrapper. Property reads go through
// CDP and swallow errors into zero values, matching the engine's
// error-opaque generation contract.
type pageElement struct {
	el *rod.Element
}

func (e *pageElement) Tag() string {
	desc, err := e.el.Describe(0, false)
	if err != nil {
		return ""
	}
	return lower(desc.NodeName)
}

func (e *pageElement) Attr(name string) string {
	v, err := e.el.Attribute(name)
	if err != nil || v == nil {
		return ""
	}
	return *v
}

func (e *pageElement) HasAttr(name string) bool {
	v, err := e.el.Attribute(name)
	return err == nil && v != nil
}

func (e *pageElement) Attrs() map[string]string {
	attrs := map[string]string{}
	desc, err := e.el.Describe(0, false)
	if err != nil {
		return attrs
	}
	for i := 0; i+1 < len(desc.Attributes); i += 2 {
		attrs[desc.Attributes[i]] = desc.Attributes[i+1]
	}
	return attrs
}

func (e *pageElement) Text() string {
	t, err := e.el.Text()
	if err != nil {
		return ""
	}
	return t
}

func (e *pageElement) Parent() Element {
	p, err := e.el.Parent()
	if err != nil {
		return nil
	}
	return &pageElement{el: p}
}

func (e *pageElement) Box() Rect {
	shape, err := e.el.Shape()
	if err != nil || len(shape.Quads) == 0 {
		return Rect{}
	}
	box := shape.Box()
	return Rect{X: box.X, Y: box.Y, Width: box.Width, Height: box.Height}
}

func (e *pageElement) Visible() bool {
	v, err := e.el.Visible()
	return err == nil && v
}

func lower(s string) string {
	b := []byte(s)
	for i := range b {
		if b[i] >= 'A' && b[i] <= 'Z' {
			b[i] += 'a' - 'A'
		}
	}
	return string(b)
}

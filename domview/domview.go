// Package domview provides a read-only abstraction over page elements and
// documents. Selector strategies depend on these narrow capability
// interfaces instead of a full browser DOM type, so they stay testable with
// lightweight fakes and portable across live pages and offline snapshots.
package domview

// Rect is an element bounding box in viewport coordinates.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Center returns the midpoint of the box.
func (r Rect) Center() (float64, float64) {
	return r.X + r.Width/2, r.Y + r.Height/2
}

// Empty reports whether the box has no area.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Element exposes exactly the operations selector strategies need.
type Element interface {
	// Tag returns the lowercase tag name.
	Tag() string
	// Attr returns the attribute value, or "" when absent.
	Attr(name string) string
	// HasAttr reports whether the attribute is present (even if empty).
	HasAttr(name string) bool
	// Attrs returns all attributes. Callers must not mutate the map.
	Attrs() map[string]string
	// Text returns the trimmed visible text content.
	Text() string
	// Parent returns the parent element, or nil at the root.
	Parent() Element
	// Box returns the bounding box. A zero box means unknown geometry.
	Box() Rect
	// Visible reports whether the element is rendered (nonzero box and
	// display != none at capture time).
	Visible() bool
}

// Document answers structural queries against a page or snapshot.
type Document interface {
	// QueryAll returns every element matching a CSS selector. It returns
	// an error for selector syntax the backing view cannot evaluate;
	// callers treat that as "not verifiable", never as a failure.
	QueryAll(selector string) ([]Element, error)
}

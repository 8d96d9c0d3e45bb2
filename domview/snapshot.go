package domview

// ElementData is the raw per-element payload captured from a live page in a
// single JS evaluation. Parent is the index of the parent element within the
// same capture, or -1 for roots.
type ElementData struct {
	Tag     string            `json:"tag"`
	Attrs   map[string]string `json:"attrs"`
	Text    string            `json:"text"`
	Box     Rect              `json:"box"`
	Visible bool              `json:"visible"`
	Parent  int               `json:"parent"`
}

// Snapshot is an immutable whole-page element view built from captured data.
// It implements Document so selectors can be verified against it offline.
type Snapshot struct {
	els []*SnapshotElement
}

// NewSnapshot links captured element data into a navigable snapshot.
func NewSnapshot(data []ElementData) *Snapshot {
	s := &Snapshot{els: make([]*SnapshotElement, len(data))}
	for i, d := range data {
		attrs := d.Attrs
		if attrs == nil {
			attrs = map[string]string{}
		}
		s.els[i] = &SnapshotElement{data: ElementData{
			Tag:     d.Tag,
			Attrs:   attrs,
			Text:    d.Text,
			Box:     d.Box,
			Visible: d.Visible,
			Parent:  d.Parent,
		}}
	}
	for i, d := range data {
		if d.Parent >= 0 && d.Parent < len(s.els) && d.Parent != i {
			s.els[i].parent = s.els[d.Parent]
		}
	}
	return s
}

// Elements returns every element in capture order.
func (s *Snapshot) Elements() []Element {
	out := make([]Element, len(s.els))
	for i, el := range s.els {
		out[i] = el
	}
	return out
}

// QueryAll implements Document against the captured elements.
func (s *Snapshot) QueryAll(selector string) ([]Element, error) {
	return queryElements(s.Elements(), selector)
}

// SnapshotElement is a pure-data Element; it never touches the live page.
type SnapshotElement struct {
	data   ElementData
	parent *SnapshotElement
}

func (e *SnapshotElement) Tag() string { return e.data.Tag }

func (e *SnapshotElement) Attr(name string) string { return e.data.Attrs[name] }

func (e *SnapshotElement) HasAttr(name string) bool {
	_, ok := e.data.Attrs[name]
	return ok
}

func (e *SnapshotElement) Attrs() map[string]string { return e.data.Attrs }

func (e *SnapshotElement) Text() string { return e.data.Text }

func (e *SnapshotElement) Parent() Element {
	if e.parent == nil {
		return nil
	}
	return e.parent
}

func (e *SnapshotElement) Box() Rect { return e.data.Box }

func (e *SnapshotElement) Visible() bool { return e.data.Visible }

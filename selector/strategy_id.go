package selector

import "fmt"

// idStrategy emits `#id` for deliberately authored ids. Framework-generated
// ids (hex blobs, react-*, ember123, UUIDs, temp_/auto_ prefixes) churn on
// every build and are rejected outright.
type idStrategy struct {
	w Weights
}

func (idStrategy) Name() string { return "id" }

func (s idStrategy) Generate(opts Options) []Generated {
	id := opts.Element.Attr("id")
	if id == "" || IsGeneratedID(id) {
		return nil
	}
	return []Generated{cssCandidate(
		"#"+id,
		s.w.ID,
		TypeID,
		fmt.Sprintf("ID selector #%s", id),
	)}
}

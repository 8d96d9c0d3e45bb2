package selector

import "fmt"

// testAttributeStrategy binds to explicit test hooks (data-testid and
// friends). Despite being purpose-built for automation these rank below the
// accessibility-first signals: the policy is that selectors should exercise
// what users perceive, with test attributes as the dependable last resort.
type testAttributeStrategy struct {
	w Weights
}

func (testAttributeStrategy) Name() string { return "test-attribute" }

func (s testAttributeStrategy) Generate(opts Options) []Generated {
	el := opts.Element
	var out []Generated

	for _, attr := range testIDAttributes {
		v := el.Attr(attr)
		if v == "" || !IsStableValue(v) {
			continue
		}
		out = append(out, cssCandidate(
			attrSelector("", attr, v),
			s.w.TestAttribute,
			TypeTestID,
			fmt.Sprintf("Test attribute %s=%q", attr, v),
		))
		break // first present attribute wins; the rest are aliases
	}
	return out
}

package selector

import (
	"github.com/probelab/domscout/domview"
	"github.com/probelab/domscout/locator"
)

// scoreUniqueness marks each CSS candidate unique when a structural query
// against the document matches exactly one element. Native locators and
// pseudo-class selectors cannot be verified structurally and stay
// non-unique; so does any candidate whose query fails.
func scoreUniqueness(doc domview.Document, cands []Generated) {
	if doc == nil {
		return
	}
	for i := range cands {
		c := &cands[i]
		if c.IsPlaywrightOptimized || c.Locator.Kind != locator.KindCSS {
			continue
		}
		matches, err := doc.QueryAll(c.Selector)
		if err != nil {
			continue
		}
		c.IsUnique = len(matches) == 1
	}
}

package selector

import "sort"

// rank filters, dedupes, orders, and truncates candidates. Input is never
// mutated beyond reordering the provided slice; candidates themselves are
// copied out unchanged.
func rank(cands []Generated, opts Options, w Weights) []Generated {
	kept := make([]Generated, 0, len(cands))
	seen := make(map[string]int, len(cands))

	for _, c := range cands {
		if c.Confidence < w.MinConfidence {
			continue
		}
		if opts.MaxLength > 0 && len(c.Selector) > opts.MaxLength {
			continue
		}
		// Identical display forms collapse to the higher-confidence one.
		if i, ok := seen[c.Selector]; ok {
			if c.Confidence > kept[i].Confidence {
				kept[i] = c
			}
			continue
		}
		seen[c.Selector] = len(kept)
		kept = append(kept, c)
	}

	sort.SliceStable(kept, func(i, j int) bool {
		a, b := kept[i], kept[j]
		if opts.PrioritizeUniqueness && a.IsUnique != b.IsUnique {
			return a.IsUnique
		}
		return a.Confidence > b.Confidence
	})

	if len(kept) > w.MaxCandidates {
		kept = kept[:w.MaxCandidates]
	}
	return kept
}

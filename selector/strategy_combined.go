package selector

import (
	"fmt"
	"strings"
)

// combinedStrategy fuses several weak signals into one compound selector.
// No single attribute carries it, so it only fires when at least three
// signals are present, and its confidence is additive but capped.
type combinedStrategy struct {
	w Weights
}

func (combinedStrategy) Name() string { return "combined" }

const minCombinedSignals = 3

func (s combinedStrategy) Generate(opts Options) []Generated {
	el := opts.Element

	sel := el.Tag()
	conf := s.w.CombinedBase
	signals := 0
	var parts []string

	if role := el.Attr("role"); role != "" {
		sel += fmt.Sprintf(`[role=%q]`, role)
		conf += s.w.CombinedRole
		signals++
		parts = append(parts, "role "+role)
	}
	if label := el.Attr("aria-label"); label != "" && IsStableValue(label) {
		sel += fmt.Sprintf(`[aria-label=%q]`, label)
		conf += s.w.CombinedAriaLabel
		signals++
		parts = append(parts, fmt.Sprintf("label %q", label))
	}
	if name := el.Attr("name"); name != "" && IsStableValue(name) {
		sel += fmt.Sprintf(`[name=%q]`, name)
		conf += s.w.CombinedName
		signals++
		parts = append(parts, fmt.Sprintf("name %q", name))
	}
	if typ := el.Attr("type"); typ != "" {
		sel += fmt.Sprintf(`[type=%q]`, typ)
		conf += s.w.CombinedType
		signals++
		parts = append(parts, "type "+typ)
	}
	if ph := el.Attr("placeholder"); ph != "" && IsStableValue(ph) {
		sel += fmt.Sprintf(`[placeholder=%q]`, ph)
		conf += s.w.CombinedPlaceholder
		signals++
		parts = append(parts, fmt.Sprintf("placeholder %q", ph))
	}

	pseudo := false
	if opts.IncludePlaywrightSpecific {
		if text := shortText(el.Text(), maxLocatorText); text != "" {
			sel += fmt.Sprintf(`:has-text(%q)`, text)
			conf += s.w.CombinedText
			signals++
			pseudo = true
			parts = append(parts, fmt.Sprintf("text %q", text))
		}
		if el.Visible() {
			sel += ":visible"
			conf += s.w.CombinedVisible
			signals++
			pseudo = true
			parts = append(parts, "visible")
		}
	}

	if signals < minCombinedSignals {
		return nil
	}
	if conf > s.w.CombinedCap {
		conf = s.w.CombinedCap
	}

	desc := fmt.Sprintf("Combined %s: %s", el.Tag(), strings.Join(parts, ", "))
	if pseudo {
		return []Generated{pseudoCandidate(sel, conf, TypeCSS, desc)}
	}
	return []Generated{cssCandidate(sel, conf, TypeCSS, desc)}
}

package selector

import "fmt"

// xpathStrategy is the low-candidate fallback. XPath is brittle relative to
// the other strategies, so its output hugs the confidence floor and is only
// consulted when the registry came up short.
type xpathStrategy struct {
	w Weights
}

func (xpathStrategy) Name() string { return "xpath-fallback" }

func (s xpathStrategy) Generate(opts Options) []Generated {
	el := opts.Element
	var out []Generated

	if id := el.Attr("id"); id != "" && !IsGeneratedID(id) {
		out = append(out, xpathCandidate(
			fmt.Sprintf(`//*[@id=%q]`, id),
			s.w.XPathID,
			fmt.Sprintf("XPath by id %q", id),
		))
	}
	if name := el.Attr("name"); name != "" && IsStableValue(name) {
		out = append(out, xpathCandidate(
			fmt.Sprintf(`//%s[@name=%q]`, el.Tag(), name),
			s.w.XPathName,
			fmt.Sprintf("XPath by name %q", name),
		))
	}
	if label := el.Attr("aria-label"); label != "" && IsStableValue(label) {
		out = append(out, xpathCandidate(
			fmt.Sprintf(`//%s[@aria-label=%q]`, el.Tag(), label),
			s.w.XPathAria,
			fmt.Sprintf("XPath by aria-label %q", label),
		))
	}
	if text := shortText(el.Text(), maxLocatorText); text != "" {
		out = append(out, xpathCandidate(
			fmt.Sprintf(`//%s[normalize-space(text())=%q]`, el.Tag(), text),
			s.w.XPathText,
			fmt.Sprintf("XPath by exact text %q", text),
		))
		out = append(out, xpathCandidate(
			fmt.Sprintf(`//%s[contains(text(),%q)]`, el.Tag(), text),
			s.w.XPathPartialText,
			fmt.Sprintf("XPath by partial text %q", text),
		))
	}
	return out
}

package selector

import "fmt"

// ariaStrategy emits structural CSS over ARIA attributes for consumers that
// cannot execute native locators. Same signals as the native strategy,
// expressed as verifiable attribute selectors.
type ariaStrategy struct {
	w Weights
}

func (ariaStrategy) Name() string { return "semantic-aria" }

func (s ariaStrategy) Generate(opts Options) []Generated {
	el := opts.Element
	var out []Generated

	role := el.Attr("role")
	ariaLabel := el.Attr("aria-label")
	name := el.Attr("name")

	if role != "" && ariaLabel != "" && IsStableValue(ariaLabel) {
		out = append(out, cssCandidate(
			fmt.Sprintf(`[role=%q][aria-label=%q]`, role, ariaLabel),
			s.w.AriaRoleLabel,
			TypeAria,
			fmt.Sprintf("Role %s with label %q", role, ariaLabel),
		))
	}

	if role != "" && name != "" && IsStableValue(name) {
		out = append(out, cssCandidate(
			fmt.Sprintf(`%s[role=%q][name=%q]`, el.Tag(), role, name),
			s.w.AriaRoleName,
			TypeAria,
			fmt.Sprintf("Role %s with name %q", role, name),
		))
	}

	if ariaLabel != "" && IsStableValue(ariaLabel) {
		out = append(out, cssCandidate(
			attrSelector("", "aria-label", ariaLabel),
			s.w.AriaLabel,
			TypeAria,
			fmt.Sprintf("ARIA label %q", ariaLabel),
		))
	}

	if role != "" && ariaLabel == "" && name == "" {
		out = append(out, cssCandidate(
			attrSelector(el.Tag(), "role", role),
			s.w.AriaRoleTag,
			TypeAria,
			fmt.Sprintf("%s with role %s", el.Tag(), role),
		))
	}

	return out
}

package selector

import (
	"fmt"

	"github.com/probelab/domscout/locator"
)

const maxLocatorText = 50

// nativeStrategy emits getBy* locators. Role plus accessible name is the
// strongest signal the engine produces: it survives markup churn as long as
// the element means the same thing to a user.
type nativeStrategy struct {
	w Weights
}

func (nativeStrategy) Name() string { return "playwright-native" }

func (s nativeStrategy) Generate(opts Options) []Generated {
	if !opts.IncludePlaywrightSpecific {
		return nil
	}
	el := opts.Element
	var out []Generated

	role := elementRole(el)
	ariaLabel := el.Attr("aria-label")
	text := shortText(el.Text(), maxLocatorText)

	if role != "" {
		switch {
		case ariaLabel != "" && IsStableValue(ariaLabel):
			out = append(out, nativeCandidate(
				locator.Spec{Kind: locator.KindRole, Value: role, Name: ariaLabel, Exact: true},
				s.w.NativeRoleAriaName,
				fmt.Sprintf("Role %s named %q", role, ariaLabel),
			))
		case text != "":
			out = append(out, nativeCandidate(
				locator.Spec{Kind: locator.KindRole, Value: role, Name: text, Exact: true},
				s.w.NativeRoleTextName,
				fmt.Sprintf("Role %s named %q", role, text),
			))
		default:
			out = append(out, nativeCandidate(
				locator.Spec{Kind: locator.KindRole, Value: role},
				s.w.NativeRole,
				fmt.Sprintf("Role %s", role),
			))
		}
	}

	if ariaLabel != "" && IsStableValue(ariaLabel) {
		out = append(out, nativeCandidate(
			locator.Spec{Kind: locator.KindLabel, Value: ariaLabel},
			s.w.NativeLabel,
			fmt.Sprintf("Label %q", ariaLabel),
		))
	}

	if text != "" {
		out = append(out, nativeCandidate(
			locator.Spec{Kind: locator.KindText, Value: text, Exact: true},
			s.w.NativeText,
			fmt.Sprintf("Text %q", text),
		))
	}

	if ph := el.Attr("placeholder"); ph != "" && IsStableValue(ph) {
		out = append(out, nativeCandidate(
			locator.Spec{Kind: locator.KindPlaceholder, Value: ph},
			s.w.NativePlaceholder,
			fmt.Sprintf("Placeholder %q", ph),
		))
	}

	if title := el.Attr("title"); title != "" && IsStableValue(title) {
		out = append(out, nativeCandidate(
			locator.Spec{Kind: locator.KindTitle, Value: title},
			s.w.NativeTitle,
			fmt.Sprintf("Title %q", title),
		))
	}

	if tid := el.Attr("data-testid"); tid != "" && IsStableValue(tid) {
		out = append(out, nativeCandidate(
			locator.Spec{Kind: locator.KindTestID, Value: tid},
			s.w.NativeTestID,
			fmt.Sprintf("Test id %q", tid),
		))
	}

	return out
}

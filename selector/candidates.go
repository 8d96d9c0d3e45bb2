package selector

import (
	"fmt"
	"strings"

	"github.com/probelab/domscout/domview"
	"github.com/probelab/domscout/locator"
)

// testIDAttributes in priority order. data-testid first: it is the
// ecosystem default and the only one getByTestId resolves natively.
var testIDAttributes = []string{
	"data-testid", "data-test-id", "data-test", "data-cy", "data-automation",
}

func cssCandidate(sel string, conf float64, typ Type, desc string) Generated {
	return Generated{
		Selector:    sel,
		Confidence:  conf,
		Type:        typ,
		Description: desc,
		Locator:     locator.CSS(sel),
	}
}

// pseudoCandidate builds a CSS candidate that uses test-engine pseudo-class
// syntax; structural queries cannot verify it, so it is flagged optimized.
func pseudoCandidate(sel string, conf float64, typ Type, desc string) Generated {
	g := cssCandidate(sel, conf, typ, desc)
	g.IsPlaywrightOptimized = true
	return g
}

func nativeCandidate(spec locator.Spec, conf float64, desc string) Generated {
	return Generated{
		Selector:              spec.String(),
		Confidence:            conf,
		Type:                  TypePlaywright,
		Description:           desc,
		IsPlaywrightOptimized: true,
		Locator:               spec,
	}
}

func xpathCandidate(expr string, conf float64, desc string) Generated {
	return Generated{
		Selector:    expr,
		Confidence:  conf,
		Type:        TypeXPath,
		Description: desc,
		Locator:     locator.XPath(expr),
	}
}

// attrSelector renders `tag[attr="value"]`, quoting the value.
func attrSelector(tag, attr, value string) string {
	return fmt.Sprintf(`%s[%s=%q]`, tag, attr, value)
}

// implicitRole mirrors the accessibility mapping used by native locators:
// the role a tag carries without an explicit role attribute.
func implicitRole(el domview.Element) string {
	switch el.Tag() {
	case "a":
		if el.HasAttr("href") {
			return "link"
		}
	case "button":
		return "button"
	case "input":
		switch strings.ToLower(el.Attr("type")) {
		case "button", "submit", "reset", "image":
			return "button"
		case "checkbox":
			return "checkbox"
		case "radio":
			return "radio"
		case "search":
			return "searchbox"
		case "range":
			return "slider"
		case "hidden":
			return ""
		default:
			return "textbox"
		}
	case "textarea":
		return "textbox"
	case "select":
		return "combobox"
	case "h1", "h2", "h3", "h4", "h5", "h6":
		return "heading"
	case "img":
		return "img"
	case "nav":
		return "navigation"
	case "main":
		return "main"
	case "form":
		return "form"
	case "table":
		return "table"
	case "ul", "ol":
		return "list"
	case "li":
		return "listitem"
	case "option":
		return "option"
	}
	return ""
}

// elementRole returns the explicit role attribute, falling back to the
// implicit mapping.
func elementRole(el domview.Element) string {
	if r := el.Attr("role"); r != "" {
		return r
	}
	return implicitRole(el)
}

package locator

import (
	"fmt"
	"strings"

	"github.com/go-rod/rod"
)

// implicitRoleTags maps an ARIA role to the tags that carry it implicitly.
// Input entries are refined by type attribute in roleXPath.
var implicitRoleTags = map[string][]string{
	"button":     {"button"},
	"link":       {"a"},
	"textbox":    {"textarea"},
	"combobox":   {"select"},
	"heading":    {"h1", "h2", "h3", "h4", "h5", "h6"},
	"img":        {"img"},
	"navigation": {"nav"},
	"main":       {"main"},
	"form":       {"form"},
	"list":       {"ul", "ol"},
	"listitem":   {"li"},
	"table":      {"table"},
	"option":     {"option"},
	"checkbox":   {},
	"radio":      {},
	"searchbox":  {},
}

// inputTypeRoles maps input[type=...] values to implicit roles.
var inputTypeRoles = map[string]string{
	"button":   "button",
	"submit":   "button",
	"reset":    "button",
	"image":    "button",
	"checkbox": "checkbox",
	"radio":    "radio",
	"search":   "searchbox",
	"text":     "textbox",
	"email":    "textbox",
	"tel":      "textbox",
	"url":      "textbox",
	"password": "textbox",
	"number":   "textbox",
	"":         "textbox",
}

// Resolve turns a Spec into a live element handle. Timeouts are inherited
// from the page the caller passes in (page.Timeout(...)).
func Resolve(page *rod.Page, spec Spec) (*rod.Element, error) {
	switch spec.Kind {
	case KindCSS:
		return page.Element(spec.Value)
	case KindXPath:
		return page.ElementX(spec.Value)
	case KindTestID:
		return page.Element(fmt.Sprintf(`[data-testid=%q]`, spec.Value))
	case KindPlaceholder:
		return page.Element(fmt.Sprintf(`[placeholder=%q]`, spec.Value))
	case KindTitle:
		return page.Element(fmt.Sprintf(`[title=%q]`, spec.Value))
	case KindLabel:
		return resolveLabel(page, spec.Value)
	case KindText:
		return page.ElementX(textXPath(spec.Value, spec.Exact))
	case KindRole:
		return page.ElementX(roleXPath(spec.Value, spec.Name, spec.Exact))
	default:
		return nil, fmt.Errorf("locator: unknown kind %q", spec.Kind)
	}
}

// resolveLabel matches aria-label first, then a <label> whose text matches,
// resolving through its for= attribute.
func resolveLabel(page *rod.Page, label string) (*rod.Element, error) {
	el, err := page.Element(fmt.Sprintf(`[aria-label=%q]`, label))
	if err == nil {
		return el, nil
	}
	lit := xpathLiteral(label)
	// for= association, then a control nested inside the label.
	expr := fmt.Sprintf(
		`//*[@id = //label[normalize-space(.) = %s]/@for] | //label[normalize-space(.) = %s]//input | //label[normalize-space(.) = %s]//select | //label[normalize-space(.) = %s]//textarea`,
		lit, lit, lit, lit)
	return page.ElementX(expr)
}

func textXPath(text string, exact bool) string {
	lit := xpathLiteral(text)
	if exact {
		return fmt.Sprintf(`//*[normalize-space(text()) = %s]`, lit)
	}
	return fmt.Sprintf(`//*[contains(normalize-space(.), %s)]`, lit)
}

// roleXPath builds a union over the explicit role attribute and the tags
// that carry the role implicitly, optionally constrained by accessible name.
func roleXPath(role, name string, exact bool) string {
	var branches []string
	branches = append(branches, fmt.Sprintf(`//*[@role = %s]`, xpathLiteral(role)))
	for _, tag := range implicitRoleTags[role] {
		if tag == "a" {
			// Only anchors with href expose the link role.
			branches = append(branches, `//a[@href]`)
			continue
		}
		branches = append(branches, "//"+tag)
	}
	for _, typ := range inputTypesForRole(role) {
		branches = append(branches, fmt.Sprintf(`//input[@type = %s]`, xpathLiteral(typ)))
	}

	expr := strings.Join(branches, " | ")
	if name == "" {
		return expr
	}

	lit := xpathLiteral(name)
	var cond string
	if exact {
		cond = fmt.Sprintf(`@aria-label = %s or normalize-space(.) = %s or @value = %s`, lit, lit, lit)
	} else {
		cond = fmt.Sprintf(`contains(@aria-label, %s) or contains(normalize-space(.), %s) or contains(@value, %s)`, lit, lit, lit)
	}
	return fmt.Sprintf(`(%s)[%s]`, expr, cond)
}

// inputTypesForRole returns input type values carrying the role implicitly,
// in stable order (map iteration would make generated XPath nondeterministic).
func inputTypesForRole(role string) []string {
	var out []string
	for _, typ := range []string{"button", "submit", "reset", "image", "checkbox", "radio", "search", "text", "email", "tel", "url", "password", "number"} {
		if inputTypeRoles[typ] == role {
			out = append(out, typ)
		}
	}
	return out
}

// xpathLiteral quotes a string for XPath 1.0, which has no escape syntax:
// strings containing both quote styles need concat().
func xpathLiteral(s string) string {
	if !strings.Contains(s, `'`) {
		return "'" + s + "'"
	}
	if !strings.Contains(s, `"`) {
		return `"` + s + `"`
	}
	parts := strings.Split(s, `'`)
	for i, p := range parts {
		parts[i] = "'" + p + "'"
	}
	return "concat(" + strings.Join(parts, `, "'", `) + ")"
}

// Package locator defines the executable locator representation shared by
// the selector engine and the session manager. A Spec is the source of
// truth; the string form is a display rendering derived from it, and Parse
// exists to accept externally supplied strings (stored selectors, API
// callers) without ever failing.
package locator

import (
	"fmt"
	"regexp"
	"strings"
)

// Kind discriminates the locator variants.
type Kind string

const (
	KindCSS         Kind = "css"
	KindXPath       Kind = "xpath"
	KindRole        Kind = "getByRole"
	KindText        Kind = "getByText"
	KindLabel       Kind = "getByLabel"
	KindTestID      Kind = "getByTestId"
	KindPlaceholder Kind = "getByPlaceholder"
	KindTitle       Kind = "getByTitle"
)

// Spec is a tagged locator. Value is the CSS/XPath expression or the first
// native-locator argument. Name and Exact mirror the optional
// `{ name, exact }` options of role/text locators.
type Spec struct {
	Kind  Kind   `json:"kind"`
	Value string `json:"value"`
	Name  string `json:"name,omitempty"`
	Exact bool   `json:"exact,omitempty"`
}

// CSS builds a plain CSS spec.
func CSS(selector string) Spec { return Spec{Kind: KindCSS, Value: selector} }

// XPath builds an XPath spec.
func XPath(expr string) Spec { return Spec{Kind: KindXPath, Value: expr} }

// Native reports whether the spec is a getBy* locator.
func (s Spec) Native() bool {
	return s.Kind != KindCSS && s.Kind != KindXPath
}

// String renders the display form: the raw expression for CSS/XPath, the
// `method('arg', { ... })` call syntax for native locators.
func (s Spec) String() string {
	if !s.Native() {
		return s.Value
	}
	var opts []string
	if s.Name != "" {
		opts = append(opts, fmt.Sprintf("name: '%s'", s.Name))
	}
	if s.Exact {
		opts = append(opts, "exact: true")
	}
	if len(opts) == 0 {
		return fmt.Sprintf("%s('%s')", s.Kind, s.Value)
	}
	return fmt.Sprintf("%s('%s', { %s })", s.Kind, s.Value, strings.Join(opts, ", "))
}

// nativeRe matches `method('arg')` or `method('arg', { options })` with
// either quote style around the argument. Go's regexp has no backreferences,
// so the two quote styles are spelled out as separate alternatives; exactly
// one of the two argument groups participates in any match.
var nativeRe = regexp.MustCompile(
	`^(getByRole|getByText|getByLabel|getByTestId|getByPlaceholder|getByTitle)\(\s*(?:'((?:[^'"\\]|\\.)*)'|"((?:[^'"\\]|\\.)*)")\s*(?:,\s*\{([^}]*)\}\s*)?\)$`)

var optRe = regexp.MustCompile(`(\w+)\s*:\s*(?:'((?:[^'"\\]|\\.)*)'|"((?:[^'"\\]|\\.)*)"|(true|false))`)

// Parse interprets a selector string. It is total: anything that is not
// native-locator syntax falls through to XPath (leading '/', '(' or './')
// or CSS, never an error.
func Parse(raw string) Spec {
	s := strings.TrimSpace(raw)

	if m := nativeRe.FindStringSubmatch(s); m != nil {
		spec := Spec{Kind: Kind(m[1]), Value: unescape(m[2] + m[3])}
		for _, opt := range optRe.FindAllStringSubmatch(m[4], -1) {
			switch opt[1] {
			case "name":
				spec.Name = unescape(opt[2] + opt[3])
			case "exact":
				spec.Exact = opt[4] == "true"
			}
		}
		return spec
	}

	if strings.HasPrefix(s, "/") || strings.HasPrefix(s, "(") || strings.HasPrefix(s, "./") {
		return Spec{Kind: KindXPath, Value: s}
	}
	return Spec{Kind: KindCSS, Value: s}
}

func unescape(s string) string {
	s = strings.ReplaceAll(s, `\'`, `'`)
	s = strings.ReplaceAll(s, `\"`, `"`)
	return s
}

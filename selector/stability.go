package selector

import (
	"regexp"
	"strings"
)

// The two stability predicates below are invoked by nearly every strategy.
// They live here, once, so the heuristics cannot drift between callers.

var (
	pureHexRe    = regexp.MustCompile(`^[0-9a-fA-F]{8,}$`)
	pureDigitsRe = regexp.MustCompile(`^\d+$`)
	timestampRe  = regexp.MustCompile(`\d{13}`)
	emberRe      = regexp.MustCompile(`^ember\d+`)
	uuidRe       = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)
)

// IsStableValue reports whether an attribute value is worth binding a
// selector to. Rejected: empty, longer than 100 chars, pure hex of 8+
// chars, pure digits, or anything embedding a 13-digit epoch timestamp.
func IsStableValue(v string) bool {
	if len(v) < 2 || len(v) > 100 {
		return false
	}
	if pureHexRe.MatchString(v) {
		return false
	}
	if pureDigitsRe.MatchString(v) {
		return false
	}
	if timestampRe.MatchString(v) {
		return false
	}
	return true
}

// IsGeneratedID reports whether an element id looks framework- or
// build-generated and therefore unstable across deployments.
func IsGeneratedID(id string) bool {
	if id == "" {
		return true
	}
	if pureHexRe.MatchString(id) || pureDigitsRe.MatchString(id) || uuidRe.MatchString(id) {
		return true
	}
	if strings.HasPrefix(id, "react-") || emberRe.MatchString(id) {
		return true
	}
	if strings.HasPrefix(id, "temp_") || strings.HasPrefix(id, "auto_") {
		return true
	}
	return false
}

// shortText returns the element's text trimmed for use as a locator
// argument, or "" when it is unusable (empty, too long, or unstable).
func shortText(text string, max int) string {
	t := strings.TrimSpace(text)
	if t == "" || len(t) > max {
		return ""
	}
	if !IsStableValue(t) {
		return ""
	}
	return t
}

package domview

import (
	"fmt"
	"strings"
)

// queryElements evaluates a CSS selector against a flat element list.
// Supported syntax:
//
//	tag, #id, .class, [attr], [attr=val], [attr="val"]
//	compound parts: tag.class#id[attr="val"][attr2]
//	descendant combinator (space) and child combinator (>)
//
// Pseudo-classes and anything else return an error so callers can treat the
// selector as structurally unverifiable.
func queryElements(all []Element, selector string) ([]Element, error) {
	parts, err := parseSelector(selector)
	if err != nil {
		return nil, err
	}
	if len(parts) == 0 {
		return nil, fmt.Errorf("domview: empty selector")
	}

	var out []Element
	last := parts[len(parts)-1]
	for _, el := range all {
		if !last.sel.matches(el) {
			continue
		}
		if matchesAncestry(el, parts[:len(parts)-1]) {
			out = append(out, el)
		}
	}
	return out, nil
}

// matchesAncestry checks the remaining selector parts against the element's
// ancestor chain, right to left.
func matchesAncestry(el Element, parts []selectorPart) bool {
	cur := el.Parent()
	for i := len(parts) - 1; i >= 0; i-- {
		p := parts[i]
		if p.child {
			// Child combinator applies to the part to its right, so the
			// immediate parent must match.
			if cur == nil || !p.sel.matches(cur) {
				return false
			}
			cur = cur.Parent()
			continue
		}
		// Descendant: walk up until a match or the root.
		found := false
		for cur != nil {
			if p.sel.matches(cur) {
				found = true
				cur = cur.Parent()
				break
			}
			cur = cur.Parent()
		}
		if !found {
			return false
		}
	}
	return true
}

type selectorPart struct {
	sel   simpleSelector
	child bool // this part must be the direct parent of the part to its right
}

type attrMatch struct {
	key string
	val string
	has bool // presence-only match
}

type simpleSelector struct {
	tag     string
	id      string
	classes []string
	attrs   []attrMatch
}

func (s simpleSelector) matches(el Element) bool {
	if s.tag != "" && s.tag != "*" && el.Tag() != s.tag {
		return false
	}
	if s.id != "" && el.Attr("id") != s.id {
		return false
	}
	if len(s.classes) > 0 {
		have := strings.Fields(el.Attr("class"))
		for _, want := range s.classes {
			found := false
			for _, c := range have {
				if c == want {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		}
	}
	for _, a := range s.attrs {
		if a.has {
			if !el.HasAttr(a.key) {
				return false
			}
			continue
		}
		if el.Attr(a.key) != a.val {
			return false
		}
	}
	return true
}

// parseSelector tokenizes a selector into compound parts separated by
// descendant/child combinators. Quoted attribute values may contain spaces.
func parseSelector(selector string) ([]selectorPart, error) {
	tokens, err := splitSelector(selector)
	if err != nil {
		return nil, err
	}

	var parts []selectorPart
	childNext := false
	for _, tok := range tokens {
		if tok == ">" {
			if len(parts) == 0 {
				return nil, fmt.Errorf("domview: selector starts with combinator: %q", selector)
			}
			childNext = true
			continue
		}
		sel, err := parseCompound(tok)
		if err != nil {
			return nil, err
		}
		parts = append(parts, selectorPart{sel: sel, child: childNext})
		childNext = false
	}
	if childNext {
		return nil, fmt.Errorf("domview: selector ends with combinator: %q", selector)
	}
	return parts, nil
}

// splitSelector splits on whitespace and ">" outside of bracketed sections.
func splitSelector(selector string) ([]string, error) {
	var tokens []string
	var cur strings.Builder
	depth := 0
	var quote byte

	flush := func() {
		if cur.Len() > 0 {
			tokens = append(tokens, cur.String())
			cur.Reset()
		}
	}

	for i := 0; i < len(selector); i++ {
		c := selector[i]
		switch {
		case quote != 0:
			cur.WriteByte(c)
			if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"':
			quote = c
			cur.WriteByte(c)
		case c == '[':
			depth++
			cur.WriteByte(c)
		case c == ']':
			depth--
			cur.WriteByte(c)
		case depth == 0 && (c == ' ' || c == '\t'):
			flush()
		case depth == 0 && c == '>':
			flush()
			tokens = append(tokens, ">")
		default:
			cur.WriteByte(c)
		}
	}
	if quote != 0 || depth != 0 {
		return nil, fmt.Errorf("domview: unbalanced selector: %q", selector)
	}
	flush()
	return tokens, nil
}

// parseCompound parses one compound part like `input.form#email[type="email"]`.
func parseCompound(tok string) (simpleSelector, error) {
	var s simpleSelector

	// Peel attribute selectors off the end first; they may contain # and .
	for {
		idx := strings.IndexByte(tok, '[')
		if idx < 0 {
			break
		}
		end := strings.IndexByte(tok[idx:], ']')
		if end < 0 {
			return s, fmt.Errorf("domview: unterminated attribute selector: %q", tok)
		}
		body := tok[idx+1 : idx+end]
		tok = tok[:idx] + tok[idx+end+1:]

		if eq := strings.IndexByte(body, '='); eq >= 0 {
			s.attrs = append(s.attrs, attrMatch{
				key: strings.TrimSpace(body[:eq]),
				val: strings.Trim(strings.TrimSpace(body[eq+1:]), `"'`),
			})
		} else {
			s.attrs = append(s.attrs, attrMatch{key: strings.TrimSpace(body), has: true})
		}
	}

	if strings.ContainsAny(tok, ":()") {
		return s, fmt.Errorf("domview: unsupported selector syntax: %q", tok)
	}

	if idx := strings.IndexByte(tok, '#'); idx >= 0 {
		rest := tok[idx+1:]
		if dot := strings.IndexByte(rest, '.'); dot >= 0 {
			s.id = rest[:dot]
			s.classes = append(s.classes, strings.Split(rest[dot+1:], ".")...)
		} else {
			s.id = rest
		}
		tok = tok[:idx]
	}

	if idx := strings.IndexByte(tok, '.'); idx >= 0 {
		s.classes = append(s.classes, strings.Split(tok[idx+1:], ".")...)
		tok = tok[:idx]
	}

	s.tag = strings.ToLower(tok)
	return s, nil
}

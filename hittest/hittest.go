// Package hittest resolves viewport coordinates to interactive elements.
// Collection runs in the page; ranking is pure so it can be tested without
// a browser.
package hittest

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"

	"github.com/go-rod/rod"

	"github.com/probelab/domscout/domview"
)

const (
	// SearchRadius is how far (px) from the hit point nearby interactive
	// elements are considered.
	SearchRadius = 20.0
	// MaxCandidates bounds the result list.
	MaxCandidates = 5
)

// ElementInfo is what the in-page collector reports per element.
type ElementInfo struct {
	Tag         string            `json:"tag"`
	ID          string            `json:"id"`
	Selector    string            `json:"selector"`
	Text        string            `json:"text"`
	Attributes  map[string]string `json:"attributes"`
	Box         domview.Rect      `json:"box"`
	Interactive bool              `json:"interactive"`
}

// Candidate is one ranked hit-test result.
type Candidate struct {
	Element    ElementInfo `json:"element"`
	Distance   float64     `json:"distance"`
	Confidence float64     `json:"confidence"`
	ExactHit   bool        `json:"exactHit"`
}

// collected is the raw payload from the page script.
type collected struct {
	Exact       *ElementInfo  `json:"exact"`
	Interactive []ElementInfo `json:"interactive"`
}

// Rank orders hit candidates. The exact hit scores 1.0 when interactive and
// 0.5 otherwise; nearby interactive elements are measured by the distance
// from the point to their box center, decay linearly from 1.0 at the point
// to 0.5 at SearchRadius, and are dropped beyond it.
func Rank(exact *ElementInfo, interactive []ElementInfo, x, y float64) []Candidate {
	var out []Candidate

	if exact != nil {
		conf := 0.5
		if exact.Interactive {
			conf = 1.0
		}
		out = append(out, Candidate{Element: *exact, Confidence: conf, ExactHit: true})
	}

	for _, el := range interactive {
		if exact != nil && el.Selector == exact.Selector {
			continue
		}
		d := centerDistance(el.Box, x, y)
		if d > SearchRadius {
			continue
		}
		out = append(out, Candidate{
			Element:    el,
			Distance:   d,
			Confidence: 1.0 - (d/SearchRadius)*0.5,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.ExactHit != b.ExactHit {
			return a.ExactHit
		}
		if a.Distance != b.Distance {
			return a.Distance < b.Distance
		}
		return a.Confidence > b.Confidence
	})

	if len(out) > MaxCandidates {
		out = out[:MaxCandidates]
	}
	return out
}

// centerDistance is the distance from (x, y) to the center of the box.
// Center distance, not edge distance: a wide banner that merely overlaps
// the click point must not outrank a small control centered on it.
func centerDistance(b domview.Rect, x, y float64) float64 {
	cx := b.X + b.Width/2
	cy := b.Y + b.Height/2
	return math.Hypot(cx-x, cy-y)
}

// HitTest runs the in-page collector at (x, y) and ranks the results.
func HitTest(page *rod.Page, x, y float64) ([]Candidate, error) {
	res, err := page.Eval(collectScript, x, y)
	if err != nil {
		return nil, fmt.Errorf("hittest: collect at (%v, %v): %w", x, y, err)
	}
	var c collected
	if err := json.Unmarshal([]byte(res.Value.Str()), &c); err != nil {
		return nil, fmt.Errorf("hittest: decode collector payload: %w", err)
	}
	return Rank(c.Exact, c.Interactive, x, y), nil
}

// collectScript reports the element under the point (walking up to the
// nearest interactive ancestor) plus every interactive element whose box
// center lies within the search radius.
const collectScript = `(x, y) => {
	const INTERACTIVE_TAGS = new Set(['a', 'button', 'input', 'select', 'textarea']);
	const INTERACTIVE_ROLES = new Set(['button', 'link', 'checkbox', 'radio',
		'textbox', 'combobox', 'searchbox', 'switch', 'menuitem', 'tab',
		'option', 'slider']);
	const TESTID_ATTRS = ['data-testid', 'data-test', 'data-cy', 'data-test-id', 'data-automation'];
	const RADIUS = 20;

	const isInteractive = (el) =>
		INTERACTIVE_TAGS.has(el.tagName.toLowerCase()) ||
		INTERACTIVE_ROLES.has(el.getAttribute('role') || '') ||
		el.hasAttribute('onclick') ||
		el.hasAttribute('contenteditable') ||
		parseInt(el.getAttribute('tabindex') || '', 10) > 0 ||
		TESTID_ATTRS.some((a) => el.hasAttribute(a));

	const describe = (el, interactive) => {
		const attrs = {};
		for (const a of el.attributes) attrs[a.name] = a.value;
		let selector = el.tagName.toLowerCase();
		if (el.id) selector = '#' + el.id;
		else if (attrs['data-testid']) selector = '[data-testid="' + attrs['data-testid'] + '"]';
		const r = el.getBoundingClientRect();
		return {
			tag: el.tagName.toLowerCase(),
			id: el.id || '',
			selector,
			text: (el.textContent || '').trim().slice(0, 80),
			attributes: attrs,
			box: { x: r.x, y: r.y, width: r.width, height: r.height },
			interactive,
		};
	};

	let exact = null;
	let hit = document.elementFromPoint(x, y);
	if (hit) {
		let cur = hit;
		while (cur && cur !== document.body && !isInteractive(cur)) cur = cur.parentElement;
		if (cur && cur !== document.body) hit = cur;
		exact = describe(hit, isInteractive(hit));
	}

	const interactive = [];
	const all = document.querySelectorAll(
		'a, button, input, select, textarea, [role], [onclick], [contenteditable], ' +
		'[tabindex], [data-testid], [data-test], [data-cy], [data-test-id], [data-automation]');
	for (const el of all) {
		if (!isInteractive(el)) continue;
		const r = el.getBoundingClientRect();
		if (r.width === 0 || r.height === 0) continue;
		const cx = r.x + r.width / 2, cy = r.y + r.height / 2;
		if (Math.hypot(cx - x, cy - y) > RADIUS) continue;
		interactive.push(describe(el, true));
	}
	return JSON.stringify({ exact, interactive });
}`

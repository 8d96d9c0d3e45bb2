package session

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-rod/rod/lib/proto"

	"github.com/probelab/domscout/domview"
	"github.com/probelab/domscout/selector"
)

// maxCapturedElements bounds the payload; the page snapshot itself is not
// truncated so uniqueness checks still see the whole document.
const maxCapturedElements = 150

// CaptureCurrentElements snapshots the page and runs selector generation
// per testable element.
func (m *Manager) CaptureCurrentElements(ctx context.Context, token string) ([]DetectedElement, error) {
	h, err := m.handleFor(token)
	if err != nil {
		return nil, err
	}
	rec, err := m.record(ctx, token)
	if err != nil {
		return nil, err
	}
	return m.capture(ctx, h, rec)
}

type capturePayload struct {
	Title    string                `json:"title"`
	URLPath  string                `json:"urlPath"`
	IsModal  bool                  `json:"isModal"`
	Elements []domview.ElementData `json:"elements"`
	Previews []string              `json:"previews"`
}

func (m *Manager) capture(ctx context.Context, h *handle, rec *Record) ([]DetectedElement, error) {
	res, err := h.page.Context(ctx).Eval(captureScript)
	if err != nil {
		return nil, &CaptureError{Err: fmt.Errorf("snapshot eval: %w", err)}
	}

	var payload capturePayload
	if err := json.Unmarshal([]byte(res.Value.Str()), &payload); err != nil {
		return nil, &CaptureError{Err: fmt.Errorf("decode snapshot: %w", err)}
	}

	snap := domview.NewSnapshot(payload.Elements)
	all := snap.Elements()

	var out []DetectedElement
	for i, el := range all {
		if len(out) >= maxCapturedElements {
			break
		}
		if !selector.Testable(el) {
			continue
		}

		cands := m.gen.Generate(selector.Options{
			Element:                   el,
			Document:                  snap,
			IncludePlaywrightSpecific: true,
			PrioritizeUniqueness:      true,
			AllElements:               all,
		})
		if len(cands) == 0 {
			continue
		}

		fallbacks := make([]string, 0, len(cands)-1)
		for _, c := range cands[1:] {
			fallbacks = append(fallbacks, c.Selector)
		}

		det := DetectedElement{
			Selector:          cands[0].Selector,
			FallbackSelectors: fallbacks,
			ElementType:       classify(el),
			Description:       describe(el),
			Confidence:        cands[0].Confidence,
			DiscoveryState:    rec.CurrentState,
			SourcePageTitle:   payload.Title,
			SourceURLPath:     payload.URLPath,
			RequiresAuth:      rec.IsAuthenticated,
			IsModal:           payload.IsModal,
			Attributes:        el.Attrs(),
			Box:               el.Box(),
		}
		if i < len(payload.Previews) {
			det.Preview = m.sanitize.Sanitize(payload.Previews[i])
		}
		out = append(out, det)
	}

	m.log.Debug("session: captured elements",
		"token", rec.Token, "total", len(all), "detected", len(out))
	return out, nil
}

// Screenshot returns the current viewport as a PNG data URL.
func (m *Manager) Screenshot(ctx context.Context, token string) (string, error) {
	h, err := m.handleFor(token)
	if err != nil {
		return "", err
	}
	png, err := h.page.Context(ctx).Screenshot(false, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
	})
	if err != nil {
		return "", fmt.Errorf("session: screenshot %s: %w", token, err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}

// classify maps an element to the type label the capture payload carries.
func classify(el domview.Element) string {
	switch el.Tag() {
	case "a":
		return "link"
	case "button":
		return "button"
	case "select":
		return "select"
	case "textarea":
		return "textarea"
	case "input":
		switch strings.ToLower(el.Attr("type")) {
		case "button", "submit", "reset", "image":
			return "button"
		case "checkbox":
			return "checkbox"
		case "radio":
			return "radio"
		default:
			return "input"
		}
	}
	switch el.Attr("role") {
	case "button":
		return "button"
	case "link":
		return "link"
	case "checkbox":
		return "checkbox"
	case "textbox", "searchbox":
		return "input"
	}
	return "interactive"
}

// describe builds a short human label from the strongest naming signal.
func describe(el domview.Element) string {
	kind := classify(el)
	for _, name := range []string{
		el.Attr("aria-label"),
		strings.TrimSpace(el.Text()),
		el.Attr("placeholder"),
		el.Attr("title"),
		el.Attr("name"),
	} {
		if name != "" && len(name) <= 60 {
			return fmt.Sprintf("%s %q", kind, name)
		}
	}
	return kind
}

// captureScript snapshots every element with its attributes, text,
// geometry, visibility, and parent link, plus a trimmed outer-HTML preview
// per element and page-level discovery context.
const captureScript = `() => {
	const MAX_NODES = 1500;
	const nodes = Array.from(document.querySelectorAll('*')).slice(0, MAX_NODES);
	const index = new Map();
	nodes.forEach((n, i) => index.set(n, i));

	const elements = [];
	const previews = [];
	for (const n of nodes) {
		const attrs = {};
		for (const a of n.attributes) attrs[a.name] = a.value;
		const r = n.getBoundingClientRect();
		const style = window.getComputedStyle(n);
		const visible = r.width > 0 && r.height > 0 &&
			style.display !== 'none' && style.visibility !== 'hidden';

		let text = '';
		for (const c of n.childNodes) {
			if (c.nodeType === Node.TEXT_NODE) text += c.textContent;
		}

		elements.push({
			tag: n.tagName.toLowerCase(),
			attrs,
			text: text.trim().slice(0, 200),
			box: { x: r.x, y: r.y, width: r.width, height: r.height },
			visible,
			parent: n.parentElement && index.has(n.parentElement) ? index.get(n.parentElement) : -1,
		});
		previews.push(n.outerHTML.slice(0, 500));
	}

	const isModal = !!document.querySelector(
		'[role="dialog"], [aria-modal="true"], dialog[open]');

	return JSON.stringify({
		title: document.title,
		urlPath: location.pathname,
		isModal,
		elements,
		previews,
	});
}`

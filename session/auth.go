package session

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-rod/rod"
)

// AuthenticateSession runs the auth flow: navigate to the login page,
// execute each step, then verify a success indicator. On success the
// session becomes authenticated and moves to after_login.
func (m *Manager) AuthenticateSession(ctx context.Context, token string, flow AuthFlow) error {
	h, err := m.handleFor(token)
	if err != nil {
		return err
	}
	rec, err := m.record(ctx, token)
	if err != nil {
		return err
	}

	if flow.LoginURL != "" {
		if err := m.navigate(ctx, h.page, flow.LoginURL); err != nil {
			return &AuthError{Reason: "login page navigation", Err: err}
		}
		m.settle(ctx)
	}

	for i, step := range flow.Steps {
		act := Action{Type: step.Type, Selector: step.Selector, Value: step.Value}
		if err := m.perform(ctx, h, act); err != nil {
			return &AuthError{Reason: fmt.Sprintf("step %d (%s %s)", i+1, step.Type, step.Selector), Err: err}
		}
		sleepCtx(ctx, settleShort)
	}

	// Post-login redirects land after the last step.
	m.settle(ctx)

	// Popup login flows leave the post-auth page as the newest target;
	// the handle is replaced wholesale, never mutated.
	h = m.adoptActivePage(token, h)

	if err := m.checkAuthSuccess(ctx, h.page, flow); err != nil {
		m.logEvent(ctx, token, "auth_failed", flow.ID)
		return err
	}

	rec.IsAuthenticated = true
	rec.AuthFlowID = flow.ID
	m.log.Info("session: authenticated", "token", token, "flow", flow.ID)
	m.logEvent(ctx, token, "authenticated", flow.ID)
	return m.touch(ctx, rec, StateAfterLogin, currentURL(h.page))
}

func (m *Manager) checkAuthSuccess(ctx context.Context, page *rod.Page, flow AuthFlow) error {
	if flow.SuccessSelector == "" && flow.SuccessURLPart == "" {
		return nil
	}

	if flow.SuccessSelector != "" {
		tctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		if _, err := page.Context(tctx).Element(flow.SuccessSelector); err == nil {
			cancel()
			return nil
		}
		cancel()
	}

	if flow.SuccessURLPart != "" && strings.Contains(currentURL(page), flow.SuccessURLPart) {
		return nil
	}

	return &AuthError{Reason: fmt.Sprintf("no success indicator (selector %q, url part %q) after flow",
		flow.SuccessSelector, flow.SuccessURLPart)}
}

func (m *Manager) adoptActivePage(token string, h *handle) *handle {
	pages, err := h.browser.Pages()
	if err != nil {
		return h
	}
	next := otherPage(pages, h.page)
	if next == nil {
		return h
	}

	if err := h.closePage(); err != nil {
		m.log.Warn("session: close pre-auth page", "error", err)
	}
	nh := &handle{
		browser:      h.browser,
		page:         next,
		closePage:    next.Close,
		closeBrowser: h.closeBrowser,
	}
	m.mu.Lock()
	m.handles[token] = nh
	m.mu.Unlock()
	return nh
}

// otherPage returns a page whose target differs from cur, or nil when cur is
// the only one. Matching is by target id; CDP reports targets in no
// particular order, so position carries no meaning.
func otherPage(pages rod.Pages, cur *rod.Page) *rod.Page {
	var next *rod.Page
	for _, p := range pages {
		if p.TargetID != cur.TargetID {
			next = p
		}
	}
	return next
}

func currentURL(page *rod.Page) string {
	info, err := page.Info()
	if err != nil {
		return ""
	}
	return info.URL
}

package session

import (
	"context"
	"fmt"
	"time"

	"github.com/go-rod/rod"
)

// Three-tier escalating load strategy. Slow sites fail the strict tier and
// succeed on a looser one instead of failing the whole navigation.
const (
	tierNetworkIdleTimeout = 15 * time.Second
	tierFullLoadTimeout    = 45 * time.Second
	tierMinimalTimeout     = 60 * time.Second

	// SPA content frequently renders after the load event; two fixed
	// settle delays follow whichever tier succeeded.
	settleLong  = 2 * time.Second
	settleShort = 1 * time.Second
)

// NavigateToPage loads url in the session's page and moves the session to
// after_navigation. All three tiers exhausted → NavigationError; the
// session stays in its prior state.
func (m *Manager) NavigateToPage(ctx context.Context, token, url string) error {
	h, err := m.handleFor(token)
	if err != nil {
		return err
	}
	rec, err := m.record(ctx, token)
	if err != nil {
		return err
	}

	if err := m.navigate(ctx, h.page, url); err != nil {
		return &NavigationError{URL: url, Err: err}
	}
	m.settle(ctx)

	m.logEvent(ctx, token, "navigated", url)
	return m.touch(ctx, rec, StateAfterNavigation, url)
}

func (m *Manager) navigate(ctx context.Context, page *rod.Page, url string) error {
	idleErr := m.tryNetworkIdle(ctx, page, url)
	if idleErr == nil {
		return nil
	}
	m.log.Warn("session: networkidle tier failed", "url", url, "error", idleErr)

	loadErr := m.tryFullLoad(ctx, page, url)
	if loadErr == nil {
		return nil
	}
	m.log.Warn("session: full-load tier failed", "url", url, "error", loadErr)

	minErr := m.tryMinimalLoad(ctx, page, url)
	if minErr == nil {
		return nil
	}
	return fmt.Errorf("all load tiers exhausted: networkidle: %v; load: %v; minimal: %w",
		idleErr, loadErr, minErr)
}

// tryNetworkIdle is the strict tier: navigation plus a quiet network.
func (m *Manager) tryNetworkIdle(ctx context.Context, page *rod.Page, url string) error {
	tctx, cancel := context.WithTimeout(ctx, tierNetworkIdleTimeout)
	defer cancel()

	p := page.Context(tctx)
	if err := p.Navigate(url); err != nil {
		return fmt.Errorf("navigate: %w", err)
	}
	p.WaitRequestIdle(500*time.Millisecond, nil, nil, nil)()
	return tctx.Err()
}

// tryFullLoad waits for the load event and a complete document ready state.
func (m *Manager) tryFullLoad(ctx context.Context, page *rod.Page, url string) error {
	tctx, cancel := context.WithTimeout(ctx, tierFullLoadTimeout)
	defer cancel()

	p := page.Context(tctx)
	if err := p.Navigate(url); err != nil {
		return fmt.Errorf("navigate: %w", err)
	}
	if err := p.WaitLoad(); err != nil {
		return fmt.Errorf("wait load: %w", err)
	}
	return waitReadyState(tctx, p, "complete")
}

// tryMinimalLoad only requires the DOM to be parsed.
func (m *Manager) tryMinimalLoad(ctx context.Context, page *rod.Page, url string) error {
	tctx, cancel := context.WithTimeout(ctx, tierMinimalTimeout)
	defer cancel()

	p := page.Context(tctx)
	if err := p.Navigate(url); err != nil {
		return fmt.Errorf("navigate: %w", err)
	}
	return waitReadyStateFn(tctx, p, func(state string) bool { return state != "loading" })
}

func waitReadyState(ctx context.Context, page *rod.Page, want string) error {
	return waitReadyStateFn(ctx, page, func(state string) bool { return state == want })
}

func waitReadyStateFn(ctx context.Context, page *rod.Page, ok func(string) bool) error {
	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()
	for {
		res, err := page.Eval(`() => document.readyState`)
		if err == nil && ok(res.Value.Str()) {
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("ready state: %w", ctx.Err())
		case <-ticker.C:
		}
	}
}

// settle applies the post-load delays; cancellation cuts them short.
func (m *Manager) settle(ctx context.Context) {
	sleepCtx(ctx, settleLong)
	sleepCtx(ctx, settleShort)
}

func sleepCtx(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

package session

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
)

// openHandle launches a dedicated browser (or connects to a remote one) and
// opens a stealth page with resource blocking applied. Each session owns
// its own browser instance so tokens never share state.
func (m *Manager) openHandle(ctx context.Context) (*handle, error) {
	var (
		wsURL string
		lnch  *launcher.Launcher
	)

	if m.cfg.RemoteURL != "" {
		wsURL = m.cfg.RemoteURL
		m.log.Info("session: connecting to remote browser", "url", wsURL)
	} else {
		l := launcher.New().Headless(!m.cfg.Headful)
		// Anti-detection flags.
		l = l.Set("disable-blink-features", "AutomationControlled")

		u, err := l.Launch()
		if err != nil {
			return nil, fmt.Errorf("session: launch browser: %w", err)
		}
		wsURL = u
		lnch = l
	}

	b := rod.New().ControlURL(wsURL).Context(ctx)
	if err := b.Connect(); err != nil {
		if lnch != nil {
			lnch.Cleanup()
		}
		return nil, fmt.Errorf("session: connect browser: %w", err)
	}

	if err := b.IgnoreCertErrors(true); err != nil {
		m.log.Warn("session: ignore cert errors failed", "error", err)
	}

	page, err := stealth.Page(b)
	if err != nil {
		b.Close()
		if lnch != nil {
			lnch.Cleanup()
		}
		return nil, fmt.Errorf("session: create page: %w", err)
	}

	if len(m.cfg.ResourceBlocking) > 0 {
		if err := applyResourceBlocking(page, m.cfg.ResourceBlocking); err != nil {
			m.log.Warn("session: resource blocking failed", "error", err)
		}
	}

	return &handle{
		browser:   b,
		page:      page,
		closePage: page.Close,
		closeBrowser: func() error {
			err := b.Close()
			if lnch != nil {
				lnch.Cleanup()
			}
			return err
		},
	}, nil
}

// applyResourceBlocking intercepts requests and fails the blocked resource
// types (images, fonts, media, stylesheets).
func applyResourceBlocking(page *rod.Page, types []string) error {
	blockSet := make(map[string]bool, len(types))
	for _, t := range types {
		blockSet[strings.ToLower(t)] = true
	}

	router := page.HijackRequests()

	router.MustAdd("*", func(ctx *rod.Hijack) {
		if shouldBlock(blockSet, string(ctx.Request.Type())) {
			ctx.Response.Fail(proto.NetworkErrorReasonBlockedByClient)
			return
		}
		ctx.ContinueRequest(&proto.FetchContinueRequest{})
	})

	go router.Run()

	return nil
}

func shouldBlock(blockSet map[string]bool, resType string) bool {
	switch strings.ToLower(resType) {
	case "image":
		return blockSet["images"]
	case "font":
		return blockSet["fonts"]
	case "media":
		return blockSet["media"]
	case "stylesheet":
		return blockSet["stylesheets"]
	}
	return blockSet[strings.ToLower(resType)]
}

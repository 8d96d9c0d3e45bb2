package session

import (
	"context"

	"github.com/go-rod/rod/lib/proto"

	"github.com/probelab/domscout/hittest"
)

// Viewport sizes the throwaway detection page.
type Viewport struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// DetectResult is the cross-origin point-detection payload.
type DetectResult struct {
	Success  bool                `json:"success"`
	Elements []hittest.Candidate `json:"elements"`
}

// CrossOriginElementDetection opens a throwaway browser on url, hit-tests
// the viewport coordinate, and tears the browser down again. No session is
// registered; click-to-pick UIs call this for pages they cannot frame.
func (m *Manager) CrossOriginElementDetection(ctx context.Context, url string, x, y float64, vp Viewport) (*DetectResult, error) {
	h, err := m.openHandle(ctx)
	if err != nil {
		return nil, err
	}
	defer h.close(m.log)

	if vp.Width > 0 && vp.Height > 0 {
		err := (proto.EmulationSetDeviceMetricsOverride{
			Width:             vp.Width,
			Height:            vp.Height,
			DeviceScaleFactor: 1,
		}).Call(h.page)
		if err != nil {
			m.log.Warn("session: viewport override failed", "error", err)
		}
	}

	if err := m.navigate(ctx, h.page, url); err != nil {
		return nil, &NavigationError{URL: url, Err: err}
	}
	m.settle(ctx)

	cands, err := hittest.HitTest(h.page.Context(ctx), x, y)
	if err != nil {
		return nil, err
	}
	if cands == nil {
		cands = []hittest.Candidate{}
	}

	m.log.Info("session: cross-origin detection",
		"url", url, "x", x, "y", y, "candidates", len(cands))
	return &DetectResult{Success: true, Elements: cands}, nil
}

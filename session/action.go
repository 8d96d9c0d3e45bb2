package session

import (
	"context"
	"fmt"

	"github.com/go-rod/rod/lib/proto"

	"github.com/probelab/domscout/locator"
)

// Action types.
const (
	ActionClick = "click"
	ActionHover = "hover"
	ActionType  = "type"
)

// ExecuteAction resolves the selector, performs the step under the action
// timeout, settles, updates session state, and re-captures elements. A
// capture failure after a successful action degrades to an empty list; the
// action's own outcome is reported independently.
func (m *Manager) ExecuteAction(ctx context.Context, token string, act Action) ([]DetectedElement, error) {
	h, err := m.handleFor(token)
	if err != nil {
		return nil, err
	}
	rec, err := m.record(ctx, token)
	if err != nil {
		return nil, err
	}

	if err := m.perform(ctx, h, act); err != nil {
		m.logEvent(ctx, token, "action_failed", act.Type+" "+act.Selector)
		return nil, err
	}
	m.logEvent(ctx, token, "action", act.Type+" "+act.Selector)

	sleepCtx(ctx, settleShort)

	state := StateAfterInteraction
	if act.Type == ActionHover {
		state = StateHover
	}
	if err := m.touch(ctx, rec, state, ""); err != nil {
		return nil, err
	}

	elements, err := m.capture(ctx, h, rec)
	if err != nil {
		m.log.Warn("session: post-action capture failed",
			"token", token, "action", act.Type, "error", err)
		return []DetectedElement{}, nil
	}
	return elements, nil
}

func (m *Manager) perform(ctx context.Context, h *handle, act Action) error {
	actx, cancel := context.WithTimeout(ctx, m.cfg.ActionTimeout)
	defer cancel()

	page := h.page.Context(actx)

	el, err := locator.Resolve(page, locator.Parse(act.Selector))
	if err != nil {
		return &ActionError{Type: act.Type, Selector: act.Selector, Value: act.Value,
			Err: fmt.Errorf("resolve: %w", err)}
	}

	switch act.Type {
	case ActionClick:
		err = el.Click(proto.InputMouseButtonLeft, 1)
	case ActionHover:
		err = el.Hover()
	case ActionType:
		if err = el.SelectAllText(); err == nil {
			err = el.Input(act.Value)
		}
	default:
		err = fmt.Errorf("unknown action type %q", act.Type)
	}
	if err != nil {
		return &ActionError{Type: act.Type, Selector: act.Selector, Value: act.Value, Err: err}
	}
	return nil
}

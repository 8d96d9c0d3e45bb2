// Package session orchestrates isolated headless-browser sessions: one
// browser+page pair per token, created, authenticated, navigated, acted on,
// captured, and eventually torn down by explicit close or the expiry sweep.
//
// Concurrency contract: the registry map is guarded, but individual
// sessions carry no lock. At most one in-flight operation per token; the
// caller serializes. Different tokens are fully independent.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/microcosm-cc/bluemonday"

	"github.com/probelab/domscout/domview"
	"github.com/probelab/domscout/idgen"
	"github.com/probelab/domscout/selector"
)

// Session states.
const (
	StateInitial          = "initial"
	StateAfterLogin       = "after_login"
	StateAfterNavigation  = "after_navigation"
	StateAfterInteraction = "after_interaction"
	StateHover            = "hover"
)

// Record is the persisted session row. The Manager reads and writes it
// through the Store collaborator; it imposes no schema beyond these fields.
type Record struct {
	Token           string    `json:"sessionToken"`
	ProjectID       string    `json:"projectId"`
	IsAuthenticated bool      `json:"isAuthenticated"`
	CurrentState    string    `json:"currentState"`
	CurrentURL      string    `json:"currentUrl,omitempty"`
	StartedAt       time.Time `json:"startedAt"`
	LastActivity    time.Time `json:"lastActivity"`
	ExpiresAt       time.Time `json:"expiresAt"`
	AuthFlowID      string    `json:"authFlowId,omitempty"`
}

// Store is the persisted session collaborator. Get returns (nil, nil) when
// the token has no row.
type Store interface {
	Create(ctx context.Context, rec *Record) error
	Get(ctx context.Context, token string) (*Record, error)
	Update(ctx context.Context, rec *Record) error
	Delete(ctx context.Context, token string) error
	ListExpired(ctx context.Context, now time.Time) ([]*Record, error)
}

// EventLogger is an optional Store capability. When the store implements
// it, lifecycle events are recorded through it; event logging never affects
// operation outcomes.
type EventLogger interface {
	LogEvent(ctx context.Context, token, eventType, detail string)
}

// AuthStep is one step of an auth flow.
type AuthStep struct {
	Type     string `json:"type" yaml:"type"` // click, type, hover
	Selector string `json:"selector" yaml:"selector"`
	Value    string `json:"value,omitempty" yaml:"value,omitempty"`
}

// AuthFlow describes how to log a session in and how to tell it worked.
type AuthFlow struct {
	ID              string     `json:"id" yaml:"id"`
	LoginURL        string     `json:"loginUrl" yaml:"login_url"`
	Steps           []AuthStep `json:"steps" yaml:"steps"`
	SuccessSelector string     `json:"successSelector,omitempty" yaml:"success_selector,omitempty"`
	SuccessURLPart  string     `json:"successUrlPart,omitempty" yaml:"success_url_part,omitempty"`
}

// Action is one test step to execute against the live page.
type Action struct {
	Type     string `json:"type"` // click, hover, type
	Selector string `json:"selector"`
	Value    string `json:"value,omitempty"`
}

// DetectedElement is the capture payload stored verbatim by the caller.
type DetectedElement struct {
	Selector          string            `json:"selector"`
	FallbackSelectors []string          `json:"fallbackSelectors,omitempty"`
	ElementType       string            `json:"elementType"`
	Description       string            `json:"description"`
	Confidence        float64           `json:"confidence"`
	DiscoveryState    string            `json:"discoveryState"`
	SourcePageTitle   string            `json:"sourcePageTitle"`
	SourceURLPath     string            `json:"sourceUrlPath"`
	RequiresAuth      bool              `json:"requiresAuth"`
	IsModal           bool              `json:"isModal"`
	Attributes        map[string]string `json:"attributes,omitempty"`
	Preview           string            `json:"preview,omitempty"`
	Box               domview.Rect      `json:"box"`
}

// Config configures the Manager.
type Config struct {
	// TTL is the session lifetime; ExtendSession resets it. Default: 2h.
	TTL time.Duration

	// SweepInterval is how often expired sessions are reaped. Default: 30m.
	SweepInterval time.Duration

	// ActionTimeout bounds a single resolve+act call. Default: 10s.
	ActionTimeout time.Duration

	// ResourceBlocking lists resource types to block on session pages
	// (images, fonts, media, stylesheets).
	ResourceBlocking []string

	// Headful disables headless mode.
	Headful bool

	// RemoteURL is the WebSocket URL of an external Chrome instance.
	// Empty = launch a local Chrome per session.
	RemoteURL string

	// NewToken generates session tokens. Default: idgen.UUIDv7().
	NewToken idgen.Generator

	Logger *slog.Logger
}

func (c *Config) defaults() {
	if c.TTL <= 0 {
		c.TTL = 2 * time.Hour
	}
	if c.SweepInterval <= 0 {
		c.SweepInterval = 30 * time.Minute
	}
	if c.ActionTimeout <= 0 {
		c.ActionTimeout = 10 * time.Second
	}
	if c.NewToken == nil {
		c.NewToken = idgen.UUIDv7()
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// handle is a live browser+page pair. Replaced wholesale (never mutated)
// when authentication swaps the active page. The close funcs exist so
// teardown order is observable in tests.
type handle struct {
	browser      *rod.Browser
	page         *rod.Page
	closePage    func() error
	closeBrowser func() error
}

// Manager owns the token registry and every session lifecycle operation.
type Manager struct {
	cfg      Config
	store    Store
	log      *slog.Logger
	gen      *selector.Generator
	sanitize *bluemonday.Policy

	mu      sync.Mutex // guards handles only
	handles map[string]*handle
}

// NewManager builds a Manager over the given persisted store.
func NewManager(store Store, cfg Config) *Manager {
	cfg.defaults()
	return &Manager{
		cfg:      cfg,
		store:    store,
		log:      cfg.Logger,
		gen:      selector.NewGenerator(),
		sanitize: bluemonday.UGCPolicy(),
		handles:  make(map[string]*handle),
	}
}

// CreateSession launches an isolated browser, registers it under a fresh
// token, and persists the row. When an auth flow is given it runs
// immediately; on auth failure the session record is still returned
// alongside the error so the caller can inspect or close it.
func (m *Manager) CreateSession(ctx context.Context, projectID string, flow *AuthFlow) (*Record, error) {
	h, err := m.openHandle(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	rec := &Record{
		Token:        m.cfg.NewToken(),
		ProjectID:    projectID,
		CurrentState: StateInitial,
		StartedAt:    now,
		LastActivity: now,
		ExpiresAt:    now.Add(m.cfg.TTL),
	}
	if flow != nil {
		rec.AuthFlowID = flow.ID
	}

	if err := m.store.Create(ctx, rec); err != nil {
		h.close(m.log)
		return nil, fmt.Errorf("session: persist %s: %w", rec.Token, err)
	}

	m.mu.Lock()
	m.handles[rec.Token] = h
	m.mu.Unlock()

	m.log.Info("session: created", "token", rec.Token, "project", projectID)
	m.logEvent(ctx, rec.Token, "created", projectID)

	if flow != nil {
		if err := m.AuthenticateSession(ctx, rec.Token, *flow); err != nil {
			return rec, err
		}
		rec, err = m.store.Get(ctx, rec.Token)
		if err != nil {
			return nil, fmt.Errorf("session: reload %s: %w", rec.Token, err)
		}
	}
	return rec, nil
}

// ExtendSession resets the expiry to now+TTL without changing state.
func (m *Manager) ExtendSession(ctx context.Context, token string) error {
	if _, err := m.handleFor(token); err != nil {
		return err
	}
	rec, err := m.record(ctx, token)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	rec.LastActivity = now
	rec.ExpiresAt = now.Add(m.cfg.TTL)
	if err := m.store.Update(ctx, rec); err != nil {
		return fmt.Errorf("session: extend %s: %w", token, err)
	}
	m.logEvent(ctx, token, "extended", rec.ExpiresAt.Format(time.RFC3339))
	return nil
}

// CloseSession tears a session down: page, then browser, then registry
// entry, then persisted row. A crash mid-close therefore never leaves a
// browser handle referenced by a deleted row. Unknown tokens with an
// orphaned row get the row reconciled away; fully unknown tokens fail with
// ErrSessionNotFound.
func (m *Manager) CloseSession(ctx context.Context, token string) error {
	m.mu.Lock()
	h, ok := m.handles[token]
	m.mu.Unlock()

	if !ok {
		rec, err := m.store.Get(ctx, token)
		if err != nil {
			return fmt.Errorf("session: close %s: %w", token, err)
		}
		if rec == nil {
			return ErrSessionNotFound
		}
		m.log.Warn("session: reconciling orphaned row", "token", token)
		return m.store.Delete(ctx, token)
	}

	h.close(m.log)

	m.mu.Lock()
	delete(m.handles, token)
	m.mu.Unlock()

	if err := m.store.Delete(ctx, token); err != nil {
		return fmt.Errorf("session: delete row %s: %w", token, err)
	}
	m.log.Info("session: closed", "token", token)
	m.logEvent(ctx, token, "closed", "")
	return nil
}

// CloseAll tears down every live session; used at process shutdown.
func (m *Manager) CloseAll(ctx context.Context) {
	m.mu.Lock()
	tokens := make([]string, 0, len(m.handles))
	for t := range m.handles {
		tokens = append(tokens, t)
	}
	m.mu.Unlock()

	for _, t := range tokens {
		if err := m.CloseSession(ctx, t); err != nil {
			m.log.Warn("session: close on shutdown", "token", t, "error", err)
		}
	}
}

// StartSweep runs the expiry sweep until ctx is cancelled. It iterates
// persisted rows and routes each expired session through CloseSession, the
// same path explicit closes use.
func (m *Manager) StartSweep(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(m.cfg.SweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.sweep(ctx)
			}
		}
	}()
}

func (m *Manager) sweep(ctx context.Context) {
	expired, err := m.store.ListExpired(ctx, time.Now().UTC())
	if err != nil {
		m.log.Error("session: sweep list", "error", err)
		return
	}
	for _, rec := range expired {
		if err := m.CloseSession(ctx, rec.Token); err != nil {
			m.log.Warn("session: sweep close", "token", rec.Token, "error", err)
			continue
		}
		m.log.Info("session: swept expired", "token", rec.Token)
		m.logEvent(ctx, rec.Token, "swept", "")
	}
}

func (m *Manager) logEvent(ctx context.Context, token, eventType, detail string) {
	if el, ok := m.store.(EventLogger); ok {
		el.LogEvent(ctx, token, eventType, detail)
	}
}

func (h *handle) close(log *slog.Logger) {
	if h.closePage != nil {
		if err := h.closePage(); err != nil {
			log.Warn("session: close page", "error", err)
		}
	}
	if h.closeBrowser != nil {
		if err := h.closeBrowser(); err != nil {
			log.Warn("session: close browser", "error", err)
		}
	}
}

func (m *Manager) handleFor(token string) (*handle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	h, ok := m.handles[token]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return h, nil
}

func (m *Manager) record(ctx context.Context, token string) (*Record, error) {
	rec, err := m.store.Get(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("session: load %s: %w", token, err)
	}
	if rec == nil {
		return nil, ErrSessionNotFound
	}
	return rec, nil
}

// touch records a state transition and activity timestamp.
func (m *Manager) touch(ctx context.Context, rec *Record, state, url string) error {
	rec.CurrentState = state
	if url != "" {
		rec.CurrentURL = url
	}
	rec.LastActivity = time.Now().UTC()
	if err := m.store.Update(ctx, rec); err != nil {
		return fmt.Errorf("session: update %s: %w", rec.Token, err)
	}
	return nil
}

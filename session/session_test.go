package session

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/go-rod/rod"

	"github.com/probelab/domscout/domview"
)

type fakeStore struct {
	mu       sync.Mutex
	rows     map[string]*Record
	onDelete func(token string)
}

func newFakeStore() *fakeStore {
	return &fakeStore{rows: make(map[string]*Record)}
}

func (s *fakeStore) Create(_ context.Context, rec *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *rec
	s.rows[rec.Token] = &cp
	return nil
}

func (s *fakeStore) Get(_ context.Context, token string) (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.rows[token]
	if !ok {
		return nil, nil
	}
	cp := *rec
	return &cp, nil
}

func (s *fakeStore) Update(_ context.Context, rec *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *rec
	s.rows[rec.Token] = &cp
	return nil
}

func (s *fakeStore) Delete(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rows, token)
	if s.onDelete != nil {
		s.onDelete(token)
	}
	return nil
}

func (s *fakeStore) ListExpired(_ context.Context, now time.Time) ([]*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*Record
	for _, rec := range s.rows {
		if rec.ExpiresAt.Before(now) {
			cp := *rec
			out = append(out, &cp)
		}
	}
	return out, nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestManager(t *testing.T, st *fakeStore) *Manager {
	t.Helper()
	return NewManager(st, Config{Logger: quietLogger()})
}

// register installs a row plus a fake handle whose close funcs record into
// order, simulating a live session without a browser.
func register(m *Manager, st *fakeStore, token string, order *[]string) {
	now := time.Now().UTC()
	st.rows[token] = &Record{
		Token:        token,
		CurrentState: StateInitial,
		StartedAt:    now,
		LastActivity: now,
		ExpiresAt:    now.Add(2 * time.Hour),
	}
	m.handles[token] = &handle{
		closePage: func() error {
			*order = append(*order, "page")
			return nil
		},
		closeBrowser: func() error {
			*order = append(*order, "browser")
			return nil
		},
	}
}

func TestCloseSession_TeardownOrder(t *testing.T) {
	st := newFakeStore()
	m := newTestManager(t, st)

	var order []string
	st.onDelete = func(string) { order = append(order, "row") }
	register(m, st, "tok", &order)

	if err := m.CloseSession(context.Background(), "tok"); err != nil {
		t.Fatalf("close: %v", err)
	}

	want := []string{"page", "browser", "row"}
	if len(order) != len(want) {
		t.Fatalf("teardown order: got %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("teardown order: got %v, want %v", order, want)
		}
	}
	if _, ok := m.handles["tok"]; ok {
		t.Fatal("registry entry survived close")
	}
}

func TestCaptureAfterClose_SessionNotFound(t *testing.T) {
	st := newFakeStore()
	m := newTestManager(t, st)

	var order []string
	register(m, st, "tok", &order)
	if err := m.CloseSession(context.Background(), "tok"); err != nil {
		t.Fatalf("close: %v", err)
	}

	_, err := m.CaptureCurrentElements(context.Background(), "tok")
	if !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("capture after close: got %v, want ErrSessionNotFound", err)
	}
}

func TestCloseSession_UnknownToken(t *testing.T) {
	st := newFakeStore()
	m := newTestManager(t, st)

	err := m.CloseSession(context.Background(), "nope")
	if !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("close unknown: got %v, want ErrSessionNotFound", err)
	}
}

func TestCloseSession_ReconcilesOrphanRow(t *testing.T) {
	st := newFakeStore()
	m := newTestManager(t, st)

	st.rows["orphan"] = &Record{Token: "orphan"}

	if err := m.CloseSession(context.Background(), "orphan"); err != nil {
		t.Fatalf("reconcile orphan: %v", err)
	}
	if _, ok := st.rows["orphan"]; ok {
		t.Fatal("orphaned row survived reconciliation")
	}
}

func TestSweep_RemovesExpired(t *testing.T) {
	st := newFakeStore()
	m := newTestManager(t, st)

	var expiredOrder, liveOrder []string
	register(m, st, "expired", &expiredOrder)
	register(m, st, "live", &liveOrder)
	st.rows["expired"].ExpiresAt = time.Now().UTC().Add(-time.Minute)

	m.sweep(context.Background())

	if _, ok := st.rows["expired"]; ok {
		t.Fatal("expired row survived sweep")
	}
	if _, ok := m.handles["expired"]; ok {
		t.Fatal("expired handle survived sweep")
	}
	want := []string{"page", "browser"}
	if len(expiredOrder) != 2 || expiredOrder[0] != want[0] || expiredOrder[1] != want[1] {
		t.Fatalf("sweep teardown order: got %v, want %v", expiredOrder, want)
	}

	if _, ok := st.rows["live"]; !ok {
		t.Fatal("live row removed by sweep")
	}
	if len(liveOrder) != 0 {
		t.Fatalf("live session touched by sweep: %v", liveOrder)
	}
}

func TestExtendSession(t *testing.T) {
	st := newFakeStore()
	m := newTestManager(t, st)

	var order []string
	register(m, st, "tok", &order)
	st.rows["tok"].ExpiresAt = time.Now().UTC().Add(5 * time.Minute)
	before := st.rows["tok"].ExpiresAt

	if err := m.ExtendSession(context.Background(), "tok"); err != nil {
		t.Fatalf("extend: %v", err)
	}
	after := st.rows["tok"].ExpiresAt
	if !after.After(before) {
		t.Fatalf("expiry not extended: before %v, after %v", before, after)
	}
	if got := st.rows["tok"].CurrentState; got != StateInitial {
		t.Fatalf("extend changed state: got %s, want %s", got, StateInitial)
	}

	if err := m.ExtendSession(context.Background(), "nope"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("extend unknown: got %v, want ErrSessionNotFound", err)
	}
}

func TestTouch_UpdatesStateAndActivity(t *testing.T) {
	st := newFakeStore()
	m := newTestManager(t, st)

	var order []string
	register(m, st, "tok", &order)
	rec, _ := st.Get(context.Background(), "tok")
	prev := rec.LastActivity

	time.Sleep(5 * time.Millisecond)
	if err := m.touch(context.Background(), rec, StateHover, "https://example.com/x"); err != nil {
		t.Fatalf("touch: %v", err)
	}

	got, _ := st.Get(context.Background(), "tok")
	if got.CurrentState != StateHover {
		t.Fatalf("state: got %s, want %s", got.CurrentState, StateHover)
	}
	if got.CurrentURL != "https://example.com/x" {
		t.Fatalf("url: got %s", got.CurrentURL)
	}
	if !got.LastActivity.After(prev) {
		t.Fatal("lastActivity not advanced")
	}
}

func TestConfigDefaults(t *testing.T) {
	cfg := Config{}
	cfg.defaults()
	if cfg.TTL != 2*time.Hour {
		t.Fatalf("TTL default: got %v, want 2h", cfg.TTL)
	}
	if cfg.SweepInterval != 30*time.Minute {
		t.Fatalf("SweepInterval default: got %v, want 30m", cfg.SweepInterval)
	}
	if cfg.ActionTimeout != 10*time.Second {
		t.Fatalf("ActionTimeout default: got %v, want 10s", cfg.ActionTimeout)
	}
	if cfg.NewToken == nil || cfg.Logger == nil {
		t.Fatal("token generator or logger not defaulted")
	}
}

func TestClassify(t *testing.T) {
	cases := []struct {
		tag, typ, role, want string
	}{
		{"a", "", "", "link"},
		{"button", "", "", "button"},
		{"input", "submit", "", "button"},
		{"input", "checkbox", "", "checkbox"},
		{"input", "email", "", "input"},
		{"select", "", "", "select"},
		{"div", "", "button", "button"},
		{"div", "", "", "interactive"},
	}
	for _, tc := range cases {
		el := fakeEl{tag: tc.tag, attrs: map[string]string{}}
		if tc.typ != "" {
			el.attrs["type"] = tc.typ
		}
		if tc.role != "" {
			el.attrs["role"] = tc.role
		}
		if got := classify(el); got != tc.want {
			t.Errorf("classify(%s type=%s role=%s): got %s, want %s",
				tc.tag, tc.typ, tc.role, got, tc.want)
		}
	}
}

type fakeEl struct {
	tag   string
	attrs map[string]string
	text  string
}

func (f fakeEl) Tag() string              { return f.tag }
func (f fakeEl) Attr(name string) string  { return f.attrs[name] }
func (f fakeEl) HasAttr(name string) bool { _, ok := f.attrs[name]; return ok }
func (f fakeEl) Attrs() map[string]string { return f.attrs }
func (f fakeEl) Text() string             { return f.text }
func (f fakeEl) Parent() domview.Element  { return nil }
func (f fakeEl) Box() domview.Rect        { return domview.Rect{} }
func (f fakeEl) Visible() bool            { return true }

func TestOtherPage(t *testing.T) {
	cur := &rod.Page{TargetID: "target-current"}
	popup := &rod.Page{TargetID: "target-popup"}

	if got := otherPage(rod.Pages{cur}, cur); got != nil {
		t.Fatalf("single page: got %v, want nil", got.TargetID)
	}
	if got := otherPage(nil, cur); got != nil {
		t.Fatalf("no pages: got %v, want nil", got.TargetID)
	}
	// Target order is not guaranteed; both orderings must find the popup.
	if got := otherPage(rod.Pages{cur, popup}, cur); got != popup {
		t.Fatal("popup last: not adopted")
	}
	if got := otherPage(rod.Pages{popup, cur}, cur); got != popup {
		t.Fatal("popup first: not adopted")
	}
}

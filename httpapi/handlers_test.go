package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/probelab/domscout/session"
)

type fakeService struct {
	createErr   error
	navErr      error
	actionErr   error
	captureErr  error
	closeErr    error
	authErr     error
	lastToken   string
	lastURL     string
	lastAction  session.Action
	elements    []session.DetectedElement
	detectRes   *session.DetectResult
	closedCount int
}

func (f *fakeService) CreateSession(_ context.Context, projectID string, _ *session.AuthFlow) (*session.Record, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &session.Record{Token: "tok-1", ProjectID: projectID, CurrentState: session.StateInitial}, nil
}

func (f *fakeService) AuthenticateSession(_ context.Context, token string, _ session.AuthFlow) error {
	f.lastToken = token
	return f.authErr
}

func (f *fakeService) NavigateToPage(_ context.Context, token, url string) error {
	f.lastToken, f.lastURL = token, url
	return f.navErr
}

func (f *fakeService) CaptureCurrentElements(_ context.Context, token string) ([]session.DetectedElement, error) {
	f.lastToken = token
	return f.elements, f.captureErr
}

func (f *fakeService) ExecuteAction(_ context.Context, token string, act session.Action) ([]session.DetectedElement, error) {
	f.lastToken, f.lastAction = token, act
	return f.elements, f.actionErr
}

func (f *fakeService) Screenshot(_ context.Context, token string) (string, error) {
	f.lastToken = token
	return "data:image/png;base64,AAAA", nil
}

func (f *fakeService) ExtendSession(_ context.Context, token string) error {
	f.lastToken = token
	return nil
}

func (f *fakeService) CloseSession(_ context.Context, token string) error {
	f.lastToken = token
	f.closedCount++
	return f.closeErr
}

func (f *fakeService) CrossOriginElementDetection(_ context.Context, url string, x, y float64, _ session.Viewport) (*session.DetectResult, error) {
	f.lastURL = url
	return f.detectRes, nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestServer(t *testing.T, svc Service) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(NewServer(svc, quietLogger()).Router())
	t.Cleanup(ts.Close)
	return ts
}

func doJSON(t *testing.T, method, url, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestCreateSession(t *testing.T) {
	svc := &fakeService{}
	ts := newTestServer(t, svc)

	resp := doJSON(t, http.MethodPost, ts.URL+"/v1/sessions", `{"projectId":"proj-1"}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status: got %d, want 201", resp.StatusCode)
	}
	var rec session.Record
	if err := json.NewDecoder(resp.Body).Decode(&rec); err != nil {
		t.Fatal(err)
	}
	if rec.Token != "tok-1" || rec.ProjectID != "proj-1" {
		t.Fatalf("record: got %+v", rec)
	}
}

func TestCreateSession_MissingProject(t *testing.T) {
	ts := newTestServer(t, &fakeService{})

	resp := doJSON(t, http.MethodPost, ts.URL+"/v1/sessions", `{}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status: got %d, want 400", resp.StatusCode)
	}
}

func TestNavigate(t *testing.T) {
	svc := &fakeService{}
	ts := newTestServer(t, svc)

	resp := doJSON(t, http.MethodPost, ts.URL+"/v1/sessions/tok-9/navigate",
		`{"url":"https://example.com"}`)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("status: got %d, want 204", resp.StatusCode)
	}
	if svc.lastToken != "tok-9" || svc.lastURL != "https://example.com" {
		t.Fatalf("delegation: token %q url %q", svc.lastToken, svc.lastURL)
	}
}

func TestErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"not found", session.ErrSessionNotFound, http.StatusNotFound},
		{"timeout", fmt.Errorf("navigate: %w", context.DeadlineExceeded), http.StatusRequestTimeout},
		{"auth failed", &session.AuthError{Reason: "no indicator"}, http.StatusUnauthorized},
		{"other", fmt.Errorf("browser crashed"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &fakeService{navErr: tc.err}
			ts := newTestServer(t, svc)

			resp := doJSON(t, http.MethodPost, ts.URL+"/v1/sessions/tok/navigate",
				`{"url":"https://example.com"}`)
			if resp.StatusCode != tc.want {
				t.Fatalf("status: got %d, want %d", resp.StatusCode, tc.want)
			}
			var body errorResponse
			if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
				t.Fatal(err)
			}
			if body.Error == "" {
				t.Fatal("error body empty")
			}
		})
	}
}

func TestExecuteAction(t *testing.T) {
	svc := &fakeService{elements: []session.DetectedElement{{Selector: "#next", ElementType: "button"}}}
	ts := newTestServer(t, svc)

	resp := doJSON(t, http.MethodPost, ts.URL+"/v1/sessions/tok/actions",
		`{"type":"click","selector":"#submit"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: got %d, want 200", resp.StatusCode)
	}
	if svc.lastAction.Type != "click" || svc.lastAction.Selector != "#submit" {
		t.Fatalf("delegation: %+v", svc.lastAction)
	}
	var body struct {
		Elements []session.DetectedElement `json:"elements"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if len(body.Elements) != 1 || body.Elements[0].Selector != "#next" {
		t.Fatalf("elements: got %+v", body.Elements)
	}
}

func TestExecuteAction_MissingFields(t *testing.T) {
	ts := newTestServer(t, &fakeService{})

	resp := doJSON(t, http.MethodPost, ts.URL+"/v1/sessions/tok/actions", `{"type":"click"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status: got %d, want 400", resp.StatusCode)
	}
}

func TestCaptureElements_EmptyIsNotNull(t *testing.T) {
	ts := newTestServer(t, &fakeService{})

	resp := doJSON(t, http.MethodGet, ts.URL+"/v1/sessions/tok/elements", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: got %d, want 200", resp.StatusCode)
	}
	raw, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(raw), `"elements":[]`) {
		t.Fatalf("body: got %s, want empty array", raw)
	}
}

func TestCloseSession(t *testing.T) {
	svc := &fakeService{}
	ts := newTestServer(t, svc)

	resp := doJSON(t, http.MethodDelete, ts.URL+"/v1/sessions/tok-5", "")
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("status: got %d, want 204", resp.StatusCode)
	}
	if svc.closedCount != 1 || svc.lastToken != "tok-5" {
		t.Fatalf("delegation: closed %d token %q", svc.closedCount, svc.lastToken)
	}
}

func TestScreenshot(t *testing.T) {
	ts := newTestServer(t, &fakeService{})

	resp := doJSON(t, http.MethodGet, ts.URL+"/v1/sessions/tok/screenshot", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: got %d, want 200", resp.StatusCode)
	}
	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(body["screenshot"], "data:image/png;base64,") {
		t.Fatalf("screenshot: got %q", body["screenshot"])
	}
}

func TestDetect(t *testing.T) {
	svc := &fakeService{detectRes: &session.DetectResult{Success: true}}
	ts := newTestServer(t, svc)

	resp := doJSON(t, http.MethodPost, ts.URL+"/v1/detect",
		`{"url":"https://example.com","x":100,"y":200,"viewport":{"width":1280,"height":800}}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: got %d, want 200", resp.StatusCode)
	}
	var res session.DetectResult
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		t.Fatal(err)
	}
	if !res.Success {
		t.Fatalf("detect: got %+v", res)
	}
	if svc.lastURL != "https://example.com" {
		t.Fatalf("delegation: url %q", svc.lastURL)
	}
}

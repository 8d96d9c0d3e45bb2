// Package httpapi exposes the session engine over HTTP. Handlers stay
// thin: decode, delegate, map errors to status codes.
package httpapi

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/probelab/domscout/session"
)

// Service is the session engine surface the API delegates to.
type Service interface {
	CreateSession(ctx context.Context, projectID string, flow *session.AuthFlow) (*session.Record, error)
	AuthenticateSession(ctx context.Context, token string, flow session.AuthFlow) error
	NavigateToPage(ctx context.Context, token, url string) error
	CaptureCurrentElements(ctx context.Context, token string) ([]session.DetectedElement, error)
	ExecuteAction(ctx context.Context, token string, act session.Action) ([]session.DetectedElement, error)
	Screenshot(ctx context.Context, token string) (string, error)
	ExtendSession(ctx context.Context, token string) error
	CloseSession(ctx context.Context, token string) error
	CrossOriginElementDetection(ctx context.Context, url string, x, y float64, vp session.Viewport) (*session.DetectResult, error)
}

// Server is the HTTP boundary over a Service.
type Server struct {
	svc Service
	log *slog.Logger
}

// NewServer builds the API server. A nil logger falls back to the default.
func NewServer(svc Service, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{svc: svc, log: log}
}

// Router assembles the chi route tree.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLog)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/sessions", s.handleCreateSession)
		r.Route("/sessions/{token}", func(r chi.Router) {
			r.Post("/auth", s.handleAuthenticate)
			r.Post("/navigate", s.handleNavigate)
			r.Post("/actions", s.handleExecuteAction)
			r.Post("/extend", s.handleExtend)
			r.Get("/elements", s.handleCaptureElements)
			r.Get("/screenshot", s.handleScreenshot)
			r.Delete("/", s.handleCloseSession)
		})
		r.Post("/detect", s.handleDetect)
	})
	return r
}

func (s *Server) requestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.Info("http: request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}

// statusFor maps the error taxonomy onto HTTP statuses: unknown token is a
// 404, timeouts are 408, failed auth flows are 401, everything else a 500.
func statusFor(err error) int {
	var authErr *session.AuthError
	switch {
	case errors.Is(err, session.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusRequestTimeout
	case errors.As(err, &authErr):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

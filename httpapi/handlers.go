package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/probelab/domscout/session"
)

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Warn("http: encode response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	s.writeJSON(w, statusFor(err), errorResponse{Error: err.Error()})
}

type createSessionRequest struct {
	ProjectID string            `json:"projectId"`
	AuthFlow  *session.AuthFlow `json:"authFlow,omitempty"`
}

// POST /v1/sessions
func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if req.ProjectID == "" {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "projectId required"})
		return
	}

	rec, err := s.svc.CreateSession(r.Context(), req.ProjectID, req.AuthFlow)
	if err != nil {
		// Auth may fail on an otherwise-live session; surface both.
		if rec != nil {
			s.writeJSON(w, statusFor(err), map[string]any{
				"session": rec,
				"error":   err.Error(),
			})
			return
		}
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, rec)
}

// POST /v1/sessions/{token}/auth
func (s *Server) handleAuthenticate(w http.ResponseWriter, r *http.Request) {
	var flow session.AuthFlow
	if err := json.NewDecoder(r.Body).Decode(&flow); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	if err := s.svc.AuthenticateSession(r.Context(), chi.URLParam(r, "token"), flow); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type navigateRequest struct {
	URL string `json:"url"`
}

// POST /v1/sessions/{token}/navigate
func (s *Server) handleNavigate(w http.ResponseWriter, r *http.Request) {
	var req navigateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.URL == "" {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "url required"})
		return
	}

	if err := s.svc.NavigateToPage(r.Context(), chi.URLParam(r, "token"), req.URL); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// POST /v1/sessions/{token}/actions
func (s *Server) handleExecuteAction(w http.ResponseWriter, r *http.Request) {
	var act session.Action
	if err := json.NewDecoder(r.Body).Decode(&act); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if act.Type == "" || act.Selector == "" {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "type and selector required"})
		return
	}

	elements, err := s.svc.ExecuteAction(r.Context(), chi.URLParam(r, "token"), act)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"elements": elements})
}

// GET /v1/sessions/{token}/elements
func (s *Server) handleCaptureElements(w http.ResponseWriter, r *http.Request) {
	elements, err := s.svc.CaptureCurrentElements(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	if elements == nil {
		elements = []session.DetectedElement{}
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"elements": elements})
}

// GET /v1/sessions/{token}/screenshot
func (s *Server) handleScreenshot(w http.ResponseWriter, r *http.Request) {
	dataURL, err := s.svc.Screenshot(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"screenshot": dataURL})
}

// POST /v1/sessions/{token}/extend
func (s *Server) handleExtend(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.ExtendSession(r.Context(), chi.URLParam(r, "token")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DELETE /v1/sessions/{token}
func (s *Server) handleCloseSession(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.CloseSession(r.Context(), chi.URLParam(r, "token")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type detectRequest struct {
	URL      string           `json:"url"`
	X        float64          `json:"x"`
	Y        float64          `json:"y"`
	Viewport session.Viewport `json:"viewport"`
}

// POST /v1/detect
func (s *Server) handleDetect(w http.ResponseWriter, r *http.Request) {
	var req detectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.URL == "" {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "url required"})
		return
	}

	res, err := s.svc.CrossOriginElementDetection(r.Context(), req.URL, req.X, req.Y, req.Viewport)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, res)
}

package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/leapstack-labs/emlquality/internal/engine"
	"github.com/leapstack-labs/emlquality/internal/state"
	"github.com/leapstack-labs/emlquality/pkg/eml"
	"github.com/leapstack-labs/emlquality/pkg/quality"
)

type errorResponse struct {
	Error       string `json:"error"`
	Description string `json:"error_description"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to write response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, code string, err error) {
	s.writeJSON(w, status, errorResponse{Error: code, Description: err.Error()})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleListChecks(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, s.engine.Registry().All())
}

func (s *Server) handleGetCheck(w http.ResponseWriter, r *http.Request) {
	t, err := s.engine.Registry().Lookup(chi.URLParam(r, "id"))
	if errors.Is(err, quality.ErrUnknownCheck) {
		s.writeError(w, http.StatusNotFound, "not_found", err)
		return
	}
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	s.writeJSON(w, http.StatusOK, t)
}

// handleAssess assesses the XML document in the request body.
// Query parameters: source names the document, save=true records the result.
func (s *Server) handleAssess(w http.ResponseWriter, r *http.Request) {
	save := false
	if v := r.URL.Query().Get("save"); v != "" {
		var err error
		if save, err = strconv.ParseBool(v); err != nil {
			s.writeError(w, http.StatusBadRequest, "bad_request", errors.New("save must be a boolean"))
			return
		}
	}
	source := r.URL.Query().Get("source")
	if source == "" {
		source = "request"
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeError(w, http.StatusRequestEntityTooLarge, "too_large", err)
			return
		}
		s.writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	start := time.Now()
	res, err := s.engine.Assess(r.Context(), source, bytes.NewReader(body), save)
	s.metrics.Duration.Observe(time.Since(start).Seconds())
	if err != nil {
		s.metrics.ObserveError()
		switch {
		case errors.Is(err, engine.ErrInvalidDocument):
			s.writeError(w, http.StatusBadRequest, "invalid_document", err)
		case errors.Is(err, engine.ErrNoStore):
			s.writeError(w, http.StatusConflict, "no_store", err)
		case errors.Is(err, eml.ErrConfiguration):
			s.logger.Error("assessment misconfigured", "error", err)
			s.writeError(w, http.StatusInternalServerError, "configuration_error", err)
		default:
			s.logger.Error("assessment failed", "source", source, "error", err)
			s.writeError(w, http.StatusInternalServerError, "internal_error", err)
		}
		return
	}

	s.metrics.ObserveResult(res)
	status := http.StatusOK
	if res.AssessmentID != "" {
		status = http.StatusCreated
	}
	s.writeJSON(w, status, res)
}

func (s *Server) handleListAssessments(w http.ResponseWriter, r *http.Request) {
	store := s.engine.Store()
	if store == nil {
		s.writeError(w, http.StatusNotFound, "no_store", engine.ErrNoStore)
		return
	}

	limit := state.DefaultListLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			s.writeError(w, http.StatusBadRequest, "bad_request", errors.New("limit must be a positive integer"))
			return
		}
		limit = n
	}

	list, err := store.ListAssessments(r.Context(), r.URL.Query().Get("package_id"), limit)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	if list == nil {
		list = []*state.Assessment{}
	}
	s.writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleGetAssessment(w http.ResponseWriter, r *http.Request) {
	store := s.engine.Store()
	if store == nil {
		s.writeError(w, http.StatusNotFound, "no_store", engine.ErrNoStore)
		return
	}

	a, err := store.GetAssessment(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, state.ErrNotFound) {
		s.writeError(w, http.StatusNotFound, "not_found", err)
		return
	}
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	s.writeJSON(w, http.StatusOK, a)
}

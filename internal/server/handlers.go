package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/verte-zerg/pentrust/internal/model"
	"github.com/verte-zerg/pentrust/internal/report"
	"github.com/verte-zerg/pentrust/internal/session"
)

type ctxKey struct{}

type runRequest struct {
	Text string `json:"text"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) sessionCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "sessionID")
		sess, ok := s.registry.Get(id)
		if !ok {
			s.writeError(w, http.StatusNotFound, "session not found")
			return
		}
		ctx := context.WithValue(r.Context(), ctxKey{}, sess)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func sessionFrom(r *http.Request) *session.Session {
	sess, _ := r.Context().Value(ctxKey{}).(*session.Session)
	return sess
}

func focusFrom(r *http.Request) model.Focus {
	if id := r.URL.Query().Get("focus"); id != "" {
		return model.FocusOn(model.PageIdentifier(id))
	}
	return model.AllRecords()
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"sessions": s.registry.Len(),
	})
}

func (s *Server) handleCreateSession(w http.ResponseWriter, _ *http.Request) {
	id, _ := s.registry.Create()
	s.logger.Info("session created", "session", id)
	s.writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	if !s.registry.Delete(id) {
		s.writeError(w, http.StatusNotFound, "session not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	var req runRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	batch, err := sessionFrom(r).Run(r.Context(), req.Text)
	if err != nil {
		s.writeSessionError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, batch)
}

func (s *Server) handleBatch(w http.ResponseWriter, r *http.Request) {
	batch, err := sessionFrom(r).Batch()
	if err != nil {
		s.writeSessionError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, batch)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := sessionFrom(r).Summary(focusFrom(r))
	if err != nil {
		s.writeSessionError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	chart, err := sessionFrom(r).Chart(focusFrom(r))
	if err != nil {
		s.writeSessionError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, chart)
}

func (s *Server) handleDetail(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("identifier")
	if id == "" {
		s.writeError(w, http.StatusBadRequest, "identifier is required")
		return
	}
	rec, err := sessionFrom(r).Detail(model.PageIdentifier(id))
	if err != nil {
		s.writeSessionError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	format, err := report.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	rep, err := sessionFrom(r).Report(focusFrom(r))
	if err != nil {
		s.writeSessionError(w, err)
		return
	}
	switch format {
	case report.FormatJSON:
		w.Header().Set("Content-Type", "application/json")
	case report.FormatHTML:
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
	case report.FormatMarkdown:
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	default:
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	}
	if err := report.Write(w, format, rep, report.Options{Width: 100}); err != nil {
		s.logger.Error("failed to write report", "error", err)
	}
}

func (s *Server) writeSessionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, model.ErrNoInput):
		s.writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, model.ErrUnknownSelection):
		s.writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, session.ErrNoBatch):
		s.writeError(w, http.StatusConflict, err.Error())
	default:
		s.logger.Error("request failed", "error", err)
		s.writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, errorResponse{Error: msg})
}

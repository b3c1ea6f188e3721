// Package server exposes analysis sessions over an HTTP JSON API.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/time/rate"

	"github.com/verte-zerg/pentrust/internal/session"
)

const (
	maxBodyBytes    = 1 << 20
	shutdownTimeout = 5 * time.Second
)

// Server routes API requests to sessions held in a registry.
type Server struct {
	registry *session.Registry
	logger   *slog.Logger
	router   *chi.Mux
	runLimit *rate.Limiter
}

// Option configures a Server.
type Option func(*Server)

// WithRunLimit caps analysis runs across all sessions. perSecond <= 0 leaves
// runs unlimited.
func WithRunLimit(perSecond float64, burst int) Option {
	return func(s *Server) {
		if perSecond <= 0 {
			return
		}
		if burst < 1 {
			burst = 1
		}
		s.runLimit = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

// New builds the router. A nil logger uses slog.Default.
func New(registry *session.Registry, logger *slog.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{registry: registry, logger: logger}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/api/sessions", func(r chi.Router) {
		r.Post("/", s.handleCreateSession)
		r.Route("/{sessionID}", func(r chi.Router) {
			r.Use(s.sessionCtx)
			r.Delete("/", s.handleDeleteSession)
			r.With(s.limitRuns).Post("/runs", s.handleRun)
			r.Get("/batch", s.handleBatch)
			r.Get("/summary", s.handleSummary)
			r.Get("/chart", s.handleChart)
			r.Get("/detail", s.handleDetail)
			r.Get("/report", s.handleReport)
		})
	})
	s.router = r
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is canceled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("failed to serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.logger.Info("server shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return nil
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		defer func() {
			s.logger.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
			)
		}()
		next.ServeHTTP(ww, r)
	})
}

func (s *Server) limitRuns(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.runLimit != nil && !s.runLimit.Allow() {
			w.Header().Set("Retry-After", "1")
			s.writeError(w, http.StatusTooManyRequests, "too many analysis runs, retry shortly")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Package api serves the statistics engine over HTTP.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"farmstat/adapters/llm"
	"farmstat/domain/dataset"
	"farmstat/internal/session"
	"farmstat/ports"
)

// Deps are the collaborators a Server is built from. Engine and Data are required.
type Deps struct {
	Engine  ports.Analyzer
	Tracker ports.AnalysisTracker
	Parser  ports.RequestParser
	Data    dataset.Dataset
	Seed    int64
	Metrics *Metrics
	Logger  *zap.Logger
}

// Server wires the router to the engine, tracker and parser. The dataset is
// fixed for the server's lifetime and shared read-only across requests.
type Server struct {
	router  *chi.Mux
	engine  ports.Analyzer
	tracker ports.AnalysisTracker
	parser  ports.RequestParser
	data    dataset.Dataset
	seed    int64
	metrics *Metrics
	logger  *zap.Logger
}

// NewServer builds a server. Missing optional collaborators get defaults: a fresh
// tracker, the fallback parser, private metrics and a no-op logger.
func NewServer(deps Deps) *Server {
	s := &Server{
		router:  chi.NewRouter(),
		engine:  deps.Engine,
		tracker: deps.Tracker,
		parser:  deps.Parser,
		data:    deps.Data,
		seed:    deps.Seed,
		metrics: deps.Metrics,
		logger:  deps.Logger,
	}
	if s.tracker == nil {
		s.tracker = session.NewTracker()
	}
	if s.parser == nil {
		s.parser = llm.FallbackParser{}
	}
	if s.metrics == nil {
		s.metrics = NewMetrics()
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}

	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// setupMiddleware configures HTTP middleware
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.requestLogger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(s.metrics.Middleware)
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)
	s.router.Handle("/metrics", s.metrics.Handler())

	s.router.Route("/api", func(r chi.Router) {
		r.Post("/parse", s.handleParse)
		r.Post("/analyze", s.handleAnalyze)
		r.Post("/analyze/batch", s.handleAnalyzeBatch)
		r.Post("/report", s.handleReport)

		r.Get("/dataset", s.handleDataset)
		r.Get("/dataset.csv", s.handleDatasetCSV)
		r.Get("/dataset.xlsx", s.handleDatasetXLSX)
		r.Get("/dataset/summary", s.handleDatasetSummary)

		r.Get("/tracker", s.handleTracker)
		r.Delete("/tracker", s.handleTrackerReset)
		r.Get("/tracker/{id}", s.handleTrackerEntry)
	})
}

// ServeHTTP makes Server an http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", zap.String("addr", addr), zap.Int("farms", len(s.data)))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.Duration("elapsed", time.Since(start)))
	})
}

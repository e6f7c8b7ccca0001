package api

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/depscope/depscope/pkg/builder"
	"github.com/depscope/depscope/pkg/conflicts"
	"github.com/depscope/depscope/pkg/cycles"
	"github.com/depscope/depscope/pkg/graph"
	"github.com/depscope/depscope/pkg/httputil"
	"github.com/depscope/depscope/pkg/manifest"
	"github.com/depscope/depscope/pkg/observability"
)

// maxIngestBody bounds manifest upload size.
const maxIngestBody = 4 << 20

// Server exposes the dependency graph over HTTP
type Server struct {
	gateway   graph.Gateway
	builder   *builder.Builder
	cycles    *cycles.Detector
	conflicts *conflicts.Detector
	registry  *manifest.Registry
	logger    *observability.Logger
	metrics   *observability.Metrics
	router    *mux.Router
}

// NewServer creates a new API server. Metrics may be nil when the
// metrics endpoint is disabled.
func NewServer(gw graph.Gateway, logger *observability.Logger, metrics *observability.Metrics) *Server {
	s := &Server{
		gateway:   gw,
		builder:   builder.New(gw, logger),
		cycles:    cycles.NewDetector(gw),
		conflicts: conflicts.NewDetector(gw),
		registry:  manifest.NewRegistry(),
		logger:    logger,
		metrics:   metrics,
		router:    mux.NewRouter(),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all the API routes
func (s *Server) setupRoutes() {
	middlewares := []func(http.Handler) http.Handler{
		httputil.RequestIDMiddleware,
		httputil.RecoveryMiddleware(s.logger),
	}
	if s.metrics != nil {
		middlewares = append(middlewares, observability.HTTPMetricsMiddleware(s.metrics))
	}
	middlewares = append(middlewares,
		httputil.ContentTypeMiddleware,
		httputil.MaxBytesMiddleware(maxIngestBody),
	)
	s.router.Use(mux.MiddlewareFunc(httputil.Chain(middlewares...)))

	api := s.router.PathPrefix("/api/v1").Subrouter()

	// Ingestion routes
	api.HandleFunc("/ingest", s.ingestManifest).Methods("POST")
	api.HandleFunc("/link", s.linkPackages).Methods("POST")
	api.HandleFunc("/graph", s.resetGraph).Methods("DELETE")
	api.HandleFunc("/graph/stats", s.getGraphStats).Methods("GET")

	// Project routes
	api.HandleFunc("/projects/{name}/dependencies", s.getProjectDependencies).Methods("GET")
	api.HandleFunc("/projects/{name}/stats", s.getProjectStats).Methods("GET")
	api.HandleFunc("/projects/{name}/cycles", s.getProjectCycles).Methods("GET")

	// Package routes
	api.HandleFunc("/packages/shared", s.getSharedPackages).Methods("GET")
	api.HandleFunc("/packages/{name}/projects", s.getPackageProjects).Methods("GET")
	api.HandleFunc("/packages/{name}/conflict", s.getPackageConflict).Methods("GET")

	// Cycle routes
	api.HandleFunc("/cycles", s.getCycles).Methods("GET")
	api.HandleFunc("/cycles/direct", s.getDirectCycles).Methods("GET")
	api.HandleFunc("/cycles/stats", s.getCycleStats).Methods("GET")

	// Conflict routes
	api.HandleFunc("/conflicts", s.getConflicts).Methods("GET")
	api.HandleFunc("/conflicts/stats", s.getConflictStats).Methods("GET")
}

// Router returns the configured HTTP handler
func (s *Server) Router() http.Handler {
	return s.router
}

// observeAnalysis records one analysis run when metrics are enabled.
func (s *Server) observeAnalysis(analysis string, start time.Time, err error) {
	if s.metrics == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	s.metrics.AnalysisRunsTotal.WithLabelValues(analysis, status).Inc()
	s.metrics.AnalysisRunDuration.WithLabelValues(analysis).Observe(time.Since(start).Seconds())
}

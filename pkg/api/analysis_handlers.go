package api

import (
	"net/http"
	"time"

	"github.com/depscope/depscope/pkg/httputil"
)

// getCycles returns circular dependency chains, shortest first
func (s *Server) getCycles(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	found, err := s.cycles.FindAllCycles(r.Context())
	s.observeAnalysis("cycles", start, err)
	if err != nil {
		httputil.WriteInternalError(w, err)
		return
	}
	httputil.WriteSuccess(w, map[string]any{
		"cycles": found,
		"total":  len(found),
	})
}

// getDirectCycles returns mutual two-package dependencies
func (s *Server) getDirectCycles(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	found, err := s.cycles.FindDirectCycles(r.Context())
	s.observeAnalysis("cycles", start, err)
	if err != nil {
		httputil.WriteInternalError(w, err)
		return
	}
	httputil.WriteSuccess(w, map[string]any{
		"cycles": found,
		"total":  len(found),
	})
}

// getCycleStats returns aggregate cycle statistics over the whole graph
func (s *Server) getCycleStats(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	stats, err := s.cycles.GetStatistics(r.Context())
	s.observeAnalysis("cycles", start, err)
	if err != nil {
		httputil.WriteInternalError(w, err)
		return
	}
	httputil.WriteSuccess(w, stats)
}

// getProjectCycles returns cycles reachable from a project's direct
// dependencies.
func (s *Server) getProjectCycles(w http.ResponseWriter, r *http.Request) {
	name, ok := httputil.ParsePathStringOrError(w, r, "name")
	if !ok {
		return
	}

	start := time.Now()
	found, err := s.cycles.FindProjectCycles(r.Context(), name)
	s.observeAnalysis("cycles", start, err)
	if err != nil {
		httputil.WriteInternalError(w, err)
		return
	}
	httputil.WriteSuccess(w, map[string]any{
		"project": name,
		"cycles":  found,
		"total":   len(found),
	})
}

// getConflicts returns packages with divergent version constraints
func (s *Server) getConflicts(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	found, err := s.conflicts.FindVersionConflicts(r.Context())
	s.observeAnalysis("conflicts", start, err)
	if err != nil {
		httputil.WriteInternalError(w, err)
		return
	}
	httputil.WriteSuccess(w, map[string]any{
		"conflicts": found,
		"total":     len(found),
	})
}

// getConflictStats returns aggregate conflict statistics
func (s *Server) getConflictStats(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	stats, err := s.conflicts.GetStatistics(r.Context())
	s.observeAnalysis("conflicts", start, err)
	if err != nil {
		httputil.WriteInternalError(w, err)
		return
	}
	httputil.WriteSuccess(w, stats)
}

// getPackageConflict returns the conflict detail for one package, or
// 404 when its constraints agree.
func (s *Server) getPackageConflict(w http.ResponseWriter, r *http.Request) {
	name, ok := httputil.ParsePathStringOrError(w, r, "name")
	if !ok {
		return
	}

	start := time.Now()
	conflict, err := s.conflicts.FindPackageConflict(r.Context(), name)
	s.observeAnalysis("conflicts", start, err)
	if err != nil {
		httputil.WriteInternalError(w, err)
		return
	}
	if conflict == nil {
		httputil.WriteNotFound(w, "no version conflict for package "+name)
		return
	}
	httputil.WriteSuccess(w, conflict)
}

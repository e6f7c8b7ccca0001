package api

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/depscope/depscope/pkg/httputil"
	"github.com/depscope/depscope/pkg/observability"
)

// IngestRequest carries one manifest to ingest. FileName selects the
// parser (package.json, requirements.txt, pubspec.yaml) and Path is the
// location recorded on the graph nodes.
type IngestRequest struct {
	FileName string `json:"file_name"`
	Path     string `json:"path"`
	Content  string `json:"content"`
}

// IngestResponse summarizes a completed ingestion
type IngestResponse struct {
	RunID        string `json:"run_id"`
	Project      string `json:"project"`
	Dependencies int    `json:"dependencies"`
	LinkedEdges  int    `json:"linked_edges"`
}

// ingestManifest parses a posted manifest, upserts it into the graph,
// and re-derives package-to-package edges.
func (s *Server) ingestManifest(w http.ResponseWriter, r *http.Request) {
	var req IngestRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}
	if !httputil.RequireNonEmpty(w, req.FileName, "file_name") {
		return
	}
	if !httputil.RequireNonEmpty(w, req.Content, "content") {
		return
	}

	parser := s.registry.Lookup(req.FileName)
	if parser == nil {
		httputil.WriteBadRequest(w, fmt.Sprintf("unsupported manifest file: %s", req.FileName))
		return
	}

	path := req.Path
	if path == "" {
		path = req.FileName
	}

	rec, err := parser.Parse(path, []byte(req.Content))
	if err != nil {
		if s.metrics != nil {
			s.metrics.ParseErrorsTotal.WithLabelValues(req.FileName).Inc()
		}
		httputil.WriteBadRequest(w, fmt.Sprintf("parse %s: %v", req.FileName, err))
		return
	}
	if err := rec.Validate(); err != nil {
		httputil.WriteBadRequest(w, err.Error())
		return
	}

	runID := uuid.NewString()
	ctx := observability.WithRunID(r.Context(), runID)

	deps, err := s.builder.BuildProjectGraph(ctx, rec)
	if err != nil {
		s.logger.WithError(err).WithField("project", rec.ProjectName).Error("manifest ingestion failed")
		httputil.WriteInternalError(w, err)
		return
	}

	linked, err := s.builder.LinkPackageDependencies(ctx)
	if err != nil {
		s.logger.WithError(err).Error("package linking failed")
		httputil.WriteInternalError(w, err)
		return
	}

	if s.metrics != nil {
		s.metrics.ManifestsIngestedTotal.WithLabelValues(rec.Language, "success").Inc()
		s.metrics.DependenciesUpserted.Add(float64(deps))
	}

	httputil.WriteCreated(w, IngestResponse{
		RunID:        runID,
		Project:      rec.ProjectName,
		Dependencies: deps,
		LinkedEdges:  linked,
	})
}

// linkPackages re-derives package-to-package edges without ingesting
func (s *Server) linkPackages(w http.ResponseWriter, r *http.Request) {
	linked, err := s.builder.LinkPackageDependencies(r.Context())
	if err != nil {
		httputil.WriteInternalError(w, err)
		return
	}
	httputil.WriteSuccess(w, map[string]int{"linked_edges": linked})
}

// resetGraph removes every node and relationship from the store
func (s *Server) resetGraph(w http.ResponseWriter, r *http.Request) {
	if err := s.gateway.ClearDatabase(r.Context()); err != nil {
		httputil.WriteInternalError(w, err)
		return
	}
	s.logger.Warn("graph store cleared")
	httputil.WriteNoContent(w)
}

// getGraphStats returns node and relationship counts
func (s *Server) getGraphStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.gateway.Stats(r.Context())
	if err != nil {
		httputil.WriteInternalError(w, err)
		return
	}
	httputil.WriteSuccess(w, stats)
}

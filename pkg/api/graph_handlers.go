package api

import (
	"net/http"

	"github.com/depscope/depscope/pkg/httputil"
)

// getProjectDependencies returns a project's direct dependencies
// ordered by package name.
func (s *Server) getProjectDependencies(w http.ResponseWriter, r *http.Request) {
	name, ok := httputil.ParsePathStringOrError(w, r, "name")
	if !ok {
		return
	}

	deps, err := s.builder.GetProjectDependencies(r.Context(), name)
	if err != nil {
		httputil.WriteInternalError(w, err)
		return
	}

	httputil.WriteSuccess(w, map[string]any{
		"project":      name,
		"dependencies": deps,
		"total":        len(deps),
	})
}

// getProjectStats returns a project's dependency counts grouped by type
func (s *Server) getProjectStats(w http.ResponseWriter, r *http.Request) {
	name, ok := httputil.ParsePathStringOrError(w, r, "name")
	if !ok {
		return
	}

	stats, err := s.builder.GetDependencyStats(r.Context(), name)
	if err != nil {
		httputil.WriteInternalError(w, err)
		return
	}

	httputil.WriteSuccess(w, map[string]any{
		"project": name,
		"byType":  stats,
	})
}

// getSharedPackages returns packages used by more than one project
func (s *Server) getSharedPackages(w http.ResponseWriter, r *http.Request) {
	shared, err := s.builder.FindSharedDependencies(r.Context())
	if err != nil {
		httputil.WriteInternalError(w, err)
		return
	}
	httputil.WriteSuccess(w, map[string]any{
		"packages": shared,
		"total":    len(shared),
	})
}

// getPackageProjects returns the projects depending on a package
func (s *Server) getPackageProjects(w http.ResponseWriter, r *http.Request) {
	name, ok := httputil.ParsePathStringOrError(w, r, "name")
	if !ok {
		return
	}

	usage, err := s.builder.FindProjectsUsingPackage(r.Context(), name)
	if err != nil {
		httputil.WriteInternalError(w, err)
		return
	}

	httputil.WriteSuccess(w, map[string]any{
		"package":  name,
		"projects": usage,
		"total":    len(usage),
	})
}

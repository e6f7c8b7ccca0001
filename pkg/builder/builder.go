package builder

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/depscope/depscope/pkg/graph"
	"github.com/depscope/depscope/pkg/manifest"
	"github.com/depscope/depscope/pkg/observability"
)

// ProjectDependency is one direct Project-to-Package edge.
type ProjectDependency struct {
	Package      string `json:"package"`
	VersionRange string `json:"versionRange"`
	Type         string `json:"type"`
	LineNumber   int    `json:"lineNumber"`
}

// SharedDependency is a package depended on by more than one project.
type SharedDependency struct {
	Package    string   `json:"package"`
	UsageCount int      `json:"usageCount"`
	Projects   []string `json:"projects"`
}

// PackageUsage is one project's declared constraint on a package.
type PackageUsage struct {
	Project      string `json:"project"`
	VersionRange string `json:"versionRange"`
	Type         string `json:"type"`
}

// Builder writes manifest records into the graph store and answers
// project-level dependency queries.
type Builder struct {
	gw     graph.Gateway
	logger *observability.Logger
}

// New creates a Builder on the given gateway.
func New(gw graph.Gateway, logger *observability.Logger) *Builder {
	return &Builder{gw: gw, logger: logger}
}

// BuildProjectGraph upserts the project, its packages, its dependency
// edges and its manifest file node. Returns the number of dependency
// records processed (duplicates included). Dependencies are written one
// at a time in manifest order; a failure aborts the call and leaves the
// statements already applied in place.
func (b *Builder) BuildProjectGraph(ctx context.Context, rec *manifest.Record) (int, error) {
	if err := rec.Validate(); err != nil {
		return 0, err
	}
	now := time.Now().UTC().Format(time.RFC3339)
	log := b.logger.WithField("project", rec.ProjectName)
	if runID := observability.GetRunID(ctx); runID != "" {
		log = log.WithField("run_id", runID)
	}

	_, err := b.gw.ExecuteWrite(ctx, upsertProject, map[string]any{
		"name":              rec.ProjectName,
		"path":              rec.ProjectPath,
		"language":          rec.Language,
		"version":           rec.Version,
		"description":       rec.Description,
		"totalDependencies": rec.TotalDependencies,
		"now":               now,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to upsert project %s: %w", rec.ProjectName, err)
	}

	for _, dep := range rec.Dependencies {
		_, err := b.gw.ExecuteWrite(ctx, upsertDependency, map[string]any{
			"project":      rec.ProjectName,
			"package":      dep.Name,
			"version":      dep.Version,
			"operator":     dep.Operator,
			"language":     rec.Language,
			"versionRange": dep.VersionRange,
			"type":         string(dep.Type),
			"lineNumber":   dep.LineNumber,
			"now":          now,
		})
		if err != nil {
			return 0, fmt.Errorf("failed to upsert dependency %s -> %s: %w", rec.ProjectName, dep.Name, err)
		}
	}

	_, err = b.gw.ExecuteWrite(ctx, upsertManifestFile, map[string]any{
		"project":  rec.ProjectName,
		"path":     rec.DependencyFile,
		"name":     filepath.Base(rec.DependencyFile),
		"language": rec.Language,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to upsert manifest file %s: %w", rec.DependencyFile, err)
	}

	log.WithField("dependencies", len(rec.Dependencies)).Info("project graph built")
	return len(rec.Dependencies), nil
}

// LinkPackageDependencies derives Package-to-Package edges for every
// project whose name also names a package. Safe to run repeatedly: only
// missing edges are created, and re-running after new projects are
// ingested picks up newly qualifying pairs. Returns the number of
// package-to-package edges matched by the derivation.
func (b *Builder) LinkPackageDependencies(ctx context.Context) (int, error) {
	now := time.Now().UTC().Format(time.RFC3339)
	rows, err := b.gw.ExecuteQuery(ctx, linkPackages, map[string]any{"now": now})
	if err != nil {
		return 0, fmt.Errorf("failed to link package dependencies: %w", err)
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return int(rows[0].Int("linked")), nil
}

// GetProjectDependencies returns a project's direct dependencies sorted
// by package name.
func (b *Builder) GetProjectDependencies(ctx context.Context, projectName string) ([]ProjectDependency, error) {
	rows, err := b.gw.ExecuteQuery(ctx, projectDependencies, map[string]any{"project": projectName})
	if err != nil {
		return nil, fmt.Errorf("failed to get dependencies for %s: %w", projectName, err)
	}

	deps := make([]ProjectDependency, 0, len(rows))
	for _, row := range rows {
		deps = append(deps, ProjectDependency{
			Package:      row.String("package"),
			VersionRange: row.String("versionRange"),
			Type:         row.String("type"),
			LineNumber:   int(row.Int("lineNumber")),
		})
	}
	return deps, nil
}

// GetDependencyStats groups a project's direct dependencies by type.
func (b *Builder) GetDependencyStats(ctx context.Context, projectName string) (map[string]int, error) {
	rows, err := b.gw.ExecuteQuery(ctx, dependencyStats, map[string]any{"project": projectName})
	if err != nil {
		return nil, fmt.Errorf("failed to get dependency stats for %s: %w", projectName, err)
	}

	stats := make(map[string]int, len(rows))
	for _, row := range rows {
		stats[row.String("type")] = int(row.Int("count"))
	}
	return stats, nil
}

// FindSharedDependencies returns packages used by more than one project,
// most used first.
func (b *Builder) FindSharedDependencies(ctx context.Context) ([]SharedDependency, error) {
	rows, err := b.gw.ExecuteQuery(ctx, sharedDependencies, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to find shared dependencies: %w", err)
	}

	shared := make([]SharedDependency, 0, len(rows))
	for _, row := range rows {
		shared = append(shared, SharedDependency{
			Package:    row.String("package"),
			UsageCount: int(row.Int("usageCount")),
			Projects:   row.StringSlice("projects"),
		})
	}
	return shared, nil
}

// FindProjectsUsingPackage returns every project with a direct edge to
// the named package, sorted by project name.
func (b *Builder) FindProjectsUsingPackage(ctx context.Context, packageName string) ([]PackageUsage, error) {
	rows, err := b.gw.ExecuteQuery(ctx, projectsUsingPackage, map[string]any{"package": packageName})
	if err != nil {
		return nil, fmt.Errorf("failed to find projects using %s: %w", packageName, err)
	}

	usages := make([]PackageUsage, 0, len(rows))
	for _, row := range rows {
		usages = append(usages, PackageUsage{
			Project:      row.String("project"),
			VersionRange: row.String("versionRange"),
			Type:         row.String("type"),
		})
	}
	return usages, nil
}

// VisualizeProjectGraph returns a traversal query for external
// visualization tools. The query is not executed here.
func (b *Builder) VisualizeProjectGraph(projectName string) string {
	return fmt.Sprintf(`MATCH path = (p:Project {name: '%s'})-[:DEPENDS_ON*1..3]->(dep)
RETURN path
LIMIT 50`, projectName)
}

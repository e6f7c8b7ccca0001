package conflicts

import (
	"context"
	"fmt"

	"github.com/depscope/depscope/pkg/graph"
)

const (
	// conflictsAPOCQuery performs the distinctness filter in the store.
	conflictsAPOCQuery = `
MATCH (p:Project)-[d:DEPENDS_ON]->(pkg:Package)
WITH pkg.name AS packageName, collect({project: p.name, version: d.versionRange, type: d.type}) AS dependencies
WHERE size(dependencies) > 1
WITH packageName, dependencies, size(apoc.coll.toSet([dep IN dependencies | dep.version])) AS distinctVersions
WHERE distinctVersions > 1
RETURN packageName, dependencies
ORDER BY packageName ASC
`

	// multiProjectPackagesQuery fetches every package used by more than
	// one project; the distinctness filter runs in the caller.
	multiProjectPackagesQuery = `
MATCH (p:Project)-[d:DEPENDS_ON]->(pkg:Package)
WITH pkg.name AS packageName, collect({project: p.name, version: d.versionRange, type: d.type}) AS dependencies
WHERE size(dependencies) > 1
RETURN packageName, dependencies
ORDER BY packageName ASC
`

	packageConstraintsQuery = `
MATCH (p:Project)-[d:DEPENDS_ON]->(pkg:Package {name: $package})
RETURN p.name AS project, d.versionRange AS version, d.type AS type
ORDER BY p.name ASC
`

	totalPackagesQuery = `
MATCH (pkg:Package)
RETURN count(DISTINCT pkg.name) AS total
`

	sharedPackagesQuery = `
MATCH (p:Project)-[:DEPENDS_ON]->(pkg:Package)
WITH pkg, count(DISTINCT p) AS usage
WHERE usage > 1
RETURN count(pkg) AS shared
`
)

// ProjectVersion is one project's constraint on a conflicting package.
type ProjectVersion struct {
	Project string `json:"project"`
	Version string `json:"version"`
	Type    string `json:"type"`
}

// Conflict is a package with at least two distinct version constraints
// across its depending projects.
type Conflict struct {
	Package      string           `json:"packageName"`
	Dependencies []ProjectVersion `json:"dependencies"`
}

// Statistics summarizes conflict detection over the whole graph.
type Statistics struct {
	TotalPackages       int `json:"totalPackages"`
	SharedPackages      int `json:"sharedPackages"`
	ConflictingPackages int `json:"conflictingPackages"`
}

// Detector finds version conflicts across projects.
type Detector struct {
	gw graph.Gateway
}

// NewDetector creates a conflict detector on the given gateway.
func NewDetector(gw graph.Gateway) *Detector {
	return &Detector{gw: gw}
}

// FindVersionConflicts returns every package pinned inconsistently by
// two or more projects. The store-side grouping is used when the APOC
// capability is present, otherwise the basic strategy runs.
func (d *Detector) FindVersionConflicts(ctx context.Context) ([]Conflict, error) {
	if !d.gw.Capabilities().APOC {
		return d.FindVersionConflictsBasic(ctx)
	}

	rows, err := d.gw.ExecuteQuery(ctx, conflictsAPOCQuery, nil)
	if err != nil {
		return nil, fmt.Errorf("conflict detection failed: %w", err)
	}
	return conflictsFromRows(rows), nil
}

// FindVersionConflictsBasic fetches all multi-project packages and
// performs the distinctness filter in-process. Semantically identical to
// the primary path.
func (d *Detector) FindVersionConflictsBasic(ctx context.Context) ([]Conflict, error) {
	rows, err := d.gw.ExecuteQuery(ctx, multiProjectPackagesQuery, nil)
	if err != nil {
		return nil, fmt.Errorf("conflict detection failed: %w", err)
	}

	conflicts := make([]Conflict, 0)
	for _, c := range conflictsFromRows(rows) {
		if len(distinctVersions(c.Dependencies)) > 1 {
			conflicts = append(conflicts, c)
		}
	}
	return conflicts, nil
}

// FindPackageConflict inspects one package. Returns nil when fewer than
// two distinct constraints exist among its depending projects.
func (d *Detector) FindPackageConflict(ctx context.Context, packageName string) (*Conflict, error) {
	rows, err := d.gw.ExecuteQuery(ctx, packageConstraintsQuery, map[string]any{"package": packageName})
	if err != nil {
		return nil, fmt.Errorf("conflict lookup for %s failed: %w", packageName, err)
	}

	deps := make([]ProjectVersion, 0, len(rows))
	for _, row := range rows {
		deps = append(deps, ProjectVersion{
			Project: row.String("project"),
			Version: row.String("version"),
			Type:    row.String("type"),
		})
	}
	if len(distinctVersions(deps)) < 2 {
		return nil, nil
	}
	return &Conflict{Package: packageName, Dependencies: deps}, nil
}

// GetStatistics recomputes conflict statistics; the conflicting-package
// count performs a full conflict scan.
func (d *Detector) GetStatistics(ctx context.Context) (Statistics, error) {
	var stats Statistics

	rows, err := d.gw.ExecuteQuery(ctx, totalPackagesQuery, nil)
	if err != nil {
		return Statistics{}, fmt.Errorf("conflict statistics failed: %w", err)
	}
	if len(rows) > 0 {
		stats.TotalPackages = int(rows[0].Int("total"))
	}

	rows, err = d.gw.ExecuteQuery(ctx, sharedPackagesQuery, nil)
	if err != nil {
		return Statistics{}, fmt.Errorf("conflict statistics failed: %w", err)
	}
	if len(rows) > 0 {
		stats.SharedPackages = int(rows[0].Int("shared"))
	}

	conflicts, err := d.FindVersionConflicts(ctx)
	if err != nil {
		return Statistics{}, err
	}
	stats.ConflictingPackages = len(conflicts)
	return stats, nil
}

func conflictsFromRows(rows []graph.Record) []Conflict {
	conflicts := make([]Conflict, 0, len(rows))
	for _, row := range rows {
		deps := make([]ProjectVersion, 0)
		for _, dep := range row.MapSlice("dependencies") {
			deps = append(deps, ProjectVersion{
				Project: dep.String("project"),
				Version: dep.String("version"),
				Type:    dep.String("type"),
			})
		}
		conflicts = append(conflicts, Conflict{
			Package:      row.String("packageName"),
			Dependencies: deps,
		})
	}
	return conflicts
}

// distinctVersions returns the distinct constraint strings in first-seen order.
func distinctVersions(deps []ProjectVersion) []string {
	seen := make(map[string]bool, len(deps))
	out := make([]string, 0, len(deps))
	for _, dep := range deps {
		if !seen[dep.Version] {
			seen[dep.Version] = true
			out = append(out, dep.Version)
		}
	}
	return out
}

package builder

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/depscope/depscope/pkg/graph"
	"github.com/depscope/depscope/pkg/manifest"
	"github.com/depscope/depscope/pkg/observability"
)

func newTestBuilder() (*Builder, *graph.MockGateway) {
	gw := graph.NewMockGateway()
	return New(gw, observability.NewLogger(observability.ErrorLevel, io.Discard)), gw
}

func sampleRecord() *manifest.Record {
	return &manifest.Record{
		ProjectName:    "web-app",
		ProjectPath:    "services/web",
		Language:       "javascript",
		Version:        "1.0.0",
		DependencyFile: "services/web/package.json",
		Dependencies: []manifest.DependencyRecord{
			{Name: "express", Version: "4.18.0", VersionRange: "^4.18.0", Operator: "^", Type: manifest.TypeProduction, LineNumber: 6},
			{Name: "lodash", Version: "4.17.21", VersionRange: "~4.17.21", Operator: "~", Type: manifest.TypeProduction, LineNumber: 7},
			{Name: "jest", Version: "29.0.0", VersionRange: "^29.0.0", Operator: "^", Type: manifest.TypeDevelopment, LineNumber: 10},
		},
		TotalDependencies: 3,
	}
}

func TestBuildProjectGraph(t *testing.T) {
	b, gw := newTestBuilder()

	count, err := b.BuildProjectGraph(context.Background(), sampleRecord())
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	// One project upsert, one per dependency, one manifest file upsert.
	require.Len(t, gw.Writes, 5)
	assert.Contains(t, gw.Writes[0].Query, "MERGE (p:Project")
	assert.Equal(t, "web-app", gw.Writes[0].Params["name"])

	dep := gw.Writes[1]
	assert.Contains(t, dep.Query, "MERGE (pkg:Package")
	assert.Equal(t, "express", dep.Params["package"])
	assert.Equal(t, "^4.18.0", dep.Params["versionRange"])
	assert.Equal(t, "production", dep.Params["type"])

	file := gw.Writes[4]
	assert.Contains(t, file.Query, ":File")
	assert.Equal(t, "services/web/package.json", file.Params["path"])
	assert.Equal(t, "package.json", file.Params["name"])
}

func TestBuildProjectGraphCountsDuplicates(t *testing.T) {
	b, _ := newTestBuilder()

	rec := sampleRecord()
	rec.Dependencies = append(rec.Dependencies, rec.Dependencies[0])
	rec.TotalDependencies = 4

	count, err := b.BuildProjectGraph(context.Background(), rec)
	require.NoError(t, err)
	// The duplicate upserts into the same node but still counts.
	assert.Equal(t, 4, count)
}

func TestBuildProjectGraphInvalidRecord(t *testing.T) {
	b, gw := newTestBuilder()

	_, err := b.BuildProjectGraph(context.Background(), &manifest.Record{})
	require.Error(t, err)
	assert.Empty(t, gw.Writes)
}

func TestBuildProjectGraphAbortsOnWriteFailure(t *testing.T) {
	b, gw := newTestBuilder()
	gw.FailWrites(errors.New("store down"))

	_, err := b.BuildProjectGraph(context.Background(), sampleRecord())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to upsert project")
	// The failure aborts before any dependency statement runs.
	assert.Len(t, gw.Writes, 1)
}

func TestBuildProjectGraphIsIdempotentStatements(t *testing.T) {
	b, gw := newTestBuilder()

	_, err := b.BuildProjectGraph(context.Background(), sampleRecord())
	require.NoError(t, err)
	_, err = b.BuildProjectGraph(context.Background(), sampleRecord())
	require.NoError(t, err)

	// Re-ingestion issues MERGE statements only, never CREATE.
	for _, w := range gw.Writes {
		assert.False(t, strings.Contains(w.Query, "CREATE ("), w.Query)
	}
}

func TestLinkPackageDependencies(t *testing.T) {
	b, gw := newTestBuilder()
	gw.StubQuery("count(r) AS linked", []graph.Record{{"linked": int64(4)}}, nil)

	linked, err := b.LinkPackageDependencies(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, linked)

	require.Len(t, gw.Queries, 1)
	assert.Contains(t, gw.Queries[0].Query, "ON CREATE SET")
	assert.Contains(t, gw.Queries[0].Query, "source")
}

func TestLinkPackageDependenciesNoRows(t *testing.T) {
	b, _ := newTestBuilder()

	linked, err := b.LinkPackageDependencies(context.Background())
	require.NoError(t, err)
	assert.Zero(t, linked)
}

func TestGetProjectDependencies(t *testing.T) {
	b, gw := newTestBuilder()
	gw.StubQuery("ORDER BY pkg.name", []graph.Record{
		{"package": "express", "versionRange": "^4.18.0", "type": "production", "lineNumber": int64(6)},
		{"package": "lodash", "versionRange": "~4.17.21", "type": "production", "lineNumber": int64(7)},
	}, nil)

	deps, err := b.GetProjectDependencies(context.Background(), "web-app")
	require.NoError(t, err)
	require.Len(t, deps, 2)
	assert.Equal(t, ProjectDependency{Package: "express", VersionRange: "^4.18.0", Type: "production", LineNumber: 6}, deps[0])
	assert.Equal(t, "web-app", gw.Queries[0].Params["project"])
}

func TestGetDependencyStats(t *testing.T) {
	b, gw := newTestBuilder()
	gw.StubQuery("count(*) AS count", []graph.Record{
		{"type": "production", "count": int64(12)},
		{"type": "development", "count": int64(5)},
		{"type": "peer", "count": int64(1)},
	}, nil)

	stats, err := b.GetDependencyStats(context.Background(), "web-app")
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"production": 12, "development": 5, "peer": 1}, stats)
}

func TestFindSharedDependencies(t *testing.T) {
	b, gw := newTestBuilder()
	gw.StubQuery("size(projects) AS usageCount", []graph.Record{
		{"package": "lodash", "usageCount": int64(3), "projects": []any{"web-app", "admin", "api"}},
		{"package": "express", "usageCount": int64(2), "projects": []any{"web-app", "admin"}},
	}, nil)

	shared, err := b.FindSharedDependencies(context.Background())
	require.NoError(t, err)
	require.Len(t, shared, 2)
	assert.Equal(t, "lodash", shared[0].Package)
	assert.Equal(t, []string{"web-app", "admin", "api"}, shared[0].Projects)
}

func TestFindProjectsUsingPackage(t *testing.T) {
	b, gw := newTestBuilder()
	gw.StubQuery("{name: $package}", []graph.Record{
		{"project": "admin", "versionRange": "^4.17.0", "type": "production"},
		{"project": "web-app", "versionRange": "^4.18.0", "type": "production"},
	}, nil)

	usage, err := b.FindProjectsUsingPackage(context.Background(), "express")
	require.NoError(t, err)
	require.Len(t, usage, 2)
	assert.Equal(t, "admin", usage[0].Project)
	assert.Equal(t, "express", gw.Queries[0].Params["package"])
}

func TestVisualizeProjectGraph(t *testing.T) {
	b, gw := newTestBuilder()

	query := b.VisualizeProjectGraph("web-app")
	assert.Contains(t, query, "{name: 'web-app'}")
	assert.Contains(t, query, "LIMIT 50")
	// Query generation never touches the store.
	assert.Empty(t, gw.Queries)
	assert.Empty(t, gw.Writes)
}

package conflicts

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/depscope/depscope/pkg/graph"
)

func conflictRow(pkg string, deps ...map[string]any) graph.Record {
	list := make([]any, 0, len(deps))
	for _, d := range deps {
		list = append(list, d)
	}
	return graph.Record{"packageName": pkg, "dependencies": list}
}

func dep(project, version string) map[string]any {
	return map[string]any{"project": project, "version": version, "type": "production"}
}

func TestFindVersionConflictsAPOC(t *testing.T) {
	gw := graph.NewMockGateway()
	gw.SetCapabilities(graph.Capabilities{APOC: true})
	gw.StubQuery("apoc.coll.toSet", []graph.Record{
		conflictRow("express", dep("web-app", "^4.18.0"), dep("admin", "^5.0.0")),
	}, nil)

	found, err := NewDetector(gw).FindVersionConflicts(context.Background())
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "express", found[0].Package)
	require.Len(t, found[0].Dependencies, 2)
	assert.Equal(t, ProjectVersion{Project: "web-app", Version: "^4.18.0", Type: "production"}, found[0].Dependencies[0])

	// The store performed the filtering; exactly one query ran.
	require.Len(t, gw.Queries, 1)
	assert.Contains(t, gw.Queries[0].Query, "apoc.coll.toSet")
}

func TestFindVersionConflictsFallsBackWithoutAPOC(t *testing.T) {
	gw := graph.NewMockGateway()
	gw.StubQuery("WHERE size(dependencies) > 1\nRETURN", []graph.Record{
		conflictRow("express", dep("web-app", "^4.18.0"), dep("admin", "^5.0.0")),
		conflictRow("lodash", dep("web-app", "^4.17.21"), dep("admin", "^4.17.21")),
	}, nil)

	found, err := NewDetector(gw).FindVersionConflicts(context.Background())
	require.NoError(t, err)

	// lodash agrees across projects and is filtered in-process.
	require.Len(t, found, 1)
	assert.Equal(t, "express", found[0].Package)
	assert.NotContains(t, gw.Queries[0].Query, "apoc")
}

func TestBasicAndAPOCPathsAgree(t *testing.T) {
	rows := []graph.Record{
		conflictRow("express", dep("web-app", "^4.18.0"), dep("admin", "^5.0.0")),
	}

	apocGW := graph.NewMockGateway()
	apocGW.SetCapabilities(graph.Capabilities{APOC: true})
	apocGW.StubQuery("apoc.coll.toSet", rows, nil)

	basicGW := graph.NewMockGateway()
	basicGW.StubQuery("WHERE size(dependencies) > 1", append(rows,
		conflictRow("lodash", dep("web-app", "^4.17.21"), dep("admin", "^4.17.21"))), nil)

	fromAPOC, err := NewDetector(apocGW).FindVersionConflicts(context.Background())
	require.NoError(t, err)
	fromBasic, err := NewDetector(basicGW).FindVersionConflicts(context.Background())
	require.NoError(t, err)

	assert.Equal(t, fromAPOC, fromBasic)
}

func TestFindPackageConflict(t *testing.T) {
	gw := graph.NewMockGateway()
	gw.StubQuery("d.versionRange AS version", []graph.Record{
		{"project": "web-app", "version": "^4.18.0", "type": "production"},
		{"project": "admin", "version": "~4.17.0", "type": "production"},
	}, nil)

	conflict, err := NewDetector(gw).FindPackageConflict(context.Background(), "express")
	require.NoError(t, err)
	require.NotNil(t, conflict)
	assert.Equal(t, "express", conflict.Package)
	assert.Len(t, conflict.Dependencies, 2)
}

func TestFindPackageConflictAgreeingVersions(t *testing.T) {
	gw := graph.NewMockGateway()
	gw.StubQuery("d.versionRange AS version", []graph.Record{
		{"project": "web-app", "version": "^4.18.0", "type": "production"},
		{"project": "admin", "version": "^4.18.0", "type": "production"},
	}, nil)

	conflict, err := NewDetector(gw).FindPackageConflict(context.Background(), "express")
	require.NoError(t, err)
	assert.Nil(t, conflict)
}

func TestFindPackageConflictUnknownPackage(t *testing.T) {
	gw := graph.NewMockGateway()

	conflict, err := NewDetector(gw).FindPackageConflict(context.Background(), "no-such-package")
	require.NoError(t, err)
	assert.Nil(t, conflict)
}

func TestGetStatistics(t *testing.T) {
	gw := graph.NewMockGateway()
	gw.StubQuery("count(DISTINCT pkg.name) AS total", []graph.Record{{"total": int64(40)}}, nil)
	gw.StubQuery("count(pkg) AS shared", []graph.Record{{"shared": int64(12)}}, nil)
	gw.StubQuery("WHERE size(dependencies) > 1", []graph.Record{
		conflictRow("express", dep("web-app", "^4.18.0"), dep("admin", "^5.0.0")),
		conflictRow("lodash", dep("web-app", "^4.17.21"), dep("admin", "^4.17.21")),
	}, nil)

	stats, err := NewDetector(gw).GetStatistics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Statistics{TotalPackages: 40, SharedPackages: 12, ConflictingPackages: 1}, stats)
}

func TestGetStatisticsStoreError(t *testing.T) {
	gw := graph.NewMockGateway()
	gw.StubQuery("count(DISTINCT pkg.name) AS total", nil, errors.New("timeout"))

	_, err := NewDetector(gw).GetStatistics(context.Background())
	assert.ErrorContains(t, err, "conflict statistics failed")
}

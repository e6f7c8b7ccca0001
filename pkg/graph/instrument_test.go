package graph

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/depscope/depscope/pkg/observability"
)

func TestWithMetricsNilPassthrough(t *testing.T) {
	gw := NewMockGateway()
	assert.Same(t, Gateway(gw), WithMetrics(gw, nil))
}

func TestWithMetricsCountsStatements(t *testing.T) {
	metrics := observability.NewMetrics(prometheus.NewRegistry())
	mock := NewMockGateway()
	gw := WithMetrics(mock, metrics)

	_, err := gw.ExecuteQuery(context.Background(), "MATCH (n) RETURN n", nil)
	require.NoError(t, err)
	_, err = gw.ExecuteWrite(context.Background(), "MERGE (p:Package {name: $name})", nil)
	require.NoError(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.StoreQueriesTotal.WithLabelValues("query", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.StoreQueriesTotal.WithLabelValues("write", "success")))
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.StoreErrorsTotal.WithLabelValues("query")))
}

func TestWithMetricsCountsErrors(t *testing.T) {
	metrics := observability.NewMetrics(prometheus.NewRegistry())
	mock := NewMockGateway()
	mock.FailWrites(errors.New("deadlock"))
	gw := WithMetrics(mock, metrics)

	_, err := gw.ExecuteWrite(context.Background(), "MERGE (p:Package {name: $name})", nil)
	require.Error(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.StoreQueriesTotal.WithLabelValues("write", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.StoreErrorsTotal.WithLabelValues("write")))
}

func TestWithMetricsRefreshesGauges(t *testing.T) {
	metrics := observability.NewMetrics(prometheus.NewRegistry())
	mock := NewMockGateway()
	mock.SetStats(StoreStats{Projects: 3, Packages: 42, Dependencies: 80, Files: 3})
	gw := WithMetrics(mock, metrics)

	_, err := gw.Stats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3.0, testutil.ToFloat64(metrics.ProjectsTotal))
	assert.Equal(t, 42.0, testutil.ToFloat64(metrics.PackagesTotal))
	assert.Equal(t, 80.0, testutil.ToFloat64(metrics.DependenciesTotal))
	assert.Equal(t, 3.0, testutil.ToFloat64(metrics.FilesTotal))
}

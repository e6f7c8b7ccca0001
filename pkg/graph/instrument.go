package graph

import (
	"context"
	"time"

	"github.com/depscope/depscope/pkg/observability"
)

// instrumentedGateway records Prometheus metrics around every store call.
type instrumentedGateway struct {
	Gateway
	metrics *observability.Metrics
}

// WithMetrics wraps gw so every statement is counted and timed, and the
// graph entity gauges track Stats results. A nil metrics handle returns
// gw unchanged.
func WithMetrics(gw Gateway, metrics *observability.Metrics) Gateway {
	if metrics == nil {
		return gw
	}
	return &instrumentedGateway{Gateway: gw, metrics: metrics}
}

func (g *instrumentedGateway) ExecuteQuery(ctx context.Context, query string, params map[string]any) ([]Record, error) {
	start := time.Now()
	rows, err := g.Gateway.ExecuteQuery(ctx, query, params)
	g.observe("query", start, err)
	return rows, err
}

func (g *instrumentedGateway) ExecuteWrite(ctx context.Context, query string, params map[string]any) (WriteSummary, error) {
	start := time.Now()
	summary, err := g.Gateway.ExecuteWrite(ctx, query, params)
	g.observe("write", start, err)
	return summary, err
}

func (g *instrumentedGateway) Stats(ctx context.Context) (StoreStats, error) {
	start := time.Now()
	stats, err := g.Gateway.Stats(ctx)
	g.observe("stats", start, err)
	if err == nil {
		g.metrics.ProjectsTotal.Set(float64(stats.Projects))
		g.metrics.PackagesTotal.Set(float64(stats.Packages))
		g.metrics.DependenciesTotal.Set(float64(stats.Dependencies))
		g.metrics.FilesTotal.Set(float64(stats.Files))
	}
	return stats, err
}

func (g *instrumentedGateway) observe(operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
		g.metrics.StoreErrorsTotal.WithLabelValues(operation).Inc()
	}
	g.metrics.StoreQueriesTotal.WithLabelValues(operation, status).Inc()
	g.metrics.StoreQueryDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

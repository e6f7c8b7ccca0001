// Package observability provides structured logging, Prometheus metrics,
// health probes, optional OpenTelemetry tracing, and graceful shutdown.
//
// # Logging
//
// Logger wraps stdlib slog with a JSON handler and field chaining:
//
//	logger := observability.NewLogger(observability.InfoLevel, os.Stdout)
//	logger.WithField("project", name).Info("manifest ingested")
//
// Request and ingestion-run IDs travel through context and are attached
// automatically by FromContext.
//
// # Metrics
//
// NewMetrics registers depscope_* counters, histograms and gauges on a
// Prometheus registry; HTTPMetricsMiddleware instruments the API server.
//
// # Health
//
// HealthChecker exposes /healthz (liveness) and /readyz (readiness); the
// readiness probe pings the graph store.
package observability

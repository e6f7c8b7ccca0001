package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Store metrics
	StoreQueriesTotal   *prometheus.CounterVec
	StoreQueryDuration  *prometheus.HistogramVec
	StoreErrorsTotal    *prometheus.CounterVec

	// Ingestion metrics
	ManifestsIngestedTotal *prometheus.CounterVec
	DependenciesUpserted   prometheus.Counter
	ParseErrorsTotal       *prometheus.CounterVec

	// Analysis metrics
	AnalysisRunsTotal   *prometheus.CounterVec
	AnalysisRunDuration *prometheus.HistogramVec

	// Graph entity gauges, refreshed from store counts
	ProjectsTotal     prometheus.Gauge
	PackagesTotal     prometheus.Gauge
	DependenciesTotal prometheus.Gauge
	FilesTotal        prometheus.Gauge
}

// NewMetrics creates and registers all Prometheus metrics
func NewMetrics(registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "depscope_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "depscope_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		StoreQueriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "depscope_store_queries_total",
				Help: "Total number of graph store statements executed",
			},
			[]string{"operation", "status"},
		),
		StoreQueryDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "depscope_store_query_duration_seconds",
				Help:    "Graph store statement duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		StoreErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "depscope_store_errors_total",
				Help: "Total number of graph store errors",
			},
			[]string{"operation"},
		),

		ManifestsIngestedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "depscope_manifests_ingested_total",
				Help: "Total number of manifests ingested",
			},
			[]string{"language", "status"},
		),
		DependenciesUpserted: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "depscope_dependencies_upserted_total",
				Help: "Total number of dependency records written to the graph",
			},
		),
		ParseErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "depscope_parse_errors_total",
				Help: "Total number of manifest parse failures",
			},
			[]string{"parser"},
		),

		AnalysisRunsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "depscope_analysis_runs_total",
				Help: "Total number of analysis runs",
			},
			[]string{"analysis", "status"},
		),
		AnalysisRunDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "depscope_analysis_run_duration_seconds",
				Help:    "Analysis run duration in seconds",
				Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
			},
			[]string{"analysis"},
		),

		ProjectsTotal: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "depscope_projects_total",
				Help: "Total number of Project nodes in the graph",
			},
		),
		PackagesTotal: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "depscope_packages_total",
				Help: "Total number of Package nodes in the graph",
			},
		),
		DependenciesTotal: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "depscope_graph_dependencies_total",
				Help: "Total number of DEPENDS_ON relationships in the graph",
			},
		),
		FilesTotal: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "depscope_files_total",
				Help: "Total number of File nodes in the graph",
			},
		),
	}

	// Register all metrics
	registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.StoreQueriesTotal,
		m.StoreQueryDuration,
		m.StoreErrorsTotal,
		m.ManifestsIngestedTotal,
		m.DependenciesUpserted,
		m.ParseErrorsTotal,
		m.AnalysisRunsTotal,
		m.AnalysisRunDuration,
		m.ProjectsTotal,
		m.PackagesTotal,
		m.DependenciesTotal,
		m.FilesTotal,
	)

	return m
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// HTTPMetricsMiddleware instruments HTTP requests with Prometheus metrics
func HTTPMetricsMiddleware(metrics *Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			rw := &responseWriter{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
			}

			next.ServeHTTP(rw, r)

			duration := time.Since(start).Seconds()
			status := strconv.Itoa(rw.statusCode)

			metrics.HTTPRequestsTotal.WithLabelValues(r.Method, r.URL.Path, status).Inc()
			metrics.HTTPRequestDuration.WithLabelValues(r.Method, r.URL.Path).Observe(duration)
		})
	}
}

// RegisterMetricsEndpoint registers the /metrics endpoint
func RegisterMetricsEndpoint(mux *http.ServeMux, registry *prometheus.Registry) {
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
}

package observability

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
)

// StorePinger is the slice of the graph gateway the health checker needs.
type StorePinger interface {
	Ping(ctx context.Context) error
}

// HealthChecker provides health check functionality
type HealthChecker struct {
	store StorePinger
}

// NewHealthChecker creates a new health checker
func NewHealthChecker(store StorePinger) *HealthChecker {
	return &HealthChecker{store: store}
}

// HealthStatus represents the overall health status
type HealthStatus struct {
	Status       string                      `json:"status"`
	Timestamp    time.Time                   `json:"timestamp"`
	Version      string                      `json:"version,omitempty"`
	Dependencies map[string]DependencyStatus `json:"dependencies,omitempty"`
}

// DependencyStatus represents the health of a single dependency
type DependencyStatus struct {
	Status    string        `json:"status"`
	Message   string        `json:"message,omitempty"`
	Latency   time.Duration `json:"latency_ms,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
}

const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
)

// Liveness returns a simple liveness probe (always returns 200 if server is running)
func (h *HealthChecker) Liveness(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":    StatusHealthy,
		"timestamp": time.Now(),
	})
}

// Readiness returns a readiness probe checking the graph store connection
func (h *HealthChecker) Readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := HealthStatus{
		Status:       StatusHealthy,
		Timestamp:    time.Now(),
		Dependencies: make(map[string]DependencyStatus),
	}

	start := time.Now()
	storeStatus := DependencyStatus{Status: StatusHealthy, Timestamp: time.Now()}
	if h.store == nil {
		storeStatus.Status = StatusUnhealthy
		storeStatus.Message = "no store configured"
	} else if err := h.store.Ping(ctx); err != nil {
		storeStatus.Status = StatusUnhealthy
		storeStatus.Message = err.Error()
	}
	storeStatus.Latency = time.Since(start) / time.Millisecond
	status.Dependencies["neo4j"] = storeStatus

	code := http.StatusOK
	if storeStatus.Status != StatusHealthy {
		status.Status = StatusUnhealthy
		code = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(status)
}

// RegisterHealthEndpoints registers liveness and readiness probes
func (h *HealthChecker) RegisterHealthEndpoints(mux *http.ServeMux) {
	mux.HandleFunc("/healthz", h.Liveness)
	mux.HandleFunc("/readyz", h.Readiness)
}

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/depscope/depscope/pkg/graph"
	"github.com/depscope/depscope/pkg/observability"
)

// Config holds all application configuration
type Config struct {
	// Neo4j connection configuration
	Neo4j graph.Config

	// Server configuration (depscope-server only)
	Server ServerConfig

	// Watcher configuration (depscope-watcher only)
	Watcher WatcherConfig

	// Observability configuration
	Observability ObservabilityConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	// Health/metrics server (separate port for k8s probes)
	HealthPort string
}

// WatcherConfig holds manifest watcher configuration
type WatcherConfig struct {
	// Debounce is how long to wait after the last write event before
	// re-ingesting a changed manifest.
	Debounce time.Duration

	// RelinkSchedule is the cron expression for periodic derived-edge
	// re-derivation.
	RelinkSchedule string
}

// ObservabilityConfig holds observability settings
type ObservabilityConfig struct {
	// Logging
	LogLevel observability.LogLevel

	// Metrics
	MetricsEnabled bool

	// OpenTelemetry
	OTelEnabled        bool
	OTelEndpoint       string
	OTelServiceName    string
	OTelServiceVersion string
	OTelInsecure       bool // Use insecure gRPC connection
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Neo4j:         loadNeo4jConfig(),
		Server:        loadServerConfig(),
		Watcher:       loadWatcherConfig(),
		Observability: loadObservabilityConfig(),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// loadNeo4jConfig loads graph store configuration from environment
func loadNeo4jConfig() graph.Config {
	return graph.Config{
		URI:      getEnv("DEPSCOPE_NEO4J_URI", "bolt://localhost:7687"),
		Username: getEnv("DEPSCOPE_NEO4J_USERNAME", "neo4j"),
		Password: getEnv("DEPSCOPE_NEO4J_PASSWORD", ""),
		Database: getEnv("DEPSCOPE_NEO4J_DATABASE", ""),
	}
}

// loadServerConfig loads server configuration from environment
func loadServerConfig() ServerConfig {
	return ServerConfig{
		Host:            getEnv("DEPSCOPE_HOST", "0.0.0.0"),
		Port:            getEnv("DEPSCOPE_PORT", "8080"),
		ReadTimeout:     getEnvDuration("DEPSCOPE_READ_TIMEOUT", 15*time.Second),
		WriteTimeout:    getEnvDuration("DEPSCOPE_WRITE_TIMEOUT", 15*time.Second),
		IdleTimeout:     getEnvDuration("DEPSCOPE_IDLE_TIMEOUT", 60*time.Second),
		ShutdownTimeout: getEnvDuration("DEPSCOPE_SHUTDOWN_TIMEOUT", 30*time.Second),
		HealthPort:      getEnv("DEPSCOPE_HEALTH_PORT", "9090"),
	}
}

// loadWatcherConfig loads watcher configuration from environment
func loadWatcherConfig() WatcherConfig {
	return WatcherConfig{
		Debounce:       getEnvDuration("DEPSCOPE_WATCH_DEBOUNCE", 2*time.Second),
		RelinkSchedule: getEnv("DEPSCOPE_RELINK_SCHEDULE", "@every 10m"),
	}
}

// loadObservabilityConfig loads observability configuration from environment
func loadObservabilityConfig() ObservabilityConfig {
	return ObservabilityConfig{
		LogLevel:           parseLogLevel(getEnv("DEPSCOPE_LOG_LEVEL", "info")),
		MetricsEnabled:     getEnvBool("DEPSCOPE_METRICS_ENABLED", true),
		OTelEnabled:        getEnvBool("DEPSCOPE_OTEL_ENABLED", false),
		OTelEndpoint:       getEnv("DEPSCOPE_OTEL_ENDPOINT", "localhost:4317"),
		OTelServiceName:    getEnv("DEPSCOPE_OTEL_SERVICE_NAME", "depscope"),
		OTelServiceVersion: getEnv("DEPSCOPE_OTEL_SERVICE_VERSION", "1.0.0"),
		OTelInsecure:       getEnvBool("DEPSCOPE_OTEL_INSECURE", true),
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Neo4j.URI == "" {
		return fmt.Errorf("neo4j URI is required")
	}
	if !strings.Contains(c.Neo4j.URI, "://") {
		return fmt.Errorf("invalid neo4j URI: %s", c.Neo4j.URI)
	}

	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}
	if c.Server.HealthPort == "" {
		return fmt.Errorf("health port is required")
	}
	if c.Server.Port == c.Server.HealthPort {
		return fmt.Errorf("server port and health port must be different")
	}

	if c.Watcher.Debounce <= 0 {
		return fmt.Errorf("watch debounce must be positive")
	}

	if c.Observability.OTelEnabled {
		if c.Observability.OTelEndpoint == "" {
			return fmt.Errorf("OpenTelemetry endpoint is required when OTel is enabled")
		}
		if c.Observability.OTelServiceName == "" {
			return fmt.Errorf("OpenTelemetry service name is required when OTel is enabled")
		}
	}

	return nil
}

// parseLogLevel parses a log level string
func parseLogLevel(level string) observability.LogLevel {
	switch strings.ToLower(level) {
	case "debug":
		return observability.DebugLevel
	case "info":
		return observability.InfoLevel
	case "warn", "warning":
		return observability.WarnLevel
	case "error":
		return observability.ErrorLevel
	default:
		return observability.InfoLevel
	}
}

// getEnv returns an environment variable value or a default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool returns a boolean environment variable or a default
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return strings.ToLower(value) == "true" || value == "1"
	}
	return defaultValue
}

// getEnvDuration returns a duration environment variable or a default
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

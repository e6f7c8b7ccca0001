package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/depscope/depscope/pkg/observability"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "bolt://localhost:7687", cfg.Neo4j.URI)
	assert.Equal(t, "neo4j", cfg.Neo4j.Username)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "9090", cfg.Server.HealthPort)
	assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, 2*time.Second, cfg.Watcher.Debounce)
	assert.Equal(t, "@every 10m", cfg.Watcher.RelinkSchedule)
	assert.Equal(t, observability.InfoLevel, cfg.Observability.LogLevel)
	assert.True(t, cfg.Observability.MetricsEnabled)
	assert.False(t, cfg.Observability.OTelEnabled)
}

func TestLoadConfigFromEnvironment(t *testing.T) {
	t.Setenv("DEPSCOPE_NEO4J_URI", "neo4j://graph.internal:7687")
	t.Setenv("DEPSCOPE_NEO4J_PASSWORD", "secret")
	t.Setenv("DEPSCOPE_PORT", "3000")
	t.Setenv("DEPSCOPE_LOG_LEVEL", "debug")
	t.Setenv("DEPSCOPE_WATCH_DEBOUNCE", "500ms")
	t.Setenv("DEPSCOPE_METRICS_ENABLED", "false")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "neo4j://graph.internal:7687", cfg.Neo4j.URI)
	assert.Equal(t, "secret", cfg.Neo4j.Password)
	assert.Equal(t, "3000", cfg.Server.Port)
	assert.Equal(t, observability.DebugLevel, cfg.Observability.LogLevel)
	assert.Equal(t, 500*time.Millisecond, cfg.Watcher.Debounce)
	assert.False(t, cfg.Observability.MetricsEnabled)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Neo4j: loadNeo4jConfig(),
			Server: ServerConfig{
				Port:       "8080",
				HealthPort: "9090",
			},
			Watcher:       loadWatcherConfig(),
			Observability: loadObservabilityConfig(),
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid defaults",
			mutate: func(c *Config) {},
		},
		{
			name:    "missing neo4j URI",
			mutate:  func(c *Config) { c.Neo4j.URI = "" },
			wantErr: "neo4j URI is required",
		},
		{
			name:    "malformed neo4j URI",
			mutate:  func(c *Config) { c.Neo4j.URI = "localhost:7687" },
			wantErr: "invalid neo4j URI",
		},
		{
			name:    "port collision",
			mutate:  func(c *Config) { c.Server.HealthPort = "8080" },
			wantErr: "must be different",
		},
		{
			name:    "non-positive debounce",
			mutate:  func(c *Config) { c.Watcher.Debounce = 0 },
			wantErr: "debounce must be positive",
		},
		{
			name: "otel enabled without endpoint",
			mutate: func(c *Config) {
				c.Observability.OTelEnabled = true
				c.Observability.OTelEndpoint = ""
			},
			wantErr: "endpoint is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, observability.DebugLevel, parseLogLevel("debug"))
	assert.Equal(t, observability.WarnLevel, parseLogLevel("WARNING"))
	assert.Equal(t, observability.ErrorLevel, parseLogLevel("error"))
	assert.Equal(t, observability.InfoLevel, parseLogLevel("bogus"))
}

func TestGetEnvHelpers(t *testing.T) {
	t.Setenv("DEPSCOPE_TEST_BOOL", "1")
	t.Setenv("DEPSCOPE_TEST_DUR", "90s")

	assert.True(t, getEnvBool("DEPSCOPE_TEST_BOOL", false))
	assert.Equal(t, 90*time.Second, getEnvDuration("DEPSCOPE_TEST_DUR", time.Second))
}

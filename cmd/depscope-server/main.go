package main

import (
	"context"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/depscope/depscope/pkg/api"
	"github.com/depscope/depscope/pkg/config"
	"github.com/depscope/depscope/pkg/graph"
	"github.com/depscope/depscope/pkg/observability"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		os.Stderr.WriteString("configuration error: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.Observability.LogLevel, os.Stdout)
	ctx := context.Background()

	gw, err := graph.Connect(ctx, cfg.Neo4j)
	if err != nil {
		logger.WithError(err).Error("failed to connect to graph store")
		os.Exit(1)
	}

	if err := gw.SetupConstraints(ctx); err != nil {
		logger.WithError(err).Error("failed to set up graph constraints")
		gw.Close(ctx)
		os.Exit(1)
	}
	logger.WithField("uri", cfg.Neo4j.URI).Info("connected to graph store")

	providers, err := observability.InitOTel(ctx, observability.OTelConfig{
		Enabled:        cfg.Observability.OTelEnabled,
		Endpoint:       cfg.Observability.OTelEndpoint,
		ServiceName:    cfg.Observability.OTelServiceName,
		ServiceVersion: cfg.Observability.OTelServiceVersion,
		Insecure:       cfg.Observability.OTelInsecure,
	}, logger)
	if err != nil {
		logger.WithError(err).Error("failed to initialize OpenTelemetry")
		gw.Close(ctx)
		os.Exit(1)
	}

	var metrics *observability.Metrics
	registry := prometheus.NewRegistry()
	if cfg.Observability.MetricsEnabled {
		metrics = observability.NewMetrics(registry)
	}

	server := api.NewServer(graph.WithMetrics(gw, metrics), logger, metrics)
	var handler http.Handler = server.Router()
	if cfg.Observability.OTelEnabled {
		handler = otelhttp.NewHandler(handler, "depscope-server")
	}

	apiServer := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Health and metrics live on their own port for probe isolation.
	opsMux := http.NewServeMux()
	observability.NewHealthChecker(gw).RegisterHealthEndpoints(opsMux)
	if cfg.Observability.MetricsEnabled {
		observability.RegisterMetricsEndpoint(opsMux, registry)
	}
	opsServer := &http.Server{
		Addr:    cfg.Server.Host + ":" + cfg.Server.HealthPort,
		Handler: opsMux,
	}

	go func() {
		logger.WithField("addr", opsServer.Addr).Info("ops server listening")
		if err := opsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Error("ops server failed")
		}
	}()

	go func() {
		logger.WithField("addr", apiServer.Addr).Info("API server listening")
		if err := apiServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Error("API server failed")
			os.Exit(1)
		}
	}()

	manager := observability.NewShutdownManager(logger, apiServer, cfg.Server.ShutdownTimeout)
	manager.RegisterShutdownFunc(opsServer.Shutdown)
	manager.RegisterShutdownFunc(func(ctx context.Context) error {
		return observability.ShutdownOTel(ctx, providers, logger)
	})
	manager.RegisterShutdownFunc(gw.Close)

	if err := manager.WaitForShutdown(); err != nil {
		logger.WithError(err).Error("shutdown finished with errors")
		os.Exit(1)
	}
}

package observability

import (
	"context"
	stderrors "errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"salaryinsights/internal/config"
	"salaryinsights/internal/errors"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/sdk/metric"
)

const defaultMetricsEndpoint = "/metrics"

// PrometheusConfig holds Prometheus-specific configuration
type PrometheusConfig struct {
	Enabled  bool
	Endpoint string
	Port     string
}

// PrometheusServer serves the scrape endpoint on its own port
type PrometheusServer struct {
	server   *http.Server
	endpoint string
	addr     string
	logger   *errors.Logger
}

// SetupPrometheusExporter creates the OTel Prometheus reader and the scrape handler
func SetupPrometheusExporter(cfg PrometheusConfig) (metric.Reader, *http.ServeMux, error) {
	if !cfg.Enabled {
		return nil, nil, nil
	}

	exporter, err := prometheus.New()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create Prometheus exporter: %w", err)
	}

	// promhttp serves the default registry the exporter registers with
	mux := http.NewServeMux()
	mux.Handle(metricsEndpoint(cfg), promhttp.Handler())

	return exporter, mux, nil
}

func metricsEndpoint(cfg PrometheusConfig) string {
	if cfg.Endpoint == "" {
		return defaultMetricsEndpoint
	}
	return cfg.Endpoint
}

// StartPrometheusServer binds the metrics port and serves mux in the background.
// Bind errors are returned; later serve errors are logged.
func StartPrometheusServer(mux *http.ServeMux, cfg PrometheusConfig, logger *errors.Logger) (*PrometheusServer, error) {
	if mux == nil {
		return nil, nil
	}

	listener, err := net.Listen("tcp", ":"+cfg.Port)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on metrics port %s: %w", cfg.Port, err)
	}

	ps := &PrometheusServer{
		server: &http.Server{
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second, // Prevent Slowloris attacks
			ReadTimeout:       30 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
		endpoint: metricsEndpoint(cfg),
		addr:     listener.Addr().String(),
		logger:   logger,
	}

	logger.Info("Prometheus metrics server started", "address", ps.addr, "endpoint", ps.endpoint)

	go func() {
		if err := ps.server.Serve(listener); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			logger.LogError(err, "Prometheus metrics server failed", "address", ps.addr)
		}
	}()

	return ps, nil
}

// URL returns the scrape URL of the running server
func (ps *PrometheusServer) URL() string {
	return "http://" + ps.addr + ps.endpoint
}

// Shutdown stops the metrics server
func (ps *PrometheusServer) Shutdown(ctx context.Context) error {
	if err := ps.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to stop Prometheus server: %w", err)
	}
	ps.logger.Info("Prometheus metrics server stopped", "address", ps.addr)
	return nil
}

// GetPrometheusConfig creates Prometheus configuration from provided config
func GetPrometheusConfig(cfg *config.Config) PrometheusConfig {
	if cfg != nil {
		return PrometheusConfig{
			Enabled:  cfg.Observability.Prometheus.Enabled,
			Endpoint: cfg.Observability.Prometheus.Endpoint,
			Port:     cfg.Observability.Prometheus.Port,
		}
	}

	// Fallback to defaults if config not available
	return PrometheusConfig{
		Enabled:  true,
		Endpoint: defaultMetricsEndpoint,
		Port:     "9090",
	}
}

// Package telemetry installs the OpenTelemetry meter provider used by the
// planner's metrics and exposes the Prometheus /metrics handler.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/sdk/metric"
)

// Metric exporters accepted by Setup.
const (
	ExporterPrometheus = "prometheus"
	ExporterStdout     = "stdout"
	ExporterNone       = "none"
)

// ErrUnknownExporter is returned for an unsupported exporter name.
var ErrUnknownExporter = errors.New("unknown metric exporter")

// ShutdownFunc flushes and stops the installed provider.
type ShutdownFunc func(context.Context) error

// metricsHandler stores the Prometheus exporter's HTTP handler.
// Access via MetricsHandler().
var (
	metricsHandler   http.Handler
	metricsHandlerMu sync.RWMutex
)

// Setup installs a global meter provider for the given exporter. With
// ExporterNone the global no-op provider is left in place.
func Setup(_ context.Context, exporter string) (ShutdownFunc, error) {
	var provider *metric.MeterProvider

	switch exporter {
	case ExporterNone, "":
		return func(context.Context) error { return nil }, nil

	case ExporterPrometheus:
		// A private registry keeps repeated setups (tests, restarts) from
		// colliding on the default registerer.
		registry := prometheus.NewRegistry()
		reader, err := promexporter.New(promexporter.WithRegisterer(registry))
		if err != nil {
			return nil, fmt.Errorf("create prometheus exporter: %w", err)
		}
		metricsHandlerMu.Lock()
		metricsHandler = promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
		metricsHandlerMu.Unlock()
		provider = metric.NewMeterProvider(metric.WithReader(reader))

	case ExporterStdout:
		exp, err := stdoutmetric.New(stdoutmetric.WithPrettyPrint())
		if err != nil {
			return nil, fmt.Errorf("create stdout metric exporter: %w", err)
		}
		provider = metric.NewMeterProvider(metric.WithReader(metric.NewPeriodicReader(exp)))

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownExporter, exporter)
	}

	otel.SetMeterProvider(provider)
	return provider.Shutdown, nil
}

// MetricsHandler returns the handler for the /metrics endpoint, or nil
// unless the Prometheus exporter is installed.
func MetricsHandler() http.Handler {
	metricsHandlerMu.RLock()
	defer metricsHandlerMu.RUnlock()
	return metricsHandler
}

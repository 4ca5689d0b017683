// Package metrics wires an OpenTelemetry meter backed by a prometheus
// registry and instruments the kv layer with it. No scrape endpoint is
// served here; the registry is handed back so an embedding application can
// expose it however it likes.
package metrics

import (
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// AppMetrics holds the application's metric instruments.
type AppMetrics struct {
	KvReadsTotal     metric.Int64Counter
	KvWritesTotal    metric.Int64Counter
	KvErrorsTotal    metric.Int64Counter
	KvOpDurationSecs metric.Float64Histogram
}

// Setup creates the meter provider, registers it globally and builds the
// instruments. The returned registry carries every exported metric.
func Setup(logger *slog.Logger) (*AppMetrics, *prometheus.Registry, error) {
	registry := prometheus.NewRegistry()
	exporter, err := otelprom.New(otelprom.WithRegisterer(registry))
	if err != nil {
		return nil, nil, fmt.Errorf("create prometheus exporter: %w", err)
	}

	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(exporter))
	otel.SetMeterProvider(provider)
	meter := provider.Meter("kelana")

	m := &AppMetrics{}
	m.KvReadsTotal, err = meter.Int64Counter(
		"kv_reads_total",
		metric.WithDescription("Total number of kv read operations"),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("create kv_reads_total: %w", err)
	}
	m.KvWritesTotal, err = meter.Int64Counter(
		"kv_writes_total",
		metric.WithDescription("Total number of kv write operations"),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("create kv_writes_total: %w", err)
	}
	m.KvErrorsTotal, err = meter.Int64Counter(
		"kv_errors_total",
		metric.WithDescription("Total number of failed kv operations"),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("create kv_errors_total: %w", err)
	}
	m.KvOpDurationSecs, err = meter.Float64Histogram(
		"kv_op_duration_seconds",
		metric.WithDescription("Duration of kv operations in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("create kv_op_duration_seconds: %w", err)
	}

	logger.Info("Application metrics initialized")
	return m, registry, nil
}

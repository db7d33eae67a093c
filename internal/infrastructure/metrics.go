package infrastructure

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// MetricsProvider bundles the OpenTelemetry meter provider with the
// Prometheus registry that backs the /metrics scrape endpoint. The provider
// is instance-scoped rather than installed globally so each server owns its
// registry.
type MetricsProvider struct {
	provider *sdkmetric.MeterProvider
	registry *prometheus.Registry
}

// InitializeMetrics builds a meter provider whose measurements are exposed
// in Prometheus exposition format.
func InitializeMetrics() (*MetricsProvider, error) {
	registry := prometheus.NewRegistry()
	exporter, err := otelprom.New(otelprom.WithRegisterer(registry))
	if err != nil {
		return nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
	}
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(exporter))
	return &MetricsProvider{provider: provider, registry: registry}, nil
}

// Meter returns a named meter from this provider.
func (m *MetricsProvider) Meter(name string) metric.Meter {
	return m.provider.Meter(name)
}

// Registry returns the Prometheus registry for the scrape endpoint.
func (m *MetricsProvider) Registry() *prometheus.Registry {
	return m.registry
}

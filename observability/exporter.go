package observability

// https://opentelemetry.io/docs/languages/go/exporters/

import (
	"context"
	"net/http"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/sdk/metric"
)

// ShutdownFunc flushes and stops the meter provider installed by an
// exporter.
type ShutdownFunc func(ctx context.Context) error

// NewConsoleMetricsExporter serves for test/dev environment. The stats are
// pushed to the writer of the options (stdout by default) every interval
// and once more on shutdown.
func NewConsoleMetricsExporter(interval, timeout time.Duration, opts ...stdoutmetric.Option) (ShutdownFunc, error) {
	exporter, err := stdoutmetric.New(opts...)
	if err != nil {
		return nil, err
	}
	mp := metric.NewMeterProvider(metric.WithReader(metric.NewPeriodicReader(
		exporter,
		metric.WithInterval(interval),
		metric.WithTimeout(timeout),
	)))
	otel.SetMeterProvider(mp)
	return mp.Shutdown, nil
}

// NewPrometheusMetricsExporter serves for the product environment, the
// stats are pulled by HTTP from the returned handler.
// A nil registry means the prometheus default registry.
func NewPrometheusMetricsExporter(registry *promclient.Registry) (ShutdownFunc, http.Handler, error) {
	var (
		opts    []prometheus.Option
		handler http.Handler
	)
	if registry != nil {
		opts = append(opts, prometheus.WithRegisterer(registry))
		handler = promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	} else {
		handler = promhttp.Handler()
	}

	exporter, err := prometheus.New(opts...)
	if err != nil {
		return nil, nil, err
	}
	mp := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(mp)
	return mp.Shutdown, handler, nil
}

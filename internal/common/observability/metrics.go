package observability

import (
	"context"
	"log"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
)

// Observability records Parking Service call counts and latency through an
// OpenTelemetry meter exported in Prometheus format.
type Observability struct {
	meterProvider  *metric.MeterProvider
	meter          otelmetric.Meter
	serviceCalls   otelmetric.Int64Counter
	serviceLatency otelmetric.Float64Histogram
}

// New registers the exporter with the default Prometheus registry and installs
// the provider globally.
func New(serviceName string) *Observability {
	o := NewWithRegisterer(serviceName, promclient.DefaultRegisterer)
	if o.meterProvider != nil {
		otel.SetMeterProvider(o.meterProvider)
	}
	return o
}

// NewWithRegisterer exports into reg instead of the default registry.
func NewWithRegisterer(serviceName string, reg promclient.Registerer) *Observability {
	exporter, err := prometheus.New(prometheus.WithRegisterer(reg))
	if err != nil {
		log.Printf("Failed to create Prometheus exporter: %v", err)
		return &Observability{}
	}

	provider := metric.NewMeterProvider(metric.WithReader(exporter))
	meter := provider.Meter(serviceName)

	serviceCalls, _ := meter.Int64Counter(
		"parking_service_calls",
		otelmetric.WithDescription("Number of Parking Service requests"),
	)

	serviceLatency, _ := meter.Float64Histogram(
		"parking_service_duration",
		otelmetric.WithDescription("Parking Service request duration"),
		otelmetric.WithUnit("ms"),
	)

	return &Observability{
		meterProvider:  provider,
		meter:          meter,
		serviceCalls:   serviceCalls,
		serviceLatency: serviceLatency,
	}
}

// RecordServiceCall records one request. status is "success" or an error code.
func (o *Observability) RecordServiceCall(ctx context.Context, operation, status string, duration time.Duration) {
	if o == nil {
		return
	}
	attrs := otelmetric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("status", status),
	)
	if o.serviceCalls != nil {
		o.serviceCalls.Add(ctx, 1, attrs)
	}
	if o.serviceLatency != nil {
		o.serviceLatency.Record(ctx, float64(duration.Milliseconds()), attrs)
	}
}

func (o *Observability) Shutdown() {
	if o != nil && o.meterProvider != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = o.meterProvider.Shutdown(ctx)
	}
}

package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/autowire/logger"
)

// Metric names.
const (
	MetricCacheHits          = "autowire.cache.hits"
	MetricCacheMisses        = "autowire.cache.misses"
	MetricCachePersistErrors = "autowire.cache.persist_errors"
	MetricConstructTotal     = "autowire.construct.total"
	MetricConstructDuration  = "autowire.construct.duration"
)

// InitMeter initializes the OpenTelemetry meter provider and installs it
// globally. The returned provider should be shut down on application exit.
func InitMeter(ctx context.Context, cfg *Config) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(cfg.Endpoint),
	}
	if cfg.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(cfg)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	readerOpts := []sdkmetric.PeriodicReaderOption{}
	if cfg.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(cfg.Interval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)

	otel.SetMeterProvider(mp)

	logger.Info("meter initialized", logger.Fields(
		"service", cfg.ServiceName,
		"endpoint", cfg.Endpoint,
		"interval", cfg.Interval.String(),
	))

	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// Metrics holds the instruments recorded by the alias cache and the resolver.
type Metrics struct {
	cacheHits         metric.Int64Counter
	cacheMisses       metric.Int64Counter
	persistErrors     metric.Int64Counter
	constructTotal    metric.Int64Counter
	constructDuration metric.Float64Histogram
}

// NewMetrics creates metric instruments on the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	cacheHits, err := meter.Int64Counter(MetricCacheHits,
		metric.WithDescription("Alias map lookups served from the cache"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricCacheHits, err)
	}

	cacheMisses, err := meter.Int64Counter(MetricCacheMisses,
		metric.WithDescription("Alias map lookups that required introspection"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricCacheMisses, err)
	}

	persistErrors, err := meter.Int64Counter(MetricCachePersistErrors,
		metric.WithDescription("Failed writes of the alias cache table to its backing store"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricCachePersistErrors, err)
	}

	constructTotal, err := meter.Int64Counter(MetricConstructTotal,
		metric.WithDescription("Auto-wired constructions by class and status"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricConstructTotal, err)
	}

	constructDuration, err := meter.Float64Histogram(MetricConstructDuration,
		metric.WithDescription("Duration of auto-wired constructions in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s histogram: %w", MetricConstructDuration, err)
	}

	return &Metrics{
		cacheHits:         cacheHits,
		cacheMisses:       cacheMisses,
		persistErrors:     persistErrors,
		constructTotal:    constructTotal,
		constructDuration: constructDuration,
	}, nil
}

// RecordCacheHit counts an alias map served from memory.
func (m *Metrics) RecordCacheHit(ctx context.Context, class string) {
	if m == nil {
		return
	}
	m.cacheHits.Add(ctx, 1, metric.WithAttributes(attribute.String(AttrClass, class)))
}

// RecordCacheMiss counts an alias map computed by introspection.
func (m *Metrics) RecordCacheMiss(ctx context.Context, class string) {
	if m == nil {
		return
	}
	m.cacheMisses.Add(ctx, 1, metric.WithAttributes(attribute.String(AttrClass, class)))
}

// RecordPersistError counts a failed backing-store write.
func (m *Metrics) RecordPersistError(ctx context.Context, store string) {
	if m == nil {
		return
	}
	m.persistErrors.Add(ctx, 1, metric.WithAttributes(attribute.String("store", store)))
}

// RecordConstruct records one construction attempt.
func (m *Metrics) RecordConstruct(ctx context.Context, class, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.constructTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String(AttrClass, class),
		attribute.String(AttrStatus, status),
	))
	m.constructDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String(AttrClass, class),
	))
}

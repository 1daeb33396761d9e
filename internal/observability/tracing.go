package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Tracer returns a tracer for the given name
func Tracer(name string) trace.Tracer {
	return otel.Tracer(name)
}

// StartSpan starts a new span from context
func StartSpan(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	return otel.Tracer(instrumentationName).Start(ctx, name, opts...)
}

// StartServiceSpan starts a span for service operations
func StartServiceSpan(ctx context.Context, service, operation string) (context.Context, trace.Span) {
	return StartSpan(ctx, fmt.Sprintf("%s.%s", service, operation),
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("service.component", service),
			attribute.String("service.operation", operation),
		),
	)
}

// RecordError records an error on the span
func RecordError(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}

// SetSuccess marks the span as successful
func SetSuccess(span trace.Span) {
	span.SetStatus(codes.Ok, "")
}

// AddEvent adds an event to the span
func AddEvent(span trace.Span, name string, attrs ...attribute.KeyValue) {
	span.AddEvent(name, trace.WithAttributes(attrs...))
}

// EnrichmentMetrics holds vision enrichment metrics
type EnrichmentMetrics struct {
	outcomes metric.Int64Counter
	duration metric.Float64Histogram
}

// NewEnrichmentMetrics creates enrichment metrics instruments
func NewEnrichmentMetrics() (*EnrichmentMetrics, error) {
	meter := otel.Meter(instrumentationName)

	outcomes, err := meter.Int64Counter(
		"geopix.enrichment.outcomes",
		metric.WithDescription("Total number of completed enrichment runs"),
		metric.WithUnit("{runs}"),
	)
	if err != nil {
		return nil, err
	}

	duration, err := meter.Float64Histogram(
		"geopix.enrichment.duration",
		metric.WithDescription("Enrichment run duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return &EnrichmentMetrics{
		outcomes: outcomes,
		duration: duration,
	}, nil
}

// RecordOutcome records a finished enrichment run
func (m *EnrichmentMetrics) RecordOutcome(ctx context.Context, provider, outcome string, d time.Duration) {
	attrs := []attribute.KeyValue{
		attribute.String("vision.provider", provider),
		attribute.String("enrichment.outcome", outcome),
	}

	m.outcomes.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.duration.Record(ctx, float64(d.Milliseconds()), metric.WithAttributes(attrs...))
}

// UploadMetrics holds photo upload metrics
type UploadMetrics struct {
	uploads     metric.Int64Counter
	uploadBytes metric.Int64Histogram
}

// NewUploadMetrics creates upload metrics instruments
func NewUploadMetrics() (*UploadMetrics, error) {
	meter := otel.Meter(instrumentationName)

	uploads, err := meter.Int64Counter(
		"geopix.photo.uploads",
		metric.WithDescription("Total number of photo upload attempts"),
		metric.WithUnit("{uploads}"),
	)
	if err != nil {
		return nil, err
	}

	uploadBytes, err := meter.Int64Histogram(
		"geopix.photo.upload_size",
		metric.WithDescription("Accepted photo upload size in bytes"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, err
	}

	return &UploadMetrics{
		uploads:     uploads,
		uploadBytes: uploadBytes,
	}, nil
}

// RecordUpload records a photo upload attempt
func (m *UploadMetrics) RecordUpload(ctx context.Context, size int64, success bool) {
	attrs := []attribute.KeyValue{
		attribute.Bool("success", success),
	}

	m.uploads.Add(ctx, 1, metric.WithAttributes(attrs...))
	if success {
		m.uploadBytes.Record(ctx, size, metric.WithAttributes(attrs...))
	}
}

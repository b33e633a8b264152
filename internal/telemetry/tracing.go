package telemetry

import (
	"context"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// InitPropagation registers the W3C traceparent propagator globally and
// returns a no-exporter TracerProvider. The gateway only needs to read and
// forward the traceparent header, not emit spans of its own — exporting
// requires a collector endpoint, which is out of scope here.
func InitPropagation() *sdktrace.TracerProvider {
	tp := sdktrace.NewTracerProvider()
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})
	return tp
}

type headerCarrier http.Header

func (c headerCarrier) Get(key string) string { return http.Header(c).Get(key) }
func (c headerCarrier) Set(key, value string) { http.Header(c).Set(key, value) }
func (c headerCarrier) Keys() []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	return keys
}

// ExtractTraceparent returns the inbound traceparent header value, or "" if
// absent. Lookup is case-insensitive, per net/http.Header's canonicalization.
func ExtractTraceparent(headers http.Header) string {
	return headers.Get("traceparent")
}

// InjectTraceparent sets traceparent on headers using the registered W3C
// propagator, extracting it from ctx's current span context.
func InjectTraceparent(ctx context.Context, headers http.Header) {
	otel.GetTextMapPropagator().Inject(ctx, headerCarrier(headers))
}

// Package observability configures OpenTelemetry tracing for the advisor.
//
// Spans come from three places: otelgin for every HTTP request, the GORM
// tracing plugin for every session query, and the services themselves
// (SessionService.Submit, Advisor.Reply). SetupOTel installs the global
// tracer provider that all of them report to, exporting over OTLP/gRPC.
package observability

import (
	"context"
	"errors"
	"net/url"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"google.golang.org/grpc/credentials"

	"github.com/tbourn/go-startup-advisor/internal/config"
)

// Resource attribute keys describing the completion backend.
const (
	AttrModel    = attribute.Key("advisor.model")
	AttrLLMHost  = attribute.Key("advisor.llm_host")
	AttrLLMReady = attribute.Key("advisor.llm_configured")
)

var (
	newOTLPClient = otlptracegrpc.NewClient

	newExporter = func(ctx context.Context, client otlptrace.Client) (*otlptrace.Exporter, error) {
		return otlptrace.New(ctx, client)
	}

	newResource = func(ctx context.Context, serviceName, version string, extra ...attribute.KeyValue) (*resource.Resource, error) {
		attrs := append([]attribute.KeyValue{
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(version),
		}, extra...)
		return resource.New(ctx, resource.WithAttributes(attrs...))
	}
)

// Shutdown flushes and stops the tracer provider.
type Shutdown func(context.Context) error

func noop(context.Context) error { return nil }

// ServiceAttributes describes the completion backend on the service
// resource. The API key itself is never recorded.
func ServiceAttributes(ai config.OpenAIConfig) []attribute.KeyValue {
	host := "api.openai.com"
	if ai.BaseURL != "" {
		if u, err := url.Parse(ai.BaseURL); err == nil && u.Host != "" {
			host = u.Host
		}
	}
	return []attribute.KeyValue{
		AttrModel.String(ai.Model),
		AttrLLMHost.String(host),
		AttrLLMReady.Bool(ai.APIKey != ""),
	}
}

// SetupOTel configures tracing from cfg and returns its shutdown function.
// When tracing is disabled the globals are left alone and the returned
// shutdown is a no-op.
//
// Globals are only replaced after every component was built, so a failure
// leaves the previous provider and propagator in place.
func SetupOTel(ctx context.Context, cfg config.OTELConfig, version string, extra ...attribute.KeyValue) (Shutdown, error) {
	if !cfg.Enabled {
		return noop, nil
	}

	exp, err := newExporter(ctx, newOTLPClient(clientOptions(cfg)...))
	if err != nil {
		return nil, err
	}
	res, err := newResource(ctx, cfg.ServiceName, version, extra...)
	if err != nil {
		return nil, errors.Join(err, exp.Shutdown(ctx))
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithSampler(sampler(cfg.SampleRatio)),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{}, propagation.Baggage{},
	))
	return tp.Shutdown, nil
}

func clientOptions(cfg config.OTELConfig) []otlptracegrpc.Option {
	opts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(cfg.Endpoint)}
	if cfg.Insecure {
		return append(opts, otlptracegrpc.WithInsecure())
	}
	return append(opts, otlptracegrpc.WithTLSCredentials(credentials.NewClientTLSFromCert(nil, "")))
}

// sampler honours an upstream sampling decision and otherwise samples
// ratio of new traces.
func sampler(ratio float64) sdktrace.Sampler {
	switch {
	case ratio >= 1:
		return sdktrace.ParentBased(sdktrace.AlwaysSample())
	case ratio <= 0:
		return sdktrace.ParentBased(sdktrace.NeverSample())
	default:
		return sdktrace.ParentBased(sdktrace.TraceIDRatioBased(ratio))
	}
}

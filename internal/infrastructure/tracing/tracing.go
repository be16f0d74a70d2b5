package tracing

import (
	"context"
	"fmt"

	"github.com/hilthontt/burnroom/internal/infrastructure/env"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/jaeger"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

const (
	ExporterNone   = "none"
	ExporterOTLP   = "otlp"
	ExporterJaeger = "jaeger"
)

type Config struct {
	ServiceName string
	Environment string
	Exporter    string
	Endpoint    string
	SampleRatio float64
}

func NewDefaultConfig(serviceName string) Config {
	return Config{
		ServiceName: serviceName,
		Environment: env.GetString("ENVIRONMENT", "development"),
		Exporter:    env.GetString("TRACING_EXPORTER", ExporterNone),
		Endpoint:    env.GetString("TRACING_ENDPOINT", "http://localhost:4318/v1/traces"),
		SampleRatio: 1.0,
	}
}

type ShutdownFunc = func(context.Context) error

func noopShutdown(context.Context) error { return nil }

// InitTracer installs the global tracer provider and propagator.
// With the none exporter spans are still created but never exported.
func InitTracer(cfg Config) (ShutdownFunc, error) {
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	exp, err := newExporter(cfg)
	if err != nil {
		return nil, err
	}
	if exp == nil {
		return noopShutdown, nil
	}

	res, err := resource.New(context.Background(),
		resource.WithAttributes(
			semconv.ServiceName(cfg.ServiceName),
			semconv.DeploymentEnvironment(cfg.Environment),
		),
		resource.WithTelemetrySDK(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	ratio := cfg.SampleRatio
	if ratio <= 0 || ratio > 1 {
		ratio = 1.0
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(ratio))),
	)
	otel.SetTracerProvider(tp)

	return tp.Shutdown, nil
}

func newExporter(cfg Config) (sdktrace.SpanExporter, error) {
	switch cfg.Exporter {
	case "", ExporterNone:
		return nil, nil
	case ExporterOTLP:
		exp, err := otlptracehttp.New(context.Background(),
			otlptracehttp.WithEndpointURL(cfg.Endpoint),
			otlptracehttp.WithInsecure(),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create OTLP exporter: %w", err)
		}
		return exp, nil
	case ExporterJaeger:
		exp, err := jaeger.New(jaeger.WithCollectorEndpoint(jaeger.WithEndpoint(cfg.Endpoint)))
		if err != nil {
			return nil, fmt.Errorf("failed to create jaeger exporter: %w", err)
		}
		return exp, nil
	default:
		return nil, fmt.Errorf("unknown tracing exporter %q: supported exporters: [none, otlp, jaeger]", cfg.Exporter)
	}
}

func GetTracer(name string) trace.Tracer {
	return otel.GetTracerProvider().Tracer(name)
}

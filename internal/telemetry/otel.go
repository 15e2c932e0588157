package telemetry

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploghttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

const nftbridged = "nftbridged"

// InitOtelSDK sets up the global tracer and meter providers and forwards logrus entries, all
// exported over OTLP/HTTP to the given collector. Metrics are pushed every pushInterval.
// The returned func flushes and stops every exporter.
func InitOtelSDK(
	ctx context.Context, collectorEndpoint string, pushInterval time.Duration,
) (func(context.Context) error, error) {
	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(semconv.SchemaURL, semconv.ServiceName(nftbridged)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create otel resource: %s", err)
	}

	traceExporter, err := otlptracehttp.New(
		ctx, otlptracehttp.WithEndpointURL(collectorEndpoint),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create otlp trace exporter: %s", err)
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(traceExporter),
		sdktrace.WithResource(res),
	)

	metricExporter, err := otlpmetrichttp.New(
		ctx, otlpmetrichttp.WithEndpointURL(collectorEndpoint),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create otlp metric exporter: %s", err)
	}
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(
			sdkmetric.NewPeriodicReader(metricExporter, sdkmetric.WithInterval(pushInterval)),
		),
		sdkmetric.WithResource(res),
	)

	logExporter, err := otlploghttp.New(ctx, otlploghttp.WithEndpointURL(collectorEndpoint))
	if err != nil {
		return nil, fmt.Errorf("failed to create otlp log exporter: %s", err)
	}
	lp := sdklog.NewLoggerProvider(
		sdklog.WithProcessor(sdklog.NewBatchProcessor(logExporter)),
		sdklog.WithResource(res),
	)

	otel.SetTracerProvider(tp)
	otel.SetMeterProvider(mp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{}, propagation.Baggage{},
	))
	log.AddHook(newLogHook(lp.Logger(nftbridged)))

	log.WithFields(log.Fields{
		"endpoint":      collectorEndpoint,
		"push_interval": pushInterval,
	}).Info("otel tracing, metrics and logs enabled")

	shutdown := func(ctx context.Context) error {
		log.StandardLogger().ReplaceHooks(make(log.LevelHooks))
		return errors.Join(
			tp.ForceFlush(ctx), tp.Shutdown(ctx),
			mp.ForceFlush(ctx), mp.Shutdown(ctx),
			lp.ForceFlush(ctx), lp.Shutdown(ctx),
		)
	}
	return shutdown, nil
}

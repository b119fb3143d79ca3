package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutlog"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/AntonStoeckl/operation-provenance-go/example/geometry/trackedkernel"
	"github.com/AntonStoeckl/operation-provenance-go/provenance"
	"github.com/AntonStoeckl/operation-provenance-go/provenance/oteladapters"
	"github.com/AntonStoeckl/operation-provenance-go/provenance/tracking"
	"github.com/AntonStoeckl/operation-provenance-go/provenance/zapadapters"
)

const instrumentationName = "github.com/AntonStoeckl/operation-provenance-go/example/geometry/cmd/provenance-demo"

// uuidNamespace makes uuid operation ids of this command distinct from those of other users of UUIDIDs.
var uuidNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte(instrumentationName))

// session is the tracked kernel of one command run, together with the observability it reports to.
type session struct {
	kernel   trackedkernel.Kernel
	tracker  *tracking.Tracker
	logger   *zap.Logger
	rootSpan trace.Span
	tracing  *sdktrace.TracerProvider
	logs     *sdklog.LoggerProvider
	meters   *sdkmetric.MeterProvider
	reader   *sdkmetric.ManualReader
	errOut   io.Writer
}

func openSession(ctx context.Context, s *settings, command string, errOut io.Writer) (*session, error) {
	logger, err := newLogger(s.verbose, errOut)
	if err != nil {
		return nil, err
	}

	sess := &session{logger: logger, errOut: errOut}
	providerLogger := zapadapters.NewLogger(logger)
	registryOptions := []provenance.Option{provenance.WithLogger(providerLogger)}
	trackerOptions := []tracking.Option{tracking.WithLogger(providerLogger)}

	if s.otelStdout {
		spanParent, otelErr := sess.startOTel(ctx, command)
		if otelErr != nil {
			return nil, errors.Join(otelErr, sess.close(ctx))
		}

		metrics := oteladapters.NewMetricsCollector(sess.meters.Meter(instrumentationName))
		contextualLogger := oteladapters.NewSlogBridgeLogger(instrumentationName, otelslog.WithLoggerProvider(sess.logs))
		registryOptions = append(registryOptions, provenance.WithMetrics(metrics))
		trackerOptions = append(trackerOptions,
			tracking.WithMetrics(metrics),
			tracking.WithTracing(oteladapters.NewTracingCollector(sess.tracing.Tracer(instrumentationName))),
			tracking.WithContextualLogger(contextualLogger.With("command", command)),
			tracking.WithSpanParent(spanParent),
		)
	}

	idFormat, err := idFormatOf(s.idFormat)
	if err != nil {
		return nil, errors.Join(err, sess.close(ctx))
	}

	registry, err := provenance.NewRegistry(append(registryOptions, provenance.WithIDFormat(idFormat))...)
	if err != nil {
		return nil, errors.Join(err, sess.close(ctx))
	}

	tracker, err := tracking.NewTracker(registry, trackerOptions...)
	if err != nil {
		return nil, errors.Join(err, sess.close(ctx))
	}

	sess.tracker = tracker
	sess.kernel = trackedkernel.New(tracker)

	return sess, nil
}

func idFormatOf(name string) (provenance.IDFormat, error) {
	switch name {
	case idFormatCount:
		return provenance.CounterIDs(), nil
	case idFormatUUID:
		return provenance.UUIDIDs(uuidNamespace), nil
	default:
		return nil, fmt.Errorf("invalid --id-format %q (expected %s|%s)", name, idFormatCount, idFormatUUID)
	}
}

// newLogger builds a zap production logger writing to errOut, at debug level when verbose.
func newLogger(verbose bool, errOut io.Writer) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	if verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}

	logger, err := config.Build(zap.WrapCore(func(zapcore.Core) zapcore.Core {
		return zapcore.NewCore(zapcore.NewJSONEncoder(config.EncoderConfig), zapcore.AddSync(errOut), config.Level)
	}))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return logger, nil
}

// startOTel sets up span and log export to errOut and an in-process meter, and starts the command's root span.
// Every tracked call of the session becomes a child of the root span.
func (s *session) startOTel(ctx context.Context, command string) (context.Context, error) {
	spanExporter, err := stdouttrace.New(stdouttrace.WithWriter(s.errOut), stdouttrace.WithPrettyPrint())
	if err != nil {
		return nil, fmt.Errorf("failed to create span exporter: %w", err)
	}

	logExporter, err := stdoutlog.New(stdoutlog.WithWriter(s.errOut))
	if err != nil {
		return nil, fmt.Errorf("failed to create log exporter: %w", err)
	}

	s.tracing = sdktrace.NewTracerProvider(sdktrace.WithSyncer(spanExporter))
	s.logs = sdklog.NewLoggerProvider(sdklog.WithProcessor(sdklog.NewSimpleProcessor(logExporter)))
	s.reader = sdkmetric.NewManualReader()
	s.meters = sdkmetric.NewMeterProvider(sdkmetric.WithReader(s.reader))

	spanParent, rootSpan := s.tracing.Tracer(instrumentationName).Start(ctx, "provenance-demo "+command)
	s.rootSpan = rootSpan

	return spanParent, nil
}

// close ends the root span, prints the metrics summary and flushes the loggers.
// It is safe on a session whose setup failed halfway.
func (s *session) close(ctx context.Context) error {
	var err error

	if s.tracing != nil {
		s.rootSpan.End()
		err = errors.Join(
			err,
			s.printMetricsSummary(ctx),
			s.tracing.Shutdown(ctx),
			s.logs.Shutdown(ctx),
			s.meters.Shutdown(ctx),
		)
	}

	// Sync fails on non-file writers such as terminals, nothing to flush is lost.
	_ = s.logger.Sync()

	return err
}

func (s *session) printMetricsSummary(ctx context.Context) error {
	var collected metricdata.ResourceMetrics
	if err := s.reader.Collect(ctx, &collected); err != nil {
		return fmt.Errorf("failed to collect metrics: %w", err)
	}

	for _, scope := range collected.ScopeMetrics {
		for _, m := range scope.Metrics {
			switch data := m.Data.(type) {
			case metricdata.Sum[int64]:
				var total int64
				for _, point := range data.DataPoints {
					total += point.Value
				}
				_, _ = fmt.Fprintf(s.errOut, "metric %s total=%d\n", m.Name, total)

			case metricdata.Histogram[float64]:
				var count uint64
				for _, point := range data.DataPoints {
					count += point.Count
				}
				_, _ = fmt.Fprintf(s.errOut, "metric %s count=%d\n", m.Name, count)

			case metricdata.Gauge[float64]:
				for _, point := range data.DataPoints {
					_, _ = fmt.Fprintf(s.errOut, "metric %s value=%g\n", m.Name, point.Value)
				}
			}
		}
	}

	return nil
}

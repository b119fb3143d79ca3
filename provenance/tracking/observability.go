package tracking

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/AntonStoeckl/operation-provenance-go/provenance"
)

const (
	logMsgOperationTracked   = "tracked operation: "
	logMsgOperationReused    = "reused operation id: "
	logMsgCallFailed         = "tracked call failed: "
	logMsgRegistrationFailed = "failed to register tracked result"
	logMsgTrackerReset       = "tracker reset"
	logAttrError             = "error"
	logAttrOperation         = "operation"
	logAttrOperationID       = "operation_id"
	logAttrInputCount        = "input_count"
	logAttrCallKind          = "call_kind"
	logAttrDurationMS        = "duration_ms"
	spanNameTrack            = "provenance.track"
	spanAttrOperation        = "operation"
	spanAttrCallKind         = "call_kind"
	spanAttrOperationID      = "operation_id"
	spanAttrInputCount       = "input_count"
	spanAttrDurationMS       = "duration_ms"
	spanAttrErrorType        = "error_type"
	spanAttrReused           = "reused"
	metricOperationsTracked  = "provenance_operations_tracked_total"
	metricCallDuration       = "provenance_tracked_call_duration_seconds"
	metricCallFailures       = "provenance_tracked_call_failures_total"
	labelOperation           = "operation"
	labelCallKind            = "call_kind"
	labelStatus              = "status"
	labelErrorType           = "error_type"
	statusSuccess            = "success"
	statusError              = "error"
	errorTypeSubject         = "subject_error"
	errorTypePanic           = "panic"
	errorTypeRegistration    = "registration_failed"
)

// callObserver encapsulates logging, metrics and span lifecycle management for one tracked call.
type callObserver struct {
	tracker      *Tracker
	ctx          context.Context
	span         provenance.SpanContext
	kind         string
	operation    string
	start        time.Time
	callDuration time.Duration
	callDone     bool
	finished     bool
}

// startCall creates a new observer and starts a span if the tracing collector is configured.
func (t *Tracker) startCall(kind, operation string) *callObserver {
	observer := &callObserver{
		tracker:   t,
		ctx:       t.spanParent,
		kind:      kind,
		operation: operation,
		start:     time.Now(),
	}

	if t.tracingCollector != nil {
		observer.ctx, observer.span = t.tracingCollector.StartSpan(t.spanParent, spanNameTrack, map[string]string{
			spanAttrOperation: operation,
			spanAttrCallKind:  kind,
		})
	}

	return observer
}

// completed marks the wrapped call as returned successfully.
func (o *callObserver) completed() {
	o.callDuration = time.Since(o.start)
	o.callDone = true
}

// tracked finishes the observation of a call whose result was registered.
func (o *callObserver) tracked(id provenance.OperationID, inputCount int) {
	o.finishSuccess(id, inputCount, false)

	o.logDebug(
		logMsgOperationTracked+o.operation,
		logAttrOperationID, id.String(),
		logAttrInputCount, inputCount,
		logAttrCallKind, o.kind,
		logAttrDurationMS, toMilliseconds(o.duration()),
	)
}

// reused finishes the observation of a call whose result already carried an operation id.
func (o *callObserver) reused(id provenance.OperationID) {
	o.finishSuccess(id, 0, true)

	o.logDebug(logMsgOperationReused+o.operation, logAttrOperationID, id.String(), logAttrCallKind, o.kind)
}

// failed finishes the observation of a call whose wrapped function returned an error.
func (o *callObserver) failed(err error) {
	o.callDuration = time.Since(o.start)
	o.callDone = true
	o.finishError(errorTypeSubject)

	o.logDebug(logMsgCallFailed+o.operation, logAttrError, err.Error(), logAttrCallKind, o.kind)
}

// registrationFailed finishes the observation of a successful call whose result could not be registered.
func (o *callObserver) registrationFailed(err error) {
	o.finishError(errorTypeRegistration)

	args := []any{logAttrError, err.Error(), logAttrOperation, o.operation, logAttrCallKind, o.kind}

	if o.tracker.logger != nil {
		o.tracker.logger.Error(logMsgRegistrationFailed, args...)
	}

	if o.tracker.contextualLogger != nil {
		o.tracker.contextualLogger.ErrorContext(o.ctx, logMsgRegistrationFailed, args...)
	}
}

// finishIfAborted finishes the observation of a call that never returned, i.e. panicked.
// It is meant to be deferred and does not recover.
func (o *callObserver) finishIfAborted() {
	if o.finished {
		return
	}

	o.finishError(errorTypePanic)
}

// logDebug logs to the plain logger and, with the span's context for trace correlation, to the contextual logger.
func (o *callObserver) logDebug(msg string, args ...any) {
	if o.tracker.logger != nil {
		o.tracker.logger.Debug(msg, args...)
	}

	if o.tracker.contextualLogger != nil {
		o.tracker.contextualLogger.DebugContext(o.ctx, msg, args...)
	}
}

func (o *callObserver) duration() time.Duration {
	if o.callDone {
		return o.callDuration
	}

	return time.Since(o.start)
}

func (o *callObserver) finishSuccess(id provenance.OperationID, inputCount int, reused bool) {
	o.finished = true
	duration := o.duration()

	o.tracker.recordDuration(o.ctx, duration, o.operation, o.kind, statusSuccess)
	o.tracker.incrementCounter(o.ctx, metricOperationsTracked, map[string]string{
		labelOperation: o.operation,
		labelCallKind:  o.kind,
	})

	if o.tracker.tracingCollector != nil && o.span != nil {
		o.span.SetStatus(statusSuccess)
		o.span.AddAttribute(spanAttrDurationMS, fmt.Sprintf("%.2f", float64(duration.Nanoseconds())/1e6))

		o.tracker.tracingCollector.FinishSpan(o.span, statusSuccess, map[string]string{
			spanAttrOperationID: id.String(),
			spanAttrInputCount:  strconv.Itoa(inputCount),
			spanAttrReused:      strconv.FormatBool(reused),
		})
	}
}

func (o *callObserver) finishError(errorType string) {
	o.finished = true

	o.tracker.recordDuration(o.ctx, o.duration(), o.operation, o.kind, statusError)
	o.tracker.incrementCounter(o.ctx, metricCallFailures, map[string]string{
		labelOperation: o.operation,
		labelCallKind:  o.kind,
		labelErrorType: errorType,
	})

	if o.tracker.tracingCollector != nil && o.span != nil {
		o.span.SetStatus(statusError)
		o.span.AddAttribute(spanAttrErrorType, errorType)

		o.tracker.tracingCollector.FinishSpan(o.span, statusError, map[string]string{spanAttrErrorType: errorType})
	}
}

// recordDuration records the call duration if the metrics collector is configured.
func (t *Tracker) recordDuration(ctx context.Context, duration time.Duration, operation, kind, status string) {
	if t.metricsCollector == nil {
		return
	}

	labels := map[string]string{
		labelOperation: operation,
		labelCallKind:  kind,
		labelStatus:    status,
	}

	// Use context-aware method if available
	if contextualCollector, ok := t.metricsCollector.(provenance.ContextualMetricsCollector); ok {
		contextualCollector.RecordDurationContext(ctx, metricCallDuration, duration, labels)
	} else {
		t.metricsCollector.RecordDuration(metricCallDuration, duration, labels)
	}
}

// incrementCounter increments a counter if the metrics collector is configured.
func (t *Tracker) incrementCounter(ctx context.Context, metric string, labels map[string]string) {
	if t.metricsCollector == nil {
		return
	}

	// Use context-aware method if available
	if contextualCollector, ok := t.metricsCollector.(provenance.ContextualMetricsCollector); ok {
		contextualCollector.IncrementCounterContext(ctx, metric, labels)
	} else {
		t.metricsCollector.IncrementCounter(metric, labels)
	}
}

func (t *Tracker) logReset() {
	if t.logger != nil {
		t.logger.Info(logMsgTrackerReset)
	}

	if t.contextualLogger != nil {
		t.contextualLogger.InfoContext(t.spanParent, logMsgTrackerReset)
	}
}

// toMilliseconds converts a time.Duration to float64 milliseconds with 3 decimal places.
func toMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}

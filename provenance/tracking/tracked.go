package tracking

import (
	"slices"

	"github.com/AntonStoeckl/operation-provenance-go/provenance"
)

const (
	callKindMethod    = "method"
	callKindFactory   = "factory"
	callKindConstruct = "construct"
	callKindWrap      = "wrap"
)

// Provenance describes the origin of a value handed to Wrap.
type Provenance struct {
	Type     string
	InputIDs provenance.OperationIDs
	Metadata provenance.Metadata
}

// Tracked pairs one value of the wrapped library with exactly one operation id.
//
// The pairing lives in the wrapper; the underlying value is never mutated. The zero value is an untracked
// empty value: it reports an empty id and an empty tree.
type Tracked[T any] struct {
	value      T
	id         provenance.OperationID
	generation uint64
	tracker    *Tracker
}

// identified is implemented by every Tracked[T] and lets Wrap detect values that already carry an id.
type identified interface {
	operationOrigin() (*Tracker, provenance.OperationID, uint64)
}

// Value returns the underlying, unwrapped value.
func (t Tracked[T]) Value() T {
	return t.value
}

// OperationID returns the id of the operation that produced the value. Repeated calls return the same id.
func (t Tracked[T]) OperationID() provenance.OperationID {
	return t.id
}

// OperationTree returns the dependency-ordered derivation history of the value; its last entry is the
// value's own node. It is empty for untracked values and for values wrapped before the last reset.
func (t Tracked[T]) OperationTree() provenance.OperationNodes {
	if !t.tracker.isCurrent(t.id, t.generation) {
		return provenance.OperationNodes{}
	}

	return t.tracker.registry.BuildTree(t.id)
}

// IsTracked reports whether the value carries an operation id.
func (t Tracked[T]) IsTracked() bool {
	return t.tracker != nil && !t.id.IsZero()
}

// Tracker returns the tracker that wrapped the value, or nil for untracked values.
func (t Tracked[T]) Tracker() *Tracker {
	return t.tracker
}

func (t Tracked[T]) operationOrigin() (*Tracker, provenance.OperationID, uint64) {
	return t.tracker, t.id, t.generation
}

func (t Tracked[T]) dependencyIDs(tracker *Tracker) provenance.OperationIDs {
	if t.tracker != tracker || !tracker.isCurrent(t.id, t.generation) {
		return nil
	}

	return provenance.OperationIDs{t.id}
}

func (t Tracked[T]) parameter() any {
	return t.value
}

// Wrap wraps one already-produced value.
//
// With provenance, a node of the given type, input ids and metadata is registered. Without provenance
// (nil), the value is treated as having no tracked origin: a node of the tracker's unknown origin type
// with no inputs is registered. A value that itself already carries an operation id of this tracker
// (a Tracked value being wrapped again) keeps that id and no node is registered.
//
// Returns provenance.ErrUnknownInputOperation if an input id is not registered.
func Wrap[T any](tracker *Tracker, value T, origin *Provenance) (Tracked[T], error) {
	if tracker == nil {
		return Tracked[T]{value: value}, ErrNilTracker
	}

	if reused, ok := reuseExisting(tracker, value); ok {
		return reused, nil
	}

	operationType, inputIDs, metadata := tracker.unknownOriginType, provenance.OperationIDs{}, provenance.Metadata{}
	if origin != nil {
		operationType, inputIDs, metadata = origin.Type, origin.InputIDs, origin.Metadata
	}

	observer := tracker.startCall(callKindWrap, operationType)

	id, generation, err := tracker.register(operationType, inputIDs, metadata)
	if err != nil {
		observer.registrationFailed(err)
		return Tracked[T]{value: value}, err
	}

	observer.tracked(id, len(inputIDs))

	return Tracked[T]{value: value, id: id, generation: generation, tracker: tracker}, nil
}

// Derive invokes call on the receiver's underlying value and tracks the result as produced by the named
// operation from the receiver and the tracked arguments.
//
// The receiver's id comes first in the node's input ids, followed by the ids extracted from args in order;
// metadata parameters hold the raw arguments, without the receiver. A panic in call propagates unchanged and registers nothing.
// Deriving from an untracked receiver calls through without tracking.
func Derive[T, R any](receiver Tracked[T], operation string, call func(T) R, args ...Arg) Tracked[R] {
	tracker := receiver.tracker
	if tracker == nil {
		return Tracked[R]{value: call(receiver.value)}
	}

	observer := tracker.startCall(callKindMethod, operation)
	defer observer.finishIfAborted()

	result := call(receiver.value)
	observer.completed()

	return track(tracker, observer, result, operation, receiver.dependencyIDs(tracker), args)
}

// DeriveErr is Derive for calls that can fail.
//
// An error returned by call is passed through unchanged, together with the raw result, and registers nothing.
func DeriveErr[T, R any](receiver Tracked[T], operation string, call func(T) (R, error), args ...Arg) (Tracked[R], error) {
	tracker := receiver.tracker
	if tracker == nil {
		result, err := call(receiver.value)
		return Tracked[R]{value: result}, err
	}

	observer := tracker.startCall(callKindMethod, operation)
	defer observer.finishIfAborted()

	result, err := call(receiver.value)
	if err != nil {
		observer.failed(err)
		return Tracked[R]{value: result}, err
	}

	observer.completed()

	return track(tracker, observer, result, operation, receiver.dependencyIDs(tracker), args), nil
}

// track registers a node for a successful call's result and wraps it.
// The node's input ids are the receiver ids followed by the ids extracted from args.
//
// Introspection must never fail under correct use, so a registration failure is reported through the
// observability hooks and yields an untracked result instead of an error.
func track[R any](
	tracker *Tracker,
	observer *callObserver,
	result R,
	operation string,
	receiverIDs provenance.OperationIDs,
	args []Arg,
) Tracked[R] {

	if reused, ok := reuseExisting(tracker, result); ok {
		observer.reused(reused.id)
		return reused
	}

	argIDs, parameters, inputPositions := collectInputs(tracker, args)
	inputIDs := slices.Concat(receiverIDs, argIDs)
	metadata := provenance.MetadataWithParameters(parameters...).WithInputParameterPositions(inputPositions...)

	id, generation, err := tracker.register(operation, inputIDs, metadata)
	if err != nil {
		observer.registrationFailed(err)
		return Tracked[R]{value: result}
	}

	observer.tracked(id, len(inputIDs))

	return Tracked[R]{value: result, id: id, generation: generation, tracker: tracker}
}

// reuseExisting returns a wrapper sharing the id of value if value is itself a current Tracked value of tracker.
func reuseExisting[T any](tracker *Tracker, value T) (Tracked[T], bool) {
	candidate, ok := any(value).(identified)
	if !ok {
		return Tracked[T]{}, false
	}

	owner, id, generation := candidate.operationOrigin()
	if owner != tracker || !tracker.isCurrent(id, generation) {
		return Tracked[T]{}, false
	}

	return Tracked[T]{value: value, id: id, generation: generation, tracker: tracker}, true
}

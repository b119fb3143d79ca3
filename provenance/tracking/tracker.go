package tracking

import (
	"context"
	"errors"

	"github.com/AntonStoeckl/operation-provenance-go/provenance"
)

const defaultUnknownOriginType = "unknown"

var ErrNilTracker = errors.New("nil tracker supplied")
var ErrEmptyUnknownOriginType = errors.New("empty unknown origin type supplied")
var ErrNilSpanParent = errors.New("nil span parent context supplied")

// Tracker binds both wrapper layers to one provenance.Registry.
//
// A Tracker is created once per process (or per test) and handed to every entry point; the values it wraps
// keep a reference to it. Reset discards the recorded provenance for test isolation.
type Tracker struct {
	registry          *provenance.Registry
	unknownOriginType string
	logger            provenance.Logger
	contextualLogger  provenance.ContextualLogger
	metricsCollector  provenance.MetricsCollector
	tracingCollector  provenance.TracingCollector
	spanParent        context.Context
}

// NewTracker creates a Tracker recording into the given registry, with optional configuration.
func NewTracker(registry *provenance.Registry, options ...Option) (*Tracker, error) {
	if registry == nil {
		return nil, provenance.ErrNilRegistry
	}

	t := &Tracker{
		registry:          registry,
		unknownOriginType: defaultUnknownOriginType,
		spanParent:        context.Background(),
	}

	for _, option := range options {
		if err := option(t); err != nil {
			return nil, err
		}
	}

	return t, nil
}

// Registry returns the registry the tracker records into.
func (t *Tracker) Registry() *provenance.Registry {
	return t.registry
}

// UnknownOriginType returns the operation type recorded for values without a tracked origin.
func (t *Tracker) UnknownOriginType() string {
	return t.unknownOriginType
}

// Reset discards all recorded provenance and restarts the id sequence.
// Values wrapped before the reset keep their ids but no longer contribute dependencies and report empty trees.
func (t *Tracker) Reset() {
	t.registry.Clear()
	t.logReset()
}

// register records a node for a freshly produced value and returns its id.
func (t *Tracker) register(
	operationType string,
	inputIDs provenance.OperationIDs,
	metadata provenance.Metadata,
) (provenance.OperationID, uint64, error) {

	generation := t.registry.Generation()
	id := t.registry.GenerateID()

	node, buildErr := provenance.BuildOperationNode(id, operationType, inputIDs, metadata)
	if buildErr != nil {
		return "", 0, buildErr
	}

	if registerErr := t.registry.Register(node); registerErr != nil {
		return "", 0, registerErr
	}

	return id, generation, nil
}

// isCurrent reports whether id was registered by this tracker within the registry's current generation.
func (t *Tracker) isCurrent(id provenance.OperationID, generation uint64) bool {
	if t == nil || id.IsZero() {
		return false
	}

	return generation == t.registry.Generation() && t.registry.Has(id)
}

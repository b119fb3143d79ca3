package provenance

import (
	"maps"
	"slices"
	"time"
)

const (
	// MetadataKeyParameters is the Metadata key under which the raw call arguments of an operation are recorded.
	MetadataKeyParameters = "parameters"

	// MetadataKeyInputParameters is the Metadata key under which the positions of those parameters are
	// recorded that were tracked values, i.e. whose identity is already recorded as input ids.
	MetadataKeyInputParameters = "input_parameters"
)

// OperationID is the opaque, process-scoped identifier of an OperationNode.
//
// The zero value ("") never identifies a registered node.
type OperationID string

// String implements fmt.Stringer.
func (id OperationID) String() string {
	return string(id)
}

// IsZero reports whether the id is the empty "no operation" id.
func (id OperationID) IsZero() bool {
	return id == ""
}

// OperationIDs is an alias type for a slice of OperationID
type OperationIDs = []OperationID

// Metadata is a free-form record of a call's arguments and parameters.
type Metadata map[string]any

// MetadataWithParameters builds Metadata holding the given raw call arguments under MetadataKeyParameters.
func MetadataWithParameters(parameters ...any) Metadata {
	if parameters == nil {
		parameters = []any{}
	}

	return Metadata{MetadataKeyParameters: parameters}
}

// Parameters returns a copy of the raw call arguments recorded under MetadataKeyParameters,
// or nil if there are none.
func (m Metadata) Parameters() []any {
	parameters, ok := m[MetadataKeyParameters].([]any)
	if !ok {
		return nil
	}

	return slices.Clone(parameters)
}

// InputParameterPositions returns a copy of the positions within Parameters that held tracked values.
func (m Metadata) InputParameterPositions() []int {
	positions, ok := m[MetadataKeyInputParameters].([]int)
	if !ok {
		return nil
	}

	return slices.Clone(positions)
}

// WithInputParameterPositions returns a copy of the Metadata recording which parameters held tracked values.
// Without positions the Metadata is returned unchanged.
func (m Metadata) WithInputParameterPositions(positions ...int) Metadata {
	if len(positions) == 0 {
		return m
	}

	cloned := m.Clone()
	cloned[MetadataKeyInputParameters] = slices.Clone(positions)

	return cloned
}

// Clone returns a shallow copy of the Metadata. The parameters slice and the input parameter positions
// are copied as well, the parameters themselves are not.
func (m Metadata) Clone() Metadata {
	if m == nil {
		return Metadata{}
	}

	cloned := maps.Clone(m)
	if parameters, ok := m[MetadataKeyParameters].([]any); ok {
		cloned[MetadataKeyParameters] = slices.Clone(parameters)
	}

	if positions, ok := m[MetadataKeyInputParameters].([]int); ok {
		cloned[MetadataKeyInputParameters] = slices.Clone(positions)
	}

	return cloned
}

// OperationNodes is an alias type for a slice of OperationNode
type OperationNodes = []OperationNode

// OperationNode records that a value was produced by a named operation from the values identified by its
// input ids, with the parameters kept in its metadata.
//
// It is immutable: all accessors return copies. It should only be constructed with BuildOperationNode.
// The sequence number and creation time are assigned by the Registry on registration.
type OperationNode struct {
	id            OperationID
	operationType string
	inputIDs      OperationIDs
	metadata      Metadata
	sequence      SequenceNumberUint
	createdAt     time.Time
}

// BuildOperationNode is a factory method for OperationNode.
//
// Returns an error if id or operationType are empty.
func BuildOperationNode(
	id OperationID,
	operationType string,
	inputIDs OperationIDs,
	metadata Metadata,
) (OperationNode, error) {

	if id.IsZero() {
		return OperationNode{}, ErrEmptyOperationID
	}

	if operationType == "" {
		return OperationNode{}, ErrEmptyOperationType
	}

	clonedInputIDs := slices.Clone(inputIDs)
	if clonedInputIDs == nil {
		clonedInputIDs = OperationIDs{}
	}

	return OperationNode{
		id:            id,
		operationType: operationType,
		inputIDs:      clonedInputIDs,
		metadata:      metadata.Clone(),
	}, nil
}

// ID returns the id of the node.
func (n OperationNode) ID() OperationID {
	return n.id
}

// Type returns the name of the factory or method that produced the value.
func (n OperationNode) Type() string {
	return n.operationType
}

// InputIDs returns a copy of the ordered ids of the nodes consumed to produce this one.
func (n OperationNode) InputIDs() OperationIDs {
	return slices.Clone(n.inputIDs)
}

// Metadata returns a shallow copy of the node's metadata.
func (n OperationNode) Metadata() Metadata {
	return n.metadata.Clone()
}

// Parameters returns a copy of the raw call arguments recorded for this node.
func (n OperationNode) Parameters() []any {
	return n.metadata.Parameters()
}

// Sequence returns the creation-order marker assigned on registration (starting at 1).
func (n OperationNode) Sequence() SequenceNumberUint {
	return n.sequence
}

// CreatedAt returns the registration time of the node.
func (n OperationNode) CreatedAt() time.Time {
	return n.createdAt
}

// IsRegistered reports whether the node was returned by a Registry (as opposed to freshly built).
func (n OperationNode) IsRegistered() bool {
	return n.sequence > 0
}

func (n OperationNode) withRegistration(sequence SequenceNumberUint, createdAt time.Time) OperationNode {
	n.sequence = sequence
	n.createdAt = createdAt

	return n
}

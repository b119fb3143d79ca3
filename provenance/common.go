package provenance

import (
	"errors"
)

var ErrEmptyOperationID = errors.New("empty operation id supplied")
var ErrEmptyOperationType = errors.New("empty operation type supplied")
var ErrDuplicateOperationID = errors.New("operation id is already registered")
var ErrUnknownInputOperation = errors.New("input operation is not registered")
var ErrUnknownRootOperation = errors.New("root operation is not registered")
var ErrNilIDFormat = errors.New("nil id format supplied")
var ErrNilClock = errors.New("nil clock supplied")
var ErrNilRegistry = errors.New("nil registry supplied")

// SequenceNumberUint is a type alias for uint, representing the creation order of a registered OperationNode.
type SequenceNumberUint = uint

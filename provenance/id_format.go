package provenance

import (
	"strconv"

	"github.com/google/uuid"
)

const counterIDPrefix = "op-"

// IDFormat turns the registry's id counter into an OperationID.
//
// Implementations must be injective: two different counter values must never map to the same id.
type IDFormat interface {
	Format(counter uint64) OperationID
}

// IDFormatFunc adapts a plain function to the IDFormat interface.
type IDFormatFunc func(counter uint64) OperationID

// Format implements IDFormat.
func (f IDFormatFunc) Format(counter uint64) OperationID {
	return f(counter)
}

// CounterIDs returns the default IDFormat: "op-1", "op-2", ...
func CounterIDs() IDFormat {
	return IDFormatFunc(func(counter uint64) OperationID {
		return OperationID(counterIDPrefix + strconv.FormatUint(counter, 10))
	})
}

// UUIDIDs returns an IDFormat producing name-based (version 5) UUIDs of the counter within the given namespace.
//
// The ids are opaque to consumers but remain a pure function of the counter, so a reset of the
// Registry restarts the same id sequence.
func UUIDIDs(namespace uuid.UUID) IDFormat {
	return IDFormatFunc(func(counter uint64) OperationID {
		return OperationID(uuid.NewSHA1(namespace, []byte(strconv.FormatUint(counter, 10))).String())
	})
}

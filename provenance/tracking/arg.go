package tracking

import (
	"github.com/AntonStoeckl/operation-provenance-go/provenance"
)

// Arg is one argument of a tracked call, as seen by the tracker.
//
// It is a sealed sum type with three variants:
//   - a Tracked value, contributing its operation id
//   - a List of Tracked values, contributing the id of each element, in order
//   - a Plain value, contributing no id
//
// Every variant is recorded in the node's metadata parameters with its raw, unwrapped value.
// Tracked values belonging to another tracker, or wrapped before the last reset, are foreign:
// they are recorded as parameters but contribute no id.
type Arg interface {
	dependencyIDs(t *Tracker) provenance.OperationIDs
	parameter() any
}

type plainArg struct {
	value any
}

// Plain returns an Arg for a value that is not tracked.
//
// Plain never inspects its value: a Tracked value or a slice of Tracked values passed through Plain
// contributes no ids. Use the Tracked value itself or List instead.
func Plain(value any) Arg {
	return plainArg{value: value}
}

// Plains returns one Plain Arg per value.
func Plains(values ...any) []Arg {
	args := make([]Arg, 0, len(values))
	for _, value := range values {
		args = append(args, Plain(value))
	}

	return args
}

func (a plainArg) dependencyIDs(_ *Tracker) provenance.OperationIDs {
	return nil
}

func (a plainArg) parameter() any {
	return a.value
}

type listArg[T any] struct {
	items []Tracked[T]
}

// List returns an Arg for an ordered collection of tracked values, the n-ary pattern ("combine these N results").
//
// Only the elements themselves are inspected; collections nested inside elements contribute no ids.
func List[T any](items ...Tracked[T]) Arg {
	return listArg[T]{items: items}
}

func (a listArg[T]) dependencyIDs(t *Tracker) provenance.OperationIDs {
	ids := make(provenance.OperationIDs, 0, len(a.items))
	for _, item := range a.items {
		ids = append(ids, item.dependencyIDs(t)...)
	}

	return ids
}

func (a listArg[T]) parameter() any {
	values := make([]T, 0, len(a.items))
	for _, item := range a.items {
		values = append(values, item.value)
	}

	return values
}

// collectInputs extracts dependency ids and raw parameters from the call arguments,
// plus the positions of those parameters that contributed at least one id.
func collectInputs(t *Tracker, args []Arg) (provenance.OperationIDs, []any, []int) {
	inputIDs := make(provenance.OperationIDs, 0, len(args))
	parameters := make([]any, 0, len(args))
	var inputPositions []int

	for position, arg := range args {
		if arg == nil {
			parameters = append(parameters, nil)
			continue
		}

		ids := arg.dependencyIDs(t)
		if len(ids) > 0 {
			inputPositions = append(inputPositions, position)
		}

		inputIDs = append(inputIDs, ids...)
		parameters = append(parameters, arg.parameter())
	}

	return inputIDs, parameters, inputPositions
}

package scene

import (
	"fmt"
	"slices"

	"github.com/AntonStoeckl/operation-provenance-go/example/geometry/kernel"
	"github.com/AntonStoeckl/operation-provenance-go/example/geometry/trackedkernel"
	"github.com/AntonStoeckl/operation-provenance-go/provenance"
)

type arity string

const (
	arityNone      arity = "no inputs"
	arityOne       arity = "one input"
	arityTwo       arity = "two inputs"
	arityOneOrMore arity = "one or more inputs"
)

type evaluateFunc func(k trackedkernel.Kernel, inputs []trackedkernel.Solid, p Params) (trackedkernel.Solid, error)

type operation struct {
	arity    arity
	evaluate evaluateFunc
}

func (o operation) accepts(inputs int) bool {
	switch o.arity {
	case arityNone:
		return inputs == 0
	case arityOne:
		return inputs == 1
	case arityTwo:
		return inputs == 2
	default:
		return inputs >= 1
	}
}

var operations = map[string]operation{
	"cube": {arity: arityNone, evaluate: func(k trackedkernel.Kernel, _ []trackedkernel.Solid, p Params) (trackedkernel.Solid, error) {
		size, err := p.Size.vec3()
		if err != nil {
			return trackedkernel.Solid{}, err
		}

		return k.Cube(size, p.Center)
	}},
	"sphere": {arity: arityNone, evaluate: func(k trackedkernel.Kernel, _ []trackedkernel.Solid, p Params) (trackedkernel.Solid, error) {
		return k.Sphere(p.Radius, p.Segments)
	}},
	"cylinder": {arity: arityNone, evaluate: func(k trackedkernel.Kernel, _ []trackedkernel.Solid, p Params) (trackedkernel.Solid, error) {
		low, high := p.cylinderRadii()

		return k.Cylinder(p.Height, low, high, p.Segments, p.Center)
	}},
	"empty": {arity: arityNone, evaluate: func(k trackedkernel.Kernel, _ []trackedkernel.Solid, _ Params) (trackedkernel.Solid, error) {
		return k.Empty(), nil
	}},
	"compose": {arity: arityOneOrMore, evaluate: func(k trackedkernel.Kernel, in []trackedkernel.Solid, _ Params) (trackedkernel.Solid, error) {
		return k.Compose(in...), nil
	}},
	"union_all": {arity: arityOneOrMore, evaluate: func(k trackedkernel.Kernel, in []trackedkernel.Solid, _ Params) (trackedkernel.Solid, error) {
		return k.UnionAll(in...), nil
	}},
	"translate": {arity: arityOne, evaluate: vectorTransform(func(p Params) Vector { return p.Offset }, trackedkernel.Solid.Translate)},
	"scale":     {arity: arityOne, evaluate: vectorTransform(func(p Params) Vector { return p.Factor }, trackedkernel.Solid.Scale)},
	"rotate":    {arity: arityOne, evaluate: vectorTransform(func(p Params) Vector { return p.Degrees }, trackedkernel.Solid.Rotate)},
	"mirror": {arity: arityOne, evaluate: func(_ trackedkernel.Kernel, in []trackedkernel.Solid, p Params) (trackedkernel.Solid, error) {
		normal, err := p.Normal.vec3()
		if err != nil {
			return trackedkernel.Solid{}, err
		}

		return in[0].Mirror(normal)
	}},
	"refine": {arity: arityOne, evaluate: func(_ trackedkernel.Kernel, in []trackedkernel.Solid, p Params) (trackedkernel.Solid, error) {
		return in[0].Refine(p.N)
	}},
	"add":       {arity: arityTwo, evaluate: boolean(trackedkernel.Solid.Add)},
	"subtract":  {arity: arityTwo, evaluate: boolean(trackedkernel.Solid.Subtract)},
	"intersect": {arity: arityTwo, evaluate: boolean(trackedkernel.Solid.Intersect)},
}

func vectorTransform(
	param func(Params) Vector,
	apply func(trackedkernel.Solid, kernel.Vec3) trackedkernel.Solid,
) evaluateFunc {

	return func(_ trackedkernel.Kernel, in []trackedkernel.Solid, p Params) (trackedkernel.Solid, error) {
		v, err := param(p).vec3()
		if err != nil {
			return trackedkernel.Solid{}, err
		}

		return apply(in[0], v), nil
	}
}

func boolean(apply func(trackedkernel.Solid, trackedkernel.Solid) trackedkernel.Solid) evaluateFunc {
	return func(_ trackedkernel.Kernel, in []trackedkernel.Solid, _ Params) (trackedkernel.Solid, error) {
		return apply(in[0], in[1]), nil
	}
}

// Operations returns the names of all supported step operations, sorted.
func Operations() []string {
	names := make([]string, 0, len(operations))
	for name := range operations {
		names = append(names, name)
	}
	slices.Sort(names)

	return names
}

// Result holds the solids produced by an evaluated scene, by step name.
type Result struct {
	solids map[string]trackedkernel.Solid
	order  []string
}

// Evaluate runs the steps of s in order through k.
//
// The scene is validated first. A kernel error stops the evaluation and is returned wrapped with the
// step name, so errors.Is still matches kernel.ErrInvalidParameter.
func Evaluate(k trackedkernel.Kernel, s Scene) (Result, error) {
	if err := s.Validate(); err != nil {
		return Result{}, err
	}

	result := Result{
		solids: make(map[string]trackedkernel.Solid, len(s.Steps)),
		order:  make([]string, 0, len(s.Steps)),
	}

	for _, step := range s.Steps {
		inputs := make([]trackedkernel.Solid, 0, len(step.From))
		for _, from := range step.From {
			inputs = append(inputs, result.solids[from])
		}

		solid, err := operations[step.Op].evaluate(k, inputs, step.Params)
		if err != nil {
			return Result{}, fmt.Errorf("step %q: %w", step.Name, err)
		}

		result.solids[step.Name] = solid
		result.order = append(result.order, step.Name)
	}

	return result, nil
}

// Names returns the step names in evaluation order.
func (r Result) Names() []string {
	return slices.Clone(r.order)
}

// Solid returns the solid produced by the named step.
func (r Result) Solid(name string) (trackedkernel.Solid, bool) {
	solid, ok := r.solids[name]

	return solid, ok
}

// Final returns the name and solid of the last step.
func (r Result) Final() (string, trackedkernel.Solid, bool) {
	if len(r.order) == 0 {
		return "", trackedkernel.Solid{}, false
	}

	name := r.order[len(r.order)-1]

	return name, r.solids[name], true
}

// Tree returns the operation tree of the named step's solid.
func (r Result) Tree(name string) (provenance.OperationNodes, error) {
	solid, ok := r.solids[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStep, name)
	}

	return solid.OperationTree(), nil
}

// Snapshot returns a tree snapshot of the named step's solid.
func (r Result) Snapshot(name string) (provenance.TreeSnapshot, error) {
	solid, ok := r.solids[name]
	if !ok {
		return provenance.TreeSnapshot{}, fmt.Errorf("%w: %q", ErrUnknownStep, name)
	}

	return solid.Snapshot()
}

package trackedkernel

import (
	"errors"

	"github.com/AntonStoeckl/operation-provenance-go/example/geometry/kernel"
	"github.com/AntonStoeckl/operation-provenance-go/provenance"
	"github.com/AntonStoeckl/operation-provenance-go/provenance/tracking"
)

const (
	opTranslate = "Translate"
	opScale     = "Scale"
	opRotate    = "Rotate"
	opMirror    = "Mirror"
	opRefine    = "Refine"
	opAdd       = "Add"
	opSubtract  = "Subtract"
	opIntersect = "Intersect"
)

var ErrUntrackedSolid = errors.New("solid carries no operation id")

// Solid is a kernel solid paired with the id of the operation that produced it.
type Solid struct {
	tracked tracking.Tracked[kernel.Solid]
}

// Raw returns the underlying kernel solid.
func (s Solid) Raw() kernel.Solid {
	return s.tracked.Value()
}

// OperationID returns the id of the operation that produced the solid.
func (s Solid) OperationID() provenance.OperationID {
	return s.tracked.OperationID()
}

// OperationTree returns the dependency-ordered derivation history of the solid, ending with its own node.
func (s Solid) OperationTree() provenance.OperationNodes {
	return s.tracked.OperationTree()
}

// Snapshot returns a self-contained copy of the solid's derivation history.
func (s Solid) Snapshot() (provenance.TreeSnapshot, error) {
	if !s.tracked.IsTracked() {
		return provenance.TreeSnapshot{}, ErrUntrackedSolid
	}

	return provenance.BuildTreeSnapshot(s.tracked.Tracker().Registry(), s.OperationID())
}

func (s Solid) Translate(offset kernel.Vec3) Solid {
	return s.derive(opTranslate, func(raw kernel.Solid) kernel.Solid {
		return raw.Translate(offset)
	}, tracking.Plain(offset))
}

func (s Solid) Scale(factor kernel.Vec3) Solid {
	return s.derive(opScale, func(raw kernel.Solid) kernel.Solid {
		return raw.Scale(factor)
	}, tracking.Plain(factor))
}

func (s Solid) Rotate(degrees kernel.Vec3) Solid {
	return s.derive(opRotate, func(raw kernel.Solid) kernel.Solid {
		return raw.Rotate(degrees)
	}, tracking.Plain(degrees))
}

func (s Solid) Mirror(normal kernel.Vec3) (Solid, error) {
	tracked, err := tracking.DeriveErr(s.tracked, opMirror, func(raw kernel.Solid) (kernel.Solid, error) {
		return raw.Mirror(normal)
	}, tracking.Plain(normal))

	return Solid{tracked: tracked}, err
}

func (s Solid) Refine(n int) (Solid, error) {
	tracked, err := tracking.DeriveErr(s.tracked, opRefine, func(raw kernel.Solid) (kernel.Solid, error) {
		return raw.Refine(n)
	}, tracking.Plain(n))

	return Solid{tracked: tracked}, err
}

func (s Solid) Add(other Solid) Solid {
	return s.derive(opAdd, func(raw kernel.Solid) kernel.Solid {
		return raw.Add(other.Raw())
	}, other.tracked)
}

func (s Solid) Subtract(other Solid) Solid {
	return s.derive(opSubtract, func(raw kernel.Solid) kernel.Solid {
		return raw.Subtract(other.Raw())
	}, other.tracked)
}

func (s Solid) Intersect(other Solid) Solid {
	return s.derive(opIntersect, func(raw kernel.Solid) kernel.Solid {
		return raw.Intersect(other.Raw())
	}, other.tracked)
}

func (s Solid) Volume() float64 {
	return s.Raw().Volume()
}

func (s Solid) BoundingBox() kernel.Box {
	return s.Raw().BoundingBox()
}

func (s Solid) NumVert() int {
	return s.Raw().NumVert()
}

func (s Solid) NumTri() int {
	return s.Raw().NumTri()
}

func (s Solid) NumComponents() int {
	return s.Raw().NumComponents()
}

func (s Solid) IsEmpty() bool {
	return s.Raw().IsEmpty()
}

func (s Solid) Status() string {
	return s.Raw().Status()
}

func (s Solid) derive(operation string, call func(kernel.Solid) kernel.Solid, args ...tracking.Arg) Solid {
	return Solid{tracked: tracking.Derive(s.tracked, operation, call, args...)}
}

var _ kernel.Surface = Solid{}

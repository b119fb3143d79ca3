package trackedkernel

import (
	"github.com/AntonStoeckl/operation-provenance-go/example/geometry/kernel"
	"github.com/AntonStoeckl/operation-provenance-go/provenance/tracking"
)

const (
	opCube     = "Cube"
	opSphere   = "Sphere"
	opCylinder = "Cylinder"
	opCompose  = "Compose"
	opUnionAll = "UnionAll"
	opEmpty    = "Empty"
)

// Kernel is the tracked entry point to the geometry kernel. It offers one method per kernel factory.
type Kernel struct {
	tracker *tracking.Tracker
}

// New returns a Kernel recording into tracker. A nil tracker yields an untracked kernel that only calls through.
func New(tracker *tracking.Tracker) Kernel {
	return Kernel{tracker: tracker}
}

// Tracker returns the tracker the kernel records into.
func (k Kernel) Tracker() *tracking.Tracker {
	return k.tracker
}

func (k Kernel) Cube(size kernel.Vec3, center bool) (Solid, error) {
	tracked, err := tracking.ProduceErr(k.tracker, opCube, func() (kernel.Solid, error) {
		return kernel.Cube(size, center)
	}, tracking.Plains(size, center)...)

	return Solid{tracked: tracked}, err
}

func (k Kernel) Sphere(radius float64, segments int) (Solid, error) {
	tracked, err := tracking.ProduceErr(k.tracker, opSphere, func() (kernel.Solid, error) {
		return kernel.Sphere(radius, segments)
	}, tracking.Plains(radius, segments)...)

	return Solid{tracked: tracked}, err
}

func (k Kernel) Cylinder(height, radiusLow, radiusHigh float64, segments int, center bool) (Solid, error) {
	tracked, err := tracking.ProduceErr(k.tracker, opCylinder, func() (kernel.Solid, error) {
		return kernel.Cylinder(height, radiusLow, radiusHigh, segments, center)
	}, tracking.Plains(height, radiusLow, radiusHigh, segments, center)...)

	return Solid{tracked: tracked}, err
}

// Compose collects solids into one. Every tracked solid becomes an input of the result, in order.
func (k Kernel) Compose(solids ...Solid) Solid {
	return Solid{tracked: tracking.Produce(k.tracker, opCompose, func() kernel.Solid {
		return kernel.Compose(rawSolids(solids))
	}, tracking.List(trackedSolids(solids)...))}
}

// UnionAll returns the boolean union of solids. Every tracked solid becomes an input of the result, in order.
func (k Kernel) UnionAll(solids ...Solid) Solid {
	return Solid{tracked: tracking.Produce(k.tracker, opUnionAll, func() kernel.Solid {
		return kernel.UnionAll(rawSolids(solids))
	}, tracking.List(trackedSolids(solids)...))}
}

func (k Kernel) Empty() Solid {
	return Solid{tracked: tracking.Produce(k.tracker, opEmpty, kernel.Empty)}
}

// Adopt wraps a solid built outside the kernel wrapper. It is recorded as a value of unknown origin.
func (k Kernel) Adopt(raw kernel.Solid) Solid {
	return Solid{tracked: tracking.Construct(k.tracker, func() kernel.Solid {
		return raw
	})}
}

func rawSolids(solids []Solid) []kernel.Solid {
	raw := make([]kernel.Solid, 0, len(solids))
	for _, s := range solids {
		raw = append(raw, s.Raw())
	}

	return raw
}

func trackedSolids(solids []Solid) []tracking.Tracked[kernel.Solid] {
	tracked := make([]tracking.Tracked[kernel.Solid], 0, len(solids))
	for _, s := range solids {
		tracked = append(tracked, s.tracked)
	}

	return tracked
}

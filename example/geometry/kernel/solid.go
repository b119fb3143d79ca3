package kernel

import (
	"errors"
	"fmt"
	"math"
)

const (
	minSegments       = 3
	defaultSegments   = 32
	cubeVertices      = 8
	cubeTriangles     = 12
	degreesToRadians  = math.Pi / 180
	statusNoError     = "NoError"
	statusEmptyResult = "EmptyResult"
)

// ErrInvalidParameter is returned by factories and methods called with parameters that describe no valid solid.
var ErrInvalidParameter = errors.New("invalid parameter")

// Surface is the method set every Solid exposes. Wrappers around Solids implement it as well,
// so code that only inspects solids does not care whether it holds a raw or a wrapped one.
type Surface interface {
	NumVert() int
	NumTri() int
	BoundingBox() Box
	Volume() float64
	IsEmpty() bool
}

// Solid is an immutable solid. Every method returning a Solid returns a new value.
type Solid struct {
	bounds     Box
	volume     float64
	numVert    int
	numTri     int
	components int
}

// Empty returns a solid without any geometry.
func Empty() Solid {
	return Solid{bounds: emptyBox()}
}

// Cube returns a box of the given size, with one corner at the origin or centered on it.
func Cube(size Vec3, center bool) (Solid, error) {
	if !size.isFinite() || size.X <= 0 || size.Y <= 0 || size.Z <= 0 {
		return Solid{}, fmt.Errorf("%w: cube size must be positive, got %v", ErrInvalidParameter, size)
	}

	bounds := Box{Max: size}
	if center {
		bounds = Box{Min: size.scale(-0.5), Max: size.scale(0.5)}
	}

	return Solid{
		bounds:     bounds,
		volume:     size.X * size.Y * size.Z,
		numVert:    cubeVertices,
		numTri:     cubeTriangles,
		components: 1,
	}, nil
}

// Sphere returns a sphere of the given radius centered on the origin.
// segments is the number of circular segments; values below 3 select a default resolution.
func Sphere(radius float64, segments int) (Solid, error) {
	if math.IsNaN(radius) || math.IsInf(radius, 0) || radius <= 0 {
		return Solid{}, fmt.Errorf("%w: sphere radius must be positive, got %v", ErrInvalidParameter, radius)
	}

	segments = normalizeSegments(segments)
	rings := max(segments/2, 2)

	return Solid{
		bounds:     Box{Min: V(-radius, -radius, -radius), Max: V(radius, radius, radius)},
		volume:     4.0 / 3.0 * math.Pi * radius * radius * radius,
		numVert:    segments*(rings-1) + 2,
		numTri:     2 * segments * (rings - 1),
		components: 1,
	}, nil
}

// Cylinder returns a cylinder or cone along the z axis. radiusHigh may be zero, giving a cone.
func Cylinder(height, radiusLow, radiusHigh float64, segments int, center bool) (Solid, error) {
	if height <= 0 || radiusLow <= 0 || radiusHigh < 0 ||
		!V(height, radiusLow, radiusHigh).isFinite() {

		return Solid{}, fmt.Errorf(
			"%w: cylinder needs positive height and radius, got height %v radii %v/%v",
			ErrInvalidParameter, height, radiusLow, radiusHigh,
		)
	}

	segments = normalizeSegments(segments)
	maxRadius := math.Max(radiusLow, radiusHigh)
	bounds := Box{Min: V(-maxRadius, -maxRadius, 0), Max: V(maxRadius, maxRadius, height)}
	if center {
		bounds = bounds.transform(func(p Vec3) Vec3 { return p.add(V(0, 0, -height/2)) })
	}

	numVert, numTri := 2*segments, 4*segments-4
	if radiusHigh == 0 {
		numVert, numTri = segments+1, 2*segments-2
	}

	return Solid{
		bounds:     bounds,
		volume:     math.Pi * height / 3 * (radiusLow*radiusLow + radiusLow*radiusHigh + radiusHigh*radiusHigh),
		numVert:    numVert,
		numTri:     numTri,
		components: 1,
	}, nil
}

// Compose collects solids into one without any boolean operation; overlapping solids stay overlapping.
func Compose(solids []Solid) Solid {
	result := Empty()
	for _, s := range solids {
		result = Solid{
			bounds:     result.bounds.union(s.bounds),
			volume:     result.volume + s.volume,
			numVert:    result.numVert + s.numVert,
			numTri:     result.numTri + s.numTri,
			components: result.components + s.components,
		}
	}

	return result
}

// UnionAll returns the boolean union of all solids.
func UnionAll(solids []Solid) Solid {
	result := Empty()
	for _, s := range solids {
		result = result.Add(s)
	}

	return result
}

// Translate moves the solid by offset.
func (s Solid) Translate(offset Vec3) Solid {
	s.bounds = s.bounds.transform(func(p Vec3) Vec3 { return p.add(offset) })

	return s
}

// Scale scales the solid about the origin. Negative factors mirror it along the respective axis.
func (s Solid) Scale(factor Vec3) Solid {
	s.bounds = s.bounds.transform(func(p Vec3) Vec3 { return p.mul(factor) })
	s.volume *= math.Abs(factor.X * factor.Y * factor.Z)

	if s.volume == 0 {
		return Empty()
	}

	return s
}

// Rotate rotates the solid about the x, then y, then z axis, by the given angles in degrees.
// The bounding box of the result encloses the rotated bounding box of the solid.
func (s Solid) Rotate(degrees Vec3) Solid {
	sx, cx := math.Sincos(degrees.X * degreesToRadians)
	sy, cy := math.Sincos(degrees.Y * degreesToRadians)
	sz, cz := math.Sincos(degrees.Z * degreesToRadians)

	s.bounds = s.bounds.transform(func(p Vec3) Vec3 {
		p = Vec3{p.X, p.Y*cx - p.Z*sx, p.Y*sx + p.Z*cx}
		p = Vec3{p.X*cy + p.Z*sy, p.Y, -p.X*sy + p.Z*cy}

		return Vec3{p.X*cz - p.Y*sz, p.X*sz + p.Y*cz, p.Z}
	})

	return s
}

// Mirror reflects the solid through the plane through the origin with the given normal.
func (s Solid) Mirror(normal Vec3) (Solid, error) {
	length := normal.length()
	if length == 0 || !normal.isFinite() {
		return Solid{}, fmt.Errorf("%w: mirror normal must be a non-zero vector, got %v", ErrInvalidParameter, normal)
	}

	n := normal.scale(1 / length)
	s.bounds = s.bounds.transform(func(p Vec3) Vec3 { return p.add(n.scale(-2 * p.dot(n))) })

	return s, nil
}

// Refine subdivides every triangle into n*n triangles.
func (s Solid) Refine(n int) (Solid, error) {
	if n < 1 {
		return Solid{}, fmt.Errorf("%w: refinement must be at least 1, got %d", ErrInvalidParameter, n)
	}

	s.numVert += s.numTri * (n*n - 1) / 2
	s.numTri *= n * n

	return s, nil
}

// Add returns the boolean union of the solid and other.
func (s Solid) Add(other Solid) Solid {
	if s.IsEmpty() {
		return other
	}

	if other.IsEmpty() {
		return s
	}

	overlap := s.overlapVolume(other)
	components := s.components + other.components
	if overlap > 0 {
		components--
	}

	return Solid{
		bounds:     s.bounds.union(other.bounds),
		volume:     s.volume + other.volume - overlap,
		numVert:    s.numVert + other.numVert,
		numTri:     s.numTri + other.numTri,
		components: components,
	}
}

// Subtract returns the boolean difference of the solid minus other.
func (s Solid) Subtract(other Solid) Solid {
	overlap := s.overlapVolume(other)
	if overlap == 0 {
		return s
	}

	if overlap >= s.volume {
		return Empty()
	}

	s.volume -= overlap
	s.numVert += other.numVert
	s.numTri += other.numTri

	return s
}

// Intersect returns the boolean intersection of the solid and other.
func (s Solid) Intersect(other Solid) Solid {
	overlap := s.overlapVolume(other)
	if overlap == 0 {
		return Empty()
	}

	return Solid{
		bounds:     s.bounds.intersection(other.bounds),
		volume:     overlap,
		numVert:    max(s.numVert, other.numVert),
		numTri:     max(s.numTri, other.numTri),
		components: 1,
	}
}

// overlapVolume estimates the shared volume as the box overlap, scaled by how densely the sparser solid fills its box.
func (s Solid) overlapVolume(other Solid) float64 {
	common := s.bounds.intersection(other.bounds)
	if common.IsEmpty() {
		return 0
	}

	return math.Min(common.Volume()*math.Min(s.fill(), other.fill()), math.Min(s.volume, other.volume))
}

func (s Solid) fill() float64 {
	boxVolume := s.bounds.Volume()
	if boxVolume == 0 {
		return 0
	}

	return math.Min(s.volume/boxVolume, 1)
}

// Volume returns the enclosed volume.
func (s Solid) Volume() float64 {
	return s.volume
}

// BoundingBox returns the axis-aligned bounding box.
func (s Solid) BoundingBox() Box {
	return s.bounds
}

// NumVert returns the number of mesh vertices.
func (s Solid) NumVert() int {
	return s.numVert
}

// NumTri returns the number of mesh triangles.
func (s Solid) NumTri() int {
	return s.numTri
}

// NumComponents returns the number of disconnected parts.
func (s Solid) NumComponents() int {
	return s.components
}

// IsEmpty reports whether the solid has no geometry.
func (s Solid) IsEmpty() bool {
	return s.numTri == 0 || s.bounds.IsEmpty()
}

// Status describes the state of the solid: "NoError", or "EmptyResult" for solids without geometry.
func (s Solid) Status() string {
	if s.IsEmpty() {
		return statusEmptyResult
	}

	return statusNoError
}

func normalizeSegments(segments int) int {
	if segments < minSegments {
		return defaultSegments
	}

	return segments
}

var _ Surface = Solid{}

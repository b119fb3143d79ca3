package kernel

import (
	"math"
)

// Vec3 is a point or direction in 3D space.
type Vec3 struct {
	X, Y, Z float64
}

// V is a shorthand constructor for Vec3.
func V(x, y, z float64) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

func (v Vec3) add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

func (v Vec3) mul(o Vec3) Vec3 {
	return Vec3{v.X * o.X, v.Y * o.Y, v.Z * o.Z}
}

func (v Vec3) scale(f float64) Vec3 {
	return Vec3{v.X * f, v.Y * f, v.Z * f}
}

func (v Vec3) dot(o Vec3) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

func (v Vec3) length() float64 {
	return math.Sqrt(v.dot(v))
}

func (v Vec3) isFinite() bool {
	for _, c := range []float64{v.X, v.Y, v.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}

	return true
}

func minVec(a, b Vec3) Vec3 {
	return Vec3{math.Min(a.X, b.X), math.Min(a.Y, b.Y), math.Min(a.Z, b.Z)}
}

func maxVec(a, b Vec3) Vec3 {
	return Vec3{math.Max(a.X, b.X), math.Max(a.Y, b.Y), math.Max(a.Z, b.Z)}
}

// Box is an axis-aligned bounding box. The zero Box is empty.
type Box struct {
	Min, Max Vec3
	empty    bool
}

func emptyBox() Box {
	return Box{empty: true}
}

func boxOf(points ...Vec3) Box {
	if len(points) == 0 {
		return emptyBox()
	}

	box := Box{Min: points[0], Max: points[0]}
	for _, p := range points[1:] {
		box.Min = minVec(box.Min, p)
		box.Max = maxVec(box.Max, p)
	}

	return box
}

// IsEmpty reports whether the box contains no points.
func (b Box) IsEmpty() bool {
	return b.empty || b == Box{}
}

// Size returns the extent of the box along each axis.
func (b Box) Size() Vec3 {
	if b.IsEmpty() {
		return Vec3{}
	}

	return Vec3{b.Max.X - b.Min.X, b.Max.Y - b.Min.Y, b.Max.Z - b.Min.Z}
}

// Volume returns the volume enclosed by the box.
func (b Box) Volume() float64 {
	s := b.Size()

	return s.X * s.Y * s.Z
}

func (b Box) corners() []Vec3 {
	return []Vec3{
		{b.Min.X, b.Min.Y, b.Min.Z}, {b.Max.X, b.Min.Y, b.Min.Z},
		{b.Min.X, b.Max.Y, b.Min.Z}, {b.Max.X, b.Max.Y, b.Min.Z},
		{b.Min.X, b.Min.Y, b.Max.Z}, {b.Max.X, b.Min.Y, b.Max.Z},
		{b.Min.X, b.Max.Y, b.Max.Z}, {b.Max.X, b.Max.Y, b.Max.Z},
	}
}

func (b Box) transform(f func(Vec3) Vec3) Box {
	if b.IsEmpty() {
		return b
	}

	corners := b.corners()
	for i, c := range corners {
		corners[i] = f(c)
	}

	return boxOf(corners...)
}

func (b Box) union(o Box) Box {
	switch {
	case b.IsEmpty():
		return o
	case o.IsEmpty():
		return b
	default:
		return Box{Min: minVec(b.Min, o.Min), Max: maxVec(b.Max, o.Max)}
	}
}

func (b Box) intersection(o Box) Box {
	if b.IsEmpty() || o.IsEmpty() {
		return emptyBox()
	}

	result := Box{Min: maxVec(b.Min, o.Min), Max: minVec(b.Max, o.Max)}
	if result.Min.X >= result.Max.X || result.Min.Y >= result.Max.Y || result.Min.Z >= result.Max.Z {
		return emptyBox()
	}

	return result
}

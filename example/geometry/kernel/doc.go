// Package kernel is a small stand-in for a third-party solid geometry kernel.
//
// It exposes the surface such a kernel typically has: static factories for primitives, immutable Solid
// values with transforming and combining methods that return new Solids, and read-only queries.
// Geometry is tracked as bounding boxes with volume and mesh-size estimates, which is all the
// provenance examples need; boolean operations estimate the overlap of two solids from their boxes.
//
// The package knows nothing about provenance. See the trackedkernel package for the tracked wrapper.
package kernel

// Package trackedkernel is the explicit provenance wrapper around the geometry kernel.
//
// Kernel wraps every kernel factory, Solid wraps every kernel method. Methods returning a new solid are
// recorded in the tracker's registry, read-only methods are forwarded unchanged. Solids of both packages
// satisfy kernel.Surface, so inspection code works with either.
package trackedkernel

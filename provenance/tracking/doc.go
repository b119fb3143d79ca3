// Package tracking wraps calls into an external, immutable-value-returning library so that every produced
// value carries a provenance.OperationNode, without modifying the library and without changing its
// observable behavior.
//
// There are two wrapper layers, both backed by one explicitly constructed Tracker:
//   - Entry points (Construct, Produce, ProduceErr) wrap constructors and static factory functions.
//   - Tracked[T] wraps one produced value; Derive and DeriveErr intercept method calls on it and wrap
//     their results again, chaining provenance.
//
// Instead of intercepting arbitrary member access at runtime, the tracked surface of a library is enumerated
// at compile time by an explicit wrapper type that forwards each method. Methods returning trackable values
// go through Derive/DeriveErr, all others are forwarded directly. Call arguments are passed as the sealed Arg
// sum type, which distinguishes tracked values (contributing their operation id), ordered lists of tracked
// values (one id per element, in order) and plain values (recorded as parameters only).
//
// Failures of the wrapped library are never caught, wrapped or transformed: errors are returned unchanged,
// panics propagate, and no node is registered for the failed call.
//
// Usage:
//
//	registry, _ := provenance.NewRegistry()
//	tracker, _ := tracking.NewTracker(registry)
//
//	cube := tracking.Produce(tracker, "cube", func() kernel.Solid { return kernel.Cube(1, 1, 1) }, tracking.Plain(1.0))
//	moved := tracking.Derive(cube, "translate", func(s kernel.Solid) kernel.Solid { return s.Translate(2, 0, 0) },
//		tracking.Plains(2.0, 0.0, 0.0)...)
//
//	tree := moved.OperationTree() // [cube, translate]
package tracking

// Package provenance provides the core types for recording how values produced by an external,
// immutable-value-returning library were derived.
//
// Every tracked value is paired with exactly one OperationNode: a recorded fact that the value was
// produced by a named operation from zero or more input values, with the given call parameters.
// Nodes live in an append-only Registry, which can flatten the derivation of any node into a
// dependency-ordered operation list.
//
// Key types:
//   - OperationNode: immutable record of one factory or method call
//   - Registry: append-only store of OperationNode(s), id generation and tree reconstruction
//   - NodeFilter: criteria for querying registered nodes
//   - TreeSnapshot: exportable view of one node's derivation
//
// The wrappers that intercept calls into the subject library live in the tracking sub-package.
//
// Common usage pattern:
//
//	registry, err := provenance.NewRegistry()
//	if err != nil {
//		// handle error
//	}
//
//	id := registry.GenerateID()
//	node, err := provenance.BuildOperationNode(id, "cube", nil, provenance.MetadataWithParameters(1.0))
//	if err != nil {
//		// handle error
//	}
//
//	if err = registry.Register(node); err != nil {
//		// handle error
//	}
//
//	tree := registry.BuildTree(id)
package provenance

package provenance

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

type FilterOperationTypeString = string
type FilterKeyString = string
type FilterValString = string

/***** NodeFilter *****/

// NodeFilter selects registered OperationNode(s).
//
// A node matches if it satisfies the bounds (sequence, creation time) and ANY of the NodeFilterItem(s).
// A filter without items matches every node within the bounds.
type NodeFilter struct {
	items              []NodeFilterItem
	sequenceHigherThan SequenceNumberUint
	createdFrom        time.Time
	createdUntil       time.Time
}

func (f NodeFilter) Items() []NodeFilterItem {
	return f.items
}

func (f NodeFilter) SequenceHigherThan() SequenceNumberUint {
	return f.sequenceHigherThan
}

func (f NodeFilter) CreatedFrom() time.Time {
	return f.createdFrom
}

func (f NodeFilter) CreatedUntil() time.Time {
	return f.createdUntil
}

// Matches reports whether the node is selected by the filter.
func (f NodeFilter) Matches(node OperationNode) bool {
	if node.sequence <= f.sequenceHigherThan {
		return false
	}

	if !f.createdFrom.IsZero() && node.createdAt.Before(f.createdFrom) {
		return false
	}

	if !f.createdUntil.IsZero() && node.createdAt.After(f.createdUntil) {
		return false
	}

	if len(f.items) == 0 {
		return true
	}

	for _, item := range f.items {
		if item.matches(node) {
			return true
		}
	}

	return false
}

/***** NodeFilterItem *****/

type NodeFilterItem struct {
	operationTypes         []FilterOperationTypeString
	predicates             []FilterPredicate
	allPredicatesMustMatch bool
	dependsOn              OperationIDs
}

func (fi NodeFilterItem) OperationTypes() []FilterOperationTypeString {
	return fi.operationTypes
}

func (fi NodeFilterItem) Predicates() []FilterPredicate {
	return fi.predicates
}

func (fi NodeFilterItem) AllPredicatesMustMatch() bool {
	return fi.allPredicatesMustMatch
}

func (fi NodeFilterItem) DependsOn() OperationIDs {
	return fi.dependsOn
}

func (fi NodeFilterItem) matches(node OperationNode) bool {
	if len(fi.operationTypes) > 0 && !slices.Contains(fi.operationTypes, node.operationType) {
		return false
	}

	if len(fi.dependsOn) > 0 && !slices.ContainsFunc(node.inputIDs, func(id OperationID) bool {
		return slices.Contains(fi.dependsOn, id)
	}) {
		return false
	}

	if len(fi.predicates) == 0 {
		return true
	}

	if fi.allPredicatesMustMatch {
		for _, predicate := range fi.predicates {
			if !predicate.matches(node.metadata) {
				return false
			}
		}

		return true
	}

	for _, predicate := range fi.predicates {
		if predicate.matches(node.metadata) {
			return true
		}
	}

	return false
}

/***** FilterPredicate *****/

// FilterPredicate matches a Metadata entry by key, comparing the value's fmt.Sprint rendering.
type FilterPredicate struct {
	key FilterKeyString
	val FilterValString
}

func P(key FilterKeyString, val FilterValString) FilterPredicate {
	return FilterPredicate{key: key, val: val}
}

func (fp FilterPredicate) Key() FilterKeyString {
	return fp.key
}

func (fp FilterPredicate) Val() FilterValString {
	return fp.val
}

func (fp FilterPredicate) matches(metadata Metadata) bool {
	value, exists := metadata[fp.key]
	if !exists {
		return false
	}

	return fmt.Sprint(value) == fp.val
}

/***** NodeFilterBuilder *****/

// NodeFilterBuilder builds a NodeFilter for Registry.Query.
// It only allows "useful" combinations for inspecting a derivation history:
//
//   - empty filter
//   - (operationType OR operationType...)
//   - (predicate OR predicate...)
//   - (predicate AND predicate...)
//   - ((operationType OR operationType...) AND (predicate OR predicate...))
//   - ((operationType OR operationType...) AND (predicate AND predicate...))
//   - (dependsOn OR dependsOn...)
//   - ((operationType AND predicate) OR (operationType AND predicate)...) -> multiple NodeFilterItem(s)
//
// Each of them can be bounded by sequence number and creation time.
type NodeFilterBuilder interface {
	// Matching starts a new NodeFilterItem.
	Matching() EmptyNodeFilterItemBuilder

	// MatchingAnyNode directly creates a NodeFilter without items.
	MatchingAnyNode() NodeFilter

	// WithSequenceHigherThan restricts the filter to nodes registered after the given sequence number.
	WithSequenceHigherThan(sequence SequenceNumberUint) NodeFilterBuilder

	// CreatedFrom restricts the filter to nodes registered at or after the given time.
	CreatedFrom(from time.Time) NodeFilterBuilder

	// CreatedUntil restricts the filter to nodes registered at or before the given time.
	CreatedUntil(until time.Time) NodeFilterBuilder

	// Finalize returns the NodeFilter, bounded by sequence number and creation time only.
	Finalize() NodeFilter
}

type EmptyNodeFilterItemBuilder interface {
	// AnyOperationTypeOf adds one or multiple operation types to the current NodeFilterItem.
	//
	// It sanitizes the input:
	//	- removing empty operation types ("")
	//	- sorting the operation types
	//	- removing duplicate operation types
	AnyOperationTypeOf(operationType FilterOperationTypeString, operationTypes ...FilterOperationTypeString) NodeFilterItemBuilderLackingPredicates

	// AnyPredicateOf adds one or multiple FilterPredicate(s) to the current NodeFilterItem.
	//
	// It sanitizes the input:
	//	- removing empty/partial FilterPredicate(s) (key or val is "")
	//	- sorting the FilterPredicate(s)
	//	- removing duplicate FilterPredicate(s)
	AnyPredicateOf(predicate FilterPredicate, predicates ...FilterPredicate) NodeFilterItemBuilderLackingOperationTypes

	AllPredicatesOf(predicate FilterPredicate, predicates ...FilterPredicate) NodeFilterItemBuilderLackingOperationTypes

	// DependingOnAnyOf selects nodes consuming at least one of the given operation ids.
	DependingOnAnyOf(id OperationID, ids ...OperationID) CompletedNodeFilterItemBuilder
}

type NodeFilterItemBuilderLackingPredicates interface {
	AndAnyPredicateOf(predicate FilterPredicate, predicates ...FilterPredicate) CompletedNodeFilterItemBuilder

	AndAllPredicatesOf(predicate FilterPredicate, predicates ...FilterPredicate) CompletedNodeFilterItemBuilder

	// OrMatching finalizes the current NodeFilterItem and starts a new one.
	OrMatching() EmptyNodeFilterItemBuilder

	// Finalize returns the NodeFilter.
	Finalize() NodeFilter
}

type NodeFilterItemBuilderLackingOperationTypes interface {
	// AndAnyOperationTypeOf adds one or multiple operation types to the current NodeFilterItem.
	AndAnyOperationTypeOf(operationType FilterOperationTypeString, operationTypes ...FilterOperationTypeString) CompletedNodeFilterItemBuilder

	// OrMatching finalizes the current NodeFilterItem and starts a new one.
	OrMatching() EmptyNodeFilterItemBuilder

	// Finalize returns the NodeFilter.
	Finalize() NodeFilter
}

type CompletedNodeFilterItemBuilder interface {
	// OrMatching finalizes the current NodeFilterItem and starts a new one.
	OrMatching() EmptyNodeFilterItemBuilder

	// Finalize returns the NodeFilter.
	Finalize() NodeFilter
}

// nodeFilterBuilder implements all the interfaces of NodeFilterBuilder
type nodeFilterBuilder struct {
	filter            NodeFilter
	currentFilterItem NodeFilterItem
}

// BuildNodeFilter creates a NodeFilterBuilder which must eventually be finalized with Finalize() or MatchingAnyNode().
func BuildNodeFilter() NodeFilterBuilder {
	return nodeFilterBuilder{}
}

// Matching starts a new NodeFilterItem.
func (fb nodeFilterBuilder) Matching() EmptyNodeFilterItemBuilder {
	fb.currentFilterItem = NodeFilterItem{}

	return fb
}

// WithSequenceHigherThan restricts the filter to nodes registered after the given sequence number.
func (fb nodeFilterBuilder) WithSequenceHigherThan(sequence SequenceNumberUint) NodeFilterBuilder {
	fb.filter.sequenceHigherThan = sequence

	return fb
}

// CreatedFrom restricts the filter to nodes registered at or after the given time.
func (fb nodeFilterBuilder) CreatedFrom(from time.Time) NodeFilterBuilder {
	fb.filter.createdFrom = from

	return fb
}

// CreatedUntil restricts the filter to nodes registered at or before the given time.
func (fb nodeFilterBuilder) CreatedUntil(until time.Time) NodeFilterBuilder {
	fb.filter.createdUntil = until

	return fb
}

// AnyOperationTypeOf adds one or multiple operation types to the current NodeFilterItem expecting ANY of them to match.
func (fb nodeFilterBuilder) AnyOperationTypeOf(
	operationType FilterOperationTypeString,
	operationTypes ...FilterOperationTypeString,
) NodeFilterItemBuilderLackingPredicates {

	fb.currentFilterItem.operationTypes = append(
		slices.Clone(fb.currentFilterItem.operationTypes),
		fb.sanitizeOperationTypes(operationType, operationTypes...)...,
	)

	return fb
}

// AndAnyOperationTypeOf adds one or multiple operation types to the current NodeFilterItem expecting ANY of them to match.
func (fb nodeFilterBuilder) AndAnyOperationTypeOf(
	operationType FilterOperationTypeString,
	operationTypes ...FilterOperationTypeString,
) CompletedNodeFilterItemBuilder {

	return fb.AnyOperationTypeOf(operationType, operationTypes...)
}

func (fb nodeFilterBuilder) sanitizeOperationTypes(
	operationType FilterOperationTypeString,
	operationTypes ...FilterOperationTypeString,
) []FilterOperationTypeString {

	allOperationTypes := append([]FilterOperationTypeString{operationType}, operationTypes...)
	allOperationTypes = slices.DeleteFunc(
		allOperationTypes,
		func(o FilterOperationTypeString) bool {
			return o == ""
		})
	slices.Sort(allOperationTypes)
	allOperationTypes = slices.Compact(allOperationTypes)
	allOperationTypes = slices.Clip(allOperationTypes)

	return allOperationTypes
}

// AnyPredicateOf adds one or multiple FilterPredicate(s) to the current NodeFilterItem expecting ANY predicate to match.
func (fb nodeFilterBuilder) AnyPredicateOf(
	predicate FilterPredicate,
	predicates ...FilterPredicate,
) NodeFilterItemBuilderLackingOperationTypes {

	fb.currentFilterItem.predicates = append(
		slices.Clone(fb.currentFilterItem.predicates),
		fb.sanitizePredicates(predicate, predicates...)...,
	)

	return fb
}

// AndAnyPredicateOf adds one or multiple FilterPredicate(s) to the current NodeFilterItem expecting ANY predicate to match.
func (fb nodeFilterBuilder) AndAnyPredicateOf(
	predicate FilterPredicate,
	predicates ...FilterPredicate,
) CompletedNodeFilterItemBuilder {

	return fb.AnyPredicateOf(predicate, predicates...)
}

// AllPredicatesOf adds one or multiple FilterPredicate(s) to the current NodeFilterItem expecting ALL predicates to match.
func (fb nodeFilterBuilder) AllPredicatesOf(
	predicate FilterPredicate,
	predicates ...FilterPredicate,
) NodeFilterItemBuilderLackingOperationTypes {

	fb.currentFilterItem.allPredicatesMustMatch = true

	return fb.AnyPredicateOf(predicate, predicates...)
}

// AndAllPredicatesOf adds one or multiple FilterPredicate(s) to the current NodeFilterItem expecting ALL predicates to match.
func (fb nodeFilterBuilder) AndAllPredicatesOf(
	predicate FilterPredicate,
	predicates ...FilterPredicate,
) CompletedNodeFilterItemBuilder {

	return fb.AllPredicatesOf(predicate, predicates...)
}

func (fb nodeFilterBuilder) sanitizePredicates(
	predicate FilterPredicate,
	predicates ...FilterPredicate,
) []FilterPredicate {

	allPredicates := append([]FilterPredicate{predicate}, predicates...)
	allPredicates = slices.DeleteFunc(allPredicates, func(p FilterPredicate) bool { return len(p.key) == 0 || len(p.val) == 0 })
	slices.SortFunc(
		allPredicates,
		func(a, b FilterPredicate) int {
			if byKey := strings.Compare(a.key, b.key); byKey != 0 {
				return byKey
			}

			return strings.Compare(a.val, b.val)
		})

	allPredicates = slices.Compact(allPredicates)
	allPredicates = slices.Clip(allPredicates)

	return allPredicates
}

// DependingOnAnyOf selects nodes consuming at least one of the given operation ids.
func (fb nodeFilterBuilder) DependingOnAnyOf(id OperationID, ids ...OperationID) CompletedNodeFilterItemBuilder {
	allIDs := append(OperationIDs{id}, ids...)
	allIDs = slices.DeleteFunc(allIDs, func(i OperationID) bool { return i.IsZero() })
	slices.Sort(allIDs)
	allIDs = slices.Compact(allIDs)

	fb.currentFilterItem.dependsOn = append(slices.Clone(fb.currentFilterItem.dependsOn), allIDs...)

	return fb
}

// OrMatching finalizes the current NodeFilterItem and starts a new one.
func (fb nodeFilterBuilder) OrMatching() EmptyNodeFilterItemBuilder {
	fb.filter.items = append(slices.Clone(fb.filter.items), fb.currentFilterItem)
	fb.currentFilterItem = NodeFilterItem{}

	return fb
}

// MatchingAnyNode directly creates a NodeFilter without items.
func (fb nodeFilterBuilder) MatchingAnyNode() NodeFilter {
	return fb.filter
}

// Finalize returns the NodeFilter including the current NodeFilterItem.
func (fb nodeFilterBuilder) Finalize() NodeFilter {
	fb.filter.items = append(slices.Clone(fb.filter.items), fb.currentFilterItem)

	return fb.filter
}

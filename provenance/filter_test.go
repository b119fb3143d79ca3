package provenance_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/operation-provenance-go/provenance"
)

//nolint:funlen
func Test_NodeFilterBuilder_ValidCombinations(t *testing.T) {
	tests := []struct {
		name     string
		build    func() provenance.NodeFilter
		validate func(t *testing.T, filter provenance.NodeFilter)
	}{
		{
			name: "matching_any_node_creates_empty_filter",
			build: func() provenance.NodeFilter {
				return provenance.BuildNodeFilter().MatchingAnyNode()
			},
			validate: func(t *testing.T, f provenance.NodeFilter) {
				assert.Empty(t, f.Items())
				assert.True(t, f.CreatedFrom().IsZero())
				assert.True(t, f.CreatedUntil().IsZero())
				assert.Equal(t, uint(0), f.SequenceHigherThan())
			},
		},
		{
			name: "sequence_only_filter",
			build: func() provenance.NodeFilter {
				return provenance.BuildNodeFilter().
					WithSequenceHigherThan(12).
					Finalize()
			},
			validate: func(t *testing.T, f provenance.NodeFilter) {
				assert.Equal(t, uint(12), f.SequenceHigherThan())
				assert.Len(t, f.Items(), 1)
				assert.Empty(t, f.Items()[0].OperationTypes())
				assert.Empty(t, f.Items()[0].Predicates())
			},
		},
		{
			name: "created_bounds",
			build: func() provenance.NodeFilter {
				return provenance.BuildNodeFilter().
					CreatedFrom(time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)).
					CreatedUntil(time.Date(2025, 12, 31, 23, 59, 59, 0, time.UTC)).
					Finalize()
			},
			validate: func(t *testing.T, f provenance.NodeFilter) {
				assert.Equal(t, time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC), f.CreatedFrom())
				assert.Equal(t, time.Date(2025, 12, 31, 23, 59, 59, 0, time.UTC), f.CreatedUntil())
			},
		},
		{
			name: "operation_types_are_sanitized",
			build: func() provenance.NodeFilter {
				return provenance.BuildNodeFilter().
					Matching().
					AnyOperationTypeOf("translate", "", "cube", "translate").
					Finalize()
			},
			validate: func(t *testing.T, f provenance.NodeFilter) {
				require.Len(t, f.Items(), 1)
				assert.Equal(t, []string{"cube", "translate"}, f.Items()[0].OperationTypes())
			},
		},
		{
			name: "all_predicates_with_operation_types",
			build: func() provenance.NodeFilter {
				return provenance.BuildNodeFilter().
					Matching().
					AllPredicatesOf(provenance.P("source", "scene"), provenance.P("", "x"), provenance.P("layer", "1")).
					AndAnyOperationTypeOf("cube").
					Finalize()
			},
			validate: func(t *testing.T, f provenance.NodeFilter) {
				require.Len(t, f.Items(), 1)
				assert.True(t, f.Items()[0].AllPredicatesMustMatch())
				assert.Equal(t,
					[]provenance.FilterPredicate{provenance.P("layer", "1"), provenance.P("source", "scene")},
					f.Items()[0].Predicates(),
				)
				assert.Equal(t, []string{"cube"}, f.Items()[0].OperationTypes())
			},
		},
		{
			name: "or_matching_creates_multiple_items",
			build: func() provenance.NodeFilter {
				return provenance.BuildNodeFilter().
					Matching().
					AnyOperationTypeOf("cube").
					OrMatching().
					DependingOnAnyOf("op-2", "op-1", "op-2").
					Finalize()
			},
			validate: func(t *testing.T, f provenance.NodeFilter) {
				require.Len(t, f.Items(), 2)
				assert.Equal(t, []string{"cube"}, f.Items()[0].OperationTypes())
				assert.Equal(t, provenance.OperationIDs{"op-1", "op-2"}, f.Items()[1].DependsOn())
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.validate(t, tc.build())
		})
	}
}

func Test_NodeFilter_Matches(t *testing.T) {
	registry := givenRegistry(t)

	cube := givenNodeWasRegistered(t, registry, "cube")
	sphereID := registry.GenerateID()
	sphereNode, err := provenance.BuildOperationNode(sphereID, "sphere", nil, provenance.Metadata{"source": "scene", "layer": 2})
	require.NoError(t, err)
	require.NoError(t, registry.Register(sphereNode))
	translate := givenNodeWasRegistered(t, registry, "translate", cube)

	tests := []struct {
		name     string
		filter   provenance.NodeFilter
		expected provenance.OperationIDs
	}{
		{
			name:     "any_node",
			filter:   provenance.BuildNodeFilter().MatchingAnyNode(),
			expected: provenance.OperationIDs{cube, sphereID, translate},
		},
		{
			name:     "sequence_bound",
			filter:   provenance.BuildNodeFilter().WithSequenceHigherThan(2).MatchingAnyNode(),
			expected: provenance.OperationIDs{translate},
		},
		{
			name: "any_predicate_renders_values",
			filter: provenance.BuildNodeFilter().
				Matching().
				AnyPredicateOf(provenance.P("layer", "2"), provenance.P("layer", "7")).
				Finalize(),
			expected: provenance.OperationIDs{sphereID},
		},
		{
			name: "all_predicates_must_match",
			filter: provenance.BuildNodeFilter().
				Matching().
				AllPredicatesOf(provenance.P("layer", "2"), provenance.P("source", "file")).
				Finalize(),
			expected: provenance.OperationIDs{},
		},
		{
			name: "depending_on",
			filter: provenance.BuildNodeFilter().
				Matching().
				DependingOnAnyOf(cube).
				Finalize(),
			expected: provenance.OperationIDs{translate},
		},
		{
			name: "created_after_clock",
			filter: provenance.BuildNodeFilter().
				CreatedFrom(fakeClock.Add(time.Second)).
				MatchingAnyNode(),
			expected: provenance.OperationIDs{},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			nodes := registry.Query(tc.filter)

			ids := make(provenance.OperationIDs, 0, len(nodes))
			for _, node := range nodes {
				ids = append(ids, node.ID())
			}

			assert.Equal(t, tc.expected, ids)
		})
	}
}

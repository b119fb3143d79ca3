package provenance_test

import (
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/operation-provenance-go/provenance"
	. "github.com/AntonStoeckl/operation-provenance-go/testutil/observability/helper" //nolint:revive
)

var fakeClock = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func givenRegistry(t *testing.T, options ...provenance.Option) *provenance.Registry {
	t.Helper()

	options = append([]provenance.Option{provenance.WithClock(func() time.Time { return fakeClock })}, options...)

	registry, err := provenance.NewRegistry(options...)
	require.NoError(t, err)

	return registry
}

// givenNodeWasRegistered registers a node of the given type consuming the given ids and returns its id.
func givenNodeWasRegistered(
	t *testing.T,
	registry *provenance.Registry,
	operationType string,
	inputIDs ...provenance.OperationID,
) provenance.OperationID {

	t.Helper()

	id := registry.GenerateID()
	node, err := provenance.BuildOperationNode(id, operationType, inputIDs, provenance.MetadataWithParameters())
	require.NoError(t, err)
	require.NoError(t, registry.Register(node))

	return id
}

func typesOf(nodes provenance.OperationNodes) []string {
	types := make([]string, 0, len(nodes))
	for _, node := range nodes {
		types = append(types, node.Type())
	}

	return types
}

func Test_Registry_GenerateID_ProducesDistinctCounterIDs(t *testing.T) {
	registry := givenRegistry(t)

	assert.Equal(t, provenance.OperationID("op-1"), registry.GenerateID())
	assert.Equal(t, provenance.OperationID("op-2"), registry.GenerateID())
	assert.Equal(t, provenance.OperationID("op-3"), registry.GenerateID())
}

func Test_Registry_GenerateID_IsSafeForConcurrentUse(t *testing.T) {
	registry := givenRegistry(t)

	const goroutines = 8
	const idsPerGoroutine = 100

	var wg sync.WaitGroup
	var mu sync.Mutex
	seen := make(map[provenance.OperationID]struct{})

	for range goroutines {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for range idsPerGoroutine {
				id := registry.GenerateID()

				mu.Lock()
				seen[id] = struct{}{}
				mu.Unlock()
			}
		}()
	}

	wg.Wait()

	assert.Len(t, seen, goroutines*idsPerGoroutine)
}

func Test_Registry_Register_AssignsSequenceAndCreationTime(t *testing.T) {
	registry := givenRegistry(t)

	first := givenNodeWasRegistered(t, registry, "cube")
	second := givenNodeWasRegistered(t, registry, "translate", first)

	firstNode, found := registry.Get(first)
	require.True(t, found)
	secondNode, found := registry.Get(second)
	require.True(t, found)

	assert.Equal(t, uint(1), firstNode.Sequence())
	assert.Equal(t, uint(2), secondNode.Sequence())
	assert.Equal(t, fakeClock, secondNode.CreatedAt())
	assert.True(t, secondNode.IsRegistered())
	assert.Equal(t, provenance.OperationIDs{first}, secondNode.InputIDs())
	assert.Equal(t, 2, registry.Len())
}

func Test_Registry_Register_RejectsInvalidNodes(t *testing.T) {
	tests := []struct {
		name        string
		node        func(t *testing.T, registry *provenance.Registry) provenance.OperationNode
		expectedErr error
	}{
		{
			name: "duplicate_id",
			node: func(t *testing.T, registry *provenance.Registry) provenance.OperationNode {
				existing := givenNodeWasRegistered(t, registry, "cube")
				node, err := provenance.BuildOperationNode(existing, "sphere", nil, nil)
				require.NoError(t, err)

				return node
			},
			expectedErr: provenance.ErrDuplicateOperationID,
		},
		{
			name: "unknown_input",
			node: func(t *testing.T, registry *provenance.Registry) provenance.OperationNode {
				node, err := provenance.BuildOperationNode(registry.GenerateID(), "translate", provenance.OperationIDs{"op-42"}, nil)
				require.NoError(t, err)

				return node
			},
			expectedErr: provenance.ErrUnknownInputOperation,
		},
		{
			name: "zero_value_node",
			node: func(_ *testing.T, _ *provenance.Registry) provenance.OperationNode {
				return provenance.OperationNode{}
			},
			expectedErr: provenance.ErrEmptyOperationID,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			metrics := NewMetricsCollectorSpy()
			logHandler := NewLogHandlerSpy(false)
			registry := givenRegistry(t, provenance.WithMetrics(metrics), provenance.WithLogger(slog.New(logHandler)))
			node := tc.node(t, registry)
			sizeBefore := registry.Len()

			err := registry.Register(node)

			assert.ErrorIs(t, err, tc.expectedErr)
			assert.Equal(t, sizeBefore, registry.Len())
			assert.Equal(t, 1, metrics.CountCounterRecordsForMetric("provenance_registrations_rejected_total"))
			assert.True(t, logHandler.HasErrorLog("operation registration rejected"))
		})
	}
}

func Test_Registry_Register_DuplicateKeepsExistingNode(t *testing.T) {
	registry := givenRegistry(t)
	existing := givenNodeWasRegistered(t, registry, "cube")

	duplicate, err := provenance.BuildOperationNode(existing, "sphere", nil, nil)
	require.NoError(t, err)
	require.ErrorIs(t, registry.Register(duplicate), provenance.ErrDuplicateOperationID)

	node, found := registry.Get(existing)
	require.True(t, found)
	assert.Equal(t, "cube", node.Type())
}

func Test_Registry_Get_UnknownID_ReportsNotFound(t *testing.T) {
	registry := givenRegistry(t)

	node, found := registry.Get("op-1")

	assert.False(t, found)
	assert.False(t, node.IsRegistered())
	assert.False(t, registry.Has("op-1"))
}

func Test_Registry_BuildTree(t *testing.T) {
	registry := givenRegistry(t)

	// a -> b -> d, a -> c -> d, e unrelated
	a := givenNodeWasRegistered(t, registry, "a")
	b := givenNodeWasRegistered(t, registry, "b", a)
	c := givenNodeWasRegistered(t, registry, "c", a)
	d := givenNodeWasRegistered(t, registry, "d", b, c)
	givenNodeWasRegistered(t, registry, "e")
	f := givenNodeWasRegistered(t, registry, "f", c, a, c)

	tests := []struct {
		name     string
		rootID   provenance.OperationID
		expected []string
	}{
		{name: "leaf", rootID: a, expected: []string{"a"}},
		{name: "chain", rootID: b, expected: []string{"a", "b"}},
		{name: "diamond_lists_shared_upstream_once", rootID: d, expected: []string{"a", "b", "c", "d"}},
		{name: "first_reached_position_wins", rootID: f, expected: []string{"a", "c", "f"}},
		{name: "unknown_root_yields_empty_sequence", rootID: "op-404", expected: []string{}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tree := registry.BuildTree(tc.rootID)

			assert.NotNil(t, tree)
			assert.Equal(t, tc.expected, typesOf(tree))

			if len(tree) > 0 {
				assert.Equal(t, tc.rootID, tree[len(tree)-1].ID(), "the last entry must be the root")
			}
		})
	}
}

func Test_Registry_Clear(t *testing.T) {
	metrics := NewMetricsCollectorSpy()
	logHandler := NewLogHandlerSpy(false)
	registry := givenRegistry(t, provenance.WithMetrics(metrics), provenance.WithLogger(slog.New(logHandler)))

	a := givenNodeWasRegistered(t, registry, "a")
	givenNodeWasRegistered(t, registry, "b", a)
	generationBefore := registry.Generation()

	registry.Clear()

	assert.Equal(t, 0, registry.Len())
	assert.Empty(t, registry.BuildTree(a))
	assert.Empty(t, registry.Nodes())
	assert.Equal(t, generationBefore+1, registry.Generation())
	assert.Equal(t, provenance.OperationID("op-1"), registry.GenerateID(), "the id sequence must start over")
	assert.True(t, logHandler.HasLogWithMessage(slog.LevelInfo, "registry cleared").
		WithAttribute("node_count", "2").
		Assert())

	size, recorded := metrics.LastValueForMetric("provenance_registry_size")
	assert.True(t, recorded)
	assert.Zero(t, size)
}

func Test_Registry_WithMetrics_RecordsSizeAfterRegistration(t *testing.T) {
	metrics := NewMetricsCollectorSpy()
	registry := givenRegistry(t, provenance.WithMetrics(metrics))

	a := givenNodeWasRegistered(t, registry, "a")
	givenNodeWasRegistered(t, registry, "b", a)

	size, recorded := metrics.LastValueForMetric("provenance_registry_size")
	assert.True(t, recorded)
	assert.InDelta(t, 2.0, size, 0)
}

func Test_Registry_Query_ReturnsMatchingNodesInSequenceOrder(t *testing.T) {
	registry := givenRegistry(t)

	a := givenNodeWasRegistered(t, registry, "cube")
	givenNodeWasRegistered(t, registry, "sphere")
	c := givenNodeWasRegistered(t, registry, "translate", a)

	filter := provenance.BuildNodeFilter().
		Matching().
		AnyOperationTypeOf("translate", "cube").
		Finalize()

	nodes := registry.Query(filter)

	require.Len(t, nodes, 2)
	assert.Equal(t, a, nodes[0].ID())
	assert.Equal(t, c, nodes[1].ID())
	assert.Len(t, registry.Nodes(), 3)
}

func Test_NewRegistry_InvalidOptions_Fail(t *testing.T) {
	_, err := provenance.NewRegistry(provenance.WithIDFormat(nil))
	assert.ErrorIs(t, err, provenance.ErrNilIDFormat)

	_, err = provenance.NewRegistry(provenance.WithClock(nil))
	assert.ErrorIs(t, err, provenance.ErrNilClock)
}

func Test_Registry_WithUUIDIDs_GeneratesDeterministicUUIDs(t *testing.T) {
	namespace := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	registry := givenRegistry(t, provenance.WithIDFormat(provenance.UUIDIDs(namespace)))

	first := registry.GenerateID()
	second := registry.GenerateID()

	parsed, err := uuid.Parse(first.String())
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(5), parsed.Version())
	assert.NotEqual(t, first, second)

	registry.Clear()
	assert.Equal(t, first, registry.GenerateID(), "the id sequence must start over")
}

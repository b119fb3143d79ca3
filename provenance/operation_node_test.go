package provenance_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/operation-provenance-go/provenance"
)

func Test_BuildOperationNode(t *testing.T) {
	t.Run("rejects_empty_id", func(t *testing.T) {
		_, err := provenance.BuildOperationNode("", "cube", nil, nil)
		assert.ErrorIs(t, err, provenance.ErrEmptyOperationID)
	})

	t.Run("rejects_empty_type", func(t *testing.T) {
		_, err := provenance.BuildOperationNode("op-1", "", nil, nil)
		assert.ErrorIs(t, err, provenance.ErrEmptyOperationType)
	})

	t.Run("is_not_registered_until_registry_assigns_sequence", func(t *testing.T) {
		node, err := provenance.BuildOperationNode("op-1", "cube", nil, nil)
		require.NoError(t, err)

		assert.False(t, node.IsRegistered())
		assert.Empty(t, node.InputIDs())
		assert.NotNil(t, node.Metadata())
	})

	t.Run("is_immune_to_later_changes_of_its_inputs", func(t *testing.T) {
		inputIDs := provenance.OperationIDs{"op-1"}
		parameters := []any{1.0, 2.0}
		metadata := provenance.MetadataWithParameters(parameters...)

		node, err := provenance.BuildOperationNode("op-2", "translate", inputIDs, metadata)
		require.NoError(t, err)

		inputIDs[0] = "op-99"
		metadata["extra"] = true
		parameters[0] = 42.0

		assert.Equal(t, provenance.OperationIDs{"op-1"}, node.InputIDs())
		assert.NotContains(t, node.Metadata(), "extra")
		assert.Equal(t, []any{1.0, 2.0}, node.Parameters())
	})

	t.Run("accessors_return_copies", func(t *testing.T) {
		node, err := provenance.BuildOperationNode("op-2", "translate", provenance.OperationIDs{"op-1"}, nil)
		require.NoError(t, err)

		node.InputIDs()[0] = "op-99"
		node.Metadata()["extra"] = true

		assert.Equal(t, provenance.OperationIDs{"op-1"}, node.InputIDs())
		assert.NotContains(t, node.Metadata(), "extra")
	})
}

func Test_RegisteredNode_ChangingReturnedParameters_LeavesRegistryUnchanged(t *testing.T) {
	registry := givenRegistry(t)
	id := registry.GenerateID()
	node, err := provenance.BuildOperationNode(id, "A", nil, provenance.MetadataWithParameters(1, 2))
	require.NoError(t, err)
	require.NoError(t, registry.Register(node))

	got, found := registry.Get(id)
	require.True(t, found)
	got.Parameters()[0] = "changed"
	got.Metadata().Parameters()[1] = "changed"
	registry.BuildTree(id)[0].Parameters()[0] = "changed"

	again, found := registry.Get(id)
	require.True(t, found)
	assert.Equal(t, []any{1, 2}, again.Parameters())
	assert.Equal(t, []any{1, 2}, registry.BuildTree(id)[0].Metadata().Parameters())
}

func Test_Metadata_Parameters_ReturnsCopy(t *testing.T) {
	metadata := provenance.MetadataWithParameters("a", "b")

	metadata.Parameters()[0] = "changed"

	assert.Equal(t, []any{"a", "b"}, metadata.Parameters())
}

func Test_MetadataWithParameters_WithoutArguments_HoldsEmptyParameters(t *testing.T) {
	metadata := provenance.MetadataWithParameters()

	assert.Contains(t, metadata, provenance.MetadataKeyParameters)
	assert.NotNil(t, metadata.Parameters())
	assert.Empty(t, metadata.Parameters())
}

func Test_Metadata_Parameters_Missing_ReturnsNil(t *testing.T) {
	assert.Nil(t, provenance.Metadata{"source": "scene"}.Parameters())
}

func Test_Metadata_WithInputParameterPositions(t *testing.T) {
	metadata := provenance.MetadataWithParameters("a", "b")

	withPositions := metadata.WithInputParameterPositions(1)
	withPositions.InputParameterPositions()[0] = 7

	assert.Equal(t, []int{1}, withPositions.InputParameterPositions())
	assert.Equal(t, []int{1}, withPositions.Clone().InputParameterPositions())
	assert.Nil(t, metadata.InputParameterPositions(), "the receiver must stay untouched")
	assert.Equal(t, metadata, metadata.WithInputParameterPositions())
}

package provenance_test

import (
	"testing"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/operation-provenance-go/provenance"
)

func givenTranslatedCube(t *testing.T, registry *provenance.Registry, offset float64) provenance.OperationID {
	t.Helper()

	cube := registry.GenerateID()
	cubeNode, err := provenance.BuildOperationNode(cube, "cube", nil, provenance.MetadataWithParameters(1.0))
	require.NoError(t, err)
	require.NoError(t, registry.Register(cubeNode))

	translated := registry.GenerateID()
	translatedNode, err := provenance.BuildOperationNode(
		translated,
		"translate",
		provenance.OperationIDs{cube},
		provenance.MetadataWithParameters(offset, 0.0, 0.0),
	)
	require.NoError(t, err)
	require.NoError(t, registry.Register(translatedNode))

	return translated
}

func Test_BuildTreeSnapshot(t *testing.T) {
	registry := givenRegistry(t)
	root := givenTranslatedCube(t, registry, 2.0)

	snapshot, err := provenance.BuildTreeSnapshot(registry, root)
	require.NoError(t, err)

	rootNode, found := snapshot.Root()
	require.True(t, found)
	assert.Equal(t, root, rootNode.ID())
	assert.Len(t, snapshot.Records(), 2)
	assert.Equal(t, fakeClock, snapshot.CreatedAt)

	_, err = provenance.BuildTreeSnapshot(registry, "op-404")
	assert.ErrorIs(t, err, provenance.ErrUnknownRootOperation)

	_, err = provenance.BuildTreeSnapshot(nil, root)
	assert.ErrorIs(t, err, provenance.ErrNilRegistry)
}

func Test_TreeSnapshot_MarshalJSON(t *testing.T) {
	registry := givenRegistry(t)
	root := givenTranslatedCube(t, registry, 2.0)

	snapshot, err := provenance.BuildTreeSnapshot(registry, root)
	require.NoError(t, err)

	data, err := snapshot.MarshalJSON()
	require.NoError(t, err)

	var decoded struct {
		RootID string `json:"root_id"`
		Nodes  []struct {
			ID       string         `json:"id"`
			Type     string         `json:"type"`
			InputIDs []string       `json:"input_ids"`
			Metadata map[string]any `json:"metadata"`
			Sequence uint           `json:"sequence"`
		} `json:"nodes"`
	}
	require.NoError(t, jsoniter.Unmarshal(data, &decoded))

	assert.Equal(t, root.String(), decoded.RootID)
	require.Len(t, decoded.Nodes, 2)
	assert.Equal(t, "cube", decoded.Nodes[0].Type)
	assert.Empty(t, decoded.Nodes[0].InputIDs)
	assert.Equal(t, []string{decoded.Nodes[0].ID}, decoded.Nodes[1].InputIDs)
	assert.Equal(t, []any{2.0, 0.0, 0.0}, decoded.Nodes[1].Metadata["parameters"])
	assert.Equal(t, uint(2), decoded.Nodes[1].Sequence)
}

func Test_TreeSnapshot_MarshalJSON_UnserializableParameter_Fails(t *testing.T) {
	registry := givenRegistry(t)

	id := registry.GenerateID()
	node, err := provenance.BuildOperationNode(id, "callback", nil, provenance.MetadataWithParameters(func() {}))
	require.NoError(t, err)
	require.NoError(t, registry.Register(node))

	snapshot, err := provenance.BuildTreeSnapshot(registry, id)
	require.NoError(t, err)

	_, err = snapshot.MarshalJSON()
	assert.ErrorIs(t, err, provenance.ErrMarshalingTreeFailed)
}

func Test_TreeSnapshot_DerivationDigest(t *testing.T) {
	registry := givenRegistry(t)

	first := givenTranslatedCube(t, registry, 2.0)
	identical := givenTranslatedCube(t, registry, 2.0)
	different := givenTranslatedCube(t, registry, 3.0)

	digestOf := func(root provenance.OperationID) string {
		snapshot, err := provenance.BuildTreeSnapshot(registry, root)
		require.NoError(t, err)

		return snapshot.DerivationDigest()
	}

	assert.NotEqual(t, first, identical)
	assert.Equal(t, digestOf(first), digestOf(identical), "identical derivations must share a digest")
	assert.NotEqual(t, digestOf(first), digestOf(different))
	assert.Len(t, digestOf(first), 64)
	assert.Empty(t, provenance.TreeSnapshot{}.DerivationDigest())
}

func givenLeaf(t *testing.T, registry *provenance.Registry, metadata provenance.Metadata) provenance.OperationID {
	t.Helper()

	id := registry.GenerateID()
	node, err := provenance.BuildOperationNode(id, "leaf", nil, metadata)
	require.NoError(t, err)
	require.NoError(t, registry.Register(node))

	return id
}

func givenDigest(t *testing.T, registry *provenance.Registry, root provenance.OperationID) string {
	t.Helper()

	snapshot, err := provenance.BuildTreeSnapshot(registry, root)
	require.NoError(t, err)

	return snapshot.DerivationDigest()
}

func Test_TreeSnapshot_DerivationDigest_KeepsAdjacentParametersApart(t *testing.T) {
	registry := givenRegistry(t)

	joined := givenLeaf(t, registry, provenance.MetadataWithParameters("a b"))
	split := givenLeaf(t, registry, provenance.MetadataWithParameters("a", "b"))
	typed := givenLeaf(t, registry, provenance.MetadataWithParameters(1))
	quoted := givenLeaf(t, registry, provenance.MetadataWithParameters("1"))

	assert.NotEqual(t, givenDigest(t, registry, joined), givenDigest(t, registry, split))
	assert.NotEqual(t, givenDigest(t, registry, typed), givenDigest(t, registry, quoted))
}

func Test_TreeSnapshot_DerivationDigest_IgnoresPointerIdentity(t *testing.T) {
	type dimensions struct {
		Width  float64
		Height float64
	}

	registry := givenRegistry(t)

	first := givenLeaf(t, registry, provenance.MetadataWithParameters(&dimensions{Width: 1, Height: 2}))
	second := givenLeaf(t, registry, provenance.MetadataWithParameters(&dimensions{Width: 1, Height: 2}))
	different := givenLeaf(t, registry, provenance.MetadataWithParameters(&dimensions{Width: 1, Height: 3}))

	assert.Equal(t, givenDigest(t, registry, first), givenDigest(t, registry, second))
	assert.NotEqual(t, givenDigest(t, registry, first), givenDigest(t, registry, different))
}

func Test_TreeSnapshot_DerivationDigest_SkipsInputParameters(t *testing.T) {
	registry := givenRegistry(t)

	derive := func(inputValue float64) provenance.OperationID {
		input := givenLeaf(t, registry, provenance.MetadataWithParameters(1.0))

		id := registry.GenerateID()
		metadata := provenance.MetadataWithParameters(inputValue, 2.0).WithInputParameterPositions(0)
		node, err := provenance.BuildOperationNode(id, "scale", provenance.OperationIDs{input}, metadata)
		require.NoError(t, err)
		require.NoError(t, registry.Register(node))

		return id
	}

	assert.Equal(t, givenDigest(t, registry, derive(10.0)), givenDigest(t, registry, derive(20.0)))
}

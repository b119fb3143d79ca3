package scene_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/operation-provenance-go/example/geometry/scene"
)

const bracketScene = `
name: bracket
steps:
  - name: plate
    op: cube
    params: {size: [4, 2, 0.5]}
  - name: hole
    op: cylinder
    params: {height: 1, radius: 0.4, segments: 24}
  - name: placed_hole
    op: translate
    from: [hole]
    params: {offset: [1, 1, -0.25]}
  - name: drilled
    op: subtract
    from: [plate, placed_hole]
`

func Test_Parse_ValidScene(t *testing.T) {
	s, err := scene.Parse([]byte(bracketScene))
	require.NoError(t, err)

	assert.Equal(t, "bracket", s.Name)
	require.Len(t, s.Steps, 4)
	assert.Equal(t, "subtract", s.Steps[3].Op)
	assert.Equal(t, []string{"plate", "placed_hole"}, s.Steps[3].From)
	assert.Equal(t, scene.Vector{1, 1, -0.25}, s.Steps[2].Params.Offset)
	assert.Equal(t, 24, s.Steps[1].Params.Segments)
}

func Test_Parse_InvalidScenes_Fail(t *testing.T) {
	tests := []struct {
		name        string
		yaml        string
		expectedErr error
	}{
		{
			name:        "empty_document",
			yaml:        "",
			expectedErr: scene.ErrEmptyScene,
		},
		{
			name:        "no_steps",
			yaml:        "name: nothing\nsteps: []\n",
			expectedErr: scene.ErrEmptyScene,
		},
		{
			name:        "step_without_name",
			yaml:        "steps:\n  - op: empty\n",
			expectedErr: scene.ErrInvalidStep,
		},
		{
			name:        "duplicate_step",
			yaml:        "steps:\n  - {name: a, op: empty}\n  - {name: a, op: empty}\n",
			expectedErr: scene.ErrDuplicateStep,
		},
		{
			name:        "unsupported_operation",
			yaml:        "steps:\n  - {name: a, op: extrude}\n",
			expectedErr: scene.ErrUnsupportedOperation,
		},
		{
			name:        "forward_reference",
			yaml:        "steps:\n  - {name: a, op: translate, from: [b]}\n  - {name: b, op: empty}\n",
			expectedErr: scene.ErrUnknownStep,
		},
		{
			name:        "factory_with_input",
			yaml:        "steps:\n  - {name: a, op: empty}\n  - {name: b, op: empty, from: [a]}\n",
			expectedErr: scene.ErrInvalidStep,
		},
		{
			name:        "boolean_with_one_input",
			yaml:        "steps:\n  - {name: a, op: empty}\n  - {name: b, op: add, from: [a]}\n",
			expectedErr: scene.ErrInvalidStep,
		},
		{
			name:        "union_without_inputs",
			yaml:        "steps:\n  - {name: a, op: union_all}\n",
			expectedErr: scene.ErrInvalidStep,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := scene.Parse([]byte(tc.yaml))
			assert.ErrorIs(t, err, tc.expectedErr)
		})
	}
}

func Test_Parse_UnknownKey_Fails(t *testing.T) {
	_, err := scene.Parse([]byte("steps:\n  - {name: a, op: cube, params: {edge: 1}}\n"))

	assert.ErrorContains(t, err, "failed to parse scene")
}

func Test_Load(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bracket.yaml")
	require.NoError(t, os.WriteFile(path, []byte(bracketScene), 0o600))

	s, err := scene.Load(path)
	require.NoError(t, err)
	assert.Len(t, s.Steps, 4)

	_, err = scene.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func Test_Operations_ListsEverySupportedOperation(t *testing.T) {
	assert.Equal(t, []string{
		"add", "compose", "cube", "cylinder", "empty", "intersect", "mirror",
		"refine", "rotate", "scale", "sphere", "subtract", "translate", "union_all",
	}, scene.Operations())
}

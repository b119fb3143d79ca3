package scene

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/AntonStoeckl/operation-provenance-go/example/geometry/kernel"
)

var ErrEmptyScene = errors.New("scene has no steps")
var ErrInvalidStep = errors.New("invalid step")
var ErrUnknownStep = errors.New("unknown step")
var ErrDuplicateStep = errors.New("duplicate step")
var ErrUnsupportedOperation = errors.New("unsupported operation")
var ErrInvalidVector = errors.New("vector must have exactly three components")

// Scene is a named, ordered list of steps. Each step may only refer to steps declared before it.
type Scene struct {
	Name  string `yaml:"name"`
	Steps []Step `yaml:"steps"`
}

// Step applies one kernel operation. Factories take no inputs, transforms take one, boolean operations
// take two and compose/union_all take one or more.
type Step struct {
	Name   string   `yaml:"name"`
	Op     string   `yaml:"op"`
	From   []string `yaml:"from,omitempty"`
	Params Params   `yaml:"params,omitempty"`
}

// Params holds the parameters of every supported operation; each operation reads only its own.
type Params struct {
	Size       Vector   `yaml:"size,omitempty"`
	Center     bool     `yaml:"center,omitempty"`
	Radius     float64  `yaml:"radius,omitempty"`
	RadiusLow  float64  `yaml:"radius_low,omitempty"`
	RadiusHigh *float64 `yaml:"radius_high,omitempty"`
	Height     float64  `yaml:"height,omitempty"`
	Segments   int      `yaml:"segments,omitempty"`
	Offset     Vector   `yaml:"offset,omitempty"`
	Factor     Vector   `yaml:"factor,omitempty"`
	Degrees    Vector   `yaml:"degrees,omitempty"`
	Normal     Vector   `yaml:"normal,omitempty"`
	N          int      `yaml:"n,omitempty"`
}

// Vector is a YAML sequence of three numbers.
type Vector []float64

func (v Vector) vec3() (kernel.Vec3, error) {
	if len(v) != 3 {
		return kernel.Vec3{}, fmt.Errorf("%w, got %v", ErrInvalidVector, []float64(v))
	}

	return kernel.V(v[0], v[1], v[2]), nil
}

// cylinderRadii returns the bottom and top radius: radius_low falls back to radius, radius_high to the bottom radius.
func (p Params) cylinderRadii() (float64, float64) {
	low := p.RadiusLow
	if low == 0 {
		low = p.Radius
	}

	if p.RadiusHigh != nil {
		return low, *p.RadiusHigh
	}

	return low, low
}

// Load reads and validates the scene file at path.
func Load(path string) (Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Scene{}, fmt.Errorf("failed to read scene: %w", err)
	}

	return Parse(data)
}

// Parse decodes and validates a YAML scene. Unknown keys are rejected.
func Parse(data []byte) (Scene, error) {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	var s Scene
	if err := decoder.Decode(&s); err != nil {
		if errors.Is(err, io.EOF) {
			return Scene{}, ErrEmptyScene
		}

		return Scene{}, fmt.Errorf("failed to parse scene: %w", err)
	}

	if err := s.Validate(); err != nil {
		return Scene{}, err
	}

	return s, nil
}

// Validate checks step names, operations, input counts and references.
func (s Scene) Validate() error {
	if len(s.Steps) == 0 {
		return ErrEmptyScene
	}

	declared := make(map[string]struct{}, len(s.Steps))

	for i, step := range s.Steps {
		if step.Name == "" {
			return fmt.Errorf("%w: step %d has no name", ErrInvalidStep, i)
		}

		if _, ok := declared[step.Name]; ok {
			return fmt.Errorf("%w: %q", ErrDuplicateStep, step.Name)
		}

		op, ok := operations[step.Op]
		if !ok {
			return fmt.Errorf("%w: step %q uses %q", ErrUnsupportedOperation, step.Name, step.Op)
		}

		if !op.accepts(len(step.From)) {
			return fmt.Errorf(
				"%w: step %q: %s takes %s, got %d",
				ErrInvalidStep, step.Name, step.Op, op.arity, len(step.From),
			)
		}

		for _, from := range step.From {
			if _, ok := declared[from]; !ok {
				return fmt.Errorf("%w: step %q refers to %q", ErrUnknownStep, step.Name, from)
			}
		}

		declared[step.Name] = struct{}{}
	}

	return nil
}

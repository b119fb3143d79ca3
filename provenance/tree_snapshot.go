package provenance

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
)

// ErrMarshalingTreeFailed is returned when a TreeSnapshot can't be rendered as JSON,
// typically because a recorded parameter is not serializable.
var ErrMarshalingTreeFailed = errors.New("marshaling operation tree failed")

// TreeSnapshot is the derivation history of one operation, captured at a point in time.
// Nodes are in dependency order: every node is preceded by all of its inputs, the root is last.
type TreeSnapshot struct {
	RootID    OperationID
	Nodes     OperationNodes
	CreatedAt time.Time
}

// NodeRecord is the exported, serializable form of an OperationNode.
type NodeRecord struct {
	ID        OperationID        `json:"id" yaml:"id"`
	Type      string             `json:"type" yaml:"type"`
	InputIDs  OperationIDs       `json:"input_ids" yaml:"input_ids"`
	Metadata  Metadata           `json:"metadata" yaml:"metadata"`
	Sequence  SequenceNumberUint `json:"sequence" yaml:"sequence"`
	CreatedAt time.Time          `json:"created_at" yaml:"created_at"`
}

type treeSnapshotRecord struct {
	RootID    OperationID  `json:"root_id"`
	CreatedAt time.Time    `json:"created_at"`
	Nodes     []NodeRecord `json:"nodes"`
}

// BuildTreeSnapshot captures the derivation history of rootID from the registry.
//
// Returns ErrUnknownRootOperation if rootID is not registered.
func BuildTreeSnapshot(registry *Registry, rootID OperationID) (TreeSnapshot, error) {
	if registry == nil {
		return TreeSnapshot{}, ErrNilRegistry
	}

	if !registry.Has(rootID) {
		return TreeSnapshot{}, fmt.Errorf("%w: %q", ErrUnknownRootOperation, rootID)
	}

	return TreeSnapshot{
		RootID:    rootID,
		Nodes:     registry.BuildTree(rootID),
		CreatedAt: registry.now(),
	}, nil
}

// Root returns the root node of the snapshot.
func (s TreeSnapshot) Root() (OperationNode, bool) {
	if len(s.Nodes) == 0 {
		return OperationNode{}, false
	}

	return s.Nodes[len(s.Nodes)-1], true
}

// Records returns the serializable form of the snapshot's nodes.
func (s TreeSnapshot) Records() []NodeRecord {
	return RecordsOf(s.Nodes)
}

// RecordsOf returns the serializable form of the given nodes, e.g. the result of a Registry.Query.
func RecordsOf(nodes OperationNodes) []NodeRecord {
	records := make([]NodeRecord, 0, len(nodes))
	for _, node := range nodes {
		records = append(records, NodeRecord{
			ID:        node.id,
			Type:      node.operationType,
			InputIDs:  node.InputIDs(),
			Metadata:  node.Metadata(),
			Sequence:  node.sequence,
			CreatedAt: node.createdAt,
		})
	}

	return records
}

// MarshalJSON implements json.Marshaler.
func (s TreeSnapshot) MarshalJSON() ([]byte, error) {
	data, err := jsoniter.ConfigFastest.Marshal(treeSnapshotRecord{
		RootID:    s.RootID,
		CreatedAt: s.CreatedAt,
		Nodes:     s.Records(),
	})
	if err != nil {
		return nil, errors.Join(ErrMarshalingTreeFailed, err)
	}

	return data, nil
}

// DerivationDigest returns a hex-encoded sha256 over the id-independent shape of the derivation:
// operation types, plain parameters and the positions of each node's inputs within the tree.
//
// Two values produced by identical call sequences share a digest, although their operation ids differ.
// Parameters that held tracked values are skipped, their identity is covered by the input positions.
// Each remaining parameter is rendered by its dynamic type and its JSON encoding, so pointers to equal
// values digest the same.
func (s TreeSnapshot) DerivationDigest() string {
	if len(s.Nodes) == 0 {
		return ""
	}

	positions := make(map[OperationID]int, len(s.Nodes))
	var canonical strings.Builder

	for position, node := range s.Nodes {
		positions[node.id] = position

		canonical.WriteString(strconv.Itoa(position))
		canonical.WriteByte('|')
		writeDelimited(&canonical, node.operationType)

		for i, inputID := range node.inputIDs {
			if i > 0 {
				canonical.WriteByte(',')
			}
			canonical.WriteString(strconv.Itoa(positions[inputID]))
		}

		canonical.WriteByte('|')
		inputParameters := node.metadata.InputParameterPositions()
		for i, parameter := range node.metadata.Parameters() {
			if slices.Contains(inputParameters, i) {
				continue
			}

			canonical.WriteString(strconv.Itoa(i))
			canonical.WriteByte(':')
			writeDelimited(&canonical, renderParameter(parameter))
		}

		canonical.WriteByte('\n')
	}

	sum := sha256.Sum256([]byte(canonical.String()))

	return hex.EncodeToString(sum[:])
}

// writeDelimited writes value length-prefixed and terminated, so adjacent values can't run into each other.
func writeDelimited(canonical *strings.Builder, value string) {
	canonical.WriteString(strconv.Itoa(len(value)))
	canonical.WriteByte(':')
	canonical.WriteString(value)
	canonical.WriteByte(';')
}

func renderParameter(parameter any) string {
	encoded, err := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(parameter)
	if err != nil {
		return fmt.Sprintf("%T:%#v", parameter, parameter)
	}

	return fmt.Sprintf("%T:%s", parameter, encoded)
}

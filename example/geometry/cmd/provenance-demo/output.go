package main

import (
	"fmt"
	"io"

	jsoniter "github.com/json-iterator/go"
	"gopkg.in/yaml.v3"

	"github.com/AntonStoeckl/operation-provenance-go/provenance"
)

// treeDocument is the printed form of one solid's operation tree.
type treeDocument struct {
	Step   string                  `json:"step" yaml:"step"`
	RootID provenance.OperationID  `json:"root_id" yaml:"root_id"`
	Digest string                  `json:"digest" yaml:"digest"`
	Nodes  []provenance.NodeRecord `json:"nodes" yaml:"nodes"`
}

func newTreeDocument(step string, snapshot provenance.TreeSnapshot) treeDocument {
	return treeDocument{
		Step:   step,
		RootID: snapshot.RootID,
		Digest: snapshot.DerivationDigest(),
		Nodes:  snapshot.Records(),
	}
}

// queryDocument is the printed form of the registered nodes selected by a query.
type queryDocument struct {
	Scene string                  `json:"scene" yaml:"scene"`
	Types []string                `json:"types,omitempty" yaml:"types,omitempty"`
	Nodes []provenance.NodeRecord `json:"nodes" yaml:"nodes"`
}

func writeTreeDocument(out io.Writer, format string, doc treeDocument) error {
	return writeDocument(out, format, "operation tree", doc)
}

func writeQueryDocument(out io.Writer, format string, doc queryDocument) error {
	return writeDocument(out, format, "query result", doc)
}

func writeDocument(out io.Writer, format, what string, doc any) error {
	switch format {
	case outputJSON:
		data, err := jsoniter.ConfigCompatibleWithStandardLibrary.MarshalIndent(doc, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode %s: %w", what, err)
		}

		_, err = fmt.Fprintln(out, string(data))

		return err

	case outputYAML:
		encoder := yaml.NewEncoder(out)
		encoder.SetIndent(2)

		if err := encoder.Encode(doc); err != nil {
			return fmt.Errorf("failed to encode %s: %w", what, err)
		}

		return encoder.Close()

	default:
		return validateOutput(format)
	}
}

func validateOutput(format string) error {
	if format != outputJSON && format != outputYAML {
		return fmt.Errorf("invalid --output %q (expected %s|%s)", format, outputJSON, outputYAML)
	}

	return nil
}

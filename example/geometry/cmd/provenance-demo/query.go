package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/AntonStoeckl/operation-provenance-go/example/geometry/scene"
	"github.com/AntonStoeckl/operation-provenance-go/provenance"
)

func newQueryCmd(s *settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query <scene.yaml>",
		Short: "Evaluate a scene and list the registered operations, optionally by type",
		Long: "Evaluates every step of the scene and prints all registered operation nodes in registration order.\n" +
			"With --type only nodes of the given operation types are printed, with --after only those registered later.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			if err := validateOutput(s.output); err != nil {
				return err
			}

			sc, err := scene.Load(args[0])
			if err != nil {
				return err
			}

			sess, err := openSession(cmd.Context(), s, "query", cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer func() {
				err = errors.Join(err, sess.close(cmd.Context()))
			}()

			if _, err := scene.Evaluate(sess.kernel, sc); err != nil {
				return err
			}

			registry := sess.tracker.Registry()
			nodes := registry.Nodes()
			if len(s.types) > 0 || s.after > 0 {
				nodes = registry.Query(nodeFilterOf(s.types, s.after))
			}

			return writeQueryDocument(cmd.OutOrStdout(), s.output, queryDocument{
				Scene: sc.Name,
				Types: s.types,
				Nodes: provenance.RecordsOf(nodes),
			})
		},
	}

	cmd.Flags().StringVarP(&s.output, "output", "o", outputJSON, "Output format (json|yaml)")
	cmd.Flags().StringSliceVar(&s.types, "type", nil, "Operation types to list, e.g. Translate,Subtract (defaults to all)")
	cmd.Flags().UintVar(&s.after, "after", 0, "Only list nodes with a sequence number higher than this")

	return cmd
}

func nodeFilterOf(types []string, after provenance.SequenceNumberUint) provenance.NodeFilter {
	builder := provenance.BuildNodeFilter().WithSequenceHigherThan(after)
	if len(types) == 0 {
		return builder.Finalize()
	}

	return builder.Matching().AnyOperationTypeOf(types[0], types[1:]...).Finalize()
}

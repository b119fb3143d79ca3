package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/AntonStoeckl/operation-provenance-go/example/geometry/scene"
)

func newEvaluateCmd(s *settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "evaluate <scene.yaml>",
		Short: "Evaluate a scene and print the operation tree of one step",
		Long:  "Evaluates every step of the scene and prints the operation tree of the selected step, the last one by default.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			if err := validateOutput(s.output); err != nil {
				return err
			}

			sc, err := scene.Load(args[0])
			if err != nil {
				return err
			}

			sess, err := openSession(cmd.Context(), s, "evaluate", cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer func() {
				err = errors.Join(err, sess.close(cmd.Context()))
			}()

			result, err := scene.Evaluate(sess.kernel, sc)
			if err != nil {
				return err
			}

			step, err := selectStep(result, s.step)
			if err != nil {
				return err
			}

			snapshot, err := result.Snapshot(step)
			if err != nil {
				return err
			}

			return writeTreeDocument(cmd.OutOrStdout(), s.output, newTreeDocument(step, snapshot))
		},
	}

	cmd.Flags().StringVarP(&s.output, "output", "o", outputJSON, "Output format (json|yaml)")
	cmd.Flags().StringVar(&s.step, "step", "", "Step to print (defaults to the last step)")

	return cmd
}

// selectStep returns step, or the name of the last step when step is empty.
func selectStep(result scene.Result, step string) (string, error) {
	if step != "" {
		if _, ok := result.Solid(step); !ok {
			return "", fmt.Errorf("%w: %q", scene.ErrUnknownStep, step)
		}

		return step, nil
	}

	name, _, ok := result.Final()
	if !ok {
		return "", scene.ErrEmptyScene
	}

	return name, nil
}

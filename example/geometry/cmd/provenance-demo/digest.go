package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/AntonStoeckl/operation-provenance-go/example/geometry/scene"
)

func newDigestCmd(s *settings) *cobra.Command {
	return &cobra.Command{
		Use:   "digest <scene.yaml>",
		Short: "Print the derivation digest of every step",
		Long: "Evaluates the scene and prints one line per step: the step name and the digest of its derivation.\n" +
			"The digest does not depend on operation ids, so unchanged steps keep their digest across runs.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			sc, err := scene.Load(args[0])
			if err != nil {
				return err
			}

			sess, err := openSession(cmd.Context(), s, "digest", cmd.ErrOrStderr())
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

			for _, step := range result.Names() {
				snapshot, snapshotErr := result.Snapshot(step)
				if snapshotErr != nil {
					return snapshotErr
				}

				if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", step, snapshot.DerivationDigest()); err != nil {
					return err
				}
			}

			return nil
		},
	}
}

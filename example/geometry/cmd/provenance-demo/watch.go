package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/AntonStoeckl/operation-provenance-go/example/geometry/scene"
	"github.com/AntonStoeckl/operation-provenance-go/provenance/zapadapters"
)

func newWatchCmd(s *settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch <scene.yaml>",
		Short: "Re-evaluate a scene whenever its file changes",
		Long: "Evaluates the scene, then re-evaluates it after every change of the file until interrupted.\n" +
			"Each evaluation starts from a reset tracker and prints the digest and node count of the selected step.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			sess, err := openSession(ctx, s, "watch", cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer func() {
				err = errors.Join(err, sess.close(context.WithoutCancel(ctx)))
			}()

			out := cmd.OutOrStdout()
			sc, loadErr := scene.Load(args[0])
			report(out, sess, s.step, sc, loadErr)

			watcher, err := scene.NewWatcher(args[0], func(changed scene.Scene, changeErr error) {
				report(out, sess, s.step, changed, changeErr)
			}, scene.WithDebounce(s.debounce), scene.WithLogger(zapadapters.NewLogger(sess.logger)))
			if err != nil {
				return err
			}

			return watcher.Run(ctx)
		},
	}

	cmd.Flags().StringVar(&s.step, "step", "", "Step to report (defaults to the last step)")
	cmd.Flags().DurationVar(&s.debounce, "debounce", defaultDebounce, "Quiet period after the last write before re-evaluating")

	return cmd
}

// report evaluates sc on a reset tracker and prints one summary line. Failures are printed, not returned,
// so that watching continues until the file is fixed.
func report(out io.Writer, sess *session, step string, sc scene.Scene, loadErr error) {
	if loadErr != nil {
		_, _ = fmt.Fprintf(out, "error: %v\n", loadErr)
		return
	}

	sess.tracker.Reset()

	result, err := scene.Evaluate(sess.kernel, sc)
	if err != nil {
		_, _ = fmt.Fprintf(out, "error: %v\n", err)
		return
	}

	name, err := selectStep(result, step)
	if err != nil {
		_, _ = fmt.Fprintf(out, "error: %v\n", err)
		return
	}

	snapshot, err := result.Snapshot(name)
	if err != nil {
		_, _ = fmt.Fprintf(out, "error: %v\n", err)
		return
	}

	_, _ = fmt.Fprintf(out, "%s\t%s\tnodes=%d\n", name, snapshot.DerivationDigest(), len(snapshot.Nodes))
}

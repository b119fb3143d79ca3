package main

import (
	"time"

	"github.com/spf13/cobra"
)

const (
	outputJSON      = "json"
	outputYAML      = "yaml"
	idFormatCount   = "counter"
	idFormatUUID    = "uuid"
	defaultDebounce = 500 * time.Millisecond
)

// settings holds the parsed flags of one invocation.
type settings struct {
	idFormat   string
	verbose    bool
	otelStdout bool
	output     string
	step       string
	types      []string
	after      uint
	debounce   time.Duration
}

func newRootCmd() *cobra.Command {
	s := &settings{}

	rootCmd := &cobra.Command{
		Use:   "provenance-demo",
		Short: "Evaluate geometry scenes and print the provenance of every solid",
		Long: "Evaluates a YAML scene through the tracked geometry kernel.\n" +
			"Every solid records the kernel operations that produced it, which can be printed as an operation tree.",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			_, err := idFormatOf(s.idFormat)
			return err
		},
	}

	rootCmd.PersistentFlags().StringVar(&s.idFormat, "id-format", idFormatCount, "Operation id format (counter|uuid)")
	rootCmd.PersistentFlags().BoolVarP(&s.verbose, "verbose", "v", false, "Log every tracked operation")
	rootCmd.PersistentFlags().BoolVar(&s.otelStdout, "otel-stdout", false,
		"Export spans, trace-correlated logs and a metrics summary to stderr")

	rootCmd.AddCommand(newEvaluateCmd(s), newDigestCmd(s), newQueryCmd(s), newWatchCmd(s))

	return rootCmd
}

package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/parchment/internal/log"
	"github.com/zjrosen/parchment/internal/run"
	"github.com/zjrosen/parchment/internal/tracing"
)

var (
	finalizeSuccess bool
	finalizeFailed  bool
)

var runFinalizeCmd = &cobra.Command{
	Use:   "run:finalize RUN_ID",
	Short: "Close a run: stamp the outcome and end time",
	Long: `Stamp the run metadata with an end time and outcome flag, and append
a completion event to the run ledger.

Exactly one of --success or --failed is required.

Examples:
  parchment run:finalize deploy-2024-06-01 --success
  parchment run:finalize deploy-2024-06-01 --failed`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if finalizeSuccess == finalizeFailed {
			return errors.New("exactly one of --success or --failed is required")
		}
		runID := args[0]

		provider, flush := startTracing()
		defer flush()

		return tracing.Traced(cmd.Context(), provider.Tracer(), tracing.SpanRunFinalize,
			func(ctx context.Context, span trace.Span) error {
				m, err := run.NewManager(runID, cfg.RepoRoot, cfg.RunsDir)
				if err != nil {
					return err
				}

				meta, err := m.Finalize(finalizeSuccess)
				if err != nil {
					return err
				}
				span.SetAttributes(
					attribute.String(tracing.AttrRunID, runID),
					attribute.Bool(tracing.AttrRunSuccess, finalizeSuccess),
				)
				log.Info(log.CatRun, "run finalized",
					"run_id", runID, "success", finalizeSuccess)

				if err := indexRun(run.RecordFromMetadata(meta)); err != nil {
					log.ErrorErr(log.CatDB, "failed to index run", err, "run_id", runID)
				}

				outcome := "success"
				if !finalizeSuccess {
					outcome = "failed"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Finalized run %s (%s)\n", runID, outcome)
				return nil
			})
	},
}

func init() {
	runFinalizeCmd.Flags().BoolVar(&finalizeSuccess, "success", false,
		"mark the run as successful")
	runFinalizeCmd.Flags().BoolVar(&finalizeFailed, "failed", false,
		"mark the run as failed")
	rootCmd.AddCommand(runFinalizeCmd)
}

package cmd

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/parchment/internal/infrastructure/sqlite"
	"github.com/zjrosen/parchment/internal/log"
	"github.com/zjrosen/parchment/internal/run"
	"github.com/zjrosen/parchment/internal/tracing"
	"github.com/zjrosen/parchment/internal/versions"
)

var runInitCmd = &cobra.Command{
	Use:   "run:init [RUN_ID]",
	Short: "Start a run: capture the active-policy snapshot",
	Long: `Capture the set of active policies into a run directory, append the
snapshot to the run ledger, and write the run metadata.

When RUN_ID is omitted a random identifier is generated.

Examples:
  parchment run:init deploy-2024-06-01
  parchment run:init`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		runID := ""
		if len(args) == 1 {
			runID = args[0]
		}
		if runID == "" {
			runID = uuid.NewString()
		}

		provider, flush := startTracing()
		defer flush()

		return tracing.Traced(cmd.Context(), provider.Tracer(), tracing.SpanRunInitialize,
			func(ctx context.Context, span trace.Span) error {
				m, err := run.NewManager(runID, cfg.RepoRoot, cfg.RunsDir,
					versions.WithRoots(cfg.DocRoots...),
					versions.WithExtension(cfg.DocExtension),
				)
				if err != nil {
					return err
				}

				meta, snap, err := m.Initialize()
				if err != nil {
					return err
				}
				span.SetAttributes(
					attribute.String(tracing.AttrRunID, runID),
					attribute.Int(tracing.AttrPolicyCount, snap.PolicyCount),
				)
				log.Info(log.CatRun, "run initialized",
					"run_id", runID, "policies", snap.PolicyCount)

				if err := indexRun(run.RecordFromMetadata(meta)); err != nil {
					// The snapshot is on disk; a broken index is not fatal.
					log.ErrorErr(log.CatDB, "failed to index run", err, "run_id", runID)
				}

				fmt.Fprintf(cmd.OutOrStdout(), "Initialized run %s with %d active policies\n",
					runID, snap.PolicyCount)
				fmt.Fprintf(cmd.OutOrStdout(), "Run directory: %s\n", m.RunDir())
				return nil
			})
	},
}

func init() {
	rootCmd.AddCommand(runInitCmd)
}

// runIndexPath is the run index database location under the runs dir.
func runIndexPath() string {
	return filepath.Join(cfg.RunsDir, "runs.db")
}

// indexRun upserts a run record in the sqlite run index.
func indexRun(rec *run.Record) error {
	db, err := sqlite.NewDB(runIndexPath())
	if err != nil {
		return err
	}
	defer db.Close()

	repo := db.RunRepository()
	existing, err := repo.FindByRunID(rec.RunID)
	if err == nil {
		rec.ID = existing.ID
	}
	return repo.Save(rec)
}

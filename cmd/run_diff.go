package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zjrosen/parchment/internal/run"
)

var runDiffCmd = &cobra.Command{
	Use:   "run:diff RUN_A RUN_B",
	Short: "Diff the active-policy sets of two run snapshots",
	Long: `Compare the active policies captured by two runs and print a
line-based diff. Unlike run:query, both snapshots must exist.

Examples:
  parchment run:diff deploy-monday deploy-friday`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadRequiredSnapshot(args[0])
		if err != nil {
			return err
		}
		b, err := loadRequiredSnapshot(args[1])
		if err != nil {
			return err
		}

		diff := run.DiffActivePolicies(a, b)
		if diff == "" {
			fmt.Fprintf(cmd.OutOrStdout(), "Runs %s and %s have identical active policies\n",
				a.RunID, b.RunID)
			return nil
		}
		fmt.Fprint(cmd.OutOrStdout(), diff)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runDiffCmd)
}

func loadRequiredSnapshot(runID string) (*run.Snapshot, error) {
	snap, found, err := run.LoadSnapshot(cfg.RunsDir, runID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("no snapshot recorded for run %s", runID)
	}
	return snap, nil
}

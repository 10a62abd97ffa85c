package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/zjrosen/parchment/internal/presentation"
	"github.com/zjrosen/parchment/internal/run"
)

var queryTags bool

var runQueryCmd = &cobra.Command{
	Use:   "run:query RUN_ID",
	Short: "Print the persisted snapshot for a run",
	Long: `Print the policy snapshot captured when the run was initialized.

A run without a snapshot is reported as such with exit code 0; absence is
a normal answer, not an error.

Examples:
  parchment run:query deploy-2024-06-01
  parchment run:query deploy-2024-06-01 --tags`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		runID := args[0]

		snap, found, err := run.LoadSnapshot(cfg.RunsDir, runID)
		if err != nil {
			return err
		}
		if !found {
			fmt.Fprintf(cmd.OutOrStdout(), "No snapshot recorded for run %s\n", runID)
			return nil
		}

		if queryTags {
			keys := make([]string, 0, len(snap.ActivePolicies))
			for docKey := range snap.ActivePolicies {
				keys = append(keys, docKey)
			}
			sort.Strings(keys)
			for _, docKey := range keys {
				fmt.Fprintln(cmd.OutOrStdout(), run.CheckoutTag(docKey, snap.ActivePolicies[docKey]))
			}
			return nil
		}

		return presentation.NewFormatter(cmd.OutOrStdout()).FormatSnapshot(snap)
	},
}

func init() {
	runQueryCmd.Flags().BoolVar(&queryTags, "tags", false,
		"print document checkout tags instead of the snapshot")
	rootCmd.AddCommand(runQueryCmd)
}

package cmd

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/zjrosen/parchment/internal/infrastructure/sqlite"
)

var (
	runIDStyle   = lipgloss.NewStyle().Bold(true)
	openStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	failedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

var runListCmd = &cobra.Command{
	Use:   "run:list",
	Short: "List known runs from the run index",
	Long: `List all runs recorded in the run index, newest first, with their
start time, outcome, and captured policy count.

Examples:
  parchment run:list`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := sqlite.NewDB(runIndexPath())
		if err != nil {
			return err
		}
		defer db.Close()

		records, err := db.RunRepository().List()
		if err != nil {
			return err
		}
		if len(records) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded")
			return nil
		}

		for _, rec := range records {
			outcome := openStyle.Render("open")
			if rec.Success != nil {
				if *rec.Success {
					outcome = successStyle.Render("success")
				} else {
					outcome = failedStyle.Render("failed")
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  %s  %d policies\n",
				runIDStyle.Render(rec.RunID), rec.StartTime, outcome, rec.PolicyCount)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runListCmd)
}

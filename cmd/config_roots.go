package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zjrosen/parchment/internal/config"
	"github.com/zjrosen/parchment/internal/log"
)

var configRootsCmd = &cobra.Command{
	Use:   "config:roots ROOT...",
	Short: "Persist the document roots in the config file",
	Long: `Replace the doc_roots list in the active config file. Comments and
other settings are preserved.

Examples:
  parchment config:roots docs plans policies`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		check := cfg
		check.DocRoots = args
		if err := config.Validate(check); err != nil {
			return err
		}

		path := configFilePath()
		if err := config.SaveDocRoots(path, args); err != nil {
			return err
		}
		log.Info(log.CatConfig, "doc roots updated", "path", path, "roots", args)
		fmt.Fprintf(cmd.OutOrStdout(), "Updated doc_roots in %s\n", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configRootsCmd)
}

package main

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd is the maintenance CLI run next to the API.
var rootCmd = &cobra.Command{
	Use:          "worker",
	Short:        "GanttPlan maintenance tasks",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedHolidaysCmd)
	rootCmd.AddCommand(importHolidaysCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

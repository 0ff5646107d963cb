package main

import (
	"github.com/spf13/cobra"

	"github.com/ganttplan/ganttplan-backend/internal/storage/postgres"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the database schema migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd.Context())
		if err != nil {
			return err
		}
		defer e.Close()

		if err := postgres.Migrate(e.db); err != nil {
			return err
		}
		e.log.Info("migrations applied")
		return nil
	},
}

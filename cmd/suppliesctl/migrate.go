package main

import (
	"fmt"

	"supplies-backend/bootstrap"
	"supplies-backend/internal/infrastructure/database"

	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the supplies, ledger, stock and catalog tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(func(rt *bootstrap.Runtime) error {
				if err := database.AutoMigrate(rt.DB); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
				return nil
			})
		},
	}
}

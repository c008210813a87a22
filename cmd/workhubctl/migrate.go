package main

import (
	"fmt"

	"backend-workhub/internal/config"
	"backend-workhub/internal/db"

	"github.com/spf13/cobra"
)

func newMigrateCmd(e env) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create missing tables and indexes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withStore(e, func(_ config.Config, s store) error {
				if err := db.Migrate(cmd.Context(), s); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "schema is up to date")
				return nil
			})
		},
	}
}

package main

import (
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the todo table if it does not exist, then exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		srv, cleanup, err := bootstrap()
		if err != nil {
			return err
		}
		defer cleanup()

		return migrate(cmd.Context(), srv)
	},
}

package main

import (
	database "github.com/JoaoGSDC/streamline-app/Database"
	utils "github.com/JoaoGSDC/streamline-app/pkg/utils"

	"github.com/spf13/cobra"
)

func newMigrateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the database schema and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Opening the handle runs the idempotent schema bootstrap.
			connector := database.NewConnector(opts.config)
			if _, err := connector.Handle(cmd.Context()); err != nil {
				return err
			}
			defer connector.Close()

			utils.Infof("Schema ready on %s", opts.config.Database.Driver)
			return nil
		},
	}
}

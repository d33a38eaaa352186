package main

import (
	"github.com/JoaoGSDC/streamline-app/configs"
	utils "github.com/JoaoGSDC/streamline-app/pkg/utils"

	"github.com/spf13/cobra"
)

type rootOptions struct {
	configPath string
	config     *configs.Config
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:          "streamline",
		Short:        "Game tracking and stream schedule service for Twitch streamers",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			config, err := configs.LoadConfig(opts.configPath)
			if err != nil {
				return err
			}
			utils.Init(config.Log.Level)
			opts.config = config
			return nil
		},
	}
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to a TOML config file")

	cmd.AddCommand(
		newServeCmd(opts),
		newMigrateCmd(opts),
		newAgendaCmd(opts),
	)
	return cmd
}

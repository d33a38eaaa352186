package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	utils "github.com/JoaoGSDC/streamline-app/pkg/utils"
	"github.com/JoaoGSDC/streamline-app/server"

	"github.com/spf13/cobra"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the live schedule feed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.config.Validate(); err != nil {
				return fmt.Errorf("configuration validation failed: %w", err)
			}
			utils.Info("Starting Streamline server...")

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			app, err := server.New(ctx, opts.config)
			if err != nil {
				return err
			}
			return app.Run(ctx)
		},
	}
}

package cli

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/geoassist/geoassist/engine/infra/server"
)

// ServeCmd runs the HTTP API until interrupted.
func ServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			application, err := buildApp(ctx)
			if err != nil {
				return err
			}
			defer application.close(context.Background())

			srv, err := server.New(&application.cfg.Server, application.orchestrator, application.metrics)
			if err != nil {
				return err
			}
			return srv.Start(ctx)
		},
	}
}

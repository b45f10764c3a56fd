package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/leapstack-labs/emlquality/internal/server"
	"github.com/spf13/cobra"
)

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the assessment API over HTTP",
		Long: `Start an HTTP server exposing the assessment engine.

Endpoints:
  POST /v1/assessments        Assess the XML document in the body (?save=true records it)
  GET  /v1/assessments        List recorded assessments (?package_id=, ?limit=)
  GET  /v1/assessments/{id}   Show a recorded assessment
  GET  /v1/checks             List check templates
  GET  /v1/checks/{id}        Show a check template
  GET  /metrics               Prometheus metrics
  GET  /healthz               Liveness probe`,
		Example: `  # Serve on the default address
  emlquality serve

  # Serve on a custom address
  emlquality serve --addr 127.0.0.1:9090`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}

	cmd.Flags().String("addr", "", "Listen address (default :8080)")

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd, EngineOptions{WithStore: true})
	if err != nil {
		return err
	}
	defer cleanup()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(server.Config{
		Engine: cmdCtx.Engine,
		Addr:   cmdCtx.Cfg.Server.Addr,
		Logger: cmdCtx.Logger,
	})
	return srv.Serve(ctx)
}

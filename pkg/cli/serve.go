package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jguan/modelrun/pkg/gateway"
	"github.com/jguan/modelrun/pkg/infra/logger"
)

func NewServeCommand(root *RootCommand) *cobra.Command {
	var (
		addr       string
		enableCORS bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		Long: `Start the modelrun HTTP API server.

The server exposes the catalog, recommendation and command generation under
/api/v1, the raw gateway at /execute, Prometheus metrics at /metrics and an
OpenAPI document at /openapi.json. It shuts down gracefully on SIGINT or
SIGTERM.`,
		Example: `  # Start with settings from the config file
  modelrun serve

  # Listen on all interfaces with CORS enabled
  modelrun serve --addr 0.0.0.0:8080 --cors`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("cors") {
				enableCORS = root.Config().Server.EnableCORS
			}
			return runServe(cmd.Context(), root, addr, enableCORS)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config)")
	cmd.Flags().BoolVar(&enableCORS, "cors", false, "Enable CORS (default from config)")

	return cmd
}

func runServe(ctx context.Context, root *RootCommand, addr string, enableCORS bool) error {
	cfg := root.Config()

	listenAddr := cfg.Server.ListenAddr
	if addr != "" {
		listenAddr = addr
	}

	server := gateway.NewServer(root.Gateway(), gateway.ServerConfig{
		Addr:            listenAddr,
		WriteTimeout:    cfg.Server.RequestTimeoutD + 5*time.Second,
		ShutdownTimeout: 10 * time.Second,
		EnableCORS:      enableCORS,
		CORSOrigins:     cfg.Server.CORSOrigins,
		Logger:          logger.Default(),
	})

	logger.Info("modelrun server starting", "addr", listenAddr, "cors", enableCORS)
	if opts := root.OutputOptions(); !opts.Quiet {
		fmt.Fprintf(opts.errWriter(), "Listening on http://%s%s\n", listenAddr, gateway.APIPrefix)
	}
	if err := server.Run(ctx); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	logger.Info("modelrun server stopped")
	return nil
}

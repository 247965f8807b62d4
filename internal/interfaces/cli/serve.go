package cli

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rephind/rephind/internal/bootstrap"
	"github.com/rephind/rephind/internal/config"
	"github.com/rephind/rephind/internal/infrastructure/monitoring/logging"
	"github.com/rephind/rephind/internal/interfaces/http"
	"github.com/rephind/rephind/internal/interfaces/http/handlers"
)

func newServeCommand(opts *rootOptions) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			if port > 0 {
				cfg.Server.Port = port
			}

			logger, err := bootstrap.NewLogger(cfg.Log)
			if err != nil {
				return err
			}
			logger.Info("starting rephind api server", logging.Int("port", cfg.Server.Port))

			if opts.configPath != "" {
				config.Watch(opts.configPath, func(next *config.Config) {
					logging.SetLevel(logger, next.Log.Level)
					logger.Info("configuration reloaded", logging.String("log_level", next.Log.Level))
				})
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			app, err := bootstrap.New(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer app.Close()

			patentHandler := handlers.NewPatentHandler(
				app.Search, app.Compare, app.Summarizer, app.Store, cfg.Server.MaxBodySize, logger)

			router := http.NewRouter(http.RouterConfig{
				PatentHandler: patentHandler,
				HealthHandler: handlers.NewHealthHandler(app.Ready),
				Logger:        logger,
				Metrics:       app.Metrics,
				Mode:          cfg.Server.Mode,
			})
			server := http.NewServer(cfg.Server, router, logger)

			errCh := make(chan error, 1)
			go func() {
				errCh <- server.Start()
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}
			return server.Stop(context.Background())
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "HTTP server port (overrides config)")
	return cmd
}

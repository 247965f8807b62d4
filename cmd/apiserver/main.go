// API server entry point.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rephind/rephind/internal/bootstrap"
	"github.com/rephind/rephind/internal/config"
	"github.com/rephind/rephind/internal/infrastructure/monitoring/logging"
	"github.com/rephind/rephind/internal/interfaces/http"
	"github.com/rephind/rephind/internal/interfaces/http/handlers"
)

const defaultConfigPath = "configs/config.yaml"

func main() {
	configPath := flag.String("config", defaultConfigPath, "path to configuration file")
	port := flag.Int("port", 0, "HTTP server port (overrides config)")
	flag.Parse()

	if err := run(*configPath, *port); err != nil {
		fmt.Fprintf(os.Stderr, "apiserver: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string, portOverride int) error {
	cfg, err := config.Load(configPath)
	fromFile := err == nil
	if err != nil {
		// File-less deployments configure everything through REPHIND_*
		// environment variables.
		cfg, err = config.LoadFromEnv()
		if err != nil {
			return err
		}
	}
	if portOverride > 0 {
		cfg.Server.Port = portOverride
	}

	logger, err := bootstrap.NewLogger(cfg.Log)
	if err != nil {
		return err
	}
	logger.Info("starting rephind api server", logging.Int("port", cfg.Server.Port))

	if fromFile {
		config.Watch(configPath, func(next *config.Config) {
			logging.SetLevel(logger, next.Log.Level)
			logger.Info("configuration reloaded", logging.String("log_level", next.Log.Level))
		})
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
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
}

// Package bootstrap assembles the service object graph from configuration.
// Both the API server and the CLI build their dependencies through it so
// wiring decisions live in one place.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rephind/rephind/internal/application/compare"
	"github.com/rephind/rephind/internal/application/search"
	"github.com/rephind/rephind/internal/application/summary"
	"github.com/rephind/rephind/internal/config"
	"github.com/rephind/rephind/internal/domain/claim"
	"github.com/rephind/rephind/internal/domain/patent"
	"github.com/rephind/rephind/internal/infrastructure/corpus"
	"github.com/rephind/rephind/internal/infrastructure/embedding"
	"github.com/rephind/rephind/internal/infrastructure/monitoring/logging"
	"github.com/rephind/rephind/internal/infrastructure/monitoring/prometheus"
	"github.com/rephind/rephind/internal/infrastructure/simindex"
)

// App bundles the assembled services and their shared infrastructure.
type App struct {
	Cfg     *config.Config
	Logger  logging.Logger
	Metrics *prometheus.Metrics

	Store   patent.Store
	Encoder embedding.Encoder
	Index   *simindex.Manager

	Search     *search.Service
	Compare    *compare.Service
	Summarizer summary.Summarizer

	pool *pgxpool.Pool
}

// NewLogger builds the structured logger from the log section.  The
// config's "text" format maps to the console encoder.
func NewLogger(cfg config.LogConfig) (logging.Logger, error) {
	format := cfg.Format
	if format == "text" {
		format = "console"
	}
	var outputs []string
	if cfg.Output != "" {
		outputs = []string{cfg.Output}
	}
	return logging.NewLogger(logging.Config{
		Level:       cfg.Level,
		Format:      format,
		OutputPaths: outputs,
	})
}

// New assembles the full application.  The similarity index is restored
// from its snapshot or rebuilt, so New can take as long as one corpus
// embedding pass on first start.
func New(ctx context.Context, cfg *config.Config, logger logging.Logger) (*App, error) {
	app := &App{
		Cfg:     cfg,
		Logger:  logger,
		Metrics: prometheus.NewMetrics(),
	}

	if err := app.initStore(ctx); err != nil {
		return nil, err
	}

	encoder, err := embedding.New(embedding.Config{
		Backend:   cfg.Embedding.Backend,
		Model:     cfg.Embedding.Model,
		CacheDir:  cfg.Embedding.CacheDir,
		MaxLength: cfg.Embedding.MaxLength,
		APIKey:    cfg.Embedding.APIKey,
		BaseURL:   cfg.Embedding.BaseURL,
	}, logger)
	if err != nil {
		app.Close()
		return nil, err
	}
	app.Encoder = encoder

	builder := simindex.NewBuilder(app.Store, encoder, logger, app.Metrics)
	app.Index = simindex.NewManager(builder, cfg.Index.SnapshotPath, logger)
	if err := app.Index.Ensure(ctx); err != nil {
		app.Close()
		return nil, err
	}

	app.Search = search.NewService(app.Store, encoder, app.Index, search.Options{
		DefaultTopK: cfg.Search.DefaultTopK,
		CacheTTL:    cfg.Search.CacheTTL,
	}, logger, app.Metrics)
	app.Compare = compare.NewService(app.Store, encoder, claim.NewExtractor(), logger, app.Metrics)
	app.Summarizer = summary.New(summary.Config{
		APIKey:      cfg.Summary.APIKey,
		BaseURL:     cfg.Summary.BaseURL,
		Model:       cfg.Summary.Model,
		MaxTokens:   cfg.Summary.MaxTokens,
		Temperature: cfg.Summary.Temperature,
		TimeoutSec:  cfg.Summary.TimeoutSec,
	}, logger)

	return app, nil
}

func (a *App) initStore(ctx context.Context) error {
	switch a.Cfg.Corpus.Backend {
	case "postgres":
		poolCfg, err := pgxpool.ParseConfig(a.Cfg.Database.DSN())
		if err != nil {
			return fmt.Errorf("bootstrap: invalid database config: %w", err)
		}
		if a.Cfg.Database.MaxConns > 0 {
			poolCfg.MaxConns = int32(a.Cfg.Database.MaxConns)
		}
		if a.Cfg.Database.MinConns > 0 {
			poolCfg.MinConns = int32(a.Cfg.Database.MinConns)
		}
		if a.Cfg.Database.ConnMaxLifetime > 0 {
			poolCfg.MaxConnLifetime = a.Cfg.Database.ConnMaxLifetime
		}
		pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
		if err != nil {
			return fmt.Errorf("bootstrap: failed to connect to database: %w", err)
		}
		store, err := corpus.NewPostgresStore(ctx, pool, a.Logger)
		if err != nil {
			pool.Close()
			return err
		}
		a.pool = pool
		a.Store = store
		return nil
	default:
		store, err := corpus.NewCSVStore(a.Cfg.Corpus.CSVPath, a.Logger)
		if err != nil {
			return err
		}
		a.Store = store
		return nil
	}
}

// Ready reports whether the service can answer search requests.
func (a *App) Ready() bool {
	return a.Index != nil && a.Index.Ready()
}

// Close releases the encoder and database pool.
func (a *App) Close() {
	if a.Encoder != nil {
		if err := a.Encoder.Close(); err != nil {
			a.Logger.Warn("encoder close failed", logging.Err(err))
		}
	}
	if a.pool != nil {
		a.pool.Close()
	}
}

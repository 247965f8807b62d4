// Package cli implements the rephind command line interface.  The CLI
// runs the engine in-process over the configured corpus rather than
// talking to a running API server.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rephind/rephind/internal/bootstrap"
	"github.com/rephind/rephind/internal/config"
)

// Build-time variables injected via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// rootOptions holds the global CLI flags.
type rootOptions struct {
	configPath string
	logLevel   string
	output     string // "text" | "json"
}

// NewRootCommand creates the root command with all global flags and
// subcommands attached.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:     "rephind",
		Short:   "Patent claim similarity search and comparison",
		Long:    "rephind embeds patent claims, retrieves the most similar corpus patents\nand compares claims attribute by attribute.",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildDate),

		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.configPath, "config", "c", "", "config file path (default: env only)")
	pf.StringVar(&opts.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	pf.StringVarP(&opts.output, "output", "o", "text", "output format (text, json)")

	cmd.AddCommand(
		newServeCommand(opts),
		newIndexCommand(opts),
		newSearchCommand(opts),
		newExtractCommand(opts),
		newCompareCommand(opts),
		newStatsCommand(opts),
	)
	return cmd
}

// Execute runs the CLI and returns the command error, if any.
func Execute() error {
	return NewRootCommand().Execute()
}

// loadConfig resolves configuration from the --config file or the
// environment, with the CLI log level applied on top.
func (o *rootOptions) loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if o.configPath != "" {
		cfg, err = config.Load(o.configPath)
	} else {
		cfg, err = config.LoadFromEnv()
	}
	if err != nil {
		return nil, err
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	// CLI runs log to stderr so stdout stays parseable.
	cfg.Log.Output = "stderr"
	cfg.Log.Format = "text"
	return cfg, nil
}

// newApp assembles the engine for commands that need the full stack.
func (o *rootOptions) newApp(ctx context.Context) (*bootstrap.App, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, err
	}
	logger, err := bootstrap.NewLogger(cfg.Log)
	if err != nil {
		return nil, err
	}
	return bootstrap.New(ctx, cfg, logger)
}

// printResult renders v as JSON when --output=json, otherwise through
// the provided text renderer.
func (o *rootOptions) printResult(v interface{}, text func()) error {
	if o.output == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	text()
	return nil
}

// Package commands implements the trendsql subcommands.
package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/leapstack-labs/trendsql/internal/cli/config"
	"github.com/leapstack-labs/trendsql/internal/cli/output"
	"github.com/leapstack-labs/trendsql/pkg/adapter"
	"github.com/spf13/cobra"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext collects the loaded config, logger and a renderer for cmd.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	return &CommandContext{
		Cfg:      cfg,
		Logger:   config.GetLogger(cmd.Context()),
		Renderer: output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.OutputFormat)),
	}
}

// getConfig returns the current configuration, or the defaults when none was loaded.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}
	return &config.Config{
		ScriptPath:   config.DefaultScriptPath,
		DatabasePath: config.DefaultDatabase,
		OutputDir:    config.DefaultOutputDir,
		DatasetPath:  config.DefaultDatasetPath,
		OutputFormat: config.DefaultOutput,
		Target:       &config.TargetConfig{Type: config.DefaultTargetType, Database: config.DefaultDatabase},
		Generate:     config.GenerateConfig{Rows: config.DefaultRows, Seed: config.DefaultSeed},
		Serve:        config.ServeConfig{Port: config.DefaultServePort},
	}
}

// openTarget connects to the configured target.
// The returned cleanup closes the connection.
func (c *CommandContext) openTarget(ctx context.Context) (adapter.Adapter, func(), error) {
	adp, err := adapter.NewAdapter(c.Cfg.Target.AdapterConfig(), c.Logger)
	if err != nil {
		return nil, nil, err
	}
	if err := adp.Connect(ctx, c.Cfg.Target.AdapterConfig()); err != nil {
		return nil, nil, fmt.Errorf("failed to connect to %s target: %w", c.Cfg.Target.Type, err)
	}
	return adp, func() { _ = adp.Close() }, nil
}

// signalContext derives a context cancelled on SIGINT or SIGTERM.
func signalContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

package commands

import (
	"context"
	"errors"

	"github.com/leapstack-labs/trendsql/internal/batch"
	"github.com/spf13/cobra"
)

// NewRunCommand creates the run command.
func NewRunCommand() *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run every query in the script and export the results",
		Long: `Execute each statement of the SQL script in order on one connection,
write every result set to Q<NN>_<name>.csv in the output directory and record
the outcome of every statement in _summary.csv.

A failing statement is recorded in the summary and the run continues.
Only a missing script, an unusable output directory or an unreachable
database stop the run.`,
		Example: `  trendsql run

  # Use another script and output directory
  trendsql run --script my.sql --output-dir out

  # Re-run whenever the script is saved
  trendsql run --watch`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c := NewCommandContext(cmd)
			if !watch {
				_, err := c.runBatch(cmd.Context())
				return err
			}

			ctx, stop := signalContext(cmd)
			defer stop()

			if _, err := c.runBatch(ctx); err != nil {
				if !isRecoverable(err) {
					return err
				}
				c.Renderer.Warn(err.Error())
			}
			c.Renderer.Muted("Watching " + c.Cfg.ScriptPath + " for changes (Ctrl+C to stop)")

			return batch.Watch(ctx, c.Cfg.ScriptPath, c.Logger, func(ctx context.Context) {
				if _, err := c.runBatch(ctx); err != nil {
					c.Renderer.Warn(err.Error())
				}
			})
		},
	}

	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Re-run when the script changes")
	return cmd
}

// runBatch performs one complete run and renders its progress and summary.
func (c *CommandContext) runBatch(ctx context.Context) (*batch.Manifest, error) {
	r := c.Renderer
	r.Header("Running " + c.Cfg.ScriptPath)

	m, err := batch.New(batch.Config{
		ScriptPath: c.Cfg.ScriptPath,
		OutputDir:  c.Cfg.OutputDir,
		Target:     c.Cfg.Target.AdapterConfig(),
		Logger:     c.Logger,
		OnEntry:    r.QueryLine,
	}).Run(ctx)
	if err != nil {
		return m, err
	}
	return m, r.Summary(m)
}

// isRecoverable reports whether a watch session should keep going after err:
// the script may appear later and the database may come back.
func isRecoverable(err error) bool {
	return errors.Is(err, batch.ErrScriptRead) || errors.Is(err, batch.ErrConnect)
}

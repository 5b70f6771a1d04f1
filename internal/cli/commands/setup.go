package commands

import (
	"fmt"

	"github.com/leapstack-labs/trendsql/internal/cli/output"
	"github.com/leapstack-labs/trendsql/internal/warehouse"
	"github.com/spf13/cobra"
)

// NewSetupCommand creates the setup command.
func NewSetupCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "setup",
		Short: "Create the schema and load the dataset",
		Long: `Create the youtube_trending table and the vw_video_metrics view on the
configured target, then replace the table contents with the dataset CSV.

Running setup again reloads the data; it never duplicates rows.`,
		Example: `  trendsql generate && trendsql setup

  # Load into DuckDB instead of SQLite
  trendsql setup --adapter duckdb --database data/youtube.duckdb`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c := NewCommandContext(cmd)
			ctx := cmd.Context()

			adp, cleanup, err := c.openTarget(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			n, err := warehouse.Provision(ctx, adp, c.Cfg.DatasetPath, c.Logger)
			if err != nil {
				return fmt.Errorf("%w\nHint: run 'trendsql generate' or 'trendsql import <dir>' first", err)
			}

			r := c.Renderer
			if r.EffectiveMode() == output.ModeJSON {
				return r.JSON(map[string]any{
					"target": c.Cfg.Target.Type,
					"table":  warehouse.TableName,
					"rows":   n,
				})
			}
			r.Success(fmt.Sprintf("Loaded %d rows into %s (%s)", n, warehouse.TableName, c.Cfg.Target.Type))
			r.Muted("View " + warehouse.ViewName + " is ready")
			return nil
		},
	}
}

package commands

import (
	"fmt"

	"github.com/leapstack-labs/trendsql/internal/cli/output"
	"github.com/leapstack-labs/trendsql/internal/dataset"
	"github.com/spf13/cobra"
)

// NewGenerateCommand creates the generate command.
func NewGenerateCommand() *cobra.Command {
	var rows int
	var seed uint64

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a synthetic YouTube trending dataset",
		Long: `Write a deterministic synthetic dataset shaped like the Kaggle
"Trending YouTube Video Statistics" export to the configured dataset path.

The same --rows and --seed always produce the same file.`,
		Example: `  # 5000 rows with the default seed
  trendsql generate

  # A small dataset for quick experiments
  trendsql generate --rows 200 --seed 7`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c := NewCommandContext(cmd)
			if !cmd.Flags().Changed("rows") {
				rows = c.Cfg.Generate.Rows
			}
			if !cmd.Flags().Changed("seed") {
				seed = c.Cfg.Generate.Seed
			}
			if rows <= 0 {
				return fmt.Errorf("--rows must be positive, got %d", rows)
			}

			gen := dataset.NewGenerator(dataset.Options{Rows: rows, Seed: seed, Logger: c.Logger})
			n, err := gen.WriteFile(cmd.Context(), c.Cfg.DatasetPath)
			if err != nil {
				return err
			}

			r := c.Renderer
			if r.EffectiveMode() == output.ModeJSON {
				return r.JSON(map[string]any{"path": c.Cfg.DatasetPath, "rows": n, "seed": seed})
			}
			r.Success(fmt.Sprintf("Generated %d rows (seed %d)", n, seed))
			r.Muted("Dataset: " + c.Cfg.DatasetPath)
			return nil
		},
	}

	cmd.Flags().IntVar(&rows, "rows", dataset.DefaultRows, "Number of rows to generate")
	cmd.Flags().Uint64Var(&seed, "seed", dataset.DefaultSeed, "Random seed")
	return cmd
}

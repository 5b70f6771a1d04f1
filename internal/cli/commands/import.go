package commands

import (
	"fmt"

	"github.com/leapstack-labs/trendsql/internal/cli/output"
	"github.com/leapstack-labs/trendsql/internal/dataset"
	"github.com/spf13/cobra"
)

// NewImportCommand creates the import command.
func NewImportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import <download-dir>",
		Short: "Import a downloaded trending dataset",
		Long: `Copy the largest CSV file found under a download directory (for example an
unpacked Kaggle archive) to the configured dataset path.`,
		Example: `  trendsql import ~/Downloads/youtube-new`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := NewCommandContext(cmd)

			src, err := dataset.Acquire(args[0], c.Cfg.DatasetPath, c.Logger)
			if err != nil {
				return err
			}

			r := c.Renderer
			if r.EffectiveMode() == output.ModeJSON {
				return r.JSON(map[string]string{"source": src, "path": c.Cfg.DatasetPath})
			}
			r.Success(fmt.Sprintf("Imported %s", src))
			r.Muted("Dataset: " + c.Cfg.DatasetPath)
			return nil
		},
	}
}

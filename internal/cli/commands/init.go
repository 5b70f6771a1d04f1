package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/leapstack-labs/trendsql/internal/cli/config"
	"github.com/leapstack-labs/trendsql/internal/cli/output"
	"github.com/leapstack-labs/trendsql/queries"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// projectFile is the shape of a scaffolded trendsql.yaml.
type projectFile struct {
	Script    string       `yaml:"script"`
	Database  string       `yaml:"database"`
	OutputDir string       `yaml:"output_dir"`
	Dataset   string       `yaml:"dataset"`
	Target    targetFile   `yaml:"target"`
	Generate  generateFile `yaml:"generate"`
}

type targetFile struct {
	Type     string            `yaml:"type"`
	Database string            `yaml:"database,omitempty"`
	Host     string            `yaml:"host,omitempty"`
	Port     int               `yaml:"port,omitempty"`
	User     string            `yaml:"user,omitempty"`
	Password string            `yaml:"password,omitempty"`
	Options  map[string]string `yaml:"options,omitempty"`
	Params   map[string]any    `yaml:"params,omitempty"`
}

type generateFile struct {
	Rows int    `yaml:"rows"`
	Seed uint64 `yaml:"seed"`
}

// scaffoldTarget returns the starter target block for an adapter type.
func scaffoldTarget(targetType string) targetFile {
	switch targetType {
	case "duckdb":
		return targetFile{
			Type:     "duckdb",
			Database: "data/youtube.duckdb",
			Params:   map[string]any{"settings": map[string]string{"threads": "4"}},
		}
	case "postgres":
		return targetFile{
			Type:     "postgres",
			Database: "trendsql",
			Host:     "localhost",
			Port:     5432,
			User:     "${PGUSER}",
			Password: "${PGPASSWORD}",
			Options:  map[string]string{"sslmode": "disable"},
		}
	default:
		return targetFile{Type: "sqlite", Database: config.DefaultDatabase}
	}
}

func renderProjectFile(targetType string) ([]byte, error) {
	pf := projectFile{
		Script:    config.DefaultScriptPath,
		Database:  config.DefaultDatabase,
		OutputDir: config.DefaultOutputDir,
		Dataset:   config.DefaultDatasetPath,
		Target:    scaffoldTarget(targetType),
		Generate:  generateFile{Rows: config.DefaultRows, Seed: config.DefaultSeed},
	}
	body, err := yaml.Marshal(&pf)
	if err != nil {
		return nil, fmt.Errorf("failed to render %s: %w", config.ConfigFileName, err)
	}
	header := "# trendsql project configuration.\n# Environment variables override these values (TRENDSQL_TARGET__PASSWORD, ...).\n"
	return append([]byte(header), body...), nil
}

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new trendsql project",
		Long: `Initialize a trendsql project with a configuration file and the
analysis query battery.

This creates:
  - trendsql.yaml configuration file
  - queries/analysis.sql with the analysis queries
  - data/ directory for the dataset and the database

The target block follows --adapter (sqlite, duckdb or postgres).`,
		Example: `  # Initialize in current directory
  trendsql init

  # Initialize a DuckDB project in a new directory
  trendsql init my-analysis --adapter duckdb

  # Overwrite existing files
  trendsql init --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			c := NewCommandContext(cmd)
			return runInit(c.Renderer, dir, c.Cfg.Target.Type, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing files")
	return cmd
}

func runInit(r *output.Renderer, dir, targetType string, force bool) error {
	if err := os.MkdirAll(filepath.Join(dir, "data"), 0o750); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	projectYAML, err := renderProjectFile(targetType)
	if err != nil {
		return err
	}

	files := []struct {
		name    string
		content []byte
	}{
		{config.ConfigFileName, projectYAML},
		{config.DefaultScriptPath, []byte(queries.Analysis)},
	}

	created := make([]string, 0, len(files))
	for _, f := range files {
		path := filepath.Join(dir, f.name)
		if _, err := os.Stat(path); err == nil && !force {
			r.StatusLine(f.name, output.StatusSkipped, "(exists, use --force to overwrite)")
			continue
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			return fmt.Errorf("failed to create directory for %s: %w", f.name, err)
		}
		if err := os.WriteFile(path, f.content, 0o644); err != nil { //nolint:gosec // project files are meant to be readable
			return fmt.Errorf("failed to write %s: %w", f.name, err)
		}
		created = append(created, f.name)
		r.StatusLine(f.name, output.StatusSuccess, "")
	}

	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(map[string]any{"dir": dir, "created": created})
	}

	r.Println("")
	r.Success("trendsql project initialized!")
	r.Println("")
	r.Println("Next steps:")
	r.Println("  1. Run 'trendsql generate' (or 'trendsql import <dir>') to get a dataset")
	r.Println("  2. Run 'trendsql setup' to load it")
	r.Println("  3. Run 'trendsql run' to execute queries/analysis.sql")
	r.Println("  4. Run 'trendsql serve' to browse the results")
	return nil
}

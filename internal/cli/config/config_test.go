package config

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/leapstack-labs/trendsql/internal/testutil"
	"github.com/leapstack-labs/trendsql/pkg/adapter"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	// Import adapter packages to ensure adapters are registered via init()
	_ "github.com/leapstack-labs/trendsql/pkg/adapters/duckdb"
	_ "github.com/leapstack-labs/trendsql/pkg/adapters/postgres"
	_ "github.com/leapstack-labs/trendsql/pkg/adapters/sqlite"
)

// newFlags mirrors the persistent flags registered by the root command.
func newFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("config", "", "")
	fs.String("script", "", "")
	fs.String("database", "", "")
	fs.String("output-dir", "", "")
	fs.String("dataset", "", "")
	fs.String("adapter", "", "")
	fs.BoolP("verbose", "v", false, "")
	fs.StringP("output", "o", DefaultOutput, "")
	return fs
}

func TestValidateTarget(t *testing.T) {
	tests := []struct {
		name      string
		target    *TargetConfig
		errSubstr string
	}{
		{"nil target", nil, "target type is required"},
		{"empty type", &TargetConfig{}, "target type is required"},
		{"sqlite", &TargetConfig{Type: "sqlite"}, ""},
		{"duckdb uppercase", &TargetConfig{Type: "DuckDB"}, ""},
		{"postgres with database", &TargetConfig{Type: "postgres", Database: "analytics"}, ""},
		{"postgres without database", &TargetConfig{Type: "postgres"}, "target.database is required"},
		{"unknown mysql", &TargetConfig{Type: "mysql"}, "unknown adapter type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTarget(tt.target)
			if tt.errSubstr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errSubstr)
		})
	}
}

func TestValidateTarget_ErrorListsAvailable(t *testing.T) {
	err := ValidateTarget(&TargetConfig{Type: "oracle"})
	require.Error(t, err)

	var unknown *adapter.UnknownAdapterError
	require.ErrorAs(t, err, &unknown)
	assert.Contains(t, unknown.Available, "sqlite")
	assert.Contains(t, err.Error(), "trendsql.yaml")
}

func TestApplyTargetDefaults(t *testing.T) {
	pg := &TargetConfig{Type: "Postgres"}
	ApplyTargetDefaults(pg)
	assert.Equal(t, "postgres", pg.Type)
	assert.Equal(t, 5432, pg.Port)
	assert.Equal(t, "public", pg.Schema)

	lite := &TargetConfig{Type: "sqlite"}
	ApplyTargetDefaults(lite)
	assert.Zero(t, lite.Port)
	assert.Empty(t, lite.Schema)

	ApplyTargetDefaults(nil)
}

func TestConfig_Validate(t *testing.T) {
	valid := func() Config {
		return Config{
			ScriptPath:   "a.sql",
			OutputDir:    "out",
			OutputFormat: "text",
			Target:       &TargetConfig{Type: "sqlite"},
			Generate:     GenerateConfig{Rows: 10},
		}
	}

	tests := []struct {
		name      string
		mutate    func(*Config)
		errSubstr string
	}{
		{"valid", func(*Config) {}, ""},
		{"missing script", func(c *Config) { c.ScriptPath = "" }, "script is required"},
		{"missing output dir", func(c *Config) { c.OutputDir = "" }, "output_dir is required"},
		{"bad output", func(c *Config) { c.OutputFormat = "xml" }, "invalid output format"},
		{"zero rows", func(c *Config) { c.Generate.Rows = 0 }, "generate.rows must be positive"},
		{"bad target", func(c *Config) { c.Target.Type = "mysql" }, "invalid target configuration"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.errSubstr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errSubstr)
		})
	}
}

func TestTargetConfig_AdapterConfig(t *testing.T) {
	lite := (&TargetConfig{Type: "sqlite", Database: "/tmp/x.db"}).AdapterConfig()
	assert.Equal(t, "/tmp/x.db", lite.Path)
	assert.Equal(t, "/tmp/x.db", lite.Database)

	pg := (&TargetConfig{
		Type:     "postgres",
		Database: "analytics",
		Host:     "db",
		Port:     5433,
		User:     "me",
		Password: "pw",
		Options:  map[string]string{"sslmode": "disable"},
	}).AdapterConfig()
	assert.Empty(t, pg.Path)
	assert.Equal(t, "me", pg.Username)
	assert.Equal(t, 5433, pg.Port)
	assert.Equal(t, "disable", pg.Options["sslmode"])
}

func TestLoadConfig_Defaults(t *testing.T) {
	ResetConfig()
	root := t.TempDir()
	t.Chdir(root)
	root, err := filepath.EvalSymlinks(root)
	require.NoError(t, err)

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, root, resolvedRoot(t, cfg))
	assert.Equal(t, filepath.Join(cfg.ProjectRoot, DefaultScriptPath), cfg.ScriptPath)
	assert.Equal(t, filepath.Join(cfg.ProjectRoot, DefaultOutputDir), cfg.OutputDir)
	assert.Equal(t, filepath.Join(cfg.ProjectRoot, DefaultDatasetPath), cfg.DatasetPath)
	assert.Equal(t, "sqlite", cfg.Target.Type)
	assert.Equal(t, cfg.DatabasePath, cfg.Target.Database)
	assert.Equal(t, DefaultRows, cfg.Generate.Rows)
	assert.Equal(t, uint64(DefaultSeed), cfg.Generate.Seed)
	assert.Equal(t, DefaultServePort, cfg.Serve.Port)
	assert.Equal(t, DefaultOutput, cfg.OutputFormat)
	assert.Empty(t, GetConfigFileUsed())
}

func TestLoadConfig_FileFoundUpward(t *testing.T) {
	ResetConfig()
	root := t.TempDir()
	testutil.WriteFile(t, root, ConfigFileName, `
script: sql/battery.sql
output_dir: out
generate:
  rows: 250
target:
  type: duckdb
  database: data/warehouse.duckdb
`)
	nested := filepath.Join(root, "a", "b")
	testutil.WriteFile(t, nested, "keep", "")
	t.Chdir(nested)

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(cfg.ProjectRoot, "sql", "battery.sql"), cfg.ScriptPath)
	assert.Equal(t, filepath.Join(cfg.ProjectRoot, "out"), cfg.OutputDir)
	assert.Equal(t, 250, cfg.Generate.Rows)
	assert.Equal(t, "duckdb", cfg.Target.Type)
	assert.Equal(t, filepath.Join(cfg.ProjectRoot, "data", "warehouse.duckdb"), cfg.Target.Database)
	assert.Equal(t, cfg.Target.Database, cfg.DatabasePath)
	assert.Equal(t, ConfigFileName, filepath.Base(GetConfigFileUsed()))
}

func TestLoadConfig_Precedence(t *testing.T) {
	ResetConfig()
	root := t.TempDir()
	testutil.WriteFile(t, root, ConfigFileName, "output: text\nscript: from_file.sql\n")
	t.Chdir(root)
	t.Setenv("TRENDSQL_OUTPUT", "markdown")
	t.Setenv("TRENDSQL_GENERATE__ROWS", "77")

	flags := newFlags()
	require.NoError(t, flags.Parse([]string{"-o", "json", "--adapter", "duckdb", "--output-dir", "flag_out"}))

	cfg, err := LoadConfig("", flags)
	require.NoError(t, err)

	assert.Equal(t, "json", cfg.OutputFormat, "flag beats env")
	assert.Equal(t, 77, cfg.Generate.Rows, "env beats default")
	assert.Equal(t, "from_file.sql", filepath.Base(cfg.ScriptPath), "file beats default")
	assert.Equal(t, "duckdb", cfg.Target.Type)

	cwd := resolvedRoot(t, cfg)
	assert.Equal(t, filepath.Join(cwd, "flag_out"), evalDir(t, cfg.OutputDir))
}

func TestLoadConfig_DatabaseFlagOverridesTarget(t *testing.T) {
	ResetConfig()
	root := t.TempDir()
	testutil.WriteFile(t, root, ConfigFileName, "target:\n  type: sqlite\n  database: cfg.db\n")
	t.Chdir(root)

	flags := newFlags()
	require.NoError(t, flags.Parse([]string{"--database", ":memory:"}))

	cfg, err := LoadConfig("", flags)
	require.NoError(t, err)
	assert.Equal(t, ":memory:", cfg.DatabasePath)
	assert.Equal(t, ":memory:", cfg.Target.Database)
}

func TestLoadConfig_ExplicitFileAndDotenv(t *testing.T) {
	ResetConfig()
	project := t.TempDir()
	cfgPath := testutil.WriteFile(t, project, "custom.yaml", `
target:
  type: postgres
  database: analytics
  user: ${TRENDSQL_TEST_PG_USER}
  password: ${TRENDSQL_TEST_PG_PASSWORD}
`)
	testutil.WriteFile(t, project, ".env", "TRENDSQL_TEST_PG_USER=from_dotenv\nTRENDSQL_TEST_PG_PASSWORD=secret\n")
	t.Chdir(t.TempDir())
	t.Setenv("TRENDSQL_TEST_PG_USER", "from_env")
	t.Cleanup(func() { _ = os.Unsetenv("TRENDSQL_TEST_PG_PASSWORD") })

	cfg, err := LoadConfig(cfgPath, nil)
	require.NoError(t, err)

	assert.Equal(t, cfgPath, GetConfigFileUsed())
	assert.Equal(t, "from_env", cfg.Target.User, "existing environment wins over .env")
	assert.Equal(t, "secret", cfg.Target.Password)
	assert.Equal(t, "postgres", cfg.Target.Type)
	assert.Equal(t, 5432, cfg.Target.Port)
	assert.Equal(t, "public", cfg.Target.Schema)
	assert.Equal(t, "analytics", cfg.Target.Database)
}

func TestLoadConfig_Invalid(t *testing.T) {
	ResetConfig()
	root := t.TempDir()
	t.Chdir(root)

	flags := newFlags()
	require.NoError(t, flags.Parse([]string{"--adapter", "mysql"}))
	_, err := LoadConfig("", flags)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown adapter type")

	_, err = LoadConfig(filepath.Join(root, "missing.yaml"), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("TRENDSQL_TEST_HOST", "db.internal")

	assert.Equal(t, "db.internal", expandEnvVars("${TRENDSQL_TEST_HOST}"))
	assert.Equal(t, "postgres://db.internal:5432", expandEnvVars("postgres://${TRENDSQL_TEST_HOST}:5432"))
	assert.Equal(t, "${TRENDSQL_TEST_UNSET}", expandEnvVars("${TRENDSQL_TEST_UNSET}"))
	assert.Equal(t, "plain", expandEnvVars("plain"))
}

func TestGetLogger(t *testing.T) {
	assert.NotNil(t, GetLogger(context.Background()))

	logger := slog.New(slog.DiscardHandler)
	ctx := context.WithValue(context.Background(), LoggerKey(), logger)
	assert.Same(t, logger, GetLogger(ctx))
}

func resolvedRoot(t *testing.T, cfg *Config) string {
	t.Helper()
	return evalDir(t, cfg.ProjectRoot)
}

// evalDir resolves symlinks in the existing part of a path (macOS /var -> /private/var).
func evalDir(t *testing.T, path string) string {
	t.Helper()
	dir, err := filepath.EvalSymlinks(filepath.Dir(path))
	require.NoError(t, err)
	return filepath.Join(dir, filepath.Base(path))
}

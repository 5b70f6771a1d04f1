package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestNewRunCommand(t *testing.T) {
	cmd := NewRunCommand()

	assert.Equal(t, "run", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")
	assert.NotEmpty(t, cmd.Example, "Example should not be empty")
	assert.NotNil(t, cmd.Flags().Lookup("watch"))
	assert.Equal(t, "w", cmd.Flags().Lookup("watch").Shorthand)
}

func TestNewGenerateCommand(t *testing.T) {
	cmd := NewGenerateCommand()

	assert.Equal(t, "generate", cmd.Use)
	for _, flag := range []string{"rows", "seed"} {
		assert.NotNil(t, cmd.Flags().Lookup(flag), "flag %q should exist", flag)
	}
	assert.Equal(t, "5000", cmd.Flags().Lookup("rows").DefValue)
	assert.Equal(t, "42", cmd.Flags().Lookup("seed").DefValue)
}

func TestNewServeCommand(t *testing.T) {
	cmd := NewServeCommand()

	assert.Equal(t, "serve", cmd.Use)
	assert.Equal(t, "8080", cmd.Flags().Lookup("port").DefValue)
	assert.Equal(t, "localhost", cmd.Flags().Lookup("host").DefValue)
}

func TestNewImportCommand(t *testing.T) {
	cmd := NewImportCommand()

	assert.Equal(t, "import <download-dir>", cmd.Use)
	assert.Error(t, cmd.Args(cmd, nil), "download dir is required")
	assert.NoError(t, cmd.Args(cmd, []string{"dl"}))
}

func TestNewSetupAndInitCommands(t *testing.T) {
	assert.Equal(t, "setup", NewSetupCommand().Use)

	initCmd := NewInitCommand()
	assert.Equal(t, "init [directory]", initCmd.Use)
	assert.NotNil(t, initCmd.Flags().Lookup("force"))
}

func TestRenderProjectFile(t *testing.T) {
	tests := []struct {
		targetType string
		wantDB     string
	}{
		{"sqlite", "data/youtube.db"},
		{"duckdb", "data/youtube.duckdb"},
		{"postgres", "trendsql"},
		{"", "data/youtube.db"},
	}
	for _, tt := range tests {
		t.Run(tt.targetType, func(t *testing.T) {
			body, err := renderProjectFile(tt.targetType)
			require.NoError(t, err)

			var pf projectFile
			require.NoError(t, yaml.Unmarshal(body, &pf))
			assert.Equal(t, "queries/analysis.sql", pf.Script)
			assert.Equal(t, "queries/results", pf.OutputDir)
			assert.Equal(t, tt.wantDB, pf.Target.Database)
			assert.Equal(t, 5000, pf.Generate.Rows)
		})
	}
}

func TestRenderProjectFile_PostgresUsesEnvPlaceholders(t *testing.T) {
	body, err := renderProjectFile("postgres")
	require.NoError(t, err)

	var pf projectFile
	require.NoError(t, yaml.Unmarshal(body, &pf))
	assert.Equal(t, "${PGPASSWORD}", pf.Target.Password)
	assert.Equal(t, "disable", pf.Target.Options["sslmode"])
}

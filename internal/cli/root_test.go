package cli

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/leapstack-labs/trendsql/internal/batch"
	"github.com/leapstack-labs/trendsql/internal/cli/config"
	"github.com/leapstack-labs/trendsql/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the root command with args and returns stdout and stderr.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	config.ResetConfig()

	cmd := NewRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestEndToEnd(t *testing.T) {
	project := t.TempDir()
	t.Chdir(project)

	stdout, _, err := execute(t, "init")
	require.NoError(t, err)
	assert.Contains(t, stdout, "trendsql.yaml")
	assert.FileExists(t, filepath.Join(project, "trendsql.yaml"))
	assert.FileExists(t, filepath.Join(project, "queries", "analysis.sql"))

	stdout, _, err = execute(t, "generate", "--rows", "300", "--seed", "7")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Generated 300 rows (seed 7)")

	stdout, _, err = execute(t, "setup")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Loaded 300 rows into youtube_trending (sqlite)")

	stdout, _, err = execute(t, "run", "-o", "json")
	require.NoError(t, err)

	var m batch.Manifest
	require.NoError(t, json.Unmarshal([]byte(stdout), &m))
	require.Len(t, m.Entries, 15)
	assert.Equal(t, 15, m.Succeeded(), "%+v", m.Entries)

	f, err := os.Open(filepath.Join(project, "queries", "results", batch.ManifestFileName))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	assert.Len(t, records, 16)
}

func TestRun_MarkdownOutput(t *testing.T) {
	project := t.TempDir()
	t.Chdir(project)
	testutil.WriteFile(t, project, "q.sql", `-- Q1 · Ones
SELECT 1 AS one;
-- Q2 · Broken
SELECT * FROM nonexistent;`)

	stdout, _, err := execute(t, "run", "--script", "q.sql", "--database", ":memory:", "--output-dir", "out")
	require.NoError(t, err)

	assert.Contains(t, stdout, "- ✓ Q1 ones (1 rows) → Q01_ones.csv")
	assert.Contains(t, stdout, "- ✗ Q2 broken ")
	assert.Contains(t, stdout, "no such table: nonexistent")
	assert.Contains(t, stdout, "## Run summary")
	assert.Contains(t, stdout, "1 succeeded, 1 failed")
	assert.FileExists(t, filepath.Join(project, "out", "Q01_ones.csv"))
	assert.FileExists(t, filepath.Join(project, "out", batch.ManifestFileName))
}

func TestRun_MissingScriptIsFatal(t *testing.T) {
	project := t.TempDir()
	t.Chdir(project)

	_, _, err := execute(t, "run", "--database", ":memory:")
	require.Error(t, err)
	assert.ErrorIs(t, err, batch.ErrScriptRead)
	assert.NoFileExists(t, filepath.Join(project, "queries", "results", batch.ManifestFileName))
}

func TestSetup_MissingDataset(t *testing.T) {
	t.Chdir(t.TempDir())

	_, _, err := execute(t, "setup", "--database", ":memory:")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "trendsql generate")
}

func TestInvalidConfig(t *testing.T) {
	t.Chdir(t.TempDir())

	_, _, err := execute(t, "run", "--adapter", "mysql")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown adapter type")
}

func TestVerbosePrintsConfigFile(t *testing.T) {
	project := t.TempDir()
	t.Chdir(project)
	testutil.WriteFile(t, project, config.ConfigFileName, "output: text\n")

	_, stderr, err := execute(t, "version", "-v")
	require.NoError(t, err)
	assert.Contains(t, stderr, "Using config file:")
	assert.Contains(t, stderr, "Using target: sqlite")
}

func TestCompletion(t *testing.T) {
	stdout, _, err := execute(t, "completion", "bash")
	require.NoError(t, err)
	assert.Contains(t, stdout, "trendsql")

	_, _, err = execute(t, "completion", "tcsh")
	require.Error(t, err)
}

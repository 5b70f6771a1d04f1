package dataset

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindLargestCSV(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"CAvideos.csv":            strings.Repeat("x", 10),
		"nested/USvideos.CSV":     strings.Repeat("x", 50),
		"nested/GB_category.json": strings.Repeat("x", 500),
		"INvideos.csv":            strings.Repeat("x", 20),
	}
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	}

	path, size, err := FindLargestCSV(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "nested", "USvideos.CSV"), path)
	assert.Equal(t, int64(50), size)
}

func TestFindLargestCSV_None(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "readme.txt"), []byte("hi"), 0o600))

	_, _, err := FindLargestCSV(dir)
	assert.ErrorIs(t, err, ErrNoCSV)

	_, _, err = FindLargestCSV(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}

func TestAcquire(t *testing.T) {
	src := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(src, "small.csv"), []byte("a\n1\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(src, "big.csv"), []byte("video_id,views\nabc,10\ndef,20\n"), 0o600))

	dest := filepath.Join(t.TempDir(), "data", "youtube_trending.csv")
	picked, err := Acquire(src, dest, nil)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(src, "big.csv"), picked)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "video_id,views\nabc,10\ndef,20\n", string(data))
}

package batch

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteManifest(t *testing.T) {
	dir := t.TempDir()
	entries := []Entry{
		{QueryNum: "1", Name: "total_rows", Rows: 1, OutputFile: "Q01_total_rows.csv", Status: StatusOK},
		{QueryNum: "2", Name: "bad", Rows: 0, OutputFile: "", Status: "no such table: nonexistent, see log"},
	}

	path, err := WriteManifest(dir, entries)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, ManifestFileName), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t,
		"query_num,name,rows_returned,output_file,status\r\n"+
			"1,total_rows,1,Q01_total_rows.csv,OK\r\n"+
			"2,bad,0,,\"no such table: nonexistent, see log\"\r\n",
		string(data))

	m, err := ReadManifest(path)
	require.NoError(t, err)
	assert.Equal(t, entries, m.Entries)
	assert.Equal(t, 1, m.Succeeded())
	assert.Equal(t, 1, m.Failed())
}

func TestWriteManifest_Empty(t *testing.T) {
	path, err := WriteManifest(t.TempDir(), nil)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "query_num,name,rows_returned,output_file,status\r\n", string(data))

	m, err := ReadManifest(path)
	require.NoError(t, err)
	assert.Empty(t, m.Entries)
}

func TestReadManifest_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"empty file", "", "is empty"},
		{"wrong header", "a,b,c,d,e\n", "unexpected manifest header"},
		{"short header", "a,b\n", "unexpected manifest header"},
		{"extra header column", "query_num,name,rows_returned,output_file,status,extra\n", "unexpected manifest header"},
		{"bad row count", "query_num,name,rows_returned,output_file,status\n1,x,many,,OK\n", "invalid rows_returned"},
		{"short record", "query_num,name,rows_returned,output_file,status\n1,x\n", "failed to read manifest"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), ManifestFileName)
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o600))

			_, err := ReadManifest(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	_, err := ReadManifest(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}

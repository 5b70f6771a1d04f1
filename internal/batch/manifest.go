package batch

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"time"
)

const (
	// ManifestFileName is the run summary written into the output directory.
	ManifestFileName = "_summary.csv"

	// StatusOK is the manifest status of a query that ran and exported.
	StatusOK = "OK"
)

var manifestHeader = []string{"query_num", "name", "rows_returned", "output_file", "status"}

// Entry is one manifest row.
type Entry struct {
	QueryNum   string `json:"query_num"`
	Name       string `json:"name"`
	Rows       int    `json:"rows_returned"`
	OutputFile string `json:"output_file"`
	Status     string `json:"status"`
}

// OK reports whether the query ran and its result was exported.
func (e Entry) OK() bool {
	return e.Status == StatusOK
}

// Manifest describes one run. Only Entries are persisted.
type Manifest struct {
	RunID     string        `json:"run_id,omitempty"`
	Entries   []Entry       `json:"entries"`
	Path      string        `json:"path"`
	StartedAt time.Time     `json:"started_at,omitzero"`
	Duration  time.Duration `json:"duration_ns,omitempty"`
}

// Succeeded returns the number of entries with status OK.
func (m *Manifest) Succeeded() int {
	n := 0
	for _, e := range m.Entries {
		if e.OK() {
			n++
		}
	}
	return n
}

// Failed returns the number of entries that did not succeed.
func (m *Manifest) Failed() int {
	return len(m.Entries) - m.Succeeded()
}

// WriteManifest writes entries to _summary.csv in dir and returns its path.
// An empty run still produces the header row.
func WriteManifest(dir string, entries []Entry) (string, error) {
	rows := make([][]any, len(entries))
	for i, e := range entries {
		rows[i] = []any{e.QueryNum, e.Name, e.Rows, e.OutputFile, e.Status}
	}
	path := filepath.Join(dir, ManifestFileName)
	if err := writeCSV(path, manifestHeader, rows); err != nil {
		return "", fmt.Errorf("failed to write manifest: %w", err)
	}
	return path, nil
}

// ReadManifest parses a manifest written by WriteManifest.
func ReadManifest(path string) (*Manifest, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from configuration
	if err != nil {
		return nil, fmt.Errorf("failed to open manifest: %w", err)
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("manifest %s is empty", path)
		}
		return nil, fmt.Errorf("failed to read manifest header: %w", err)
	}
	if !slices.Equal(header, manifestHeader) {
		return nil, fmt.Errorf("unexpected manifest header %v", header)
	}
	r.FieldsPerRecord = len(manifestHeader)

	m := &Manifest{Path: path, Entries: []Entry{}}
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read manifest: %w", err)
		}
		rows, err := strconv.Atoi(rec[2])
		if err != nil {
			return nil, fmt.Errorf("invalid rows_returned %q for query %s: %w", rec[2], rec[0], err)
		}
		m.Entries = append(m.Entries, Entry{
			QueryNum:   rec[0],
			Name:       rec[1],
			Rows:       rows,
			OutputFile: rec[3],
			Status:     rec[4],
		})
	}
	return m, nil
}

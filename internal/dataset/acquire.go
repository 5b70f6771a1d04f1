package dataset

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// ErrNoCSV is returned when a download directory holds no CSV file.
var ErrNoCSV = errors.New("no CSV file found")

// FindLargestCSV walks dir and returns the largest *.csv file in it.
// Exports ship one file per country plus small metadata files, so size picks
// the main table.
func FindLargestCSV(dir string) (string, int64, error) {
	var best string
	var bestSize int64 = -1

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".csv") {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		if info.Size() > bestSize {
			best, bestSize = path, info.Size()
		}
		return nil
	})
	if err != nil {
		return "", 0, fmt.Errorf("failed to scan %s: %w", dir, err)
	}
	if best == "" {
		return "", 0, fmt.Errorf("%w in %s", ErrNoCSV, dir)
	}
	return best, bestSize, nil
}

// Acquire copies the largest CSV under srcDir to dest and returns the path
// that was copied.
func Acquire(srcDir, dest string, logger *slog.Logger) (string, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	src, size, err := FindLargestCSV(srcDir)
	if err != nil {
		return "", err
	}
	logger.Debug("selected dataset file", "path", src, "bytes", size)

	in, err := os.Open(src) //nolint:gosec // path found under the user-supplied directory
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", src, err)
	}
	defer func() { _ = in.Close() }()

	if err := os.MkdirAll(filepath.Dir(dest), 0o750); err != nil {
		return "", fmt.Errorf("failed to create dataset directory: %w", err)
	}
	if _, err := writeAtomic(dest, func(w io.Writer) (int, error) {
		n, err := io.Copy(w, in)
		return int(n), err
	}); err != nil {
		return "", err
	}

	logger.Info("imported dataset", "from", src, "to", dest)
	return src, nil
}

// writeAtomic writes through fill into a temp file next to path and renames
// it into place once fill succeeds.
func writeAtomic(path string, fill func(io.Writer) (int, error)) (int, error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return 0, fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	n, err := fill(tmp)
	if err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return n, err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return n, fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return n, fmt.Errorf("failed to write %s: %w", path, err)
	}
	return n, nil
}

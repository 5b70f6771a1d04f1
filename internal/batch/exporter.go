package batch

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const (
	maxNameLen = 50

	dateLayout      = "2006-01-02"
	timestampLayout = "2006-01-02T15:04:05.000Z"
)

// FileName returns the export file name for a query:
// Q<number padded to 2 digits>_<name truncated to 50 characters>.csv.
func FileName(q Query) string {
	name := q.Name
	if len(name) > maxNameLen {
		name = name[:maxNameLen]
	}
	return fmt.Sprintf("Q%s_%s.csv", zfill(q.Number, 2), name)
}

func zfill(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat("0", width-len(s)) + s
}

// writeCSV writes a header and records to a temp file next to path and
// renames it into place.
func writeCSV(path string, header []string, rows [][]any) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	fail := func(err error) error {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return err
	}

	w := csv.NewWriter(tmp)
	w.UseCRLF = true
	if err := w.Write(header); err != nil {
		return fail(fmt.Errorf("failed to write header: %w", err))
	}
	record := make([]string, len(header))
	for _, row := range rows {
		for i, v := range row {
			record[i] = formatValue(v)
		}
		if err := w.Write(record); err != nil {
			return fail(fmt.Errorf("failed to write record: %w", err))
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fail(fmt.Errorf("failed to flush csv: %w", err))
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	//nolint:gosec // results are meant to be readable by other tools
	_ = os.Chmod(tmpPath, 0o644)
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to move %s into place: %w", filepath.Base(path), err)
	}
	return nil
}

// formatValue renders one scanned value as a CSV field.
func formatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []byte:
		return string(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case int32:
		return strconv.FormatInt(int64(val), 10)
	case int:
		return strconv.Itoa(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case bool:
		return strconv.FormatBool(val)
	case time.Time:
		u := val.UTC()
		if u.Hour() == 0 && u.Minute() == 0 && u.Second() == 0 && u.Nanosecond() == 0 {
			return u.Format(dateLayout)
		}
		return u.Format(timestampLayout)
	default:
		return fmt.Sprint(val)
	}
}

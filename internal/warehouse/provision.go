// Package warehouse creates the youtube_trending schema in a target store and
// loads the dataset CSV into it.
package warehouse

import (
	"context"
	"embed"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/leapstack-labs/trendsql/internal/batch"
	"github.com/leapstack-labs/trendsql/pkg/adapter"
	"github.com/pressly/goose/v3"
)

// Objects created by provisioning.
const (
	TableName = "youtube_trending"
	ViewName  = "vw_video_metrics"
)

//go:embed migrations/*/*.sql
var migrations embed.FS

//go:embed schema/duckdb.sql
var duckdbSchema string

// gooseDialects maps adapter dialects to goose dialects. DuckDB is not
// supported by goose and uses duckdbSchema instead.
var gooseDialects = map[string]string{
	"sqlite":   "sqlite",
	"postgres": "postgres",
}

// EnsureSchema creates the table and view if they do not exist.
func EnsureSchema(ctx context.Context, adp adapter.Adapter, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	dialect := adp.DialectName()

	if dialect == "duckdb" {
		for _, stmt := range batch.Statements(duckdbSchema) {
			if err := adp.Exec(ctx, stmt); err != nil {
				return fmt.Errorf("failed to apply duckdb schema: %w", err)
			}
		}
		logger.Debug("applied schema", "dialect", dialect)
		return nil
	}

	gooseDialect, ok := gooseDialects[dialect]
	if !ok {
		return fmt.Errorf("no schema migrations for dialect %q", dialect)
	}
	raw, ok := adp.(adapter.SQLDB)
	if !ok {
		return fmt.Errorf("adapter %q does not expose a database handle", dialect)
	}

	goose.SetBaseFS(migrations)
	goose.SetLogger(gooseLogger{logger})
	if err := goose.SetDialect(gooseDialect); err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}
	if err := goose.UpContext(ctx, raw.SQLDB(), "migrations/"+dialect); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	logger.Debug("applied schema", "dialect", dialect)
	return nil
}

// Load replaces the contents of youtube_trending with the rows of csvPath
// and returns the resulting row count.
func Load(ctx context.Context, adp adapter.Adapter, csvPath string, logger *slog.Logger) (int64, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if _, err := os.Stat(csvPath); err != nil {
		return 0, fmt.Errorf("dataset not found: %w", err)
	}

	if err := adp.Exec(ctx, "DELETE FROM "+TableName); err != nil {
		return 0, fmt.Errorf("failed to clear %s: %w", TableName, err)
	}
	if err := adp.LoadCSV(ctx, TableName, csvPath); err != nil {
		return 0, fmt.Errorf("failed to load %s: %w", csvPath, err)
	}

	count, err := CountRows(ctx, adp)
	if err != nil {
		return 0, err
	}
	logger.Info("loaded dataset", "table", TableName, "rows", count, "path", csvPath)
	return count, nil
}

// Provision applies the schema and loads the dataset.
func Provision(ctx context.Context, adp adapter.Adapter, csvPath string, logger *slog.Logger) (int64, error) {
	if err := EnsureSchema(ctx, adp, logger); err != nil {
		return 0, err
	}
	return Load(ctx, adp, csvPath, logger)
}

// CountRows returns the number of rows in youtube_trending.
func CountRows(ctx context.Context, adp adapter.Adapter) (int64, error) {
	rows, err := adp.Query(ctx, "SELECT COUNT(*) FROM "+TableName)
	if err != nil {
		return 0, fmt.Errorf("failed to count rows: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var count int64
	if rows.Next() {
		if err := rows.Scan(&count); err != nil {
			return 0, fmt.Errorf("failed to count rows: %w", err)
		}
	}
	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("failed to count rows: %w", err)
	}
	return count, nil
}

// gooseLogger routes goose output through slog.
type gooseLogger struct {
	logger *slog.Logger
}

func (l gooseLogger) Printf(format string, v ...any) {
	l.logger.Debug(strings.TrimSpace(fmt.Sprintf(format, v...)), "component", "goose")
}

func (l gooseLogger) Fatalf(format string, v ...any) {
	l.logger.Error(strings.TrimSpace(fmt.Sprintf(format, v...)), "component", "goose")
}

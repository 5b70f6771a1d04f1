package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/leapstack-labs/trendsql/pkg/adapter"
)

// Sentinel errors for the failures that abort a run before any query executes.
var (
	ErrScriptRead = errors.New("cannot read script")
	ErrOutputDir  = errors.New("cannot write output directory")
	ErrConnect    = errors.New("cannot open database connection")
)

// Config holds runner configuration.
type Config struct {
	// ScriptPath is the SQL script to run.
	ScriptPath string
	// OutputDir receives one CSV per query plus _summary.csv.
	OutputDir string
	// Target selects and configures the database adapter.
	Target adapter.Config
	// Logger is the structured logger (optional, uses discard if nil)
	Logger *slog.Logger
	// OnEntry, when set, is called after each query is recorded.
	OnEntry func(Entry)
}

// Runner executes a script against one connection and records a manifest.
type Runner struct {
	cfg    Config
	logger *slog.Logger
}

// New creates a runner.
func New(cfg Config) *Runner {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Runner{cfg: cfg, logger: logger}
}

// Run reads the script, opens the target, prepares the output directory and
// runs every query on a single pinned connection. Nothing is created in the
// output directory when the script or the connection is unavailable.
// The returned error is non-nil only when the run could not start or the
// manifest could not be written; failing queries are reported in the manifest.
func (r *Runner) Run(ctx context.Context) (*Manifest, error) {
	script, err := os.ReadFile(r.cfg.ScriptPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScriptRead, err)
	}

	adp, err := adapter.NewAdapter(r.cfg.Target, r.logger)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnect, err)
	}
	if err := adp.Connect(ctx, r.cfg.Target); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnect, err)
	}
	defer func() { _ = adp.Close() }()

	conn, err := adp.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnect, err)
	}
	defer func() { _ = conn.Close() }()

	if err := prepareOutputDir(r.cfg.OutputDir); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOutputDir, err)
	}

	return r.RunScript(ctx, conn, string(script))
}

// RunScript runs every query of script on db, in order, and writes the
// manifest. The output directory must already exist.
func (r *Runner) RunScript(ctx context.Context, db adapter.Querier, script string) (*Manifest, error) {
	m := &Manifest{
		RunID:     uuid.NewString(),
		StartedAt: time.Now(),
		Entries:   []Entry{},
	}
	logger := r.logger.With("run_id", m.RunID)

	queries := Extract(script)
	logger.Info("starting run", "script", r.cfg.ScriptPath, "queries", len(queries))

	exporter := NewExporter(r.cfg.OutputDir)
	for _, q := range queries {
		entry := r.runQuery(ctx, logger, db, exporter, q)
		m.Entries = append(m.Entries, entry)
		if r.cfg.OnEntry != nil {
			r.cfg.OnEntry(entry)
		}
	}

	path, err := WriteManifest(r.cfg.OutputDir, m.Entries)
	m.Duration = time.Since(m.StartedAt)
	if err != nil {
		return m, err
	}
	m.Path = path

	logger.Info("run completed", "ok", m.Succeeded(), "failed", m.Failed(), "duration", m.Duration)
	return m, nil
}

func (r *Runner) runQuery(ctx context.Context, logger *slog.Logger, db adapter.Querier, exporter *Exporter, q Query) Entry {
	logger = logger.With("query_num", q.Number, "name", q.Name)

	entry := Entry{QueryNum: q.Number, Name: q.Name}
	outcome := Execute(ctx, db, q)
	if outcome.Failed() {
		logger.Warn("query failed", "error", outcome.Err)
		entry.Status = outcome.Message()
		return entry
	}

	entry.Rows = len(outcome.Rows)
	file, err := exporter.Export(outcome, q)
	if err != nil {
		logger.Error("export failed", "rows", entry.Rows, "error", err)
		entry.Status = "export failed: " + err.Error()
		return entry
	}

	logger.Debug("query exported", "rows", entry.Rows, "file", file)
	entry.OutputFile = file
	entry.Status = StatusOK
	return entry
}

// Exporter writes query results into one output directory and keeps every
// file name it hands out unique within the run.
type Exporter struct {
	dir  string
	used map[string]bool
}

// NewExporter creates an exporter for dir.
func NewExporter(dir string) *Exporter {
	return &Exporter{dir: dir, used: make(map[string]bool)}
}

// Export writes a successful outcome and returns the file name used.
// When FileName(q) was already used in this run, _2, _3, ... is inserted
// before the extension. A failed outcome writes nothing and returns "".
func (e *Exporter) Export(outcome Outcome, q Query) (string, error) {
	if outcome.Failed() {
		return "", nil
	}
	name := e.reserve(FileName(q))
	if err := writeCSV(filepath.Join(e.dir, name), outcome.Columns, outcome.Rows); err != nil {
		return "", err
	}
	return name, nil
}

func (e *Exporter) reserve(name string) string {
	candidate := name
	base := strings.TrimSuffix(name, ".csv")
	for n := 2; e.used[candidate]; n++ {
		candidate = base + "_" + strconv.Itoa(n) + ".csv"
	}
	e.used[candidate] = true
	return candidate
}

// prepareOutputDir creates dir and checks that files can be created in it.
func prepareOutputDir(dir string) error {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return err
	}
	probe, err := os.CreateTemp(dir, ".probe-*")
	if err != nil {
		return err
	}
	name := probe.Name()
	_ = probe.Close()
	return os.Remove(name)
}

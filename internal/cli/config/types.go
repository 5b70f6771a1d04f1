// Package config provides configuration management for the trendsql CLI.
package config

import (
	"strings"

	"github.com/leapstack-labs/trendsql/internal/dataset"
	"github.com/leapstack-labs/trendsql/pkg/adapter"
)

// TargetConfig holds database target configuration.
type TargetConfig struct {
	Type string `koanf:"type"` // sqlite, duckdb, postgres

	// File path for sqlite and duckdb, database name for postgres.
	Database string `koanf:"database"`

	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	User     string `koanf:"user"`
	Password string `koanf:"password"`
	Schema   string `koanf:"schema"`

	// Additional driver-specific options (e.g. sslmode)
	Options map[string]string `koanf:"options"`
	// Params holds adapter-specific settings (e.g. DuckDB extensions)
	Params map[string]any `koanf:"params"`
}

// AdapterConfig converts the target into the adapter connection config.
func (t *TargetConfig) AdapterConfig() adapter.Config {
	cfg := adapter.Config{
		Type:     t.Type,
		Database: t.Database,
		Host:     t.Host,
		Port:     t.Port,
		Username: t.User,
		Password: t.Password,
		Schema:   t.Schema,
		Options:  t.Options,
		Params:   t.Params,
	}
	if IsFileBased(t.Type) {
		cfg.Path = t.Database
	}
	return cfg
}

// IsFileBased reports whether the target type stores data in a local file.
func IsFileBased(targetType string) bool {
	return strings.EqualFold(targetType, "sqlite") || strings.EqualFold(targetType, "duckdb")
}

// GenerateConfig holds settings for the generate command.
type GenerateConfig struct {
	Rows int    `koanf:"rows"`
	Seed uint64 `koanf:"seed"`
}

// ServeConfig holds settings for the results server.
type ServeConfig struct {
	Port int `koanf:"port"`
}

// Config holds all CLI configuration options.
type Config struct {
	ScriptPath   string         `koanf:"script"`
	DatabasePath string         `koanf:"database"`
	OutputDir    string         `koanf:"output_dir"`
	DatasetPath  string         `koanf:"dataset"`
	Verbose      bool           `koanf:"verbose"`
	OutputFormat string         `koanf:"output"`
	Target       *TargetConfig  `koanf:"target"`
	Generate     GenerateConfig `koanf:"generate"`
	Serve        ServeConfig    `koanf:"serve"`

	// ProjectRoot is the directory relative paths are resolved against.
	ProjectRoot string `koanf:"-"`
}

// Default configuration values.
const (
	ConfigFileName    = "trendsql.yaml"
	ConfigFileNameAlt = "trendsql.yml"

	DefaultScriptPath  = "queries/analysis.sql"
	DefaultDatabase    = "data/youtube.db"
	DefaultOutputDir   = "queries/results"
	DefaultDatasetPath = "data/youtube_trending.csv"
	DefaultTargetType  = "sqlite"
	DefaultOutput      = "auto" // Auto-detect: TTY=text, non-TTY=markdown
	DefaultServePort   = 8080

	DefaultRows = dataset.DefaultRows
	DefaultSeed = dataset.DefaultSeed
)

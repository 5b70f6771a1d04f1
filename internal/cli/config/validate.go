package config

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/trendsql/pkg/adapter"
)

var validOutputs = []string{"auto", "text", "markdown", "json"}

// ApplyTargetDefaults fills in type-specific defaults.
func ApplyTargetDefaults(t *TargetConfig) {
	if t == nil {
		return
	}
	t.Type = strings.ToLower(t.Type)
	if t.Type == "postgres" {
		if t.Port == 0 {
			t.Port = 5432
		}
		if t.Schema == "" {
			t.Schema = "public"
		}
	}
}

// ValidateTarget checks that the target names a registered adapter and has
// what that adapter needs to connect.
func ValidateTarget(t *TargetConfig) error {
	if t == nil || t.Type == "" {
		return fmt.Errorf("target type is required")
	}
	if !adapter.IsRegistered(strings.ToLower(t.Type)) {
		return &adapter.UnknownAdapterError{Type: t.Type, Available: adapter.ListAdapters()}
	}
	if !IsFileBased(t.Type) && t.Database == "" {
		return fmt.Errorf("target.database is required for %s", t.Type)
	}
	return nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.ScriptPath == "" {
		return fmt.Errorf("script is required")
	}
	if c.OutputDir == "" {
		return fmt.Errorf("output_dir is required")
	}
	valid := false
	for _, o := range validOutputs {
		if c.OutputFormat == o {
			valid = true
		}
	}
	if !valid {
		return fmt.Errorf("invalid output format %q (expected one of %s)", c.OutputFormat, strings.Join(validOutputs, ", "))
	}
	if c.Generate.Rows <= 0 {
		return fmt.Errorf("generate.rows must be positive, got %d", c.Generate.Rows)
	}
	if err := ValidateTarget(c.Target); err != nil {
		return fmt.Errorf("invalid target configuration: %w", err)
	}
	return nil
}

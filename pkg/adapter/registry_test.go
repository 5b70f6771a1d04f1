package adapter

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnknownAdapterError_Error(t *testing.T) {
	err := &UnknownAdapterError{
		Type:      "fake_db",
		Available: []string{"duckdb", "sqlite"},
	}

	msg := err.Error()

	assert.Contains(t, msg, "fake_db", "error should mention the unknown type")
	assert.Contains(t, msg, "sqlite", "error should list available adapters")
	assert.Contains(t, msg, "trendsql.yaml", "error should mention config file")
	assert.Contains(t, msg, "TRENDSQL_TARGET__TYPE", "error should mention the env override")
	assert.Contains(t, msg, "--adapter", "error should mention the flag")
}

func TestRegister(t *testing.T) {
	Register("test_adapter_internal", func(_ *slog.Logger) Adapter { return nil })

	assert.True(t, IsRegistered("test_adapter_internal"))

	factory, ok := Get("test_adapter_internal")
	assert.True(t, ok)
	assert.NotNil(t, factory)
	assert.Contains(t, ListAdapters(), "test_adapter_internal")
}

func TestRegister_CaseInsensitive(t *testing.T) {
	Register("Test_Mixed_Case", func(_ *slog.Logger) Adapter { return nil })

	assert.True(t, IsRegistered("test_mixed_case"))
	assert.True(t, IsRegistered("TEST_MIXED_CASE"))
	assert.Contains(t, ListAdapters(), "test_mixed_case")
	assert.NotContains(t, ListAdapters(), "Test_Mixed_Case")
}

func TestNewAdapter_EmptyType(t *testing.T) {
	_, err := NewAdapter(Config{Type: ""}, nil)
	require.Error(t, err)
	assert.Equal(t, "adapter type not specified", err.Error())
}

func TestNewAdapter_Unknown(t *testing.T) {
	_, err := NewAdapter(Config{Type: "no_such_engine"}, nil)
	require.Error(t, err)

	var unknown *UnknownAdapterError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "no_such_engine", unknown.Type)
}

package batch

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/leapstack-labs/trendsql/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatch_RerunsOnWrite(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "analysis.sql")
	other := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(script, []byte("SELECT 1;"), 0o600))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var calls atomic.Int32
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, script, testutil.NewTestLogger(t), func(context.Context) {
			calls.Add(1)
		})
	}()

	// Writes to other files in the directory are ignored.
	require.NoError(t, os.WriteFile(other, []byte("x"), 0o600))

	require.Eventually(t, func() bool {
		_ = os.WriteFile(script, []byte("SELECT 2;"), 0o600)
		return calls.Load() > 0
	}, 5*time.Second, 300*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Watch did not return after cancel")
	}
}

func TestWatch_MissingDirectory(t *testing.T) {
	err := Watch(context.Background(), filepath.Join(t.TempDir(), "nope", "a.sql"), nil, func(context.Context) {})
	assert.Error(t, err)
}

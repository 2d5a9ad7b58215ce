package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func startWatcher(t *testing.T, path string, fn RunFunc) (cancel func()) {
	t.Helper()
	w, err := New(path, 20*time.Millisecond, zap.NewNop())
	require.NoError(t, err)

	ctx, cancelCtx := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, fn)
	}()

	return func() {
		cancelCtx()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Fatal("watcher did not stop")
		}
	}
}

func TestWatcherRerunsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "input.ndjson")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o644))

	var runs atomic.Int32
	stop := startWatcher(t, path, func(ctx context.Context) error {
		runs.Add(1)
		return nil
	})
	defer stop()

	// Give the watcher time to register before writing
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte(`{"regex":"a"}`), 0o644))

	assert.Eventually(t, func() bool { return runs.Load() >= 1 }, 5*time.Second, 10*time.Millisecond)
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "input.ndjson")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o644))

	var runs atomic.Int32
	stop := startWatcher(t, path, func(ctx context.Context) error {
		runs.Add(1)
		return nil
	})

	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.ndjson"), []byte("{}"), 0o644))
	time.Sleep(200 * time.Millisecond)
	stop()

	assert.Equal(t, int32(0), runs.Load())
}

func TestWatcherContinuesAfterFailedRun(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "input.ndjson")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o644))

	var runs atomic.Int32
	stop := startWatcher(t, path, func(ctx context.Context) error {
		runs.Add(1)
		return errors.New("boom")
	})
	defer stop()

	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte("1"), 0o644))
	require.Eventually(t, func() bool { return runs.Load() >= 1 }, 5*time.Second, 10*time.Millisecond)

	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte("2"), 0o644))
	assert.Eventually(t, func() bool { return runs.Load() >= 2 }, 5*time.Second, 10*time.Millisecond)
}

func TestWatcherMissingDirectory(t *testing.T) {
	w, err := New(filepath.Join(t.TempDir(), "missing", "input.ndjson"), time.Millisecond, zap.NewNop())
	require.NoError(t, err)

	err = w.Run(context.Background(), func(context.Context) error { return nil })
	assert.Error(t, err)
}

package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/arthur-debert/luadb/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startWatcher(t *testing.T, w *Watcher) (*atomic.Int32, context.CancelFunc, <-chan error) {
	t.Helper()
	var calls atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func(context.Context) error {
			calls.Add(1)
			return nil
		})
	}()
	// Give the watcher time to register its directories
	time.Sleep(100 * time.Millisecond)
	return &calls, cancel, done
}

func TestWatchDirectoryDebounces(t *testing.T) {
	dir := t.TempDir()
	tableDir := filepath.Join(dir, "db", "units_tables")
	require.NoError(t, os.MkdirAll(tableDir, 0755))

	calls, cancel, done := startWatcher(t, New([]string{dir}, nil, 150*time.Millisecond))

	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(filepath.Join(tableDir, "data__"), []byte{byte(i)}, 0644))
	}

	assert.Eventually(t, func() bool { return calls.Load() >= 1 }, 3*time.Second, 20*time.Millisecond)
	time.Sleep(400 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load(), "a burst of writes runs once")

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestWatchArchiveIgnoresSiblings(t *testing.T) {
	dir := t.TempDir()
	archive := filepath.Join(dir, "mod.zip")
	require.NoError(t, os.WriteFile(archive, []byte("v1"), 0644))

	calls, cancel, done := startWatcher(t, New([]string{archive}, nil, 50*time.Millisecond))
	defer func() {
		cancel()
		<-done
	}()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0644))
	time.Sleep(300 * time.Millisecond)
	assert.Equal(t, int32(0), calls.Load())

	require.NoError(t, os.WriteFile(archive, []byte("v2"), 0644))
	assert.Eventually(t, func() bool { return calls.Load() == 1 }, 3*time.Second, 20*time.Millisecond)
}

func TestWatchIgnoresOutputDir(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out")
	require.NoError(t, os.MkdirAll(out, 0755))

	calls, cancel, done := startWatcher(t, New([]string{dir}, []string{out}, 50*time.Millisecond))
	defer func() {
		cancel()
		<-done
	}()

	require.NoError(t, os.WriteFile(filepath.Join(out, "x.lua"), []byte("x"), 0644))
	time.Sleep(300 * time.Millisecond)
	assert.Equal(t, int32(0), calls.Load())
}

func TestWatchMissingSource(t *testing.T) {
	w := New([]string{filepath.Join(t.TempDir(), "missing")}, nil, 0)
	assert.Equal(t, DefaultDebounce, w.debounce)

	err := w.Run(context.Background(), func(context.Context) error { return nil })
	assert.True(t, errors.IsErrorCode(err, errors.ErrSourceNotFound))
}

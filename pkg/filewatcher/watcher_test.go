package filewatcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestWatchDebouncesWrites(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "dsa.json")
	require.NoError(t, os.WriteFile(target, []byte("[]"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	changes := make(chan []string, 4)
	done := make(chan error, 1)

	go func() {
		done <- Watch(ctx, dir, 50*time.Millisecond, func(paths []string) {
			changes <- paths
		})
	}()

	// 给 watcher 注册目录留出时间
	time.Sleep(100 * time.Millisecond)
	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(target, []byte("[ ]"), 0o644))
	}

	select {
	case paths := <-changes:
		absTarget, err := filepath.Abs(target)
		require.NoError(t, err)
		assert.Equal(t, []string{absTarget}, paths)
	case <-time.After(3 * time.Second):
		t.Fatal("expected a debounced change notification")
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("watch did not stop after cancel")
	}
}

func TestWatchMissingDir(t *testing.T) {
	err := Watch(context.Background(), filepath.Join(t.TempDir(), "missing"), 0, func([]string) {})
	assert.Error(t, err)
}

package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddTracksFiles(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.sh")
	b := filepath.Join(dir, "b.sh")
	require.NoError(t, os.WriteFile(a, []byte("echo a\n"), 0o644))
	require.NoError(t, os.WriteFile(b, []byte("echo b\n"), 0o644))

	w, err := New(nil)
	require.NoError(t, err)
	t.Cleanup(func() { w.fsw.Close() })

	require.NoError(t, w.Add(b, a, a))
	assert.Equal(t, []string{a, b}, w.Files())
	assert.Len(t, w.dirs, 1)
}

func TestAddMissingDirectory(t *testing.T) {
	w, err := New(nil)
	require.NoError(t, err)
	t.Cleanup(func() { w.fsw.Close() })

	err = w.Add(filepath.Join(t.TempDir(), "nope", "x.sh"))
	assert.Error(t, err)
}

func TestSettledDebounce(t *testing.T) {
	w, err := New(nil)
	require.NoError(t, err)
	t.Cleanup(func() { w.fsw.Close() })
	w.SetDebounce(100 * time.Millisecond)

	now := time.Now()
	w.pending["/x/old.sh"] = now.Add(-time.Second)
	w.pending["/x/new.sh"] = now

	assert.Equal(t, []string{"/x/old.sh"}, w.settled(now))
	assert.Empty(t, w.settled(now))
	assert.Equal(t, []string{"/x/new.sh"}, w.settled(now.Add(time.Second)))
}

func TestRunDeliversChange(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "build.sh")
	other := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(script, []byte("mkdir out\n"), 0o644))

	w, err := New(nil)
	require.NoError(t, err)
	w.SetDebounce(20 * time.Millisecond)
	require.NoError(t, w.Add(script))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	changed := make(chan string, 4)
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func(_ context.Context, path string) { changed <- path })
	}()

	// give the watcher a moment to start reading events
	time.Sleep(50 * time.Millisecond)
	require.NoError(t, os.WriteFile(other, []byte("ignored"), 0o644))
	require.NoError(t, os.WriteFile(script, []byte("mkdir out\nrm x\n"), 0o644))

	select {
	case got := <-changed:
		assert.Equal(t, script, got)
	case <-ctx.Done():
		t.Fatal("no change delivered")
	}

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

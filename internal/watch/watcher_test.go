package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcher_ReportsWrites(t *testing.T) {
	dir := t.TempDir()
	watched := filepath.Join(dir, "watched.txt")
	other := filepath.Join(dir, "other.txt")
	require.NoError(t, os.WriteFile(watched, []byte("one\n"), 0o644))

	w, err := New([]string{watched}, nil)
	require.NoError(t, err)
	defer w.Close()
	w.Start()

	require.NoError(t, os.WriteFile(other, []byte("ignored\n"), 0o644))
	require.NoError(t, os.WriteFile(watched, []byte("two\n"), 0o644))

	var got Change
	require.Eventually(t, func() bool {
		select {
		case got = <-w.Changes():
			return true
		default:
			return false
		}
	}, 5*time.Second, 10*time.Millisecond)
	assert.Equal(t, watched, got.Path)
}

func TestWatcher_ReportsAtomicReplace(t *testing.T) {
	dir := t.TempDir()
	watched := filepath.Join(dir, "watched.txt")
	require.NoError(t, os.WriteFile(watched, []byte("one\n"), 0o644))

	w, err := New([]string{watched}, nil)
	require.NoError(t, err)
	defer w.Close()
	w.Start()

	tmp := filepath.Join(dir, ".watched.txt.swp")
	require.NoError(t, os.WriteFile(tmp, []byte("two\n"), 0o644))
	require.NoError(t, os.Rename(tmp, watched))

	require.Eventually(t, func() bool {
		select {
		case c := <-w.Changes():
			return c.Path == watched
		default:
			return false
		}
	}, 5*time.Second, 10*time.Millisecond)
}

func TestWatcher_CloseIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f.txt")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	w, err := New([]string{path}, nil)
	require.NoError(t, err)
	w.Start()

	assert.NoError(t, w.Close())
	assert.NoError(t, w.Close())

	_, open := <-w.Changes()
	assert.False(t, open)
}

func TestWatcher_Errors(t *testing.T) {
	_, err := New(nil, nil)
	assert.Error(t, err)

	_, err = New([]string{filepath.Join(t.TempDir(), "missing", "f.txt")}, nil)
	assert.Error(t, err)
}

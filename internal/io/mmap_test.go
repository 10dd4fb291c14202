package io

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadRange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello\nworld\n"), 0o644))

	file, err := OpenMapped(path)
	require.NoError(t, err)
	defer file.Close()

	assert.Equal(t, path, file.Path())
	assert.Equal(t, int64(12), file.Size())

	content, err := file.ReadRange(6, 100)
	require.NoError(t, err)
	assert.Equal(t, "world\n", string(content))

	content, err = file.ReadRange(5, 5)
	require.NoError(t, err)
	assert.Nil(t, content)
}

func TestOpenMapped_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.txt")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	file, err := OpenMapped(path)
	require.NoError(t, err)
	defer file.Close()

	assert.Equal(t, int64(0), file.Size())
	content, err := file.ReadRange(0, file.Size())
	require.NoError(t, err)
	assert.Empty(t, content)
}

func TestOpenMapped_Missing(t *testing.T) {
	_, err := OpenMapped(filepath.Join(t.TempDir(), "nope.txt"))
	assert.Error(t, err)
}

func TestOpenMapped_Directory(t *testing.T) {
	_, err := OpenMapped(t.TempDir())
	assert.Error(t, err)
}

func TestRefresh_DetectsShrink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.txt")
	require.NoError(t, os.WriteFile(path, []byte("a long first version\n"), 0o644))

	file, err := OpenMapped(path)
	require.NoError(t, err)
	defer file.Close()

	changed, err := file.Refresh()
	require.NoError(t, err)
	assert.False(t, changed)

	require.NoError(t, os.WriteFile(path, []byte("short\n"), 0o644))
	later := time.Now().Add(2 * time.Second)
	require.NoError(t, os.Chtimes(path, later, later))

	changed, err = file.Refresh()
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, int64(6), file.Size())

	content, err := file.ReadRange(0, file.Size())
	require.NoError(t, err)
	assert.Equal(t, "short\n", string(content))
}

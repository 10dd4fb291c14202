package index

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mdiffio "github.com/TimelordUK/mdiff/internal/io"
	"github.com/TimelordUK/mdiff/pkg/linediff"
)

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func indexLines(t *testing.T, path string) []string {
	t.Helper()
	file, err := mdiffio.OpenMapped(path)
	require.NoError(t, err)
	defer file.Close()

	idx, err := BuildLineIndex(file)
	require.NoError(t, err)
	lines, err := idx.Strings()
	require.NoError(t, err)
	return lines
}

func TestLineIndex_MatchesSplitLines(t *testing.T) {
	inputs := []string{
		"",
		"a",
		"a\n",
		"a\r\nb\r\n",
		"\n\n",
		"first\nsecond\r\nthird",
		"tail\r",
	}

	for _, in := range inputs {
		lines := indexLines(t, writeTemp(t, in))

		want := linediff.SplitLines(in)
		if want == nil {
			want = []string{}
		}
		assert.Equal(t, want, lines, "content %q", in)
	}
}

func TestLineIndex_LargerThanChunk(t *testing.T) {
	line := make([]byte, 1000)
	for i := range line {
		line[i] = 'x'
	}

	var content []byte
	for i := 0; i < 200; i++ {
		content = append(content, line...)
		content = append(content, '\n')
	}

	lines := indexLines(t, writeTemp(t, string(content)))
	require.Len(t, lines, 201)
	assert.Equal(t, string(line), lines[150])
	assert.Equal(t, "", lines[200])
}

func TestLineIndex_GetLines(t *testing.T) {
	file, err := mdiffio.OpenMapped(writeTemp(t, "a\r\nb\nc"))
	require.NoError(t, err)
	defer file.Close()

	idx, err := BuildLineIndex(file)
	require.NoError(t, err)
	require.Equal(t, 3, idx.LineCount())

	lines, err := idx.GetLines(1, 10)
	require.NoError(t, err)
	assert.Equal(t, [][]byte{[]byte("b"), []byte("c")}, lines)

	line, err := idx.GetLine(3)
	require.NoError(t, err)
	assert.Nil(t, line)
}

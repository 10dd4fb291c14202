package export

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TimelordUK/mdiff/internal/source"
	"github.com/TimelordUK/mdiff/pkg/linediff"
)

func numberedLines(n int) []string {
	lines := make([]string, n)
	for i := range lines {
		lines[i] = string(rune('1' + i))
	}
	return lines
}

func TestWriteSideBySide(t *testing.T) {
	res := linediff.Compare("a\nb\nc", "a\nB\nc\nd")

	var buf bytes.Buffer
	require.NoError(t, WriteSideBySide(&buf, res.Rows, 21))

	want := strings.Join([]string{
		"1 a" + strings.Repeat(" ", 9) + "1 a",
		"2 b" + strings.Repeat(" ", 6) + " | 2 B",
		"3 c" + strings.Repeat(" ", 9) + "3 c",
		strings.Repeat(" ", 9) + " > 4 d",
	}, "\n") + "\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteSideBySide_RemovedRowHasNoTrailingSpace(t *testing.T) {
	res := linediff.Compare("gone", "")

	var buf bytes.Buffer
	require.NoError(t, WriteSideBySide(&buf, res.Rows, 21))
	assert.Equal(t, "1 gone    <\n", buf.String())
}

func TestWriteSideBySide_TruncatesAndExpandsTabs(t *testing.T) {
	res := linediff.Compare("\tabcdefgh", "\tabcdefgh")

	var buf bytes.Buffer
	require.NoError(t, WriteSideBySide(&buf, res.Rows, 21))
	assert.Equal(t, "1     ab…   1     ab…\n", buf.String())
}

func TestWriteUnified(t *testing.T) {
	res := linediff.Compare("a\nb\nc", "a\nB\nc\nd")

	var buf bytes.Buffer
	require.NoError(t, WriteUnified(&buf, res.Tagged, 1, "left", "right"))
	assert.Equal(t, "--- left\n+++ right\n@@ -1,3 +1,4 @@\n a\n-b\n+B\n c\n+d\n", buf.String())
}

func TestWriteUnified_SeparateHunks(t *testing.T) {
	original := numberedLines(9)
	modified := append([]string(nil), original...)
	modified[1] = "2x"
	modified[7] = "8x"
	res := linediff.CompareLines(original, modified)

	var buf bytes.Buffer
	require.NoError(t, WriteUnified(&buf, res.Tagged, 1, "a", "b"))
	assert.Equal(t, strings.Join([]string{
		"--- a",
		"+++ b",
		"@@ -1,3 +1,3 @@",
		" 1",
		"-2",
		"+2x",
		" 3",
		"@@ -7,3 +7,3 @@",
		" 7",
		"-8",
		"+8x",
		" 9",
	}, "\n")+"\n", buf.String())
}

func TestWriteUnified_EmptySideStartsAtZero(t *testing.T) {
	res := linediff.Compare("", "x\ny")

	var buf bytes.Buffer
	require.NoError(t, WriteUnified(&buf, res.Tagged, 3, "a", "b"))
	assert.Equal(t, "--- a\n+++ b\n@@ -0,0 +1,2 @@\n+x\n+y\n", buf.String())
}

func TestWriteUnified_SingleLineRangesOmitCount(t *testing.T) {
	res := linediff.Compare("a", "b")

	var buf bytes.Buffer
	require.NoError(t, WriteUnified(&buf, res.Tagged, 3, "a", "b"))
	assert.Equal(t, "--- a\n+++ b\n@@ -1 +1 @@\n-a\n+b\n", buf.String())

	buf.Reset()
	require.NoError(t, WriteUnified(&buf, linediff.Compare("", "x").Tagged, 3, "a", "b"))
	assert.Equal(t, "--- a\n+++ b\n@@ -0,0 +1 @@\n+x\n", buf.String())
}

func TestWriteUnified_IdenticalWritesNothing(t *testing.T) {
	res := linediff.Compare("same", "same")

	var buf bytes.Buffer
	require.NoError(t, WriteUnified(&buf, res.Tagged, 3, "a", "b"))
	assert.Empty(t, buf.String())
}

func TestWriteTagged(t *testing.T) {
	res := linediff.Compare("a\nb\nc", "a\nB\nc\nd")

	var buf bytes.Buffer
	require.NoError(t, WriteTagged(&buf, res.Tagged))
	assert.Equal(t, " a\n-b\n+B\n c\n+d\n", buf.String())
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("Unified")
	require.NoError(t, err)
	assert.Equal(t, FormatUnified, f)

	_, err = ParseFormat("html")
	assert.Error(t, err)
}

func TestExporter_ExportRowsCompressed(t *testing.T) {
	src := source.NewDiffSource(source.TextInput("a", "x\ny"), source.TextInput("b", "x\nz"))
	src.Compute()
	rows := src.GetRows(0, src.RowCount())

	e := NewExporter(40, DefaultContext)
	path := filepath.Join(t.TempDir(), "out.txt.zst")
	info, err := e.ExportRows(path, rows)
	require.NoError(t, err)
	assert.True(t, info.Compressed)
	assert.Equal(t, 2, info.Rows)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	dec, err := zstd.NewReader(nil)
	require.NoError(t, err)
	defer dec.Close()
	plain, err := dec.DecodeAll(data, nil)
	require.NoError(t, err)

	var want bytes.Buffer
	require.NoError(t, WriteSideBySide(&want, src.Result().Rows, 40))
	assert.Equal(t, want.String(), string(plain))
}

func TestExporter_ExportResult(t *testing.T) {
	res := linediff.Compare("a", "b")
	e := NewExporter(DefaultWidth, DefaultContext)
	path := filepath.Join(t.TempDir(), "out.diff")

	info, err := e.ExportResult(path, FormatTagged, res, "a", "b")
	require.NoError(t, err)
	assert.False(t, info.Compressed)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "-a\n+b\n", string(data))
}

func TestExporter_BadPath(t *testing.T) {
	e := NewExporter(DefaultWidth, DefaultContext)
	_, err := e.ExportResult(filepath.Join(t.TempDir(), "missing", "out.txt"), FormatSide, linediff.Result{}, "a", "b")
	assert.Error(t, err)
}

func TestExporter_DefaultPath(t *testing.T) {
	e := NewExporter(DefaultWidth, DefaultContext)
	assert.Equal(t, "mdiff-left.txt-my_notes.txt", filepath.Base(e.DefaultPath("/tmp/left.txt", "my notes")))
}

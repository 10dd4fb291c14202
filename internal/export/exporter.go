package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"

	"github.com/TimelordUK/mdiff/internal/source"
	"github.com/TimelordUK/mdiff/pkg/linediff"
)

// Format selects an output layout
type Format string

const (
	FormatSide    Format = "side"
	FormatUnified Format = "unified"
	FormatTagged  Format = "tagged"
)

// ParseFormat validates a format name
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(name)); f {
	case FormatSide, FormatUnified, FormatTagged:
		return f, nil
	default:
		return "", fmt.Errorf("unknown format %q (want side, unified or tagged)", name)
	}
}

// Info describes a written export
type Info struct {
	Path       string
	Format     Format
	Rows       int
	Compressed bool
}

// Exporter writes comparisons to files
type Exporter struct {
	width   int
	context int
	dir     string
}

// NewExporter creates an exporter with the side-by-side width and
// unified context to use
func NewExporter(width, context int) *Exporter {
	return &Exporter{
		width:   width,
		context: context,
		dir:     os.TempDir(),
	}
}

// DefaultPath suggests a file name for exporting a comparison
func (e *Exporter) DefaultPath(fromName, toName string) string {
	return filepath.Join(e.dir, fmt.Sprintf("mdiff-%s-%s.txt", safeName(fromName), safeName(toName)))
}

// Write renders a result in the given format
func (e *Exporter) Write(w io.Writer, format Format, res linediff.Result, fromName, toName string) error {
	switch format {
	case FormatUnified:
		return WriteUnified(w, res.Tagged, e.context, fromName, toName)
	case FormatTagged:
		return WriteTagged(w, res.Tagged)
	default:
		return WriteSideBySide(w, res.Rows, e.width)
	}
}

// ExportResult writes a whole result to path
func (e *Exporter) ExportResult(path string, format Format, res linediff.Result, fromName, toName string) (*Info, error) {
	err := writeFile(path, func(w io.Writer) error {
		return e.Write(w, format, res, fromName, toName)
	})
	if err != nil {
		return nil, err
	}

	return &Info{
		Path:       path,
		Format:     format,
		Rows:       len(res.Rows),
		Compressed: isCompressed(path),
	}, nil
}

// ExportRows writes the given rows side by side to path, typically the
// rows currently visible through a filter
func (e *Exporter) ExportRows(path string, rows []*source.Row) (*Info, error) {
	display := make([]linediff.DisplayRow, 0, len(rows))
	for _, row := range rows {
		if row != nil {
			display = append(display, row.DisplayRow)
		}
	}

	err := writeFile(path, func(w io.Writer) error {
		return WriteSideBySide(w, display, e.width)
	})
	if err != nil {
		return nil, err
	}

	return &Info{
		Path:       path,
		Format:     FormatSide,
		Rows:       len(display),
		Compressed: isCompressed(path),
	}, nil
}

// writeFile creates path, compressing with zstd for a .zst suffix, and
// removes it again if writing fails
func writeFile(path string, write func(io.Writer) error) error {
	outFile, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}

	var out io.WriteCloser = outFile
	if isCompressed(path) {
		enc, err := zstd.NewWriter(outFile)
		if err != nil {
			outFile.Close()
			os.Remove(path)
			return fmt.Errorf("failed to start zstd: %w", err)
		}
		out = &zstdFile{enc: enc, file: outFile}
	}

	if err := write(out); err != nil {
		out.Close()
		os.Remove(path)
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := out.Close(); err != nil {
		os.Remove(path)
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	return nil
}

func isCompressed(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".zst")
}

func safeName(name string) string {
	name = filepath.Base(name)
	if name == "" || name == "." || name == string(filepath.Separator) {
		return "text"
	}
	return strings.Map(func(r rune) rune {
		if r == ' ' || r == filepath.Separator {
			return '_'
		}
		return r
	}, name)
}

type zstdFile struct {
	enc  *zstd.Encoder
	file *os.File
}

func (z *zstdFile) Write(p []byte) (int, error) {
	return z.enc.Write(p)
}

func (z *zstdFile) Close() error {
	if err := z.enc.Close(); err != nil {
		z.file.Close()
		return err
	}
	return z.file.Close()
}

package source

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/charmbracelet/bubbles/runeutil"

	"github.com/TimelordUK/mdiff/internal/index"
	mdiffio "github.com/TimelordUK/mdiff/internal/io"
	"github.com/TimelordUK/mdiff/pkg/linediff"
)

// StdinPath names standard input on the command line
const StdinPath = "-"

// editorSanitizer matches the cleanup the textarea buffers apply on input
var editorSanitizer = runeutil.NewSanitizer()

// EditorText returns text as an edit buffer stores it: CRLF and CR become
// LF, tabs become spaces and other control characters are dropped
func EditorText(text string) string {
	return string(editorSanitizer.Sanitize([]rune(text)))
}

// Input is one side of a comparison: a file or pasted text
type Input struct {
	Path string // empty for pasted text
	Name string
	Text string

	lines []string            // cached split, only valid while Text is untouched
	file  *mdiffio.MappedFile // kept open so reloads can detect changes
}

// TextInput creates an input from pasted text
func TextInput(name, text string) Input {
	return Input{Name: name, Text: text}
}

// LoadInput reads an input from a file, or from stdin for "-"
func LoadInput(path string, stdin io.Reader) (Input, error) {
	if path == StdinPath {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return Input{}, fmt.Errorf("read stdin: %w", err)
		}
		return Input{Name: "stdin", Text: string(data)}, nil
	}

	file, err := mdiffio.OpenMapped(path)
	if err != nil {
		return Input{}, err
	}

	text, lines, err := readMapped(file)
	if err != nil {
		file.Close()
		return Input{}, err
	}

	return Input{
		Path:  path,
		Name:  filepath.Base(path),
		Text:  text,
		lines: lines,
		file:  file,
	}, nil
}

func readMapped(file *mdiffio.MappedFile) (string, []string, error) {
	lineIndex, err := index.BuildLineIndex(file)
	if err != nil {
		return "", nil, fmt.Errorf("index %s: %w", file.Path(), err)
	}
	lines, err := lineIndex.Strings()
	if err != nil {
		return "", nil, fmt.Errorf("read %s: %w", file.Path(), err)
	}
	content, err := file.ReadRange(0, file.Size())
	if err != nil {
		return "", nil, fmt.Errorf("read %s: %w", file.Path(), err)
	}
	return string(content), lines, nil
}

// refresh re-reads a file input if the file changed on disk since it was
// mapped, returning true if the text differs
func (in *Input) refresh() (bool, error) {
	if in.file == nil {
		fresh, err := LoadInput(in.Path, nil)
		if err != nil {
			return false, err
		}
		in.file = fresh.file
		if fresh.Text == in.Text {
			return false, nil
		}
		in.Text, in.lines = fresh.Text, fresh.lines
		return true, nil
	}

	remapped, err := in.file.Refresh()
	if err != nil || !remapped {
		return false, err
	}
	text, lines, err := readMapped(in.file)
	if err != nil {
		return false, err
	}
	if text == in.Text {
		return false, nil
	}
	in.Text, in.lines = text, lines
	return true, nil
}

// Close releases the file mapping, if any
func (in Input) Close() error {
	if in.file == nil {
		return nil
	}
	return in.file.Close()
}

// IsFile returns true if the input is backed by a file on disk
func (in Input) IsFile() bool {
	return in.Path != ""
}

// Lines returns the input split into lines
func (in Input) Lines() []string {
	if in.lines != nil {
		return in.lines
	}
	return linediff.SplitLines(in.Text)
}

// WithText returns a copy of the input holding edited text
func (in Input) WithText(text string) Input {
	in.Text = text
	in.lines = nil
	return in
}

package index

import (
	"bytes"

	mdiffio "github.com/TimelordUK/mdiff/internal/io"
)

// LineIndex stores byte offsets for each line in a file.
// Lines follow linediff.SplitLines: \r?\n separates, a terminal
// separator leaves a trailing empty line, an empty file has no lines.
type LineIndex struct {
	offsets []int64 // byte offset of each line start
	file    *mdiffio.MappedFile
}

// BuildLineIndex scans the file and builds a line offset index
func BuildLineIndex(file *mdiffio.MappedFile) (*LineIndex, error) {
	size := file.Size()
	if size == 0 {
		return &LineIndex{file: file}, nil
	}

	// Estimate initial capacity (assume ~100 bytes per line)
	estimatedLines := int(size/100) + 1
	offsets := make([]int64, 0, estimatedLines)
	offsets = append(offsets, 0)

	const chunkSize = 64 * 1024
	buf := make([]byte, chunkSize)

	var pos int64
	for pos < size {
		readSize := chunkSize
		if pos+int64(readSize) > size {
			readSize = int(size - pos)
		}

		n, err := file.ReadAt(buf[:readSize], pos)
		if err != nil {
			return nil, err
		}

		chunk := buf[:n]
		offset := 0
		for {
			idx := bytes.IndexByte(chunk[offset:], '\n')
			if idx == -1 {
				break
			}
			// A newline at EOF still starts an (empty) line.
			offsets = append(offsets, pos+int64(offset)+int64(idx)+1)
			offset += idx + 1
		}

		pos += int64(n)
	}

	return &LineIndex{
		offsets: offsets,
		file:    file,
	}, nil
}

// LineCount returns the total number of lines
func (idx *LineIndex) LineCount() int {
	return len(idx.offsets)
}

// GetLine returns the content of line at given index (0-based)
func (idx *LineIndex) GetLine(lineNum int) ([]byte, error) {
	if lineNum < 0 || lineNum >= len(idx.offsets) {
		return nil, nil
	}

	start := idx.offsets[lineNum]
	end := idx.file.Size()
	terminated := lineNum+1 < len(idx.offsets)
	if terminated {
		end = idx.offsets[lineNum+1]
	}

	content, err := idx.file.ReadRange(start, end)
	if err != nil {
		return nil, err
	}

	if terminated {
		content = bytes.TrimSuffix(content, []byte("\n"))
		content = bytes.TrimSuffix(content, []byte("\r"))
	}
	return content, nil
}

// GetLines returns a range of lines efficiently
func (idx *LineIndex) GetLines(start, count int) ([][]byte, error) {
	if start < 0 {
		start = 0
	}
	if start >= len(idx.offsets) {
		return nil, nil
	}
	if start+count > len(idx.offsets) {
		count = len(idx.offsets) - start
	}

	lines := make([][]byte, count)
	for i := 0; i < count; i++ {
		line, err := idx.GetLine(start + i)
		if err != nil {
			return nil, err
		}
		lines[i] = line
	}
	return lines, nil
}

// Strings returns every line as a string
func (idx *LineIndex) Strings() ([]string, error) {
	raw, err := idx.GetLines(0, idx.LineCount())
	if err != nil {
		return nil, err
	}

	lines := make([]string, len(raw))
	for i, l := range raw {
		lines[i] = string(l)
	}
	return lines, nil
}

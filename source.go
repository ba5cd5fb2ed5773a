// Copyright 2020-2025 Buf Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package musubi

import (
	"fmt"
	"os"
	"slices"
	"sync"
)

// Line describes one line of a Source: its byte range within the full
// text, excluding the line terminator.
type Line struct {
	Start, End int // byte offsets into the source's text
}

// Source supplies the text a Report renders labels against. MemorySource
// and FileSource are the two built-in implementations; a caller may
// implement Source directly to stream text from elsewhere (a database
// row, a network fetch).
type Source interface {
	// Name is the display name used in the report header (typically a file
	// path).
	Name() string

	// Text returns the full source text. It may be called repeatedly
	// during a render; implementations that load lazily should do so on
	// the first call and memoize the result.
	Text() (string, error)

	// NumLines returns the number of lines in the source, after Text has
	// been called at least once (via Report.Render's initialization pass).
	NumLines() int

	// LineAt returns the 0-based line index and byte range containing byte
	// offset pos. pos past the end of the text clamps to the last line.
	LineAt(pos int) (lineNo int, line Line, err error)

	// LineText returns the text of line lineNo (0-based), without its
	// terminator.
	LineText(lineNo int) (string, error)
}

// baseSource implements the shared line-index machinery used by
// MemorySource and FileSource: a prefix-sum table over line lengths,
// searched with a binary search.
type baseSource struct {
	once  sync.Once
	text  string
	// starts[i] is the byte offset of the start of line i; starts has one
	// entry per line plus a final sentinel equal to len(text).
	starts []int
	loaded error
}

func (s *baseSource) index(text string) {
	s.once.Do(func() {
		s.text = text
		s.starts = append(s.starts[:0], 0)
		for i := 0; i < len(text); i++ {
			if text[i] == '\n' {
				s.starts = append(s.starts, i+1)
			}
		}
		s.starts = append(s.starts, len(text))
	})
}

func (s *baseSource) numLines() int {
	if len(s.starts) == 0 {
		return 0
	}
	return len(s.starts) - 1
}

func (s *baseSource) lineAt(pos int) (int, Line) {
	if pos < 0 {
		pos = 0
	}
	if pos > len(s.text) {
		pos = len(s.text)
	}
	// s.starts[1:len-1] are line-start offsets; find the last one <= pos.
	n, found := slices.BinarySearch(s.starts, pos)
	if !found {
		n--
	}
	if n < 0 {
		n = 0
	}
	if n >= s.numLines() {
		n = s.numLines() - 1
	}
	return n, Line{Start: s.starts[n], End: lineEnd(s.text, s.starts[n], s.starts[n+1])}
}

func (s *baseSource) lineText(lineNo int) (string, error) {
	if lineNo < 0 || lineNo >= s.numLines() {
		return "", wrapf(ErrSource, "musubi: line %d out of range [0,%d)", lineNo, s.numLines())
	}
	l := Line{Start: s.starts[lineNo], End: lineEnd(s.text, s.starts[lineNo], s.starts[lineNo+1])}
	return s.text[l.Start:l.End], nil
}

// lineEnd trims the line terminator (\n, or \r\n) from [start,next).
func lineEnd(text string, start, next int) int {
	end := next
	if end > start && end <= len(text) && text[end-1] == '\n' {
		end--
	}
	if end > start && text[end-1] == '\r' {
		end--
	}
	return end
}

// MemorySource is a Source backed by an in-memory string, for text already
// held by the caller (a parsed buffer, a literal in a test).
type MemorySource struct {
	name string
	text string
	base baseSource
}

// NewMemorySource creates a Source named name over the given text.
func NewMemorySource(name, text string) *MemorySource {
	return &MemorySource{name: name, text: text}
}

func (m *MemorySource) Name() string { return m.name }

func (m *MemorySource) Text() (string, error) {
	m.base.index(m.text)
	return m.text, nil
}

func (m *MemorySource) NumLines() int {
	m.base.index(m.text)
	return m.base.numLines()
}

func (m *MemorySource) LineAt(pos int) (int, Line, error) {
	m.base.index(m.text)
	n, l := m.base.lineAt(pos)
	return n, l, nil
}

func (m *MemorySource) LineText(lineNo int) (string, error) {
	m.base.index(m.text)
	return m.base.lineText(lineNo)
}

// FileSource is a Source that lazily reads its text from disk the first
// time it is needed.
type FileSource struct {
	path string
	base baseSource
}

// NewFileSource creates a Source that will read path on first use.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

func (f *FileSource) Name() string { return f.path }

func (f *FileSource) ensure() error {
	var err error
	f.base.once.Do(func() {
		var data []byte
		data, err = os.ReadFile(f.path)
		if err != nil {
			f.base.loaded = wrapf(ErrFile, "musubi: reading %s: %v", f.path, err)
			return
		}
		// The line table is built here because this call consumes the
		// shared once, so a later index() call does nothing.
		f.base.text = string(data)
		f.base.starts = append(f.base.starts[:0], 0)
		for i := 0; i < len(data); i++ {
			if data[i] == '\n' {
				f.base.starts = append(f.base.starts, i+1)
			}
		}
		f.base.starts = append(f.base.starts, len(data))
	})
	if f.base.loaded != nil {
		return f.base.loaded
	}
	return err
}

func (f *FileSource) Text() (string, error) {
	if err := f.ensure(); err != nil {
		return "", err
	}
	f.base.index(f.base.text)
	return f.base.text, nil
}

func (f *FileSource) NumLines() int {
	if _, err := f.Text(); err != nil {
		return 0
	}
	return f.base.numLines()
}

func (f *FileSource) LineAt(pos int) (int, Line, error) {
	if _, err := f.Text(); err != nil {
		return 0, Line{}, err
	}
	n, l := f.base.lineAt(pos)
	return n, l, nil
}

func (f *FileSource) LineText(lineNo int) (string, error) {
	if _, err := f.Text(); err != nil {
		return "", err
	}
	return f.base.lineText(lineNo)
}

// sourceHandle pairs a Source with the per-report id assigned to it.
type sourceHandle struct {
	id     int
	source Source
}

func (h sourceHandle) String() string {
	return fmt.Sprintf("source#%d(%s)", h.id, h.source.Name())
}

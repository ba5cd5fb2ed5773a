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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemorySourceLines(t *testing.T) {
	assert := assert.New(t)

	src := NewMemorySource("in.txt", "one\ntwo\nthree")
	assert.Equal(3, src.NumLines())

	text, err := src.LineText(0)
	assert.NoError(err)
	assert.Equal("one", text)

	text, err = src.LineText(2)
	assert.NoError(err)
	assert.Equal("three", text)

	lineNo, line, err := src.LineAt(5) // 'w' of "two"
	assert.NoError(err)
	assert.Equal(1, lineNo)
	assert.Equal(4, line.Start)
}

func TestMemorySourceLineAtClamps(t *testing.T) {
	assert := assert.New(t)

	src := NewMemorySource("in.txt", "abc\ndef")
	lineNo, _, err := src.LineAt(1000)
	assert.NoError(err)
	assert.Equal(1, lineNo, "out-of-range positions clamp to the last line")

	lineNo, _, err = src.LineAt(-5)
	assert.NoError(err)
	assert.Equal(0, lineNo)
}

func TestMemorySourceTrailingNewline(t *testing.T) {
	assert := assert.New(t)

	src := NewMemorySource("in.txt", "a\nb\n")
	assert.Equal(3, src.NumLines(), "a trailing newline opens a final empty line")
	text, err := src.LineText(2)
	assert.NoError(err)
	assert.Equal("", text)
}

func TestMemorySourceLineTextOutOfRange(t *testing.T) {
	src := NewMemorySource("in.txt", "a\nb")
	_, err := src.LineText(5)
	assert.ErrorIs(t, err, ErrSource)
}

func TestFileSourceReadsLazily(t *testing.T) {
	assert := assert.New(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "f.txt")
	assert.NoError(os.WriteFile(path, []byte("hello\nworld\n"), 0o644))

	src := NewFileSource(path)
	assert.Equal(path, src.Name())
	assert.Equal(3, src.NumLines())

	text, err := src.LineText(0)
	assert.NoError(err)
	assert.Equal("hello", text)
}

func TestFileSourceMissingFile(t *testing.T) {
	src := NewFileSource(filepath.Join(t.TempDir(), "missing.txt"))
	_, err := src.Text()
	assert.ErrorIs(t, err, ErrFile)
}

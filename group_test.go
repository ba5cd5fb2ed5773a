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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildGroupsSingleVsMulti(t *testing.T) {
	assert := assert.New(t)

	var r Report
	src := NewMemorySource("a.txt", "abc\ndef\nghi\n")
	id := r.Source(src)

	assert.NoError(r.Label(id, 0, 2))  // "ab" on line 0: single-line
	assert.NoError(r.Label(id, 0, 10)) // spans lines 0-2: multi-line

	groups, err := r.buildGroups()
	assert.NoError(err)
	assert.Len(groups, 1)

	g := groups[0]
	assert.Len(g.singles, 1)
	assert.Len(g.multis, 1)
	assert.True(g.multis[0].multi)
	assert.False(g.singles[0].multi)
	assert.Equal(0, g.firstLine)
	assert.Equal(2, g.lastLine)
}

func TestBuildGroupsMultisSortedByDescendingSpan(t *testing.T) {
	assert := assert.New(t)

	var r Report
	src := NewMemorySource("a.txt", "abc\ndef\nghi\njkl\n")
	id := r.Source(src)

	assert.NoError(r.Label(id, 0, 7))  // short multi: lines 0-1
	assert.NoError(r.Label(id, 0, 15)) // long multi: lines 0-3

	groups, err := r.buildGroups()
	assert.NoError(err)
	g := groups[0]
	assert.Len(g.multis, 2)
	assert.Greater(g.multis[0].span(), g.multis[1].span(), "longer multi-line label sorts first")
}

func TestBuildGroupsUnknownSource(t *testing.T) {
	var r Report
	err := r.Label(99, 0, 1)
	assert.ErrorIs(t, err, ErrSource)
}

func TestLabelStartAfterEnd(t *testing.T) {
	var r Report
	src := NewMemorySource("a.txt", "abc")
	id := r.Source(src)
	err := r.Label(id, 5, 1)
	assert.ErrorIs(t, err, ErrParam)
}

func TestBuildGroupsZeroLengthLabel(t *testing.T) {
	assert := assert.New(t)

	var r Report
	src := NewMemorySource("a.txt", "abcdef")
	id := r.Source(src)
	assert.NoError(r.Label(id, 3, 3))

	groups, err := r.buildGroups()
	assert.NoError(err)
	info := groups[0].singles[0]
	assert.Equal(info.startChar, info.endChar)
	assert.Equal(info.startCol, info.endCol)
	assert.False(info.multi)
}

func TestBuildGroupsIndexCharConversion(t *testing.T) {
	assert := assert.New(t)

	var r Report
	r.SetConfig(func() Config {
		c := DefaultConfig()
		c.IndexType = IndexChar
		return c
	}())

	src := NewMemorySource("a.txt", "héllo world")
	id := r.Source(src)
	// Character offsets 6..11 cover "world" (h,é,l,l,o,space = 6 chars
	// before it).
	assert.NoError(r.Label(id, 6, 11))

	groups, err := r.buildGroups()
	assert.NoError(err)
	info := groups[0].singles[0]
	assert.Equal(6, info.startCol)
	assert.Equal(11, info.endCol)
}

func TestBuildGroupsEndAtNewlineSlot(t *testing.T) {
	assert := assert.New(t)

	var r Report
	src := NewMemorySource("a.txt", "abc\ndef")
	id := r.Source(src)
	// end = 4 is the next line's start; the half-open span covers "abc"
	// plus its newline, so the label stays on line 0 with the newline
	// counted as one virtual character.
	assert.NoError(r.Label(id, 0, 4))

	groups, err := r.buildGroups()
	assert.NoError(err)
	info := groups[0].singles[0]
	assert.False(info.multi)
	assert.Equal(4, info.endChar-info.startChar, "the span includes the newline slot")
	assert.Equal(3, info.endCol, "the column saturates at the line's character length")
}

func TestBuildGroupsEndClampsToLineEnd(t *testing.T) {
	assert := assert.New(t)

	var r Report
	src := NewMemorySource("a.txt", "abc\ndef")
	id := r.Source(src)
	// end = 3 stops just before the newline, covering the line's content
	// exactly.
	assert.NoError(r.Label(id, 0, 3))

	groups, err := r.buildGroups()
	assert.NoError(err)
	info := groups[0].singles[0]
	assert.False(info.multi)
	assert.Equal(3, info.endCol, "end clamps to the line's character length")
}

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
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChunkWriterTrimsTrailingSpacesAtNewline(t *testing.T) {
	assert := assert.New(t)

	w := newChunkWriter(&Unicode, nil)
	w.WriteString("hello")
	w.WriteSpaces(5)
	w.Newline()
	w.WriteString("next")
	assert.Equal("hello\nnext", w.String())
}

func TestChunkWriterCommitsPendingSpacesBeforeNonBlank(t *testing.T) {
	assert := assert.New(t)

	w := newChunkWriter(&Unicode, nil)
	w.WriteString("a")
	w.WriteSpaces(3)
	w.WriteString("b")
	assert.Equal("a   b", w.String())
}

func TestChunkWriterWriteStringItselfTrimsTrailingSpaces(t *testing.T) {
	assert := assert.New(t)

	w := newChunkWriter(&Unicode, nil)
	w.WriteString("abc   ")
	w.WriteString("d")
	assert.Equal("abc   d", w.String(), "trailing spaces inside one WriteString defer the same way")
}

func TestChunkWriterNilPaletteIsEscapeFree(t *testing.T) {
	assert := assert.New(t)

	labelFn := func(k Kind) Chunk { return Chunk("\x1b[31m") }
	w := newChunkWriter(&Unicode, nil)
	w.UseColor(KindLabel)
	w.WriteString("x")
	// A per-label color function must not re-enable color when the
	// palette is off.
	w.UseLabelColor("owner", labelFn, KindLabel)
	w.WriteString("y")
	w.UseColor(KindReset)
	assert.Equal("xy", w.String())
	assert.False(strings.ContainsRune(w.String(), 0x1b))
}

func TestChunkWriterUseColorSkipsRedundantTransitions(t *testing.T) {
	assert := assert.New(t)

	calls := 0
	palette := func(k Kind) Chunk {
		calls++
		return Chunk("<" + string(rune('0'+int(k))) + ">")
	}
	w := newChunkWriter(&Unicode, palette)
	w.UseColor(KindLabel)
	w.UseColor(KindLabel) // same kind again: no escape emitted
	assert.Equal(1, calls)
}

func TestChunkWriterUseLabelColorResetsOnOwnerChange(t *testing.T) {
	assert := assert.New(t)

	palette := func(k Kind) Chunk { return Chunk("<P>") }
	labelA := func(k Kind) Chunk { return Chunk("<A>") }
	labelB := func(k Kind) Chunk { return Chunk("<B>") }

	w := newChunkWriter(&Unicode, palette)
	ownerA, ownerB := "a", "b"

	w.UseLabelColor(ownerA, labelA, KindLabel)
	w.WriteString("x")
	w.UseLabelColor(ownerB, labelB, KindLabel)
	w.WriteString("y")

	got := w.String()
	assert.Equal("<A>x<P><B>y", got, "switching owners resets through the base palette first")
}

func TestChunkWriterUseLabelColorSameOwnerNoReset(t *testing.T) {
	assert := assert.New(t)

	palette := func(k Kind) Chunk { return Chunk("<P>") }
	labelA := func(k Kind) Chunk { return Chunk("<A>") }
	w := newChunkWriter(&Unicode, palette)
	owner := "a"

	w.UseLabelColor(owner, labelA, KindLabel)
	w.WriteString("x")
	w.UseLabelColor(owner, labelA, KindLabel)
	w.WriteString("y")

	assert.Equal("<A>xy", w.String())
}

func TestChunkWriterUseLabelColorFallsBackToPalette(t *testing.T) {
	assert := assert.New(t)

	palette := func(k Kind) Chunk { return Chunk("<P>") }
	w := newChunkWriter(&Unicode, palette)

	w.UseLabelColor("owner", nil, KindLabel)
	w.WriteString("x")
	assert.Equal("<P>x", w.String())
}

func TestChunkWriterDrawRepeats(t *testing.T) {
	assert := assert.New(t)

	w := newChunkWriter(&Unicode, nil)
	w.Draw(GlyphHBar, 4)
	assert.Equal("────", w.String())

	w2 := newChunkWriter(&ASCII, nil)
	w2.Draw(GlyphEllipsis, 2)
	w2.Draw(GlyphHBar, 0)
	assert.Equal("......", w2.String())
}

func TestChunkWriterReplace(t *testing.T) {
	assert := assert.New(t)

	w := newChunkWriter(&Unicode, nil)
	w.Replace("a\tb\tc", '\t', ' ')
	w.WriteString("!")
	assert.Equal("a b c!", w.String())
}

func TestChunkWriterFlushResetsState(t *testing.T) {
	assert := assert.New(t)

	var sb strings.Builder
	w := newChunkWriter(&Unicode, nil)
	w.WriteString("abc")
	assert.NoError(w.Flush(&sb))
	assert.Equal("abc", sb.String())
	assert.Equal("", w.String(), "buffer is drained after Flush")
}

func TestChunkWriterResetColorNoopWhenAlreadyOff(t *testing.T) {
	palette := func(k Kind) Chunk { return Chunk("<P>") }
	w := newChunkWriter(&Unicode, palette)
	w.ResetColor()
	assert.Equal(t, "", w.String())
}

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
	"io"
	"strings"
)

// chunkWriter buffers drawn output and defers trailing-whitespace trimming
// to the next newline, so painters can write a run of spaces to pad a cell
// without worrying about whether anything non-blank follows on the same
// line.
type chunkWriter struct {
	buf       strings.Builder
	pending   int // count of trailing space bytes not yet committed
	charset   *CharSet
	palette   ColorFunc
	lastKind  Kind
	colorOn   bool
	lastOwner any // identity of the label currently supplying color, or nil
}

func newChunkWriter(cs *CharSet, palette ColorFunc) *chunkWriter {
	return &chunkWriter{charset: cs, palette: palette, lastKind: KindReset}
}

// WriteGlyph draws a single charset glyph.
func (w *chunkWriter) WriteGlyph(g Glyph) {
	w.WriteString(string(w.charset[g]))
}

// Draw emits n copies of glyph g. Long single-byte runs (the common case
// for horizontal rules) are built with one strings.Repeat instead of n
// per-glyph writes.
func (w *chunkWriter) Draw(g Glyph, n int) {
	if n <= 0 {
		return
	}
	chunk := string(w.charset[g])
	if len(chunk) == 1 && chunk != " " {
		w.WriteString(strings.Repeat(chunk, n))
		return
	}
	for i := 0; i < n; i++ {
		w.WriteString(chunk)
	}
}

// Replace draws s with every occurrence of from rendered as to, used for
// tabs in file names.
func (w *chunkWriter) Replace(s string, from, to rune) {
	w.WriteString(strings.ReplaceAll(s, string(from), string(to)))
}

// WriteString draws literal text, tracking trailing spaces so they can be
// trimmed if nothing further is written before the line ends.
func (w *chunkWriter) WriteString(s string) {
	if s == "" {
		return
	}
	w.commitPending()
	trimmed := strings.TrimRight(s, " ")
	w.buf.WriteString(trimmed)
	w.pending = len(s) - len(trimmed)
}

// WriteSpaces draws n blank columns, deferring commitment until something
// non-blank follows.
func (w *chunkWriter) WriteSpaces(n int) {
	if n <= 0 {
		return
	}
	w.pending += n
}

// Newline discards any pending trailing spaces and emits a line break.
func (w *chunkWriter) Newline() {
	w.pending = 0
	w.buf.WriteByte('\n')
}

func (w *chunkWriter) commitPending() {
	if w.pending > 0 {
		w.buf.WriteString(strings.Repeat(" ", w.pending))
		w.pending = 0
	}
}

// UseColor switches the active color to kind, emitting the escape sequence
// only when it differs from the currently active one. A nil palette makes
// this a no-op, producing escape-free output.
func (w *chunkWriter) UseColor(kind Kind) {
	if w.palette == nil || kind == w.lastKind {
		return
	}
	w.commitPending()
	w.buf.WriteString(string(w.palette(kind)))
	w.lastKind = kind
	w.colorOn = kind != KindReset
}

// UseLabelColor transitions color state for a highlight owned by owner
// (typically a *labelInfo, or nil for "no label"): if
// the current color is non-reset and the owner is changing, a RESET is
// emitted first; then, unless kind is KindReset, the owner's color
// function (fn, falling back to the writer's palette) supplies the new
// escape. This makes per-label palettes transparent to callers: the
// writer does not care whether a color came from the label or the
// default palette.
func (w *chunkWriter) UseLabelColor(owner any, fn ColorFunc, kind Kind) {
	if w.palette == nil {
		// Color is off for the whole render; per-label overrides do not
		// re-enable it.
		return
	}
	if owner == w.lastOwner && kind == w.lastKind {
		return
	}
	if w.colorOn && owner != w.lastOwner {
		w.commitPending()
		w.buf.WriteString(string(w.palette(KindReset)))
		w.colorOn = false
		w.lastKind = KindReset
	}
	w.lastOwner = owner
	if kind == KindReset || owner == nil {
		w.lastKind = KindReset
		w.colorOn = false
		return
	}
	resolved := fn
	if resolved == nil {
		resolved = w.palette
	}
	w.commitPending()
	w.buf.WriteString(string(resolved(kind)))
	w.lastKind = kind
	w.colorOn = true
}

// ResetColor restores the default (uncolored) state if color is active.
func (w *chunkWriter) ResetColor() {
	if w.colorOn {
		w.UseColor(KindReset)
	}
}

// Flush writes the buffered content to out, resetting the writer for reuse.
func (w *chunkWriter) Flush(out io.Writer) error {
	w.commitPending()
	w.ResetColor()
	_, err := io.WriteString(out, w.buf.String())
	w.buf.Reset()
	w.lastKind = KindReset
	w.colorOn = false
	return err
}

// String returns the buffered content without resetting the writer, used by
// tests that want to inspect output before a full Flush.
func (w *chunkWriter) String() string {
	return w.buf.String()
}

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
	"unicode/utf8"

	"github.com/rivo/uniseg"
)

// TabstopWidth is the display width assigned to a tab stop when expanding
// tabs for width accounting.
const TabstopWidth = 4

// runeWidth returns the display width of a single rune, expanding a tab to
// the next multiple of TabstopWidth and treating control characters (other
// than tab) as zero-width. ambiwidth (1 or 2, per Config.Ambiwidth)
// overrides the width assigned to runes in Unicode's East Asian
// "Ambiguous" category.
func runeWidth(r rune, col, ambiwidth int) int {
	switch {
	case r == '\t':
		return TabstopWidth - col%TabstopWidth
	case r < 0x20 || r == 0x7f:
		return 0
	case isAmbiguousWide(r):
		return ambiwidth
	default:
		return uniseg.StringWidth(string(r))
	}
}

// ambiguousRanges lists representative Unicode East Asian "Ambiguous"
// codepoint ranges (UAX #11): runes whose display width is 1 in a Western
// context and 2 in a CJK one. This is a representative subset covering
// the ranges that show up in practice, not the full table.
var ambiguousRanges = [][2]rune{
	{0x00A1, 0x00A1}, {0x00A4, 0x00A4}, {0x00A7, 0x00A8}, {0x00AA, 0x00AA},
	{0x00AE, 0x00AE}, {0x00B0, 0x00B4}, {0x00B6, 0x00BA}, {0x00BC, 0x00BF},
	{0x00C6, 0x00C6}, {0x00D0, 0x00D0}, {0x00D7, 0x00D8}, {0x00DE, 0x00E1},
	{0x00E6, 0x00E6}, {0x00E8, 0x00EA}, {0x00EC, 0x00ED}, {0x00F0, 0x00F0},
	{0x00F2, 0x00F3}, {0x00F7, 0x00FA}, {0x00FC, 0x00FC}, {0x00FE, 0x00FE},
	{0x0391, 0x03A1}, {0x03A3, 0x03A9}, {0x03B1, 0x03C1}, {0x03C3, 0x03C9},
	{0x0401, 0x0401}, {0x0410, 0x044F}, {0x0451, 0x0451},
	{0x2010, 0x2010}, {0x2013, 0x2016}, {0x2018, 0x2019}, {0x201C, 0x201D},
	{0x2020, 0x2022}, {0x2024, 0x2027}, {0x2030, 0x2030}, {0x2032, 0x2033},
	{0x2035, 0x2035}, {0x203B, 0x203B}, {0x2103, 0x2103}, {0x2109, 0x2109},
	{0x2113, 0x2113}, {0x2116, 0x2116}, {0x2121, 0x2122}, {0x2126, 0x2126},
	{0x2160, 0x216B}, {0x2170, 0x2179}, {0x2190, 0x2199}, {0x2260, 0x2261},
	{0x2264, 0x2267}, {0x2500, 0x2573}, {0x25A0, 0x25A1}, {0x25B2, 0x25B3},
	{0x25C6, 0x25C8}, {0x25CB, 0x25CB}, {0x2605, 0x2606}, {0x2640, 0x2640},
	{0x2642, 0x2642}, {0x2660, 0x2661}, {0x2663, 0x2665}, {0x2667, 0x266A},
	{0x266C, 0x266D}, {0x266F, 0x266F}, {0x3000, 0x3000}, {0xFFFD, 0xFFFD},
}

func isAmbiguousWide(r rune) bool {
	lo, hi := 0, len(ambiguousRanges)
	for lo < hi {
		mid := (lo + hi) / 2
		rg := ambiguousRanges[mid]
		switch {
		case r < rg[0]:
			hi = mid
		case r > rg[1]:
			lo = mid + 1
		default:
			return true
		}
	}
	return false
}

// charToByte converts a character (rune) offset in text into the
// corresponding byte offset, for Config.IndexType's IndexChar mode.
func charToByte(text string, charPos int) int {
	if charPos <= 0 {
		return 0
	}
	n := 0
	for i := range text {
		if n == charPos {
			return i
		}
		n++
	}
	return len(text)
}

// byteColToCharCol converts a byte offset within a single line's text into
// the character (rune) column at that offset, so that downstream column
// indices always address the line's rune array consistently regardless of
// Config.IndexType.
func byteColToCharCol(lineText string, byteCol int) int {
	if byteCol <= 0 {
		return 0
	}
	if byteCol >= len(lineText) {
		return len([]rune(lineText))
	}
	return len([]rune(lineText[:byteCol]))
}

// stringWidth returns the total display width of s, accounting for
// grapheme clusters (so combining marks and ZWJ sequences count once),
// double-wide runes, and tab expansion starting at column startCol.
func stringWidth(s string, startCol int) int {
	col := startCol
	gr := uniseg.NewGraphemes(s)
	for gr.Next() {
		cluster := gr.Str()
		if cluster == "\t" {
			col += TabstopWidth - col%TabstopWidth
			continue
		}
		_, _, w, _ := uniseg.FirstGraphemeClusterInString(cluster, -1)
		if w < 0 {
			w = 0
		}
		col += w
	}
	return col - startCol
}

// decodeRune decodes the rune starting at byte offset i in s. On malformed
// UTF-8 it advances exactly one byte rather than skipping the whole
// offending sequence; utf8.DecodeRuneInString already implements exactly
// that recovery behavior.
func decodeRune(s string, i int) (r rune, size int) {
	if i >= len(s) {
		return 0, 0
	}
	return utf8.DecodeRuneInString(s[i:])
}

// decodePrevRune decodes the rune ending at byte offset i in s (i.e. the
// rune immediately before s[i:]), returning its size in bytes. Used for
// backward scans such as trimming trailing whitespace from a line slice.
func decodePrevRune(s string, i int) (r rune, size int) {
	if i <= 0 {
		return 0, 0
	}
	return utf8.DecodeLastRuneInString(s[:i])
}

// ellipsizeSuffix returns the longest suffix of s whose display width,
// including the ellipsis glyph's own width, fits within maxWidth columns,
// used by the reference row to shorten overlong source names.
func ellipsizeSuffix(s string, maxWidth int, ellipsis Chunk) string {
	ellWidth := stringWidth(string(ellipsis), 0)
	if stringWidth(s, 0) <= maxWidth {
		return s
	}
	budget := maxWidth - ellWidth
	if budget <= 0 {
		return ""
	}
	i := len(s)
	w := 0
	for i > 0 && w < budget {
		_, size := decodePrevRune(s, i)
		if size == 0 {
			break
		}
		cw := stringWidth(s[i-size:i], 0)
		if w+cw > budget {
			break
		}
		w += cw
		i -= size
	}
	return s[i:]
}

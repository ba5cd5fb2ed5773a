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

import "math/bits"

// marginMode selects how a margin column is drawn for one multi-line
// label on one row.
type marginMode int

const (
	marginNone marginMode = iota
	marginLine
	marginArrow
	marginEllipsis
)

// railAssignment maps each of a group's multi-line labels to the rail
// (sidebar column) it occupies: for each multi, in the order they are
// laid out, collect every rail already occupied by a multi whose
// [startLine,endLine] overlaps this one's, and take the lowest index not
// among them.
type railAssignment struct {
	rail  map[*labelInfo]int
	width int
}

func assignRails(g *group) railAssignment {
	ra := railAssignment{rail: make(map[*labelInfo]int, len(g.multis))}
	if len(g.multis) == 0 {
		return ra
	}

	// occupied[line] is the bitset of rails occupied by a multi spanning
	// that line, built incrementally as each multi is assigned.
	occupied := make(map[int]uint, g.lastLine-g.firstLine+1)

	for _, info := range g.multis {
		var used uint
		for ln := info.startLine; ln <= info.endLine; ln++ {
			used |= occupied[ln]
		}
		idx := bits.TrailingZeros(^used)
		ra.rail[info] = idx
		if idx+1 > ra.width {
			ra.width = idx + 1
		}
		for ln := info.startLine; ln <= info.endLine; ln++ {
			occupied[ln] |= 1 << idx
		}
	}
	return ra
}

// marginCell describes one rail's glyph on one row. corner marks cells
// whose rail turns horizontal on this row, so the row painter knows to
// carry the reach across the gutter (RArrow on code rows, HBar on the
// margin label's message row).
type marginCell struct {
	mode   marginMode
	glyph  Glyph
	owner  *labelInfo
	corner bool
}

// renderMarginRow computes the margin cells for lineNo across every rail
// in ra. mode selects the row flavor: marginLine for
// code rows (corners and rails), marginEllipsis for skipped-line rows
// (VBarGap rails), marginArrow for arrow rows. current, only meaningful
// in marginArrow mode, is the margin label whose message row this is:
// its rail turns into the LBot corner that reaches out to the message.
//
// On the code row, a multi-line label's closing rail draws LBot only when
// the label has no message (the rail terminates here); with a message the
// rail must continue one more row down to the message arrow row, so the
// code row shows LCross instead.
func renderMarginRow(g *group, ra railAssignment, lineNo int, mode marginMode, cfg *Config, current *labelInfo) []marginCell {
	cells := make([]marginCell, ra.width)
	for i := range cells {
		cells[i] = marginCell{mode: marginNone, glyph: GlyphSpace}
	}

	corner := -1
	for _, info := range g.multis {
		idx, ok := ra.rail[info]
		if !ok || lineNo < info.startLine || lineNo > info.endLine {
			continue
		}
		switch mode {
		case marginEllipsis:
			cells[idx] = marginCell{mode: marginEllipsis, glyph: GlyphVBarGap, owner: info}
		case marginArrow:
			if info == current {
				cells[idx] = marginCell{mode: marginArrow, glyph: GlyphLBot, owner: info, corner: true}
				if idx > corner {
					corner = idx
				}
			} else {
				cells[idx] = marginCell{mode: marginArrow, glyph: GlyphVBar, owner: info}
			}
		default:
			switch {
			case lineNo == info.startLine:
				cells[idx] = marginCell{mode: marginLine, glyph: GlyphLTop, owner: info, corner: true}
				if idx > corner {
					corner = idx
				}
			case lineNo == info.endLine:
				gl := GlyphLBot
				if messageWidth(info.label) > 0 {
					gl = GlyphLCross
				}
				cells[idx] = marginCell{mode: marginLine, glyph: gl, owner: info, corner: true}
				if idx > corner {
					corner = idx
				}
			default:
				cells[idx] = marginCell{mode: marginLine, glyph: GlyphVBar, owner: info}
			}
		}
	}

	// Carry the rightmost corner's horizontal reach across the remaining
	// rails: blanks become HBar, crossed rails become XBar (or stay
	// horizontal under cross_gap, where the horizontal wins).
	if corner >= 0 {
		for i := corner + 1; i < len(cells); i++ {
			switch cells[i].glyph {
			case GlyphSpace:
				cells[i].glyph = GlyphHBar
			case GlyphVBar:
				if cfg.CrossGap {
					cells[i].glyph = GlyphHBar
				} else {
					cells[i].glyph = GlyphXBar
				}
			}
		}
	}
	return cells
}

// trailingArrow returns the glyph for the column immediately after the
// rails: a right-arrow when a rail turned on this code row, a horizontal
// extension when the margin label's message row reaches across the
// gutter, or a space.
func trailingArrow(cells []marginCell) Glyph {
	for _, c := range cells {
		if !c.corner {
			continue
		}
		if c.mode == marginArrow {
			return GlyphHBar
		}
		return GlyphRArrow
	}
	return GlyphSpace
}

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
	"strconv"
	"strings"

	"github.com/rivo/uniseg"

	"github.com/starwing/musubi/internal/arena"
)

// minFilenameWidth is the smallest suffix of a source name kept visible
// when the reference row must ellipsize the name to honor LimitWidth.
const minFilenameWidth = 8

// renderHeader draws the "[code] Kind: Title" row.
func (r *Report) renderHeader(cw *chunkWriter) {
	if r.code != "" {
		cw.WriteGlyph(GlyphLBox)
		cw.WriteString(r.code)
		cw.WriteGlyph(GlyphRBox)
		cw.WriteGlyph(GlyphSpace)
	}

	kindText := r.level.String()
	if r.custom != "" {
		kindText = r.custom
	}
	cw.UseColor(colorForLevel(r.level))
	cw.WriteString(kindText)
	cw.UseColor(KindReset)
	cw.WriteGlyph(GlyphColon)
	cw.WriteGlyph(GlyphSpace)
	cw.WriteString(r.title)
	cw.Newline()
}

// lineNoWidth returns the number of columns needed to print the largest
// displayed line number in g.
func lineNoWidth(g *group) int {
	n := g.lastLine + 1
	if n < 1 {
		n = 1
	}
	return len(strconv.Itoa(n))
}

// maxLineNoWidth returns the line-number gutter width
// shared by every group of the render, so their rails line up.
func maxLineNoWidth(groups []*group) int {
	lnw := 1
	for _, g := range groups {
		if w := lineNoWidth(g); w > lnw {
			lnw = w
		}
	}
	return lnw
}

// groupRef is the position shown in a group's reference row.
type groupRef struct {
	line, col int
}

// useLabel switches the writer's color state to info's highlight color
// (its own override, else a deterministic generated color), or back to
// the reset state when info is nil.
func useLabel(cw *chunkWriter, info *labelInfo) {
	if info == nil {
		cw.UseLabelColor(nil, nil, KindReset)
		return
	}
	cw.UseLabelColor(info, info.effectiveColor(autoColorFunc(info)), KindLabel)
}

// renderGroup draws one source group's reference line and every line body
// it covers.
func renderGroup(cw *chunkWriter, g *group, cfg *Config, ca *arena.Arena[cluster], lnw int, first bool, ref groupRef) error {
	ra := assignRails(g)

	cw.WriteSpaces(lnw + 1)
	cw.UseColor(KindMargin)
	if first {
		cw.WriteGlyph(GlyphLTop)
	} else {
		cw.WriteGlyph(GlyphVBar)
	}
	cw.WriteGlyph(GlyphHBar)
	cw.UseColor(KindReset)
	cw.WriteGlyph(GlyphLBox)
	writeSourceName(cw, g.src.source.Name(), cfg, lnw)
	cw.WriteGlyph(GlyphColon)
	cw.WriteString(strconv.Itoa(ref.line + 1))
	cw.WriteGlyph(GlyphColon)
	cw.WriteString(strconv.Itoa(ref.col + 1))
	cw.WriteGlyph(GlyphRBox)
	cw.Newline()

	if !cfg.Compact {
		renderBlankRow(cw, lnw)
	}

	for lineNo := g.firstLine; lineNo <= g.lastLine; lineNo++ {
		text, err := g.src.source.LineText(lineNo)
		if err != nil {
			return err
		}
		lls := collectLineLabels(g, lineNo, len([]rune(text)), cfg.LabelAttach)

		if len(lls) == 0 {
			if withinAnyMulti(g, lineNo) {
				renderEllipsisRow(cw, lnw, ra, g, lineNo, cfg)
			} else if !cfg.Compact {
				renderBlankRow(cw, lnw)
			}
			continue
		}

		widthCache := buildWidthCache(text, cfg.TabWidth, cfg.Ambiwidth)
		clusters := buildClusters(lineNo, lls, widthCache, cfg, ca)
		for _, c := range clusters {
			resolveColumnRange(c, widthCache, lnw, ra.width, cfg)
			if err := renderCluster(cw, lnw, ra, g, c, text, widthCache, cfg); err != nil {
				return err
			}
		}
	}

	if !cfg.Compact {
		cw.Newline()
	}
	return nil
}

// writeSourceName writes a source name into the reference row, rendering
// tabs as spaces and ellipsizing from the left when LimitWidth would be
// exceeded, keeping at least minFilenameWidth columns of suffix.
func writeSourceName(cw *chunkWriter, name string, cfg *Config, lnw int) {
	name = strings.ReplaceAll(name, "\t", " ")
	if cfg.LimitWidth <= 0 {
		cw.WriteString(name)
		return
	}
	// The reference row's furniture around the name: gutter, corner,
	// brackets, and a worst-case ":line:col" tail.
	// The floor leaves room for the ellipsis glyph on top of the suffix.
	ell := cfg.resolveCharSet()[GlyphEllipsis]
	budget := cfg.LimitWidth - (lnw + 12)
	if floor := minFilenameWidth + stringWidth(string(ell), 0); budget < floor {
		budget = floor
	}
	if stringWidth(name, 0) <= budget {
		cw.WriteString(name)
		return
	}
	cw.WriteGlyph(GlyphEllipsis)
	cw.WriteString(ellipsizeSuffix(name, budget, ell))
}

// renderBlankRow draws the bare "   │" separator row.
func renderBlankRow(cw *chunkWriter, lnw int) {
	cw.WriteSpaces(lnw + 1)
	cw.UseColor(KindMargin)
	cw.WriteGlyph(GlyphVBar)
	cw.UseColor(KindReset)
	cw.Newline()
}

func withinAnyMulti(g *group, lineNo int) bool {
	for _, m := range g.multis {
		if lineNo > m.startLine && lineNo < m.endLine {
			return true
		}
	}
	return false
}

// buildWidthCache computes the cumulative display width of the first i
// characters of text, for i in [0, len(runes)], expanding tabs. It walks
// grapheme clusters rather than individual runes, so a ZWJ emoji
// sequence, a skin-tone modifier, or a regional-indicator pair (a flag)
// charges its display width to the cluster's first rune and zero to the
// continuation runes, keeping the underline and arrow rows aligned with
// the code row. It feeds both the cluster builder and the column-range
// solver.
func buildWidthCache(text string, tabWidth, ambiwidth int) []int {
	runes := []rune(text)
	cache := make([]int, len(runes)+1)
	col := 0
	i := 0
	gr := uniseg.NewGraphemes(text)
	for gr.Next() {
		cluster := gr.Runes()
		cache[i] = col
		switch {
		case len(cluster) == 1 && cluster[0] == '\t':
			col += tabWidth - col%tabWidth
		case len(cluster) == 1:
			col += runeWidth(cluster[0], col, ambiwidth)
		default:
			col += uniseg.StringWidth(gr.Str())
		}
		i++
		for range cluster[1:] {
			cache[i] = col
			i++
		}
	}
	cache[len(runes)] = col
	return cache
}

// columnWidth returns the display width contributed by the rune at index
// col, derived from the same cache buildWidthCache filled in: cache[i] is
// the cumulative width of the first i runes, so the width of rune i alone
// is the difference between consecutive entries. Using this instead of a
// flat cfg.TabWidth keeps tab expansion tab-stop-relative everywhere a row
// painter needs it, matching buildWidthCache's own step computation.
func columnWidth(widthCache []int, col int) int {
	if col < 0 || col+1 >= len(widthCache) {
		return 1
	}
	return widthCache[col+1] - widthCache[col]
}

func renderEllipsisRow(cw *chunkWriter, lnw int, ra railAssignment, g *group, lineNo int, cfg *Config) {
	cw.WriteSpaces(lnw + 1)
	cw.UseColor(KindSkippedMargin)
	cw.WriteGlyph(GlyphVBarGap)
	cw.WriteGlyph(GlyphSpace)

	cells := renderMarginRow(g, ra, lineNo, marginEllipsis, cfg, nil)
	for _, cell := range cells {
		cw.WriteGlyph(cell.glyph)
	}
	cw.UseColor(KindReset)
	cw.Newline()
}

// renderCluster draws the code row (and, unless compact, underline and
// arrow rows) for one cluster.
func renderCluster(cw *chunkWriter, lnw int, ra railAssignment, g *group, c *cluster, text string, widthCache []int, cfg *Config) error {
	runes := []rune(text)

	cw.WriteString(fmt.Sprintf("%*d", lnw, c.lineNo+1))
	cw.WriteGlyph(GlyphSpace)
	cw.UseColor(KindMargin)
	cw.WriteGlyph(GlyphVBar)
	cw.UseColor(KindReset)
	cw.WriteGlyph(GlyphSpace)

	cells := renderMarginRow(g, ra, c.lineNo, marginLine, cfg, nil)
	cw.UseColor(KindMargin)
	for _, cell := range cells {
		cw.WriteGlyph(cell.glyph)
	}
	cw.WriteGlyph(trailingArrow(cells))
	cw.UseColor(KindReset)

	if c.startCol > 0 {
		cw.UseColor(KindUnimportant)
		cw.WriteGlyph(GlyphEllipsis)
		cw.UseColor(KindReset)
	}

	for col := c.startCol; col < c.endCol && col < len(runes); col++ {
		useLabel(cw, highlightAt(g, c, c.lineNo, col))
		rn := runes[col]
		if rn == '\t' {
			cw.WriteSpaces(columnWidth(widthCache, col))
		} else {
			cw.WriteString(string(rn))
		}
	}
	useLabel(cw, nil)

	if c.endCol < len(runes) {
		cw.UseColor(KindUnimportant)
		cw.WriteGlyph(GlyphEllipsis)
		cw.UseColor(KindReset)
	}
	cw.Newline()

	if !cfg.Compact && cfg.Underlines {
		renderUnderlineRow(cw, lnw, ra, c, widthCache, cfg)
	}

	for i := range c.lineLabels {
		if !c.lineLabels[i].drawMsg {
			continue
		}
		renderArrowRow(cw, lnw, ra, g, c, i, &c.lineLabels[i], widthCache, cfg)
	}
	if c.marginLabel != nil && c.marginLabel.drawMsg {
		renderArrowRow(cw, lnw, ra, g, c, -1, c.marginLabel, widthCache, cfg)
	}
	return nil
}

// multilineArrowOwner returns the multi-line label whose span opens at col
// on this line, for the underline row's upward arrow, or nil.
func multilineArrowOwner(c *cluster, col int, cfg *Config) *labelInfo {
	if !cfg.MultilineArrows {
		return nil
	}
	if m := c.marginLabel; m != nil && !m.drawMsg && m.col == col {
		return m.info
	}
	for i := range c.lineLabels {
		ll := &c.lineLabels[i]
		if ll.info.multi && !ll.drawMsg && ll.col == col {
			return ll.info
		}
	}
	return nil
}

func renderUnderlineRow(cw *chunkWriter, lnw int, ra railAssignment, c *cluster, widthCache []int, cfg *Config) {
	type cellOwner struct {
		glyph Glyph
		owner *labelInfo
	}
	cells := make([]cellOwner, 0, max(0, c.endCol-c.startCol))
	any := false
	for col := c.startCol; col < c.endCol; col++ {
		vbar := verticalBarAt(c, len(c.lineLabels), col)
		ul := underlineAt(c, col)
		ua := multilineArrowOwner(c, col, cfg)
		var cell cellOwner
		switch {
		case vbar != nil && ul != nil:
			cell = cellOwner{GlyphUnderbar, vbar.info}
		case ua != nil:
			cell = cellOwner{GlyphUArrow, ua}
		case vbar != nil:
			cell = cellOwner{GlyphVBar, vbar.info}
		case ul != nil:
			cell = cellOwner{GlyphUnderline, ul.info}
		default:
			cell = cellOwner{GlyphSpace, nil}
		}
		if cell.glyph != GlyphSpace {
			any = true
		}
		cells = append(cells, cell)
	}
	if !any {
		return
	}

	cw.WriteSpaces(lnw + 1)
	cw.UseColor(KindMargin)
	cw.WriteGlyph(GlyphVBar)
	cw.UseColor(KindReset)
	cw.WriteSpaces(ra.width + 2)
	if c.startCol > 0 {
		cw.WriteGlyph(GlyphSpace)
	}

	for i, cell := range cells {
		w := columnWidth(widthCache, c.startCol+i)
		if cell.glyph == GlyphSpace {
			cw.WriteSpaces(w)
			continue
		}
		useLabel(cw, cell.owner)
		cw.Draw(cell.glyph, w)
	}
	useLabel(cw, nil)
	cw.Newline()
}

// renderArrowRow draws one label's arrow: blanks (threading pending
// labels' vertical bars through) up to the anchor column, the turning
// glyph, a horizontal run out to the cluster's arrow length, then the
// message. The margin label's row instead rides in on horizontal bars
// from its rail.
func renderArrowRow(cw *chunkWriter, lnw int, ra railAssignment, g *group, c *cluster, row int, ll *lineLabel, widthCache []int, cfg *Config) {
	cw.WriteSpaces(lnw + 1)
	cw.UseColor(KindMargin)
	cw.WriteGlyph(GlyphVBar)
	cw.UseColor(KindReset)
	cw.WriteGlyph(GlyphSpace)

	isMargin := row == -1
	var current *labelInfo
	if isMargin {
		current = ll.info
	}
	cells := renderMarginRow(g, ra, c.lineNo, marginArrow, cfg, current)
	cw.UseColor(KindMargin)
	for _, cell := range cells {
		cw.WriteGlyph(cell.glyph)
	}
	cw.WriteGlyph(trailingArrow(cells))
	cw.UseColor(KindReset)

	vrow := row
	if isMargin {
		// The margin label's message row is drawn last; nothing is
		// pending below it.
		vrow = len(c.lineLabels)
	}

	if c.startCol > 0 {
		if isMargin {
			useLabel(cw, ll.info)
			cw.WriteGlyph(GlyphHBar)
		} else {
			cw.WriteGlyph(GlyphSpace)
		}
	}

	limit := max(c.arrowLen, ll.col+1)
	for col := c.startCol; col < limit; col++ {
		w := columnWidth(widthCache, col)
		switch {
		case col == ll.col:
			useLabel(cw, ll.info)
			var gl Glyph
			switch {
			case ll.info.multi && messageWidth(ll.info.label) > 0:
				gl = GlyphMBot
			case ll.info.multi:
				gl = GlyphRBot
			default:
				gl = GlyphLBot
			}
			cw.WriteGlyph(gl)
			cw.Draw(GlyphHBar, w-1)
		case col > ll.col:
			if p := pendingBarAt(c, vrow, col); p != nil && !cfg.CrossGap {
				useLabel(cw, p.info)
				cw.WriteGlyph(GlyphXBar)
				useLabel(cw, ll.info)
				cw.Draw(GlyphHBar, w-1)
			} else {
				useLabel(cw, ll.info)
				cw.Draw(GlyphHBar, w)
			}
		default:
			if isMargin {
				useLabel(cw, ll.info)
				cw.Draw(GlyphHBar, w)
			} else if p := pendingBarAt(c, vrow, col); p != nil {
				useLabel(cw, p.info)
				cw.WriteGlyph(GlyphVBar)
				cw.WriteSpaces(w - 1)
			} else {
				cw.WriteSpaces(w)
			}
		}
	}

	useLabel(cw, ll.info)
	cw.WriteGlyph(GlyphSpace)
	cw.WriteString(ll.info.label.message)
	useLabel(cw, nil)
	cw.Newline()
}

// renderFooter draws help and note messages, then (unless compact) the
// closing bottom-rule row.
func renderFooter(cw *chunkWriter, r *Report, cfg *Config, lnw int) {
	for i, h := range r.help {
		caption := "Help"
		if len(r.help) > 1 {
			caption = fmt.Sprintf("Help %d/%d", i+1, len(r.help))
		}
		writeFooterEntry(cw, caption, h)
	}
	for _, n := range r.notes {
		writeFooterEntry(cw, "Note", n)
	}

	if !cfg.Compact {
		cw.UseColor(KindMargin)
		cw.Draw(GlyphHBar, lnw+2)
		cw.WriteGlyph(GlyphRBot)
		cw.UseColor(KindReset)
		cw.Newline()
	}
}

func writeFooterEntry(cw *chunkWriter, caption, msg string) {
	lines := strings.Split(msg, "\n")
	pad := strings.Repeat(" ", len(caption)+2)
	for i, line := range lines {
		if i == 0 {
			cw.UseColor(KindNote)
			cw.WriteString(caption)
			cw.WriteGlyph(GlyphColon)
			cw.UseColor(KindReset)
			cw.WriteGlyph(GlyphSpace)
		} else {
			cw.WriteString(pad)
		}
		cw.WriteString(line)
		cw.Newline()
	}
}

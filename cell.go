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

// candidateLabels returns every labelInfo active over the current cluster:
// its margin label, the group's multi-line labels, and its line-labels.
func candidateLabels(g *group, c *cluster) []*labelInfo {
	var out []*labelInfo
	if c.marginLabel != nil {
		out = append(out, c.marginLabel.info)
	}
	out = append(out, g.multis...)
	for _, ll := range c.lineLabels {
		out = append(out, ll.info)
	}
	return out
}

// highlightAt answers the highlight query: among every
// candidate label covering line-relative column col on lineNo, the one
// with strictly highest priority, ties broken by shorter span, further
// ties by first encountered.
func highlightAt(g *group, c *cluster, lineNo, col int) *labelInfo {
	var best *labelInfo
	for _, info := range candidateLabels(g, c) {
		if !coversColumn(info, lineNo, col) {
			continue
		}
		if best == nil {
			best = info
			continue
		}
		if info.label.priority > best.label.priority {
			best = info
		} else if info.label.priority == best.label.priority && info.span() < best.span() {
			best = info
		}
	}
	return best
}

// coversColumn reports whether info covers line-relative column col on
// lineNo. A single-line label covers [startCol, endCol); a zero-length
// label still covers its own column. A multi-line label covers from
// startCol to the line's end on its opening line, the whole line on any
// interior line, and [0, endCol) on its closing line.
func coversColumn(info *labelInfo, lineNo, col int) bool {
	if !info.multi {
		if lineNo != info.startLine {
			return false
		}
		if info.startCol == info.endCol {
			return col == info.startCol
		}
		return col >= info.startCol && col < info.endCol
	}
	switch {
	case lineNo == info.startLine:
		return col >= info.startCol
	case lineNo == info.endLine:
		return col < info.endCol
	case lineNo > info.startLine && lineNo < info.endLine:
		return true
	default:
		return false
	}
}

// verticalBarAt answers the vertical-bar query: the
// line-label at row index row in c.lineLabels whose anchor column is col,
// is not the margin label, has a nonzero message width or is multi, and
// whose own row index is <= row.
func verticalBarAt(c *cluster, row, col int) *lineLabel {
	for i, ll := range c.lineLabels {
		if i > row {
			continue
		}
		if ll.col != col || !ll.drawMsg {
			continue
		}
		if !ll.info.multi && messageWidth(ll.info.label) == 0 {
			continue
		}
		return &c.lineLabels[i]
	}
	return nil
}

// pendingBarAt returns the line-label past row index row whose anchor sits
// at col and which will still draw an arrow row below the current one, so
// painters above it can thread its vertical bar through.
func pendingBarAt(c *cluster, row, col int) *lineLabel {
	for i := row + 1; i < len(c.lineLabels); i++ {
		ll := &c.lineLabels[i]
		if ll.col != col || !ll.drawMsg {
			continue
		}
		if !ll.info.multi && messageWidth(ll.info.label) == 0 {
			continue
		}
		return ll
	}
	return nil
}

// underlineAt answers the underline query: among single-line
// labels in the cluster covering column col, the one with highest
// priority, then shortest span.
func underlineAt(c *cluster, col int) *lineLabel {
	var best *lineLabel
	for i := range c.lineLabels {
		ll := &c.lineLabels[i]
		if ll.info.multi {
			continue
		}
		if ll.info.startCol == ll.info.endCol {
			if col != ll.info.startCol {
				continue
			}
		} else if col < ll.info.startCol || col >= ll.info.endCol {
			continue
		}
		if best == nil || ll.info.label.priority > best.info.label.priority ||
			(ll.info.label.priority == best.info.label.priority && ll.info.span() < best.info.span()) {
			best = ll
		}
	}
	return best
}

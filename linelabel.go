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

import "sort"

// lineLabel is a label's contribution to one line: which column its
// anchor glyph sits at, and whether its message is drawn on this line.
type lineLabel struct {
	info    *labelInfo
	col     int
	drawMsg bool
	seq     int // insertion order, for the identity tiebreak
}

// collectLineLabels gathers every label touching lineNo, in sorted
// drawing order.
func collectLineLabels(g *group, lineNo int, lineCharLen int, attach Attach) []lineLabel {
	var out []lineLabel
	seq := 0

	for _, info := range g.multis {
		switch lineNo {
		case info.startLine:
			out = append(out, lineLabel{info: info, col: info.startCol, drawMsg: false, seq: seq})
		case info.endLine:
			// Anchor on the last covered character, not the half-open end.
			col := info.endCol
			if col > 0 {
				col--
			}
			out = append(out, lineLabel{info: info, col: col, drawMsg: true, seq: seq})
		default:
			continue
		}
		seq++
	}

	for _, info := range g.singles {
		if info.startLine != lineNo {
			continue
		}
		col := anchorColumn(info, attach)
		out = append(out, lineLabel{info: info, col: col, drawMsg: true, seq: seq})
		seq++
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.info.label.order != b.info.label.order {
			return a.info.label.order < b.info.label.order
		}
		if a.col != b.col {
			return a.col < b.col
		}
		if a.info.span() != b.info.span() {
			return a.info.span() < b.info.span()
		}
		return a.seq < b.seq
	})
	return out
}

func anchorColumn(info *labelInfo, attach Attach) int {
	switch attach {
	case AttachStart:
		return info.startCol
	case AttachEnd:
		return info.endCol
	default:
		return (info.startCol + info.endCol) / 2
	}
}

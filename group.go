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

// group is the derived, per-render collection of every label touching one
// source. Groups are rebuilt from the flat label list at the start of
// every render.
type group struct {
	src        *sourceHandle
	singles    []*labelInfo // single-line labels
	multis     []*labelInfo // multi-line labels, sorted by descending span
	firstLine  int
	lastLine   int
}

// buildGroups resolves every label attached to r into per-source groups,
// computing each label's byte offsets and line range.
func (r *Report) buildGroups() ([]*group, error) {
	r.labelArena.Reset()
	bySource := make(map[int]*group)
	var order []int

	for i := range r.labels {
		lbl := &r.labels[i]
		handle, ok := r.sourceByID(lbl.srcID)
		if !ok {
			return nil, wrapf(ErrSource, "musubi: label references unknown source id %d", lbl.srcID)
		}

		g, ok := bySource[lbl.srcID]
		if !ok {
			g = &group{src: handle}
			bySource[lbl.srcID] = g
			order = append(order, lbl.srcID)
		}

		info, err := r.resolveLabelInfo(lbl, handle.source)
		if err != nil {
			return nil, err
		}

		if info.multi {
			g.multis = append(g.multis, info)
		} else {
			g.singles = append(g.singles, info)
		}

		if len(g.multis)+len(g.singles) == 1 {
			g.firstLine, g.lastLine = info.startLine, info.endLine
		} else {
			g.firstLine = min(g.firstLine, info.startLine)
			g.lastLine = max(g.lastLine, info.endLine)
		}
	}

	groups := make([]*group, 0, len(order))
	for _, id := range order {
		g := bySource[id]
		sort.SliceStable(g.multis, func(i, j int) bool {
			return g.multis[i].span() > g.multis[j].span()
		})
		groups = append(groups, g)
	}
	return groups, nil
}

// resolveLabelInfo converts a Label's configured-index-type offsets into
// absolute byte offsets and a line range, clamping both ends to their
// containing line's bounds. When the Report's Config.IndexType is
// IndexChar, start/end are first converted from character offsets to byte
// offsets (Source's LineAt works in bytes); startCol/endCol are always
// resolved to character columns within their line so every downstream
// pass indexes a line's rune array consistently.
func (r *Report) resolveLabelInfo(lbl *Label, src Source) (*labelInfo, error) {
	text, err := src.Text()
	if err != nil {
		return nil, err
	}

	start, end := lbl.start, lbl.end
	if r.config().IndexType == IndexChar {
		start = charToByte(text, start)
		end = charToByte(text, end)
	}

	startLine, startLn, err := src.LineAt(start)
	if err != nil {
		return nil, err
	}

	// end is a half-open offset: look up the line containing the last
	// covered byte (end-1), not end itself. Otherwise a label that covers
	// an entire line including its trailing newline (end == the next
	// line's start) would resolve to the next line, wrongly marking the
	// label multi-line instead of clamping to this line's end.
	endLookup := end
	if end > start {
		endLookup = end - 1
	}
	endLine, endLn, err := src.LineAt(endLookup)
	if err != nil {
		return nil, err
	}

	startChar := clamp(start, startLn.Start, startLn.End)
	// The end may point one slot past the line's content, at the
	// terminator itself; that slot counts as the newline position, one
	// virtual character wide.
	endBound := endLn.End
	if endBound < len(text) {
		endBound++
	}
	endChar := clamp(end, endLn.Start, endBound)
	if end == start {
		endChar = startChar
	}

	startLineText, err := src.LineText(startLine)
	if err != nil {
		return nil, err
	}
	endLineText := startLineText
	if endLine != startLine {
		endLineText, err = src.LineText(endLine)
		if err != nil {
			return nil, err
		}
	}
	startCol := byteColToCharCol(startLineText, startChar-startLn.Start)
	endCol := byteColToCharCol(endLineText, endChar-endLn.Start)
	if end == start {
		endCol = startCol
	}

	ptr := r.labelArena.New(labelInfo{
		label:     lbl,
		startChar: startChar,
		endChar:   endChar,
		startLine: startLine,
		startCol:  startCol,
		endLine:   endLine,
		endCol:    endCol,
		multi:     startLine != endLine,
	})
	return ptr.In(&r.labelArena), nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

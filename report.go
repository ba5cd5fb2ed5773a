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
	"sort"

	"github.com/starwing/musubi/internal/arena"
)

// Report accumulates sources, labels, help/note text, and header
// metadata, then renders them as a single diagnostic. The zero Report is
// empty and ready to use.
type Report struct {
	cfg       Config
	cfgSet    bool
	level     Level
	custom    string
	title     string
	code      string
	help      []string
	notes     []string
	sources   []*sourceHandle
	nextSrcID int
	labels    []Label
	curLabel  int // index into labels of the most recently pushed label, -1 if none

	// labelArena and clusterArena back this Report's per-render scratch:
	// every labelInfo and cluster allocated while building groups and
	// packing clusters lives here instead of as a loose heap allocation,
	// so their backing storage's capacity survives from one Render call to
	// the next.
	labelArena   arena.Arena[labelInfo]
	clusterArena arena.Arena[cluster]

	// owner records the id of the first goroutine to touch this Report since
	// it was created or last passed to Transfer,
	// checked by checkOwner in -tags musubi_debug builds (owner_debug.go)
	// to enforce single-goroutine ownership. Unused, and never checked, in
	// ordinary builds (owner_release.go).
	owner int64
}

// Transfer releases this Report's recorded owning goroutine, allowing a
// different goroutine to take ownership on its next use. Only enforced in
// -tags musubi_debug builds; present unconditionally so callers don't need
// a build-tagged call site.
func (r *Report) Transfer() {
	r.owner = 0
}

func (r *Report) config() *Config {
	if !r.cfgSet {
		r.cfg = DefaultConfig()
		r.cfgSet = true
	}
	return &r.cfg
}

// SetConfig replaces the Report's configuration. Replacing the config
// after labels exist recomputes layout from scratch on the next Render
// rather than refusing the call.
func (r *Report) SetConfig(cfg Config) {
	r.cfg = cfg
	r.cfgSet = true
}

// Title sets the diagnostic's severity, an optional custom level name
// (overriding the default "Error"/"Warning"/"Remark" text when non-empty),
// and its headline.
func (r *Report) Title(level Level, customLevelName, title string) {
	r.level = level
	r.custom = customLevelName
	r.title = title
}

// Code sets the diagnostic's short code (e.g. "E0001"), shown in brackets
// before the level in the header row. An empty code omits the brackets.
func (r *Report) Code(code string) {
	r.code = code
}

// Source attaches src to the report, assigning it a report-local id, and
// returns that id for use with Label. Attaching the same Source value
// twice reuses its cached line index but still returns a fresh id.
func (r *Report) Source(src Source) int {
	id := r.nextSrcID
	r.nextSrcID++
	r.sources = append(r.sources, &sourceHandle{id: id, source: src})
	return id
}

func (r *Report) sourceByID(id int) (*sourceHandle, bool) {
	for _, h := range r.sources {
		if h.id == id {
			return h, true
		}
	}
	return nil, false
}

// Label pushes a new label spanning [start, end) (half-open, in the
// configured IndexType) into the source identified by srcID, and makes it
// the target of subsequent Message/Color/Order/Priority calls. Returns
// ErrSource if srcID was never returned by Source, and ErrParam if
// start > end.
func (r *Report) Label(srcID, start, end int) error {
	r.checkOwner()
	if start > end {
		return wrapf(ErrParam, "musubi: label start %d after end %d", start, end)
	}
	if _, ok := r.sourceByID(srcID); !ok {
		return wrapf(ErrSource, "musubi: unknown source id %d", srcID)
	}
	r.labels = append(r.labels, Label{srcID: srcID, start: start, end: end})
	r.curLabel = len(r.labels) - 1
	return nil
}

func (r *Report) mustCurrent() (*Label, error) {
	if r.curLabel < 0 || r.curLabel >= len(r.labels) {
		return nil, wrapf(ErrParam, "musubi: no label is open")
	}
	return &r.labels[r.curLabel], nil
}

// Message sets the most recently pushed label's text. explicitWidth, if
// nonzero, overrides the auto-computed display width (for callers that
// pre-measure their own message, e.g. to account for markup this package
// does not understand).
func (r *Report) Message(msg string, explicitWidth int) error {
	lbl, err := r.mustCurrent()
	if err != nil {
		return err
	}
	lbl.message = msg
	lbl.messageWidth = explicitWidth
	return nil
}

// Color overrides the most recently pushed label's color function.
func (r *Report) Color(fn ColorFunc) error {
	lbl, err := r.mustCurrent()
	if err != nil {
		return err
	}
	lbl.color = fn
	return nil
}

// Order sets the most recently pushed label's primary sort key among
// labels anchored on the same line.
func (r *Report) Order(order int) error {
	lbl, err := r.mustCurrent()
	if err != nil {
		return err
	}
	lbl.order = order
	return nil
}

// Priority sets the most recently pushed label's overlap-resolution
// priority.
func (r *Report) Priority(priority int) error {
	lbl, err := r.mustCurrent()
	if err != nil {
		return err
	}
	lbl.priority = priority
	return nil
}

// Sort canonicalizes this Report's label order: by source name, Order,
// start offset, end offset, then message text. This does not affect
// rendering (labels on a line are re-sorted during layout anyway), but
// gives callers a stable, inspectable label order for logging or
// snapshot testing.
func (r *Report) Sort() {
	sort.SliceStable(r.labels, func(i, j int) bool {
		a, b := r.labels[i], r.labels[j]
		an, _ := r.sourceByID(a.srcID)
		bn, _ := r.sourceByID(b.srcID)
		var aName, bName string
		if an != nil {
			aName = an.source.Name()
		}
		if bn != nil {
			bName = bn.source.Name()
		}
		if aName != bName {
			return aName < bName
		}
		if a.order != b.order {
			return a.order < b.order
		}
		if a.start != b.start {
			return a.start < b.start
		}
		if a.end != b.end {
			return a.end < b.end
		}
		return a.message < b.message
	})
	r.curLabel = -1
}

// Help appends a help message to the footer.
func (r *Report) Help(msg string) {
	r.help = append(r.help, msg)
}

// Note appends a note message to the footer.
func (r *Report) Note(msg string) {
	r.notes = append(r.notes, msg)
}

// Reset empties labels, sources, help, and notes, returning the Report to
// its initial Empty state. The configuration is preserved.
func (r *Report) Reset() {
	r.checkOwner()
	r.level = 0
	r.custom = ""
	r.title = ""
	r.code = ""
	r.help = nil
	r.notes = nil
	r.sources = nil
	r.nextSrcID = 0
	r.labels = nil
	r.curLabel = -1
}

// Render draws the full diagnostic to w. headerPos and headerSrcID select
// the position shown in that source's group reference row in place of its
// first label's position; pass headerSrcID = -1 to keep every group's own
// position. A nil writer makes Render a no-op.
func (r *Report) Render(w io.Writer, headerPos int, headerSrcID int) error {
	r.checkOwner()
	if w == nil {
		return nil
	}
	cfg := r.config()
	cw := newChunkWriter(cfg.resolveCharSet(), cfg.Color)

	var headerSrc *sourceHandle
	if headerSrcID >= 0 {
		h, ok := r.sourceByID(headerSrcID)
		if !ok {
			return wrapf(ErrSource, "musubi: unknown header source id %d", headerSrcID)
		}
		headerSrc = h
	}

	groups, err := r.buildGroups()
	if err != nil {
		return err
	}
	r.clusterArena.Reset()
	lnw := maxLineNoWidth(groups)

	r.renderHeader(cw)

	for i, g := range groups {
		ref := groupRef{line: g.firstLine, col: firstCol(g)}
		if headerSrc != nil && g.src.id == headerSrcID {
			pos := headerPos
			if cfg.IndexType == IndexChar {
				full, err := headerSrc.source.Text()
				if err != nil {
					return err
				}
				pos = charToByte(full, pos)
			}
			lineNo, line, err := headerSrc.source.LineAt(pos)
			if err != nil {
				return err
			}
			text, err := headerSrc.source.LineText(lineNo)
			if err != nil {
				return err
			}
			ref = groupRef{line: lineNo, col: byteColToCharCol(text, pos-line.Start)}
		}
		if err := renderGroup(cw, g, cfg, &r.clusterArena, lnw, i == 0, ref); err != nil {
			return err
		}
	}

	renderFooter(cw, r, cfg, lnw)

	return cw.Flush(w)
}

// firstCol returns the default reference column for a group: the leftmost
// start column among every label (single or multi-line) that actually
// starts on g.firstLine, not merely the first entry of either slice
// (g.multis is sorted by descending span, g.singles by insertion order,
// so neither slice's head is guaranteed to sit on g.firstLine).
func firstCol(g *group) int {
	col := -1
	for _, info := range g.multis {
		if info.startLine == g.firstLine && (col == -1 || info.startCol < col) {
			col = info.startCol
		}
	}
	for _, info := range g.singles {
		if info.startLine == g.firstLine && (col == -1 || info.startCol < col) {
			col = info.startCol
		}
	}
	if col == -1 {
		return 0
	}
	return col
}

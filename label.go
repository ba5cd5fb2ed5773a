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

// Level is the severity of a diagnostic, selecting the header's color and
// default text.
type Level int

const (
	LevelError Level = iota
	LevelWarning
	LevelRemark
)

func (l Level) String() string {
	switch l {
	case LevelError:
		return "Error"
	case LevelWarning:
		return "Warning"
	case LevelRemark:
		return "Remark"
	default:
		return "Error"
	}
}

// Label is one user-supplied annotation: a half-open span into a source,
// with an optional message and styling overrides.
type Label struct {
	srcID   int
	start   int // start_pos, in the index type configured for the Report
	end     int // end_pos, half-open; invariant start <= end
	message string
	// messageWidth overrides the display-width auto-computed from message;
	// 0 means "compute it".
	messageWidth int
	color        ColorFunc
	order        int
	priority     int
}

// labelInfo is the derived, per-render geometry for one Label: its
// resolved offsets and whether it spans more than one line. startChar and
// endChar are absolute byte offsets into the source text, so span lengths
// used for ordering are measured in bytes, not characters.
type labelInfo struct {
	label      *Label
	startChar  int
	endChar    int
	startLine  int
	startCol   int
	endLine    int
	endCol     int
	multi      bool
}

func (li *labelInfo) span() int { return li.endChar - li.startChar }

// effectiveColor returns the label's own color function if set, else the
// fallback (typically the Config's default palette).
func (li *labelInfo) effectiveColor(fallback ColorFunc) ColorFunc {
	if li.label.color != nil {
		return li.label.color
	}
	return fallback
}

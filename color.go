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
	"hash/fnv"
)

// minBrightness is the floor applied to each RGB channel of a generated
// label color so a label never renders unreadably dark against a typical
// terminal's black background.
const minBrightness = 0x50

// generatedColor returns a deterministic 256-color SGR escape for the given
// identity string, used to assign secondary labels distinct colors when no
// explicit Label.Color override is set. The same identity always yields the
// same color across runs, which keeps golden-file output stable.
func generatedColor(identity string) Chunk {
	h := fnv.New32a()
	_, _ = h.Write([]byte(identity))
	sum := h.Sum32()

	r := brighten(byte(sum))
	g := brighten(byte(sum >> 8))
	b := brighten(byte(sum >> 16))

	idx := rgbTo256(r, g, b)
	return Chunk(fmt.Sprintf("\x1b[38;5;%dm", idx))
}

func brighten(c byte) byte {
	if c < minBrightness {
		return minBrightness + c/2
	}
	return c
}

// rgbTo256 maps an 8-bit RGB triple onto the xterm 256-color cube (indices
// 16-231, a 6x6x6 cube of colors 0,95,135,175,215,255).
func rgbTo256(r, g, b byte) int {
	return 16 + 36*quantize(r) + 6*quantize(g) + quantize(b)
}

func quantize(c byte) int {
	switch {
	case c < 48:
		return 0
	case c < 115:
		return 1
	default:
		return int(c-35) / 40
	}
}

// autoColorFunc returns the deterministic per-label color used as a
// fallback when a label has no explicit Color override, so distinct
// labels sharing a line remain visually distinguishable without any user
// configuration. The identity is derived from the label's own content
// (source, span, order, priority, message) rather than its address, so the
// same input always renders the same color, keeping golden-file output
// reproducible across runs.
func autoColorFunc(info *labelInfo) ColorFunc {
	l := info.label
	identity := fmt.Sprintf("%d:%d:%d:%d:%d:%s", l.srcID, l.start, l.end, l.order, l.priority, l.message)
	c := generatedColor(identity)
	return func(Kind) Chunk { return c }
}

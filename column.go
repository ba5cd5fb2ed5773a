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

// widthIndex returns the largest column in [lo, hi) whose cumulative width
// relative to lo does not exceed budget.
func widthIndex(width []int, lo, hi, budget int) int {
	base := width[lo]
	// Binary search over the monotonic width cache for the first offset
	// whose width exceeds budget; the column before it is the answer.
	n := sort.Search(hi-lo, func(i int) bool {
		return width[lo+i]-base > budget
	})
	if n == 0 {
		return lo
	}
	return lo + n - 1
}

// resolveColumnRange picks [startCol, endCol) for c given the line's width
// cache and the surrounding layout budget.
func resolveColumnRange(c *cluster, widthCache []int, lineNoWidth, marginWidth int, cfg *Config) {
	lineCharLen := len(widthCache) - 1
	essential := 1 + c.maxMsgWidth

	if cfg.LimitWidth <= 0 {
		c.startCol = 0
		c.endCol = lineCharLen
		return
	}

	fixed := lineNoWidth + 4 + marginWidth
	budget := cfg.LimitWidth - fixed

	if budget <= essential {
		// Essential content alone may not fit; start at minCol and extend
		// as far as the remaining budget allows.
		c.startCol = c.minCol
		ellWidth := stringWidth(string(cfg.resolveCharSet()[GlyphEllipsis]), 0)
		avail := max(0, budget-essential+ellWidth)
		c.endCol = min(widthIndex(widthCache, c.minCol, lineCharLen+1, avail), lineCharLen)
		return
	}

	full := widthCache[lineCharLen] - widthCache[0]
	avail := budget - essential
	if full <= avail {
		c.startCol = 0
		c.endCol = lineCharLen
		return
	}

	// Both ends may need ellipsizing. Keep [minCol, arrowLen) visible and
	// split the leftover budget between a left and a right extension, so
	// the elided portion lands on both sides of the labeled columns.
	hi := min(c.arrowLen, lineCharLen)
	needed := widthCache[hi] - widthCache[c.minCol]
	slack := max(0, avail-needed)
	target := widthCache[c.minCol] - slack/2
	c.startCol = sort.Search(c.minCol, func(i int) bool {
		return widthCache[i] >= target
	})
	c.endCol = min(widthIndex(widthCache, c.startCol, lineCharLen+1, avail), lineCharLen)
	if c.endCol < hi {
		c.endCol = hi
	}
}

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
	"testing"

	"github.com/stretchr/testify/assert"
)

func linearWidthCache(n int) []int {
	w := make([]int, n+1)
	for i := range w {
		w[i] = i
	}
	return w
}

func TestWidthIndexBasic(t *testing.T) {
	assert := assert.New(t)

	w := linearWidthCache(20)
	// widthIndex returns the largest index whose cumulative width, relative
	// to lo, does not exceed budget.
	assert.Equal(5, widthIndex(w, 0, 21, 5))
	assert.Equal(10, widthIndex(w, 5, 21, 5), "relative to lo")
	assert.Equal(20, widthIndex(w, 0, 21, 1000), "budget exceeds range: clamps to the last column before hi")
	assert.Equal(0, widthIndex(w, 0, 21, -1), "negative budget admits nothing past lo")
}

func TestResolveColumnRangeUnlimitedWidth(t *testing.T) {
	assert := assert.New(t)

	w := linearWidthCache(30)
	cfg := DefaultConfig()
	cfg.LimitWidth = 0
	c := &cluster{minCol: 5, maxMsgWidth: 3}

	resolveColumnRange(c, w, 2, 0, &cfg)
	assert.Equal(0, c.startCol)
	assert.Equal(30, c.endCol)
}

func TestResolveColumnRangeEverythingFits(t *testing.T) {
	assert := assert.New(t)

	w := linearWidthCache(10)
	cfg := DefaultConfig()
	cfg.LimitWidth = 100
	c := &cluster{minCol: 2, maxMsgWidth: 0}

	resolveColumnRange(c, w, 2, 0, &cfg)
	assert.Equal(0, c.startCol)
	assert.Equal(10, c.endCol, "the whole line fits comfortably under a generous limit")
}

func TestResolveColumnRangeTightBudgetStartsAtMinCol(t *testing.T) {
	assert := assert.New(t)

	w := linearWidthCache(40)
	cfg := DefaultConfig()
	cfg.LimitWidth = 10
	cfg.CharSetName = "ascii"
	c := &cluster{minCol: 3, maxMsgWidth: 20}

	resolveColumnRange(c, w, 0, 0, &cfg)
	assert.Equal(3, c.startCol, "with an impossibly tight budget, the window starts at minCol")
	assert.GreaterOrEqual(c.endCol, c.startCol)
}

func TestResolveColumnRangeBalancedEllipsisInvariants(t *testing.T) {
	assert := assert.New(t)

	w := linearWidthCache(200)
	cfg := DefaultConfig()
	cfg.LimitWidth = 40
	c := &cluster{minCol: 100, maxMsgWidth: 2, arrowLen: 102}

	resolveColumnRange(c, w, 3, 0, &cfg)
	assert.GreaterOrEqual(c.minCol, c.startCol, "the anchor column is never elided away on the left")
	assert.LessOrEqual(c.startCol, c.endCol)
	assert.GreaterOrEqual(c.endCol, 0)
	assert.LessOrEqual(c.endCol, 200)
}

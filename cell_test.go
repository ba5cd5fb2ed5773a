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

func multiLabelInfo(order, startLine, startCol, endLine, endCol int) *labelInfo {
	lbl := &Label{order: order}
	return &labelInfo{
		label: lbl, multi: true,
		startLine: startLine, startCol: startCol,
		endLine: endLine, endCol: endCol,
		startChar: startCol, endChar: endCol,
	}
}

func TestCoversColumnSingleLine(t *testing.T) {
	assert := assert.New(t)

	info := singleLabelInfo(0, 0, 0, "x")
	info.startLine = 2
	info.startCol, info.endCol = 3, 7

	assert.True(coversColumn(info, 2, 3))
	assert.True(coversColumn(info, 2, 6))
	assert.False(coversColumn(info, 2, 7), "end is exclusive")
	assert.False(coversColumn(info, 3, 4), "wrong line")
}

func TestCoversColumnZeroLength(t *testing.T) {
	assert := assert.New(t)

	info := singleLabelInfo(0, 0, 0, "x")
	info.startLine = 0
	info.startCol, info.endCol = 5, 5

	assert.True(coversColumn(info, 0, 5))
	assert.False(coversColumn(info, 0, 4))
	assert.False(coversColumn(info, 0, 6))
}

func TestCoversColumnMultiLine(t *testing.T) {
	assert := assert.New(t)

	info := multiLabelInfo(0, 1, 4, 3, 2)

	assert.False(coversColumn(info, 1, 3), "before the opening column")
	assert.True(coversColumn(info, 1, 4))
	assert.True(coversColumn(info, 1, 100), "whole rest of the opening line")
	assert.True(coversColumn(info, 2, 0), "interior line is fully covered")
	assert.True(coversColumn(info, 3, 1))
	assert.False(coversColumn(info, 3, 2), "end is exclusive on the closing line")
	assert.False(coversColumn(info, 4, 0), "past the closing line")
}

func TestHighlightAtPicksHigherPriority(t *testing.T) {
	assert := assert.New(t)

	low := singleLabelInfo(0, 0, 0, "low")
	low.startLine, low.startCol, low.endCol = 0, 0, 10
	low.label.priority = 1

	high := singleLabelInfo(1, 0, 0, "high")
	high.startLine, high.startCol, high.endCol = 0, 2, 5
	high.label.priority = 5

	g := &group{}
	c := &cluster{lineLabels: []lineLabel{{info: low}, {info: high}}}

	got := highlightAt(g, c, 0, 3)
	assert.Same(high, got)

	got = highlightAt(g, c, 0, 0)
	assert.Same(low, got, "only the low-priority label covers column 0")
}

func TestHighlightAtTieBreaksByShorterSpan(t *testing.T) {
	assert := assert.New(t)

	wide := singleLabelInfo(0, 0, 10, "wide")
	wide.startLine, wide.startCol, wide.endCol = 0, 0, 10

	narrow := singleLabelInfo(1, 2, 4, "narrow")
	narrow.startLine, narrow.startCol, narrow.endCol = 0, 2, 4

	g := &group{}
	c := &cluster{lineLabels: []lineLabel{{info: wide}, {info: narrow}}}

	got := highlightAt(g, c, 0, 3)
	assert.Same(narrow, got, "equal priority breaks toward the shorter span")
}

func TestHighlightAtNoCoverage(t *testing.T) {
	g := &group{}
	c := &cluster{}
	assert.Nil(t, highlightAt(g, c, 0, 0))
}

func TestVerticalBarAtSkipsZeroWidthSingleLine(t *testing.T) {
	assert := assert.New(t)

	noMsg := singleLabelInfo(0, 0, 1, "")
	c := &cluster{lineLabels: []lineLabel{{info: noMsg, col: 4, drawMsg: true}}}

	assert.Nil(verticalBarAt(c, 0, 4), "a single-line label with no message carries no vertical bar")
}

func TestVerticalBarAtFindsAnchor(t *testing.T) {
	assert := assert.New(t)

	withMsg := singleLabelInfo(0, 0, 1, "note")
	c := &cluster{lineLabels: []lineLabel{{info: withMsg, col: 4, drawMsg: true}}}

	got := verticalBarAt(c, 0, 4)
	assert.NotNil(got)
	assert.Same(withMsg, got.info)

	assert.Nil(verticalBarAt(c, 0, 5), "wrong column")
}

func TestVerticalBarAtRespectsRowCutoff(t *testing.T) {
	assert := assert.New(t)

	a := singleLabelInfo(0, 0, 1, "a")
	b := singleLabelInfo(1, 0, 1, "b")
	c := &cluster{lineLabels: []lineLabel{
		{info: a, col: 4, drawMsg: true},
		{info: b, col: 4, drawMsg: true},
	}}

	// row=0 only looks at index 0
	got := verticalBarAt(c, 0, 4)
	assert.Same(a, got.info)
}

func TestPendingBarAtFindsLaterRows(t *testing.T) {
	assert := assert.New(t)

	a := singleLabelInfo(0, 0, 1, "a")
	b := singleLabelInfo(1, 0, 1, "b")
	c := &cluster{lineLabels: []lineLabel{
		{info: a, col: 4, drawMsg: true},
		{info: b, col: 9, drawMsg: true},
	}}

	got := pendingBarAt(c, 0, 9)
	assert.NotNil(got)
	assert.Same(b, got.info)

	assert.Nil(pendingBarAt(c, 0, 4), "a label's own row is not pending below itself")
	assert.Nil(pendingBarAt(c, 1, 9), "nothing is pending below the last row")
}

func TestUnderlineAtPicksHighestPriority(t *testing.T) {
	assert := assert.New(t)

	a := singleLabelInfo(0, 0, 0, "a")
	a.startCol, a.endCol = 0, 10
	a.label.priority = 0

	b := singleLabelInfo(1, 0, 0, "b")
	b.startCol, b.endCol = 3, 6
	b.label.priority = 1

	c := &cluster{lineLabels: []lineLabel{{info: a}, {info: b}}}

	got := underlineAt(c, 4)
	assert.Same(b, got.info)
}

func TestUnderlineAtIgnoresMultiLine(t *testing.T) {
	multi := multiLabelInfo(0, 0, 0, 5, 5)
	c := &cluster{lineLabels: []lineLabel{{info: multi}}}
	assert.Nil(t, underlineAt(c, 0))
}

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

/*
Package musubi renders richly annotated diagnostic reports — of the kind a
compiler or linter emits — as terminal text.

Given one or more source texts and a collection of labels (spans) into
those texts, a [Report] produces an aligned, boxed, colored, optionally
width-limited rendering with caret arrows, underlines, side margins for
multi-line spans, ellipses for skipped regions, and help/note footers.

# Building a report

Construct a [Report], attach one or more [Source]s, push labels with
[Report.Label], and decorate the most recently pushed label with
[Report.Message], [Report.Order], [Report.Priority], or [Report.Color].
Call [Report.Help] and [Report.Note] for footer text, then [Report.Render]
to draw the report through an [io.Writer].

	var r musubi.Report
	src := musubi.NewMemorySource("example.lua", text)
	srcID := r.Source(src)
	r.Label(srcID, 15, 22)
	r.Message("expected number, got string", 0)
	r.Title(musubi.LevelError, "", "type mismatch")
	r.Code("E001")
	err := r.Render(os.Stdout, 15, srcID)

# Scope

This package implements exactly the layout and rendering engine: grouping
labels by source, mapping positions to (line, column), classifying labels as
single- or multi-line, packing labels into column-limited clusters, resolving
per-cell ownership (highlight color, vertical bar, underline, arrow head),
and emitting the final interleaved text.

It deliberately says nothing about embedding into a scripting host, Unicode
width tables (it calls into [github.com/rivo/uniseg] for those), or color
palette selection beyond a built-in default — see [ColorFunc].
*/
package musubi

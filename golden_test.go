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
	"strings"
	"testing"

	"github.com/starwing/musubi/internal/golden"
)

// TestSourceLineIndexGolden runs MemorySource's line splitting against a
// corpus of fixture texts (plain, CRLF, empty, no-trailing-newline,
// multi-byte UTF-8) and compares the resulting line table against a
// checked-in expectation via the internal/golden harness.
func TestSourceLineIndexGolden(t *testing.T) {
	golden.Corpus{
		Root:       "testdata/golden",
		Refresh:    "MUSUBI_GOLDEN_REFRESH",
		Extensions: []string{"txt"},
		Outputs:    []golden.Output{{Extension: "lines"}},
	}.Run(t, func(t *testing.T, path, text string, outputs []string) {
		src := NewMemorySource(path, text)
		n := src.NumLines()

		var sb strings.Builder
		for i := 0; i < n; i++ {
			line, err := src.LineText(i)
			if err != nil {
				t.Fatalf("LineText(%d): %v", i, err)
			}
			fmt.Fprintf(&sb, "%d: %q\n", i, line)
		}
		outputs[0] = sb.String()
	})
}

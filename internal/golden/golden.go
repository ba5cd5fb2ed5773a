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

// Package golden provides a framework for writing file-based golden tests
// for report rendering: a corpus of fixture files under testdata/, each
// paired with one or more expected-output files.
//
// The primary entry-point is [Corpus]. Define a new corpus in an ordinary Go
// test body and call [Corpus.Run] to execute it.
//
// Corpora can be "refreshed" to update the golden expectations with output
// generated by the test instead of comparing against it: run the test with
// the environment variable [Corpus.Refresh] names set to a glob matching
// the test names to regenerate.
package golden

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"strings"
	"testing"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/pmezard/go-difflib/difflib"
)

// Corpus describes a test data corpus: a table-driven test where the
// "table" lives on disk.
type Corpus struct {
	// Root is the test data directory, relative to the directory of the
	// file that calls [Corpus.Run].
	Root string

	// Refresh is an environment variable name; when set to a non-empty
	// glob, matching test cases are refreshed instead of compared.
	Refresh string

	// Extensions lists the file extensions (without a dot) that define a
	// test case, e.g. "txt".
	Extensions []string

	// Outputs are the expected output files for each test case, found by
	// appending ".<Extension>" to the input file's path.
	Outputs []Output
}

// Run executes a golden test. test runs a single case and writes its
// results into outputs, one per entry of Corpus.Outputs.
func (c Corpus) Run(t *testing.T, test func(t *testing.T, path, text string, outputs []string)) {
	t.Helper()
	testDir := callerDir(1)
	root := filepath.Join(testDir, c.Root)

	var tests []string
	err := filepath.Walk(root, func(p string, fi fs.FileInfo, err error) error {
		if err != nil || fi.IsDir() {
			return err
		}
		for _, extn := range c.Extensions {
			if strings.HasSuffix(p, "."+extn) {
				tests = append(tests, p)
				break
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("golden: error while walking testdata: %v", err)
	}

	var refresh string
	if c.Refresh != "" {
		refresh = os.Getenv(c.Refresh)
		if refresh != "" && !doublestar.ValidatePattern(refresh) {
			t.Fatalf("golden: invalid refresh glob %q", refresh)
		}
	}

	for _, path := range tests {
		name, _ := filepath.Rel(testDir, path)
		name = filepath.ToSlash(name)
		testName, _ := filepath.Rel(root, path)
		testName = filepath.ToSlash(testName)

		t.Run(testName, func(t *testing.T) {
			bytes, err := os.ReadFile(path)
			if err != nil {
				t.Fatalf("golden: error while loading input %q: %v", path, err)
			}

			input := string(bytes)
			results := make([]string, len(c.Outputs))

			rec, stack := catch(func() { test(t, name, input, results) })
			if rec != nil {
				t.Logf("test panicked: %v\n%s", rec, stack)
				t.Fail()
			}

			doRefresh, _ := doublestar.Match(refresh, name)
			for i, output := range c.Outputs {
				if rec != nil && results[i] == "" {
					continue
				}
				outPath := fmt.Sprint(path, ".", output.Extension)

				if !doRefresh {
					want, err := os.ReadFile(outPath)
					if err != nil && !errors.Is(err, os.ErrNotExist) {
						t.Logf("golden: error while loading output %q: %v", outPath, err)
						t.Fail()
						continue
					}
					cmp := output.Compare
					if cmp == nil {
						cmp = CompareAndDiff
					}
					if diff := cmp(results[i], string(want)); diff != "" {
						t.Logf("output mismatch for %q:\n%s", outPath, diff)
						t.Fail()
					}
					continue
				}

				if results[i] == "" {
					if err := os.Remove(outPath); err != nil && !errors.Is(err, os.ErrNotExist) {
						t.Logf("golden: error while deleting %q: %v", outPath, err)
						t.Fail()
					}
				} else if err := os.WriteFile(outPath, []byte(results[i]), 0o600); err != nil {
					t.Logf("golden: error while writing %q: %v", outPath, err)
					t.Fail()
				}
			}
		})
	}
}

// Output is one expected output of a test case.
type Output struct {
	// Extension is appended (with a leading dot) to the test case's path
	// to find the expected-output file.
	Extension string

	// Compare defaults to [CompareAndDiff] when nil.
	Compare CompareFunc
}

// CompareFunc compares got against want, returning an empty string if they
// match or a human-readable description of the mismatch otherwise.
type CompareFunc func(got, want string) string

// CompareAndDiff is a [CompareFunc] producing a colorized unified diff.
func CompareAndDiff(got, want string) string {
	if got == want {
		return ""
	}

	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(want),
		B:        difflib.SplitLines(got),
		FromFile: "want",
		ToFile:   "got",
		Context:  2,
	})
	if err != nil {
		return err.Error()
	}

	lines := strings.Split(diff, "\n")
	for i, s := range lines {
		switch {
		case strings.HasPrefix(s, "+"):
			lines[i] = "\033[1;92m" + s + "\033[0m"
		case strings.HasPrefix(s, "-"):
			lines[i] = "\033[1;91m" + s + "\033[0m"
		}
	}
	return strings.Join(lines, "\n")
}

func catch(cb func()) (rec any, stack []byte) {
	defer func() {
		rec = recover()
		if rec != nil {
			stack = debug.Stack()
		}
	}()
	cb()
	return
}

// callerDir returns the directory of the file calling Corpus.Run, skip
// frames above this function.
func callerDir(skip int) string {
	_, file, _, ok := runtime.Caller(skip + 1)
	if !ok {
		panic("musubi/internal/golden: could not determine caller's file; binary may be stripped")
	}
	return filepath.Dir(file)
}

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
	"errors"
	"fmt"
)

// Sentinel errors returned by Report's builder and rendering methods.
// Callers match them with errors.Is; the returned values carry additional
// context on top of these.
var (
	// ErrParam is returned for parameter errors: a builder method called
	// before any label exists, a label whose start is after its end, or
	// config or report YAML that fails to parse or encode. An out-of-range source id passed to Render yields ErrSource instead.
	ErrParam = errors.New("musubi: parameter error")

	// ErrSource is returned when a label's source id is not valid for the
	// current render, or the header source id passed to Render is invalid.
	ErrSource = errors.New("musubi: invalid source")

	// ErrFile is returned when a file-backed source cannot be opened or
	// read during render-time initialization.
	ErrFile = errors.New("musubi: file source error")
)

// wrapf attaches additional context to one of the sentinel errors above
// while keeping it matchable with errors.Is.
func wrapf(sentinel error, format string, args ...any) error {
	return &wrappedError{sentinel: sentinel, msg: fmt.Sprintf(format, args...)}
}

type wrappedError struct {
	sentinel error
	msg      string
}

func (e *wrappedError) Error() string { return e.msg }
func (e *wrappedError) Unwrap() error { return e.sentinel }

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

//go:build musubi_debug

package musubi

import "github.com/petermattis/goid"

// checkOwner panics if r is being used from a goroutine other than the one
// that first touched it, unless Transfer has cleared the recorded owner.
// Only compiled into -tags musubi_debug builds, since goid.Get walks the
// runtime stack and is too costly for production use.
func (r *Report) checkOwner() {
	id := goid.Get()
	if r.owner == 0 {
		r.owner = id
		return
	}
	if r.owner != id {
		panic("musubi: Report used from a different goroutine without Transfer")
	}
}

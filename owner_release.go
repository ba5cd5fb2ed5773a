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

//go:build !musubi_debug

package musubi

// checkOwner is a no-op in ordinary builds: goroutine-ownership checking
// costs a runtime stack walk (via github.com/petermattis/goid) that is only
// worth paying for in -tags musubi_debug builds.
func (r *Report) checkOwner() {}

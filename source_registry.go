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
	"sync"

	"github.com/tidwall/btree"
)

// SourceRegistry is a handle-counted cache of Sources keyed by path, so
// that many independent Reports referring to the same file share one
// parsed line index instead of re-reading and re-indexing it. Entries are
// kept in an ordered github.com/tidwall/btree.Map rather than a plain Go
// map because callers iterate the registry in path order (Each) for
// deterministic diagnostics output, in addition to looking entries up by
// path to dedupe attachment.
type SourceRegistry struct {
	mu      sync.Mutex
	entries btree.Map[string, *registryEntry]
}

type registryEntry struct {
	source   Source
	refcount int
}

// NewSourceRegistry creates an empty registry.
func NewSourceRegistry() *SourceRegistry {
	return &SourceRegistry{}
}

// Acquire returns the Source registered for path, constructing one with
// newSource and registering it if this is the first acquisition, and
// incrementing its reference count either way.
func (r *SourceRegistry) Acquire(path string, newSource func() Source) Source {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.entries.Get(path); ok {
		e.refcount++
		return e.source
	}
	e := &registryEntry{source: newSource(), refcount: 1}
	r.entries.Set(path, e)
	return e.source
}

// Release decrements path's reference count, evicting it from the registry
// once it reaches zero. Releasing a path that was never acquired is a
// no-op.
func (r *SourceRegistry) Release(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries.Get(path)
	if !ok {
		return
	}
	e.refcount--
	if e.refcount <= 0 {
		r.entries.Delete(path)
	}
}

// Each calls fn for every path currently registered, in ascending path
// order, stopping early if fn returns false.
func (r *SourceRegistry) Each(fn func(path string, source Source) bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries.Scan(func(path string, e *registryEntry) bool {
		return fn(path, e.source)
	})
}

// Len returns the number of distinct paths currently registered.
func (r *SourceRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.entries.Len()
}

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

// Package arena defines an Arena type with compressed pointers, adapted to
// back musubi's per-render scratch collections (label geometry and
// clusters) so their backing storage survives a Report's reset between
// renders instead of being reallocated from scratch each time.
package arena

import (
	"fmt"
	"math/bits"
	"strings"
)

const (
	pointersMinLenShift = 4
	pointersMinLen      = 1 << pointersMinLenShift
)

// Untyped is an untyped arena pointer. The zero value is nil.
type Untyped uint32

// Nil returns a nil arena pointer.
func Nil() Untyped { return 0 }

// Nil reports whether this pointer is nil.
func (p Untyped) Nil() bool { return p == 0 }

// Pointer is a compressed, typed arena pointer. The zero value is nil.
type Pointer[T any] Untyped

// Nil reports whether this pointer is nil.
func (p Pointer[T]) Nil() bool { return Untyped(p).Nil() }

// In looks up this pointer in arena, which must be the arena that
// allocated it.
func (p Pointer[T]) In(arena *Arena[T]) *T {
	return arena.At(Untyped(p))
}

// Arena is an arena offering compressed pointers: a slice of T that
// guarantees its elements never move, backed by a table of
// logarithmically-growing slices. A zero Arena[T] is empty and ready to
// use.
//
// Unlike a plain []T, Reset can discard the logical contents while keeping
// every slice's capacity, so a Report's per-render scratch arenas do not
// reallocate across renders.
type Arena[T any] struct {
	table [][]T
	n     int
}

// New allocates a new value on the arena and returns a pointer to it.
func (a *Arena[T]) New(value T) Pointer[T] {
	slice, pos := a.coordinatesForGrow(a.n)
	if slice == len(a.table) {
		size := pointersMinLen
		if slice > 0 {
			size = cap(a.table[slice-1]) * 2
		}
		a.table = append(a.table, make([]T, 0, size))
	}
	if pos == len(a.table[slice]) {
		a.table[slice] = append(a.table[slice], value)
	} else {
		a.table[slice][pos] = value
	}
	a.n++
	return Pointer[T](Untyped(a.n))
}

// At dereferences an untyped arena pointer, as if by [Pointer.In].
func (a *Arena[T]) At(ptr Untyped) *T {
	if ptr.Nil() {
		a = nil // Trigger an ordinary nil dereference on purpose.
	}
	slice, idx := a.coordinates(int(ptr) - 1)
	return &a.table[slice][idx]
}

// Len returns the number of values currently allocated.
func (a *Arena[T]) Len() int { return a.n }

// Reset discards all allocated values but keeps the underlying table
// capacity, so the next round of New calls does not reallocate.
func (a *Arena[T]) Reset() {
	for i := range a.table {
		a.table[i] = a.table[i][:0]
	}
	a.n = 0
}

// Each calls fn for every currently-allocated value, in allocation order,
// stopping early if fn returns false.
func (a *Arena[T]) Each(fn func(Untyped, *T) bool) {
	idx := 0
	for _, slice := range a.table {
		for i := range slice {
			if idx >= a.n {
				return
			}
			if !fn(Untyped(idx+1), &slice[i]) {
				return
			}
			idx++
		}
	}
}

// String implements [fmt.Stringer].
func (a Arena[T]) String() string {
	var b strings.Builder
	b.WriteRune('[')
	seen := 0
	for i, slice := range a.table {
		if i != 0 {
			b.WriteRune('|')
		}
		for j, v := range slice {
			if seen >= a.n {
				break
			}
			if j != 0 {
				b.WriteRune(' ')
			}
			fmt.Fprint(&b, v)
			seen++
		}
	}
	b.WriteRune(']')
	return b.String()
}

func (*Arena[T]) lenOfNthSlice(n int) int {
	return pointersMinLen << n
}

func (a *Arena[T]) lenOfFirstNSlices(n int) int {
	return max(0, a.lenOfNthSlice(n)-a.lenOfNthSlice(0))
}

// coordinates maps a logical index to (slice, offset), bounds-checked
// against the logical length (post-Reset, table capacity may exceed it).
func (a *Arena[T]) coordinates(idx int) (int, int) {
	if idx >= a.n || idx < 0 {
		panic(fmt.Sprintf("arena: pointer out of range: %#x", idx))
	}
	return a.coordinatesForGrow(idx)
}

func (a *Arena[T]) coordinatesForGrow(idx int) (int, int) {
	slice := bits.UintSize - bits.LeadingZeros(uint(idx)+pointersMinLen)
	slice -= pointersMinLenShift + 1
	idx -= a.lenOfFirstNSlices(slice)
	return slice, idx
}

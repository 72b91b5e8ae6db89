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

// Package arena defines an Arena type with compressed pointers.
//
// Trees, token streams, and rewriting sessions all store their records in
// arenas and address them with 32-bit [Pointer] values, so that back-links
// (a child's parent, a handle's original node) are plain integer fields
// rather than Go pointers, and so that whole collections can be discarded
// at once.
package arena

import (
	"fmt"
	"math/bits"
	"strings"
)

// chunkMinLenShift is the log2 of the size of the smallest chunk in
// an Arena[T].
const (
	chunkMinLenShift = 4
	chunkMinLen      = 1 << chunkMinLenShift
)

// Untyped is an arena pointer disassociated from its element type.
//
// The pointer value of a particular element is one plus the number of
// elements allocated before it; zero is the nil pointer.
type Untyped uint32

// Nil returns a nil arena pointer.
func Nil() Untyped {
	return 0
}

// Nil returns whether this pointer is nil.
func (p Untyped) Nil() bool {
	return p == 0
}

// Pointer is a compressed arena pointer.
//
// Cannot be dereferenced directly; see [Pointer.In]. The zero value is nil.
type Pointer[T any] Untyped

// Nil returns whether this pointer is nil.
func (p Pointer[T]) Nil() bool {
	return Untyped(p).Nil()
}

// Untyped erases this pointer's element type.
func (p Pointer[T]) Untyped() Untyped {
	return Untyped(p)
}

// In looks up this pointer in the given arena.
//
// arena must be the arena that allocated this pointer, otherwise this will
// either return an arbitrary element or panic. If p is nil, this panics.
func (p Pointer[T]) In(arena *Arena[T]) *T {
	return arena.At(Untyped(p))
}

// Arena is an append-only store of Ts that never moves its elements, so
// that pointers into it remain stable as it grows.
//
// It maintains a table of logarithmically-growing chunks that mimic the
// resizing behavior of an ordinary slice. This trades off the linear 8-byte
// overhead of []*T for a logarithmic 24-byte overhead. Lookup remains O(1),
// at the cost of two pointer loads instead of one.
//
// A zero Arena[T] is empty and ready to use.
type Arena[T any] struct {
	// Invariants:
	// 1. cap(table[0]) == 1<<chunkMinLenShift.
	// 2. cap(table[n]) == 2*cap(table[n-1]).
	// 3. cap(table[n]) == len(table[n]) for n < len(table)-1.
	//
	// These invariants are needed for lookup to be O(1).
	table [][]T
}

// New allocates a new value on the arena.
func (a *Arena[T]) New(value T) Pointer[T] {
	if a.table == nil {
		a.table = [][]T{make([]T, 0, chunkMinLen)}
	}

	last := &a.table[len(a.table)-1]
	if len(*last) == cap(*last) {
		// The last chunk is full; grow by doubling the size of the next one.
		a.table = append(a.table, make([]T, 0, 2*cap(*last)))
		last = &a.table[len(a.table)-1]
	}

	*last = append(*last, value)
	return Pointer[T](Untyped(a.Len()))
}

// At dereferences an untyped arena pointer, as if by [Pointer.In].
func (a *Arena[T]) At(ptr Untyped) *T {
	if ptr.Nil() {
		a = nil // Trigger an ordinary nil dereference on purpose.
	}
	chunk, idx := a.coordinates(int(ptr) - 1)
	return &a.table[chunk][idx]
}

// Len returns the number of elements allocated on this arena so far.
func (a *Arena[T]) Len() int {
	if len(a.table) == 0 {
		return 0
	}

	// Only the last chunk will be not-fully-filled.
	return a.lenOfFirstNChunks(len(a.table)-1) + len(a.table[len(a.table)-1])
}

// Values ranges over all elements in allocation order, paired with their
// pointers.
func (a *Arena[T]) Values(yield func(Pointer[T], *T) bool) {
	var n Untyped
	for _, chunk := range a.table {
		for i := range chunk {
			n++
			if !yield(Pointer[T](n), &chunk[i]) {
				return
			}
		}
	}
}

// String implements [fmt.Stringer].
func (a Arena[T]) String() string {
	var b strings.Builder
	b.WriteRune('[')
	// Don't use Values; we want to subtly show off the boundaries of the
	// chunks.
	for i, chunk := range a.table {
		if i != 0 {
			b.WriteRune('|')
		}
		for i, v := range chunk {
			if i != 0 {
				b.WriteRune(' ')
			}
			fmt.Fprint(&b, v)
		}
	}
	b.WriteRune(']')
	return b.String()
}

// lenOfNthChunk returns the length of the nth chunk, even if it isn't
// allocated yet.
func (*Arena[T]) lenOfNthChunk(n int) int {
	return chunkMinLen << n
}

// lenOfFirstNChunks returns the length of the first n chunks.
func (a *Arena[T]) lenOfFirstNChunks(n int) int {
	// Note the following identity:
	//
	// 2^m + 2^(m+1) + ... + 2^n = 2^(n+1) - 2^m
	//
	// This tells us that the sum of a.lenOfNthChunk(m) from 0 to n-1 (the
	// first n chunks) is
	return max(0, a.lenOfNthChunk(n)-a.lenOfNthChunk(0))
}

// coordinates calculates the coordinates of the given index in table. It
// also performs a bounds check.
func (a *Arena[T]) coordinates(idx int) (int, int) {
	if idx >= a.Len() || idx < 0 {
		panic(fmt.Sprintf("arena: pointer out of range: %#x", idx))
	}

	// Given chunkMinLenShift == n, the cumulative starting index of each
	// chunk is
	//
	// 0b0 << n, 0b1 << n, 0b11 << n, 0b111 << n
	//
	// Thus, to find which chunk an index corresponds to, we add 0b1 << n
	// (chunkMinLen). Because << distributes over addition, we get
	//
	// 0b1 << n, 0b10 << n, 0b100 << n, 0b1000 << n
	//
	// Taking the one-indexed high order bit, which maps this sequence to
	//
	// 1+n, 2+n, 3+n, 4+n
	//
	// We can subtract off n+1 to obtain the actual chunk index:
	//
	// 0, 1, 2, 3

	chunk := bits.UintSize - bits.LeadingZeros(uint(idx)+chunkMinLen)
	chunk -= chunkMinLenShift + 1

	// Then, the offset within table[chunk] is given by subtracting off the
	// length of all prior chunks from idx.
	idx -= a.lenOfFirstNChunks(chunk)

	return chunk, idx
}

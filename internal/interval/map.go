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

// Package interval provides an interval map used for byte-offset lookups,
// such as resolving a source offset to the token that covers it.
package interval

import (
	"fmt"

	"github.com/tidwall/btree"
	"golang.org/x/exp/constraints" //nolint:exptostd // Tries to replace w/ cmp.
)

// Endpoint is a type that may be used as an interval endpoint.
type Endpoint = constraints.Integer

// Map is an interval map, which maps closed, non-overlapping intervals with
// endpoints in K to values of type V.
//
// A zero value is ready to use.
type Map[K Endpoint, V any] struct {
	// Keys in this map are the ends of intervals in the map.
	tree btree.Map[K, *entry[K, V]]
}

// Interval is an entry returned by [Map.Get] and [Map.Insert].
type Interval[K Endpoint, V any] struct {
	// The range for this interval, inclusive on both ends.
	Start, End K

	// The value associated with it.
	Value *V
}

// Get looks up the interval which contains key, if one exists.
//
// If no such interval exists, the Value of the returned [Interval] will be
// nil.
func (m *Map[K, V]) Get(key K) Interval[K, V] {
	iter := m.tree.Iter()
	found := iter.Seek(key)

	if !found || key < iter.Value().start {
		// Check that the interval actually contains key. It is implicit
		// already that key <= end.
		return Interval[K, V]{}
	}

	return Interval[K, V]{
		Start: iter.Value().start,
		End:   iter.Key(),
		Value: &iter.Value().value,
	}
}

// Intervals ranges over the intervals in this map in ascending order.
func (m *Map[K, V]) Intervals(yield func(Interval[K, V]) bool) {
	iter := m.tree.Iter()
	more := iter.First()
	for more {
		if !yield(Interval[K, V]{
			Start: iter.Value().start,
			End:   iter.Key(),
			Value: &iter.Value().value,
		}) {
			return
		}
		more = iter.Next()
	}
}

// Len returns the number of intervals in this map.
func (m *Map[K, V]) Len() int {
	return m.tree.Len()
}

// Insert inserts a new interval into this map, with the given associated
// value. Both endpoints are inclusive.
//
// If [start, end] overlaps an interval already present, this function
// returns the overlapping interval with the least start and inserts
// nothing. This case is distinguished by overlap.Value != nil.
func (m *Map[K, V]) Insert(start, end K, value V) (overlap Interval[K, V]) {
	if start > end {
		panic(fmt.Sprintf("interval: start (%#v) > end (%#v)", start, end))
	}

	// Let start and end be a and b. The least interval [c, d] with a <= d,
	// if it exists, is the only candidate for an overlap; any interval
	// beyond it starts after [a, b] ends only if it also starts after d.
	iter := m.tree.Iter()
	if found := iter.Seek(start); found && iter.Value().start <= end {
		return Interval[K, V]{
			Start: iter.Value().start,
			End:   iter.Key(),
			Value: &iter.Value().value,
		}
	}

	m.tree.Set(end, &entry[K, V]{
		start: start,
		value: value,
	})
	return Interval[K, V]{}
}

// Format implements [fmt.Formatter].
func (m *Map[K, V]) Format(s fmt.State, v rune) {
	fmt.Fprint(s, "{")
	first := true
	m.tree.Scan(func(end K, entry *entry[K, V]) bool {
		if !first {
			fmt.Fprint(s, ", ")
		}
		first = false

		if entry.start == end {
			fmt.Fprintf(s, "%#v: ", entry.start)
		} else {
			fmt.Fprintf(s, "[%#v, %#v]: ", entry.start, end)
		}
		fmt.Fprintf(s, fmt.FormatString(s, v), entry.value)

		return true
	})
	fmt.Fprint(s, "}")
}

type entry[K Endpoint, V any] struct {
	start K
	value V
}

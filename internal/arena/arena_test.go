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

package arena_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/danielmercier/langkit/internal/arena"
)

func TestPointers(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	var a arena.Arena[int]

	p1 := a.New(5)
	assert.False(p1.Nil())
	assert.Equal(5, *p1.In(&a))

	elem := p1.In(&a)
	for i := range 16 {
		a.New(i + 5)
	}
	assert.Equal(19, *arena.Pointer[int](16).In(&a))
	assert.Equal(20, *arena.Pointer[int](17).In(&a))
	assert.Same(p1.In(&a), elem)

	for i := range 32 {
		a.New(i + 21)
	}
	assert.Equal(51, *arena.Pointer[int](48).In(&a))
	assert.Equal(52, *arena.Pointer[int](49).In(&a))
	assert.Same(p1.In(&a), elem)

	assert.Equal("[5 5 6 7 8 9 10 11 12 13 14 15 16 17 18 19|20 21 22 23 24 25 26 27 28 29 30 31 32 33 34 35 36 37 38 39 40 41 42 43 44 45 46 47 48 49 50 51|52]", a.String())
}

func TestNil(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	var p arena.Pointer[int]
	assert.True(p.Nil())
	assert.True(arena.Nil().Nil())

	var a arena.Arena[int]
	assert.Panics(func() { a.At(arena.Nil()) })
}

func TestValues(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	var a arena.Arena[string]
	a.New("x")
	a.New("y")
	a.New("z")
	assert.Equal(3, a.Len())

	var got []string
	for p, v := range a.Values {
		assert.Same(v, p.In(&a))
		got = append(got, *v)
	}
	assert.Equal([]string{"x", "y", "z"}, got)
}

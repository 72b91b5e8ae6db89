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

package interval_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/danielmercier/langkit/internal/interval"
)

func TestGet(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	var m interval.Map[int, string]
	assert.Nil(m.Get(0).Value)

	m.Insert(0, 3, "a")
	m.Insert(5, 5, "b")
	m.Insert(6, 9, "c")
	assert.Equal(3, m.Len())

	for i := range 4 {
		got := m.Get(i)
		assert.NotNil(got.Value)
		assert.Equal("a", *got.Value)
		assert.Equal(0, got.Start)
		assert.Equal(3, got.End)
	}

	assert.Nil(m.Get(4).Value)
	assert.Equal("b", *m.Get(5).Value)
	assert.Equal("c", *m.Get(6).Value)
	assert.Equal("c", *m.Get(9).Value)
	assert.Nil(m.Get(10).Value)
	assert.Nil(m.Get(-1).Value)
}

func TestInsertOverlap(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	var m interval.Map[int, string]
	assert.Nil(m.Insert(2, 6, "a").Value)

	// Every flavor of overlap reports the existing interval and inserts
	// nothing.
	for _, bounds := range [][2]int{{0, 2}, {3, 4}, {6, 9}, {0, 9}, {2, 6}} {
		overlap := m.Insert(bounds[0], bounds[1], "x")
		assert.NotNil(overlap.Value)
		assert.Equal("a", *overlap.Value)
		assert.Equal(1, m.Len())
	}

	assert.Nil(m.Insert(0, 1, "b").Value)
	assert.Nil(m.Insert(7, 8, "c").Value)

	var got []string
	for iv := range m.Intervals {
		got = append(got, *iv.Value)
	}
	assert.Equal([]string{"b", "a", "c"}, got)
}

func TestInsertBackwards(t *testing.T) {
	t.Parallel()

	var m interval.Map[int, int]
	assert.Panics(t, func() { m.Insert(1, 0, 42) })
}

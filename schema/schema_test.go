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

package schema_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielmercier/langkit/schema"
)

const calcSchema = `
language: calc
kinds:
  - name: DefList
    separator: "; "
  - name: Def
    slots: [name, value]
    template: [$name, "=", $value]
  - name: Identifier
    token: identifier
  - name: Number
    token: number
`

func TestLoad(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	s, err := schema.Load([]byte(calcSchema))
	require.NoError(t, err)

	assert.Equal("calc", s.Language())
	assert.Equal(4, s.Len())

	var names []string
	for kind := range s.Kinds() {
		names = append(names, kind.Name())
		assert.Equal(kind, s.Kind(kind.Index()))
		assert.Equal(kind, s.Lookup(kind.Name()))
	}
	assert.Equal([]string{"DefList", "Def", "Identifier", "Number"}, names)

	list := s.MustLookup("DefList")
	assert.Equal(schema.ShapeList, list.Shape())
	assert.Equal("; ", list.Separator())
	assert.Equal(0, list.NumSlots())
	assert.Equal("DefList", list.String())

	def := s.MustLookup("Def")
	assert.Equal(schema.ShapeFixed, def.Shape())
	assert.Equal(2, def.NumSlots())
	assert.Equal("name", def.Slot(0))
	assert.Equal("value", def.Slot(1))
	assert.Equal(1, def.SlotIndex("value"))
	assert.Equal(-1, def.SlotIndex("missing"))

	var pieces []string
	for piece := range def.Pieces() {
		if piece.IsSlot() {
			pieces = append(pieces, def.Slot(piece.Slot()))
		} else {
			pieces = append(pieces, "\""+piece.Literal()+"\"")
		}
	}
	assert.Equal([]string{"name", "\"=\"", "value"}, pieces)

	ident := s.MustLookup("Identifier")
	assert.Equal(schema.ShapeToken, ident.Shape())
	assert.Equal(schema.ClassIdentifier, ident.Class())

	assert.True(s.Lookup("Nope").IsZero())
	assert.Equal("<nil>", schema.Kind{}.String())
}

func TestLoadErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name, text, want string
	}{
		{"empty", ``, "empty input"},
		{"noLanguage", `kinds: [{name: X, token: punct}]`, "missing language name"},
		{"noKinds", `language: calc`, `language "calc" defines no kinds`},
		{"unnamed", `{language: calc, kinds: [{token: punct}]}`, "kind with no name"},
		{
			"duplicate",
			`{language: calc, kinds: [{name: X, token: punct}, {name: X, token: punct}]}`,
			`kind "X" defined multiple times`,
		},
		{
			"badClass",
			`{language: calc, kinds: [{name: X, token: vibes}]}`,
			`unknown token class "vibes"`,
		},
		{
			"mixed",
			`{language: calc, kinds: [{name: X, token: punct, separator: ","}]}`,
			`kind "X" mixes shapes`,
		},
		{"shapeless", `{language: calc, kinds: [{name: X}]}`, `kind "X" has no shape`},
		{
			"slotsOnly",
			`{language: calc, kinds: [{name: X, slots: [a]}]}`,
			`kind "X" has slots but no template`,
		},
		{
			"templateOnly",
			`{language: calc, kinds: [{name: X, template: ["y"]}]}`,
			`kind "X" has a template but no slots`,
		},
		{
			"dupSlot",
			`{language: calc, kinds: [{name: X, slots: [a, a], template: [$a, $a]}]}`,
			`kind "X" has two slots named "a"`,
		},
		{
			"unknownSlot",
			`{language: calc, kinds: [{name: X, slots: [a], template: [$b]}]}`,
			`references unknown slot "b"`,
		},
		{
			"slotTwice",
			`{language: calc, kinds: [{name: X, slots: [a], template: [$a, $a]}]}`,
			`renders slot "a" twice`,
		},
		{
			"slotNever",
			`{language: calc, kinds: [{name: X, slots: [a, b], template: [$a]}]}`,
			`never renders slot "b"`,
		},
		{
			"unknownField",
			`{language: calc, kinds: [{name: X, token: punct, color: red}]}`,
			"field color not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := schema.Load([]byte(tt.text))
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestDollarEscape(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	s, err := schema.Load([]byte(
		`{language: test, kinds: [{name: X, slots: [a], template: ["$$lit", $a]}]}`,
	))
	require.NoError(t, err)

	var pieces []schema.Piece
	for piece := range s.MustLookup("X").Pieces() {
		pieces = append(pieces, piece)
	}
	require.Len(t, pieces, 2)
	assert.Equal("$lit", pieces[0].Literal())
	assert.Equal(0, pieces[1].Slot())
}

func TestZeroKind(t *testing.T) {
	t.Parallel()

	var k schema.Kind
	assert.True(t, k.IsZero())
	assert.Panics(t, func() { k.Name() })
	assert.Panics(t, func() { k.Shape() })
}

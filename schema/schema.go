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

// Package schema provides the grammar schema data model: the node kinds of
// a language, their slot structure, and the concrete-syntax templates used
// to render synthesized nodes back into source text.
//
// Schemas are immutable once loaded; see [Load].
package schema

import (
	"fmt"
	"iter"
)

const (
	ShapeToken Shape = 1 + iota
	ShapeFixed
	ShapeList
)

// Shape discriminates the three structures a node kind can have: a leaf
// token carrying literal text, a fixed-arity node with named slots, or a
// uniform list of children.
type Shape int8

// String implements [fmt.Stringer].
func (s Shape) String() string {
	switch s {
	case ShapeToken:
		return "token"
	case ShapeFixed:
		return "fixed"
	case ShapeList:
		return "list"
	default:
		return fmt.Sprintf("Shape(%d)", int(s))
	}
}

const (
	ClassIdentifier TokenClass = 1 + iota
	ClassNumber
	ClassString
	ClassPunct
)

// TokenClass classifies the literal text a token kind may carry.
type TokenClass int8

// String implements [fmt.Stringer].
func (c TokenClass) String() string {
	switch c {
	case ClassIdentifier:
		return "identifier"
	case ClassNumber:
		return "number"
	case ClassString:
		return "string"
	case ClassPunct:
		return "punct"
	default:
		return fmt.Sprintf("TokenClass(%d)", int(c))
	}
}

// Schema is an immutable description of a language's node kinds.
type Schema struct {
	language string
	kinds    []kindSpec
	byName   map[string]uint32 // Values are 1-based indices into kinds.
}

type kindSpec struct {
	name  string
	shape Shape

	class     TokenClass // Token kinds.
	slots     []string   // Fixed kinds.
	template  []Piece    // Fixed kinds.
	separator string     // List kinds.
}

// Language returns the name of the language this schema describes.
func (s *Schema) Language() string {
	return s.language
}

// Len returns the number of kinds in this schema.
func (s *Schema) Len() int {
	return len(s.kinds)
}

// Kind returns the idx-th kind of this schema, in definition order.
//
// Panics if idx is out of range.
func (s *Schema) Kind(idx int) Kind {
	if idx < 0 || idx >= len(s.kinds) {
		panic(fmt.Sprintf("langkit/schema: kind index out of range: %d", idx))
	}
	return Kind{s, uint32(idx) + 1}
}

// Lookup finds a kind by name. Returns the zero Kind if the schema does not
// define name.
func (s *Schema) Lookup(name string) Kind {
	return Kind{s, s.byName[name]}
}

// MustLookup is like [Schema.Lookup], but panics if the kind does not exist.
func (s *Schema) MustLookup(name string) Kind {
	k := s.Lookup(name)
	if k.IsZero() {
		panic(fmt.Sprintf("langkit/schema: language %q defines no kind named %q", s.language, name))
	}
	return k
}

// Kinds returns an iterator over all kinds in this schema, in definition
// order.
func (s *Schema) Kinds() iter.Seq[Kind] {
	return func(yield func(Kind) bool) {
		for i := range s.kinds {
			if !yield(Kind{s, uint32(i) + 1}) {
				return
			}
		}
	}
}

// Kind is a node kind within a [Schema].
//
// The zero value is the nil kind, which has no properties; all of its
// accessors other than IsZero panic.
type Kind struct {
	schema *Schema
	raw    uint32 // 1-based index into schema.kinds.
}

// IsZero returns whether this is the nil kind.
func (k Kind) IsZero() bool {
	return k.raw == 0
}

// Schema returns the schema this kind belongs to.
func (k Kind) Schema() *Schema {
	return k.schema
}

// Index returns this kind's position within its schema, such that
// k.Schema().Kind(k.Index()) == k.
func (k Kind) Index() int {
	k.spec("Index")
	return int(k.raw - 1)
}

// Name returns this kind's name.
func (k Kind) Name() string {
	return k.spec("Name").name
}

// Shape returns this kind's shape.
func (k Kind) Shape() Shape {
	return k.spec("Shape").shape
}

// Class returns the token class of this kind.
//
// Panics if this is not a token kind.
func (k Kind) Class() TokenClass {
	spec := k.spec("Class")
	if spec.shape != ShapeToken {
		panic(fmt.Sprintf("langkit/schema: Class() called on %v kind %q", spec.shape, spec.name))
	}
	return spec.class
}

// NumSlots returns how many slots this kind has. Token and list kinds have
// none.
func (k Kind) NumSlots() int {
	return len(k.spec("NumSlots").slots)
}

// Slot returns the role name of the idx-th slot of this kind.
//
// Panics if idx is out of range.
func (k Kind) Slot(idx int) string {
	spec := k.spec("Slot")
	if idx < 0 || idx >= len(spec.slots) {
		panic(fmt.Sprintf("langkit/schema: kind %q has no slot %d", spec.name, idx))
	}
	return spec.slots[idx]
}

// SlotIndex finds a slot of this kind by role name. Returns -1 if there is
// no such slot.
func (k Kind) SlotIndex(role string) int {
	for i, slot := range k.spec("SlotIndex").slots {
		if slot == role {
			return i
		}
	}
	return -1
}

// Pieces returns an iterator over the concrete-syntax template of this
// kind.
//
// Panics if this is not a fixed kind.
func (k Kind) Pieces() iter.Seq[Piece] {
	spec := k.spec("Pieces")
	if spec.shape != ShapeFixed {
		panic(fmt.Sprintf("langkit/schema: Pieces() called on %v kind %q", spec.shape, spec.name))
	}
	return func(yield func(Piece) bool) {
		for _, p := range spec.template {
			if !yield(p) {
				return
			}
		}
	}
}

// Separator returns the text joining the children of this kind.
//
// Panics if this is not a list kind.
func (k Kind) Separator() string {
	spec := k.spec("Separator")
	if spec.shape != ShapeList {
		panic(fmt.Sprintf("langkit/schema: Separator() called on %v kind %q", spec.shape, spec.name))
	}
	return spec.separator
}

// String implements [fmt.Stringer].
func (k Kind) String() string {
	if k.IsZero() {
		return "<nil>"
	}
	return k.schema.kinds[k.raw-1].name
}

func (k Kind) spec(what string) *kindSpec {
	if k.IsZero() {
		panic(fmt.Sprintf("langkit/schema: %s() called on nil kind", what))
	}
	return &k.schema.kinds[k.raw-1]
}

// Piece is one element of a fixed kind's unparsing template: either a
// literal or a reference to one of the kind's slots.
type Piece struct {
	literal string
	slot    int32 // 1-based slot index; 0 for literal pieces.
}

// IsSlot returns whether this piece renders a slot.
func (p Piece) IsSlot() bool {
	return p.slot != 0
}

// Slot returns the index of the slot this piece renders.
//
// Panics if this is a literal piece.
func (p Piece) Slot() int {
	if p.slot == 0 {
		panic("langkit/schema: Slot() called on literal piece")
	}
	return int(p.slot - 1)
}

// Literal returns the text of this piece.
//
// Panics if this is a slot piece.
func (p Piece) Literal() string {
	if p.slot != 0 {
		panic("langkit/schema: Literal() called on slot piece")
	}
	return p.literal
}

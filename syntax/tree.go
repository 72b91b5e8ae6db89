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

// Package syntax provides immutable parse trees.
//
// A [Tree] is built once by a parser, through the Push/New methods, and then
// frozen. After freezing, a tree never changes; rewriting happens on handles
// that wrap its nodes, never on the tree itself.
package syntax

import (
	"fmt"
	"iter"
	"math"
	"slices"
	"sync"

	"github.com/danielmercier/langkit/internal/arena"
	"github.com/danielmercier/langkit/internal/interval"
	"github.com/danielmercier/langkit/report"
	"github.com/danielmercier/langkit/schema"
)

// Tree is the result of parsing one source file: its token stream and its
// nodes.
type Tree struct {
	schema *schema.Schema
	file   report.File
	index  *report.IndexedFile

	stream []tokenImpl
	nodes  arena.Arena[nodeImpl]
	root   arena.Pointer[nodeImpl]
	frozen bool

	lookupOnce sync.Once
	lookup     interval.Map[uint32, rawToken]
}

type tokenImpl struct {
	// The end of this token in the file. The start is the end of the
	// previous token in the stream.
	end  uint32
	kind TokenKind
}

type nodeImpl struct {
	kind    uint32 // 1-based index into the schema's kinds.
	token   rawToken
	offsets [2]uint32
	parent  arena.Pointer[nodeImpl]

	// Child nodes; nil pointers are empty slots. Fixed kinds have exactly
	// one entry per slot.
	children []arena.Pointer[nodeImpl]
}

// NewTree creates an empty, unfrozen tree for the given file.
func NewTree(s *schema.Schema, file report.File) *Tree {
	return &Tree{
		schema: s,
		file:   file,
		index:  report.NewIndexedFile(file),
	}
}

// Schema returns the schema of the language this tree was parsed with.
func (t *Tree) Schema() *schema.Schema {
	return t.schema
}

// File returns the source file this tree was parsed from.
func (t *Tree) File() report.File {
	return t.file
}

// Path returns the path of this tree's file.
func (t *Tree) Path() string {
	return t.file.Path
}

// Text returns the full text of this tree's file.
func (t *Tree) Text() string {
	return t.file.Text
}

// Span returns a span over the given byte offsets of this tree's file.
func (t *Tree) Span(start, end int) report.Span {
	return t.index.NewSpan(start, end)
}

// Frozen returns whether this tree has been frozen.
func (t *Tree) Frozen() bool {
	return t.frozen
}

// Root returns this tree's root node. The zero node if no root has been set.
func (t *Tree) Root() Node {
	return newNode(t, t.root)
}

// NumTokens returns the number of tokens in this tree.
func (t *Tree) NumTokens() int {
	return len(t.stream)
}

// Token returns the nth token in this tree.
func (t *Tree) Token(n int) Token {
	_ = t.stream[n]
	return rawToken(n + 1).with(t)
}

// Tokens returns an iterator over the tokens in this tree, in source order.
func (t *Tree) Tokens() iter.Seq[Token] {
	return func(yield func(Token) bool) {
		for i := range t.stream {
			if !yield(rawToken(i+1).with(t)) {
				return
			}
		}
	}
}

// PushToken mints the next token, covering the next length bytes of the
// input source.
//
// Panics if the tree is frozen, if length is not positive, or if the token
// would run past the end of the file.
func (t *Tree) PushToken(length int, kind TokenKind) Token {
	t.panicIfFrozen("PushToken")

	if length <= 0 || length > math.MaxInt32 {
		panic(fmt.Sprintf("langkit/syntax: PushToken() called with invalid length: %d", length))
	}

	end := int(t.end()) + length
	if end > len(t.file.Text) {
		panic(fmt.Sprintf("langkit/syntax: PushToken() ran past the end of %q: %d > %d", t.file.Path, end, len(t.file.Text)))
	}

	t.stream = append(t.stream, tokenImpl{end: uint32(end), kind: kind})
	return rawToken(len(t.stream)).with(t)
}

// NewTokenNode mints a node of a token kind, wrapping tok.
//
// Panics if the tree is frozen, if kind is not a token kind of this tree's
// schema, or if tok's kind does not satisfy kind's token class.
func (t *Tree) NewTokenNode(kind schema.Kind, tok Token) Node {
	t.panicIfFrozen("NewTokenNode")
	t.panicIfNotOurKind(kind)
	if tok.IsZero() || tok.tree != t {
		panic("langkit/syntax: NewTokenNode() called with a token from another tree")
	}
	if class, ok := tok.Kind().Class(); !ok || class != kind.Class() {
		panic(fmt.Sprintf("langkit/syntax: NewTokenNode() called with %v for %v kind %q", tok.Kind(), kind.Class(), kind.Name()))
	}

	start, end := tok.Offsets()
	return newNode(t, t.nodes.New(nodeImpl{
		kind:    uint32(kind.Index()) + 1,
		token:   tok.raw,
		offsets: [2]uint32{uint32(start), uint32(end)},
	}))
}

// NewNode mints a node of a fixed or list kind with the given children.
// A zero child leaves its slot empty.
//
// Children become owned by the new node. Panics if the tree is frozen, if
// kind is a token kind or has a different arity than children, or if any
// child is from another tree or already has a parent.
func (t *Tree) NewNode(kind schema.Kind, children []Node) Node {
	t.panicIfFrozen("NewNode")
	t.panicIfNotOurKind(kind)

	switch kind.Shape() {
	case schema.ShapeToken:
		panic(fmt.Sprintf("langkit/syntax: NewNode() called with token kind %q", kind.Name()))
	case schema.ShapeFixed:
		if len(children) != kind.NumSlots() {
			panic(fmt.Sprintf("langkit/syntax: NewNode() called with %d children for kind %q, which has %d slots", len(children), kind.Name(), kind.NumSlots()))
		}
	}

	impl := nodeImpl{
		kind:     uint32(kind.Index()) + 1,
		children: make([]arena.Pointer[nodeImpl], len(children)),
	}

	// The node's extent is the join of its children's. Childless nodes sit
	// at wherever the token stream currently ends.
	impl.offsets = [2]uint32{t.end(), t.end()}
	first := true
	for i, child := range children {
		if child.IsZero() {
			continue
		}
		if child.tree != t {
			panic(fmt.Sprintf("langkit/syntax: attempt to mix different trees: %p(%q) and %p(%q)", t, t.Path(), child.tree, child.tree.Path()))
		}
		if !child.impl().parent.Nil() {
			panic(fmt.Sprintf("langkit/syntax: NewNode() called with child %v, which already has a parent", child))
		}
		impl.children[i] = child.raw
		if first {
			impl.offsets = child.impl().offsets
			first = false
		} else {
			impl.offsets[0] = min(impl.offsets[0], child.impl().offsets[0])
			impl.offsets[1] = max(impl.offsets[1], child.impl().offsets[1])
		}
	}

	ptr := t.nodes.New(impl)
	for _, child := range impl.children {
		if !child.Nil() {
			t.nodes.At(child.Untyped()).parent = ptr
		}
	}
	return newNode(t, ptr)
}

// Widen grows node's extent to cover tok. Parsers use this to charge
// delimiter tokens that are not children of any node, such as parentheses,
// to the node they delimit.
//
// Panics if the tree is frozen, if node or tok is zero or from another
// tree, or if node already has a parent, whose extent the growth could
// escape.
func (t *Tree) Widen(node Node, tok Token) {
	t.panicIfFrozen("Widen")
	if node.IsZero() || node.tree != t {
		panic("langkit/syntax: Widen() called with a node from another tree")
	}
	if tok.IsZero() || tok.tree != t {
		panic("langkit/syntax: Widen() called with a token from another tree")
	}
	if !node.impl().parent.Nil() {
		panic(fmt.Sprintf("langkit/syntax: Widen() called on %v, which already has a parent", node))
	}

	start, end := tok.Offsets()
	impl := node.impl()
	impl.offsets[0] = min(impl.offsets[0], uint32(start))
	impl.offsets[1] = max(impl.offsets[1], uint32(end))
}

// SetRoot installs the root of this tree and widens its extent to the whole
// file, so that trivia before and after the outermost syntax still belongs
// to some node.
//
// Panics if the tree is frozen, already has a root, or if root is zero,
// from another tree, or already has a parent.
func (t *Tree) SetRoot(root Node) {
	t.panicIfFrozen("SetRoot")
	if !t.root.Nil() {
		panic("langkit/syntax: SetRoot() called twice")
	}
	if root.IsZero() || root.tree != t {
		panic("langkit/syntax: SetRoot() called with a node from another tree")
	}
	if !root.impl().parent.Nil() {
		panic(fmt.Sprintf("langkit/syntax: SetRoot() called with %v, which already has a parent", root))
	}

	root.impl().offsets = [2]uint32{0, uint32(len(t.file.Text))}
	t.root = root.raw
}

// Freeze makes this tree immutable. All builder methods panic from here on.
//
// Panics if the token stream does not cover the whole file; lexers must
// tokenize every byte, unrecognized ones included.
func (t *Tree) Freeze() {
	if int(t.end()) != len(t.file.Text) {
		panic(fmt.Sprintf("langkit/syntax: Freeze() called with %d of %d bytes tokenized", t.end(), len(t.file.Text)))
	}
	t.frozen = true
}

// TokenAt returns the token containing the given byte offset, or the zero
// token if offset is out of bounds.
//
// Panics if the tree is not frozen yet.
func (t *Tree) TokenAt(offset int) Token {
	t.panicIfNotFrozen("TokenAt")

	if offset < 0 || offset >= len(t.file.Text) {
		return Token{}
	}

	t.lookupOnce.Do(func() {
		var start uint32
		for i, tok := range t.stream {
			t.lookup.Insert(start, tok.end-1, rawToken(i+1))
			start = tok.end
		}
	})

	found := t.lookup.Get(uint32(offset))
	if found.Value == nil {
		return Token{}
	}
	return found.Value.with(t)
}

// NodeAt returns the innermost node whose extent contains the given byte
// offset, or the zero node if offset is out of bounds.
//
// Panics if the tree is not frozen yet.
func (t *Tree) NodeAt(offset int) Node {
	t.panicIfNotFrozen("NodeAt")

	node := t.Root()
	if node.IsZero() || offset < 0 || offset >= len(t.file.Text) {
		return Node{}
	}

descend:
	for {
		for child := range node.Children() {
			if child.IsZero() {
				continue
			}
			if start, end := child.Offsets(); offset >= start && offset < end {
				node = child
				continue descend
			}
		}
		return node
	}
}

// end returns how many bytes of the file have been tokenized so far.
func (t *Tree) end() uint32 {
	if len(t.stream) == 0 {
		return 0
	}
	return t.stream[len(t.stream)-1].end
}

func (t *Tree) panicIfFrozen(what string) {
	if t.frozen {
		panic(fmt.Sprintf("langkit/syntax: %s() called on frozen tree for %q", what, t.file.Path))
	}
}

func (t *Tree) panicIfNotFrozen(what string) {
	if !t.frozen {
		panic(fmt.Sprintf("langkit/syntax: %s() called before Freeze()", what))
	}
}

func (t *Tree) panicIfNotOurKind(kind schema.Kind) {
	if kind.IsZero() || kind.Schema() != t.schema {
		panic(fmt.Sprintf("langkit/syntax: kind %v is not part of this tree's schema", kind))
	}
}

// childIndex returns the position of ptr among parent's children.
func (t *Tree) childIndex(parent, ptr arena.Pointer[nodeImpl]) int {
	return slices.Index(t.nodes.At(parent.Untyped()).children, ptr)
}

// withTree is an embeddable type that ties a value to the tree that owns
// it.
type withTree struct {
	tree *Tree
}

// Tree returns the tree this value belongs to. Nil for the zero value.
func (w withTree) Tree() *Tree {
	return w.tree
}

// IsZero returns whether this is the type's zero value.
func (w withTree) IsZero() bool {
	return w.tree == nil
}

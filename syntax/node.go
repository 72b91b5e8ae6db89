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

package syntax

import (
	"fmt"
	"iter"

	"github.com/danielmercier/langkit/internal/arena"
	"github.com/danielmercier/langkit/report"
	"github.com/danielmercier/langkit/schema"
)

// Node is a single node of a parse tree.
//
// The zero value of Node is the nil node, which is used to denote the
// absence of a node, such as an empty slot of a fixed-arity parent.
type Node struct {
	withTree

	raw arena.Pointer[nodeImpl]
}

func newNode(tree *Tree, ptr arena.Pointer[nodeImpl]) Node {
	if ptr.Nil() {
		return Node{}
	}
	return Node{withTree{tree}, ptr}
}

// Kind returns this node's kind. The zero kind for the zero node.
func (n Node) Kind() schema.Kind {
	if n.IsZero() {
		return schema.Kind{}
	}
	return n.tree.schema.Kind(int(n.impl().kind) - 1)
}

// IsToken returns whether this node is a leaf wrapping a single token.
func (n Node) IsToken() bool {
	return !n.IsZero() && n.impl().token != 0
}

// Token returns the token a token node wraps.
//
// Panics if this is not a token node.
func (n Node) Token() Token {
	if !n.IsToken() {
		panic(fmt.Sprintf("langkit/syntax: Token() called on non-token node %v", n))
	}
	return n.impl().token.with(n.tree)
}

// Text returns the source text of a token node.
//
// Panics if this is not a token node.
func (n Node) Text() string {
	if !n.IsToken() {
		panic(fmt.Sprintf("langkit/syntax: Text() called on non-token node %v", n))
	}
	return n.Token().Text()
}

// NumChildren returns how many children this node has, counting empty
// slots. Zero for token nodes and the zero node.
func (n Node) NumChildren() int {
	if n.IsZero() {
		return 0
	}
	return len(n.impl().children)
}

// Child returns the idx-th child of this node. The zero node for an empty
// slot.
//
// Panics if idx is out of range.
func (n Node) Child(idx int) Node {
	if n.IsZero() {
		panic("langkit/syntax: Child() called on zero node")
	}
	impl := n.impl()
	if idx < 0 || idx >= len(impl.children) {
		panic(fmt.Sprintf("langkit/syntax: Child() index out of range: %d of %d", idx, len(impl.children)))
	}
	return newNode(n.tree, impl.children[idx])
}

// Children returns an iterator over this node's children, empty slots
// included (as zero nodes).
func (n Node) Children() iter.Seq[Node] {
	return func(yield func(Node) bool) {
		for i := range n.NumChildren() {
			if !yield(n.Child(i)) {
				return
			}
		}
	}
}

// Parent returns the node this node is a child of. The zero node for the
// root and for detached nodes.
func (n Node) Parent() Node {
	if n.IsZero() {
		return Node{}
	}
	return newNode(n.tree, n.impl().parent)
}

// ChildIndex returns this node's position among its parent's children, or
// -1 if it has no parent.
func (n Node) ChildIndex() int {
	if n.IsZero() || n.impl().parent.Nil() {
		return -1
	}
	return n.tree.childIndex(n.impl().parent, n.raw)
}

// Offsets returns the byte extent of this node within its file. The extent
// covers the node's first to last token; the root's extent is the whole
// file.
func (n Node) Offsets() (start, end int) {
	if n.IsZero() {
		panic("langkit/syntax: Offsets() called on zero node")
	}
	offsets := n.impl().offsets
	return int(offsets[0]), int(offsets[1])
}

// Span returns this node's location in its file.
func (n Node) Span() report.Span {
	start, end := n.Offsets()
	return n.tree.index.NewSpan(start, end)
}

// String implements [fmt.Stringer].
func (n Node) String() string {
	if n.IsZero() {
		return "Node(<nil>)"
	}
	if n.IsToken() {
		return fmt.Sprintf("%v(%q)", n.Kind(), n.Text())
	}
	return fmt.Sprintf("%v(%d children)", n.Kind(), n.NumChildren())
}

func (n Node) impl() *nodeImpl {
	return n.tree.nodes.At(n.raw.Untyped())
}

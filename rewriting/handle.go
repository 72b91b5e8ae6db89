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

package rewriting

import (
	"fmt"
	"iter"

	"github.com/danielmercier/langkit/internal/arena"
	"github.com/danielmercier/langkit/schema"
	"github.com/danielmercier/langkit/syntax"
)

// Handle is a mutable stand-in for a tree node inside a [Session].
//
// A handle either wraps a node of the unit's frozen tree or is
// synthetic, minted by [Session.CreateToken] or
// [Session.CreateStructured]. Handles are cheap values; passing one
// around does not copy the subtree under it.
//
// The zero Handle denotes an empty slot. It may be passed to
// [Handle.SetChild] and [Handle.InsertChild]; all other methods panic
// on it, except [Handle.IsZero] and [Handle.String].
//
// Read accessors panic when called after the session has ended,
// mirroring the mutators' [ErrSessionEnded].
type Handle struct {
	session *Session
	raw     arena.Pointer[handleImpl]
}

// IsZero returns whether this is the zero handle.
func (h Handle) IsZero() bool { return h.session == nil }

// Session returns the session this handle belongs to, or nil for the
// zero handle.
func (h Handle) Session() *Session { return h.session }

// Kind returns the kind of the node this handle stands for.
func (h Handle) Kind() schema.Kind {
	return h.check("Kind").kind
}

// IsToken returns whether this handle stands for a token node.
func (h Handle) IsToken() bool {
	return h.check("IsToken").kind.Shape() == schema.ShapeToken
}

// Node returns the node this handle wraps, or the zero node for a
// synthetic handle.
func (h Handle) Node() syntax.Node {
	return h.check("Node").node
}

// Text returns the text of a token handle. Panics if this handle is
// not of a token kind.
func (h Handle) Text() string {
	impl := h.check("Text")
	if impl.kind.Shape() != schema.ShapeToken {
		panic(fmt.Sprintf("langkit/rewriting: Text() called on %v handle", impl.kind))
	}
	if impl.wrapping() {
		return impl.node.Text()
	}
	return impl.text
}

// Tied returns whether this handle currently occupies a slot of some
// parent handle.
func (h Handle) Tied() bool {
	return h.check("Tied").tied()
}

// Parent returns the handle whose slot this handle occupies, and the
// slot's index. Returns the zero handle and -1 if this handle is
// untied.
func (h Handle) Parent() (Handle, int) {
	impl := h.check("Parent")
	if !impl.tied() {
		return Handle{}, -1
	}
	return Handle{h.session, impl.parent}, impl.slot
}

// NumChildren returns the number of slots this handle currently has.
// For a fixed kind this never changes; for a list kind it grows and
// shrinks with [Handle.InsertChild] and [Handle.RemoveChild].
func (h Handle) NumChildren() int {
	impl := h.check("NumChildren")
	if impl.expanded {
		return len(impl.children)
	}
	return impl.node.NumChildren()
}

// Child returns the handle occupying the idx-th slot, or the zero
// handle if the slot is empty.
//
// For a wrapping handle this materializes child handles on first use;
// that is not an edit.
func (h Handle) Child(idx int) Handle {
	impl := h.check("Child")
	if !impl.expanded {
		h.session.expand(h.raw)
	}
	if idx < 0 || idx >= len(impl.children) {
		panic(fmt.Sprintf("langkit/rewriting: Child() index %d out of bounds for %v with %d slots", idx, impl.kind, len(impl.children)))
	}

	ptr := impl.children[idx]
	if ptr.Nil() {
		return Handle{}
	}
	return Handle{h.session, ptr}
}

// Children returns an iterator over this handle's slots, in order.
// Empty slots yield the zero handle.
func (h Handle) Children() iter.Seq[Handle] {
	h.check("Children")
	return func(yield func(Handle) bool) {
		for i := range h.NumChildren() {
			if !yield(h.Child(i)) {
				return
			}
		}
	}
}

// String implements [fmt.Stringer]. It never panics, so handles can be
// formatted in error paths.
func (h Handle) String() string {
	if h.IsZero() {
		return "Handle(<nil>)"
	}

	impl := h.impl()
	switch {
	case impl.kind.Shape() == schema.ShapeToken && impl.wrapping():
		return fmt.Sprintf("%v(%q)", impl.kind, impl.node.Text())
	case impl.kind.Shape() == schema.ShapeToken:
		return fmt.Sprintf("%v(%q)", impl.kind, impl.text)
	case impl.wrapping():
		return fmt.Sprintf("%v(wrapping)", impl.kind)
	default:
		return fmt.Sprintf("%v(synthetic)", impl.kind)
	}
}

func (h Handle) impl() *handleImpl {
	return h.raw.In(&h.session.handles)
}

// check is the prologue of every read accessor: it panics on the zero
// handle and on handles of an ended session.
func (h Handle) check(what string) *handleImpl {
	if h.session == nil {
		panic(fmt.Sprintf("langkit/rewriting: %s() called on zero handle", what))
	}
	h.session.panicIfEnded(what)
	return h.impl()
}

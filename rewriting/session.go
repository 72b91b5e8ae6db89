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
	"slices"

	"github.com/danielmercier/langkit"
	"github.com/danielmercier/langkit/internal/arena"
	"github.com/danielmercier/langkit/schema"
	"github.com/danielmercier/langkit/syntax"
)

// State is the lifecycle state of a [Session].
type State int8

const (
	// Open is the state of a session whose edits are still in progress.
	Open State = 1 + iota
	// Applied is the state of a session ended by a successful
	// [Session.Apply].
	Applied
	// Aborted is the state of a session ended by [Session.Abort].
	Aborted
)

// String implements [fmt.Stringer].
func (s State) String() string {
	switch s {
	case Open:
		return "open"
	case Applied:
		return "applied"
	case Aborted:
		return "aborted"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Session is an in-progress rewrite of a [langkit.Unit]'s parse tree.
//
// A session shadows the unit's frozen tree with mutable handles: every
// node of the tree is represented by at most one wrapping handle,
// created on demand, and new subtrees are built out of synthetic
// handles minted by [Session.CreateToken] and [Session.CreateStructured].
// Edits rearrange handles without touching the unit; [Session.Apply]
// renders the edited tree to text and reparses it as a fresh unit.
//
// At most one session may be open per [langkit.Context] at a time, and
// a session's handles must not be used from multiple goroutines
// without external synchronization.
type Session struct {
	unit  *langkit.Unit
	state State

	// All handles minted by this session. Handles are never freed
	// before the session ends; a detached handle may always be
	// reattached later.
	handles arena.Arena[handleImpl]

	// Memoized wrapping handles, so that each node of the unit's tree
	// maps to exactly one handle.
	wrapped map[syntax.Node]arena.Pointer[handleImpl]
}

// handleImpl is the session-side record backing a [Handle].
type handleImpl struct {
	kind schema.Kind

	// The node this handle wraps. Zero for synthetic handles. Clones
	// keep the link of the handle they were cloned from, so that their
	// untouched subtrees still unparse verbatim.
	node syntax.Node

	// The text of a synthetic token handle. Wrapping token handles
	// read their text off of node instead.
	text string

	// Child handles by slot; nil entries are empty slots. Only valid
	// once expanded is set. Expansion happens lazily because most
	// sessions only ever look at a small part of the tree.
	children []arena.Pointer[handleImpl]
	expanded bool

	// Whether this handle's lazily expanded children become the
	// memoized handles for the nodes they wrap. True for handles
	// reached from the unit's tree, false inside clones.
	memoized bool

	// The tie, if any. An untied handle has a nil parent; the slot is
	// meaningless then.
	parent arena.Pointer[handleImpl]
	slot   int

	// Set once this handle, or any handle below it at the time, has
	// been edited. A wrapping handle with this bit clear still renders
	// as its original source text.
	modified bool
}

func (h *handleImpl) tied() bool { return !h.parent.Nil() }

func (h *handleImpl) wrapping() bool { return !h.node.IsZero() }

// Start opens a rewriting session on unit.
//
// Returns [ErrAlreadyEditing] if another session is already open on
// any unit of the same context. The session must be ended by exactly
// one call to [Session.Apply] or [Session.Abort] before another one
// can be started.
func Start(unit *langkit.Unit) (*Session, error) {
	if unit == nil {
		panic("langkit/rewriting: Start() called with a nil unit")
	}
	if !unit.Context().BeginEdit() {
		return nil, ErrAlreadyEditing
	}

	return &Session{
		unit:    unit,
		state:   Open,
		wrapped: map[syntax.Node]arena.Pointer[handleImpl]{},
	}, nil
}

// Unit returns the unit this session is editing.
func (s *Session) Unit() *langkit.Unit { return s.unit }

// State returns the session's lifecycle state.
func (s *Session) State() State { return s.state }

// Root returns the handle wrapping the root of the unit's tree.
//
// The root handle is never tied: it has no parent, and it cannot be
// attached below another handle.
func (s *Session) Root() Handle {
	s.panicIfEnded("Root")
	return s.wrap(s.unit.Root())
}

// Handle returns the handle wrapping node, which must belong to this
// session's unit.
//
// Handles are memoized: calling this twice with the same node returns
// the same handle, as does navigating to it with [Handle.Child]. The
// handles between node and the root are materialized as a side effect,
// but nothing is marked as modified by this.
func (s *Session) Handle(node syntax.Node) (Handle, error) {
	if err := s.errIfEnded(); err != nil {
		return Handle{}, err
	}
	if node.IsZero() || node.Tree() != s.unit.Tree() {
		panic("langkit/rewriting: Handle() called with a node from another unit")
	}
	return s.wrap(node), nil
}

// wrap returns the memoized wrapping handle for node, materializing
// the chain of handles between it and the root as needed.
func (s *Session) wrap(node syntax.Node) Handle {
	if ptr, ok := s.wrapped[node]; ok {
		return Handle{s, ptr}
	}

	if parent := node.Parent(); !parent.IsZero() {
		// Expanding the parent mints memoized handles for all of its
		// children, node included.
		s.expand(s.wrap(parent).raw)
		return Handle{s, s.wrapped[node]}
	}

	if node != s.unit.Root() {
		panic("langkit/rewriting: Handle() called with a node that is not part of the unit's tree")
	}
	ptr := s.handles.New(handleImpl{
		kind:     node.Kind(),
		node:     node,
		memoized: true,
	})
	s.wrapped[node] = ptr
	return Handle{s, ptr}
}

// expand materializes child handles for every child of ptr, which must
// be a wrapping handle. Expanding is not an edit: the children mirror
// what the wrapped node already had.
func (s *Session) expand(ptr arena.Pointer[handleImpl]) {
	impl := ptr.In(&s.handles)
	if impl.expanded {
		return
	}

	node := impl.node
	impl.children = make([]arena.Pointer[handleImpl], node.NumChildren())
	for i := range node.NumChildren() {
		child := node.Child(i)
		if child.IsZero() {
			continue // Empty slot.
		}

		cp := s.handles.New(handleImpl{
			kind:     child.Kind(),
			node:     child,
			memoized: impl.memoized,
			parent:   ptr,
			slot:     i,
		})
		impl.children[i] = cp
		if impl.memoized {
			s.wrapped[child] = cp
		}
	}
	impl.expanded = true
}

// CreateToken mints a new untied token handle of the given kind.
//
// Returns [ErrSchema] if kind is not a token kind, and
// [ErrTokenMismatch] if text does not lex as exactly one token of the
// kind's class under the unit's language.
func (s *Session) CreateToken(kind schema.Kind, text string) (Handle, error) {
	if err := s.errIfEnded(); err != nil {
		return Handle{}, err
	}
	s.panicIfNotOurKind("CreateToken", kind)

	if kind.Shape() != schema.ShapeToken {
		return Handle{}, fmt.Errorf("%w: kind %v is not a token kind", ErrSchema, kind)
	}
	lang := s.unit.Context().Language()
	if err := lang.LexToken(kind.Class(), text); err != nil {
		return Handle{}, fmt.Errorf("%w: %v", ErrTokenMismatch, err)
	}

	return Handle{s, s.handles.New(handleImpl{
		kind:     kind,
		text:     text,
		expanded: true,
	})}, nil
}

// CreateStructured mints a new untied handle of the given non-token
// kind with the given children. A zero handle among the children
// leaves that slot empty.
//
// For a fixed kind, children must supply exactly one handle per slot;
// a list kind accepts any number. Every non-zero child must be untied
// and distinct; they all become tied to the new handle. Returns
// [ErrSchema] or [ErrAlreadyTied] without tying anything otherwise.
func (s *Session) CreateStructured(kind schema.Kind, children []Handle) (Handle, error) {
	if err := s.errIfEnded(); err != nil {
		return Handle{}, err
	}
	s.panicIfNotOurKind("CreateStructured", kind)
	s.panicIfNotOurs("CreateStructured", children...)

	switch kind.Shape() {
	case schema.ShapeToken:
		return Handle{}, fmt.Errorf("%w: token kind %v takes text, not children", ErrSchema, kind)
	case schema.ShapeFixed:
		if len(children) != kind.NumSlots() {
			return Handle{}, fmt.Errorf(
				"%w: kind %v has %d slots, got %d children",
				ErrSchema, kind, kind.NumSlots(), len(children))
		}
	}

	// Check every child before tying any of them.
	for i, child := range children {
		if child.IsZero() {
			continue
		}
		if child.impl().tied() {
			return Handle{}, fmt.Errorf("%w: child %d (%v)", ErrAlreadyTied, i, child)
		}
		if slices.Contains(children[:i], child) {
			return Handle{}, fmt.Errorf("%w: child %d (%v) appears more than once", ErrAlreadyTied, i, child)
		}
	}

	impl := handleImpl{
		kind:     kind,
		children: make([]arena.Pointer[handleImpl], len(children)),
		expanded: true,
	}
	for i, child := range children {
		if !child.IsZero() {
			impl.children[i] = child.raw
		}
	}
	ptr := s.handles.New(impl)
	for i, child := range children {
		if child.IsZero() {
			continue
		}
		c := child.impl()
		c.parent = ptr
		c.slot = i
	}
	return Handle{s, ptr}, nil
}

// Clone deep-copies the subtree rooted at h into fresh handles. The
// copy is untied, even if h is tied; h may belong to the unit's tree
// or to a detached subtree.
//
// Cloned wrapping handles keep their link to the original node, so
// untouched parts of the copy still unparse as the original source
// text. The copies are not memoized: navigating the unit's tree never
// yields a clone.
func (s *Session) Clone(h Handle) (Handle, error) {
	if err := s.errIfEnded(); err != nil {
		return Handle{}, err
	}
	s.panicIfNotOurs("Clone", h)
	if h.IsZero() {
		panic("langkit/rewriting: Clone() called on zero handle")
	}
	return Handle{s, s.clone(h.raw)}, nil
}

func (s *Session) clone(ptr arena.Pointer[handleImpl]) arena.Pointer[handleImpl] {
	impl := *ptr.In(&s.handles)
	impl.parent = 0
	impl.slot = 0
	impl.memoized = false
	impl.children = slices.Clone(impl.children)

	np := s.handles.New(impl)
	for i, child := range impl.children {
		if child.Nil() {
			continue
		}
		cp := s.clone(child)
		c := cp.In(&s.handles)
		c.parent = np
		c.slot = i
		np.In(&s.handles).children[i] = cp
	}
	return np
}

// Abort ends the session and discards all of its edits. The unit is
// untouched. Aborting an already-ended session has no effect.
func (s *Session) Abort() {
	if s.state != Open {
		return
	}
	s.state = Aborted
	s.unit.Context().EndEdit()
}

func (s *Session) errIfEnded() error {
	if s.state != Open {
		return ErrSessionEnded
	}
	return nil
}

func (s *Session) panicIfEnded(what string) {
	if s.state != Open {
		panic(fmt.Sprintf("langkit/rewriting: %s() called on %v session", what, s.state))
	}
}

func (s *Session) panicIfNotOurs(what string, handles ...Handle) {
	for _, h := range handles {
		if h.session != nil && h.session != s {
			panic(fmt.Sprintf("langkit/rewriting: %s() called with a handle from another session", what))
		}
	}
}

func (s *Session) panicIfNotOurKind(what string, kind schema.Kind) {
	if kind.IsZero() || kind.Schema() != s.unit.Tree().Schema() {
		panic(fmt.Sprintf("langkit/rewriting: %s() called with kind %v, which is not part of this unit's schema", what, kind))
	}
}

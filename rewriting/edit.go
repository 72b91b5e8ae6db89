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

	"github.com/danielmercier/langkit/internal/arena"
	"github.com/danielmercier/langkit/schema"
)

// The mutators below all follow the same rule: validate everything,
// then write everything. A call that returns an error has not changed
// any observable state.

// SetChild places child in the idx-th slot of this handle, replacing
// and untying whatever occupied it. A zero child empties the slot.
//
// For a fixed kind, idx must name one of its slots. For a list kind,
// idx may also be one past the last slot, which appends a new one.
// The child must be untied and must not contain this handle in its
// subtree; otherwise [ErrAlreadyTied] or [ErrCycle] is returned and
// nothing changes.
func (h Handle) SetChild(idx int, child Handle) error {
	impl, err := h.editable("SetChild")
	if err != nil {
		return err
	}
	h.session.panicIfNotOurs("SetChild", child)

	isList := impl.kind.Shape() == schema.ShapeList
	switch {
	case idx < 0 || idx > len(impl.children),
		idx == len(impl.children) && !isList:
		return fmt.Errorf("%w: kind %v has no slot %d", ErrSchema, impl.kind, idx)
	}
	if err := h.session.checkAttachable(h, child); err != nil {
		return err
	}

	if idx == len(impl.children) {
		impl.children = append(impl.children, 0)
	}
	h.untieOccupant(impl, idx)
	if child.IsZero() {
		impl.children[idx] = 0
	} else {
		impl.children[idx] = child.raw
		c := child.impl()
		c.parent = h.raw
		c.slot = idx
	}
	h.session.markModified(h.raw)
	return nil
}

// InsertChild inserts child as a new idx-th slot of this list handle,
// shifting later slots up. idx may be anywhere from 0 to the current
// number of slots. A zero child inserts an empty slot.
//
// Returns [ErrSchema] if this handle's kind is not a list kind, and
// [ErrAlreadyTied] or [ErrCycle] under the same conditions as
// [Handle.SetChild].
func (h Handle) InsertChild(idx int, child Handle) error {
	impl, err := h.editable("InsertChild")
	if err != nil {
		return err
	}
	h.session.panicIfNotOurs("InsertChild", child)

	if impl.kind.Shape() != schema.ShapeList {
		return fmt.Errorf("%w: cannot insert into non-list kind %v", ErrSchema, impl.kind)
	}
	if idx < 0 || idx > len(impl.children) {
		return fmt.Errorf("%w: index %d out of bounds for list of %d", ErrSchema, idx, len(impl.children))
	}
	if err := h.session.checkAttachable(h, child); err != nil {
		return err
	}

	impl.children = slices.Insert(impl.children, idx, child.raw)
	h.reslot(impl, idx+1)
	if !child.IsZero() {
		c := child.impl()
		c.parent = h.raw
		c.slot = idx
	}
	h.session.markModified(h.raw)
	return nil
}

// RemoveChild removes the idx-th slot of this list handle entirely,
// untying its occupant and shifting later slots down.
//
// Returns [ErrSchema] if this handle's kind is not a list kind or idx
// does not name a slot.
func (h Handle) RemoveChild(idx int) error {
	impl, err := h.editable("RemoveChild")
	if err != nil {
		return err
	}

	if impl.kind.Shape() != schema.ShapeList {
		return fmt.Errorf("%w: cannot remove from non-list kind %v", ErrSchema, impl.kind)
	}
	if idx < 0 || idx >= len(impl.children) {
		return fmt.Errorf("%w: index %d out of bounds for list of %d", ErrSchema, idx, len(impl.children))
	}

	h.untieOccupant(impl, idx)
	impl.children = slices.Delete(impl.children, idx, idx+1)
	h.reslot(impl, idx)
	h.session.markModified(h.raw)
	return nil
}

// editable is the prologue of every mutator: the handle must not be
// zero, the session must be open, the kind must have children at all,
// and a wrapping handle must have its children materialized before
// they can be rearranged.
func (h Handle) editable(what string) (*handleImpl, error) {
	if h.session == nil {
		panic(fmt.Sprintf("langkit/rewriting: %s() called on zero handle", what))
	}
	if err := h.session.errIfEnded(); err != nil {
		return nil, err
	}

	impl := h.impl()
	if impl.kind.Shape() == schema.ShapeToken {
		return nil, fmt.Errorf("%w: token kind %v has no children", ErrSchema, impl.kind)
	}
	if !impl.expanded {
		h.session.expand(h.raw)
	}
	return impl, nil
}

// checkAttachable verifies that child may be tied into a slot of
// parent: it must be untied, it must not be the session's root handle,
// and parent must not be inside its subtree.
func (s *Session) checkAttachable(parent, child Handle) error {
	if child.IsZero() {
		return nil
	}
	if child.impl().tied() {
		return fmt.Errorf("%w: %v", ErrAlreadyTied, child)
	}
	if root, ok := s.wrapped[s.unit.Root()]; ok && child.raw == root {
		return fmt.Errorf("%w: the root handle cannot be adopted", ErrCycle)
	}

	// Every handle is tied to at most one parent, so walking up from
	// parent visits exactly the handles whose subtrees contain it. The
	// walk starts at parent itself to also reject self-adoption.
	for p := parent.raw; !p.Nil(); p = p.In(&s.handles).parent {
		if p == child.raw {
			return fmt.Errorf("%w: %v is inside the subtree it would adopt", ErrCycle, parent)
		}
	}
	return nil
}

// untieOccupant unties whatever occupies the idx-th slot of impl.
func (h Handle) untieOccupant(impl *handleImpl, idx int) {
	if old := impl.children[idx]; !old.Nil() {
		o := old.In(&h.session.handles)
		o.parent = 0
		o.slot = 0
	}
}

// reslot rewrites the slot bookkeeping of impl's children from
// position idx on, after an insertion or removal shifted them.
func (h Handle) reslot(impl *handleImpl, idx int) {
	for i := idx; i < len(impl.children); i++ {
		if c := impl.children[i]; !c.Nil() {
			c.In(&h.session.handles).slot = i
		}
	}
}

// markModified marks ptr and every handle above it as edited. A
// handle that is already marked implies its ancestors are too.
func (s *Session) markModified(ptr arena.Pointer[handleImpl]) {
	for !ptr.Nil() {
		impl := ptr.In(&s.handles)
		if impl.modified {
			return
		}
		impl.modified = true
		ptr = impl.parent
	}
}

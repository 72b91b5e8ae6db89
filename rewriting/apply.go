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
	"strings"

	"github.com/danielmercier/langkit"
	"github.com/danielmercier/langkit/internal/arena"
	"github.com/danielmercier/langkit/report"
	"github.com/danielmercier/langkit/schema"
)

// Apply renders the edited tree to text, reparses it, and registers
// the result as the current unit for the path, which it returns along
// with any diagnostics the reparse produced.
//
// Apply ends the session even if the new text parses with errors; the
// diagnostics describe them, and the unit holds whatever tree the
// parser recovered. Only an [*InconsistencyError], which reports
// corrupt session bookkeeping rather than a failed parse, leaves the
// session open.
//
// A session with no edits applies to byte-identical text.
func (s *Session) Apply() (*langkit.Unit, report.Report, error) {
	if err := s.errIfEnded(); err != nil {
		return nil, nil, err
	}

	if err := s.verify(); err != nil {
		return nil, nil, err
	}

	var out strings.Builder
	s.unparse(s.Root().raw, &out)

	unit := s.unit.Context().UnitFromBuffer(s.unit.Path(), out.String())
	s.state = Applied
	s.unit.Context().EndEdit()
	return unit, unit.Diagnostics(), nil
}

// verify checks the session's bookkeeping before unparsing: ties must
// be mutually consistent, expanded fixed handles must have their full
// complement of slots, and no handle may be reachable twice from the
// root. None of these can be violated through this package's API; a
// failure means a bug in the package itself.
func (s *Session) verify() error {
	var err error
	s.handles.Values(func(ptr arena.Pointer[handleImpl], impl *handleImpl) bool {
		err = s.verifyHandle(ptr, impl)
		return err == nil
	})
	if err != nil {
		return err
	}

	root, ok := s.wrapped[s.unit.Root()]
	if !ok {
		// The root handle was never materialized, so there is nothing
		// reachable to check.
		return nil
	}
	seen := make(map[arena.Pointer[handleImpl]]bool, s.handles.Len())
	return s.verifyReachable(root, seen)
}

func (s *Session) verifyHandle(ptr arena.Pointer[handleImpl], impl *handleImpl) error {
	if impl.tied() {
		parent := impl.parent.In(&s.handles)
		if !parent.expanded || impl.slot < 0 || impl.slot >= len(parent.children) ||
			parent.children[impl.slot] != ptr {
			return &InconsistencyError{
				Handle: Handle{s, ptr},
				Detail: fmt.Sprintf("claims slot %d of %v, which does not hold it", impl.slot, Handle{s, impl.parent}),
			}
		}
	}

	if impl.expanded && impl.kind.Shape() == schema.ShapeFixed && len(impl.children) != impl.kind.NumSlots() {
		return &InconsistencyError{
			Handle: Handle{s, ptr},
			Detail: fmt.Sprintf("has %d slots, but its kind has %d", len(impl.children), impl.kind.NumSlots()),
		}
	}

	for i, child := range impl.children {
		if child.Nil() {
			continue
		}
		c := child.In(&s.handles)
		if c.parent != ptr || c.slot != i {
			return &InconsistencyError{
				Handle: Handle{s, ptr},
				Detail: fmt.Sprintf("slot %d holds %v, which is not tied to it", i, Handle{s, child}),
			}
		}
	}
	return nil
}

func (s *Session) verifyReachable(ptr arena.Pointer[handleImpl], seen map[arena.Pointer[handleImpl]]bool) error {
	if seen[ptr] {
		return &InconsistencyError{
			Handle: Handle{s, ptr},
			Detail: "reachable from the root twice",
		}
	}
	seen[ptr] = true

	for _, child := range ptr.In(&s.handles).children {
		if child.Nil() {
			continue
		}
		if err := s.verifyReachable(child, seen); err != nil {
			return err
		}
	}
	return nil
}

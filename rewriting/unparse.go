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
	"strings"

	"github.com/danielmercier/langkit/internal/arena"
	"github.com/danielmercier/langkit/schema"
)

// unparse renders the subtree at ptr to out.
//
// A wrapping handle that nothing below was edited reproduces its
// original source slice byte for byte, trivia included. Everything
// else renders from the schema: token text for token kinds, the
// unparsing template for fixed kinds, separator-joined slots for list
// kinds. Empty slots render as nothing.
func (s *Session) unparse(ptr arena.Pointer[handleImpl], out *strings.Builder) {
	impl := ptr.In(&s.handles)

	if impl.wrapping() && !impl.modified {
		start, end := impl.node.Offsets()
		out.WriteString(s.unit.Text()[start:end])
		return
	}

	switch impl.kind.Shape() {
	case schema.ShapeToken:
		out.WriteString(impl.text)

	case schema.ShapeFixed:
		for piece := range impl.kind.Pieces() {
			if piece.IsSlot() {
				s.unparseSlot(impl.children[piece.Slot()], out)
			} else {
				out.WriteString(piece.Literal())
			}
		}

	case schema.ShapeList:
		for i, child := range impl.children {
			if i > 0 {
				out.WriteString(impl.kind.Separator())
			}
			s.unparseSlot(child, out)
		}
	}
}

func (s *Session) unparseSlot(ptr arena.Pointer[handleImpl], out *strings.Builder) {
	if !ptr.Nil() {
		s.unparse(ptr, out)
	}
}

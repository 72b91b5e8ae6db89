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

// Equal reports whether two nodes are structurally equal: same kind, same
// token text for token nodes, pairwise-equal children otherwise. Trivia and
// formatting are ignored, and the nodes may belong to different trees.
func Equal(a, b Node) bool {
	switch {
	case a.IsZero() != b.IsZero():
		return false
	case a.IsZero():
		return true
	}

	ka, kb := a.Kind(), b.Kind()
	if ka.Name() != kb.Name() || ka.Shape() != kb.Shape() {
		return false
	}

	if a.IsToken() {
		return b.IsToken() && a.Text() == b.Text()
	}
	if a.NumChildren() != b.NumChildren() {
		return false
	}
	for i := range a.NumChildren() {
		if !Equal(a.Child(i), b.Child(i)) {
			return false
		}
	}
	return true
}

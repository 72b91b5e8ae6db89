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

// Package rewriting implements incremental edits of the frozen parse
// trees produced by a [langkit.Language].
//
// A rewrite happens inside a [Session], opened on a unit with [Start].
// The session never touches the unit's tree; instead it builds a
// shadow of mutable [Handle]s over it. [Session.Handle] wraps an
// existing node, [Session.CreateToken] and [Session.CreateStructured]
// mint new ones, and [Session.Clone] copies a subtree so it can be
// reattached without detaching the original. Handles are rearranged
// with [Handle.SetChild], [Handle.InsertChild], and
// [Handle.RemoveChild].
//
// Every handle occupies at most one slot of at most one parent at a
// time. Operations that would break that, or that do not fit the
// schema, fail with one of this package's sentinel errors and leave
// the session exactly as it was.
//
// [Session.Apply] renders the edited tree to text and reparses it,
// producing a fresh unit. Parts of the tree that were never edited
// reproduce their original source text exactly, comments and spacing
// included; edited and newly built parts render from the schema's
// unparsing templates. [Session.Abort] discards the session instead.
// Either way the session ends: its handles become unusable, and a new
// session may be started on the context.
package rewriting

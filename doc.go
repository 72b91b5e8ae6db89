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

// Package langkit provides the entry point for a language analysis toolkit
// built around immutable parse trees and transactional rewriting.
//
// A [Language] bundles a grammar's [schema.Schema] with its lexer and
// parser. A [Context] applies a language to source files, producing a
// [Unit] per file: an immutable snapshot of that file's parse tree and the
// diagnostics minted while building it. Contexts parse files in parallel
// and remember the current unit for each path.
//
// Trees are never edited in place. To change one, open a session with
// rewriting.Start, stage edits against lightweight node handles, and apply
// the whole batch at once; applying unparses the edited tree, reparses it,
// and installs the result as the path's new current unit. Sessions are
// all-or-nothing: aborting one leaves every unit exactly as it was.
//
// The remaining packages are the supporting cast. Package syntax defines
// the trees themselves, package schema describes the node kinds a language
// may mint, package report collects and renders diagnostics, and package
// walk traverses trees. Package calc is a worked example language, small
// enough to read in one sitting.
package langkit

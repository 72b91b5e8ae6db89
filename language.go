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

package langkit

import (
	"github.com/danielmercier/langkit/report"
	"github.com/danielmercier/langkit/schema"
	"github.com/danielmercier/langkit/syntax"
)

// Language binds the engine to one concrete language: its grammar schema,
// its parser, and a single-token lexing check.
//
// Implementations must be safe for concurrent use; [Context] parses files
// in parallel.
type Language interface {
	// Schema returns the language's grammar schema.
	Schema() *schema.Schema

	// Parse parses one source file into a frozen, rooted tree, adding any
	// diagnostics to r. Parse returns a tree even for inputs with errors;
	// the nodes it could not make sense of are simply absent.
	Parse(file report.File, r *report.Report) *syntax.Tree

	// LexToken checks that text lexes as exactly one token satisfying
	// class, with nothing around it. Returns an error describing the
	// mismatch otherwise.
	LexToken(class schema.TokenClass, text string) error
}

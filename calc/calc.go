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

// Package calc implements a small definition language, used throughout this
// module's tests and documentation.
//
// A calc file is a list of definitions separated by semicolons:
//
//	a = 1; b = a + 2;  # trailing semicolon optional
//	c = (a + b) + 3
//
// Expressions are sums of numbers, identifiers, and parenthesized
// subexpressions. Comments run from # to the end of the line.
package calc

import (
	_ "embed"
	"fmt"

	"github.com/danielmercier/langkit"
	"github.com/danielmercier/langkit/report"
	"github.com/danielmercier/langkit/schema"
	"github.com/danielmercier/langkit/syntax"
)

//go:embed language.yaml
var schemaText []byte

// Schema describes calc's node kinds: DefList, Def, Plus, Paren,
// Identifier, and Number.
var Schema = func() *schema.Schema {
	s, err := schema.Load(schemaText)
	if err != nil {
		panic(err)
	}
	return s
}()

var (
	kindDefList    = Schema.MustLookup("DefList")
	kindDef        = Schema.MustLookup("Def")
	kindPlus       = Schema.MustLookup("Plus")
	kindParen      = Schema.MustLookup("Paren")
	kindIdentifier = Schema.MustLookup("Identifier")
	kindNumber     = Schema.MustLookup("Number")
)

// Language returns the calc language, ready to hand to [langkit.NewContext].
func Language() langkit.Language {
	return language{}
}

type language struct{}

func (language) Schema() *schema.Schema {
	return Schema
}

func (language) Parse(file report.File, diags *report.Report) *syntax.Tree {
	tree := syntax.NewTree(Schema, file)
	(&lexer{Tree: tree}).Lex(diags)

	p := &parser{Tree: tree, diags: diags}
	for tok := range tree.Tokens() {
		if !tok.Kind().IsTrivia() {
			p.tokens = append(p.tokens, tok)
		}
	}
	tree.SetRoot(p.parseDefs())
	tree.Freeze()
	return tree
}

func (language) LexToken(class schema.TokenClass, text string) error {
	var diags report.Report
	tree := syntax.NewTree(Schema, report.File{Path: "<token>", Text: text})
	(&lexer{Tree: tree}).Lex(&diags)

	if diags.HasErrors() {
		return fmt.Errorf("%q does not lex as a token: %w", text, diags[0].Err)
	}
	if tree.NumTokens() != 1 {
		return fmt.Errorf("%q lexes as %d tokens, not one", text, tree.NumTokens())
	}

	tok := tree.Token(0)
	if got, ok := tok.Kind().Class(); !ok || got != class {
		return fmt.Errorf("%q lexes as %v, not %v", text, tok.Kind(), class)
	}
	return nil
}

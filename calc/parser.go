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

package calc

import (
	"fmt"

	"github.com/danielmercier/langkit/report"
	"github.com/danielmercier/langkit/syntax"
)

// parser is a recursive descent parser over calc's non-trivia tokens.
//
// The grammar:
//
//	defs := def (';' def)* ';'?
//	def  := ident '=' expr
//	expr := term ('+' term)*
//	term := number | ident | '(' expr ')'
//
// The parser always produces a tree, no matter how broken the input is.
// Missing pieces become empty slots, and anything unsalvageable is skipped
// up to the next semicolon.
type parser struct {
	*syntax.Tree
	diags  *report.Report
	tokens []syntax.Token
	pos    int
}

// parseDefs parses the whole file into a DefList.
func (p *parser) parseDefs() syntax.Node {
	var defs []syntax.Node
	for !p.done() {
		def := p.parseDef()
		if !def.IsZero() {
			defs = append(defs, def)
			if p.done() {
				break
			}
			if p.takePunct(";") {
				continue
			}
			p.expected("`;`")
		}

		// Recover by skipping to just past the next semicolon.
		for !p.done() && !p.takePunct(";") {
			p.pos++
		}
	}
	return p.NewNode(kindDefList, defs)
}

// parseDef parses one name = expression definition. Returns the zero node,
// without consuming anything, if the input does not begin one.
func (p *parser) parseDef() syntax.Node {
	name := p.peek()
	if name.Kind() != syntax.TokenIdent {
		p.expected("definition name")
		return syntax.Node{}
	}
	p.pos++

	var value syntax.Node
	eq := p.peek()
	if p.takePunct("=") {
		value = p.parseExpr()
	} else {
		p.expected("`=`")
		eq = syntax.Token{}
	}

	def := p.NewNode(kindDef, []syntax.Node{
		p.NewTokenNode(kindIdentifier, name),
		value,
	})
	if !eq.IsZero() {
		// So that a definition with a missing value still covers its =.
		p.Widen(def, eq)
	}
	return def
}

// parseExpr parses a sum. Sums associate to the left: a+b+c parses as
// (a+b)+c.
func (p *parser) parseExpr() syntax.Node {
	expr := p.parseTerm()
	for p.takePunct("+") {
		expr = p.NewNode(kindPlus, []syntax.Node{expr, p.parseTerm()})
	}
	return expr
}

// parseTerm parses a number, an identifier, or a parenthesized expression.
// Returns the zero node, leaving the offending token alone, if none of
// those comes next.
func (p *parser) parseTerm() syntax.Node {
	switch tok := p.peek(); {
	case tok.Kind() == syntax.TokenNumber:
		p.pos++
		return p.NewTokenNode(kindNumber, tok)

	case tok.Kind() == syntax.TokenIdent:
		p.pos++
		return p.NewTokenNode(kindIdentifier, tok)

	case tok.Kind() == syntax.TokenPunct && tok.Text() == "(":
		p.pos++
		inner := p.parseExpr()
		node := p.NewNode(kindParen, []syntax.Node{inner})
		// The parentheses are not children of the node, but they are
		// part of it; without them its extent would be the bare inner
		// expression.
		p.Widen(node, tok)
		if close := p.peek(); p.takePunct(")") {
			p.Widen(node, close)
		} else {
			p.expected("`)`")
		}
		return node

	default:
		p.expected("expression")
		return syntax.Node{}
	}
}

func (p *parser) done() bool {
	return p.pos >= len(p.tokens)
}

// peek returns the next token, or the zero token at EOF.
func (p *parser) peek() syntax.Token {
	if p.done() {
		return syntax.Token{}
	}
	return p.tokens[p.pos]
}

// takePunct consumes the next token if it is the given punctuation.
func (p *parser) takePunct(text string) bool {
	tok := p.peek()
	if tok.IsZero() || tok.Kind() != syntax.TokenPunct || tok.Text() != text {
		return false
	}
	p.pos++
	return true
}

// expected diagnoses the next token, or the EOF, as not being what the
// grammar wants.
func (p *parser) expected(what string) {
	if tok := p.peek(); !tok.IsZero() {
		p.diags.Error(fmt.Errorf("expected %s, found %q", what, tok.Text()), report.Snippet(tok, ""))
		return
	}

	eof := len(p.Text())
	p.diags.Error(fmt.Errorf("expected %s, found end of file", what), report.SnippetAt(p.Span(eof, eof), ""))
}

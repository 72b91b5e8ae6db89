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

import (
	"fmt"

	"github.com/danielmercier/langkit/report"
	"github.com/danielmercier/langkit/schema"
)

const (
	TokenUnrecognized TokenKind = iota // Unrecognized garbage in the input file.

	TokenSpace   // Non-comment contiguous whitespace.
	TokenComment // A single comment.
	TokenIdent   // An identifier.
	TokenString  // A string literal.
	TokenNumber  // A run of digits that is some kind of number.
	TokenPunct   // Some punctuation.
)

// TokenKind identifies what kind of token a particular [Token] is.
type TokenKind byte

// IsTrivia returns whether this is a whitespace or comment token.
func (t TokenKind) IsTrivia() bool {
	return t == TokenSpace || t == TokenComment
}

// Class returns the schema token class this kind of token satisfies.
//
// Trivia and unrecognized tokens satisfy no class.
func (t TokenKind) Class() (schema.TokenClass, bool) {
	switch t {
	case TokenIdent:
		return schema.ClassIdentifier, true
	case TokenString:
		return schema.ClassString, true
	case TokenNumber:
		return schema.ClassNumber, true
	case TokenPunct:
		return schema.ClassPunct, true
	default:
		return 0, false
	}
}

// String implements [fmt.Stringer].
func (t TokenKind) String() string {
	switch t {
	case TokenUnrecognized:
		return "TokenUnrecognized"
	case TokenSpace:
		return "TokenSpace"
	case TokenComment:
		return "TokenComment"
	case TokenIdent:
		return "TokenIdent"
	case TokenString:
		return "TokenString"
	case TokenNumber:
		return "TokenNumber"
	case TokenPunct:
		return "TokenPunct"
	default:
		return fmt.Sprintf("TokenKind(%d)", int(t))
	}
}

// Token is a lexical element of a source file.
//
// The zero value of Token is the nil token, which is used to denote the
// absence of a token.
type Token struct {
	withTree

	raw rawToken
}

// rawToken is a 1-based index into a tree's token stream; 0 is the nil
// token.
type rawToken int32

func (t rawToken) with(tree *Tree) Token {
	if t == 0 {
		return Token{}
	}
	return Token{withTree{tree}, t}
}

// Kind returns what kind of token this is.
//
// Returns [TokenUnrecognized] if this token is zero.
func (t Token) Kind() TokenKind {
	if t.IsZero() {
		return TokenUnrecognized
	}
	return t.impl().kind
}

// Text returns the source text of this token.
func (t Token) Text() string {
	start, end := t.Offsets()
	return t.tree.file.Text[start:end]
}

// Offsets returns the byte offsets of this token within its file.
func (t Token) Offsets() (start, end int) {
	if t.IsZero() {
		panic("langkit/syntax: Offsets() called on zero token")
	}
	if t.raw > 1 {
		start = int(t.tree.stream[t.raw-2].end)
	}
	return start, int(t.impl().end)
}

// Span returns this token's location in its file.
func (t Token) Span() report.Span {
	start, end := t.Offsets()
	return t.tree.index.NewSpan(start, end)
}

// String implements [fmt.Stringer].
func (t Token) String() string {
	if t.IsZero() {
		return "Token(<nil>)"
	}
	return fmt.Sprintf("%v(%q)", t.Kind(), t.Text())
}

func (t Token) impl() *tokenImpl {
	return &t.tree.stream[t.raw-1]
}

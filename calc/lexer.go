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
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/danielmercier/langkit/report"
	"github.com/danielmercier/langkit/syntax"
)

// punct is every punctuation character calc recognizes.
const punct = "=+();"

// lexer is the calc lexer. It tokenizes every byte of the input, trivia and
// garbage included, as [syntax.Tree] requires.
type lexer struct {
	*syntax.Tree
	cursor int
}

// Lex performs lexical analysis, and places any diagnostics in diags.
func (l *lexer) Lex(diags *report.Report) {
	for l.Rest() != "" {
		r, rLen := l.Peek()
		start := l.cursor

		switch {
		case unicode.IsSpace(r):
			// Whitespace. Consume as much of it as possible.
			for {
				l.cursor += rLen
				r, rLen = l.Peek()
				if r == utf8.RuneError || !unicode.IsSpace(r) {
					break
				}
			}
			l.PushToken(l.cursor-start, syntax.TokenSpace)

		case l.HasPrefix("#"):
			// Comment. Runs to the next '\n' or the EOF; the newline is part
			// of the token.
			if comment, ok := l.SeekInclusive("\n"); ok {
				l.PushToken(len(comment), syntax.TokenComment)
			} else {
				l.PushToken(len(l.SeekEOF()), syntax.TokenComment)
			}

		case strings.ContainsRune(punct, r):
			l.cursor += rLen
			l.PushToken(rLen, syntax.TokenPunct)

		case unicode.IsDigit(r):
			for {
				l.cursor += rLen
				r, rLen = l.Peek()
				if !unicode.IsDigit(r) {
					break
				}
			}
			l.PushToken(l.cursor-start, syntax.TokenNumber)

		case r == '_' || unicode.IsLetter(r):
			for {
				l.cursor += rLen
				r, rLen = l.Peek()
				if r != '_' && !unicode.IsDigit(r) && !unicode.IsLetter(r) {
					break
				}
			}
			l.PushToken(l.cursor-start, syntax.TokenIdent)

		default:
			// Consume as much stuff we don't understand as possible, and
			// diagnose it as one token.
			for {
				l.cursor += rLen
				r, rLen = l.Peek()
				if r == utf8.RuneError && rLen == 0 {
					break
				}
				if r == '#' || r == '_' || strings.ContainsRune(punct, r) ||
					unicode.IsSpace(r) || unicode.IsDigit(r) || unicode.IsLetter(r) {
					break
				}
			}

			token := l.PushToken(l.cursor-start, syntax.TokenUnrecognized)
			diags.Error(ErrUnrecognized, report.Snippet(token, ""))
		}
	}
}

// Rest returns unlexed text.
func (l *lexer) Rest() string {
	return l.Text()[l.cursor:]
}

// Peek peeks the next character; returns that character and its length.
func (l *lexer) Peek() (rune, int) {
	return utf8.DecodeRuneInString(l.Rest())
}

// HasPrefix checks if the given text exists past the cursor.
func (l *lexer) HasPrefix(prefix string) bool {
	return strings.HasPrefix(l.Rest(), prefix)
}

// SeekInclusive seeks until the given needle is found; returns the prefix
// inclusive of that needle, and updates the cursor to point after it.
func (l *lexer) SeekInclusive(needle string) (string, bool) {
	if idx := strings.Index(l.Rest(), needle); idx != -1 {
		prefix := l.Rest()[:idx+len(needle)]
		l.cursor += idx + len(needle)
		return prefix, true
	}
	return "", false
}

// SeekEOF seeks the cursor to the end of the file and returns the remaining
// text.
func (l *lexer) SeekEOF() string {
	rest := l.Rest()
	l.cursor = len(l.Text())
	return rest
}

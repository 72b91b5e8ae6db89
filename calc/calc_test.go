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

package calc_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/danielmercier/langkit/calc"
	"github.com/danielmercier/langkit/internal/corpora"
	"github.com/danielmercier/langkit/report"
	"github.com/danielmercier/langkit/schema"
	"github.com/danielmercier/langkit/syntax"
)

func TestCorpus(t *testing.T) {
	t.Parallel()

	corpora.Corpus{
		Root:      "testdata",
		Refresh:   "CALC_REFRESH",
		Extension: "calc",
		Outputs: []corpora.Output{
			{Extension: "tokens"},
			{Extension: "tree"},
			{Extension: "stderr"},
		},
		Test: func(t *testing.T, path, text string) []string {
			var diags report.Report
			tree := calc.Language().Parse(report.File{Path: path, Text: text}, &diags)

			var tokens strings.Builder
			for tok := range tree.Tokens() {
				tokens.WriteString(tok.String())
				tokens.WriteByte('\n')
			}

			return []string{
				tokens.String(),
				syntax.Print(tree.Root()),
				diags.Render(report.Simple),
			}
		},
	}.Run(t)
}

func TestLexToken(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	lang := calc.Language()
	assert.NoError(lang.LexToken(schema.ClassIdentifier, "foo"))
	assert.NoError(lang.LexToken(schema.ClassIdentifier, "_x9"))
	assert.NoError(lang.LexToken(schema.ClassNumber, "42"))
	assert.NoError(lang.LexToken(schema.ClassPunct, "+"))

	assert.Error(lang.LexToken(schema.ClassIdentifier, "42"), "wrong class")
	assert.Error(lang.LexToken(schema.ClassIdentifier, "a b"), "several tokens")
	assert.Error(lang.LexToken(schema.ClassIdentifier, "a "), "trailing space")
	assert.Error(lang.LexToken(schema.ClassIdentifier, ""), "no tokens at all")
	assert.Error(lang.LexToken(schema.ClassNumber, "§"), "garbage")
	assert.Error(lang.LexToken(schema.ClassString, `"s"`), "calc has no strings")
}

func TestLeftAssociativity(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	var diags report.Report
	tree := calc.Language().Parse(report.File{Path: "sum.calc", Text: "x = 1 + 2 + 3"}, &diags)
	assert.False(diags.HasErrors())

	want := `DefList
  Def
    name: Identifier "x"
    value: Plus
      lhs: Plus
        lhs: Number "1"
        rhs: Number "2"
      rhs: Number "3"
`
	assert.Equal(want, syntax.Print(tree.Root()))
}

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

package walk_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielmercier/langkit/calc"
	"github.com/danielmercier/langkit/report"
	"github.com/danielmercier/langkit/syntax"
	"github.com/danielmercier/langkit/walk"
)

func parse(t *testing.T, text string) syntax.Node {
	t.Helper()

	var diags report.Report
	tree := calc.Language().Parse(report.File{Path: "test.calc", Text: text}, &diags)
	require.False(t, diags.HasErrors(), "%s", diags.Render(report.Simple))
	return tree.Root()
}

func TestNodes(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	root := parse(t, "a = 1; b = a + 2")

	var kinds []string
	err := walk.Nodes(root, func(n syntax.Node) error {
		kinds = append(kinds, n.Kind().Name())
		return nil
	})
	assert.NoError(err)
	assert.Equal([]string{
		"DefList",
		"Def", "Identifier", "Number",
		"Def", "Identifier", "Plus", "Identifier", "Number",
	}, kinds)
}

func TestNodesEnterAndExit(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	root := parse(t, "a = (1 + 2)")

	var events []string
	err := walk.NodesEnterAndExit(root,
		func(n syntax.Node) error {
			events = append(events, "+"+n.Kind().Name())
			return nil
		},
		func(n syntax.Node) error {
			events = append(events, "-"+n.Kind().Name())
			return nil
		})
	assert.NoError(err)
	assert.Equal([]string{
		"+DefList",
		"+Def",
		"+Identifier", "-Identifier",
		"+Paren",
		"+Plus",
		"+Number", "-Number",
		"+Number", "-Number",
		"-Plus",
		"-Paren",
		"-Def",
		"-DefList",
	}, events)
}

func TestSkip(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	root := parse(t, "a = (1 + 2); b = 3")

	var kinds []string
	err := walk.Nodes(root, func(n syntax.Node) error {
		kinds = append(kinds, n.Kind().Name())
		if n.Kind().Name() == "Paren" {
			return walk.ErrSkip
		}
		return nil
	})
	assert.NoError(err)
	assert.Equal([]string{
		"DefList",
		"Def", "Identifier", "Paren",
		"Def", "Identifier", "Number",
	}, kinds)
}

func TestStop(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	root := parse(t, "a = 1; b = 2")
	stop := errors.New("found it")

	var seen int
	err := walk.Nodes(root, func(n syntax.Node) error {
		seen++
		if n.Kind().Name() == "Number" {
			return stop
		}
		return nil
	})
	assert.ErrorIs(err, stop)
	assert.Equal(4, seen)
}

func TestTokens(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	root := parse(t, "a = 1; b = a + 2  # trailing")

	var texts []string
	err := walk.Tokens(root, func(tok syntax.Token) error {
		texts = append(texts, tok.Text())
		return nil
	})
	assert.NoError(err)
	assert.Equal([]string{"a", "1", "b", "a", "2"}, texts)
}

func TestZeroNode(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	err := walk.Nodes(syntax.Node{}, func(syntax.Node) error {
		t.Error("callback called for the zero node")
		return nil
	})
	assert.NoError(err)
}

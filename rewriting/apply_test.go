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

package rewriting_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielmercier/langkit/report"
	"github.com/danielmercier/langkit/rewriting"
	"github.com/danielmercier/langkit/syntax"
)

func TestApplyRegistersUnit(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	sess := start(t, "a = 1; b = 2")
	old := sess.Unit()
	ctx := old.Context()
	require.NoError(t, sess.Root().RemoveChild(1))

	unit, diags, err := sess.Apply()
	require.NoError(t, err)
	assert.Empty(diags)
	assert.Equal(rewriting.Applied, sess.State())

	// The new unit displaces the old one for the path, but the old one
	// is still readable.
	assert.Same(unit, ctx.Unit("test.calc"))
	assert.NotSame(old, unit)
	assert.Equal("a = 1", unit.Text())
	assert.Equal("a = 1; b = 2", old.Text())
	assert.Equal(2, old.Root().NumChildren())

	// The context is free for the next session.
	sess2, err := rewriting.Start(unit)
	require.NoError(t, err)
	sess2.Abort()
}

func TestApplyReparseDiagnostics(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	sess := start(t, "a = 1; b = 2")
	def := sess.Root().Child(0)
	require.NoError(t, def.SetChild(1, none))

	// An edit can produce text that no longer parses cleanly. Apply
	// still ends the session and returns the reparse's diagnostics.
	unit, diags, err := sess.Apply()
	require.NoError(t, err)
	assert.Equal("a=; b = 2", unit.Text())
	require.True(t, diags.HasErrors())
	assert.Contains(diags.Render(report.Simple), "expected expression")
	assert.Equal(rewriting.Applied, sess.State())
	assert.Same(unit, unit.Context().Unit("test.calc"))
}

func TestApplyStructureMatchesText(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	sess := start(t, "a = 1; b = 2")
	root := sess.Root()
	require.NoError(t, root.SetChild(2, synthesize(t, sess, "c", "3")))

	unit, diags, err := sess.Apply()
	require.NoError(t, err)
	require.Empty(t, diags)

	want := parse(t, unit.Text())
	assert.True(syntax.Equal(want.Root(), unit.Root()))
	assert.Equal(syntax.Print(want.Root()), syntax.Print(unit.Root()))
}

func TestApplyInconsistency(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	sess := start(t, "a = 1; b = 2")
	root := sess.Root()
	def := root.Child(0)
	require.NoError(t, root.RemoveChild(1))

	rewriting.CorruptSlot(def)

	_, _, err := sess.Apply()
	var inconsistency *rewriting.InconsistencyError
	require.ErrorAs(t, err, &inconsistency)
	assert.NotEmpty(inconsistency.Detail)

	// The session survives the failed Apply so it can be inspected,
	// and only an explicit Abort releases the context.
	assert.Equal(rewriting.Open, sess.State())
	assert.Equal(def, root.Child(0))
	_, err = rewriting.Start(sess.Unit())
	assert.ErrorIs(err, rewriting.ErrAlreadyEditing)

	sess.Abort()
	assert.Equal(rewriting.Aborted, sess.State())
	assert.Equal("a = 1; b = 2", sess.Unit().Text())
}

func TestApplyTwice(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	sess := start(t, "a = 1")
	_, _, err := sess.Apply()
	require.NoError(t, err)

	_, _, err = sess.Apply()
	assert.ErrorIs(err, rewriting.ErrSessionEnded)
	sess.Abort() // No effect after Apply.
	assert.Equal(rewriting.Applied, sess.State())
}

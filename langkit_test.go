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

package langkit_test

import (
	"context"
	"io"
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielmercier/langkit"
	"github.com/danielmercier/langkit/calc"
)

// bufferOpener serves file contents out of a map.
func bufferOpener(files map[string]string) langkit.Opener {
	return langkit.OpenerFunc(func(path string) (io.ReadCloser, error) {
		text, ok := files[path]
		if !ok {
			return nil, fs.ErrNotExist
		}
		return io.NopCloser(strings.NewReader(text)), nil
	})
}

func TestUnitFromBuffer(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	ctx := langkit.NewContext(calc.Language())
	first := ctx.UnitFromBuffer("main.calc", "a = 1")
	assert.Same(first, ctx.Unit("main.calc"))
	assert.Same(ctx, first.Context())
	assert.Equal("main.calc", first.Path())
	assert.Equal("a = 1", first.Text())
	assert.Equal("DefList", first.Root().Kind().Name())
	assert.False(first.Diagnostics().HasErrors())

	// Parsing the same path again replaces the current unit, but the old
	// one stays readable.
	second := ctx.UnitFromBuffer("main.calc", "a = 2")
	assert.Same(second, ctx.Unit("main.calc"))
	assert.NotSame(first, second)
	assert.Equal("a = 1", first.Text())
	assert.Equal("a = 2", second.Text())

	assert.Nil(ctx.Unit("other.calc"))
}

func TestParseFiles(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)
	require := require.New(t)

	opener := bufferOpener(map[string]string{
		"a.calc": "a = 1",
		"b.calc": "b = ;", // Parses with errors, but still loads.
	})
	ctx := langkit.NewContext(calc.Language(), langkit.WithOpener(opener))

	units, err := ctx.ParseFiles(context.Background(), "a.calc", "b.calc")
	require.NoError(err)
	require.Len(units, 2)

	assert.Equal("a.calc", units[0].Path())
	assert.Equal("b.calc", units[1].Path())
	assert.False(units[0].Diagnostics().HasErrors())
	assert.True(units[1].Diagnostics().HasErrors())
	assert.Same(units[0], ctx.Unit("a.calc"))

	// A file that fails to load fails the whole batch.
	_, err = ctx.ParseFiles(context.Background(), "a.calc", "missing.calc")
	assert.ErrorIs(err, fs.ErrNotExist)

	units, err = ctx.ParseFiles(context.Background())
	assert.NoError(err)
	assert.Empty(units)
}

func TestParseFilesCanceled(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	ctx := langkit.NewContext(
		calc.Language(),
		langkit.WithOpener(bufferOpener(map[string]string{"a.calc": "a = 1"})),
		langkit.WithMaxParallelism(1),
	)

	canceled, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := ctx.ParseFiles(canceled, "a.calc")
	assert.ErrorIs(err, context.Canceled)
}

func TestBeginEdit(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	ctx := langkit.NewContext(calc.Language())
	assert.True(ctx.BeginEdit())
	assert.False(ctx.BeginEdit())
	ctx.EndEdit()
	assert.True(ctx.BeginEdit())
	ctx.EndEdit()
}

func TestCompositeOpener(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)
	require := require.New(t)

	opener := langkit.CompositeOpener{
		bufferOpener(map[string]string{"a.calc": "first"}),
		bufferOpener(map[string]string{"a.calc": "second", "b.calc": "b"}),
	}

	rc, err := opener.Open("a.calc")
	require.NoError(err)
	text, _ := io.ReadAll(rc)
	assert.Equal("first", string(text))
	assert.NoError(rc.Close())

	rc, err = opener.Open("b.calc")
	require.NoError(err)
	text, _ = io.ReadAll(rc)
	assert.Equal("b", string(text))
	assert.NoError(rc.Close())

	_, err = opener.Open("c.calc")
	assert.ErrorIs(err, fs.ErrNotExist)

	_, err = langkit.CompositeOpener{}.Open("a.calc")
	assert.ErrorIs(err, fs.ErrNotExist)
}

func TestSourceOpener(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)
	require := require.New(t)

	opener := &langkit.SourceOpener{
		SearchPaths: []string{"x", "y"},
		Accessor: func(path string) (io.ReadCloser, error) {
			if path == "y/f.calc" {
				return io.NopCloser(strings.NewReader("a = 1")), nil
			}
			return nil, fs.ErrNotExist
		},
	}

	rc, err := opener.Open("f.calc")
	require.NoError(err)
	text, _ := io.ReadAll(rc)
	assert.Equal("a = 1", string(text))
	assert.NoError(rc.Close())

	_, err = opener.Open("missing.calc")
	assert.ErrorIs(err, fs.ErrNotExist)
}

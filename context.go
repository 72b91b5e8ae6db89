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
	"context"
	"fmt"
	"io"
	"runtime"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/danielmercier/langkit/report"
	"github.com/danielmercier/langkit/syntax"
)

// Context owns the analysis state for one language: the units parsed so far,
// keyed by path, and the single rewriting session allowed at a time.
//
// A Context is safe for concurrent use, except that only one rewriting
// session may be open on it at once; see rewriting.Start.
type Context struct {
	language Language
	opener   Opener
	maxPar   int

	mu      sync.Mutex
	units   map[string]*Unit
	editing bool
}

// Option configures a [Context].
type Option func(*Context)

// WithOpener sets the opener [Context.ParseFiles] loads files through.
// The default reads the file system directly.
func WithOpener(o Opener) Option {
	return func(c *Context) { c.opener = o }
}

// WithMaxParallelism caps how many files [Context.ParseFiles] parses at
// once. If unset or non-positive, min(NumCPU, GOMAXPROCS) is used.
func WithMaxParallelism(n int) Option {
	return func(c *Context) { c.maxPar = n }
}

// NewContext creates an analysis context for the given language.
func NewContext(language Language, opts ...Option) *Context {
	c := &Context{
		language: language,
		opener:   &SourceOpener{},
		units:    map[string]*Unit{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Language returns the language this context analyzes.
func (c *Context) Language() Language {
	return c.language
}

// UnitFromBuffer parses in-memory text as if it were the contents of the
// file at path, and installs the result as the context's current unit for
// that path, replacing any previous one. Units already handed out for the
// path are unaffected and stay readable.
//
// Parse problems do not make this function fail; they are reported by the
// returned unit's [Unit.Diagnostics].
func (c *Context) UnitFromBuffer(path, text string) *Unit {
	unit := &Unit{context: c}
	unit.tree = c.language.Parse(report.File{Path: path, Text: text}, &unit.report)

	if unit.tree == nil || !unit.tree.Frozen() {
		panic(fmt.Sprintf("langkit: %T.Parse returned an unfrozen tree for %q", c.language, path))
	}

	c.mu.Lock()
	c.units[path] = unit
	c.mu.Unlock()
	return unit
}

// Unit returns the context's current unit for path, or nil if the path has
// not been parsed.
func (c *Context) Unit(path string) *Unit {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.units[path]
}

// ParseFiles loads and parses the given files concurrently, in path order.
//
// Only I/O failures and cancellation make ParseFiles fail; syntax problems
// in an input are reported by that unit's [Unit.Diagnostics].
func (c *Context) ParseFiles(ctx context.Context, paths ...string) ([]*Unit, error) {
	if len(paths) == 0 {
		return nil, nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	par := c.maxPar
	if par <= 0 {
		par = runtime.GOMAXPROCS(-1)
		if cpus := runtime.NumCPU(); par > cpus {
			par = cpus
		}
	}

	sem := semaphore.NewWeighted(int64(par))
	units := make([]*Unit, len(paths))
	errs := make([]error, len(paths))

	var wg sync.WaitGroup
	for i, path := range paths {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if errs[i] = sem.Acquire(ctx, 1); errs[i] != nil {
				return
			}
			defer sem.Release(1)

			units[i], errs[i] = c.parseFile(path)
			if errs[i] != nil {
				// No point loading the rest.
				cancel()
			}
		}()
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return units, nil
}

func (c *Context) parseFile(path string) (*Unit, error) {
	rc, err := c.opener.Open(path)
	if err != nil {
		return nil, fmt.Errorf("langkit: opening %q: %w", path, err)
	}
	defer rc.Close()

	text, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("langkit: reading %q: %w", path, err)
	}
	return c.UnitFromBuffer(path, string(text)), nil
}

// BeginEdit claims this context's single rewriting slot, returning false if
// a session is already open. Package rewriting calls this on Start; other
// callers have no business doing so.
func (c *Context) BeginEdit() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.editing {
		return false
	}
	c.editing = true
	return true
}

// EndEdit releases the rewriting slot claimed by [Context.BeginEdit].
func (c *Context) EndEdit() {
	c.mu.Lock()
	c.editing = false
	c.mu.Unlock()
}

// Unit is the immutable result of parsing one buffer: its parse tree and
// the diagnostics it was minted with. Units never change; rewriting a unit
// produces a new one.
type Unit struct {
	context *Context
	tree    *syntax.Tree
	report  report.Report
}

// Context returns the context that parsed this unit.
func (u *Unit) Context() *Context {
	return u.context
}

// Tree returns this unit's parse tree.
func (u *Unit) Tree() *syntax.Tree {
	return u.tree
}

// Root returns the root node of this unit's tree.
func (u *Unit) Root() syntax.Node {
	return u.tree.Root()
}

// Path returns the path of the file this unit was parsed from.
func (u *Unit) Path() string {
	return u.tree.Path()
}

// Text returns the full source text of this unit.
func (u *Unit) Text() string {
	return u.tree.Text()
}

// Diagnostics returns the diagnostics emitted while parsing this unit.
// Callers must not modify the returned report.
func (u *Unit) Diagnostics() report.Report {
	return u.report
}

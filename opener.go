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
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// Opener locates and reads source files by path. This is how a [Context]
// loads the files given to [Context.ParseFiles].
type Opener interface {
	Open(path string) (io.ReadCloser, error)
}

// OpenerFunc adapts a function to the [Opener] interface.
type OpenerFunc func(path string) (io.ReadCloser, error)

var _ Opener = OpenerFunc(nil)

// Open implements [Opener].
func (f OpenerFunc) Open(path string) (io.ReadCloser, error) {
	return f(path)
}

// CompositeOpener is an [Opener] that tries each of its elements in turn,
// returning the first hit.
type CompositeOpener []Opener

var _ Opener = CompositeOpener(nil)

// Open implements [Opener].
func (c CompositeOpener) Open(path string) (io.ReadCloser, error) {
	if len(c) == 0 {
		return nil, fs.ErrNotExist
	}
	var firstErr error
	for _, opener := range c {
		rc, err := opener.Open(path)
		if err == nil {
			return rc, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return nil, firstErr
}

// SourceOpener is an [Opener] that reads files from the file system,
// optionally searching a list of directories.
type SourceOpener struct {
	// Directories to resolve relative paths against, tried in order. If
	// empty, paths are opened as given.
	SearchPaths []string

	// How to open a file. Defaults to [os.Open].
	Accessor func(path string) (io.ReadCloser, error)
}

var _ Opener = (*SourceOpener)(nil)

// Open implements [Opener].
func (o *SourceOpener) Open(path string) (io.ReadCloser, error) {
	accessor := o.Accessor
	if accessor == nil {
		accessor = func(path string) (io.ReadCloser, error) { return os.Open(path) }
	}

	if len(o.SearchPaths) == 0 {
		return accessor(path)
	}

	var firstErr error
	for _, dir := range o.SearchPaths {
		rc, err := accessor(filepath.Join(dir, path))
		if err != nil {
			if os.IsNotExist(err) {
				if firstErr == nil {
					firstErr = err
				}
				continue
			}
			return nil, err
		}
		return rc, nil
	}
	return nil, firstErr
}

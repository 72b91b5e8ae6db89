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

// Package walk provides helpers for traversing parse trees.
package walk

import (
	"errors"

	"github.com/danielmercier/langkit/syntax"
)

// ErrSkip can be returned from an enter callback to skip the node's
// subtree without stopping the walk.
var ErrSkip = errors.New("walk: skip this subtree")

// Nodes walks the subtree rooted at node depth-first, in source order,
// calling fn on every node. Empty slots are skipped.
//
// Returning an error from fn stops the walk; that error is returned.
// Returning [ErrSkip] skips the node's children instead.
func Nodes(node syntax.Node, fn func(syntax.Node) error) error {
	return NodesEnterAndExit(node, fn, nil)
}

// NodesEnterAndExit walks the subtree rooted at node depth-first, calling
// enter on every node before its children and exit after them. Empty slots
// are skipped; exit may be nil.
//
// Returning an error from either callback stops the walk; that error is
// returned. Returning [ErrSkip] from enter skips the node's children (and
// its exit call) instead.
func NodesEnterAndExit(node syntax.Node, enter, exit func(syntax.Node) error) error {
	if node.IsZero() {
		return nil
	}

	if err := enter(node); err != nil {
		if errors.Is(err, ErrSkip) {
			return nil
		}
		return err
	}

	for child := range node.Children() {
		if child.IsZero() {
			continue
		}
		if err := NodesEnterAndExit(child, enter, exit); err != nil {
			return err
		}
	}

	if exit != nil {
		return exit(node)
	}
	return nil
}

// Tokens walks the subtree rooted at node depth-first and calls fn on the
// token of every token node, in source order.
//
// Note that this only visits tokens the parser attached to the tree;
// trivia and skipped tokens are not included. To see every token of a
// file, iterate over [syntax.Tree.Tokens] instead.
func Tokens(node syntax.Node, fn func(syntax.Token) error) error {
	return Nodes(node, func(n syntax.Node) error {
		if !n.IsToken() {
			return nil
		}
		return fn(n.Token())
	})
}

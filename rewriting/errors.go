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

package rewriting

import (
	"errors"
	"fmt"
)

var (
	// ErrAlreadyEditing is returned by [Start] when another session is
	// already open for the unit's context.
	ErrAlreadyEditing = errors.New("another session is already editing this context")

	// ErrSessionEnded is returned by all session operations once the
	// session has been applied or aborted.
	ErrSessionEnded = errors.New("session has ended")

	// ErrAlreadyTied is returned by operations that would make a handle
	// occupy two slots at once.
	ErrAlreadyTied = errors.New("handle is already tied to a parent")

	// ErrCycle is returned by operations that would tie a handle
	// somewhere inside its own subtree.
	ErrCycle = errors.New("attachment would create a cycle")

	// ErrSchema is returned by operations whose arguments do not fit the
	// schema of the kind they operate on: a slot index out of range, a
	// child list of the wrong length for a fixed kind, a list operation
	// on a non-list kind, and so on.
	ErrSchema = errors.New("schema violation")

	// ErrTokenMismatch is returned by [Session.CreateToken] when the
	// given text does not lex as exactly one token of the kind's class.
	ErrTokenMismatch = errors.New("text does not lex as the requested token")
)

// InconsistencyError is returned by [Session.Apply] when the session's
// own bookkeeping is corrupt, which indicates a bug in this package
// rather than a misuse of it. The session remains open so that the
// damage can be inspected (and the session aborted).
type InconsistencyError struct {
	// Handle is the handle at which the fault was detected.
	Handle Handle

	// Detail describes what did not line up.
	Detail string
}

// Error implements [error].
func (e *InconsistencyError) Error() string {
	return fmt.Sprintf("inconsistent rewriting state at %v: %s", e.Handle, e.Detail)
}

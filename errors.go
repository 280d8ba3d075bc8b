/*
Copyright 2024 Simon Murray

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package arith

import "errors"

var (
	// ErrUnexpected wraps conditions the engine considers impossible given
	// its own invariants; seeing it means a bug, not a bad input.
	ErrUnexpected = errors.New("arith: unexpected state")

	// ErrNotImplemented is returned by operator repair/eval paths the
	// source algorithm never implemented (POWER, TO_INT, TO_REAL repair).
	// Callers in developer builds should treat it as fatal.
	ErrNotImplemented = errors.New("arith: not implemented")

	// ErrInvariant is raised by CheckInvariants on a mismatch between a
	// cached value and its recomputation, or between Boolean assignment
	// and atom truth. Fatal.
	ErrInvariant = errors.New("arith: invariant violation")
)

// ConflictError reports a caller-visible failure to keep a Boolean
// variable's assignment consistent with its atom's truth during flip.
type ConflictError struct {
	BoolVar int
}

// Error implements the error interface.
func (e *ConflictError) Error() string {
	return "arith: conflict flipping bool var"
}

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

// Package term interns arithmetic expressions into a DAG of variables,
// sums, product monomials and unary operation nodes, and keeps every
// derived value consistent as leaves change.
package term

import "errors"

// ErrNotImplemented is returned by operators whose repair direction the
// source algorithm never implemented (POWER, TO_INT, TO_REAL). It is
// fatal: callers in developer builds should treat it as a terminated
// run rather than invent semantics.
var ErrNotImplemented = errors.New("term: not implemented")

// ExprID is an opaque handle supplied by the owning context identifying
// an external AST node. The store only ever uses it as a map key and as
// the argument handed back through NewValueEH; it never inspects it.
type ExprID int

// VarID indexes into Store.vars.
type VarID int

// SumID indexes into Store.sums.
type SumID int

// MulID indexes into Store.muls.
type MulID int

// OpID indexes into Store.ops.
type OpID int

// Sort discriminates integer from real variables: it controls
// integer-rounded division and strict-bound tightening.
type Sort int

const (
	SortInt Sort = iota
	SortReal
)

// OpKind enumerates the unary operation node kinds.
type OpKind int

const (
	OpMod OpKind = iota
	OpRem
	OpIDiv
	OpDiv
	OpAbs
	OpPower
	OpToInt
	OpToReal
)

func (k OpKind) String() string {
	switch k {
	case OpMod:
		return "mod"
	case OpRem:
		return "rem"
	case OpIDiv:
		return "idiv"
	case OpDiv:
		return "div"
	case OpAbs:
		return "abs"
	case OpPower:
		return "power"
	case OpToInt:
		return "to_int"
	case OpToReal:
		return "to_real"
	default:
		return "unknown"
	}
}

// DefKind discriminates a variable's definition.
type DefKind int

const (
	DefNone DefKind = iota
	DefSum
	DefMul
	DefOp
)

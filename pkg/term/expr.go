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

package term

import "github.com/spjmurray/go-sls-arith/pkg/num"

// ExprKind discriminates the shape of an external AST node as far as
// add_args needs to know. Sort/kind discrimination beyond this lives in
// the caller's arithmetic AST layer (out of scope, spec §1).
type ExprKind int

const (
	EKindAtom ExprKind = iota // opaque leaf: a variable or uninterpreted term
	EKindNumeral
	EKindAdd
	EKindSub
	EKindMul
	EKindUMinus
	EKindMod
	EKindIDiv
	EKindDiv
	EKindRem
	EKindPower
	EKindAbs
	EKindToInt
	EKindToReal
)

// Expr is the narrow view the term store needs over a caller-owned AST
// node: a stable identity, its arithmetic-expression kind, its numeral
// value (only meaningful for EKindNumeral), and its children (for
// Add/Sub/Mul/Mod/IDiv/Div/Rem/Power; Abs/ToInt/ToReal take exactly one
// child in Args()[0]).
type Expr[N num.Num[N]] interface {
	ID() ExprID
	Kind() ExprKind
	Numeral() N
	Args() []Expr[N]
	// IsInt reports the sort of this subterm, consulted whenever the
	// store mints a fresh variable for it (leaf, sum, product or op
	// node).
	IsInt() bool
}

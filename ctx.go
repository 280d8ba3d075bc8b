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

// Package arith implements a stochastic local-search engine for mixed
// integer/real arithmetic constraints, driven by a Boolean assignment
// owned by an external SMT context.
package arith

import (
	"iter"

	"github.com/spjmurray/go-sls-arith/pkg/atom"
	"github.com/spjmurray/go-sls-arith/pkg/num"
	"github.com/spjmurray/go-sls-arith/pkg/term"
)

// Literal is a (possibly negated) reference to a Boolean variable, as
// handed to the engine by unit propagation or clause enumeration.
type Literal struct {
	BoolVar atom.BoolVar
	Negated bool
}

// Clause is a disjunction of literals, as owned by the context's clause
// store.
type Clause struct {
	Literals []Literal
}

// Ctx is the narrow capability set the engine consumes from its owning
// SMT context (spec §6). The engine never reaches outside this
// interface; everything else — CDCL propagation, the Boolean variable
// table, clause storage, tracing — is the context's business.
type Ctx[N num.Num[N]] interface {
	// Atom returns the atom bound to bv, or nil.
	Atom(bv atom.BoolVar) *atom.Atom[N]
	// AtomToBoolVar maps an expression back to the Boolean variable of
	// the atom built from it, if any.
	AtomToBoolVar(e term.ExprID) (atom.BoolVar, bool)
	// IsTrue reports the current Boolean assignment of lit.
	IsTrue(lit Literal) bool
	// GetValue returns the current numeric value of e.
	GetValue(e term.ExprID) (N, bool)
	// IsUnit reports whether lit's underlying clause is a unit clause.
	IsUnit(lit Literal) bool
	// UnitLiterals iterates over every currently unit literal.
	UnitLiterals() iter.Seq[Literal]
	// InputAssertions iterates over the top-level assertions.
	InputAssertions() iter.Seq[term.ExprID]
	// Subterms iterates over every registered subterm expression.
	Subterms() iter.Seq[term.ExprID]
	// Parents iterates over the parent expressions of e in the AST (not
	// to be confused with term DAG Sum/Mul parents, which the engine
	// tracks itself).
	Parents(e term.ExprID) iter.Seq[term.ExprID]
	// Clauses iterates over every clause.
	Clauses() iter.Seq[Clause]
	// GetClause returns the clause at index i.
	GetClause(i int) Clause
	// Unsat reports whether the context has detected a Boolean conflict.
	Unsat() bool
	// NumBoolVars returns the number of Boolean variables.
	NumBoolVars() int
	// Rand returns a pseudo-random float in [0,1).
	Rand() float64
	// RandN returns a pseudo-random integer in [0,n).
	RandN(n int) int
	// Inc reports whether the search should keep running; polled each
	// iteration of global_search.
	Inc() bool
	// NewValueEH notifies other theories that e's value changed.
	NewValueEH(e term.ExprID)
	// Flip inverts the Boolean assignment of bv.
	Flip(bv atom.BoolVar) error
	// AddNewTerm notifies the context a fresh term was interned.
	AddNewTerm(e term.ExprID)
	// AssignEval notifies the context lit was assigned by evaluation.
	AssignEval(lit Literal) error
	// AssignPropagate notifies the context lit was assigned by
	// propagation from clause c.
	AssignPropagate(lit Literal, c Clause) error
}

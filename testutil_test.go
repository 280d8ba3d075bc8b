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

import (
	"iter"
	"math/rand"

	"github.com/spjmurray/go-sls-arith/pkg/atom"
	"github.com/spjmurray/go-sls-arith/pkg/num"
	"github.com/spjmurray/go-sls-arith/pkg/term"
)

// fakeExpr is a minimal term.Expr[num.Checked64] used to drive the term
// store's add_args walk, mirroring the fakeExpr helpers already used by
// pkg/term and pkg/atom's own tests.
type fakeExpr struct {
	id      term.ExprID
	kind    term.ExprKind
	numeral num.Checked64
	args    []term.Expr[num.Checked64]
	isInt   bool
}

func (e *fakeExpr) ID() term.ExprID                  { return e.id }
func (e *fakeExpr) Kind() term.ExprKind              { return e.kind }
func (e *fakeExpr) Numeral() num.Checked64           { return e.numeral }
func (e *fakeExpr) Args() []term.Expr[num.Checked64] { return e.args }
func (e *fakeExpr) IsInt() bool                      { return e.isInt }

func leaf(id term.ExprID) *fakeExpr {
	return &fakeExpr{id: id, kind: term.EKindAtom, isInt: true}
}

func numeralE(id term.ExprID, n int64) *fakeExpr {
	return &fakeExpr{id: id, kind: term.EKindNumeral, numeral: num.Int64Of(n), isInt: true}
}

func addE(id term.ExprID, args ...term.Expr[num.Checked64]) *fakeExpr {
	return &fakeExpr{id: id, kind: term.EKindAdd, args: args, isInt: true}
}

func subE(id term.ExprID, a, b term.Expr[num.Checked64]) *fakeExpr {
	return &fakeExpr{id: id, kind: term.EKindSub, args: []term.Expr[num.Checked64]{a, b}, isInt: true}
}

func mulE(id term.ExprID, args ...term.Expr[num.Checked64]) *fakeExpr {
	return &fakeExpr{id: id, kind: term.EKindMul, args: args, isInt: true}
}

func modE(id term.ExprID, a, b term.Expr[num.Checked64]) *fakeExpr {
	return &fakeExpr{id: id, kind: term.EKindMod, args: []term.Expr[num.Checked64]{a, b}, isInt: true}
}

func absE(id term.ExprID, a term.Expr[num.Checked64]) *fakeExpr {
	return &fakeExpr{id: id, kind: term.EKindAbs, args: []term.Expr[num.Checked64]{a}, isInt: true}
}

func sliceSeq[T any](items []T) iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, v := range items {
			if !yield(v) {
				return
			}
		}
	}
}

// testCtx is a minimal in-memory Ctx[num.Checked64]: it owns the Boolean
// assignment directly and answers everything else from fields the test
// populates up front, standing in for a real CDCL context.
type testCtx struct {
	as      *atom.Store[num.Checked64]
	assign  map[atom.BoolVar]bool
	unitBV  map[atom.BoolVar]bool
	unit    []Literal
	clauses []Clause
	rng     *rand.Rand
	inc     bool

	// forceRandN, when non-nil, pins RandN(n)'s result for a given n so
	// tests can make an otherwise-random branch deterministic without
	// hand-deriving what the seeded generator would produce.
	forceRandN map[int]int
}

var _ Ctx[num.Checked64] = (*testCtx)(nil)

func newTestCtx(as *atom.Store[num.Checked64]) *testCtx {
	return &testCtx{
		as:     as,
		assign: map[atom.BoolVar]bool{},
		unitBV: map[atom.BoolVar]bool{},
		rng:    rand.New(rand.NewSource(1)),
		inc:    true,
	}
}

func (c *testCtx) Atom(bv atom.BoolVar) *atom.Atom[num.Checked64] { return c.as.Atom(bv) }

func (c *testCtx) AtomToBoolVar(term.ExprID) (atom.BoolVar, bool) { return 0, false }

func (c *testCtx) IsTrue(lit Literal) bool { return c.assign[lit.BoolVar] != lit.Negated }

func (c *testCtx) GetValue(term.ExprID) (num.Checked64, bool) {
	return num.Zero[num.Checked64](), false
}

func (c *testCtx) IsUnit(lit Literal) bool { return c.unitBV[lit.BoolVar] }

func (c *testCtx) UnitLiterals() iter.Seq[Literal] { return sliceSeq(c.unit) }

func (c *testCtx) InputAssertions() iter.Seq[term.ExprID] { return sliceSeq[term.ExprID](nil) }

func (c *testCtx) Subterms() iter.Seq[term.ExprID] { return sliceSeq[term.ExprID](nil) }

func (c *testCtx) Parents(term.ExprID) iter.Seq[term.ExprID] { return sliceSeq[term.ExprID](nil) }

func (c *testCtx) Clauses() iter.Seq[Clause] { return sliceSeq(c.clauses) }

func (c *testCtx) GetClause(i int) Clause { return c.clauses[i] }

func (c *testCtx) Unsat() bool { return false }

func (c *testCtx) NumBoolVars() int { return len(c.assign) }

func (c *testCtx) Rand() float64 { return c.rng.Float64() }

func (c *testCtx) RandN(n int) int {
	if n <= 0 {
		return 0
	}
	if v, ok := c.forceRandN[n]; ok {
		return v
	}
	return c.rng.Intn(n)
}

func (c *testCtx) Inc() bool { return c.inc }

func (c *testCtx) NewValueEH(term.ExprID) {}

func (c *testCtx) Flip(bv atom.BoolVar) error {
	c.assign[bv] = !c.assign[bv]
	return nil
}

func (c *testCtx) AddNewTerm(term.ExprID) {}

func (c *testCtx) AssignEval(Literal) error { return nil }

func (c *testCtx) AssignPropagate(Literal, Clause) error { return nil }

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

package atom

import (
	"testing"

	"github.com/spjmurray/go-sls-arith/pkg/num"
	"github.com/spjmurray/go-sls-arith/pkg/term"
)

type fakeExpr struct {
	id      term.ExprID
	kind    term.ExprKind
	numeral num.Checked64
	args    []term.Expr[num.Checked64]
	isInt   bool
}

func (e *fakeExpr) ID() term.ExprID                      { return e.id }
func (e *fakeExpr) Kind() term.ExprKind                  { return e.kind }
func (e *fakeExpr) Numeral() num.Checked64               { return e.numeral }
func (e *fakeExpr) Args() []term.Expr[num.Checked64]     { return e.args }
func (e *fakeExpr) IsInt() bool                          { return e.isInt }

func atomLeaf(id term.ExprID) *fakeExpr {
	return &fakeExpr{id: id, kind: term.EKindAtom, isInt: true}
}

func numLeaf(id term.ExprID, n int64) *fakeExpr {
	return &fakeExpr{id: id, kind: term.EKindNumeral, numeral: num.Int64Of(n), isInt: true}
}

func subExpr(id term.ExprID, a, b term.Expr[num.Checked64]) *fakeExpr {
	return &fakeExpr{id: id, kind: term.EKindSub, args: []term.Expr[num.Checked64]{a, b}, isInt: true}
}

func mulExpr(id term.ExprID, args ...term.Expr[num.Checked64]) *fakeExpr {
	return &fakeExpr{id: id, kind: term.EKindMul, args: args, isInt: true}
}

// TestInitIneqLinear builds x - y <= 0 and checks the canonicalised atom.
func TestInitIneqLinear(t *testing.T) {
	ts := term.NewStore[num.Checked64]()
	as := NewStore[num.Checked64]()

	x := atomLeaf(1)
	y := atomLeaf(2)
	vx := ts.MkVar(x)
	vy := ts.MkVar(y)
	ts.Var(vx).SetValue(num.Int64Of(3))
	ts.Var(vy).SetValue(num.Int64Of(5))

	e := subExpr(3, x, y)

	a, err := as.InitIneq(ts, BoolVar(10), OpLE, e)
	if err != nil {
		t.Fatalf("InitIneq: %v", err)
	}
	if !a.IsLinear {
		t.Fatalf("expected linear atom")
	}
	if got, want := a.ArgsValue, num.Int64Of(-2); got.Cmp(want) != 0 {
		t.Fatalf("args_value = %v, want %v", got, want)
	}
	if len(a.Args) != 2 {
		t.Fatalf("expected 2 args, got %d", len(a.Args))
	}

	if got := ts.Var(vx).LinearOccurs; len(got) != 1 || got[0].BoolVar != 10 {
		t.Fatalf("expected x.linear_occurs to reference bv 10, got %+v", got)
	}

	if as.Atom(BoolVar(10)) != a {
		t.Fatalf("Atom(bv) did not return the same atom")
	}
}

func TestInitIneqNonlinear(t *testing.T) {
	ts := term.NewStore[num.Checked64]()
	as := NewStore[num.Checked64]()

	x := atomLeaf(1)
	y := atomLeaf(2)
	vx := ts.MkVar(x)
	vy := ts.MkVar(y)
	ts.Var(vx).SetValue(num.Int64Of(2))
	ts.Var(vy).SetValue(num.Int64Of(3))

	// x*y - 10 == 0
	e := subExpr(3, mulExpr(4, x, y), numLeaf(5, 10))

	a, err := as.InitIneq(ts, BoolVar(1), OpEQ, e)
	if err != nil {
		t.Fatalf("InitIneq: %v", err)
	}
	if a.IsLinear {
		t.Fatalf("expected non-linear atom")
	}
	entries, ok := a.Nonlinear[vx]
	if !ok || len(entries) != 1 {
		t.Fatalf("expected a nonlinear entry for x, got %+v", a.Nonlinear)
	}
	if entries[0].Power != 1 {
		t.Fatalf("expected power 1 for x in x*y, got %d", entries[0].Power)
	}
}

func TestDistinctViolated(t *testing.T) {
	ts := term.NewStore[num.Checked64]()
	as := NewStore[num.Checked64]()

	x := ts.MkVar(atomLeaf(1))
	y := ts.MkVar(atomLeaf(2))
	z := ts.MkVar(atomLeaf(3))
	ts.Var(x).SetValue(num.Int64Of(1))
	ts.Var(y).SetValue(num.Int64Of(2))
	ts.Var(z).SetValue(num.Int64Of(2))

	idx := as.Distinct([]term.VarID{x, y, z})
	g := as.DistinctGroup(idx)

	valueOf := func(v term.VarID) num.Checked64 { return ts.Value(v) }
	a, b, ok := g.Violated(valueOf)
	if !ok {
		t.Fatalf("expected a collision")
	}
	if a != y && a != z {
		t.Fatalf("unexpected colliding pair %v, %v", a, b)
	}

	if !g.Taken(valueOf, z, num.Int64Of(2)) {
		t.Fatalf("expected value 2 to be taken by y")
	}
	if g.Taken(valueOf, z, num.Int64Of(99)) {
		t.Fatalf("value 99 should not be taken")
	}
}

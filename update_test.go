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
	"math"
	"testing"

	"github.com/spjmurray/go-sls-arith/pkg/atom"
	"github.com/spjmurray/go-sls-arith/pkg/num"
	"github.com/spjmurray/go-sls-arith/pkg/term"
)

func TestUpdatePropagatesThroughSum(t *testing.T) {
	ts := term.NewStore[num.Checked64]()
	as := atom.NewStore[num.Checked64]()

	x := ts.MkVar(leaf(1))
	y := ts.MkVar(leaf(2))
	ts.Var(x).SetValue(num.Int64Of(2))
	ts.Var(y).SetValue(num.Int64Of(3))

	sumVar := ts.MkTerm(addE(3, leaf(1), leaf(2))) // x + y

	ctx := newTestCtx(as)
	eng := NewEngine[num.Checked64](ts, as, ctx, DefaultConfig())

	if err := eng.Update(x, num.Int64Of(10)); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got, want := ts.Value(sumVar), num.Int64Of(13); got.Cmp(want) != 0 {
		t.Fatalf("sum = %v, want %v", got, want)
	}
}

func TestUpdateFlipsDisagreeingBoolVar(t *testing.T) {
	ts := term.NewStore[num.Checked64]()
	as := atom.NewStore[num.Checked64]()

	x := ts.MkVar(leaf(1))
	ts.Var(x).SetValue(num.Int64Of(0))

	// atom: x <= 0
	a, err := as.InitIneq(ts, atom.BoolVar(1), atom.OpLE, leaf(1))
	if err != nil {
		t.Fatalf("InitIneq: %v", err)
	}

	ctx := newTestCtx(as)
	ctx.assign[1] = true // "x <= 0" asserted true, currently satisfied

	eng := NewEngine[num.Checked64](ts, as, ctx, DefaultConfig())

	if err := eng.Update(x, num.Int64Of(5)); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if ctx.assign[1] {
		t.Fatalf("expected bool var 1 to be flipped false once x=5 violates x<=0")
	}
	if got, want := a.ArgsValue, num.Int64Of(5); got.Cmp(want) != 0 {
		t.Fatalf("cached args_value = %v, want %v", got, want)
	}
}

// TestUpdateAbortsAtomicallyWhenAParentOverflows builds x + y with y
// pinned near math.MaxInt64: x's own commit (and its own, empty, set of
// product monomials) would succeed in isolation, but propagating it up
// through the sum parent overflows. The whole cascade must be rejected
// before any commit happens - x must be left at its original value, not
// partially updated with the parent desynchronised.
func TestUpdateAbortsAtomicallyWhenAParentOverflows(t *testing.T) {
	ts := term.NewStore[num.Checked64]()
	as := atom.NewStore[num.Checked64]()

	x := ts.MkVar(leaf(1))
	y := ts.MkVar(leaf(2))
	ts.Var(x).SetValue(num.Int64Of(0))
	ts.Var(y).SetValue(num.Int64Of(math.MaxInt64 - 1))

	sumVar := ts.MkTerm(addE(3, leaf(1), leaf(2))) // x + y

	ctx := newTestCtx(as)
	eng := NewEngine[num.Checked64](ts, as, ctx, DefaultConfig())

	if err := eng.Update(x, num.Int64Of(5)); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got, want := ts.Value(x), num.Int64Of(0); got.Cmp(want) != 0 {
		t.Fatalf("x = %v, want unchanged %v: overflow in the sum parent must abort the whole cascade", got, want)
	}
	if got, want := ts.Value(sumVar), num.Int64Of(math.MaxInt64-1); got.Cmp(want) != 0 {
		t.Fatalf("sum = %v, want unchanged %v", got, want)
	}
	if eng.stats.FailedUpdates != 1 {
		t.Fatalf("FailedUpdates = %d, want 1", eng.stats.FailedUpdates)
	}
}

func TestIsPermittedUpdateRejectsZeroAndReversal(t *testing.T) {
	ts := term.NewStore[num.Checked64]()
	as := atom.NewStore[num.Checked64]()
	x := ts.MkVar(leaf(1))
	ts.Var(x).SetValue(num.Int64Of(0))

	ctx := newTestCtx(as)
	eng := NewEngine[num.Checked64](ts, as, ctx, DefaultConfig())

	if _, ok := eng.IsPermittedUpdate(x, num.Int64Of(0)); ok {
		t.Fatalf("zero delta should not be permitted")
	}

	if err := eng.Update(x, num.Int64Of(5)); err != nil {
		t.Fatalf("Update: %v", err)
	}
	eng.recordMove(x, num.Int64Of(5))

	if _, ok := eng.IsPermittedUpdate(x, num.Int64Of(-5)); ok {
		t.Fatalf("exact reversal of the last committed move should not be permitted")
	}
}

func TestTabuBanWindowRejectsFreshDelta(t *testing.T) {
	ts := term.NewStore[num.Checked64]()
	as := atom.NewStore[num.Checked64]()
	x := ts.MkVar(leaf(1))
	ts.Var(x).SetValue(num.Int64Of(0))

	ctx := newTestCtx(as)
	eng := NewEngine[num.Checked64](ts, as, ctx, DefaultConfig())

	eng.recordMove(x, num.Int64Of(1))

	if !ts.Var(x).IsTabu(eng.step) {
		t.Fatalf("expected x to be tabu immediately after recordMove")
	}
	if _, ok := eng.IsPermittedUpdate(x, num.Int64Of(2)); ok {
		t.Fatalf("tabu-banned variable should reject an unrelated fresh delta")
	}
}

func TestIsPermittedUpdateClampsToBound(t *testing.T) {
	ts := term.NewStore[num.Checked64]()
	as := atom.NewStore[num.Checked64]()
	x := ts.MkVar(leaf(1))
	ts.Var(x).SetValue(num.Int64Of(3))
	term.AddLeBound(&ts.Var(x).Hi, num.Int64Of(5))

	ctx := newTestCtx(as)
	eng := NewEngine[num.Checked64](ts, as, ctx, DefaultConfig())

	delta, ok := eng.IsPermittedUpdate(x, num.Int64Of(10))
	if !ok {
		t.Fatalf("expected a bound-crossing delta to be clamped, not rejected")
	}
	newVal, err := num.Int64Of(3).Add(delta)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if got, want := newVal, num.Int64Of(5); got.Cmp(want) != 0 {
		t.Fatalf("clamped target = %v, want %v", got, want)
	}
}

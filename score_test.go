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

func TestComputeScoreRewardsAPureMake(t *testing.T) {
	ts := term.NewStore[num.Checked64]()
	as := atom.NewStore[num.Checked64]()

	x := ts.MkVar(leaf(1))
	ts.Var(x).SetValue(num.Int64Of(5))

	_, err := as.InitIneq(ts, atom.BoolVar(1), atom.OpLE, leaf(1))
	if err != nil {
		t.Fatalf("InitIneq: %v", err)
	}

	ctx := newTestCtx(as)
	ctx.assign[1] = true

	eng := NewEngine[num.Checked64](ts, as, ctx, DefaultConfig())

	if got, want := eng.ComputeScore(x, num.Int64Of(-5)), 1.0; got != want {
		t.Fatalf("ComputeScore = %v, want %v", got, want)
	}
}

func TestComputeScorePenalisesAPureBreak(t *testing.T) {
	ts := term.NewStore[num.Checked64]()
	as := atom.NewStore[num.Checked64]()

	y := ts.MkVar(leaf(1))
	ts.Var(y).SetValue(num.Int64Of(-5))

	_, err := as.InitIneq(ts, atom.BoolVar(1), atom.OpLE, leaf(1))
	if err != nil {
		t.Fatalf("InitIneq: %v", err)
	}

	ctx := newTestCtx(as)
	ctx.assign[1] = true

	eng := NewEngine[num.Checked64](ts, as, ctx, DefaultConfig())

	if got, want := eng.ComputeScore(y, num.Int64Of(10)), 1e-7; got != want {
		t.Fatalf("ComputeScore = %v, want %v", got, want)
	}
}

// TestComputeScoreRewardsAMakeThroughAProductVariable builds x*y >= 10
// (10 - x*y <= 0) with x=y=2, violated. x never appears in its own
// LinearOccurs (only the product variable xy does), so scoring the move
// x: 2 -> 5 (which satisfies the atom) must go through the Muls/
// mul_value_without path rather than LinearOccurs.
func TestComputeScoreRewardsAMakeThroughAProductVariable(t *testing.T) {
	ts := term.NewStore[num.Checked64]()
	as := atom.NewStore[num.Checked64]()

	x := ts.MkVar(leaf(1))
	y := ts.MkVar(leaf(2))
	ts.Var(x).SetValue(num.Int64Of(2))
	ts.Var(y).SetValue(num.Int64Of(2))

	e := subE(5, numeralE(4, 10), mulE(3, leaf(1), leaf(2)))
	if _, err := as.InitIneq(ts, atom.BoolVar(1), atom.OpLE, e); err != nil {
		t.Fatalf("InitIneq: %v", err)
	}

	ctx := newTestCtx(as)
	ctx.assign[1] = true

	eng := NewEngine[num.Checked64](ts, as, ctx, DefaultConfig())

	if got := len(ts.Var(x).LinearOccurs); got != 0 {
		t.Fatalf("expected x to have no direct LinearOccurs, got %d", got)
	}

	if got, want := eng.ComputeScore(x, num.Int64Of(3)), 1.0; got != want {
		t.Fatalf("ComputeScore = %v, want %v", got, want)
	}
}

func TestNewScoreSatisfiedAtomIsOne(t *testing.T) {
	ts := term.NewStore[num.Checked64]()
	as := atom.NewStore[num.Checked64]()

	x := ts.MkVar(leaf(1))
	ts.Var(x).SetValue(num.Int64Of(-1))

	a, err := as.InitIneq(ts, atom.BoolVar(1), atom.OpLE, leaf(1))
	if err != nil {
		t.Fatalf("InitIneq: %v", err)
	}

	ctx := newTestCtx(as)
	eng := NewEngine[num.Checked64](ts, as, ctx, DefaultConfig())

	if got := eng.NewScore(a, true); got != 1 {
		t.Fatalf("NewScore(satisfied) = %v, want 1", got)
	}
}

func TestNewScoreViolatedAtomIsShapedBySigmoid(t *testing.T) {
	ts := term.NewStore[num.Checked64]()
	as := atom.NewStore[num.Checked64]()

	x := ts.MkVar(leaf(1))
	ts.Var(x).SetValue(num.Int64Of(100))

	a, err := as.InitIneq(ts, atom.BoolVar(1), atom.OpLE, leaf(1))
	if err != nil {
		t.Fatalf("InitIneq: %v", err)
	}

	ctx := newTestCtx(as)
	eng := NewEngine[num.Checked64](ts, as, ctx, DefaultConfig())

	want := 1 - (100.0*100.0)/(maxScoreValue*maxScoreValue)
	if got := eng.NewScore(a, true); math.Abs(got-want) > 1e-9 {
		t.Fatalf("NewScore(violated) = %v, want %v", got, want)
	}
}

func TestTopScoreSumsWeightedPerAtomScores(t *testing.T) {
	ts := term.NewStore[num.Checked64]()
	as := atom.NewStore[num.Checked64]()

	x := ts.MkVar(leaf(1))
	y := ts.MkVar(leaf(2))
	ts.Var(x).SetValue(num.Int64Of(-1)) // satisfied
	ts.Var(y).SetValue(num.Int64Of(100)) // violated

	if _, err := as.InitIneq(ts, atom.BoolVar(1), atom.OpLE, leaf(1)); err != nil {
		t.Fatalf("InitIneq: %v", err)
	}
	if _, err := as.InitIneq(ts, atom.BoolVar(2), atom.OpLE, leaf(2)); err != nil {
		t.Fatalf("InitIneq: %v", err)
	}

	ctx := newTestCtx(as)
	ctx.assign[1] = true
	ctx.assign[2] = true

	eng := NewEngine[num.Checked64](ts, as, ctx, DefaultConfig())
	eng.StartPropagation()

	w := float64(eng.cfg.PawsInit)
	shaped := 1 - (100.0*100.0)/(maxScoreValue*maxScoreValue)
	want := w*1 + w*shaped

	if got := eng.TopScore(); math.Abs(got-want) > 1e-9 {
		t.Fatalf("TopScore = %v, want %v", got, want)
	}
}

func TestPawsRecalibrateDecrementsSatisfiedWeight(t *testing.T) {
	ts := term.NewStore[num.Checked64]()
	as := atom.NewStore[num.Checked64]()

	x := ts.MkVar(leaf(1))
	ts.Var(x).SetValue(num.Int64Of(-1))

	if _, err := as.InitIneq(ts, atom.BoolVar(1), atom.OpLE, leaf(1)); err != nil {
		t.Fatalf("InitIneq: %v", err)
	}

	ctx := newTestCtx(as)
	ctx.assign[1] = true
	ctx.forceRandN = map[int]int{2048: 0} // always below PawsSp: always recalibrate

	eng := NewEngine[num.Checked64](ts, as, ctx, DefaultConfig())
	eng.StartPropagation()
	before := eng.weight[1]

	eng.pawsRecalibrate()

	if got, want := eng.weight[1], before-1; got != want {
		t.Fatalf("weight = %d, want %d (decremented, satisfied atom)", got, want)
	}
}

func TestPawsRecalibrateNeverDropsWeightBelowOne(t *testing.T) {
	ts := term.NewStore[num.Checked64]()
	as := atom.NewStore[num.Checked64]()

	x := ts.MkVar(leaf(1))
	ts.Var(x).SetValue(num.Int64Of(-1))

	if _, err := as.InitIneq(ts, atom.BoolVar(1), atom.OpLE, leaf(1)); err != nil {
		t.Fatalf("InitIneq: %v", err)
	}

	ctx := newTestCtx(as)
	ctx.assign[1] = true
	ctx.forceRandN = map[int]int{2048: 0}

	eng := NewEngine[num.Checked64](ts, as, ctx, DefaultConfig())
	eng.weight[1] = 1
	eng.touched[1] = 1

	eng.pawsRecalibrate()

	if got := eng.weight[1]; got != 1 {
		t.Fatalf("weight = %d, want floor of 1", got)
	}
}

func TestPawsRecalibrateIncrementsViolatedWeight(t *testing.T) {
	ts := term.NewStore[num.Checked64]()
	as := atom.NewStore[num.Checked64]()

	x := ts.MkVar(leaf(1))
	ts.Var(x).SetValue(num.Int64Of(100))

	if _, err := as.InitIneq(ts, atom.BoolVar(1), atom.OpLE, leaf(1)); err != nil {
		t.Fatalf("InitIneq: %v", err)
	}

	ctx := newTestCtx(as)
	ctx.assign[1] = true
	ctx.forceRandN = map[int]int{2048: 2047} // always at/above PawsSp: always hits the increment branch

	eng := NewEngine[num.Checked64](ts, as, ctx, DefaultConfig())
	eng.StartPropagation()
	before := eng.weight[1]

	eng.pawsRecalibrate()

	if got, want := eng.weight[1], before+1; got != want {
		t.Fatalf("weight = %d, want %d (incremented, violated atom)", got, want)
	}
}

func TestPawsRecalibrateSkipsAboveThreshold(t *testing.T) {
	ts := term.NewStore[num.Checked64]()
	as := atom.NewStore[num.Checked64]()

	x := ts.MkVar(leaf(1))
	ts.Var(x).SetValue(num.Int64Of(-1))

	if _, err := as.InitIneq(ts, atom.BoolVar(1), atom.OpLE, leaf(1)); err != nil {
		t.Fatalf("InitIneq: %v", err)
	}

	ctx := newTestCtx(as)
	ctx.assign[1] = true
	// Above PawsSp lands in the increment-if-falsified branch; the atom is
	// satisfied, so that branch is a no-op and weight stays put.
	ctx.forceRandN = map[int]int{2048: 2047}

	eng := NewEngine[num.Checked64](ts, as, ctx, DefaultConfig())
	eng.StartPropagation()
	before := eng.weight[1]

	eng.pawsRecalibrate()

	if got := eng.weight[1]; got != before {
		t.Fatalf("weight = %d, want unchanged %d", got, before)
	}
}

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

	"github.com/spjmurray/go-sls-arith/pkg/atom"
	"github.com/spjmurray/go-sls-arith/pkg/num"
	"github.com/spjmurray/go-sls-arith/pkg/term"
)

// maxScoreValue is the ceiling against which NewScore's sigmoidal shaping
// is normalised (spec §4.G).
const maxScoreValue = 1000.0

// floater is satisfied by both num.Rational and num.Checked64; it is
// deliberately not part of num.Num[T] so the core arithmetic contract
// stays exact, but NewScore's sigmoidal shaping only ever feeds a
// heuristic, never a correctness decision.
type floater interface {
	Float64() float64
}

// ComputeScore implements compute_score for a candidate (v, delta): it
// counts, over every atom whose cached value moving v by delta would
// change, how many transition false->true (make) and true->false
// (break), then folds the two counts into the probability-of-acceptance
// metric described in spec §4.E. v's direct atoms come from
// LinearOccurs; v may additionally reach atoms indirectly, as a factor
// of a product variable that itself has LinearOccurs, handled via
// mul_value_without the same way isLinear/isQuadratic do.
func (e *Engine[N]) ComputeScore(v term.VarID, delta N) float64 {
	var make_, breaks int
	brokeUnitTabu := false

	tally := func(bv atom.BoolVar, change N) {
		a := e.as.Atom(bv)
		if a == nil {
			return
		}

		lit := Literal{BoolVar: bv}
		positive := e.ctx.IsTrue(lit)
		isInt := e.atomIsInt(a)

		before := dtt(positive, a, isInt).IsZero()

		newVal, ok := dttWithChange(positive, a, change, isInt)
		if !ok {
			return
		}
		after := newVal.IsZero()

		switch {
		case !before && after:
			make_++
		case before && !after:
			breaks++
			if e.tabuActive && e.ctx.IsUnit(lit) {
				brokeUnitTabu = true
			}
		}
	}

	for _, occ := range e.ts.Var(v).LinearOccurs {
		change, err := occ.Coeff.Mul(delta)
		if err != nil {
			continue
		}
		tally(atom.BoolVar(occ.BoolVar), change)
	}

	for _, mid := range e.ts.Var(v).Muls {
		prodDelta, outer, err := e.nonlinearProductDelta(mid, v, delta)
		if err != nil {
			continue
		}
		for _, occ := range e.ts.Var(outer).LinearOccurs {
			change, err := occ.Coeff.Mul(prodDelta)
			if err != nil {
				continue
			}
			tally(atom.BoolVar(occ.BoolVar), change)
		}
	}

	if brokeUnitTabu {
		return 0
	}

	result := make_ - breaks
	switch {
	case result < 0:
		return 1e-7
	case result == 0:
		return 2e-6
	default:
		return math.Pow(e.cfg.CB, float64(-breaks))
	}
}

// nonlinearProductDelta computes how much the value of the product
// variable owning mid would change if x moved by delta, holding every
// other factor at its current value: (value(x)+delta)^p *
// mul_value_without(outer, x) - value(outer).
func (e *Engine[N]) nonlinearProductDelta(mid term.MulID, x term.VarID, delta N) (N, term.VarID, error) {
	mul := e.ts.Mul(mid)
	outer := mul.Var

	power, ok := mul.PowerOfVar(x)
	if !ok {
		return num.Zero[N](), outer, ErrUnexpected
	}
	without, err := mulValueWithout(e.ts, outer, x)
	if err != nil {
		return num.Zero[N](), outer, err
	}
	newX, err := e.ts.Value(x).Add(delta)
	if err != nil {
		return num.Zero[N](), outer, err
	}
	newPow, err := newX.PowerOf(power)
	if err != nil {
		return num.Zero[N](), outer, err
	}
	newProd, err := without.Mul(newPow)
	if err != nil {
		return num.Zero[N](), outer, err
	}
	prodDelta, err := newProd.Sub(e.ts.Value(outer))
	if err != nil {
		return num.Zero[N](), outer, err
	}
	return prodDelta, outer, nil
}

// NewScore implements the per-atom score(a) of spec §4.G: a sigmoidal
// shaping of the atom's distance from its boundary, normalised against
// maxScoreValue, or exactly 1 when the atom already satisfies positive.
func (e *Engine[N]) NewScore(a *atom.Atom[N], positive bool) float64 {
	isInt := e.atomIsInt(a)
	if dtt(positive, a, isInt).IsZero() {
		return 1
	}

	val, ok := any(a.ArgsValue).(floater)
	if !ok {
		return 0
	}
	f := val.Float64()
	if f > maxScoreValue {
		f = maxScoreValue
	}
	if f < -maxScoreValue {
		f = -maxScoreValue
	}
	shaped := 1 - (f*f)/(maxScoreValue*maxScoreValue)
	if shaped < 0 {
		shaped = 0
	}
	return shaped
}

// TopScore implements top_score = Σ weight(a)·score(a) over every root
// assertion the engine has seeded PAWS state for.
func (e *Engine[N]) TopScore() float64 {
	var total float64
	for bv, a := range e.as.Atoms() {
		w, ok := e.weight[bv]
		if !ok {
			continue
		}
		positive := e.ctx.IsTrue(Literal{BoolVar: bv})
		total += float64(w) * e.NewScore(a, positive)
	}
	return total
}

// pawsRecalibrate implements the PAWS weight adjustment step of
// global_search's random_update branch: for every root, with
// probability paws_sp/2048 decrement its weight if currently true,
// otherwise increment it if currently false. Weight never drops below 1.
func (e *Engine[N]) pawsRecalibrate() {
	for bv := range e.as.Atoms() {
		positive := e.ctx.IsTrue(Literal{BoolVar: bv})
		a := e.as.Atom(bv)
		isInt := e.atomIsInt(a)
		sat := dtt(positive, a, isInt).IsZero()

		if e.ctx.RandN(2048) < e.cfg.PawsSp {
			if sat && e.weight[bv] > 1 {
				e.weight[bv]--
			}
		} else if !sat {
			e.weight[bv]++
		}
	}
}

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

	"github.com/spjmurray/go-util/pkg/set"

	"github.com/spjmurray/go-sls-arith/pkg/atom"
	"github.com/spjmurray/go-sls-arith/pkg/term"
)

// GlobalSearch implements global_search: it runs up to maxMoves
// iterations of check_restart -> UCB candidate pick -> fixable-closure
// computation -> random_inc_dec/hillclimb/random_update, stopping early
// once no false root assertion has a fixable variable left to move or
// ctx.Inc() goes false. It reports whether a satisfying assignment was
// reached.
func (e *Engine[N]) GlobalSearch(maxMoves int) bool {
	for i := 0; i < maxMoves; i++ {
		if !e.ctx.Inc() {
			return false
		}

		e.CheckRestart()

		bv, fixable, ok := e.pickUCBCandidate()
		if !ok {
			return e.IsSat()
		}

		e.touched[bv]++
		e.touchedTotal++

		switch {
		case e.ctx.RandN(2048) < e.cfg.WP:
			e.randomIncDec(fixable)
		default:
			if moved, err := e.hillclimb(bv, fixable); err != nil {
				return false
			} else if !moved {
				e.randomUpdate(fixable)
				e.pawsRecalibrate()
			}
		}

		e.movesSinceRestart++
	}
	return e.IsSat()
}

// pickUCBCandidate implements the first step of global_search's main
// loop: among false root assertions with a non-empty fixable set,
// maximise score + ucb_constant*sqrt(ln(touched_total)/touched(a)) +
// ucb_noise*rand(); without UCB (UCBConstant == 0) fall back to a
// uniform pick.
func (e *Engine[N]) pickUCBCandidate() (atom.BoolVar, []term.VarID, bool) {
	type cand struct {
		bv      atom.BoolVar
		fixable []term.VarID
		score   float64
	}
	var cands []cand

	for bv, a := range e.as.Atoms() {
		positive := e.ctx.IsTrue(Literal{BoolVar: bv})
		if dtt(positive, a, e.atomIsInt(a)).IsZero() {
			continue
		}
		fixable := e.getFixableVars(bv, a)
		if len(fixable) == 0 {
			continue
		}
		score := e.NewScore(a, positive)
		if e.cfg.UCBConstant != 0 {
			touched := e.touched[bv]
			if touched <= 0 {
				touched = 1
			}
			total := e.touchedTotal
			if total < 1 {
				total = 1
			}
			score += e.cfg.UCBConstant*math.Sqrt(math.Log(total)/touched) + e.cfg.UCBNoise*e.ctx.Rand()
		}
		cands = append(cands, cand{bv: bv, fixable: fixable, score: score})
	}

	if len(cands) == 0 {
		return 0, nil, false
	}

	if e.cfg.UCBConstant == 0 {
		c := cands[e.ctx.RandN(len(cands))]
		return c.bv, c.fixable, true
	}

	best := cands[0]
	for _, c := range cands[1:] {
		if c.score > best.score {
			best = c
		}
	}
	return best.bv, best.fixable, true
}

// getFixableVars implements the fixable_exprs closure of spec §4.G,
// memoised per root Boolean variable: every leaf input variable reaching
// the atom through sum/product definitions.
func (e *Engine[N]) getFixableVars(bv atom.BoolVar, a *atom.Atom[N]) []term.VarID {
	if cached, ok := e.fixableCache[bv]; ok {
		return cached
	}

	seen := set.New[term.VarID]()
	var out []term.VarID
	var walk func(v term.VarID)
	walk = func(v term.VarID) {
		if setContains(seen, v) {
			return
		}
		seen.Add(v)
		vr := e.ts.Var(v)
		switch vr.Def {
		case term.DefSum:
			for _, arg := range e.ts.Sum(term.SumID(vr.DefIdx)).Args {
				walk(arg.Var)
			}
		case term.DefMul:
			for _, f := range e.ts.Mul(term.MulID(vr.DefIdx)).Monomial {
				walk(f.Var)
			}
		default:
			out = append(out, v)
		}
	}
	for _, arg := range a.Args {
		walk(arg.Var)
	}

	e.fixableCache[bv] = out
	return out
}

// hillclimb implements the hillclimb branch: gather every candidate
// (v, delta) over fixable and hand them to ApplyUpdate, which scores
// and picks one by the same weighted-probabilistic selection every
// other move application uses, not a plain best-score argmax. fixable
// holds leaf variables, which for a nonlinear atom never appear
// directly in a.Args (only the product variable does), so candidates
// are gathered via a.Nonlinear rather than a.Args - the same
// classify-then-propose step find_nl_moves uses, making the linear and
// quadratic proposers reachable from here too.
func (e *Engine[N]) hillclimb(bv atom.BoolVar, fixable []term.VarID) (bool, error) {
	a := e.as.Atom(bv)
	if a == nil {
		return false, ErrUnexpected
	}
	positive := e.ctx.IsTrue(Literal{BoolVar: bv})
	isInt := e.atomIsInt(a)

	var candidates []Move[N]
	for _, v := range fixable {
		for _, delta := range e.nlCandidateDeltas(a, v, positive, isInt) {
			candidates = append(candidates, Move[N]{Var: v, Delta: delta})
		}
	}
	if len(candidates) == 0 {
		return false, nil
	}
	return e.ApplyUpdate(candidates)
}

// randomUpdate implements the random_update fallback: apply a single
// randomly picked +-1 move over fixable.
func (e *Engine[N]) randomUpdate(fixable []term.VarID) {
	if len(fixable) == 0 {
		return
	}
	e.randomIncDec(fixable)
}

// randomIncDec implements random_inc_dec: pick a random variable from
// fixable and nudge it by +-1, or to a random finite-domain value.
func (e *Engine[N]) randomIncDec(fixable []term.VarID) {
	if len(fixable) == 0 {
		return
	}
	v := fixable[e.ctx.RandN(len(fixable))]
	vr := e.ts.Var(v)

	if len(vr.FiniteDomain) > 0 {
		pick := vr.FiniteDomain[e.ctx.RandN(len(vr.FiniteDomain))]
		delta, err := pick.Sub(vr.Value())
		if err != nil {
			return
		}
		if newDelta, ok := e.IsPermittedUpdate(v, delta); ok {
			if newVal, err := vr.Value().Add(newDelta); err == nil {
				if e.Update(v, newVal) == nil {
					e.recordMove(v, newDelta)
				}
			}
		}
		return
	}

	one := vr.Value().FromInt(1)
	delta := one
	if e.ctx.RandN(2) == 0 {
		delta = one.Neg()
	}
	if newDelta, ok := e.IsPermittedUpdate(v, delta); ok {
		if newVal, err := vr.Value().Add(newDelta); err == nil {
			if e.Update(v, newVal) == nil {
				e.recordMove(v, newDelta)
			}
		}
	}
}
